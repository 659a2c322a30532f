package metric

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGathersProviderMetrics(t *testing.T) {
	r := NewRegistry()
	r.Metrics.StateRecords.WithLabelValues(StateStale).Add(2)
	r.Metrics.ArchiveBatches.WithLabelValues(BatchDropped).Inc()
	r.Metrics.MdibVersion.Set(7)

	families, err := r.PrometheusRegistry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["openmdib_mdib_version"])
	assert.True(t, names["openmdib_mdib_state_records_total"])
	assert.True(t, names["openmdib_archive_batches_total"])

	assert.Equal(t, 2.0, Value(r.Metrics.StateRecords.WithLabelValues(StateStale)))
	assert.Equal(t, 7.0, Value(r.Metrics.MdibVersion))
}

func TestHandlerServesExposition(t *testing.T) {
	r := NewRegistry()
	r.Metrics.ArchiveBatches.WithLabelValues(BatchWritten).Inc()

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `openmdib_archive_batches_total{result="written"} 1`)
}
