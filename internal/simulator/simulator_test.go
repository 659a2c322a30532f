package simulator

import (
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/profile"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func device(t *testing.T) *mdib.Mdib {
	t.Helper()
	var descriptors []model.Descriptor
	for _, d := range []struct {
		kind           model.Kind
		handle, parent string
	}{
		{model.KindMdsDescriptor, "mds", ""},
		{model.KindVmdDescriptor, "vmd", "mds"},
		{model.KindChannelDescriptor, "ch", "vmd"},
		{model.KindNumericMetricDescriptor, "hr", "ch"},
		{model.KindStringMetricDescriptor, "txt", "ch"},
	} {
		desc, err := model.NewDescriptor(d.kind, d.handle, d.parent)
		require.NoError(t, err)
		descriptors = append(descriptors, desc)
	}
	m := mdib.New(zap.NewNop())
	_, err := m.ApplyDescriptionChanges([]mapping.ReportPart{{Modification: model.Create, Descriptors: descriptors}})
	require.NoError(t, err)
	return m
}

func metric(handle, min, max, step string) profile.SimulatedMetric {
	return profile.SimulatedMetric{
		Handle: handle,
		Min:    prop.MustDecimal(min),
		Max:    prop.MustDecimal(max),
		Step:   prop.MustDecimal(step),
	}
}

func value(t *testing.T, m *mdib.Mdib, handle string) string {
	t.Helper()
	s, ok := m.State(handle)
	require.True(t, ok)
	ns := s.(*model.NumericMetricState)
	require.NotNil(t, ns.MetricValue)
	return prop.DecimalText(ns.MetricValue.Value)
}

func TestTickBouncesBetweenBounds(t *testing.T) {
	m := device(t)
	sim := New(m, []profile.SimulatedMetric{metric("hr", "1", "2", "0.5")}, time.Second, zap.NewNop())
	sim.now = func() time.Time { return time.UnixMilli(1700000000000) }

	var got []string
	for i := 0; i < 6; i++ {
		sim.Tick()
		got = append(got, value(t, m, "hr"))
	}
	assert.Equal(t, []string{"1", "1.5", "2", "1.5", "1", "1.5"}, got)

	s, _ := m.State("hr")
	ns := s.(*model.NumericMetricState)
	assert.Equal(t, uint64(6), ns.StateVersion)
	require.NotNil(t, ns.MetricValue.DeterminationTime)
	assert.Equal(t, uint64(1700000000000), *ns.MetricValue.DeterminationTime)
}

func TestTickPublishesMetricReports(t *testing.T) {
	m := device(t)
	var reports []model.ReportType
	unsubscribe := m.Subscribe(func(cs mdib.ChangeSet) { reports = append(reports, cs.Type) })
	defer unsubscribe()

	sim := New(m, []profile.SimulatedMetric{metric("hr", "0", "10", "1")}, time.Second, zap.NewNop())
	sim.Tick()
	sim.Tick()
	assert.Equal(t, []model.ReportType{model.EpisodicMetricReport, model.EpisodicMetricReport}, reports)
}

func TestTickSkipsBrokenMetrics(t *testing.T) {
	m := device(t)
	sim := New(m, []profile.SimulatedMetric{
		metric("txt", "0", "1", "1"),
		metric("missing", "0", "1", "1"),
		metric("hr", "5", "6", "1"),
	}, time.Second, zap.NewNop())

	sim.Tick()
	assert.Equal(t, "5", value(t, m, "hr"))
	s, _ := m.State("txt")
	assert.Equal(t, uint64(0), s.StateBase().StateVersion)
}

func TestStepWiderThanRange(t *testing.T) {
	ch := &channel{metric: metric("x", "0", "1", "5")}
	v, err := ch.next(nil)
	require.NoError(t, err)
	assert.Equal(t, "0", prop.DecimalText(v))
	v, err = ch.next(v)
	require.NoError(t, err)
	assert.Equal(t, "0", prop.DecimalText(v))
}

func TestStartStop(t *testing.T) {
	m := device(t)
	sim := New(m, []profile.SimulatedMetric{metric("hr", "0", "100", "1")}, 5*time.Millisecond, zap.NewNop())
	require.NoError(t, sim.Start())
	require.NoError(t, sim.Start())
	assert.True(t, sim.IsRunning())

	require.Eventually(t, func() bool {
		s, _ := m.State("hr")
		return s.StateBase().StateVersion >= 2
	}, time.Second, 5*time.Millisecond)

	sim.Stop()
	assert.False(t, sim.IsRunning())
	sim.Stop()

	idle := New(m, nil, time.Millisecond, zap.NewNop())
	require.NoError(t, idle.Start())
	assert.False(t, idle.IsRunning())
}
