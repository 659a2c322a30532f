package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBounds(t *testing.T) {
	q := Query{SequenceID: "s"}
	assert.Equal(t, uint64(1<<63-1), q.upper())
	assert.NotNil(t, q.handles())
	assert.Empty(t, q.handles())

	q = Query{To: 7, Handles: []string{"a"}}
	assert.Equal(t, uint64(7), q.upper())
	assert.Equal(t, []string{"a"}, q.handles())
}

func TestBatchEmpty(t *testing.T) {
	assert.True(t, Batch{}.Empty())
	assert.False(t, Batch{States: []StateRecord{{Handle: "x"}}}.Empty())
}

// TestArchiveRoundTrip needs a PostgreSQL database; it runs when
// OMDIB_TEST_DATABASE_HOST is set and uses the database.* configuration.
func TestArchiveRoundTrip(t *testing.T) {
	if os.Getenv("OMDIB_TEST_DATABASE_HOST") == "" {
		t.Skip("OMDIB_TEST_DATABASE_HOST not set")
	}
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Host = os.Getenv("OMDIB_TEST_DATABASE_HOST")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewPostgresClient(ctx, cfg.Database)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Migrate(ctx))

	seq := "urn:uuid:" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, client.SaveBatch(ctx, Batch{
		Descriptors: []DescriptorRecord{
			{SequenceID: seq, MdibVersion: 1, Handle: "hr", ParentHandle: "ch", TypeName: "NumericMetricDescriptor", Modification: "Crt", Payload: []byte{1}},
		},
		States: []StateRecord{
			{SequenceID: seq, MdibVersion: 1, Handle: "hr", DescriptorHandle: "hr", TypeName: "NumericMetricState", Payload: []byte{2}},
			{SequenceID: seq, MdibVersion: 5, Handle: "hr", DescriptorHandle: "hr", StateVersion: 1, TypeName: "NumericMetricState", Payload: []byte{3}},
		},
	}))

	descriptors, err := client.Descriptors(ctx, Query{SequenceID: seq})
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "ch", descriptors[0].ParentHandle)

	states, err := client.States(ctx, Query{SequenceID: seq, Handles: []string{"hr"}, From: 2})
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, uint64(5), states[0].MdibVersion)
	assert.Equal(t, []byte{3}, states[0].Payload)
}
