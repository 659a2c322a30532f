package system

import (
	"context"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/KevinKickass/OpenMDIB/internal/consumer"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Auth.Issuer = "openmdib"
	cfg.Auth.AccessTokenTTL = time.Minute
	cfg.Mdib = config.MdibConfig{
		ProfilePath:        "bedside-monitor",
		ProfileSearchPaths: []string{"../profile/testdata"},
		SequenceID:         "urn:uuid:lifecycle",
		InstanceID:         7,
		ReportBuffer:       64,
		SimulationInterval: 10 * time.Millisecond,
	}
	return cfg
}

func TestValidateTransition(t *testing.T) {
	assert.NoError(t, ValidateTransition(StateInitializing, StateRunning))
	assert.NoError(t, ValidateTransition(StateRunning, StateStopping))
	assert.NoError(t, ValidateTransition(StateError, StateStopping))
	assert.Error(t, ValidateTransition(StateStopped, StateRunning))
	assert.Error(t, ValidateTransition(StateRunning, StateInitializing))
}

func TestNewLifecycleManagerComposesProfile(t *testing.T) {
	lm, err := NewLifecycleManager(testConfig(), zap.NewNop())
	require.NoError(t, err)

	require.NotNil(t, lm.Profile())
	assert.Equal(t, "bedside-monitor", lm.Profile().Info.ID)
	assert.Nil(t, lm.Archive())

	_, ok := lm.Mdib().Descriptor("ecg.hr")
	assert.True(t, ok)

	status := lm.GetCurrentStatus()
	assert.Equal(t, "INITIALIZING", status.State)
	assert.Equal(t, "urn:uuid:lifecycle", status.SequenceID)
	assert.Equal(t, "bedside-monitor", status.Profile)
	assert.False(t, status.Simulating)
}

func TestNewLifecycleManagerRejectsMissingProfile(t *testing.T) {
	cfg := testConfig()
	cfg.Mdib.ProfilePath = "absent"
	_, err := NewLifecycleManager(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestLifecycleServesAndShutsDown(t *testing.T) {
	lm, err := NewLifecycleManager(testConfig(), zap.NewNop())
	require.NoError(t, err)
	statuses := lm.SubscribeStatus()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, lm.Start(ctx))
	t.Cleanup(func() { _ = lm.Shutdown(context.Background()) })

	assert.Equal(t, StateRunning, (<-statuses).State)
	status := lm.GetCurrentStatus()
	assert.Equal(t, "RUNNING", status.State)
	assert.True(t, status.Simulating)

	conn, err := grpc.NewClient(lm.GRPCAddr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	c := consumer.New(conn, mdib.New(zap.NewNop()), 64, zap.NewNop())
	session, err := c.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "urn:uuid:lifecycle", c.Remote().SequenceID)
	assert.Equal(t, uint64(7), c.Remote().InstanceID)

	_, ok := c.Mirror().Descriptor("spo2.sat")
	require.True(t, ok)

	// The simulator keeps changing values; the mirror follows.
	start := c.Remote().MdibVersion
	require.Eventually(t, func() bool {
		return c.Remote().MdibVersion > start+2
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, lm.GetCurrentStatus().ReportSubscribers)

	hr, ok := c.Mirror().State("ecg.hr")
	require.True(t, ok)
	assert.NotNil(t, hr.(*model.NumericMetricState).MetricValue)

	require.NoError(t, lm.Shutdown(ctx))
	select {
	case <-lm.Done():
	default:
		t.Fatal("Done not closed after Shutdown")
	}
	select {
	case <-session.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer session survived provider shutdown")
	}
	assert.Error(t, session.Err())

	assert.Equal(t, StateStopping, (<-statuses).State)
	final := <-statuses
	assert.Equal(t, StateStopped, final.State)
	assert.Equal(t, StateStopping, final.Previous)
	assert.Equal(t, "STOPPED", lm.GetCurrentStatus().State)
	assert.False(t, lm.GetCurrentStatus().Simulating)

	// A second shutdown is a no-op.
	assert.NoError(t, lm.Shutdown(ctx))
}
