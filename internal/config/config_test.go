package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 50051, cfg.Server.GRPCPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 64, cfg.Mdib.ReportBuffer)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "openmdib", cfg.Auth.Issuer)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_port: 9090
mdib:
  profile_path: profiles/monitor.yaml
  sequence_id: urn:uuid:fixed
archive:
  enabled: true
auth:
  users:
    - username: nurse
      password_hash: $argon2id$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA
      role: operator
  machine_tokens:
    - name: gateway
      token_hash: abc
      role: viewer
`), 0o600))
	t.Setenv("OMDIB_SERVER_GRPC_PORT", "6000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 6000, cfg.Server.GRPCPort)
	assert.Equal(t, "profiles/monitor.yaml", cfg.Mdib.ProfilePath)
	assert.Equal(t, "urn:uuid:fixed", cfg.Mdib.SequenceID)
	assert.True(t, cfg.Archive.Enabled)
	require.Len(t, cfg.Auth.Users, 1)
	assert.Equal(t, "nurse", cfg.Auth.Users[0].Username)
	assert.Equal(t, "operator", cfg.Auth.Users[0].Role)
	require.Len(t, cfg.Auth.MachineTokens, 1)
	assert.Equal(t, "gateway", cfg.Auth.MachineTokens[0].Name)
}

func TestLoadRejectsBadBuffer(t *testing.T) {
	t.Setenv("OMDIB_MDIB_REPORT_BUFFER", "0")
	_, err := Load("")
	assert.Error(t, err)
}

func TestJWTSecret(t *testing.T) {
	a := AuthConfig{JWTSecretEnv: "OMDIB_TEST_SECRET"}
	assert.False(t, a.IsProductionReady())
	t.Setenv("OMDIB_TEST_SECRET", "0123456789abcdef0123456789abcdef")
	assert.True(t, a.IsProductionReady())
}
