package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/profile"
	"github.com/KevinKickass/OpenMDIB/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"gopkg.in/yaml.v3"
)

const monitorProfile = "../profile/testdata/bedside-monitor.yaml"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "", "--format", "xml", "profile", "validate", monitorProfile)
	assert.Error(t, err)
}

func TestProfileValidate(t *testing.T) {
	out, err := run(t, "", "profile", "validate", monitorProfile)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    "+monitorProfile)
	assert.Contains(t, out, "bedside-monitor")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("mds: []\n"), 0o600))
	out, err = run(t, "", "--format", "json", "profile", "validate", monitorProfile, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var results []ProfileResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.Positive(t, results[0].Descriptors)
	assert.False(t, results[1].Valid)
	assert.NotEmpty(t, results[1].Error)
}

func TestProfileInspect(t *testing.T) {
	out, err := run(t, "", "--format", "json", "profile", "inspect", monitorProfile)
	require.NoError(t, err)

	var doc struct {
		Descriptors []TreeNode `json:"descriptors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.NotEmpty(t, doc.Descriptors)
	assert.Equal(t, "mds0", doc.Descriptors[0].Handle)
	assert.Equal(t, 0, doc.Descriptors[0].Depth)
	for _, n := range doc.Descriptors {
		if n.Handle == "ecg.hr" {
			assert.Equal(t, "NumericMetricDescriptor", n.Type)
			assert.Equal(t, 3, n.Depth)
		}
	}

	_, err = run(t, "", "profile", "inspect", "missing.yaml")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "monitor.xml")
	binPath := filepath.Join(dir, "monitor.pb")
	backPath := filepath.Join(dir, "back.xml")

	_, err := run(t, "", "snapshot", "render", monitorProfile, "--sequence-id", "urn:uuid:cli", "-o", xmlPath)
	require.NoError(t, err)
	_, err = run(t, "", "snapshot", "encode", xmlPath, "-o", binPath)
	require.NoError(t, err)
	_, err = run(t, "", "snapshot", "decode", binPath, "-o", backPath)
	require.NoError(t, err)

	original, err := os.ReadFile(xmlPath)
	require.NoError(t, err)
	back, err := os.ReadFile(backPath)
	require.NoError(t, err)
	assert.Equal(t, string(original), string(back))

	out, err := run(t, "", "--format", "json", "snapshot", "show", binPath)
	require.NoError(t, err)
	var s SnapshotSummary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "urn:uuid:cli", s.SequenceID)
	assert.Positive(t, s.Descriptors)
	assert.Positive(t, s.States)
	assert.Zero(t, s.Rejected)
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pb")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0o600))
	_, err := run(t, "", "snapshot", "show", path)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = run(t, "", "snapshot", "show", filepath.Join(t.TempDir(), "absent.xml"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "secret\n", "auth", "hash-password", "--username", "nurse", "--role", "operator")
	require.NoError(t, err)

	var doc struct {
		Users []yamlUser `yaml:"users"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "nurse", doc.Users[0].Username)
	ok, err := auth.NewPasswordHasher().VerifyPassword("secret", doc.Users[0].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = run(t, "", "auth", "hash-password")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	_, err = run(t, "secret\n", "auth", "hash-password", "--role", "root")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMachineToken(t *testing.T) {
	out, err := run(t, "", "--format", "json", "auth", "machine-token", "--name", "gateway")
	require.NoError(t, err)
	var doc struct {
		Token string           `json:"token"`
		Entry yamlMachineToken `json:"entry"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "gateway", doc.Entry.Name)
	assert.Equal(t, auth.RoleViewer, doc.Entry.Role)
	assert.Equal(t, auth.NewMachineTokenGenerator().HashToken(doc.Token), doc.Entry.TokenHash)
}

func serveMonitor(t *testing.T) (*mdib.Mdib, string) {
	t.Helper()
	loader, err := profile.NewProfileLoader(nil)
	require.NoError(t, err)
	p, err := loader.Load(monitorProfile)
	require.NoError(t, err)
	composition, err := profile.NewComposer(zap.NewNop()).Compose(p)
	require.NoError(t, err)
	m := mdib.New(zap.NewNop(), mdib.WithSequenceID("urn:uuid:remote"))
	_, err = composition.Apply(m)
	require.NoError(t, err)

	streamer := provider.NewReportStreamer(m.Mapper(), 64, zap.NewNop())
	detach := streamer.Attach(m)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	require.NoError(t, provider.Register(srv, provider.NewProvider(m, streamer, nil, zap.NewNop())))
	go func() { _ = srv.Serve(lis) }()

	t.Cleanup(func() {
		detach()
		streamer.Close()
		srv.Stop()
	})
	return m, lis.Addr().String()
}

func setHeartRate(t *testing.T, m *mdib.Mdib, value string) {
	t.Helper()
	_, err := m.ModifyState("ecg.hr", func(s model.State) error {
		s.(*model.NumericMetricState).MetricValue = pmtypes.NewNumericMetricValue(value)
		return nil
	})
	require.NoError(t, err)
}

func TestFetch(t *testing.T) {
	m, addr := serveMonitor(t)
	setHeartRate(t, m, "64")

	out, err := run(t, "", "fetch", "--addr", addr)
	require.NoError(t, err)
	assert.Contains(t, out, `Handle="ecg.hr"`)
	assert.Contains(t, out, "urn:uuid:remote")

	out, err = run(t, "", "--format", "json", "fetch", "--addr", addr, "--states", "ecg.hr")
	require.NoError(t, err)
	var doc struct {
		SequenceID string      `json:"sequence_id"`
		States     []StateLine `json:"states"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.States, 1)
	assert.Equal(t, "64", doc.States[0].Value)
	assert.Equal(t, "urn:uuid:remote", doc.SequenceID)
}

func TestFetchUnreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	_, err = run(t, "", "fetch", "--addr", addr, "--timeout", "500ms")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestFollowPrintsChanges(t *testing.T) {
	m, addr := serveMonitor(t)

	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--format", "json", "follow", "--addr", addr, "--count", "2", "--actions", "EpisodicMetricReport"})
	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	deadline := time.After(10 * time.Second)
	for i := 0; ; i++ {
		select {
		case err := <-done:
			require.NoError(t, err)
			dec := json.NewDecoder(buf)
			var lines []ChangeLine
			for dec.More() {
				var l ChangeLine
				require.NoError(t, dec.Decode(&l))
				lines = append(lines, l)
			}
			require.Len(t, lines, 2)
			assert.Equal(t, "EpisodicMetricReport", lines[0].ReportType)
			assert.Equal(t, []string{"ecg.hr"}, lines[0].Handles)
			require.Len(t, lines[0].States, 1)
			assert.NotEmpty(t, lines[0].States[0].Value)
			return
		case <-deadline:
			t.Fatal("follow did not finish")
		case <-time.After(20 * time.Millisecond):
			setHeartRate(t, m, fmt.Sprintf("%d", 60+i%30))
		}
	}
}
