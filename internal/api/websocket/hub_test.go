package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	mdib  *mdib.Mdib
	hub   *Hub
	url   string
	token string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	token, hash, err := auth.NewMachineTokenGenerator().GenerateMachineToken()
	require.NoError(t, err)
	authService, err := auth.NewAuthService(config.AuthConfig{
		Issuer:        "openmdib",
		MachineTokens: []config.MachineTokenConfig{{Name: "monitor", TokenHash: hash, Role: auth.RoleViewer}},
	}, zap.NewNop())
	require.NoError(t, err)

	m := mdib.New(zap.NewNop())
	var descriptors []model.Descriptor
	for _, d := range []struct {
		kind           model.Kind
		handle, parent string
	}{
		{model.KindMdsDescriptor, "mds", ""},
		{model.KindVmdDescriptor, "vmd", "mds"},
		{model.KindChannelDescriptor, "ch", "vmd"},
		{model.KindNumericMetricDescriptor, "hr", "ch"},
	} {
		desc, err := model.NewDescriptor(d.kind, d.handle, d.parent)
		require.NoError(t, err)
		descriptors = append(descriptors, desc)
	}
	_, err = m.ApplyDescriptionChanges([]mapping.ReportPart{{Modification: model.Create, Descriptors: descriptors}})
	require.NoError(t, err)

	hub := NewHub(zap.NewNop(), authService, m.Mapper())
	go hub.Run()
	detach := hub.Attach(m)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	t.Cleanup(func() {
		detach()
		hub.Stop()
		srv.Close()
	})
	return &fixture{mdib: m, hub: hub, url: "ws" + strings.TrimPrefix(srv.URL, "http"), token: token}
}

func dial(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func login(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()
	conn := dial(t, f)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTypeAuth, Token: f.token}))
	msg := read(t, conn)
	require.Equal(t, string(MessageTypeAuthSuccess), msg["type"])
	require.Eventually(t, func() bool { return f.hub.GetClientCount() == 1 }, 5*time.Second, 10*time.Millisecond)
	return conn
}

func setValue(t *testing.T, m *mdib.Mdib, value string) {
	t.Helper()
	_, err := m.ModifyState("hr", func(s model.State) error {
		s.(*model.NumericMetricState).MetricValue = pmtypes.NewNumericMetricValue(value)
		return nil
	})
	require.NoError(t, err)
}

func TestAuthRequired(t *testing.T) {
	f := setup(t)

	conn := dial(t, f)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTypeSubscribe}))
	assert.Equal(t, string(MessageTypeAuthFailed), read(t, conn)["type"])

	conn = dial(t, f)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTypeAuth, Token: "omdib_nope"}))
	assert.Equal(t, string(MessageTypeAuthFailed), read(t, conn)["type"])
	assert.Equal(t, 0, f.hub.GetClientCount())
}

func TestReportsAreBroadcast(t *testing.T) {
	f := setup(t)
	conn := login(t, f)

	setValue(t, f.mdib, "70")
	msg := read(t, conn)
	assert.Equal(t, string(MessageTypeReport), msg["type"])

	var data ReportData
	raw, err := json.Marshal(msg["data"])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, "EpisodicMetricReport", data.ReportType)
	assert.Equal(t, f.mdib.Version().MdibVersion, data.MdibVersion)
	assert.Equal(t, []string{"hr"}, data.Handles)
	assert.Contains(t, string(data.Report), "a_mdib_version_group")
}

func TestSubscriptionFilters(t *testing.T) {
	f := setup(t)
	conn := login(t, f)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTypeSubscribe, Actions: []string{"DescriptionModificationReport"}}))

	// A system message sent after the metric change proves the report was
	// filtered out.
	require.Eventually(t, func() bool {
		for c := range snapshotClients(f.hub) {
			return !c.wants(model.EpisodicMetricReport)
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	setValue(t, f.mdib, "71")
	f.hub.Broadcast(NewSystemStateMessage("running", "starting"))

	msg := read(t, conn)
	assert.Equal(t, string(MessageTypeSystemState), msg["type"])
}

func TestStopClosesClients(t *testing.T) {
	f := setup(t)
	conn := login(t, f)
	f.hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func snapshotClients(h *Hub) map[*Client]bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[*Client]bool, len(h.clients))
	for c := range h.clients {
		out[c] = true
	}
	return out
}
