package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/api/websocket"
	"github.com/KevinKickass/OpenMDIB/internal/archive"
	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/KevinKickass/OpenMDIB/internal/interfaces"
	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/metric"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/profile"
	"github.com/KevinKickass/OpenMDIB/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

type fakeLifecycle struct {
	cfg      *config.Config
	mdib     *mdib.Mdib
	profile  *profile.Profile
	store    archive.Store
	metrics  *metric.Registry
	shutdown chan struct{}
}

func (f *fakeLifecycle) Config() *config.Config    { return f.cfg }
func (f *fakeLifecycle) Mdib() *mdib.Mdib          { return f.mdib }
func (f *fakeLifecycle) Profile() *profile.Profile { return f.profile }
func (f *fakeLifecycle) Archive() archive.Store    { return f.store }

func (f *fakeLifecycle) GetCurrentStatus() interfaces.SystemStatus {
	g := f.mdib.Version()
	return interfaces.SystemStatus{
		State:           "running",
		SequenceID:      g.SequenceID,
		MdibVersion:     g.MdibVersion,
		DescriptorCount: f.mdib.Len(),
	}
}

func (f *fakeLifecycle) MetricsHandler() http.Handler { return f.metrics.Handler() }

func (f *fakeLifecycle) Shutdown(ctx context.Context) error {
	close(f.shutdown)
	return nil
}

type fakeStore struct {
	states []storage.StateRecord
	last   storage.Query
}

func (s *fakeStore) SaveBatch(ctx context.Context, b storage.Batch) error { return nil }

func (s *fakeStore) Descriptors(ctx context.Context, q storage.Query) ([]storage.DescriptorRecord, error) {
	s.last = q
	return nil, nil
}

func (s *fakeStore) States(ctx context.Context, q storage.Query) ([]storage.StateRecord, error) {
	s.last = q
	return s.states, nil
}

type fixture struct {
	lm      *fakeLifecycle
	handler http.Handler
	tokens  map[string]string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gen := auth.NewMachineTokenGenerator()
	tokens := make(map[string]string)
	var machines []config.MachineTokenConfig
	for _, role := range []string{auth.RoleViewer, auth.RoleOperator, auth.RoleAdmin} {
		token, hash, err := gen.GenerateMachineToken()
		require.NoError(t, err)
		tokens[role] = token
		machines = append(machines, config.MachineTokenConfig{Name: role, TokenHash: hash, Role: role})
	}
	hash, err := auth.NewPasswordHasher().HashPassword("secret")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Auth = config.AuthConfig{
		Issuer:         "openmdib",
		AccessTokenTTL: time.Minute,
		Users:          []config.UserConfig{{Username: "nurse", PasswordHash: hash, Role: auth.RoleOperator}},
		MachineTokens:  machines,
	}
	authService, err := auth.NewAuthService(cfg.Auth, zap.NewNop())
	require.NoError(t, err)

	metrics := metric.NewRegistry()
	m := mdib.New(zap.NewNop(), mdib.WithSequenceID("urn:uuid:rest"), mdib.WithMetrics(metrics.Metrics))
	var descriptors []model.Descriptor
	for _, d := range []struct {
		kind           model.Kind
		handle, parent string
	}{
		{model.KindMdsDescriptor, "mds", ""},
		{model.KindVmdDescriptor, "vmd", "mds"},
		{model.KindChannelDescriptor, "ch", "vmd"},
		{model.KindNumericMetricDescriptor, "hr", "ch"},
		{model.KindStringMetricDescriptor, "note", "ch"},
	} {
		desc, err := model.NewDescriptor(d.kind, d.handle, d.parent)
		require.NoError(t, err)
		descriptors = append(descriptors, desc)
	}
	_, err = m.ApplyDescriptionChanges([]mapping.ReportPart{{Modification: model.Create, Descriptors: descriptors}})
	require.NoError(t, err)

	hub := websocket.NewHub(zap.NewNop(), authService, m.Mapper())
	lm := &fakeLifecycle{cfg: cfg, mdib: m, metrics: metrics, shutdown: make(chan struct{})}
	srv := NewServer(cfg, lm, zap.NewNop(), hub, authService)
	return &fixture{lm: lm, handler: srv.Handler(), tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, path, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+f.tokens[role])
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthIsPublic(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestMdibRequiresAuth(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/api/v1/mdib", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"nurse","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"nurse","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.TokenType)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode(t, rec)
	assert.Equal(t, "nurse", me["name"])
	assert.Equal(t, auth.RoleOperator, me["role"])
}

func TestGetMdibFormats(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/api/v1/mdib", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "urn:uuid:rest", body["sequence_id"])
	assert.EqualValues(t, 5, body["descriptor_count"])

	w = f.do(t, http.MethodGet, "/api/v1/mdib?format=xml", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), `Handle="hr"`)

	w = f.do(t, http.MethodGet, "/api/v1/mdib?format=protojson", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "urn:uuid:rest")

	w = f.do(t, http.MethodGet, "/api/v1/mdib?format=yaml", auth.RoleViewer, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDescriptorsByKind(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/api/v1/mdib/descriptors?kind=NumericMetricDescriptor", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.EqualValues(t, 1, body["count"])
	first := body["descriptors"].([]any)[0].(map[string]any)
	assert.Equal(t, "hr", first["handle"])
	assert.Equal(t, "ch", first["parent_handle"])

	w = f.do(t, http.MethodGet, "/api/v1/mdib/descriptors?kind=NumericMetricState", auth.RoleViewer, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/mdib/descriptors", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, decode(t, w)["count"])
}

func TestDescriptorAndChildren(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/api/v1/mdib/descriptors/hr", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hr"`)

	w = f.do(t, http.MethodGet, "/api/v1/mdib/descriptors/ch/children", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["children"], 2)

	w = f.do(t, http.MethodGet, "/api/v1/mdib/descriptors/missing", auth.RoleViewer, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MDIB_404", decode(t, w)["error"].(map[string]any)["code"])
}

func TestPatchState(t *testing.T) {
	f := setup(t)
	before := f.lm.mdib.Version().MdibVersion

	w := f.do(t, http.MethodPatch, "/api/v1/mdib/states/hr", auth.RoleViewer, `{"value":"72"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPatch, "/api/v1/mdib/states/hr", auth.RoleOperator, `{"value":"72"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "72")

	st, ok := f.lm.mdib.State("hr")
	require.True(t, ok)
	ns := st.(*model.NumericMetricState)
	require.NotNil(t, ns.MetricValue)
	assert.Equal(t, "72", ns.MetricValue.Value.String())
	assert.Equal(t, pmtypes.ValidityValid, ns.MetricValue.MetricQuality.Validity)
	assert.Greater(t, f.lm.mdib.Version().MdibVersion, before)

	w = f.do(t, http.MethodPatch, "/api/v1/mdib/states/note", auth.RoleOperator, `{"value":"calm"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st, _ = f.lm.mdib.State("note")
	assert.Equal(t, "calm", *st.(*model.StringMetricState).MetricValue.Value)
}

func TestPatchStateRejectsBadInput(t *testing.T) {
	f := setup(t)
	before := f.lm.mdib.Version().MdibVersion

	cases := []struct {
		name, path, body string
		status           int
	}{
		{"not a decimal", "/api/v1/mdib/states/hr", `{"value":"fast"}`, http.StatusBadRequest},
		{"unknown property", "/api/v1/mdib/states/hr", `{"properties":{"Bogus":"1"}}`, http.StatusBadRequest},
		{"empty body", "/api/v1/mdib/states/hr", `{}`, http.StatusBadRequest},
		{"value on a container", "/api/v1/mdib/states/ch", `{"value":"1"}`, http.StatusBadRequest},
		{"unknown state", "/api/v1/mdib/states/missing", `{"value":"1"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, http.MethodPatch, tc.path, auth.RoleOperator, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, before, f.lm.mdib.Version().MdibVersion)
}

func TestArchiveDisabled(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/api/v1/mdib/archive/states", auth.RoleViewer, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestArchivedStates(t *testing.T) {
	f := setup(t)
	st, ok := f.lm.mdib.State("hr")
	require.True(t, ok)
	ns := st.(*model.NumericMetricState)
	ns.MetricValue = pmtypes.NewNumericMetricValue("61")
	union, err := f.lm.mdib.Mapper().EncodeUnion(ns, "AbstractState")
	require.NoError(t, err)
	payload, err := proto.Marshal(union)
	require.NoError(t, err)

	store := &fakeStore{states: []storage.StateRecord{{
		SequenceID:       "urn:uuid:rest",
		MdibVersion:      4,
		Handle:           "hr",
		DescriptorHandle: "hr",
		TypeName:         "NumericMetricState",
		Payload:          payload,
	}}}
	f.lm.store = store

	w := f.do(t, http.MethodGet, "/api/v1/mdib/archive/states?handles=hr,spo2&from=2&to=9", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, storage.Query{SequenceID: "urn:uuid:rest", Handles: []string{"hr", "spo2"}, From: 2, To: 9}, store.last)
	body := decode(t, w)
	require.EqualValues(t, 1, body["count"])
	assert.Contains(t, w.Body.String(), "61")

	w = f.do(t, http.MethodGet, "/api/v1/mdib/archive/descriptors?from=9&to=2", auth.RoleViewer, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/api/v1/profile", auth.RoleViewer, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.lm.profile = &profile.Profile{Info: profile.Info{ID: "monitor-1", Vendor: "Acme"}}
	w = f.do(t, http.MethodGet, "/api/v1/profile", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "monitor-1", decode(t, w)["device_profile"].(map[string]any)["id"])
}

func TestListProfiles(t *testing.T) {
	f := setup(t)
	f.lm.cfg.Mdib.ProfileSearchPaths = []string{"../../profile/testdata"}
	w := f.do(t, http.MethodGet, "/api/v1/profiles", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	require.EqualValues(t, 1, body["count"])
	first := body["profiles"].([]any)[0].(map[string]any)
	assert.Equal(t, "bedside-monitor", first["name"])
}

func TestSystemStatusAndShutdown(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/api/v1/system/status", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", decode(t, w)["state"])

	w = f.do(t, http.MethodPost, "/api/v1/system/shutdown", auth.RoleOperator, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/system/shutdown", auth.RoleAdmin, "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	select {
	case <-f.lm.shutdown:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown was not triggered")
	}
}

func TestSystemMetrics(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/api/v1/system/metrics", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPatch, "/api/v1/mdib/states/hr", auth.RoleOperator, `{"value":"72"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/system/metrics", auth.RoleViewer, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, fmt.Sprintf("openmdib_mdib_version %d", f.lm.mdib.Version().MdibVersion))
	assert.Contains(t, body, `openmdib_mdib_state_records_total{outcome="applied"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodOptions, "/api/v1/mdib", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
