package consumer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
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
	} {
		desc, err := model.NewDescriptor(d.kind, d.handle, d.parent)
		require.NoError(t, err)
		descriptors = append(descriptors, desc)
	}
	m := mdib.New(zap.NewNop(), mdib.WithSequenceID("urn:uuid:remote"), mdib.WithInstanceID(3))
	_, err := m.ApplyDescriptionChanges([]mapping.ReportPart{{Modification: model.Create, Descriptors: descriptors}})
	require.NoError(t, err)
	return m
}

func setValue(t *testing.T, m *mdib.Mdib, handle, value string) {
	t.Helper()
	_, err := m.ModifyState(handle, func(s model.State) error {
		s.(*model.NumericMetricState).MetricValue = pmtypes.NewNumericMetricValue(value)
		return nil
	})
	require.NoError(t, err)
}

func value(m *mdib.Mdib, handle string) string {
	s, ok := m.State(handle)
	if !ok {
		return ""
	}
	ns, ok := s.(*model.NumericMetricState)
	if !ok || ns.MetricValue == nil {
		return ""
	}
	return prop.DecimalText(ns.MetricValue.Value)
}

type remote struct {
	mdib     *mdib.Mdib
	streamer *provider.ReportStreamer
	conn     *grpc.ClientConn
}

func serve(t *testing.T, m *mdib.Mdib) *remote {
	t.Helper()
	streamer := provider.NewReportStreamer(m.Mapper(), 16, zap.NewNop())
	detach := streamer.Attach(m)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	require.NoError(t, provider.Register(srv, provider.NewProvider(m, streamer, nil, zap.NewNop())))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		detach()
		streamer.Close()
		conn.Close()
		srv.Stop()
	})
	return &remote{mdib: m, streamer: streamer, conn: conn}
}

func connect(t *testing.T, r *remote) (*Consumer, *Session) {
	t.Helper()
	c := New(r.conn, mdib.New(zap.NewNop()), 16, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	s, err := c.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return c, s
}

func TestConnectMirrorsSnapshot(t *testing.T) {
	m := device(t)
	setValue(t, m, "hr", "72")
	r := serve(t, m)

	c, _ := connect(t, r)

	assert.Equal(t, m.Version(), c.Remote())
	assert.Equal(t, m.Len(), c.Mirror().Len())
	assert.Equal(t, "72", value(c.Mirror(), "hr"))
}

func TestSessionFollowsChanges(t *testing.T) {
	m := device(t)
	r := serve(t, m)
	c, _ := connect(t, r)

	setValue(t, m, "hr", "80")
	setValue(t, m, "hr", "81")
	require.Eventually(t, func() bool {
		return c.Remote() == m.Version()
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "81", value(c.Mirror(), "hr"))

	d, err := model.NewDescriptor(model.KindNumericMetricDescriptor, "rr", "ch")
	require.NoError(t, err)
	_, err = m.ApplyDescriptionChanges([]mapping.ReportPart{{ParentHandle: "ch", Modification: model.Create, Descriptors: []model.Descriptor{d}}})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := c.Mirror().Descriptor("rr")
		return ok
	}, 5*time.Second, 10*time.Millisecond)
	_, ok := c.Mirror().State("rr")
	assert.True(t, ok)
}

func TestSessionEndsWhenProviderStops(t *testing.T) {
	r := serve(t, device(t))
	_, s := connect(t, r)

	r.streamer.Close()
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
	assert.Equal(t, codes.Unavailable, status.Code(s.Err()))
}

func TestCloseEndsSessionQuietly(t *testing.T) {
	r := serve(t, device(t))
	_, s := connect(t, r)
	assert.NoError(t, s.Close())
}

func TestGetMdState(t *testing.T) {
	m := device(t)
	setValue(t, m, "hr", "64")
	r := serve(t, m)
	c := New(r.conn, mdib.New(zap.NewNop()), 0, zap.NewNop())

	g, states, err := c.GetMdState(context.Background(), "hr")
	require.NoError(t, err)
	assert.Equal(t, m.Version(), g)
	require.Len(t, states, 1)
	assert.Equal(t, "64", prop.DecimalText(states[0].(*model.NumericMetricState).MetricValue.Value))
}

func TestArchiveUnavailable(t *testing.T) {
	r := serve(t, device(t))
	c := New(r.conn, mdib.New(zap.NewNop()), 0, zap.NewNop())
	_, err := c.StatesFromArchive(context.Background(), mapping.ArchiveRequest{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestApplySkipsReportsInSnapshot(t *testing.T) {
	m := device(t)
	c := New(nil, m, 0, zap.NewNop())
	c.remote = m.Version()
	s := &Session{base: m.Version().MdibVersion}

	hr, ok := m.State("hr")
	require.True(t, ok)
	stale, err := model.CloneState(hr)
	require.NoError(t, err)
	stale.(*model.NumericMetricState).MetricValue = pmtypes.NewNumericMetricValue("1")

	before := m.Version()
	err = c.apply(s, mapping.Report{Version: before, Type: model.EpisodicMetricReport, States: []model.State{stale}}, mdib.Live)
	require.NoError(t, err)
	assert.Equal(t, before, m.Version(), "nothing applied")

	other := before
	other.SequenceID = "urn:uuid:other"
	err = c.apply(s, mapping.Report{Version: other, Type: model.EpisodicMetricReport}, mdib.Live)
	assert.ErrorIs(t, err, ErrSequenceChanged)
}

func TestApplyBufferedAcceptsEqualStateVersion(t *testing.T) {
	m := device(t)
	c := New(nil, m, 0, zap.NewNop())
	c.remote = m.Version()
	s := &Session{base: m.Version().MdibVersion}

	hr, _ := m.State("hr")
	same, err := model.CloneState(hr)
	require.NoError(t, err)
	same.(*model.NumericMetricState).MetricValue = pmtypes.NewNumericMetricValue("5")

	next := m.Version()
	next.MdibVersion++
	require.NoError(t, c.apply(s, mapping.Report{Version: next, Type: model.EpisodicMetricReport, States: []model.State{same}}, mdib.Live))
	assert.Equal(t, "", value(m, "hr"), "live mode drops an equal state version")

	require.NoError(t, c.apply(s, mapping.Report{Version: next, Type: model.EpisodicMetricReport, States: []model.State{same}}, mdib.Buffered))
	assert.Equal(t, "5", value(m, "hr"))
	assert.Equal(t, next.MdibVersion, c.Remote().MdibVersion)
}
