package provider

import (
	"context"
	"net"
	"testing"
	"time"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/archive"
	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/storage"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
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
		{model.KindNumericMetricDescriptor, "spo2", "ch"},
	} {
		desc, err := model.NewDescriptor(d.kind, d.handle, d.parent)
		require.NoError(t, err)
		descriptors = append(descriptors, desc)
	}
	m := mdib.New(zap.NewNop(), mdib.WithSequenceID("urn:uuid:test"))
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

type fakeArchive struct {
	descriptors []storage.DescriptorRecord
	states      []storage.StateRecord
	last        storage.Query
}

func (f *fakeArchive) SaveBatch(ctx context.Context, b storage.Batch) error { return nil }

func (f *fakeArchive) Descriptors(ctx context.Context, q storage.Query) ([]storage.DescriptorRecord, error) {
	f.last = q
	return f.descriptors, nil
}

func (f *fakeArchive) States(ctx context.Context, q storage.Query) ([]storage.StateRecord, error) {
	f.last = q
	return f.states, nil
}

type harness struct {
	mdib     *mdib.Mdib
	streamer *ReportStreamer
	conn     *grpc.ClientConn
}

func serve(t *testing.T, m *mdib.Mdib, store *fakeArchive, buffer int) *harness {
	t.Helper()
	streamer := NewReportStreamer(m.Mapper(), buffer, zap.NewNop())
	detach := streamer.Attach(m)

	var st archive.Store
	if store != nil {
		st = store
	}
	p := NewProvider(m, streamer, st, zap.NewNop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryLogger(zap.NewNop())),
		grpc.ChainStreamInterceptor(StreamLogger(zap.NewNop())),
	)
	require.NoError(t, Register(srv, p))
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
	return &harness{mdib: m, streamer: streamer, conn: conn}
}

func newMsg(t *testing.T, name string) *dynamicpb.Message {
	t.Helper()
	msg, err := pb.Default().NewMessage(name)
	require.NoError(t, err)
	return msg
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestGetMdib(t *testing.T) {
	m := device(t)
	setValue(t, m, "hr", "72")
	h := serve(t, m, nil, 4)

	resp := newMsg(t, pb.GetMdibResponse)
	err := h.conn.Invoke(ctx(t), pb.FullMethod(pb.GetService, pb.MethodGetMdib), newMsg(t, pb.GetMdibRequest), resp)
	require.NoError(t, err)

	snap, err := m.Mapper().DecodeGetMdibResponse(resp)
	require.NoError(t, err)
	mirror := mdib.New(zap.NewNop())
	_, err = mirror.ReadSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, m.Version(), mirror.Version())
	assert.Equal(t, m.Len(), mirror.Len())
	s, ok := mirror.State("hr")
	require.True(t, ok)
	assert.Equal(t, uint64(1), s.StateBase().StateVersion)
}

func TestGetMdStateFiltersByHandle(t *testing.T) {
	m := device(t)
	h := serve(t, m, nil, 4)
	mapper := m.Mapper()

	req, err := mapper.EncodeHandleRequest(pb.GetMdStateRequest, []string{"spo2"})
	require.NoError(t, err)
	resp := newMsg(t, pb.GetMdStateResponse)
	require.NoError(t, h.conn.Invoke(ctx(t), pb.FullMethod(pb.GetService, pb.MethodGetMdState), req, resp))

	g, part, err := mapper.DecodeVersionedResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, m.Version(), g)
	states, _, err := mapper.DecodeStateList(part)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "spo2", states[0].StateBase().DescriptorHandle)
}

func TestGetMdDescription(t *testing.T) {
	m := device(t)
	h := serve(t, m, nil, 4)
	mapper := m.Mapper()

	req, err := mapper.EncodeHandleRequest(pb.GetMdDescriptionRequest, nil)
	require.NoError(t, err)
	resp := newMsg(t, pb.GetMdDescriptionResponse)
	require.NoError(t, h.conn.Invoke(ctx(t), pb.FullMethod(pb.GetService, pb.MethodGetMdDescription), req, resp))

	_, part, err := mapper.DecodeVersionedResponse(resp)
	require.NoError(t, err)
	var handles []string
	_, err = mapper.DecodeDescription(part, func(d model.Descriptor) error {
		handles = append(handles, d.DescriptorBase().Handle)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mds", "vmd", "ch", "hr", "spo2"}, handles)
}

func openReports(t *testing.T, h *harness, actions ...model.ReportType) grpc.ClientStream {
	t.Helper()
	req, err := h.mdib.Mapper().EncodeReportRequest(actions)
	require.NoError(t, err)
	stream, err := h.conn.NewStream(ctx(t), &grpc.StreamDesc{ServerStreams: true},
		pb.FullMethod(pb.ReportingService, pb.MethodEpisodicReport))
	require.NoError(t, err)
	require.NoError(t, stream.SendMsg(req))
	require.NoError(t, stream.CloseSend())

	header, err := stream.Header()
	require.NoError(t, err)
	require.Len(t, header.Get(SubscriptionHeader), 1)
	return stream
}

func recvReport(t *testing.T, h *harness, stream grpc.ClientStream) mapping.Report {
	t.Helper()
	msg := newMsg(t, pb.EpisodicReportMsg)
	require.NoError(t, stream.RecvMsg(msg))
	r, err := h.mdib.Mapper().DecodeReport(msg)
	require.NoError(t, err)
	return r
}

func TestEpisodicReportStreamsChanges(t *testing.T) {
	m := device(t)
	h := serve(t, m, nil, 8)
	stream := openReports(t, h, model.EpisodicMetricReport)
	require.Equal(t, 1, h.streamer.Len())

	setValue(t, m, "hr", "60")
	setValue(t, m, "spo2", "97")

	first := recvReport(t, h, stream)
	second := recvReport(t, h, stream)
	assert.Equal(t, model.EpisodicMetricReport, first.Type)
	assert.Equal(t, first.Version.MdibVersion+1, second.Version.MdibVersion)
	require.Len(t, second.States, 1)
	assert.Equal(t, "spo2", second.States[0].StateBase().DescriptorHandle)
}

func TestEpisodicReportHonoursActionFilter(t *testing.T) {
	m := device(t)
	h := serve(t, m, nil, 8)
	stream := openReports(t, h, model.DescriptionModificationReport)

	setValue(t, m, "hr", "60")
	d, err := model.NewDescriptor(model.KindNumericMetricDescriptor, "rr", "ch")
	require.NoError(t, err)
	_, err = m.ApplyDescriptionChanges([]mapping.ReportPart{{ParentHandle: "ch", Modification: model.Create, Descriptors: []model.Descriptor{d}}})
	require.NoError(t, err)

	r := recvReport(t, h, stream)
	assert.Equal(t, model.DescriptionModificationReport, r.Type)
	require.Len(t, r.Parts, 1)
	assert.Equal(t, "rr", r.Parts[0].Descriptors[0].DescriptorBase().Handle)
}

func TestEpisodicReportRejectsUnknownAction(t *testing.T) {
	m := device(t)
	h := serve(t, m, nil, 8)

	req := newMsg(t, pb.EpisodicReportRequest)
	fd := req.Descriptor().Fields().ByName("action")
	req.Mutable(fd).List().Append(protoreflect.ValueOfString("NO_SUCH_REPORT"))

	stream, err := h.conn.NewStream(ctx(t), &grpc.StreamDesc{ServerStreams: true},
		pb.FullMethod(pb.ReportingService, pb.MethodEpisodicReport))
	require.NoError(t, err)
	require.NoError(t, stream.SendMsg(req))
	require.NoError(t, stream.CloseSend())

	err = stream.RecvMsg(newMsg(t, pb.EpisodicReportMsg))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestLaggingSubscriberIsDropped(t *testing.T) {
	m := device(t)
	streamer := NewReportStreamer(m.Mapper(), 1, zap.NewNop())
	defer streamer.Attach(m)()

	sub := streamer.Subscribe(nil)
	setValue(t, m, "hr", "60")
	setValue(t, m, "hr", "61")

	assert.True(t, sub.Lagged())
	assert.Equal(t, 0, streamer.Len())
	_, ok := <-sub.C
	assert.True(t, ok, "the queued report stays readable")
	_, ok = <-sub.C
	assert.False(t, ok)
}

func TestStreamerClose(t *testing.T) {
	m := device(t)
	streamer := NewReportStreamer(m.Mapper(), 4, zap.NewNop())
	sub := streamer.Subscribe(nil)
	streamer.Close()

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.False(t, sub.Lagged())

	late := streamer.Subscribe(nil)
	_, ok = <-late.C
	assert.False(t, ok)
}

func TestArchiveDisabled(t *testing.T) {
	h := serve(t, device(t), nil, 4)
	req, err := h.mdib.Mapper().EncodeArchiveRequest(pb.GetStatesFromArchiveRequest, mapping.ArchiveRequest{})
	require.NoError(t, err)
	err = h.conn.Invoke(ctx(t), pb.FullMethod(pb.ArchiveService, pb.MethodGetStates), req, newMsg(t, pb.GetStatesFromArchiveResponse))
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestGetStatesFromArchive(t *testing.T) {
	m := device(t)
	mapper := m.Mapper()
	s, ok := m.State("hr")
	require.True(t, ok)
	payload, err := mapper.EncodeUnion(s, "AbstractState")
	require.NoError(t, err)
	raw, err := proto.Marshal(payload)
	require.NoError(t, err)

	store := &fakeArchive{states: []storage.StateRecord{
		{SequenceID: "urn:uuid:test", MdibVersion: 3, Handle: "hr", DescriptorHandle: "hr", TypeName: s.TypeName(), Payload: raw},
	}}
	h := serve(t, m, store, 4)

	req, err := mapper.EncodeArchiveRequest(pb.GetStatesFromArchiveRequest, mapping.ArchiveRequest{Handles: []string{"hr"}, From: 2, To: 9})
	require.NoError(t, err)
	resp := newMsg(t, pb.GetStatesFromArchiveResponse)
	require.NoError(t, h.conn.Invoke(ctx(t), pb.FullMethod(pb.ArchiveService, pb.MethodGetStates), req, resp))

	assert.Equal(t, storage.Query{SequenceID: "urn:uuid:test", Handles: []string{"hr"}, From: 2, To: 9}, store.last)
	entries, err := mapper.DecodeArchivedStates(resp)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(3), entries[0].MdibVersion)
	assert.Equal(t, "hr", entries[0].State.StateBase().DescriptorHandle)
}

func TestGetDescriptorsFromArchiveRejectsEmptyRange(t *testing.T) {
	h := serve(t, device(t), &fakeArchive{}, 4)
	req, err := h.mdib.Mapper().EncodeArchiveRequest(pb.GetDescriptorsFromArchiveRequest, mapping.ArchiveRequest{From: 9, To: 2})
	require.NoError(t, err)
	err = h.conn.Invoke(ctx(t), pb.FullMethod(pb.ArchiveService, pb.MethodGetDescriptors), req, newMsg(t, pb.GetDescriptorsFromArchiveResponse))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestStatusFor(t *testing.T) {
	assert.NoError(t, statusFor(nil))
	assert.Equal(t, codes.NotFound, status.Code(statusFor(types.NotFound("test", "state %s", "x"))))
	assert.Equal(t, codes.Canceled, status.Code(statusFor(context.Canceled)))
	assert.Equal(t, codes.Internal, status.Code(statusFor(assert.AnError)))
	assert.Equal(t, codes.Unavailable, status.Code(statusFor(status.Error(codes.Unavailable, "x"))))
}
