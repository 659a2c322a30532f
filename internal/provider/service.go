// Package provider serves an MDIB over gRPC: snapshot reads, episodic
// report streams and the version archive.
package provider

import (
	"context"
	"errors"
	"fmt"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/archive"
	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/storage"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// SubscriptionHeader carries the subscription id in the response header
// of an EpisodicReport stream. The header is sent once the subscription is
// registered, so a client that has received it sees every later change.
const SubscriptionHeader = "mdib-subscription-id"

type Provider struct {
	mdib     *mdib.Mdib
	mapper   *mapping.Mapper
	streamer *ReportStreamer
	archive  archive.Store
	logger   *zap.Logger
}

// NewProvider serves m. store may be nil, in which case the archive methods
// answer Unimplemented.
func NewProvider(m *mdib.Mdib, streamer *ReportStreamer, store archive.Store, logger *zap.Logger) *Provider {
	return &Provider{
		mdib:     m,
		mapper:   m.Mapper(),
		streamer: streamer,
		archive:  store,
		logger:   logger,
	}
}

func (p *Provider) GetMdib(ctx context.Context, req protoreflect.Message) (proto.Message, error) {
	snap, err := p.mdib.WriteSnapshot()
	if err != nil {
		return nil, err
	}
	return p.mapper.EncodeGetMdibResponse(snap)
}

func (p *Provider) GetMdDescription(ctx context.Context, req protoreflect.Message) (proto.Message, error) {
	handles, err := p.mapper.DecodeHandleRequest(req)
	if err != nil {
		return nil, err
	}
	desc, g, err := p.mdib.WriteDescription(handles...)
	if err != nil {
		return nil, err
	}
	return p.mapper.EncodeVersionedResponse(pb.GetMdDescriptionResponse, g, desc)
}

func (p *Provider) GetMdState(ctx context.Context, req protoreflect.Message) (proto.Message, error) {
	handles, err := p.mapper.DecodeHandleRequest(req)
	if err != nil {
		return nil, err
	}
	states, g, err := p.mdib.WriteStates(handles...)
	if err != nil {
		return nil, err
	}
	return p.mapper.EncodeVersionedResponse(pb.GetMdStateResponse, g, states)
}

// EpisodicReport streams reports of the requested types until the client
// goes away, the subscriber falls behind or the provider shuts down.
func (p *Provider) EpisodicReport(req protoreflect.Message, stream grpc.ServerStream) error {
	actions, err := p.mapper.DecodeReportRequest(req)
	if err != nil {
		return err
	}

	sub := p.streamer.Subscribe(actions)
	defer p.streamer.Unsubscribe(sub)

	if err := stream.SendHeader(metadata.Pairs(SubscriptionHeader, sub.ID.String())); err != nil {
		return err
	}

	p.logger.Info("Report stream opened",
		zap.String("subscription", sub.ID.String()),
		zap.Int("actions", len(actions)))

	ctx := stream.Context()
	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				if sub.Lagged() {
					return status.Error(codes.ResourceExhausted, "subscriber fell behind")
				}
				return status.Error(codes.Unavailable, "provider shutting down")
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		case <-ctx.Done():
			p.logger.Info("Report stream closed", zap.String("subscription", sub.ID.String()))
			return ctx.Err()
		}
	}
}

func (p *Provider) query(req protoreflect.Message) (storage.Query, error) {
	if p.archive == nil {
		return storage.Query{}, status.Error(codes.Unimplemented, "archive disabled")
	}
	r, err := p.mapper.DecodeArchiveRequest(req)
	if err != nil {
		return storage.Query{}, err
	}
	return storage.Query{
		SequenceID: p.mdib.Version().SequenceID,
		Handles:    r.Handles,
		From:       r.From,
		To:         r.To,
	}, nil
}

func (p *Provider) GetDescriptorsFromArchive(ctx context.Context, req protoreflect.Message) (proto.Message, error) {
	q, err := p.query(req)
	if err != nil {
		return nil, err
	}
	records, err := p.archive.Descriptors(ctx, q)
	if err != nil {
		return nil, err
	}
	entries := make([]mapping.ArchivedDescriptor, 0, len(records))
	for _, rec := range records {
		d, err := archive.DecodeDescriptor(p.mapper, rec)
		if err != nil {
			return nil, fmt.Errorf("archived descriptor %s@%d: %w", rec.Handle, rec.MdibVersion, err)
		}
		entries = append(entries, mapping.ArchivedDescriptor{MdibVersion: rec.MdibVersion, Descriptor: d})
	}
	return p.mapper.EncodeArchivedDescriptors(entries)
}

func (p *Provider) GetStatesFromArchive(ctx context.Context, req protoreflect.Message) (proto.Message, error) {
	q, err := p.query(req)
	if err != nil {
		return nil, err
	}
	records, err := p.archive.States(ctx, q)
	if err != nil {
		return nil, err
	}
	entries := make([]mapping.ArchivedState, 0, len(records))
	for _, rec := range records {
		s, err := archive.DecodeState(p.mapper, rec)
		if err != nil {
			return nil, fmt.Errorf("archived state %s@%d: %w", rec.Handle, rec.MdibVersion, err)
		}
		entries = append(entries, mapping.ArchivedState{MdibVersion: rec.MdibVersion, State: s})
	}
	return p.mapper.EncodeArchivedStates(entries)
}

// statusFor maps classified errors onto gRPC codes. Errors that already
// carry a status pass through.
func statusFor(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	class, ok := types.Classify(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}
	switch class {
	case types.ClassDecodeValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case types.ClassNotFound:
		return status.Error(codes.NotFound, err.Error())
	case types.ClassInvariantViolation:
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
