package consumer

import (
	"context"
	"errors"
	"fmt"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

type incoming struct {
	report mapping.Report
	err    error
}

// Session follows the report stream of one provider sequence.
type Session struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	// base is the MDIB version of the snapshot; reports up to it are
	// already contained in the mirror.
	base uint64
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns why the session ended. It is nil while the session runs and
// after Close.
func (s *Session) Err() error {
	select {
	case <-s.done:
		if errors.Is(s.err, context.Canceled) {
			return nil
		}
		return s.err
	default:
		return nil
	}
}

// Close ends the session and waits for it.
func (s *Session) Close() error {
	s.cancel()
	<-s.done
	return s.Err()
}

// Connect synchronizes the mirror with the provider and keeps following it.
// The report stream is opened before the snapshot is read, so no change is
// lost in between. ctx bounds the whole session.
func (c *Consumer) Connect(ctx context.Context, actions ...model.ReportType) (*Session, error) {
	sctx, cancel := context.WithCancel(ctx)

	stream, err := c.openReports(sctx, actions)
	if err != nil {
		cancel()
		return nil, err
	}
	reports := make(chan incoming, c.buffer)
	go c.receive(sctx, stream, reports)

	snap, err := c.GetMdib(sctx)
	if err != nil {
		cancel()
		return nil, err
	}
	if _, err := c.mirror.ReadSnapshot(snap); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load remote snapshot: %w", err)
	}
	remote := c.mirror.Version()
	c.mu.Lock()
	c.remote = remote
	c.mu.Unlock()

	s := &Session{cancel: cancel, done: make(chan struct{}), base: remote.MdibVersion}

	// Reports that queued up while the snapshot was read may repeat state
	// versions the snapshot already carries.
	for n := len(reports); n > 0; n-- {
		in := <-reports
		if in.err == nil {
			in.err = c.apply(s, in.report, mdib.Buffered)
		}
		if in.err != nil {
			cancel()
			return nil, in.err
		}
	}

	c.logger.Info("Remote MDIB mirrored",
		zap.String("sequence_id", remote.SequenceID),
		zap.Uint64("mdib_version", c.Remote().MdibVersion),
		zap.Int("descriptors", c.mirror.Len()))

	go c.follow(sctx, s, reports)
	return s, nil
}

func (c *Consumer) openReports(ctx context.Context, actions []model.ReportType) (grpc.ClientStream, error) {
	req, err := c.mapper.EncodeReportRequest(actions)
	if err != nil {
		return nil, err
	}
	stream, err := c.conn.NewStream(ctx, &grpc.StreamDesc{ServerStreams: true},
		pb.FullMethod(pb.ReportingService, pb.MethodEpisodicReport))
	if err != nil {
		return nil, fmt.Errorf("failed to open report stream: %w", err)
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	// The provider sends the header once the subscription is registered.
	if _, err := stream.Header(); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return stream, nil
}

func (c *Consumer) receive(ctx context.Context, stream grpc.ClientStream, out chan<- incoming) {
	for {
		var in incoming
		msg, err := c.catalog.NewMessage(pb.EpisodicReportMsg)
		if err == nil {
			err = stream.RecvMsg(msg)
		}
		if err == nil {
			in.report, err = c.mapper.DecodeReport(msg)
		}
		in.err = err
		select {
		case out <- in:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (c *Consumer) follow(ctx context.Context, s *Session, reports <-chan incoming) {
	defer close(s.done)
	defer s.cancel()
	for {
		select {
		case in := <-reports:
			if in.err == nil {
				in.err = c.apply(s, in.report, mdib.Live)
			}
			if in.err != nil {
				s.err = in.err
				if !errors.Is(ctx.Err(), context.Canceled) {
					c.logger.Warn("Remote MDIB session ended", zap.Error(in.err))
				}
				return
			}
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		}
	}
}

func (c *Consumer) apply(s *Session, r mapping.Report, mode mdib.UpdateMode) error {
	remote := c.Remote()
	if r.Version.SequenceID != remote.SequenceID || r.Version.InstanceID != remote.InstanceID {
		return fmt.Errorf("%w: %s/%d", ErrSequenceChanged, r.Version.SequenceID, r.Version.InstanceID)
	}
	if r.Version.MdibVersion <= s.base {
		c.logger.Debug("Report already in snapshot",
			zap.Stringer("report_type", r.Type),
			zap.Uint64("mdib_version", r.Version.MdibVersion))
		return nil
	}
	if r.Version.MdibVersion < remote.MdibVersion {
		c.logger.Warn("Report out of order",
			zap.Uint64("mdib_version", r.Version.MdibVersion),
			zap.Uint64("remote_version", remote.MdibVersion))
	}

	batch, err := c.mirror.ApplyReport(r, mode)
	if err != nil {
		return fmt.Errorf("failed to apply %s at %d: %w", r.Type, r.Version.MdibVersion, err)
	}
	if len(batch.Errors) > 0 {
		c.logger.Warn("Report applied with rejected records",
			zap.Stringer("report_type", r.Type),
			zap.Int("rejected", len(batch.Errors)),
			zap.Error(batch.Errors[0]))
	}

	c.mu.Lock()
	if r.Version.MdibVersion > c.remote.MdibVersion {
		c.remote = r.Version
	}
	c.mu.Unlock()
	return nil
}
