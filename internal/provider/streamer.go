package provider

import (
	"sync"
	"sync/atomic"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Subscription receives encoded EpisodicReportMsg values in MDIB version
// order. C is closed when the subscription ends; Lagged tells whether it
// ended because the subscriber did not keep up.
type Subscription struct {
	ID     uuid.UUID
	C      <-chan *dynamicpb.Message
	ch     chan *dynamicpb.Message
	filter map[model.ReportType]bool
	lagged atomic.Bool
}

func (s *Subscription) Lagged() bool { return s.lagged.Load() }

func (s *Subscription) wants(t model.ReportType) bool {
	return len(s.filter) == 0 || s.filter[t]
}

// ReportStreamer fans committed MDIB changes out to report subscribers. A
// report is encoded once and shared by every subscriber that wants it.
type ReportStreamer struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]*Subscription
	closed      bool
	mapper      *mapping.Mapper
	buffer      int
	logger      *zap.Logger
}

func NewReportStreamer(mapper *mapping.Mapper, buffer int, logger *zap.Logger) *ReportStreamer {
	if buffer <= 0 {
		buffer = 1
	}
	return &ReportStreamer{
		subscribers: make(map[uuid.UUID]*Subscription),
		mapper:      mapper,
		buffer:      buffer,
		logger:      logger,
	}
}

// Attach publishes every change of m. The returned function detaches.
func (s *ReportStreamer) Attach(m *mdib.Mdib) func() {
	return m.Subscribe(s.Publish)
}

// Subscribe registers a subscriber for the given report types; none means
// all. On a closed streamer the subscription is already ended.
func (s *ReportStreamer) Subscribe(actions []model.ReportType) *Subscription {
	ch := make(chan *dynamicpb.Message, s.buffer)
	sub := &Subscription{ID: uuid.New(), C: ch, ch: ch, filter: make(map[model.ReportType]bool)}
	for _, a := range actions {
		sub.filter[a] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return sub
	}
	s.subscribers[sub.ID] = sub
	s.logger.Debug("Report subscriber added",
		zap.String("subscription", sub.ID.String()),
		zap.Int("actions", len(actions)))
	return sub
}

func (s *ReportStreamer) Unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(sub)
}

// remove must be called with s.mu held.
func (s *ReportStreamer) remove(sub *Subscription) {
	if _, ok := s.subscribers[sub.ID]; ok {
		delete(s.subscribers, sub.ID)
		close(sub.ch)
	}
}

func (s *ReportStreamer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// Publish is an mdib.Observer. A subscriber whose queue is full is dropped
// rather than skipped, so a consumer never sees a gap in the versions.
func (s *ReportStreamer) Publish(cs mdib.ChangeSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msg *dynamicpb.Message
	for _, sub := range s.subscribers {
		if !sub.wants(cs.Type) {
			continue
		}
		if msg == nil {
			var err error
			if msg, err = s.mapper.EncodeReport(cs.Report); err != nil {
				s.logger.Error("Failed to encode report",
					zap.Stringer("report_type", cs.Type),
					zap.Uint64("mdib_version", cs.Version.MdibVersion),
					zap.Error(err))
				return
			}
		}
		select {
		case sub.ch <- msg:
		default:
			sub.lagged.Store(true)
			s.remove(sub)
			s.logger.Warn("Report subscriber fell behind, subscription ended",
				zap.String("subscription", sub.ID.String()),
				zap.Uint64("mdib_version", cs.Version.MdibVersion))
		}
	}
}

// Close ends every subscription and rejects new ones.
func (s *ReportStreamer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, sub := range s.subscribers {
		s.remove(sub)
	}
}
