// Package archive records every committed MDIB change as versioned
// descriptor and state records and reads them back.
package archive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/metric"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/naming"
	"github.com/KevinKickass/OpenMDIB/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

// Store persists and queries archive records. *storage.PostgresClient
// implements it.
type Store interface {
	SaveBatch(ctx context.Context, b storage.Batch) error
	Descriptors(ctx context.Context, q storage.Query) ([]storage.DescriptorRecord, error)
	States(ctx context.Context, q storage.Query) ([]storage.StateRecord, error)
}

const writeTimeout = 5 * time.Second

// Recorder turns change sets into archive batches and writes them from a
// single worker through a bounded queue. Batches that do not fit into the
// queue are dropped and counted; the MDIB is never blocked by the store.
type Recorder struct {
	store   Store
	mapper  *mapping.Mapper
	logger  *zap.Logger
	queue   chan storage.Batch
	written prometheus.Counter
	dropped prometheus.Counter
	failed  prometheus.Counter

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRecorder creates a recorder counting its batches in metrics; nil
// metrics count privately.
func NewRecorder(store Store, mapper *mapping.Mapper, queueSize int, metrics *metric.Metrics, logger *zap.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 1
	}
	if metrics == nil {
		metrics = metric.NewMetrics()
	}
	return &Recorder{
		store:   store,
		mapper:  mapper,
		logger:  logger,
		queue:   make(chan storage.Batch, queueSize),
		written: metrics.ArchiveBatches.WithLabelValues(metric.BatchWritten),
		dropped: metrics.ArchiveBatches.WithLabelValues(metric.BatchDropped),
		failed:  metrics.ArchiveBatches.WithLabelValues(metric.BatchFailed),
	}
}

// Attach records a baseline of the current MDIB content and subscribes to
// its changes. The returned function unsubscribes.
func (r *Recorder) Attach(m *mdib.Mdib) (func(), error) {
	snap, err := m.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}
	baseline, err := r.baseline(snap)
	if err != nil {
		return nil, err
	}
	r.enqueue(baseline)
	return m.Subscribe(r.Observe), nil
}

func (r *Recorder) baseline(snap mdib.Snapshot) (storage.Batch, error) {
	part := mapping.ReportPart{Modification: model.Create, Descriptors: snap.Descriptors, States: snap.States}
	return Encode(r.mapper, mdib.ChangeSet{Report: mapping.Report{
		Version: snap.Version,
		Type:    model.DescriptionModificationReport,
		Parts:   []mapping.ReportPart{part},
	}})
}

// Observe is an mdib.Observer.
func (r *Recorder) Observe(cs mdib.ChangeSet) {
	b, err := Encode(r.mapper, cs)
	if err != nil {
		r.logger.Error("Failed to encode change set for archive",
			zap.Uint64("mdib_version", cs.Version.MdibVersion),
			zap.Error(err))
		return
	}
	r.enqueue(b)
}

func (r *Recorder) enqueue(b storage.Batch) {
	if b.Empty() {
		return
	}
	select {
	case r.queue <- b:
	default:
		r.dropped.Inc()
		r.logger.Warn("Archive queue full, change dropped",
			zap.Int("descriptors", len(b.Descriptors)),
			zap.Int("states", len(b.States)),
			zap.Uint64("dropped_total", r.Dropped()))
	}
}

// Dropped is the number of batches lost to a full queue.
func (r *Recorder) Dropped() uint64 { return uint64(metric.Value(r.dropped)) }

// Written is the number of batches stored.
func (r *Recorder) Written() uint64 { return uint64(metric.Value(r.written)) }

// Failed is the number of batches the store rejected.
func (r *Recorder) Failed() uint64 { return uint64(metric.Value(r.failed)) }

func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stopChan = make(chan struct{})
	r.wg.Add(1)
	go r.run(r.stopChan)
	r.logger.Info("Archive recorder started", zap.Int("queue_size", cap(r.queue)))
}

// Stop writes what is already queued and stops the worker.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	close(r.stopChan)
	r.mu.Unlock()

	r.wg.Wait()

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	r.logger.Info("Archive recorder stopped",
		zap.Uint64("written", r.Written()),
		zap.Uint64("dropped", r.Dropped()))
}

func (r *Recorder) run(stop <-chan struct{}) {
	defer r.wg.Done()
	for {
		select {
		case b := <-r.queue:
			r.write(b)
		case <-stop:
			for {
				select {
				case b := <-r.queue:
					r.write(b)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(b storage.Batch) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.store.SaveBatch(ctx, b); err != nil {
		r.logger.Error("Failed to archive change",
			zap.Int("descriptors", len(b.Descriptors)),
			zap.Int("states", len(b.States)),
			zap.Error(err))
		r.failed.Inc()
		return
	}
	r.written.Inc()
}

// Encode converts a change set into archive records. Descriptors of a
// description modification carry the part's modification; states of every
// part and of state reports are recorded as they were committed.
func Encode(mapper *mapping.Mapper, cs mdib.ChangeSet) (storage.Batch, error) {
	var b storage.Batch
	for _, part := range cs.Parts {
		for _, d := range part.Descriptors {
			rec, err := descriptorRecord(mapper, cs.Version, part.Modification, d)
			if err != nil {
				return storage.Batch{}, err
			}
			b.Descriptors = append(b.Descriptors, rec)
		}
		if err := appendStates(mapper, cs.Version, part.States, &b); err != nil {
			return storage.Batch{}, err
		}
	}
	if err := appendStates(mapper, cs.Version, cs.States, &b); err != nil {
		return storage.Batch{}, err
	}
	return b, nil
}

func descriptorRecord(mapper *mapping.Mapper, g mapping.VersionGroup, mod model.ModificationType, d model.Descriptor) (storage.DescriptorRecord, error) {
	base := d.DescriptorBase()
	msg, err := mapper.EncodeUnion(d, "AbstractDescriptor")
	if err != nil {
		return storage.DescriptorRecord{}, fmt.Errorf("failed to encode descriptor %s: %w", base.Handle, err)
	}
	payload, err := proto.Marshal(msg)
	if err != nil {
		return storage.DescriptorRecord{}, fmt.Errorf("failed to marshal descriptor %s: %w", base.Handle, err)
	}
	return storage.DescriptorRecord{
		SequenceID:        g.SequenceID,
		InstanceID:        g.InstanceID,
		MdibVersion:       g.MdibVersion,
		Handle:            base.Handle,
		ParentHandle:      base.ParentHandle,
		DescriptorVersion: base.DescriptorVersion,
		TypeName:          d.TypeName(),
		Modification:      mod.String(),
		Payload:           payload,
	}, nil
}

func appendStates(mapper *mapping.Mapper, g mapping.VersionGroup, states []model.State, b *storage.Batch) error {
	for _, s := range states {
		handle := model.StateHandle(s)
		msg, err := mapper.EncodeUnion(s, "AbstractState")
		if err != nil {
			return fmt.Errorf("failed to encode state %s: %w", handle, err)
		}
		payload, err := proto.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal state %s: %w", handle, err)
		}
		b.States = append(b.States, storage.StateRecord{
			SequenceID:       g.SequenceID,
			InstanceID:       g.InstanceID,
			MdibVersion:      g.MdibVersion,
			Handle:           handle,
			DescriptorHandle: s.StateBase().DescriptorHandle,
			StateVersion:     s.StateBase().StateVersion,
			TypeName:         s.TypeName(),
			Payload:          payload,
		})
	}
	return nil
}

// DecodeDescriptor rebuilds the descriptor of a record.
func DecodeDescriptor(mapper *mapping.Mapper, rec storage.DescriptorRecord) (model.Descriptor, error) {
	msg, err := mapper.Catalog().NewMessage(naming.OneOfMessageName("AbstractDescriptor"))
	if err != nil {
		return nil, err
	}
	if err := proto.Unmarshal(rec.Payload, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal descriptor %s: %w", rec.Handle, err)
	}
	d, err := mapper.DecodeDescriptor(msg)
	if err != nil {
		return nil, err
	}
	d.DescriptorBase().ParentHandle = rec.ParentHandle
	return d, nil
}

// DecodeState rebuilds the state of a record.
func DecodeState(mapper *mapping.Mapper, rec storage.StateRecord) (model.State, error) {
	msg, err := mapper.Catalog().NewMessage(naming.OneOfMessageName("AbstractState"))
	if err != nil {
		return nil, err
	}
	if err := proto.Unmarshal(rec.Payload, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state %s: %w", rec.Handle, err)
	}
	return mapper.DecodeState(msg)
}
