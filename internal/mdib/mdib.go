// Package mdib holds the live medical device information base: the
// containment index with its version counters, snapshot adapters and the
// application of incremental state and description changes.
package mdib

import (
	"sync"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/metric"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateMode selects the staleness rule for incoming states.
type UpdateMode int

const (
	// Live updates must carry a strictly greater StateVersion.
	Live UpdateMode = iota
	// Buffered updates replayed after a snapshot may repeat the stored version.
	Buffered
)

func (m UpdateMode) String() string {
	if m == Buffered {
		return "buffered"
	}
	return "live"
}

func (m UpdateMode) accepts(incoming, stored uint64) bool {
	if m == Buffered {
		return incoming >= stored
	}
	return incoming > stored
}

// BatchReport summarizes the outcome of a batch.
type BatchReport struct {
	Applied int
	Stale   int
	Errors  []mapping.RecordError
}

// ChangeSet is published to observers after every committed mutation.
type ChangeSet struct {
	mapping.Report
	Handles []string
}

// Observer receives change sets while the MDIB write lock is held. It must
// not block and must not call back into the Mdib.
type Observer func(ChangeSet)

type Option func(*Mdib)

// WithSequenceID overrides the random sequence id.
func WithSequenceID(id string) Option {
	return func(m *Mdib) { m.version.SequenceID = id }
}

func WithInstanceID(id uint64) Option {
	return func(m *Mdib) { m.version.InstanceID = id }
}

func WithMapper(mapper *mapping.Mapper) Option {
	return func(m *Mdib) { m.mapper = mapper }
}

// WithMetrics reports versions and state record outcomes to metrics.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(m *Mdib) { m.metrics = metrics }
}

type Mdib struct {
	mu                 sync.RWMutex
	index              *Index
	version            mapping.VersionGroup
	descriptionVersion uint64
	stateVersion       uint64

	mapper  *mapping.Mapper
	metrics *metric.Metrics
	logger  *zap.Logger

	obsMu     sync.Mutex
	observers map[uint64]Observer
	nextObs   uint64
}

func New(logger *zap.Logger, opts ...Option) *Mdib {
	m := &Mdib{
		index:     NewIndex(),
		version:   mapping.VersionGroup{SequenceID: "urn:uuid:" + uuid.New().String()},
		logger:    logger,
		observers: make(map[uint64]Observer),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.mapper == nil {
		m.mapper = mapping.Default()
	}
	if m.metrics == nil {
		m.metrics = metric.NewMetrics()
	}
	return m
}

func (m *Mdib) Mapper() *mapping.Mapper { return m.mapper }

// Version returns the current version group.
func (m *Mdib) Version() mapping.VersionGroup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Subscribe registers an observer and returns a function removing it. The
// observer runs under the write lock; see Observer.
func (m *Mdib) Subscribe(o Observer) func() {
	m.obsMu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = o
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

// publish must be called with the write lock held.
func (m *Mdib) publish(sets []ChangeSet) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	for _, cs := range sets {
		for _, o := range m.observers {
			o(cs)
		}
	}
}

// Read runs fn with a consistent view of the index. fn must not retain or
// mutate anything it reads.
func (m *Mdib) Read(fn func(x *Index) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(m.index)
}

// Descriptor returns a copy of the descriptor with the given handle.
func (m *Mdib) Descriptor(handle string) (model.Descriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.index.Descriptor(handle)
	if !ok {
		return nil, false
	}
	c, err := model.CloneDescriptor(d)
	if err != nil {
		m.logger.Error("Failed to copy descriptor", zap.String("handle", handle), zap.Error(err))
		return nil, false
	}
	return c, true
}

// State returns a copy of the state stored under handle.
func (m *Mdib) State(handle string) (model.State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.index.State(handle)
	if !ok {
		return nil, false
	}
	c, err := model.CloneState(s)
	if err != nil {
		m.logger.Error("Failed to copy state", zap.String("handle", handle), zap.Error(err))
		return nil, false
	}
	return c, true
}

// Children returns copies of the children of handle in slot order.
func (m *Mdib) Children(handle string) []model.Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Descriptor
	for _, d := range m.index.Children(handle) {
		c, err := model.CloneDescriptor(d)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ByKind returns copies of all descriptors of kind k.
func (m *Mdib) ByKind(k model.Kind) []model.Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Descriptor
	for _, d := range m.index.ByKind(k) {
		c, err := model.CloneDescriptor(d)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of descriptors.
func (m *Mdib) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index.Len()
}

// bump advances the MDIB version once per committed mutation.
func (m *Mdib) bump(description, state bool) {
	m.version.MdibVersion++
	if description {
		m.descriptionVersion++
	}
	if state {
		m.stateVersion++
	}
	m.metrics.MdibVersion.Set(float64(m.version.MdibVersion))
}

func (m *Mdib) countStates(r BatchReport) {
	m.metrics.StateRecords.WithLabelValues(metric.StateApplied).Add(float64(r.Applied))
	m.metrics.StateRecords.WithLabelValues(metric.StateStale).Add(float64(r.Stale))
	m.metrics.StateRecords.WithLabelValues(metric.StateRejected).Add(float64(len(r.Errors)))
}
