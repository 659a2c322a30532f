package mdib

import (
	"errors"
	"fmt"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"go.uber.org/zap"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// WriteSnapshot encodes the whole MDIB as an MdibMsg.
func (m *Mdib) WriteSnapshot() (*dynamicpb.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	description, err := m.mapper.EncodeDescription(m.index.Roots(), m.index, m.descriptionVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to encode description: %w", err)
	}
	states, err := m.mapper.EncodeStateList(m.index.States(), m.stateVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to encode states: %w", err)
	}
	return m.mapper.EncodeMdib(m.version, description, states)
}

// WriteDescription encodes the Mds trees that contain any of the given
// handles, or all of them when no handle is given.
func (m *Mdib) WriteDescription(handles ...string) (*dynamicpb.Message, mapping.VersionGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roots := m.index.Roots()
	if len(handles) > 0 {
		wanted := make(map[string]bool)
		for _, h := range handles {
			if r, ok := m.index.RootOf(h); ok {
				wanted[r] = true
			}
		}
		filtered := roots[:0:0]
		for _, r := range roots {
			if wanted[r.DescriptorBase().Handle] {
				filtered = append(filtered, r)
			}
		}
		roots = filtered
	}
	msg, err := m.mapper.EncodeDescription(roots, m.index, m.descriptionVersion)
	if err != nil {
		return nil, mapping.VersionGroup{}, fmt.Errorf("failed to encode description: %w", err)
	}
	return msg, m.version, nil
}

// WriteStates encodes the states whose own or descriptor handle is listed,
// or all states when no handle is given.
func (m *Mdib) WriteStates(handles ...string) (*dynamicpb.Message, mapping.VersionGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := m.index.States()
	if len(handles) > 0 {
		wanted := make(map[string]bool, len(handles))
		for _, h := range handles {
			wanted[h] = true
		}
		filtered := states[:0:0]
		for _, s := range states {
			if wanted[s.StateBase().DescriptorHandle] || wanted[model.StateHandle(s)] {
				filtered = append(filtered, s)
			}
		}
		states = filtered
	}
	msg, err := m.mapper.EncodeStateList(states, m.stateVersion)
	if err != nil {
		return nil, mapping.VersionGroup{}, fmt.Errorf("failed to encode states: %w", err)
	}
	return msg, m.version, nil
}

// Snapshot is a detached copy of a whole MDIB.
type Snapshot struct {
	Version            mapping.VersionGroup
	DescriptionVersion uint64
	StateVersion       uint64
	// Descriptors are ordered parents first.
	Descriptors []model.Descriptor
	States      []model.State
}

// Snapshot returns a deep copy of the MDIB.
func (m *Mdib) Snapshot() (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Version:            m.version,
		DescriptionVersion: m.descriptionVersion,
		StateVersion:       m.stateVersion,
	}
	err := m.index.Walk(func(d model.Descriptor) error {
		c, err := model.CloneDescriptor(d)
		if err != nil {
			return err
		}
		snap.Descriptors = append(snap.Descriptors, c)
		return nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to copy descriptors: %w", err)
	}
	for _, s := range m.index.States() {
		c, err := model.CloneState(s)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to copy states: %w", err)
		}
		snap.States = append(snap.States, c)
	}
	return snap, nil
}

// ReadSnapshot replaces the MDIB with the content of an MdibMsg. The
// description must decode completely or nothing changes; a state that does
// not decode or resolve is reported and skipped.
func (m *Mdib) ReadSnapshot(src protoreflect.Message) (BatchReport, error) {
	group, description, stateList, err := m.mapper.SplitMdib(src)
	if err != nil {
		return BatchReport{}, err
	}
	snap := Snapshot{Version: group}
	snap.DescriptionVersion, err = m.mapper.DecodeDescription(description, func(d model.Descriptor) error {
		snap.Descriptors = append(snap.Descriptors, d)
		return nil
	})
	if err != nil {
		return BatchReport{}, fmt.Errorf("failed to read description: %w", err)
	}
	var failed []mapping.RecordError
	snap.States, failed, snap.StateVersion, err = m.mapper.DecodeStateRecords(stateList)
	if err != nil {
		return BatchReport{}, fmt.Errorf("failed to read states: %w", err)
	}
	return m.load(snap, failed)
}

// Load replaces the MDIB with a snapshot under the same rules as
// ReadSnapshot. The MDIB takes ownership of the snapshot values; a snapshot
// without sequence id keeps the current one.
func (m *Mdib) Load(snap Snapshot) (BatchReport, error) {
	return m.load(snap, nil)
}

func (m *Mdib) load(snap Snapshot, failed []mapping.RecordError) (BatchReport, error) {
	report := BatchReport{Errors: failed}
	staged := NewIndex()
	for _, d := range snap.Descriptors {
		if err := staged.Insert(d); err != nil {
			return BatchReport{}, fmt.Errorf("failed to index %s: %w", d.DescriptorBase().Handle, err)
		}
	}
	for i, s := range snap.States {
		if err := checkDescriptorVersion(staged, s); err != nil {
			return BatchReport{}, err
		}
		if err := staged.SetState(s); err != nil {
			if !errors.Is(err, types.ErrDecodeValidation) {
				return BatchReport{}, err
			}
			report.Errors = append(report.Errors, mapping.RecordError{Index: i, Handle: model.StateHandle(s), Err: err})
			continue
		}
		report.Applied++
	}

	m.mu.Lock()
	if snap.Version.SequenceID == "" {
		snap.Version.SequenceID = m.version.SequenceID
	}
	m.index = staged
	m.version = snap.Version
	m.descriptionVersion = snap.DescriptionVersion
	m.stateVersion = snap.StateVersion
	m.metrics.MdibVersion.Set(float64(snap.Version.MdibVersion))
	m.countStates(report)
	m.mu.Unlock()

	if len(report.Errors) > 0 {
		m.logger.Warn("Snapshot loaded with rejected states",
			zap.Int("rejected", len(report.Errors)),
			zap.Error(report.Errors[0]))
	}
	m.logger.Info("Snapshot loaded",
		zap.String("sequence_id", snap.Version.SequenceID),
		zap.Uint64("mdib_version", snap.Version.MdibVersion),
		zap.Int("descriptors", staged.Len()),
		zap.Int("states", report.Applied))
	return report, nil
}

// checkDescriptorVersion rejects a state bound to another version of its
// descriptor. Unknown descriptors are left to SetState.
func checkDescriptorVersion(x *Index, s model.State) error {
	d, ok := x.Descriptor(s.StateBase().DescriptorHandle)
	if !ok {
		return nil
	}
	if got, want := s.StateBase().DescriptorVersion, d.DescriptorBase().DescriptorVersion; got != want {
		return types.InvariantViolation("mdib", "state %s refers to descriptor version %d, descriptor is at %d",
			model.StateHandle(s), got, want)
	}
	return nil
}
