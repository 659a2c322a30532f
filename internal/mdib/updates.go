package mdib

import (
	"errors"
	"fmt"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"go.uber.org/zap"
)

// ApplyStateUpdates commits a batch of states. A state for an unknown
// descriptor is reported per record; a stale state is counted and dropped.
// A state of the wrong kind, bound to another descriptor version, or a
// multi state whose handle is empty or owned elsewhere aborts the batch
// with nothing applied.
func (m *Mdib) ApplyStateUpdates(states []model.State, mode UpdateMode) (BatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyStates(states, mode)
}

func (m *Mdib) applyStates(states []model.State, mode UpdateMode) (BatchReport, error) {
	var report BatchReport
	accepted := make([]model.State, 0, len(states))
	pending := make(map[string]uint64)
	owners := make(map[string]string)

	for i, s := range states {
		base := s.StateBase()
		handle := model.StateHandle(s)
		d, ok := m.index.Descriptor(base.DescriptorHandle)
		if !ok {
			report.Errors = append(report.Errors, mapping.RecordError{
				Index: i, Handle: handle,
				Err: types.DecodeValidation("mdib", "state for unknown descriptor %s", base.DescriptorHandle),
			})
			continue
		}
		if d.NodeType().StateKind() != s.NodeType() {
			return BatchReport{}, types.InvariantViolation("mdib", "%s cannot describe %s %s",
				s.TypeName(), d.TypeName(), base.DescriptorHandle)
		}
		if err := checkDescriptorVersion(m.index, s); err != nil {
			return BatchReport{}, err
		}

		var previous model.State
		if _, isMulti := s.(model.MultiState); isMulti {
			if err := m.index.checkMultiHandle(s, handle, base.DescriptorHandle); err != nil {
				return BatchReport{}, err
			}
			if owner, ok := owners[handle]; ok && owner != base.DescriptorHandle {
				return BatchReport{}, types.InvariantViolation("mdib", "state handle %s belongs to %s", handle, owner)
			}
			owners[handle] = base.DescriptorHandle
			previous, _ = m.index.multiState(handle)
		} else {
			previous, _ = m.index.State(handle)
		}

		stored, known := pending[handle]
		if !known && previous != nil {
			stored, known = previous.StateBase().StateVersion, true
		}
		if known && !mode.accepts(base.StateVersion, stored) {
			report.Stale++
			m.logger.Debug("Stale state dropped",
				zap.String("handle", handle),
				zap.Uint64("state_version", base.StateVersion),
				zap.Uint64("stored_version", stored),
				zap.Stringer("mode", mode))
			continue
		}
		c, err := model.CloneState(s)
		if err != nil {
			return BatchReport{}, fmt.Errorf("failed to copy state %s: %w", handle, err)
		}
		pending[handle] = base.StateVersion
		accepted = append(accepted, c)
	}

	if len(report.Errors) > 0 {
		m.logger.Warn("State batch has rejected records",
			zap.Int("rejected", len(report.Errors)),
			zap.Error(report.Errors[0]))
	}
	if len(accepted) == 0 {
		m.countStates(report)
		return report, nil
	}

	for _, s := range accepted {
		if err := m.index.SetState(s); err != nil {
			// Validated above, so this is a programming error.
			return report, err
		}
	}
	report.Applied = len(accepted)
	m.bump(false, true)
	m.countStates(report)
	m.publish(m.stateChangeSets(accepted))
	return report, nil
}

// stateChangeSets groups states into one change set per report type, in
// report type order.
func (m *Mdib) stateChangeSets(states []model.State) []ChangeSet {
	byType := make(map[model.ReportType]*ChangeSet)
	for _, s := range states {
		t := model.ReportTypeOf(s.NodeType())
		cs, ok := byType[t]
		if !ok {
			cs = &ChangeSet{Report: mapping.Report{Version: m.version, Type: t}}
			byType[t] = cs
		}
		cs.States = append(cs.States, s)
		cs.Handles = append(cs.Handles, model.StateHandle(s))
	}
	var out []ChangeSet
	for _, t := range model.ReportTypes() {
		if cs, ok := byType[t]; ok {
			out = append(out, *cs)
		}
	}
	return out
}

// ModifyState applies fn to a copy of the state stored under handle, bumps
// its StateVersion and commits it as a live update.
func (m *Mdib) ModifyState(handle string, fn func(s model.State) error) (model.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.index.State(handle)
	if !ok {
		return nil, types.NotFound("mdib.ModifyState", "state %s", handle)
	}
	c, err := model.CloneState(s)
	if err != nil {
		return nil, fmt.Errorf("failed to copy state %s: %w", handle, err)
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if model.StateHandle(c) != handle || c.StateBase().DescriptorHandle != s.StateBase().DescriptorHandle {
		return nil, types.InvariantViolation("mdib.ModifyState", "state %s changed its identity", handle)
	}
	c.StateBase().IncrementStateVersion()
	if _, err := m.applyStates([]model.State{c}, Live); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyDescriptionChanges commits create, update and delete parts in order.
// Any failure leaves the MDIB unchanged.
func (m *Mdib) ApplyDescriptionChanges(parts []mapping.ReportPart) (BatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var report BatchReport
	staged := m.index.copy()
	var handles []string
	committed := make([]mapping.ReportPart, 0, len(parts))

	for _, part := range parts {
		var (
			out mapping.ReportPart
			err error
		)
		switch part.Modification {
		case model.Create:
			out, err = createPart(staged, part)
		case model.Update:
			out, err = updatePart(staged, part)
		case model.Delete:
			out, err = deletePart(staged, part)
		default:
			err = types.DecodeValidation("mdib", "unknown modification %s", part.Modification)
		}
		if err != nil {
			m.logger.Warn("Description change rejected",
				zap.String("parent", part.ParentHandle),
				zap.Stringer("modification", part.Modification),
				zap.Error(err))
			return BatchReport{}, err
		}
		for _, d := range out.Descriptors {
			handles = append(handles, d.DescriptorBase().Handle)
		}
		report.Applied += len(out.Descriptors)
		committed = append(committed, out)
	}
	if report.Applied == 0 {
		return report, nil
	}

	m.index = staged
	m.bump(true, true)
	m.publish([]ChangeSet{{
		Report:  mapping.Report{Version: m.version, Type: model.DescriptionModificationReport, Parts: committed},
		Handles: handles,
	}})
	m.logger.Info("Description changed",
		zap.Int("descriptors", report.Applied),
		zap.Uint64("mdib_version", m.version.MdibVersion))
	return report, nil
}

func createPart(x *Index, part mapping.ReportPart) (mapping.ReportPart, error) {
	out := mapping.ReportPart{ParentHandle: part.ParentHandle, Modification: model.Create}
	for _, d := range part.Descriptors {
		c, err := model.CloneDescriptor(d)
		if err != nil {
			return out, err
		}
		if c.DescriptorBase().ParentHandle == "" {
			c.DescriptorBase().ParentHandle = part.ParentHandle
		}
		if err := x.Insert(c); err != nil {
			return out, err
		}
		out.Descriptors = append(out.Descriptors, c)
	}
	given := make(map[string]bool)
	for _, s := range part.States {
		c, err := stageState(x, s)
		if err != nil {
			return out, err
		}
		given[c.StateBase().DescriptorHandle] = true
		out.States = append(out.States, c)
	}
	// Descriptors without an explicit state get a default one, except
	// contexts whose states are created on association.
	for _, d := range out.Descriptors {
		if given[d.DescriptorBase().Handle] || d.NodeType().IsContext() {
			continue
		}
		s, err := model.NewStateFor(d)
		if err != nil {
			return out, err
		}
		if err := x.SetState(s); err != nil {
			return out, err
		}
		out.States = append(out.States, s)
	}
	return out, nil
}

func updatePart(x *Index, part mapping.ReportPart) (mapping.ReportPart, error) {
	out := mapping.ReportPart{ParentHandle: part.ParentHandle, Modification: model.Update}
	given := make(map[string]bool)
	for _, s := range part.States {
		given[s.StateBase().DescriptorHandle] = true
	}
	for _, d := range part.Descriptors {
		handle := d.DescriptorBase().Handle
		old, ok := x.Descriptor(handle)
		if !ok {
			return out, types.NotFound("mdib", "descriptor %s", handle)
		}
		c, err := model.CloneDescriptor(old)
		if err != nil {
			return out, err
		}
		if err := copyDescriptor(c, d); err != nil {
			return out, err
		}
		if err := x.Replace(c); err != nil {
			return out, err
		}
		out.Descriptors = append(out.Descriptors, c)
		if given[handle] {
			continue
		}
		// Carry the existing states over to the new descriptor version.
		for _, s := range statesOf(x, handle) {
			if s.StateBase().DescriptorVersion == c.DescriptorBase().DescriptorVersion {
				continue
			}
			sc, err := model.CloneState(s)
			if err != nil {
				return out, err
			}
			sc.StateBase().DescriptorVersion = c.DescriptorBase().DescriptorVersion
			sc.StateBase().IncrementStateVersion()
			if err := x.SetState(sc); err != nil {
				return out, err
			}
			out.States = append(out.States, sc)
		}
	}
	for _, s := range part.States {
		c, err := stageState(x, s)
		if err != nil {
			return out, err
		}
		out.States = append(out.States, c)
	}
	return out, nil
}

func copyDescriptor(dst, src model.Descriptor) error {
	if dst.NodeType() != src.NodeType() {
		return types.InvariantViolation("mdib", "%s is a %s, not a %s",
			dst.DescriptorBase().Handle, dst.TypeName(), src.TypeName())
	}
	return prop.CopyFrom(dst, src)
}

func deletePart(x *Index, part mapping.ReportPart) (mapping.ReportPart, error) {
	out := mapping.ReportPart{ParentHandle: part.ParentHandle, Modification: model.Delete}
	for _, d := range part.Descriptors {
		removed, err := x.Remove(d.DescriptorBase().Handle)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				// Already gone with an ancestor deleted earlier in the batch.
				continue
			}
			return out, err
		}
		out.Descriptors = append(out.Descriptors, removed...)
	}
	return out, nil
}

func stageState(x *Index, s model.State) (model.State, error) {
	if err := checkDescriptorVersion(x, s); err != nil {
		return nil, err
	}
	c, err := model.CloneState(s)
	if err != nil {
		return nil, err
	}
	if err := x.SetState(c); err != nil {
		return nil, err
	}
	return c, nil
}

func statesOf(x *Index, descriptorHandle string) []model.State {
	var out []model.State
	if s, ok := x.State(descriptorHandle); ok {
		out = append(out, s)
	}
	for _, s := range x.MultiStates(descriptorHandle) {
		out = append(out, s)
	}
	return out
}

// ApplyReport commits a decoded episodic report.
func (m *Mdib) ApplyReport(r mapping.Report, mode UpdateMode) (BatchReport, error) {
	if r.Type == model.DescriptionModificationReport {
		return m.ApplyDescriptionChanges(r.Parts)
	}
	return m.ApplyStateUpdates(r.States, mode)
}
