package mapping

import (
	"errors"
	"fmt"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// VersionGroup identifies one version of one MDIB instance.
type VersionGroup struct {
	MdibVersion uint64
	SequenceID  string
	InstanceID  uint64
}

// Newer reports whether g is a later version of the same sequence as o.
func (g VersionGroup) Newer(o VersionGroup) bool {
	return g.SequenceID == o.SequenceID && g.InstanceID == o.InstanceID && g.MdibVersion > o.MdibVersion
}

// ReportPart is one parent-scoped entry of a description modification report.
type ReportPart struct {
	ParentHandle string
	Modification model.ModificationType
	Descriptors  []model.Descriptor
	States       []model.State
}

// Report is an episodic report: a state report carries States, a
// description modification report carries Parts.
type Report struct {
	Version VersionGroup
	Type    model.ReportType
	States  []model.State
	Parts   []ReportPart
}

func (m *Mapper) EncodeVersionGroup(g VersionGroup, dst protoreflect.Message) error {
	if err := setUint64(dst, "a_mdib_version", g.MdibVersion); err != nil {
		return err
	}
	if err := setString(dst, "a_sequence_id", g.SequenceID); err != nil {
		return err
	}
	return setUint64(dst, "a_instance_id", g.InstanceID)
}

func (m *Mapper) DecodeVersionGroup(src protoreflect.Message) (VersionGroup, error) {
	var g VersionGroup
	var err error
	if g.MdibVersion, err = getUint64(src, "a_mdib_version"); err != nil {
		return g, err
	}
	if g.SequenceID, err = getString(src, "a_sequence_id"); err != nil {
		return g, err
	}
	if g.InstanceID, err = getUint64(src, "a_instance_id"); err != nil {
		return g, err
	}
	if g.SequenceID == "" {
		return g, types.DecodeValidation("decode", "version group without sequence id")
	}
	return g, nil
}

// EncodeDescription builds an MdDescriptionMsg from the Mds roots.
func (m *Mapper) EncodeDescription(roots []model.Descriptor, tree Tree, version uint64) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.MdDescriptionMsg)
	if err != nil {
		return nil, err
	}
	fd, err := field(msg, "mds")
	if err != nil {
		return nil, err
	}
	list := msg.Mutable(fd).List()
	for _, root := range roots {
		if root.NodeType() != model.KindMdsDescriptor {
			return nil, types.InvariantViolation("encode", "description root %s is a %s",
				root.DescriptorBase().Handle, root.TypeName())
		}
		el := list.NewElement()
		if err := m.EncodeTree(root, tree, el.Message()); err != nil {
			return nil, err
		}
		list.Append(el)
	}
	if err := setUint64(msg, "a_description_version", version); err != nil {
		return nil, err
	}
	return msg, nil
}

// DecodeDescription visits every descriptor of an MdDescriptionMsg in
// depth-first slot order and returns the description version.
func (m *Mapper) DecodeDescription(src protoreflect.Message, visit Visitor) (uint64, error) {
	fd, err := field(src, "mds")
	if err != nil {
		return 0, err
	}
	list := src.Get(fd).List()
	for i := 0; i < list.Len(); i++ {
		if err := m.DecodeTree(list.Get(i).Message(), "", visit); err != nil {
			return 0, err
		}
	}
	return getUint64(src, "a_description_version")
}

// EncodeStateList builds an MdStateMsg.
func (m *Mapper) EncodeStateList(states []model.State, version uint64) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.MdStateMsg)
	if err != nil {
		return nil, err
	}
	if err := m.encodeStateField(msg, states); err != nil {
		return nil, err
	}
	if err := setUint64(msg, "a_state_version", version); err != nil {
		return nil, err
	}
	return msg, nil
}

// DecodeStateList decodes an MdStateMsg and returns its state version.
func (m *Mapper) DecodeStateList(src protoreflect.Message) ([]model.State, uint64, error) {
	states, err := m.decodeStateField(src)
	if err != nil {
		return nil, 0, err
	}
	version, err := getUint64(src, "a_state_version")
	if err != nil {
		return nil, 0, err
	}
	return states, version, nil
}

func (m *Mapper) encodeStateField(msg protoreflect.Message, states []model.State) error {
	if len(states) == 0 {
		return nil
	}
	fd, err := field(msg, "state")
	if err != nil {
		return err
	}
	return m.EncodeStates(states, msg.Mutable(fd).List())
}

func (m *Mapper) decodeStateField(msg protoreflect.Message) ([]model.State, error) {
	fd, err := field(msg, "state")
	if err != nil {
		return nil, err
	}
	return m.DecodeStates(msg.Get(fd).List())
}

// EncodeMdib builds an MdibMsg from a version group and the two halves of
// a snapshot.
func (m *Mapper) EncodeMdib(g VersionGroup, description, state protoreflect.Message) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.MdibMsg)
	if err != nil {
		return nil, err
	}
	gfd, err := field(msg, "a_mdib_version_group")
	if err != nil {
		return nil, err
	}
	if err := m.EncodeVersionGroup(g, msg.Mutable(gfd).Message()); err != nil {
		return nil, err
	}
	for name, part := range map[string]protoreflect.Message{"md_description": description, "md_state": state} {
		fd, err := field(msg, name)
		if err != nil {
			return nil, err
		}
		if part.Descriptor().FullName() != fd.Message().FullName() {
			return nil, types.SchemaMismatch("encode", "%s cannot hold %s", fd.FullName(), part.Descriptor().FullName())
		}
		msg.Set(fd, protoreflect.ValueOfMessage(part))
	}
	return msg, nil
}

// SplitMdib returns the version group, description and state parts of an
// MdibMsg.
func (m *Mapper) SplitMdib(src protoreflect.Message) (VersionGroup, protoreflect.Message, protoreflect.Message, error) {
	var parts [3]protoreflect.Message
	for i, name := range []string{"a_mdib_version_group", "md_description", "md_state"} {
		fd, err := field(src, name)
		if err != nil {
			return VersionGroup{}, nil, nil, err
		}
		if !src.Has(fd) {
			return VersionGroup{}, nil, nil, types.DecodeValidation("decode", "mdib without %s", name)
		}
		parts[i] = src.Get(fd).Message()
	}
	g, err := m.DecodeVersionGroup(parts[0])
	if err != nil {
		return VersionGroup{}, nil, nil, err
	}
	return g, parts[1], parts[2], nil
}

// EncodeReport builds an EpisodicReportMsg.
func (m *Mapper) EncodeReport(r Report) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.EpisodicReportMsg)
	if err != nil {
		return nil, err
	}
	gfd, err := field(msg, "a_mdib_version_group")
	if err != nil {
		return nil, err
	}
	if err := m.EncodeVersionGroup(r.Version, msg.Mutable(gfd).Message()); err != nil {
		return nil, err
	}
	if err := setEnum(msg, "a_report_type", int(r.Type)); err != nil {
		return nil, err
	}
	if err := m.encodeStateField(msg, r.States); err != nil {
		return nil, err
	}
	if len(r.Parts) == 0 {
		return msg, nil
	}
	pfd, err := field(msg, "report_part")
	if err != nil {
		return nil, err
	}
	list := msg.Mutable(pfd).List()
	for _, part := range r.Parts {
		el := list.NewElement()
		if err := m.encodePart(part, el.Message()); err != nil {
			return nil, err
		}
		list.Append(el)
	}
	return msg, nil
}

func (m *Mapper) encodePart(part ReportPart, dst protoreflect.Message) error {
	if part.ParentHandle != "" {
		if err := setString(dst, "a_parent_descriptor", part.ParentHandle); err != nil {
			return err
		}
	}
	if err := setEnum(dst, "a_modification_type", int(part.Modification)); err != nil {
		return err
	}
	if len(part.Descriptors) > 0 {
		fd, err := field(dst, "descriptor")
		if err != nil {
			return err
		}
		list := dst.Mutable(fd).List()
		for _, d := range part.Descriptors {
			el := list.NewElement()
			if err := m.EncodeInto(d, el.Message()); err != nil {
				return err
			}
			list.Append(el)
		}
	}
	return m.encodeStateField(dst, part.States)
}

// DecodeReport decodes an EpisodicReportMsg. Descriptors of a part get the
// part's parent handle.
func (m *Mapper) DecodeReport(src protoreflect.Message) (Report, error) {
	var r Report
	gfd, err := field(src, "a_mdib_version_group")
	if err != nil {
		return r, err
	}
	if r.Version, err = m.DecodeVersionGroup(src.Get(gfd).Message()); err != nil {
		return r, err
	}
	t, err := getEnum(src, "a_report_type", len(model.ReportTypes()))
	if err != nil {
		return r, err
	}
	r.Type = model.ReportType(t)
	if r.States, err = m.decodeStateField(src); err != nil {
		return r, err
	}
	pfd, err := field(src, "report_part")
	if err != nil {
		return r, err
	}
	list := src.Get(pfd).List()
	for i := 0; i < list.Len(); i++ {
		part, err := m.decodePart(list.Get(i).Message())
		if err != nil {
			return r, err
		}
		r.Parts = append(r.Parts, part)
	}
	return r, nil
}

func (m *Mapper) decodePart(src protoreflect.Message) (ReportPart, error) {
	var part ReportPart
	var err error
	if part.ParentHandle, err = getString(src, "a_parent_descriptor"); err != nil {
		return part, err
	}
	mod, err := getEnum(src, "a_modification_type", int(model.Delete)+1)
	if err != nil {
		return part, err
	}
	part.Modification = model.ModificationType(mod)
	fd, err := field(src, "descriptor")
	if err != nil {
		return part, err
	}
	list := src.Get(fd).List()
	for i := 0; i < list.Len(); i++ {
		d, err := m.DecodeDescriptor(list.Get(i).Message())
		if err != nil {
			return part, err
		}
		d.DescriptorBase().ParentHandle = part.ParentHandle
		part.Descriptors = append(part.Descriptors, d)
	}
	if part.States, err = m.decodeStateField(src); err != nil {
		return part, err
	}
	return part, nil
}

// RecordError is the failure of one record inside a batch.
type RecordError struct {
	Index  int
	Handle string
	Err    error
}

func (e RecordError) Error() string {
	if e.Handle == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.Handle, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// DecodeStateRecords decodes an MdStateMsg record by record. Decode
// validation failures are collected; any other failure aborts.
func (m *Mapper) DecodeStateRecords(src protoreflect.Message) ([]model.State, []RecordError, uint64, error) {
	fd, err := field(src, "state")
	if err != nil {
		return nil, nil, 0, err
	}
	list := src.Get(fd).List()
	var (
		states []model.State
		failed []RecordError
	)
	for i := 0; i < list.Len(); i++ {
		s, err := m.DecodeState(list.Get(i).Message())
		if err != nil {
			if !errors.Is(err, types.ErrDecodeValidation) {
				return nil, nil, 0, err
			}
			failed = append(failed, RecordError{Index: i, Err: err})
			continue
		}
		states = append(states, s)
	}
	version, err := getUint64(src, "a_state_version")
	if err != nil {
		return nil, nil, 0, err
	}
	return states, failed, version, nil
}
