package mapping

import (
	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ArchiveRequest selects archived versions by handle and MDIB version
// range. A zero To is unbounded.
type ArchiveRequest struct {
	Handles []string
	From    uint64
	To      uint64
}

type ArchivedDescriptor struct {
	MdibVersion uint64
	Descriptor  model.Descriptor
}

type ArchivedState struct {
	MdibVersion uint64
	State       model.State
}

func (m *Mapper) setMessage(dst protoreflect.Message, name string, v protoreflect.Message) error {
	fd, err := field(dst, name)
	if err != nil {
		return err
	}
	if fd.Message() == nil || v.Descriptor().FullName() != fd.Message().FullName() {
		return types.SchemaMismatch("encode", "%s cannot hold %s", fd.FullName(), v.Descriptor().FullName())
	}
	dst.Set(fd, protoreflect.ValueOfMessage(v))
	return nil
}

func (m *Mapper) getMessage(src protoreflect.Message, name string) (protoreflect.Message, error) {
	fd, err := field(src, name)
	if err != nil {
		return nil, err
	}
	if !src.Has(fd) {
		return nil, types.DecodeValidation("decode", "%s without %s", src.Descriptor().Name(), name)
	}
	return src.Get(fd).Message(), nil
}

func setStrings(msg protoreflect.Message, name string, values []string) error {
	fd, err := field(msg, name)
	if err != nil {
		return err
	}
	if !fd.IsList() || fd.Kind() != protoreflect.StringKind {
		return types.SchemaMismatch("mapping", "%s is not a string list", fd.FullName())
	}
	if len(values) == 0 {
		return nil
	}
	list := msg.Mutable(fd).List()
	for _, v := range values {
		list.Append(protoreflect.ValueOfString(v))
	}
	return nil
}

func getStrings(msg protoreflect.Message, name string) ([]string, error) {
	fd, err := field(msg, name)
	if err != nil {
		return nil, err
	}
	if !fd.IsList() || fd.Kind() != protoreflect.StringKind {
		return nil, types.SchemaMismatch("mapping", "%s is not a string list", fd.FullName())
	}
	list := msg.Get(fd).List()
	out := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, list.Get(i).String())
	}
	return out, nil
}

// EncodeHandleRequest builds a GetMdDescription or GetMdState request.
func (m *Mapper) EncodeHandleRequest(msgName string, handles []string) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(msgName)
	if err != nil {
		return nil, err
	}
	if err := setStrings(msg, "handle_ref", handles); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *Mapper) DecodeHandleRequest(src protoreflect.Message) ([]string, error) {
	return getStrings(src, "handle_ref")
}

func (m *Mapper) EncodeGetMdibResponse(mdib protoreflect.Message) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.GetMdibResponse)
	if err != nil {
		return nil, err
	}
	if err := m.setMessage(msg, "mdib", mdib); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *Mapper) DecodeGetMdibResponse(src protoreflect.Message) (protoreflect.Message, error) {
	return m.getMessage(src, "mdib")
}

// EncodeVersionedResponse builds a GetMdDescription or GetMdState response
// from a version group and the MdDescription or MdState part.
func (m *Mapper) EncodeVersionedResponse(msgName string, g VersionGroup, part protoreflect.Message) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(msgName)
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
	name := "md_state"
	if msgName == pb.GetMdDescriptionResponse {
		name = "md_description"
	}
	if err := m.setMessage(msg, name, part); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *Mapper) DecodeVersionedResponse(src protoreflect.Message) (VersionGroup, protoreflect.Message, error) {
	group, err := m.getMessage(src, "a_mdib_version_group")
	if err != nil {
		return VersionGroup{}, nil, err
	}
	g, err := m.DecodeVersionGroup(group)
	if err != nil {
		return VersionGroup{}, nil, err
	}
	name := "md_state"
	if src.Descriptor().Name() == pb.GetMdDescriptionResponse {
		name = "md_description"
	}
	part, err := m.getMessage(src, name)
	if err != nil {
		return VersionGroup{}, nil, err
	}
	return g, part, nil
}

// EncodeReportRequest builds an EpisodicReport subscription for the given
// report types; none subscribes to all.
func (m *Mapper) EncodeReportRequest(actions []model.ReportType) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.EpisodicReportRequest)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	if err := setStrings(msg, "action", names); err != nil {
		return nil, err
	}
	return msg, nil
}

// DecodeReportRequest returns the requested report types. An unknown action
// is a decode validation error.
func (m *Mapper) DecodeReportRequest(src protoreflect.Message) ([]model.ReportType, error) {
	names, err := getStrings(src, "action")
	if err != nil {
		return nil, err
	}
	out := make([]model.ReportType, 0, len(names))
	for _, n := range names {
		t, err := model.ParseReportType(n)
		if err != nil {
			return nil, types.DecodeValidation("decode", "%v", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// EncodeArchiveRequest builds a GetDescriptorsFromArchive or
// GetStatesFromArchive request.
func (m *Mapper) EncodeArchiveRequest(msgName string, r ArchiveRequest) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(msgName)
	if err != nil {
		return nil, err
	}
	if err := setStrings(msg, "handle_ref", r.Handles); err != nil {
		return nil, err
	}
	if r.From > 0 {
		if err := setUint64(msg, "a_from_mdib_version", r.From); err != nil {
			return nil, err
		}
	}
	if r.To > 0 {
		if err := setUint64(msg, "a_to_mdib_version", r.To); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (m *Mapper) DecodeArchiveRequest(src protoreflect.Message) (ArchiveRequest, error) {
	var r ArchiveRequest
	var err error
	if r.Handles, err = getStrings(src, "handle_ref"); err != nil {
		return r, err
	}
	if r.From, err = getUint64(src, "a_from_mdib_version"); err != nil {
		return r, err
	}
	if r.To, err = getUint64(src, "a_to_mdib_version"); err != nil {
		return r, err
	}
	if r.To > 0 && r.To < r.From {
		return r, types.DecodeValidation("decode", "archive range %d..%d is empty", r.From, r.To)
	}
	return r, nil
}

func (m *Mapper) EncodeArchivedDescriptors(entries []ArchivedDescriptor) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.GetDescriptorsFromArchiveResponse)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return msg, nil
	}
	fd, err := field(msg, "archived_descriptor")
	if err != nil {
		return nil, err
	}
	list := msg.Mutable(fd).List()
	for _, e := range entries {
		el := list.NewElement()
		dst := el.Message()
		if err := setUint64(dst, "a_mdib_version", e.MdibVersion); err != nil {
			return nil, err
		}
		if parent := e.Descriptor.DescriptorBase().ParentHandle; parent != "" {
			if err := setString(dst, "a_parent_descriptor", parent); err != nil {
				return nil, err
			}
		}
		dfd, err := field(dst, "descriptor")
		if err != nil {
			return nil, err
		}
		if err := m.EncodeInto(e.Descriptor, dst.Mutable(dfd).Message()); err != nil {
			return nil, err
		}
		list.Append(el)
	}
	return msg, nil
}

func (m *Mapper) DecodeArchivedDescriptors(src protoreflect.Message) ([]ArchivedDescriptor, error) {
	fd, err := field(src, "archived_descriptor")
	if err != nil {
		return nil, err
	}
	list := src.Get(fd).List()
	out := make([]ArchivedDescriptor, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		el := list.Get(i).Message()
		version, err := getUint64(el, "a_mdib_version")
		if err != nil {
			return nil, err
		}
		parent, err := getString(el, "a_parent_descriptor")
		if err != nil {
			return nil, err
		}
		inner, err := m.getMessage(el, "descriptor")
		if err != nil {
			return nil, err
		}
		d, err := m.DecodeDescriptor(inner)
		if err != nil {
			return nil, err
		}
		d.DescriptorBase().ParentHandle = parent
		out = append(out, ArchivedDescriptor{MdibVersion: version, Descriptor: d})
	}
	return out, nil
}

func (m *Mapper) EncodeArchivedStates(entries []ArchivedState) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(pb.GetStatesFromArchiveResponse)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return msg, nil
	}
	fd, err := field(msg, "archived_state")
	if err != nil {
		return nil, err
	}
	list := msg.Mutable(fd).List()
	for _, e := range entries {
		el := list.NewElement()
		dst := el.Message()
		if err := setUint64(dst, "a_mdib_version", e.MdibVersion); err != nil {
			return nil, err
		}
		sfd, err := field(dst, "state")
		if err != nil {
			return nil, err
		}
		if err := m.EncodeInto(e.State, dst.Mutable(sfd).Message()); err != nil {
			return nil, err
		}
		list.Append(el)
	}
	return msg, nil
}

func (m *Mapper) DecodeArchivedStates(src protoreflect.Message) ([]ArchivedState, error) {
	fd, err := field(src, "archived_state")
	if err != nil {
		return nil, err
	}
	list := src.Get(fd).List()
	out := make([]ArchivedState, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		el := list.Get(i).Message()
		version, err := getUint64(el, "a_mdib_version")
		if err != nil {
			return nil, err
		}
		inner, err := m.getMessage(el, "state")
		if err != nil {
			return nil, err
		}
		s, err := m.DecodeState(inner)
		if err != nil {
			return nil, err
		}
		out = append(out, ArchivedState{MdibVersion: version, State: s})
	}
	return out, nil
}
