package prop

import (
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	wrapperValueField = "value"
	enumValueField    = "enum_value"
)

func expectKind(fd protoreflect.FieldDescriptor, list bool, kinds ...protoreflect.Kind) error {
	if fd.IsList() != list {
		return types.SchemaMismatch("field", "%s: list=%t, want list=%t", fd.FullName(), fd.IsList(), list)
	}
	for _, k := range kinds {
		if fd.Kind() == k {
			return nil
		}
	}
	return types.SchemaMismatch("field", "%s has kind %s, want %v", fd.FullName(), fd.Kind(), kinds)
}

// subField resolves a named field inside the message type of fd.
func subField(fd protoreflect.FieldDescriptor, name string, kind protoreflect.Kind) (protoreflect.FieldDescriptor, error) {
	if err := expectKind(fd, false, protoreflect.MessageKind); err != nil {
		return nil, err
	}
	sub := fd.Message().Fields().ByName(protoreflect.Name(name))
	if sub == nil {
		return nil, types.SchemaMismatch("field", "%s has no field %q", fd.Message().FullName(), name)
	}
	if sub.Kind() != kind {
		return nil, types.SchemaMismatch("field", "%s has kind %s, want %s", sub.FullName(), sub.Kind(), kind)
	}
	return sub, nil
}

// setWrapped stores v inside a wrapper message (StringValue, UInt64Value, ...).
func setWrapped(dst protoreflect.Message, fd protoreflect.FieldDescriptor, kind protoreflect.Kind, v protoreflect.Value) error {
	vfd, err := subField(fd, wrapperValueField, kind)
	if err != nil {
		return err
	}
	dst.Mutable(fd).Message().Set(vfd, v)
	return nil
}

// getWrapped reads a wrapper message. ok is false when the wrapper is absent.
func getWrapped(src protoreflect.Message, fd protoreflect.FieldDescriptor, kind protoreflect.Kind) (protoreflect.Value, bool, error) {
	vfd, err := subField(fd, wrapperValueField, kind)
	if err != nil {
		return protoreflect.Value{}, false, err
	}
	if !src.Has(fd) {
		return protoreflect.Value{}, false, nil
	}
	return src.Get(fd).Message().Get(vfd), true, nil
}

func missingRequired(fd protoreflect.FieldDescriptor) error {
	return types.DecodeValidation("decode", "required field %s is absent", fd.FullName())
}
