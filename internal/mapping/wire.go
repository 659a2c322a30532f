package mapping

import (
	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Container fields are either plain scalars or wrapper messages with a
// single "value" field.
func scalarTarget(msg protoreflect.Message, name string, kind protoreflect.Kind, mutable bool) (protoreflect.Message, protoreflect.FieldDescriptor, error) {
	fd, err := field(msg, name)
	if err != nil {
		return nil, nil, err
	}
	if fd.Kind() == kind && !fd.IsList() {
		return msg, fd, nil
	}
	if fd.Kind() != protoreflect.MessageKind {
		return nil, nil, types.SchemaMismatch("mapping", "%s has kind %s, want %s", fd.FullName(), fd.Kind(), kind)
	}
	vfd := fd.Message().Fields().ByName("value")
	if vfd == nil || vfd.Kind() != kind {
		return nil, nil, types.SchemaMismatch("mapping", "%s is not a %s wrapper", fd.FullName(), kind)
	}
	if mutable {
		return msg.Mutable(fd).Message(), vfd, nil
	}
	if !msg.Has(fd) {
		return nil, vfd, nil
	}
	return msg.Get(fd).Message(), vfd, nil
}

func setUint64(msg protoreflect.Message, name string, v uint64) error {
	dst, fd, err := scalarTarget(msg, name, protoreflect.Uint64Kind, true)
	if err != nil {
		return err
	}
	dst.Set(fd, protoreflect.ValueOfUint64(v))
	return nil
}

func getUint64(msg protoreflect.Message, name string) (uint64, error) {
	src, fd, err := scalarTarget(msg, name, protoreflect.Uint64Kind, false)
	if err != nil || src == nil {
		return 0, err
	}
	return src.Get(fd).Uint(), nil
}

func setString(msg protoreflect.Message, name, v string) error {
	dst, fd, err := scalarTarget(msg, name, protoreflect.StringKind, true)
	if err != nil {
		return err
	}
	dst.Set(fd, protoreflect.ValueOfString(v))
	return nil
}

func getString(msg protoreflect.Message, name string) (string, error) {
	src, fd, err := scalarTarget(msg, name, protoreflect.StringKind, false)
	if err != nil || src == nil {
		return "", err
	}
	return src.Get(fd).String(), nil
}

func enumField(msg protoreflect.Message, name string) (protoreflect.FieldDescriptor, protoreflect.FieldDescriptor, error) {
	fd, err := field(msg, name)
	if err != nil {
		return nil, nil, err
	}
	if fd.Kind() != protoreflect.MessageKind {
		return nil, nil, types.SchemaMismatch("mapping", "%s is not an enum wrapper", fd.FullName())
	}
	efd := fd.Message().Fields().ByName(pb.EnumField)
	if efd == nil || efd.Kind() != protoreflect.EnumKind {
		return nil, nil, types.SchemaMismatch("mapping", "%s is not an enum wrapper", fd.FullName())
	}
	return fd, efd, nil
}

func setEnum(msg protoreflect.Message, name string, n int) error {
	fd, efd, err := enumField(msg, name)
	if err != nil {
		return err
	}
	if efd.Enum().Values().ByNumber(protoreflect.EnumNumber(n)) == nil {
		return types.SchemaMismatch("encode", "%s has no value %d", efd.Enum().FullName(), n)
	}
	msg.Mutable(fd).Message().Set(efd, protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)))
	return nil
}

// getEnum reads a required enum wrapper whose values must lie in [0, limit).
func getEnum(msg protoreflect.Message, name string, limit int) (int, error) {
	fd, efd, err := enumField(msg, name)
	if err != nil {
		return 0, err
	}
	if !msg.Has(fd) {
		return 0, types.DecodeValidation("decode", "required field %s is absent", fd.FullName())
	}
	n := int(msg.Get(fd).Message().Get(efd).Enum())
	if n < 0 || n >= limit || efd.Enum().Values().ByNumber(protoreflect.EnumNumber(n)) == nil {
		return 0, types.DecodeValidation("decode", "%s carries unknown value %d", fd.FullName(), n)
	}
	return n, nil
}
