package pb

import (
	"github.com/KevinKickass/OpenMDIB/internal/naming"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Package is the protobuf package of every catalog message.
const Package = "mdib.v1"

const (
	// EnumField is the single field of an enum wrapper message.
	EnumField = "enum_value"
	// EnumTypeName is the nested enum declared by an enum wrapper message.
	EnumTypeName = "EnumType"
	// UnionName is the oneof declared by a union message.
	UnionName = "choice"
)

type shape struct {
	kind     descriptorpb.FieldDescriptorProto_Type
	typeName string
}

var (
	plainString = shape{kind: descriptorpb.FieldDescriptorProto_TYPE_STRING}
	plainBool   = shape{kind: descriptorpb.FieldDescriptorProto_TYPE_BOOL}
	plainBytes  = shape{kind: descriptorpb.FieldDescriptorProto_TYPE_BYTES}
	stringValue = wkt("google.protobuf.StringValue")
	uint64Value = wkt("google.protobuf.UInt64Value")
	int64Value  = wkt("google.protobuf.Int64Value")
	boolValue   = wkt("google.protobuf.BoolValue")
	duration    = wkt("google.protobuf.Duration")
)

func wkt(full string) shape {
	return shape{kind: descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName: "." + full}
}

// msgOf refers to the message of a model type or enum.
func msgOf(typeName string) shape {
	return shape{kind: descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName: "." + Package + "." + naming.MessageName(typeName)}
}

// unionOf refers to the union message of a family.
func unionOf(typeName string) shape {
	return shape{kind: descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName: "." + Package + "." + naming.OneOfMessageName(typeName)}
}

type field struct {
	name     string
	shape    shape
	repeated bool
}

func attr(name string, s shape) field { return field{name: naming.AttrToWire(name), shape: s} }
func attrs(name string) field {
	return field{name: naming.AttrToWire(name), shape: plainString, repeated: true}
}
func elem(name string, s shape) field { return field{name: naming.ToWire(name), shape: s} }
func elems(name string, s shape) field {
	return field{name: naming.ToWire(name), shape: s, repeated: true}
}
func texts(name string) field {
	return field{name: naming.ToWire(name), shape: plainString, repeated: true}
}

// raw declares a field with a literal wire name.
func raw(name string, s shape) field { return field{name: name, shape: s} }

func rawList(name string, s shape) field { return field{name: name, shape: s, repeated: true} }

type message struct {
	name   string
	fields []field
	union  bool
	enum   []string
}

// block declares the message of one chain level. A non-empty parent adds the
// nested field carrying the parent block.
func block(typeName, parent string, fields ...field) message {
	if parent != "" {
		fields = append([]field{elem(parent, msgOf(parent))}, fields...)
	}
	return message{name: naming.MessageName(typeName), fields: fields}
}

type variant struct {
	typeName string
	family   bool
}

// leaf is a concrete union variant.
func leaf(typeName string) variant { return variant{typeName: typeName} }

// fam is a variant that is itself a family and nests its own union.
func fam(typeName string) variant { return variant{typeName: typeName, family: true} }

// union declares the one-of message of a family.
func union(family string, variants ...variant) message {
	fields := make([]field, 0, len(variants))
	for _, v := range variants {
		if v.family {
			fields = append(fields, raw(naming.OneOf(v.typeName), unionOf(v.typeName)))
		} else {
			fields = append(fields, raw(naming.ToWire(v.typeName), msgOf(v.typeName)))
		}
	}
	return message{name: naming.OneOfMessageName(family), fields: fields, union: true}
}

// enumMsg declares an enum wrapper. Values are wire names; the first one is
// the proto3 zero value.
func enumMsg(typeName string, values ...string) message {
	return message{name: naming.MessageName(typeName), enum: values}
}

func (m message) descriptor() *descriptorpb.DescriptorProto {
	dp := &descriptorpb.DescriptorProto{Name: proto.String(m.name)}
	if len(m.enum) > 0 {
		ed := &descriptorpb.EnumDescriptorProto{Name: proto.String(EnumTypeName)}
		for i, v := range m.enum {
			ed.Value = append(ed.Value, &descriptorpb.EnumValueDescriptorProto{
				Name:   proto.String(v),
				Number: proto.Int32(int32(i)),
			})
		}
		dp.EnumType = []*descriptorpb.EnumDescriptorProto{ed}
		dp.Field = []*descriptorpb.FieldDescriptorProto{{
			Name:     proto.String(EnumField),
			Number:   proto.Int32(1),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:     descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum(),
			TypeName: proto.String("." + Package + "." + m.name + "." + EnumTypeName),
		}}
		return dp
	}
	if m.union {
		dp.OneofDecl = []*descriptorpb.OneofDescriptorProto{{Name: proto.String(UnionName)}}
	}
	for i, f := range m.fields {
		fd := &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(f.name),
			Number: proto.Int32(int32(i + 1)),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:   f.shape.kind.Enum(),
		}
		if f.repeated {
			fd.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		}
		if f.shape.typeName != "" {
			fd.TypeName = proto.String(f.shape.typeName)
		}
		if m.union {
			fd.OneofIndex = proto.Int32(0)
		}
		dp.Field = append(dp.Field, fd)
	}
	return dp
}

type rpc struct {
	name         string
	input        string
	output       string
	serverStream bool
}

type service struct {
	name    string
	methods []rpc
}

func (s service) descriptor() *descriptorpb.ServiceDescriptorProto {
	sd := &descriptorpb.ServiceDescriptorProto{Name: proto.String(s.name)}
	for _, m := range s.methods {
		md := &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m.name),
			InputType:  proto.String("." + Package + "." + m.input),
			OutputType: proto.String("." + Package + "." + m.output),
		}
		if m.serverStream {
			md.ServerStreaming = proto.Bool(true)
		}
		sd.Method = append(sd.Method, md)
	}
	return sd
}
