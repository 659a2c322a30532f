// Package mapping converts model composites to and from wire messages of the
// catalog. It walks property declarations generically and never logs.
package mapping

import (
	"fmt"
	"strings"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/naming"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

const msgSuffix = "Msg"

// Mapper encodes and decodes composites against one catalog. It is safe for
// concurrent use.
type Mapper struct {
	catalog *pb.Catalog
}

func New(catalog *pb.Catalog) *Mapper {
	return &Mapper{catalog: catalog}
}

// Default returns a mapper over the default catalog.
func Default() *Mapper {
	return New(pb.Default())
}

func (m *Mapper) Catalog() *pb.Catalog { return m.catalog }

// Encode returns the concrete message of v.
func (m *Mapper) Encode(v prop.Composite) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(naming.MessageName(v.TypeName()))
	if err != nil {
		return nil, err
	}
	if err := m.encodeBlocks(v, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// EncodeUnion returns v wrapped in the union message of family.
func (m *Mapper) EncodeUnion(v prop.Composite, family string) (*dynamicpb.Message, error) {
	msg, err := m.catalog.NewMessage(naming.OneOfMessageName(family))
	if err != nil {
		return nil, err
	}
	if err := m.EncodeInto(v, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// EncodeInto writes v into dst, which is either v's concrete message or the
// union message of a family v belongs to.
func (m *Mapper) EncodeInto(v prop.Composite, dst protoreflect.Message) error {
	_, err := m.encodeConcrete(v, dst)
	return err
}

// encodeConcrete encodes v and returns the concrete message it landed in.
func (m *Mapper) encodeConcrete(v prop.Composite, dst protoreflect.Message) (protoreflect.Message, error) {
	target, err := m.descend(v.TypeName(), dst)
	if err != nil {
		return nil, err
	}
	if err := m.encodeBlocks(v, target); err != nil {
		return nil, err
	}
	return target, nil
}

// descend follows the one-of path from a union message down to the concrete
// message of typeName, creating intermediate messages.
func (m *Mapper) descend(typeName string, dst protoreflect.Message) (protoreflect.Message, error) {
	md := dst.Descriptor()
	if !pb.IsUnion(md) {
		if string(md.Name()) != naming.MessageName(typeName) {
			return nil, types.SchemaMismatch("encode", "cannot write %s into %s", typeName, md.FullName())
		}
		return dst, nil
	}
	family := strings.TrimSuffix(string(md.Name()), "OneOf"+msgSuffix)
	path, err := OneOfPath(family, typeName)
	if err != nil {
		return nil, err
	}
	cur := dst
	for _, step := range path {
		fd, err := field(cur, step)
		if err != nil {
			return nil, err
		}
		cur = cur.Mutable(fd).Message()
	}
	return cur, nil
}

// encodeBlocks writes every block of v into the nested block messages below
// the concrete message msg, innermost block first.
func (m *Mapper) encodeBlocks(v prop.Composite, msg protoreflect.Message) error {
	blocks := v.Blocks()
	cur := msg
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		if err := expectMessage(cur, b.Type); err != nil {
			return err
		}
		for _, p := range b.Props {
			fd, err := field(cur, prop.WireName(p))
			if err != nil {
				return err
			}
			if err := p.Encode(cur, fd, m); err != nil {
				return fmt.Errorf("failed to encode %s.%s: %w", b.Type, p.Name(), err)
			}
		}
		if i > 0 {
			fd, err := field(cur, naming.ToWire(blocks[i-1].Type))
			if err != nil {
				return err
			}
			cur = cur.Mutable(fd).Message()
		}
	}
	return nil
}

// Decode builds a new composite from src, unwrapping unions.
func (m *Mapper) Decode(src protoreflect.Message) (prop.Composite, error) {
	concrete, typeName, err := Unwrap(src)
	if err != nil {
		return nil, err
	}
	v, err := prop.New(typeName)
	if err != nil {
		return nil, types.SchemaMismatch("decode", "%v", err)
	}
	if err := m.decodeBlocks(concrete, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeFrom implements prop.Codec.
func (m *Mapper) DecodeFrom(src protoreflect.Message) (prop.Composite, error) {
	return m.Decode(src)
}

// DecodeInto fills dst from src. The concrete type on the wire must be
// dst's type.
func (m *Mapper) DecodeInto(src protoreflect.Message, dst prop.Composite) error {
	concrete, typeName, err := Unwrap(src)
	if err != nil {
		return err
	}
	if typeName != dst.TypeName() {
		return types.DecodeValidation("decode", "wire carries %s, want %s", typeName, dst.TypeName())
	}
	return m.decodeBlocks(concrete, dst)
}

func (m *Mapper) decodeBlocks(msg protoreflect.Message, v prop.Composite) error {
	blocks := v.Blocks()
	cur := msg
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		if err := expectMessage(cur, b.Type); err != nil {
			return err
		}
		for _, p := range b.Props {
			fd, err := field(cur, prop.WireName(p))
			if err != nil {
				return err
			}
			if err := p.Decode(cur, fd, m); err != nil {
				return fmt.Errorf("failed to decode %s.%s: %w", b.Type, p.Name(), err)
			}
		}
		if i > 0 {
			fd, err := field(cur, naming.ToWire(blocks[i-1].Type))
			if err != nil {
				return err
			}
			cur = cur.Get(fd).Message()
		}
	}
	return nil
}

// Unwrap descends through union messages to the single populated concrete
// message and returns it with its model type name.
func Unwrap(src protoreflect.Message) (protoreflect.Message, string, error) {
	cur := src
	for pb.IsUnion(cur.Descriptor()) {
		var (
			set   protoreflect.FieldDescriptor
			count int
		)
		cur.Range(func(fd protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
			set = fd
			count++
			return true
		})
		if count != 1 {
			return nil, "", types.SchemaMismatch("decode",
				"union %s has %d populated variants, want exactly one", cur.Descriptor().FullName(), count)
		}
		cur = cur.Get(set).Message()
	}
	name := string(cur.Descriptor().Name())
	if !strings.HasSuffix(name, msgSuffix) {
		return nil, "", types.SchemaMismatch("decode", "message %s does not name a model type", cur.Descriptor().FullName())
	}
	return cur, strings.TrimSuffix(name, msgSuffix), nil
}

// OneOfPath returns the union field names leading from the union message of
// family to the concrete message of typeName.
func OneOfPath(family, typeName string) ([]string, error) {
	chain, err := prop.Chain(typeName)
	if err != nil {
		return nil, types.SchemaMismatch("encode", "%v", err)
	}
	at := -1
	for i, t := range chain {
		if t == family {
			at = i
			break
		}
	}
	if at < 0 {
		return nil, types.InvariantViolation("encode", "%s is not a %s", typeName, family)
	}
	var path []string
	for _, t := range chain[at+1 : len(chain)-1] {
		if isFamily(t) {
			path = append(path, naming.OneOf(t))
		}
	}
	if typeName != family && isFamily(typeName) {
		path = append(path, naming.OneOf(typeName))
	}
	return append(path, naming.ToWire(typeName)), nil
}

func isFamily(typeName string) bool {
	info, ok := prop.Lookup(typeName)
	return ok && info.Family
}

func field(msg protoreflect.Message, name string) (protoreflect.FieldDescriptor, error) {
	fd := msg.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil, types.SchemaMismatch("mapping", "%s has no field %s", msg.Descriptor().FullName(), name)
	}
	return fd, nil
}

func expectMessage(msg protoreflect.Message, typeName string) error {
	if got := string(msg.Descriptor().Name()); got != naming.MessageName(typeName) {
		return types.SchemaMismatch("mapping", "block %s maps to %s, want %s", typeName, got, naming.MessageName(typeName))
	}
	return nil
}
