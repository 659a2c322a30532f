package prop

import (
	"bytes"
	"fmt"

	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ElementProp is an optional nested composite. C is a pointer type or an
// interface implemented by several composites of one family.
type ElementProp[C interface {
	comparable
	Composite
}] struct {
	meta
	v    *C
	elem string
}

// Element declares an optional sub-element of declared type elem.
func Element[C interface {
	comparable
	Composite
}](name string, v *C, elem string) *ElementProp[C] {
	return &ElementProp[C]{meta: meta{name: name, storage: InElement, policy: Optional}, v: v, elem: elem}
}

func (p *ElementProp[C]) isNil() bool {
	var zero C
	return *p.v == zero
}

func (p *ElementProp[C]) Present() bool { return !p.isNil() }

func (p *ElementProp[C]) Get() any {
	if p.isNil() {
		return nil
	}
	return *p.v
}

func (p *ElementProp[C]) Actual() (any, bool) {
	if p.isNil() {
		return nil, false
	}
	return *p.v, true
}

func (p *ElementProp[C]) ElemType() string { return p.elem }

func (p *ElementProp[C]) Values() []Composite {
	if p.isNil() {
		return nil
	}
	return []Composite{*p.v}
}

func (p *ElementProp[C]) SetValues(values []Composite) error {
	switch len(values) {
	case 0:
		var zero C
		*p.v = zero
		return nil
	case 1:
		c, ok := values[0].(C)
		if !ok {
			return types.SchemaMismatch("decode", "%s: %s is not assignable", p.name, values[0].TypeName())
		}
		*p.v = c
		return nil
	default:
		return types.DecodeValidation("decode", "%s: %d values for a single element", p.name, len(values))
	}
}

func (p *ElementProp[C]) Equal(other Property) bool {
	o, ok := other.(*ElementProp[C])
	if !ok {
		return false
	}
	if p.isNil() || o.isNil() {
		return p.isNil() && o.isNil()
	}
	return Equal(*p.v, *o.v)
}

func (p *ElementProp[C]) CopyFrom(other Property) error {
	o, ok := other.(*ElementProp[C])
	if !ok {
		return mismatchKind(p.name, other)
	}
	if o.isNil() {
		var zero C
		*p.v = zero
		return nil
	}
	c, err := cloneValue(*o.v)
	if err != nil {
		return err
	}
	*p.v = c
	return nil
}

func (p *ElementProp[C]) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error {
	if err := expectKind(fd, false, protoreflect.MessageKind); err != nil {
		return err
	}
	if p.isNil() {
		return nil
	}
	return c.EncodeInto(*p.v, dst.Mutable(fd).Message())
}

func (p *ElementProp[C]) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error {
	if err := expectKind(fd, false, protoreflect.MessageKind); err != nil {
		return err
	}
	if !src.Has(fd) {
		return nil
	}
	v, err := c.DecodeFrom(src.Get(fd).Message())
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", p.name, err)
	}
	return p.SetValues([]Composite{v})
}

// StructProp is a required composite embedded by value in its owner.
type StructProp struct {
	meta
	v Composite
}

// Struct declares a required sub-element. v points into the owning struct.
func Struct(name string, v Composite) *StructProp {
	return &StructProp{meta: meta{name: name, storage: InElement, policy: Required}, v: v}
}

func (p *StructProp) Present() bool       { return true }
func (p *StructProp) Get() any            { return p.v }
func (p *StructProp) Actual() (any, bool) { return p.v, true }
func (p *StructProp) ElemType() string    { return p.v.TypeName() }
func (p *StructProp) Values() []Composite { return []Composite{p.v} }

func (p *StructProp) SetValues(values []Composite) error {
	if len(values) != 1 {
		return types.DecodeValidation("decode", "%s: want exactly one value, got %d", p.name, len(values))
	}
	return copyProps(p.v, values[0], true)
}

func (p *StructProp) Equal(other Property) bool {
	o, ok := other.(*StructProp)
	return ok && Equal(p.v, o.v)
}

func (p *StructProp) CopyFrom(other Property) error {
	o, ok := other.(*StructProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	return copyProps(p.v, o.v, true)
}

func (p *StructProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error {
	if err := expectKind(fd, false, protoreflect.MessageKind); err != nil {
		return err
	}
	return c.EncodeInto(p.v, dst.Mutable(fd).Message())
}

func (p *StructProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error {
	if err := expectKind(fd, false, protoreflect.MessageKind); err != nil {
		return err
	}
	if !src.Has(fd) {
		return missingRequired(fd)
	}
	if err := c.DecodeInto(src.Get(fd).Message(), p.v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", p.name, err)
	}
	return nil
}

// ElementsProp is a repeated nested composite.
type ElementsProp[C Composite] struct {
	meta
	v    *[]C
	elem string
}

func Elements[C Composite](name string, v *[]C, elem string) *ElementsProp[C] {
	return &ElementsProp[C]{meta: meta{name: name, storage: InElementList, policy: Optional}, v: v, elem: elem}
}

func (p *ElementsProp[C]) Present() bool { return len(*p.v) > 0 }

func (p *ElementsProp[C]) Get() any {
	if len(*p.v) == 0 {
		return nil
	}
	return *p.v
}

func (p *ElementsProp[C]) Actual() (any, bool) {
	if len(*p.v) == 0 {
		return nil, false
	}
	return *p.v, true
}

func (p *ElementsProp[C]) ElemType() string { return p.elem }

func (p *ElementsProp[C]) Values() []Composite {
	out := make([]Composite, len(*p.v))
	for i, v := range *p.v {
		out[i] = v
	}
	return out
}

func (p *ElementsProp[C]) SetValues(values []Composite) error {
	if len(values) == 0 {
		*p.v = nil
		return nil
	}
	out := make([]C, 0, len(values))
	for _, v := range values {
		c, ok := v.(C)
		if !ok {
			return types.SchemaMismatch("decode", "%s: %s is not assignable", p.name, v.TypeName())
		}
		out = append(out, c)
	}
	*p.v = out
	return nil
}

func (p *ElementsProp[C]) Equal(other Property) bool {
	o, ok := other.(*ElementsProp[C])
	if !ok || len(*p.v) != len(*o.v) {
		return false
	}
	for i := range *p.v {
		if !Equal((*p.v)[i], (*o.v)[i]) {
			return false
		}
	}
	return true
}

func (p *ElementsProp[C]) CopyFrom(other Property) error {
	o, ok := other.(*ElementsProp[C])
	if !ok {
		return mismatchKind(p.name, other)
	}
	if len(*o.v) == 0 {
		*p.v = nil
		return nil
	}
	out := make([]C, len(*o.v))
	for i, v := range *o.v {
		c, err := cloneValue(v)
		if err != nil {
			return err
		}
		out[i] = c
	}
	*p.v = out
	return nil
}

func (p *ElementsProp[C]) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error {
	if err := expectKind(fd, true, protoreflect.MessageKind); err != nil {
		return err
	}
	if len(*p.v) == 0 {
		return nil
	}
	list := dst.Mutable(fd).List()
	for _, v := range *p.v {
		elem := list.NewElement()
		if err := c.EncodeInto(v, elem.Message()); err != nil {
			return fmt.Errorf("failed to encode %s: %w", p.name, err)
		}
		list.Append(elem)
	}
	return nil
}

func (p *ElementsProp[C]) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error {
	if err := expectKind(fd, true, protoreflect.MessageKind); err != nil {
		return err
	}
	list := src.Get(fd).List()
	if list.Len() == 0 {
		return nil
	}
	values := make([]Composite, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		v, err := c.DecodeFrom(list.Get(i).Message())
		if err != nil {
			return fmt.Errorf("failed to decode %s[%d]: %w", p.name, i, err)
		}
		values = append(values, v)
	}
	return p.SetValues(values)
}

// Extension is opaque content owned by an external collaborator. Two
// extensions compare equal when both are present, whatever their content.
type Extension struct {
	Content []byte
}

// OpaqueProp carries an Extension as ExtensionMsg{ bytes content }.
type OpaqueProp struct {
	meta
	v **Extension
}

func Opaque(name string, v **Extension) *OpaqueProp {
	return &OpaqueProp{meta: meta{name: name, storage: InElement, policy: Optional}, v: v}
}

func (p *OpaqueProp) Present() bool { return *p.v != nil }

func (p *OpaqueProp) Get() any {
	if *p.v == nil {
		return nil
	}
	return *p.v
}

func (p *OpaqueProp) Actual() (any, bool) {
	if *p.v == nil {
		return nil, false
	}
	return *p.v, true
}

func (p *OpaqueProp) Text() (string, bool) {
	if *p.v == nil {
		return "", false
	}
	return string((*p.v).Content), true
}

func (p *OpaqueProp) SetText(s string) error {
	*p.v = &Extension{Content: []byte(s)}
	return nil
}

func (p *OpaqueProp) Equal(other Property) bool {
	o, ok := other.(*OpaqueProp)
	return ok && (*p.v == nil) == (*o.v == nil)
}

func (p *OpaqueProp) CopyFrom(other Property) error {
	o, ok := other.(*OpaqueProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	if *o.v == nil {
		*p.v = nil
		return nil
	}
	*p.v = &Extension{Content: bytes.Clone((*o.v).Content)}
	return nil
}

func (p *OpaqueProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	cfd, err := subField(fd, "content", protoreflect.BytesKind)
	if err != nil {
		return err
	}
	if *p.v == nil {
		return nil
	}
	m := dst.Mutable(fd).Message()
	if len((*p.v).Content) > 0 {
		m.Set(cfd, protoreflect.ValueOfBytes((*p.v).Content))
	}
	return nil
}

func (p *OpaqueProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	cfd, err := subField(fd, "content", protoreflect.BytesKind)
	if err != nil {
		return err
	}
	if !src.Has(fd) {
		return nil
	}
	*p.v = &Extension{Content: bytes.Clone(src.Get(fd).Message().Get(cfd).Bytes())}
	return nil
}
