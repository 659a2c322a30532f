package prop

import (
	"strconv"

	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// StringProp is a required string stored as a plain wire string.
type StringProp struct {
	meta
	v *string
}

// String declares a required string attribute.
func String(name string, v *string) *StringProp {
	return &StringProp{meta: meta{name: name, storage: InAttribute, policy: Required}, v: v}
}

// AsText stores the value as element text instead of an attribute.
func (p *StringProp) AsText() *StringProp {
	p.storage = InText
	return p
}

// WireAs overrides the derived wire field name.
func (p *StringProp) WireAs(name string) *StringProp {
	p.wire = name
	return p
}

// AsIdentity excludes the property from CopyFrom.
func (p *StringProp) AsIdentity() *StringProp {
	p.identity = true
	return p
}

func (p *StringProp) Present() bool       { return *p.v != "" }
func (p *StringProp) Get() any            { return *p.v }
func (p *StringProp) Actual() (any, bool) { return *p.v, true }
func (p *StringProp) Text() (string, bool) {
	return *p.v, true
}

func (p *StringProp) SetText(s string) error {
	*p.v = s
	return nil
}

func (p *StringProp) Equal(other Property) bool {
	o, ok := other.(*StringProp)
	return ok && *p.v == *o.v
}

func (p *StringProp) CopyFrom(other Property) error {
	o, ok := other.(*StringProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	*p.v = *o.v
	return nil
}

func (p *StringProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, false, protoreflect.StringKind); err != nil {
		return err
	}
	if *p.v != "" {
		dst.Set(fd, protoreflect.ValueOfString(*p.v))
	}
	return nil
}

func (p *StringProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, false, protoreflect.StringKind); err != nil {
		return err
	}
	*p.v = src.Get(fd).String()
	return nil
}

// OptStringProp is an optional string carried in a StringValue wrapper.
type OptStringProp struct {
	meta
	v       **string
	implied *string
}

func OptString(name string, v **string) *OptStringProp {
	return &OptStringProp{meta: meta{name: name, storage: InAttribute, policy: Optional}, v: v}
}

func (p *OptStringProp) AsText() *OptStringProp {
	p.storage = InText
	return p
}

// Implied sets the value reported by Get when nothing is stored.
func (p *OptStringProp) Implied(s string) *OptStringProp {
	p.implied = &s
	return p
}

func (p *OptStringProp) Present() bool { return *p.v != nil }

func (p *OptStringProp) Get() any {
	if *p.v != nil {
		return **p.v
	}
	if p.implied != nil {
		return *p.implied
	}
	return nil
}

func (p *OptStringProp) Actual() (any, bool) {
	if *p.v == nil {
		return nil, false
	}
	return **p.v, true
}

func (p *OptStringProp) Text() (string, bool) {
	if *p.v == nil {
		return "", false
	}
	return **p.v, true
}

func (p *OptStringProp) SetText(s string) error {
	*p.v = &s
	return nil
}

func (p *OptStringProp) Equal(other Property) bool {
	o, ok := other.(*OptStringProp)
	return ok && equalPtr(*p.v, *o.v)
}

func (p *OptStringProp) CopyFrom(other Property) error {
	o, ok := other.(*OptStringProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	*p.v = copyPtr(*o.v)
	return nil
}

func (p *OptStringProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if *p.v == nil {
		_, err := subField(fd, wrapperValueField, protoreflect.StringKind)
		return err
	}
	return setWrapped(dst, fd, protoreflect.StringKind, protoreflect.ValueOfString(**p.v))
}

func (p *OptStringProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	v, ok, err := getWrapped(src, fd, protoreflect.StringKind)
	if err != nil || !ok {
		return err
	}
	s := v.String()
	*p.v = &s
	return nil
}

// UintProp is an unsigned integer in a UInt64Value wrapper. The Defaulted form
// binds a plain value that is always encoded; the Optional form binds a pointer.
type UintProp struct {
	meta
	stored *uint64
	opt    **uint64
}

// UintDefault declares a defaulted unsigned integer such as DescriptorVersion.
func UintDefault(name string, v *uint64) *UintProp {
	return &UintProp{meta: meta{name: name, storage: InAttribute, policy: Defaulted}, stored: v}
}

// OptUint declares an optional unsigned integer.
func OptUint(name string, v **uint64) *UintProp {
	return &UintProp{meta: meta{name: name, storage: InAttribute, policy: Optional}, opt: v}
}

func (p *UintProp) value() (uint64, bool) {
	if p.stored != nil {
		return *p.stored, true
	}
	if *p.opt == nil {
		return 0, false
	}
	return **p.opt, true
}

func (p *UintProp) set(v uint64) {
	if p.stored != nil {
		*p.stored = v
		return
	}
	*p.opt = &v
}

func (p *UintProp) Present() bool {
	_, ok := p.value()
	return ok
}

func (p *UintProp) Get() any {
	v, ok := p.value()
	if !ok {
		return nil
	}
	return v
}

func (p *UintProp) Actual() (any, bool) {
	v, ok := p.value()
	if !ok {
		return nil, false
	}
	return v, true
}

func (p *UintProp) Text() (string, bool) {
	v, ok := p.value()
	if !ok {
		return "", false
	}
	return strconv.FormatUint(v, 10), true
}

func (p *UintProp) SetText(s string) error {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return types.DecodeValidation("decode", "%s: invalid unsigned integer %q", p.name, s)
	}
	p.set(v)
	return nil
}

func (p *UintProp) Equal(other Property) bool {
	o, ok := other.(*UintProp)
	if !ok {
		return false
	}
	a, aok := p.value()
	b, bok := o.value()
	return aok == bok && a == b
}

func (p *UintProp) CopyFrom(other Property) error {
	o, ok := other.(*UintProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	v, present := o.value()
	if present {
		p.set(v)
	} else if p.opt != nil {
		*p.opt = nil
	}
	return nil
}

func (p *UintProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	v, ok := p.value()
	if !ok {
		_, err := subField(fd, wrapperValueField, protoreflect.Uint64Kind)
		return err
	}
	return setWrapped(dst, fd, protoreflect.Uint64Kind, protoreflect.ValueOfUint64(v))
}

func (p *UintProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	v, ok, err := getWrapped(src, fd, protoreflect.Uint64Kind)
	if err != nil || !ok {
		return err
	}
	p.set(v.Uint())
	return nil
}

// IntProp is an optional signed integer in an Int64Value wrapper.
type IntProp struct {
	meta
	v **int64
}

func OptInt(name string, v **int64) *IntProp {
	return &IntProp{meta: meta{name: name, storage: InAttribute, policy: Optional}, v: v}
}

func (p *IntProp) Present() bool { return *p.v != nil }

func (p *IntProp) Get() any {
	if *p.v == nil {
		return nil
	}
	return **p.v
}

func (p *IntProp) Actual() (any, bool) {
	if *p.v == nil {
		return nil, false
	}
	return **p.v, true
}

func (p *IntProp) Text() (string, bool) {
	if *p.v == nil {
		return "", false
	}
	return strconv.FormatInt(**p.v, 10), true
}

func (p *IntProp) SetText(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return types.DecodeValidation("decode", "%s: invalid integer %q", p.name, s)
	}
	*p.v = &v
	return nil
}

func (p *IntProp) Equal(other Property) bool {
	o, ok := other.(*IntProp)
	return ok && equalPtr(*p.v, *o.v)
}

func (p *IntProp) CopyFrom(other Property) error {
	o, ok := other.(*IntProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	*p.v = copyPtr(*o.v)
	return nil
}

func (p *IntProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if *p.v == nil {
		_, err := subField(fd, wrapperValueField, protoreflect.Int64Kind)
		return err
	}
	return setWrapped(dst, fd, protoreflect.Int64Kind, protoreflect.ValueOfInt64(**p.v))
}

func (p *IntProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	v, ok, err := getWrapped(src, fd, protoreflect.Int64Kind)
	if err != nil || !ok {
		return err
	}
	n := v.Int()
	*p.v = &n
	return nil
}

// BoolProp is a required boolean stored as a plain wire bool.
type BoolProp struct {
	meta
	v *bool
}

func Bool(name string, v *bool) *BoolProp {
	return &BoolProp{meta: meta{name: name, storage: InAttribute, policy: Required}, v: v}
}

func (p *BoolProp) Present() bool        { return true }
func (p *BoolProp) Get() any             { return *p.v }
func (p *BoolProp) Actual() (any, bool)  { return *p.v, true }
func (p *BoolProp) Text() (string, bool) { return strconv.FormatBool(*p.v), true }

func (p *BoolProp) SetText(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return types.DecodeValidation("decode", "%s: invalid boolean %q", p.name, s)
	}
	*p.v = v
	return nil
}

func (p *BoolProp) Equal(other Property) bool {
	o, ok := other.(*BoolProp)
	return ok && *p.v == *o.v
}

func (p *BoolProp) CopyFrom(other Property) error {
	o, ok := other.(*BoolProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	*p.v = *o.v
	return nil
}

func (p *BoolProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, false, protoreflect.BoolKind); err != nil {
		return err
	}
	if *p.v {
		dst.Set(fd, protoreflect.ValueOfBool(true))
	}
	return nil
}

func (p *BoolProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, false, protoreflect.BoolKind); err != nil {
		return err
	}
	*p.v = src.Get(fd).Bool()
	return nil
}

// OptBoolProp is an optional boolean in a BoolValue wrapper.
type OptBoolProp struct {
	meta
	v       **bool
	implied *bool
}

func OptBool(name string, v **bool) *OptBoolProp {
	return &OptBoolProp{meta: meta{name: name, storage: InAttribute, policy: Optional}, v: v}
}

func (p *OptBoolProp) Implied(b bool) *OptBoolProp {
	p.implied = &b
	return p
}

func (p *OptBoolProp) Present() bool { return *p.v != nil }

func (p *OptBoolProp) Get() any {
	if *p.v != nil {
		return **p.v
	}
	if p.implied != nil {
		return *p.implied
	}
	return nil
}

func (p *OptBoolProp) Actual() (any, bool) {
	if *p.v == nil {
		return nil, false
	}
	return **p.v, true
}

func (p *OptBoolProp) Text() (string, bool) {
	if *p.v == nil {
		return "", false
	}
	return strconv.FormatBool(**p.v), true
}

func (p *OptBoolProp) SetText(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return types.DecodeValidation("decode", "%s: invalid boolean %q", p.name, s)
	}
	*p.v = &v
	return nil
}

func (p *OptBoolProp) Equal(other Property) bool {
	o, ok := other.(*OptBoolProp)
	return ok && equalPtr(*p.v, *o.v)
}

func (p *OptBoolProp) CopyFrom(other Property) error {
	o, ok := other.(*OptBoolProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	*p.v = copyPtr(*o.v)
	return nil
}

func (p *OptBoolProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if *p.v == nil {
		_, err := subField(fd, wrapperValueField, protoreflect.BoolKind)
		return err
	}
	return setWrapped(dst, fd, protoreflect.BoolKind, protoreflect.ValueOfBool(**p.v))
}

func (p *OptBoolProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	v, ok, err := getWrapped(src, fd, protoreflect.BoolKind)
	if err != nil || !ok {
		return err
	}
	b := v.Bool()
	*p.v = &b
	return nil
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
