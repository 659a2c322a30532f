// Package prop declares the fields of model types as properties bound to Go
// struct fields. A type exposes its fields as an ordered list of blocks, one per
// type of its inheritance chain, root first; a block may be empty. The mapping
// engine, the XML codec and the comparison helpers walk these blocks instead of
// using reflect.
package prop

import (
	"fmt"

	"github.com/KevinKickass/OpenMDIB/internal/naming"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Storage says where a property lives in the serialized forms.
type Storage int

const (
	InAttribute Storage = iota
	InAttributeList
	InElement
	InElementList
	InText
	InTextList
)

func (s Storage) String() string {
	switch s {
	case InAttribute:
		return "attribute"
	case InAttributeList:
		return "attribute_list"
	case InElement:
		return "element"
	case InElementList:
		return "element_list"
	case InText:
		return "text"
	case InTextList:
		return "text_list"
	default:
		return "unknown"
	}
}

// Policy is the optionality of a property.
type Policy int

const (
	// Optional fields may be absent. An optional field can carry an implied
	// default that is reported by Get but never stored or encoded.
	Optional Policy = iota
	// Defaulted fields are set to a constant at construction and always encoded.
	Defaulted
	// Required fields must be present on the wire.
	Required
)

func (p Policy) String() string {
	switch p {
	case Optional:
		return "optional"
	case Defaulted:
		return "defaulted"
	case Required:
		return "required"
	default:
		return "unknown"
	}
}

// Property is one declared field bound to a Go value.
type Property interface {
	Name() string
	// WireOverride is the wire field name when it does not follow the naming rules.
	WireOverride() string
	Storage() Storage
	Policy() Policy
	// Identity properties are skipped by CopyFrom.
	Identity() bool
	// Present reports whether the field holds a value (implied defaults excluded).
	Present() bool
	// Get returns the logical value, falling back to the implied default.
	Get() any
	// Actual returns the stored value and whether one is stored.
	Actual() (any, bool)
	Equal(other Property) bool
	CopyFrom(other Property) error

	Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error
	Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, c Codec) error
}

// Scalar is implemented by properties with a single text representation.
type Scalar interface {
	Property
	Text() (string, bool)
	SetText(s string) error
}

// ScalarList is implemented by properties holding a list of text values.
type ScalarList interface {
	Property
	Texts() []string
	SetTexts(values []string) error
}

// Nested is implemented by properties holding composite values.
type Nested interface {
	Property
	// ElemType is the declared composite type name of the values.
	ElemType() string
	Values() []Composite
	SetValues(values []Composite) error
}

// Block is the field list introduced by one type of a chain.
type Block struct {
	Type  string
	Props []Property
}

// Composite is any model value made of blocks.
type Composite interface {
	TypeName() string
	Blocks() []Block
}

// Codec lets properties recurse into nested composites.
type Codec interface {
	// EncodeInto writes v into dst. dst may be the concrete message or a union.
	EncodeInto(v Composite, dst protoreflect.Message) error
	// DecodeFrom builds a new composite from src, unwrapping unions.
	DecodeFrom(src protoreflect.Message) (Composite, error)
	// DecodeInto fills an existing composite whose type must match src.
	DecodeInto(src protoreflect.Message, dst Composite) error
}

type meta struct {
	name     string
	wire     string
	storage  Storage
	policy   Policy
	identity bool
}

func (m *meta) Name() string         { return m.name }
func (m *meta) WireOverride() string { return m.wire }
func (m *meta) Storage() Storage     { return m.storage }
func (m *meta) Policy() Policy       { return m.policy }
func (m *meta) Identity() bool       { return m.identity }

// WireName returns the wire field name of p: the override if any, otherwise
// the snake_case name with the attribute prefix for attribute storage.
func WireName(p Property) string {
	if w := p.WireOverride(); w != "" {
		return w
	}
	switch p.Storage() {
	case InAttribute, InAttributeList:
		return naming.AttrToWire(p.Name())
	default:
		return naming.ToWire(p.Name())
	}
}

func mismatchKind(name string, other Property) error {
	return fmt.Errorf("property %s: cannot copy from %T", name, other)
}

// Find returns the property with the given name anywhere in c's chain.
func Find(c Composite, name string) (Property, bool) {
	for _, b := range c.Blocks() {
		for _, p := range b.Props {
			if p.Name() == name {
				return p, true
			}
		}
	}
	return nil, false
}

// Value returns the logical value of a named property, nil if unknown or absent.
func Value(c Composite, name string) any {
	p, ok := Find(c, name)
	if !ok {
		return nil
	}
	return p.Get()
}

// Actual returns the stored value of a named property, bypassing implied defaults.
func Actual(c Composite, name string) (any, bool) {
	p, ok := Find(c, name)
	if !ok {
		return nil, false
	}
	return p.Actual()
}

// Diff lists the names of properties that differ between a and b. Values of
// different types differ in "TypeName" only.
func Diff(a, b Composite) []string {
	if a.TypeName() != b.TypeName() {
		return []string{"TypeName"}
	}
	var diffs []string
	ab, bb := a.Blocks(), b.Blocks()
	for i := range ab {
		for j, p := range ab[i].Props {
			if !p.Equal(bb[i].Props[j]) {
				diffs = append(diffs, ab[i].Type+"."+p.Name())
			}
		}
	}
	return diffs
}

// Equal reports whether two composites have no differing properties.
func Equal(a, b Composite) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return len(Diff(a, b)) == 0
}

// CopyFrom copies all non-identity properties of src into dst. Both must be
// the same type; the caller validates identity beforehand.
func CopyFrom(dst, src Composite) error {
	return copyProps(dst, src, false)
}

// Clone returns a deep copy of c, identity fields included.
func Clone(c Composite) (Composite, error) {
	out, err := New(c.TypeName())
	if err != nil {
		return nil, err
	}
	if err := copyProps(out, c, true); err != nil {
		return nil, err
	}
	return out, nil
}

func copyProps(dst, src Composite, withIdentity bool) error {
	if dst.TypeName() != src.TypeName() {
		return fmt.Errorf("cannot copy %s into %s", src.TypeName(), dst.TypeName())
	}
	db, sb := dst.Blocks(), src.Blocks()
	for i := range db {
		for j, p := range db[i].Props {
			if p.Identity() && !withIdentity {
				continue
			}
			if err := p.CopyFrom(sb[i].Props[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func cloneValue[C Composite](v C) (C, error) {
	var zero C
	out, err := Clone(v)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(C)
	if !ok {
		return zero, fmt.Errorf("clone of %s has unexpected type %T", v.TypeName(), out)
	}
	return typed, nil
}
