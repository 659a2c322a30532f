package prop

import (
	"github.com/KevinKickass/OpenMDIB/internal/naming"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// EnumProp is a closed-set token carried in an enum wrapper message
// (<Name>Msg{ EnumType enum_value }). Message presence is field presence.
type EnumProp[T ~string] struct {
	meta
	stored  *T
	opt     **T
	tokens  []T
	implied *T
}

// Enum declares a defaulted enum whose constructor sets the stored value.
func Enum[T ~string](name string, v *T, tokens []T) *EnumProp[T] {
	return &EnumProp[T]{meta: meta{name: name, storage: InAttribute, policy: Defaulted}, stored: v, tokens: tokens}
}

// RequiredEnum declares an enum that must be present on the wire.
func RequiredEnum[T ~string](name string, v *T, tokens []T) *EnumProp[T] {
	return &EnumProp[T]{meta: meta{name: name, storage: InAttribute, policy: Required}, stored: v, tokens: tokens}
}

// OptEnum declares an optional enum.
func OptEnum[T ~string](name string, v **T, tokens []T) *EnumProp[T] {
	return &EnumProp[T]{meta: meta{name: name, storage: InAttribute, policy: Optional}, opt: v, tokens: tokens}
}

func (p *EnumProp[T]) Implied(t T) *EnumProp[T] {
	p.implied = &t
	return p
}

func (p *EnumProp[T]) value() (T, bool) {
	if p.stored != nil {
		return *p.stored, true
	}
	if *p.opt == nil {
		var zero T
		return zero, false
	}
	return **p.opt, true
}

func (p *EnumProp[T]) set(t T) {
	if p.stored != nil {
		*p.stored = t
		return
	}
	*p.opt = &t
}

func (p *EnumProp[T]) lookup(s string) (T, bool) {
	for _, t := range p.tokens {
		if string(t) == s {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Tokens returns the closed value set in declaration order.
func (p *EnumProp[T]) Tokens() []string {
	out := make([]string, len(p.tokens))
	for i, t := range p.tokens {
		out[i] = string(t)
	}
	return out
}

func (p *EnumProp[T]) Present() bool {
	_, ok := p.value()
	return ok
}

func (p *EnumProp[T]) Get() any {
	if t, ok := p.value(); ok {
		return t
	}
	if p.implied != nil {
		return *p.implied
	}
	return nil
}

func (p *EnumProp[T]) Actual() (any, bool) {
	t, ok := p.value()
	if !ok {
		return nil, false
	}
	return t, true
}

func (p *EnumProp[T]) Text() (string, bool) {
	t, ok := p.value()
	return string(t), ok
}

func (p *EnumProp[T]) SetText(s string) error {
	t, ok := p.lookup(s)
	if !ok {
		return types.DecodeValidation("decode", "%s: unknown enum token %q", p.name, s)
	}
	p.set(t)
	return nil
}

func (p *EnumProp[T]) Equal(other Property) bool {
	o, ok := other.(*EnumProp[T])
	if !ok {
		return false
	}
	a, aok := p.value()
	b, bok := o.value()
	return aok == bok && a == b
}

func (p *EnumProp[T]) CopyFrom(other Property) error {
	o, ok := other.(*EnumProp[T])
	if !ok {
		return mismatchKind(p.name, other)
	}
	if t, present := o.value(); present {
		p.set(t)
	} else if p.opt != nil {
		*p.opt = nil
	}
	return nil
}

func (p *EnumProp[T]) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	efd, err := subField(fd, enumValueField, protoreflect.EnumKind)
	if err != nil {
		return err
	}
	t, ok := p.value()
	if !ok {
		return nil
	}
	if _, known := p.lookup(string(t)); !known {
		return types.InvariantViolation("encode", "%s: value %q outside the closed set", p.name, t)
	}
	ev := efd.Enum().Values().ByName(protoreflect.Name(naming.EnumToWire(string(t))))
	if ev == nil {
		return types.SchemaMismatch("encode", "%s has no value for token %q", efd.Enum().FullName(), t)
	}
	dst.Mutable(fd).Message().Set(efd, protoreflect.ValueOfEnum(ev.Number()))
	return nil
}

func (p *EnumProp[T]) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	efd, err := subField(fd, enumValueField, protoreflect.EnumKind)
	if err != nil {
		return err
	}
	if !src.Has(fd) {
		if p.policy == Required {
			return missingRequired(fd)
		}
		return nil
	}
	num := src.Get(fd).Message().Get(efd).Enum()
	ev := efd.Enum().Values().ByNumber(num)
	if ev == nil {
		return types.DecodeValidation("decode", "%s: unknown enum number %d", p.name, num)
	}
	tok, ok := naming.EnumFromWire(string(ev.Name()), p.Tokens())
	if !ok {
		return types.DecodeValidation("decode", "%s: unknown enum token %s", p.name, ev.Name())
	}
	p.set(T(tok))
	return nil
}
