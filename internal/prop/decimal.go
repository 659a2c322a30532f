package prop

import (
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"github.com/cockroachdb/apd/v3"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ParseDecimal parses decimal text without going through binary floats.
func ParseDecimal(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, types.DecodeValidation("decode", "invalid decimal %q", s)
	}
	return d, nil
}

// MustDecimal is ParseDecimal for literals known to be valid.
func MustDecimal(s string) *apd.Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalText formats d in plain notation, keeping trailing zeros ("0.010").
func DecimalText(d *apd.Decimal) string {
	return d.Text('f')
}

func cloneDecimal(d *apd.Decimal) *apd.Decimal {
	if d == nil {
		return nil
	}
	return new(apd.Decimal).Set(d)
}

func equalDecimal(a, b *apd.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return DecimalText(a) == DecimalText(b)
}

// DecimalProp is a decimal carried as text. Required decimals use a plain wire
// string, optional ones a StringValue wrapper.
type DecimalProp struct {
	meta
	v        **apd.Decimal
	required *apd.Decimal
	implied  *apd.Decimal
}

// Decimal declares an optional decimal attribute.
func Decimal(name string, v **apd.Decimal) *DecimalProp {
	return &DecimalProp{meta: meta{name: name, storage: InAttribute, policy: Optional}, v: v}
}

// RequiredDecimal declares a decimal attribute that is always present.
func RequiredDecimal(name string, v *apd.Decimal) *DecimalProp {
	return &DecimalProp{meta: meta{name: name, storage: InAttribute, policy: Required}, required: v}
}

func (p *DecimalProp) Implied(s string) *DecimalProp {
	p.implied = MustDecimal(s)
	return p
}

func (p *DecimalProp) value() *apd.Decimal {
	if p.required != nil {
		return p.required
	}
	return *p.v
}

func (p *DecimalProp) set(d *apd.Decimal) {
	if p.required != nil {
		p.required.Set(d)
		return
	}
	*p.v = d
}

func (p *DecimalProp) Present() bool { return p.value() != nil }

func (p *DecimalProp) Get() any {
	if v := p.value(); v != nil {
		return DecimalText(v)
	}
	if p.implied != nil {
		return DecimalText(p.implied)
	}
	return nil
}

func (p *DecimalProp) Actual() (any, bool) {
	v := p.value()
	if v == nil {
		return nil, false
	}
	return DecimalText(v), true
}

func (p *DecimalProp) Text() (string, bool) {
	v := p.value()
	if v == nil {
		return "", false
	}
	return DecimalText(v), true
}

func (p *DecimalProp) SetText(s string) error {
	d, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	p.set(d)
	return nil
}

func (p *DecimalProp) Equal(other Property) bool {
	o, ok := other.(*DecimalProp)
	return ok && equalDecimal(p.value(), o.value())
}

func (p *DecimalProp) CopyFrom(other Property) error {
	o, ok := other.(*DecimalProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	if v := o.value(); v != nil {
		p.set(cloneDecimal(v))
	} else if p.v != nil {
		*p.v = nil
	}
	return nil
}

func (p *DecimalProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if p.required != nil {
		if err := expectKind(fd, false, protoreflect.StringKind); err != nil {
			return err
		}
		dst.Set(fd, protoreflect.ValueOfString(DecimalText(p.required)))
		return nil
	}
	if *p.v == nil {
		_, err := subField(fd, wrapperValueField, protoreflect.StringKind)
		return err
	}
	return setWrapped(dst, fd, protoreflect.StringKind, protoreflect.ValueOfString(DecimalText(*p.v)))
}

func (p *DecimalProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	var text string
	if p.required != nil {
		if err := expectKind(fd, false, protoreflect.StringKind); err != nil {
			return err
		}
		text = src.Get(fd).String()
		if text == "" {
			return missingRequired(fd)
		}
	} else {
		v, ok, err := getWrapped(src, fd, protoreflect.StringKind)
		if err != nil || !ok {
			return err
		}
		text = v.String()
	}
	return p.SetText(text)
}

// DecimalsProp is a list of decimals carried as repeated strings.
type DecimalsProp struct {
	meta
	v *[]*apd.Decimal
}

func Decimals(name string, v *[]*apd.Decimal) *DecimalsProp {
	return &DecimalsProp{meta: meta{name: name, storage: InAttributeList, policy: Optional}, v: v}
}

func (p *DecimalsProp) Present() bool { return len(*p.v) > 0 }

func (p *DecimalsProp) Get() any {
	if len(*p.v) == 0 {
		return nil
	}
	return p.Texts()
}

func (p *DecimalsProp) Actual() (any, bool) {
	if len(*p.v) == 0 {
		return nil, false
	}
	return p.Texts(), true
}

func (p *DecimalsProp) Texts() []string {
	out := make([]string, len(*p.v))
	for i, d := range *p.v {
		out[i] = DecimalText(d)
	}
	return out
}

func (p *DecimalsProp) SetTexts(values []string) error {
	out := make([]*apd.Decimal, 0, len(values))
	for _, s := range values {
		d, err := ParseDecimal(s)
		if err != nil {
			return err
		}
		out = append(out, d)
	}
	*p.v = out
	return nil
}

func (p *DecimalsProp) Equal(other Property) bool {
	o, ok := other.(*DecimalsProp)
	if !ok || len(*p.v) != len(*o.v) {
		return false
	}
	for i := range *p.v {
		if !equalDecimal((*p.v)[i], (*o.v)[i]) {
			return false
		}
	}
	return true
}

func (p *DecimalsProp) CopyFrom(other Property) error {
	o, ok := other.(*DecimalsProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	if *o.v == nil {
		*p.v = nil
		return nil
	}
	out := make([]*apd.Decimal, len(*o.v))
	for i, d := range *o.v {
		out[i] = cloneDecimal(d)
	}
	*p.v = out
	return nil
}

func (p *DecimalsProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, true, protoreflect.StringKind); err != nil {
		return err
	}
	if len(*p.v) == 0 {
		return nil
	}
	list := dst.Mutable(fd).List()
	for _, d := range *p.v {
		list.Append(protoreflect.ValueOfString(DecimalText(d)))
	}
	return nil
}

func (p *DecimalsProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, true, protoreflect.StringKind); err != nil {
		return err
	}
	list := src.Get(fd).List()
	if list.Len() == 0 {
		return nil
	}
	values := make([]string, list.Len())
	for i := 0; i < list.Len(); i++ {
		values[i] = list.Get(i).String()
	}
	return p.SetTexts(values)
}
