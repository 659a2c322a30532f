package prop

import (
	"slices"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// StringsProp is a list of strings: handle references in an attribute, or
// repeated text elements.
type StringsProp struct {
	meta
	v *[]string
}

// Strings declares a string list with the given storage (InAttributeList or InTextList).
func Strings(name string, v *[]string, storage Storage) *StringsProp {
	return &StringsProp{meta: meta{name: name, storage: storage, policy: Optional}, v: v}
}

func (p *StringsProp) Present() bool { return len(*p.v) > 0 }

func (p *StringsProp) Get() any {
	if len(*p.v) == 0 {
		return nil
	}
	return *p.v
}

func (p *StringsProp) Actual() (any, bool) {
	if len(*p.v) == 0 {
		return nil, false
	}
	return *p.v, true
}

func (p *StringsProp) Texts() []string { return *p.v }

func (p *StringsProp) SetTexts(values []string) error {
	*p.v = slices.Clone(values)
	return nil
}

func (p *StringsProp) Equal(other Property) bool {
	o, ok := other.(*StringsProp)
	return ok && slices.Equal(*p.v, *o.v)
}

func (p *StringsProp) CopyFrom(other Property) error {
	o, ok := other.(*StringsProp)
	if !ok {
		return mismatchKind(p.name, other)
	}
	*p.v = slices.Clone(*o.v)
	return nil
}

func (p *StringsProp) Encode(dst protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, true, protoreflect.StringKind); err != nil {
		return err
	}
	if len(*p.v) == 0 {
		return nil
	}
	list := dst.Mutable(fd).List()
	for _, s := range *p.v {
		list.Append(protoreflect.ValueOfString(s))
	}
	return nil
}

func (p *StringsProp) Decode(src protoreflect.Message, fd protoreflect.FieldDescriptor, _ Codec) error {
	if err := expectKind(fd, true, protoreflect.StringKind); err != nil {
		return err
	}
	list := src.Get(fd).List()
	if list.Len() == 0 {
		return nil
	}
	out := make([]string, list.Len())
	for i := range out {
		out[i] = list.Get(i).String()
	}
	*p.v = out
	return nil
}
