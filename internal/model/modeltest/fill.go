// Package modeltest builds populated model values for tests.
package modeltest

import (
	"testing"

	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/stretchr/testify/require"
)

const maxDepth = 3

type tokenized interface {
	prop.Scalar
	Tokens() []string
}

// Fill sets every property of c, recursing into nested composites up to a
// fixed depth. Enums take their last token.
func Fill(t testing.TB, c prop.Composite) {
	t.Helper()
	fill(t, c, 0)
}

func fill(t testing.TB, c prop.Composite, depth int) {
	for _, b := range c.Blocks() {
		for _, p := range b.Props {
			fillProp(t, p, depth)
		}
	}
}

func fillProp(t testing.TB, p prop.Property, depth int) {
	var err error
	switch v := p.(type) {
	case *prop.StructProp:
		fill(t, v.Values()[0], depth+1)
	case prop.Nested:
		if depth >= maxDepth {
			return
		}
		typeName := v.ElemType()
		if info, ok := prop.Lookup(typeName); ok && info.Abstract() {
			typeName = prop.Concrete(typeName)[0]
		}
		n := 1
		if v.Storage() == prop.InElementList {
			n = 2
		}
		values := make([]prop.Composite, 0, n)
		for i := 0; i < n; i++ {
			c, err := prop.New(typeName)
			require.NoError(t, err)
			fill(t, c, depth+1)
			values = append(values, c)
		}
		err = v.SetValues(values)
	case prop.ScalarList:
		err = v.SetTexts([]string{"0.5", "12"})
	case tokenized:
		tokens := v.Tokens()
		err = v.SetText(tokens[len(tokens)-1])
	case *prop.BoolProp, *prop.OptBoolProp:
		err = v.(prop.Scalar).SetText("true")
	case *prop.UintProp:
		err = v.SetText("7")
	case *prop.IntProp:
		err = v.SetText("-3")
	case *prop.DecimalProp:
		err = v.SetText("12.50")
	case *prop.DurationProp:
		err = v.SetText("PT1.5S")
	case *prop.OpaqueProp:
		err = v.SetText("<ext/>")
	case prop.Scalar:
		err = v.SetText(p.Name() + "-1")
	}
	require.NoError(t, err, p.Name())
}

// Descriptor returns a descriptor of kind k. A full descriptor has every
// property set; otherwise only constructor defaults are present.
func Descriptor(t testing.TB, k model.Kind, handle string, full bool) model.Descriptor {
	t.Helper()
	d, err := model.NewDescriptor(k, handle, "")
	require.NoError(t, err)
	if full {
		Fill(t, d)
		d.DescriptorBase().Handle = handle
	}
	return d
}

// State returns a state of kind k bound to descriptorHandle, filled like
// Descriptor.
func State(t testing.TB, k model.Kind, descriptorHandle string, full bool) model.State {
	t.Helper()
	s, err := model.NewState(k, descriptorHandle)
	require.NoError(t, err)
	if full {
		Fill(t, s)
		s.StateBase().DescriptorHandle = descriptorHandle
	}
	return s
}

// MapTree is an in-memory child table for tree encoders.
type MapTree map[string][]model.Descriptor

func (m MapTree) Children(handle string) []model.Descriptor { return m[handle] }

// Add links child under parent and returns child.
func (m MapTree) Add(parent string, child model.Descriptor) model.Descriptor {
	child.DescriptorBase().ParentHandle = parent
	m[parent] = append(m[parent], child)
	return child
}
