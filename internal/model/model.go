// Package model holds the descriptor and state types of a medical device
// information base and the static containment schema between descriptors.
package model

import (
	"github.com/KevinKickass/OpenMDIB/internal/pmtypes"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
)

// Descriptor is implemented by every concrete descriptor type.
type Descriptor interface {
	prop.Composite
	NodeType() Kind
	DescriptorBase() *AbstractDescriptor
}

// State is implemented by every concrete state type.
type State interface {
	prop.Composite
	NodeType() Kind
	StateBase() *AbstractState
}

// MultiState is a state that carries its own handle, so that several of
// them may exist for one descriptor.
type MultiState interface {
	State
	MultiBase() *AbstractMultiState
}

// ContextState is implemented by the six context state types.
type ContextState interface {
	MultiState
	ContextBase() *AbstractContextState
}

func implied[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// NewDescriptor creates an empty descriptor of kind k. Defaulted fields
// carry their schema defaults.
func NewDescriptor(k Kind, handle, parent string) (Descriptor, error) {
	if !k.IsDescriptor() {
		return nil, types.InvariantViolation("model.NewDescriptor", "%s is not a descriptor kind", k)
	}
	c, err := prop.New(k.String())
	if err != nil {
		return nil, types.SchemaMismatch("model.NewDescriptor", "%v", err)
	}
	d := c.(Descriptor)
	d.DescriptorBase().Handle = handle
	d.DescriptorBase().ParentHandle = parent
	return d, nil
}

// NewState creates an empty state of kind k bound to a descriptor handle.
func NewState(k Kind, descriptorHandle string) (State, error) {
	if !k.IsState() {
		return nil, types.InvariantViolation("model.NewState", "%s is not a state kind", k)
	}
	c, err := prop.New(k.String())
	if err != nil {
		return nil, types.SchemaMismatch("model.NewState", "%v", err)
	}
	s := c.(State)
	s.StateBase().DescriptorHandle = descriptorHandle
	return s, nil
}

// NewStateFor creates the state matching descriptor d, at d's version.
func NewStateFor(d Descriptor) (State, error) {
	s, err := NewState(d.NodeType().StateKind(), d.DescriptorBase().Handle)
	if err != nil {
		return nil, err
	}
	s.StateBase().DescriptorVersion = d.DescriptorBase().DescriptorVersion
	return s, nil
}

// StateHandle returns the key under which a state is stored: the own
// handle for multi states, the descriptor handle otherwise.
func StateHandle(s State) string {
	if m, ok := s.(MultiState); ok {
		return m.MultiBase().Handle
	}
	return s.StateBase().DescriptorHandle
}

// Identifiers converts concrete identifiers to the family interface.
func Identifiers(ids ...*pmtypes.InstanceIdentifier) []pmtypes.Identifier {
	out := make([]pmtypes.Identifier, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// CloneDescriptor deep-copies d, parent handle included.
func CloneDescriptor(d Descriptor) (Descriptor, error) {
	c, err := prop.Clone(d)
	if err != nil {
		return nil, err
	}
	out := c.(Descriptor)
	out.DescriptorBase().ParentHandle = d.DescriptorBase().ParentHandle
	return out, nil
}

// CloneState deep-copies s.
func CloneState(s State) (State, error) {
	c, err := prop.Clone(s)
	if err != nil {
		return nil, err
	}
	return c.(State), nil
}
