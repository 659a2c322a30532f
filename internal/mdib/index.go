package mdib

import (
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
)

type entry struct {
	descriptor model.Descriptor
	// state is set for descriptors with a single state.
	state model.State
	// multi holds the states of a context descriptor in insertion order.
	multi []model.MultiState
	// children holds child handles per slot of the descriptor's schema.
	children [][]string
}

func (e *entry) clone() *entry {
	out := *e
	out.multi = append([]model.MultiState(nil), e.multi...)
	out.children = make([][]string, len(e.children))
	for i, c := range e.children {
		out.children[i] = append([]string(nil), c...)
	}
	return &out
}

// Index is the containment index: descriptors by handle, ordered children by
// parent, descriptors by kind and states by handle. It is not safe for
// concurrent use; Mdib guards it.
type Index struct {
	entries map[string]*entry
	roots   []string
	byKind  map[model.Kind][]string
	// multi maps a multi state handle to its descriptor handle.
	multi map[string]string
}

func NewIndex() *Index {
	return &Index{
		entries: make(map[string]*entry),
		byKind:  make(map[model.Kind][]string),
		multi:   make(map[string]string),
	}
}

// copy returns a structural copy that shares model values but none of the
// index containers, so staged changes never leak into the original.
func (x *Index) copy() *Index {
	out := &Index{
		entries: make(map[string]*entry, len(x.entries)),
		roots:   append([]string(nil), x.roots...),
		byKind:  make(map[model.Kind][]string, len(x.byKind)),
		multi:   make(map[string]string, len(x.multi)),
	}
	for h, e := range x.entries {
		out.entries[h] = e.clone()
	}
	for k, hs := range x.byKind {
		out.byKind[k] = append([]string(nil), hs...)
	}
	for h, d := range x.multi {
		out.multi[h] = d
	}
	return out
}

func (x *Index) Len() int { return len(x.entries) }

// Insert adds d under its ParentHandle. Mds descriptors are roots and have
// no parent.
func (x *Index) Insert(d model.Descriptor) error {
	base := d.DescriptorBase()
	if base.Handle == "" {
		return types.InvariantViolation("index.Insert", "%s without handle", d.TypeName())
	}
	if _, exists := x.entries[base.Handle]; exists {
		return types.InvariantViolation("index.Insert", "duplicate handle %s", base.Handle)
	}
	if _, exists := x.multi[base.Handle]; exists {
		return types.InvariantViolation("index.Insert", "handle %s is taken by a state", base.Handle)
	}
	kind := d.NodeType()

	if base.ParentHandle == "" {
		if kind != model.KindMdsDescriptor {
			return types.InvariantViolation("index.Insert", "%s %s has no parent", d.TypeName(), base.Handle)
		}
		x.roots = append(x.roots, base.Handle)
	} else {
		parent, ok := x.entries[base.ParentHandle]
		if !ok {
			return types.InvariantViolation("index.Insert", "parent %s of %s is unknown", base.ParentHandle, base.Handle)
		}
		slot, i, err := model.SlotFor(parent.descriptor.NodeType(), kind)
		if err != nil {
			return err
		}
		if slot.Single() && len(parent.children[i]) > 0 {
			return types.InvariantViolation("index.Insert", "%s already holds a %s", base.ParentHandle, slot.Name)
		}
		parent.children[i] = append(parent.children[i], base.Handle)
	}

	x.entries[base.Handle] = &entry{
		descriptor: d,
		children:   make([][]string, len(model.Slots(kind))),
	}
	x.byKind[kind] = append(x.byKind[kind], base.Handle)
	return nil
}

// Remove deletes the descriptor and, transitively, all descendants with
// their states. It returns the removed descriptors, parents first.
func (x *Index) Remove(handle string) ([]model.Descriptor, error) {
	e, ok := x.entries[handle]
	if !ok {
		return nil, types.NotFound("index.Remove", "descriptor %s", handle)
	}
	var removed []model.Descriptor
	x.collect(handle, &removed)

	if parent := e.descriptor.DescriptorBase().ParentHandle; parent == "" {
		x.roots = without(x.roots, handle)
	} else if p, ok := x.entries[parent]; ok {
		for i := range p.children {
			p.children[i] = without(p.children[i], handle)
		}
	}
	for _, d := range removed {
		h := d.DescriptorBase().Handle
		for _, s := range x.entries[h].multi {
			delete(x.multi, s.MultiBase().Handle)
		}
		x.byKind[d.NodeType()] = without(x.byKind[d.NodeType()], h)
		delete(x.entries, h)
	}
	return removed, nil
}

func (x *Index) collect(handle string, out *[]model.Descriptor) {
	e := x.entries[handle]
	*out = append(*out, e.descriptor)
	for _, slot := range e.children {
		for _, c := range slot {
			x.collect(c, out)
		}
	}
}

func without(hs []string, h string) []string {
	for i, v := range hs {
		if v == h {
			return append(hs[:i:i], hs[i+1:]...)
		}
	}
	return hs
}

// Replace swaps the descriptor value of an existing handle.
func (x *Index) Replace(d model.Descriptor) error {
	e, ok := x.entries[d.DescriptorBase().Handle]
	if !ok {
		return types.NotFound("index.Replace", "descriptor %s", d.DescriptorBase().Handle)
	}
	if e.descriptor.NodeType() != d.NodeType() {
		return types.InvariantViolation("index.Replace", "%s is a %s, not a %s",
			d.DescriptorBase().Handle, e.descriptor.TypeName(), d.TypeName())
	}
	d.DescriptorBase().ParentHandle = e.descriptor.DescriptorBase().ParentHandle
	e.descriptor = d
	return nil
}

func (x *Index) Descriptor(handle string) (model.Descriptor, bool) {
	e, ok := x.entries[handle]
	if !ok {
		return nil, false
	}
	return e.descriptor, true
}

// Children returns the children of handle in slot order, insertion order
// within a slot.
func (x *Index) Children(handle string) []model.Descriptor {
	e, ok := x.entries[handle]
	if !ok {
		return nil
	}
	var out []model.Descriptor
	for _, slot := range e.children {
		for _, c := range slot {
			out = append(out, x.entries[c].descriptor)
		}
	}
	return out
}

func (x *Index) Roots() []model.Descriptor {
	out := make([]model.Descriptor, 0, len(x.roots))
	for _, h := range x.roots {
		out = append(out, x.entries[h].descriptor)
	}
	return out
}

// ByKind returns the live descriptors of exactly kind k.
func (x *Index) ByKind(k model.Kind) []model.Descriptor {
	hs := x.byKind[k]
	out := make([]model.Descriptor, 0, len(hs))
	for _, h := range hs {
		out = append(out, x.entries[h].descriptor)
	}
	return out
}

// ByType returns the live descriptors whose type is typeName or derives
// from it, ordered by kind.
func (x *Index) ByType(typeName string) []model.Descriptor {
	var out []model.Descriptor
	for _, k := range model.DescriptorKinds() {
		if prop.IsA(k.String(), typeName) {
			out = append(out, x.ByKind(k)...)
		}
	}
	return out
}

// Walk visits every descriptor depth-first in slot order.
func (x *Index) Walk(fn func(d model.Descriptor) error) error {
	var visit func(h string) error
	visit = func(h string) error {
		e := x.entries[h]
		if err := fn(e.descriptor); err != nil {
			return err
		}
		for _, slot := range e.children {
			for _, c := range slot {
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, r := range x.roots {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}

// SetState stores s for its descriptor, replacing any state with the same
// handle. The state kind must pair with the descriptor kind.
func (x *Index) SetState(s model.State) error {
	dh := s.StateBase().DescriptorHandle
	e, ok := x.entries[dh]
	if !ok {
		return types.DecodeValidation("index.SetState", "state for unknown descriptor %s", dh)
	}
	if e.descriptor.NodeType().StateKind() != s.NodeType() {
		return types.InvariantViolation("index.SetState", "%s cannot describe %s %s",
			s.TypeName(), e.descriptor.TypeName(), dh)
	}
	m, isMulti := s.(model.MultiState)
	if !isMulti {
		e.state = s
		return nil
	}
	h := m.MultiBase().Handle
	if err := x.checkMultiHandle(s, h, dh); err != nil {
		return err
	}
	for i, old := range e.multi {
		if old.MultiBase().Handle == h {
			e.multi[i] = m
			return nil
		}
	}
	e.multi = append(e.multi, m)
	x.multi[h] = dh
	return nil
}

// checkMultiHandle reports whether a multi state of descriptor dh may be
// stored under its own handle h.
func (x *Index) checkMultiHandle(s model.State, h, dh string) error {
	if h == "" {
		return types.InvariantViolation("index.SetState", "%s for %s without handle", s.TypeName(), dh)
	}
	if owner, exists := x.multi[h]; exists && owner != dh {
		return types.InvariantViolation("index.SetState", "state handle %s belongs to %s", h, owner)
	}
	if _, exists := x.entries[h]; exists {
		return types.InvariantViolation("index.SetState", "state handle %s is taken by a descriptor", h)
	}
	return nil
}

// multiState returns the multi state stored under its own handle.
func (x *Index) multiState(handle string) (model.State, bool) {
	dh, ok := x.multi[handle]
	if !ok {
		return nil, false
	}
	for _, s := range x.entries[dh].multi {
		if s.MultiBase().Handle == handle {
			return s, true
		}
	}
	return nil, false
}

// State returns the state stored under handle: a descriptor handle for
// single states, the own handle for multi states.
func (x *Index) State(handle string) (model.State, bool) {
	if dh, ok := x.multi[handle]; ok {
		for _, s := range x.entries[dh].multi {
			if s.MultiBase().Handle == handle {
				return s, true
			}
		}
	}
	e, ok := x.entries[handle]
	if !ok || e.state == nil {
		return nil, false
	}
	return e.state, true
}

// MultiStates returns the multi states of a descriptor.
func (x *Index) MultiStates(descriptorHandle string) []model.MultiState {
	e, ok := x.entries[descriptorHandle]
	if !ok {
		return nil
	}
	return append([]model.MultiState(nil), e.multi...)
}

// RemoveMultiState drops a single multi state by its own handle.
func (x *Index) RemoveMultiState(handle string) error {
	dh, ok := x.multi[handle]
	if !ok {
		return types.NotFound("index.RemoveMultiState", "state %s", handle)
	}
	e := x.entries[dh]
	for i, s := range e.multi {
		if s.MultiBase().Handle == handle {
			e.multi = append(e.multi[:i:i], e.multi[i+1:]...)
			break
		}
	}
	delete(x.multi, handle)
	return nil
}

// States returns every state in descriptor walk order.
func (x *Index) States() []model.State {
	var out []model.State
	_ = x.Walk(func(d model.Descriptor) error {
		e := x.entries[d.DescriptorBase().Handle]
		if e.state != nil {
			out = append(out, e.state)
		}
		for _, s := range e.multi {
			out = append(out, s)
		}
		return nil
	})
	return out
}

// RootOf returns the handle of the Mds containing handle.
func (x *Index) RootOf(handle string) (string, bool) {
	for {
		e, ok := x.entries[handle]
		if !ok {
			return "", false
		}
		parent := e.descriptor.DescriptorBase().ParentHandle
		if parent == "" {
			return handle, true
		}
		handle = parent
	}
}
