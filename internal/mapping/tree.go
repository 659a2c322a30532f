package mapping

import (
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/naming"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Tree supplies the ordered children of a descriptor while encoding.
type Tree interface {
	Children(handle string) []model.Descriptor
}

// Visitor receives every decoded descriptor, parents before children.
type Visitor func(d model.Descriptor) error

// EncodeTree writes root and, depth-first, all of its descendants into dst.
// Children land in the slot fields of the block that owns the slot.
func (m *Mapper) EncodeTree(root model.Descriptor, tree Tree, dst protoreflect.Message) error {
	target, err := m.encodeConcrete(root, dst)
	if err != nil {
		return err
	}
	parentKind := root.NodeType()
	for _, child := range tree.Children(root.DescriptorBase().Handle) {
		slot, _, err := model.SlotFor(parentKind, child.NodeType())
		if err != nil {
			return err
		}
		owner, err := blockMessage(target, root.TypeName(), slot.Owner, true)
		if err != nil {
			return err
		}
		fd, err := field(owner, naming.ToWire(slot.Name))
		if err != nil {
			return err
		}
		if fd.IsList() {
			list := owner.Mutable(fd).List()
			el := list.NewElement()
			if err := m.EncodeTree(child, tree, el.Message()); err != nil {
				return err
			}
			list.Append(el)
			continue
		}
		if owner.Has(fd) {
			return types.InvariantViolation("encode", "slot %s of %s holds more than one child",
				slot.Name, root.DescriptorBase().Handle)
		}
		if err := m.EncodeTree(child, tree, owner.Mutable(fd).Message()); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTree decodes the descriptor in src and all nested descendants,
// calling visit for each with its parent handle already set.
func (m *Mapper) DecodeTree(src protoreflect.Message, parent string, visit Visitor) error {
	concrete, _, err := Unwrap(src)
	if err != nil {
		return err
	}
	d, err := m.DecodeDescriptor(concrete)
	if err != nil {
		return err
	}
	base := d.DescriptorBase()
	if base.Handle == "" {
		return types.DecodeValidation("decode", "%s without handle under %q", d.TypeName(), parent)
	}
	base.ParentHandle = parent
	if err := visit(d); err != nil {
		return err
	}
	for _, slot := range model.Slots(d.NodeType()) {
		owner, err := blockMessage(concrete, d.TypeName(), slot.Owner, false)
		if err != nil {
			return err
		}
		fd, err := field(owner, naming.ToWire(slot.Name))
		if err != nil {
			return err
		}
		if !owner.Has(fd) {
			continue
		}
		if !fd.IsList() {
			if err := m.decodeChild(owner.Get(fd).Message(), d, slot, visit); err != nil {
				return err
			}
			continue
		}
		list := owner.Get(fd).List()
		if slot.Single() && list.Len() > 1 {
			return types.InvariantViolation("decode", "slot %s of %s holds %d children", slot.Name, base.Handle, list.Len())
		}
		for i := 0; i < list.Len(); i++ {
			if err := m.decodeChild(list.Get(i).Message(), d, slot, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Mapper) decodeChild(src protoreflect.Message, parent model.Descriptor, slot model.Slot, visit Visitor) error {
	_, typeName, err := Unwrap(src)
	if err != nil {
		return err
	}
	k, _ := model.KindOf(typeName)
	if !slot.Allows(k) {
		return types.InvariantViolation("decode", "slot %s of %s does not accept %s",
			slot.Name, parent.DescriptorBase().Handle, typeName)
	}
	return m.DecodeTree(src, parent.DescriptorBase().Handle, visit)
}

// DecodeDescriptor decodes a single descriptor, ignoring nested children.
func (m *Mapper) DecodeDescriptor(src protoreflect.Message) (model.Descriptor, error) {
	c, err := m.Decode(src)
	if err != nil {
		return nil, err
	}
	d, ok := c.(model.Descriptor)
	if !ok {
		return nil, types.SchemaMismatch("decode", "%s is not a descriptor", c.TypeName())
	}
	return d, nil
}

// DecodeState decodes a single state.
func (m *Mapper) DecodeState(src protoreflect.Message) (model.State, error) {
	c, err := m.Decode(src)
	if err != nil {
		return nil, err
	}
	s, ok := c.(model.State)
	if !ok {
		return nil, types.SchemaMismatch("decode", "%s is not a state", c.TypeName())
	}
	if s.StateBase().DescriptorHandle == "" {
		return nil, types.DecodeValidation("decode", "%s without descriptor handle", s.TypeName())
	}
	return s, nil
}

// EncodeStates appends every state to a repeated AbstractState union field.
func (m *Mapper) EncodeStates(states []model.State, list protoreflect.List) error {
	for _, s := range states {
		el := list.NewElement()
		if err := m.EncodeInto(s, el.Message()); err != nil {
			return err
		}
		list.Append(el)
	}
	return nil
}

// DecodeStates decodes a repeated AbstractState union field. The first
// failure aborts the whole list.
func (m *Mapper) DecodeStates(list protoreflect.List) ([]model.State, error) {
	out := make([]model.State, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		s, err := m.DecodeState(list.Get(i).Message())
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// blockMessage walks from the concrete message of typeName down the parent
// fields to the block message of owner.
func blockMessage(msg protoreflect.Message, typeName, owner string, mutable bool) (protoreflect.Message, error) {
	chain, err := prop.Chain(typeName)
	if err != nil {
		return nil, types.SchemaMismatch("mapping", "%v", err)
	}
	cur := msg
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i] == owner {
			return cur, nil
		}
		if i == 0 {
			break
		}
		fd, err := field(cur, naming.ToWire(chain[i-1]))
		if err != nil {
			return nil, err
		}
		if mutable {
			cur = cur.Mutable(fd).Message()
		} else {
			cur = cur.Get(fd).Message()
		}
	}
	return nil, types.SchemaMismatch("mapping", "%s does not inherit from %s", typeName, owner)
}
