package xmltree

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
)

type node struct {
	name     string
	attrs    []xml.Attr
	children []*node
	text     strings.Builder
}

func parse(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *node
		stack []*node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, types.DecodeValidation("xml", "malformed document: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: t.Copy().Attr}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.children = append(top.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, types.DecodeValidation("xml", "empty document")
	}
	return root, nil
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// xsiType returns the local part of the xsi:type attribute.
func (n *node) xsiType() string {
	for _, a := range n.attrs {
		if a.Name.Local == "type" && (a.Name.Space == xsiNamespace || a.Name.Space == "xsi") {
			v := a.Value
			if i := strings.LastIndexByte(v, ':'); i >= 0 {
				v = v[i+1:]
			}
			return v
		}
	}
	return ""
}

func (n *node) all(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) first(name string) (*node, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (n *node) uintAttr(name string) (uint64, error) {
	v, ok := n.attr(name)
	if !ok {
		return 0, nil
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, types.DecodeValidation("xml", "%s.%s: invalid unsigned integer %q", n.name, name, v)
	}
	return u, nil
}

// ReadSnapshot reads a whole MDIB document. The description must decode
// completely; states that fail to decode are returned as record errors.
func ReadSnapshot(r io.Reader) (mdib.Snapshot, []mapping.RecordError, error) {
	root, err := parse(r)
	if err != nil {
		return mdib.Snapshot{}, nil, err
	}
	if root.name != "Mdib" {
		return mdib.Snapshot{}, nil, types.DecodeValidation("xml", "root element is %s, want Mdib", root.name)
	}
	var snap mdib.Snapshot
	if snap.Version, err = versionOf(root); err != nil {
		return mdib.Snapshot{}, nil, err
	}
	description, ok := root.first("MdDescription")
	if !ok {
		return mdib.Snapshot{}, nil, types.DecodeValidation("xml", "Mdib without MdDescription")
	}
	if snap.DescriptionVersion, snap.Descriptors, err = readDescription(description); err != nil {
		return mdib.Snapshot{}, nil, err
	}
	state, ok := root.first("MdState")
	if !ok {
		return snap, nil, nil
	}
	var failed []mapping.RecordError
	if snap.States, failed, snap.StateVersion, err = readStates(state); err != nil {
		return mdib.Snapshot{}, nil, err
	}
	return snap, failed, nil
}

// ReadDescription reads an MdDescription document. Descriptors are returned
// parents first with parent handles set.
func ReadDescription(r io.Reader) (uint64, []model.Descriptor, error) {
	root, err := parse(r)
	if err != nil {
		return 0, nil, err
	}
	if root.name != "MdDescription" {
		return 0, nil, types.DecodeValidation("xml", "root element is %s, want MdDescription", root.name)
	}
	return readDescription(root)
}

// ReadStates reads an MdState document.
func ReadStates(r io.Reader) ([]model.State, []mapping.RecordError, uint64, error) {
	root, err := parse(r)
	if err != nil {
		return nil, nil, 0, err
	}
	if root.name != "MdState" {
		return nil, nil, 0, types.DecodeValidation("xml", "root element is %s, want MdState", root.name)
	}
	return readStates(root)
}

func versionOf(n *node) (mapping.VersionGroup, error) {
	var (
		g   mapping.VersionGroup
		err error
	)
	if g.MdibVersion, err = n.uintAttr("MdibVersion"); err != nil {
		return g, err
	}
	if g.InstanceID, err = n.uintAttr("InstanceId"); err != nil {
		return g, err
	}
	g.SequenceID, _ = n.attr("SequenceId")
	if g.SequenceID == "" {
		return g, types.DecodeValidation("xml", "%s without SequenceId", n.name)
	}
	return g, nil
}

func readDescription(n *node) (uint64, []model.Descriptor, error) {
	version, err := n.uintAttr("DescriptionVersion")
	if err != nil {
		return 0, nil, err
	}
	var out []model.Descriptor
	for _, mds := range n.all("Mds") {
		d, err := readDescriptor(mds, model.KindMdsDescriptor.String(), "", &out)
		if err != nil {
			return 0, nil, err
		}
		if d.NodeType() != model.KindMdsDescriptor {
			return 0, nil, types.InvariantViolation("xml", "description root %s is a %s",
				d.DescriptorBase().Handle, d.TypeName())
		}
	}
	return version, out, nil
}

func readDescriptor(n *node, declared, parent string, out *[]model.Descriptor) (model.Descriptor, error) {
	c, err := newComposite(n, declared)
	if err != nil {
		return nil, err
	}
	d, ok := c.(model.Descriptor)
	if !ok {
		return nil, types.DecodeValidation("xml", "%s is not a descriptor", c.TypeName())
	}
	if err := readComposite(n, c); err != nil {
		return nil, err
	}
	base := d.DescriptorBase()
	if base.Handle == "" {
		return nil, types.DecodeValidation("xml", "%s without handle under %q", d.TypeName(), parent)
	}
	base.ParentHandle = parent
	*out = append(*out, d)

	for _, slot := range model.Slots(d.NodeType()) {
		members := n.all(slot.Name)
		if slot.Single() && len(members) > 1 {
			return nil, types.InvariantViolation("xml", "slot %s of %s holds %d children",
				slot.Name, base.Handle, len(members))
		}
		for _, m := range members {
			child, err := readDescriptor(m, slot.ElemType(), base.Handle, out)
			if err != nil {
				return nil, err
			}
			if !slot.Allows(child.NodeType()) {
				return nil, types.InvariantViolation("xml", "slot %s of %s does not accept %s",
					slot.Name, base.Handle, child.TypeName())
			}
		}
	}
	return d, nil
}

func readStates(n *node) ([]model.State, []mapping.RecordError, uint64, error) {
	version, err := n.uintAttr("StateVersion")
	if err != nil {
		return nil, nil, 0, err
	}
	var (
		states []model.State
		failed []mapping.RecordError
	)
	for i, el := range n.all("State") {
		s, err := readState(el)
		if errors.Is(err, types.ErrDecodeValidation) {
			handle, _ := el.attr("DescriptorHandle")
			failed = append(failed, mapping.RecordError{Index: i, Handle: handle, Err: err})
			continue
		}
		if err != nil {
			return nil, nil, 0, err
		}
		states = append(states, s)
	}
	return states, failed, version, nil
}

func readState(n *node) (model.State, error) {
	c, err := newComposite(n, "AbstractState")
	if err != nil {
		return nil, err
	}
	s, ok := c.(model.State)
	if !ok {
		return nil, types.DecodeValidation("xml", "%s is not a state", c.TypeName())
	}
	if err := readComposite(n, c); err != nil {
		return nil, err
	}
	if s.StateBase().DescriptorHandle == "" {
		return nil, types.DecodeValidation("xml", "%s without descriptor handle", s.TypeName())
	}
	return s, nil
}

// newComposite constructs the type named by xsi:type, or the declared type
// when the attribute is absent.
func newComposite(n *node, declared string) (prop.Composite, error) {
	typeName := n.xsiType()
	if typeName == "" {
		typeName = declared
	}
	info, ok := prop.Lookup(typeName)
	if !ok {
		return nil, types.SchemaMismatch("xml", "no type %s for element %s", typeName, n.name)
	}
	if !prop.IsA(typeName, declared) {
		return nil, types.DecodeValidation("xml", "element %s: %s is not a %s", n.name, typeName, declared)
	}
	if info.Abstract() {
		return nil, types.DecodeValidation("xml", "element %s needs a concrete xsi:type, %s is abstract", n.name, typeName)
	}
	return info.New(), nil
}

func readComposite(n *node, c prop.Composite) error {
	for _, b := range c.Blocks() {
		for _, p := range b.Props {
			if err := readProp(n, b.Type, p); err != nil {
				return err
			}
			if p.Policy() == prop.Required && !p.Present() {
				return types.DecodeValidation("xml", "%s.%s is required", b.Type, p.Name())
			}
		}
	}
	return nil
}

func readProp(n *node, block string, p prop.Property) error {
	switch p.Storage() {
	case prop.InAttribute:
		v, ok := n.attr(p.Name())
		if !ok {
			return nil
		}
		s, isScalar := p.(prop.Scalar)
		if !isScalar {
			return unsupported(block, p)
		}
		return s.SetText(v)
	case prop.InAttributeList:
		v, ok := n.attr(p.Name())
		if !ok {
			return nil
		}
		l, isList := p.(prop.ScalarList)
		if !isList {
			return unsupported(block, p)
		}
		return l.SetTexts(strings.Fields(v))
	case prop.InElement, prop.InElementList:
		els := n.all(p.Name())
		if len(els) == 0 {
			return nil
		}
		if nested, ok := p.(prop.Nested); ok {
			values := make([]prop.Composite, 0, len(els))
			for _, el := range els {
				v, err := newComposite(el, nested.ElemType())
				if err != nil {
					return err
				}
				if err := readComposite(el, v); err != nil {
					return err
				}
				values = append(values, v)
			}
			return nested.SetValues(values)
		}
		return readText(els, block, p)
	case prop.InText:
		els := n.all(p.Name())
		if len(els) == 0 {
			return nil
		}
		return readText(els, block, p)
	case prop.InTextList:
		els := n.all(p.Name())
		if len(els) == 0 {
			return nil
		}
		l, ok := p.(prop.ScalarList)
		if !ok {
			return unsupported(block, p)
		}
		texts := make([]string, len(els))
		for i, el := range els {
			texts[i] = el.text.String()
		}
		return l.SetTexts(texts)
	}
	return unsupported(block, p)
}

func readText(els []*node, block string, p prop.Property) error {
	s, ok := p.(prop.Scalar)
	if !ok {
		return unsupported(block, p)
	}
	if len(els) > 1 {
		return types.DecodeValidation("xml", "%s.%s appears %d times", block, p.Name(), len(els))
	}
	return s.SetText(els[0].text.String())
}
