// Package xmltree reads and writes MDIB snapshots as XML documents in the
// participant model layout: one element per descriptor nested under its
// parent, attributes before elements, xsi:type on polymorphic members.
package xmltree

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/KevinKickass/OpenMDIB/internal/types"
)

const (
	// Namespace is the default namespace of written documents.
	Namespace    = "http://standards.ieee.org/downloads/11073/11073-10207-2017/participant"
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"
)

type writer struct {
	enc  *xml.Encoder
	tree mapping.Tree
}

func newWriter(w io.Writer, tree mapping.Tree) (*writer, error) {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return nil, err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &writer{enc: enc, tree: tree}, nil
}

func (w *writer) finish(out io.Writer) error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

// WriteSnapshot writes a whole MDIB document.
func WriteSnapshot(out io.Writer, snap mdib.Snapshot) error {
	tree, roots := treeOf(snap.Descriptors)
	w, err := newWriter(out, tree)
	if err != nil {
		return err
	}
	root := xml.StartElement{Name: xml.Name{Local: "Mdib"}, Attr: append(namespaceAttrs(), versionAttrs(snap.Version)...)}
	if err := w.enc.EncodeToken(root); err != nil {
		return err
	}
	if err := w.description(roots, snap.DescriptionVersion); err != nil {
		return err
	}
	if err := w.states(snap.States, snap.StateVersion); err != nil {
		return err
	}
	if err := w.enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return w.finish(out)
}

// WriteDescription writes an MdDescription document for the given roots.
func WriteDescription(out io.Writer, roots []model.Descriptor, tree mapping.Tree, version uint64) error {
	w, err := newWriter(out, tree)
	if err != nil {
		return err
	}
	if err := w.description(roots, version, namespaceAttrs()...); err != nil {
		return err
	}
	return w.finish(out)
}

// WriteStates writes an MdState document.
func WriteStates(out io.Writer, states []model.State, version uint64) error {
	w, err := newWriter(out, nil)
	if err != nil {
		return err
	}
	if err := w.states(states, version, namespaceAttrs()...); err != nil {
		return err
	}
	return w.finish(out)
}

func namespaceAttrs() []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Local: "xmlns"}, Value: Namespace},
		{Name: xml.Name{Local: "xmlns:xsi"}, Value: xsiNamespace},
	}
}

func versionAttrs(g mapping.VersionGroup) []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Local: "MdibVersion"}, Value: strconv.FormatUint(g.MdibVersion, 10)},
		{Name: xml.Name{Local: "SequenceId"}, Value: g.SequenceID},
		{Name: xml.Name{Local: "InstanceId"}, Value: strconv.FormatUint(g.InstanceID, 10)},
	}
}

func (w *writer) description(roots []model.Descriptor, version uint64, extra ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: "MdDescription"}, Attr: append(extra,
		xml.Attr{Name: xml.Name{Local: "DescriptionVersion"}, Value: strconv.FormatUint(version, 10)})}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	for _, root := range roots {
		if root.NodeType() != model.KindMdsDescriptor {
			return types.InvariantViolation("xml", "description root %s is a %s",
				root.DescriptorBase().Handle, root.TypeName())
		}
		if err := w.descriptor("Mds", model.KindMdsDescriptor.String(), root); err != nil {
			return err
		}
	}
	return w.enc.EncodeToken(start.End())
}

func (w *writer) states(states []model.State, version uint64, extra ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: "MdState"}, Attr: append(extra,
		xml.Attr{Name: xml.Name{Local: "StateVersion"}, Value: strconv.FormatUint(version, 10)})}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	for _, s := range states {
		if err := w.composite("State", "AbstractState", s, nil); err != nil {
			return err
		}
	}
	return w.enc.EncodeToken(start.End())
}

func (w *writer) descriptor(name, declared string, d model.Descriptor) error {
	kind := d.NodeType()
	children := w.tree.Children(d.DescriptorBase().Handle)
	for _, child := range children {
		if _, _, err := model.SlotFor(kind, child.NodeType()); err != nil {
			return err
		}
	}
	return w.composite(name, declared, d, func(block string) error {
		for _, slot := range model.Slots(kind) {
			if slot.Owner != block {
				continue
			}
			n := 0
			for _, child := range children {
				if !slot.Allows(child.NodeType()) {
					continue
				}
				if n++; slot.Single() && n > 1 {
					return types.InvariantViolation("xml", "slot %s of %s holds more than one child",
						slot.Name, d.DescriptorBase().Handle)
				}
				if err := w.descriptor(slot.Name, slot.ElemType(), child); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// composite writes c as element name. after runs at the end of every block,
// letting descriptors place their children where the owning block ends.
func (w *writer) composite(name, declared string, c prop.Composite, after func(block string) error) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if c.TypeName() != declared {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xsi:type"}, Value: c.TypeName()})
	}
	blocks := c.Blocks()
	for _, b := range blocks {
		for _, p := range b.Props {
			attr, ok, err := attribute(b.Type, p)
			if err != nil {
				return err
			}
			if ok {
				start.Attr = append(start.Attr, attr)
			}
		}
	}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	for _, b := range blocks {
		for _, p := range b.Props {
			if err := w.element(b.Type, p); err != nil {
				return err
			}
		}
		if after != nil {
			if err := after(b.Type); err != nil {
				return err
			}
		}
	}
	return w.enc.EncodeToken(start.End())
}

func attribute(block string, p prop.Property) (xml.Attr, bool, error) {
	name := xml.Name{Local: p.Name()}
	switch p.Storage() {
	case prop.InAttribute:
		s, ok := p.(prop.Scalar)
		if !ok {
			return xml.Attr{}, false, unsupported(block, p)
		}
		text, present := scalarText(s)
		if !present {
			return xml.Attr{}, false, nil
		}
		return xml.Attr{Name: name, Value: text}, true, nil
	case prop.InAttributeList:
		l, ok := p.(prop.ScalarList)
		if !ok {
			return xml.Attr{}, false, unsupported(block, p)
		}
		texts := l.Texts()
		if len(texts) == 0 {
			return xml.Attr{}, false, nil
		}
		return xml.Attr{Name: name, Value: strings.Join(texts, " ")}, true, nil
	}
	return xml.Attr{}, false, nil
}

func (w *writer) element(block string, p prop.Property) error {
	switch p.Storage() {
	case prop.InAttribute, prop.InAttributeList:
		return nil
	case prop.InElement, prop.InElementList:
		if n, ok := p.(prop.Nested); ok {
			for _, v := range n.Values() {
				if err := w.composite(p.Name(), n.ElemType(), v, nil); err != nil {
					return err
				}
			}
			return nil
		}
		if s, ok := p.(prop.Scalar); ok {
			if text, present := scalarText(s); present {
				return w.text(p.Name(), text)
			}
			return nil
		}
	case prop.InText:
		if s, ok := p.(prop.Scalar); ok {
			if text, present := scalarText(s); present {
				return w.text(p.Name(), text)
			}
			return nil
		}
	case prop.InTextList:
		if l, ok := p.(prop.ScalarList); ok {
			for _, text := range l.Texts() {
				if err := w.text(p.Name(), text); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return unsupported(block, p)
}

// scalarText drops empty values; they have no distinct XML form.
func scalarText(s prop.Scalar) (string, bool) {
	if !s.Present() {
		return "", false
	}
	text, ok := s.Text()
	return text, ok && text != ""
}

func (w *writer) text(name, value string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	if err := w.enc.EncodeToken(xml.CharData(value)); err != nil {
		return err
	}
	return w.enc.EncodeToken(start.End())
}

func unsupported(block string, p prop.Property) error {
	return types.SchemaMismatch("xml", "%s.%s has no XML form for storage %s", block, p.Name(), p.Storage())
}

// sliceTree is a Tree over descriptors ordered parents first.
type sliceTree map[string][]model.Descriptor

func (t sliceTree) Children(handle string) []model.Descriptor { return t[handle] }

func treeOf(descriptors []model.Descriptor) (sliceTree, []model.Descriptor) {
	tree := make(sliceTree)
	var roots []model.Descriptor
	for _, d := range descriptors {
		if parent := d.DescriptorBase().ParentHandle; parent != "" {
			tree[parent] = append(tree[parent], d)
			continue
		}
		roots = append(roots, d)
	}
	return tree, roots
}
