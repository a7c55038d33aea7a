package template

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// NodeID is an index into a document's node arena. The zero value is the
// document root, which holds the prolog and the top-level element.
type NodeID int

const rootID NodeID = 0

type nodeKind uint8

const (
	rootNode nodeKind = iota
	elementNode
	textNode
	commentNode
	procInstNode
	directiveNode
)

type node struct {
	kind     nodeKind
	name     xml.Name   // element
	attrs    []xml.Attr // element
	data     string     // text, comment, directive, procinst body
	target   string     // procinst
	parent   NodeID
	children []NodeID
}

func (n node) clone() node {
	c := n
	if n.attrs != nil {
		c.attrs = append([]xml.Attr(nil), n.attrs...)
	}
	if n.children != nil {
		c.children = append([]NodeID(nil), n.children...)
	}
	return c
}

// Template is a parsed SVG template. It is never modified after Parse, so a
// single Template may be shared by any number of concurrent renders. Each
// render works on its own copy obtained from [Template.Document].
type Template struct {
	doc *Document
}

// Parse reads an SVG document and indexes every element carrying an id
// attribute. Duplicate ids are rejected.
func Parse(r io.Reader) (*Template, error) {
	doc := &Document{
		nodes: []node{{kind: rootNode, parent: -1}},
		index: make(map[string]NodeID),
	}

	dec := xml.NewDecoder(r)
	dec.Strict = true
	cur := rootID

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTemplate, err, "parse template")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			id := doc.add(cur, node{kind: elementNode, name: t.Name, attrs: append([]xml.Attr(nil), t.Attr...)})
			if v, ok := doc.Attr(id, "id"); ok {
				if _, dup := doc.index[v]; dup {
					return nil, cerrors.New(cerrors.ErrCodeInvalidTemplate, "duplicate id %q", v)
				}
				doc.index[v] = id
			}
			cur = id
		case xml.EndElement:
			n := doc.nodes[cur]
			if n.kind != elementNode || n.name != t.Name {
				return nil, cerrors.New(cerrors.ErrCodeInvalidTemplate, "unexpected closing tag </%s>", qualified(t.Name))
			}
			cur = n.parent
		case xml.CharData:
			doc.add(cur, node{kind: textNode, data: string(t)})
		case xml.Comment:
			doc.add(cur, node{kind: commentNode, data: string(t)})
		case xml.ProcInst:
			doc.add(cur, node{kind: procInstNode, target: t.Target, data: string(t.Inst)})
		case xml.Directive:
			doc.add(cur, node{kind: directiveNode, data: string(t)})
		}
	}

	if cur != rootID {
		return nil, cerrors.New(cerrors.ErrCodeInvalidTemplate, "unclosed element <%s>", qualified(doc.nodes[cur].name))
	}
	if _, ok := doc.documentElement(); !ok {
		return nil, cerrors.New(cerrors.ErrCodeInvalidTemplate, "template has no root element")
	}
	return &Template{doc: doc}, nil
}

// ParseBytes parses a template held in memory.
func ParseBytes(data []byte) (*Template, error) {
	return Parse(bytes.NewReader(data))
}

// Load parses the template file at path.
func Load(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Document returns a fresh, independently owned copy of the template.
func (t *Template) Document() *Document {
	return t.doc.copy()
}

// Has reports whether the template defines the anchor id.
func (t *Template) Has(id string) bool {
	_, ok := t.doc.index[id]
	return ok
}

// HasBarre reports whether the template has a barre shape covering span
// strings.
func (t *Template) HasBarre(span int) bool {
	return t.Has(BarreID(span))
}

// Missing returns the ids from want that the template does not define, in
// the order given.
func (t *Template) Missing(want ...string) []string {
	var out []string
	for _, id := range want {
		if !t.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Anchors returns every anchor id in the template, sorted.
func (t *Template) Anchors() []string {
	ids := make([]string, 0, len(t.doc.index))
	for id := range t.doc.index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Document is a mutable copy of a template.
type Document struct {
	nodes []node
	index map[string]NodeID
	seq   int
}

func (d *Document) add(parent NodeID, n node) NodeID {
	id := NodeID(len(d.nodes))
	n.parent = parent
	d.nodes = append(d.nodes, n)
	d.nodes[parent].children = append(d.nodes[parent].children, id)
	return id
}

func (d *Document) copy() *Document {
	c := &Document{
		nodes: make([]node, len(d.nodes)),
		index: make(map[string]NodeID, len(d.index)),
		seq:   d.seq,
	}
	for i, n := range d.nodes {
		c.nodes[i] = n.clone()
	}
	for k, v := range d.index {
		c.index[k] = v
	}
	return c
}

func (d *Document) documentElement() (NodeID, bool) {
	for _, c := range d.nodes[rootID].children {
		if d.nodes[c].kind == elementNode {
			return c, true
		}
	}
	return 0, false
}

// Lookup resolves an anchor id. A missing anchor yields an
// [cerrors.UnresolvedAnchorError].
func (d *Document) Lookup(id string) (NodeID, error) {
	n, ok := d.index[id]
	if !ok {
		return 0, &cerrors.UnresolvedAnchorError{ID: id}
	}
	return n, nil
}

// Has reports whether the document currently holds the anchor id.
func (d *Document) Has(id string) bool {
	_, ok := d.index[id]
	return ok
}

// Name returns the local element name of n ("g", "circle", ...).
func (d *Document) Name(n NodeID) string {
	return d.nodes[n].name.Local
}

// Attr returns the value of the named attribute. Namespaced attributes are
// addressed as "prefix:local".
func (d *Document) Attr(n NodeID, name string) (string, bool) {
	for _, a := range d.nodes[n].attrs {
		if qualified(a.Name) == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds an attribute.
func (d *Document) SetAttr(n NodeID, name, value string) {
	attrs := d.nodes[n].attrs
	for i, a := range attrs {
		if qualified(a.Name) == name {
			attrs[i].Value = value
			return
		}
	}
	d.nodes[n].attrs = append(attrs, xml.Attr{Name: splitName(name), Value: value})
}

// FloatAttr reads a numeric attribute such as x or cy.
func (d *Document) FloatAttr(n NodeID, name string) (float64, error) {
	v, ok := d.Attr(n, name)
	if !ok {
		return 0, cerrors.New(cerrors.ErrCodeInvalidTemplate, "<%s> has no %s attribute", d.Name(n), name)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, cerrors.Wrap(cerrors.ErrCodeInvalidTemplate, err, "<%s> attribute %s", d.Name(n), name)
	}
	return f, nil
}

// FirstChildElement returns the first element child of n.
func (d *Document) FirstChildElement(n NodeID) (NodeID, bool) {
	for _, c := range d.nodes[n].children {
		if d.nodes[c].kind == elementNode {
			return c, true
		}
	}
	return 0, false
}

// FindDescendant returns the first element named local in document order,
// starting with n itself.
func (d *Document) FindDescendant(n NodeID, local string) (NodeID, bool) {
	nd := d.nodes[n]
	if nd.kind == elementNode && nd.name.Local == local {
		return n, true
	}
	for _, c := range nd.children {
		if found, ok := d.FindDescendant(c, local); ok {
			return found, true
		}
	}
	return 0, false
}

// Text returns the concatenated character data below n.
func (d *Document) Text(n NodeID) string {
	var b strings.Builder
	d.collectText(n, &b)
	return b.String()
}

func (d *Document) collectText(n NodeID, b *strings.Builder) {
	nd := d.nodes[n]
	if nd.kind == textNode {
		b.WriteString(nd.data)
		return
	}
	for _, c := range nd.children {
		d.collectText(c, b)
	}
}

// SetText replaces the label of n. If n is a group, the label is the first
// <text> element inside it. Within a <text>, a leading <tspan> child receives
// the value so that its styling survives.
func (d *Document) SetText(n NodeID, s string) {
	target := n
	if t, ok := d.FindDescendant(n, "text"); ok {
		target = t
	}
	if span, ok := d.FirstChildElement(target); ok && d.nodes[span].name.Local == "tspan" {
		target = span
	}
	d.nodes[target].children = nil
	d.add(target, node{kind: textNode, data: s})
}

// SetFill recolors n. A fill declared in the style attribute takes
// precedence in SVG, so it is rewritten in place when present.
func (d *Document) SetFill(n NodeID, color string) {
	if style, ok := d.Attr(n, "style"); ok {
		decls := strings.Split(style, ";")
		replaced := false
		for i, decl := range decls {
			prop, _, found := strings.Cut(decl, ":")
			if found && strings.TrimSpace(prop) == "fill" {
				decls[i] = "fill:" + color
				replaced = true
			}
		}
		if replaced {
			d.SetAttr(n, "style", strings.Join(decls, ";"))
			return
		}
	}
	d.SetAttr(n, "fill", color)
}

// Remove detaches n and its subtree from the document. Anchors inside the
// subtree stop resolving.
func (d *Document) Remove(n NodeID) {
	p := d.nodes[n].parent
	if p < 0 {
		return
	}
	siblings := d.nodes[p].children
	for i, c := range siblings {
		if c == n {
			d.nodes[p].children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	d.nodes[n].parent = -1
	d.unindex(n)
}

// RemoveID removes the anchor id if present and reports whether it was.
func (d *Document) RemoveID(id string) bool {
	n, ok := d.index[id]
	if ok {
		d.Remove(n)
	}
	return ok
}

func (d *Document) unindex(n NodeID) {
	if v, ok := d.Attr(n, "id"); ok && d.index[v] == n {
		delete(d.index, v)
	}
	for _, c := range d.nodes[n].children {
		d.unindex(c)
	}
}

// Clone deep-copies n and appends the copy to n's parent, so it paints above
// every earlier sibling. Ids inside the copy get a "-<seq>" suffix, where seq
// counts clones made in this document. The copy's ids are indexed.
func (d *Document) Clone(n NodeID) NodeID {
	d.seq++
	return d.cloneInto(n, d.nodes[n].parent, d.seq)
}

func (d *Document) cloneInto(n, parent NodeID, seq int) NodeID {
	src := d.nodes[n].clone()
	src.children = nil
	id := d.add(parent, src)
	if v, ok := d.Attr(id, "id"); ok {
		v = v + "-" + strconv.Itoa(seq)
		d.SetAttr(id, "id", v)
		d.index[v] = id
	}
	for _, c := range d.nodes[n].children {
		d.cloneInto(c, id, seq)
	}
	return id
}

// Translate sets n's transform to a translation.
func (d *Document) Translate(n NodeID, dx, dy float64) {
	d.SetAttr(n, "transform", "translate("+formatFloat(dx)+","+formatFloat(dy)+")")
}

func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func splitName(s string) xml.Name {
	if space, local, ok := strings.Cut(s, ":"); ok {
		return xml.Name{Space: space, Local: local}
	}
	return xml.Name{Local: s}
}
