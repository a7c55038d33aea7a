package template

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;", "\r", "&#xD;")
)

// xmlChar drops runes XML 1.0 cannot carry, such as most control
// characters, which may arrive in free-text chord names.
func xmlChar(r rune) rune {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return r
	case r < 0x20, r == 0xFFFE, r == 0xFFFF, r >= 0xD800 && r <= 0xDFFF:
		return -1
	}
	return r
}

// WriteTo serializes the document as XML. Prefixes and attribute order are
// kept exactly as parsed; elements without children are self-closed.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	for _, c := range d.nodes[rootID].children {
		d.write(cw, c)
	}
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

func (d *Document) write(w *countingWriter, id NodeID) {
	n := d.nodes[id]
	switch n.kind {
	case textNode:
		w.str(textEscaper.Replace(strings.Map(xmlChar, n.data)))
	case commentNode:
		w.str("<!--" + n.data + "-->")
	case procInstNode:
		w.str("<?" + n.target)
		if n.data != "" {
			w.str(" " + n.data)
		}
		w.str("?>")
	case directiveNode:
		w.str("<!" + n.data + ">")
	case elementNode:
		name := qualified(n.name)
		w.str("<" + name)
		for _, a := range n.attrs {
			w.str(" " + qualified(a.Name) + `="` + attrEscaper.Replace(a.Value) + `"`)
		}
		if len(n.children) == 0 {
			w.str("/>")
			return
		}
		w.str(">")
		for _, c := range n.children {
			d.write(w, c)
		}
		w.str("</" + name + ">")
	}
}

// countingWriter keeps the first write error and the byte count.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) str(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
}
