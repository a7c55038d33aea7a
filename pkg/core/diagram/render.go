package diagram

import (
	"fmt"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/template"
)

// NotNutFill colors the top fret label when the window starts above the nut.
const NotNutFill = "#b22222"

// Render draws c on a fresh copy of tmpl. The template itself is never
// modified, so one template may serve concurrent renders.
//
// Errors are *errors.SpanTooWideError for fingerings that do not fit a
// four-fret window, and *errors.UnresolvedAnchorError when tmpl lacks an
// anchor the chord needs. No document is returned on error.
func Render(tmpl *template.Template, c chord.Chord, opts Options) (*template.Document, error) {
	l, err := Plan(c, tmpl, opts)
	if err != nil {
		return nil, err
	}
	doc := tmpl.Document()
	if err := Apply(doc, l, opts); err != nil {
		return nil, err
	}
	return doc, nil
}

// Apply writes a planned layout into doc and removes the unused mark
// prototypes.
func Apply(doc *template.Document, l *Layout, opts Options) error {
	title, err := doc.Lookup(template.TitleID)
	if err != nil {
		return err
	}
	doc.SetText(title, l.Name)

	for i, kind := range l.Kinds {
		n := i + 1
		hide := []string{template.MuteID(n)}
		if kind == chord.Muted {
			hide[0] = template.NoteID(n)
		}
		if kind != chord.Open {
			hide = append(hide, template.OpenID(n))
		}
		for _, id := range hide {
			node, err := doc.Lookup(id)
			if err != nil {
				return err
			}
			doc.Remove(node)
		}
	}

	for row := 1; row <= Rows; row++ {
		label, err := doc.Lookup(template.FretID(row))
		if err != nil {
			return err
		}
		doc.SetText(label, l.Labels[row-1])
		if row == 1 && l.Shifted() {
			doc.SetFill(label, NotNutFill)
		}
	}

	for _, m := range l.Marks {
		if err := placeMark(doc, m, opts.LeftHanded); err != nil {
			return err
		}
	}

	for i, kind := range l.Kinds {
		if kind != chord.Fretted {
			continue
		}
		note, err := doc.Lookup(template.NoteID(i + 1))
		if err != nil {
			return err
		}
		doc.SetText(note, l.Notes[i])
	}

	doc.PrunePrototypes()
	return nil
}

func placeMark(doc *template.Document, m Mark, leftHanded bool) error {
	var protoID string
	switch m.Kind {
	case Barre:
		protoID = template.BarreID(m.Span())
	default:
		protoID = template.FingerID(string(m.Finger))
	}
	proto, err := doc.Lookup(protoID)
	if err != nil {
		return err
	}
	refX, refY, err := referencePoint(doc, proto)
	if err != nil {
		return fmt.Errorf("%s: %w", protoID, err)
	}

	x, err := stringX(doc, m.First)
	if err != nil {
		return err
	}
	if m.Last != m.First {
		other, err := stringX(doc, m.Last)
		if err != nil {
			return err
		}
		// The barre handle goes on the outer edge: rightmost for right-handed
		// diagrams, leftmost for left-handed ones.
		if (other > x) != leftHanded {
			x = other
		}
	}
	y, err := rowY(doc, m.Row)
	if err != nil {
		return err
	}

	mark := doc.Clone(proto)
	if m.Kind == Barre {
		doc.SetText(mark, string(m.Finger))
	}
	doc.Translate(mark, x-refX, y-refY)
	return nil
}

// referencePoint is the center of the prototype's first shape.
func referencePoint(doc *template.Document, proto template.NodeID) (x, y float64, err error) {
	shape, ok := doc.FirstChildElement(proto)
	if !ok {
		shape = proto
	}
	if x, err = doc.FloatAttr(shape, "cx"); err != nil {
		return 0, 0, err
	}
	if y, err = doc.FloatAttr(shape, "cy"); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// stringX is the horizontal center of string n.
func stringX(doc *template.Document, n int) (float64, error) {
	s, err := doc.Lookup(template.StringID(n))
	if err != nil {
		return 0, err
	}
	x, err := doc.FloatAttr(s, "x")
	if err != nil {
		return 0, err
	}
	if _, ok := doc.Attr(s, "width"); ok {
		w, err := doc.FloatAttr(s, "width")
		if err != nil {
			return 0, err
		}
		x += w / 2
	}
	return x, nil
}

// rowY is the vertical center of fret row n, taken from its label.
func rowY(doc *template.Document, row int) (float64, error) {
	label, err := doc.Lookup(template.FretID(row))
	if err != nil {
		return 0, err
	}
	return doc.FloatAttr(label, "y")
}
