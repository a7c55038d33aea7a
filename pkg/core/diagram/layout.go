package diagram

import (
	"sort"
	"strconv"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/pitch"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// Rows is the number of fret rows a diagram shows.
const Rows = 4

// Options are the caller-facing rendering switches. The zero value renders a
// right-handed diagram with plain fret numbers.
type Options struct {
	LeftHanded bool `json:"left_handed" toml:"left_handed"`
	RomanFrets bool `json:"roman_frets" toml:"roman_frets"`
}

// ShapeSet reports which barre shapes a template provides.
// *template.Template implements it.
type ShapeSet interface {
	HasBarre(span int) bool
}

// MarkKind is the shape used for a fingering mark.
type MarkKind int

const (
	Dot MarkKind = iota
	ThumbDot
	Barre
)

func (k MarkKind) String() string {
	switch k {
	case Dot:
		return "dot"
	case ThumbDot:
		return "thumb"
	case Barre:
		return "barre"
	default:
		return "MarkKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Mark is one fingering mark placed on the diagram.
type Mark struct {
	Kind   MarkKind
	Finger chord.Finger
	Fret   int // absolute fret
	Row    int // fret row on the diagram, 1-4
	// First and Last are the outermost strings covered. They are equal for
	// dots. For a barre they bound the span, which may include strings the
	// finger does not press.
	First, Last int
	// Strings lists the fretted strings this mark accounts for.
	Strings []int
}

// Span returns the number of strings the mark stretches across.
func (m Mark) Span() int { return m.Last - m.First + 1 }

// Layout is everything a render decides before touching a template.
type Layout struct {
	Name string
	// Key is the key inferred from the name. HasKey is false when the name
	// does not start with a note.
	Key    pitch.Key
	HasKey bool
	Flats  bool

	// Fretted is false for chords with only open and muted strings.
	Fretted bool
	Min     int
	Max     int
	Shift   int

	// Labels are the four fret labels, top row first.
	Labels [Rows]string
	// Notes holds the sounded note per string; empty for muted strings.
	Notes [chord.NumStrings]string
	Kinds [chord.NumStrings]chord.Kind
	Marks []Mark
	// Unshaped lists the spans of barre groups drawn as dots because the
	// shape set has no barre of that length.
	Unshaped []int
}

// Shifted reports whether the window starts above the nut.
func (l *Layout) Shifted() bool { return l.Shift > 0 }

// Window returns the first and last fret shown.
func (l *Layout) Window() (first, last int) {
	return 1 + l.Shift, Rows + l.Shift
}

// Barres returns the barre marks.
func (l *Layout) Barres() []Mark {
	var out []Mark
	for _, m := range l.Marks {
		if m.Kind == Barre {
			out = append(out, m)
		}
	}
	return out
}

// Plan computes the layout of c without touching any template. Only the
// availability of barre shapes is needed, so Plan is cheap to call for
// previews and inspection.
//
// Plan fails with *errors.SpanTooWideError when the fretted strings cover
// more than four frets, and with an INVALID_CHORD error when c does not
// validate.
func Plan(c chord.Chord, shapes ShapeSet, opts Options) (*Layout, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	l := &Layout{Name: c.Name}
	l.Key, l.HasKey = pitch.ResolveKey(c.Name)
	l.Flats = l.Key.Flats()

	lo, hi, ok := c.Span()
	if ok && hi-lo > cerrors.MaxSpan-1 {
		return nil, &cerrors.SpanTooWideError{Min: lo, Max: hi}
	}
	l.Fretted, l.Min, l.Max = ok, lo, hi
	if ok && hi > Rows {
		l.Shift = lo - 1
	}

	for row := 1; row <= Rows; row++ {
		l.Labels[row-1] = FretLabel(row+l.Shift, opts.RomanFrets)
	}

	for i, e := range c.Strings {
		n := i + 1
		l.Kinds[i] = e.Kind
		switch e.Kind {
		case chord.Open:
			l.Notes[i] = pitch.StringNote(n, 0, l.Flats)
		case chord.Fretted:
			l.Notes[i] = pitch.StringNote(n, e.Fret, l.Flats)
		}
	}

	if !ok {
		return l, nil
	}

	barred := make(map[chord.Finger]bool)
	for _, g := range barreGroups(c) {
		if span := g.last - g.first + 1; shapes == nil || !shapes.HasBarre(span) {
			l.Unshaped = append(l.Unshaped, span)
			continue
		}
		barred[g.finger] = true
		l.Marks = append(l.Marks, Mark{
			Kind:    Barre,
			Finger:  g.finger,
			Fret:    g.fret,
			Row:     g.fret - l.Shift,
			First:   g.first,
			Last:    g.last,
			Strings: g.strings,
		})
	}

	for i, e := range c.Strings {
		if !e.IsFretted() || barred[e.Finger] {
			continue
		}
		kind := Dot
		if e.Finger.IsThumb() {
			kind = ThumbDot
		}
		n := i + 1
		l.Marks = append(l.Marks, Mark{
			Kind:    kind,
			Finger:  e.Finger,
			Fret:    e.Fret,
			Row:     e.Fret - l.Shift,
			First:   n,
			Last:    n,
			Strings: []int{n},
		})
	}
	return l, nil
}

type barreGroup struct {
	finger      chord.Finger
	fret        int
	first, last int
	strings     []int
}

// barreGroups returns, in finger order, every finger that presses two or
// more strings at one fret.
func barreGroups(c chord.Chord) []barreGroup {
	byFinger := make(map[chord.Finger][]int)
	for i, e := range c.Strings {
		if e.IsFretted() {
			byFinger[e.Finger] = append(byFinger[e.Finger], i+1)
		}
	}

	fingers := make([]chord.Finger, 0, len(byFinger))
	for f := range byFinger {
		fingers = append(fingers, f)
	}
	sort.Slice(fingers, func(i, j int) bool { return fingers[i] < fingers[j] })

	var out []barreGroup
	for _, f := range fingers {
		strs := byFinger[f]
		if len(strs) < 2 {
			continue
		}
		fret := c.Strings[strs[0]-1].Fret
		same := true
		for _, n := range strs[1:] {
			if c.Strings[n-1].Fret != fret {
				same = false
				break
			}
		}
		if !same {
			continue
		}
		out = append(out, barreGroup{
			finger:  f,
			fret:    fret,
			first:   strs[0],
			last:    strs[len(strs)-1],
			strings: strs,
		})
	}
	return out
}
