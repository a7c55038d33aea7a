package chord

import (
	"fmt"
	"strconv"
	"strings"

	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// NumStrings is the number of strings on a diagram.
const NumStrings = 6

// MaxFret is the highest fret accepted on input.
const MaxFret = 24

// Kind tells how a string is played.
type Kind int

const (
	Open Kind = iota
	Muted
	Fretted
)

// String returns the short marker for the kind ("O", "X", or "F").
func (k Kind) String() string {
	switch k {
	case Open:
		return "O"
	case Muted:
		return "X"
	case Fretted:
		return "F"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Finger identifies the fretting finger: "1" to "4", or "T" for the thumb.
type Finger string

// Thumb is the finger value for the fretting-hand thumb.
const Thumb Finger = "T"

// ParseFinger reads a finger value case-insensitively.
func ParseFinger(s string) (Finger, error) {
	f := Finger(strings.ToUpper(strings.TrimSpace(s)))
	switch f {
	case "1", "2", "3", "4", Thumb:
		return f, nil
	}
	return "", cerrors.New(cerrors.ErrCodeInvalidFinger, "invalid finger %q (must be 1-4 or T)", s)
}

// IsThumb reports whether f is the thumb.
func (f Finger) IsThumb() bool { return f == Thumb }

// Entry is how one string is played. The zero value is an open string.
type Entry struct {
	Kind   Kind
	Finger Finger // set only when Kind is Fretted
	Fret   int    // set only when Kind is Fretted, 1-based
}

// OpenString returns an open entry.
func OpenString() Entry { return Entry{Kind: Open} }

// MutedString returns a muted entry.
func MutedString() Entry { return Entry{Kind: Muted} }

// FrettedString returns an entry stopped at fret by finger. The finger is
// stored upper-cased, so "t" becomes Thumb.
func FrettedString(finger Finger, fret int) Entry {
	return Entry{Kind: Fretted, Finger: Finger(strings.ToUpper(strings.TrimSpace(string(finger)))), Fret: fret}
}

// IsOpen reports whether the string rings open.
func (e Entry) IsOpen() bool { return e.Kind == Open }

// IsMuted reports whether the string is not played.
func (e Entry) IsMuted() bool { return e.Kind == Muted }

// IsFretted reports whether the string is stopped by a finger.
func (e Entry) IsFretted() bool { return e.Kind == Fretted }

// String renders the entry in the compact CLI form: "X", "O" or "FINGER:FRET".
func (e Entry) String() string {
	if e.Kind == Fretted {
		return fmt.Sprintf("%s:%d", e.Finger, e.Fret)
	}
	return e.Kind.String()
}

// Validate checks the fret and finger of a fretted entry.
func (e Entry) Validate() error {
	switch e.Kind {
	case Open, Muted:
		return nil
	case Fretted:
		f, err := ParseFinger(string(e.Finger))
		if err != nil {
			return err
		}
		if f != e.Finger {
			return cerrors.New(cerrors.ErrCodeInvalidFinger, "finger %q must be written %q", e.Finger, f)
		}
		if e.Fret < 1 || e.Fret > MaxFret {
			return cerrors.New(cerrors.ErrCodeInvalidFret, "fret %d out of range (1-%d)", e.Fret, MaxFret)
		}
		return nil
	default:
		return cerrors.New(cerrors.ErrCodeInvalidChord, "unknown string kind %d", int(e.Kind))
	}
}

// ParseMarker reads a symbolic open or muted marker: X or M for muted,
// O or 0 for open. Case is ignored.
func ParseMarker(s string) (Entry, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X", "M":
		return MutedString(), true
	case "O", "0":
		return OpenString(), true
	}
	return Entry{}, false
}

// ParseEntry builds an entry from separate fret and finger fields, as they
// arrive from a form or query string. An empty fret means open. A numeric
// fret needs a finger.
func ParseEntry(fret, finger string) (Entry, error) {
	fret = strings.TrimSpace(fret)
	if fret == "" {
		return OpenString(), nil
	}
	if e, ok := ParseMarker(fret); ok {
		return e, nil
	}

	n, err := strconv.Atoi(fret)
	if err != nil {
		return Entry{}, cerrors.New(cerrors.ErrCodeInvalidFret, "invalid fret %q", fret)
	}
	if strings.TrimSpace(finger) == "" {
		return Entry{}, cerrors.New(cerrors.ErrCodeInvalidFinger, "fret %d needs a finger", n)
	}
	f, err := ParseFinger(finger)
	if err != nil {
		return Entry{}, err
	}

	e := FrettedString(f, n)
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ParseCompact reads the compact CLI form: a marker ("X", "M", "O", "0") or
// "FINGER:FRET" such as "1:3" or "t:2".
func ParseCompact(s string) (Entry, error) {
	if e, ok := ParseMarker(s); ok {
		return e, nil
	}
	finger, fret, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Entry{}, cerrors.New(cerrors.ErrCodeInvalidChord, "invalid string %q (want X, O or FINGER:FRET)", s)
	}
	return ParseEntry(fret, finger)
}

// Chord is a named fingering for all six strings, string 1 (highest) first.
type Chord struct {
	Name    string
	Strings [NumStrings]Entry
}

// New builds a chord from up to six entries; missing strings are open.
func New(name string, entries ...Entry) Chord {
	c := Chord{Name: name}
	copy(c.Strings[:], entries)
	return c
}

// ParseStrings reads a comma-separated list of six compact entries, string 1
// first, e.g. "O,1:1,O,2:2,3:3,X" for C major.
func ParseStrings(s string) ([NumStrings]Entry, error) {
	var out [NumStrings]Entry
	parts := strings.Split(s, ",")
	if len(parts) != NumStrings {
		return out, cerrors.New(cerrors.ErrCodeInvalidChord, "expected %d strings, got %d", NumStrings, len(parts))
	}
	for i, p := range parts {
		e, err := ParseCompact(p)
		if err != nil {
			return out, cerrors.Wrap(cerrors.ErrCodeInvalidChord, err, "string %d", i+1)
		}
		out[i] = e
	}
	return out, nil
}

// Validate checks every string entry. The name is free text and is not
// checked here; input boundaries apply errors.ValidateChordName.
func (c Chord) Validate() error {
	for i, e := range c.Strings {
		if err := e.Validate(); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidChord, err, "string %d", i+1)
		}
	}
	return nil
}

// Span returns the lowest and highest fretted frets. ok is false when no
// string is fretted.
func (c Chord) Span() (lo, hi int, ok bool) {
	for _, e := range c.Strings {
		if !e.IsFretted() {
			continue
		}
		if !ok || e.Fret < lo {
			lo = e.Fret
		}
		if !ok || e.Fret > hi {
			hi = e.Fret
		}
		ok = true
	}
	return lo, hi, ok
}

// Compact renders the strings in the form accepted by [ParseStrings].
func (c Chord) Compact() string {
	parts := make([]string, NumStrings)
	for i, e := range c.Strings {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}
