package pitch

import (
	"regexp"
	"strings"
)

// Mode is the tonality inferred from a chord name.
type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

// Sharp and flat signs as displayed on diagrams.
const (
	Sharp = "♯"
	Flat  = "♭"
)

// Notes lists the 12 pitch classes in sharp spelling, starting at A.
var Notes = [12]string{"A", "A♯", "B", "C", "C♯", "D", "D♯", "E", "F", "F♯", "G", "G♯"}

// flats holds the flat spelling for the five positions that have one.
var flats = map[int]string{
	1:  "B♭",
	4:  "D♭",
	6:  "E♭",
	9:  "G♭",
	11: "A♭",
}

// Tuning is the open pitch of each string, string 1 (highest) first.
var Tuning = [6]string{"E", "B", "G", "D", "A", "E"}

// Key is the tonal root and mode parsed from a chord name.
type Key struct {
	Root string // normalized root, e.g. "B♭"
	Mode Mode
}

// Flats reports whether notes in this key are spelled with flats.
func (k Key) Flats() bool { return UsesFlats(k.Root) }

var (
	whitespace = regexp.MustCompile(`\s+`)
	keyPattern = regexp.MustCompile(`^([A-Ga-g])([#♯b♭])?(.*)$`)
)

// ResolveKey derives the root and mode from a chord name such as "Am7",
// "Bb" or "C#maj7". Whitespace anywhere in the name is ignored.
//
// It never fails hard: an empty or unrecognized name returns the zero Key and
// false, which callers treat as "use sharps".
func ResolveKey(name string) (Key, bool) {
	name = whitespace.ReplaceAllString(name, "")
	m := keyPattern.FindStringSubmatch(name)
	if m == nil {
		return Key{}, false
	}

	root := strings.ToUpper(m[1])
	switch m[2] {
	case "#", Sharp:
		root += Sharp
	case "b", Flat:
		root += Flat
	}

	mode := Major
	rest := m[3]
	if strings.HasPrefix(rest, "m") && !strings.HasPrefix(rest, "ma") && !strings.HasPrefix(rest, "mj") {
		mode = Minor
	}
	return Key{Root: root, Mode: mode}, true
}

// UsesFlats reports whether a root calls for flat spellings: F, or one of
// the five flat roots B♭, D♭, E♭, G♭, A♭.
func UsesFlats(root string) bool {
	if root == "F" {
		return true
	}
	for _, f := range flats {
		if root == f {
			return true
		}
	}
	return false
}

// Index returns the position of a pitch class in [Notes]. Both sharp and flat
// spellings are accepted; ASCII '#' and 'b' are read as ♯ and ♭.
func Index(note string) (int, bool) {
	note = normalize(note)
	if note == "" {
		return 0, false
	}
	letter := note[:1]
	base := -1
	for i, n := range Notes {
		if n == letter {
			base = i
			break
		}
	}
	if base < 0 {
		return 0, false
	}
	switch accidental := note[1:]; accidental {
	case "":
		return base, true
	case Sharp:
		return mod12(base + 1), true
	case Flat:
		return mod12(base - 1), true
	default:
		return 0, false
	}
}

// Name spells the pitch class at index i, using flats when requested and a
// flat spelling exists.
func Name(i int, useFlats bool) string {
	i = mod12(i)
	if useFlats {
		if f, ok := flats[i]; ok {
			return f
		}
	}
	return Notes[i]
}

// NoteAt returns the note sounded by a string tuned to open when stopped at
// fret. An unknown open pitch yields "".
func NoteAt(open string, fret int, useFlats bool) string {
	i, ok := Index(open)
	if !ok {
		return ""
	}
	return Name(i+fret, useFlats)
}

// StringNote returns the note sounded by string n (1-6) of the standard
// tuning at fret; fret 0 is the open string.
func StringNote(n, fret int, useFlats bool) string {
	if n < 1 || n > len(Tuning) {
		return ""
	}
	return NoteAt(Tuning[n-1], fret, useFlats)
}

func normalize(note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return ""
	}
	letter := strings.ToUpper(note[:1])
	rest := note[1:]
	switch rest {
	case "#":
		rest = Sharp
	case "b":
		rest = Flat
	}
	return letter + rest
}

func mod12(i int) int {
	i %= 12
	if i < 0 {
		i += 12
	}
	return i
}
