package chord

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// Serialized form, shared by YAML and JSON:
//
//	name: C
//	strings: [O, [1, 1], O, [2, 2], [3, 3], X]
//
// Open and muted strings are a single marker. Fretted strings are a
// [finger, fret] pair. The long form written by older tools, where every
// string is a pair and open/muted strings carry the marker in the fret slot
// (["", "X"]), is accepted on input.

type record struct {
	Name    string  `yaml:"name" json:"name"`
	Strings []Entry `yaml:"strings" json:"strings"`
}

// MarshalYAML writes the short form.
func (c Chord) MarshalYAML() (any, error) {
	return record{Name: c.Name, Strings: c.Strings[:]}, nil
}

// UnmarshalYAML reads a chord record and requires exactly six strings.
func (c *Chord) UnmarshalYAML(node *yaml.Node) error {
	var r record
	if err := node.Decode(&r); err != nil {
		return err
	}
	return c.fromRecord(r)
}

// MarshalJSON writes the short form.
func (c Chord) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{Name: c.Name, Strings: c.Strings[:]})
}

// UnmarshalJSON reads a chord record and requires exactly six strings.
func (c *Chord) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	return c.fromRecord(r)
}

func (c *Chord) fromRecord(r record) error {
	if len(r.Strings) != NumStrings {
		return cerrors.New(cerrors.ErrCodeInvalidChord, "chord %q: expected %d strings, got %d", r.Name, NumStrings, len(r.Strings))
	}
	c.Name = r.Name
	copy(c.Strings[:], r.Strings)
	return nil
}

// MarshalYAML writes a marker scalar or a [finger, fret] pair.
func (e Entry) MarshalYAML() (any, error) {
	if e.Kind == Fretted {
		return []any{string(e.Finger), e.Fret}, nil
	}
	return e.Kind.String(), nil
}

// UnmarshalYAML accepts a marker scalar or a two-element sequence.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return e.fromMarker(node.Value)
	case yaml.SequenceNode:
		if len(node.Content) < 2 {
			return fmt.Errorf("line %d: fretted string needs [finger, fret]", node.Line)
		}
		return e.fromPair(node.Content[0].Value, node.Content[1].Value)
	default:
		return fmt.Errorf("line %d: unexpected string entry", node.Line)
	}
}

// MarshalJSON writes a marker string or a [finger, fret] pair.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Kind == Fretted {
		return json.Marshal([]any{string(e.Finger), e.Fret})
	}
	return json.Marshal(e.Kind.String())
}

// UnmarshalJSON accepts a marker (string or number 0) or a two-element array
// whose items may be strings or numbers.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) < 2 {
			return fmt.Errorf("fretted string needs [finger, fret]")
		}
		return e.fromPair(jsonScalar(pair[0]), jsonScalar(pair[1]))
	}
	return e.fromMarker(jsonScalar(data))
}

func (e *Entry) fromMarker(s string) error {
	m, ok := ParseMarker(s)
	if !ok {
		return cerrors.New(cerrors.ErrCodeInvalidChord, "invalid string marker %q (want X, M, O or 0)", s)
	}
	*e = m
	return nil
}

func (e *Entry) fromPair(finger, fret string) error {
	if m, ok := ParseMarker(fret); ok && finger == "" {
		*e = m
		return nil
	}
	parsed, err := ParseEntry(fret, finger)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// jsonScalar returns a JSON string's contents or a number's literal text.
func jsonScalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return string(raw)
}
