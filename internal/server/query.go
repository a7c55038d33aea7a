package server

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/pipeline"
)

// parseQuery reads a chord and its render switches from query parameters.
// A missing fret is an open string.
func parseQuery(q url.Values) (chord.Chord, pipeline.Options, error) {
	c := chord.Chord{Name: strings.TrimSpace(q.Get("name"))}
	for i := range c.Strings {
		n := strconv.Itoa(i + 1)
		e, err := chord.ParseEntry(q.Get("s"+n), q.Get("f"+n))
		if err != nil {
			return chord.Chord{}, pipeline.Options{}, cerrors.New(cerrors.GetCode(err), "string %s: %s", n, cerrors.UserMessage(err))
		}
		c.Strings[i] = e
	}
	if err := cerrors.ValidateChordName(c.Name); err != nil {
		return chord.Chord{}, pipeline.Options{}, err
	}
	opts := pipeline.Options{
		LeftHanded: flag(q.Get("lh")),
		RomanFrets: flag(q.Get("rf")),
	}
	return c, opts, nil
}

// flag is true only for "1", ignoring surrounding space.
func flag(v string) bool {
	return strings.TrimSpace(v) == "1"
}

// chordQuery is the inverse of parseQuery.
func chordQuery(c chord.Chord, opts pipeline.Options) url.Values {
	q := url.Values{}
	q.Set("name", c.Name)
	for i, e := range c.Strings {
		n := strconv.Itoa(i + 1)
		switch e.Kind {
		case chord.Fretted:
			q.Set("s"+n, strconv.Itoa(e.Fret))
			q.Set("f"+n, string(e.Finger))
		default:
			q.Set("s"+n, e.Kind.String())
		}
	}
	if opts.LeftHanded {
		q.Set("lh", "1")
	}
	if opts.RomanFrets {
		q.Set("rf", "1")
	}
	return q
}

// presetURL links the index page to a preset.
func presetURL(c chord.Chord) template.URL {
	return template.URL("?" + chordQuery(c, pipeline.Options{}).Encode())
}
