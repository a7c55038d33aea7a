package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// ReadChords decodes a YAML list of chord records from r.
//
// Each record has a name and exactly six strings, string 1 first:
//
//	- name: C
//	  strings: [O, [1, 1], O, [2, 2], [3, 3], X]
//
// Open and muted strings are markers (O, 0, X, M; any case). Fretted strings
// are [finger, fret] pairs. The long form, where open and muted strings are
// written as ["", "X"], is accepted too.
//
// Every chord is validated. Errors name the record's position and chord name.
// An empty document yields an empty slice. ReadChords does not close r.
func ReadChords(r io.Reader) ([]chord.Chord, error) {
	var chords []chord.Chord
	if err := yaml.NewDecoder(r).Decode(&chords); err != nil {
		if err == io.EOF {
			return []chord.Chord{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return validated(chords)
}

// ReadChordsJSON decodes a JSON array of chord records from r. The record
// shape matches [ReadChords].
func ReadChordsJSON(r io.Reader) ([]chord.Chord, error) {
	var chords []chord.Chord
	if err := json.NewDecoder(r).Decode(&chords); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return validated(chords)
}

// ImportChords reads a chord file at path. Files ending in .json are read as
// JSON and everything else as YAML.
func ImportChords(path string) ([]chord.Chord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadChordsJSON(f)
	}
	return ReadChords(f)
}

func validated(chords []chord.Chord) ([]chord.Chord, error) {
	if chords == nil {
		chords = []chord.Chord{}
	}
	for i, c := range chords {
		if err := cerrors.ValidateChordName(c.Name); err != nil {
			return nil, fmt.Errorf("chord %d: %w", i+1, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("chord %d (%q): %w", i+1, c.Name, err)
		}
	}
	return chords, nil
}
