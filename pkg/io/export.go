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
)

// WriteChords encodes chords as a YAML list in short form.
// The output can be re-read with [ReadChords].
func WriteChords(w io.Writer, chords []chord.Chord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(chords); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WriteChordsJSON encodes chords as an indented JSON array.
func WriteChordsJSON(w io.Writer, chords []chord.Chord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chords); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportChords writes chords to path, as JSON when path ends in .json and as
// YAML otherwise.
func ExportChords(path string, chords []chord.Chord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return WriteChordsJSON(f, chords)
	}
	return WriteChords(f, chords)
}
