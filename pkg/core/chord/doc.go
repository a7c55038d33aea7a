// Package chord defines the chord fingering model.
//
// A [Chord] has a display name and exactly six string entries, string 1 (the
// highest, E) first. Each [Entry] is one of three kinds: [Open], [Muted], or
// [Fretted] with a [Finger] and a 1-based fret. The kind is decided once,
// when the data is read, so the layout engine never has to inspect loosely
// typed values.
//
// # Input Forms
//
// Entries arrive from three places, and all of them share the same markers
// (case-insensitive): X or M for muted, O or 0 for open.
//
//   - Query strings and forms: [ParseEntry] takes separate fret and finger fields.
//   - The command line: [ParseStrings] takes "O,1:1,O,2:2,3:3,X".
//   - YAML and JSON: open and muted strings are a marker, fretted strings are
//     a [finger, fret] pair. See codec.go.
package chord
