// Package io reads and writes chord collections.
//
// # Format
//
// Chord files are YAML (or JSON) lists of records, each with a display name
// and six strings listed from string 1 (high E) to string 6 (low E):
//
//	- name: C
//	  strings: [O, [1, 1], O, [2, 2], [3, 3], X]
//	- name: F
//	  strings: [[1, 1], [1, 1], [2, 2], [4, 3], [3, 3], [1, 1]]
//
// A string is a marker or a [finger, fret] pair:
//
//   - O or 0: open
//   - X or M: muted
//   - [finger, fret]: fretted, finger 1-4 or T (thumb), fret 1-24
//
// Markers are case-insensitive. The older long form, which writes every
// string as a pair and keeps the marker in the fret slot (["", "X"]), is
// accepted on input. Output is always the short form.
//
// Decoding is the only place loosely typed values are interpreted: every
// chord leaving this package holds a closed [chord.Entry] per string.
package io
