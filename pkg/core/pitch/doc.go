// Package pitch names the notes on a chord diagram.
//
// # Overview
//
// A diagram labels every fretted string with the note it sounds. Whether an
// accidental is written as a sharp or a flat depends on the chord's key,
// which is inferred from the chord name:
//
//	key, ok := pitch.ResolveKey("Bbmaj7") // {Root: "B♭", Mode: major}, true
//	flats := ok && key.Flats()             // true
//	pitch.NoteAt("A", 1, flats)            // "B♭"
//
// # Key Parsing
//
// [ResolveKey] reads a root letter (A-G, any case), an optional accidental
// (# or ♯, b or ♭) and a remainder. The mode is minor when the remainder
// starts with "m" but not "ma" or "mj", so "Am7" is minor while "Amaj7" and
// "AM7" are major. Names that do not parse are not an error: callers fall
// back to sharp spelling.
//
// # Spelling Policy
//
// [UsesFlats] is true for F and for the five flat roots B♭, D♭, E♭, G♭ and
// A♭. Every other root, including an unknown one, uses sharps.
//
// # Scale Degrees
//
// [ScaleDegree] labels a sounded note relative to the key's root, using
// separate tables for major and minor keys.
package pitch
