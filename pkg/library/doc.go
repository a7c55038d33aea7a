// Package library stores named chord fingerings.
//
// The [Store] interface has three backends:
//   - memory: in-process storage, seeded with the bundled presets
//   - file: one JSON file per chord, for the CLI
//   - mongo: a MongoDB collection, for servers sharing one library
//
// Records get a random UUID when they are stored. Names are not unique; a
// library may hold several voicings called "A".
//
// # Usage
//
//	presets, _ := assets.Presets()
//	store := library.NewMemoryStore(presets...)
//
//	rec, err := store.Put(ctx, chord.New("Dsus2", ...))
//	matches, err := store.FindByName(ctx, "dsus2")
//
// [GroupByInitial] groups chords by the first letter of their name for
// index pages and pickers.
package library
