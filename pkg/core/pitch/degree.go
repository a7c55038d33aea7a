package pitch

// Scale degree labels by semitone distance from the root.
var degrees = map[Mode][12]string{
	Major: {"1", "♭2", "2", "♭3", "3", "4", "♭5", "5", "♭6", "6", "♭7", "7"},
	Minor: {"1", "♭2", "2", "3", "♭4", "4", "♭5", "5", "6", "♭7", "7", "♯7"},
}

// RootIndex returns the pitch-class index of a key root.
func RootIndex(root string) (int, bool) {
	return Index(root)
}

// ScaleDegree labels note relative to the key, e.g. "♭3" for C in A major.
// It returns "" when the key is incomplete or the note is unknown.
func ScaleDegree(k Key, note string) string {
	table, ok := degrees[k.Mode]
	if !ok {
		return ""
	}
	root, ok := RootIndex(k.Root)
	if !ok {
		return ""
	}
	n, ok := Index(note)
	if !ok {
		return ""
	}
	return table[mod12(n-root)]
}
