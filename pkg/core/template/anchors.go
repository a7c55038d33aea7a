package template

import (
	"strconv"
	"strings"
)

// Anchor ids shared by every chord template.
const (
	TitleID = "title"
	ThumbID = "thumb"
)

// StringID returns the anchor of string n (1-6).
func StringID(n int) string { return "string" + strconv.Itoa(n) }

// FretID returns the anchor of fret row n (1-4), which is also its label.
func FretID(n int) string { return "fret" + strconv.Itoa(n) }

// OpenID returns the open-string marker of string n.
func OpenID(n int) string { return "open" + strconv.Itoa(n) }

// MuteID returns the muted-string marker of string n.
func MuteID(n int) string { return "mute" + strconv.Itoa(n) }

// NoteID returns the note label of string n.
func NoteID(n int) string { return "note" + strconv.Itoa(n) }

// FingerID returns the dot prototype for finger ("1"-"4"), or the thumb
// prototype for "T".
func FingerID(finger string) string {
	if strings.EqualFold(finger, "T") {
		return ThumbID
	}
	return "finger" + finger
}

// BarreID returns the barre prototype spanning span strings.
func BarreID(span int) string { return "barre" + strconv.Itoa(span) }

// IsPrototype reports whether id names a mark prototype (a finger dot, the
// thumb, or a barre) rather than a placed mark or a fixed element.
func IsPrototype(id string) bool {
	if id == ThumbID {
		return true
	}
	for _, prefix := range []string{"finger", "barre"} {
		if rest, ok := strings.CutPrefix(id, prefix); ok {
			if _, err := strconv.Atoi(rest); err == nil {
				return true
			}
		}
	}
	return false
}

// PrunePrototypes removes every mark prototype still in the document and
// returns how many were removed.
func (d *Document) PrunePrototypes() int {
	var ids []string
	for id := range d.index {
		if IsPrototype(id) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		d.RemoveID(id)
	}
	return len(ids)
}
