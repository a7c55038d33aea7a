package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the longest chord name accepted from user input.
const MaxNameLength = 64

// ValidateChordName validates a chord display name for safety.
//
// The name is free text (it is written into the diagram title), so the rules
// only reject what cannot be displayed or safely echoed back:
//   - Maximum length of 64 characters
//   - No control characters
//   - Valid UTF-8
//
// An empty name is allowed; the diagram simply has no title.
func ValidateChordName(name string) error {
	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidChord, "chord name is not valid UTF-8")
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return New(ErrCodeInvalidChord, "chord name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidChord, "chord name contains invalid control characters")
		}
	}

	return nil
}

// nonWordRegex matches runs of characters that are not letters, digits or
// underscore.
var nonWordRegex = regexp.MustCompile(`[\W]+`)

// SafeFilename derives a download basename from a chord name.
// Everything that is not an ASCII word character is dropped, so "F#m7/C"
// becomes "Fm7C". An empty result falls back to "chord".
func SafeFilename(name string) string {
	base := nonWordRegex.ReplaceAllString(name, "")
	if base == "" {
		return "chord"
	}
	return base
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal when a file name is derived from user input.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
