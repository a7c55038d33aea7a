// Package assets embeds the default chord templates and presets.
package assets

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/template"
	pkgio "github.com/matzehuels/chordgen/pkg/io"
)

var (
	//go:embed chord_base.svg
	RightHandedSVG []byte

	//go:embed chord_base_lh.svg
	LeftHandedSVG []byte

	//go:embed chords.yaml
	PresetsYAML []byte
)

var (
	templatesOnce sync.Once
	templates     *template.Set
	templatesErr  error
)

// Templates returns the embedded right- and left-handed templates. They are
// parsed once and shared.
func Templates() (*template.Set, error) {
	templatesOnce.Do(func() {
		templates, templatesErr = template.ParseSet(RightHandedSVG, LeftHandedSVG)
	})
	return templates, templatesErr
}

// Presets returns the embedded preset chords in file order.
func Presets() ([]chord.Chord, error) {
	return pkgio.ReadChords(bytes.NewReader(PresetsYAML))
}
