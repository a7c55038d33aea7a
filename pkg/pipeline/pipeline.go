// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP server.
//
// A run takes one chord through three stages:
//
//  1. Layout: compute fret window, labels, notes and marks (diagram.Plan)
//  2. Diagram: write the layout into a copy of the SVG template
//  3. Convert: turn the SVG into each requested format (PNG, PDF)
//
// The diagram and conversion stages are cached. Layout is cheap and always
// recomputed, so every Result carries it.
//
// # Usage
//
//	set, _ := assets.Templates()
//	runner := pipeline.NewRunner(set, converter, fileCache, nil, logger)
//	result, err := runner.Execute(ctx, c, pipeline.Options{
//	    LeftHanded: true,
//	    Formats:    []render.Format{render.FormatPNG},
//	})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts[render.FormatPNG]
//
// Many chords render in parallel with RenderAll. The templates are shared
// read-only between workers; every render works on its own document.
package pipeline

import (
	"time"

	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/diagram"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/render"
)

// =============================================================================
// Defaults
// =============================================================================

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatSVG

// MaxWidth bounds the raster width accepted from callers.
const MaxWidth = 4096

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	LeftHanded bool `json:"left_handed,omitempty"`
	RomanFrets bool `json:"roman_frets,omitempty"`

	Formats []render.Format `json:"formats,omitempty"`
	Width   int             `json:"width,omitempty"`

	// Refresh skips cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// ValidateAndSetDefaults normalizes formats, drops duplicates and fills in
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width < 0 || o.Width > MaxWidth {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "width must be between 1 and %d, got %d", MaxWidth, o.Width)
	}
	if o.Width == 0 {
		o.Width = render.DefaultWidth
	}
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{DefaultFormat}
	}

	seen := make(map[render.Format]bool, len(o.Formats))
	formats := make([]render.Format, 0, len(o.Formats))
	for _, f := range o.Formats {
		parsed, err := render.ParseFormat(string(f))
		if err != nil {
			return err
		}
		if seen[parsed] {
			continue
		}
		seen[parsed] = true
		formats = append(formats, parsed)
	}
	o.Formats = formats
	o.validated = true
	return nil
}

// Diagram returns the engine options.
func (o Options) Diagram() diagram.Options {
	return diagram.Options{LeftHanded: o.LeftHanded, RomanFrets: o.RomanFrets}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chord is the chord that was rendered.
	Chord chord.Chord

	// Layout is the planned diagram.
	Layout *diagram.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// SVG returns the diagram, which every run produces.
func (r *Result) SVG() []byte { return r.Artifacts[render.FormatSVG] }

// Stats contains pipeline execution statistics.
type Stats struct {
	Marks       int
	LayoutTime  time.Duration
	DiagramTime time.Duration
	ConvertTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DiagramHit  bool
	ConvertHits map[render.Format]bool
}

// AllHits reports whether nothing had to be rendered.
func (c CacheInfo) AllHits() bool {
	if !c.DiagramHit {
		return false
	}
	for _, hit := range c.ConvertHits {
		if !hit {
			return false
		}
	}
	return true
}
