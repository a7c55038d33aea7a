package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chordgen/pkg/cache"
	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/diagram"
	"github.com/matzehuels/chordgen/pkg/core/template"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/observability"
	"github.com/matzehuels/chordgen/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner keeps no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Templates *template.Set
	Converter render.Converter
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger

	hashes sync.Map // *template.Template -> content hash
}

// NewRunner creates a runner over the given templates.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil converter limits the runner to SVG output.
func NewRunner(templates *template.Set, conv render.Converter, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Templates: templates,
		Converter: conv,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// Execute runs layout, diagram and conversion for one chord.
//
// Layout errors come back unwrapped so callers can match
// *errors.SpanTooWideError directly. The SVG is always part of the
// artifacts, whether or not it was requested.
func (r *Runner) Execute(ctx context.Context, c chord.Chord, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if r.Templates == nil {
		return nil, cerrors.New(cerrors.ErrCodeInternal, "runner has no templates")
	}
	tmpl := r.Templates.For(opts.LeftHanded)

	result := &Result{
		Chord:     c,
		Artifacts: make(map[render.Format][]byte, len(opts.Formats)+1),
		CacheInfo: CacheInfo{ConvertHits: make(map[render.Format]bool, len(opts.Formats))},
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	layout, err := diagram.Plan(c, tmpl, opts.Diagram())
	if err != nil {
		return nil, err
	}
	if len(layout.Unshaped) > 0 {
		r.Logger.Warn("template has no barre shape, drawing dots", "name", c.Name, "spans", layout.Unshaped)
	}
	result.Layout = layout
	result.Stats.Marks = len(layout.Marks)
	result.Stats.LayoutTime = time.Since(layoutStart)

	// Stage 2: Diagram
	diagramStart := time.Now()
	svg, hit, err := r.diagramWithCacheInfo(ctx, tmpl, c, layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts[render.FormatSVG] = svg
	result.CacheInfo.DiagramHit = hit
	result.Stats.DiagramTime = time.Since(diagramStart)

	// Stage 3: Convert
	convertStart := time.Now()
	for _, format := range opts.Formats {
		if format == render.FormatSVG {
			continue
		}
		data, hit, err := r.ConvertWithCacheInfo(ctx, svg, format, opts)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", format, err)
		}
		result.Artifacts[format] = data
		result.CacheInfo.ConvertHits[format] = hit
	}
	result.Stats.ConvertTime = time.Since(convertStart)

	r.Logger.Debug("rendered chord",
		"name", c.Name,
		"marks", result.Stats.Marks,
		"formats", opts.Formats,
		"cached", result.CacheInfo.AllHits(),
		"duration", time.Since(layoutStart))

	return result, nil
}

// diagramWithCacheInfo writes layout into a copy of tmpl and returns the SVG
// bytes, reading and writing the diagram cache.
func (r *Runner) diagramWithCacheInfo(ctx context.Context, tmpl *template.Template, c chord.Chord, layout *diagram.Layout, opts Options) ([]byte, bool, error) {
	key := r.Keyer.DiagramKey(cache.HashJSON(c), cache.DiagramKeyOpts{
		LeftHanded:   opts.LeftHanded,
		RomanFrets:   opts.RomanFrets,
		TemplateHash: r.templateHash(tmpl),
	})

	if data, ok := r.cacheGet(ctx, key, "diagram", opts.Refresh); ok {
		return data, true, nil
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, c.Name)
	start := time.Now()

	doc := tmpl.Document()
	err := diagram.Apply(doc, layout, opts.Diagram())
	hooks.OnRenderComplete(ctx, c.Name, time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %q: %w", c.Name, err)
	}

	svg := doc.Bytes()
	r.cacheSet(ctx, key, "diagram", svg, cache.TTLDiagram)
	return svg, false, nil
}

// ConvertWithCacheInfo converts svg to format through the raster cache and
// reports whether the result came from the cache. SVG passes through.
func (r *Runner) ConvertWithCacheInfo(ctx context.Context, svg []byte, format render.Format, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if format == render.FormatSVG {
		return svg, false, nil
	}
	if r.Converter == nil {
		return nil, false, cerrors.New(cerrors.ErrCodeConverter, "no converter configured for %s output", format)
	}
	name := r.Converter.Name()

	key := r.Keyer.RasterKey(cache.Hash(svg), cache.RasterKeyOpts{
		Format:    string(format),
		Width:     opts.Width,
		Converter: name,
	})
	if data, ok := r.cacheGet(ctx, key, "raster", opts.Refresh); ok {
		return data, true, nil
	}

	hooks := observability.Render()
	hooks.OnConvertStart(ctx, string(format), name)
	start := time.Now()

	data, err := render.Convert(ctx, r.Converter, svg, format, opts.Width)
	hooks.OnConvertComplete(ctx, string(format), name, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Debug("converted diagram", "format", format, "converter", name, "bytes", len(data))
	r.cacheSet(ctx, key, "raster", data, cache.TTLRaster)
	return data, false, nil
}

// =============================================================================
// Cache helpers
// =============================================================================

// cacheGet treats read failures as misses so a broken cache never blocks a
// render.
func (r *Runner) cacheGet(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) templateHash(t *template.Template) string {
	if h, ok := r.hashes.Load(t); ok {
		return h.(string)
	}
	h := cache.Hash(t.Document().Bytes())
	r.hashes.Store(t, h)
	return h
}
