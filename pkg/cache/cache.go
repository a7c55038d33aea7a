package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts. Diagrams depend only on the chord, the options
// and the template, so they can live for a long time.
const (
	TTLDiagram = 30 * 24 * time.Hour
	TTLRaster  = 30 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. ok is false on a miss; a miss is not an
	// error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Keyer builds cache keys. Keys include every input that changes the cached
// bytes.
type Keyer interface {
	// DiagramKey is the key of a rendered SVG diagram.
	DiagramKey(chordHash string, opts DiagramKeyOpts) string
	// RasterKey is the key of an SVG converted to another format.
	RasterKey(svgHash string, opts RasterKeyOpts) string
}

// DiagramKeyOpts are the render inputs besides the chord itself.
type DiagramKeyOpts struct {
	LeftHanded   bool   `json:"lh"`
	RomanFrets   bool   `json:"rf"`
	TemplateHash string `json:"tmpl,omitempty"`
}

// RasterKeyOpts are the conversion inputs besides the SVG.
type RasterKeyOpts struct {
	Format    string `json:"format"`
	Width     int    `json:"width,omitempty"`
	Converter string `json:"converter,omitempty"`
}

// DefaultKeyer builds unscoped keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey implements Keyer.
func (DefaultKeyer) DiagramKey(chordHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", chordHash, opts)
}

// RasterKey implements Keyer.
func (DefaultKeyer) RasterKey(svgHash string, opts RasterKeyOpts) string {
	return hashKey("raster", svgHash, opts)
}
