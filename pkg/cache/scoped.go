package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one cache backend without seeing each other's entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "chordgen:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// DiagramKey generates a prefixed diagram key.
func (k *ScopedKeyer) DiagramKey(chordHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(chordHash, opts)
}

// RasterKey generates a prefixed raster key.
func (k *ScopedKeyer) RasterKey(svgHash string, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(svgHash, opts)
}
