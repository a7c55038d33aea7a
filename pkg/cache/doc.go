// Package cache stores rendered chord diagrams.
//
// Rendering is cached in two stages. The SVG for a chord is stored under a
// [Keyer.DiagramKey] built from a hash of the chord and the render options.
// Converted output is stored under a [Keyer.RasterKey] built from a hash of
// that SVG and the conversion settings, so a PNG is only regenerated when its
// SVG changes.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entry files under the user's cache directory (CLI).
//   - [RedisCache]: shared entries with native expiry (server).
//   - [NullCache]: stores nothing (--no-cache).
//
// [ScopedKeyer] prefixes keys so deployments can share a backend.
package cache
