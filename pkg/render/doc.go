// Package render exports chord diagrams to raster and print formats.
//
// Diagrams are SVG documents. PNG and PDF are produced by an external tool
// behind the [Converter] interface:
//
//   - [RSVG] runs rsvg-convert from librsvg, streaming through stdin/stdout.
//   - [Inkscape] runs inkscape in a temporary directory. Releases before 1.0
//     use the old -z/-e flags; newer ones use --export-type and -o.
//
// [NewConverter] picks one by name, or the first one installed for "auto".
// [Convert] passes SVG through unchanged so callers can treat every format
// alike:
//
//	conv, err := render.NewConverter("auto")
//	png, err := render.Convert(ctx, conv, svg, render.FormatPNG, render.DefaultWidth)
package render
