package render

import "context"

const rsvgBinary = "rsvg-convert"

// RSVG converts with rsvg-convert from librsvg.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	// Binary overrides the executable; empty means rsvg-convert on PATH.
	Binary string
}

// Name implements Converter.
func (r *RSVG) Name() string { return "rsvg" }

// Convert implements Converter. SVG is streamed through stdin and stdout.
func (r *RSVG) Convert(ctx context.Context, svg []byte, format Format, width int) ([]byte, error) {
	args, err := rsvgArgs(format, width)
	if err != nil {
		return nil, err
	}
	bin := r.Binary
	if bin == "" {
		bin = rsvgBinary
	}
	return run(ctx, svg, bin, args...)
}

func rsvgArgs(format Format, width int) ([]string, error) {
	switch format {
	case FormatPNG:
		return []string{"-f", "png", "-a", "-w", itoa(effectiveWidth(width))}, nil
	case FormatPDF:
		return []string{"-f", "pdf"}, nil
	default:
		return nil, unsupported(rsvgBinary, format)
	}
}
