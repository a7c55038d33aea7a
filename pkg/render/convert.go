package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// Format is an output format for rendered diagrams.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// DefaultWidth is the raster width in pixels when none is given.
const DefaultWidth = 209

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF}

// ParseFormat reads a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", cerrors.New(cerrors.ErrCodeInvalidFormat, "unsupported format %q (want svg, png or pdf)", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/svg+xml"
	}
}

// Converter turns SVG bytes into another format.
type Converter interface {
	// Name identifies the converter in logs and cache keys.
	Name() string
	// Convert renders svg as format. Width applies to raster output; zero
	// means DefaultWidth.
	Convert(ctx context.Context, svg []byte, format Format, width int) ([]byte, error)
}

// NewConverter returns the converter called name: "rsvg", "inkscape", or
// "auto" (or empty) for the first tool found on PATH, preferring rsvg.
func NewConverter(name string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rsvg", "rsvg-convert":
		return &RSVG{}, nil
	case "inkscape":
		return &Inkscape{}, nil
	case "", "auto":
		if _, err := exec.LookPath(rsvgBinary); err == nil {
			return &RSVG{}, nil
		}
		if _, err := exec.LookPath(inkscapeBinary); err == nil {
			return &Inkscape{}, nil
		}
		return nil, cerrors.New(cerrors.ErrCodeConverter, "raster export requires librsvg or inkscape. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown converter %q (want auto, rsvg or inkscape)", name)
	}
}

// Convert runs c unless the format is SVG, which passes through unchanged.
func Convert(ctx context.Context, c Converter, svg []byte, format Format, width int) ([]byte, error) {
	if format == FormatSVG || format == "" {
		return svg, nil
	}
	if c == nil {
		return nil, cerrors.New(cerrors.ErrCodeConverter, "no converter configured for %s output", format)
	}
	return c.Convert(ctx, svg, format, width)
}

func effectiveWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	return width
}

// run executes a tool with svg on stdin and returns stdout.
func run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeConverter, err, "%s: %s", name, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func unsupported(tool string, format Format) error {
	return cerrors.New(cerrors.ErrCodeUnsupported, "%s cannot produce %s", tool, format)
}
