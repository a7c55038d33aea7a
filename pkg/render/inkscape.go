package render

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

const inkscapeBinary = "inkscape"

var inkscapeVersionRe = regexp.MustCompile(`Inkscape\s+(\d+)\.(\d+)`)

// Inkscape converts with the inkscape command line. Versions before 1.0 take
// different export flags; the installed version is probed once.
type Inkscape struct {
	// Binary overrides the executable; empty means inkscape on PATH.
	Binary string

	once  sync.Once
	major int
	err   error
}

// Name implements Converter.
func (i *Inkscape) Name() string { return "inkscape" }

// Convert implements Converter. Inkscape reads and writes files, so the
// conversion runs in a temporary directory.
func (i *Inkscape) Convert(ctx context.Context, svg []byte, format Format, width int) ([]byte, error) {
	if format != FormatPNG && format != FormatPDF {
		return nil, unsupported(inkscapeBinary, format)
	}
	major, err := i.version(ctx)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "chordgen-inkscape-")
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeConverter, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "diagram.svg")
	out := filepath.Join(dir, "diagram"+format.Ext())
	if err := os.WriteFile(in, svg, 0o600); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeConverter, err, "write temp svg")
	}
	if _, err := run(ctx, nil, i.binary(), inkscapeArgs(major, format, width, in, out)...); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeConverter, err, "inkscape produced no output")
	}
	return data, nil
}

func (i *Inkscape) binary() string {
	if i.Binary != "" {
		return i.Binary
	}
	return inkscapeBinary
}

func (i *Inkscape) version(ctx context.Context) (int, error) {
	i.once.Do(func() {
		out, err := run(ctx, nil, i.binary(), "--version")
		if err != nil {
			i.err = err
			return
		}
		i.major, _, i.err = parseInkscapeVersion(string(out))
	})
	return i.major, i.err
}

func parseInkscapeVersion(out string) (major, minor int, err error) {
	m := inkscapeVersionRe.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, cerrors.New(cerrors.ErrCodeConverter, "unrecognized inkscape version output %q", out)
	}
	major, _ = strconv.Atoi(m[1])
	minor, _ = strconv.Atoi(m[2])
	return major, minor, nil
}

func inkscapeArgs(major int, format Format, width int, in, out string) []string {
	var args []string
	if major < 1 {
		args = []string{"-z"}
		if format == FormatPDF {
			args = append(args, "-A", out)
		} else {
			args = append(args, "-e", out, "-w", itoa(effectiveWidth(width)))
		}
	} else {
		args = []string{"--export-type=" + string(format), "-o", out}
		if format == FormatPNG {
			args = append(args, "-w", itoa(effectiveWidth(width)))
		}
	}
	return append(args, in)
}
