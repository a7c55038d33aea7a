package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/chordgen/pkg/assets"
	"github.com/matzehuels/chordgen/pkg/config"
	"github.com/matzehuels/chordgen/pkg/core/chord"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/pipeline"
	"github.com/matzehuels/chordgen/pkg/render"
)

func TestRenderStrings(t *testing.T) {
	cfgPath := writeConfig(t)
	path := filepath.Join(t.TempDir(), "c-major.svg")

	out, err := runCLI(t, cfgPath, "render", "--name", "C", "--strings", "O,1:1,O,2:2,3:3,X", "--output", path)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("output is not SVG: %.80s", data)
	}
	if !strings.Contains(out, "C") || !strings.Contains(out, path) {
		t.Errorf("summary does not name the chord and file:\n%s", out)
	}
}

func TestRenderPresetIntoDir(t *testing.T) {
	cfgPath := writeConfig(t)
	dir := t.TempDir()

	if _, err := runCLI(t, cfgPath, "render", "--preset", "c", "--left", "--output", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "C_lh.svg")); err != nil {
		t.Errorf("left-handed preset not written: %v", err)
	}
}

func TestRenderAll(t *testing.T) {
	presets, err := assets.Presets()
	if err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t)
	dir := filepath.Join(t.TempDir(), "out")

	if _, err := runCLI(t, cfgPath, "render", "--all", "--workers", "4", "--output", dir); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(presets) {
		t.Errorf("wrote %d files, want %d", len(entries), len(presets))
	}
}

func TestRenderErrors(t *testing.T) {
	cfgPath := writeConfig(t)

	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{
			name:  "no source",
			args:  []string{"render"},
			check: func(err error) bool { return cerrors.Is(err, cerrors.ErrCodeInvalidInput) },
		},
		{
			name:  "five strings",
			args:  []string{"render", "--strings", "O,O,O,O,O"},
			check: func(err error) bool { return err != nil },
		},
		{
			name:  "bad finger",
			args:  []string{"render", "--strings", "O,5:1,O,O,O,O"},
			check: func(err error) bool { return cerrors.Is(err, cerrors.ErrCodeInvalidChord) },
		},
		{
			name: "span too wide",
			args: []string{"render", "--strings", "1:1,O,O,O,4:6,X", "--output", filepath.Join(t.TempDir(), "x.svg")},
			check: func(err error) bool {
				var span *cerrors.SpanTooWideError
				return errors.As(err, &span)
			},
		},
		{
			name:  "control character in name",
			args:  []string{"render", "--name", "C\a", "--strings", "O,1:1,O,2:2,3:3,X"},
			check: func(err error) bool { return cerrors.Is(err, cerrors.ErrCodeInvalidChord) },
		},
		{
			name:  "unknown preset",
			args:  []string{"render", "--preset", "H13"},
			check: func(err error) bool { return cerrors.Is(err, cerrors.ErrCodeChordNotFound) },
		},
		{
			name:  "bad format",
			args:  []string{"render", "--preset", "C", "--format", "gif"},
			check: func(err error) bool { return cerrors.Is(err, cerrors.ErrCodeInvalidFormat) },
		},
		{
			name:  "two sources",
			args:  []string{"render", "--preset", "C", "--all"},
			check: func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, cfgPath, tt.args...)
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Render.LeftHanded = true
	cfg.Render.Width = 300
	cfg.Render.Formats = []string{"png"}

	tests := []struct {
		name string
		args []string
		want pipeline.Options
	}{
		{
			name: "config defaults",
			want: pipeline.Options{LeftHanded: true, Width: 300, Formats: []render.Format{render.FormatPNG}},
		},
		{
			name: "flags win",
			args: []string{"--left=false", "--roman", "--width", "600", "--format", "svg, PDF,svg"},
			want: pipeline.Options{RomanFrets: true, Width: 600, Formats: []render.Format{render.FormatSVG, render.FormatPDF}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := (&CLI{}).renderCommand()
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			var opts renderOpts
			opts.left, _ = cmd.Flags().GetBool("left")
			opts.roman, _ = cmd.Flags().GetBool("roman")
			opts.width, _ = cmd.Flags().GetInt("width")
			opts.formats, _ = cmd.Flags().GetString("format")

			got, err := opts.pipelineOptions(cmd.Flags(), cfg)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(pipeline.Options{})); diff != "" {
				t.Errorf("options (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOutputFiles(t *testing.T) {
	result := func(name string) *pipeline.Result {
		return &pipeline.Result{Chord: chord.Chord{Name: name}}
	}

	t.Run("single file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "diagram.png")
		opts := pipeline.Options{Formats: []render.Format{render.FormatPNG}}
		got, err := outputFiles([]*pipeline.Result{result("C")}, opts, path)
		if err != nil {
			t.Fatal(err)
		}
		want := [][]outputFile{{{format: render.FormatPNG, path: path}}}
		if diff := cmp.Diff(want, got, cmp.AllowUnexported(outputFile{})); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("directory with collisions", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "new")
		opts := pipeline.Options{LeftHanded: true, Formats: []render.Format{render.FormatSVG, render.FormatPDF}}
		got, err := outputFiles([]*pipeline.Result{result("F#m7"), result("Fm7"), result("")}, opts, dir)
		if err != nil {
			t.Fatal(err)
		}
		want := [][]outputFile{
			{{render.FormatSVG, filepath.Join(dir, "Fm7_lh.svg")}, {render.FormatPDF, filepath.Join(dir, "Fm7_lh.pdf")}},
			{{render.FormatSVG, filepath.Join(dir, "Fm7_lh-2.svg")}, {render.FormatPDF, filepath.Join(dir, "Fm7_lh-2.pdf")}},
			{{render.FormatSVG, filepath.Join(dir, "chord_lh.svg")}, {render.FormatPDF, filepath.Join(dir, "chord_lh.pdf")}},
		}
		if diff := cmp.Diff(want, got, cmp.AllowUnexported(outputFile{})); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if !isDir(dir) {
			t.Error("output directory was not created")
		}
	})
}
