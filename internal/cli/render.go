package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/chordgen/pkg/config"
	"github.com/matzehuels/chordgen/pkg/core/chord"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	pkgio "github.com/matzehuels/chordgen/pkg/io"
	"github.com/matzehuels/chordgen/pkg/library"
	"github.com/matzehuels/chordgen/pkg/pipeline"
	"github.com/matzehuels/chordgen/pkg/render"
)

// renderOpts holds the flags of the render command. Switches that are not
// set on the command line fall back to the [render] config section.
type renderOpts struct {
	name    string
	strings string
	preset  string
	file    string
	all     bool

	left    bool
	roman   bool
	formats string
	width   int
	workers int
	output  string

	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render chord diagrams to SVG, PNG or PDF files",
		Long: `Render draws one chord from --strings or --preset, or many from --all or --file.

Strings are listed from string 1 (high E) to string 6 (low E). Each is X for
muted, O for open, or FINGER:FRET where FINGER is 1-4 or T for the thumb.`,
		Example: `  chordgen render --name C --strings "O,1:1,O,2:2,3:3,X"
  chordgen render --preset Am --format png --width 418 --left
  chordgen render --all --format svg,pdf --output diagrams/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "chord name shown on the diagram")
	cmd.Flags().StringVarP(&opts.strings, "strings", "s", "", `six comma-separated strings, e.g. "O,1:1,O,2:2,3:3,X"`)
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "render a library chord by name")
	cmd.Flags().StringVar(&opts.file, "file", "", "render every chord in a YAML file")
	cmd.Flags().BoolVar(&opts.all, "all", false, "render every library chord")
	cmd.Flags().BoolVarP(&opts.left, "left", "l", false, "draw a left-handed diagram")
	cmd.Flags().BoolVarP(&opts.roman, "roman", "r", false, "label frets with roman numerals")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf (comma-separated)")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "raster width in pixels")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel renders for --all and --file (default GOMAXPROCS)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one chord, one format) or directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	cmd.MarkFlagsMutuallyExclusive("strings", "preset", "file", "all")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := c.settings()

	pipeOpts, err := opts.pipelineOptions(cmd.Flags(), cfg)
	if err != nil {
		return err
	}
	chords, err := c.selectChords(ctx, opts)
	if err != nil {
		return err
	}
	if len(chords) == 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "no chords to render")
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	var results []*pipeline.Result
	if len(chords) == 1 {
		res, err := runner.Execute(ctx, chords[0], pipeOpts)
		if err != nil {
			return err
		}
		results = []*pipeline.Result{res}
	} else {
		workers := opts.workers
		if workers == 0 {
			workers = cfg.Render.Workers
		}
		spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %d chords...", len(chords)))
		spin.Start()
		results, err = runner.RenderAll(ctx, chords, pipeOpts, workers)
		spin.Stop()
		if err != nil {
			return err
		}
	}

	files, err := outputFiles(results, pipeOpts, opts.output)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, res := range results {
		printSuccess(out, "%s", displayName(res.Chord.Name))
		printStats(out, res.Stats.Marks, res.CacheInfo.AllHits())
		for _, f := range files[i] {
			if err := os.WriteFile(f.path, res.Artifacts[f.format], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", f.path, err)
			}
			printFile(out, f.path)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d chord(s)", len(results)))
	return nil
}

// pipelineOptions merges the flags that were set over the config defaults.
func (o *renderOpts) pipelineOptions(flags *pflag.FlagSet, cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		LeftHanded: cfg.Render.LeftHanded,
		RomanFrets: cfg.Render.RomanFrets,
		Width:      cfg.Render.Width,
		Refresh:    o.refresh,
	}
	if flags.Changed("left") {
		opts.LeftHanded = o.left
	}
	if flags.Changed("roman") {
		opts.RomanFrets = o.roman
	}
	if flags.Changed("width") {
		opts.Width = o.width
	}
	if flags.Changed("format") {
		for _, f := range strings.Split(o.formats, ",") {
			opts.Formats = append(opts.Formats, render.Format(strings.TrimSpace(f)))
		}
	} else {
		formats, err := cfg.Formats()
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Formats = formats
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// selectChords resolves the chord source flags.
func (c *CLI) selectChords(ctx context.Context, opts *renderOpts) ([]chord.Chord, error) {
	switch {
	case opts.strings != "":
		entries, err := chord.ParseStrings(opts.strings)
		if err != nil {
			return nil, err
		}
		ch := chord.Chord{Name: strings.TrimSpace(opts.name), Strings: entries}
		if err := cerrors.ValidateChordName(ch.Name); err != nil {
			return nil, err
		}
		if err := ch.Validate(); err != nil {
			return nil, err
		}
		return []chord.Chord{ch}, nil
	case opts.file != "":
		return pkgio.ImportChords(opts.file)
	case opts.preset != "" || opts.all:
		store, err := c.newStore(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		if opts.all {
			recs, err := store.List(ctx)
			if err != nil {
				return nil, err
			}
			return library.Chords(recs), nil
		}
		ch, err := findChord(ctx, store, opts.preset)
		if err != nil {
			return nil, err
		}
		if opts.name != "" {
			if err := cerrors.ValidateChordName(opts.name); err != nil {
				return nil, err
			}
			ch.Name = opts.name
		}
		return []chord.Chord{ch}, nil
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "nothing to render: use --strings, --preset, --file or --all")
	}
}

// findChord returns the oldest library chord called name.
func findChord(ctx context.Context, store library.Store, name string) (chord.Chord, error) {
	recs, err := store.FindByName(ctx, name)
	if err != nil {
		return chord.Chord{}, err
	}
	if len(recs) == 0 {
		return chord.Chord{}, fmt.Errorf("%w: %q", library.ErrNotFound, name)
	}
	return recs[0].Chord, nil
}

// =============================================================================
// Output Files
// =============================================================================

type outputFile struct {
	format render.Format
	path   string
}

// outputFiles picks a path for every artifact. One chord in one format goes
// to output itself when set. Anything else goes into output as a directory,
// named after the chord, with a numeric suffix when names collide.
func outputFiles(results []*pipeline.Result, opts pipeline.Options, output string) ([][]outputFile, error) {
	files := make([][]outputFile, len(results))

	if len(results) == 1 && len(opts.Formats) == 1 && output != "" && !isDir(output) {
		files[0] = []outputFile{{format: opts.Formats[0], path: output}}
		return files, nil
	}

	dir := output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	used := make(map[string]int)
	for i, res := range results {
		base := fileBase(res.Chord.Name, opts.LeftHanded)
		used[base]++
		if n := used[base]; n > 1 {
			base += "-" + strconv.Itoa(n)
		}
		for _, f := range opts.Formats {
			files[i] = append(files[i], outputFile{format: f, path: filepath.Join(dir, base+f.Ext())})
		}
	}
	return files, nil
}

// fileBase is the chord name stripped to word characters, marked for
// left-handed diagrams.
func fileBase(name string, leftHanded bool) string {
	base := cerrors.SafeFilename(name)
	if leftHanded {
		base += "_lh"
	}
	return base
}

func isDir(path string) bool {
	if strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
