package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chordgen/pkg/core/chord"
)

// RenderAll runs Execute for every chord using at most workers goroutines
// (GOMAXPROCS when workers <= 0). Results keep the order of chords.
//
// The first failure cancels the remaining work and is returned annotated
// with the chord's position and name.
func (r *Runner) RenderAll(ctx context.Context, chords []chord.Chord, opts Options, workers int) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	results := make([]*Result, len(chords))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range chords {
		g.Go(func() error {
			res, err := r.Execute(ctx, c, opts)
			if err != nil {
				return fmt.Errorf("chord %d (%q): %w", i+1, c.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Logger.Info("rendered chords",
		"count", len(chords),
		"workers", workers,
		"formats", opts.Formats,
		"duration", time.Since(start))
	return results, nil
}
