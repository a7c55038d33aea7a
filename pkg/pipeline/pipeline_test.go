package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/chordgen/pkg/assets"
	"github.com/matzehuels/chordgen/pkg/cache"
	"github.com/matzehuels/chordgen/pkg/core/chord"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/observability"
	"github.com/matzehuels/chordgen/pkg/render"
)

// fakeConverter stamps the format and width onto its output and counts calls.
type fakeConverter struct {
	calls atomic.Int64
	err   error
}

func (f *fakeConverter) Name() string { return "fake" }

func (f *fakeConverter) Convert(_ context.Context, svg []byte, format render.Format, width int) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(string(format) + ":" + strconv.Itoa(width) + ":" + strconv.Itoa(len(svg))), nil
}

// mapCache is an in-memory cache.Cache.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapCache) Close() error { return nil }

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenCache) Delete(context.Context, string) error { return nil }
func (brokenCache) Close() error                         { return nil }

func newTestRunner(t *testing.T, c cache.Cache, conv render.Converter) *Runner {
	t.Helper()
	set, err := assets.Templates()
	if err != nil {
		t.Fatalf("assets.Templates() error: %v", err)
	}
	return NewRunner(set, conv, c, nil, log.New(io.Discard))
}

var (
	o      = chord.OpenString()
	x      = chord.MutedString()
	cMajor = chord.New("C", o, chord.FrettedString("1", 1), o, chord.FrettedString("2", 2), chord.FrettedString("3", 3), x)
)

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatalf("NewRunner left nil fields: %+v", r)
	}
	if _, err := r.Execute(context.Background(), cMajor, Options{}); !cerrors.Is(err, cerrors.ErrCodeInternal) {
		t.Errorf("Execute() without templates error = %v, want INTERNAL_ERROR", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []render.Format
		width   int
		wantErr cerrors.Code
	}{
		{name: "defaults", want: []render.Format{render.FormatSVG}, width: render.DefaultWidth},
		{name: "normalized and deduplicated", opts: Options{Formats: []render.Format{"PNG", "png", "svg"}, Width: 400}, want: []render.Format{render.FormatPNG, render.FormatSVG}, width: 400},
		{name: "unknown format", opts: Options{Formats: []render.Format{"gif"}}, wantErr: cerrors.ErrCodeInvalidFormat},
		{name: "negative width", opts: Options{Width: -1}, wantErr: cerrors.ErrCodeInvalidInput},
		{name: "huge width", opts: Options{Width: MaxWidth + 1}, wantErr: cerrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if tt.wantErr != "" {
				if !cerrors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, opts.Formats); diff != "" {
				t.Errorf("Formats mismatch (-want +got):\n%s", diff)
			}
			if opts.Width != tt.width {
				t.Errorf("Width = %d, want %d", opts.Width, tt.width)
			}
		})
	}
}

func TestExecuteSVG(t *testing.T) {
	r := newTestRunner(t, nil, nil)

	res, err := r.Execute(context.Background(), cMajor, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	svg := res.SVG()
	if !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<")) || !bytes.Contains(svg, []byte(`id="finger1-1"`)) {
		t.Errorf("unexpected SVG output:\n%s", svg)
	}
	if res.Layout == nil || len(res.Layout.Marks) != 3 || res.Stats.Marks != 3 {
		t.Errorf("layout marks = %d, stats marks = %d, want 3", len(res.Layout.Marks), res.Stats.Marks)
	}
	if res.CacheInfo.DiagramHit {
		t.Error("NullCache reported a hit")
	}
}

func TestExecuteCaches(t *testing.T) {
	conv := &fakeConverter{}
	r := newTestRunner(t, newMapCache(), conv)
	ctx := context.Background()
	opts := Options{Formats: []render.Format{render.FormatSVG, render.FormatPNG}}

	first, err := r.Execute(ctx, cMajor, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.DiagramHit || first.CacheInfo.ConvertHits[render.FormatPNG] {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, cMajor, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.AllHits() {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.SVG(), second.SVG()) {
		t.Error("cached SVG differs from the rendered one")
	}
	if got := conv.calls.Load(); got != 1 {
		t.Errorf("converter called %d times, want 1", got)
	}
	if want := "png:209:" + strconv.Itoa(len(first.SVG())); string(second.Artifacts[render.FormatPNG]) != want {
		t.Errorf("png = %q, want %q", second.Artifacts[render.FormatPNG], want)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, cMajor, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.DiagramHit || conv.calls.Load() != 2 {
		t.Errorf("refresh did not bypass the cache: %+v, %d calls", third.CacheInfo, conv.calls.Load())
	}
}

func TestExecuteKeysOnOptions(t *testing.T) {
	r := newTestRunner(t, newMapCache(), nil)
	ctx := context.Background()

	right, err := r.Execute(ctx, cMajor, Options{})
	if err != nil {
		t.Fatal(err)
	}
	left, err := r.Execute(ctx, cMajor, Options{LeftHanded: true})
	if err != nil {
		t.Fatal(err)
	}
	roman, err := r.Execute(ctx, cMajor, Options{RomanFrets: true})
	if err != nil {
		t.Fatal(err)
	}
	if left.CacheInfo.DiagramHit || roman.CacheInfo.DiagramHit {
		t.Error("different options shared a cache entry")
	}
	if bytes.Equal(right.SVG(), left.SVG()) || bytes.Equal(right.SVG(), roman.SVG()) {
		t.Error("different options rendered identical diagrams")
	}
}

func TestExecuteBrokenCache(t *testing.T) {
	r := newTestRunner(t, brokenCache{}, nil)
	res, err := r.Execute(context.Background(), cMajor, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.SVG()) == 0 {
		t.Error("no SVG despite cache failures")
	}
}

func TestExecuteErrors(t *testing.T) {
	wide := chord.New("wide", chord.FrettedString("1", 1), chord.FrettedString("4", 6), x, x, x, x)

	t.Run("span too wide", func(t *testing.T) {
		r := newTestRunner(t, nil, nil)
		_, err := r.Execute(context.Background(), wide, Options{})
		var span *cerrors.SpanTooWideError
		if !errors.As(err, &span) {
			t.Fatalf("error = %v, want SpanTooWideError", err)
		}
	})

	t.Run("raster without converter", func(t *testing.T) {
		r := newTestRunner(t, nil, nil)
		_, err := r.Execute(context.Background(), cMajor, Options{Formats: []render.Format{render.FormatPNG}})
		if !cerrors.Is(err, cerrors.ErrCodeConverter) {
			t.Errorf("error = %v, want CONVERTER_ERROR", err)
		}
	})

	t.Run("converter failure", func(t *testing.T) {
		r := newTestRunner(t, nil, &fakeConverter{err: errors.New("boom")})
		_, err := r.Execute(context.Background(), cMajor, Options{Formats: []render.Format{render.FormatPDF}})
		if err == nil || !strings.Contains(err.Error(), "convert pdf") {
			t.Errorf("error = %v, want wrapped conversion failure", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		r := newTestRunner(t, nil, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := r.Execute(ctx, cMajor, Options{}); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestRenderAll(t *testing.T) {
	presets, err := assets.Presets()
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, newMapCache(), &fakeConverter{})

	results, err := r.RenderAll(context.Background(), presets, Options{Formats: []render.Format{render.FormatPNG}}, 4)
	if err != nil {
		t.Fatalf("RenderAll() error: %v", err)
	}
	if len(results) != len(presets) {
		t.Fatalf("got %d results, want %d", len(results), len(presets))
	}
	for i, res := range results {
		if res.Chord.Name != presets[i].Name {
			t.Errorf("result %d is %q, want %q", i, res.Chord.Name, presets[i].Name)
		}
		if len(res.Artifacts[render.FormatPNG]) == 0 {
			t.Errorf("%s: missing png", res.Chord.Name)
		}
	}
}

func TestRenderAllFailure(t *testing.T) {
	chords := []chord.Chord{
		cMajor,
		chord.New("wide", chord.FrettedString("1", 1), chord.FrettedString("4", 6), x, x, x, x),
	}
	r := newTestRunner(t, nil, nil)

	results, err := r.RenderAll(context.Background(), chords, Options{}, 0)
	if err == nil {
		t.Fatal("RenderAll() succeeded with a chord that does not fit")
	}
	if results != nil {
		t.Error("partial results returned on error")
	}
	if !strings.Contains(err.Error(), `chord 2 ("wide")`) || !cerrors.Is(err, cerrors.ErrCodeSpanTooWide) {
		t.Errorf("error = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopRenderHooks
	mu       sync.Mutex
	renders  []string
	converts []string
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, chord string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders = append(h.renders, chord)
}

func (h *recordingHooks) OnConvertComplete(_ context.Context, format, converter string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.converts = append(h.converts, converter+"/"+format)
}

func TestExecuteFiresHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetRenderHooks(hooks)
	t.Cleanup(observability.Reset)

	r := newTestRunner(t, newMapCache(), &fakeConverter{})
	opts := Options{Formats: []render.Format{render.FormatPNG, render.FormatPDF}}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), cMajor, opts); err != nil {
			t.Fatal(err)
		}
	}

	if diff := cmp.Diff([]string{"C"}, hooks.renders); diff != "" {
		t.Errorf("render events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fake/png", "fake/pdf"}, hooks.converts); diff != "" {
		t.Errorf("convert events mismatch (-want +got):\n%s", diff)
	}
}
