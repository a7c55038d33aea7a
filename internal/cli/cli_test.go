package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/chordgen/pkg/assets"
	"github.com/matzehuels/chordgen/pkg/cache"
	"github.com/matzehuels/chordgen/pkg/config"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
)

// writeConfig writes a config that keeps the cache off and the library in a
// temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[cache]\nbackend = \"none\"\n\n[library]\nbackend = \"file\"\ndir = '" + filepath.Join(dir, "library") + "'\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command against cfgPath and returns its output.
func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	sort.Strings(got)
	want := []string{"cache", "completion", "config", "inspect", "library", "list", "pick", "render", "serve"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands (-want +got):\n%s", diff)
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nwidht = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, path, "config", "show")
	if !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	t.Run("no cache flag", func(t *testing.T) {
		c, err := newCache(ctx, config.Default(), true)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("got %T, want *cache.NullCache", c)
		}
	})

	t.Run("none backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheNone
		c, err := newCache(ctx, cfg, false)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("got %T, want *cache.NullCache", c)
		}
	})

	t.Run("file backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Dir = t.TempDir()
		c, err := newCache(ctx, cfg, false)
		if err != nil {
			t.Fatal(err)
		}
		fc, ok := c.(*cache.FileCache)
		if !ok {
			t.Fatalf("got %T, want *cache.FileCache", c)
		}
		if fc.Dir() != cfg.Cache.Dir {
			t.Errorf("Dir() = %q, want %q", fc.Dir(), cfg.Cache.Dir)
		}
	})
}

func TestNewStoreSeedsPresets(t *testing.T) {
	presets, err := assets.Presets()
	if err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.cfg = config.Default()
	c.cfg.Library.Backend = config.LibraryFile
	c.cfg.Library.Dir = t.TempDir()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		s, err := c.newStore(ctx)
		if err != nil {
			t.Fatal(err)
		}
		recs, err := s.List(ctx)
		s.Close()
		if err != nil {
			t.Fatal(err)
		}
		// A second open must not seed again.
		if len(recs) != len(presets) {
			t.Fatalf("open %d: %d records, want %d", i+1, len(recs), len(presets))
		}
	}
}

func TestUnavailableConverter(t *testing.T) {
	want := errors.New("no tool")
	_, err := unavailableConverter{err: want}.Convert(context.Background(), nil, "png", 0)
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := runCLI(t, cfgPath, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[render]", `backend = "none"`, `backend = "file"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, cfgPath, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q, want %q", out, cfgPath)
	}
}

func TestCacheCommands(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := runCLI(t, cfgPath, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "disabled" {
		t.Errorf("cache path = %q, want disabled", out)
	}

	out, err = runCLI(t, cfgPath, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is disabled") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestCacheLocation(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/tmp/chordgen-cache"
	if got := cacheLocation(cfg); got != cfg.Cache.Dir {
		t.Errorf("file: got %q", got)
	}

	cfg.Cache.Backend = config.CacheRedis
	if got := cacheLocation(cfg); !strings.HasPrefix(got, "redis://localhost:6379/0") {
		t.Errorf("redis: got %q", got)
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, writeConfig(t), "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "chordgen") {
		t.Error("bash completion does not mention chordgen")
	}

	if _, err := runCLI(t, writeConfig(t), "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
