package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chordgen/pkg/assets"
	"github.com/matzehuels/chordgen/pkg/buildinfo"
	"github.com/matzehuels/chordgen/pkg/cache"
	"github.com/matzehuels/chordgen/pkg/config"
	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/template"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	pkgio "github.com/matzehuels/chordgen/pkg/io"
	"github.com/matzehuels/chordgen/pkg/library"
	"github.com/matzehuels/chordgen/pkg/pipeline"
	"github.com/matzehuels/chordgen/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Chordgen draws guitar chord diagrams",
		Long:         `Chordgen draws guitar chord fingerings as SVG, PNG or PDF diagrams from a fixed template, from the command line or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/chordgen/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.libraryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// settings returns the loaded config, or the defaults when a command runs
// without the root's pre-run.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the config. The caller closes
// the runner's cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.settings()

	templates, err := loadTemplates(cfg)
	if err != nil {
		return nil, err
	}
	conv, err := render.NewConverter(cfg.Render.Converter)
	if err != nil {
		if !cerrors.Is(err, cerrors.ErrCodeConverter) {
			return nil, err
		}
		// SVG output still works; raster requests report why.
		c.Logger.Debug("raster conversion unavailable", "error", err)
		conv = unavailableConverter{err: err}
	}
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(templates, conv, store, nil, c.Logger), nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// unavailableConverter fails every conversion with the error that kept a
// real converter from being set up.
type unavailableConverter struct{ err error }

func (u unavailableConverter) Name() string { return "unavailable" }

func (u unavailableConverter) Convert(context.Context, []byte, render.Format, int) ([]byte, error) {
	return nil, u.err
}

// loadTemplates reads the configured template pair, or the embedded one.
func loadTemplates(cfg *config.Config) (*template.Set, error) {
	if cfg.Render.Template != "" {
		return template.LoadSet(cfg.Render.Template, cfg.Render.TemplateLH)
	}
	return assets.Templates()
}

// =============================================================================
// Library Factory
// =============================================================================

// loadPresets reads the configured preset file, or the bundled presets.
func loadPresets(cfg *config.Config) ([]chord.Chord, error) {
	if cfg.Library.Presets != "" {
		return pkgio.ImportChords(cfg.Library.Presets)
	}
	return assets.Presets()
}

// newStore opens the configured chord library and seeds an empty one with
// the presets. The caller closes it.
func (c *CLI) newStore(ctx context.Context) (library.Store, error) {
	cfg := c.settings()
	presets, err := loadPresets(cfg)
	if err != nil {
		return nil, err
	}

	var s library.Store
	switch cfg.Library.Backend {
	case config.LibraryFile:
		dir, err := cfg.LibraryDir()
		if err != nil {
			return nil, err
		}
		fs, err := library.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		s = fs
	case config.LibraryMongo:
		ms, err := library.NewMongoStore(ctx, library.MongoOptions{
			URI:        cfg.Library.Mongo.URI,
			Database:   cfg.Library.Mongo.Database,
			Collection: cfg.Library.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		s = ms
	default:
		return library.NewMemoryStore(presets...), nil
	}

	n, err := library.Seed(ctx, s, presets)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if n > 0 {
		c.Logger.Info("seeded chord library", "backend", cfg.Library.Backend, "chords", n)
	}
	return s, nil
}
