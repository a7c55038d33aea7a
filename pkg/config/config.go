// Package config loads chordgen's TOML configuration.
//
// A config file overlays the defaults from [Default]; keys left out keep
// their default value. Unknown keys are rejected so typos surface early.
//
//	[render]
//	width = 418
//	converter = "rsvg"
//	formats = ["svg", "png"]
//
//	[server]
//	addr = ":8080"
//	prefix = "/guitarchords"
//	request_timeout = "30s"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[library]
//	backend = "mongo"
//
//	[library.mongo]
//	uri = "mongodb://localhost:27017"
//
// The file is read from --config, or from $XDG_CONFIG_HOME/chordgen/config.toml
// when that exists.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/render"
)

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	LibraryMemory = "memory"
	LibraryFile   = "file"
	LibraryMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Library LibraryConfig `toml:"library"`
}

// RenderConfig holds diagram and conversion defaults.
type RenderConfig struct {
	Width      int      `toml:"width"`
	Converter  string   `toml:"converter"` // auto, rsvg or inkscape
	Formats    []string `toml:"formats"`
	LeftHanded bool     `toml:"left_handed"`
	RomanFrets bool     `toml:"roman_frets"`
	Workers    int      `toml:"workers"`

	// Template and TemplateLH replace the embedded SVG templates. Both must
	// be set together.
	Template   string `toml:"template"`
	TemplateLH string `toml:"template_lh"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	Prefix         string        `toml:"prefix"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"` // file backend; empty means the XDG cache dir
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// LibraryConfig selects the chord library.
type LibraryConfig struct {
	Backend string      `toml:"backend"`
	Presets string      `toml:"presets"` // YAML file; empty means the bundled presets
	Dir     string      `toml:"dir"`     // file backend; empty means the XDG data dir
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the mongo library backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:     render.DefaultWidth,
			Converter: "auto",
			Formats:   []string{string(render.FormatSVG)},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			Prefix:         "/guitarchords",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: AppName + ":",
			},
		},
		Library: LibraryConfig{
			Backend: LibraryFile,
			Mongo: MongoConfig{
				Database:   "chordgen",
				Collection: "chords",
			},
		},
	}
}

// Load reads the config file at path over the defaults. With an empty path
// the default location is tried, and a missing file there is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes TOML from r over the defaults and validates the result.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks backend names, formats and ranges.
func (c *Config) Validate() error {
	if c.Render.Width <= 0 {
		return invalid("render.width must be positive, got %d", c.Render.Width)
	}
	if c.Render.Workers < 0 {
		return invalid("render.workers cannot be negative")
	}
	if _, err := c.Formats(); err != nil {
		return err
	}
	switch strings.ToLower(c.Render.Converter) {
	case "", "auto", "rsvg", "rsvg-convert", "inkscape":
	default:
		return invalid("render.converter must be auto, rsvg or inkscape, got %q", c.Render.Converter)
	}
	if (c.Render.Template == "") != (c.Render.TemplateLH == "") {
		return invalid("render.template and render.template_lh must be set together")
	}

	if c.Server.Prefix != "" && !strings.HasPrefix(c.Server.Prefix, "/") {
		return invalid("server.prefix must start with /, got %q", c.Server.Prefix)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.RequestTimeout < 0 {
		return invalid("server timeouts cannot be negative")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return invalid("cache.redis.addr is required for the redis backend")
		}
	default:
		return invalid("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}

	switch c.Library.Backend {
	case LibraryMemory, LibraryFile:
	case LibraryMongo:
		if c.Library.Mongo.URI == "" {
			return invalid("library.mongo.uri is required for the mongo backend")
		}
	default:
		return invalid("library.backend must be memory, file or mongo, got %q", c.Library.Backend)
	}
	return nil
}

// Formats parses the configured output formats.
func (c *Config) Formats() ([]render.Format, error) {
	out := make([]render.Format, 0, len(c.Render.Formats))
	for _, s := range c.Render.Formats {
		f, err := render.ParseFormat(s)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "render.formats")
		}
		out = append(out, f)
	}
	return out, nil
}

// CacheDir returns the file cache directory, falling back to the XDG cache
// dir.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// LibraryDir returns the file library directory, falling back to the XDG
// data dir.
func (c *Config) LibraryDir() (string, error) {
	if c.Library.Dir != "" {
		return c.Library.Dir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "library"), nil
}

func invalid(format string, args ...any) error {
	return cerrors.New(cerrors.ErrCodeInvalidConfig, format, args...)
}
