// Package config loads boxypic's TOML configuration file.
//
// Values are applied in order: built-in defaults, then the config file, then
// command-line flags. The file lives at $XDG_CONFIG_HOME/boxypic/config.toml
// (~/.config/boxypic/config.toml when XDG_CONFIG_HOME is unset):
//
//	threshold = 5.0
//	depth = 7
//
//	[render]
//	outline = true
//	fill = true
//	engine = "raster"
//	outline_color = "#000000"
//	contrast_color = "#ffffff"
//	separator_color = "#000000"
//
//	[cache]
//	backend = "file"   # file | redis | mongo | none
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//	prefix = "staging:"
//
//	[server]
//	addr = ":8080"
//	max_upload_bytes = 20971520
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/boxypic/pkg/cache"
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/pipeline"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/sink"
)

const (
	appName  = "boxypic"
	fileName = "config.toml"

	// DefaultAddr is the server listen address.
	DefaultAddr = ":8080"

	// DefaultMaxUploadBytes bounds request bodies accepted by the server.
	DefaultMaxUploadBytes = 20 << 20
)

// Config is the decoded configuration file.
type Config struct {
	Threshold float64      `toml:"threshold"`
	Depth     int          `toml:"depth"`
	Render    RenderConfig `toml:"render"`
	Cache     CacheConfig  `toml:"cache"`
	Server    ServerConfig `toml:"server"`
}

// RenderConfig holds leaf painting defaults.
type RenderConfig struct {
	Outline        bool   `toml:"outline"`
	Greyscale      bool   `toml:"greyscale"`
	Fill           bool   `toml:"fill"`
	Grid           bool   `toml:"grid"`
	Engine         string `toml:"engine"`
	OutlineColor   Color  `toml:"outline_color"`
	ContrastColor  Color  `toml:"contrast_color"`
	SeparatorColor Color  `toml:"separator_color"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	TTL           Duration `toml:"ttl"`
	// Prefix namespaces every key, so several deployments can share one
	// Redis or MongoDB.
	Prefix        string   `toml:"prefix"`
}

// ServerConfig configures `boxypic serve`.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

// Color is a "#rrggbb" color in TOML.
type Color struct {
	quadtree.Color
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// ParseColor parses a "#rrggbb" or "#rgb" string.
func ParseColor(s string) (quadtree.Color, error) {
	s = strings.TrimSpace(s)
	c, err := colorful.Hex(s)
	if err != nil {
		return quadtree.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "color must look like #rrggbb (got %q)", s)
	}
	r, g, b := c.RGB255()
	return quadtree.RGB(r, g, b), nil
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	p := quadtree.DefaultParams()
	pal := render.DefaultPalette()
	return Config{
		Threshold: p.Threshold,
		Depth:     p.MaxDepth,
		Render: RenderConfig{
			Outline:        true,
			Fill:           true,
			Engine:         string(sink.EngineRaster),
			OutlineColor:   Color{pal.Outline},
			ContrastColor:  Color{pal.Contrast},
			SeparatorColor: Color{pal.Separator},
		},
		Cache: CacheConfig{
			Backend:       cache.BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
			TTL:           Duration{cache.TTLArtifact},
		},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads path on top of the defaults. A missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// LoadDefault reads the file at DefaultPath if it exists and returns the
// defaults otherwise. The returned path is empty when no file was read.
func LoadDefault() (Config, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := (quadtree.Params{Threshold: c.Threshold, MaxDepth: c.Depth}).Validate(); err != nil {
		return err
	}
	if _, err := sink.ParseEngine(c.Render.Engine); err != nil {
		return err
	}
	backends := []string{cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want one of %s)", c.Cache.Backend, strings.Join(backends, ", "))
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server max_upload_bytes must be positive")
	}
	return nil
}

// Palette returns the configured colors.
func (c Config) Palette() render.Palette {
	return render.Palette{
		Outline:   c.Render.OutlineColor.Color,
		Contrast:  c.Render.ContrastColor.Color,
		Separator: c.Render.SeparatorColor.Color,
	}
}

// RenderOptions returns the configured leaf painting options.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		Outline:   c.Render.Outline,
		Greyscale: c.Render.Greyscale,
		Fill:      c.Render.Fill,
		Palette:   c.Palette(),
	}
}

// PipelineOptions returns pipeline options seeded from the config.
func (c Config) PipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Threshold = c.Threshold
	opts.MaxDepth = c.Depth
	opts.Outline = c.Render.Outline
	opts.Greyscale = c.Render.Greyscale
	opts.Fill = c.Render.Fill
	opts.Grid = c.Render.Grid
	opts.Engine = c.Render.Engine
	opts.Palette = c.Palette()
	return opts
}

// CacheOpenConfig returns the backend selection for cache.Open. An empty Dir
// is replaced with defaultDir.
func (c Config) CacheOpenConfig(defaultDir string) cache.Config {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Config{
		Backend:       c.Cache.Backend,
		Dir:           dir,
		RedisAddr:     c.Cache.RedisAddr,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
}
