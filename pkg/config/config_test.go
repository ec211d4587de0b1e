package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/quadtree"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 5.0, cfg.Threshold)
	require.Equal(t, 7, cfg.Depth)
	require.True(t, cfg.Render.Outline)
	require.True(t, cfg.Render.Fill)
	require.Equal(t, "file", cfg.Cache.Backend)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, quadtree.Color{R: 255, G: 255, B: 255}, cfg.Render.ContrastColor.Color)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
threshold = 12.5
depth = 5

[render]
greyscale = true
outline = false
engine = "vector"
contrast_color = "#102030"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "90m"
prefix = "staging:"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 12.5, cfg.Threshold)
	require.Equal(t, 5, cfg.Depth)
	require.True(t, cfg.Render.Greyscale)
	require.False(t, cfg.Render.Outline)
	require.True(t, cfg.Render.Fill, "unset keys keep their defaults")
	require.Equal(t, "vector", cfg.Render.Engine)
	require.Equal(t, quadtree.Color{R: 0x10, G: 0x20, B: 0x30}, cfg.Render.ContrastColor.Color)
	require.Equal(t, "redis", cfg.Cache.Backend)
	require.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	require.Equal(t, 90*time.Minute, cfg.Cache.TTL.Duration)
	require.Equal(t, "staging:", cfg.Cache.Prefix)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.EqualValues(t, DefaultMaxUploadBytes, cfg.Server.MaxUploadBytes)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "threshold = = 1", errors.ErrCodeInvalidInput},
		{"unknown key", "thresh = 1.0", errors.ErrCodeInvalidInput},
		{"negative threshold", "threshold = -1.0", errors.ErrCodeInvalidInput},
		{"depth too large", "depth = 40", errors.ErrCodeInvalidInput},
		{"bad engine", "[render]\nengine = \"gpu\"", errors.ErrCodeInvalidEngine},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"bad color", "[render]\noutline_color = \"red\"", errors.ErrCodeInvalidInput},
		{"bad ttl", "[cache]\nttl = \"forever\"", errors.ErrCodeInvalidInput},
		{"bad upload limit", "[server]\nmax_upload_bytes = 0", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.code), "got %v, want code %s", err, tt.code)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	require.Empty(t, path)
	require.Equal(t, Default(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "boxypic"), 0o755))
	want := filepath.Join(dir, "boxypic", "config.toml")
	require.NoError(t, os.WriteFile(want, []byte("depth = 3\n"), 0o644))

	cfg, path, err = LoadDefault()
	require.NoError(t, err)
	require.Equal(t, want, path)
	require.Equal(t, 3, cfg.Depth)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/xdg", "boxypic", "config.toml"), path)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" #ff8000 ")
	require.NoError(t, err)
	require.Equal(t, quadtree.Color{R: 255, G: 128, B: 0}, c)

	c, err = ParseColor("#f80")
	require.NoError(t, err)
	require.Equal(t, quadtree.Color{R: 255, G: 136, B: 0}, c)

	for _, bad := range []string{"", "ff8000", "#ff80", "#gg0000", "#ff8000ff"} {
		_, err := ParseColor(bad)
		require.True(t, errors.Is(err, errors.ErrCodeInvalidColor), "ParseColor(%q) = %v", bad, err)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Threshold = 0
	cfg.Render.Grid = true
	cfg.Render.SeparatorColor = Color{quadtree.Color{R: 9}}

	opts := cfg.PipelineOptions()
	require.Equal(t, 0.0, opts.Threshold)
	require.Equal(t, 7, opts.MaxDepth)
	require.True(t, opts.Grid)
	require.Equal(t, quadtree.Color{R: 9}, opts.Palette.Separator)

	ro := cfg.RenderOptions()
	require.True(t, ro.Outline)
	require.Equal(t, opts.Palette, ro.Palette)
}

func TestCacheOpenConfig(t *testing.T) {
	cfg := Default()
	cc := cfg.CacheOpenConfig("/var/cache/boxypic")
	require.Equal(t, "/var/cache/boxypic", cc.Dir)
	require.Equal(t, "boxypic", cc.MongoDatabase)

	cfg.Cache.Dir = "/data"
	require.Equal(t, "/data", cfg.CacheOpenConfig("/ignored").Dir)
}

func TestColorText(t *testing.T) {
	c := Color{quadtree.Color{R: 1, G: 2, B: 3}}
	text, err := c.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "#010203", string(text))

	d := Duration{36 * time.Hour}
	text, err = d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "36h0m0s", string(text))
}
