package sink

import (
	"slices"
	"strings"

	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
)

// Format names an output artifact type.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatTree Format = "tree"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatJPEG, FormatSVG, FormatJSON, FormatDOT, FormatTree}

// ParseFormat resolves a format name. "jpg" is accepted as an alias.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "jpg" {
		f = FormatJPEG
	}
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", s, joinFormats())
	}
	return f, nil
}

// ParseFormats splits a comma-separated list and drops duplicates.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatTree:
		return "tree.svg"
	case FormatJPEG:
		return "jpg"
	}
	return string(f)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG, FormatTree:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Engine selects how image formats are drawn.
type Engine string

const (
	EngineRaster Engine = "raster"
	EngineVector Engine = "vector"
)

// ParseEngine resolves an engine name. The empty string means raster.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(s))); e {
	case "", EngineRaster:
		return EngineRaster, nil
	case EngineVector:
		return EngineVector, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidEngine, "unknown engine %q (want raster or vector)", s)
	}
}

// Option configures a sink.
type Option func(*config)

type config struct {
	render  render.Options
	grid    bool
	engine  Engine
	quality int
}

func newConfig(opts []Option) config {
	c := config{render: render.DefaultOptions(), engine: EngineRaster, quality: 90}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithRenderOptions sets how leaves are painted.
func WithRenderOptions(o render.Options) Option {
	return func(c *config) { c.render = o }
}

// WithGrid switches to grid mode.
func WithGrid(on bool) Option {
	return func(c *config) { c.grid = on }
}

// WithEngine selects the drawing engine for png and jpeg.
func WithEngine(e Engine) Option {
	return func(c *config) { c.engine = e }
}

// WithQuality sets the JPEG quality (1-100, default 90).
func WithQuality(q int) Option {
	return func(c *config) { c.quality = q }
}

// Render encodes tree as format f.
func Render(tree *quadtree.Tree, f Format, opts ...Option) ([]byte, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: empty tree")
	}
	switch f {
	case FormatPNG:
		return RenderPNG(tree, opts...)
	case FormatJPEG:
		return RenderJPEG(tree, opts...)
	case FormatSVG:
		return RenderSVG(tree, opts...), nil
	case FormatJSON:
		return RenderJSON(tree, opts...)
	case FormatDOT:
		return []byte(ToDOT(tree, DOTOptions{MaxNodes: DefaultDOTNodes})), nil
	case FormatTree:
		return RenderTreeSVG(ToDOT(tree, DOTOptions{MaxNodes: DefaultDOTNodes}))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
}
