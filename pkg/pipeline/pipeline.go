// Package pipeline provides the decode → build → render pipeline for boxypic.
//
// The CLI and the HTTP server both run images through a [Runner], so the
// caching and validation rules are the same for every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: turn encoded image bytes into a raster, optionally downscaled
//  2. Build: decompose the raster into a quadtree
//  3. Render: encode the tree into each requested format
//
// A fresh tree is built for every run. The cache stores encoded artifacts
// and stats keyed by the image hash and every option that affects output;
// when all requested artifacts are cached, decoding and building are
// skipped entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Image = data
//	opts.Formats = []string{"png", "json"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxypic/pkg/cache"
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultNodeLimit caps node allocation per build. A depth-16 tree over
	// a large image could otherwise allocate billions of nodes.
	DefaultNodeLimit = 4_000_000

	// DefaultQuality is the JPEG quality.
	DefaultQuality = 90
)

// DefaultFormat is the output format when none is requested.
const DefaultFormat = string(sink.FormatPNG)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// Threshold and MaxDepth have meaningful zero values, so start from
// [DefaultOptions] rather than a zero Options.
type Options struct {
	// Image holds the encoded source image.
	Image []byte `json:"-"`
	// MaxSize downscales the image so neither side exceeds it. Zero keeps
	// the original size.
	MaxSize int `json:"max_size,omitempty"`

	// Build options
	Threshold float64 `json:"threshold"`
	MaxDepth  int     `json:"depth"`
	NodeLimit int     `json:"node_limit,omitempty"`

	// Render options
	Formats   []string       `json:"formats,omitempty"`
	Outline   bool           `json:"outline"`
	Greyscale bool           `json:"greyscale"`
	Fill      bool           `json:"fill"`
	Grid      bool           `json:"grid"`
	Engine    string         `json:"engine,omitempty"`
	Quality   int            `json:"quality,omitempty"`
	Palette   render.Palette `json:"-"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	formats   []sink.Format
	engine    sink.Engine
	validated bool
}

// DefaultOptions returns options for threshold 5.0, depth 7, outlined and
// filled PNG output.
func DefaultOptions() Options {
	p := quadtree.DefaultParams()
	r := render.DefaultOptions()
	return Options{
		Threshold: p.Threshold,
		MaxDepth:  p.MaxDepth,
		Outline:   r.Outline,
		Fill:      r.Fill,
		Palette:   r.Palette,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the built quadtree. It is nil when every artifact came from
	// the cache.
	Tree *quadtree.Tree

	// ImageHash is the SHA-256 of the encoded input.
	ImageHash string

	// Summary describes the decoded image and the tree's shape.
	Summary Summary

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Summary is the cacheable description of one decomposition.
type Summary struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	ImageFormat string         `json:"image_format"`
	Threshold   float64        `json:"threshold"`
	MaxDepth    int            `json:"max_depth"`
	Tree        quadtree.Stats `json:"tree"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DecodeTime time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SummaryHit bool // Whether the summary came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks the input image and build parameters.
func (o *Options) ValidateForBuild() error {
	if len(o.Image) == 0 {
		return errors.New(errors.ErrCodeInvalidImage, "image is required")
	}
	if err := o.Params().Validate(); err != nil {
		return err
	}
	if o.MaxSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max size %d must not be negative", o.MaxSize)
	}
	if o.NodeLimit == 0 {
		o.NodeLimit = DefaultNodeLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks formats and render settings.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.formats = o.formats[:0]
	seen := make(map[sink.Format]bool)
	for _, s := range o.Formats {
		f, err := sink.ParseFormat(s)
		if err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			o.formats = append(o.formats, f)
		}
	}
	e, err := sink.ParseEngine(o.Engine)
	if err != nil {
		return err
	}
	o.engine = e
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "quality %d out of range 1-100", o.Quality)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Params returns the build parameters.
func (o *Options) Params() quadtree.Params {
	return quadtree.Params{Threshold: o.Threshold, MaxDepth: o.MaxDepth}
}

// RenderOptions returns the leaf painting options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Outline:   o.Outline,
		Greyscale: o.Greyscale,
		Fill:      o.Fill,
		Palette:   o.Palette,
	}
}

// SinkOptions returns the options passed to every sink.
func (o *Options) SinkOptions() []sink.Option {
	return []sink.Option{
		sink.WithRenderOptions(o.RenderOptions()),
		sink.WithGrid(o.Grid),
		sink.WithEngine(o.engine),
		sink.WithQuality(o.Quality),
	}
}

// StatsKeyOpts returns cache key options for the summary.
func (o *Options) StatsKeyOpts() cache.StatsKeyOpts {
	return cache.StatsKeyOpts{
		Threshold: o.Threshold,
		MaxDepth:  o.MaxDepth,
		MaxSize:   o.MaxSize,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact. Settings
// that cannot affect the format are left at their zero value so that, for
// example, changing the engine does not invalidate cached SVGs.
func (o *Options) ArtifactKeyOpts(f sink.Format) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Threshold: o.Threshold,
		MaxDepth:  o.MaxDepth,
		MaxSize:   o.MaxSize,
		Format:    string(f),
	}
	switch f {
	case sink.FormatDOT, sink.FormatTree:
		return k
	case sink.FormatJSON:
		k.Greyscale = o.Greyscale
		return k
	case sink.FormatPNG, sink.FormatJPEG:
		k.Engine = string(o.engine)
		if f == sink.FormatJPEG {
			k.Quality = o.Quality
		}
	}
	k.Outline = o.Outline
	k.Greyscale = o.Greyscale
	k.Fill = o.Fill
	k.Grid = o.Grid
	k.Palette = [3]string{o.Palette.Outline.Hex(), o.Palette.Contrast.Hex(), o.Palette.Separator.Hex()}
	return k
}
