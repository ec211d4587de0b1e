package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/encoding/json"

	"github.com/matzehuels/boxypic/pkg/cache"
	"github.com/matzehuels/boxypic/pkg/observability"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/raster"
)

// Cache key types reported to observability hooks.
const (
	keyTypeSummary  = "summary"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the default cache TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		ImageHash: cache.Hash(opts.Image),
		Artifacts: make(map[string][]byte),
	}

	// Everything cached: skip decode and build
	if !opts.Refresh {
		if sum, ok := r.cachedSummary(ctx, result.ImageHash, opts); ok {
			if arts, ok := r.cachedArtifacts(ctx, result.ImageHash, opts); ok {
				result.Summary = sum
				result.Artifacts = arts
				result.CacheInfo = CacheInfo{SummaryHit: true, RenderHit: true}
				opts.Logger.Debug("served from cache", "hash", result.ImageHash[:12], "formats", opts.Formats)
				return result, nil
			}
		}
	}

	// Stage 1: Decode
	decodeStart := time.Now()
	img, format, err := Decode(opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Stats.DecodeTime = time.Since(decodeStart)
	opts.Logger.Debug("decoded image",
		"format", format,
		"size", fmt.Sprintf("%dx%d", img.Width(), img.Height()),
		"duration", result.Stats.DecodeTime)

	// Stage 2: Build
	tree, err := r.build(ctx, img, opts, result)
	if err != nil {
		return nil, err
	}
	result.Summary.ImageFormat = format
	r.storeSummary(ctx, result.ImageHash, opts, result.Summary)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, tree, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for _, f := range opts.formats {
		r.set(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(result.ImageHash, opts.ArtifactKeyOpts(f)), artifacts[string(f)], cache.TTLArtifact)
	}

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SummarizeWithCacheInfo decodes and builds without rendering and returns
// whether the summary came from cache. The tree is only returned on a miss.
func (r *Runner) SummarizeWithCacheInfo(ctx context.Context, opts Options) (*Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{ImageHash: cache.Hash(opts.Image)}
	if !opts.Refresh {
		if sum, ok := r.cachedSummary(ctx, result.ImageHash, opts); ok {
			result.Summary = sum
			result.CacheInfo.SummaryHit = true
			return result, true, nil
		}
	}

	decodeStart := time.Now()
	img, format, err := Decode(opts)
	if err != nil {
		return nil, false, fmt.Errorf("decode: %w", err)
	}
	result.Stats.DecodeTime = time.Since(decodeStart)

	if _, err := r.build(ctx, img, opts, result); err != nil {
		return nil, false, err
	}
	result.Summary.ImageFormat = format
	r.storeSummary(ctx, result.ImageHash, opts, result.Summary)
	return result, false, nil
}

// Summarize is a convenience wrapper that calls SummarizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Summarize(ctx context.Context, opts Options) (*Result, error) {
	res, _, err := r.SummarizeWithCacheInfo(ctx, opts)
	return res, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) build(ctx context.Context, img *raster.Image, opts Options, result *Result) (*quadtree.Tree, error) {
	buildStart := time.Now()
	tree, err := Build(ctx, img, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Tree = tree
	result.Stats.BuildTime = time.Since(buildStart)
	result.Summary = Summary{
		Width:     img.Width(),
		Height:    img.Height(),
		Threshold: opts.Threshold,
		MaxDepth:  opts.MaxDepth,
		Tree:      tree.Stats(),
	}

	opts.Logger.Info("built quadtree",
		"nodes", result.Summary.Tree.Nodes,
		"leaves", result.Summary.Tree.Leaves,
		"depth", result.Summary.Tree.Depth,
		"duration", result.Stats.BuildTime)
	return tree, nil
}

func (r *Runner) cachedSummary(ctx context.Context, hash string, opts Options) (Summary, bool) {
	data, ok := r.get(ctx, keyTypeSummary, r.Keyer.StatsKey(hash, opts.StatsKeyOpts()))
	if !ok {
		return Summary{}, false
	}
	var sum Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return Summary{}, false
	}
	return sum, true
}

func (r *Runner) storeSummary(ctx context.Context, hash string, opts Options, sum Summary) {
	data, err := json.Marshal(sum)
	if err != nil {
		return
	}
	r.set(ctx, keyTypeSummary, r.Keyer.StatsKey(hash, opts.StatsKeyOpts()), data, cache.TTLStats)
}

// cachedArtifacts returns every requested artifact, or false if any is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.formats))
	for _, f := range opts.formats {
		data, ok := r.get(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(f)))
		if !ok {
			return nil, false
		}
		artifacts[string(f)] = data
	}
	return artifacts, true
}

// get reads from the cache. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// set writes to the cache. Failures are logged and otherwise ignored.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
