package quadtree

import (
	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/raster"
)

// Default parameters.
const (
	DefaultThreshold = 5.0
	DefaultMaxDepth  = 7
)

// Params are the tuning inputs of a build.
type Params struct {
	// Threshold is the largest color-magnitude difference between a node and
	// any of its quadrants that still lets the node stay a leaf.
	Threshold float64 `json:"threshold" toml:"threshold"`
	// MaxDepth bounds recursion; the root has depth 0.
	MaxDepth int `json:"depth" toml:"depth"`
}

// DefaultParams returns threshold 5.0 and depth 7.
func DefaultParams() Params {
	return Params{Threshold: DefaultThreshold, MaxDepth: DefaultMaxDepth}
}

// Validate checks Threshold and MaxDepth.
func (p Params) Validate() error {
	if err := errors.ValidateThreshold(p.Threshold); err != nil {
		return err
	}
	return errors.ValidateMaxDepth(p.MaxDepth)
}

// BuildOption configures Build.
type BuildOption func(*builder)

// WithPolicy replaces the default MagnitudePolicy.
func WithPolicy(p Policy) BuildOption {
	return func(b *builder) { b.policy = p }
}

// WithNodeLimit makes Build fail with RESOURCE_EXHAUSTED instead of
// allocating more than n nodes. Zero or negative means unlimited.
func WithNodeLimit(n int) BuildOption {
	return func(b *builder) { b.limit = n }
}

type builder struct {
	src      raster.Source
	policy   Policy
	maxDepth int
	limit    int
	count    int
}

// Build decomposes src into a quadtree.
//
// The root covers the whole image at depth 0. A node becomes internal when
// it is above MaxDepth, at least 2x2 pixels, and the policy accepts the split
// of its four quadrant candidates; otherwise it is a leaf. Candidate quads of
// an accepted split become the children's quads, so each region is
// aggregated once.
func Build(src raster.Source, params Params, opts ...BuildOption) (*Tree, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidImage, "no image")
	}
	if err := errors.ValidateDimensions(src.Width(), src.Height()); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		src:      src,
		policy:   MagnitudePolicy{Threshold: params.Threshold},
		maxDepth: params.MaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}

	bounds := R(0, 0, src.Width(), src.Height())
	root, err := b.node(aggregate(src, bounds), 0)
	if err != nil {
		return nil, err
	}
	return &Tree{Root: root, Params: params, Bounds: bounds, nodes: b.count}, nil
}

func (b *builder) node(q Quad, depth int) (*Node, error) {
	b.count++
	if b.limit > 0 && b.count > b.limit {
		return nil, errors.New(errors.ErrCodeResourceExhausted, "node limit %d exceeded", b.limit)
	}

	n := &Node{Quad: q, Depth: depth}
	if depth >= b.maxDepth || !q.Rect.Splittable() {
		return n, nil
	}

	var candidates [4]Quad
	for i, r := range q.Rect.Quadrants() {
		candidates[i] = aggregate(b.src, r)
	}
	if !b.policy.ShouldSplit(q, candidates) {
		return n, nil
	}

	var children [4]*Node
	for i, c := range candidates {
		child, err := b.node(c, depth+1)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	n.Children = &children
	return n, nil
}
