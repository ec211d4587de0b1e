package quadtree

// Policy decides whether a node subdivides, given its own quad and the quads
// its four quadrants would have.
type Policy interface {
	ShouldSplit(parent Quad, candidates [4]Quad) bool
}

// MagnitudePolicy splits when any candidate's color magnitude differs from
// the parent's by strictly more than Threshold.
type MagnitudePolicy struct {
	Threshold float64
}

// ShouldSplit implements Policy.
func (p MagnitudePolicy) ShouldSplit(parent Quad, candidates [4]Quad) bool {
	for _, c := range candidates {
		if Diff(c.Color, parent.Color) > p.Threshold {
			return true
		}
	}
	return false
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(parent Quad, candidates [4]Quad) bool

// ShouldSplit implements Policy.
func (f PolicyFunc) ShouldSplit(parent Quad, candidates [4]Quad) bool {
	return f(parent, candidates)
}
