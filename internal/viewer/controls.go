// Package viewer runs the interactive frame loop in a desktop window.
//
// Every frame samples the keyboard, folds it into the current [Controls],
// builds a fresh quadtree from the static source image, paints it, and
// drops the tree again. Nothing but the Controls survives between frames.
//
// Keys:
//
//	E / Q     threshold -0.1 / +0.1 while held
//	W         hide the outline while held
//	G F M     toggle greyscale, fill and grid mode
//	Up / Down depth +1 / -1
//	Esc / End quit
package viewer

import (
	"math"

	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
)

// ThresholdStep is applied once per frame while E or Q is held.
const ThresholdStep = 0.1

// Controls are the tuning inputs handed to each build→render cycle.
type Controls struct {
	Threshold float64
	Depth     int
	Outline   bool
	Greyscale bool
	Fill      bool
	Grid      bool

	// HideOutline suppresses the outline for the current frame only.
	HideOutline bool
}

// Input is one frame's worth of keyboard state.
type Input struct {
	// Held keys.
	ThresholdDown bool
	ThresholdUp   bool
	HideOutline   bool
	Quit          bool

	// Edge-triggered keys.
	DepthUp         bool
	DepthDown       bool
	ToggleOutline   bool
	ToggleGreyscale bool
	ToggleFill      bool
	ToggleGrid      bool
}

// DefaultControls returns threshold 5.0, depth 7, outlined and filled.
func DefaultControls() Controls {
	p := quadtree.DefaultParams()
	return Controls{
		Threshold: p.Threshold,
		Depth:     p.MaxDepth,
		Outline:   true,
		Fill:      true,
	}
}

// Step folds in into c and reports whether the loop should stop.
// The threshold never drops below zero and depth stays in
// [0, errors.MaxDepthLimit].
func (c Controls) Step(in Input) (Controls, bool) {
	if in.ThresholdDown {
		c.Threshold -= ThresholdStep
	}
	if in.ThresholdUp {
		c.Threshold += ThresholdStep
	}
	// Snap to one decimal so repeated steps do not drift.
	c.Threshold = max(0, math.Round(c.Threshold*10)/10)

	if in.DepthUp {
		c.Depth++
	}
	if in.DepthDown {
		c.Depth--
	}
	c.Depth = min(max(c.Depth, 0), errors.MaxDepthLimit)

	if in.ToggleOutline {
		c.Outline = !c.Outline
	}
	if in.ToggleGreyscale {
		c.Greyscale = !c.Greyscale
	}
	if in.ToggleFill {
		c.Fill = !c.Fill
	}
	if in.ToggleGrid {
		c.Grid = !c.Grid
	}
	c.HideOutline = in.HideOutline
	return c, in.Quit
}

// Params returns the build parameters.
func (c Controls) Params() quadtree.Params {
	return quadtree.Params{Threshold: c.Threshold, MaxDepth: c.Depth}
}

// RenderOptions returns the painting options for the current frame.
func (c Controls) RenderOptions(pal render.Palette) render.Options {
	return render.Options{
		Outline:   c.Outline && !c.HideOutline,
		Greyscale: c.Greyscale,
		Fill:      c.Fill,
		Palette:   pal,
	}
}
