package quadtree

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/boxypic/pkg/raster"
)

// solid returns a w x h image filled with one color.
func solid(w, h int, c Color) *raster.Image {
	img := raster.New(w, h)
	img.Fill(0, 0, w, h, uint8(c.R), uint8(c.G), uint8(c.B))
	return img
}

// noise returns a deterministic pseudo-random image.
func noise(w, h int, seed uint64) *raster.Image {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)))
		}
	}
	return img
}

// mustBuild fails the test on a build error.
func mustBuild(t *testing.T, src raster.Source, p Params) *Tree {
	t.Helper()
	tree, err := Build(src, p)
	if err != nil {
		t.Fatalf("Build(%+v) error: %v", p, err)
	}
	return tree
}

// checkPartition asserts that the leaves cover every pixel of the root exactly once.
func checkPartition(t *testing.T, tree *Tree) {
	t.Helper()
	b := tree.Bounds
	hits := make([]int, b.Area())
	for _, q := range tree.Leaves() {
		if q.Rect.Empty() {
			t.Fatalf("leaf %s is empty", q.Rect)
		}
		for y := q.Rect.Min.Y; y < q.Rect.Max.Y; y++ {
			for x := q.Rect.Min.X; x < q.Rect.Max.X; x++ {
				hits[y*b.Dx()+x]++
			}
		}
	}
	for i, n := range hits {
		if n != 1 {
			t.Fatalf("pixel (%d,%d) covered %d times, want 1", i%b.Dx(), i/b.Dx(), n)
		}
	}
}
