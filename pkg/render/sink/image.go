package sink

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/matzehuels/boxypic/pkg/errors"
	"github.com/matzehuels/boxypic/pkg/quadtree"
	"github.com/matzehuels/boxypic/pkg/render"
	"github.com/matzehuels/boxypic/pkg/render/surface"
)

// RenderImage paints tree onto a fresh raster canvas and returns it.
// The engine option is ignored; use [RenderPNG] or [RenderJPEG] for vector
// output.
func RenderImage(tree *quadtree.Tree, opts ...Option) (*image.RGBA, error) {
	c := newConfig(opts)
	canvas, err := drawCanvas(tree, c)
	if err != nil {
		return nil, err
	}
	return canvas.Image(), nil
}

// RenderPNG renders tree and encodes it as PNG.
func RenderPNG(tree *quadtree.Tree, opts ...Option) ([]byte, error) {
	return encode(tree, newConfig(opts), func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	}, func(w io.Writer, v *surface.Vector) error {
		return v.EncodePNG(w)
	})
}

// RenderJPEG renders tree and encodes it as JPEG.
func RenderJPEG(tree *quadtree.Tree, opts ...Option) ([]byte, error) {
	c := newConfig(opts)
	if c.quality < 1 || c.quality > 100 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "jpeg quality %d out of range 1-100", c.quality)
	}
	return encode(tree, c, func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: c.quality})
	}, func(w io.Writer, v *surface.Vector) error {
		return v.EncodeJPEG(w, c.quality)
	})
}

func encode(
	tree *quadtree.Tree,
	c config,
	rasterEnc func(io.Writer, image.Image) error,
	vectorEnc func(io.Writer, *surface.Vector) error,
) ([]byte, error) {
	var buf bytes.Buffer
	if c.engine == EngineVector && !c.grid {
		v, err := drawVector(tree, c)
		if err != nil {
			return nil, err
		}
		defer v.Close()
		if err := vectorEnc(&buf, v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode")
		}
		return buf.Bytes(), nil
	}

	canvas, err := drawCanvas(tree, c)
	if err != nil {
		return nil, err
	}
	if err := rasterEnc(&buf, canvas.Image()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return buf.Bytes(), nil
}

func drawCanvas(tree *quadtree.Tree, c config) (*surface.Canvas, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: empty tree")
	}
	canvas := surface.NewCanvas(tree.Bounds.Dx(), tree.Bounds.Dy())
	if c.grid {
		render.RenderGrid(tree, canvas, c.render)
		return canvas, nil
	}
	if err := render.Render(tree, canvas, c.render); err != nil {
		return nil, err
	}
	return canvas, nil
}

func drawVector(tree *quadtree.Tree, c config) (*surface.Vector, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: empty tree")
	}
	v := surface.NewVector(tree.Bounds.Dx(), tree.Bounds.Dy())
	if err := render.Render(tree, v, c.render); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}
