package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/boxypic/pkg/errors"
)

// LoadOptions controls decoding.
type LoadOptions struct {
	// MaxSize, when positive, shrinks the image so neither side exceeds it.
	// Aspect ratio is preserved; smaller images are left untouched.
	MaxSize int
}

// Load decodes the image file at path.
func Load(path string, opts LoadOptions) (*Image, string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data), opts)
}

// Decode reads an encoded image from r and converts it to an RGB888 raster.
// The returned string is the format name reported by the decoder.
func Decode(r io.Reader, opts LoadOptions) (*Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	b := img.Bounds()
	if err := errors.ValidateDimensions(b.Dx(), b.Dy()); err != nil {
		return nil, format, err
	}
	if opts.MaxSize > 0 && (b.Dx() > opts.MaxSize || b.Dy() > opts.MaxSize) {
		img = imaging.Fit(img, opts.MaxSize, opts.MaxSize, imaging.Lanczos)
	}
	return FromImage(img), format, nil
}
