package pipeline

import (
	"bytes"

	"github.com/matzehuels/boxypic/pkg/raster"
)

// Decode turns the encoded image into a raster, downscaling it when
// MaxSize is set. It returns the raster and the name of the source format.
func Decode(opts Options) (*raster.Image, string, error) {
	return raster.Decode(bytes.NewReader(opts.Image), raster.LoadOptions{MaxSize: opts.MaxSize})
}
