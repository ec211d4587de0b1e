// Package raster provides the in-memory pixel source that boxypic decomposes.
//
// An [Image] stores tightly packed RGB888 samples and answers [Source.RGB] in
// constant time. Any decoded [image.Image] can be converted with [FromImage];
// alpha is discarded, matching an RGB888 surface.
//
// [Load] and [Decode] read files in every format registered with the standard
// image package plus BMP, TIFF and WebP from golang.org/x/image. Large inputs
// can be shrunk on load with [LoadOptions.MaxSize].
package raster
