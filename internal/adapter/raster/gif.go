// Package raster adapts image codecs to the importer.RasterDecoder
// capability.
package raster

import (
	"image"
	"image/gif"
	"io"
)

// GIFDecoder decodes GIF rasters with the standard library codec. Decoding
// preserves the palette indices, which is what the AQC decode table operates
// on.
type GIFDecoder struct{}

// NewGIFDecoder returns a GIF raster decoder.
func NewGIFDecoder() *GIFDecoder {
	return &GIFDecoder{}
}

// Decode reads the first frame of a GIF stream.
func (GIFDecoder) Decode(r io.Reader) (image.Image, error) {
	return gif.Decode(r)
}
