package importer

import (
	"image"
	"io"
)

// Projection converts geographic coordinates into projected map coordinates.
type Projection interface {
	// Forward projects a longitude/latitude pair (degrees) into projected
	// coordinates (meters).
	Forward(lon, lat float64) (x, y float64, err error)
}

// ProjectionProvider constructs projections from PROJ-string definitions.
type ProjectionProvider interface {
	NewProjection(definition string) (Projection, error)
}

// RasterDecoder decodes an indexed-color raster image.
type RasterDecoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// Variable is one array variable read from a self-describing dataset,
// together with its attributes.
type Variable struct {
	Values     any
	Attributes map[string]any
}

// Dataset is an open handle onto a self-describing dataset file. Importers
// close it on every exit path.
type Dataset interface {
	HasVariable(name string) bool
	Variable(name string) (Variable, error)
	Close()
}

// DatasetReader opens self-describing dataset files.
type DatasetReader interface {
	Open(path string) (Dataset, error)
}
