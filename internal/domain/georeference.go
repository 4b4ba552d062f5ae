package domain

// YOrigin locates the first raster row relative to the y-axis.
type YOrigin string

const (
	// YOriginUpper means the first row is the upper border of the extent.
	YOriginUpper YOrigin = "upper"
	// YOriginLower means the first row is the lower border of the extent.
	YOriginLower YOrigin = "lower"
)

// Georeference describes the spatial placement, resolution, and coordinate
// system of a field.
type Georeference struct {
	// Projection is a PROJ-string-compatible definition, e.g.
	// "+proj=stere +lon_0=25E ...".
	Projection string `json:"projection"`

	// Bounding box of the data extent in projected coordinates:
	// (X1,Y1) is the lower-left corner, (X2,Y2) the upper-right.
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`

	// Ground sampling distance in meters.
	XPixelSize float64 `json:"xpixelsize"`
	YPixelSize float64 `json:"ypixelsize"`

	YOrigin YOrigin `json:"yorigin"`
}

// HasExtent reports whether the georeference carries a usable bounding box
// and pixel sizes. A projection-only georeference (BoM files without x/y
// coordinate variables) has no extent.
func (g *Georeference) HasExtent() bool {
	return g.XPixelSize > 0 && g.YPixelSize > 0
}
