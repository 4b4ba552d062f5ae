package importer

import (
	"fmt"
	"image"
	"math"
	"os"

	"github.com/couchcryptid/precip-ingest/internal/domain"
)

const (
	mchInstitution = "MeteoSwiss"
	mchTimestep    = 5 // minutes between composites
)

// aqcTable maps each 8-bit palette index of an AQC composite to a rain rate
// in mm/h. The table is pure and input-independent, so it is computed once at
// process start and shared read-only across calls.
var aqcTable = buildAQCTable()

// buildAQCTable derives the decode table from the Z-R relationship
// Z = 316*R^1.5, where index i encodes dBZ as (i-71.2)/20 in log10 space,
// with a 5-minute accumulation normalization (x60/5) baked in. Indices 0, 1
// and 251-254 are reserved for "no precipitation"; 255 marks missing data.
func buildAQCTable() [256]float64 {
	const a, b = 316.0, 1.5

	var table [256]float64
	for i := range table {
		switch {
		case i < 2 || (i > 250 && i < 255):
			table[i] = 0
		case i == 255:
			table[i] = math.NaN()
		default:
			z := math.Pow(10, (float64(i)-71.2)/20)
			table[i] = math.Pow(z/a, 1/b) * 60 / mchTimestep
		}
	}
	return table
}

// MCH imports 8-bit indexed-color GIF rain-rate composites (AQC product)
// from the MeteoSwiss archive. The files carry no georeferencing, so the
// Swiss CH1903 grid is hard-coded; palette indices are translated to mm/h
// through the AQC decode table.
type MCH struct {
	dec RasterDecoder
}

// NewMCH creates the MeteoSwiss importer with the given raster decoder.
func NewMCH(dec RasterDecoder) *MCH {
	return &MCH{dec: dec}
}

// Import reads an AQC composite and returns the rain-rate field in mm/h with
// the fixed CH1903 georeference and metadata.
func (imp *MCH) Import(path string) (*domain.Composite, error) {
	if imp.dec == nil {
		return nil, fmt.Errorf("%w: raster decoder", ErrMissingDependency)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imp.dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode aqc raster: %w", err)
	}
	pal, ok := img.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("%w: expected 8-bit indexed raster, got %T", ErrParse, img)
	}

	b := pal.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: raster is empty (%dx%d)", ErrParse, b.Dx(), b.Dy())
	}
	field := domain.NewField(b.Dy(), b.Dx())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			field.Set(y, x, aqcTable[pal.ColorIndexAt(b.Min.X+x, b.Min.Y+y)])
		}
	}

	return &domain.Composite{
		Field: field,
		Geo:   mchGeodata(),
		Meta: domain.Metadata{
			Institution: mchInstitution,
			Timestep:    mchTimestep,
			Unit:        domain.UnitMMH,
		},
	}, nil
}

// mchGeodata returns the fixed CH1903 composite grid: an oblique Mercator
// projection on the Bessel ellipsoid, a 710x320 km extent, 1 km pixels.
func mchGeodata() *domain.Georeference {
	return &domain.Georeference{
		Projection: "+proj=somerc +lon_0=7.439583333333333 +lat_0=46.95240555555556" +
			" +k_0=1 +x_0=600000 +y_0=200000 +ellps=bessel" +
			" +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs",
		X1:         255000,
		Y1:         160000,
		X2:         965000,
		Y2:         480000,
		XPixelSize: 1000,
		YPixelSize: 1000,
		YOrigin:    domain.YOriginUpper,
	}
}
