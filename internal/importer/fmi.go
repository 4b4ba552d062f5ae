package importer

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/precip-ingest/internal/domain"
	pnm "github.com/jbuchbinder/gopnm"
)

// The PGM files never transmit the earth radius or the false easting and
// northing of the FMI composite grid, so they are fixed here.
const (
	fmiEarthRadius   = 6371288
	fmiFalseEasting  = 380886.310
	fmiFalseNorthing = 3395677.920

	fmiInstitution = "Finnish Meteorological Institute"
	fmiTimestep    = 5 // minutes between composites
)

// FMI imports 8-bit PGM radar reflectivity composites from the Finnish
// Meteorological Institute archive. The PGM comment block carries an ASCII
// header with the stereographic projection parameters and the geographic
// corner coordinates; the sample values encode reflectivity as (dBZ*2)+64.
type FMI struct {
	proj ProjectionProvider
}

// NewFMI creates the FMI importer. The projection provider reprojects the
// header's geographic corner coordinates into the composite grid.
func NewFMI(proj ProjectionProvider) *FMI {
	return &FMI{proj: proj}
}

// Import reads a PGM composite, optionally gzip-compressed, and returns the
// reflectivity field in dBZ with its georeference and metadata.
func (imp *FMI) Import(path string, gzipped bool) (*domain.Composite, error) {
	if imp.proj == nil {
		return nil, fmt.Errorf("%w: projection provider", ErrMissingDependency)
	}

	raw, err := readMaybeGzipped(path, gzipped)
	if err != nil {
		return nil, err
	}

	hdr, err := parseFMIHeader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	geo, err := imp.geodata(hdr)
	if err != nil {
		return nil, err
	}

	field, err := decodeFMIPayload(bytes.NewReader(raw), hdr.MissingValue)
	if err != nil {
		return nil, err
	}

	return &domain.Composite{
		Field: field,
		Geo:   geo,
		Meta: domain.Metadata{
			Institution: fmiInstitution,
			Timestep:    fmiTimestep,
			Unit:        domain.UnitDBZ,
			Extra:       map[string]any{"missingval": hdr.MissingValue},
		},
	}, nil
}

// readMaybeGzipped reads the whole file into memory, transparently
// decompressing when asked. A single read keeps the call at exactly one file
// handle even though the header and the payload are parsed separately.
func readMaybeGzipped(path string, gzipped bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}

// fmiHeader holds the typed contents of the PGM comment block. Fields keeps
// the raw token lists for keys outside the mandatory set.
type fmiHeader struct {
	ProjectionFamily string
	CentralLongitude string
	CentralLatitude  string
	TrueLatitude     string
	BottomLeft       [2]float64 // lon, lat of the lower-left corner
	TopRight         [2]float64 // lon, lat of the upper-right corner
	XPixelSize       float64
	YPixelSize       float64
	MissingValue     int
	Fields           map[string][]string
}

// parseFMIHeader scans past the preamble to the contiguous block of
// "#"-prefixed comment lines, collects their key/value token lists, and
// interprets the line after the block's terminating non-comment line as the
// integer missing-value sentinel. Comment lines with fewer than two tokens
// are tolerated and skipped.
func parseFMIHeader(r io.Reader) (*fmiHeader, error) {
	sc := bufio.NewScanner(r)

	fields := make(map[string][]string)
	inBlock := false
	terminated := false
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			inBlock = true
			tokens := strings.Fields(line[1:])
			if len(tokens) < 2 {
				continue
			}
			fields[tokens[0]] = tokens[1:]
			continue
		}
		if inBlock {
			// First non-comment line after the block; the sentinel
			// is on the line that follows it.
			terminated = true
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan header: %v", ErrParse, err)
	}
	if !inBlock || !terminated {
		return nil, fmt.Errorf("%w: header comment block absent or unterminated", ErrParse)
	}

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: scan header: %v", ErrParse, err)
		}
		return nil, fmt.Errorf("%w: missing-value line absent after header block", ErrParse)
	}
	sentinel, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return nil, fmt.Errorf("%w: missing-value line %q is not an integer", ErrParse, sc.Text())
	}

	return newFMIHeader(fields, sentinel)
}

// newFMIHeader extracts the mandatory keys from the raw comment fields.
func newFMIHeader(fields map[string][]string, sentinel int) (*fmiHeader, error) {
	h := &fmiHeader{MissingValue: sentinel, Fields: fields}

	var err error
	if h.ProjectionFamily, err = headerToken(fields, "type"); err != nil {
		return nil, err
	}
	if h.CentralLongitude, err = headerToken(fields, "centrallongitude"); err != nil {
		return nil, err
	}
	if h.CentralLatitude, err = headerToken(fields, "centrallatitude"); err != nil {
		return nil, err
	}
	if h.TrueLatitude, err = headerToken(fields, "truelatitude"); err != nil {
		return nil, err
	}
	if h.BottomLeft, err = headerLonLat(fields, "bottomleft"); err != nil {
		return nil, err
	}
	if h.TopRight, err = headerLonLat(fields, "topright"); err != nil {
		return nil, err
	}
	if h.XPixelSize, err = headerFloat(fields, "metersperpixel_x"); err != nil {
		return nil, err
	}
	if h.YPixelSize, err = headerFloat(fields, "metersperpixel_y"); err != nil {
		return nil, err
	}
	return h, nil
}

func headerToken(fields map[string][]string, key string) (string, error) {
	vals, ok := fields[key]
	if !ok || len(vals) == 0 {
		return "", fmt.Errorf("%w: header key %q absent", ErrParse, key)
	}
	return vals[0], nil
}

func headerFloat(fields map[string][]string, key string) (float64, error) {
	tok, err := headerToken(fields, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: header key %q value %q is not numeric", ErrParse, key, tok)
	}
	return v, nil
}

func headerLonLat(fields map[string][]string, key string) ([2]float64, error) {
	vals, ok := fields[key]
	if !ok || len(vals) < 2 {
		return [2]float64{}, fmt.Errorf("%w: header key %q needs a lon/lat pair", ErrParse, key)
	}
	var pair [2]float64
	for i := 0; i < 2; i++ {
		v, err := strconv.ParseFloat(vals[i], 64)
		if err != nil {
			return [2]float64{}, fmt.Errorf("%w: header key %q value %q is not numeric", ErrParse, key, vals[i])
		}
		pair[i] = v
	}
	return pair, nil
}

// geodata builds the stereographic projection from the header parameters and
// reprojects both geographic corners into the composite grid.
func (imp *FMI) geodata(h *fmiHeader) (*domain.Georeference, error) {
	if h.ProjectionFamily != "stereographic" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProjection, h.ProjectionFamily)
	}

	projdef := fmt.Sprintf(
		"+proj=stere +lon_0=%sE +lat_0=%sN +lat_ts=%s +a=%d +x_0=%.3f +y_0=%.3f +no_defs",
		h.CentralLongitude, h.CentralLatitude, h.TrueLatitude,
		fmiEarthRadius, fmiFalseEasting, fmiFalseNorthing,
	)

	p, err := imp.proj.NewProjection(projdef)
	if err != nil {
		return nil, fmt.Errorf("build projection: %w", err)
	}
	x1, y1, err := p.Forward(h.BottomLeft[0], h.BottomLeft[1])
	if err != nil {
		return nil, fmt.Errorf("project bottom-left corner: %w", err)
	}
	x2, y2, err := p.Forward(h.TopRight[0], h.TopRight[1])
	if err != nil {
		return nil, fmt.Errorf("project top-right corner: %w", err)
	}

	return &domain.Georeference{
		Projection: projdef,
		X1:         x1,
		Y1:         y1,
		X2:         x2,
		Y2:         y2,
		XPixelSize: h.XPixelSize,
		YPixelSize: h.YPixelSize,
		YOrigin:    domain.YOriginUpper,
	}, nil
}

// decodeFMIPayload decodes the PGM samples and rescales them to dBZ. Samples
// equal to the sentinel become NaN; everything else is (sample-64)/2.
func decodeFMIPayload(r io.Reader, sentinel int) (*domain.Field, error) {
	img, err := pnm.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode pgm payload: %w", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("%w: expected 8-bit grayscale samples, got %T", ErrParse, img)
	}

	b := gray.Bounds()
	field := domain.NewField(b.Dy(), b.Dx())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			s := int(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			if s == sentinel {
				field.Set(y, x, math.NaN())
				continue
			}
			field.Set(y, x, (float64(s)-64)/2)
		}
	}
	return field, nil
}
