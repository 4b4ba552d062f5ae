package importer

import (
	"fmt"
	"math"

	"github.com/couchcryptid/precip-ingest/internal/domain"
)

const bomInstitution = "Bureau of Meteorology"

// BOM imports Rainfields3 NetCDF rainfall composites from the Australian
// Bureau of Meteorology. The files are self-describing: the payload lives in
// a "precipitation" variable, the coordinate reference in the attributes of a
// "proj" grid-mapping variable, and the accumulation interval in the
// start_time/valid_time instants.
//
// Unlike the other formats, absence is not an error here: a file without a
// precipitation variable yields a nil field, and a file without a recognized
// projection yields a nil georeference. Callers must check both.
type BOM struct {
	reader DatasetReader
}

// NewBOM creates the Bureau of Meteorology importer with the given dataset
// reader.
func NewBOM(reader DatasetReader) *BOM {
	return &BOM{reader: reader}
}

// Import reads a Rainfields3 file and returns the rainfall field rescaled to
// mm/h when the accumulation interval is derivable, the Albers georeference
// when present, and metadata.
func (imp *BOM) Import(path string) (*domain.Composite, error) {
	if imp.reader == nil {
		return nil, fmt.Errorf("%w: dataset reader", ErrMissingDependency)
	}

	ds, err := imp.reader.Open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	field, timestep, err := bomField(ds)
	if err != nil {
		return nil, err
	}
	geo, err := bomGeodata(ds)
	if err != nil {
		return nil, err
	}

	return &domain.Composite{
		Field: field,
		Geo:   geo,
		Meta: domain.Metadata{
			Institution: bomInstitution,
			Timestep:    timestep,
			Unit:        domain.UnitMMH,
		},
	}, nil
}

// bomField reads the precipitation variable and, when the accumulation
// interval is known, rescales the accumulated depth (mm) to a rate (mm/h) by
// multiplying with 60/timestep. A file without the variable yields a nil
// field. When the interval cannot be derived the values are left as imported
// and the timestep is reported as 0.
func bomField(ds Dataset) (*domain.Field, int, error) {
	if !ds.HasVariable("precipitation") {
		return nil, 0, nil
	}
	v, err := ds.Variable("precipitation")
	if err != nil {
		return nil, 0, err
	}
	field, err := gridToField(v.Values)
	if err != nil {
		return nil, 0, err
	}

	timestep, err := bomTimestep(ds)
	if err != nil {
		return nil, 0, err
	}
	if timestep > 0 {
		factor := 60 / float64(timestep)
		for i := range field.Data {
			field.Data[i] *= factor
		}
	}
	return field, timestep, nil
}

// bomTimestep derives the accumulation interval in whole minutes from the
// start_time and valid_time instants (epoch seconds). It returns 0 when
// either instant is absent or the elapsed time is under one minute; a
// valid_time before start_time is malformed.
func bomTimestep(ds Dataset) (int, error) {
	start, okStart, err := scalarInstant(ds, "start_time")
	if err != nil {
		return 0, err
	}
	valid, okValid, err := scalarInstant(ds, "valid_time")
	if err != nil {
		return 0, err
	}
	if !okStart || !okValid {
		return 0, nil
	}

	elapsed := valid - start
	if elapsed < 0 {
		return 0, fmt.Errorf("%w: valid_time precedes start_time by %ds", ErrParse, -elapsed)
	}
	return int(elapsed / 60), nil
}

// scalarInstant reads an epoch-seconds variable, tolerating the scalar and
// one-element-slice encodings NetCDF writers produce.
func scalarInstant(ds Dataset, name string) (int64, bool, error) {
	if !ds.HasVariable(name) {
		return 0, false, nil
	}
	v, err := ds.Variable(name)
	if err != nil {
		return 0, false, err
	}
	sec, err := toEpochSeconds(v.Values)
	if err != nil {
		return 0, false, fmt.Errorf("%w: variable %q: %v", ErrParse, name, err)
	}
	return sec, true, nil
}

func toEpochSeconds(values any) (int64, error) {
	switch v := values.(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []int32:
		if len(v) == 1 {
			return int64(v[0]), nil
		}
	case []int64:
		if len(v) == 1 {
			return v[0], nil
		}
	case []uint32:
		if len(v) == 1 {
			return int64(v[0]), nil
		}
	case []uint64:
		if len(v) == 1 {
			return int64(v[0]), nil
		}
	case []float64:
		if len(v) == 1 {
			return int64(v[0]), nil
		}
	}
	return 0, fmt.Errorf("not an epoch-seconds scalar (%T)", values)
}

// gridToField converts a decoded 2-D variable into a field, accepting the
// numeric element types Rainfields3 writers are known to emit.
func gridToField(values any) (*domain.Field, error) {
	switch v := values.(type) {
	case [][]float64:
		return rowsToField(v, func(x float64) float64 { return x })
	case [][]float32:
		return rowsToField(v, func(x float32) float64 { return float64(x) })
	case [][]int32:
		return rowsToField(v, func(x int32) float64 { return float64(x) })
	case [][]int16:
		return rowsToField(v, func(x int16) float64 { return float64(x) })
	case [][]uint16:
		return rowsToField(v, func(x uint16) float64 { return float64(x) })
	default:
		return nil, fmt.Errorf("%w: precipitation variable is not a 2-D numeric grid (%T)", ErrParse, values)
	}
}

func rowsToField[T any](rows [][]T, conv func(T) float64) (*domain.Field, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: precipitation grid is empty", ErrParse)
	}
	cols := len(rows[0])
	field := domain.NewField(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: precipitation grid is ragged (row %d has %d cells, want %d)", ErrParse, r, len(row), cols)
		}
		for c, cell := range row {
			field.Set(r, c, conv(cell))
		}
	}
	return field, nil
}

// bomGeodata assembles the projection definition from the "proj" grid-mapping
// variable. Only the Albers equal-area family is supported; any other or
// absent family yields a nil georeference. When x/y coordinate variables are
// present the extent is derived from them (projected meters); otherwise the
// georeference carries the projection only.
func bomGeodata(ds Dataset) (*domain.Georeference, error) {
	if !ds.HasVariable("proj") {
		return nil, nil
	}
	v, err := ds.Variable("proj")
	if err != nil {
		return nil, err
	}
	if family, _ := attrString(v.Attributes, "grid_mapping_name"); family != "albers_conical_equal_area" {
		return nil, nil
	}

	lon0, err := requiredAttrFloat(v.Attributes, "longitude_of_central_meridian")
	if err != nil {
		return nil, err
	}
	lat0, err := requiredAttrFloat(v.Attributes, "latitude_of_projection_origin")
	if err != nil {
		return nil, err
	}
	parallels, err := requiredAttrFloatPair(v.Attributes, "standard_parallel")
	if err != nil {
		return nil, err
	}

	geo := &domain.Georeference{
		Projection: fmt.Sprintf("+proj=aea +lon_0=%g +lat_0=%g +lat_1=%g +lat_2=%g",
			lon0, lat0, parallels[0], parallels[1]),
		YOrigin: domain.YOriginUpper,
	}
	if err := fillBOMExtent(ds, geo); err != nil {
		return nil, err
	}
	return geo, nil
}

// fillBOMExtent derives pixel sizes from the x/y coordinate spacing and the
// bounding box from the outer cell edges. Coordinates with a units attribute
// of "km" are scaled to meters. Files without coordinate variables keep a
// zero extent.
func fillBOMExtent(ds Dataset, geo *domain.Georeference) error {
	xs, okX, err := coordValues(ds, "x")
	if err != nil {
		return err
	}
	ys, okY, err := coordValues(ds, "y")
	if err != nil {
		return err
	}
	if !okX || !okY || len(xs) < 2 || len(ys) < 2 {
		return nil
	}

	xps := math.Abs(xs[1] - xs[0])
	yps := math.Abs(ys[1] - ys[0])
	if xps == 0 || yps == 0 {
		return fmt.Errorf("%w: degenerate coordinate spacing", ErrParse)
	}

	geo.XPixelSize = xps
	geo.YPixelSize = yps
	geo.X1 = math.Min(xs[0], xs[len(xs)-1]) - xps/2
	geo.X2 = math.Max(xs[0], xs[len(xs)-1]) + xps/2
	geo.Y1 = math.Min(ys[0], ys[len(ys)-1]) - yps/2
	geo.Y2 = math.Max(ys[0], ys[len(ys)-1]) + yps/2
	if ys[0] < ys[len(ys)-1] {
		geo.YOrigin = domain.YOriginLower
	}
	return nil
}

// coordValues reads a 1-D coordinate variable as float64 meters.
func coordValues(ds Dataset, name string) ([]float64, bool, error) {
	if !ds.HasVariable(name) {
		return nil, false, nil
	}
	v, err := ds.Variable(name)
	if err != nil {
		return nil, false, err
	}

	var out []float64
	switch vals := v.Values.(type) {
	case []float64:
		out = append(out, vals...)
	case []float32:
		out = make([]float64, len(vals))
		for i, x := range vals {
			out[i] = float64(x)
		}
	case []int32:
		out = make([]float64, len(vals))
		for i, x := range vals {
			out[i] = float64(x)
		}
	default:
		return nil, false, fmt.Errorf("%w: coordinate variable %q is not a 1-D numeric array (%T)", ErrParse, name, v.Values)
	}

	if units, _ := attrString(v.Attributes, "units"); units == "km" {
		for i := range out {
			out[i] *= 1000
		}
	}
	return out, true, nil
}

func attrString(attrs map[string]any, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	s, ok := attrs[key].(string)
	return s, ok
}

func requiredAttrFloat(attrs map[string]any, key string) (float64, error) {
	v, ok := attrs[key]
	if !ok {
		return 0, fmt.Errorf("%w: projection attribute %q absent", ErrParse, key)
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: projection attribute %q: %v", ErrParse, key, err)
	}
	return f, nil
}

func requiredAttrFloatPair(attrs map[string]any, key string) ([2]float64, error) {
	v, ok := attrs[key]
	if !ok {
		return [2]float64{}, fmt.Errorf("%w: projection attribute %q absent", ErrParse, key)
	}

	var raw []any
	switch vals := v.(type) {
	case []float64:
		for _, x := range vals {
			raw = append(raw, x)
		}
	case []float32:
		for _, x := range vals {
			raw = append(raw, x)
		}
	case []any:
		raw = vals
	default:
		// A single standard parallel is valid for Albers; use it twice.
		raw = []any{v}
	}
	if len(raw) == 0 {
		return [2]float64{}, fmt.Errorf("%w: projection attribute %q is empty", ErrParse, key)
	}
	if len(raw) == 1 {
		raw = append(raw, raw[0])
	}

	var pair [2]float64
	for i := 0; i < 2; i++ {
		f, err := toFloat(raw[i])
		if err != nil {
			return [2]float64{}, fmt.Errorf("%w: projection attribute %q: %v", ErrParse, key, err)
		}
		pair[i] = f
	}
	return pair, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case []float64:
		if len(x) == 1 {
			return x[0], nil
		}
	case []float32:
		if len(x) == 1 {
			return float64(x[0]), nil
		}
	}
	return 0, fmt.Errorf("not a numeric scalar (%T)", v)
}
