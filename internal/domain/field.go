package domain

import "math"

// Field is a dense row-major 2-D array of physical quantity values for one
// raster snapshot. Missing cells hold NaN; every other cell holds a value in
// the unit declared by the accompanying Metadata.
type Field struct {
	Data []float64 // row-major, len == Rows*Cols
	Rows int
	Cols int
}

// NewField allocates a zeroed rows×cols field.
func NewField(rows, cols int) *Field {
	return &Field{
		Data: make([]float64, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// At returns the value at row r, column c.
func (f *Field) At(r, c int) float64 {
	return f.Data[r*f.Cols+c]
}

// Set stores v at row r, column c.
func (f *Field) Set(r, c int, v float64) {
	f.Data[r*f.Cols+c] = v
}

// IsMissing reports whether the cell at row r, column c holds the
// missing-data marker.
func (f *Field) IsMissing(r, c int) bool {
	return math.IsNaN(f.At(r, c))
}

// Range returns the minimum and maximum finite values in the field. The
// second return is false when the field contains no finite values.
func (f *Field) Range() (minimum, maximum float64, ok bool) {
	minimum, maximum = math.Inf(1), math.Inf(-1)
	for _, v := range f.Data {
		if math.IsNaN(v) {
			continue
		}
		if v < minimum {
			minimum = v
		}
		if v > maximum {
			maximum = v
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return minimum, maximum, true
}
