package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validComposite() *Composite {
	return &Composite{
		Field: NewField(320, 710),
		Geo: &Georeference{
			Projection: "+proj=somerc +lon_0=7.439583333333333 +lat_0=46.95240555555556 +units=m +no_defs",
			X1:         255000,
			Y1:         160000,
			X2:         965000,
			Y2:         480000,
			XPixelSize: 1000,
			YPixelSize: 1000,
			YOrigin:    YOriginUpper,
		},
		Meta: Metadata{Institution: "MeteoSwiss", Timestep: 5, Unit: UnitMMH},
	}
}

func TestCheckConformance(t *testing.T) {
	t.Run("complete triple passes", func(t *testing.T) {
		require.NoError(t, CheckConformance(validComposite()))
	})

	t.Run("rejects unit outside the enumeration", func(t *testing.T) {
		c := validComposite()
		c.Meta.Unit = "inches"

		err := CheckConformance(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unit")
	})

	t.Run("rejects inverted bounding box", func(t *testing.T) {
		c := validComposite()
		c.Geo.X1, c.Geo.X2 = c.Geo.X2, c.Geo.X1

		err := CheckConformance(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "x2")
	})

	t.Run("rejects extent inconsistent with field shape", func(t *testing.T) {
		c := validComposite()
		c.Field = NewField(100, 710)

		err := CheckConformance(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows")
	})

	t.Run("tolerates rounding in implied pixel counts", func(t *testing.T) {
		c := validComposite()
		// 709.99 columns still rounds to 710.
		c.Geo.X2 = c.Geo.X1 + 709.99*c.Geo.XPixelSize

		require.NoError(t, CheckConformance(c))
	})

	t.Run("rejects unknown yorigin", func(t *testing.T) {
		c := validComposite()
		c.Geo.YOrigin = "middle"

		err := CheckConformance(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "yorigin")
	})

	t.Run("projection-only georeference passes", func(t *testing.T) {
		c := validComposite()
		c.Geo = &Georeference{
			Projection: "+proj=aea +lon_0=132 +lat_0=-27 +lat_1=-18 +lat_2=-36",
			YOrigin:    YOriginUpper,
		}

		require.NoError(t, CheckConformance(c))
	})

	t.Run("nil georeference passes", func(t *testing.T) {
		c := validComposite()
		c.Geo = nil

		require.NoError(t, CheckConformance(c))
	})

	t.Run("nil field passes with georeference intact", func(t *testing.T) {
		c := validComposite()
		c.Field = nil

		require.NoError(t, CheckConformance(c))
	})
}

func TestValidUnit(t *testing.T) {
	assert.True(t, ValidUnit(UnitDBZ))
	assert.True(t, ValidUnit(UnitMMH))
	assert.True(t, ValidUnit(UnitMM))
	assert.False(t, ValidUnit("dbz"))
	assert.False(t, ValidUnit(""))
}
