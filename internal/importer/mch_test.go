package importer

import (
	"image"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/precip-ingest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDecoder struct {
	img image.Image
	err error
}

func (s stubDecoder) Decode(io.Reader) (image.Image, error) {
	return s.img, s.err
}

func grayPalette() color.Palette {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	return pal
}

func TestAQCTable(t *testing.T) {
	t.Run("reserved indices decode to zero", func(t *testing.T) {
		for _, i := range []int{0, 1, 251, 252, 253, 254} {
			assert.Equal(t, 0.0, aqcTable[i], "index %d", i)
		}
	})

	t.Run("index 255 is the missing marker", func(t *testing.T) {
		assert.True(t, math.IsNaN(aqcTable[255]))
	})

	t.Run("monotonically non-decreasing over 2..250", func(t *testing.T) {
		for i := 3; i <= 250; i++ {
			assert.GreaterOrEqual(t, aqcTable[i], aqcTable[i-1], "index %d", i)
		}
	})

	t.Run("rates are positive over 2..250", func(t *testing.T) {
		assert.Greater(t, aqcTable[2], 0.0)
		assert.Greater(t, aqcTable[250], aqcTable[2])
	})
}

func TestMCHImport(t *testing.T) {
	t.Run("translates indices through the decode table", func(t *testing.T) {
		img := image.NewPaletted(image.Rect(0, 0, 3, 2), grayPalette())
		copy(img.Pix, []uint8{0, 100, 255, 2, 251, 150})
		path := writeFile(t, "aqc.gif", []byte("placeholder"))

		c, err := NewMCH(stubDecoder{img: img}).Import(path)
		require.NoError(t, err)

		require.NotNil(t, c.Field)
		assert.Equal(t, 2, c.Field.Rows)
		assert.Equal(t, 3, c.Field.Cols)
		assert.Equal(t, 0.0, c.Field.At(0, 0))
		assert.Equal(t, aqcTable[100], c.Field.At(0, 1))
		assert.True(t, c.Field.IsMissing(0, 2))
		assert.Equal(t, aqcTable[2], c.Field.At(1, 0))
		assert.Equal(t, 0.0, c.Field.At(1, 1))
	})

	t.Run("hard-coded CH1903 georeference", func(t *testing.T) {
		img := image.NewPaletted(image.Rect(0, 0, 1, 1), grayPalette())
		path := writeFile(t, "aqc.gif", []byte("placeholder"))

		c, err := NewMCH(stubDecoder{img: img}).Import(path)
		require.NoError(t, err)

		require.NotNil(t, c.Geo)
		assert.Contains(t, c.Geo.Projection, "+proj=somerc")
		assert.Contains(t, c.Geo.Projection, "+ellps=bessel")
		assert.Equal(t, 255000.0, c.Geo.X1)
		assert.Equal(t, 160000.0, c.Geo.Y1)
		assert.Equal(t, 965000.0, c.Geo.X2)
		assert.Equal(t, 480000.0, c.Geo.Y2)
		assert.Greater(t, c.Geo.X2, c.Geo.X1)
		assert.Greater(t, c.Geo.Y2, c.Geo.Y1)
		assert.Equal(t, 1000.0, c.Geo.XPixelSize)
		assert.Equal(t, 1000.0, c.Geo.YPixelSize)
		assert.Equal(t, domain.YOriginUpper, c.Geo.YOrigin)
	})

	t.Run("fixed metadata", func(t *testing.T) {
		img := image.NewPaletted(image.Rect(0, 0, 1, 1), grayPalette())
		path := writeFile(t, "aqc.gif", []byte("placeholder"))

		c, err := NewMCH(stubDecoder{img: img}).Import(path)
		require.NoError(t, err)

		assert.Equal(t, "MeteoSwiss", c.Meta.Institution)
		assert.Equal(t, 5, c.Meta.Timestep)
		assert.Equal(t, domain.UnitMMH, c.Meta.Unit)
	})

	t.Run("full-size composite satisfies the output contract", func(t *testing.T) {
		img := image.NewPaletted(image.Rect(0, 0, 710, 320), grayPalette())
		for i := range img.Pix {
			img.Pix[i] = uint8(i % 256)
		}
		path := writeFile(t, "aqc.gif", []byte("placeholder"))

		c, err := NewMCH(stubDecoder{img: img}).Import(path)
		require.NoError(t, err)
		require.NoError(t, domain.CheckConformance(c))
	})

	t.Run("missing raster decoder fails before file access", func(t *testing.T) {
		_, err := NewMCH(nil).Import(filepath.Join(t.TempDir(), "does-not-exist.gif"))

		require.ErrorIs(t, err, ErrMissingDependency)
	})

	t.Run("zero-area raster", func(t *testing.T) {
		path := writeFile(t, "aqc.gif", []byte("placeholder"))

		_, err := NewMCH(stubDecoder{img: image.NewPaletted(image.Rect(0, 0, 0, 0), grayPalette())}).Import(path)
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("non-indexed raster", func(t *testing.T) {
		path := writeFile(t, "aqc.gif", []byte("placeholder"))

		_, err := NewMCH(stubDecoder{img: image.NewGray(image.Rect(0, 0, 1, 1))}).Import(path)
		require.ErrorIs(t, err, ErrParse)
	})
}
