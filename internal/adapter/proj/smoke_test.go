//go:build proj

package proj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests link against the real PROJ C library.
// Run with: go test -tags=proj ./internal/adapter/proj/ -v -count=1

func TestSmoke_StereographicForward(t *testing.T) {
	p, err := NewProvider().NewProjection(
		"+proj=stere +lon_0=25E +lat_0=90N +lat_ts=60 +a=6371288 +x_0=380886.310 +y_0=3395677.920 +no_defs")
	require.NoError(t, err)

	// Bottom-left corner of the Finnish national composite.
	x1, y1, err := p.Forward(18.6, 57.93)
	require.NoError(t, err)
	x2, y2, err := p.Forward(34.903, 69.005)
	require.NoError(t, err)

	assert.Greater(t, x2, x1)
	assert.Greater(t, y2, y1)
	// The composite spans roughly 760 km east-west at ~1 km pixels.
	assert.InDelta(t, 760000, x2-x1, 100000)
}

func TestSmoke_SwissObliqueMercator(t *testing.T) {
	p, err := NewProvider().NewProjection(
		"+proj=somerc +lon_0=7.439583333333333 +lat_0=46.95240555555556 +k_0=1 +x_0=600000 +y_0=200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs")
	require.NoError(t, err)

	// The projection origin (Bern) must land on the false easting/northing.
	x, y, err := p.Forward(7.439583333333333, 46.95240555555556)
	require.NoError(t, err)

	assert.InDelta(t, 600000, x, 1)
	assert.InDelta(t, 200000, y, 1)
}

func TestSmoke_InvalidDefinition(t *testing.T) {
	_, err := NewProvider().NewProjection("+proj=no-such-projection")
	assert.Error(t, err)
}
