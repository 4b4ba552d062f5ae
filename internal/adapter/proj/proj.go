// Package proj adapts the PROJ coordinate transformation library, via
// github.com/twpayne/go-proj, to the importer.ProjectionProvider capability.
package proj

import (
	"math"

	goproj "github.com/twpayne/go-proj/v11"

	"github.com/couchcryptid/precip-ingest/internal/importer"
)

// Provider builds forward projections backed by the PROJ C library.
type Provider struct{}

// NewProvider returns a PROJ-backed projection provider.
func NewProvider() *Provider {
	return &Provider{}
}

// NewProjection compiles a PROJ-string definition into a projection.
func (Provider) NewProjection(definition string) (importer.Projection, error) {
	pj, err := goproj.New(definition)
	if err != nil {
		return nil, err
	}
	return &projection{pj: pj}, nil
}

type projection struct {
	pj *goproj.PJ
}

// Forward projects degrees to projected meters. A PJ built from a bare
// projection definition expects angular input in radians, so the conversion
// happens here rather than in the importers.
func (p *projection) Forward(lon, lat float64) (float64, float64, error) {
	coord, err := p.pj.Forward(goproj.NewCoord(lon*math.Pi/180, lat*math.Pi/180, 0, 0))
	if err != nil {
		return 0, 0, err
	}
	return coord.X(), coord.Y(), nil
}
