package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/precip-ingest/internal/domain"
	"github.com/couchcryptid/precip-ingest/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func minimalComposite() *domain.Composite {
	f := domain.NewField(1, 2)
	f.Set(0, 0, 1.5)
	f.Set(0, 1, math.NaN())
	return &domain.Composite{
		Field: f,
		Meta:  domain.Metadata{Institution: "MeteoSwiss", Timestep: 5, Unit: domain.UnitMMH},
	}
}

type memorySink struct {
	stored []string
	err    error
}

func (s *memorySink) Store(_ *domain.Composite, sourcePath string) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, sourcePath)
	return nil
}

func newPipeline(imp Importer, sink Sink) *Pipeline {
	return New("mch", imp, sink, discardLogger(), observability.NewMetricsForTesting(), clockwork.NewFakeClock())
}

func TestPipelineRun(t *testing.T) {
	t.Run("processes every file in order", func(t *testing.T) {
		var imported []string
		imp := ImporterFunc(func(path string) (*domain.Composite, error) {
			imported = append(imported, path)
			return minimalComposite(), nil
		})
		sink := &memorySink{}

		err := newPipeline(imp, sink).Run([]string{"a.gif", "b.gif", "c.gif"})
		require.NoError(t, err)

		assert.Equal(t, []string{"a.gif", "b.gif", "c.gif"}, imported)
		assert.Equal(t, []string{"a.gif", "b.gif", "c.gif"}, sink.stored)
	})

	t.Run("stops at the first import failure", func(t *testing.T) {
		boom := errors.New("truncated stream")
		var imported []string
		imp := ImporterFunc(func(path string) (*domain.Composite, error) {
			imported = append(imported, path)
			if path == "b.gif" {
				return nil, boom
			}
			return minimalComposite(), nil
		})
		sink := &memorySink{}

		err := newPipeline(imp, sink).Run([]string{"a.gif", "b.gif", "c.gif"})
		require.ErrorIs(t, err, boom)

		assert.Equal(t, []string{"a.gif", "b.gif"}, imported)
		assert.Equal(t, []string{"a.gif"}, sink.stored)
	})

	t.Run("rejects composites violating the output contract", func(t *testing.T) {
		imp := ImporterFunc(func(string) (*domain.Composite, error) {
			c := minimalComposite()
			c.Meta.Unit = "inches"
			return c, nil
		})
		sink := &memorySink{}

		err := newPipeline(imp, sink).Run([]string{"a.gif"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unit")
		assert.Empty(t, sink.stored)
	})

	t.Run("nil sink only logs", func(t *testing.T) {
		imp := ImporterFunc(func(string) (*domain.Composite, error) {
			return minimalComposite(), nil
		})

		require.NoError(t, newPipeline(imp, nil).Run([]string{"a.gif"}))
	})

	t.Run("nil field composite is accepted", func(t *testing.T) {
		imp := ImporterFunc(func(string) (*domain.Composite, error) {
			return &domain.Composite{
				Meta: domain.Metadata{Institution: "Bureau of Meteorology", Unit: domain.UnitMMH},
			}, nil
		})
		sink := &memorySink{}

		require.NoError(t, newPipeline(imp, sink).Run([]string{"empty.nc"}))
		assert.Equal(t, []string{"empty.nc"}, sink.stored)
	})

	t.Run("sink failure stops the run", func(t *testing.T) {
		imp := ImporterFunc(func(string) (*domain.Composite, error) {
			return minimalComposite(), nil
		})
		sink := &memorySink{err: errors.New("disk full")}

		err := newPipeline(imp, sink).Run([]string{"a.gif"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestJSONSink(t *testing.T) {
	t.Run("missing cells encode as null", func(t *testing.T) {
		dir := t.TempDir()
		sink := NewJSONSink(dir)

		require.NoError(t, sink.Store(minimalComposite(), "/data/aqc.gif"))

		payload, err := os.ReadFile(filepath.Join(dir, "aqc.json"))
		require.NoError(t, err)

		var doc struct {
			Field struct {
				Rows int          `json:"rows"`
				Cols int          `json:"cols"`
				Data [][]*float64 `json:"data"`
			} `json:"field"`
			Meta struct {
				Institution string `json:"institution"`
				Unit        string `json:"unit"`
			} `json:"metadata"`
		}
		require.NoError(t, json.Unmarshal(payload, &doc))

		assert.Equal(t, 1, doc.Field.Rows)
		assert.Equal(t, 2, doc.Field.Cols)
		require.NotNil(t, doc.Field.Data[0][0])
		assert.Equal(t, 1.5, *doc.Field.Data[0][0])
		assert.Nil(t, doc.Field.Data[0][1])
		assert.Equal(t, "MeteoSwiss", doc.Meta.Institution)
		assert.Equal(t, "mm/h", doc.Meta.Unit)
	})

	t.Run("nil field encodes as JSON null", func(t *testing.T) {
		dir := t.TempDir()
		sink := NewJSONSink(dir)
		c := &domain.Composite{Meta: domain.Metadata{Institution: "Bureau of Meteorology", Unit: domain.UnitMMH}}

		require.NoError(t, sink.Store(c, "empty.nc"))

		payload, err := os.ReadFile(filepath.Join(dir, "empty.json"))
		require.NoError(t, err)

		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(payload, &doc))
		assert.Equal(t, "null", string(doc["field"]))
	})

	t.Run("georeference round-trips through the document", func(t *testing.T) {
		dir := t.TempDir()
		sink := NewJSONSink(dir)
		c := minimalComposite()
		c.Geo = &domain.Georeference{
			Projection: "+proj=somerc +lon_0=7.439583333333333",
			X1:         255000, Y1: 160000, X2: 965000, Y2: 480000,
			XPixelSize: 1000, YPixelSize: 1000,
			YOrigin: domain.YOriginUpper,
		}

		require.NoError(t, sink.Store(c, "aqc.gif"))

		payload, err := os.ReadFile(filepath.Join(dir, "aqc.json"))
		require.NoError(t, err)

		var doc struct {
			Geo domain.Georeference `json:"georeference"`
		}
		require.NoError(t, json.Unmarshal(payload, &doc))
		assert.Equal(t, *c.Geo, doc.Geo)
	})
}

func TestJSONName(t *testing.T) {
	assert.Equal(t, "composite.json", jsonName("/archive/composite.pgm"))
	assert.Equal(t, "composite.json", jsonName("composite.pgm.gz"))
	assert.Equal(t, "AQC241312.json", jsonName("AQC241312.gif"))
	assert.Equal(t, "rainfields.json", jsonName("rainfields.nc"))
	assert.Equal(t, "plainname.json", jsonName("plainname"))
}
