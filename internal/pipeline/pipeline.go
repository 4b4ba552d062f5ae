// Package pipeline orchestrates the import-check-store loop over a set of
// source files: each file is imported to the canonical triple, checked
// against the output contract, summarized to the log, and handed to an
// optional sink.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/precip-ingest/internal/domain"
	"github.com/couchcryptid/precip-ingest/internal/observability"
)

// Importer turns one source file into a canonical composite.
type Importer interface {
	Import(path string) (*domain.Composite, error)
}

// ImporterFunc adapts a plain import function to the Importer interface.
type ImporterFunc func(path string) (*domain.Composite, error)

func (f ImporterFunc) Import(path string) (*domain.Composite, error) { return f(path) }

// Sink receives each composite after it passes the output contract.
type Sink interface {
	Store(c *domain.Composite, sourcePath string) error
}

// Pipeline runs the ingest loop for one source format.
type Pipeline struct {
	format   string
	importer Importer
	sink     Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// New creates a Pipeline. Pass a nil sink to skip persistence and only log
// summaries.
func New(format string, imp Importer, sink Sink, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	return &Pipeline{
		format:   format,
		importer: imp,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
	}
}

// Run processes each file in order and stops at the first failure. Errors
// are terminal for the whole invocation; there are no retries.
func (p *Pipeline) Run(paths []string) error {
	for _, path := range paths {
		if err := p.processFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) processFile(path string) error {
	start := p.clock.Now()
	c, err := p.importer.Import(path)
	elapsed := p.clock.Now().Sub(start)
	if err != nil {
		p.metrics.ImportErrors.WithLabelValues(p.format).Inc()
		p.logger.Error("import failed", "format", p.format, "path", path, "error", err)
		return fmt.Errorf("import %s: %w", path, err)
	}

	if err := domain.CheckConformance(c); err != nil {
		p.metrics.ImportErrors.WithLabelValues(p.format).Inc()
		p.logger.Error("output contract violated", "format", p.format, "path", path, "error", err)
		return fmt.Errorf("composite from %s: %w", path, err)
	}

	p.metrics.ImportsTotal.WithLabelValues(p.format).Inc()
	p.metrics.ImportDuration.WithLabelValues(p.format).Observe(elapsed.Seconds())
	p.logSummary(path, c, elapsed.String())

	if p.sink != nil {
		if err := p.sink.Store(c, path); err != nil {
			p.logger.Error("store failed", "format", p.format, "path", path, "error", err)
			return fmt.Errorf("store %s: %w", path, err)
		}
	}
	return nil
}

func (p *Pipeline) logSummary(path string, c *domain.Composite, elapsed string) {
	attrs := []any{
		"format", p.format,
		"path", path,
		"institution", c.Meta.Institution,
		"unit", c.Meta.Unit,
		"timestep_min", c.Meta.Timestep,
		"elapsed", elapsed,
	}

	if c.Field == nil {
		attrs = append(attrs, "field", "absent")
	} else {
		missing := 0
		for r := 0; r < c.Field.Rows; r++ {
			for col := 0; col < c.Field.Cols; col++ {
				if c.Field.IsMissing(r, col) {
					missing++
				}
			}
		}
		ratio := float64(missing) / float64(len(c.Field.Data))
		p.metrics.MissingRatio.WithLabelValues(p.format).Observe(ratio)
		attrs = append(attrs, "rows", c.Field.Rows, "cols", c.Field.Cols, "missing_ratio", ratio)
		if lo, hi, ok := c.Field.Range(); ok {
			attrs = append(attrs, "min", lo, "max", hi)
		}
	}

	if c.Geo == nil {
		attrs = append(attrs, "georeference", "absent")
	} else {
		attrs = append(attrs, "projection", c.Geo.Projection)
		if c.Geo.HasExtent() {
			attrs = append(attrs,
				"x1", c.Geo.X1, "y1", c.Geo.Y1, "x2", c.Geo.X2, "y2", c.Geo.Y2,
				"xpixelsize", c.Geo.XPixelSize, "ypixelsize", c.Geo.YPixelSize,
				"yorigin", c.Geo.YOrigin,
			)
		}
	}

	p.logger.Info("imported", attrs...)
}
