package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/precip-ingest/internal/domain"
)

// JSONSink writes each composite as a JSON document named after the source
// file, with the extension replaced by .json.
type JSONSink struct {
	dir string
}

// NewJSONSink creates a sink writing into dir, which must already exist.
func NewJSONSink(dir string) *JSONSink {
	return &JSONSink{dir: dir}
}

// fieldDocument is the on-disk encoding of a field. encoding/json rejects
// NaN, so missing cells are written as null.
type fieldDocument struct {
	Rows int          `json:"rows"`
	Cols int          `json:"cols"`
	Data [][]*float64 `json:"data"`
}

type compositeDocument struct {
	Field *fieldDocument       `json:"field"`
	Geo   *domain.Georeference `json:"georeference,omitempty"`
	Meta  domain.Metadata      `json:"metadata"`
}

// Store writes c to <dir>/<source basename>.json.
func (s *JSONSink) Store(c *domain.Composite, sourcePath string) error {
	doc := compositeDocument{
		Field: encodeField(c.Field),
		Geo:   c.Geo,
		Meta:  c.Meta,
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode composite: %w", err)
	}

	out := filepath.Join(s.dir, jsonName(sourcePath))
	if err := os.WriteFile(out, payload, 0o644); err != nil {
		return fmt.Errorf("write composite: %w", err)
	}
	return nil
}

func encodeField(f *domain.Field) *fieldDocument {
	if f == nil {
		return nil
	}
	doc := &fieldDocument{Rows: f.Rows, Cols: f.Cols, Data: make([][]*float64, f.Rows)}
	for r := 0; r < f.Rows; r++ {
		row := make([]*float64, f.Cols)
		for c := 0; c < f.Cols; c++ {
			if !f.IsMissing(r, c) {
				v := f.At(r, c)
				row[c] = &v
			}
		}
		doc.Data[r] = row
	}
	return doc
}

// jsonName strips every recognized source extension so compressed inputs
// like composite.pgm.gz become composite.json.
func jsonName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	for {
		ext := filepath.Ext(base)
		switch strings.ToLower(ext) {
		case ".gz", ".pgm", ".gif", ".nc":
			base = strings.TrimSuffix(base, ext)
			continue
		}
		return base + ".json"
	}
}
