// Command ingest imports provider precipitation rasters, logs a structured
// summary of each canonical triple, and optionally writes the triples as
// JSON documents.
//
// Usage:
//
//	go run ./cmd/ingest -format fmi -gzipped 202608241200_radar.pgm.gz
//	go run ./cmd/ingest -format mch -out ./out AQC241312.gif
//	go run ./cmd/ingest -format bom 2_20260824_120000.prcp-c10.nc
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	netcdfadapter "github.com/couchcryptid/precip-ingest/internal/adapter/netcdf"
	projadapter "github.com/couchcryptid/precip-ingest/internal/adapter/proj"
	rasteradapter "github.com/couchcryptid/precip-ingest/internal/adapter/raster"
	"github.com/couchcryptid/precip-ingest/internal/config"
	"github.com/couchcryptid/precip-ingest/internal/domain"
	"github.com/couchcryptid/precip-ingest/internal/importer"
	"github.com/couchcryptid/precip-ingest/internal/observability"
	"github.com/couchcryptid/precip-ingest/internal/pipeline"
)

func main() {
	format := flag.String("format", "", "source format: fmi, mch, or bom")
	gzipped := flag.Bool("gzipped", false, "treat fmi input as gzip-compressed")
	outDir := flag.String("out", "", "directory for composite JSON output (omit to only log)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if *format == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*format, *gzipped, *outDir, flag.Args(), logger, metrics, clockwork.NewRealClock()))
}

func run(format string, gzipped bool, outDir string, paths []string, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) int {
	imp, err := importFunc(format, gzipped)
	if err != nil {
		logger.Error("bad invocation", "error", err)
		return 2
	}

	var sink pipeline.Sink
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			logger.Error("bad invocation", "error", err)
			return 2
		}
		sink = pipeline.NewJSONSink(outDir)
	}

	if err := pipeline.New(format, imp, sink, logger, metrics, clock).Run(paths); err != nil {
		return 1
	}
	return 0
}

// importFunc wires a format name to its importer with the default adapters.
func importFunc(format string, gzipped bool) (pipeline.Importer, error) {
	switch format {
	case "fmi":
		imp := importer.NewFMI(projadapter.NewProvider())
		return pipeline.ImporterFunc(func(path string) (*domain.Composite, error) {
			return imp.Import(path, gzipped)
		}), nil
	case "mch":
		return pipeline.ImporterFunc(importer.NewMCH(rasteradapter.NewGIFDecoder()).Import), nil
	case "bom":
		return pipeline.ImporterFunc(importer.NewBOM(netcdfadapter.NewReader()).Import), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want fmi, mch, or bom)", format)
	}
}
