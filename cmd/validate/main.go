// Command validate imports provider files and checks the resulting triples
// against the canonical-output contract: unit membership, bounding-box
// ordering, extent/shape consistency, and per-format invariants.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -fmi data/mock/fmi_composite.pgm \
//	  -fmi-gz data/mock/fmi_composite.pgm.gz \
//	  -mch data/mock/aqc_composite.gif \
//	  -bom rainfields3.nc
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	netcdfadapter "github.com/couchcryptid/precip-ingest/internal/adapter/netcdf"
	projadapter "github.com/couchcryptid/precip-ingest/internal/adapter/proj"
	rasteradapter "github.com/couchcryptid/precip-ingest/internal/adapter/raster"
	"github.com/couchcryptid/precip-ingest/internal/domain"
	"github.com/couchcryptid/precip-ingest/internal/importer"
)

// phase tracks pass/fail for one validated file.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fmiPath := flag.String("fmi", "", "path to an FMI PGM composite")
	fmiGzPath := flag.String("fmi-gz", "", "path to a gzip-compressed FMI PGM composite")
	mchPath := flag.String("mch", "", "path to a MeteoSwiss AQC GIF composite")
	bomPath := flag.String("bom", "", "path to a BoM Rainfields3 NetCDF file")
	flag.Parse()

	if *fmiPath == "" && *fmiGzPath == "" && *mchPath == "" && *bomPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*fmiPath, *fmiGzPath, *mchPath, *bomPath))
}

func run(fmiPath, fmiGzPath, mchPath, bomPath string) int {
	fmt.Println("=== Canonical Triple Validation ===")
	fmt.Println()

	var phases []*phase
	fmi := importer.NewFMI(projadapter.NewProvider())
	if fmiPath != "" {
		phases = append(phases, validateFMI(fmi, fmiPath, false))
	}
	if fmiGzPath != "" {
		phases = append(phases, validateFMI(fmi, fmiGzPath, true))
	}
	if mchPath != "" {
		phases = append(phases, validateMCH(importer.NewMCH(rasteradapter.NewGIFDecoder()), mchPath))
	}
	if bomPath != "" {
		phases = append(phases, validateBOM(importer.NewBOM(netcdfadapter.NewReader()), bomPath))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-48s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateFMI(imp *importer.FMI, path string, gz bool) *phase {
	p := &phase{name: fmt.Sprintf("FMI PGM (%s)", path)}

	c, err := imp.Import(path, gz)
	if err != nil {
		p.errorf("import: %v", err)
		return p
	}
	checkContract(p, c)

	if c.Meta.Unit != domain.UnitDBZ {
		p.errorf("unit: expected dBZ, got %q", c.Meta.Unit)
	}
	if c.Meta.Timestep != 5 {
		p.errorf("timestep: expected 5, got %d", c.Meta.Timestep)
	}
	if c.Geo == nil {
		p.errorf("georeference absent")
	}
	if c.Field == nil {
		p.errorf("field absent")
	}
	return p
}

func validateMCH(imp *importer.MCH, path string) *phase {
	p := &phase{name: fmt.Sprintf("MeteoSwiss AQC (%s)", path)}

	c, err := imp.Import(path)
	if err != nil {
		p.errorf("import: %v", err)
		return p
	}
	checkContract(p, c)

	if c.Meta.Unit != domain.UnitMMH {
		p.errorf("unit: expected mm/h, got %q", c.Meta.Unit)
	}
	if c.Geo == nil || c.Geo.XPixelSize != 1000 {
		p.errorf("expected the fixed 1000 m CH1903 grid")
	}
	checkNonNegative(p, c.Field)
	return p
}

func validateBOM(imp *importer.BOM, path string) *phase {
	p := &phase{name: fmt.Sprintf("BoM Rainfields3 (%s)", path)}

	c, err := imp.Import(path)
	if err != nil {
		p.errorf("import: %v", err)
		return p
	}
	checkContract(p, c)

	if c.Meta.Unit != domain.UnitMMH {
		p.errorf("unit: expected mm/h, got %q", c.Meta.Unit)
	}
	if c.Field == nil {
		fmt.Printf("  Note: %s has no precipitation variable (valid empty result)\n", path)
	}
	checkNonNegative(p, c.Field)
	return p
}

// checkContract runs the shared canonical-output conformance check.
func checkContract(p *phase, c *domain.Composite) {
	if err := domain.CheckConformance(c); err != nil {
		p.errorf("conformance: %v", err)
	}
}

// checkNonNegative verifies rain-rate fields hold only non-negative or
// missing values.
func checkNonNegative(p *phase, f *domain.Field) {
	if f == nil {
		return
	}
	for i, v := range f.Data {
		if !math.IsNaN(v) && v < 0 {
			p.errorf("cell %d: negative rate %g", i, v)
			return
		}
	}
}
