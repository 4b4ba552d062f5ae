package domain

// Unit is the physical unit of the values in a field.
type Unit string

const (
	UnitDBZ  Unit = "dBZ"  // radar reflectivity
	UnitMMH  Unit = "mm/h" // precipitation rate
	UnitMM   Unit = "mm"   // precipitation depth
)

// ValidUnit reports whether u is one of the three canonical units.
func ValidUnit(u Unit) bool {
	switch u {
	case UnitDBZ, UnitMMH, UnitMM:
		return true
	}
	return false
}

// Metadata describes the provenance and unit of an imported field.
type Metadata struct {
	// Institution is the free-text name of the data provider.
	Institution string `json:"institution"`

	// Timestep is the number of minutes one field snapshot represents.
	// 0 when not derivable from the source file.
	Timestep int `json:"timestep"`

	Unit Unit `json:"unit"`

	// Extra holds format-specific keys (e.g. the raw missing-value
	// sentinel) outside the mandatory contract. May be nil.
	Extra map[string]any `json:"extra,omitempty"`
}

// Composite is the canonical triple produced by every importer. Field is nil
// when the source file carries no data variable (a valid empty result for
// self-describing datasets); Geo is nil when no projection can be derived.
type Composite struct {
	Field *Field        `json:"-"`
	Geo   *Georeference `json:"georeference,omitempty"`
	Meta  Metadata      `json:"metadata"`
}
