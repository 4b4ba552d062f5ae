package domain

import (
	"fmt"
	"math"
)

// CheckConformance verifies that a composite satisfies the canonical-output
// contract: a valid unit, an ordered bounding box with positive pixel sizes,
// and agreement between the bounding box and the field shape to within
// rounding. It is meant for tests and offline validation, not for production
// control flow.
func CheckConformance(c *Composite) error {
	if c == nil {
		return fmt.Errorf("nil composite")
	}
	if !ValidUnit(c.Meta.Unit) {
		return fmt.Errorf("unit %q not in {dBZ, mm/h, mm}", c.Meta.Unit)
	}
	if c.Meta.Timestep < 0 {
		return fmt.Errorf("negative timestep %d", c.Meta.Timestep)
	}

	g := c.Geo
	if g == nil {
		return nil
	}
	if g.YOrigin != YOriginUpper && g.YOrigin != YOriginLower {
		return fmt.Errorf("yorigin %q not in {upper, lower}", g.YOrigin)
	}
	if !g.HasExtent() {
		// Projection-only georeference: nothing further to check.
		return nil
	}
	if g.X2 <= g.X1 {
		return fmt.Errorf("x2 (%g) must exceed x1 (%g)", g.X2, g.X1)
	}
	if g.Y2 <= g.Y1 {
		return fmt.Errorf("y2 (%g) must exceed y1 (%g)", g.Y2, g.Y1)
	}

	if c.Field == nil {
		return nil
	}
	if err := checkShape(g, c.Field); err != nil {
		return err
	}
	return nil
}

// checkShape compares the pixel counts implied by the bounding box against
// the field dimensions. Rounding is tolerated; silent truncation is not.
func checkShape(g *Georeference, f *Field) error {
	cols := (g.X2 - g.X1) / g.XPixelSize
	rows := (g.Y2 - g.Y1) / g.YPixelSize
	if int(math.Round(cols)) != f.Cols {
		return fmt.Errorf("extent implies %.2f columns, field has %d", cols, f.Cols)
	}
	if int(math.Round(rows)) != f.Rows {
		return fmt.Errorf("extent implies %.2f rows, field has %d", rows, f.Rows)
	}
	return nil
}
