package check

import (
	"fmt"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
)

// CellValue checks the cached value of one cell.
type CellValue struct {
	Base `yaml:",inline"`
	// Cell is the address, e.g. "B15".
	Cell string `yaml:"cell"`
	// Expected is the value the cell must hold.
	Expected models.Value `yaml:"expected"`
	// Tolerance applies to numeric values; nil means compare.DefaultTolerance.
	Tolerance *float64 `yaml:"tolerance,omitempty"`
	// Match selects the text comparison.
	Match compare.TextMode `yaml:"match,omitempty"`
}

func (c *CellValue) Kind() Kind { return KindCellValue }

func (c *CellValue) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	if _, ok := models.NormalizeCell(c.Cell); !ok {
		return fmt.Errorf("check %q: invalid cell %q", c.Name, c.Cell)
	}
	if _, err := compare.ParseTextMode(string(c.Match)); err != nil {
		return fmt.Errorf("check %q: %w", c.Name, err)
	}
	return nil
}

func (c *CellValue) evaluate(acc Accessor) outcome {
	got, ok := acc.Value(c.Sheet, c.Cell)
	if !ok {
		return missing(fmt.Sprintf("Cell %s not found.", c.Cell))
	}
	if compare.Values(got, c.Expected, tolerance(c.Tolerance), c.Match) {
		return pass(c.Points)
	}
	return fail(fmt.Sprintf("Cell %s Value Check:", c.Cell),
		"  - Received: "+got.String(),
		"  - Expected: "+c.Expected.String())
}

// Scoring selects how a range check awards points.
type Scoring string

const (
	// ScoringAll awards the points only when every cell matches.
	ScoringAll Scoring = "all"
	// ScoringProportional awards points × matching cells / cells.
	ScoringProportional Scoring = "proportional"
)

// RangeValues checks a rectangular block of cells against an expected grid.
type RangeValues struct {
	Base `yaml:",inline"`
	// Range is the block, e.g. "A1:D1".
	Range string `yaml:"range"`
	// Expected holds one row of values per range row.
	Expected [][]models.Value `yaml:"expected"`
	Scoring  Scoring          `yaml:"scoring,omitempty"`

	Tolerance *float64         `yaml:"tolerance,omitempty"`
	Match     compare.TextMode `yaml:"match,omitempty"`
}

func (c *RangeValues) Kind() Kind { return KindRangeValues }

func (c *RangeValues) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	area, err := models.ParseArea(c.Range)
	if err != nil {
		return fmt.Errorf("check %q: %w", c.Name, err)
	}
	if len(c.Expected) != area.Rows() {
		return fmt.Errorf("check %q: expected %d rows for %s, got %d", c.Name, area.Rows(), c.Range, len(c.Expected))
	}
	for i, row := range c.Expected {
		if len(row) != area.Cols() {
			return fmt.Errorf("check %q: row %d: expected %d values, got %d", c.Name, i+1, area.Cols(), len(row))
		}
	}
	switch c.Scoring {
	case "", ScoringAll, ScoringProportional:
	default:
		return fmt.Errorf("check %q: invalid scoring %q", c.Name, c.Scoring)
	}
	if _, err := compare.ParseTextMode(string(c.Match)); err != nil {
		return fmt.Errorf("check %q: %w", c.Name, err)
	}
	return nil
}

func (c *RangeValues) evaluate(acc Accessor) outcome {
	area, err := models.ParseArea(c.Range)
	if err != nil {
		return missing(fmt.Sprintf("Range %s is not a valid range.", c.Range))
	}
	tol := tolerance(c.Tolerance)

	var matched, total int
	var details []string
	for r := area.R1; r <= area.R2; r++ {
		for col := area.C1; col <= area.C2; col++ {
			total++
			want := c.Expected[r-area.R1][col-area.C1]
			addr := models.CellName(col, r)
			got, ok := acc.Value(c.Sheet, addr)
			if ok && compare.Values(got, want, tol, c.Match) {
				matched++
				continue
			}
			details = append(details, fmt.Sprintf("  - %s: received %s, expected %s", addr, got.String(), want.String()))
		}
	}
	if matched == total {
		return pass(c.Points)
	}

	headline := fmt.Sprintf("Values in %s are incorrect (%d of %d cells match).", area, matched, total)
	if c.Scoring == ScoringProportional {
		out := fail(headline, details...)
		out.status = ""
		out.earned = c.Points * float64(matched) / float64(total)
		return out
	}
	return fail(headline, details...)
}

// CellFormula checks a cell's formula text against accepted variants.
type CellFormula struct {
	Base `yaml:",inline"`
	Cell string `yaml:"cell"`
	// Accepted lists the formulas that earn the points.
	Accepted []string `yaml:"accepted"`
}

func (c *CellFormula) Kind() Kind { return KindCellFormula }

func (c *CellFormula) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	if _, ok := models.NormalizeCell(c.Cell); !ok {
		return fmt.Errorf("check %q: invalid cell %q", c.Name, c.Cell)
	}
	if len(c.Accepted) == 0 {
		return fmt.Errorf("check %q: no accepted formulas", c.Name)
	}
	for _, f := range c.Accepted {
		if compare.NormalizeFormula(f) == "" {
			return fmt.Errorf("check %q: empty accepted formula", c.Name)
		}
	}
	return nil
}

func (c *CellFormula) evaluate(acc Accessor) outcome {
	if _, ok := acc.Value(c.Sheet, c.Cell); !ok {
		return missing(fmt.Sprintf("Cell %s not found.", c.Cell))
	}
	formula, ok := acc.Formula(c.Sheet, c.Cell)
	if !ok {
		return fail(fmt.Sprintf("Cell %s: No formula found (cell contains a static value).", c.Cell))
	}
	if compare.Formula(formula, c.Accepted) {
		return pass(c.Points)
	}
	accepted := make([]string, len(c.Accepted))
	for i, f := range c.Accepted {
		accepted[i] = compare.NormalizeFormula(f)
	}
	return fail(fmt.Sprintf("Cell %s Formula Check:", c.Cell),
		"  - Received: "+formula,
		"  - Accepted: "+strings.Join(accepted, " | "))
}

func tolerance(t *float64) float64 {
	if t == nil {
		return compare.DefaultTolerance
	}
	return *t
}
