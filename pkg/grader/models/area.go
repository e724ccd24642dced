package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Area represents cell coordinate bounds of a rectangular range.
type Area struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// NamedRange represents a workbook defined name resolved to a sheet area.
type NamedRange struct {
	// Name is the defined name.
	Name string `json:"name"`
	// Sheet is the sheet the name refers to (empty if it does not refer to a range).
	Sheet string `json:"sheet,omitempty"`
	// Area is the referenced range.
	Area Area `json:"area"`
	// RefersTo is the raw reference text.
	RefersTo string `json:"refers_to"`
}

// ParseArea parses a range such as "A1:D10", "$A$1:$D$10" or a single cell "B4".
func ParseArea(ref string) (Area, error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if ref == "" {
		return Area{}, fmt.Errorf("empty range")
	}
	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return Area{}, fmt.Errorf("invalid range %q", ref)
	}

	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Area{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	c2, r2 := c1, r1
	if len(parts) == 2 {
		c2, r2, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return Area{}, fmt.Errorf("invalid range %q: %w", ref, err)
		}
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	return Area{R1: r1, C1: c1, R2: r2, C2: c2}, nil
}

// CellName converts 1-based coordinates to an A1-style cell name.
func CellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}

// ColumnName converts a 1-based column number to its letters.
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

// NormalizeCell canonicalises a cell address ("$b$4" -> "B4").
// It returns false for anything that is not a single cell.
func NormalizeCell(addr string) (string, bool) {
	addr = strings.ReplaceAll(strings.TrimSpace(addr), "$", "")
	col, row, err := excelize.CellNameToCoordinates(addr)
	if err != nil {
		return "", false
	}
	return CellName(col, row), true
}

// Rows returns the number of rows covered by the area.
func (a Area) Rows() int { return a.R2 - a.R1 + 1 }

// Cols returns the number of columns covered by the area.
func (a Area) Cols() int { return a.C2 - a.C1 + 1 }

// Contains reports whether the 1-based coordinates fall inside the area.
func (a Area) Contains(col, row int) bool {
	return row >= a.R1 && row <= a.R2 && col >= a.C1 && col <= a.C2
}

// Cells returns the cell names of the area in row-major order.
func (a Area) Cells() []string {
	out := make([]string, 0, a.Rows()*a.Cols())
	for r := a.R1; r <= a.R2; r++ {
		for c := a.C1; c <= a.C2; c++ {
			out = append(out, CellName(c, r))
		}
	}
	return out
}

// String returns the A1-style range ("A1:D10", or "B4" for a single cell).
func (a Area) String() string {
	start := CellName(a.C1, a.R1)
	if a.R1 == a.R2 && a.C1 == a.C2 {
		return start
	}
	return start + ":" + CellName(a.C2, a.R2)
}
