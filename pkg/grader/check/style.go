package check

import (
	"fmt"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

// FontPredicate matches font attributes. Unset fields are not checked.
type FontPredicate struct {
	Name string   `yaml:"name,omitempty"`
	Size *float64 `yaml:"size,omitempty"`
	Bold *bool    `yaml:"bold,omitempty"`
}

// FillPredicate matches a solid fill colour.
type FillPredicate struct {
	Color string `yaml:"color"`
}

// HyperlinkPredicate matches a hyperlink target and display text, or
// requires that the cell has no hyperlink.
type HyperlinkPredicate struct {
	Target string `yaml:"target,omitempty"`
	Text   string `yaml:"text,omitempty"`
	Absent bool   `yaml:"absent,omitempty"`
}

// RowHeightPredicate requires row heights within [Min, Max] points.
type RowHeightPredicate struct {
	Rows []int   `yaml:"rows"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

// ColumnWidthPredicate requires column widths within [Min, Max].
type ColumnWidthPredicate struct {
	// Columns is a column or column span, e.g. "A" or "B:I".
	Columns string  `yaml:"columns"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

// Style checks one formatting predicate. Exactly one predicate is set.
// Cell predicates (font, fill, hyperlink) hold for every cell of Range.
type Style struct {
	Base  `yaml:",inline"`
	Range string `yaml:"range,omitempty"`

	Font        *FontPredicate        `yaml:"font,omitempty"`
	Fill        *FillPredicate        `yaml:"fill,omitempty"`
	Hyperlink   *HyperlinkPredicate   `yaml:"hyperlink,omitempty"`
	RowHeight   *RowHeightPredicate   `yaml:"row_height,omitempty"`
	ColumnWidth *ColumnWidthPredicate `yaml:"column_width,omitempty"`
}

func (c *Style) Kind() Kind { return KindStyle }

func (c *Style) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	set := 0
	for _, p := range []bool{c.Font != nil, c.Fill != nil, c.Hyperlink != nil, c.RowHeight != nil, c.ColumnWidth != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("check %q: exactly one style predicate required, got %d", c.Name, set)
	}
	switch {
	case c.Font != nil, c.Fill != nil, c.Hyperlink != nil:
		if _, err := models.ParseArea(c.Range); err != nil {
			return fmt.Errorf("check %q: %w", c.Name, err)
		}
	case c.RowHeight != nil:
		if len(c.RowHeight.Rows) == 0 || c.RowHeight.Min > c.RowHeight.Max {
			return fmt.Errorf("check %q: invalid row_height predicate", c.Name)
		}
	case c.ColumnWidth != nil:
		if _, _, err := columnSpan(c.ColumnWidth.Columns); err != nil {
			return fmt.Errorf("check %q: %w", c.Name, err)
		}
		if c.ColumnWidth.Min > c.ColumnWidth.Max {
			return fmt.Errorf("check %q: invalid column_width predicate", c.Name)
		}
	}
	return nil
}

func (c *Style) evaluate(acc Accessor) outcome {
	switch {
	case c.RowHeight != nil:
		return c.rowHeights(acc)
	case c.ColumnWidth != nil:
		return c.columnWidths(acc)
	}

	area, err := models.ParseArea(c.Range)
	if err != nil {
		return missing(fmt.Sprintf("Range %s is not a valid range.", c.Range))
	}
	for _, addr := range area.Cells() {
		st, ok := acc.Style(c.Sheet, addr)
		if !ok {
			return missing(fmt.Sprintf("Cell %s not found.", addr))
		}
		var out *outcome
		switch {
		case c.Font != nil:
			out = c.font(addr, st)
		case c.Fill != nil:
			out = c.fill(addr, st)
		case c.Hyperlink != nil:
			out = c.hyperlink(acc, addr, st)
		}
		if out != nil {
			return *out
		}
	}
	return pass(c.Points)
}

func (c *Style) font(addr string, st models.Style) *outcome {
	p := c.Font
	switch {
	case p.Name != "" && st.FontName != p.Name:
		o := fail(fmt.Sprintf("Font for %s is not set to %s.", c.Range, p.Name),
			fmt.Sprintf("  - %s uses %s", addr, st.FontName))
		return &o
	case p.Size != nil && st.FontSize != *p.Size:
		o := fail(fmt.Sprintf("Font size for %s is not %g.", c.Range, *p.Size),
			fmt.Sprintf("  - %s is size %g", addr, st.FontSize))
		return &o
	case p.Bold != nil && st.Bold != *p.Bold:
		want := "bold"
		if !*p.Bold {
			want = "not bold"
		}
		o := fail(fmt.Sprintf("Font for %s should be %s.", c.Range, want))
		return &o
	}
	return nil
}

func (c *Style) fill(addr string, st models.Style) *outcome {
	if compare.Color(st.FillColor, c.Fill.Color) {
		return nil
	}
	o := fail(fmt.Sprintf("Cell %s is not filled with %s.", addr, compare.NormalizeColor(c.Fill.Color)))
	return &o
}

func (c *Style) hyperlink(acc Accessor, addr string, st models.Style) *outcome {
	p := c.Hyperlink
	if p.Absent {
		if st.Hyperlink == "" {
			return nil
		}
		o := fail(fmt.Sprintf("Hyperlink in cell %s has not been removed.", addr))
		return &o
	}
	ok := st.Hyperlink != ""
	if ok && p.Target != "" {
		ok = strings.TrimSpace(st.Hyperlink) == strings.TrimSpace(p.Target)
	}
	if ok && p.Text != "" {
		v, _ := acc.Value(c.Sheet, addr)
		ok = compare.Text(v.String(), p.Text, compare.TextExact)
	}
	if ok {
		return nil
	}
	o := fail(fmt.Sprintf("Cell %s does not have the correct hyperlink and display text.", addr))
	return &o
}

func (c *Style) rowHeights(acc Accessor) outcome {
	p := c.RowHeight
	for _, row := range p.Rows {
		h, ok := acc.RowHeight(c.Sheet, row)
		if !ok {
			return missing(fmt.Sprintf("Row %d not found.", row))
		}
		if h < p.Min || h > p.Max {
			return fail(fmt.Sprintf("Row height for row %d is incorrect; expected %s points.", row, span(p.Min, p.Max)),
				fmt.Sprintf("  - Received: %g", h))
		}
	}
	return pass(c.Points)
}

func (c *Style) columnWidths(acc Accessor) outcome {
	p := c.ColumnWidth
	first, last, err := columnSpan(p.Columns)
	if err != nil {
		return missing(fmt.Sprintf("Columns %s are not valid.", p.Columns))
	}
	for col := first; col <= last; col++ {
		w, ok := acc.ColumnWidth(c.Sheet, col)
		if !ok {
			return missing(fmt.Sprintf("Column %s not found.", models.ColumnName(col)))
		}
		if w < p.Min || w > p.Max {
			return fail(fmt.Sprintf("Incorrect width for column %s; expected %s.", models.ColumnName(col), span(p.Min, p.Max)),
				fmt.Sprintf("  - Received: %g", w))
		}
	}
	return pass(c.Points)
}

// columnSpan parses "B" or "B:I" into 1-based column numbers.
func columnSpan(s string) (int, int, error) {
	from, to, found := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), ":")
	if !found {
		to = from
	}
	first, err := excelize.ColumnNameToNumber(from)
	if err != nil {
		return 0, 0, err
	}
	last, err := excelize.ColumnNameToNumber(to)
	if err != nil {
		return 0, 0, err
	}
	if first > last {
		first, last = last, first
	}
	return first, last, nil
}

func span(lo, hi float64) string {
	if lo == hi {
		return fmt.Sprintf("%g", lo)
	}
	return fmt.Sprintf("%g to %g", lo, hi)
}
