package check

import (
	"fmt"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
)

// Expectation names what a structural check verifies.
type Expectation string

const (
	ExpectSheetsPresent    Expectation = "sheets_present"
	ExpectNamedRange       Expectation = "named_range"
	ExpectNamedRangeTarget Expectation = "named_range_target"
	ExpectTablePresent     Expectation = "table_present"
	ExpectRowCount         Expectation = "row_count"
	ExpectFreezePane       Expectation = "freeze_pane"
	ExpectCompleteRows     Expectation = "complete_rows"
	ExpectOrientation      Expectation = "orientation"
	ExpectFitToPage        Expectation = "fit_to_page"
	ExpectMargins          Expectation = "margins"
	ExpectHeaderFooter     Expectation = "header_footer"
	ExpectViewOptions      Expectation = "view_options"
)

// Structure checks workbook or sheet structure. Which fields apply depends
// on Expect.
type Structure struct {
	Base   `yaml:",inline"`
	Expect Expectation `yaml:"expect"`

	// Sheets lists required sheet names (sheets_present).
	Sheets []string `yaml:"sheets,omitempty"`
	// RangeName is the defined name (named_range, named_range_target).
	RangeName string `yaml:"range_name,omitempty"`
	// Target is the expected range, pane cell or orientation.
	Target string `yaml:"target,omitempty"`
	// Counts lists the accepted last-row numbers (row_count).
	Counts []int `yaml:"counts,omitempty"`
	// Range and Rows: Rows rows of Range must be fully filled (complete_rows).
	Range string `yaml:"range,omitempty"`
	Rows  int    `yaml:"rows,omitempty"`
	// FitWidth and FitHeight are the fit-to page counts; 0 means 1.
	FitWidth  int `yaml:"fit_width,omitempty"`
	FitHeight int `yaml:"fit_height,omitempty"`
	// Margins in inches, compared at 2 decimal places.
	Margins *models.Margins `yaml:"margins,omitempty"`
	// Part ("header" or "footer"), Section ("left", "center", "right") and
	// Contains select a header/footer requirement. An empty Contains means
	// the section must not be blank.
	Part     string `yaml:"part,omitempty"`
	Section  string `yaml:"section,omitempty"`
	Contains string `yaml:"contains,omitempty"`
	// GridLines and Headings are the required view flags.
	GridLines *bool `yaml:"gridlines,omitempty"`
	Headings  *bool `yaml:"headings,omitempty"`
}

func (c *Structure) Kind() Kind { return KindStructure }

func (c *Structure) sheets() []string {
	switch c.Expect {
	case ExpectSheetsPresent, ExpectNamedRange, ExpectNamedRangeTarget:
		return nil
	}
	return c.Base.sheets()
}

func (c *Structure) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	bad := func(format string, args ...interface{}) error {
		return fmt.Errorf("check %q: %s: %s", c.Name, c.Expect, fmt.Sprintf(format, args...))
	}
	switch c.Expect {
	case ExpectSheetsPresent:
		if len(c.Sheets) == 0 {
			return bad("no sheets listed")
		}
	case ExpectNamedRange:
		if c.RangeName == "" {
			return bad("range_name required")
		}
	case ExpectNamedRangeTarget:
		if c.RangeName == "" {
			return bad("range_name required")
		}
		if _, err := models.ParseArea(c.Target); err != nil {
			return bad("%v", err)
		}
	case ExpectTablePresent:
	case ExpectViewOptions:
		if c.GridLines == nil && c.Headings == nil {
			return bad("gridlines or headings required")
		}
	case ExpectRowCount:
		if len(c.Counts) == 0 {
			return bad("counts required")
		}
	case ExpectFreezePane:
		if _, ok := models.NormalizeCell(c.Target); !ok {
			return bad("invalid target %q", c.Target)
		}
	case ExpectCompleteRows:
		area, err := models.ParseArea(c.Range)
		if err != nil {
			return bad("%v", err)
		}
		if c.Rows < 0 || c.Rows > area.Rows() {
			return bad("rows must be between 0 and %d", area.Rows())
		}
	case ExpectOrientation:
		if c.Target != "portrait" && c.Target != "landscape" {
			return bad("target must be portrait or landscape")
		}
	case ExpectFitToPage:
		if c.FitWidth < 0 || c.FitHeight < 0 {
			return bad("negative page count")
		}
	case ExpectMargins:
		if c.Margins == nil {
			return bad("margins required")
		}
	case ExpectHeaderFooter:
		if c.Part != "header" && c.Part != "footer" {
			return bad("part must be header or footer")
		}
		if _, ok := (models.Sections{}).Section(c.Section); !ok {
			return bad("invalid section %q", c.Section)
		}
	default:
		return fmt.Errorf("check %q: unknown expectation %q", c.Name, c.Expect)
	}
	return nil
}

func (c *Structure) evaluate(acc Accessor) outcome {
	switch c.Expect {
	case ExpectSheetsPresent:
		return c.sheetsPresent(acc)
	case ExpectNamedRange, ExpectNamedRangeTarget:
		return c.namedRange(acc)
	case ExpectTablePresent:
		n, _ := acc.TableCount(c.Sheet)
		if n > 0 {
			return pass(c.Points)
		}
		return fail(fmt.Sprintf("No table found in %s sheet.", c.sheetLabel(acc)))
	case ExpectRowCount:
		n, _ := acc.RowCount(c.Sheet)
		for _, want := range c.Counts {
			if n == want {
				return pass(c.Points)
			}
		}
		return fail(fmt.Sprintf("Incorrect number of rows in %s sheet. Found %d rows.", c.sheetLabel(acc), n))
	case ExpectFreezePane:
		pane, _ := acc.FreezePane(c.Sheet)
		want, _ := models.NormalizeCell(c.Target)
		if got, ok := models.NormalizeCell(pane); ok && got == want {
			return pass(c.Points)
		}
		return fail(fmt.Sprintf("Panes are not frozen at %s in %s sheet.", want, c.sheetLabel(acc)))
	case ExpectCompleteRows:
		return c.completeRows(acc)
	case ExpectOrientation, ExpectFitToPage, ExpectMargins:
		return c.pageLayout(acc)
	case ExpectHeaderFooter:
		return c.headerFooter(acc)
	case ExpectViewOptions:
		return c.viewOptions(acc)
	}
	panic(fmt.Sprintf("unknown expectation %q", c.Expect))
}

func (c *Structure) sheetLabel(acc Accessor) string {
	if c.Sheet != "" {
		return c.Sheet
	}
	return acc.ActiveSheet()
}

func (c *Structure) sheetsPresent(acc Accessor) outcome {
	have := make(map[string]bool)
	for _, name := range acc.SheetNames() {
		have[name] = true
	}
	var absent []string
	for _, name := range c.Sheets {
		if !have[name] {
			absent = append(absent, name)
		}
	}
	if len(absent) == 0 {
		return pass(c.Points)
	}
	return missing("Sheet structure incorrect: sheet not found: " + strings.Join(absent, ", "))
}

func (c *Structure) namedRange(acc Accessor) outcome {
	nr, ok := acc.NamedRange(c.RangeName)
	if !ok {
		return missing(fmt.Sprintf("Named range '%s' not found.", c.RangeName))
	}
	if c.Expect == ExpectNamedRange {
		return pass(c.Points)
	}
	want, _ := models.ParseArea(c.Target)
	if nr.Area == want {
		return pass(c.Points)
	}
	return fail(fmt.Sprintf("Named range '%s' does not refer to cells %s.", c.RangeName, want),
		"  - Received: "+nr.RefersTo)
}

func (c *Structure) completeRows(acc Accessor) outcome {
	area, err := models.ParseArea(c.Range)
	if err != nil {
		return missing(fmt.Sprintf("Range %s is not a valid range.", c.Range))
	}
	complete := 0
	for r := area.R1; r <= area.R2; r++ {
		full := true
		for col := area.C1; col <= area.C2 && full; col++ {
			v, ok := acc.Value(c.Sheet, models.CellName(col, r))
			full = ok && !v.IsEmpty()
		}
		if full {
			complete++
		}
	}
	if complete == c.Rows {
		return pass(c.Points)
	}
	return fail(fmt.Sprintf("Incorrect number of data rows in %s; expected %d, found %d.", area, c.Rows, complete))
}

func (c *Structure) pageLayout(acc Accessor) outcome {
	layout, _ := acc.PageLayout(c.Sheet)
	switch c.Expect {
	case ExpectOrientation:
		if strings.EqualFold(layout.Orientation, c.Target) {
			return pass(c.Points)
		}
		return fail(fmt.Sprintf("Incorrect page orientation; expected %s.", c.Target))
	case ExpectFitToPage:
		if pages(layout.FitToWidth) == pages(c.FitWidth) && pages(layout.FitToHeight) == pages(c.FitHeight) {
			return pass(c.Points)
		}
		return fail(fmt.Sprintf("Page is not scaled to fit %d page(s) wide by %d tall.", pages(c.FitWidth), pages(c.FitHeight)))
	}
	got, want := layout.Margins, *c.Margins
	if compare.Numbers(got.Left, want.Left, 0) && compare.Numbers(got.Right, want.Right, 0) &&
		compare.Numbers(got.Top, want.Top, 0) && compare.Numbers(got.Bottom, want.Bottom, 0) {
		return pass(c.Points)
	}
	return fail("Margins are not set correctly.",
		fmt.Sprintf("  - Received: left %g, right %g, top %g, bottom %g", got.Left, got.Right, got.Top, got.Bottom),
		fmt.Sprintf("  - Expected: left %g, right %g, top %g, bottom %g", want.Left, want.Right, want.Top, want.Bottom))
}

// pages treats an unset fit-to count as one page.
func pages(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func (c *Structure) headerFooter(acc Accessor) outcome {
	hf, _ := acc.HeaderFooter(c.Sheet)
	sections := hf.Header
	if c.Part == "footer" {
		sections = hf.Footer
	}
	text, _ := sections.Section(c.Section)
	if c.Contains == "" {
		if strings.TrimSpace(text) != "" {
			return pass(c.Points)
		}
		return fail(fmt.Sprintf("No text found in the %s section of the %s.", c.Section, c.Part))
	}
	if strings.Contains(text, c.Contains) {
		return pass(c.Points)
	}
	return fail(fmt.Sprintf("The %s %s section does not contain %s.", c.Part, c.Section, c.Contains))
}

func (c *Structure) viewOptions(acc Accessor) outcome {
	view, _ := acc.View(c.Sheet)
	if (c.GridLines == nil || view.GridLines == *c.GridLines) && (c.Headings == nil || view.Headings == *c.Headings) {
		return pass(c.Points)
	}
	return fail("Gridlines or headings are not set correctly.")
}
