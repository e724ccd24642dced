package check

import (
	"fmt"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/xuri/excelize/v2"
)

// SetComparison compares an unordered key/value table, one pair per row,
// with expected pairs. Students may reorder rows freely.
//
// Completeness awards CompletenessPoints when the observed keys equal the
// expected keys and FallbackPoints otherwise. Accuracy awards AccuracyPoints
// scaled by the share of expected keys whose value is within Tolerance.
type SetComparison struct {
	Base `yaml:",inline"`

	KeyColumn   string `yaml:"key_column"`
	ValueColumn string `yaml:"value_column"`
	FirstRow    int    `yaml:"first_row"`
	LastRow     int    `yaml:"last_row"`

	Expected  compare.KeyedValues `yaml:"expected"`
	Tolerance *float64            `yaml:"tolerance,omitempty"`

	CompletenessPoints float64 `yaml:"completeness_points"`
	FallbackPoints     float64 `yaml:"fallback_points"`
	AccuracyPoints     float64 `yaml:"accuracy_points"`

	// Noun and ValueLabel word the feedback ("countries", "price").
	Noun       string `yaml:"noun,omitempty"`
	ValueLabel string `yaml:"value_label,omitempty"`
}

func (c *SetComparison) Kind() Kind { return KindSetComparison }

// Possible is the sum of completeness and accuracy points.
func (c *SetComparison) Possible() float64 { return c.CompletenessPoints + c.AccuracyPoints }

func (c *SetComparison) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	if c.Points != 0 && c.Points != c.Possible() {
		return fmt.Errorf("check %q: points %g do not equal completeness + accuracy %g", c.Name, c.Points, c.Possible())
	}
	for _, col := range []string{c.KeyColumn, c.ValueColumn} {
		if _, err := excelize.ColumnNameToNumber(col); err != nil {
			return fmt.Errorf("check %q: %w", c.Name, err)
		}
	}
	if c.FirstRow < 1 || c.LastRow < c.FirstRow {
		return fmt.Errorf("check %q: invalid row window %d-%d", c.Name, c.FirstRow, c.LastRow)
	}
	if len(c.Expected) == 0 {
		return fmt.Errorf("check %q: no expected values", c.Name)
	}
	if c.FallbackPoints < 0 || c.FallbackPoints > c.CompletenessPoints || c.AccuracyPoints < 0 {
		return fmt.Errorf("check %q: invalid point split", c.Name)
	}
	return nil
}

// Observed extracts the key/value pairs in the row window. Rows with a blank
// key or value are skipped.
func (c *SetComparison) Observed(acc Accessor) compare.KeyedValues {
	var out compare.KeyedValues
	for row := c.FirstRow; row <= c.LastRow; row++ {
		key, _ := acc.Value(c.Sheet, fmt.Sprintf("%s%d", c.KeyColumn, row))
		val, _ := acc.Value(c.Sheet, fmt.Sprintf("%s%d", c.ValueColumn, row))
		if key.IsEmpty() || val.IsEmpty() || strings.TrimSpace(key.String()) == "" {
			continue
		}
		out = append(out, compare.KeyedValue{Key: key.String(), Value: val})
	}
	return out
}

func (c *SetComparison) evaluate(acc Accessor) outcome {
	score := compare.Set(c.Expected, c.Observed(acc), tolerance(c.Tolerance), compare.TextExact)

	noun, label := c.Noun, c.ValueLabel
	if noun == "" {
		noun = "keys"
	}
	if label == "" {
		label = "value"
	}

	var details []string
	if len(score.Missing) > 0 {
		details = append(details, fmt.Sprintf("Missing %s: %s", noun, strings.Join(score.Missing, ", ")))
	}
	if len(score.Extra) > 0 {
		details = append(details, fmt.Sprintf("Extra %s found: %s", noun, strings.Join(score.Extra, ", ")))
	}
	for _, m := range score.Mismatches {
		details = append(details, fmt.Sprintf("Incorrect %s for %s. Expected %s, Got %s", label, m.Key, m.Expected, m.Actual))
	}

	return outcome{
		earned:  score.Completeness(c.CompletenessPoints, c.FallbackPoints) + score.Accuracy(c.AccuracyPoints),
		details: details,
	}
}

// ColumnMatch requires a column to hold a case-transformed copy of a column
// on another sheet, row by row. Rows listed in BlankRows must stay empty.
// Evaluation stops at the first offending row and is all-or-nothing.
type ColumnMatch struct {
	Base   `yaml:",inline"`
	Column string `yaml:"column"`

	SourceSheet  string `yaml:"source_sheet"`
	SourceColumn string `yaml:"source_column"`

	FirstRow int `yaml:"first_row"`
	LastRow  int `yaml:"last_row"`

	// Transform is applied to the source text: exact, upper or lower.
	Transform compare.TextMode `yaml:"transform,omitempty"`
	BlankRows []int            `yaml:"blank_rows,omitempty"`
}

func (c *ColumnMatch) Kind() Kind { return KindColumnMatch }

func (c *ColumnMatch) sheets() []string { return []string{c.Sheet, c.SourceSheet} }

func (c *ColumnMatch) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	for _, col := range []string{c.Column, c.SourceColumn} {
		if _, err := excelize.ColumnNameToNumber(col); err != nil {
			return fmt.Errorf("check %q: %w", c.Name, err)
		}
	}
	if c.SourceSheet == "" {
		return fmt.Errorf("check %q: source_sheet required", c.Name)
	}
	if c.FirstRow < 1 || c.LastRow < c.FirstRow {
		return fmt.Errorf("check %q: invalid row window %d-%d", c.Name, c.FirstRow, c.LastRow)
	}
	switch c.Transform {
	case "", compare.TextExact, compare.TextUpper, compare.TextLower:
	default:
		return fmt.Errorf("check %q: invalid transform %q", c.Name, c.Transform)
	}
	return nil
}

func (c *ColumnMatch) evaluate(acc Accessor) outcome {
	blank := make(map[int]bool, len(c.BlankRows))
	for _, r := range c.BlankRows {
		blank[r] = true
	}
	label := c.Sheet
	if label == "" {
		label = acc.ActiveSheet()
	}

	for row := c.FirstRow; row <= c.LastRow; row++ {
		addr := fmt.Sprintf("%s%d", c.Column, row)
		got, _ := acc.Value(c.Sheet, addr)
		if blank[row] {
			if !got.IsEmpty() {
				return fail(fmt.Sprintf("Cell %s in %s sheet should be empty but contains data.", addr, label))
			}
			continue
		}
		src, _ := acc.Value(c.SourceSheet, fmt.Sprintf("%s%d", c.SourceColumn, row))
		if src.IsEmpty() {
			continue
		}
		if got.IsEmpty() || !compare.Text(got.String(), src.String(), c.Transform) {
			return fail(fmt.Sprintf("Incorrect format at %s sheet cell %s.%s", label, addr, transformHint(c.Transform)),
				"  - Received: "+got.String())
		}
	}
	return pass(c.Points)
}

func transformHint(mode compare.TextMode) string {
	switch mode {
	case compare.TextUpper:
		return " Expected uppercase."
	case compare.TextLower:
		return " Expected lowercase."
	}
	return ""
}
