// Package check evaluates declarative checks against a read-only document.
//
// A check is one of a closed set of variants (cell values, formulas, style
// predicates, structural expectations, unordered set comparisons and column
// transforms). Evaluate runs a single check and never panics: lookups that
// find nothing score zero with a feedback line naming the missing target, and
// unexpected failures are recovered into an error outcome.
package check

import (
	"fmt"
	"math"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/rs/zerolog/log"
)

// Accessor is the read-only document view checks are evaluated against.
// Every lookup reports absence with a false second result. An empty sheet
// name means the active sheet.
type Accessor interface {
	SheetNames() []string
	ActiveSheet() string
	HasSheet(name string) bool
	Value(sheet, addr string) (models.Value, bool)
	Formula(sheet, addr string) (string, bool)
	Style(sheet, addr string) (models.Style, bool)
	NamedRange(name string) (models.NamedRange, bool)
	TableCount(sheet string) (int, bool)
	RowCount(sheet string) (int, bool)
	PageLayout(sheet string) (models.PageLayout, bool)
	HeaderFooter(sheet string) (models.HeaderFooter, bool)
	View(sheet string) (models.ViewOptions, bool)
	FreezePane(sheet string) (string, bool)
	RowHeight(sheet string, row int) (float64, bool)
	ColumnWidth(sheet string, col int) (float64, bool)
}

var _ Accessor = (*models.Document)(nil)

// Kind names a check variant as written in assignment files.
type Kind string

const (
	KindCellValue     Kind = "cell_value"
	KindRangeValues   Kind = "range_values"
	KindCellFormula   Kind = "cell_formula"
	KindStyle         Kind = "style"
	KindStructure     Kind = "structure"
	KindSetComparison Kind = "set_comparison"
	KindColumnMatch   Kind = "column_match"
)

// Base holds the fields shared by every check.
type Base struct {
	// Name identifies the check within its assignment.
	Name string `yaml:"name"`
	// Sheet is the sheet the check reads; empty means the active sheet.
	Sheet string `yaml:"sheet,omitempty"`
	// Points is the maximum the check awards.
	Points float64 `yaml:"points"`
	// Bonus points do not count towards the assignment total.
	Bonus bool `yaml:"bonus,omitempty"`
	// Feedback replaces the default first feedback line on failure.
	Feedback string `yaml:"feedback,omitempty"`
}

// Common returns the shared fields.
func (b Base) Common() Base { return b }

// Possible returns the maximum the check awards.
func (b Base) Possible() float64 { return b.Points }

func (b Base) sheets() []string { return []string{b.Sheet} }

func (b Base) validate() error {
	if b.Name == "" {
		return fmt.Errorf("check has no name")
	}
	if b.Points < 0 || math.IsNaN(b.Points) || math.IsInf(b.Points, 0) {
		return fmt.Errorf("check %q: invalid points %v", b.Name, b.Points)
	}
	return nil
}

// Spec is one declarative check. The set of implementations is closed.
type Spec interface {
	Kind() Kind
	Common() Base
	Possible() float64
	Validate() error

	// sheets lists the sheets the check needs; "" is the active sheet.
	sheets() []string
	evaluate(acc Accessor) outcome
}

// outcome is the raw result of a variant before clamping.
type outcome struct {
	earned   float64
	status   models.Status
	headline string
	details  []string
}

func pass(points float64) outcome {
	return outcome{earned: points, status: models.StatusPassed}
}

func fail(headline string, details ...string) outcome {
	return outcome{status: models.StatusMismatch, headline: headline, details: details}
}

func missing(headline string) outcome {
	return outcome{status: models.StatusMissingTarget, headline: headline}
}

// Evaluate runs one check against a document.
func Evaluate(acc Accessor, spec Spec) (res models.CheckResult) {
	base := spec.Common()
	res = models.CheckResult{
		Name:     base.Name,
		Kind:     string(spec.Kind()),
		Possible: spec.Possible(),
		Bonus:    base.Bonus,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("check", base.Name).Interface("panic", r).Msg("Check failed")
			res.Earned = 0
			res.Status = models.StatusError
			res.Feedback = []string{fmt.Sprintf("%s: could not be evaluated: %v", base.Name, r)}
		}
	}()

	for _, sheet := range spec.sheets() {
		if !acc.HasSheet(sheet) {
			if sheet == "" {
				sheet = "(active)"
			}
			res.Status = models.StatusMissingTarget
			res.Feedback = []string{fmt.Sprintf("%s: sheet not found: %s", base.Name, sheet)}
			return res
		}
	}

	out := spec.evaluate(acc)
	res.Earned = clamp(out.earned, res.Possible)
	res.Status = out.status
	switch {
	case res.Status == models.StatusPassed && res.Earned < res.Possible:
		res.Status = models.StatusPartial
	case res.Status == "" && res.Earned >= res.Possible:
		res.Status = models.StatusPassed
	case res.Status == "" && res.Earned > 0:
		res.Status = models.StatusPartial
	case res.Status == "":
		res.Status = models.StatusMismatch
	}
	if res.Status == models.StatusPassed {
		return res
	}

	headline := out.headline
	if base.Feedback != "" {
		headline = base.Feedback
	}
	if headline != "" {
		res.Feedback = append(res.Feedback, headline)
	}
	res.Feedback = append(res.Feedback, out.details...)
	if len(res.Feedback) == 0 {
		res.Feedback = []string{fmt.Sprintf("%s: check failed.", base.Name)}
	}
	return res
}

func clamp(earned, possible float64) float64 {
	if math.IsNaN(earned) || earned < 0 {
		return 0
	}
	if earned > possible {
		return possible
	}
	return earned
}
