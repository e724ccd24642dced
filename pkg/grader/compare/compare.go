// Package compare holds the pure comparison functions used to score checks.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
)

// DefaultTolerance is the numeric tolerance used when a check does not set one.
const DefaultTolerance = 0.01

// Round2 rounds half away from zero to 2 decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Numbers reports whether a and b are equal within tol after both are rounded
// to 2 decimal places. A tolerance <= 0 requires exact equality after rounding.
func Numbers(a, b, tol float64) bool {
	ra, rb := Round2(a), Round2(b)
	if tol <= 0 {
		return ra == rb
	}
	// Rounded operands differ by whole cents up to float error; a one-cent
	// difference must not pass a 0.01 tolerance.
	return ra == rb || math.Abs(ra-rb) < tol-1e-9
}

// TextMode selects how text is compared.
type TextMode string

const (
	// TextExact is case-sensitive equality after trimming whitespace.
	TextExact TextMode = "exact"
	// TextFold is case-insensitive equality after trimming whitespace.
	TextFold TextMode = "fold"
	// TextUpper requires the actual text to equal the upper-cased expected text.
	TextUpper TextMode = "upper"
	// TextLower requires the actual text to equal the lower-cased expected text.
	TextLower TextMode = "lower"
)

// ParseTextMode validates a text mode name. The empty name is TextExact.
func ParseTextMode(s string) (TextMode, error) {
	switch TextMode(s) {
	case "":
		return TextExact, nil
	case TextExact, TextFold, TextUpper, TextLower:
		return TextMode(s), nil
	}
	return "", fmt.Errorf("invalid text mode: %s (must be exact, fold, upper or lower)", s)
}

// Text compares actual against expected using mode.
func Text(actual, expected string, mode TextMode) bool {
	actual, expected = strings.TrimSpace(actual), strings.TrimSpace(expected)
	switch mode {
	case TextFold:
		return strings.EqualFold(actual, expected)
	case TextUpper:
		return actual == strings.ToUpper(expected)
	case TextLower:
		return actual == strings.ToLower(expected)
	}
	return actual == expected
}

// Values compares an observed cell value with an expected one. The kind of
// the expected value decides the comparison: numbers use Numbers (numeric
// text in the observed cell is accepted), text uses Text, booleans and dates
// must match exactly and the empty value matches blank cells only.
func Values(actual, expected models.Value, tol float64, mode TextMode) bool {
	switch expected.Kind {
	case models.KindNumber:
		f, ok := actual.Float()
		return ok && Numbers(f, expected.Num, tol)
	case models.KindBool:
		return actual.Kind == models.KindBool && actual.Bool == expected.Bool
	case models.KindDate:
		if actual.Kind != models.KindDate {
			return false
		}
		return actual.Time.Format("2006-01-02") == expected.Time.Format("2006-01-02")
	case models.KindText:
		return Text(textOf(actual), expected.Text, mode)
	}
	return actual.IsEmpty() || (actual.Kind == models.KindText && strings.TrimSpace(actual.Text) == "")
}

func textOf(v models.Value) string {
	if v.IsEmpty() {
		return ""
	}
	return v.String()
}

// NormalizeColor converts "#ffff00", "FFFF00" or ARGB "FFFFFF00" to "FFFF00".
func NormalizeColor(color string) string {
	color = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(color) == 8 {
		color = color[2:]
	}
	return color
}

// Color reports whether two colours are the same RGB value.
func Color(actual, expected string) bool {
	return NormalizeColor(actual) == NormalizeColor(expected)
}
