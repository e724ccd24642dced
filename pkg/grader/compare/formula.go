package compare

import "strings"

// functionPrefixes are written by Excel in front of functions newer than the file format.
var functionPrefixes = []string{"_xlfn._xlws.", "_xlfn.", "_xlws.", "_xludf."}

// NormalizeFormula trims whitespace, strips the engine-internal function
// prefixes and ensures exactly one leading "=". Empty input stays empty.
func NormalizeFormula(formula string) string {
	formula = strings.TrimSpace(formula)
	for _, p := range functionPrefixes {
		formula = strings.ReplaceAll(formula, p, "")
	}
	formula = strings.TrimSpace(strings.TrimLeft(formula, "="))
	if formula == "" {
		return ""
	}
	return "=" + formula
}

// Formula reports whether formula matches one of the accepted formulas after
// both sides are normalised.
func Formula(formula string, accepted []string) bool {
	got := NormalizeFormula(formula)
	if got == "" {
		return false
	}
	for _, a := range accepted {
		if got == NormalizeFormula(a) {
			return true
		}
	}
	return false
}
