// Package grader loads submitted workbooks into read-only documents for grading.
package grader

import "fmt"

// Mode represents the loading mode.
type Mode string

const (
	// ModeLight loads values, formulas and workbook structure only.
	ModeLight Mode = "light"
	// ModeStandard additionally loads styles, hyperlinks, row heights and column widths.
	ModeStandard Mode = "standard"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLight, ModeStandard:
		return Mode(s), nil
	case "":
		return ModeStandard, nil
	}
	return "", fmt.Errorf("invalid mode: %s (must be light or standard)", s)
}

// Options configures loading behavior.
type Options struct {
	// Mode specifies the loading mode (light, standard).
	Mode Mode
	// IncludeStyles specifies whether to load fonts and fills.
	// If nil, defaults to true for standard mode, false otherwise.
	IncludeStyles *bool
	// IncludeLinks specifies whether to load cell hyperlinks.
	// If nil, defaults to true for standard mode, false otherwise.
	IncludeLinks *bool
}

// DefaultOptions returns default loading options.
func DefaultOptions() Options {
	return Options{
		Mode: ModeStandard,
	}
}

// ShouldIncludeStyles returns whether to load cell styles.
func (o Options) ShouldIncludeStyles() bool {
	if o.IncludeStyles != nil {
		return *o.IncludeStyles
	}
	return o.Mode != ModeLight
}

// ShouldIncludeLinks returns whether to load cell hyperlinks.
func (o Options) ShouldIncludeLinks() bool {
	if o.IncludeLinks != nil {
		return *o.IncludeLinks
	}
	return o.Mode != ModeLight
}

// ShouldIncludeDimensions returns whether to load row heights and column widths.
func (o Options) ShouldIncludeDimensions() bool {
	return o.Mode != ModeLight
}
