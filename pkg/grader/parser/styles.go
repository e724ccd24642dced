package parser

import (
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

// defaultFontSize is Excel's default body font size.
const defaultFontSize = 11

// styleCache resolves excelize style indexes once per workbook.
type styleCache struct {
	f     *excelize.File
	cache map[int]models.Style
	dates map[int]bool
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, cache: make(map[int]models.Style), dates: make(map[int]bool)}
}

// isDate reports whether the style's number format displays a date or time.
func (c *styleCache) isDate(idx int) bool {
	if d, ok := c.dates[idx]; ok {
		return d
	}
	d := false
	if style, err := c.f.GetStyle(idx); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			d = IsDateFormat(*style.CustomNumFmt)
		} else {
			d = isBuiltinDateFormat(style.NumFmt)
		}
	}
	c.dates[idx] = d
	return d
}

// Built-in number formats 14-22 and 45-47 are dates and times.
func isBuiltinDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// IsDateFormat reports whether a custom number format code contains date or
// time tokens outside quoted text, escapes and bracketed modifiers.
func IsDateFormat(code string) bool {
	// Only the first section applies to positive numbers.
	section, _, _ := strings.Cut(code, ";")
	inQuote, inBracket := false, false
	for i := 0; i < len(section); i++ {
		ch := section[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			switch ch | 0x20 {
			case 'y', 'm', 'd', 'h':
				return true
			}
		}
	}
	return false
}

func (c *styleCache) resolve(idx int, fallback models.Style) models.Style {
	if st, ok := c.cache[idx]; ok {
		return st
	}
	st := fallback
	style, err := c.f.GetStyle(idx)
	if err == nil && style != nil {
		if style.Font != nil {
			if style.Font.Family != "" {
				st.FontName = style.Font.Family
			}
			if style.Font.Size > 0 {
				st.FontSize = style.Font.Size
			}
			st.Bold = style.Font.Bold
		}
		st.FillColor = ""
		if style.Fill.Type == "pattern" && style.Fill.Pattern == 1 && len(style.Fill.Color) > 0 {
			st.FillColor = compare.NormalizeColor(style.Fill.Color[0])
		}
	}
	c.cache[idx] = st
	return st
}

// DefaultStyle returns the style of an unformatted cell in the workbook.
func DefaultStyle(f *excelize.File) models.Style {
	st := models.Style{FontSize: defaultFontSize}
	if name, err := f.GetDefaultFont(); err == nil {
		st.FontName = name
	}
	return st
}
