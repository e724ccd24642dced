// Package models defines the read-only document view and grading results.
package models

// Cell represents one cell of a sheet.
type Cell struct {
	// Value is the cached (last calculated) value.
	Value Value `json:"value"`
	// Formula is the normalised formula text ("=SUM(A1:A3)"), empty for constants.
	Formula string `json:"formula,omitempty"`
	// Style holds the formatting attributes of the cell.
	Style Style `json:"style"`
}

// Style is the formatting subset a grader can inspect.
type Style struct {
	// FontName is the font family name.
	FontName string `json:"font_name,omitempty"`
	// FontSize is the font size in points.
	FontSize float64 `json:"font_size,omitempty"`
	// Bold is true for a bold font.
	Bold bool `json:"bold,omitempty"`
	// FillColor is the pattern fill colour as upper-case RRGGBB hex, empty if none.
	FillColor string `json:"fill_color,omitempty"`
	// Hyperlink is the hyperlink target, empty if the cell has none.
	Hyperlink string `json:"hyperlink,omitempty"`
}
