package models

// Sheet represents structured data for a single sheet.
type Sheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Cells maps canonical cell names ("B4") to cells. Blank unformatted cells are omitted.
	Cells map[string]Cell `json:"cells,omitempty"`
	// MaxRow is the last used row (1-based, 0 for an empty sheet).
	MaxRow int `json:"max_row"`
	// MaxCol is the last used column (1-based, 0 for an empty sheet).
	MaxCol int `json:"max_col"`
	// Tables is the number of Excel tables on the sheet.
	Tables int `json:"tables"`
	// FreezePane is the top-left cell of the scrolling pane when panes are frozen.
	FreezePane string `json:"freeze_pane,omitempty"`
	// Layout is the page setup.
	Layout PageLayout `json:"layout"`
	// HeaderFooter is the odd-page header and footer.
	HeaderFooter HeaderFooter `json:"header_footer"`
	// View holds sheet view flags.
	View ViewOptions `json:"view"`
	// RowHeights maps row numbers to heights in points.
	RowHeights map[int]float64 `json:"row_heights,omitempty"`
	// ColWidths maps column numbers to widths in characters.
	ColWidths map[int]float64 `json:"col_widths,omitempty"`
	// DefaultRowHeight applies to rows absent from RowHeights.
	DefaultRowHeight float64 `json:"default_row_height"`
	// DefaultColWidth applies to columns absent from ColWidths.
	DefaultColWidth float64 `json:"default_col_width"`
	// DefaultStyle applies to cells absent from Cells.
	DefaultStyle Style `json:"default_style"`
}
