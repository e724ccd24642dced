package parser

import (
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

// Excel's "Normal" margins, used when a sheet does not record its own.
var defaultMargins = models.Margins{Left: 0.7, Right: 0.7, Top: 0.75, Bottom: 0.75}

// ExtractPageLayout extracts orientation, fit-to-page and margins.
func ExtractPageLayout(f *excelize.File, sheetName string) (models.PageLayout, error) {
	layout := models.PageLayout{
		Orientation: "portrait",
		Margins:     defaultMargins,
	}

	opts, err := f.GetPageLayout(sheetName)
	if err != nil {
		return layout, err
	}
	if opts.Orientation != nil && *opts.Orientation != "" {
		layout.Orientation = *opts.Orientation
	}
	if opts.FitToWidth != nil {
		layout.FitToWidth = *opts.FitToWidth
	}
	if opts.FitToHeight != nil {
		layout.FitToHeight = *opts.FitToHeight
	}

	margins, err := f.GetPageMargins(sheetName)
	if err != nil {
		return layout, err
	}
	setMargin(&layout.Margins.Left, margins.Left)
	setMargin(&layout.Margins.Right, margins.Right)
	setMargin(&layout.Margins.Top, margins.Top)
	setMargin(&layout.Margins.Bottom, margins.Bottom)

	return layout, nil
}

func setMargin(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// ExtractView extracts grid line and heading visibility of the first sheet view.
// Both default to visible.
func ExtractView(f *excelize.File, sheetName string) (models.ViewOptions, error) {
	view := models.ViewOptions{GridLines: true, Headings: true}
	opts, err := f.GetSheetView(sheetName, 0)
	if err != nil {
		return view, err
	}
	if opts.ShowGridLines != nil {
		view.GridLines = *opts.ShowGridLines
	}
	if opts.ShowRowColHeaders != nil {
		view.Headings = *opts.ShowRowColHeaders
	}
	return view, nil
}

// minWidthColumns is the number of columns always scanned for custom widths.
const minWidthColumns = 52

// Dimensions holds row heights and column widths of a sheet.
type Dimensions struct {
	RowHeights       map[int]float64
	ColWidths        map[int]float64
	DefaultRowHeight float64
	DefaultColWidth  float64
}

// ExtractDimensions reads row heights over the used range and column widths
// over the used range or the first minWidthColumns columns, whichever is
// wider. The last row and column of the grid provide the defaults.
func ExtractDimensions(f *excelize.File, sheetName string, used models.Area) (Dimensions, error) {
	maxRow, maxCol := max(used.R2, 1), max(used.C2, minWidthColumns)
	dims := Dimensions{
		RowHeights: make(map[int]float64),
		ColWidths:  make(map[int]float64),
	}

	var err error
	if dims.DefaultRowHeight, err = f.GetRowHeight(sheetName, excelize.TotalRows); err != nil {
		return dims, err
	}
	if dims.DefaultColWidth, err = f.GetColWidth(sheetName, models.ColumnName(excelize.MaxColumns)); err != nil {
		return dims, err
	}

	for row := 1; row <= maxRow; row++ {
		h, err := f.GetRowHeight(sheetName, row)
		if err != nil {
			return dims, err
		}
		if h != dims.DefaultRowHeight {
			dims.RowHeights[row] = h
		}
	}
	for col := 1; col <= maxCol; col++ {
		w, err := f.GetColWidth(sheetName, models.ColumnName(col))
		if err != nil {
			return dims, err
		}
		if w != dims.DefaultColWidth {
			dims.ColWidths[col] = w
		}
	}

	return dims, nil
}
