package parser

import (
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

// UsedRange returns the area from A1 to the last used row and column. It is
// the larger of the sheet's recorded dimension and the bounding box of
// non-empty cells, since writers do not always keep the dimension current.
// An empty sheet yields the zero Area.
func UsedRange(f *excelize.File, sheetName string) (models.Area, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return models.Area{}, err
	}

	maxRow, maxCol := 0, 0
	if lastRow, lastCol := dataBounds(rows); lastRow >= 0 {
		maxRow, maxCol = lastRow+1, lastCol+1
	}

	if dim, err := f.GetSheetDimension(sheetName); err == nil && dim != "" {
		if area, err := models.ParseArea(lastRangePart(dim)); err == nil {
			// A lone "A1" dimension is what writers emit for empty sheets.
			if !(area.R2 == 1 && area.C2 == 1 && maxRow == 0) {
				maxRow = max(maxRow, area.R2)
				maxCol = max(maxCol, area.C2)
			}
		}
	}

	if maxRow == 0 || maxCol == 0 {
		return models.Area{}, nil
	}
	return models.Area{R1: 1, C1: 1, R2: maxRow, C2: maxCol}, nil
}

func lastRangePart(dim string) string {
	if idx := strings.LastIndex(dim, ":"); idx >= 0 {
		return "A1:" + dim[idx+1:]
	}
	return dim
}

// dataBounds returns the zero-based last row and column holding a non-empty
// value, or -1, -1 when every cell is empty.
func dataBounds(rows [][]string) (lastRow, lastCol int) {
	lastRow, lastCol = -1, -1
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			lastRow = r
			lastCol = max(lastCol, c)
		}
	}
	return lastRow, lastCol
}
