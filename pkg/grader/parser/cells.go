package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

// CellOptions selects which per-cell attributes ExtractCells reads.
type CellOptions struct {
	// IncludeStyles reads font and fill for every cell.
	IncludeStyles bool
	// IncludeLinks reads hyperlink targets for every cell.
	IncludeLinks bool
}

// ExtractCells extracts values, formulas and (optionally) styles and
// hyperlinks for every cell of the sheet's used range. Cells that are blank,
// formula-less and carry the sheet's default style are omitted.
func ExtractCells(f *excelize.File, sheetName string, used models.Area, defaultStyle models.Style, opts CellOptions) (map[string]models.Cell, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	styles := newStyleCache(f)
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	result := make(map[string]models.Cell)
	if used.R2 == 0 || used.C2 == 0 {
		return result, nil
	}

	for rowNum := used.R1; rowNum <= used.R2; rowNum++ {
		var row []string
		if rowNum-1 < len(rows) {
			row = rows[rowNum-1]
		}
		for colNum := used.C1; colNum <= used.C2; colNum++ {
			cellName := models.CellName(colNum, rowNum)
			raw := ""
			if colNum-1 < len(row) {
				raw = row[colNum-1]
			}

			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			cell := models.Cell{
				Value: parseValue(raw, cellType),
				Style: defaultStyle,
			}
			if cell.Value.Kind == models.KindNumber {
				if idx, err := f.GetCellStyle(sheetName, cellName); err == nil && styles.isDate(idx) {
					cell.Value = serialDate(cell.Value.Num, date1904)
				}
			}

			formula, err := f.GetCellFormula(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			cell.Formula = compare.NormalizeFormula(formula)

			if opts.IncludeStyles {
				idx, err := f.GetCellStyle(sheetName, cellName)
				if err == nil {
					cell.Style = styles.resolve(idx, defaultStyle)
				}
			}
			if opts.IncludeLinks {
				hasLink, target, err := f.GetCellHyperLink(sheetName, cellName)
				if err == nil && hasLink && target != "" {
					cell.Style.Hyperlink = target
				}
			}

			if cell.Value.IsEmpty() && cell.Formula == "" && cell.Style == defaultStyle {
				continue
			}
			result[cellName] = cell
		}
	}

	return result, nil
}

// parseValue converts a raw cached cell value into a typed value.
// Shared and inline strings stay text even when they look numeric.
func parseValue(s string, cellType excelize.CellType) models.Value {
	if s == "" {
		return models.Empty()
	}
	switch cellType {
	case excelize.CellTypeBool:
		return models.Bool(s == "1" || strings.EqualFold(s, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return models.Text(s)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return models.Date(t)
			}
		}
		return models.Text(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.Number(f)
	}
	return models.Text(s)
}

// serialDate converts a date serial to a date value, keeping the number when
// the serial is out of range.
func serialDate(serial float64, date1904 bool) models.Value {
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return models.Number(serial)
	}
	return models.Date(t)
}
