package grader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/cotten321/Excel-Grader/pkg/grader/parser"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Load reads an xlsx file into an immutable Document.
//
// It returns ErrFileNotFound when the path does not exist and a *LoadError
// wrapping ErrDocumentUnreadable when the workbook cannot be parsed at all.
// Problems confined to one sheet component are logged and that component is
// left at its defaults.
func Load(path string, opts Options) (doc *models.Document, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, NewLoadError(path, "", "workbook", fmt.Errorf("%w: %v", ErrDocumentUnreadable, statErr))
	}

	// excelize can panic on malformed parts; treat that as unreadable.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = NewLoadError(path, "", "workbook", fmt.Errorf("%w: %v", ErrDocumentUnreadable, r))
		}
	}()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewLoadError(path, "", "workbook", fmt.Errorf("%w: %v", ErrDocumentUnreadable, err))
	}
	defer f.Close()

	parts, err := parser.ExtractSheetParts(path)
	if err != nil {
		return nil, NewLoadError(path, "", "parts", fmt.Errorf("%w: %v", ErrDocumentUnreadable, err))
	}

	defaultStyle := parser.DefaultStyle(f)
	cellOpts := parser.CellOptions{
		IncludeStyles: opts.ShouldIncludeStyles(),
		IncludeLinks:  opts.ShouldIncludeLinks(),
	}

	sheetList := f.GetSheetList()
	sheets := make([]*models.Sheet, 0, len(sheetList))
	for _, sheetName := range sheetList {
		sheets = append(sheets, loadSheet(f, path, sheetName, parts[sheetName], defaultStyle, cellOpts, opts))
	}

	active := f.GetSheetName(f.GetActiveSheetIndex())
	return models.NewDocument(filepath.Base(path), active, sheets, parser.ExtractNamedRanges(f)), nil
}

func loadSheet(f *excelize.File, path, sheetName string, sp parser.SheetParts, defaultStyle models.Style, cellOpts parser.CellOptions, opts Options) *models.Sheet {
	sheet := &models.Sheet{
		Name:         sheetName,
		Tables:       sp.Tables,
		FreezePane:   sp.FreezePane,
		HeaderFooter: sp.HeaderFooter,
		DefaultStyle: defaultStyle,
	}

	used, err := parser.UsedRange(f, sheetName)
	if err != nil {
		warn(NewLoadError(path, sheetName, "cells", err))
	}
	sheet.MaxRow, sheet.MaxCol = used.R2, used.C2

	// Log warning and continue with empty cells
	if sheet.Cells, err = parser.ExtractCells(f, sheetName, used, defaultStyle, cellOpts); err != nil {
		warn(NewLoadError(path, sheetName, "cells", err))
		sheet.Cells = map[string]models.Cell{}
	}

	if sheet.Layout, err = parser.ExtractPageLayout(f, sheetName); err != nil {
		warn(NewLoadError(path, sheetName, "layout", err))
	}
	if sheet.View, err = parser.ExtractView(f, sheetName); err != nil {
		warn(NewLoadError(path, sheetName, "view", err))
	}

	if opts.ShouldIncludeDimensions() {
		dims, err := parser.ExtractDimensions(f, sheetName, used)
		if err != nil {
			warn(NewLoadError(path, sheetName, "dimensions", err))
		}
		sheet.RowHeights = dims.RowHeights
		sheet.ColWidths = dims.ColWidths
		sheet.DefaultRowHeight = dims.DefaultRowHeight
		sheet.DefaultColWidth = dims.DefaultColWidth
	}

	return sheet
}

func warn(err *LoadError) {
	log.Warn().Err(err.Err).Str("path", err.Path).Str("sheet", err.SheetName).Str("component", err.Component).Msg("Partial load")
}
