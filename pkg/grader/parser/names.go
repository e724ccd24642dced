package parser

import (
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

// ExtractNamedRanges extracts workbook defined names.
// Names that do not refer to a single sheet range are kept with an empty Sheet.
func ExtractNamedRanges(f *excelize.File) map[string]models.NamedRange {
	result := make(map[string]models.NamedRange)

	for _, dn := range f.GetDefinedName() {
		nr := models.NamedRange{
			Name:     dn.Name,
			RefersTo: dn.RefersTo,
		}
		if sheetName, area, ok := parseDefinedNameReference(dn.RefersTo); ok {
			nr.Sheet = sheetName
			nr.Area = area
		}
		// Workbook-scoped names win over sheet-scoped duplicates.
		if _, exists := result[dn.Name]; exists && dn.Scope != "" && dn.Scope != "Workbook" {
			continue
		}
		result[dn.Name] = nr
	}

	return result
}

// parseDefinedNameReference parses a reference string.
// Format: ='Sheet Name'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parseDefinedNameReference(ref string) (string, models.Area, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "=")
	// Multi-area references are not a single target.
	if strings.Contains(ref, ",") {
		return "", models.Area{}, false
	}

	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", models.Area{}, false
	}
	sheet := ref[:idx]
	rangeStr := ref[idx+1:]

	// Remove quotes from sheet name; '' escapes a quote inside it.
	if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) >= 2 {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}

	area, err := models.ParseArea(rangeStr)
	if err != nil {
		return "", models.Area{}, false
	}
	return sheet, area, true
}
