package parser

import (
	"path/filepath"
	"testing"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

func TestExtractCells(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	// Set some test data
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")
	f.SetCellValue(sheetName, "B3", "101")
	f.SetCellFormula(sheetName, "C2", "SUM(A2:B2)")

	// Save to temp file
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	// Open and extract
	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	used, err := UsedRange(f2, sheetName)
	if err != nil {
		t.Fatalf("UsedRange failed: %v", err)
	}
	if used.R2 != 3 {
		t.Errorf("Expected 3 used rows, got %d", used.R2)
	}

	cells, err := ExtractCells(f2, sheetName, models.Area{R1: 1, C1: 1, R2: 3, C2: 3}, models.Style{}, CellOptions{})
	if err != nil {
		t.Fatalf("ExtractCells failed: %v", err)
	}

	if cells["A1"].Value != models.Text("Header1") {
		t.Errorf("Expected 'Header1', got %v", cells["A1"].Value)
	}

	// Check numeric values
	if cells["A2"].Value != models.Number(100) {
		t.Errorf("Expected 100, got %v (kind: %s)", cells["A2"].Value, cells["A2"].Value.Kind)
	}
	if cells["B2"].Value != models.Number(200.5) {
		t.Errorf("Expected 200.5, got %v", cells["B2"].Value)
	}

	// Numeric-looking strings stay text
	if cells["B3"].Value != models.Text("101") {
		t.Errorf("Expected text '101', got %v (kind: %s)", cells["B3"].Value, cells["B3"].Value.Kind)
	}

	if cells["C2"].Formula != "=SUM(A2:B2)" {
		t.Errorf("Expected formula '=SUM(A2:B2)', got %q", cells["C2"].Formula)
	}

	// Blank, unformatted cells are omitted
	if _, ok := cells["C3"]; ok {
		t.Errorf("Expected C3 to be omitted")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		cellType excelize.CellType
		expected models.Value
	}{
		{"123", excelize.CellTypeUnset, models.Number(123)},
		{"123.45", excelize.CellTypeNumber, models.Number(123.45)},
		{"-100", excelize.CellTypeUnset, models.Number(-100)},
		{"hello", excelize.CellTypeUnset, models.Text("hello")},
		{"123", excelize.CellTypeSharedString, models.Text("123")},
		{"1", excelize.CellTypeBool, models.Bool(true)},
		{"0", excelize.CellTypeBool, models.Bool(false)},
		{"Australia", excelize.CellTypeFormula, models.Text("Australia")},
		{"", excelize.CellTypeUnset, models.Empty()},
	}

	for _, tt := range tests {
		result := parseValue(tt.input, tt.cellType)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (kind: %s), expected %v (kind: %s)",
				tt.input, result, result.Kind, tt.expected, tt.expected.Kind)
		}
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"[$-409]mmm d, yyyy", true},
		{"d/m/yy h:mm", true},
		{"hh:mm:ss", true},
		{"0.00", false},
		{"General", false},
		{"#,##0;[Red]-#,##0", false},
		{`"day" 0`, false},
		{`0\d`, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsDateFormat(tt.code); got != tt.want {
			t.Errorf("IsDateFormat(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}

	for _, id := range []int{14, 17, 22, 45, 47} {
		if !isBuiltinDateFormat(id) {
			t.Errorf("Expected built-in format %d to be a date", id)
		}
	}
	for _, id := range []int{0, 2, 13, 23, 44, 49} {
		if isBuiltinDateFormat(id) {
			t.Errorf("Expected built-in format %d not to be a date", id)
		}
	}
}
