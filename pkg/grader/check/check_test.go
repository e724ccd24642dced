package check

import (
	"testing"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testDocument() *models.Document {
	analysis := &models.Sheet{
		Name: "CoffeeAnalysis",
		Cells: map[string]models.Cell{
			"A1":  {Value: models.Text("Country"), Style: models.Style{FontName: "Times New Roman", FontSize: 13, Bold: true}},
			"B1":  {Value: models.Text("Price"), Style: models.Style{FontName: "Times New Roman", FontSize: 13, Bold: true, FillColor: "FFFF00"}},
			"A4":  {Value: models.Text("Kenya")},
			"B4":  {Value: models.Number(6.91)},
			"A5":  {Value: models.Text("Taiwan")},
			"B5":  {Value: models.Number(10.149)},
			"A6":  {Value: models.Text("Japan")},
			"B6":  {Value: models.Number(10.75)},
			"B15": {Value: models.Number(93.678), Formula: "=AVERAGE(B4:B14)"},
			"I4":  {Value: models.Text("Australia"), Formula: "=INDEX(A4:A14,MATCH(MAX(B4:B14),B4:B14,0))"},
			"F4":  {Value: models.Text("Example Company"), Style: models.Style{Hyperlink: "https://www.examplecompany.com"}},
		},
		MaxRow:     15,
		MaxCol:     9,
		Tables:     1,
		FreezePane: "A2",
		Layout: models.PageLayout{
			Orientation: "landscape",
			Margins:     models.Margins{Left: 0.25, Right: 0.25, Top: 0.75, Bottom: 0.75},
		},
		HeaderFooter: models.HeaderFooter{
			Header: models.Sections{Left: "Coffee", Center: "&D", Right: "&F"},
			Footer: models.Sections{Left: "Page &P"},
		},
		View:             models.ViewOptions{GridLines: false, Headings: true},
		RowHeights:       map[int]float64{1: 30},
		ColWidths:        map[int]float64{1: 20, 2: 15, 3: 15},
		DefaultRowHeight: 15,
		DefaultColWidth:  9.140625,
		DefaultStyle:     models.Style{FontName: "Calibri", FontSize: 11},
	}
	return models.NewDocument("book.xlsx", "", []*models.Sheet{analysis}, map[string]models.NamedRange{
		"EmployeeInfo": {Name: "EmployeeInfo", Sheet: "CoffeeAnalysis", Area: models.Area{R1: 1, C1: 1, R2: 201, C2: 2}, RefersTo: "CoffeeAnalysis!$A$1:$B$201"},
	})
}

func float(f float64) *float64 { return &f }
func flag(b bool) *bool        { return &b }

type pairs []struct {
	key string
	val float64
}

func (p pairs) values() compare.KeyedValues {
	out := make(compare.KeyedValues, 0, len(p))
	for _, e := range p {
		out = append(out, compare.KeyedValue{Key: e.key, Value: models.Number(e.val)})
	}
	return out
}

func TestCellValue(t *testing.T) {
	doc := testDocument()

	res := Evaluate(doc, &CellValue{Base: Base{Name: "avg", Points: 5}, Cell: "B15", Expected: models.Number(93.68)})
	assert.Equal(t, models.StatusPassed, res.Status)
	assert.Equal(t, 5.0, res.Earned)
	assert.Empty(t, res.Feedback)

	res = Evaluate(doc, &CellValue{Base: Base{Name: "most", Points: 5}, Cell: "I4", Expected: models.Text("Guatemala")})
	assert.Equal(t, models.StatusMismatch, res.Status)
	assert.Equal(t, 0.0, res.Earned)
	assert.Equal(t, []string{"Cell I4 Value Check:", "  - Received: Australia", "  - Expected: Guatemala"}, res.Feedback)

	res = Evaluate(doc, &CellValue{Base: Base{Name: "blank", Points: 5, Feedback: "I18 is empty."}, Cell: "I18", Expected: models.Text("Australia")})
	assert.Equal(t, []string{"I18 is empty.", "  - Received: None", "  - Expected: Australia"}, res.Feedback)
}

func TestMissingSheetDoesNotAffectSiblings(t *testing.T) {
	doc := testDocument()

	missing := Evaluate(doc, &Structure{Base: Base{Name: "report", Sheet: "Report", Points: 3}, Expect: ExpectTablePresent})
	assert.Equal(t, models.StatusMissingTarget, missing.Status)
	assert.Equal(t, 0.0, missing.Earned)
	require.Len(t, missing.Feedback, 1)
	assert.Contains(t, missing.Feedback[0], "sheet not found")

	present := Evaluate(doc, &CellValue{Base: Base{Name: "avg", Sheet: "CoffeeAnalysis", Points: 5}, Cell: "B15", Expected: models.Number(93.68)})
	assert.Equal(t, 5.0, present.Earned)
}

func TestCellFormula(t *testing.T) {
	doc := testDocument()
	spec := &CellFormula{
		Base:     Base{Name: "avg formula", Points: 5},
		Cell:     "B15",
		Accepted: []string{"=AVERAGE(B4:B14)", "=SUM(B4:B14)/11"},
	}
	assert.Equal(t, 5.0, Evaluate(doc, spec).Earned)

	spec.Accepted = []string{"=SUM(B4:B14)/11"}
	res := Evaluate(doc, spec)
	assert.Equal(t, 0.0, res.Earned)
	assert.Equal(t, []string{"Cell B15 Formula Check:", "  - Received: =AVERAGE(B4:B14)", "  - Accepted: =SUM(B4:B14)/11"}, res.Feedback)

	spec.Cell = "B4"
	res = Evaluate(doc, spec)
	assert.Equal(t, models.StatusMismatch, res.Status)
	assert.Contains(t, res.Feedback[0], "No formula found")
}

func TestRangeValues(t *testing.T) {
	doc := testDocument()
	spec := &RangeValues{
		Base:     Base{Name: "data", Points: 6},
		Range:    "A4:B5",
		Expected: [][]models.Value{{models.Text("Kenya"), models.Number(6.91)}, {models.Text("Taiwan"), models.Number(99)}},
		Scoring:  ScoringProportional,
	}
	require.NoError(t, spec.Validate())

	res := Evaluate(doc, spec)
	assert.Equal(t, models.StatusPartial, res.Status)
	assert.InDelta(t, 4.5, res.Earned, 1e-9)
	assert.Equal(t, "  - B5: received 10.149, expected 99", res.Feedback[1])

	spec.Scoring = ScoringAll
	res = Evaluate(doc, spec)
	assert.Equal(t, 0.0, res.Earned)

	spec.Expected = [][]models.Value{{models.Text("Kenya")}}
	assert.Error(t, spec.Validate())
}

func TestStyle(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name   string
		spec   *Style
		earned float64
	}{
		{"font over range", &Style{Range: "A1:B1", Font: &FontPredicate{Name: "Times New Roman"}}, 2},
		{"font not everywhere", &Style{Range: "A1:B2", Font: &FontPredicate{Name: "Times New Roman"}}, 0},
		{"font name is case sensitive", &Style{Range: "A1:B1", Font: &FontPredicate{Name: "times new roman"}}, 0},
		{"bold size 13", &Style{Range: "A1", Font: &FontPredicate{Size: float(13), Bold: flag(true)}}, 2},
		{"fill", &Style{Range: "B1", Fill: &FillPredicate{Color: "#FFFF00"}}, 2},
		{"no fill", &Style{Range: "A1", Fill: &FillPredicate{Color: "FFFF00"}}, 0},
		{"hyperlink", &Style{Range: "F4", Hyperlink: &HyperlinkPredicate{Target: "https://www.examplecompany.com", Text: "Example Company"}}, 2},
		{"hyperlink text", &Style{Range: "F4", Hyperlink: &HyperlinkPredicate{Target: "https://www.examplecompany.com", Text: "Example"}}, 0},
		{"hyperlink absent", &Style{Range: "B204", Hyperlink: &HyperlinkPredicate{Absent: true}}, 2},
		{"hyperlink not removed", &Style{Range: "F4", Hyperlink: &HyperlinkPredicate{Absent: true}}, 0},
		{"row height", &Style{RowHeight: &RowHeightPredicate{Rows: []int{1}, Min: 30, Max: 30}}, 2},
		{"column A", &Style{ColumnWidth: &ColumnWidthPredicate{Columns: "A", Min: 19, Max: 21}}, 2},
		{"columns B-C", &Style{ColumnWidth: &ColumnWidthPredicate{Columns: "B:C", Min: 13, Max: 16.5}}, 2},
		{"columns B-D", &Style{ColumnWidth: &ColumnWidthPredicate{Columns: "B:D", Min: 13, Max: 16.5}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.spec.Base = Base{Name: tt.name, Points: 2}
			require.NoError(t, tt.spec.Validate())
			res := Evaluate(doc, tt.spec)
			assert.Equal(t, tt.earned, res.Earned)
			if tt.earned == 0 {
				assert.NotEmpty(t, res.Feedback)
			}
		})
	}

	assert.Error(t, (&Style{Base: Base{Name: "two"}, Range: "A1", Font: &FontPredicate{}, Fill: &FillPredicate{}}).Validate())
}

func TestStructure(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name   string
		spec   *Structure
		earned float64
	}{
		{"sheets", &Structure{Expect: ExpectSheetsPresent, Sheets: []string{"CoffeeAnalysis"}}, 2},
		{"sheets missing", &Structure{Expect: ExpectSheetsPresent, Sheets: []string{"CoffeeAnalysis", "Report"}}, 0},
		{"named range", &Structure{Expect: ExpectNamedRange, RangeName: "EmployeeInfo"}, 2},
		{"named range target", &Structure{Expect: ExpectNamedRangeTarget, RangeName: "EmployeeInfo", Target: "A1:B201"}, 2},
		{"named range wrong target", &Structure{Expect: ExpectNamedRangeTarget, RangeName: "EmployeeInfo", Target: "A1:B200"}, 0},
		{"table", &Structure{Expect: ExpectTablePresent}, 2},
		{"row count", &Structure{Expect: ExpectRowCount, Counts: []int{1001, 15}}, 2},
		{"row count wrong", &Structure{Expect: ExpectRowCount, Counts: []int{523}}, 0},
		{"freeze", &Structure{Expect: ExpectFreezePane, Target: "A2"}, 2},
		{"complete rows", &Structure{Expect: ExpectCompleteRows, Range: "A4:B8", Rows: 3}, 2},
		{"orientation", &Structure{Expect: ExpectOrientation, Target: "landscape"}, 2},
		{"fit defaults to one page", &Structure{Expect: ExpectFitToPage, FitWidth: 1, FitHeight: 1}, 2},
		{"margins", &Structure{Expect: ExpectMargins, Margins: &models.Margins{Left: 0.25, Right: 0.25, Top: 0.75, Bottom: 0.75}}, 2},
		{"header left", &Structure{Expect: ExpectHeaderFooter, Part: "header", Section: "left"}, 2},
		{"header date", &Structure{Expect: ExpectHeaderFooter, Part: "header", Section: "center", Contains: "&D"}, 2},
		{"footer pages", &Structure{Expect: ExpectHeaderFooter, Part: "footer", Section: "right", Contains: "&N"}, 0},
		{"view hidden", &Structure{Expect: ExpectViewOptions, GridLines: flag(false), Headings: flag(false)}, 0},
		{"gridlines hidden", &Structure{Expect: ExpectViewOptions, GridLines: flag(false)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.spec.Base = Base{Name: tt.name, Points: 2}
			require.NoError(t, tt.spec.Validate())
			res := Evaluate(doc, tt.spec)
			assert.Equal(t, tt.earned, res.Earned)
			if tt.earned == 0 {
				assert.NotEmpty(t, res.Feedback)
			}
		})
	}

	res := Evaluate(doc, &Structure{Base: Base{Name: "names"}, Expect: ExpectNamedRange, RangeName: "Nope"})
	assert.Equal(t, models.StatusMissingTarget, res.Status)
	assert.Equal(t, []string{"Named range 'Nope' not found."}, res.Feedback)
}

func TestSetComparison(t *testing.T) {
	doc := testDocument()
	spec := &SetComparison{
		Base:               Base{Name: "prices"},
		KeyColumn:          "A",
		ValueColumn:        "B",
		FirstRow:           4,
		LastRow:            14,
		CompletenessPoints: 5,
		FallbackPoints:     1,
		AccuracyPoints:     3,
		Noun:               "countries",
		ValueLabel:         "price",
		Expected:           pairs{{"Taiwan", 10.15}, {"Japan", 10.75}, {"Kenya", 6.91}}.values(),
	}
	require.NoError(t, spec.Validate())

	res := Evaluate(doc, spec)
	assert.Equal(t, models.StatusPassed, res.Status)
	assert.Equal(t, 8.0, res.Earned)
	assert.Equal(t, 8.0, res.Possible)

	spec.Expected = pairs{{"Taiwan", 10.15}, {"Japan", 10.75}, {"Kenya", 6.91}, {"China", 22.53}}.values()
	res = Evaluate(doc, spec)
	assert.Equal(t, models.StatusPartial, res.Status)
	assert.InDelta(t, 1+3*3.0/4, res.Earned, 1e-9)
	assert.Equal(t, []string{"Missing countries: China"}, res.Feedback)

	spec.Expected = pairs{{"Taiwan", 10.15}, {"Japan", 11}}.values()
	res = Evaluate(doc, spec)
	assert.InDelta(t, 1+1.5, res.Earned, 1e-9)
	assert.Equal(t, []string{"Extra countries found: Kenya", "Incorrect price for Japan. Expected 11, Got 10.75"}, res.Feedback)
}

func TestColumnMatch(t *testing.T) {
	participants := &models.Sheet{Name: "Participants", Cells: map[string]models.Cell{
		"B2": {Value: models.Text("Ada Lovelace")},
		"B3": {Value: models.Text("Grace Hopper")},
		"E2": {Value: models.Text("Ada@Example.com")},
		"E3": {Value: models.Text("Grace@Example.com")},
	}}
	names := &models.Sheet{Name: "Names & Emails", Cells: map[string]models.Cell{
		"A2": {Value: models.Text("ADA LOVELACE")},
		"A3": {Value: models.Text("GRACE HOPPER")},
		"B2": {Value: models.Text("ada@example.com")},
		"B3": {Value: models.Text("grace@example.com")},
	}}
	doc := models.NewDocument("p2.xlsx", "", []*models.Sheet{participants, names}, nil)

	upper := &ColumnMatch{
		Base:         Base{Name: "names", Sheet: "Names & Emails", Points: 3},
		Column:       "A",
		SourceSheet:  "Participants",
		SourceColumn: "B",
		FirstRow:     2,
		LastRow:      10,
		Transform:    "upper",
	}
	require.NoError(t, upper.Validate())
	assert.Equal(t, 3.0, Evaluate(doc, upper).Earned)

	lower := &ColumnMatch{
		Base:         Base{Name: "emails", Sheet: "Names & Emails", Points: 3},
		Column:       "B",
		SourceSheet:  "Participants",
		SourceColumn: "E",
		FirstRow:     2,
		LastRow:      10,
		Transform:    "lower",
		BlankRows:    []int{3},
	}
	res := Evaluate(doc, lower)
	assert.Equal(t, 0.0, res.Earned)
	assert.Equal(t, []string{"Cell B3 in Names & Emails sheet should be empty but contains data."}, res.Feedback)

	lower.SourceSheet = "Times"
	res = Evaluate(doc, lower)
	assert.Equal(t, models.StatusMissingTarget, res.Status)
}

// brokenSpec exercises recovery and clamping.
type brokenSpec struct {
	Base
	earned float64
	panics bool
}

func (b *brokenSpec) Kind() Kind      { return "broken" }
func (b *brokenSpec) Validate() error { return nil }
func (b *brokenSpec) evaluate(Accessor) outcome {
	if b.panics {
		var m map[string]int
		m["boom"]++
	}
	return outcome{earned: b.earned}
}

func TestEvaluateRecoversAndClamps(t *testing.T) {
	doc := testDocument()

	res := Evaluate(doc, &brokenSpec{Base: Base{Name: "panics", Points: 4}, panics: true})
	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, 0.0, res.Earned)
	require.Len(t, res.Feedback, 1)
	assert.Contains(t, res.Feedback[0], "panics: could not be evaluated")

	res = Evaluate(doc, &brokenSpec{Base: Base{Name: "over", Points: 4}, earned: 9})
	assert.Equal(t, 4.0, res.Earned)
	assert.Equal(t, models.StatusPassed, res.Status)

	res = Evaluate(doc, &brokenSpec{Base: Base{Name: "under", Points: 4}, earned: -2})
	assert.Equal(t, 0.0, res.Earned)
	assert.Equal(t, []string{"under: check failed."}, res.Feedback)
}

func TestDecodeList(t *testing.T) {
	src := `
- kind: cell_value
  name: B15
  sheet: CoffeeAnalysis
  cell: B15
  expected: 93.68
  points: 5
- kind: style
  name: header fill
  range: B1
  fill: {color: FFFF00}
  points: 3
- kind: set_comparison
  name: prices
  key_column: A
  value_column: B
  first_row: 4
  last_row: 14
  completeness_points: 5
  fallback_points: 1
  accuracy_points: 3
  expected:
    Kenya: 6.91
    Taiwan: 10.15
`
	var list List
	require.NoError(t, yaml.Unmarshal([]byte(src), &list))
	require.Len(t, list, 3)

	cv, ok := list[0].(*CellValue)
	require.True(t, ok)
	assert.Equal(t, "CoffeeAnalysis", cv.Sheet)
	assert.Equal(t, models.Number(93.68), cv.Expected)
	assert.Equal(t, KindStyle, list[1].Kind())
	assert.Equal(t, 8.0, list[2].Possible())
	assert.Equal(t, []string{"Kenya", "Taiwan"}, list[2].(*SetComparison).Expected.Keys())

	err := yaml.Unmarshal([]byte("- kind: sparkline\n  name: x\n"), &list)
	assert.ErrorContains(t, err, "unknown check kind")

	err = yaml.Unmarshal([]byte("- kind: cell_value\n  name: x\n  cell: nope\n"), &list)
	assert.ErrorContains(t, err, "invalid cell")
}
