package report

import (
	"fmt"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/xuri/excelize/v2"
)

const (
	gradesSheet = "Grades"
	checksSheet = "Checks"
)

// tierFills are Excel's conditional-format palette colours per tier.
var tierFills = map[Tier]string{
	TierOutstanding: "BDD7EE",
	TierGood:        "C6EFCE",
	TierNeutral:     "FFEB9C",
	TierBad:         "FFC7CE",
}

// WriteXLSX saves a workbook with a Grades sheet (one row per submission,
// filled by tier) and a Checks sheet (one row per check outcome).
func WriteXLSX(path, title string, results []models.ScoreResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradesSheet); err != nil {
		return err
	}
	if err := writeGrades(f, title, results); err != nil {
		return fmt.Errorf("failed to write grades: %w", err)
	}
	if _, err := f.NewSheet(checksSheet); err != nil {
		return err
	}
	if err := writeChecks(f, results); err != nil {
		return fmt.Errorf("failed to write checks: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func writeGrades(f *excelize.File, title string, results []models.ScoreResult) error {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	fills := make(map[Tier]int, len(tierFills))
	for tier, color := range tierFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return err
		}
		fills[tier] = id
	}

	if err := f.SetSheetRow(gradesSheet, "A1", stringsToRow(Columns)); err != nil {
		return err
	}
	if err := f.SetCellStyle(gradesSheet, "A1", models.CellName(len(Columns), 1), header); err != nil {
		return err
	}

	for i, row := range Rows(results) {
		r := i + 2
		cells := []interface{}{row.Identifier, row.PointsEarned, row.PointsPossible, row.Percentage, string(row.Tier), row.Feedback}
		if err := f.SetSheetRow(gradesSheet, models.CellName(1, r), &cells); err != nil {
			return err
		}
		if err := f.SetCellStyle(gradesSheet, models.CellName(1, r), models.CellName(len(Columns), r), fills[row.Tier]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(gradesSheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(gradesSheet, "B", "E", 13); err != nil {
		return err
	}
	if err := f.SetColWidth(gradesSheet, "F", "F", 100); err != nil {
		return err
	}
	if err := f.SetPanes(gradesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	if title != "" {
		if err := f.SetHeaderFooter(gradesSheet, &excelize.HeaderFooterOptions{OddHeader: "&L" + strings.ReplaceAll(title, "&", "&&") + "&R&D"}); err != nil {
			return err
		}
	}
	if len(results) > 0 {
		ref := fmt.Sprintf("A1:%s", models.CellName(len(Columns), len(results)+1))
		if err := f.AutoFilter(gradesSheet, ref, nil); err != nil {
			return err
		}
	}
	return nil
}

func writeChecks(f *excelize.File, results []models.ScoreResult) error {
	cols := []string{"Student", "Check", "Kind", "Status", "Earned", "Possible", "Bonus", "Feedback"}
	if err := f.SetSheetRow(checksSheet, "A1", stringsToRow(cols)); err != nil {
		return err
	}
	r := 2
	for _, res := range results {
		for _, c := range res.Checks {
			cells := []interface{}{res.Identifier, c.Name, c.Kind, string(c.Status), c.Earned, c.Possible, c.Bonus, strings.Join(c.Feedback, "; ")}
			if err := f.SetSheetRow(checksSheet, models.CellName(1, r), &cells); err != nil {
				return err
			}
			r++
		}
	}
	return f.SetPanes(checksSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func stringsToRow(values []string) *[]interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &row
}
