package report

import (
	"fmt"
	"io"
	"os"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderTable prints a summary table of the batch, one line per submission.
// Feedback is reduced to a line count to keep the table narrow.
func RenderTable(w io.Writer, title string, results []models.ScoreResult) error {
	if w == nil {
		w = os.Stdout
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{
				PerColumn: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft, tw.AlignRight},
			},
		},
	}))
	table.Header("Student", "Score", "Total", "Percentage", "Tier", "Issues")

	var earned, possible float64
	for _, res := range results {
		row := NewRow(res)
		earned += res.PointsEarned
		possible += res.PointsPossible
		if err := table.Append(
			row.Identifier,
			fmt.Sprintf("%.2f", row.PointsEarned),
			fmt.Sprintf("%.2f", row.PointsPossible),
			fmt.Sprintf("%.2f%%", row.Percentage),
			string(row.Tier),
			fmt.Sprintf("%d", len(res.Feedback)),
		); err != nil {
			return err
		}
	}

	average := 0.0
	if possible > 0 {
		average = earned / possible * 100
	}
	table.Footer(title, fmt.Sprintf("%d graded", len(results)), "", fmt.Sprintf("%.2f%%", average), "", "")
	return table.Render()
}
