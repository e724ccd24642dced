package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
)

// WriteCSV writes one header line and one line per result.
func WriteCSV(w io.Writer, results []models.ScoreResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, row := range Rows(results) {
		record := []string{
			row.Identifier,
			formatNumber(row.PointsEarned),
			formatNumber(row.PointsPossible),
			formatNumber(row.Percentage),
			string(row.Tier),
			row.Feedback,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
