// Package report renders graded batches as spreadsheets, CSV and console tables.
package report

import (
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/compare"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
)

// Tier is the performance band of a percentage.
type Tier string

const (
	TierOutstanding Tier = "Outstanding"
	TierGood        Tier = "Good"
	TierNeutral     Tier = "Neutral"
	TierBad         Tier = "Bad"
)

// TierFor bands a percentage: above 100 is Outstanding, above 85 Good,
// 70 to 85 inclusive Neutral and below 70 Bad.
func TierFor(percentage float64) Tier {
	switch {
	case percentage > 100:
		return TierOutstanding
	case percentage > 85:
		return TierGood
	case percentage >= 70:
		return TierNeutral
	}
	return TierBad
}

// Columns are the report headings, in order.
var Columns = []string{"Student", "Score", "Total Points", "Percentage", "Tier", "Feedback"}

// Row is one rendered submission.
type Row struct {
	Identifier     string
	PointsEarned   float64
	PointsPossible float64
	Percentage     float64
	Tier           Tier
	// Feedback lines joined with "; ".
	Feedback string
}

// NewRow derives a report row from a score. Points and percentage are
// rounded to 2 decimal places; the tier follows the rounded percentage.
func NewRow(res models.ScoreResult) Row {
	pct := compare.Round2(res.Percentage())
	return Row{
		Identifier:     res.Identifier,
		PointsEarned:   compare.Round2(res.PointsEarned),
		PointsPossible: res.PointsPossible,
		Percentage:     pct,
		Tier:           TierFor(pct),
		Feedback:       strings.Join(res.Feedback, "; "),
	}
}

// Rows converts results in order.
func Rows(results []models.ScoreResult) []Row {
	out := make([]Row, 0, len(results))
	for _, res := range results {
		out = append(out, NewRow(res))
	}
	return out
}
