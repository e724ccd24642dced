package models

// Status classifies the outcome of one check.
type Status string

const (
	// StatusPassed means full points were earned.
	StatusPassed Status = "passed"
	// StatusPartial means some but not all points were earned.
	StatusPartial Status = "partial"
	// StatusMismatch means the target exists but does not satisfy the check.
	StatusMismatch Status = "mismatch"
	// StatusMissingTarget means a sheet, cell or name referenced by the check does not exist.
	StatusMissingTarget Status = "missing_target"
	// StatusError means the check failed unexpectedly and was recovered.
	StatusError Status = "error"
)

// State is the final state of one submission's evaluation.
type State string

const (
	// StateLoading is the initial state while the document is produced.
	StateLoading State = "loading"
	// StateEvaluating is entered once the document is loaded.
	StateEvaluating State = "evaluating"
	// StateComplete means every check ran.
	StateComplete State = "complete"
	// StateFailed means the document could not be loaded; no check ran.
	StateFailed State = "failed"
	// StateMissing means no document was found for the submission.
	StateMissing State = "missing"
)

// CheckResult is the outcome of evaluating one check against one document.
type CheckResult struct {
	// Name identifies the check.
	Name string `json:"name"`
	// Kind is the check variant.
	Kind string `json:"kind"`
	// Status classifies the outcome.
	Status Status `json:"status"`
	// Earned is the points awarded, within [0, Possible].
	Earned float64 `json:"earned"`
	// Possible is the check's maximum.
	Possible float64 `json:"possible"`
	// Bonus marks points that do not count towards the assignment total.
	Bonus bool `json:"bonus,omitempty"`
	// Feedback lines; empty when the check passed.
	Feedback []string `json:"feedback,omitempty"`
}

// ScoreResult is the aggregated outcome for one submission.
type ScoreResult struct {
	// Identifier names the submission.
	Identifier string `json:"identifier"`
	// Source is the document path the submission was graded from.
	Source string `json:"source,omitempty"`
	// PointsEarned is the sum of earned points, bonus included.
	PointsEarned float64 `json:"points_earned"`
	// PointsPossible is the assignment's declared total.
	PointsPossible float64 `json:"points_possible"`
	// Feedback lines in check evaluation order.
	Feedback []string `json:"feedback"`
	// State is the final evaluation state.
	State State `json:"state"`
	// Checks holds per-check outcomes (empty when no check ran).
	Checks []CheckResult `json:"checks,omitempty"`
}

// Percentage returns PointsEarned/PointsPossible*100, or 0 when nothing is possible.
func (r ScoreResult) Percentage() float64 {
	if r.PointsPossible <= 0 {
		return 0
	}
	return r.PointsEarned / r.PointsPossible * 100
}
