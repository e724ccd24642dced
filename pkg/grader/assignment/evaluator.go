package assignment

import (
	"fmt"

	"github.com/cotten321/Excel-Grader/pkg/grader/check"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/rs/zerolog/log"
)

// LoadFunc produces the document for one submission.
type LoadFunc func() (check.Accessor, error)

// Evaluator scores submissions against one assignment. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	assignment *Assignment
}

// NewEvaluator returns an evaluator for a validated assignment.
func NewEvaluator(a *Assignment) *Evaluator {
	return &Evaluator{assignment: a}
}

// Assignment returns the assignment being evaluated.
func (e *Evaluator) Assignment() *Assignment { return e.assignment }

// Evaluate loads the submission and runs every check in declaration order.
//
// A load error (or panic) yields a Failed result: zero points out of the
// declared total and one feedback line, with no check run.
func (e *Evaluator) Evaluate(id string, load LoadFunc) models.ScoreResult {
	doc, err := safeLoad(load)
	if err != nil {
		log.Debug().Err(err).Str("submission", id).Msg("Load failed")
		return e.Failed(id, fmt.Sprintf("Document could not be read: %v", err))
	}
	return e.EvaluateDocument(id, doc)
}

// EvaluateDocument runs every check against a loaded document.
func (e *Evaluator) EvaluateDocument(id string, doc check.Accessor) models.ScoreResult {
	res := models.ScoreResult{
		Identifier:     id,
		PointsPossible: e.assignment.Total,
		Feedback:       []string{},
		State:          models.StateEvaluating,
		Checks:         make([]models.CheckResult, 0, len(e.assignment.Checks)),
	}
	for _, spec := range e.assignment.Checks {
		cr := check.Evaluate(doc, spec)
		res.PointsEarned += cr.Earned
		res.Feedback = append(res.Feedback, cr.Feedback...)
		res.Checks = append(res.Checks, cr)
	}
	res.State = models.StateComplete
	return res
}

// Failed builds the result of a submission whose document could not be loaded.
func (e *Evaluator) Failed(id, reason string) models.ScoreResult {
	return models.ScoreResult{
		Identifier:     id,
		PointsPossible: e.assignment.Total,
		Feedback:       []string{reason},
		State:          models.StateFailed,
	}
}

// Missing builds the result of a submission with no document.
func (e *Evaluator) Missing(id string) models.ScoreResult {
	return models.ScoreResult{
		Identifier:     id,
		PointsPossible: e.assignment.Total,
		Feedback:       []string{fmt.Sprintf("Submission not found: no workbook for %s.", id)},
		State:          models.StateMissing,
	}
}

func safeLoad(load LoadFunc) (doc check.Accessor, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("loader panic: %v", r)
		}
	}()
	if load == nil {
		return nil, fmt.Errorf("no loader")
	}
	doc, err = load()
	if err == nil && doc == nil {
		err = fmt.Errorf("loader returned no document")
	}
	return doc, err
}
