// Package batch grades many submissions against one assignment with a
// bounded pool of workers.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cotten321/Excel-Grader/pkg/grader"
	"github.com/cotten321/Excel-Grader/pkg/grader/assignment"
	"github.com/cotten321/Excel-Grader/pkg/grader/check"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Loader opens the document of one submission.
type Loader interface {
	Load(path string) (check.Accessor, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (check.Accessor, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (check.Accessor, error) { return f(path) }

// WorkbookLoader loads xlsx workbooks with grader.Load.
func WorkbookLoader(opts grader.Options) Loader {
	return LoaderFunc(func(path string) (check.Accessor, error) {
		doc, err := grader.Load(path, opts)
		if err != nil {
			return nil, err
		}
		return doc, nil
	})
}

// Event reports one finished submission.
type Event struct {
	// Index is the submission's position in Config.Submissions.
	Index      int
	Submission Submission
	Result     models.ScoreResult
}

// Config describes one batch.
type Config struct {
	Submissions []Submission
	Assignment  *assignment.Assignment
	// Loader defaults to WorkbookLoader(grader.DefaultOptions()).
	Loader Loader
	// Concurrency bounds the number of submissions graded at once; values
	// below 1 mean runtime.NumCPU().
	Concurrency int
	// Events, if set, receives one event per finished submission and is
	// closed when Run returns.
	Events chan<- Event
}

// Runner executes batches. Its counters may be read while Run is in progress.
type Runner struct {
	id        string
	completed atomic.Int64
	total     atomic.Int64
}

// NewRunner returns a runner with a fresh run ID.
func NewRunner() *Runner {
	return &Runner{id: uuid.NewString()}
}

// ID returns the run identifier.
func (r *Runner) ID() string { return r.id }

// Completed returns the number of submissions graded so far.
func (r *Runner) Completed() int { return int(r.completed.Load()) }

// Total returns the number of submissions in the current batch.
func (r *Runner) Total() int { return int(r.total.Load()) }

// Run grades every submission and returns the results in input order.
//
// Cancellation is checked between submissions: a submission already being
// graded finishes, no new one starts, and Run returns the results completed
// so far (still in input order) together with the context error.
func (r *Runner) Run(ctx context.Context, cfg Config) ([]models.ScoreResult, error) {
	if cfg.Events != nil {
		defer close(cfg.Events)
	}
	if cfg.Assignment == nil {
		return nil, errors.New("batch: no assignment")
	}
	loader := cfg.Loader
	if loader == nil {
		loader = WorkbookLoader(grader.DefaultOptions())
	}
	limit := cfg.Concurrency
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	r.completed.Store(0)
	r.total.Store(int64(len(cfg.Submissions)))
	ev := assignment.NewEvaluator(cfg.Assignment)
	start := time.Now()

	// Each worker writes only its own index; Wait orders the writes before the reads below.
	results := make([]models.ScoreResult, len(cfg.Submissions))
	done := make([]bool, len(cfg.Submissions))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, sub := range cfg.Submissions {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := grade(ev, loader, sub)
			results[i], done[i] = res, true
			r.completed.Add(1)
			log.Debug().Str("run", r.id).Str("submission", sub.ID).Float64("points", res.PointsEarned).
				Str("state", string(res.State)).Msg("Graded submission")
			if cfg.Events != nil {
				select {
				case cfg.Events <- Event{Index: i, Submission: sub, Result: res}:
				case <-ctx.Done():
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.ScoreResult, 0, len(results))
	for i, res := range results {
		if done[i] {
			out = append(out, res)
		}
	}

	log.Info().Str("run", r.id).Str("assignment", cfg.Assignment.ID).Int("graded", len(out)).
		Int("total", len(cfg.Submissions)).Dur("elapsed", time.Since(start)).Msg("Batch finished")

	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("batch cancelled after %d of %d submissions: %w", len(out), len(cfg.Submissions), err)
	}
	return out, nil
}

// grade scores one submission. It never panics.
func grade(ev *assignment.Evaluator, loader Loader, sub Submission) (res models.ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ev.Failed(sub.ID, fmt.Sprintf("Submission could not be graded: %v", r))
			res.Source = sub.Path
		}
	}()
	if sub.Err != nil {
		log.Debug().Str("submission", sub.ID).Err(sub.Err).Msg("Submission directory unreadable")
		return ev.Failed(sub.ID, fmt.Sprintf("Submission could not be read: %v", sub.Err))
	}
	if sub.Path == "" {
		log.Debug().Str("submission", sub.ID).Err(grader.ErrSubmissionMissing).Msg("No workbook found")
		return ev.Missing(sub.ID)
	}
	res = ev.Evaluate(sub.ID, func() (check.Accessor, error) { return loader.Load(sub.Path) })
	res.Source = sub.Path
	return res
}
