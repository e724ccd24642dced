package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cotten321/Excel-Grader/internal/config"
	"github.com/cotten321/Excel-Grader/pkg/grader"
	"github.com/cotten321/Excel-Grader/pkg/grader/assignment"
	"github.com/cotten321/Excel-Grader/pkg/grader/batch"
	"github.com/cotten321/Excel-Grader/pkg/grader/metrics"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/cotten321/Excel-Grader/pkg/grader/report"
	"github.com/cotten321/Excel-Grader/pkg/grader/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type gradeFlags struct {
	submissions  string
	assignmentID string
	specPath     string
	solutionPath string
	outputDir    string
	concurrency  int
	format       string
	historyDB    string
	metricsFile  string
}

func newGradeCmd(cfg *config.Config) *cobra.Command {
	var fl gradeFlags
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade every submission in a directory",
		Long: `Grade scores one workbook per sub-directory of --submissions and writes
a report to --output. Exactly one of --assignment, --spec or --solution selects
the rules. Interrupting the run stops new submissions and reports those already
graded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd.Context(), fl)
		},
	}

	cmd.Flags().StringVarP(&fl.submissions, "submissions", "s", "", "Directory with one sub-directory per student")
	cmd.Flags().StringVarP(&fl.assignmentID, "assignment", "a", "", "Built-in assignment ID (see 'assignments')")
	cmd.Flags().StringVar(&fl.specPath, "spec", "", "Assignment YAML file")
	cmd.Flags().StringVar(&fl.solutionPath, "solution", "", "Solution workbook; its name prefix selects the built-in assignment")
	cmd.Flags().StringVarP(&fl.outputDir, "output", "o", ".", "Directory for the grade report")
	cmd.Flags().IntVarP(&fl.concurrency, "concurrency", "c", cfg.Concurrency, "Submissions graded in parallel")
	cmd.Flags().StringVar(&fl.format, "format", cfg.ReportFormat, "Report format: xlsx, csv")
	cmd.Flags().StringVar(&fl.historyDB, "history", cfg.HistoryDB, "SQLite database recording each run (empty: off)")
	cmd.Flags().StringVar(&fl.metricsFile, "metrics-file", cfg.MetricsFile, "Prometheus textfile to write (empty: off)")
	_ = cmd.MarkFlagRequired("submissions")
	cmd.MarkFlagsMutuallyExclusive("assignment", "spec", "solution")
	cmd.MarkFlagsOneRequired("assignment", "spec", "solution")

	return cmd
}

func resolveAssignment(fl gradeFlags) (*assignment.Assignment, error) {
	switch {
	case fl.specPath != "":
		return assignment.LoadFile(fl.specPath)
	case fl.solutionPath != "":
		return assignment.ForFile(fl.solutionPath)
	default:
		return assignment.Builtin(fl.assignmentID)
	}
}

func runGrade(parent context.Context, fl gradeFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	if fl.format != config.FormatXLSX && fl.format != config.FormatCSV {
		return fmt.Errorf("invalid format: %s (must be xlsx or csv)", fl.format)
	}
	loadMode, err := grader.ParseMode(mode)
	if err != nil {
		return err
	}

	a, err := resolveAssignment(fl)
	if err != nil {
		return fmt.Errorf("failed to resolve assignment: %w", err)
	}
	subs, err := batch.Discover(fl.submissions)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fl.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan batch.Event)
	drained := make(chan struct{})
	runner := batch.NewRunner()
	go func() {
		defer close(drained)
		for ev := range events {
			log.Info().Str("submission", ev.Submission.ID).
				Float64("points", ev.Result.PointsEarned).
				Int("done", runner.Completed()).Int("total", runner.Total()).
				Msg("Graded")
		}
	}()

	log.Info().Str("run", runner.ID()).Str("assignment", a.ID).Int("submissions", len(subs)).Msg("Grading started")
	started := time.Now()
	results, runErr := runner.Run(ctx, batch.Config{
		Submissions: subs,
		Assignment:  a,
		Loader:      batch.WorkbookLoader(grader.Options{Mode: loadMode}),
		Concurrency: fl.concurrency,
		Events:      events,
	})
	<-drained

	cancelled := errors.Is(runErr, context.Canceled)
	if runErr != nil && !cancelled {
		return runErr
	}
	if cancelled {
		log.Warn().Int("graded", len(results)).Int("total", len(subs)).Msg("Grading interrupted, reporting completed submissions")
	}

	title := a.Title
	if title == "" {
		title = a.ID
	}
	reportPath, err := writeReport(fl, a.ID, title, results)
	if err != nil {
		return err
	}
	log.Info().Str("path", reportPath).Msg("Report written")

	if err := report.RenderTable(os.Stdout, title, results); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if fl.historyDB != "" {
		if err := saveHistory(fl.historyDB, store.Run{
			ID:           runner.ID(),
			AssignmentID: a.ID,
			StartedAt:    started,
			Cancelled:    cancelled,
		}, results); err != nil {
			log.Error().Err(err).Str("db", fl.historyDB).Msg("Failed to record run history")
		}
	}

	if fl.metricsFile != "" {
		recorder := metrics.NewRecorder()
		for _, res := range results {
			recorder.Observe(res)
		}
		if err := recorder.WriteTextfile(fl.metricsFile); err != nil {
			log.Error().Err(err).Str("path", fl.metricsFile).Msg("Failed to write metrics")
		}
	}

	return runErr
}

func writeReport(fl gradeFlags, id, title string, results []models.ScoreResult) (string, error) {
	path := filepath.Join(fl.outputDir, fmt.Sprintf("grades-%s.%s", id, fl.format))
	if fl.format == config.FormatXLSX {
		if err := report.WriteXLSX(path, title, results); err != nil {
			return "", err
		}
		return path, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	if err := report.WriteCSV(f, results); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func saveHistory(dsn string, run store.Run, results []models.ScoreResult) error {
	// The batch context may already be cancelled; history is still recorded.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := store.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	saved, err := s.SaveRun(ctx, run, results)
	if err != nil {
		return err
	}
	log.Info().Str("run", saved.ID).Int("graded", saved.Graded).Msg("Run recorded")
	return nil
}
