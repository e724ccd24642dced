package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunAndResults(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	results := []models.ScoreResult{
		{
			Identifier: "alice", Source: "alice/answer.xlsx", State: models.StateComplete,
			PointsEarned: 10, PointsPossible: 10, Feedback: []string{},
			Checks: []models.CheckResult{{Name: "headers", Kind: "range_values", Status: models.StatusPassed, Earned: 2, Possible: 2}},
		},
		{
			Identifier: "bob", State: models.StateMissing, PointsPossible: 10,
			Feedback: []string{"Submission not found: no workbook for bob."},
		},
	}
	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	run, err := s.SaveRun(ctx, Run{AssignmentID: "1.1", StartedAt: started}, results)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 2, run.Graded)

	got, err := s.Results(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Identifier)
	assert.Equal(t, "alice/answer.xlsx", got[0].Source)
	assert.Equal(t, models.StateComplete, got[0].State)
	assert.Equal(t, 10.0, got[0].PointsEarned)
	assert.Empty(t, got[0].Feedback)
	require.Len(t, got[0].Checks, 1)
	assert.Equal(t, models.StatusPassed, got[0].Checks[0].Status)

	assert.Equal(t, "bob", got[1].Identifier)
	assert.Equal(t, models.StateMissing, got[1].State)
	assert.Equal(t, []string{"Submission not found: no workbook for bob."}, got[1].Feedback)
	assert.Empty(t, got[1].Checks)
}

func TestListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"2", "3.1", "project-1"} {
		_, err := s.SaveRun(ctx, Run{
			AssignmentID: id,
			StartedAt:    base.Add(time.Duration(i) * time.Hour),
			Cancelled:    id == "3.1",
		}, nil)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "project-1", runs[0].AssignmentID)
	assert.Equal(t, "3.1", runs[1].AssignmentID)
	assert.True(t, runs[1].Cancelled)
	assert.True(t, runs[1].StartedAt.Equal(base.Add(time.Hour)))

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestResultsUnknownRun(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Results(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSaveRunRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.SaveRun(ctx, Run{ID: "fixed", AssignmentID: "2"}, nil)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Run{ID: "fixed", AssignmentID: "2"}, nil)
	assert.Error(t, err)
}
