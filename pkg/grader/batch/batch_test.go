package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cotten321/Excel-Grader/pkg/grader/assignment"
	"github.com/cotten321/Excel-Grader/pkg/grader/check"
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssignment(t *testing.T) *assignment.Assignment {
	t.Helper()
	a, err := assignment.Parse([]byte(`
id: demo
total: 10
checks:
  - {kind: cell_value, name: answer, sheet: Data, cell: B2, expected: 42, points: 10}
`))
	require.NoError(t, err)
	return a
}

// fakeLoader builds a document whose B2 holds the number encoded in the
// path ("sub-7/answer-42.xlsx" holds 42). Paths containing "corrupt" fail.
func fakeLoader(jitter bool) Loader {
	return LoaderFunc(func(path string) (check.Accessor, error) {
		if jitter {
			time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
		}
		if strings.Contains(path, "corrupt") {
			return nil, errors.New("document unreadable")
		}
		base := strings.TrimSuffix(filepath.Base(path), ".xlsx")
		n, _ := strconv.Atoi(strings.TrimPrefix(base, "answer-"))
		data := &models.Sheet{Name: "Data", Cells: map[string]models.Cell{"B2": {Value: models.Number(float64(n))}}}
		return models.NewDocument(filepath.Base(path), "", []*models.Sheet{data}, nil), nil
	})
}

func submissions(n int) []Submission {
	subs := make([]Submission, n)
	for i := range subs {
		answer := 42
		if i%3 == 0 {
			answer = i
		}
		subs[i] = Submission{ID: fmt.Sprintf("student-%02d", i), Path: fmt.Sprintf("student-%02d/answer-%d.xlsx", i, answer)}
	}
	return subs
}

func TestRunPreservesInputOrder(t *testing.T) {
	subs := submissions(30)

	sequential, err := NewRunner().Run(context.Background(), Config{
		Submissions: subs, Assignment: testAssignment(t), Loader: fakeLoader(false), Concurrency: 1,
	})
	require.NoError(t, err)

	r := NewRunner()
	parallel, err := r.Run(context.Background(), Config{
		Submissions: subs, Assignment: testAssignment(t), Loader: fakeLoader(true), Concurrency: 8,
	})
	require.NoError(t, err)

	require.Len(t, parallel, len(subs))
	for i, res := range parallel {
		assert.Equal(t, subs[i].ID, res.Identifier)
	}
	assert.Equal(t, sequential, parallel)
	assert.Equal(t, 30, r.Completed())
	assert.Equal(t, 30, r.Total())
	assert.NotEmpty(t, r.ID())
}

func TestRunIsolatesFailures(t *testing.T) {
	subs := []Submission{
		{ID: "ok", Path: "ok/answer-42.xlsx"},
		{ID: "missing"},
		{ID: "corrupt", Path: "corrupt/answer-42.xlsx"},
		{ID: "wrong", Path: "wrong/answer-7.xlsx"},
	}
	results, err := NewRunner().Run(context.Background(), Config{
		Submissions: subs, Assignment: testAssignment(t), Loader: fakeLoader(false), Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, 10.0, results[0].PointsEarned)
	assert.Equal(t, models.StateComplete, results[0].State)
	assert.Equal(t, "ok/answer-42.xlsx", results[0].Source)

	assert.Equal(t, models.StateMissing, results[1].State)
	assert.Equal(t, 0.0, results[1].PointsEarned)
	assert.Equal(t, 10.0, results[1].PointsPossible)
	assert.Len(t, results[1].Feedback, 1)

	assert.Equal(t, models.StateFailed, results[2].State)
	assert.Equal(t, []string{"Document could not be read: document unreadable"}, results[2].Feedback)

	assert.Equal(t, 0.0, results[3].PointsEarned)
	assert.Equal(t, "Cell B2 Value Check:", results[3].Feedback[0])
}

func TestRunCancellationKeepsCompleted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := fakeLoader(false)
	loads := 0
	loader := LoaderFunc(func(path string) (check.Accessor, error) {
		loads++
		if loads == 3 {
			cancel()
		}
		return base.Load(path)
	})

	r := NewRunner()
	results, err := r.Run(ctx, Config{
		Submissions: submissions(10), Assignment: testAssignment(t), Loader: loader, Concurrency: 1,
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("student-%02d", i), res.Identifier)
	}
	assert.Equal(t, 3, r.Completed())
	assert.Equal(t, 10, r.Total())
}

func TestRunEvents(t *testing.T) {
	subs := submissions(6)
	events := make(chan Event, len(subs))

	_, err := NewRunner().Run(context.Background(), Config{
		Submissions: subs, Assignment: testAssignment(t), Loader: fakeLoader(true), Concurrency: 3, Events: events,
	})
	require.NoError(t, err)

	seen := make(map[int]string)
	for ev := range events {
		seen[ev.Index] = ev.Result.Identifier
	}
	require.Len(t, seen, len(subs))
	for i, sub := range subs {
		assert.Equal(t, sub.ID, seen[i])
	}
}

func TestRunRequiresAssignment(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), Config{Submissions: submissions(1)})
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	mk := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	mk("bob/notes.txt")
	mk("bob/zeta.xlsx")
	mk("bob/alpha.XLSX")
	mk("bob/~$alpha.xlsx")
	mk("alice/work.xlsx")
	mk("stray.xlsx")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "carol"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	elsewhere := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(elsewhere, "a.xlsx"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(elsewhere, filepath.Join(root, "dave")))
	require.NoError(t, os.Symlink(filepath.Join(root, "stray.xlsx"), filepath.Join(root, "linked.xlsx")))

	subs, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []Submission{
		{ID: "alice", Path: filepath.Join(root, "alice", "work.xlsx")},
		{ID: "bob", Path: filepath.Join(root, "bob", "alpha.XLSX")},
		{ID: "carol"},
		{ID: "dave", Path: filepath.Join(root, "dave", "a.xlsx")},
	}, subs)

	_, err = Discover(filepath.Join(root, "absent"))
	assert.Error(t, err)
}

func TestDiscoverUnreadableSubmission(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"alice", "bob"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, name, "work.xlsx"), []byte("x"), 0o644))
	}

	denied := errors.New("permission denied")
	orig := readDir
	t.Cleanup(func() { readDir = orig })
	readDir = func(name string) ([]os.DirEntry, error) {
		if filepath.Base(name) == "bob" {
			return nil, denied
		}
		return orig(name)
	}

	subs, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, filepath.Join(root, "alice", "work.xlsx"), subs[0].Path)
	assert.NoError(t, subs[0].Err)
	assert.Equal(t, "bob", subs[1].ID)
	assert.Empty(t, subs[1].Path)
	assert.ErrorIs(t, subs[1].Err, denied)

	results, err := NewRunner().Run(context.Background(), Config{
		Submissions: []Submission{{ID: "alice", Path: "alice/answer-42.xlsx"}, subs[1]},
		Assignment:  testAssignment(t),
		Loader:      fakeLoader(false),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 10.0, results[0].PointsEarned)
	assert.Equal(t, models.StateFailed, results[1].State)
	assert.Equal(t, 0.0, results[1].PointsEarned)
	require.Len(t, results[1].Feedback, 1)
	assert.Contains(t, results[1].Feedback[0], "permission denied")
}
