// Package assignment evaluates every check of an assignment against one
// submission and aggregates the outcomes into a score.
package assignment

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/check"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxFileSize is the largest assignment file LoadFile accepts (1MB).
const MaxFileSize = 1024 * 1024

// ErrUnknownAssignment indicates no assignment with the requested ID exists.
var ErrUnknownAssignment = errors.New("unknown assignment")

//go:embed builtin/*.yaml
var builtinFS embed.FS

var assignmentValidate *validator.Validate

func init() {
	assignmentValidate = validator.New()
	// Report fields by their YAML names.
	assignmentValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		return name
	})
}

// Assignment is an ordered set of checks with a declared point total.
type Assignment struct {
	// ID identifies the assignment ("3.1", "project-2").
	ID string `yaml:"id" validate:"required,max=64"`
	// Title is a human-readable name.
	Title string `yaml:"title,omitempty" validate:"max=200"`
	// Total is the declared points possible. Non-bonus checks sum to it.
	Total float64 `yaml:"total" validate:"gte=0"`
	// Checks run in this order; feedback follows it.
	Checks check.List `yaml:"checks" validate:"min=1"`
}

// Validate requires at least one check, unique check names and non-bonus
// points that sum to Total.
func (a *Assignment) Validate() error {
	if err := assignmentValidate.Struct(a); err != nil {
		return fmt.Errorf("assignment %s: %s", a.ID, describe(err))
	}
	seen := make(map[string]bool, len(a.Checks))
	var sum float64
	for _, c := range a.Checks {
		base := c.Common()
		if seen[base.Name] {
			return fmt.Errorf("assignment %s: duplicate check name %q", a.ID, base.Name)
		}
		seen[base.Name] = true
		if !base.Bonus {
			sum += c.Possible()
		}
	}
	if math.Abs(sum-a.Total) > 1e-9 {
		return fmt.Errorf("assignment %s: checks sum to %g points, declared total is %g", a.ID, sum, a.Total)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "checks":
		return "no checks"
	case fe.Tag() == "required":
		return fe.Field() + " is required"
	case fe.Param() != "":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag())
}

// BonusPoints returns the points available from bonus checks.
func (a *Assignment) BonusPoints() float64 {
	var sum float64
	for _, c := range a.Checks {
		if c.Common().Bonus {
			sum += c.Possible()
		}
	}
	return sum
}

// Parse decodes and validates an assignment from YAML.
func Parse(data []byte) (*Assignment, error) {
	var a Assignment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse assignment: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadFile reads an assignment from a YAML file.
func LoadFile(path string) (*Assignment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("assignment file %s too large: %d bytes (max %d)", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment: %w", err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Builtins returns the assignments compiled into the binary, ordered by ID.
func Builtins() ([]*Assignment, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	out := make([]*Assignment, 0, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			return nil, err
		}
		a, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Builtin returns the compiled-in assignment with the given ID.
func Builtin(id string) (*Assignment, error) {
	all, err := Builtins()
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAssignment, id)
}

// ForFile resolves a built-in assignment from a solution file name: the ID is
// the part before the first underscore ("3.1_solution.xlsx" is "3.1").
func ForFile(name string) (*Assignment, error) {
	base := filepath.Base(name)
	id, _, _ := strings.Cut(strings.TrimSuffix(base, filepath.Ext(base)), "_")
	return Builtin(id)
}
