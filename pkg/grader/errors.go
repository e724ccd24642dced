package grader

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrDocumentUnreadable indicates the input file is not a readable xlsx workbook.
var ErrDocumentUnreadable = errors.New("document unreadable")

// ErrSubmissionMissing indicates no document was found for a submission.
var ErrSubmissionMissing = errors.New("submission missing")

// LoadError represents an error while loading a document.
type LoadError struct {
	Path      string
	SheetName string
	Component string // "workbook", "parts", "cells", "layout", "view", "dimensions"
	Err       error
}

func (e *LoadError) Error() string {
	if e.SheetName != "" {
		return fmt.Sprintf("load error in %s sheet %q (%s): %v", e.Path, e.SheetName, e.Component, e.Err)
	}
	return fmt.Sprintf("load error in %s (%s): %v", e.Path, e.Component, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(path, sheetName, component string, err error) *LoadError {
	return &LoadError{
		Path:      path,
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
