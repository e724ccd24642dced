package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Submission is one student's entry in a batch.
type Submission struct {
	// ID identifies the submission (the directory name).
	ID string `json:"id"`
	// Path is the workbook to grade; empty when none was found.
	Path string `json:"path,omitempty"`
	// Err is set when the submission's directory could not be read.
	Err error `json:"-"`
}

var readDir = os.ReadDir

// Discover lists one submission per sub-directory of root, ordered by
// directory name. Each submission uses the first workbook in its directory
// by name; a directory without one yields a submission with an empty Path.
// Symlinked directories count. A directory that cannot be read yields a
// submission carrying Err instead of failing the whole listing.
func Discover(root string) ([]Submission, error) {
	entries, err := readDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions directory: %w", err)
	}

	var subs []Submission
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if e.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(dir)
			if err != nil {
				subs = append(subs, Submission{ID: e.Name(), Err: err})
				continue
			}
			if !info.IsDir() {
				continue
			}
		} else if !e.IsDir() {
			continue
		}
		path, err := firstWorkbook(dir)
		subs = append(subs, Submission{ID: e.Name(), Path: path, Err: err})
	}
	return subs, nil
}

func firstWorkbook(dir string) (string, error) {
	files, err := readDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read submission %s: %w", dir, err)
	}
	for _, f := range files {
		name := f.Name()
		// Skip Excel's "~$book.xlsx" lock files.
		if f.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", nil
}
