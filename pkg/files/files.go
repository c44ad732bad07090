// Package files turns the input and output arguments into a list of
// watermarking tasks.
//
// The input is either a single PDF file or a directory. A directory is
// walked with an explicit stack and every PDF below it becomes a task whose
// output mirrors the input's relative path under the output directory.
// Without an output, files are watermarked in place.
//
// Resolution never touches the filesystem beyond reading it: output
// directories are collected in [Plan.Dirs] and only created by
// [Plan.EnsureDirs], which a dry run skips.
package files

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// Task is one file to watermark.
type Task struct {
	Input  string
	Output string
}

// Plan is the resolved batch.
type Plan struct {
	// Tasks in deterministic order: within each directory, PDF files
	// sorted by name, then subdirectories sorted by name.
	Tasks []Task
	// Dirs are the output directories that will receive at least one
	// file, sorted.
	Dirs []string
}

// IsPDF reports whether path has a .pdf extension, ignoring case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Resolve builds the plan for input and output. output may be empty to
// watermark in place.
func Resolve(input, output string) (*Plan, error) {
	if input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input path is required")
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "input does not exist").WithPath(input)
	}

	var plan *Plan
	if info.IsDir() {
		plan, err = resolveDir(input, output)
	} else {
		plan, err = resolveFile(input, output, info)
	}
	if err != nil {
		return nil, err
	}
	if err := CheckDuplicates(plan.Tasks); err != nil {
		return nil, err
	}
	return plan, nil
}

func resolveFile(input, output string, info os.FileInfo) (*Plan, error) {
	if !info.Mode().IsRegular() || !IsPDF(input) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input must be a PDF file or a directory").WithPath(input)
	}
	if output == "" {
		output = input
	}
	if !IsPDF(output) {
		return nil, errors.New(errors.ErrCodeOutputMismatch, "output must be a PDF file when input is a PDF file").WithPath(output)
	}
	if out, err := os.Stat(output); err == nil && out.IsDir() {
		return nil, errors.New(errors.ErrCodeOutputMismatch, "output must be a PDF file when input is a PDF file").WithPath(output)
	}

	plan := &Plan{Tasks: []Task{{Input: input, Output: output}}}
	if filepath.Clean(output) != filepath.Clean(input) {
		plan.Dirs = []string{filepath.Dir(output)}
	}
	return plan, nil
}

func resolveDir(input, output string) (*Plan, error) {
	if output == "" {
		output = input
	}
	if IsPDF(output) {
		return nil, errors.New(errors.ErrCodeOutputMismatch, "output must be a directory when input is a directory").WithPath(output)
	}
	if out, err := os.Stat(output); err == nil && !out.IsDir() {
		return nil, errors.New(errors.ErrCodeOutputMismatch, "output must be a directory when input is a directory").WithPath(output)
	}

	plan := &Plan{}
	inPlace := filepath.Clean(output) == filepath.Clean(input)

	// Relative directories still to visit.
	stack := []string{"."}
	for len(stack) > 0 {
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dir := filepath.Join(input, rel)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read directory").WithPath(dir)
		}

		var subdirs []string
		found := false
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			switch {
			case e.IsDir():
				subdirs = append(subdirs, filepath.Join(rel, e.Name()))
			case IsPDF(e.Name()) && isRegular(path, e):
				plan.Tasks = append(plan.Tasks, Task{
					Input:  path,
					Output: filepath.Join(output, rel, e.Name()),
				})
				found = true
			}
		}
		if found && !inPlace {
			plan.Dirs = append(plan.Dirs, filepath.Join(output, rel))
		}

		// Push in reverse so that the first subdirectory is visited next.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	slices.Sort(plan.Dirs)
	return plan, nil
}

// isRegular reports whether the entry is a regular file, following
// symbolic links. Linked directories are not followed.
func isRegular(path string, e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDirs creates the plan's output directories.
func (p *Plan) EnsureDirs() error {
	for _, dir := range p.Dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create output directory").WithPath(dir)
		}
	}
	return nil
}

// CheckDuplicates fails with DUPLICATE_PATH if two tasks share an input or
// two tasks share an output. Paths are compared in absolute, cleaned form.
func CheckDuplicates(tasks []Task) error {
	inputs := make(map[string]bool, len(tasks))
	outputs := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		in := canonical(t.Input)
		if inputs[in] {
			return errors.New(errors.ErrCodeDuplicatePath, "input files must be unique").WithPath(t.Input)
		}
		inputs[in] = true

		out := canonical(t.Output)
		if outputs[out] {
			return errors.New(errors.ErrCodeDuplicatePath, "output files must be unique").WithPath(t.Output)
		}
		outputs[out] = true
	}
	return nil
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
