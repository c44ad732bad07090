// Package pipeline runs a watermarking batch.
//
// This package takes the resolved list of tasks and drives each file through
// read → compose → write, spreading the files over a bounded pool of workers.
// The CLI and tests share it so that batch semantics live in one place.
//
// # Guarantees
//
//   - Options are validated before any file is touched; an invalid batch
//     fails as a whole and processes nothing.
//   - Outcomes come back in task order, whatever order the workers finish in.
//   - A failing file never stops its siblings and never leaves a partial
//     output: results are written to a temporary file in the destination
//     directory and renamed into place. This also makes in-place
//     watermarking safe.
//   - A dry run composes every file in memory but writes nothing and
//     creates no directories.
//
// # Usage
//
//	runner := pipeline.NewRunner(compositor, logger)
//	outcomes, err := runner.Run(ctx, pipeline.Options{
//	    Tasks:   plan.Tasks,
//	    Dirs:    plan.Dirs,
//	    Workers: 4,
//	})
//	if err != nil {
//	    return err // invalid options, nothing was processed
//	}
//	summary := pipeline.Summarize(outcomes)
package pipeline

import (
	"time"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/files"
	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

// =============================================================================
// Options - Batch Configuration
// =============================================================================

// Options configures one batch.
type Options struct {
	// Tasks to run, in reporting order.
	Tasks []files.Task
	// Dirs are created before the first task unless DryRun is set.
	Dirs []string

	DryRun bool
	// Workers bounds the number of files processed at once.
	Workers int
}

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Workers == 0 {
		o.Workers = watermark.DefaultWorkers
	}
}

// Validate checks the options. It is the only source of run-level errors.
func (o *Options) Validate() error {
	if o.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidOption, "workers must be at least 1, got %d", o.Workers)
	}
	return files.CheckDuplicates(o.Tasks)
}

// ValidateAndSetDefaults applies defaults and then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// =============================================================================
// Outcome - Per-file Result
// =============================================================================

// Outcome is the result of one task.
type Outcome struct {
	Task files.Task
	// Pages is the number of pages watermarked.
	Pages    int
	Duration time.Duration
	// Err is nil on success. Failures carry an error code and the
	// offending path.
	Err error
}

// OK reports whether the task succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Summary counts the outcomes of a batch.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Pages     int
}

// Summarize counts successes, failures and watermarked pages.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.OK() {
			s.Succeeded++
			s.Pages += o.Pages
		} else {
			s.Failed++
		}
	}
	return s
}
