package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/files"
	"github.com/matzehuels/pdfwatermark/pkg/observability"
)

// Applier watermarks one document held in memory.
// [*compose.Compositor] implements it.
type Applier interface {
	Apply(ctx context.Context, src []byte, w io.Writer) (pages int, err error)
}

// Runner executes batches.
//
// The Runner holds no per-batch state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Applier Applier
	Logger  *log.Logger
}

// NewRunner creates a runner.
// If logger is nil, log.Default() is used.
func NewRunner(a Applier, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Applier: a, Logger: logger}
}

// Run processes every task and returns one outcome per task, in task
// order. The returned error is non-nil only when the options are invalid
// or the output directories cannot be created; in that case no task has
// run. Task failures are reported in the outcomes.
//
// Once ctx is done, tasks that have not started yet are marked as
// canceled. Tasks already running stop at their next page.
func (r *Runner) Run(ctx context.Context, opts Options) ([]Outcome, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Batch().OnBatchStart(ctx, len(opts.Tasks), opts.Workers, opts.DryRun)

	if !opts.DryRun {
		plan := files.Plan{Tasks: opts.Tasks, Dirs: opts.Dirs}
		if err := plan.EnsureDirs(); err != nil {
			return nil, err
		}
	}

	r.Logger.Debug("starting batch", "files", len(opts.Tasks), "workers", opts.Workers, "dry_run", opts.DryRun)

	outcomes := make([]Outcome, len(opts.Tasks))

	// Task failures are recorded in outcomes and never cancel siblings.
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, task := range opts.Tasks {
		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{Task: task, Err: canceled(err, task)}
			continue
		}
		g.Go(func() error {
			outcomes[i] = r.runTask(ctx, task, opts.DryRun)
			return nil
		})
	}
	_ = g.Wait()

	s := Summarize(outcomes)
	duration := time.Since(start)
	observability.Batch().OnBatchComplete(ctx, s.Succeeded, s.Failed, duration)
	r.Logger.Debug("batch finished", "succeeded", s.Succeeded, "failed", s.Failed, "duration", duration)
	return outcomes, nil
}

func (r *Runner) runTask(ctx context.Context, task files.Task, dryRun bool) (out Outcome) {
	out.Task = task
	start := time.Now()
	observability.Task().OnTaskStart(ctx, task.Input)

	defer func() {
		out.Duration = time.Since(start)
		observability.Task().OnTaskComplete(ctx, task.Input, task.Output, out.Pages, out.Duration, out.Err)
		if out.Err != nil {
			r.Logger.Error("failed", "file", task.Input, "err", errors.UserMessage(out.Err))
			return
		}
		r.Logger.Info("watermarked", "file", task.Output, "pages", out.Pages, "duration", out.Duration, "dry_run", dryRun)
	}()

	if err := ctx.Err(); err != nil {
		out.Err = canceled(err, task)
		return out
	}

	src, err := os.ReadFile(task.Input)
	if err != nil {
		out.Err = errors.Wrap(errors.ErrCodeIO, err, "read input").WithPath(task.Input)
		return out
	}

	var buf bytes.Buffer
	pages, err := r.Applier.Apply(ctx, src, &buf)
	if err != nil {
		out.Err = errors.Annotate(err, errors.ErrCodeCompositing, task.Input)
		return out
	}
	out.Pages = pages

	if dryRun {
		return out
	}
	if err := writeAtomic(task.Output, buf.Bytes()); err != nil {
		out.Err = err
	}
	return out
}

func canceled(err error, task files.Task) error {
	return errors.Wrap(errors.ErrCodeCanceled, err, "not processed").WithPath(task.Input)
}

// writeAtomic replaces path with data. The data goes to a hidden temporary
// file next to path which is then renamed over it, so readers see either
// the old or the new file. An existing file keeps its permissions.
func writeAtomic(path string, data []byte) (err error) {
	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create output").WithPath(path)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write output").WithPath(path)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "sync output").WithPath(path)
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close output").WithPath(path)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "replace output").WithPath(path)
	}
	return nil
}
