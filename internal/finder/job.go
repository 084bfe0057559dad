package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/nao1215/pwdfinder/internal/bus"
	"github.com/nao1215/pwdfinder/internal/model"
	"github.com/nao1215/pwdfinder/internal/oracle"
	"github.com/nao1215/pwdfinder/internal/partition"
	"github.com/nao1215/pwdfinder/internal/result"
	"golang.org/x/sync/errgroup"
)

// Job searches one dictionary for one target hash.
type Job struct {
	dictionary string
	target     string
	resultPath string

	workers int
	overlap int64

	oracle     oracle.Oracle
	busFactory bus.Factory
	busKind    string

	logger *slog.Logger
	diag   io.Writer
}

// Option configures a Job.
type Option func(*Job)

// WithWorkers sets the pool size. Non-positive values are ignored.
func WithWorkers(n int) Option {
	return func(j *Job) {
		if n > 0 {
			j.workers = n
		}
	}
}

// WithOverlap sets the number of bytes read past each partition boundary.
func WithOverlap(n int64) Option {
	return func(j *Job) {
		if n > 0 {
			j.overlap = n
		}
	}
}

// WithOracle sets the hash function.
func WithOracle(o oracle.Oracle) Option {
	return func(j *Job) {
		if o != nil {
			j.oracle = o
		}
	}
}

// WithResultPath sets the result store path.
func WithResultPath(path string) Option {
	return func(j *Job) {
		if path != "" {
			j.resultPath = path
		}
	}
}

// WithBus sets the cancellation transport. kind is only recorded in the report.
func WithBus(kind string, f bus.Factory) Option {
	return func(j *Job) {
		if f != nil {
			j.busKind = kind
			j.busFactory = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(j *Job) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// WithDiagnostics sets where skipped-word lines are written. Defaults to stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(j *Job) {
		if w != nil {
			j.diag = w
		}
	}
}

// NewJob creates a job for dictionary and target. Both are checked by Run:
// an empty dictionary path fails to open and an empty target has the wrong length.
func NewJob(dictionary, target string, opts ...Option) (*Job, error) {
	def, err := oracle.Get(oracle.DefaultName)
	if err != nil {
		return nil, err
	}

	j := &Job{
		dictionary: dictionary,
		target:     target,
		resultPath: result.DefaultPath,
		workers:    runtime.NumCPU(),
		overlap:    partition.DefaultOverlap,
		oracle:     def,
		busFactory: bus.LocalFactory(),
		busKind:    bus.KindLocal,
		logger:     slog.Default(),
		diag:       os.Stderr,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Run executes the job. The returned report is non-nil whenever the
// preconditions passed, including when the job failed or was interrupted.
func (j *Job) Run(ctx context.Context) (*model.JobReport, error) {
	report := model.NewJobReport(j.dictionary, j.target)
	report.Oracle = j.oracle.Name()
	report.Bus = j.busKind
	report.Workers = j.workers
	report.Overlap = j.overlap
	report.ResultPath = j.resultPath

	dict, err := os.Open(j.dictionary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDictionaryOpen, err)
	}
	defer dict.Close()

	info, err := dict.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDictionaryOpen, err)
	}
	report.DictionarySize = info.Size()

	store, err := result.Create(j.resultPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResultStoreOpen, err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			j.logger.Warn("failed to close result store", "path", j.resultPath, "error", cerr)
		}
	}()

	if len(j.target) != j.oracle.HashLen() {
		return nil, fmt.Errorf("%w: got %d characters, %s expects %d",
			ErrHashFormat, len(j.target), j.oracle.Name(), j.oracle.HashLen())
	}

	parts, err := partition.All(report.DictionarySize, j.workers, j.overlap)
	if err != nil {
		return nil, err
	}

	b, err := j.busFactory(ctx, report.ID, j.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s bus: %w", j.busKind, err)
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			j.logger.Warn("failed to close bus", "error", cerr)
		}
	}()

	j.logger.Info("starting search",
		"job", report.ID,
		"dictionary", j.dictionary,
		"size", report.DictionarySize,
		"workers", j.workers,
		"oracle", j.oracle.Name(),
		"bus", j.busKind,
	)

	jobCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		matcher = NewMatcher(j.oracle, j.target)
		diag    = &syncWriter{w: j.diag}
		bar     = newBarrier(j.workers)
		workers = make([]*worker, j.workers)
		start   = time.Now()
	)

	g := new(errgroup.Group)
	g.SetLimit(j.workers)

	for rank, p := range parts {
		w := &worker{
			part:    p,
			src:     dict,
			matcher: matcher,
			bus:     b,
			store:   store,
			diag:    diag,
			logger:  j.logger,
		}
		workers[rank] = w

		g.Go(func() error {
			runErr := w.run(jobCtx)
			if runErr != nil {
				cancel(runErr)
			}

			bar.Wait()

			if rank == 0 {
				report.Elapsed = time.Since(start)
				if timingWanted(context.Cause(jobCtx), store) {
					if err := store.CommitTiming(report.Elapsed); err != nil {
						return err
					}
				}
			}
			return runErr
		})
	}

	runErr := g.Wait()

	report.WorkerStats = make([]model.WorkerStats, j.workers)
	for rank, w := range workers {
		report.WorkerStats[rank] = w.stats
	}

	if m, ok := store.Match(); ok {
		report.Match = &m
		report.Outcome = model.OutcomeFound
	}

	switch {
	case runErr != nil:
		report.Outcome = model.OutcomeFailed
		report.Error = runErr.Error()
		return report, runErr
	case ctx.Err() != nil && report.Match == nil:
		report.Outcome = model.OutcomeInterrupted
		return report, context.Cause(ctx)
	}

	j.logger.Info("search finished",
		"job", report.ID,
		"outcome", string(report.Outcome),
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// timingWanted reports whether the timing line is written after the barrier:
// always when the workers finished on their own, never after a worker
// failure, and after an interrupt only when a match was committed.
func timingWanted(cause error, store *result.Store) bool {
	if cause == nil {
		return true
	}
	if errors.Is(cause, ErrWorkerFailed) {
		return false
	}
	_, matched := store.Match()
	return matched
}

// IsFatalPrecondition reports whether err was raised before any worker started.
func IsFatalPrecondition(err error) bool {
	return errors.Is(err, ErrArgumentCount) ||
		errors.Is(err, ErrDictionaryOpen) ||
		errors.Is(err, ErrResultStoreOpen) ||
		errors.Is(err, ErrHashFormat)
}
