package finder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nao1215/pwdfinder/internal/bus"
	"github.com/nao1215/pwdfinder/internal/model"
	"github.com/nao1215/pwdfinder/internal/partition"
	"github.com/nao1215/pwdfinder/internal/result"
	"github.com/nao1215/pwdfinder/internal/scanner"
)

// worker scans one partition. It owns its scan state; everything else it
// touches (dictionary, bus, store, diagnostics) is shared read-only or
// synchronized.
type worker struct {
	part    partition.Partition
	src     io.ReaderAt
	matcher *Matcher
	bus     bus.Bus
	store   *result.Store
	diag    io.Writer
	logger  *slog.Logger

	stats model.WorkerStats
}

func (w *worker) setState(s model.WorkerState) {
	w.stats.State = s
	w.logger.Debug("worker state", "rank", w.part.Rank, "state", s.String())
}

// cancelled is checked before every word.
func (w *worker) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return w.bus.Cancelled(w.part.Rank)
}

func (w *worker) reject(c scanner.Candidate) {
	w.stats.Rejected++
	w.logger.Debug("word rejected", "rank", w.part.Rank, "offset", c.Offset, "reason", c.Validity.String())
	fmt.Fprintln(w.diag, c.Diagnostic())
}

// run drives the worker from Reading to a terminal state. It does not wait
// at the barrier; the caller does that regardless of the returned error.
func (w *worker) run(ctx context.Context) error {
	w.stats.Rank = w.part.Rank

	w.setState(model.WorkerReading)
	win, err := partition.Read(w.src, w.part)
	if err != nil {
		w.setState(model.WorkerFailed)
		return fmt.Errorf("%w: rank %d: read: %w", ErrWorkerFailed, w.part.Rank, err)
	}

	w.setState(model.WorkerTrimming)
	chunk, err := win.Trim()
	if err != nil {
		w.setState(model.WorkerFailed)
		return fmt.Errorf("%w: rank %d: trim: %w", ErrWorkerFailed, w.part.Rank, err)
	}
	w.stats.Start = chunk.Offset
	w.stats.End = chunk.Offset + int64(chunk.Len())

	w.setState(model.WorkerScanning)
	sc := scanner.New(chunk, scanner.WithRejectHandler(w.reject))
	for {
		if w.cancelled(ctx) {
			w.setState(model.WorkerCancelled)
			return nil
		}

		c, ok := sc.Next()
		if !ok {
			w.setState(model.WorkerExhausted)
			return nil
		}

		w.stats.Tested++
		matched, err := w.matcher.Match(c.Text)
		if err != nil {
			w.setState(model.WorkerFailed)
			return fmt.Errorf("%w: rank %d: hash: %w", ErrWorkerFailed, w.part.Rank, err)
		}
		if !matched {
			continue
		}

		won, err := w.store.CommitMatch(c.Text, w.part.Rank)
		if err != nil {
			w.setState(model.WorkerFailed)
			return fmt.Errorf("%w: rank %d: %w", ErrWorkerFailed, w.part.Rank, err)
		}
		if !won {
			// Another rank holding the same word got there first.
			w.setState(model.WorkerCancelled)
			return nil
		}

		w.setState(model.WorkerMatched)
		w.setState(model.WorkerBroadcasting)
		if err := w.bus.Broadcast(w.part.Rank); err != nil {
			w.logger.Warn("failed to broadcast cancellation", "rank", w.part.Rank, "error", err)
		}
		w.stats.State = model.WorkerMatched
		return nil
	}
}

// syncWriter serializes writes from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
