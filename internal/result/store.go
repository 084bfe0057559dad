package result

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/nao1215/pwdfinder/internal/model"
)

// DefaultPath is the result file name used when none is configured.
const DefaultPath = "result"

// Store is the shared result file of one job.
type Store struct {
	path    string
	f       *os.File
	claimed atomic.Bool
	match   model.Match
}

// Create truncates or creates the result file at path.
// Only the job coordinator calls Create; workers receive the open Store.
func Create(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create result directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-provided result path
	if err != nil {
		return nil, err
	}
	return &Store{path: path, f: f}, nil
}

// Path returns the file path of the store.
func (s *Store) Path() string {
	return s.path
}

// CommitMatch records word as found by rank. Only the first call succeeds;
// later calls return false without writing, so a dictionary with the
// password in several partitions still yields a single match block.
func (s *Store) CommitMatch(word string, rank int) (bool, error) {
	if !s.claimed.CompareAndSwap(false, true) {
		return false, nil
	}
	s.match = model.Match{Word: word, Rank: rank}

	if _, err := s.f.WriteString(FormatMatch(word, rank)); err != nil {
		return true, fmt.Errorf("failed to write match to %s: %w", s.path, err)
	}
	return true, nil
}

// CommitTiming appends the timing line. It must be called once, after every
// worker has finished.
func (s *Store) CommitTiming(elapsed time.Duration) error {
	if _, err := s.f.WriteString(FormatTiming(elapsed)); err != nil {
		return fmt.Errorf("failed to write timing to %s: %w", s.path, err)
	}
	return nil
}

// Match returns the committed match, if any. Call it only after the job's
// workers have finished.
func (s *Store) Match() (model.Match, bool) {
	if !s.claimed.Load() {
		return model.Match{}, false
	}
	return s.match, true
}

// Close flushes and closes the file.
func (s *Store) Close() error {
	if err := s.f.Sync(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("failed to sync %s: %w", s.path, err)
	}
	return s.f.Close()
}

// FormatMatch returns the match block written to the store.
func FormatMatch(word string, rank int) string {
	return fmt.Sprintf("Password is: %s\nFound on rank: %d\n", word, rank)
}

// FormatTiming returns the timing line written to the store.
func FormatTiming(elapsed time.Duration) string {
	return fmt.Sprintf("Searching time is: %.2f\n", elapsed.Seconds())
}
