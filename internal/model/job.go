package model

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the final status of a search job.
type Outcome string

const (
	// OutcomeFound means one worker found a word whose hash equals the target.
	OutcomeFound Outcome = "found"
	// OutcomeExhausted means every partition was scanned without a match.
	OutcomeExhausted Outcome = "exhausted"
	// OutcomeInterrupted means the job was stopped by a signal or its context.
	OutcomeInterrupted Outcome = "interrupted"
	// OutcomeFailed means a worker hit an I/O or oracle error.
	OutcomeFailed Outcome = "failed"
)

// Match is the winning word and the rank that found it.
type Match struct {
	Word string `json:"word"`
	Rank int    `json:"rank"`
}

// JobReport is the complete result of one search job.
// It is written to the result history and rendered by the report writers.
type JobReport struct {
	// ID identifies the job in the history database and on the redis bus.
	ID string `json:"id"`

	// Dictionary is the path of the word list that was searched.
	Dictionary string `json:"dictionary"`

	// DictionarySize is the size in bytes observed before workers started.
	DictionarySize int64 `json:"dictionary_size"`

	// TargetHash is the hash that was searched for.
	TargetHash string `json:"target_hash"`

	// Oracle is the registered name of the hash function.
	Oracle string `json:"oracle"`

	// Bus is the cancellation transport (local or redis).
	Bus string `json:"bus"`

	Workers int   `json:"workers"`
	Overlap int64 `json:"overlap"`

	// ResultPath is the plain-text result store.
	ResultPath string `json:"result_path"`

	Outcome Outcome `json:"outcome"`

	// Match is nil unless Outcome is OutcomeFound.
	Match *Match `json:"match,omitempty"`

	// Error holds the failure cause when Outcome is OutcomeFailed.
	Error string `json:"error,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`

	// WorkerStats is indexed by rank.
	WorkerStats []WorkerStats `json:"workers_stats"`
}

// NewJobReport creates a report with a fresh job ID.
func NewJobReport(dictionary, targetHash string) *JobReport {
	return &JobReport{
		ID:         uuid.NewString(),
		Dictionary: dictionary,
		TargetHash: targetHash,
		Outcome:    OutcomeExhausted,
		StartedAt:  time.Now(),
	}
}

// Found reports whether the job found the password.
func (r *JobReport) Found() bool {
	return r.Outcome == OutcomeFound && r.Match != nil
}

// Tested returns the number of candidates hashed by all workers.
func (r *JobReport) Tested() int64 {
	var n int64
	for _, s := range r.WorkerStats {
		n += s.Tested
	}
	return n
}

// Rejected returns the number of candidates dropped by word validation.
func (r *JobReport) Rejected() int64 {
	var n int64
	for _, s := range r.WorkerStats {
		n += s.Rejected
	}
	return n
}

// WorkerStats describes what one worker did.
type WorkerStats struct {
	Rank  int         `json:"rank"`
	State WorkerState `json:"state"`

	// Start and End are the trimmed byte range [Start, End) the worker owned.
	Start int64 `json:"start"`
	End   int64 `json:"end"`

	Tested   int64 `json:"tested"`
	Rejected int64 `json:"rejected"`
}

// JobSummary is the listing view of a stored job.
type JobSummary struct {
	ID         string        `json:"id"`
	Dictionary string        `json:"dictionary"`
	Oracle     string        `json:"oracle"`
	Workers    int           `json:"workers"`
	Outcome    Outcome       `json:"outcome"`
	FoundRank  int           `json:"found_rank"` // -1 when nothing was found
	Elapsed    time.Duration `json:"elapsed"`
	Timestamp  time.Time     `json:"timestamp"`
}
