// Package model defines the data structures shared by the search engine,
// the history database and the report writers.
//
// This package contains the following main types:
//   - JobReport: the outcome of one search, with per-worker statistics
//   - WorkerStats: what one worker tested and how it finished
//   - WorkerState: the state machine of a worker
//   - JobSummary: a stored job as listed by the history command
//
// The models serialize to JSON for reports and database storage.
package model
