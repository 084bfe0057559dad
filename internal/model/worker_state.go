package model

import (
	"encoding/json"
	"fmt"
)

// WorkerState is a step of a worker's life cycle:
// Reading -> Trimming -> Scanning -> {Matched -> Broadcasting, Cancelled, Exhausted} -> Done.
type WorkerState int

const (
	// WorkerReading means the worker is reading its partition from the dictionary.
	WorkerReading WorkerState = iota
	// WorkerTrimming means the worker is repairing its partition to whole lines.
	WorkerTrimming
	// WorkerScanning means the worker is hashing candidates.
	WorkerScanning
	// WorkerMatched means the worker found the target and committed the match.
	WorkerMatched
	// WorkerBroadcasting means the worker is notifying its peers.
	WorkerBroadcasting
	// WorkerCancelled means the worker stopped on a peer's notice or on shutdown.
	WorkerCancelled
	// WorkerExhausted means the worker scanned its whole partition without a match.
	WorkerExhausted
	// WorkerFailed means the worker stopped on an I/O or oracle error.
	WorkerFailed
	// WorkerDone means the worker passed the final barrier.
	WorkerDone
)

var workerStateNames = map[WorkerState]string{
	WorkerReading:      "reading",
	WorkerTrimming:     "trimming",
	WorkerScanning:     "scanning",
	WorkerMatched:      "matched",
	WorkerBroadcasting: "broadcasting",
	WorkerCancelled:    "cancelled",
	WorkerExhausted:    "exhausted",
	WorkerFailed:       "failed",
	WorkerDone:         "done",
}

// String returns the lower-case state name.
func (s WorkerState) String() string {
	if name, ok := workerStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the state ends the scan loop.
func (s WorkerState) Terminal() bool {
	switch s {
	case WorkerMatched, WorkerBroadcasting, WorkerCancelled, WorkerExhausted, WorkerFailed, WorkerDone:
		return true
	default:
		return false
	}
}

// ParseWorkerState is the inverse of String.
func ParseWorkerState(name string) (WorkerState, error) {
	for s, n := range workerStateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown worker state %q", name)
}

// MarshalJSON encodes the state by name.
func (s WorkerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a state name.
func (s *WorkerState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseWorkerState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
