package model

import (
	"encoding/json"
	"testing"
)

func TestNewJobReport(t *testing.T) {
	t.Parallel()

	a := NewJobReport("words.txt", "abJnggxhB/yWI")
	b := NewJobReport("words.txt", "abJnggxhB/yWI")

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Outcome != OutcomeExhausted {
		t.Errorf("expected outcome exhausted, got %q", a.Outcome)
	}
	if a.Found() {
		t.Error("expected new report not to be found")
	}
	if a.StartedAt.IsZero() {
		t.Error("expected start time")
	}
}

func TestJobReportCounters(t *testing.T) {
	t.Parallel()

	r := NewJobReport("words.txt", "hash")
	r.WorkerStats = []WorkerStats{
		{Rank: 0, Tested: 10, Rejected: 1},
		{Rank: 1, Tested: 5, Rejected: 2},
	}

	if got := r.Tested(); got != 15 {
		t.Errorf("Tested() = %d, want 15", got)
	}
	if got := r.Rejected(); got != 3 {
		t.Errorf("Rejected() = %d, want 3", got)
	}

	t.Run("found needs both outcome and match", func(t *testing.T) {
		t.Parallel()

		r := NewJobReport("words.txt", "hash")
		r.Outcome = OutcomeFound
		if r.Found() {
			t.Error("expected Found() false without a match")
		}
		r.Match = &Match{Word: "password", Rank: 2}
		if !r.Found() {
			t.Error("expected Found() true")
		}
	})
}

func TestWorkerState(t *testing.T) {
	t.Parallel()

	t.Run("names round trip", func(t *testing.T) {
		t.Parallel()

		for s := WorkerReading; s <= WorkerDone; s++ {
			parsed, err := ParseWorkerState(s.String())
			if err != nil {
				t.Fatalf("ParseWorkerState(%q): %v", s, err)
			}
			if parsed != s {
				t.Errorf("ParseWorkerState(%q) = %v", s, parsed)
			}
		}
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()

		if got := WorkerState(99).String(); got != "unknown" {
			t.Errorf("expected unknown, got %q", got)
		}
		if _, err := ParseWorkerState("sleeping"); err == nil {
			t.Error("expected error for unknown name")
		}
	})

	t.Run("terminal states", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			state WorkerState
			want  bool
		}{
			{WorkerReading, false},
			{WorkerTrimming, false},
			{WorkerScanning, false},
			{WorkerMatched, true},
			{WorkerCancelled, true},
			{WorkerExhausted, true},
			{WorkerFailed, true},
			{WorkerDone, true},
		}
		for _, tt := range tests {
			if got := tt.state.Terminal(); got != tt.want {
				t.Errorf("%s.Terminal() = %v, want %v", tt.state, got, tt.want)
			}
		}
	})

	t.Run("encodes as a name in JSON", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(WorkerStats{Rank: 3, State: WorkerCancelled})
		if err != nil {
			t.Fatal(err)
		}
		want := `{"rank":3,"state":"cancelled","start":0,"end":0,"tested":0,"rejected":0}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}

		var s WorkerStats
		if err := json.Unmarshal(data, &s); err != nil {
			t.Fatal(err)
		}
		if s.State != WorkerCancelled {
			t.Errorf("expected cancelled, got %v", s.State)
		}
	})
}
