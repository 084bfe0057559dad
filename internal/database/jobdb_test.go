package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/pwdfinder/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *JobDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newReport(id, dict string, started time.Time, match *model.Match) *model.JobReport {
	r := &model.JobReport{
		ID:         id,
		Dictionary: dict,
		TargetHash: "abJnggxhB/yWI",
		Oracle:     "descrypt",
		Bus:        "local",
		Workers:    2,
		Overlap:    100,
		ResultPath: "result",
		Outcome:    model.OutcomeExhausted,
		StartedAt:  started,
		Elapsed:    1500 * time.Millisecond,
		WorkerStats: []model.WorkerStats{
			{Rank: 0, State: model.WorkerExhausted, Start: 0, End: 12, Tested: 3},
			{Rank: 1, State: model.WorkerCancelled, Start: 12, End: 30, Tested: 1, Rejected: 2},
		},
	}
	if match != nil {
		r.Match = match
		r.Outcome = model.OutcomeFound
		r.WorkerStats[0].State = model.WorkerMatched
	}
	return r
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for a missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("reopening keeps the data", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := db.SaveJob(context.Background(), newReport("job-1", "words.txt", time.Now(), nil)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer db.Close()

		got, err := db.GetJob(context.Background(), "job-1")
		if err != nil || got == nil {
			t.Fatalf("expected job, got %v, %v", got, err)
		}
	})
}

func TestSaveAndGetJob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trip of a found job", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		in := newReport("5f0c1d2e-aaaa", "words.txt", time.Now(), &model.Match{Word: "bob", Rank: 0})
		if err := db.SaveJob(ctx, in); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		got, err := db.GetJob(ctx, in.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.Match == nil || got.Match.Rank != 0 || got.Outcome != model.OutcomeFound {
			t.Fatalf("unexpected job %+v", got)
		}
		if got.Match.Word != "" {
			t.Errorf("expected the password not to be stored, got %q", got.Match.Word)
		}
		if in.Match.Word != "bob" {
			t.Errorf("expected the caller's report to keep its password, got %q", in.Match.Word)
		}
		if got.Elapsed != in.Elapsed || len(got.WorkerStats) != 2 {
			t.Errorf("unexpected job %+v", got)
		}
		if got.WorkerStats[1].State != model.WorkerCancelled {
			t.Errorf("expected cancelled state, got %s", got.WorkerStats[1].State)
		}
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		got, err := db.GetJob(ctx, "missing")
		if err != nil || got != nil {
			t.Errorf("expected nil, nil, got %v, %v", got, err)
		}
	})

	t.Run("id prefix", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		for _, id := range []string{"abc-111", "abc-222", "def-333"} {
			if err := db.SaveJob(ctx, newReport(id, "words.txt", time.Now(), nil)); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
		}

		got, err := db.GetJob(ctx, "def")
		if err != nil || got == nil || got.ID != "def-333" {
			t.Errorf("expected def-333, got %v, %v", got, err)
		}
		if _, err := db.GetJob(ctx, "abc"); !errors.Is(err, ErrAmbiguousID) {
			t.Errorf("expected ErrAmbiguousID, got %v", err)
		}
	})

	t.Run("like wildcards in the id are literal", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		if err := db.SaveJob(ctx, newReport("abc", "words.txt", time.Now(), nil)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		got, err := db.GetJob(ctx, "%")
		if err != nil || got != nil {
			t.Errorf("expected no match, got %v, %v", got, err)
		}
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		r := newReport("dup", "words.txt", time.Now(), nil)
		if err := db.SaveJob(ctx, r); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := db.SaveJob(ctx, r); err == nil {
			t.Error("expected error")
		}
	})
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	reports := []*model.JobReport{
		newReport("job-a", "a.txt", base, nil),
		newReport("job-b", "b.txt", base.Add(time.Hour), &model.Match{Word: "bob", Rank: 1}),
		newReport("job-c", "a.txt", base.Add(2*time.Hour), nil),
	}
	for _, r := range reports {
		if err := db.SaveJob(ctx, r); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	t.Run("all jobs newest first", func(t *testing.T) {
		t.Parallel()

		jobs, err := db.ListJobs(ctx, "", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 3 || jobs[0].ID != "job-c" || jobs[2].ID != "job-a" {
			t.Fatalf("unexpected order %+v", jobs)
		}
		if jobs[1].FoundRank != 1 || jobs[1].Outcome != model.OutcomeFound {
			t.Errorf("unexpected found job %+v", jobs[1])
		}
		if jobs[0].FoundRank != -1 {
			t.Errorf("expected -1 for a job without match, got %d", jobs[0].FoundRank)
		}
		if !jobs[2].Timestamp.Equal(base) {
			t.Errorf("expected timestamp %v, got %v", base, jobs[2].Timestamp)
		}
		if jobs[0].Elapsed != 1500*time.Millisecond {
			t.Errorf("unexpected elapsed %v", jobs[0].Elapsed)
		}
	})

	t.Run("filter by dictionary", func(t *testing.T) {
		t.Parallel()

		jobs, err := db.ListJobs(ctx, "a.txt", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("expected 2 jobs, got %d", len(jobs))
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		jobs, err := db.ListJobs(ctx, "", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 1 || jobs[0].ID != "job-c" {
			t.Errorf("unexpected jobs %+v", jobs)
		}
	})

	t.Run("worker stats", func(t *testing.T) {
		t.Parallel()

		stats, err := db.GetWorkerStats(ctx, "job-b")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stats) != 2 || stats[0].State != model.WorkerMatched || stats[1].Rejected != 2 {
			t.Errorf("unexpected stats %+v", stats)
		}
	})
}

func TestDeleteJob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)
	if err := db.SaveJob(ctx, newReport("gone", "words.txt", time.Now(), nil)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	deleted, err := db.DeleteJob(ctx, "gone")
	if err != nil || !deleted {
		t.Fatalf("expected deletion, got %v, %v", deleted, err)
	}
	if stats, _ := db.GetWorkerStats(ctx, "gone"); len(stats) != 0 { //nolint:errcheck // checked via length
		t.Errorf("expected worker stats to be deleted, got %d", len(stats))
	}

	deleted, err = db.DeleteJob(ctx, "gone")
	if err != nil || deleted {
		t.Errorf("expected no deletion, got %v, %v", deleted, err)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2026-01-02 03:04:05.000000", want: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "2026-01-02T03:04:05Z", want: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "2026-01-02 03:04:05", want: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "garbage", want: time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.in); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
