package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/pwdfinder/internal/model"
)

// FileName is the database file inside the directory given to Open.
const FileName = "history.db"

// timestampLayout sorts lexically in time order.
const timestampLayout = "2006-01-02 15:04:05.000000"

// ErrAmbiguousID is returned when a job ID prefix matches several jobs.
var ErrAmbiguousID = errors.New("ambiguous job id")

// JobDB is the job history database.
type JobDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures JobDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and the database file.
	CreateIfNotExists bool

	// EnableWAL turns on write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*JobDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	jdb := &JobDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := jdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return jdb, nil
}

// Path returns the database file path.
func (jdb *JobDB) Path() string {
	return jdb.dbPath
}

// Close closes the database connection.
func (jdb *JobDB) Close() error {
	return jdb.db.Close()
}

func (jdb *JobDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		dictionary TEXT NOT NULL,
		oracle TEXT NOT NULL,
		workers INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		found_rank INTEGER,
		elapsed_ms INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_dictionary ON jobs(dictionary);
	CREATE INDEX IF NOT EXISTS idx_jobs_timestamp ON jobs(timestamp);

	CREATE TABLE IF NOT EXISTS worker_stats (
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		state TEXT NOT NULL,
		range_start INTEGER NOT NULL,
		range_end INTEGER NOT NULL,
		tested INTEGER NOT NULL,
		rejected INTEGER NOT NULL,
		PRIMARY KEY (job_id, rank)
	);
	`
	_, err := jdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveJob stores a job report and its worker stats in one transaction.
// The recovered password is not stored; only the rank that found it is.
func (jdb *JobDB) SaveJob(ctx context.Context, report *model.JobReport) error {
	stored := *report
	if report.Match != nil {
		stored.Match = &model.Match{Rank: report.Match.Rank}
	}
	reportJSON, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	var foundRank sql.NullInt64
	if report.Match != nil {
		foundRank = sql.NullInt64{Int64: int64(report.Match.Rank), Valid: true}
	}

	tx, err := jdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO jobs (id, dictionary, oracle, workers, outcome, found_rank, elapsed_ms, timestamp, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID,
		report.Dictionary,
		report.Oracle,
		report.Workers,
		string(report.Outcome),
		foundRank,
		report.Elapsed.Milliseconds(),
		report.StartedAt.UTC().Format(timestampLayout),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	for _, s := range report.WorkerStats {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO worker_stats (job_id, rank, state, range_start, range_end, tested, rejected)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`, report.ID, s.Rank, s.State.String(), s.Start, s.End, s.Tested, s.Rejected)
		if err != nil {
			return fmt.Errorf("failed to save worker %d: %w", s.Rank, err)
		}
	}

	return tx.Commit()
}

// GetJob returns the job whose ID is id or starts with id.
// It returns nil, nil when no job matches.
func (jdb *JobDB) GetJob(ctx context.Context, id string) (*model.JobReport, error) {
	rows, err := jdb.db.QueryContext(ctx, `
	SELECT report_json FROM jobs
	WHERE id LIKE ? ESCAPE '\'
	LIMIT 2
	`, escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		found = append(found, reportJSON)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
	}

	var report model.JobReport
	if err := json.Unmarshal([]byte(found[0]), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListJobs returns the most recent jobs first. An empty dictionary lists
// all jobs; limit <= 0 means no limit.
func (jdb *JobDB) ListJobs(ctx context.Context, dictionary string, limit int) ([]model.JobSummary, error) {
	query := `
	SELECT id, dictionary, oracle, workers, outcome, found_rank, elapsed_ms, timestamp
	FROM jobs
	WHERE (? = '' OR dictionary = ?)
	ORDER BY timestamp DESC
	`
	args := []any{dictionary, dictionary}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := jdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.JobSummary
	for rows.Next() {
		var (
			meta      model.JobSummary
			outcome   string
			foundRank sql.NullInt64
			elapsedMS int64
			timestamp string
		)
		if err := rows.Scan(&meta.ID, &meta.Dictionary, &meta.Oracle, &meta.Workers,
			&outcome, &foundRank, &elapsedMS, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		meta.Outcome = model.Outcome(outcome)
		meta.FoundRank = -1
		if foundRank.Valid {
			meta.FoundRank = int(foundRank.Int64)
		}
		meta.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		meta.Timestamp = parseTimestamp(timestamp)
		jobs = append(jobs, meta)
	}
	return jobs, rows.Err()
}

// GetWorkerStats returns the per-rank stats of job id, ordered by rank.
func (jdb *JobDB) GetWorkerStats(ctx context.Context, id string) ([]model.WorkerStats, error) {
	rows, err := jdb.db.QueryContext(ctx, `
	SELECT rank, state, range_start, range_end, tested, rejected
	FROM worker_stats
	WHERE job_id = ?
	ORDER BY rank
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker stats: %w", err)
	}
	defer rows.Close()

	var stats []model.WorkerStats
	for rows.Next() {
		var (
			s     model.WorkerStats
			state string
		)
		if err := rows.Scan(&s.Rank, &state, &s.Start, &s.End, &s.Tested, &s.Rejected); err != nil {
			return nil, fmt.Errorf("failed to scan worker stats: %w", err)
		}
		if s.State, err = model.ParseWorkerState(state); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// DeleteJob removes a job and its worker stats. It reports whether a row was deleted.
func (jdb *JobDB) DeleteJob(ctx context.Context, id string) (bool, error) {
	tx, err := jdb.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM worker_stats WHERE job_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete worker stats: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// timestampFormats are the formats SQLite may return, most specific first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
