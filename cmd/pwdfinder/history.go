package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/pwdfinder/internal/config"
	"github.com/nao1215/pwdfinder/internal/database"
	"github.com/nao1215/pwdfinder/internal/report"
	"github.com/spf13/cobra"
)

// errJobNotFound is returned when no stored job matches the given ID.
var errJobNotFound = errors.New("job not found")

// NewHistoryCmd creates the history command.
// It reads the jobs recorded by past searches.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [job-id]",
		Short: "Show past search jobs",
		Long: `History lists the search jobs recorded in the history database, most
recent first. Given a job ID, or a unique prefix of one, it shows that job
with its per-worker statistics.

Examples:
  # List recent jobs
  pwdfinder history

  # List the last 5 jobs that searched words.txt
  pwdfinder history --dictionary words.txt --limit 5

  # Show one job as Markdown
  pwdfinder history -m 3f2a9c1d

  # Delete a job
  pwdfinder history --delete 3f2a9c1d`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of jobs to list (0 for all)")
	cmd.Flags().String("dictionary", "",
		"List only jobs that searched this dictionary path")
	cmd.Flags().Bool("delete", false,
		"Delete the given job instead of showing it")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	dictionary, err := flags.GetString("dictionary")
	if err != nil {
		return err
	}
	deleteJob, err := flags.GetBool("delete")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}

	// Validate before opening the database.
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}
	if deleteJob && len(args) == 0 {
		return errors.New("--delete requires a job ID")
	}

	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := report.NewWriter(cmd.OutOrStdout(), reportFormat(jsonOutput, markdownOutput))

	if len(args) == 0 {
		jobs, err := db.ListJobs(ctx, dictionary, limit)
		if err != nil {
			return err
		}
		_, err = w.WriteHistory(jobs)
		return err
	}

	job, err := db.GetJob(ctx, args[0])
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("%w: %s", errJobNotFound, args[0])
	}

	if deleteJob {
		if _, err := db.DeleteJob(ctx, job.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted job %s\n", job.ID)
		return nil
	}

	// The stored report already carries worker stats; the table is authoritative.
	if stats, err := db.GetWorkerStats(ctx, job.ID); err == nil && len(stats) > 0 {
		job.WorkerStats = stats
	}

	_, err = w.Write(job)
	return err
}
