package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/pwdfinder/internal/model"
)

const rule = "------------------------------------------------------------"

// SimpleWriter renders plain text for a terminal.
type SimpleWriter struct {
	baseWriter

	// workers adds the per-rank table.
	workers bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithWorkers toggles the per-rank table. It is on by default.
func WithWorkers(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.workers = show
	}
}

// NewSimpleWriter creates a SimpleWriter on output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		workers:    true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *SimpleWriter) Write(report *model.JobReport) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Job %s\n", report.ID)
	sb.WriteString(strings.ReplaceAll(rule, "-", "=") + "\n")
	fmt.Fprintf(&sb, "%-13s%s (%s bytes)\n", "Dictionary:", report.Dictionary, w.count(report.DictionarySize))
	fmt.Fprintf(&sb, "%-13s%s\n", "Oracle:", report.Oracle)
	fmt.Fprintf(&sb, "%-13s%d (%s bus, overlap %d)\n", "Workers:", report.Workers, report.Bus, report.Overlap)
	fmt.Fprintf(&sb, "%-13s%s\n", "Outcome:", w.outcome(report.Outcome))
	if report.Match != nil {
		fmt.Fprintf(&sb, "%-13s%s (rank %d)\n", "Password:", password(report.Match), report.Match.Rank)
	}
	if report.Error != "" {
		fmt.Fprintf(&sb, "%-13s%s\n", "Error:", report.Error)
	}
	fmt.Fprintf(&sb, "%-13s%s\n", "Elapsed:", seconds(report.Elapsed))
	fmt.Fprintf(&sb, "%-13s%s\n", "Tested:", w.count(report.Tested()))
	fmt.Fprintf(&sb, "%-13s%s\n", "Rejected:", w.count(report.Rejected()))
	fmt.Fprintf(&sb, "%-13s%s\n", "Result file:", report.ResultPath)

	if w.workers && len(report.WorkerStats) > 0 {
		sb.WriteString("\nWorkers\n")
		sb.WriteString(rule + "\n")
		fmt.Fprintf(&sb, "%4s  %-10s  %-24s  %10s  %8s\n", "RANK", "STATE", "RANGE", "TESTED", "REJECTED")
		for _, s := range report.WorkerStats {
			fmt.Fprintf(&sb, "%4d  %-10s  %-24s  %10s  %8s\n",
				s.Rank,
				s.State,
				fmt.Sprintf("[%d, %d)", s.Start, s.End),
				w.count(s.Tested),
				w.count(s.Rejected),
			)
		}
	}

	return io.WriteString(w.output, sb.String())
}

// WriteHistory implements Writer.
func (w *SimpleWriter) WriteHistory(jobs []model.JobSummary) (int, error) {
	if len(jobs) == 0 {
		return io.WriteString(w.output, "No jobs recorded.\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s  %-19s  %-11s  %-9s  %7s  %9s  %s\n",
		"ID", "DATE", "OUTCOME", "ORACLE", "WORKERS", "ELAPSED", "DICTIONARY")
	for _, j := range jobs {
		outcome := w.outcome(j.Outcome)
		if j.FoundRank >= 0 {
			outcome = fmt.Sprintf("%s@%d", outcome, j.FoundRank)
		}
		fmt.Fprintf(&sb, "%-8s  %-19s  %-11s  %-9s  %7d  %9s  %s\n",
			shortID(j.ID),
			j.Timestamp.Local().Format("2006-01-02 15:04:05"),
			outcome,
			j.Oracle,
			j.Workers,
			seconds(j.Elapsed),
			j.Dictionary,
		)
	}
	return io.WriteString(w.output, sb.String())
}
