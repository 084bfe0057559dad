package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/pwdfinder/internal/model"
)

// MarkdownWriter renders GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter on output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(report *model.JobReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("pwdfinder Job Report")
	md.PlainText("")
	w.writeSummary(md, report)
	w.writeAlert(md, report)
	w.writeWorkers(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.JobReport) {
	rows := [][]string{
		{"Job", "`" + report.ID + "`"},
		{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Dictionary", "`" + report.Dictionary + "` (" + w.count(report.DictionarySize) + " bytes)"},
		{"Oracle", report.Oracle},
		{"Workers", strconv.Itoa(report.Workers)},
		{"Bus", report.Bus},
		{"Overlap", strconv.FormatInt(report.Overlap, 10)},
		{"Outcome", w.outcome(report.Outcome)},
		{"Elapsed", seconds(report.Elapsed)},
		{"Tested", w.count(report.Tested())},
		{"Rejected", w.count(report.Rejected())},
	}
	if report.Match != nil {
		rows = append(rows, []string{"Found on rank", strconv.Itoa(report.Match.Rank)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.JobReport) {
	switch report.Outcome {
	case model.OutcomeFound:
		if report.Match != nil {
			md.Tip(fmt.Sprintf("Password recovered: `%s`", password(report.Match)))
		}
	case model.OutcomeExhausted:
		md.Note("No word in the dictionary matches the target hash.")
	case model.OutcomeInterrupted:
		md.Warningf("The job was interrupted after testing %s words.", w.count(report.Tested()))
	case model.OutcomeFailed:
		md.Cautionf("The job failed: %s", report.Error)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeWorkers(md *markdown.Markdown, report *model.JobReport) {
	if len(report.WorkerStats) == 0 {
		return
	}

	md.H2("Workers")
	md.PlainText("")

	rows := make([][]string, 0, len(report.WorkerStats))
	for _, s := range report.WorkerStats {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.State.String(),
			fmt.Sprintf("[%d, %d)", s.Start, s.End),
			w.count(s.Tested),
			w.count(s.Rejected),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "State", "Range", "Tested", "Rejected"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Tested() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Words tested per rank"),
			piechart.WithShowData(true),
		)
		for _, s := range report.WorkerStats {
			if s.Tested > 0 {
				chart.LabelAndIntValue("rank "+strconv.Itoa(s.Rank), uint64(s.Tested)) //nolint:gosec // Tested is never negative
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

// WriteHistory implements Writer.
func (w *MarkdownWriter) WriteHistory(jobs []model.JobSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("pwdfinder Job History")
	md.PlainText("")

	if len(jobs) == 0 {
		md.Note("No jobs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rank := "-"
		if j.FoundRank >= 0 {
			rank = strconv.Itoa(j.FoundRank)
		}
		rows = append(rows, []string{
			"`" + shortID(j.ID) + "`",
			j.Timestamp.Local().Format("2006-01-02 15:04:05"),
			w.outcome(j.Outcome),
			rank,
			j.Oracle,
			strconv.Itoa(j.Workers),
			seconds(j.Elapsed),
			"`" + j.Dictionary + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Outcome", "Rank", "Oracle", "Workers", "Elapsed", "Dictionary"},
		Rows:   rows,
	})
	return len(md.String()), md.Build()
}
