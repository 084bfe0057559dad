package report

import (
	"io"
	"time"

	"github.com/nao1215/pwdfinder/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format selects a Writer implementation.
type Format int

const (
	// FormatText is the human-readable default.
	FormatText Format = iota
	// FormatJSON is indented JSON.
	FormatJSON
	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown
)

// Writer renders job reports.
type Writer interface {
	// Write renders one job.
	Write(report *model.JobReport) (int, error)

	// WriteHistory renders a list of stored jobs.
	WriteHistory(jobs []model.JobSummary) (int, error)
}

// NewWriter returns the Writer for format.
func NewWriter(output io.Writer, format Format) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output)
	}
}

// baseWriter holds what every format shares.
type baseWriter struct {
	output  io.Writer
	printer *message.Printer
	title   cases.Caser
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{
		output:  output,
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
	}
}

// count formats n with thousands separators.
func (b baseWriter) count(n int64) string {
	return b.printer.Sprintf("%d", n)
}

func (b baseWriter) outcome(o model.Outcome) string {
	return b.title.String(string(o))
}

// seconds formats d the way the result store does.
func seconds(d time.Duration) string {
	return message.NewPrinter(language.English).Sprintf("%.2fs", d.Seconds())
}

// password returns the recovered word, or a placeholder for stored jobs,
// which do not keep it.
func password(m *model.Match) string {
	if m.Word == "" {
		return "(not recorded, see the result file)"
	}
	return m.Word
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
