package status

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"gitlab.com/tozd/go/errors"
)

// 🔭 View selects how much of a report is rendered
type View int

const (
	ViewFull View = iota
	ViewSummary
	ViewChanges
)

// 📄 Report is one analyzed source ready to be rendered
type Report struct {
	Source  string
	Result  *analyzer.AnalysisResult
	Changes []analyzer.ItemizedChange // filtered changes; nil means all of Result's
	Err     error
}

// SelectedChanges returns the filtered changes, or all changes when no filter
// was applied.
func (r Report) SelectedChanges() []analyzer.ItemizedChange {
	if r.Changes != nil {
		return r.Changes
	}
	if r.Result == nil {
		return nil
	}
	return r.Result.ItemizedChanges
}

// Formatter defines how analysis reports are presented
type Formatter interface {
	// FormatChange formats a single itemized change
	FormatChange(c analyzer.ItemizedChange) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string

	// Render writes the reports to w
	Render(w io.Writer, reports []Report) error
}

// Options are shared by the formatters
type Options struct {
	View        View
	ShowChanges bool
	ShowFlags   bool
}

// NewFormatter returns the formatter for an output format name ("text" or "json").
func NewFormatter(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	}
	return nil, errors.Errorf("unknown output format %q", format)
}

// TextFormatter renders reports for a terminal
type TextFormatter struct {
	opts Options
}

// NewTextFormatter creates a new TextFormatter
func NewTextFormatter(opts Options) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// FormatChange formats a change with emojis
func (f *TextFormatter) FormatChange(c analyzer.ItemizedChange) string {
	switch StateOf(c) {
	case StateCreated:
		return fmt.Sprintf("✨ Created %s", c)
	case StateModified:
		return fmt.Sprintf("📝 Modified %s", c)
	case StateDeleted:
		return fmt.Sprintf("🗑️  Deleted %s", c.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", c)
	}
}

// FormatProgress formats a progress message with percentage
func (f *TextFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *TextFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

// Render writes every report, separated by a blank line
func (f *TextFormatter) Render(w io.Writer, reports []Report) error {
	var sb strings.Builder

	for i, rep := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(reports) > 1 || rep.Err != nil {
			fmt.Fprintf(&sb, "📄 %s\n", rep.Source)
		}
		if rep.Err != nil {
			sb.WriteString(f.FormatError(rep.Err) + "\n")
			continue
		}
		f.renderOne(&sb, rep)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Errorf("writing report: %w", err)
	}
	return nil
}

func (f *TextFormatter) renderOne(sb *strings.Builder, rep Report) {
	changes := rep.SelectedChanges()

	switch f.opts.View {
	case ViewChanges:
		for _, c := range changes {
			sb.WriteString(FormatChangeLine(c, f.opts.ShowFlags) + "\n")
		}
		fmt.Fprintf(sb, "%s change(s)\n", humanize.Comma(int64(len(changes))))
		return
	case ViewSummary:
		sb.WriteString(analyzer.Summary(rep.Result) + "\n")
		return
	}

	sb.WriteString(rep.Result.String())
	sb.WriteString("\n")
	sb.WriteString(rep.Result.Statistics.String())
	sb.WriteString("\n")

	if f.opts.ShowChanges && len(changes) > 0 {
		sb.WriteString("\n📋 Itemized changes:\n")
		for _, c := range changes {
			sb.WriteString(FormatChangeLine(c, f.opts.ShowFlags) + "\n")
		}
	}

	for _, e := range rep.Result.Errors {
		fmt.Fprintf(sb, "  ❌ %s\n", e)
	}
	for _, w := range rep.Result.Warnings {
		fmt.Fprintf(sb, "  ⚠️  %s\n", w)
	}
}

// JSONFormatter renders reports as a JSON array
type JSONFormatter struct {
	opts Options
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

type jsonChange struct {
	analyzer.ItemizedChange
	State string `json:"state"`
}

type jsonSummary struct {
	IsDryRun          bool           `json:"is_dry_run"`
	TotalItems        int            `json:"total_items"`
	FilesCreated      int            `json:"files_created"`
	FilesDeleted      int            `json:"files_deleted"`
	TotalFilesChanged int            `json:"total_files_changed"`
	Efficiency        float64        `json:"efficiency_percentage"`
	Speedup           float64        `json:"speedup"`
	ChangesByType     map[string]int `json:"changes_by_type"`
	Errors            int            `json:"errors"`
	Warnings          int            `json:"warnings"`
}

type jsonReport struct {
	Source  string                   `json:"source"`
	Error   string                   `json:"error,omitempty"`
	Result  *analyzer.AnalysisResult `json:"result,omitempty"`
	Summary *jsonSummary             `json:"summary,omitempty"`
	Changes []jsonChange             `json:"changes,omitempty"`
}

func (f *JSONFormatter) FormatChange(c analyzer.ItemizedChange) string {
	b, err := json.Marshal(jsonChange{ItemizedChange: c, State: StateOf(c).String()})
	if err != nil {
		return f.FormatError(err)
	}
	return string(b)
}

func (f *JSONFormatter) FormatProgress(current, total int) string {
	return fmt.Sprintf(`{"current":%d,"total":%d}`, current, total)
}

func (f *JSONFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

// Render writes all reports as one indented JSON array
func (f *JSONFormatter) Render(w io.Writer, reports []Report) error {
	out := make([]jsonReport, 0, len(reports))

	for _, rep := range reports {
		jr := jsonReport{Source: rep.Source}
		if rep.Err != nil {
			jr.Error = rep.Err.Error()
			out = append(out, jr)
			continue
		}

		switch f.opts.View {
		case ViewSummary:
			jr.Summary = summarize(rep.Result)
		case ViewChanges:
			jr.Changes = toJSONChanges(rep.SelectedChanges())
		default:
			jr.Result = rep.Result
			jr.Summary = summarize(rep.Result)
			if f.opts.ShowChanges && rep.Changes != nil {
				jr.Changes = toJSONChanges(rep.Changes)
			}
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

func summarize(r *analyzer.AnalysisResult) *jsonSummary {
	byType := make(map[string]int)
	for t, n := range analyzer.ChangesByType(r) {
		byType[t.String()] = n
	}
	return &jsonSummary{
		IsDryRun:          r.IsDryRun,
		TotalItems:        len(r.ItemizedChanges),
		FilesCreated:      r.Statistics.FilesCreated.Total,
		FilesDeleted:      r.Statistics.FilesDeleted,
		TotalFilesChanged: r.Statistics.TotalFilesChanged(),
		Efficiency:        r.Statistics.EfficiencyPercentage(),
		Speedup:           r.Statistics.Speedup,
		ChangesByType:     byType,
		Errors:            len(r.Errors),
		Warnings:          len(r.Warnings),
	}
}

func toJSONChanges(changes []analyzer.ItemizedChange) []jsonChange {
	out := make([]jsonChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, jsonChange{ItemizedChange: c, State: StateOf(c).String()})
	}
	return out
}
