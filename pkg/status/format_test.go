package status

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"gitlab.com/tozd/go/errors"
)

const sampleOutput = `>f+++++++++ new.txt
>f.st...... changed.txt
.f.......... same.txt
*deleting gone.txt
WARNING: something odd
Number of files: 4 (reg: 4, dir: 0, link: 0)
Number of created files: 1 (reg: 1, dir: 0, link: 0)
Number of deleted files: 1
Total file size: 2,000 bytes
Total transferred file size: 500 bytes
speedup is 3.50`

func sampleResult(t *testing.T) *analyzer.AnalysisResult {
	t.Helper()
	result, err := analyzer.AnalyzeStrict(sampleOutput)
	require.NoError(t, err, "sample should analyze")
	return result
}

// 🧪 TestFormatChange tests emoji change formatting
func TestFormatChange(t *testing.T) {
	result := sampleResult(t)
	require.Len(t, result.ItemizedChanges, 5, "sample should decode five changes")

	tests := []struct {
		name   string
		change analyzer.ItemizedChange
		want   string
	}{
		{name: "created", change: result.ItemizedChanges[0], want: "✨ Created File: new.txt"},
		{name: "modified", change: result.ItemizedChanges[1], want: "📝 Modified File: changed.txt [size, time]"},
		{name: "unchanged", change: result.ItemizedChanges[2], want: "👍 Unchanged File: same.txt"},
		{name: "deleted", change: result.ItemizedChanges[3], want: "🗑️  Deleted gone.txt"},
	}

	formatter := NewTextFormatter(Options{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatChange(tt.change), "formatted change should match")
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{name: "zero_progress", current: 0, total: 10, expected: "⏳ Progress: 0/10 (0%)"},
		{name: "half_progress", current: 5, total: 10, expected: "⏳ Progress: 5/10 (50%)"},
		{name: "complete", current: 10, total: 10, expected: "✅ Progress: 10/10 (100%)"},
		{name: "zero_total", current: 0, total: 0, expected: "✅ Progress: 0/0 (0%)"},
		{name: "zero_total_with_current", current: 5, total: 0, expected: "✅ Progress: 5/0 (100%)"},
	}

	formatter := NewTextFormatter(Options{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.FormatProgress(tt.current, tt.total), "progress should match")
		})
	}
}

func TestFormatError(t *testing.T) {
	text := NewTextFormatter(Options{})
	assert.Equal(t, "", text.FormatError(nil), "nil error renders nothing")
	assert.Equal(t, "❌ Error: boom", text.FormatError(errors.New("boom")), "error should be prefixed")

	js := NewJSONFormatter(Options{})
	assert.Equal(t, "", js.FormatError(nil), "nil error renders nothing")
	assert.JSONEq(t, `{"error":"boom"}`, js.FormatError(errors.New("boom")), "error should be a JSON object")
	assert.JSONEq(t, `{"current":1,"total":2}`, js.FormatProgress(1, 2), "progress should be a JSON object")
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    interface{}
		wantErr bool
	}{
		{name: "default", format: "", want: &TextFormatter{}},
		{name: "text", format: "text", want: &TextFormatter{}},
		{name: "json_mixed_case", format: " JSON ", want: &JSONFormatter{}},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFormatter(tt.format, Options{})
			if tt.wantErr {
				require.Error(t, err, "unknown format should fail")
				assert.Contains(t, err.Error(), "unknown output format", "error should name the problem")
				return
			}
			require.NoError(t, err, "format should be known")
			assert.IsType(t, tt.want, got, "formatter type should match")
		})
	}
}

func TestTextRender(t *testing.T) {
	color.NoColor = true
	result := sampleResult(t)

	tests := []struct {
		name       string
		opts       Options
		reports    []Report
		contains   []string
		notContain []string
	}{
		{
			name:    "full_with_changes",
			opts:    Options{View: ViewFull, ShowChanges: true},
			reports: []Report{{Source: "run.log", Result: result}},
			contains: []string{
				"=== Rsync Analysis ===",
				"Total files: 4",
				"Itemized changes:",
				"gone.txt",
				"⚠️  WARNING: something odd",
			},
			notContain: []string{"📄 run.log"},
		},
		{
			name:       "full_without_changes",
			opts:       Options{View: ViewFull},
			reports:    []Report{{Source: "run.log", Result: result}},
			contains:   []string{"Efficiency: 25.00%"},
			notContain: []string{"Itemized changes:"},
		},
		{
			name:     "summary",
			opts:     Options{View: ViewSummary},
			reports:  []Report{{Source: "run.log", Result: result}},
			contains: []string{"RSYNC ANALYSIS SUMMARY", "Total items: 5", "Transfer speedup: 3.5x"},
		},
		{
			name: "changes_filtered",
			opts: Options{View: ViewChanges},
			reports: []Report{{
				Source:  "run.log",
				Result:  result,
				Changes: result.ItemizedChanges[3:4],
			}},
			contains:   []string{"gone.txt", "1 change(s)"},
			notContain: []string{"new.txt"},
		},
		{
			name: "multiple_sources_and_failure",
			opts: Options{View: ViewSummary},
			reports: []Report{
				{Source: "a.log", Result: result},
				{Source: "b.log", Err: errors.New("missing statistics")},
			},
			contains: []string{"📄 a.log", "📄 b.log", "❌ Error: missing statistics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewTextFormatter(tt.opts).Render(&buf, tt.reports), "render should succeed")

			out := buf.String()
			for _, want := range tt.contains {
				assert.Contains(t, out, want, "output should contain %q", want)
			}
			for _, unwanted := range tt.notContain {
				assert.NotContains(t, out, unwanted, "output should not contain %q", unwanted)
			}
		})
	}
}

func TestJSONRender(t *testing.T) {
	result := sampleResult(t)

	reports := []Report{
		{Source: "a.log", Result: result},
		{Source: "b.log", Err: errors.New("empty input")},
	}

	t.Run("full", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONFormatter(Options{}).Render(&buf, reports), "render should succeed")

		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got), "output should be valid JSON")
		require.Len(t, got, 2, "one entry per report")

		assert.Equal(t, "a.log", got[0]["source"], "source should match")
		require.Contains(t, got[0], "result", "full view includes the result")
		require.Contains(t, got[0], "summary", "full view includes the summary")

		summary := got[0]["summary"].(map[string]interface{})
		assert.Equal(t, float64(5), summary["total_items"], "total items should match")
		assert.Equal(t, float64(25), summary["efficiency_percentage"], "efficiency should match")
		assert.Equal(t, float64(1), summary["warnings"], "warnings should match")

		res := got[0]["result"].(map[string]interface{})
		changes := res["itemized_changes"].([]interface{})
		first := changes[0].(map[string]interface{})
		assert.Equal(t, "File", first["type"], "change types are serialized by name")

		assert.Equal(t, "empty input", got[1]["error"], "failed report carries the error")
		assert.NotContains(t, got[1], "result", "failed report has no result")
	})

	t.Run("changes", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONFormatter(Options{View: ViewChanges}).Render(&buf, reports[:1]), "render should succeed")

		var got []struct {
			Source  string `json:"source"`
			Changes []struct {
				Type  string `json:"type"`
				Path  string `json:"path"`
				State string `json:"state"`
			} `json:"changes"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got), "output should be valid JSON")
		require.Len(t, got, 1, "one entry per report")
		require.Len(t, got[0].Changes, 5, "all changes should be listed")
		assert.Equal(t, "created", got[0].Changes[0].State, "state should be derived")
		assert.Equal(t, "Deletion", got[0].Changes[3].Type, "deletion type should match")
		assert.Equal(t, "deleted", got[0].Changes[3].State, "deletion state should match")
	})
}
