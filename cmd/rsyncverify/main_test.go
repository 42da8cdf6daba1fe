// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"github.com/walteh/rsyncverify/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

const sampleOutput = `.f..t....... file1.txt
>f.st....... docs/readme.md
*deleting old.txt
Number of files: 10 (reg: 8, dir: 1, link: 1)
Number of deleted files: 1
speedup is 2.00`

const erroredOutput = `>f+++++++++ new.txt
rsync error: some files/attrs were not transferred (code 23)
Number of files: 1 (reg: 1)
speedup is 1.00`

// execute runs the root command with args and returns stdout and the error
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--color", "never"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing test file")
	return path
}

func TestSummaryFromStdin(t *testing.T) {
	out, err := execute(t, sampleOutput, "summary")
	require.NoError(t, err, "summary should succeed")

	assert.Contains(t, out, "RSYNC ANALYSIS SUMMARY", "should render summary header")
	assert.Contains(t, out, "Run Type: LIVE RUN", "should be a live run")
	assert.Contains(t, out, "Total items: 3", "should count every change")
}

func TestAnalyzeFile(t *testing.T) {
	path := writeFile(t, "run.log", sampleOutput)

	out, err := execute(t, "", "analyze", "--show-changes", path)
	require.NoError(t, err, "analyze should succeed")

	assert.Contains(t, out, "=== Rsync Analysis ===", "should render the full report")
	assert.Contains(t, out, "📋 Itemized changes:", "should list changes")
	assert.Contains(t, out, "docs/readme.md", "should include changed path")
	assert.NotContains(t, out, "📄 ", "single source should have no header")
}

func TestChangesJSON(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPaths []string
	}{
		{
			name:      "type filter",
			args:      []string{"--type", "deletion"},
			wantPaths: []string{"old.txt"},
		},
		{
			name:      "include glob",
			args:      []string{"--include", "docs/**"},
			wantPaths: []string{"docs/readme.md"},
		},
		{
			name:      "exclude glob",
			args:      []string{"--exclude", "*.txt"},
			wantPaths: []string{"docs/readme.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "changes"}, tt.args...)
			out, err := execute(t, sampleOutput, args...)
			require.NoError(t, err, "changes should succeed")

			var reports []struct {
				Source  string `json:"source"`
				Changes []struct {
					Path string `json:"path"`
				} `json:"changes"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &reports), "output should be JSON")
			require.Len(t, reports, 1, "should have one report")
			assert.Equal(t, operation.StdinName, reports[0].Source, "source should be stdin")

			var paths []string
			for _, c := range reports[0].Changes {
				paths = append(paths, c.Path)
			}
			assert.Equal(t, tt.wantPaths, paths, "selected paths should match")
		})
	}
}

func TestMultipleSources(t *testing.T) {
	first := writeFile(t, "first.log", sampleOutput)
	second := writeFile(t, "second.log", erroredOutput)

	out, err := execute(t, "", "--concurrency", "2", "changes", first, second)
	require.NoError(t, err, "changes should succeed")

	assert.Contains(t, out, "📄 "+first, "should label first source")
	assert.Contains(t, out, "📄 "+second, "should label second source")
	assert.Less(t, strings.Index(out, first), strings.Index(out, second), "reports should keep argument order")
}

func TestFailurePolicies(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantErr  error
		wantCode int
	}{
		{
			name:  "empty input is tolerated",
			stdin: "",
			args:  []string{"summary"},
		},
		{
			name:     "strict empty input",
			stdin:    "",
			args:     []string{"--strict", "summary"},
			wantErr:  analyzer.ErrEmptyInput,
			wantCode: 2,
		},
		{
			name:     "strict missing statistics",
			stdin:    ">f+++++++++ new.txt",
			args:     []string{"--strict", "summary"},
			wantErr:  analyzer.ErrMissingStatistics,
			wantCode: 2,
		},
		{
			name:  "rsync errors are tolerated",
			stdin: erroredOutput,
			args:  []string{"summary"},
		},
		{
			name:     "fail on rsync errors",
			stdin:    erroredOutput,
			args:     []string{"--fail-on-errors", "summary"},
			wantErr:  operation.ErrRsyncReportedErrors,
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			if tt.wantErr == nil {
				assert.NoError(t, err, "command should succeed")
				return
			}
			require.Error(t, err, "command should fail")
			assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v, got %v", tt.wantErr, err)
			assert.Equal(t, tt.wantCode, exitCode(err), "exit code should match")
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, "", "summary", filepath.Join(t.TempDir(), "nope.log"))
	require.Error(t, err, "missing file should fail")
	assert.True(t, errors.Is(err, os.ErrNotExist), "error should wrap os.ErrNotExist")
	assert.Equal(t, 1, exitCode(err), "exit code should be 1")
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "rsyncverify.hcl", `
output {
  format = "json"
}

filter {
  types = [change_types.deletion]
}
`)

	var stdout bytes.Buffer
	cmd := newRootCmd(strings.NewReader(sampleOutput), &stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "changes"})
	require.NoError(t, cmd.Execute(), "changes should succeed")

	out := stdout.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), "config should select JSON output")
	assert.Contains(t, out, `"path": "old.txt"`, "config filter should keep the deletion")
	assert.NotContains(t, out, `"path": "file1.txt"`, "config filter should drop other changes")
}

func TestInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"--format", "xml", "summary"}},
		{name: "unknown color", args: []string{"--color", "sometimes", "summary"}},
		{name: "negative concurrency", args: []string{"--concurrency", "-1", "summary"}},
		{name: "unknown change type", args: []string{"changes", "--type", "pipe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, sampleOutput, tt.args...)
			assert.Error(t, err, "invalid flags should fail")
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err, "version should succeed")
	assert.Contains(t, out, "🚀 rsyncverify version info:", "should print banner")

	out, err = execute(t, "", "version", "--json")
	require.NoError(t, err, "version --json should succeed")

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info), "output should be JSON")
	assert.NotEmpty(t, info.GoVersion, "go version should be set")
	assert.NotEmpty(t, info.Platform, "platform should be set")
}

// executeWithStderr is execute that also returns what went to stderr
func executeWithStderr(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--color", "never"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVerboseStream(t *testing.T) {
	tests := []struct {
		name          string
		stdin         string
		args          []string
		wantStderr    []string
		notWantStderr []string
	}{
		{
			name:  "streams_changes",
			stdin: sampleOutput,
			args:  []string{"--verbose", "summary"},
			wantStderr: []string{
				"rsyncverify • 1 source(s)",
				"◆ - • LIVE RUN",
				"docs/readme.md",
				"-: 3 change(s), live run, 0 error(s), 0 warning(s)",
			},
		},
		{
			name:  "streams_selected_changes",
			stdin: sampleOutput,
			args:  []string{"-v", "changes", "--type", "deletion"},
			wantStderr: []string{
				"◆ - • LIVE RUN",
				"old.txt",
			},
			notWantStderr: []string{"docs/readme.md"},
		},
		{
			name:          "quiet_by_default",
			stdin:         sampleOutput,
			args:          []string{"summary"},
			notWantStderr: []string{"◆", "change(s)"},
		},
		{
			name:       "failure_reported_without_verbose",
			stdin:      ">f+++++++++ new.txt",
			args:       []string{"summary"},
			wantStderr: []string{"-: "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := executeWithStderr(t, tt.stdin, tt.args...)
			require.NoError(t, err, "command should succeed")
			assert.NotEmpty(t, stdout, "report should still be rendered")

			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr, want, "stderr should contain %q", want)
			}
			for _, notWant := range tt.notWantStderr {
				assert.NotContains(t, stderr, notWant, "stderr should not contain %q", notWant)
			}
		})
	}
}
