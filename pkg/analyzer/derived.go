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

package analyzer

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"gitlab.com/tozd/go/errors"
)

// 💾 FormatBytes renders a byte count with file-size units ("1.0 MB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.Bytes(uint64(-bytes))
	}
	return humanize.Bytes(uint64(bytes))
}

// 📈 EfficiencyPercentage is TotalTransferredSize / TotalFileSize * 100, or 0
// when TotalFileSize is 0.
func EfficiencyPercentage(stats Statistics) float64 {
	if stats.TotalFileSize == 0 {
		return 0
	}
	return float64(stats.TotalTransferredSize) / float64(stats.TotalFileSize) * 100
}

// 🗂️ ChangesByType counts the itemized changes of a result per change type.
func ChangesByType(result *AnalysisResult) map[ChangeType]int {
	counts := make(map[ChangeType]int)
	if result == nil {
		return counts
	}
	for _, c := range result.ItemizedChanges {
		counts[c.Type]++
	}
	return counts
}

// 🔎 Filter selects itemized changes by path glob and change type. Empty
// fields select everything.
type Filter struct {
	Include []string     // doublestar globs; a change must match one
	Exclude []string     // doublestar globs; a change must match none
	Types   []ChangeType // a change must have one of these types
}

// Validate checks every glob pattern.
func (f Filter) Validate() error {
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// IsZero reports whether the filter selects everything.
func (f Filter) IsZero() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0 && len(f.Types) == 0
}

// Match reports whether the change is selected. Directory paths are matched
// without their trailing slash.
func (f Filter) Match(c ItemizedChange) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == c.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	path := strings.TrimSuffix(c.Path, "/")

	if len(f.Include) > 0 && !matchAny(f.Include, path) {
		return false
	}
	return !matchAny(f.Exclude, path)
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, path) {
			return true
		}
	}
	return false
}

// FilterChanges returns the changes selected by f, in order.
func FilterChanges(changes []ItemizedChange, f Filter) ([]ItemizedChange, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.IsZero() {
		return changes, nil
	}

	out := make([]ItemizedChange, 0, len(changes))
	for _, c := range changes {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (c FileCount) String() string {
	return fmt.Sprintf("%d total (reg: %d, dir: %d, link: %d)", c.Total, c.Regular, c.Directories, c.Links)
}

func (s Statistics) String() string {
	var sb strings.Builder

	sb.WriteString("📊 Statistics:\n")
	fmt.Fprintf(&sb, "  Total files: %s\n", s.TotalFiles)
	fmt.Fprintf(&sb, "  Created: %s\n", s.FilesCreated)
	fmt.Fprintf(&sb, "  Deleted: %d\n", s.FilesDeleted)
	fmt.Fprintf(&sb, "  Transferred: %d\n", s.RegularFilesTransferred)
	sb.WriteString("\n💾 Data Transfer:\n")
	fmt.Fprintf(&sb, "  Total size: %s\n", FormatBytes(s.TotalFileSize))
	fmt.Fprintf(&sb, "  Transferred: %s\n", FormatBytes(s.TotalTransferredSize))
	fmt.Fprintf(&sb, "  Efficiency: %.2f%%\n", s.EfficiencyPercentage())
	fmt.Fprintf(&sb, "  Speedup: %.2fx\n", s.Speedup)
	sb.WriteString("\n📊 Transfer Details:\n")
	fmt.Fprintf(&sb, "  Literal data: %s\n", FormatBytes(s.LiteralData))
	fmt.Fprintf(&sb, "  Matched data: %s\n", FormatBytes(s.MatchedData))
	fmt.Fprintf(&sb, "  Sent: %s\n", FormatBytes(s.BytesSent))
	fmt.Fprintf(&sb, "  Received: %s", FormatBytes(s.BytesReceived))

	if len(s.Errors) > 0 {
		fmt.Fprintf(&sb, "\n❌ Errors: %d", len(s.Errors))
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Warnings: %d", len(s.Warnings))
	}

	return sb.String()
}

func (r *AnalysisResult) String() string {
	var sb strings.Builder
	s := r.Statistics

	sb.WriteString("=== Rsync Analysis ===\n")
	if r.IsDryRun {
		sb.WriteString("🔍 DRY RUN (no changes made)\n\n")
	} else {
		sb.WriteString("✅ LIVE RUN\n\n")
	}

	sb.WriteString("📊 Statistics:\n")
	fmt.Fprintf(&sb, "  Total files: %d\n", s.TotalFiles.Total)
	fmt.Fprintf(&sb, "    - Regular: %d\n", s.TotalFiles.Regular)
	fmt.Fprintf(&sb, "    - Directories: %d\n", s.TotalFiles.Directories)
	fmt.Fprintf(&sb, "    - Links: %d\n", s.TotalFiles.Links)
	fmt.Fprintf(&sb, "  Files created: %d\n", s.FilesCreated.Total)
	fmt.Fprintf(&sb, "  Files deleted: %d\n", s.FilesDeleted)
	fmt.Fprintf(&sb, "  Files transferred: %d\n\n", s.RegularFilesTransferred)

	sb.WriteString("💾 Data Transfer:\n")
	fmt.Fprintf(&sb, "  Total size: %s\n", FormatBytes(s.TotalFileSize))
	fmt.Fprintf(&sb, "  To transfer: %s\n", FormatBytes(s.TotalTransferredSize))
	fmt.Fprintf(&sb, "  Efficiency: %.2f%% needs transfer\n", s.EfficiencyPercentage())
	fmt.Fprintf(&sb, "  Speedup: %.2fx\n\n", s.Speedup)

	fmt.Fprintf(&sb, "🔄 Changes (%d items):\n", len(r.ItemizedChanges))
	counts := ChangesByType(r)
	for _, t := range AllChangeTypes {
		if n := counts[t]; n > 0 {
			fmt.Fprintf(&sb, "  %s: %d\n", t, n)
		}
	}

	return sb.String()
}

// 📋 Summary renders a short human-readable report of a result.
func Summary(result *AnalysisResult) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder
	rule := strings.Repeat("═", 28)

	sb.WriteString(rule + "\n")
	sb.WriteString("RSYNC ANALYSIS SUMMARY\n")
	sb.WriteString(rule + "\n\n")

	if result.IsDryRun {
		sb.WriteString("Run Type: DRY RUN (simulation)\n")
		sb.WriteString("⚠️  No actual changes were made\n")
	} else {
		sb.WriteString("Run Type: LIVE RUN\n")
	}

	s := result.Statistics
	sb.WriteString("\n📈 Summary:\n")
	fmt.Fprintf(&sb, "  • Total items: %s\n", humanize.Comma(int64(len(result.ItemizedChanges))))
	fmt.Fprintf(&sb, "  • Files created: %s\n", humanize.Comma(int64(s.FilesCreated.Total)))
	fmt.Fprintf(&sb, "  • Files deleted: %s\n", humanize.Comma(int64(s.FilesDeleted)))
	fmt.Fprintf(&sb, "  • Data efficiency: %.1f%%\n", s.EfficiencyPercentage())
	fmt.Fprintf(&sb, "  • Transfer speedup: %.1fx", s.Speedup)

	if len(result.Errors) > 0 {
		fmt.Fprintf(&sb, "\n\n❌ Found %d error(s)", len(result.Errors))
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(&sb, "\n⚠️  Found %d warning(s)", len(result.Warnings))
	}

	return sb.String()
}
