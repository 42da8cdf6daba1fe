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

// Package text splits captured process output into logical lines.
package text

import (
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📜 EachLine calls fn for every logical line of s, in order.
//
// "\n", "\r\n" and a lone "\r" all terminate a line, so output captured on
// different platforms (or mixed in one buffer) splits the same way. A single
// terminating newline does not produce a trailing empty line.
func EachLine(s string, fn func(line string)) {
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			fn(s[start:i])
			start = i + 1
		case '\r':
			fn(s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		fn(s[start:])
	}
}

// 📜 Lines returns the logical lines of s (see EachLine).
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	EachLine(s, func(line string) {
		lines = append(lines, line)
	})
	return lines
}

// 📥 ReadRecords reads everything from r and returns it as individual line
// records, ready to be joined back together by the analyzer.
func ReadRecords(ctx context.Context, r io.Reader) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("reading records: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("reading records: %w", err)
	}

	return Lines(string(data)), nil
}

// 🔗 Join is the inverse of Lines for records captured one line at a time.
func Join(records []string) string {
	return strings.Join(records, "\n")
}
