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
	"strings"
)

const (
	deletingPrefix = "*deleting"
	arrowSeparator = " -> "
	arrowToken     = "->"
)

// flagFieldWidths are the two fixed-width flag conventions emitted by
// different rsync versions, tried in order.
var flagFieldWidths = []int{12, 11}

// strictOffsets holds the position of each attribute in attributeCodes order.
// Offset 8 is reserved and never decoded.
var strictOffsets = []int{2, 3, 4, 5, 6, 7, 9, 10}

// 🔍 DecodeLine decodes one itemized-change line. It returns false when the
// line does not look like an itemized change; such lines are simply skipped.
func DecodeLine(line string) (ItemizedChange, bool) {
	if change, ok := decodeDeletion(line); ok {
		return change, true
	}

	for _, width := range flagFieldWidths {
		if change, ok := decodeStrict(line, width); ok {
			return change, true
		}
	}

	return decodeFlexible(line)
}

// decodeDeletion handles "*deleting <path>".
func decodeDeletion(line string) (ItemizedChange, bool) {
	if len(line) <= len(deletingPrefix) || !strings.HasPrefix(line, deletingPrefix) {
		return ItemizedChange{}, false
	}
	if !isSpace(line[len(deletingPrefix)]) {
		return ItemizedChange{}, false
	}

	path := strings.TrimSpace(line[len(deletingPrefix):])
	if path == "" {
		return ItemizedChange{}, false
	}

	return ItemizedChange{
		Type:  ChangeDeletion,
		Path:  path,
		Flags: ChangeFlags{IsDeletion: true},
	}, true
}

// decodeStrict handles a flag field of exactly width characters followed by a
// single space and the path.
func decodeStrict(line string, width int) (ItemizedChange, bool) {
	if len(line) <= width+1 || line[width] != ' ' {
		return ItemizedChange{}, false
	}

	field := line[:width]
	if strings.TrimSpace(field) == "" {
		return ItemizedChange{}, false
	}

	flags := ChangeFlags{FileType: field[:2]}
	for i, offset := range strictOffsets {
		if field[offset] == attributeCodes[i].code {
			attributeCodes[i].set(&flags)
		}
	}

	change := ItemizedChange{
		Type:  changeTypeFromEntry(field[1]),
		Flags: flags,
	}

	rest := line[width+1:]
	if idx := strings.Index(rest, arrowSeparator); idx >= 0 {
		target := strings.TrimSpace(rest[idx+len(arrowSeparator):])
		change.Path = strings.TrimSpace(rest[:idx])
		change.Target = &target
		change.Type = ChangeSymlink
	} else {
		change.Path = strings.TrimSpace(rest)
	}

	if change.Path == "" {
		return ItemizedChange{}, false
	}
	return change, true
}

// decodeFlexible handles whitespace-separated output where the flag token has
// no fixed width and the attribute letters may appear anywhere after the
// first two characters.
func decodeFlexible(line string) (ItemizedChange, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields[0]) < 2 {
		return ItemizedChange{}, false
	}

	flag := fields[0]
	flags := ChangeFlags{FileType: flag[:2]}
	attrs := flag[2:]
	for _, a := range attributeCodes {
		if strings.IndexByte(attrs, a.code) >= 0 {
			a.set(&flags)
		}
	}

	change := ItemizedChange{
		Type:  changeTypeFromEntry(flag[1]),
		Flags: flags,
	}

	rest := fields[1:]
	arrow := -1
	for i, f := range rest {
		if f == arrowToken {
			arrow = i
			break
		}
	}

	if arrow >= 0 {
		target := strings.Join(rest[arrow+1:], " ")
		change.Path = strings.Join(rest[:arrow], " ")
		change.Target = &target
		change.Type = ChangeSymlink
	} else {
		change.Path = strings.Join(rest, " ")
	}

	// "cL -> b" keeps an empty path
	return change, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
