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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/rsyncverify/pkg/analyzer"
)

// 🎨 Display configuration
const (
	changeIndent = 4  // spaces to indent change entries
	pathWidth    = 35 // Base width for path
	typeWidth    = 15 // Width for change type
	labelWidth   = 15 // Width for update label
)

// 🏷️ ChangeState is the coarse outcome of one itemized change
type ChangeState int

const (
	StateUnchanged ChangeState = iota
	StateCreated
	StateModified
	StateDeleted
)

func (s ChangeState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateModified:
		return "modified"
	case StateDeleted:
		return "deleted"
	default:
		return "unchanged"
	}
}

// StateOf derives the display state of a change. Deletions win; a transfer or
// local change with no attribute letters is a newly created entry.
func StateOf(c analyzer.ItemizedChange) ChangeState {
	if c.Type == analyzer.ChangeDeletion || c.Flags.IsDeletion {
		return StateDeleted
	}
	if c.Flags.HasChanges() {
		return StateModified
	}
	switch c.Flags.UpdateType() {
	case '>', '<', 'c', '+':
		return StateCreated
	}
	return StateUnchanged
}

// 🎯 FormatChangeLine formats an itemized change as an aligned, colored row
func FormatChangeLine(c analyzer.ItemizedChange, showFlags bool) string {
	var prefix string
	switch StateOf(c) {
	case StateCreated:
		prefix = color.GreenString("✓")
	case StateModified:
		prefix = color.YellowString("⟳")
	case StateDeleted:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	path := c.Path
	if c.Target != nil {
		path = path + " -> " + *c.Target
	}

	label := c.Flags.UpdateTypeLabel()
	if showFlags && c.Flags.HasChanges() {
		label = c.Flags.String()
	}

	return strings.TrimRight(fmt.Sprintf("%s%s %-*s %-*s %-*s",
		strings.Repeat(" ", changeIndent),
		prefix,
		pathWidth, path,
		typeWidth, c.Type,
		labelWidth, label,
	), " ")
}
