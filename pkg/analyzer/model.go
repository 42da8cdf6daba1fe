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

	"gitlab.com/tozd/go/errors"
)

// 📂 ChangeType is the kind of filesystem entry an itemized change refers to
type ChangeType int

const (
	ChangeUnknown ChangeType = iota
	ChangeFile
	ChangeDirectory
	ChangeSymlink
	ChangeDevice
	ChangeSpecial
	ChangeDeletion
)

// AllChangeTypes lists every change type in display order.
var AllChangeTypes = []ChangeType{
	ChangeFile,
	ChangeDirectory,
	ChangeSymlink,
	ChangeDevice,
	ChangeSpecial,
	ChangeDeletion,
	ChangeUnknown,
}

// String returns a string representation of ChangeType
func (t ChangeType) String() string {
	switch t {
	case ChangeFile:
		return "File"
	case ChangeDirectory:
		return "Directory"
	case ChangeSymlink:
		return "Symlink"
	case ChangeDevice:
		return "Device"
	case ChangeSpecial:
		return "Special"
	case ChangeDeletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

func (t ChangeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ChangeType) UnmarshalText(b []byte) error {
	parsed, err := ParseChangeType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseChangeType parses a change type name case-insensitively. Both the
// display names ("Symlink") and short aliases ("link", "dir") are accepted.
func ParseChangeType(s string) (ChangeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file", "f":
		return ChangeFile, nil
	case "directory", "dir", "d":
		return ChangeDirectory, nil
	case "symlink", "link", "l":
		return ChangeSymlink, nil
	case "device":
		return ChangeDevice, nil
	case "special":
		return ChangeSpecial, nil
	case "deletion", "deleting", "deleted":
		return ChangeDeletion, nil
	case "unknown":
		return ChangeUnknown, nil
	}
	return ChangeUnknown, errors.Errorf("unknown change type %q", s)
}

// changeTypeFromEntry maps the entry-type character of the flag field.
func changeTypeFromEntry(c byte) ChangeType {
	switch c {
	case 'L':
		return ChangeSymlink
	case 'd':
		return ChangeDirectory
	case 'f':
		return ChangeFile
	case 'D':
		return ChangeDevice
	case 'S':
		return ChangeSpecial
	default:
		return ChangeUnknown
	}
}

// 🚩 ChangeFlags holds the decoded attribute facets of an itemized change
type ChangeFlags struct {
	FileType    string `json:"file_type"` // raw update-type + entry-type prefix, e.g. ">f"
	Checksum    bool   `json:"checksum,omitempty"`
	Size        bool   `json:"size,omitempty"`
	Timestamp   bool   `json:"timestamp,omitempty"`
	Permissions bool   `json:"permissions,omitempty"`
	Owner       bool   `json:"owner,omitempty"`
	Group       bool   `json:"group,omitempty"`
	ACL         bool   `json:"acl,omitempty"`
	XAttr       bool   `json:"xattr,omitempty"`
	IsDeletion  bool   `json:"is_deletion,omitempty"`
}

// UpdateType is the first character of the flag field, or 0 when absent.
func (f ChangeFlags) UpdateType() byte {
	if len(f.FileType) < 1 {
		return 0
	}
	return f.FileType[0]
}

// EntryType is the second character of the flag field, or 0 when absent.
func (f ChangeFlags) EntryType() byte {
	if len(f.FileType) < 2 {
		return 0
	}
	return f.FileType[1]
}

// UpdateTypeLabel describes the update-type character.
func (f ChangeFlags) UpdateTypeLabel() string {
	if f.IsDeletion {
		return "DELETED"
	}
	switch c := f.UpdateType(); c {
	case '.':
		return "NONE"
	case '*':
		return "UPDATED"
	case '+':
		return "CREATED"
	case '-':
		return "DELETED"
	case '>':
		return "RECEIVED"
	case '<':
		return "SENT"
	case 'h':
		return "HARDLINK"
	case '?':
		return "ERROR"
	case 0:
		return ""
	default:
		return string(c)
	}
}

// EntryTypeLabel describes the entry-type character.
func (f ChangeFlags) EntryTypeLabel() string {
	switch c := f.EntryType(); c {
	case 'f':
		return "file"
	case 'd':
		return "dir"
	case 'L':
		return "link"
	case 'D':
		return "device"
	case 'S':
		return "special"
	case 0:
		return ""
	default:
		return string(c)
	}
}

// Attributes returns the names of the changed attributes in flag order.
func (f ChangeFlags) Attributes() []string {
	var attrs []string
	for _, a := range attributeCodes {
		if a.get(f) {
			attrs = append(attrs, a.name)
		}
	}
	return attrs
}

// HasChanges reports whether any attribute facet is set.
func (f ChangeFlags) HasChanges() bool {
	return len(f.Attributes()) > 0
}

// FlagString rebuilds a compact flag code: the raw prefix plus one letter per
// set attribute.
func (f ChangeFlags) FlagString() string {
	var sb strings.Builder
	sb.WriteString(f.FileType)
	for _, a := range attributeCodes {
		if a.get(f) {
			sb.WriteByte(a.code)
		}
	}
	return sb.String()
}

func (f ChangeFlags) String() string {
	parts := f.Attributes()
	if f.IsDeletion {
		parts = append(parts, "deletion")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// attributeCode ties a flag letter to its facet.
type attributeCode struct {
	code byte
	name string
	get  func(ChangeFlags) bool
	set  func(*ChangeFlags)
}

var attributeCodes = []attributeCode{
	{'c', "checksum", func(f ChangeFlags) bool { return f.Checksum }, func(f *ChangeFlags) { f.Checksum = true }},
	{'s', "size", func(f ChangeFlags) bool { return f.Size }, func(f *ChangeFlags) { f.Size = true }},
	{'t', "time", func(f ChangeFlags) bool { return f.Timestamp }, func(f *ChangeFlags) { f.Timestamp = true }},
	{'p', "permissions", func(f ChangeFlags) bool { return f.Permissions }, func(f *ChangeFlags) { f.Permissions = true }},
	{'o', "owner", func(f ChangeFlags) bool { return f.Owner }, func(f *ChangeFlags) { f.Owner = true }},
	{'g', "group", func(f ChangeFlags) bool { return f.Group }, func(f *ChangeFlags) { f.Group = true }},
	{'a', "acl", func(f ChangeFlags) bool { return f.ACL }, func(f *ChangeFlags) { f.ACL = true }},
	{'x', "xattr", func(f ChangeFlags) bool { return f.XAttr }, func(f *ChangeFlags) { f.XAttr = true }},
}

// 📝 ItemizedChange is one rsync action on one filesystem entry
type ItemizedChange struct {
	Type   ChangeType  `json:"type"`
	Path   string      `json:"path"`
	Target *string     `json:"target,omitempty"` // only for symlinks reported as "path -> target"
	Flags  ChangeFlags `json:"flags"`
}

func (c ItemizedChange) String() string {
	var sb strings.Builder
	sb.WriteString(c.Type.String())
	sb.WriteString(": ")
	sb.WriteString(c.Path)
	if c.Target != nil {
		sb.WriteString(" -> ")
		sb.WriteString(*c.Target)
	}
	if attrs := c.Flags.Attributes(); len(attrs) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(attrs, ", "))
		sb.WriteString("]")
	}
	return sb.String()
}

// 🔢 FileCount is a "total (reg: N, dir: N, link: N)" breakdown. The parts are
// kept as reported; they are not required to add up to the total.
type FileCount struct {
	Total       int `json:"total"`
	Regular     int `json:"regular"`
	Directories int `json:"directories"`
	Links       int `json:"links"`
}

// 📊 Statistics is the trailing summary block of an rsync run
type Statistics struct {
	TotalFiles              FileCount `json:"total_files"`
	FilesCreated            FileCount `json:"files_created"`
	FilesDeleted            int       `json:"files_deleted"`
	RegularFilesTransferred int       `json:"regular_files_transferred"`
	TotalFileSize           int64     `json:"total_file_size"`
	TotalTransferredSize    int64     `json:"total_transferred_size"`
	LiteralData             int64     `json:"literal_data"`
	MatchedData             int64     `json:"matched_data"`
	BytesSent               int64     `json:"bytes_sent"`
	BytesReceived           int64     `json:"bytes_received"`
	Speedup                 float64   `json:"speedup"`
	Errors                  []string  `json:"errors"`
	Warnings                []string  `json:"warnings"`
}

// TotalFilesChanged is the number of created plus deleted files.
func (s Statistics) TotalFilesChanged() int {
	return s.FilesCreated.Total + s.FilesDeleted
}

// EfficiencyPercentage is the share of the total file size that had to be
// transferred, or 0 when the total size is 0.
func (s Statistics) EfficiencyPercentage() float64 {
	return EfficiencyPercentage(s)
}

// 📦 AnalysisResult is the structured form of one rsync output.
//
// Results are shared with the analyzer cache and must be treated as read-only.
type AnalysisResult struct {
	ItemizedChanges []ItemizedChange `json:"itemized_changes"`
	Statistics      Statistics       `json:"statistics"`
	IsDryRun        bool             `json:"is_dry_run"`
	Errors          []string         `json:"errors"`
	Warnings        []string         `json:"warnings"`
}
