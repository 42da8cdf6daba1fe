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

package operation

import (
	"context"
	"io"
	"os"

	"github.com/walteh/rsyncverify/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// StdinName is the source name used for standard input
const StdinName = "-"

// 📥 Source supplies captured rsync output, one record per line
type Source interface {
	// Name identifies the source in reports
	Name() string
	// Records reads the output as line records
	Records(ctx context.Context) ([]string, error)
}

// 📄 FileSource reads rsync output from a file
type FileSource struct {
	Path string
}

func (s FileSource) Name() string {
	return s.Path
}

func (s FileSource) Records(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", s.Path, err)
	}
	defer f.Close()

	records, err := text.ReadRecords(ctx, f)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", s.Path, err)
	}
	return records, nil
}

// 📄 ReaderSource reads rsync output from a stream such as stdin
type ReaderSource struct {
	Label  string
	Reader io.Reader
}

func (s ReaderSource) Name() string {
	return s.Label
}

func (s ReaderSource) Records(ctx context.Context) ([]string, error) {
	records, err := text.ReadRecords(ctx, s.Reader)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", s.Label, err)
	}
	return records, nil
}

// 🗂️ SourcesFromArgs maps CLI arguments to sources. No arguments, or a "-"
// argument, means standard input; stdin is read at most once.
func SourcesFromArgs(args []string, stdin io.Reader) []Source {
	if len(args) == 0 {
		return []Source{ReaderSource{Label: StdinName, Reader: stdin}}
	}

	sources := make([]Source, 0, len(args))
	usedStdin := false
	for _, arg := range args {
		if arg == StdinName {
			if usedStdin {
				continue
			}
			usedStdin = true
			sources = append(sources, ReaderSource{Label: StdinName, Reader: stdin})
			continue
		}
		sources = append(sources, FileSource{Path: arg})
	}
	return sources
}
