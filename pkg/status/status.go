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
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 SourceStatus represents the analysis state of one input
type SourceStatus int

const (
	StatusUnknown  SourceStatus = iota
	StatusPending               // Queued, not analyzed yet
	StatusAnalyzed              // Analysis produced a result
	StatusFailed                // Input could not be read or analyzed
)

// String returns a string representation of SourceStatus
func (s SourceStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAnalyzed:
		return "analyzed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 SourceInfo contains what is known about one input
type SourceInfo struct {
	Source   string       // File path or "-" for stdin
	Status   SourceStatus // Current status
	Changes  int          // Itemized changes found
	Errors   int          // Error lines harvested
	Warnings int          // Warning lines harvested
	DryRun   bool         // Output came from a dry run
	Error    error        // Any error associated with this input
}

// 🔧 Tracker records per-source status and reports progress through a Formatter
type Tracker struct {
	logger    *zerolog.Logger
	formatter Formatter

	mu      sync.RWMutex
	sources map[string]SourceInfo

	total     int
	processed int
}

// 🏭 New creates a new status tracker
func New(logger *zerolog.Logger, formatter Formatter) *Tracker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if formatter == nil {
		formatter = NewTextFormatter(Options{})
	}
	return &Tracker{
		logger:    logger,
		formatter: formatter,
		sources:   make(map[string]SourceInfo),
	}
}

// Track records the status of a source and logs it
func (t *Tracker) Track(ctx context.Context, info SourceInfo) {
	t.mu.Lock()
	t.sources[info.Source] = info
	t.mu.Unlock()

	if info.Error != nil {
		t.logger.Warn().Str("source", info.Source).Msg(t.formatter.FormatError(info.Error))
		return
	}

	t.logger.Info().
		Str("source", info.Source).
		Str("status", info.Status.String()).
		Int("changes", info.Changes).
		Int("errors", info.Errors).
		Int("warnings", info.Warnings).
		Bool("dry_run", info.DryRun).
		Msg("source tracked")
}

// Get returns the tracked info for a source
func (t *Tracker) Get(ctx context.Context, source string) (SourceInfo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info, ok := t.sources[source]
	if !ok {
		return SourceInfo{}, errors.Errorf("source not tracked: %s", source)
	}
	return info, nil
}

// List returns every tracked source sorted by name
func (t *Tracker) List(ctx context.Context) []SourceInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]SourceInfo, 0, len(t.sources))
	for _, info := range t.sources {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Failed returns the tracked sources that failed
func (t *Tracker) Failed(ctx context.Context) []SourceInfo {
	var out []SourceInfo
	for _, info := range t.List(ctx) {
		if info.Status == StatusFailed {
			out = append(out, info)
		}
	}
	return out
}

// StartOperation resets progress for a batch of total sources
func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	t.total = total
	t.processed = 0
	t.mu.Unlock()

	t.logger.Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

// Advance marks one more source as processed
func (t *Tracker) Advance(ctx context.Context) {
	t.mu.Lock()
	t.processed++
	processed, total := t.processed, t.total
	t.mu.Unlock()

	t.logger.Debug().
		Int("processed", processed).
		Int("total", total).
		Msg(t.formatter.FormatProgress(processed, total))
}

// Progress returns processed and total counts
func (t *Tracker) Progress() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.processed, t.total
}

// FinishOperation logs completion of the batch
func (t *Tracker) FinishOperation(ctx context.Context) {
	t.mu.RLock()
	total := t.total
	t.mu.RUnlock()

	t.logger.Debug().Int("total", total).Msg(t.formatter.FormatProgress(total, total))
}
