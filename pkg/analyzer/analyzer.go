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
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/rsyncverify/pkg/metrics"
	"github.com/walteh/rsyncverify/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const dryRunMarker = "(DRY RUN)"

// 🔬 Analyze turns raw rsync output into an AnalysisResult. It returns nil when
// the output is empty or has no statistics block.
func Analyze(output string) *AnalysisResult {
	result, _ := AnalyzeStrict(output)
	return result
}

// 🔬 AnalyzeRecords analyzes output captured one line per record.
func AnalyzeRecords(records []string) *AnalysisResult {
	if len(records) == 0 {
		return nil
	}
	return Analyze(text.Join(records))
}

// 🔬 AnalyzeStrict is Analyze for callers that need to know why an output could
// not be analyzed. Empty output fails with ErrEmptyInput; output without a
// statistics block fails with a *ParseError wrapping ErrMissingStatistics.
func AnalyzeStrict(output string) (*AnalysisResult, error) {
	start := time.Now()

	if output == "" {
		metrics.RecordAnalysis(metrics.OutcomeEmptyInput, 0, time.Since(start))
		return nil, errors.WithStack(ErrEmptyInput)
	}

	r := routeOutput(output)

	stats, ok := parseStatistics(r.statistics)
	if !ok {
		metrics.RecordAnalysis(metrics.OutcomeMissingStatistics, r.lines, time.Since(start))
		return nil, errors.WithStack(&ParseError{
			Reason: `no "Number of files:" line found`,
			Err:    ErrMissingStatistics,
		})
	}
	stats.Errors = r.errors
	stats.Warnings = r.warnings

	result := &AnalysisResult{
		ItemizedChanges: r.changes,
		Statistics:      stats,
		IsDryRun:        strings.Contains(output, dryRunMarker),
		Errors:          r.errors,
		Warnings:        r.warnings,
	}

	for changeType, n := range ChangesByType(result) {
		metrics.RecordChanges(changeType.String(), n)
	}
	metrics.RecordAnalysis(metrics.OutcomeOK, r.lines, time.Since(start))

	return result, nil
}

// 🗃️ Analyzer memoizes analysis results by a hash of the output text.
//
// The cache grows until ClearCache is called. Analysis itself runs outside the
// lock, so concurrent misses on the same output may compute twice; the last
// writer wins and both callers get equal results.
type Analyzer struct {
	mu    sync.Mutex
	cache map[uint64]*AnalysisResult
}

// 🏭 New creates an analyzer with an empty cache
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[uint64]*AnalysisResult),
	}
}

// Analyze analyzes output without touching the cache.
func (a *Analyzer) Analyze(output string) *AnalysisResult {
	return Analyze(output)
}

// AnalyzeRecords analyzes records without touching the cache.
func (a *Analyzer) AnalyzeRecords(records []string) *AnalysisResult {
	return AnalyzeRecords(records)
}

// AnalyzeCached returns the cached result for output, computing and storing it
// on a miss. Outputs that cannot be analyzed are never cached.
func (a *Analyzer) AnalyzeCached(ctx context.Context, output string) *AnalysisResult {
	result, _ := a.AnalyzeCachedStrict(ctx, output)
	return result
}

// AnalyzeRecordsCached is AnalyzeCached for line records.
func (a *Analyzer) AnalyzeRecordsCached(ctx context.Context, records []string) *AnalysisResult {
	if len(records) == 0 {
		return nil
	}
	return a.AnalyzeCached(ctx, text.Join(records))
}

// AnalyzeCachedStrict is AnalyzeCached with the failure reasons of AnalyzeStrict.
func (a *Analyzer) AnalyzeCachedStrict(ctx context.Context, output string) (*AnalysisResult, error) {
	logger := zerolog.Ctx(ctx)
	key := xxhash.Sum64String(output)

	a.mu.Lock()
	cached, ok := a.cache[key]
	a.mu.Unlock()

	if ok {
		metrics.RecordCacheHit()
		logger.Debug().Uint64("hash", key).Msg("analysis cache hit")
		return cached, nil
	}

	metrics.RecordCacheMiss()
	logger.Debug().Uint64("hash", key).Int("bytes", len(output)).Msg("analysis cache miss")

	result, err := AnalyzeStrict(output)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[key] = result
	size := len(a.cache)
	a.mu.Unlock()

	metrics.SetCacheEntries(size)
	return result, nil
}

// ClearCache drops every cached result.
func (a *Analyzer) ClearCache() {
	a.mu.Lock()
	a.cache = make(map[uint64]*AnalysisResult)
	a.mu.Unlock()

	metrics.SetCacheEntries(0)
}

// CacheLen returns the number of cached results.
func (a *Analyzer) CacheLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cache)
}
