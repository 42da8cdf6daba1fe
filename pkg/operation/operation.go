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
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"github.com/walteh/rsyncverify/pkg/status"
	"github.com/walteh/rsyncverify/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrRsyncReportedErrors is returned by Check when a run harvested error lines
var ErrRsyncReportedErrors = errors.Base("rsync reported errors")

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for analysis operations
type Options struct {
	// Analyzer memoizes results; nil analyzes every source from scratch
	Analyzer *analyzer.Analyzer
	// Filter selects the reported changes
	Filter analyzer.Filter
	// Strict turns unanalyzable output into an Execute error
	Strict bool
	// Tracker records per-source status; optional
	Tracker *status.Tracker
}

// 🔬 AnalyzeOperation analyzes the output of one source
type AnalyzeOperation struct {
	source Source
	opts   Options

	mu     sync.Mutex
	report status.Report
	done   bool
}

// 🏭 NewAnalyzeOperation creates an operation for one source
func NewAnalyzeOperation(source Source, opts Options) (*AnalyzeOperation, error) {
	if source == nil {
		return nil, errors.Errorf("source is required")
	}
	if err := opts.Filter.Validate(); err != nil {
		return nil, errors.Errorf("validating filter: %w", err)
	}
	return &AnalyzeOperation{source: source, opts: opts}, nil
}

// Execute reads and analyzes the source. Read failures are always returned;
// analysis failures are recorded on the report and returned only in strict
// mode.
func (o *AnalyzeOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("source", o.source.Name()).Logger()
	logger.Debug().Msg("analyzing source")

	rep := status.Report{Source: o.source.Name()}

	records, err := o.source.Records(ctx)
	if err != nil {
		rep.Err = err
		o.finish(ctx, rep)
		return errors.Errorf("reading source: %w", err)
	}

	result, err := o.analyze(ctx, records)
	if err != nil {
		rep.Err = err
		o.finish(ctx, rep)
		logger.Debug().Err(err).Msg("source could not be analyzed")
		if o.opts.Strict {
			return errors.Errorf("analyzing %s: %w", o.source.Name(), err)
		}
		return nil
	}
	rep.Result = result

	if !o.opts.Filter.IsZero() {
		changes, err := analyzer.FilterChanges(result.ItemizedChanges, o.opts.Filter)
		if err != nil {
			return errors.Errorf("filtering changes: %w", err)
		}
		if changes == nil {
			changes = []analyzer.ItemizedChange{}
		}
		rep.Changes = changes
	}

	o.finish(ctx, rep)

	logger.Debug().
		Int("changes", len(result.ItemizedChanges)).
		Int("selected", len(rep.SelectedChanges())).
		Bool("dry_run", result.IsDryRun).
		Msg("source analyzed")

	return nil
}

func (o *AnalyzeOperation) analyze(ctx context.Context, records []string) (*analyzer.AnalysisResult, error) {
	if len(records) == 0 {
		return nil, errors.WithStack(analyzer.ErrEmptyInput)
	}
	output := text.Join(records)
	if o.opts.Analyzer != nil {
		return o.opts.Analyzer.AnalyzeCachedStrict(ctx, output)
	}
	return analyzer.AnalyzeStrict(output)
}

func (o *AnalyzeOperation) finish(ctx context.Context, rep status.Report) {
	o.mu.Lock()
	o.report = rep
	o.done = true
	o.mu.Unlock()

	if o.opts.Tracker == nil {
		return
	}

	info := status.SourceInfo{Source: rep.Source, Status: status.StatusAnalyzed, Error: rep.Err}
	if rep.Err != nil {
		info.Status = status.StatusFailed
	}
	if rep.Result != nil {
		info.Changes = len(rep.SelectedChanges())
		info.Errors = len(rep.Result.Errors)
		info.Warnings = len(rep.Result.Warnings)
		info.DryRun = rep.Result.IsDryRun
	}
	o.opts.Tracker.Track(ctx, info)
	o.opts.Tracker.Advance(ctx)
}

// Report returns the report of the last Execute, and whether Execute has run
func (o *AnalyzeOperation) Report() (status.Report, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.report, o.done
}

// 📋 AnalyzeSources runs one AnalyzeOperation per source and returns the
// reports in source order
func AnalyzeSources(ctx context.Context, runner *OperationRunner, sources []Source, opts Options) ([]status.Report, error) {
	ops := make([]*AnalyzeOperation, 0, len(sources))
	generic := make([]Operation, 0, len(sources))
	for _, s := range sources {
		op, err := NewAnalyzeOperation(s, opts)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		generic = append(generic, op)
	}

	if opts.Tracker != nil {
		opts.Tracker.StartOperation(ctx, len(ops))
		defer opts.Tracker.FinishOperation(ctx)
	}

	var runErr error
	if len(ops) == 1 {
		runErr = runner.Run(ctx, ops[0])
	} else {
		runErr = runner.RunAll(ctx, generic)
	}

	reports := make([]status.Report, 0, len(ops))
	for _, op := range ops {
		if rep, ok := op.Report(); ok {
			reports = append(reports, rep)
		}
	}

	if runErr != nil {
		return reports, runErr
	}
	return reports, nil
}

// ✅ Check returns the first failed report's error, or ErrRsyncReportedErrors
// when failOnErrors is set and any run harvested error lines
func Check(reports []status.Report, failOnErrors bool) error {
	for _, rep := range reports {
		if rep.Err != nil {
			return errors.Errorf("%s: %w", rep.Source, rep.Err)
		}
	}
	if !failOnErrors {
		return nil
	}
	for _, rep := range reports {
		if rep.Result != nil && len(rep.Result.Errors) > 0 {
			return errors.Errorf("%s: %d error line(s): %w", rep.Source, len(rep.Result.Errors), ErrRsyncReportedErrors)
		}
	}
	return nil
}
