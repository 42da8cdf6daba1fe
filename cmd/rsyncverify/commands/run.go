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

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/rsyncverify/cmd/rsyncverify/opts"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"github.com/walteh/rsyncverify/pkg/config"
	"github.com/walteh/rsyncverify/pkg/log"
	"github.com/walteh/rsyncverify/pkg/operation"
	"github.com/walteh/rsyncverify/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// runRequest is what a command asks the shared pipeline to do
type runRequest struct {
	args        []string
	view        status.View
	filter      analyzer.Filter
	showChanges bool
	showFlags   bool
}

// runAnalysis analyzes every source, renders the reports and applies the
// strict and fail-on-errors policies
func runAnalysis(ctx context.Context, o *opts.RootOpts, req runRequest) error {
	if o == nil || o.Config == nil {
		return errors.Errorf("options not initialized")
	}
	cfg := o.Config
	logger := zerolog.Ctx(ctx)

	formatter, err := status.NewFormatter(cfg.Output.Format, status.Options{
		View:        req.view,
		ShowChanges: req.showChanges,
		ShowFlags:   req.showFlags,
	})
	if err != nil {
		return errors.Errorf("creating formatter: %w", err)
	}

	tracker := status.New(logger, formatter)
	runner := operation.NewRunner(logger, cfg.Concurrency > 1, cfg.Concurrency)
	sources := operation.SourcesFromArgs(req.args, o.Stdin)

	reports, runErr := operation.AnalyzeSources(ctx, runner, sources, operation.Options{
		Analyzer: o.Analyzer,
		Filter:   req.filter,
		Strict:   cfg.Strict,
		Tracker:  tracker,
	})

	if o.Verbose {
		streamReports(ctx, o, reports, req.showFlags)
	}

	if len(reports) > 0 {
		if err := formatter.Render(o.Stdout, reports); err != nil {
			return errors.Errorf("rendering reports: %w", err)
		}
	}

	if runErr != nil {
		return errors.Errorf("analyzing sources: %w", runErr)
	}

	if cfg.Strict || cfg.FailOnErrors {
		if err := operation.Check(reports, cfg.FailOnErrors); err != nil {
			return err
		}
	}

	if o.UserLogger != nil && !o.Verbose && cfg.Output.Format == config.FormatText {
		for _, info := range tracker.Failed(ctx) {
			o.UserLogger.LogResult(info.Source, nil, info.Error)
		}
	}

	return nil
}

// streamReports writes every report to stderr as it would have been seen live:
// the source header, its selected changes and a one-line outcome
func streamReports(ctx context.Context, o *opts.RootOpts, reports []status.Report, showFlags bool) {
	stderr := o.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	console := log.New(ctx, stderr, showFlags)
	console.Header(fmt.Sprintf("%d source(s)", len(reports)))
	for _, rep := range reports {
		console.LogReport(ctx, rep)
		if o.UserLogger != nil {
			o.UserLogger.LogResult(rep.Source, rep.Result, rep.Err)
		}
	}
}

// configFilter returns the configured filter, optionally overridden by flags
func configFilter(o *opts.RootOpts, include, exclude, types []string) (analyzer.Filter, error) {
	f, err := o.Config.AnalyzerFilter()
	if err != nil {
		return analyzer.Filter{}, err
	}
	if len(include) > 0 {
		f.Include = include
	}
	if len(exclude) > 0 {
		f.Exclude = exclude
	}
	if len(types) > 0 {
		f.Types = nil
		for _, name := range types {
			t, err := analyzer.ParseChangeType(name)
			if err != nil {
				return analyzer.Filter{}, errors.Errorf("--type: %w", err)
			}
			f.Types = append(f.Types, t)
		}
	}
	if err := f.Validate(); err != nil {
		return analyzer.Filter{}, err
	}
	return f, nil
}
