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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"github.com/walteh/rsyncverify/pkg/status"
)

// 📦 SourceOperation identifies the input being streamed
type SourceOperation struct {
	Source string // File path or "-" for stdin
	DryRun bool   // Whether the output came from a dry run
}

// 🎯 Logger streams per-source analysis progress to a console. Every event is
// mirrored to the zerolog logger it was created with.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	showFlags bool

	mu      sync.Mutex
	current *SourceOperation
	changes []analyzer.ItemizedChange
}

// 🏭 New creates a console logger that mirrors events to the logger in ctx.
// showFlags renders changed attributes instead of update labels.
func New(ctx context.Context, console io.Writer, showFlags bool) *Logger {
	return &Logger{
		zlog:      *zerolog.Ctx(ctx),
		console:   console,
		showFlags: showFlags,
	}
}

// 📋 LogReport streams one finished report: its header and the selected
// changes. Failed reports print nothing; their outcome belongs to the caller.
func (l *Logger) LogReport(ctx context.Context, rep status.Report) []analyzer.ItemizedChange {
	if rep.Err != nil || rep.Result == nil {
		return nil
	}

	l.StartSource(ctx, SourceOperation{Source: rep.Source, DryRun: rep.Result.IsDryRun})
	for _, c := range rep.SelectedChanges() {
		l.LogChange(ctx, c)
	}
	return l.EndSource(ctx)
}

// StartSource opens a source; changes logged until EndSource belong to it
func (l *Logger) StartSource(ctx context.Context, op SourceOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &op
	l.changes = nil

	run := color.GreenString("LIVE RUN")
	if op.DryRun {
		run = color.YellowString("DRY RUN")
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.MagentaString("◆"),
		color.New(color.Bold).Sprint(op.Source),
		color.New(color.Faint).Sprint("•"),
		run)

	l.zlog.Debug().Str("source", op.Source).Bool("dry_run", op.DryRun).Msg("streaming source")
}

// LogChange prints one change row and records it on the open source
func (l *Logger) LogChange(ctx context.Context, c analyzer.ItemizedChange) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.changes = append(l.changes, c)
	fmt.Fprintln(l.console, status.FormatChangeLine(c, l.showFlags))

	l.zlog.Debug().
		Str("path", c.Path).
		Str("type", c.Type.String()).
		Str("state", status.StateOf(c).String()).
		Strs("attributes", c.Flags.Attributes()).
		Msg("itemized change")
}

// EndSource closes the open source and returns the changes logged for it
func (l *Logger) EndSource(ctx context.Context) []analyzer.ItemizedChange {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil
	}

	l.zlog.Debug().Str("source", l.current.Source).Int("changes", len(l.changes)).Msg("source streamed")

	changes := l.changes
	l.current = nil
	l.changes = nil
	return changes
}

// Header prints a banner line
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.Bold, color.FgCyan).Sprint("rsyncverify"),
		color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}
