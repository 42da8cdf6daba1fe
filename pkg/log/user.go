package log

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rsyncverify/pkg/analyzer"
)

// 📢 UserLogger provides user-friendly feedback about analyzed sources
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger writing to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerWithWriter(ctx, os.Stdout)
}

// NewUserLoggerWithWriter creates a user logger writing to out
func NewUserLoggerWithWriter(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(p pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return p.WithPrefix(pterm.Prefix{Text: prefix, Style: p.Prefix.Style}).WithWriter(u.out)
}

// 📊 LogResult logs the outcome of one analyzed source
func (u *UserLogger) LogResult(source string, result *analyzer.AnalysisResult, err error) {
	if err != nil {
		u.printer(pterm.Error, "❌").Printf("%s: %v\n", source, err)
		u.log.Error().Err(err).Str("source", source).Msg("analysis failed")
		return
	}

	run := "live run"
	if result.IsDryRun {
		run = "dry run"
	}
	msg := fmt.Sprintf("%s: %d change(s), %s, %d error(s), %d warning(s)",
		source, len(result.ItemizedChanges), run, len(result.Errors), len(result.Warnings))

	u.printer(pterm.Info, "📦").Println(msg)
	u.log.Info().Str("source", source).Msg(msg)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		u.printer(pterm.Error, "❌").Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Warning, "⚠️").Println(description)
	u.log.Warn().Msg(description)
}
