package main

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rsyncverify/cmd/rsyncverify/commands"
	"github.com/walteh/rsyncverify/cmd/rsyncverify/opts"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	"github.com/walteh/rsyncverify/pkg/config"
	"github.com/walteh/rsyncverify/pkg/log"
	"github.com/walteh/rsyncverify/pkg/metrics"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the flags shared by every command
type rootFlags struct {
	configFile   string
	debug        bool
	format       string
	color        string
	strict       bool
	failOnErrors bool
	concurrency  int
	noCache      bool
	verbose      bool
}

// newRootOpts loads the config, applies flag overrides and fills o
func newRootOpts(ctx context.Context, cmd *cobra.Command, flags *rootFlags, o *opts.RootOpts) error {
	cfg, err := config.LoadOrDefault(ctx, flags.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	// Flags win over the config file
	pf := cmd.Flags()
	if pf.Changed("format") {
		cfg.Output.Format = flags.format
	}
	if pf.Changed("color") {
		cfg.Output.Color = flags.color
	}
	if pf.Changed("strict") {
		cfg.Strict = flags.strict
	}
	if pf.Changed("fail-on-errors") {
		cfg.FailOnErrors = flags.failOnErrors
	}
	if pf.Changed("concurrency") {
		cfg.Concurrency = flags.concurrency
	}
	if pf.Changed("no-cache") {
		enabled := !flags.noCache
		cfg.Cache = &enabled
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}

	setupColor(cfg.Output.Color)
	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration loaded")

	o.Config = cfg
	o.Stderr = cmd.ErrOrStderr()
	o.Verbose = flags.verbose
	o.UserLogger = log.NewUserLoggerWithWriter(ctx, o.Stderr)
	if cfg.CacheEnabled() {
		o.Analyzer = analyzer.New()
	}
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", config.RCFileName, "config file path (YAML, HCL or JSON)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&flags.format, "format", "f", config.FormatText, "output format (text or json)")
	cmd.PersistentFlags().StringVar(&flags.color, "color", config.ColorAuto, "color output (auto, always or never)")
	cmd.PersistentFlags().BoolVar(&flags.strict, "strict", false, "fail when an input cannot be analyzed")
	cmd.PersistentFlags().BoolVar(&flags.failOnErrors, "fail-on-errors", false, "fail when rsync reported errors")
	cmd.PersistentFlags().IntVarP(&flags.concurrency, "concurrency", "j", config.DefaultConcurrency, "inputs analyzed in parallel")
	cmd.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "analyze identical inputs again")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "stream each source and its changes to stderr")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// setupColor applies the color mode to both console libraries
func setupColor(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
		pterm.EnableColor()
	case config.ColorNever:
		color.NoColor = true
		pterm.DisableColor()
	}
}

// logMetrics writes the process metrics at debug level
func logMetrics(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	snapshot, err := metrics.Snapshot()
	if err != nil {
		logger.Debug().Err(err).Msg("gathering metrics")
		return
	}
	event := logger.Debug()
	for name, value := range snapshot {
		event = event.Float64(name, value)
	}
	event.Msg("metrics")
}

// newRootCmd builds the command tree
func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	flags := &rootFlags{}
	o := &opts.RootOpts{Stdin: stdin, Stdout: stdout}

	rootCmd := &cobra.Command{
		Use:   "rsyncverify",
		Short: "Analyze and verify rsync output",
		Long: `rsyncverify turns rsync output captured with --itemize-changes and --stats
into structured reports: itemized changes, transfer statistics, dry-run
detection, and harvested error and warning lines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.debug)
			ctx := zerolog.DefaultContextLogger.WithContext(cmd.Context())
			cmd.SetContext(ctx)
			if cmd.Name() == "version" {
				return nil
			}
			return newRootOpts(ctx, cmd, flags, o)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logMetrics(cmd.Context())
		},
	}

	// Add shared flags
	addRootFlags(rootCmd, flags)

	// Add commands
	rootCmd.AddCommand(
		commands.NewAnalyzeCmd(o),
		commands.NewSummaryCmd(o),
		commands.NewChangesCmd(o),
		newVersionCmd(stdout),
	)

	return rootCmd
}
