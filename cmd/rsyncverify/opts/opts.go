package opts

import (
	"io"

	"github.com/walteh/rsyncverify/pkg/analyzer"
	"github.com/walteh/rsyncverify/pkg/config"
	"github.com/walteh/rsyncverify/pkg/log"
)

// RootOpts contains shared options used by all commands. It is filled in by
// the root command once flags are parsed.
type RootOpts struct {
	Config     *config.Config
	Analyzer   *analyzer.Analyzer // nil when caching is disabled
	UserLogger *log.UserLogger
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Verbose    bool // stream each source to Stderr
}
