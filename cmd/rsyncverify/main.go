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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/walteh/rsyncverify/pkg/analyzer"
	rvlog "github.com/walteh/rsyncverify/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ctx := log.Logger.WithContext(context.Background())

	rootCmd := newRootCmd(os.Stdin, os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rvlog.NewUserLoggerWithWriter(ctx, os.Stderr).LogValidation(false, "Command failed", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps failures to process exit codes: 2 for output that could not
// be analyzed, 1 for everything else
func exitCode(err error) int {
	if errors.Is(err, analyzer.ErrEmptyInput) || errors.Is(err, analyzer.ErrMissingStatistics) {
		return 2
	}
	return 1
}
