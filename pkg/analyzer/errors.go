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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrEmptyInput is returned when the output to analyze has zero length.
	ErrEmptyInput = errors.Base("empty input")

	// ErrMissingStatistics is returned when the output has no
	// "Number of files:" line, usually because it was truncated or is not
	// rsync output at all.
	ErrMissingStatistics = errors.Base("missing statistics")
)

// ❌ ParseError describes why a non-empty output could not be analyzed.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parsing failed: %s", e.Reason)
	}
	return fmt.Sprintf("parsing failed: %s: %s", e.Reason, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
