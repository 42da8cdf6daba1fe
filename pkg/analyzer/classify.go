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
	"strings"

	"github.com/walteh/rsyncverify/pkg/text"
)

const incrementalBanner = "sending incremental"

// 🏷️ lineKind is how the classifier routes a line
type lineKind int

const (
	lineIgnored lineKind = iota
	lineStatisticsBegin
	lineStatistics
	lineCandidate
)

// 🚦 router walks the output once and routes every line. Once the
// statistics marker is seen, every following line belongs to the block.
type router struct {
	inStatistics bool
	lines        int

	changes    []ItemizedChange
	statistics []string
	errors     []string
	warnings   []string
}

func (r *router) classify(line string) lineKind {
	if strings.HasPrefix(line, statisticsBeginning) {
		return lineStatisticsBegin
	}
	if r.inStatistics {
		return lineStatistics
	}
	if line == "" || strings.HasPrefix(line, incrementalBanner) {
		return lineIgnored
	}
	return lineCandidate
}

func (r *router) route(line string) {
	r.lines++

	switch r.classify(line) {
	case lineStatisticsBegin:
		r.inStatistics = true
		r.statistics = append(r.statistics, line)
	case lineStatistics:
		r.statistics = append(r.statistics, line)
	case lineCandidate:
		r.harvest(line)
		if change, ok := DecodeLine(line); ok {
			r.changes = append(r.changes, change)
		}
	}
}

// harvest records error and warning lines verbatim. A line can land in both
// collections and still be decoded as a change.
func (r *router) harvest(line string) {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "error") {
		r.errors = append(r.errors, line)
	}
	if strings.Contains(lower, "warning") {
		r.warnings = append(r.warnings, line)
	}
}

func routeOutput(output string) *router {
	r := &router{}
	text.EachLine(output, r.route)
	return r
}
