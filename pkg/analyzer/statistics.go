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
	"regexp"
	"strconv"
	"strings"
)

// Statistics block keys, matched as exact case-sensitive prefixes.
const (
	keyFiles            = "Number of files:"
	keyCreatedFiles     = "Number of created files:"
	keyDeletedFiles     = "Number of deleted files:"
	keyRegularFiles     = "Number of regular files transferred:"
	keyTotalFileSize    = "Total file size:"
	keyTransferredSize  = "Total transferred file size:"
	keyLiteralData      = "Literal data:"
	keyMatchedData      = "Matched data:"
	keyBytesSent        = "Total bytes sent:"
	keyBytesReceived    = "Total bytes received:"
	speedupMarker       = "speedup is"
	statisticsBeginning = keyFiles
)

var (
	// 16,087 (reg: 14,321, dir: 1,721, link: 45)
	fileCountPattern = regexp.MustCompile(`(\d[\d,]*)\s*\(reg:\s*(\d[\d,]*),\s*dir:\s*(\d[\d,]*),\s*link:\s*(\d[\d,]*)\)`)

	// speedup is 1,865.63
	speedupPattern = regexp.MustCompile(`speedup is\s*(\d[\d,]*(?:\.\d*)?)`)
)

// 📊 parseStatistics reduces the lines of a statistics block. It returns false
// when no line starts with "Number of files:".
func parseStatistics(lines []string) (Statistics, bool) {
	var (
		stats      Statistics
		foundFiles bool
	)

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, keyFiles):
			stats.TotalFiles = parseFileCount(line)
			foundFiles = true
		case strings.HasPrefix(line, keyCreatedFiles):
			stats.FilesCreated = parseFileCount(line)
		case strings.HasPrefix(line, keyDeletedFiles):
			stats.FilesDeleted = int(firstInt(line[len(keyDeletedFiles):]))
		case strings.HasPrefix(line, keyRegularFiles):
			stats.RegularFilesTransferred = int(firstInt(line[len(keyRegularFiles):]))
		case strings.HasPrefix(line, keyTotalFileSize):
			stats.TotalFileSize = firstInt(line[len(keyTotalFileSize):])
		case strings.HasPrefix(line, keyTransferredSize):
			stats.TotalTransferredSize = firstInt(line[len(keyTransferredSize):])
		case strings.HasPrefix(line, keyLiteralData):
			stats.LiteralData = firstInt(line[len(keyLiteralData):])
		case strings.HasPrefix(line, keyMatchedData):
			stats.MatchedData = firstInt(line[len(keyMatchedData):])
		case strings.HasPrefix(line, keyBytesSent):
			stats.BytesSent = firstInt(line[len(keyBytesSent):])
		case strings.HasPrefix(line, keyBytesReceived):
			stats.BytesReceived = firstInt(line[len(keyBytesReceived):])
		case strings.Contains(line, speedupMarker):
			stats.Speedup = parseSpeedup(line)
		}
	}

	return stats, foundFiles
}

// parseFileCount reads "TOTAL (reg: REG, dir: DIR, link: LINK)". Anything
// else yields an all-zero count.
func parseFileCount(line string) FileCount {
	m := fileCountPattern.FindStringSubmatch(line)
	if m == nil {
		return FileCount{}
	}
	return FileCount{
		Total:       int(parseGrouped(m[1])),
		Regular:     int(parseGrouped(m[2])),
		Directories: int(parseGrouped(m[3])),
		Links:       int(parseGrouped(m[4])),
	}
}

// firstInt returns the first whitespace-delimited token that parses as an
// integer once thousands separators are removed, or 0.
func firstInt(s string) int64 {
	for _, tok := range strings.Fields(s) {
		if v, err := strconv.ParseInt(stripCommas(tok), 10, 64); err == nil {
			return v
		}
	}
	return 0
}

func parseSpeedup(line string) float64 {
	m := speedupPattern.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(stripCommas(m[1]), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseGrouped(s string) int64 {
	v, err := strconv.ParseInt(stripCommas(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func stripCommas(s string) string {
	if strings.IndexByte(s, ',') < 0 {
		return s
	}
	return strings.ReplaceAll(s, ",", "")
}
