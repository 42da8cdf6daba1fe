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

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAnalysis(t *testing.T) {
	before := testutil.ToFloat64(analysesTotal.WithLabelValues(OutcomeOK))
	beforeLines := testutil.ToFloat64(linesProcessed)

	RecordAnalysis(OutcomeOK, 42, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(analysesTotal.WithLabelValues(OutcomeOK)), "ok outcome should be counted")
	assert.Equal(t, beforeLines+42, testutil.ToFloat64(linesProcessed), "lines should be added")
}

func TestCacheMetrics(t *testing.T) {
	hits := testutil.ToFloat64(cacheHits)
	misses := testutil.ToFloat64(cacheMisses)

	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheMiss()
	SetCacheEntries(7)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheHits), "hit should be counted")
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheMisses), "misses should be counted")
	assert.Equal(t, float64(7), testutil.ToFloat64(cacheEntries), "entries gauge should be set")
}

func TestSnapshot(t *testing.T) {
	RecordChanges("File", 2)
	SetCacheEntries(3)

	snap, err := Snapshot()
	require.NoError(t, err, "snapshot should succeed")
	assert.Equal(t, float64(3), snap["rsyncverify_cache_entries"], "gauge should be in snapshot")
	assert.GreaterOrEqual(t, snap["rsyncverify_itemized_changes_total{File}"], float64(2), "labelled counter should be in snapshot")
	for key := range snap {
		assert.Contains(t, key, "rsyncverify_", "only rsyncverify metrics should be reported")
	}
}
