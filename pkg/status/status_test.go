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

package status

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestSourceStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "analyzed", StatusAnalyzed.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

func TestTracker(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	tracker := New(&logger, nil)

	tracker.Track(ctx, SourceInfo{Source: "b.log", Status: StatusAnalyzed, Changes: 3, Warnings: 1})
	tracker.Track(ctx, SourceInfo{Source: "a.log", Status: StatusFailed, Error: errors.New("empty input")})

	info, err := tracker.Get(ctx, "b.log")
	require.NoError(t, err, "tracked source should be found")
	assert.Equal(t, 3, info.Changes, "changes should match")

	_, err = tracker.Get(ctx, "missing.log")
	require.Error(t, err, "untracked source should fail")
	assert.Contains(t, err.Error(), "source not tracked", "error should name the problem")

	list := tracker.List(ctx)
	require.Len(t, list, 2, "both sources should be listed")
	assert.Equal(t, "a.log", list[0].Source, "list should be sorted")

	failed := tracker.Failed(ctx)
	require.Len(t, failed, 1, "one source failed")
	assert.Equal(t, "a.log", failed[0].Source, "failed source should match")

	out := buf.String()
	assert.Contains(t, out, `"source":"b.log"`, "tracking should be logged")
	assert.Contains(t, out, "❌ Error: empty input", "failures should be logged through the formatter")
}

func TestTrackerProgress(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	tracker := New(&logger, NewTextFormatter(Options{}))

	tracker.StartOperation(ctx, 20)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker.Track(ctx, SourceInfo{Source: fmt.Sprintf("s%02d", i), Status: StatusAnalyzed})
			tracker.Advance(ctx)
		}(i)
	}
	wg.Wait()
	tracker.FinishOperation(ctx)

	processed, total := tracker.Progress()
	assert.Equal(t, 20, processed, "every source should be processed")
	assert.Equal(t, 20, total, "total should match")
	assert.Len(t, tracker.List(ctx), 20, "every source should be tracked")
	assert.Contains(t, buf.String(), "✅ Progress: 20/20 (100%)", "completion should be logged")
}
