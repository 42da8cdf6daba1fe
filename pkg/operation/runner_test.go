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

package operation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🔧 funcOperation adapts a function to the Operation interface
type funcOperation func(ctx context.Context) error

func (f funcOperation) Execute(ctx context.Context) error {
	return f(ctx)
}

func TestRunner(t *testing.T) {
	tests := []struct {
		name    string
		async   bool
		op      funcOperation
		timeout time.Duration
		wantErr string
	}{
		{
			name:  "sync_success",
			op:    func(ctx context.Context) error { return nil },
			async: false,
		},
		{
			name:    "sync_failure",
			op:      func(ctx context.Context) error { return errors.New("boom") },
			wantErr: "boom",
		},
		{
			name:  "async_success",
			op:    func(ctx context.Context) error { return nil },
			async: true,
		},
		{
			name:    "async_failure",
			op:      func(ctx context.Context) error { return errors.New("boom") },
			async:   true,
			wantErr: "executing operation: boom",
		},
		{
			name: "async_cancelled",
			op: func(ctx context.Context) error {
				<-ctx.Done()
				time.Sleep(50 * time.Millisecond)
				return nil
			},
			async:   true,
			timeout: 10 * time.Millisecond,
			wantErr: "operation cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.timeout)
				defer cancel()
			}

			err := NewRunner(nil, tt.async, 0).Run(ctx, tt.op)
			if tt.wantErr == "" {
				assert.NoError(t, err, "run should succeed")
				return
			}
			require.Error(t, err, "run should fail")
			assert.Contains(t, err.Error(), tt.wantErr, "error should match")
		})
	}
}

func TestRunAllLimit(t *testing.T) {
	var running, peak, count int32

	ops := make([]Operation, 20)
	for i := range ops {
		ops[i] = funcOperation(func(ctx context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&count, 1)
			return nil
		})
	}

	require.NoError(t, NewRunner(nil, true, 3).RunAll(context.Background(), ops), "run all should succeed")
	assert.Equal(t, int32(20), atomic.LoadInt32(&count), "every operation should run")
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3), "concurrency should respect the limit")
}

func TestRunAllFailures(t *testing.T) {
	var ran int32
	ops := []Operation{
		funcOperation(func(ctx context.Context) error { atomic.AddInt32(&ran, 1); return nil }),
		funcOperation(func(ctx context.Context) error { atomic.AddInt32(&ran, 1); return errors.New("second failed") }),
		funcOperation(func(ctx context.Context) error { atomic.AddInt32(&ran, 1); return nil }),
	}

	err := NewRunner(nil, false, 0).RunAll(context.Background(), ops)
	require.Error(t, err, "sync run all should fail")
	assert.Contains(t, err.Error(), "second failed", "first failure should be returned")
	assert.Equal(t, int32(2), atomic.LoadInt32(&ran), "sync mode stops at the first failure")

	err = NewRunner(nil, true, 0).RunAll(context.Background(), ops)
	require.Error(t, err, "async run all should fail")
	assert.Contains(t, err.Error(), "second failed", "failure should be returned")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewRunner(nil, false, 0).RunAll(ctx, ops)
	require.Error(t, err, "cancelled context should stop the run")
	assert.True(t, errors.Is(err, context.Canceled), "cause should be cancellation")
}
