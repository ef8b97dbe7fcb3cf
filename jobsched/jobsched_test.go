// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package jobsched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSchedulerRunsJob checks that a registered job ticks after Start and
// stops ticking after Stop.
func TestSchedulerRunsJob(t *testing.T) {
	s := New()

	var ticks int64
	err := s.Register("ticker", func() {
		atomic.AddInt64(&ticks, 1)
	}, 10*time.Millisecond)
	require.NoError(t, err)

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	final := atomic.LoadInt64(&ticks)
	require.Greater(t, final, int64(1))

	// No further ticks after Stop returned.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, final, atomic.LoadInt64(&ticks))
}

// TestSchedulerNoOverlap checks the non-reentrancy guarantee: a slow job
// never overlaps its own previous invocation even when the interval is
// shorter than the run time.
func TestSchedulerNoOverlap(t *testing.T) {
	s := New()

	var busy int32
	var overlaps int64
	var runs int64
	err := s.Register("slow", func() {
		if !atomic.CompareAndSwapInt32(&busy, 0, 1) {
			atomic.AddInt64(&overlaps, 1)
			return
		}
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt64(&runs, 1)
		atomic.StoreInt32(&busy, 0)
	}, 5*time.Millisecond)
	require.NoError(t, err)

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	require.Zero(t, atomic.LoadInt64(&overlaps))
	require.Greater(t, atomic.LoadInt64(&runs), int64(1))
}

// TestSchedulerIndependentJobs checks that two registered jobs both tick.
func TestSchedulerIndependentJobs(t *testing.T) {
	s := New()

	var a, b int64
	require.NoError(t, s.Register("a", func() { atomic.AddInt64(&a, 1) },
		10*time.Millisecond))
	require.NoError(t, s.Register("b", func() { atomic.AddInt64(&b, 1) },
		10*time.Millisecond))

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	require.Greater(t, atomic.LoadInt64(&a), int64(0))
	require.Greater(t, atomic.LoadInt64(&b), int64(0))
}

// TestSchedulerRegisterAfterStart checks that late registrations begin
// ticking immediately.
func TestSchedulerRegisterAfterStart(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	var ticks int64
	require.NoError(t, s.Register("late", func() {
		atomic.AddInt64(&ticks, 1)
	}, 10*time.Millisecond))

	time.Sleep(100 * time.Millisecond)
	require.Greater(t, atomic.LoadInt64(&ticks), int64(0))
}

// TestSchedulerRegisterValidation checks the registration error paths.
func TestSchedulerRegisterValidation(t *testing.T) {
	s := New()

	require.NoError(t, s.Register("dup", func() {}, time.Second))
	require.Error(t, s.Register("dup", func() {}, time.Second))
	require.Error(t, s.Register("nil-fn", nil, time.Second))
	require.Error(t, s.Register("bad-interval", func() {}, 0))
}
