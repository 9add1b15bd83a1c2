package timeutil_test

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ghettovoice/sipreg/internal/timeutil"
)

func TestAfterFunc_Expires(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{})
	timer := timeutil.AfterFunc(10*time.Millisecond, func() { close(fired) })

	if got := timer.State(); got != timeutil.TimerStateRunning {
		t.Fatalf("timer.State() = %q, want %q", got, timeutil.TimerStateRunning)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback was not called")
	}

	if got := timer.State(); got != timeutil.TimerStateExpired {
		t.Errorf("timer.State() = %q, want %q", got, timeutil.TimerStateExpired)
	}
	if timer.Stop() {
		t.Error("timer.Stop() = true after expiration, want false")
	}
	if got := timer.Left(); got != 0 {
		t.Errorf("timer.Left() = %v, want 0", got)
	}
}

func TestTimer_Stop(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	timer := timeutil.AfterFunc(20*time.Millisecond, func() { calls.Add(1) })

	if !timer.Stop() {
		t.Fatal("timer.Stop() = false, want true")
	}
	if timer.Stop() {
		t.Error("second timer.Stop() = true, want false")
	}

	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("callback calls = %d, want 0", got)
	}
	if got := timer.State(); got != timeutil.TimerStateStopped {
		t.Errorf("timer.State() = %q, want %q", got, timeutil.TimerStateStopped)
	}
}

func TestTimer_StopRacesExpiration(t *testing.T) {
	t.Parallel()

	for range 100 {
		var calls atomic.Int32
		timer := timeutil.AfterFunc(time.Microsecond, func() { calls.Add(1) })

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Microsecond)
			stopped := timer.Stop()
			// give a possible callback time to run
			time.Sleep(time.Millisecond)
			if stopped && calls.Load() != 0 {
				t.Error("callback ran after successful Stop")
			}
		}()
		wg.Wait()

		if calls.Load() > 1 {
			t.Fatalf("callback calls = %d, want at most 1", calls.Load())
		}
	}
}

func TestTimer_LeftAndDeadline(t *testing.T) {
	t.Parallel()

	timer := timeutil.AfterFunc(time.Hour, func() {})
	defer timer.Stop()

	if left := timer.Left(); left <= 59*time.Minute || left > time.Hour {
		t.Errorf("timer.Left() = %v, want ~1h", left)
	}
	if until := time.Until(timer.Deadline()); until <= 59*time.Minute {
		t.Errorf("time.Until(timer.Deadline()) = %v, want ~1h", until)
	}
}

func TestTimer_Snapshot(t *testing.T) {
	t.Parallel()

	timer := timeutil.AfterFunc(time.Minute, func() {})
	timer.Stop()

	snap := timer.Snapshot()
	if snap.State != timeutil.TimerStateStopped {
		t.Errorf("snap.State = %q, want %q", snap.State, timeutil.TimerStateStopped)
	}
	if snap.StopTime.IsZero() {
		t.Error("snap.StopTime is zero, want set")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("json.Marshal(snap) error = %v, want nil", err)
	}
	var got timeutil.TimerSnapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal(data) error = %v, want nil", err)
	}
	if got.Duration != time.Minute || got.State != timeutil.TimerStateStopped {
		t.Errorf("restored snapshot = %+v, want duration 1m and stopped state", got)
	}

	var nilTimer *timeutil.Timer
	if nilTimer.Snapshot() != nil || nilTimer.Stop() {
		t.Error("nil timer must be inert")
	}
}
