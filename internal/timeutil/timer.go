package timeutil

import (
	"sync"
	"time"
)

// TimerState represents the current state of a timer.
type TimerState string

const (
	// TimerStateRunning indicates the timer is currently running.
	TimerStateRunning TimerState = "running"
	// TimerStateStopped indicates the timer was stopped before expiration.
	TimerStateStopped TimerState = "stopped"
	// TimerStateExpired indicates the timer has expired.
	TimerStateExpired TimerState = "expired"
)

// Timer is a one-shot timer that runs a callback in its own goroutine on expiration.
type Timer struct {
	mu        sync.Mutex
	startTime time.Time
	duration  time.Duration
	stopTime  time.Time
	state     TimerState
	callback  func()
	realTimer *time.Timer
}

// AfterFunc starts a new timer that calls f in its own goroutine after d elapses.
func AfterFunc(d time.Duration, f func()) *Timer {
	t := &Timer{
		startTime: time.Now(),
		duration:  d,
		state:     TimerStateRunning,
		callback:  f,
	}

	t.mu.Lock()
	t.realTimer = time.AfterFunc(d, t.expire)
	t.mu.Unlock()
	return t
}

func (t *Timer) expire() {
	t.mu.Lock()
	if t.state != TimerStateRunning {
		t.mu.Unlock()
		return
	}
	t.state = TimerStateExpired
	t.stopTime = time.Now()
	t.realTimer = nil
	callback := t.callback
	t.callback = nil
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// Stop prevents the timer from firing.
// It returns true if the call stops the timer, false if the timer has already expired
// or been stopped.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TimerStateRunning {
		return false
	}

	t.state = TimerStateStopped
	t.stopTime = time.Now()
	t.callback = nil
	if t.realTimer != nil {
		t.realTimer.Stop()
		t.realTimer = nil
	}
	return true
}

// State returns the current timer state.
func (t *Timer) State() TimerState {
	if t == nil {
		return ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Deadline returns the time at which the timer expires.
func (t *Timer) Deadline() time.Time {
	if t == nil {
		return time.Time{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startTime.Add(t.duration)
}

// Left returns the time remaining until the timer expires.
// Returns 0 if the timer is expired or stopped.
func (t *Timer) Left() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TimerStateRunning {
		return 0
	}
	return max(t.duration-time.Since(t.startTime), 0)
}

// TimerSnapshot represents an immutable view of a timer.
type TimerSnapshot struct {
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	State     TimerState    `json:"state"`
	StopTime  time.Time     `json:"stop_time,omitzero"`
}

// Snapshot returns the current timer state.
func (t *Timer) Snapshot() *TimerSnapshot {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return &TimerSnapshot{
		StartTime: t.startTime,
		Duration:  t.duration,
		State:     t.state,
		StopTime:  t.stopTime,
	}
}
