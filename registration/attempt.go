package registration

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/sipreg/internal/timeutil"
	"github.com/ghettovoice/sipreg/transport"
)

// AttemptState is a lifecycle state of a registration attempt.
type AttemptState string

const (
	// AttemptPending is the initial state: the engine has not answered yet.
	AttemptPending AttemptState = "pending"
	// AttemptRegistered is a terminal state reached on engine success.
	AttemptRegistered AttemptState = "registered"
	// AttemptFailed is a terminal state reached on engine failure.
	AttemptFailed AttemptState = "failed"
	// AttemptTimedOut is a terminal state reached when the registration timeout fires first.
	AttemptTimedOut AttemptState = "timed_out"
	// AttemptSuperseded means a newer attempt for the same key replaced this one.
	// The attempt still waits for its own engine result but can no longer time out.
	AttemptSuperseded AttemptState = "superseded"
)

// IsTerminal reports whether no further transitions are possible from the state.
func (s AttemptState) IsTerminal() bool {
	return s == AttemptRegistered || s == AttemptFailed || s == AttemptTimedOut
}

type attemptTrigger string

const (
	trigRegistered attemptTrigger = "registered"
	trigFailed     attemptTrigger = "failed"
	trigTimeout    attemptTrigger = "timeout"
	trigSupersede  attemptTrigger = "supersede"
)

// Attempt is one in-flight registration request tracked until its terminal outcome.
type Attempt struct {
	key       string
	id        uuid.UUID
	created   time.Time
	sipURI    string
	username  string
	transport transport.Proto
	rpl       Replier
	log       *slog.Logger

	// mu serializes transitions and timer arming.
	mu    sync.Mutex
	fsm   *stateless.StateMachine
	timer atomic.Pointer[timeutil.Timer]
}

func newAttempt(key, sipURI, username string, tp transport.Proto, rpl Replier, log *slog.Logger) *Attempt {
	a := &Attempt{
		key:       key,
		id:        uuid.New(),
		created:   time.Now(),
		sipURI:    sipURI,
		username:  username,
		transport: tp,
		rpl:       rpl,
		log:       log,
	}
	a.initFSM()
	return a
}

func (a *Attempt) initFSM() {
	a.fsm = stateless.NewStateMachine(AttemptPending)

	a.fsm.Configure(AttemptPending).
		Permit(trigRegistered, AttemptRegistered).
		Permit(trigFailed, AttemptFailed).
		Permit(trigTimeout, AttemptTimedOut).
		Permit(trigSupersede, AttemptSuperseded)

	a.fsm.Configure(AttemptSuperseded).
		OnEntry(a.actStopTimer).
		Permit(trigRegistered, AttemptRegistered).
		Permit(trigFailed, AttemptFailed)

	a.fsm.Configure(AttemptRegistered).
		OnEntry(a.actStopTimer)

	a.fsm.Configure(AttemptFailed).
		OnEntry(a.actStopTimer)

	a.fsm.Configure(AttemptTimedOut)

	a.fsm.OnTransitioned(func(ctx context.Context, tr stateless.Transition) {
		a.log.LogAttrs(ctx, slog.LevelDebug, "registration attempt state changed",
			slog.String("key", a.key),
			slog.String("attempt_id", a.id.String()),
			slog.Any("from", tr.Source),
			slog.Any("to", tr.Destination),
			slog.Any("trigger", tr.Trigger),
		)
	})
}

func (a *Attempt) actStopTimer(context.Context, ...any) error {
	a.timer.Swap(nil).Stop()
	return nil
}

// fire applies the trigger and reports whether the transition happened.
func (a *Attempt) fire(ctx context.Context, trig attemptTrigger) bool {
	a.mu.Lock()
	err := a.fsm.FireCtx(ctx, trig)
	a.mu.Unlock()

	if err != nil {
		a.log.LogAttrs(ctx, slog.LevelDebug, "registration attempt transition rejected",
			slog.String("key", a.key),
			slog.String("attempt_id", a.id.String()),
			slog.Any("trigger", trig),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// arm starts the timeout timer if the attempt is still pending.
func (a *Attempt) arm(d time.Duration, onTimeout func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.State() != AttemptPending {
		return
	}
	a.timer.Swap(timeutil.AfterFunc(d, onTimeout)).Stop()
}

// disarm stops the timeout timer without changing the attempt state.
func (a *Attempt) disarm() bool {
	return a.timer.Swap(nil).Stop()
}

// Key returns the attempt key in the form "username@domain".
func (a *Attempt) Key() string { return a.key }

// ID returns the attempt generation identifier.
func (a *Attempt) ID() uuid.UUID { return a.id }

// State returns the current lifecycle state.
func (a *Attempt) State() AttemptState {
	return a.fsm.MustState().(AttemptState) //nolint:forcetypeassert
}

// Snapshot returns an immutable view of the attempt.
func (a *Attempt) Snapshot() *AttemptSnapshot {
	return &AttemptSnapshot{
		Key:       a.key,
		ID:        a.id,
		Created:   a.created,
		SIPURI:    a.sipURI,
		Username:  a.username,
		Transport: a.transport,
		State:     a.State(),
		Timer:     a.timer.Load().Snapshot(),
	}
}

func (a *Attempt) LogValue() slog.Value {
	if a == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.String("key", a.key),
		slog.String("id", a.id.String()),
		slog.String("sip_uri", a.sipURI),
		slog.Any("transport", a.transport),
		slog.String("state", string(a.State())),
	)
}

// AttemptSnapshot is an immutable view of a registration attempt.
type AttemptSnapshot struct {
	Key       string                  `json:"key"`
	ID        uuid.UUID               `json:"id"`
	Created   time.Time               `json:"created"`
	SIPURI    string                  `json:"sipUri"`
	Username  string                  `json:"username"`
	Transport transport.Proto         `json:"transport"`
	State     AttemptState            `json:"state"`
	Timer     *timeutil.TimerSnapshot `json:"timer,omitempty"`
}
