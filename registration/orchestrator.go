// Package registration coordinates SIP account registration attempts:
// it diagnoses connectivity, delegates registration to the SIP engine,
// tracks in-flight attempts under a timeout and reports outcomes as events.
package registration

//go:generate errtrace -w .

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipreg/diag"
	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/internal/syncutil"
	"github.com/ghettovoice/sipreg/log"
	"github.com/ghettovoice/sipreg/metrics"
	"github.com/ghettovoice/sipreg/transport"
	"github.com/ghettovoice/sipreg/uri"
)

const (
	// ErrRegistrationTimedOut is reported when the engine does not answer within the registration timeout.
	ErrRegistrationTimedOut errorutil.Error = "registration timed out"
	// ErrEngine wraps failures returned by the SIP engine.
	ErrEngine errorutil.Error = "SIP engine failure"
	// ErrOrchestratorClosed is returned by requests issued after [Orchestrator.Close].
	ErrOrchestratorClosed errorutil.Error = "orchestrator closed"
)

const timeoutMessage = "Registration timed out. The SIP server is not responding. " +
	"Check your network connection or try an alternative transport protocol."

const (
	statusReady    = "SIP engine initialized and ready"
	statusNotReady = "SIP engine initialization failed or not ready"
)

// DefaultTimeout is the default registration timeout.
const DefaultTimeout = 30 * time.Second

// Diagnoser runs SIP connectivity diagnostics.
type Diagnoser interface {
	Diagnose(ctx context.Context, sipURI string, port int) (*diag.Report, error)
}

// DiagnoserFunc is a [Diagnoser] implementation based on a function.
type DiagnoserFunc func(ctx context.Context, sipURI string, port int) (*diag.Report, error)

func (f DiagnoserFunc) Diagnose(ctx context.Context, sipURI string, port int) (*diag.Report, error) {
	return errtrace.Wrap2(f(ctx, sipURI, port))
}

// Options contains orchestrator options.
type Options struct {
	// Diagnoser runs connectivity diagnostics before each registration.
	// If nil, a [diag.Prober] with default options is used.
	Diagnoser Diagnoser
	// Timeout is the registration timeout.
	// If zero, [DefaultTimeout] is used.
	Timeout time.Duration
	// DiagnosticPort is the port probed by diagnostics.
	// If zero, 5060 is used.
	DiagnosticPort int
	// Log is a logger used to log registration events.
	// If nil, [log.Default] is used.
	Log *slog.Logger
	// Metrics collects registration attempts and outcomes. Optional.
	Metrics *metrics.Metrics
	// DefaultTransport is used for requests without a transport.
	// If empty, UDP is used.
	DefaultTransport transport.Proto
}

func (o *Options) timeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o *Options) diagPort() int {
	if o == nil || o.DiagnosticPort == 0 {
		return transport.DefaultPort
	}
	return o.DiagnosticPort
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

func (o *Options) metrics() *metrics.Metrics {
	if o == nil {
		return nil
	}
	return o.Metrics
}

func (o *Options) defaultTransport() transport.Proto {
	if o == nil || o.DefaultTransport == "" {
		return transport.ProtoUDP
	}
	return o.DefaultTransport.ToLower()
}

func (o *Options) diagnoser() Diagnoser {
	if o == nil || o.Diagnoser == nil {
		return diag.NewProber(&diag.ProberOptions{
			Log:     o.log(),
			Metrics: o.metrics(),
		})
	}
	return o.Diagnoser
}

// RegisterRequest is a request to register a SIP account.
type RegisterRequest struct {
	SIPURI   string
	Username string
	Password string
	// Transport is the registration transport.
	// If empty, the orchestrator default transport is used.
	Transport transport.Proto
}

func (r RegisterRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("sip_uri", r.SIPURI),
		slog.String("username", r.Username),
		slog.Any("transport", r.Transport),
	)
}

// Orchestrator mediates between the presentation layer and the SIP engine.
// It is safe for concurrent use.
type Orchestrator struct {
	engine   Engine
	diag     Diagnoser
	timeout  time.Duration
	diagPort int
	defTp    transport.Proto
	log      *slog.Logger
	metrics  *metrics.Metrics

	attempts syncutil.Map[string, *Attempt]
	subs     syncutil.Callbacks[func(context.Context, Event)]
	started  atomic.Bool
	ready    atomic.Bool
	closed   atomic.Bool
}

// New creates a new orchestrator for the engine.
// Options are optional, default options are used if nil.
func New(engine Engine, opts *Options) *Orchestrator {
	return &Orchestrator{
		engine:   engine,
		diag:     opts.diagnoser(),
		timeout:  opts.timeout(),
		diagPort: opts.diagPort(),
		defTp:    opts.defaultTransport(),
		log:      opts.log(),
		metrics:  opts.metrics(),
	}
}

// Start initializes the engine and subscribes to its call notifications, if supported.
// Notifications are delivered to [Orchestrator.OnEvent] subscribers.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.closed.Load() {
		return errtrace.Wrap(ErrOrchestratorClosed)
	}
	if !o.started.CompareAndSwap(false, true) {
		return nil
	}

	if err := o.engine.Initialize(ctx); err != nil {
		o.started.Store(false)
		err = errorutil.NewWrapperError(ErrEngine, err)
		o.log.LogAttrs(ctx, slog.LevelError, "failed to initialize SIP engine", slog.Any("error", err))
		return errtrace.Wrap(err)
	}

	if n, ok := o.engine.(CallStatusNotifier); ok {
		n.SetCallStatusHandler(o.onCallStatus)
	} else {
		o.log.LogAttrs(ctx, slog.LevelWarn, "SIP engine does not report call status events")
	}
	if n, ok := o.engine.(CallStateNotifier); ok {
		n.SetCallStateHandler(o.onCallState)
	} else {
		o.log.LogAttrs(ctx, slog.LevelWarn, "SIP engine does not report call state changes")
	}

	o.ready.Store(true)
	o.log.LogAttrs(ctx, slog.LevelInfo, "SIP engine initialized")
	return nil
}

func (o *Orchestrator) onCallStatus(st CallStatus) {
	if st.Type == "" {
		return
	}
	o.broadcast(context.Background(), Event{
		Kind:       EventCallStateUpdate,
		CallID:     st.CallID,
		CallStatus: &st,
	})
}

func (o *Orchestrator) onCallState(cs CallState) {
	o.broadcast(context.Background(), Event{
		Kind:      EventCallStateUpdate,
		CallID:    cs.CallID,
		CallState: &cs,
	})
}

// Status returns a human-readable readiness of the engine.
func (o *Orchestrator) Status() string {
	if o.ready.Load() && !o.closed.Load() {
		return statusReady
	}
	return statusNotReady
}

// ReportStatus sends the engine readiness as a status event.
func (o *Orchestrator) ReportStatus(ctx context.Context, rpl Replier) {
	o.reply(ctx, rpl, Event{Kind: EventStatus, Message: o.Status()})
}

// OnEvent subscribes fn to engine notifications.
// It returns a function that cancels the subscription.
func (o *Orchestrator) OnEvent(fn func(ctx context.Context, evt Event)) (unsubscribe func()) {
	return o.subs.Add(fn)
}

func (o *Orchestrator) broadcast(ctx context.Context, evt Event) {
	o.log.LogAttrs(ctx, slog.LevelDebug, "broadcast event", slog.Any("event", evt))
	for fn := range o.subs.All() {
		fn(ctx, evt)
	}
}

func (o *Orchestrator) reply(ctx context.Context, rpl Replier, evt Event) {
	if rpl == nil {
		rpl = noopReplier{}
	}
	o.log.LogAttrs(ctx, slog.LevelDebug, "reply event", slog.Any("event", evt))
	rpl.Reply(ctx, evt)
}

// Register diagnoses connectivity to the SIP server and registers the account.
//
// Failed diagnostics are reported to rpl as [EventNetworkDiagnostic] and [EventTransportAlternatives]
// events, but the registration is attempted anyway.
// Exactly one terminal event, [EventRegistrationSuccess] or [EventRegistrationFailed],
// is sent to rpl for a registration attempt.
// A newer request for the same "username@domain" supersedes the tracked attempt:
// the superseded attempt can no longer time out, but still reports its own engine result.
//
// Register blocks until the engine answers. Cancellation of ctx does not abort the pipeline.
// The returned error mirrors the terminal outcome: nil on success, [ErrEngine] on engine failure,
// [ErrRegistrationTimedOut] if the timeout fired first.
// Malformed SIP URIs are rejected with [errorutil.ErrInvalidArgument] before the engine is called.
func (o *Orchestrator) Register(ctx context.Context, req RegisterRequest, rpl Replier) error {
	if o.closed.Load() {
		return errtrace.Wrap(ErrOrchestratorClosed)
	}
	if rpl == nil {
		rpl = noopReplier{}
	}
	ctx = context.WithoutCancel(ctx)

	tp := o.transportOf(req)
	sipURI := transport.FormatURI(req.SIPURI, tp)

	domain, ok := uri.ExtractDomain(sipURI)
	if !ok {
		err := errorutil.NewInvalidArgumentError(
			errorutil.NewWrapperError(diag.ErrInvalidURI, "no domain in %q", req.SIPURI),
		)
		o.reply(ctx, rpl, Event{
			Kind:    EventRegistrationFailed,
			Message: fmt.Sprintf("%s. %s", diag.ErrInvalidURI, diag.Recommendation(diag.ErrInvalidURI)),
			Err:     err,
		})
		return errtrace.Wrap(err)
	}

	o.log.LogAttrs(ctx, slog.LevelInfo, "registering SIP account", slog.Any("request", req))

	rep, err := o.diag.Diagnose(ctx, sipURI, o.diagPort)
	if err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "SIP connectivity diagnostic failed",
			slog.String("sip_uri", sipURI),
			slog.Any("error", err),
		)
	} else if !rep.OverallSuccess {
		alts := transport.SuggestAlternatives(tp)
		o.reply(ctx, rpl, Event{Kind: EventNetworkDiagnostic, Report: rep})
		o.reply(ctx, rpl, Event{Kind: EventTransportAlternatives, Alternatives: alts})
		o.log.LogAttrs(ctx, slog.LevelWarn, "attempting registration despite failed diagnostic",
			slog.Any("report", rep),
			slog.Any("alternatives", alts),
		)
	}

	a := newAttempt(req.Username+"@"+domain, sipURI, req.Username, tp, rpl, o.log)
	o.track(ctx, a)

	accID, err := o.engine.RegisterAccount(ctx, sipURI, req.Username, req.Password)
	o.untrack(a)

	var evt Event
	if err != nil {
		engErr := err
		err = errorutil.NewWrapperError(ErrEngine, engErr)
		evt = Event{Kind: EventRegistrationFailed, Message: engErr.Error(), Err: err}
	} else {
		evt = Event{Kind: EventRegistrationSuccess, AccountID: accID}
	}
	if !o.finish(ctx, a, evt) {
		o.log.LogAttrs(ctx, slog.LevelWarn, "late SIP engine result dropped",
			slog.Any("attempt", a),
			slog.Any("event", evt),
		)
		return errtrace.Wrap(ErrRegistrationTimedOut)
	}
	return errtrace.Wrap(err)
}

// track stores the attempt, supersedes the previous one for the same key and arms the timeout.
func (o *Orchestrator) track(ctx context.Context, a *Attempt) {
	if prev, ok := o.attempts.Swap(a.key, a); ok {
		o.metrics.AttemptReleased()
		if prev.fire(ctx, trigSupersede) {
			o.log.LogAttrs(ctx, slog.LevelInfo, "registration attempt superseded",
				slog.Any("attempt", prev),
				slog.String("by", a.id.String()),
			)
		}
	}
	o.metrics.AttemptStarted(string(a.transport))
	a.arm(o.timeout, func() { o.onTimeout(ctx, a) })
}

// untrack removes the attempt if it is still the current one for its key.
func (o *Orchestrator) untrack(a *Attempt) bool {
	if !o.attempts.CompareAndDelete(a.key, a) {
		return false
	}
	o.metrics.AttemptReleased()
	return true
}

func (o *Orchestrator) onTimeout(ctx context.Context, a *Attempt) {
	if !o.untrack(a) {
		return
	}
	o.finish(ctx, a, Event{
		Kind:    EventRegistrationFailed,
		Message: timeoutMessage,
		Err:     errtrace.Wrap(ErrRegistrationTimedOut),
	})
}

// finish moves the attempt to the terminal state matching evt and replies with evt.
// It reports false if the attempt had already reached a terminal state.
func (o *Orchestrator) finish(ctx context.Context, a *Attempt, evt Event) bool {
	var (
		trig    attemptTrigger
		outcome string
	)
	switch {
	case evt.Kind == EventRegistrationSuccess:
		trig, outcome = trigRegistered, metrics.OutcomeSuccess
	case errors.Is(evt.Err, ErrRegistrationTimedOut):
		trig, outcome = trigTimeout, metrics.OutcomeTimeout
	default:
		trig, outcome = trigFailed, metrics.OutcomeFailure
	}
	if !a.fire(ctx, trig) {
		return false
	}

	o.metrics.Outcome(outcome)
	if evt.Err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "SIP account registration failed",
			slog.Any("attempt", a),
			slog.Any("error", evt.Err),
		)
	} else {
		o.log.LogAttrs(ctx, slog.LevelInfo, "SIP account registered",
			slog.Any("attempt", a),
			slog.Int("account_id", int(evt.AccountID)),
		)
	}
	o.reply(ctx, a.rpl, evt)
	return true
}

func (o *Orchestrator) transportOf(req RegisterRequest) transport.Proto {
	if req.Transport == "" {
		return o.defTp
	}
	return req.Transport.ToLower()
}

// ChangeTransport retries the registration with another transport.
// Unlike [Orchestrator.Register], it runs no diagnostics and does not track the attempt.
func (o *Orchestrator) ChangeTransport(ctx context.Context, req RegisterRequest, rpl Replier) error {
	if o.closed.Load() {
		return errtrace.Wrap(ErrOrchestratorClosed)
	}

	tp := o.transportOf(req)
	sipURI := transport.FormatURI(req.SIPURI, tp)

	o.log.LogAttrs(ctx, slog.LevelInfo, "registering SIP account with alternative transport",
		slog.Any("transport", tp),
		slog.String("sip_uri", sipURI),
	)

	accID, err := o.engine.RegisterAccount(ctx, sipURI, req.Username, req.Password)
	if err != nil {
		engErr := err
		err = errorutil.NewWrapperError(ErrEngine, engErr)
		o.metrics.Outcome(metrics.OutcomeFailure)
		o.log.LogAttrs(ctx, slog.LevelWarn, "SIP account registration failed",
			slog.Any("transport", tp),
			slog.Any("error", err),
		)
		o.reply(ctx, rpl, Event{
			Kind:    EventRegistrationFailed,
			Message: fmt.Sprintf("%s transport failed: %s", tp, engErr),
			Err:     err,
		})
		return errtrace.Wrap(err)
	}

	o.metrics.Outcome(metrics.OutcomeSuccess)
	o.reply(ctx, rpl, Event{Kind: EventRegistrationSuccess, AccountID: accID})
	return nil
}

// Attempts returns snapshots of the tracked registration attempts sorted by key.
func (o *Orchestrator) Attempts() []*AttemptSnapshot {
	var snaps []*AttemptSnapshot
	for _, a := range o.attempts.All() {
		snaps = append(snaps, a.Snapshot())
	}
	slices.SortFunc(snaps, func(a, b *AttemptSnapshot) int { return cmp.Compare(a.Key, b.Key) })
	return snaps
}

// Close stops all pending registration timers and cleans up the engine.
// Pending attempts produce no further timeout events.
func (o *Orchestrator) Close(ctx context.Context) error {
	if !o.closed.CompareAndSwap(false, true) {
		return nil
	}

	for _, a := range o.attempts.Drain() {
		a.disarm()
		o.metrics.AttemptReleased()
	}
	o.ready.Store(false)

	if err := o.engine.Cleanup(ctx); err != nil {
		err = errorutil.NewWrapperError(ErrEngine, err)
		o.log.LogAttrs(ctx, slog.LevelError, "failed to clean up SIP engine", slog.Any("error", err))
		return errtrace.Wrap(err)
	}
	o.log.LogAttrs(ctx, slog.LevelInfo, "SIP engine cleaned up")
	return nil
}
