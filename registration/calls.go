package registration

import (
	"context"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipreg/internal/errorutil"
)

// MakeCall starts an outgoing call from the account to the destination.
// The outcome is reported to rpl as [EventCallInitiated] or [EventCallFailed].
func (o *Orchestrator) MakeCall(ctx context.Context, acc AccountID, destination string, rpl Replier) (CallID, error) {
	if o.closed.Load() {
		return 0, errtrace.Wrap(ErrOrchestratorClosed)
	}

	callID, err := o.engine.MakeCall(ctx, acc, destination)
	if err != nil {
		o.log.LogAttrs(ctx, slog.LevelWarn, "failed to make call",
			slog.Int("account_id", int(acc)),
			slog.String("destination", destination),
			slog.Any("error", err),
		)
		wrapped := errorutil.NewWrapperError(ErrEngine, err)
		o.reply(ctx, rpl, Event{Kind: EventCallFailed, Message: err.Error(), Err: wrapped})
		return 0, errtrace.Wrap(wrapped)
	}

	o.log.LogAttrs(ctx, slog.LevelInfo, "call initiated",
		slog.Int("account_id", int(acc)),
		slog.String("destination", destination),
		slog.Int("call_id", int(callID)),
	)
	o.reply(ctx, rpl, Event{Kind: EventCallInitiated, CallID: callID})
	return callID, nil
}

// LocalMute mutes the local audio of the call.
func (o *Orchestrator) LocalMute(ctx context.Context, call CallID, rpl Replier) error {
	return errtrace.Wrap(o.callControl(ctx, "local mute", call, rpl,
		o.engine.LocalMuteCall, EventLocalMuteSuccess, EventLocalMuteFailed))
}

// LocalUnmute unmutes the local audio of the call.
func (o *Orchestrator) LocalUnmute(ctx context.Context, call CallID, rpl Replier) error {
	return errtrace.Wrap(o.callControl(ctx, "local unmute", call, rpl,
		o.engine.LocalUnmuteCall, EventLocalUnmuteSuccess, EventLocalUnmuteFailed))
}

// Hold puts the call on hold.
func (o *Orchestrator) Hold(ctx context.Context, call CallID, rpl Replier) error {
	return errtrace.Wrap(o.callControl(ctx, "hold", call, rpl,
		o.engine.HoldCall, EventHoldSuccess, EventHoldFailed))
}

// Unhold resumes the held call.
func (o *Orchestrator) Unhold(ctx context.Context, call CallID, rpl Replier) error {
	return errtrace.Wrap(o.callControl(ctx, "unhold", call, rpl,
		o.engine.UnholdCall, EventUnholdSuccess, EventUnholdFailed))
}

func (o *Orchestrator) callControl(
	ctx context.Context,
	op string,
	call CallID,
	rpl Replier,
	fn func(context.Context, CallID) error,
	okKind, failKind EventKind,
) error {
	if o.closed.Load() {
		return errtrace.Wrap(ErrOrchestratorClosed)
	}

	if err := fn(ctx, call); err != nil {
		wrapped := errorutil.NewWrapperError(ErrEngine, err)
		o.log.LogAttrs(ctx, slog.LevelWarn, "call control failed",
			slog.String("op", op),
			slog.Int("call_id", int(call)),
			slog.Any("error", err),
		)
		o.reply(ctx, rpl, Event{Kind: failKind, Message: err.Error(), Err: wrapped})
		return errtrace.Wrap(wrapped)
	}

	o.log.LogAttrs(ctx, slog.LevelDebug, "call control succeeded",
		slog.String("op", op),
		slog.Int("call_id", int(call)),
	)
	o.reply(ctx, rpl, Event{Kind: okKind, CallID: call})
	return nil
}
