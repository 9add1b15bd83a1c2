package registration

import (
	"context"
	"log/slog"

	"github.com/ghettovoice/sipreg/diag"
	"github.com/ghettovoice/sipreg/transport"
)

// EventKind is a kind of an outbound event.
type EventKind string

const (
	EventStatus                EventKind = "status"
	EventRegistrationSuccess   EventKind = "registration_success"
	EventRegistrationFailed    EventKind = "registration_failed"
	EventNetworkDiagnostic     EventKind = "network_diagnostic"
	EventTransportAlternatives EventKind = "transport_alternatives"
	EventCallInitiated         EventKind = "call_initiated"
	EventCallFailed            EventKind = "call_failed"
	EventLocalMuteSuccess      EventKind = "local_mute_success"
	EventLocalMuteFailed       EventKind = "local_mute_failed"
	EventLocalUnmuteSuccess    EventKind = "local_unmute_success"
	EventLocalUnmuteFailed     EventKind = "local_unmute_failed"
	EventHoldSuccess           EventKind = "hold_success"
	EventHoldFailed            EventKind = "hold_failed"
	EventUnholdSuccess         EventKind = "unhold_success"
	EventUnholdFailed          EventKind = "unhold_failed"
	EventCallStateUpdate       EventKind = "call_state_update"
)

// Event is an outbound notification for the presentation layer.
// Only the fields relevant to the event kind are set.
type Event struct {
	Kind         EventKind
	Message      string
	AccountID    AccountID
	CallID       CallID
	Report       *diag.Report
	Alternatives []transport.Proto
	CallState    *CallState
	CallStatus   *CallStatus
	Err          error
}

func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("kind", string(e.Kind))}
	switch e.Kind {
	case EventRegistrationSuccess:
		attrs = append(attrs, slog.Int("account_id", int(e.AccountID)))
	case EventCallInitiated,
		EventLocalMuteSuccess,
		EventLocalUnmuteSuccess,
		EventHoldSuccess,
		EventUnholdSuccess:
		attrs = append(attrs, slog.Int("call_id", int(e.CallID)))
	case EventNetworkDiagnostic:
		attrs = append(attrs, slog.Any("report", e.Report))
	case EventTransportAlternatives:
		attrs = append(attrs, slog.Any("alternatives", e.Alternatives))
	case EventCallStateUpdate:
		if e.CallState != nil {
			attrs = append(attrs,
				slog.Int("call_id", int(e.CallState.CallID)),
				slog.String("state", e.CallState.StateText),
			)
		}
		if e.CallStatus != nil {
			attrs = append(attrs,
				slog.Int("call_id", int(e.CallStatus.CallID)),
				slog.String("status", e.CallStatus.Type),
			)
		}
	}
	if e.Message != "" {
		attrs = append(attrs, slog.String("message", e.Message))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}
	return slog.GroupValue(attrs...)
}

// Replier receives events produced while handling one request.
type Replier interface {
	Reply(ctx context.Context, evt Event)
}

// ReplierFunc is a [Replier] implementation based on a function.
type ReplierFunc func(ctx context.Context, evt Event)

func (f ReplierFunc) Reply(ctx context.Context, evt Event) { f(ctx, evt) }

type noopReplier struct{}

func (noopReplier) Reply(context.Context, Event) {}
