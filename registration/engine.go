package registration

//go:generate go tool mockgen -destination=../internal/testutil/enginemock/engine.go -package=enginemock github.com/ghettovoice/sipreg/registration Engine,CallStateNotifier,CallStatusNotifier

import "context"

// AccountID is an engine-assigned account identifier.
type AccountID int

// CallID is an engine-assigned call identifier.
type CallID int

// Engine is the SIP stack that performs account registration and call control.
// Methods may block. Implementations report failures as errors.
type Engine interface {
	Initialize(ctx context.Context) error
	RegisterAccount(ctx context.Context, sipURI, username, password string) (AccountID, error)
	Cleanup(ctx context.Context) error
	MakeCall(ctx context.Context, acc AccountID, destination string) (CallID, error)
	LocalMuteCall(ctx context.Context, call CallID) error
	LocalUnmuteCall(ctx context.Context, call CallID) error
	HoldCall(ctx context.Context, call CallID) error
	UnholdCall(ctx context.Context, call CallID) error
}

// CallState is a call state change pushed by the engine.
type CallState struct {
	CallID    CallID `json:"callId"`
	State     int    `json:"state"`
	StateText string `json:"stateText"`
}

// CallStatus is a free-form call event pushed by the engine,
// e.g. "call_state_ringing" or "call_state_disconnected".
type CallStatus struct {
	Type   string         `json:"type"`
	CallID CallID         `json:"callId"`
	Data   map[string]any `json:"data,omitempty"`
}

// CallStateNotifier is implemented by engines that push call state changes.
// The engine keeps a single handler and may invoke it from any goroutine.
type CallStateNotifier interface {
	SetCallStateHandler(fn func(CallState))
}

// CallStatusNotifier is implemented by engines that push call status events.
// The engine keeps a single handler and may invoke it from any goroutine.
type CallStatusNotifier interface {
	SetCallStatusHandler(fn func(CallStatus))
}
