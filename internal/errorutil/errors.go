package errorutil

//go:generate errtrace -w .

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a string type that implements the error interface.
type Error string

func (s Error) Error() string { return string(s) }

// NewWrapperError attaches the sentinel to a cause so that errors.Is matches both.
//
// The cause is the first argument: an error is wrapped as is (or returned unchanged
// if it already matches the sentinel), a string is used as a message, formatted
// with the remaining arguments if any. Without a usable cause the sentinel itself is returned.
func NewWrapperError(sentinel error, args ...any) error {
	if len(args) == 0 {
		return sentinel //errtrace:skip
	}

	switch cause := args[0].(type) {
	case error:
		if errors.Is(cause, sentinel) {
			return cause //errtrace:skip
		}
		return fmt.Errorf("%w: %w", sentinel, cause) //errtrace:skip
	case string:
		if len(args) > 1 {
			cause = fmt.Sprintf(cause, args[1:]...)
		}
		return fmt.Errorf("%w: %s", sentinel, cause) //errtrace:skip
	}
	return sentinel //errtrace:skip
}

// ErrInvalidArgument is an error returned when an invalid argument is provided.
const ErrInvalidArgument Error = "invalid argument"

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return NewWrapperError(ErrInvalidArgument, args...) //errtrace:skip
}

// JoinPrefix joins errors under a common prefix, skipping nil ones.
// Returns nil if all errors are nil.
func JoinPrefix(prefix string, errs ...error) error {
	errs = compact(errs)
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%s: %w", strings.TrimRight(prefix, ":"), errs[0]) //errtrace:skip
	}
	return &multiError{prefix: prefix, errs: errs} //errtrace:skip
}

func compact(errs []error) []error {
	out := errs[:0:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

type multiError struct {
	prefix string
	errs   []error
}

func (e *multiError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.prefix)
	for _, err := range e.errs {
		sb.WriteString("\n  - ")
		sb.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n    "))
	}
	return sb.String()
}

func (e *multiError) Unwrap() []error { return e.errs }
