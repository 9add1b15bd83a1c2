package errorutil

import (
	"context"
	"errors"
	"net"
)

// IsTimeoutErr returns true if the error is a timeout error,
// including an expired context deadline.
func IsTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var e interface{ Timeout() bool }
	return errors.As(err, &e) && e.Timeout()
}

// IsNotFoundErr returns true if the error is a DNS "no such host" error.
func IsNotFoundErr(err error) bool {
	var e *net.DNSError
	return errors.As(err, &e) && e.IsNotFound
}
