package domain

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// NetworkError marks a transfer failure as transient. Failures wrapped in it
// are eligible for automatic retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError classifies an upload failure as transient/network-class.
// Anything else is treated as permanent and settles in the error status
// without automatic retry.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErrMark *NetworkError
	if errors.As(err, &netErrMark) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host")
}
