package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failed API call so callers can pick the right
// user-facing message.
type Kind int

const (
	// KindTimeout means the request exceeded the client-side deadline.
	KindTimeout Kind = iota
	// KindNetwork means the server could not be reached at all.
	KindNetwork
	// KindServer means the server answered with a non-2xx status.
	KindServer
	// KindUnexpected covers everything else (malformed responses, bugs).
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unexpected"
	}
}

// Error is the classified failure returned by every Client method.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status for KindServer, zero otherwise
	Message string // server-provided message when available
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an api.Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// classifyTransport maps a transport-level failure to timeout or network.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}
