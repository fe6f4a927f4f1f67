package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a remote cart call failure. The controller treats
// not-found on fetch as an empty cart; everything else leaves the
// in-memory cart untouched and surfaces to the user.
type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindNotFound
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindDecode:
		return "decode"
	default:
		return "network"
	}
}

// Error is the typed failure every client operation returns.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote cart %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// classify maps a transport error to timeout or network.
func classify(op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(op, KindTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(op, KindTimeout, err)
	}
	return newError(op, KindNetwork, err)
}

// IsNotFound reports whether err is a not-found remote failure.
func IsNotFound(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindNotFound
}

// IsRetryable reports whether the user should be offered a retry.
func IsRetryable(err error) bool {
	var re *Error
	if !errors.As(err, &re) {
		return false
	}
	return re.Kind == KindNetwork || re.Kind == KindTimeout
}
