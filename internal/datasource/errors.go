package datasource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind classifies a remote call failure
type ErrorKind int

const (
	// KindConnection covers transport and TLS handshake failures
	KindConnection ErrorKind = iota
	// KindTimeout covers calls that exceeded their deadline
	KindTimeout
	// KindServer covers calls the server answered with an error
	KindServer
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the failure of one remote call
type Error struct {
	Kind    ErrorKind
	Op      string // Remote operation, e.g. "list instances"
	Code    int    // Server status code, KindServer only
	Message string // Server message, KindServer only
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch e.Kind {
	case KindServer:
		b.WriteString(fmt.Sprintf("server error %d", e.Code))
		if e.Message != "" {
			b.WriteString(": ")
			b.WriteString(e.Message)
		}
	case KindTimeout:
		b.WriteString("timed out")
	default:
		b.WriteString("connection failed")
	}
	if e.Cause != nil && e.Kind != KindServer {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewServerError builds a KindServer error
func NewServerError(op string, code int, message string) *Error {
	return &Error{Kind: KindServer, Op: op, Code: code, Message: message}
}

// IsKind checks if an error chain contains an Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// KindOf returns the kind of the first Error in the chain
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return 0, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// classify turns a transport error into an Error. Errors that already carry a kind pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Op: op, Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Op: op, Cause: err}
	}
	return &Error{Kind: KindConnection, Op: op, Cause: err}
}
