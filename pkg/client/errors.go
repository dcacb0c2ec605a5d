package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
)

// ErrorKind classifies a failed request.
type ErrorKind int

// ErrorKind values.
const (
	KindConnection ErrorKind = iota
	KindTimeout
	KindMalformedResponse
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindMalformedResponse:
		return "malformed-response"
	default:
		return "unknown"
	}
}

// RequestError is the uniform failure type returned by Client.Do.
type RequestError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("request to %s timed out", e.URL)
	case KindMalformedResponse:
		return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Classify maps a transport error to its kind. Deadline and net timeouts are
// timeouts, truncated reads are malformed responses, everything else is a
// connection failure.
func Classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return KindMalformedResponse
	}
	return KindConnection
}
