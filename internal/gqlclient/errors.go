package gqlclient

import "fmt"

// TransportError means no usable response was obtained from the service:
// connection failures, timeouts, or a body that could not be decoded.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError means the service responded with a structured failure.
// Message is human-readable; Code carries the machine code from the
// response extensions when the service provides one.
type ProtocolError struct {
	Message string
	Code    string
}

func (e *ProtocolError) Error() string {
	return e.Message
}
