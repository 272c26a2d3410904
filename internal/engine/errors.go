package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Standard errors returned by the engine client.
var (
	// ErrClosed indicates the client has been shut down.
	ErrClosed = errors.New("engine client closed")

	// ErrEngineExited indicates the engine closed its output stream.
	ErrEngineExited = errors.New("engine exited")

	// ErrUnknownResponseID indicates a response for an id that was never
	// sent or was already answered.
	ErrUnknownResponseID = errors.New("response for unknown request id")

	// ErrUnexpectedRequest indicates the engine sent a request. The engine
	// never initiates calls, so these are logged and not acted upon.
	ErrUnexpectedRequest = errors.New("unexpected request from engine")
)

// Error is a failure reported by the engine for one request.
type Error struct {
	Method string
	Value  json.RawMessage
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("engine error for %s: %s", e.Method, e.Value)
}

// ProtocolError is a broken invariant of the wire protocol. The stream can
// no longer be trusted once one is reported.
type ProtocolError struct {
	ID  uint64
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation (id %d): %v", e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}
