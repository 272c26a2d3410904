package protocol

import (
	"errors"
	"fmt"
)

// Decoding errors.
var (
	// ErrInvalidJSON indicates the line is not a JSON object.
	ErrInvalidJSON = errors.New("not a json object")

	// ErrUnknownShape indicates the object is neither a request, a response
	// nor a notification.
	ErrUnknownShape = errors.New("message has neither id nor method")

	// ErrAmbiguousResponse indicates a response carrying both or neither of
	// "result" and "error".
	ErrAmbiguousResponse = errors.New("response must carry exactly one of result or error")

	// ErrUnknownMethod indicates a notification method this client does not
	// recognize.
	ErrUnknownMethod = errors.New("unknown notification method")

	// ErrMissingLines indicates an ins or update op without a lines array.
	ErrMissingLines = errors.New("op requires lines")

	// ErrMissingText indicates an inserted line without text.
	ErrMissingText = errors.New("inserted line has no text")

	// ErrLineCount indicates an op whose n disagrees with its lines.
	ErrLineCount = errors.New("op line count mismatch")
)

// DecodeError describes a line that could not be decoded.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	line := e.Line
	if len(line) > 120 {
		line = line[:120] + "..."
	}
	return fmt.Sprintf("decode %q: %v", line, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
