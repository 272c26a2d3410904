package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Message is one of *Request, *Response or *Notification.
type Message interface {
	message()
}

// Request is a call expecting a correlated Response.
type Request struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers the Request with the same ID. Exactly one of Result and
// Error is set after a successful Decode.
type Response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// IsError reports whether the response carries an error value.
func (r *Response) IsError() bool {
	return r.Error != nil
}

// Notification is a one-way message.
type Notification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

func (*Request) message()      {}
func (*Response) message()     {}
func (*Notification) message() {}

// Decode classifies and decodes a single line.
//
// Shapes are told apart by key presence: an "id" together with a "method"
// is a request, an "id" alone is a response, a "method" alone is a
// notification.
func Decode(line []byte) (Message, error) {
	line = bytes.TrimSpace(line)
	if !gjson.ValidBytes(line) || !gjson.ParseBytes(line).IsObject() {
		return nil, &DecodeError{Line: string(line), Err: ErrInvalidJSON}
	}

	keys := gjson.GetManyBytes(line, "id", "method", "result", "error")
	id, method, result, rerr := keys[0], keys[1], keys[2], keys[3]

	var msg Message
	switch {
	case id.Exists() && method.Exists():
		msg = &Request{}
	case id.Exists():
		if result.Exists() == rerr.Exists() {
			return nil, &DecodeError{Line: string(line), Err: ErrAmbiguousResponse}
		}
		msg = &Response{}
	case method.Exists():
		msg = &Notification{}
	default:
		return nil, &DecodeError{Line: string(line), Err: ErrUnknownShape}
	}

	if err := json.Unmarshal(line, msg); err != nil {
		return nil, &DecodeError{Line: string(line), Err: err}
	}

	// A literal null result is still a result.
	if resp, ok := msg.(*Response); ok && result.Exists() && resp.Result == nil {
		resp.Result = json.RawMessage(result.Raw)
	}
	return msg, nil
}

// EncodeRequest serializes a request line (without the trailing newline).
func EncodeRequest(id uint64, method string, params any) ([]byte, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("encode %s params: %w", method, err)
	}
	return json.Marshal(&Request{ID: id, Method: method, Params: raw})
}

// EncodeNotification serializes a notification line (without the trailing
// newline). A nil params value omits the "params" key.
func EncodeNotification(method string, params any) ([]byte, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("encode %s params: %w", method, err)
	}
	return json.Marshal(&Notification{Method: method, Params: raw})
}

func marshalParams(params any) (json.RawMessage, error) {
	switch p := params.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return p, nil
	default:
		return json.Marshal(p)
	}
}
