package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dshills/xiterm/internal/protocol"
)

// Call is an in-flight request.
type Call struct {
	ID     uint64
	Method string

	done    <-chan protocol.Response
	stopped <-chan struct{}
}

// Wait blocks until the response arrives and returns its result. There is
// no timeout: if the engine never answers while it keeps running, Wait never
// returns. Wait fails with ErrEngineExited once the engine's output has
// ended without an answer.
func (c *Call) Wait() (json.RawMessage, error) {
	return c.WaitContext(context.Background())
}

// WaitContext is Wait with cancellation. Cancelling does not withdraw the
// request; a later response is still consumed by the client.
func (c *Call) WaitContext(ctx context.Context) (json.RawMessage, error) {
	select {
	case resp := <-c.done:
		return c.result(resp)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.stopped:
		// The response may have been delivered just before the reader stopped.
		select {
		case resp := <-c.done:
			return c.result(resp)
		default:
			return nil, fmt.Errorf("%s: %w", c.Method, ErrEngineExited)
		}
	}
}

// Result waits for the response and unmarshals it into v.
func (c *Call) Result(ctx context.Context, v any) error {
	raw, err := c.WaitContext(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s result: %w", c.Method, err)
	}
	return nil
}

func (c *Call) result(resp protocol.Response) (json.RawMessage, error) {
	if resp.IsError() {
		return nil, &Error{Method: c.Method, Value: resp.Error}
	}
	return resp.Result, nil
}
