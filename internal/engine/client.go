package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/logger"
	"github.com/dshills/xiterm/internal/process"
	"github.com/dshills/xiterm/internal/protocol"
)

// Client is the editor side of the engine connection.
type Client struct {
	reader *bufio.Reader
	writer io.WriteCloser
	diag   io.Reader
	proc   *process.Process
	log    *zap.Logger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan protocol.Response

	writeMu sync.Mutex

	notify *queue
	errc   chan error

	started    atomic.Bool
	closing    atomic.Bool
	readDone   chan struct{}
	diagDone   chan struct{}
	shutdown   sync.Once
	shutdownEr error
}

// NewClient creates a client reading engine output from r and writing to w.
// diag is the engine's diagnostic stream and may be nil. Call Start to begin
// reading.
func NewClient(r io.Reader, w io.WriteCloser, diag io.Reader, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		reader:   bufio.NewReaderSize(r, 64*1024),
		writer:   w,
		diag:     diag,
		log:      log,
		pending:  make(map[uint64]chan protocol.Response),
		notify:   newQueue(),
		errc:     make(chan error, 1),
		readDone: make(chan struct{}),
		diagDone: make(chan struct{}),
	}
}

// Spawn starts the engine executable at path and returns a started client.
func Spawn(path string, log *zap.Logger, args ...string) (*Client, error) {
	proc, err := process.Start("engine", path, args...)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("process", proc.ID))
	log.Info("engine started", zap.String("path", path), zap.Int("pid", proc.PID()))

	c := NewClient(proc.Stdout, proc.Stdin, proc.Stderr, log)
	c.proc = proc
	c.Start()
	return c, nil
}

// Start launches the reader goroutines. It is a no-op after the first call.
func (c *Client) Start() {
	if c.started.Swap(true) {
		return
	}
	go c.readLoop()
	if c.diag != nil {
		go c.diagLoop()
	} else {
		close(c.diagDone)
	}
}

// Notifications returns the channel of decoded engine notifications. It is
// closed after the engine's output ends and every queued notification has
// been received.
func (c *Client) Notifications() <-chan protocol.Inbound {
	return c.notify.out
}

// Err delivers the first fatal transport error.
func (c *Client) Err() <-chan error {
	return c.errc
}

// Notify sends a notification. It returns once the line has been written.
func (c *Client) Notify(method string, params any) error {
	line, err := protocol.EncodeNotification(method, params)
	if err != nil {
		return err
	}
	return c.write(line)
}

// Request sends a request and returns a handle for its response.
func (c *Client) Request(method string, params any) (*Call, error) {
	if c.closing.Load() {
		return nil, ErrClosed
	}

	ch := make(chan protocol.Response, 1)

	c.mu.Lock()
	id := c.nextID
	for {
		if _, busy := c.pending[id]; !busy {
			break
		}
		id++
	}
	c.pending[id] = ch
	c.nextID = id + 1
	c.mu.Unlock()

	line, err := protocol.EncodeRequest(id, method, params)
	if err == nil {
		err = c.write(line)
	}
	if err != nil {
		c.forget(id)
		return nil, err
	}

	return &Call{ID: id, Method: method, done: ch, stopped: c.readDone}, nil
}

// forget drops a pending entry whose request never made it onto the wire.
func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Pending returns the number of requests awaiting a response.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Client) write(line []byte) error {
	if c.closing.Load() {
		return ErrClosed
	}
	logger.Trace(c.log, "->", zap.ByteString("line", line))

	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.writer.Write(buf); err != nil {
		return fmt.Errorf("write to engine: %w", err)
	}
	return nil
}

// readLoop reads engine output until EOF or a fatal error.
func (c *Client) readLoop() {
	defer close(c.readDone)
	defer c.notify.close()

	for {
		line, err := c.reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if !c.dispatch(line) {
				return
			}
		}
		if err != nil {
			if c.closing.Load() {
				return
			}
			if errors.Is(err, io.EOF) {
				c.fail(ErrEngineExited)
			} else {
				c.fail(fmt.Errorf("read engine output: %w", err))
			}
			return
		}
	}
}

// dispatch routes one line. It returns false when reading must stop.
func (c *Client) dispatch(line []byte) bool {
	logger.Trace(c.log, "<-", zap.ByteString("line", bytes.TrimSpace(line)))

	msg, err := protocol.Decode(line)
	if err != nil {
		if errors.Is(err, protocol.ErrAmbiguousResponse) {
			c.fail(&ProtocolError{Err: err})
			return false
		}
		c.log.Error("dropping malformed line", zap.Error(err))
		return true
	}

	switch m := msg.(type) {
	case *protocol.Response:
		return c.handleResponse(m)
	case *protocol.Notification:
		c.handleNotification(m)
	case *protocol.Request:
		c.log.Error("ignoring engine request",
			zap.Uint64("id", m.ID),
			zap.String("method", m.Method),
			zap.Error(ErrUnexpectedRequest))
	}
	return true
}

// handleResponse completes the pending call for resp.
func (c *Client) handleResponse(resp *protocol.Response) bool {
	c.mu.Lock()
	ch, ok := c.pending[resp.ID]
	if ok {
		delete(c.pending, resp.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.fail(&ProtocolError{ID: resp.ID, Err: ErrUnknownResponseID})
		return false
	}
	ch <- *resp
	return true
}

func (c *Client) handleNotification(n *protocol.Notification) {
	in, err := protocol.DecodeNotification(n)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownMethod) {
			c.log.Warn("unhandled notification", zap.String("method", n.Method))
		} else {
			c.log.Error("dropping notification", zap.String("method", n.Method), zap.Error(err))
		}
		return
	}
	c.notify.push(in)
}

// diagLoop copies the engine's diagnostic stream to the log.
func (c *Client) diagLoop() {
	defer close(c.diagDone)
	scanner := bufio.NewScanner(c.diag)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for scanner.Scan() {
		c.log.Info("engine stderr", zap.String("line", scanner.Text()))
	}
	if err := scanner.Err(); err != nil && !c.closing.Load() {
		c.log.Warn("engine stderr", zap.Error(err))
	}
}

// fail reports a fatal error. Only the first one is kept.
func (c *Client) fail(err error) {
	c.log.Error("engine connection failed", zap.Error(err))
	select {
	case c.errc <- err:
	default:
	}
}

// Shutdown closes the engine's input, which tells it to exit, then waits for
// both output streams to end and for the process to exit. If ctx ends first
// the process is killed. Later calls return the first result.
func (c *Client) Shutdown(ctx context.Context) error {
	c.shutdown.Do(func() {
		c.shutdownEr = c.doShutdown(ctx)
	})
	return c.shutdownEr
}

func (c *Client) doShutdown(ctx context.Context) error {
	c.closing.Store(true)
	if n := c.Pending(); n > 0 {
		c.log.Debug("shutting down with requests in flight", zap.Int("pending", n))
	}

	var errs []error
	c.writeMu.Lock()
	if err := c.writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close engine input: %w", err))
	}
	c.writeMu.Unlock()

	if c.started.Load() {
		drained := make(chan struct{})
		go func() {
			<-c.readDone
			<-c.diagDone
			close(drained)
		}()

		select {
		case <-drained:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			if c.proc != nil {
				c.log.Warn("engine did not exit in time, killing it")
				if err := c.proc.Kill(); err != nil {
					errs = append(errs, fmt.Errorf("kill engine: %w", err))
				}
				<-drained
			}
		}
	}
	c.notify.stop()

	if c.proc != nil {
		err := c.proc.Wait()
		c.log.Info("engine exited",
			zap.Stringer("state", c.proc.State()),
			zap.Int("code", c.proc.ExitCode()),
			zap.Duration("runtime", c.proc.Runtime()),
			zap.Error(err))
		if err != nil {
			errs = append(errs, fmt.Errorf("wait for engine: %w", err))
		}
	}

	return errors.Join(errs...)
}
