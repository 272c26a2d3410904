package backend

import (
	"bytes"
	"io"
	"sync"
)

// NullBackend is an in-memory backend for tests. Output is collected in a
// buffer and events are fed with PostEvent or Resize.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	out           bytes.Buffer
	initialized   bool

	events   chan Event
	closed   chan struct{}
	shutdown sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		closed: make(chan struct{}),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.shutdown.Do(func() {
		close(b.closed)
	})
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.closed:
		return Event{Type: EventClosed}
	}
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

func (b *NullBackend) Writer() io.Writer {
	return nullWriter{b}
}

// Initialized reports whether Init has been called.
func (b *NullBackend) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Closed reports whether Shutdown has been called.
func (b *NullBackend) Closed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

// Output returns everything written so far.
func (b *NullBackend) Output() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.String()
}

// Resize simulates a terminal resize.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

type nullWriter struct {
	b *NullBackend
}

func (w nullWriter) Write(p []byte) (int, error) {
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	return w.b.out.Write(p)
}
