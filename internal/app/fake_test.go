package app

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dshills/xiterm/internal/config"
	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer/backend"
)

const testView protocol.ViewID = "view-id-1"

// fakeEngine records every call as a short string.
type fakeEngine struct {
	mu    sync.Mutex
	calls []string

	notes   chan protocol.Inbound
	errc    chan error
	openErr error

	// backend is checked at shutdown to verify teardown order.
	backend          *backend.NullBackend
	shutdownCalled   bool
	backendWasClosed bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		notes: make(chan protocol.Inbound, 16),
		errc:  make(chan error, 1),
	}
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeEngine) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeEngine) Notifications() <-chan protocol.Inbound { return f.notes }
func (f *fakeEngine) Err() <-chan error                      { return f.errc }

func (f *fakeEngine) ClientStarted(configDir, extrasDir string) error {
	f.record("client_started " + configDir)
	return nil
}

func (f *fakeEngine) OpenView(_ context.Context, path string) (protocol.ViewID, error) {
	f.record("new_view " + path)
	if f.openErr != nil {
		return "", f.openErr
	}
	return testView, nil
}

func (f *fakeEngine) Edit(view protocol.ViewID, e protocol.Edit) error {
	call := e.Method
	if e.Params != nil {
		call += " " + string(e.Params)
	}
	f.record(call)
	return nil
}

func (f *fakeEngine) SetTheme(name string) error {
	f.record("set_theme " + name)
	return nil
}

func (f *fakeEngine) Shutdown(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdownCalled = true
	if f.backend != nil {
		f.backendWasClosed = f.backend.Closed()
	}
	return nil
}

// fakeSource is a ConfigSource driven by the test.
type fakeSource struct {
	updates chan config.Config
	errs    chan error
}

func newFakeSource() *fakeSource {
	return &fakeSource{updates: make(chan config.Config, 1), errs: make(chan error, 1)}
}

func (s *fakeSource) Updates() <-chan config.Config { return s.updates }
func (s *fakeSource) Errors() <-chan error          { return s.errs }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ConfigDir = "/xi"
	cfg.ShutdownTimeout.Duration = time.Second
	return cfg
}

// newTestApp starts an application on a 20x6 null terminal without running
// its event loop, and forgets the startup calls.
func newTestApp(t *testing.T, cfg config.Config, opts ...Option) (*Application, *fakeEngine, *backend.NullBackend) {
	t.Helper()
	eng := newFakeEngine()
	nb := backend.NewNullBackend(20, 6)
	if err := nb.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	app := New(eng, nb, cfg, opts...)
	if err := app.start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	eng.reset()
	return app, eng, nb
}

func text(s string) *string {
	return &s
}

func plainUpdate(texts ...string) *protocol.UpdateNotification {
	lines := make([]protocol.Line, len(texts))
	for i, s := range texts {
		lines[i] = protocol.Line{Text: text(s)}
	}
	return &protocol.UpdateNotification{
		ViewID: testView,
		Update: protocol.Update{Ops: []protocol.Op{{Kind: protocol.OpIns, N: uint64(len(lines)), Lines: lines}}},
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func assertCalls(t *testing.T, eng *fakeEngine, want ...string) {
	t.Helper()
	got := eng.Calls()
	if !slices.Equal(got, want) {
		t.Errorf("calls = %q, want %q", got, want)
	}
	eng.reset()
}
