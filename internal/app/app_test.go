package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer/backend"
)

func TestStartSequence(t *testing.T) {
	eng := newFakeEngine()
	nb := backend.NewNullBackend(20, 6)
	cfg := testConfig()
	cfg.Theme = "base16"
	app := New(eng, nb, cfg, WithFile("main.go"))

	if err := app.start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	assertCalls(t, eng,
		"client_started /xi",
		"set_theme base16",
		"new_view main.go",
		"scroll [0,5]",
	)

	// The empty view is drawn as filler rows.
	if got := app.screen.Text(0); !strings.HasPrefix(got, "~ ") {
		t.Errorf("row 0 = %q", got)
	}
	if nb.Output() == "" {
		t.Error("nothing flushed")
	}
}

func TestUpdateRenders(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	if err := app.handleNotification(plainUpdate("hello\n", "world")); err != nil {
		t.Fatalf("handleNotification: %v", err)
	}
	if err := app.redraw(); err != nil {
		t.Fatalf("redraw: %v", err)
	}

	tests := []struct {
		row  int
		want string
	}{
		{0, "hello"},
		{1, "world"},
		{2, "~"},
		{4, "~"},
		{5, ""},
	}
	for _, tt := range tests {
		if got := strings.TrimRight(app.screen.Text(tt.row), " "); got != tt.want {
			t.Errorf("row %d = %q, want %q", tt.row, got, tt.want)
		}
	}
}

func TestUpdateForUnknownView(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	n := plainUpdate("x")
	n.ViewID = "view-id-9"
	if err := app.handleNotification(n); err != nil {
		t.Fatalf("handleNotification: %v", err)
	}
	if app.active.BufferLen() != 0 {
		t.Error("update applied to the wrong view")
	}
}

func TestMovementPolicy(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())
	if err := app.handleNotification(plainUpdate("ab\n", "c")); err != nil {
		t.Fatal(err)
	}

	key := func(r rune) {
		t.Helper()
		if err := app.handleEvent(backend.RuneEvent(r)); err != nil {
			t.Fatalf("key %q: %v", r, err)
		}
	}
	scrollTo := func(line, col uint64) {
		t.Helper()
		if err := app.handleNotification(&protocol.ScrollTo{ViewID: testView, Line: line, Col: col}); err != nil {
			t.Fatal(err)
		}
	}

	// Top left corner: no up, no left.
	key('k')
	key('h')
	assertCalls(t, eng)

	key('j')
	key('l')
	assertCalls(t, eng, "move_down", "move_right")

	// Last line: no down.
	scrollTo(1, 0)
	key('j')
	assertCalls(t, eng)
	key('k')
	assertCalls(t, eng, "move_up")

	// On the terminator: no right.
	scrollTo(0, 2)
	key('l')
	assertCalls(t, eng)
	key('h')
	assertCalls(t, eng, "move_left")
}

func TestArrowKeysFollowPolicy(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())
	if err := app.handleNotification(plainUpdate("ab\n", "c")); err != nil {
		t.Fatal(err)
	}

	for _, k := range []backend.Key{backend.KeyUp, backend.KeyLeft, backend.KeyDown, backend.KeyRight} {
		if err := app.handleEvent(backend.KeyEvent(k)); err != nil {
			t.Fatal(err)
		}
	}
	assertCalls(t, eng, "move_down", "move_right")
}

func TestWordMotion(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	for _, r := range "wb" {
		if err := app.handleEvent(backend.RuneEvent(r)); err != nil {
			t.Fatal(err)
		}
	}
	assertCalls(t, eng, "move_word_right", "move_right", "move_word_left")
}

func TestWordRightAtEndOfLine(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())
	if err := app.handleNotification(plainUpdate("ab\n")); err != nil {
		t.Fatal(err)
	}
	if err := app.handleNotification(&protocol.ScrollTo{ViewID: testView, Line: 0, Col: 2}); err != nil {
		t.Fatal(err)
	}
	eng.reset()

	if err := app.handleEvent(backend.RuneEvent('w')); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, eng, "move_word_right")
}

func TestInsertMode(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	events := []backend.Event{
		backend.RuneEvent('i'),
		backend.RuneEvent('x'),
		backend.KeyEvent(backend.KeyEnter),
		backend.KeyEvent(backend.KeyTab),
		backend.KeyEvent(backend.KeyBackspace),
	}
	for _, ev := range events {
		if err := app.handleEvent(ev); err != nil {
			t.Fatal(err)
		}
	}
	if app.Mode() != ModeInsert {
		t.Fatalf("mode = %v, want insert", app.Mode())
	}
	assertCalls(t, eng,
		`insert {"chars":"x"}`,
		`insert {"chars":"\n"}`,
		`insert {"chars":"\t"}`,
		"delete_backward",
	)

	if err := app.handleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	if app.Mode() != ModeNormal {
		t.Errorf("mode = %v, want normal", app.Mode())
	}
}

func typeKeys(t *testing.T, app *Application, s string) error {
	t.Helper()
	for _, r := range s {
		if err := app.handleEvent(backend.RuneEvent(r)); err != nil {
			return err
		}
	}
	return nil
}

func TestCommandLineEcho(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	if err := typeKeys(t, app, ":them"); err != nil {
		t.Fatal(err)
	}
	if err := app.redraw(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimRight(app.screen.Text(5), " "); got != ":them" {
		t.Errorf("command row = %q", got)
	}

	if err := app.handleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	if err := app.redraw(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(app.screen.Text(5)); got != "" {
		t.Errorf("command row after cancel = %q", got)
	}
}

func TestCommandTheme(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	if err := typeKeys(t, app, ":theme Solarized"); err != nil {
		t.Fatal(err)
	}
	if err := app.handleEvent(backend.KeyEvent(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, eng, "set_theme Solarized")
	if app.Mode() != ModeNormal {
		t.Errorf("mode = %v, want normal", app.Mode())
	}
}

func TestCommandQuit(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	if err := typeKeys(t, app, ":q"); err != nil {
		t.Fatal(err)
	}
	err := app.handleEvent(backend.KeyEvent(backend.KeyEnter))
	if !errors.Is(err, ErrQuit) {
		t.Errorf("Enter = %v, want ErrQuit", err)
	}
}

func TestCommandUnknown(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	if err := typeKeys(t, app, ":frobnicate"); err != nil {
		t.Fatal(err)
	}
	if err := app.handleEvent(backend.KeyEvent(backend.KeyEnter)); err != nil {
		t.Errorf("Enter = %v, want nil", err)
	}
	assertCalls(t, eng)
}

func TestCommandBackspace(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	if err := typeKeys(t, app, ":a"); err != nil {
		t.Fatal(err)
	}
	bs := backend.KeyEvent(backend.KeyBackspace)
	if err := app.handleEvent(bs); err != nil {
		t.Fatal(err)
	}
	if app.Mode() != ModeCommand || app.cmdline.Text() != "" {
		t.Fatalf("mode = %v, text = %q", app.Mode(), app.cmdline.Text())
	}
	// Backspace on an empty line leaves command mode.
	if err := app.handleEvent(bs); err != nil {
		t.Fatal(err)
	}
	if app.Mode() != ModeNormal {
		t.Errorf("mode = %v, want normal", app.Mode())
	}
}

func TestQuitKey(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())
	if err := app.handleEvent(backend.RuneEvent('q')); err != nil {
		t.Errorf("q without quit key = %v", err)
	}

	cfg := testConfig()
	cfg.QuitKey = "q"
	app, _, _ = newTestApp(t, cfg)
	if err := app.handleEvent(backend.RuneEvent('q')); !errors.Is(err, ErrQuit) {
		t.Errorf("q = %v, want ErrQuit", err)
	}
}

func TestScrollToFollowsCursor(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "line\n"
	}
	if err := app.handleNotification(plainUpdate(lines...)); err != nil {
		t.Fatal(err)
	}

	scroll := func(line uint64) {
		t.Helper()
		if err := app.handleNotification(&protocol.ScrollTo{ViewID: testView, Line: line}); err != nil {
			t.Fatal(err)
		}
	}

	scroll(7)
	assertCalls(t, eng, "scroll [3,8]")
	scroll(4)
	assertCalls(t, eng)
	scroll(0)
	assertCalls(t, eng, "scroll [0,5]")
}

func TestResize(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	if err := app.handleEvent(backend.Event{Type: backend.EventResize, Width: 30, Height: 11}); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, eng, "scroll [0,10]")

	if w, h := app.screen.Size(); w != 30 || h != 11 {
		t.Errorf("screen = %dx%d", w, h)
	}
	if b := app.active.Bounds(); b.Height != 10 || b.Width != 30 {
		t.Errorf("window bounds = %+v", b)
	}
}

func TestDefStyle(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	fg := uint32(0xff102030)
	if err := app.handleNotification(&protocol.DefStyle{ID: 4, FgColor: &fg}); err != nil {
		t.Fatal(err)
	}
	st, ok := app.styles.Get(4)
	if !ok || st.Fg == nil || st.Fg.R != 0x10 {
		t.Errorf("style 4 = %+v, %v", st, ok)
	}
}

func TestDefStyleOutOfRange(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())
	before := app.styles.Len()

	if err := app.handleNotification(&protocol.DefStyle{ID: 1 << 62}); err != nil {
		t.Fatalf("handleNotification() error = %v", err)
	}
	if app.styles.Len() != before {
		t.Errorf("Len() = %d, want %d", app.styles.Len(), before)
	}
}

func TestConfigChangedTheme(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	changed := func(changes string) {
		t.Helper()
		n := &protocol.ConfigChanged{ViewID: testView, Changes: protocol.ConfigChanges(changes)}
		if err := app.handleNotification(n); err != nil {
			t.Fatal(err)
		}
	}

	changed(`{"tab_size":4}`)
	assertCalls(t, eng)

	changed(`{"theme":7}`)
	assertCalls(t, eng)

	changed(`{"theme":"Solarized"}`)
	assertCalls(t, eng, "set_theme Solarized")
}

func TestThemeChanged(t *testing.T) {
	app, _, nb := newTestApp(t, testConfig())

	n := &protocol.ThemeChanged{
		Name:  "dark",
		Theme: protocol.ThemeSettings{Foreground: &protocol.Color{R: 1, G: 2, B: 3}},
	}
	if err := app.handleNotification(n); err != nil {
		t.Fatal(err)
	}
	if err := app.redraw(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(nb.Output(), "\x1b[38;2;1;2;3m") {
		t.Errorf("theme foreground not emitted: %q", nb.Output())
	}
}

func TestAvailableThemes(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	if err := app.handleNotification(&protocol.AvailableThemes{Themes: []string{"a", "b"}}); err != nil {
		t.Fatal(err)
	}
	// Unlisted themes are still requested; the engine has the last word.
	if err := app.setTheme("c"); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, eng, "set_theme c")
}

func TestApplyConfig(t *testing.T) {
	app, eng, _ := newTestApp(t, testConfig())

	cfg := testConfig()
	cfg.Theme = "light"
	cfg.QuitKey = "q"
	if err := app.applyConfig(cfg); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, eng, "set_theme light")

	// Unchanged theme is not re-sent.
	if err := app.applyConfig(cfg); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, eng)

	if err := app.handleEvent(backend.RuneEvent('q')); !errors.Is(err, ErrQuit) {
		t.Errorf("quit key not applied: %v", err)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		m    Mode
		want string
	}{
		{ModeNormal, "normal"},
		{ModeInsert, "insert"},
		{ModeCommand, "command"},
		{Mode(9), "Mode(9)"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.m), got, tt.want)
		}
	}
}
