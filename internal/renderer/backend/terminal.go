package backend

import (
	"io"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend on a tcell screen. tcell owns raw mode, the
// alternate screen and input decoding; drawing bypasses its cell buffer and
// goes straight to the tty.
type Terminal struct {
	screen tcell.Screen
	out    io.Writer
	mu     sync.Mutex
	fini   sync.Once
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminal(screen, nil), nil
}

func newTerminal(screen tcell.Screen, out io.Writer) *Terminal {
	return &Terminal{screen: screen, out: out}
}

// Init enters raw mode on the alternate screen with the cursor hidden.
// Output goes to the tty unless a writer was supplied.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	t.screen.Clear()
	t.screen.Show()

	if t.out == nil {
		if tty, ok := t.screen.Tty(); ok {
			t.out = tty
		} else {
			t.out = os.Stdout
		}
	}
	return nil
}

// Shutdown restores the terminal. Calls after the first do nothing.
func (t *Terminal) Shutdown() {
	t.fini.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.screen.Fini()
	})
}

// Size returns the terminal width and height in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// PollEvent blocks until the next input or resize event. It returns an
// EventClosed event once the screen is shut down.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventClosed}
	}
	return convertEvent(ev)
}

// PostEvent queues a key event as if it had been typed. Other events are
// dropped, as is a key event when the queue is full.
func (t *Terminal) PostEvent(event Event) {
	// Only key events can be posted.
	if event.Type == EventKey {
		tcellEv := tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod))
		_ = t.screen.PostEvent(tcellEv) // best-effort; event queue may be full
	}
}

// Writer returns the stream escape sequences are written to.
func (t *Terminal) Writer() io.Writer {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.out == nil {
		return os.Stdout
	}
	return t.out
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	default:
		return Event{Type: EventNone}
	}
}

// keyTable pairs our keys with tcell's. The first entry for a Key is the
// one posted back to tcell.
var keyTable = []struct {
	key   Key
	tcell tcell.Key
}{
	{KeyRune, tcell.KeyRune},
	{KeyEscape, tcell.KeyEscape},
	{KeyEnter, tcell.KeyEnter},
	{KeyTab, tcell.KeyTab},
	{KeyBackspace, tcell.KeyBackspace2},
	{KeyBackspace, tcell.KeyBackspace},
	{KeyDelete, tcell.KeyDelete},
	{KeyHome, tcell.KeyHome},
	{KeyEnd, tcell.KeyEnd},
	{KeyPageUp, tcell.KeyPgUp},
	{KeyPageDown, tcell.KeyPgDn},
	{KeyUp, tcell.KeyUp},
	{KeyDown, tcell.KeyDown},
	{KeyLeft, tcell.KeyLeft},
	{KeyRight, tcell.KeyRight},
	{KeyCtrlC, tcell.KeyCtrlC},
}

var modTable = []struct {
	mod   ModMask
	tcell tcell.ModMask
}{
	{ModShift, tcell.ModShift},
	{ModCtrl, tcell.ModCtrl},
	{ModAlt, tcell.ModAlt},
	{ModMeta, tcell.ModMeta},
}

func convertKey(k tcell.Key) Key {
	for _, e := range keyTable {
		if e.tcell == k {
			return e.key
		}
	}
	return KeyNone
}

func convertToTcellKey(k Key) tcell.Key {
	for _, e := range keyTable {
		if e.key == k {
			return e.tcell
		}
	}
	return tcell.KeyRune
}

func convertMod(m tcell.ModMask) ModMask {
	var out ModMask
	for _, e := range modTable {
		if m&e.tcell != 0 {
			out |= e.mod
		}
	}
	return out
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var out tcell.ModMask
	for _, e := range modTable {
		if m&e.mod != 0 {
			out |= e.tcell
		}
	}
	return out
}
