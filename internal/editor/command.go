package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/xiterm/internal/renderer"
	"github.com/dshills/xiterm/internal/renderer/core"
)

// CommandLine is the ':' prompt on the bottom row.
type CommandLine struct {
	buf []rune
}

// NewCommandLine returns an empty command line.
func NewCommandLine() *CommandLine {
	return &CommandLine{}
}

// Insert appends r.
func (c *CommandLine) Insert(r rune) {
	c.buf = append(c.buf, r)
}

// Delete removes the last character, if any.
func (c *CommandLine) Delete() {
	if len(c.buf) > 0 {
		c.buf = c.buf[:len(c.buf)-1]
	}
}

// Text returns the entry typed so far.
func (c *CommandLine) Text() string {
	return string(c.buf)
}

// Reset clears the entry.
func (c *CommandLine) Reset() {
	c.buf = c.buf[:0]
}

// Render draws the prompt and the entry in bounds, with a cursor after the
// last character.
func (c *CommandLine) Render(bounds core.Rect, s *renderer.Screen) {
	if bounds.IsEmpty() {
		return
	}
	line := ":" + string(c.buf)
	pos := core.NewScreenPos(bounds.Top, bounds.Left)
	s.WriteStr(pos, strings.Repeat(" ", bounds.Width))
	s.WriteStr(pos, line)
	s.DrawCursor(core.NewScreenPos(bounds.Top, bounds.Left+runewidth.StringWidth(line)))
}

// CommandKind identifies a parsed command.
type CommandKind int

const (
	// CommandQuit is "q" or "quit". Any argument is ignored.
	CommandQuit CommandKind = iota
	// CommandTheme is "theme" followed by a theme name.
	CommandTheme
)

// Command is a parsed command line entry.
type Command struct {
	Kind CommandKind
	Arg  string
}

// ParseCommand parses a command line entry such as "q" or "theme Solarized".
func ParseCommand(text string) (Command, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit":
		return Command{Kind: CommandQuit}, nil
	case "theme":
		if arg == "" {
			return Command{}, fmt.Errorf("theme: %w", ErrMissingArgument)
		}
		return Command{Kind: CommandTheme, Arg: arg}, nil
	default:
		return Command{}, fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
}
