package app

import "fmt"

// Mode is the editing mode, which decides what keys do.
type Mode int

const (
	// ModeNormal maps keys to cursor motion and mode switches.
	ModeNormal Mode = iota
	// ModeInsert sends typed text to the engine.
	ModeInsert
	// ModeCommand edits the command line.
	ModeCommand
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	case ModeCommand:
		return "command"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
