package editor

import "errors"

var (
	// ErrLayoutFull is returned when a view is added to a layout that
	// already holds one.
	ErrLayoutFull = errors.New("layout holds a single view")

	// ErrUnknownView indicates a view id the layout does not hold.
	ErrUnknownView = errors.New("unknown view")

	// ErrUnknownCommand indicates a command line entry that is not a
	// command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingArgument indicates a command entered without its argument.
	ErrMissingArgument = errors.New("missing argument")
)
