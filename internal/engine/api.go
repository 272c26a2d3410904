package engine

import (
	"context"

	"github.com/dshills/xiterm/internal/protocol"
)

// ClientStarted announces the client. Empty directories are omitted.
func (c *Client) ClientStarted(configDir, extrasDir string) error {
	return c.Notify(protocol.MethodClientStarted, protocol.ClientStartedParams{
		ConfigDir:       configDir,
		ClientExtrasDir: extrasDir,
	})
}

// Edit sends one edit operation for view.
func (c *Client) Edit(view protocol.ViewID, e protocol.Edit) error {
	params, err := protocol.EncodeEdit(view, e)
	if err != nil {
		return err
	}
	return c.Notify(protocol.MethodEdit, params)
}

// Scroll tells the engine that lines [first, last) of view are visible.
func (c *Client) Scroll(view protocol.ViewID, first, last uint64) error {
	return c.Edit(view, protocol.Scroll(first, last))
}

// Insert inserts chars at the cursors of view.
func (c *Client) Insert(view protocol.ViewID, chars string) error {
	return c.Edit(view, protocol.Insert(chars))
}

// DeleteBackward deletes the character before each cursor of view.
func (c *Client) DeleteBackward(view protocol.ViewID) error {
	return c.Edit(view, protocol.DeleteBackward())
}

// MoveUp moves the cursors of view up one line.
func (c *Client) MoveUp(view protocol.ViewID) error {
	return c.Edit(view, protocol.MoveUp())
}

// MoveDown moves the cursors of view down one line.
func (c *Client) MoveDown(view protocol.ViewID) error {
	return c.Edit(view, protocol.MoveDown())
}

// MoveLeft moves the cursors of view back one character.
func (c *Client) MoveLeft(view protocol.ViewID) error {
	return c.Edit(view, protocol.MoveLeft())
}

// MoveRight moves the cursors of view forward one character.
func (c *Client) MoveRight(view protocol.ViewID) error {
	return c.Edit(view, protocol.MoveRight())
}

// MoveWordLeft moves the cursors of view to the previous word start.
func (c *Client) MoveWordLeft(view protocol.ViewID) error {
	return c.Edit(view, protocol.MoveWordLeft())
}

// MoveWordRight moves the cursors of view to the next word end.
func (c *Client) MoveWordRight(view protocol.ViewID) error {
	return c.Edit(view, protocol.MoveWordRight())
}

// SetTheme selects a theme by name.
func (c *Client) SetTheme(name string) error {
	return c.Notify(protocol.MethodSetTheme, protocol.SetThemeParams{ThemeName: name})
}

// NewView requests a new view, on path if it is not empty.
func (c *Client) NewView(path string) (*Call, error) {
	return c.Request(protocol.MethodNewView, protocol.NewViewParams{FilePath: path})
}

// OpenView requests a new view and waits for its id.
func (c *Client) OpenView(ctx context.Context, path string) (protocol.ViewID, error) {
	call, err := c.NewView(path)
	if err != nil {
		return "", err
	}
	var id protocol.ViewID
	if err := call.Result(ctx, &id); err != nil {
		return "", err
	}
	return id, nil
}
