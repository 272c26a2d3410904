package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"
)

// Outbound method names.
const (
	MethodClientStarted = "client_started"
	MethodEdit          = "edit"
	MethodSetTheme      = "set_theme"
	MethodNewView       = "new_view"
)

// Edit method names carried inside an "edit" notification.
const (
	EditInsert         = "insert"
	EditScroll         = "scroll"
	EditDeleteBackward = "delete_backward"
	EditMoveUp         = "move_up"
	EditMoveDown       = "move_down"
	EditMoveLeft       = "move_left"
	EditMoveRight      = "move_right"
	EditMoveWordLeft   = "move_word_left"
	EditMoveWordRight  = "move_word_right"
)

// ClientStartedParams announces the client. Empty directories are omitted.
type ClientStartedParams struct {
	ConfigDir       string `json:"config_dir,omitempty"`
	ClientExtrasDir string `json:"client_extras_dir,omitempty"`
}

// SetThemeParams selects a theme by name.
type SetThemeParams struct {
	ThemeName string `json:"theme_name"`
}

// NewViewParams opens a view, optionally on a file.
type NewViewParams struct {
	FilePath string `json:"file_path,omitempty"`
}

// Edit is a per-view edit operation. Params is nil for parameterless methods.
type Edit struct {
	Method string
	Params json.RawMessage
}

// Insert inserts chars at every cursor.
func Insert(chars string) Edit {
	raw, _ := json.Marshal(struct {
		Chars string `json:"chars"`
	}{chars})
	return Edit{Method: EditInsert, Params: raw}
}

// Scroll tells the engine which lines are visible, as [first, last).
func Scroll(first, last uint64) Edit {
	raw, _ := json.Marshal([2]uint64{first, last})
	return Edit{Method: EditScroll, Params: raw}
}

// DeleteBackward deletes the character before every cursor.
func DeleteBackward() Edit { return Edit{Method: EditDeleteBackward} }

// MoveUp moves every cursor up one line.
func MoveUp() Edit { return Edit{Method: EditMoveUp} }

// MoveDown moves every cursor down one line.
func MoveDown() Edit { return Edit{Method: EditMoveDown} }

// MoveLeft moves every cursor left one character.
func MoveLeft() Edit { return Edit{Method: EditMoveLeft} }

// MoveRight moves every cursor right one character.
func MoveRight() Edit { return Edit{Method: EditMoveRight} }

// MoveWordLeft moves every cursor to the previous word start.
func MoveWordLeft() Edit { return Edit{Method: EditMoveWordLeft} }

// MoveWordRight moves every cursor to the next word end.
func MoveWordRight() Edit { return Edit{Method: EditMoveWordRight} }

// EncodeEdit builds the params object of an "edit" notification for view.
func EncodeEdit(view ViewID, e Edit) (json.RawMessage, error) {
	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "method", e.Method); err != nil {
		return nil, fmt.Errorf("edit %s: %w", e.Method, err)
	}
	if len(e.Params) > 0 {
		if out, err = sjson.SetRawBytes(out, "params", e.Params); err != nil {
			return nil, fmt.Errorf("edit %s: %w", e.Method, err)
		}
	}
	if out, err = sjson.SetBytes(out, "view_id", string(view)); err != nil {
		return nil, fmt.Errorf("edit %s: %w", e.Method, err)
	}
	return out, nil
}
