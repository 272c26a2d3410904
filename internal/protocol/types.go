package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ViewID identifies one open document view inside the engine.
type ViewID string

// OpKind names a diff operation inside an Update.
type OpKind string

// Diff operation kinds.
const (
	OpCopy       OpKind = "copy"
	OpSkip       OpKind = "skip"
	OpInvalidate OpKind = "invalidate"
	OpUpdate     OpKind = "update"
	OpIns        OpKind = "ins"
)

// Known reports whether k is one of the recognised operation kinds.
func (k OpKind) Known() bool {
	switch k {
	case OpCopy, OpSkip, OpInvalidate, OpUpdate, OpIns:
		return true
	}
	return false
}

// Update is the diff payload of an "update" notification.
type Update struct {
	Rev      *uint64 `json:"rev,omitempty"`
	Ops      []Op    `json:"ops"`
	Pristine bool    `json:"pristine"`
}

// Op is one diff operation. Lines is only present for "ins" and "update".
type Op struct {
	Kind  OpKind `json:"op"`
	N     uint64 `json:"n"`
	Lines []Line `json:"lines,omitempty"`
}

// Line is a line as sent by the engine. Fields absent on the wire are nil.
type Line struct {
	Text   *string  `json:"text,omitempty"`
	Cursor []uint64 `json:"cursor,omitempty"`
	Styles []int64  `json:"styles,omitempty"`
}

// Validate checks the structural invariants of an update and normalises
// "ins" operations whose count was omitted.
func (u *Update) Validate() error {
	for i := range u.Ops {
		op := &u.Ops[i]
		switch op.Kind {
		case OpIns:
			if len(op.Lines) == 0 && op.N > 0 {
				return fmt.Errorf("op %d: %w", i, ErrMissingLines)
			}
			for j, l := range op.Lines {
				if l.Text == nil {
					return fmt.Errorf("op %d line %d: %w", i, j, ErrMissingText)
				}
			}
			if op.N == 0 {
				op.N = uint64(len(op.Lines))
			}
			if op.N != uint64(len(op.Lines)) {
				return fmt.Errorf("op %d: n=%d with %d lines: %w", i, op.N, len(op.Lines), ErrLineCount)
			}
		case OpUpdate:
			if op.N != uint64(len(op.Lines)) {
				return fmt.Errorf("op %d: n=%d with %d lines: %w", i, op.N, len(op.Lines), ErrLineCount)
			}
		}
	}
	return nil
}

// Plugin describes a plugin known to the engine.
type Plugin struct {
	Name    string `json:"name"`
	Running bool   `json:"running"`
}

// Color is an opaque RGB triple as found in theme settings.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ThemeSettings carries the parts of a theme the terminal can use.
type ThemeSettings struct {
	Foreground *Color `json:"foreground,omitempty"`
	Background *Color `json:"background,omitempty"`
}

// ConfigChanges is the free-form map of changed settings. Values are looked up
// by key on demand.
type ConfigChanges json.RawMessage

// MarshalJSON returns the raw changes object.
func (c ConfigChanges) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("{}"), nil
	}
	return c, nil
}

// UnmarshalJSON stores a copy of the raw changes object.
func (c *ConfigChanges) UnmarshalJSON(data []byte) error {
	*c = append((*c)[:0], data...)
	return nil
}

// String returns the string setting stored under key.
func (c ConfigChanges) String(key string) (string, bool) {
	r := gjson.GetBytes(c, gjson.Escape(key))
	if r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}

// Int returns the integer setting stored under key.
func (c ConfigChanges) Int(key string) (int64, bool) {
	r := gjson.GetBytes(c, gjson.Escape(key))
	if r.Type != gjson.Number {
		return 0, false
	}
	return r.Int(), true
}

// Keys lists the changed setting names in wire order.
func (c ConfigChanges) Keys() []string {
	var keys []string
	gjson.ParseBytes(c).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}
