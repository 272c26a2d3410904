package protocol

import (
	"encoding/json"
	"fmt"
)

// Inbound notification method names.
const (
	MethodUpdate           = "update"
	MethodScrollTo         = "scroll_to"
	MethodDefStyle         = "def_style"
	MethodConfigChanged    = "config_changed"
	MethodThemeChanged     = "theme_changed"
	MethodPluginStarted    = "plugin_started"
	MethodAvailableThemes  = "available_themes"
	MethodAvailablePlugins = "available_plugins"
	MethodFindStatus       = "find_status"
	MethodUpdateCmds       = "update_cmds"
)

// Inbound is a typed engine-to-editor notification.
type Inbound interface {
	Method() string
}

// UpdateNotification delivers diff operations for one view.
type UpdateNotification struct {
	ViewID ViewID `json:"view_id"`
	Update Update `json:"update"`
}

// ScrollTo asks the editor to bring a position into view.
type ScrollTo struct {
	ViewID ViewID `json:"view_id"`
	Line   uint64 `json:"line"`
	Col    uint64 `json:"col"`
}

// DefStyle defines or redefines a style id. Colors are ARGB.
type DefStyle struct {
	ID        uint64  `json:"id"`
	FgColor   *uint32 `json:"fg_color,omitempty"`
	BgColor   *uint32 `json:"bg_color,omitempty"`
	Weight    *uint16 `json:"weight,omitempty"`
	Underline *bool   `json:"underline,omitempty"`
	Italic    *bool   `json:"italic,omitempty"`
}

// Bold reports whether the weight is heavy enough to render as bold.
func (d *DefStyle) Bold() bool {
	return d.Weight != nil && *d.Weight >= 700
}

// ConfigChanged reports settings changed for a view.
type ConfigChanged struct {
	ViewID  ViewID        `json:"view_id"`
	Changes ConfigChanges `json:"changes"`
}

// ThemeChanged reports the active theme.
type ThemeChanged struct {
	Name  string        `json:"name"`
	Theme ThemeSettings `json:"theme"`
}

// PluginStarted reports a plugin starting for a view.
type PluginStarted struct {
	ViewID ViewID `json:"view_id"`
	Plugin string `json:"plugin"`
}

// AvailableThemes lists theme names.
type AvailableThemes struct {
	Themes []string `json:"themes"`
}

// AvailablePlugins lists the plugins for a view.
type AvailablePlugins struct {
	ViewID  ViewID   `json:"view_id"`
	Plugins []Plugin `json:"plugins"`
}

// FindStatus carries search state for a view; queries are kept opaque.
type FindStatus struct {
	ViewID  ViewID            `json:"view_id"`
	Queries []json.RawMessage `json:"queries"`
}

// UpdateCmds carries plugin command descriptions; they are kept opaque.
type UpdateCmds struct {
	ViewID ViewID            `json:"view_id"`
	Plugin string            `json:"plugin"`
	Cmds   []json.RawMessage `json:"cmds"`
}

func (*UpdateNotification) Method() string { return MethodUpdate }
func (*ScrollTo) Method() string           { return MethodScrollTo }
func (*DefStyle) Method() string           { return MethodDefStyle }
func (*ConfigChanged) Method() string      { return MethodConfigChanged }
func (*ThemeChanged) Method() string       { return MethodThemeChanged }
func (*PluginStarted) Method() string      { return MethodPluginStarted }
func (*AvailableThemes) Method() string    { return MethodAvailableThemes }
func (*AvailablePlugins) Method() string   { return MethodAvailablePlugins }
func (*FindStatus) Method() string         { return MethodFindStatus }
func (*UpdateCmds) Method() string         { return MethodUpdateCmds }

// DecodeNotification turns a raw notification into its typed form. Unknown
// methods yield ErrUnknownMethod so the caller can log and ignore them.
func DecodeNotification(n *Notification) (Inbound, error) {
	var in Inbound
	switch n.Method {
	case MethodUpdate:
		in = &UpdateNotification{}
	case MethodScrollTo:
		in = &ScrollTo{}
	case MethodDefStyle:
		in = &DefStyle{}
	case MethodConfigChanged:
		in = &ConfigChanged{}
	case MethodThemeChanged:
		in = &ThemeChanged{}
	case MethodPluginStarted:
		in = &PluginStarted{}
	case MethodAvailableThemes:
		in = &AvailableThemes{}
	case MethodAvailablePlugins:
		in = &AvailablePlugins{}
	case MethodFindStatus:
		in = &FindStatus{}
	case MethodUpdateCmds:
		in = &UpdateCmds{}
	default:
		return nil, fmt.Errorf("%q: %w", n.Method, ErrUnknownMethod)
	}

	if len(n.Params) > 0 {
		if err := json.Unmarshal(n.Params, in); err != nil {
			return nil, fmt.Errorf("%s params: %w", n.Method, err)
		}
	}

	if u, ok := in.(*UpdateNotification); ok {
		if err := u.Update.Validate(); err != nil {
			return nil, fmt.Errorf("update for %s: %w", u.ViewID, err)
		}
	}
	return in, nil
}
