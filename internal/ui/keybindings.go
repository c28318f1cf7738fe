package ui

import (
	"fmt"
	"strings"
)

// KeyMode selects a keybinding set for the viewer.
type KeyMode string

const (
	// KeyModeVim adds j/k/h/l navigation.
	KeyModeVim KeyMode = "vim"
	// KeyModeEmacs adds ctrl+n/ctrl+p/ctrl+b/ctrl+f navigation.
	KeyModeEmacs KeyMode = "emacs"
	// KeyModeFunction keeps only arrows, enter and function keys.
	KeyModeFunction KeyMode = "function"
)

// DefaultKeyMode is the default keybinding mode.
const DefaultKeyMode = KeyModeVim

// ValidKeyModes lists all valid key modes.
var ValidKeyModes = []KeyMode{KeyModeVim, KeyModeEmacs, KeyModeFunction}

// ParseKeyMode validates a key mode name. The empty string means
// DefaultKeyMode.
func ParseKeyMode(s string) (KeyMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultKeyMode, nil
	}
	for _, m := range ValidKeyModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid key mode %q (want vim, emacs or function)", s)
}

// Action is what a key press does.
type Action string

const (
	ActionNone        Action = ""
	ActionDown        Action = "down"
	ActionUp          Action = "up"
	ActionPageDown    Action = "page_down"
	ActionPageUp      Action = "page_up"
	ActionTop         Action = "top"
	ActionBottom      Action = "bottom"
	ActionToggle      Action = "toggle"
	ActionCollapse    Action = "collapse"
	ActionExpand      Action = "expand"
	ActionCollapseAll Action = "collapse_all"
	ActionExpandAll   Action = "expand_all"
	ActionHelp        Action = "help"
	ActionQuit        Action = "quit"
)

// commonKeyBindings apply in every mode.
var commonKeyBindings = map[string]Action{
	"down":   ActionDown,
	"up":     ActionUp,
	"pgdown": ActionPageDown,
	"pgup":   ActionPageUp,
	"home":   ActionTop,
	"end":    ActionBottom,
	"enter":  ActionToggle,
	"space":  ActionToggle,
	"left":   ActionCollapse,
	"right":  ActionExpand,
	"f1":     ActionHelp,
	"f2":     ActionCollapseAll,
	"f3":     ActionExpandAll,
	"f10":    ActionQuit,
	"ctrl+c": ActionQuit,
	"esc":    ActionQuit,
}

// VimKeyBindings maps keys to actions for vim mode.
var VimKeyBindings = map[string]Action{
	"j": ActionDown,
	"k": ActionUp,
	"h": ActionCollapse,
	"l": ActionExpand,
	"g": ActionTop,
	"G": ActionBottom,
	"c": ActionCollapseAll,
	"e": ActionExpandAll,
	"?": ActionHelp,
	"q": ActionQuit,
}

// EmacsKeyBindings maps keys to actions for emacs mode.
var EmacsKeyBindings = map[string]Action{
	"ctrl+n": ActionDown,
	"ctrl+p": ActionUp,
	"ctrl+b": ActionCollapse,
	"ctrl+f": ActionExpand,
	"ctrl+v": ActionPageDown,
	"alt+v":  ActionPageUp,
	"alt+<":  ActionTop,
	"alt+>":  ActionBottom,
	"ctrl+q": ActionQuit,
}

// ActionFor returns the action bound to key in mode.
func ActionFor(mode KeyMode, key string) Action {
	if a, ok := commonKeyBindings[key]; ok {
		return a
	}
	switch mode {
	case KeyModeVim:
		return VimKeyBindings[key]
	case KeyModeEmacs:
		return EmacsKeyBindings[key]
	}
	return ActionNone
}

// helpText lists the bindings of mode for the help line.
func helpText(mode KeyMode) string {
	switch mode {
	case KeyModeVim:
		return "j/k move · enter toggle · h/l collapse/expand · c/e all · q quit"
	case KeyModeEmacs:
		return "C-n/C-p move · enter toggle · C-b/C-f collapse/expand · F2/F3 all · C-q quit"
	}
	return "↑/↓ move · enter toggle · ←/→ collapse/expand · F2/F3 all · F10 quit"
}
