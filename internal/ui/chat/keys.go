// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/heritage-tui/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the chat shell.
type KeyMap struct {
	Submit      key.Binding
	Newline     key.Binding
	NewChat     key.Binding
	PrevChat    key.Binding
	NextChat    key.Binding
	Language    key.Binding
	Copy        key.Binding
	Speak       key.Binding
	FocusToggle key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Quit        key.Binding

	// Active only while the sidebar has focus.
	SidebarUp   key.Binding
	SidebarDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "new line"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		PrevChat: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "previous chat"),
		),
		NextChat: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "next chat"),
		),
		Language: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "language"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy reply"),
		),
		Speak: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "speak reply"),
		),
		FocusToggle: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "chats"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		SidebarUp: key.NewBinding(
			key.WithKeys("up", "k", "["),
			key.WithHelp("↑/[", "previous chat"),
		),
		SidebarDown: key.NewBinding(
			key.WithKeys("down", "j", "]"),
			key.WithHelp("↓/]", "next chat"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewChat, k.FocusToggle, k.Language, k.Copy, k.Speak, k.Quit}
}

// FullHelp returns the bindings shown by /help, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline, k.NewChat, k.PrevChat, k.NextChat},
		{k.FocusToggle, k.SidebarUp, k.SidebarDown, k.PageUp, k.PageDown},
		{k.Language, k.Copy, k.Speak, k.Quit},
	}
}

// hints converts the short help into status bar hints.
func (k KeyMap) hints() []components.Hint {
	bindings := k.ShortHelp()
	hints := make([]components.Hint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, components.Hint{Key: h.Key, Desc: h.Desc})
	}
	return hints
}
