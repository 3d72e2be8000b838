// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/ui/styles"
	"github.com/jeranaias/heritage-tui/internal/util"
)

// =============================================================================
// SIDEBAR COMPONENT
// =============================================================================

// Sidebar lists conversations newest first, under a category heading that
// changes whenever the category changes.
type Sidebar struct {
	Conversations []model.Conversation
	Selected      int
	Focused       bool
	Width         int
	Height        int
	theme         *styles.Theme
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{Width: 32, Height: 20, theme: theme}
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetConversations replaces the list and the selected index.
func (s *Sidebar) SetConversations(convs []model.Conversation, selected int) {
	s.Conversations = convs
	s.Selected = selected
}

// View renders the sidebar. It returns "" when Width is 0.
func (s *Sidebar) View() string {
	if s.Width <= 0 {
		return ""
	}
	box := s.theme.Sidebar
	if s.Focused {
		box = s.theme.SidebarFocused
	}
	inner := s.Width - box.GetHorizontalFrameSize()
	if inner < 8 {
		inner = 8
	}

	lines := []string{s.theme.HeaderTitle.Render("💬 Chats"), ""}
	selectedLine := 0
	if len(s.Conversations) == 0 {
		lines = append(lines,
			s.theme.SidebarEmpty.Render("No chats yet"),
			s.theme.SidebarEmpty.Render("Start a new conversation!"))
	} else {
		rows, sel := s.rows(inner)
		selectedLine = len(lines) + sel
		lines = append(lines, rows...)
	}

	if s.Height > 0 && len(lines) > s.Height {
		lines = window(lines, selectedLine, s.Height)
	}

	return box.Width(s.Width).Height(s.Height).Render(strings.Join(lines, "\n"))
}

// rows renders every conversation with category headings. It also returns
// the line index of the selected conversation.
func (s *Sidebar) rows(width int) ([]string, int) {
	var lines []string
	selectedLine := 0
	lastCategory := ""
	for i, conv := range s.Conversations {
		if cat := conv.Category(); cat != lastCategory {
			if lastCategory != "" {
				lines = append(lines, "")
			}
			lines = append(lines, s.theme.SidebarCategory.Render(cat))
			lastCategory = cat
		}

		date := conv.DateLabel()
		title := util.TruncateWidth(conv.Preview(), width-len(date)-3)
		row := util.PadWidth(" "+title, width-len(date)-1) + " "

		if i == s.Selected {
			selectedLine = len(lines)
			lines = append(lines, s.theme.SidebarSelected.Render(row+date))
		} else {
			lines = append(lines, s.theme.SidebarItem.Render(row)+s.theme.SidebarDate.Render(date))
		}
	}
	return lines, selectedLine
}

// window keeps the selected line visible when the list is taller than the
// sidebar.
func window(lines []string, selected, height int) []string {
	start := selected - height/2
	if start+height > len(lines) {
		start = len(lines) - height
	}
	if start < 0 {
		start = 0
	}
	return lines[start : start+height]
}
