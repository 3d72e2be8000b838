// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/heritage-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Hint is one key/description pair shown in the status bar.
type Hint struct {
	Key  string
	Desc string
}

// StatusBar shows key hints, or a notice that replaces them until cleared.
type StatusBar struct {
	Hints   []Hint
	Notice  string
	IsError bool
	Busy    string // spinner frame while a reply streams
	Width   int
	theme   *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetNotice shows a message in place of the hints.
func (s *StatusBar) SetNotice(notice string, isError bool) {
	s.Notice = notice
	s.IsError = isError
}

// ClearNotice restores the hints.
func (s *StatusBar) ClearNotice() {
	s.Notice = ""
	s.IsError = false
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left string
	switch {
	case s.Notice != "" && s.IsError:
		left = s.theme.StatusError.Render("✗ " + s.Notice)
	case s.Notice != "":
		left = s.theme.StatusNotice.Render(s.Notice)
	default:
		left = s.renderHints()
	}

	right := ""
	if s.Busy != "" {
		right = s.theme.StatusNotice.Render(s.Busy + " Heritage AI is typing")
	}

	inner := s.Width - s.theme.StatusBar.GetHorizontalFrameSize()
	return s.theme.StatusBar.
		Width(s.Width).
		Render(lipgloss.NewStyle().MaxWidth(inner).Render(spread(left, right, inner)))
}

// renderHints drops trailing hints that do not fit.
func (s *StatusBar) renderHints() string {
	budget := s.Width - 4
	if s.Busy != "" {
		budget -= 24
	}
	var parts []string
	used := 0
	for _, h := range s.Hints {
		part := s.theme.StatusKey.Render(h.Key) + " " + h.Desc
		w := lipgloss.Width(part) + 3
		if used+w > budget {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, " • ")
}
