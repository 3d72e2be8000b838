// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand on the left, user and language on the right.
type Header struct {
	Title    string
	Subtitle string
	UserName string
	Language model.Language
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "🛕 Tamil Nadu Heritage AI",
		Subtitle: "Explore temples, forts and culture",
		Language: model.DefaultLanguage,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetUser updates the signed-in user name
func (h *Header) SetUser(name string) {
	h.UserName = name
}

// SetLanguage updates the reply language badge
func (h *Header) SetLanguage(lang model.Language) {
	h.Language = lang
}

// View renders the header. Narrow terminals drop the subtitle.
func (h *Header) View() string {
	left := h.theme.HeaderTitle.Render(h.Title)
	if h.Width >= 80 && h.Subtitle != "" {
		left += "  " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	right := h.theme.HeaderBadge.Render("🌐 " + h.Language.DisplayName())
	if h.UserName != "" {
		right = h.theme.HeaderSubtitle.Render("👤 "+h.UserName) + "  " + right
	}

	inner := h.Width - h.theme.Header.GetHorizontalFrameSize()
	return h.theme.Header.
		Width(h.Width).
		Render(lipgloss.NewStyle().MaxWidth(inner).Render(spread(left, right, inner)))
}
