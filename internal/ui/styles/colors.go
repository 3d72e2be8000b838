// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Saffron - Brand color, header, selections
var Saffron = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}

// Kumkum - Temple red, assistant label, focus
var Kumkum = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

// Turmeric - Highlights, the active language
var Turmeric = lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#FACC15"}

// Jade - Success states, map links
var Jade = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}

// Peacock - Info, user highlights
var Peacock = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Danger - Errors and advisories
var Danger = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}

// Warning - Caution states
var Warning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFBF5", Dark: "#1C1917"}

// SurfaceDim - Headers, footers and the sidebar
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5EBDD", Dark: "#171412"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E7D8C3", Dark: "#3A322C"}

// SelectionBg - Selected sidebar row
var SelectionBg = lipgloss.AdaptiveColor{Light: "#FDE7C7", Dark: "#4A2C12"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#292524", Dark: "#F5F0E8"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#C9BFB2"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#7C2D12", Dark: "#FFEDD5"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#FB923C", Dark: "#EA580C"}

var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#292524", Dark: "#F5F0E8"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#D6C3A5", Dark: "#57483B"}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// RenderSuccess renders a success line with a check mark.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Jade).Render("✓ " + message)
}

// RenderError renders an error line with a cross.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Danger).Render("✗ " + message)
}

// RenderInfo renders an informational line.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Peacock).Render(message)
}
