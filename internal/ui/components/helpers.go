// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// spread places left and right at the edges of width cells.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// positionLabel formats the coordinates a message was sent from.
func positionLabel(msg model.Message) string {
	if !msg.HasPosition() {
		return ""
	}
	return fmt.Sprintf("📍 %.4f, %.4f", *msg.Latitude, *msg.Longitude)
}
