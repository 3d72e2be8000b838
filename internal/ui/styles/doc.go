// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the heritage TUI.
//
// Colors are lipgloss AdaptiveColor values in a warm palette (saffron,
// kumkum, turmeric) so the interface adapts to dark and light terminals.
//
// # Key Types
//
//   - Theme: all styles plus detected terminal capabilities
//   - LayoutMode: narrow, medium or wide, from the terminal width
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	theme.SetSize(width, height)
//	title := theme.HeaderTitle.Render("Tamil Nadu Heritage AI")
package styles
