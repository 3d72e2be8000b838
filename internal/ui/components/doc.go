// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the chat screen.

Each component is a plain struct with a SetWidth (or SetSize) method and a
View method that returns a styled string. Components hold no Bubble Tea
state of their own; the chat shell owns the data and hands it over before
every render.

# Key Types

  - Header: brand, signed-in user and reply language
  - Sidebar: conversations grouped under category headings
  - MessageBubble: one user or assistant message
  - StatusBar: key hints, notices and the typing indicator

# Usage

	theme := styles.NewTheme("auto")
	header := components.NewHeader(theme)
	header.SetWidth(width)
	header.SetUser(sess.Name)
	view := header.View()
*/
package components
