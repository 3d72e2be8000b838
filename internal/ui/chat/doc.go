// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat shell: the conversation list, the message
viewport, the input box and the slash commands.

# Streaming

Sending a query starts a goroutine that calls the backend and pushes every
fragment, then one StreamDoneMsg, into a buffered channel. A listen command
reads one message at a time and is re-issued after each fragment, so
fragments reach the update loop in arrival order. Fragments are applied to
the chat state by message ID, which keeps a reply landing on its own
conversation after the user switches away. Viewport redraws are throttled
to RedrawFPS with a rate limiter; fragments are never dropped.

Only one request is in flight at a time. The pending message ID lives in
chatstate.Manager and submission is refused while it is set.

# Key Types

  - Model: the Bubble Tea shell
  - Options: dependencies and settings for New
  - Backend: the API client subset the shell needs
  - KeyMap: keyboard bindings, also used for the help view

# Slash Commands

	/new            start a new chat
	/clear          delete the server history, then reset this chat
	/lang [code]    set or cycle the reply language
	/export [path]  save this chat; the extension picks the format
	/logout         sign out
	/help           show commands and keys
*/
package chat
