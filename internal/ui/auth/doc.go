// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package auth provides the login and signup form shown before the chat shell.

The form validates locally (non-empty fields, a password of at least six
characters) and then submits through an Authenticator on a tea.Cmd. Success
is reported with AuthSuccessMsg, which the application root handles by
persisting the session and switching to the shell. A failure keeps the form
open with the server's message shown inline.

# Key Types

  - Model: the Bubble Tea form
  - Mode: ModeLogin or ModeSignup
  - Authenticator: *api.Client satisfies it

# Usage

	form := auth.New(client, theme)
	// in the root Update:
	case auth.AuthSuccessMsg:
		store.Save(msg.Session)
*/
package auth
