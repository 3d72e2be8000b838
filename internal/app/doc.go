// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It shows the auth form until a
// session exists, then the chat shell, and returns to the form on logout.
// The session is persisted through session.Store so the next start skips
// the form.
package app
