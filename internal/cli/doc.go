// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the heritage command tree.
//
// Running heritage with no arguments opens the full-screen chat. Every other
// feature is also reachable as a subcommand for scripted use.
//
// # Commands Overview
//
//   - login, signup, logout, whoami: session management
//   - profile set-name, account delete: account changes
//   - ask: one question, streamed to stdout
//   - chat --plain: line-mode chat for terminals without full-screen support
//   - history show|clear|export: the server-side message log
//   - status: backend health
//   - config show|get|set|keys|path: the TOML configuration
//   - version
//
// Commands return errors to Cobra; Execute prints "Error: ..." and exits 1.
package cli
