// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across heritage-tui.
//
// # Key Functions
//
// Text:
//   - TruncateRunes: rune-safe truncation with a trailing ellipsis
//   - TruncateWidth, PadWidth: terminal-cell aware layout helpers
//   - NormalizeInput: NFC normalization of user input
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	preview := util.TruncateRunes(firstMessage, 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
