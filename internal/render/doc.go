// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render formats message text for display.
//
// HTML produces escaped, link-annotated markup for the HTML export.
// TerminalRenderer produces styled output for the TUI. Both recognize
// http(s) URLs, bare www. hosts and "Latitude: x, Longitude: y" pairs,
// which become map search links.
package render
