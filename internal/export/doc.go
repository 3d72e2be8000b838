// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to shareable files.
//
// # Key Types
//
//   - Format: html, md, json or yaml
//   - Exporter: converts a model.Conversation to bytes
//   - Options: output directory, theme and timestamp settings
//   - Document: the structured form used by JSON and YAML
//
// # Supported Formats
//
//   - HTML: standalone page; message text goes through render.HTML so links
//     and map coordinates are clickable
//   - Markdown: YAML frontmatter plus one section per message
//   - JSON / YAML: a Document with the history schema's message fields
//
// # Usage
//
//	exp, err := export.New(export.FormatHTML, export.DefaultOptions())
//	path, err := export.ExportToFile(conv, exp, nil)
//
// Print to a terminal with highlighting:
//
//	data, _ := exp.Export(conv)
//	export.Highlight(os.Stdout, data, export.FormatHTML)
package export
