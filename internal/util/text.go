// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended to truncated display strings.
const Ellipsis = "..."

// UNICODE: All truncation counts runes, never bytes. Tamil and Devanagari
// text is multi-byte and slicing by bytes corrupts it.

// TruncateRunes keeps the first maxRunes runes of s and appends Ellipsis
// when anything was cut. The ellipsis is not counted against maxRunes.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + Ellipsis
}

// TruncateWidth truncates s to fit in maxWidth terminal cells, including
// the ellipsis when one is needed.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadWidth right-pads s with spaces to exactly width cells, truncating first
// when it is too wide.
func PadWidth(s string, width int) string {
	s = TruncateWidth(s, width)
	return runewidth.FillRight(s, width)
}

// NormalizeInput trims surrounding whitespace and converts s to NFC so that
// text typed with combining marks compares and sends consistently.
func NormalizeInput(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// FirstLine returns s up to the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
