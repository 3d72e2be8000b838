// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	userColor      = color.New(color.FgHiBlue, color.Bold)
	assistantColor = color.New(color.FgHiMagenta, color.Bold)
	replyColor     = color.New(color.FgCyan)
	advisoryColor  = color.New(color.FgYellow)
	successColor   = color.New(color.FgGreen)
	mutedColor     = color.New(color.FgHiBlack)
	labelColor     = color.New(color.FgWhite, color.Bold)
	promptColor    = color.New(color.FgHiBlue)
)

// setNoColor disables color for every CLI writer.
func setNoColor(off bool) {
	if off {
		color.NoColor = true
	}
}
