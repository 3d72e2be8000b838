// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestNewTheme_ExplicitMode(t *testing.T) {
	assert.True(t, NewTheme("dark").IsDark)
	assert.False(t, NewTheme("LIGHT").IsDark)
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width   int
		mode    LayoutMode
		sidebar int
	}{
		{40, LayoutNarrow, 0},
		{59, LayoutNarrow, 0},
		{60, LayoutMedium, 24},
		{99, LayoutMedium, 24},
		{100, LayoutWide, 32},
		{200, LayoutWide, 32},
	}
	th := NewTheme("dark")
	for _, tt := range tests {
		th.SetSize(tt.width, 30)
		assert.Equal(t, tt.mode, th.GetLayoutMode(), "width %d", tt.width)
		assert.Equal(t, tt.sidebar, th.SidebarWidth(), "width %d", tt.width)
	}
}

func TestGlamourStyle(t *testing.T) {
	th := NewTheme("dark")
	th.ColorProfile = termenv.TrueColor
	assert.Equal(t, "dark", th.GlamourStyle())
	th.IsDark = false
	assert.Equal(t, "light", th.GlamourStyle())
	th.ColorProfile = termenv.Ascii
	assert.Equal(t, "notty", th.GlamourStyle())
}

func TestRenderHelpers(t *testing.T) {
	assert.Contains(t, RenderSuccess("saved"), "saved")
	assert.Contains(t, RenderError("failed"), "✗")
	assert.Contains(t, RenderInfo("note"), "note")
}
