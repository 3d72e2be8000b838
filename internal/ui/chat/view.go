// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/heritage-tui/internal/render"
	"github.com/jeranaias/heritage-tui/internal/ui/components"
)

// =============================================================================
// LAYOUT
// =============================================================================

// resize lays out every component for a width x height terminal.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)

	sidebarWidth := m.theme.SidebarWidth()
	if sidebarWidth == 0 {
		m.sidebarFocused = false
	}
	m.mainWidth = width - sidebarWidth

	m.header.SetWidth(width)
	m.status.SetWidth(width)
	m.input.SetWidth(m.mainWidth - m.theme.InputContainer.GetHorizontalFrameSize())
	m.help.Width = m.mainWidth

	headerHeight := lipgloss.Height(m.header.View())
	statusHeight := lipgloss.Height(m.status.View())
	inputHeight := m.input.Height() + m.theme.InputContainer.GetVerticalFrameSize()

	bodyHeight := height - headerHeight - statusHeight - inputHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.viewport.Width = m.mainWidth
	m.viewport.Height = bodyHeight
	m.sidebar.SetSize(sidebarWidth, bodyHeight+inputHeight)

	m.renderer = m.newRenderer()
	m.refresh()
}

// newRenderer builds a renderer sized to the assistant bubble.
func (m *Model) newRenderer() components.TextRenderer {
	bubble := m.theme.AssistantBubble
	width := m.mainWidth - bubble.GetHorizontalFrameSize() - bubble.GetHorizontalMargins()
	opts := render.TerminalOptions{
		Width:        width,
		Markdown:     m.markdown,
		Style:        m.theme.GlamourStyle(),
		Hyperlinks:   render.HyperlinksSupported(),
		ColorProfile: lipgloss.ColorProfile(),
	}
	r, err := render.NewTerminalRenderer(opts)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable, using plain text", "err", err)
		opts.Markdown = false
		r, _ = render.NewTerminalRenderer(opts)
	}
	return r
}

// refresh re-renders the current conversation into the viewport and the
// conversation list into the sidebar. The viewport stays pinned to the
// bottom unless the user scrolled up.
func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0

	content := components.RenderMessages(
		m.state.CurrentMessages(),
		m.theme,
		m.renderer,
		m.mainWidth-1,
		m.state.Pending(),
		m.spinner.View(),
		isAdvisory,
	)
	m.viewport.SetContent(content)
	if atBottom {
		m.viewport.GotoBottom()
	}

	m.sidebar.SetConversations(m.state.Conversations(), m.state.CurrentIndex())
	m.sidebar.Focused = m.sidebarFocused

	if m.state.IsPending() {
		m.status.Busy = m.spinner.View()
	} else {
		m.status.Busy = ""
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the shell.
func (m Model) View() string {
	body := m.viewport.View()
	if m.showHelp {
		body = m.helpView()
	}

	inputStyle := m.theme.InputContainer
	if m.state.IsPending() || m.loading || m.sidebarFocused {
		inputStyle = m.theme.InputDisabled
	}
	input := inputStyle.Width(m.mainWidth - inputStyle.GetHorizontalFrameSize()).Render(m.input.View())

	main := lipgloss.JoinVertical(lipgloss.Left, body, input)
	if side := m.sidebar.View(); side != "" {
		main = lipgloss.JoinHorizontal(lipgloss.Top, side, main)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), main, m.status.View())
}

// helpView lists the slash commands and the key bindings.
func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Commands"))
	b.WriteString("\n\n")
	for _, c := range commandTable() {
		usage := "/" + c.Name
		if c.Args != "" {
			usage += " " + c.Args
		}
		b.WriteString("  ")
		b.WriteString(m.theme.StatusKey.Render(padRight(usage, 16)))
		b.WriteString(c.Description)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.HeaderTitle.Render("Keys"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Timestamp.Render("esc or enter to close"))

	return lipgloss.NewStyle().
		Width(m.viewport.Width).
		Height(m.viewport.Height).
		Padding(1, 2).
		Render(b.String())
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s + " "
}
