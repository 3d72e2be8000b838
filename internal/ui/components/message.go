// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// TextRenderer turns assistant text into terminal output.
// *render.TerminalRenderer satisfies it.
type TextRenderer interface {
	Render(text string) string
}

// MessageBubble renders one chat message.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool

	// Streaming marks the assistant message still receiving fragments.
	Streaming bool
	// Frame is the spinner frame shown while a streaming message is empty.
	Frame string
	// Advisory renders the text as a connection or server advisory.
	Advisory bool

	renderer TextRenderer
	theme    *styles.Theme
}

// NewMessageBubble creates a bubble. renderer may be nil, in which case
// text is wrapped as plain text.
func NewMessageBubble(msg model.Message, theme *styles.Theme, renderer TextRenderer) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		renderer:      renderer,
		theme:         theme,
	}
}

// SetWidth sets the bubble width
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUser()
	}
	return b.renderAssistant()
}

// contentWidth is the text width inside border, padding and margin.
func (b *MessageBubble) contentWidth(style lipgloss.Style) int {
	w := b.Width - style.GetHorizontalFrameSize() - style.GetHorizontalMargins()
	if w < 10 {
		w = 10
	}
	return w
}

func (b *MessageBubble) label(style lipgloss.Style) string {
	out := style.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		out += "  " + b.theme.Timestamp.Render(b.Message.Timestamp.Local().Format("15:04"))
	}
	return out
}

func (b *MessageBubble) renderUser() string {
	style := b.theme.UserBubble
	width := b.contentWidth(style)
	body := lipgloss.NewStyle().Width(width).Render(b.Message.Text)
	if b.Message.HasPosition() {
		body += "\n" + b.theme.Timestamp.Render(positionLabel(b.Message))
	}
	return b.label(b.theme.UserLabel) + "\n" + style.Render(body)
}

func (b *MessageBubble) renderAssistant() string {
	style := b.theme.AssistantBubble
	width := b.contentWidth(style)

	var body string
	switch {
	case b.Streaming && b.Message.IsEmpty():
		frame := b.Frame
		if frame == "" {
			frame = "…"
		}
		body = b.theme.Timestamp.Render(frame + " thinking")
	case b.Advisory:
		body = b.theme.Advisory.Width(width).Render(b.Message.Text)
	case b.renderer != nil && !b.Streaming:
		body = strings.TrimRight(b.renderer.Render(b.Message.Text), "\n")
	default:
		// Partial text is wrapped plainly so half-formed markdown never
		// flickers through the renderer.
		body = lipgloss.NewStyle().Width(width).Render(b.Message.Text)
		if b.Streaming {
			body += b.theme.Timestamp.Render(" ▌")
		}
	}
	return b.label(b.theme.AssistantLabel) + "\n" + style.Render(body)
}

// RenderMessages renders a conversation as a column of bubbles separated by
// blank lines. streamingID marks the message still receiving fragments and
// advisory reports whether a finished assistant text is an advisory.
func RenderMessages(msgs []model.Message, theme *styles.Theme, renderer TextRenderer, width int, streamingID, frame string, advisory func(string) bool) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		bubble := NewMessageBubble(msg, theme, renderer)
		bubble.SetWidth(width)
		bubble.Streaming = streamingID != "" && msg.ID == streamingID
		bubble.Frame = frame
		if msg.Role == model.RoleAssistant && advisory != nil {
			bubble.Advisory = advisory(msg.Text)
		}
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}
