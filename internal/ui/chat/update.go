// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/device"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/util"
)

// NoticeDuration is how long a status bar notice stays up.
const NoticeDuration = 4 * time.Second

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a message and returns the updated shell.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case HistoryLoadedMsg:
		return m.handleHistory(msg)

	case StreamStartMsg:
		m.logger.Debug("stream started", "message", msg.MessageID)
		return m, nil

	case StreamFragmentMsg:
		m.state.AppendAssistantFragment(msg.MessageID, msg.Fragment)
		if msg.MessageID != m.streamID {
			return m, nil
		}
		now, redraw := m.throttle.request()
		if now {
			m.refresh()
		}
		return m, tea.Batch(listen(m.stream), redraw)

	case redrawMsg:
		m.throttle.fired()
		m.refresh()
		return m, nil

	case StreamDoneMsg:
		return m.handleStreamDone(msg)

	case HistoryClearedMsg:
		if !msg.Result.OK() {
			m.logger.Warn("clearing history failed", "err", msg.Result.Err)
			return m, m.notify("Couldn't clear chat history. Please try again.", true)
		}
		m.state.Clear()
		m.refresh()
		return m, m.notify(fmt.Sprintf("Chat history cleared (%d messages)", msg.Result.Deleted), false)

	case NoticeMsg:
		return m, m.notify(msg.Text, msg.IsError)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.status.ClearNotice()
		}
		return m, nil

	case spokenMsg:
		if msg.err == nil {
			return m, nil
		}
		if errors.Is(msg.err, device.ErrUnsupported) {
			return m, m.notify("Speech is not available on this system", true)
		}
		m.logger.Warn("speech failed", "err", msg.err)
		return m, m.notify("Couldn't read the reply aloud", true)

	case spinner.TickMsg:
		if !m.state.IsPending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.status.Busy = m.spinner.View()
		if reply, ok := m.state.Message(m.state.Pending()); ok && reply.IsEmpty() {
			m.refresh()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleHistory(msg HistoryLoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	m.state.LoadInitial(msg.Result.Messages, m.session.Name)
	m.viewport.GotoBottom()
	m.refresh()

	m.logger.Info("history loaded", "status", msg.Result.Status, "messages", len(msg.Result.Messages))
	if msg.Result.Failed() {
		m.logger.Warn("history unavailable", "err", msg.Result.Err)
		return m, m.notify("Couldn't load your chat history", true)
	}
	return m, nil
}

func (m Model) handleStreamDone(msg StreamDoneMsg) (Model, tea.Cmd) {
	m.state.SetAssistantText(msg.MessageID, msg.Reply.Text)
	if m.state.Pending() == msg.MessageID {
		m.state.SetPending("")
	}
	if msg.MessageID != m.streamID {
		m.logger.Debug("late reply from an earlier stream", "message", msg.MessageID)
		return m, nil
	}
	m.StopStream()
	m.throttle.fired()
	m.refresh()

	if msg.Reply.Advisory() {
		m.logger.Warn("chat request failed", "message", msg.MessageID, "err", msg.Reply.Err)
		return m, nil
	}
	m.logger.Info("reply complete", "message", msg.MessageID, "chars", len(msg.Reply.Text), "duration", msg.Duration)
	if m.speakReplies {
		return m, m.speakCmd(msg.Reply.Text)
	}
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if matches(msg, m.keys.FocusToggle) || matches(msg, m.keys.Submit) {
			m.showHelp = false
		}
		return m, nil
	}

	if matches(msg, m.keys.FocusToggle) {
		if m.theme.SidebarWidth() == 0 {
			return m, nil
		}
		m.sidebarFocused = !m.sidebarFocused
		if m.sidebarFocused {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		m.refresh()
		return m, nil
	}

	if m.sidebarFocused {
		switch {
		case matches(msg, m.keys.SidebarUp), matches(msg, m.keys.PrevChat):
			m.selectRelative(-1)
		case matches(msg, m.keys.SidebarDown), matches(msg, m.keys.NextChat):
			m.selectRelative(1)
		case matches(msg, m.keys.Submit):
			m.sidebarFocused = false
			m.input.Focus()
			m.refresh()
		case matches(msg, m.keys.NewChat):
			m.newChat()
		}
		return m, nil
	}

	switch {
	case matches(msg, m.keys.NewChat):
		m.newChat()
		return m, nil
	case matches(msg, m.keys.PrevChat):
		m.selectRelative(-1)
		return m, nil
	case matches(msg, m.keys.NextChat):
		m.selectRelative(1)
		return m, nil
	case matches(msg, m.keys.Language):
		m.SetLanguage(m.language.Next())
		return m, m.notify("Replies in "+m.language.EnglishName(), false)
	case matches(msg, m.keys.Copy):
		return m, m.copyLastReply()
	case matches(msg, m.keys.Speak):
		reply, ok := m.lastReply()
		if !ok {
			return m, m.notify("No reply to read yet", true)
		}
		return m, m.speakCmd(reply)
	case matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit sends the input text, or runs it as a slash command.
func (m Model) submit() (Model, tea.Cmd) {
	text := util.NormalizeInput(m.input.Value())
	if text == "" {
		return m, nil
	}

	if name, args, ok := parseCommand(text); ok {
		m.input.Reset()
		cmd := m.runCommand(name, args)
		return m, cmd
	}

	switch {
	case m.loading:
		return m, m.notify("Still loading your chats...", true)
	case m.state.IsPending():
		return m, m.notify("Please wait for the current reply to finish", true)
	}
	m.input.Reset()

	q := api.Query{Text: text, Language: m.language}
	if pos, ok := m.locator.Position(m.ctx); ok {
		lat, lon := pos.Latitude, pos.Longitude
		q.Latitude, q.Longitude = &lat, &lon
	}

	m.state.AppendUserMessageAt(text, q.Latitude, q.Longitude)
	reply := m.state.BeginAssistantMessage()
	m.state.SetPending(reply.ID)
	m.viewport.GotoBottom()
	m.refresh()

	ctx, cancel := context.WithCancel(m.ctx)
	ch := make(chan tea.Msg, StreamBufferSize)
	m.stream, m.streamID, m.cancelStream = ch, reply.ID, cancel
	m.logger.Info("sending query", "message", reply.ID, "language", m.language, "located", q.Latitude != nil)

	return m, tea.Batch(
		startStream(ctx, m.backend, q, reply.ID, ch),
		listen(ch),
		m.spinner.Tick,
	)
}

func (m *Model) newChat() {
	m.state.StartNew()
	m.viewport.GotoTop()
	m.refresh()
}

// selectRelative moves the selection by delta; the list is newest first.
func (m *Model) selectRelative(delta int) {
	if m.state.Select(m.state.CurrentIndex() + delta) {
		m.viewport.GotoBottom()
		m.refresh()
	}
}

// lastReply returns the last finished assistant reply of the current chat.
func (m *Model) lastReply() (string, bool) {
	conv, ok := m.state.Current()
	if !ok {
		return "", false
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.Role != model.RoleAssistant || msg.ID == m.state.Pending() || msg.IsEmpty() || isAdvisory(msg.Text) {
			continue
		}
		return msg.Text, true
	}
	return "", false
}

func (m *Model) copyLastReply() tea.Cmd {
	reply, ok := m.lastReply()
	if !ok {
		return m.notify("No reply to copy yet", true)
	}
	if err := copyToClipboard(reply); err != nil {
		m.logger.Warn("clipboard write failed", "err", err)
		return m.notify("Couldn't copy to the clipboard", true)
	}
	return m.notify("Reply copied to clipboard", false)
}

func (m *Model) speakCmd(text string) tea.Cmd {
	ctx, speaker := m.ctx, m.speaker
	return func() tea.Msg {
		return spokenMsg{err: speaker.Speak(ctx, text)}
	}
}

// notify shows text in the status bar and schedules its removal.
func (m *Model) notify(text string, isError bool) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.status.SetNotice(text, isError)
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}
