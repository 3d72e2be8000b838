// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatstate

import (
	"sync"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// Manager owns the conversation list and the active index.
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	convs   []model.Conversation // newest first
	current int
	name    string
	pending string // ID of the in-flight assistant message
}

// New returns an empty manager for the named user.
func New(name string) *Manager {
	return &Manager{name: name}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// LoadInitial seeds the list. A non-empty history becomes one conversation;
// otherwise the list holds a single welcome conversation.
func (m *Manager) LoadInitial(history []model.Message, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.name = name
	m.pending = ""
	if len(history) > 0 {
		msgs := make([]model.Message, len(history))
		copy(msgs, history)
		conv := model.NewConversation(msgs...)
		if ts := msgs[0].Timestamp; !ts.IsZero() {
			conv.Timestamp = ts
		}
		m.convs = []model.Conversation{conv}
	} else {
		m.convs = []model.Conversation{model.NewConversation(model.NewWelcomeMessage(name))}
	}
	m.current = 0
}

// StartNew prepends a conversation holding only the new-chat greeting and
// makes it current.
func (m *Manager) StartNew() model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := model.NewConversation(model.NewChatMessage(m.name))
	m.convs = append([]model.Conversation{conv}, m.convs...)
	m.current = 0
	return conv.Clone()
}

// Select switches the active conversation. Out of range is a no-op.
func (m *Manager) Select(index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.convs) {
		return false
	}
	m.current = index
	return true
}

// Clear replaces the current conversation's messages with the initial
// welcome. Other conversations are untouched.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.convs) == 0 {
		m.convs = []model.Conversation{model.NewConversation(model.NewWelcomeMessage(m.name))}
		m.current = 0
		return
	}
	m.convs[m.current].Messages = []model.Message{model.NewWelcomeMessage(m.name)}
}

// Reset drops every conversation. Used on logout.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.convs = nil
	m.current = 0
	m.name = ""
	m.pending = ""
}

// SetName changes the name used in later greetings.
func (m *Manager) SetName(name string) {
	m.mu.Lock()
	m.name = name
	m.mu.Unlock()
}

// Name returns the greeting name.
func (m *Manager) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// =============================================================================
// MESSAGES
// =============================================================================

// AppendUserMessage adds a user message to the current conversation.
func (m *Manager) AppendUserMessage(text string) model.Message {
	msg := model.NewUserMessage(text)
	m.appendCurrent(msg)
	return msg
}

// AppendUserMessageAt is AppendUserMessage with the position the user sent
// from. Either coordinate may be nil.
func (m *Manager) AppendUserMessageAt(text string, lat, lon *float64) model.Message {
	msg := model.NewUserMessage(text)
	msg.Latitude, msg.Longitude = lat, lon
	m.appendCurrent(msg)
	return msg
}

// BeginAssistantMessage adds an empty assistant message to the current
// conversation. Fragments are later applied by its ID.
func (m *Manager) BeginAssistantMessage() model.Message {
	msg := model.NewAssistantMessage()
	m.appendCurrent(msg)
	return msg
}

func (m *Manager) appendCurrent(msg model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.convs) == 0 {
		m.convs = []model.Conversation{model.NewConversation()}
		m.current = 0
	}
	conv := &m.convs[m.current]
	conv.Messages = append(conv.Messages, msg)
}

// AppendAssistantFragment appends frag to the assistant message with the
// given ID, wherever it lives. Returns false if no such message exists.
func (m *Manager) AppendAssistantFragment(id, frag string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.findLocked(id)
	if msg == nil || msg.Role != model.RoleAssistant {
		return false
	}
	msg.Text += frag
	return true
}

// SetAssistantText replaces the text of the assistant message with the given ID.
func (m *Manager) SetAssistantText(id, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.findLocked(id)
	if msg == nil || msg.Role != model.RoleAssistant {
		return false
	}
	msg.Text = text
	return true
}

// Message returns a copy of the message with the given ID.
func (m *Manager) Message(id string) (model.Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for ci := range m.convs {
		for _, msg := range m.convs[ci].Messages {
			if msg.ID == id {
				return msg, true
			}
		}
	}
	return model.Message{}, false
}

// findLocked returns a pointer into the list. Caller holds the lock.
func (m *Manager) findLocked(id string) *model.Message {
	if id == "" {
		return nil
	}
	for ci := range m.convs {
		msgs := m.convs[ci].Messages
		for mi := len(msgs) - 1; mi >= 0; mi-- {
			if msgs[mi].ID == id {
				return &msgs[mi]
			}
		}
	}
	return nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Conversations returns a deep copy of the list, newest first.
func (m *Manager) Conversations() []model.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Conversation, len(m.convs))
	for i, c := range m.convs {
		out[i] = c.Clone()
	}
	return out
}

// Len returns the number of conversations.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.convs)
}

// CurrentIndex returns the active index.
func (m *Manager) CurrentIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Current returns a copy of the active conversation. ok is false when the
// list is empty.
func (m *Manager) Current() (conv model.Conversation, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.convs) == 0 {
		return model.Conversation{}, false
	}
	return m.convs[m.current].Clone(), true
}

// CurrentMessages returns a copy of the active conversation's messages.
func (m *Manager) CurrentMessages() []model.Message {
	conv, ok := m.Current()
	if !ok {
		return nil
	}
	return conv.Messages
}

// =============================================================================
// IN-FLIGHT REQUEST
// =============================================================================

// Pending returns the ID of the assistant message still streaming, or "".
func (m *Manager) Pending() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending
}

// SetPending marks id as the in-flight message. Pass "" when it completes.
func (m *Manager) SetPending(id string) {
	m.mu.Lock()
	m.pending = id
	m.mu.Unlock()
}

// IsPending reports whether a request is in flight.
func (m *Manager) IsPending() bool {
	return m.Pending() != ""
}
