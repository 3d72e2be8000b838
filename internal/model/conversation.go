// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/jeranaias/heritage-tui/internal/util"
)

// PreviewLength is the number of runes of the first user message shown in
// the sidebar.
const PreviewLength = 30

// Conversation groups an ordered list of messages under one sidebar entry.
type Conversation struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// NewConversation creates a conversation holding the given messages.
func NewConversation(msgs ...Message) Conversation {
	return Conversation{
		ID:        NewID(),
		Timestamp: time.Now(),
		Messages:  msgs,
	}
}

// Clone returns a deep copy whose message slice can be modified freely.
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// FirstUserMessage returns the first message authored by the user.
func (c Conversation) FirstUserMessage() (Message, bool) {
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			return m, true
		}
	}
	return Message{}, false
}

// LastAssistantMessage returns the most recent non-empty assistant reply.
func (c Conversation) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		if m.Role == RoleAssistant && !m.IsEmpty() {
			return m, true
		}
	}
	return Message{}, false
}

// Preview returns the sidebar title: the first PreviewLength runes of the
// first user message, or "New Chat" when the user has not said anything yet.
func (c Conversation) Preview() string {
	first, ok := c.FirstUserMessage()
	if !ok {
		return "New Chat"
	}
	return util.TruncateRunes(first.Text, PreviewLength)
}

// DateLabel formats the conversation timestamp like "Jan 2".
func (c Conversation) DateLabel() string {
	if c.Timestamp.IsZero() {
		return ""
	}
	return c.Timestamp.Local().Format("Jan 2")
}

// Category returns the sidebar category for the conversation, derived from
// its first user message.
func (c Conversation) Category() string {
	first, ok := c.FirstUserMessage()
	if !ok {
		return CategoryRecent
	}
	return Categorize(first.Text)
}

// =============================================================================
// CATEGORIES
// =============================================================================

const (
	// CategoryRecent labels conversations the user has not written in yet.
	CategoryRecent = "Recent"
	// CategoryDefault labels conversations that match no keyword.
	CategoryDefault = "💬 Chats"
)

// Category pairs a sidebar label with the words that select it. Every
// category lists the English keyword followed by its Tamil and Hindi
// equivalents.
type Category struct {
	Label    string
	Keywords []string
}

// Categories are checked in order; the first match wins.
var Categories = []Category{
	{"🏛️ Temples", []string{"temple", "கோயில்", "मंदिर"}},
	{"🏰 Forts", []string{"fort", "கோட்டை", "किला"}},
	{"🖼️ Museums", []string{"museum", "அருங்காட்சியகம்", "संग्रहालय"}},
	{"📿 Monuments", []string{"monument", "நினைவுச்சின்னம்", "स्मारक"}},
	{"🏖️ Beaches", []string{"beach", "கடற்கரை", "समुद्र तट"}},
	{"🗺️ Routes", []string{"route", "பாதை", "मार्ग"}},
	{"🍲 Food", []string{"food", "உணவு", "சமையல்", "भोजन", "खाना"}},
	{"🎉 Festivals", []string{"festival", "திருவிழா", "त्योहार"}},
}

// Categorize returns the label of the first category whose keyword appears
// in text, or CategoryDefault.
func Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Label
			}
		}
	}
	return CategoryDefault
}
