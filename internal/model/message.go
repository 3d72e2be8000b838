// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies who authored a message. The wire name for this field is
// "type" to match the chat history schema served by the backend.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Heritage AI"
	default:
		return string(r)
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message.
//
// Only an assistant message that is still receiving streamed fragments is
// ever mutated; every other message is immutable once created.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"type"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Position the user reported when sending, if any.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// NewID returns a fresh random identifier. IDs never depend on the clock, so
// two messages created in the same instant still get distinct IDs.
func NewID() string {
	return uuid.NewString()
}

// NewMessage creates a message with a generated ID and the current time.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(text string) Message {
	return NewMessage(RoleUser, text)
}

// NewAssistantMessage creates an empty assistant message ready to receive
// streamed fragments.
func NewAssistantMessage() Message {
	return NewMessage(RoleAssistant, "")
}

// HasPosition reports whether both coordinates are set.
func (m Message) HasPosition() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// IsEmpty reports whether the message has no visible text.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == ""
}

// UnmarshalJSON accepts both RFC 3339 timestamps and the zone-less ISO form
// the backend produces (e.g. "2024-05-01T10:20:30.123456"), which is UTC.
func (m *Message) UnmarshalJSON(data []byte) error {
	type wire struct {
		ID        string   `json:"id"`
		Role      Role     `json:"type"`
		Text      string   `json:"text"`
		Timestamp string   `json:"timestamp"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var ts time.Time
	if w.Timestamp != "" {
		parsed, err := ParseTimestamp(w.Timestamp)
		if err != nil {
			return err
		}
		ts = parsed
	}

	*m = Message{
		ID:        w.ID,
		Role:      w.Role,
		Text:      w.Text,
		Timestamp: ts,
		Latitude:  w.Latitude,
		Longitude: w.Longitude,
	}
	return nil
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses the timestamp formats seen on the wire. Values without
// a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", s)
}
