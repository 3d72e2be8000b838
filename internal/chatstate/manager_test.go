// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatstate

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/heritage-tui/internal/model"
)

func loaded(t *testing.T) *Manager {
	t.Helper()
	m := New("Priya")
	m.LoadInitial(nil, "Priya")
	return m
}

func TestLoadInitial_Empty(t *testing.T) {
	m := loaded(t)

	require.Equal(t, 1, m.Len())
	assert.Equal(t, 0, m.CurrentIndex())
	msgs := m.CurrentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleAssistant, msgs[0].Role)
	assert.Equal(t, model.WelcomeText("Priya"), msgs[0].Text)
}

func TestLoadInitial_History(t *testing.T) {
	history := []model.Message{
		model.NewUserMessage("Tell me about Madurai"),
		model.NewMessage(model.RoleAssistant, "Madurai is home to Meenakshi Amman Temple."),
	}
	m := New("Priya")
	m.LoadInitial(history, "Priya")

	require.Equal(t, 1, m.Len())
	msgs := m.CurrentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, history[0].ID, msgs[0].ID)

	// The manager holds its own copy.
	history[0].Text = "changed"
	assert.Equal(t, "Tell me about Madurai", m.CurrentMessages()[0].Text)
}

func TestSelect(t *testing.T) {
	m := loaded(t)
	m.StartNew()
	m.StartNew()
	require.Equal(t, 3, m.Len())

	tests := []struct {
		index int
		ok    bool
		want  int
	}{
		{2, true, 2},
		{3, false, 2},
		{-1, false, 2},
		{0, true, 0},
		{100, false, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, m.Select(tt.index), "Select(%d)", tt.index)
		assert.Equal(t, tt.want, m.CurrentIndex())
	}
}

func TestStartNew(t *testing.T) {
	m := loaded(t)
	m.Select(0)
	first, _ := m.Current()

	conv := m.StartNew()

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 0, m.CurrentIndex())
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, model.NewChatText("Priya"), conv.Messages[0].Text)
	assert.Equal(t, first.ID, m.Conversations()[1].ID, "new conversations are prepended")
}

func TestAppendUserMessageAt(t *testing.T) {
	m := loaded(t)
	lat, lon := 10.7828, 79.1318

	msg := m.AppendUserMessageAt("Tell me about Thanjavur", &lat, &lon)
	assert.True(t, msg.HasPosition())

	msgs := m.CurrentMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, lat, *msgs[1].Latitude)
	assert.Equal(t, lon, *msgs[1].Longitude)
}

func TestFragmentsConcatenate(t *testing.T) {
	m := loaded(t)
	m.AppendUserMessage("Forts near Chennai?")
	reply := m.BeginAssistantMessage()
	assert.Empty(t, reply.Text)
	assert.NotEmpty(t, reply.ID)

	for _, frag := range []string{"Vellore ", "Fort ", "and ", "Gingee Fort."} {
		require.True(t, m.AppendAssistantFragment(reply.ID, frag))
	}

	got, ok := m.Message(reply.ID)
	require.True(t, ok)
	assert.Equal(t, "Vellore Fort and Gingee Fort.", got.Text)
}

func TestFragmentAfterSwitch(t *testing.T) {
	m := loaded(t)
	m.AppendUserMessage("first question")
	reply := m.BeginAssistantMessage()
	m.AppendAssistantFragment(reply.ID, "part one ")

	m.StartNew()
	require.Equal(t, 0, m.CurrentIndex())

	require.True(t, m.AppendAssistantFragment(reply.ID, "part two"))

	// The new conversation is untouched.
	cur := m.CurrentMessages()
	require.Len(t, cur, 1)
	assert.Equal(t, model.NewChatText("Priya"), cur[0].Text)

	old := m.Conversations()[1]
	last, ok := old.LastAssistantMessage()
	require.True(t, ok)
	assert.Equal(t, "part one part two", last.Text)
}

func TestFragmentRejected(t *testing.T) {
	m := loaded(t)
	user := m.AppendUserMessage("hello")

	assert.False(t, m.AppendAssistantFragment(user.ID, "x"), "user messages are immutable")
	assert.False(t, m.AppendAssistantFragment("missing", "x"))
	assert.False(t, m.AppendAssistantFragment("", "x"))
	assert.False(t, m.SetAssistantText(user.ID, "x"))
}

func TestSetAssistantText(t *testing.T) {
	m := loaded(t)
	reply := m.BeginAssistantMessage()
	m.AppendAssistantFragment(reply.ID, "partial")

	require.True(t, m.SetAssistantText(reply.ID, "Please login to use the chat feature."))
	got, _ := m.Message(reply.ID)
	assert.Equal(t, "Please login to use the chat feature.", got.Text)
}

func TestClear(t *testing.T) {
	m := loaded(t)
	m.AppendUserMessage("in the old conversation")
	m.StartNew()
	m.AppendUserMessage("temple question")
	m.BeginAssistantMessage()

	m.Clear()

	cur := m.CurrentMessages()
	require.Len(t, cur, 1)
	assert.Equal(t, model.WelcomeText("Priya"), cur[0].Text)

	other := m.Conversations()[1]
	assert.Len(t, other.Messages, 2, "other conversations untouched")
}

func TestReset(t *testing.T) {
	m := loaded(t)
	m.StartNew()
	m.SetPending(m.BeginAssistantMessage().ID)

	m.Reset()

	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.CurrentMessages())
	assert.False(t, m.IsPending())
	assert.Empty(t, m.Name())
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestSetName(t *testing.T) {
	m := loaded(t)
	m.SetName("Arun")
	conv := m.StartNew()
	assert.True(t, strings.Contains(conv.Messages[0].Text, "Arun"))
}

func TestSnapshotsAreCopies(t *testing.T) {
	m := loaded(t)
	msgs := m.CurrentMessages()
	msgs[0].Text = "mutated"

	convs := m.Conversations()
	convs[0].Messages[0].Text = "mutated"

	assert.Equal(t, model.WelcomeText("Priya"), m.CurrentMessages()[0].Text)
}

func TestPending(t *testing.T) {
	m := loaded(t)
	assert.False(t, m.IsPending())

	reply := m.BeginAssistantMessage()
	m.SetPending(reply.ID)
	assert.True(t, m.IsPending())
	assert.Equal(t, reply.ID, m.Pending())

	m.SetPending("")
	assert.False(t, m.IsPending())
}

func TestConcurrentFragments(t *testing.T) {
	m := loaded(t)
	reply := m.BeginAssistantMessage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AppendAssistantFragment(reply.ID, "a")
			_ = m.Conversations()
		}()
	}
	wg.Wait()

	got, _ := m.Message(reply.ID)
	assert.Len(t, got.Text, 50)
}
