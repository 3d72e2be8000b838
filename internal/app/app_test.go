// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/apitest"
	"github.com/jeranaias/heritage-tui/internal/config"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/session"
	"github.com/jeranaias/heritage-tui/internal/storage"
	"github.com/jeranaias/heritage-tui/internal/ui/auth"
	"github.com/jeranaias/heritage-tui/internal/ui/chat"
)

func newDeps(t *testing.T) (Deps, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	client, err := api.New(srv.URL)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.UI.Markdown = false
	cfg.UI.Theme = "dark"
	return Deps{
		Client:   client,
		Sessions: session.NewStore(storage.NewMemory()),
		Config:   cfg,
	}, srv
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestNew_NoSessionShowsAuth(t *testing.T) {
	deps, _ := newDeps(t)
	m := New(context.Background(), deps)
	assert.False(t, m.LoggedIn())
	assert.Contains(t, m.View(), "Sign In")
}

func TestNew_RestoresSession(t *testing.T) {
	deps, srv := newDeps(t)
	id := srv.AddUser("Selvi", "selvi@example.com", "secret123")
	require.NoError(t, deps.Sessions.Save(model.Session{UserID: id, Name: "Selvi"}))

	m := New(context.Background(), deps)
	require.True(t, m.LoggedIn())
	assert.Equal(t, id, deps.Client.UserID())
	assert.Equal(t, "Selvi", m.State().Name())
}

func TestAuthSuccess_SavesSessionAndSwitches(t *testing.T) {
	deps, srv := newDeps(t)
	id := srv.AddUser("Selvi", "selvi@example.com", "secret123")
	m := New(context.Background(), deps)

	sess := model.Session{UserID: id, Name: "Selvi", Email: "selvi@example.com"}
	m, cmd := update(t, m, auth.AuthSuccessMsg{Session: sess})
	assert.NotNil(t, cmd, "the shell starts fetching history")
	require.True(t, m.LoggedIn())

	stored, err := deps.Sessions.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, sess, *stored)
	assert.Equal(t, id, deps.Client.UserID())
}

func TestLogout_ClearsEverything(t *testing.T) {
	deps, srv := newDeps(t)
	id := srv.AddUser("Selvi", "selvi@example.com", "secret123")
	require.NoError(t, deps.Sessions.Save(model.Session{UserID: id, Name: "Selvi"}))
	m := New(context.Background(), deps)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.State().StartNew()

	m, _ = update(t, m, chat.LogoutMsg{})
	assert.False(t, m.LoggedIn())
	assert.Zero(t, m.State().Len())
	assert.Empty(t, deps.Client.UserID())

	stored, err := deps.Sessions.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Contains(t, m.View(), "Sign In")
}

func TestConfigChanged_AppliesLanguage(t *testing.T) {
	deps, srv := newDeps(t)
	id := srv.AddUser("Selvi", "selvi@example.com", "secret123")
	require.NoError(t, deps.Sessions.Save(model.Session{UserID: id, Name: "Selvi"}))
	m := New(context.Background(), deps)

	cfg := config.Default()
	cfg.Chat.Language = "hi"
	m, _ = update(t, m, ConfigChangedMsg{Config: cfg})
	assert.Equal(t, model.Language("hi"), m.shell.Language())
}

func TestRoutesKeysToAuthForm(t *testing.T) {
	deps, _ := newDeps(t)
	m := New(context.Background(), deps)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, auth.ModeSignup, m.auth.Mode())
}

func TestRelogin_IgnoresEarlierStream(t *testing.T) {
	deps, srv := newDeps(t)
	id := srv.AddUser("Selvi", "selvi@example.com", "secret123")
	sess := model.Session{UserID: id, Name: "Selvi"}
	empty := chat.HistoryLoadedMsg{Result: api.HistoryResult{Status: api.HistoryEmpty, Messages: []model.Message{}}}
	ask := func(m Model, text string) Model {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		require.True(t, m.State().IsPending())
		return m
	}

	m := New(context.Background(), deps)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, auth.AuthSuccessMsg{Session: sess})
	m, _ = update(t, m, empty)
	m = ask(m, "Thanjavur big temple")
	first := m.State().Pending()

	m, _ = update(t, m, chat.LogoutMsg{})
	require.False(t, m.LoggedIn())
	assert.False(t, m.State().IsPending())

	m, _ = update(t, m, auth.AuthSuccessMsg{Session: sess})
	msgs := m.State().CurrentMessages()
	require.Len(t, msgs, 1, "only the welcome message until history arrives")
	assert.Equal(t, model.WelcomeText("Selvi"), msgs[0].Text)

	m, _ = update(t, m, empty)
	m = ask(m, "Chettinad food")
	second := m.State().Pending()
	require.NotEqual(t, first, second)

	// The earlier request finishes after the new one started.
	m, cmd := update(t, m, chat.StreamFragmentMsg{MessageID: first, Fragment: "Built by Raja Raja"})
	assert.Nil(t, cmd)
	m, cmd = update(t, m, chat.StreamDoneMsg{MessageID: first, Reply: api.Reply{Text: "Built by Raja Raja Chola."}})
	assert.Nil(t, cmd)

	assert.Equal(t, second, m.State().Pending())
	_, found := m.State().Message(first)
	assert.False(t, found, "nothing from before logout survives")
	for _, msg := range m.State().CurrentMessages() {
		assert.NotContains(t, msg.Text, "Raja Raja")
	}

	m, cmd = update(t, m, chat.StreamFragmentMsg{MessageID: second, Fragment: "Spicy."})
	assert.NotNil(t, cmd, "the live stream keeps its listener")
	got, _ := m.State().Message(second)
	assert.Equal(t, "Spicy.", got.Text)
}
