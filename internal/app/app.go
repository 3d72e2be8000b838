// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/chatstate"
	"github.com/jeranaias/heritage-tui/internal/config"
	"github.com/jeranaias/heritage-tui/internal/device"
	"github.com/jeranaias/heritage-tui/internal/logging"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/session"
	"github.com/jeranaias/heritage-tui/internal/ui/auth"
	"github.com/jeranaias/heritage-tui/internal/ui/chat"
	"github.com/jeranaias/heritage-tui/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps are the collaborators the application needs.
type Deps struct {
	Client   *api.Client
	Sessions *session.Store
	Config   *config.Config

	// Optional.
	Logger     *log.Logger
	Locator    device.Locator
	Speaker    device.Speaker
	ConfigPath string // watched for changes while running
	ExportDir  string
}

// ConfigChangedMsg carries a reloaded configuration.
type ConfigChangedMsg struct {
	Config *config.Config
}

type screen int

const (
	screenAuth screen = iota
	screenChat
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model.
type Model struct {
	ctx    context.Context
	deps   Deps
	theme  *styles.Theme
	state  *chatstate.Manager
	logger *log.Logger

	screen screen
	auth   auth.Model
	shell  chat.Model

	width  int
	height int
}

// New builds the root model and restores a saved session when there is
// one. A session that cannot be read is treated as logged out.
func New(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Locator == nil {
		deps.Locator = device.NewLocator(deps.Config.Chat.Latitude, deps.Config.Chat.Longitude)
	}
	if deps.Speaker == nil {
		deps.Speaker = device.NoSpeaker{}
	}

	theme := styles.NewTheme(deps.Config.UI.Theme)
	m := Model{
		ctx:    ctx,
		deps:   deps,
		theme:  theme,
		state:  chatstate.New(""),
		logger: deps.Logger,
		auth:   auth.New(deps.Client, theme),
	}

	sess, err := deps.Sessions.Load()
	if err != nil {
		m.logger.Warn("could not restore session", "err", err)
	}
	if sess != nil {
		m.logger.Info("session restored", "user", sess.UserID)
		m.startShell(*sess)
	}
	return m
}

// Init starts the visible screen.
func (m Model) Init() tea.Cmd {
	if m.screen == screenChat {
		return m.shell.Init()
	}
	return m.auth.Init()
}

// LoggedIn reports whether the chat shell is showing.
func (m Model) LoggedIn() bool {
	return m.screen == screenChat
}

// State returns the chat state shared with the shell.
func (m Model) State() *chatstate.Manager {
	return m.state
}

func (m *Model) startShell(sess model.Session) {
	m.deps.Client.SetUserID(sess.UserID)
	m.state.SetName(sess.Name)
	m.shell = chat.New(chat.Options{
		Backend:      m.deps.Client,
		Session:      sess,
		Language:     m.deps.Config.Language(),
		Theme:        m.theme,
		State:        m.state,
		Locator:      m.deps.Locator,
		Speaker:      m.deps.Speaker,
		Logger:       m.logger,
		Markdown:     m.deps.Config.UI.Markdown,
		SpeakReplies: m.deps.Config.UI.SpeakReplies,
		ExportDir:    m.deps.ExportDir,
		Context:      m.ctx,
	})
	if m.width > 0 {
		m.shell, _ = m.shell.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	m.screen = screenChat
}

// logout drops every conversation and the persisted session.
func (m *Model) logout() {
	m.shell.StopStream()
	m.state.Reset()
	if err := m.deps.Sessions.Clear(); err != nil {
		m.logger.Error("clearing session", "err", err)
	}
	m.deps.Client.SetUserID("")
	m.auth = m.auth.Reset()
	m.auth.SetSize(m.width, m.height)
	m.screen = screenAuth
	m.logger.Info("logged out")
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the visible screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.auth.SetSize(msg.Width, msg.Height)
		if m.screen == screenChat {
			m.shell, cmd = m.shell.Update(msg)
		}
		return m, cmd

	case auth.AuthSuccessMsg:
		m.auth, _ = m.auth.Update(msg)
		if err := m.deps.Sessions.Save(msg.Session); err != nil {
			m.logger.Error("saving session", "err", errors.Cause(err))
		}
		m.logger.Info("signed in", "user", msg.Session.UserID)
		m.startShell(msg.Session)
		return m, m.shell.Init()

	case chat.LogoutMsg:
		m.logout()
		return m, m.auth.Init()

	case ConfigChangedMsg:
		m.applyConfig(msg.Config)
		return m, nil
	}

	if m.screen == screenChat {
		m.shell, cmd = m.shell.Update(msg)
		return m, cmd
	}
	m.auth, cmd = m.auth.Update(msg)
	return m, cmd
}

// applyConfig takes the settings that can change while running.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.deps.Config = cfg
	m.logger.Info("config reloaded")
	if m.screen == screenChat {
		m.shell.SetLanguage(cfg.Language())
		m.shell.SetSpeakReplies(cfg.UI.SpeakReplies)
	}
}

// View renders the visible screen.
func (m Model) View() string {
	if m.screen == screenChat {
		return m.shell.View()
	}
	return m.auth.View()
}

// =============================================================================
// RUN
// =============================================================================

// Run starts the full-screen program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))

	if deps.ConfigPath != "" {
		err := config.Watch(ctx, deps.ConfigPath, func(cfg *config.Config, err error) {
			if err != nil {
				if deps.Logger != nil {
					deps.Logger.Warn("config reload failed", "err", err)
				}
				return
			}
			p.Send(ConfigChangedMsg{Config: cfg})
		})
		if err != nil && deps.Logger != nil {
			deps.Logger.Warn("config watch unavailable", "err", err)
		}
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "running terminal UI")
	}
	return nil
}
