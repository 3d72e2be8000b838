// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/ui/styles"
)

// SubmitTimeout bounds a single login or signup request.
const SubmitTimeout = 30 * time.Second

// =============================================================================
// PORTS AND MESSAGES
// =============================================================================

// Authenticator performs login and signup against the backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Signup(ctx context.Context, name, email, password string) (model.Session, error)
}

// AuthSuccessMsg is sent when the backend accepted the credentials.
type AuthSuccessMsg struct {
	Session model.Session
}

// AuthFailedMsg is sent when the backend refused or could not be reached.
type AuthFailedMsg struct {
	Err error
}

// Mode selects between the login and signup variants of the form.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the form's keyboard bindings.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default form bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "switch login/sign up"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the auth form.
type Model struct {
	auth  Authenticator
	theme *styles.Theme
	keys  KeyMap

	mode       Mode
	inputs     [fieldCount]textinput.Model
	focus      int
	err        string
	submitting bool
	spinner    spinner.Model

	width  int
	height int
}

// New creates a login form.
func New(auth Authenticator, theme *styles.Theme) Model {
	m := Model{
		auth:    auth,
		theme:   theme,
		keys:    DefaultKeyMap(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	placeholders := [fieldCount]string{"Your name", "you@example.com", "At least 6 characters"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		in.Width = 36
		in.Prompt = ""
		m.inputs[i] = in
	}
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldPassword].EchoCharacter = '•'

	m.focus = fieldEmail
	m.inputs[fieldEmail].Focus()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns the current form variant.
func (m Model) Mode() Mode {
	return m.mode
}

// Err returns the inline error, or "" when none is shown.
func (m Model) Err() string {
	return m.err
}

// Submitting reports whether a request is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Reset clears the fields and the error and returns to login mode. The root
// calls it after logout.
func (m Model) Reset() Model {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.err = ""
	m.submitting = false
	m.mode = ModeLogin
	return m.focusField(fieldEmail)
}

// SetSize records the terminal size for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// credentials collects the field values.
func (m Model) credentials() api.Credentials {
	creds := api.Credentials{
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
	if m.mode == ModeSignup {
		creds.Name = strings.TrimSpace(m.inputs[fieldName].Value())
	}
	return creds
}

// fields lists the field indices visible in the current mode.
func (m Model) fields() []int {
	if m.mode == ModeSignup {
		return []int{fieldName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m Model) focusField(field int) Model {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = field
	m.inputs[field].Focus()
	return m
}

// moveFocus steps through the visible fields, wrapping at both ends.
func (m Model) moveFocus(delta int) Model {
	fields := m.fields()
	pos := 0
	for i, f := range fields {
		if f == m.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	return m.focusField(fields[pos])
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles key input and submission results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case AuthFailedMsg:
		m.submitting = false
		m.err = msg.Err.Error()
		return m, nil

	case AuthSuccessMsg:
		m.submitting = false
		m.err = ""
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting && !key.Matches(msg, m.keys.Quit) {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m.toggle(), nil
		case key.Matches(msg, m.keys.Next):
			return m.moveFocus(1), nil
		case key.Matches(msg, m.keys.Prev):
			return m.moveFocus(-1), nil
		case key.Matches(msg, m.keys.Submit):
			fields := m.fields()
			if m.focus != fields[len(fields)-1] {
				return m.moveFocus(1), nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// toggle switches between login and signup, keeping typed values.
func (m Model) toggle() Model {
	if m.mode == ModeLogin {
		m.mode = ModeSignup
		m.err = ""
		return m.focusField(fieldName)
	}
	m.mode = ModeLogin
	m.err = ""
	return m.focusField(fieldEmail)
}

// submit validates locally and starts the request.
func (m Model) submit() (Model, tea.Cmd) {
	creds := m.credentials()
	signup := m.mode == ModeSignup
	if err := creds.Validate(signup); err != nil {
		m.err = err.Error()
		return m, nil
	}

	m.err = ""
	m.submitting = true
	return m, tea.Batch(submitCmd(m.auth, creds, signup), m.spinner.Tick)
}

// submitCmd runs the login or signup request off the update loop.
func submitCmd(auth Authenticator, creds api.Credentials, signup bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), SubmitTimeout)
		defer cancel()

		var (
			sess model.Session
			err  error
		)
		if signup {
			sess, err = auth.Signup(ctx, creds.Name, creds.Email, creds.Password)
		} else {
			sess, err = auth.Login(ctx, creds.Email, creds.Password)
		}
		if err != nil {
			return AuthFailedMsg{Err: err}
		}
		return AuthSuccessMsg{Session: sess}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form centered in the terminal.
func (m Model) View() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.AuthTitle.Render("🛕 Tamil Nadu Heritage AI"))
	b.WriteString("\n")
	if m.mode == ModeSignup {
		b.WriteString(t.AuthHint.Render("Create your account"))
	} else {
		b.WriteString(t.AuthHint.Render("Welcome back! Sign in to continue"))
	}
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Name", "Email", "Password"}
	for _, f := range m.fields() {
		b.WriteString(t.AuthLabel.Render(labels[f]))
		b.WriteString("\n")
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n\n")
	}

	if m.err != "" {
		b.WriteString(t.AuthError.Render("✗ " + m.err))
		b.WriteString("\n\n")
	}

	button := "Sign In"
	if m.mode == ModeSignup {
		button = "Sign Up"
	}
	if m.submitting {
		button = m.spinner.View() + " Please wait..."
	}
	b.WriteString(t.ButtonStyle.Render(button))
	b.WriteString("\n\n")

	other := "Don't have an account? ctrl+t to sign up"
	if m.mode == ModeSignup {
		other = "Already have an account? ctrl+t to sign in"
	}
	b.WriteString(t.AuthHint.Render(other))
	b.WriteString("\n")
	b.WriteString(t.AuthHint.Render("tab next field • enter submit • ctrl+c quit"))

	box := t.AuthBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
