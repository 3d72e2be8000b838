// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/chatstate"
	"github.com/jeranaias/heritage-tui/internal/device"
	"github.com/jeranaias/heritage-tui/internal/logging"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/ui/components"
	"github.com/jeranaias/heritage-tui/internal/ui/styles"
)

// copyToClipboard is swapped out by tests.
var copyToClipboard = clipboard.WriteAll

// =============================================================================
// PORTS
// =============================================================================

// Backend is the part of the API client the shell uses. *api.Client
// satisfies it.
type Backend interface {
	Asker
	FetchHistory(ctx context.Context) api.HistoryResult
	ClearHistory(ctx context.Context) api.ClearResult
}

// Options configures a new shell.
type Options struct {
	Backend  Backend
	Session  model.Session
	Language model.Language
	Theme    *styles.Theme

	// Optional. Nil values fall back to no-op ports.
	State   *chatstate.Manager
	Locator device.Locator
	Speaker device.Speaker
	Logger  *log.Logger

	// Markdown renders finished replies through glamour.
	Markdown bool
	// SpeakReplies reads every finished reply aloud.
	SpeakReplies bool
	// ExportDir is where /export writes when given no path.
	ExportDir string

	// Context is cancelled on shutdown. In-flight streams stop with it.
	Context context.Context
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat shell.
type Model struct {
	ctx     context.Context
	backend Backend
	state   *chatstate.Manager
	theme   *styles.Theme
	keys    KeyMap
	logger  *log.Logger

	session  model.Session
	language model.Language
	locator  device.Locator
	speaker  device.Speaker

	markdown     bool
	speakReplies bool
	exportDir    string

	// Components
	header   *components.Header
	sidebar  *components.Sidebar
	status   *components.StatusBar
	renderer components.TextRenderer

	// Widgets
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	help     help.Model

	// Streaming. Messages for any other ID belong to an abandoned stream.
	stream       <-chan tea.Msg
	streamID     string
	cancelStream context.CancelFunc
	throttle     *redrawThrottle

	loading        bool
	sidebarFocused bool
	showHelp       bool
	noticeSeq      int

	width     int
	height    int
	mainWidth int
}

// StopStream cancels the live request, if any, and stops listening for it.
// The reply keeps whatever text it had.
func (m *Model) StopStream() {
	if m.cancelStream != nil {
		m.cancelStream()
	}
	m.stream, m.streamID, m.cancelStream = nil, "", nil
}

// New creates the shell. The history is fetched by Init.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme("auto")
	}
	if opts.State == nil {
		opts.State = chatstate.New(opts.Session.Name)
	}
	if opts.Locator == nil {
		opts.Locator = device.NoLocator{}
	}
	if opts.Speaker == nil {
		opts.Speaker = device.NoSpeaker{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if !opts.Language.Valid() {
		opts.Language = model.DefaultLanguage
	}

	keys := DefaultKeyMap()

	input := textarea.New()
	input.Placeholder = "Ask about temples, forts, food, festivals..."
	input.ShowLineNumbers = false
	input.CharLimit = 4000
	input.SetHeight(2)
	input.Prompt = "┃ "
	input.KeyMap.InsertNewline = keys.Newline
	input.Focus()

	m := Model{
		ctx:          opts.Context,
		backend:      opts.Backend,
		state:        opts.State,
		theme:        opts.Theme,
		keys:         keys,
		logger:       opts.Logger,
		session:      opts.Session,
		language:     opts.Language,
		locator:      opts.Locator,
		speaker:      opts.Speaker,
		markdown:     opts.Markdown,
		speakReplies: opts.SpeakReplies,
		exportDir:    opts.ExportDir,
		header:       components.NewHeader(opts.Theme),
		sidebar:      components.NewSidebar(opts.Theme),
		status:       components.NewStatusBar(opts.Theme),
		viewport:     viewport.New(80, 20),
		input:        input,
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:         help.New(),
		throttle:     newRedrawThrottle(RedrawFPS),
		loading:      true,
	}

	m.header.SetUser(opts.Session.Name)
	m.header.SetLanguage(m.language)
	m.status.Hints = keys.hints()

	// Show the welcome message while the history loads.
	m.state.LoadInitial(nil, opts.Session.Name)
	m.resize(80, 24)
	return m
}

// Init fetches the server history.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadHistoryCmd())
}

func (m Model) loadHistoryCmd() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return HistoryLoadedMsg{Result: backend.FetchHistory(ctx)}
	}
}

// State returns the chat state the shell renders.
func (m Model) State() *chatstate.Manager {
	return m.state
}

// Language returns the reply language.
func (m Model) Language() model.Language {
	return m.language
}

// Loading reports whether the startup history fetch is still running.
func (m Model) Loading() bool {
	return m.loading
}

// SetSpeakReplies turns automatic reading of replies on or off.
func (m *Model) SetSpeakReplies(on bool) {
	m.speakReplies = on
}

// SetLanguage changes the reply language for later queries.
func (m *Model) SetLanguage(lang model.Language) {
	if !lang.Valid() {
		return
	}
	m.language = lang
	m.header.SetLanguage(lang)
}

// isAdvisory reports whether text is one of the failure advisories.
func isAdvisory(text string) bool {
	switch text {
	case api.AdvisoryUnauthenticated, api.AdvisoryUnreachable, api.AdvisoryFailed:
		return true
	}
	return false
}

// matches is a short alias for key.Matches.
func matches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}
