// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/heritage-tui/internal/api"
	"github.com/jeranaias/heritage-tui/internal/device"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/ui/styles"
)

// fakeBackend answers every call from canned values.
type fakeBackend struct {
	scriptedAsker
	history api.HistoryResult
	clear   api.ClearResult
	cleared int
}

func (f *fakeBackend) FetchHistory(context.Context) api.HistoryResult {
	return f.history
}

func (f *fakeBackend) ClearHistory(context.Context) api.ClearResult {
	f.cleared++
	return f.clear
}

type recordingSpeaker struct {
	spoken []string
	err    error
}

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.spoken = append(s.spoken, text)
	return s.err
}

func newShell(t *testing.T, backend *fakeBackend, mutate ...func(*Options)) Model {
	t.Helper()
	opts := Options{
		Backend: backend,
		Session: model.Session{UserID: "u1", Name: "Kavya"},
		Theme:   styles.NewTheme("dark"),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m := New(opts)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// ready is a shell whose history fetch came back empty.
func ready(t *testing.T, backend *fakeBackend, mutate ...func(*Options)) Model {
	t.Helper()
	m := newShell(t, backend, mutate...)
	m, _ = m.Update(HistoryLoadedMsg{Result: api.HistoryResult{Status: api.HistoryEmpty, Messages: []model.Message{}}})
	return m
}

func enter(m Model, text string) (Model, tea.Cmd) {
	m.input.SetValue(text)
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestNew_ShowsWelcomeWhileLoading(t *testing.T) {
	m := newShell(t, &fakeBackend{})
	assert.True(t, m.Loading())

	msgs := m.State().CurrentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.WelcomeText("Kavya"), msgs[0].Text)
	assert.Contains(t, m.View(), "Tamil Nadu Heritage AI")
}

func TestInit_FetchesHistory(t *testing.T) {
	backend := &fakeBackend{history: api.HistoryResult{Status: api.HistoryOK, Messages: []model.Message{
		model.NewUserMessage("Which fort is in Vellore?"),
		model.NewMessage(model.RoleAssistant, "Vellore Fort."),
	}}}
	m := newShell(t, backend)

	msg := m.loadHistoryCmd()()
	loaded, ok := msg.(HistoryLoadedMsg)
	require.True(t, ok, "got %T", msg)

	m, _ = m.Update(loaded)
	assert.False(t, m.Loading())
	assert.Len(t, m.State().CurrentMessages(), 2)
	assert.Empty(t, m.status.Notice)
}

func TestHistoryFailure_ShowsNotice(t *testing.T) {
	m := newShell(t, &fakeBackend{})
	m, _ = m.Update(HistoryLoadedMsg{Result: api.HistoryResult{Status: api.HistoryFailed, Messages: []model.Message{}, Err: errors.New("down")}})

	assert.False(t, m.Loading())
	assert.True(t, m.status.IsError)
	require.Len(t, m.State().CurrentMessages(), 1, "falls back to the welcome message")
}

func TestSubmit_RefusedWhileLoading(t *testing.T) {
	m := newShell(t, &fakeBackend{})
	m, _ = enter(m, "hello")
	assert.False(t, m.State().IsPending())
	assert.Contains(t, m.status.Notice, "loading")
}

func TestSubmit_StreamsIntoAssistantMessage(t *testing.T) {
	lat, lon := 9.9252, 78.1198
	m := ready(t, &fakeBackend{}, func(o *Options) {
		o.Locator = device.NewLocator(&lat, &lon)
		o.Language = model.Language("ta")
	})

	m, cmd := enter(m, "  Meenakshi temple timings  ")
	require.NotNil(t, cmd)
	require.True(t, m.State().IsPending())
	assert.Empty(t, m.input.Value())

	msgs := m.State().CurrentMessages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Meenakshi temple timings", msgs[1].Text)
	require.True(t, msgs[1].HasPosition())
	assert.Equal(t, lat, *msgs[1].Latitude)
	reply := msgs[2]
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, reply.ID, m.State().Pending())

	m, _ = m.Update(StreamFragmentMsg{MessageID: reply.ID, Fragment: "Open "})
	m, _ = m.Update(StreamFragmentMsg{MessageID: reply.ID, Fragment: "5am to 12:30pm."})
	got, _ := m.State().Message(reply.ID)
	assert.Equal(t, "Open 5am to 12:30pm.", got.Text)

	m, _ = m.Update(StreamDoneMsg{MessageID: reply.ID, Reply: api.Reply{Text: "Open 5am to 12:30pm."}})
	assert.False(t, m.State().IsPending())
	assert.Nil(t, m.stream)
}

func TestSubmit_RefusedWhilePending(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = enter(m, "first")
	before := len(m.State().CurrentMessages())

	m, _ = enter(m, "second")
	assert.Len(t, m.State().CurrentMessages(), before)
	assert.Contains(t, m.status.Notice, "wait")
	assert.Equal(t, "second", m.input.Value(), "input is kept for later")
}

func TestSubmit_BlankIgnored(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, cmd := enter(m, "   ")
	assert.Nil(t, cmd)
	assert.Len(t, m.State().CurrentMessages(), 1)
}

func TestStreamDone_Advisory(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = enter(m, "hi")
	id := m.State().Pending()

	m, _ = m.Update(StreamFragmentMsg{MessageID: id, Fragment: "partial"})
	m, _ = m.Update(StreamDoneMsg{MessageID: id, Reply: api.Reply{Text: api.AdvisoryUnreachable, Err: errors.New("refused")}})

	got, _ := m.State().Message(id)
	assert.Equal(t, api.AdvisoryUnreachable, got.Text, "partial text is replaced")
	assert.False(t, m.State().IsPending())
	assert.Contains(t, m.View(), "couldn't connect")
}

func TestFragmentsFollowMessageAfterNewChat(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = enter(m, "Chettinad food")
	id := m.State().Pending()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Equal(t, 2, m.State().Len())
	assert.Equal(t, 0, m.State().CurrentIndex())

	m, _ = m.Update(StreamFragmentMsg{MessageID: id, Fragment: "Try the pepper chicken."})
	got, ok := m.State().Message(id)
	require.True(t, ok)
	assert.Equal(t, "Try the pepper chicken.", got.Text)
	assert.Len(t, m.State().CurrentMessages(), 1, "the new chat is untouched")
}

func TestSelectConversation(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Equal(t, 3, m.State().Len())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlDown})
	assert.Equal(t, 1, m.State().CurrentIndex())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlUp})
	assert.Equal(t, 0, m.State().CurrentIndex(), "selection stops at the top")
}

func TestSidebarFocus(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.sidebarFocused)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Equal(t, 1, m.State().CurrentIndex())
	assert.Empty(t, m.input.Value(), "keys do not reach the input")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.sidebarFocused)
}

func TestSidebarFocus_NarrowIgnored(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 50, Height: 30})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.sidebarFocused)
}

func TestLanguageCycle(t *testing.T) {
	m := ready(t, &fakeBackend{})
	start := m.Language()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, start.Next(), m.Language())
}

func TestCopyLastReply(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	m := ready(t, &fakeBackend{})
	m, _ = enter(m, "hi")
	id := m.State().Pending()
	m, _ = m.Update(StreamDoneMsg{MessageID: id, Reply: api.Reply{Text: "Vanakkam!"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Vanakkam!", copied)
	assert.Contains(t, m.status.Notice, "copied")
}

func TestCopy_SkipsAdvisory(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	m := ready(t, &fakeBackend{})
	m, _ = enter(m, "hi")
	id := m.State().Pending()
	m, _ = m.Update(StreamDoneMsg{MessageID: id, Reply: api.Reply{Text: api.AdvisoryFailed, Err: errors.New("x")}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.NotEqual(t, api.AdvisoryFailed, copied)
	assert.Equal(t, model.WelcomeText("Kavya"), copied, "falls back to the previous assistant message")
}

func TestSpeakReplies(t *testing.T) {
	speaker := &recordingSpeaker{}
	m := ready(t, &fakeBackend{}, func(o *Options) {
		o.Speaker = speaker
		o.SpeakReplies = true
	})
	m, _ = enter(m, "hi")
	id := m.State().Pending()

	m, cmd := m.Update(StreamDoneMsg{MessageID: id, Reply: api.Reply{Text: "வணக்கம்"}})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, spokenMsg{}, msg)
	assert.Equal(t, []string{"வணக்கம்"}, speaker.spoken)

	m, _ = m.Update(spokenMsg{err: device.ErrUnsupported})
	assert.Contains(t, m.status.Notice, "not available")
}

func TestNoticeExpiresBySequence(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = m.Update(NoticeMsg{Text: "one"})
	first := m.noticeSeq
	m, _ = m.Update(NoticeMsg{Text: "two"})

	m, _ = m.Update(clearNoticeMsg{seq: first})
	assert.Equal(t, "two", m.status.Notice, "a stale timer leaves the newer notice")

	m, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq})
	assert.Empty(t, m.status.Notice)
}

func TestView_NarrowHidesSidebar(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 50, Height: 30})
	assert.NotContains(t, m.View(), "💬 Chats")

	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.Contains(t, m.View(), "💬 Chats")
}

func TestHelpView(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = enter(m, "/help")
	require.True(t, m.showHelp)

	view := m.View()
	for _, c := range commandTable() {
		assert.True(t, strings.Contains(view, "/"+c.Name), "help lists /%s", c.Name)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestExportCommand_WritesFile(t *testing.T) {
	dir := t.TempDir()
	m := ready(t, &fakeBackend{})
	path := filepath.Join(dir, "trip.json")

	_, cmd := enter(m, "/export "+path)
	require.NotNil(t, cmd)
	msg := cmd()
	notice, ok := msg.(NoticeMsg)
	require.True(t, ok, "got %T", msg)
	assert.False(t, notice.IsError, notice.Text)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"messages"`)
}

func TestStaleStreamMessages_LeaveLiveStreamAlone(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m, _ = enter(m, "Kanchipuram silk")
	id := m.State().Pending()
	live := m.stream
	require.NotNil(t, live)

	m, cmd := m.Update(StreamFragmentMsg{MessageID: "earlier-reply", Fragment: "old"})
	assert.Nil(t, cmd, "no second listener for an abandoned stream")

	m, cmd = m.Update(StreamDoneMsg{MessageID: "earlier-reply", Reply: api.Reply{Text: "old"}})
	assert.Nil(t, cmd)
	assert.Equal(t, id, m.State().Pending())
	assert.True(t, m.stream == live, "still listening to the live stream")

	m, cmd = m.Update(StreamFragmentMsg{MessageID: id, Fragment: "Weaving town."})
	assert.NotNil(t, cmd, "the live stream is re-listened")

	m, _ = m.Update(StreamDoneMsg{MessageID: id, Reply: api.Reply{Text: "Weaving town."}})
	assert.False(t, m.State().IsPending())
	assert.Nil(t, m.stream)
	got, _ := m.State().Message(id)
	assert.Equal(t, "Weaving town.", got.Text)
}

// blockingBackend holds every request open until its context ends.
type blockingBackend struct {
	fakeBackend
	started  chan struct{}
	released chan error
}

func (b *blockingBackend) Ask(ctx context.Context, _ api.Query, _ api.FragmentFunc) api.Reply {
	close(b.started)
	<-ctx.Done()
	b.released <- ctx.Err()
	return api.Reply{Text: api.AdvisoryFailed, Err: ctx.Err()}
}

func TestStopStream_CancelsRequest(t *testing.T) {
	backend := &blockingBackend{started: make(chan struct{}), released: make(chan error, 1)}
	m := ready(t, &fakeBackend{}, func(o *Options) { o.Backend = backend })

	m, cmd := enter(m, "Gangaikonda Cholapuram")
	require.NotNil(t, cmd)
	ch := m.stream
	require.NotNil(t, ch)

	// Run the batch the way the runtime would; the listener blocks until
	// the stream's channel closes.
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c != nil {
			go c()
		}
	}

	select {
	case <-backend.started:
	case <-time.After(2 * time.Second):
		t.Fatal("request never started")
	}

	m.StopStream()
	assert.Nil(t, m.stream)
	select {
	case err := <-backend.released:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not cancelled")
	}

	// The goroutine exits and closes the channel instead of blocking on send.
	for range ch {
	}
}
