// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/heritage-tui/internal/api"
)

type scriptedAsker struct {
	fragments []string
	query     api.Query
}

func (a *scriptedAsker) Ask(_ context.Context, q api.Query, onFragment api.FragmentFunc) api.Reply {
	a.query = q
	text := ""
	for _, f := range a.fragments {
		onFragment(f)
		text += f
	}
	return api.Reply{Text: text}
}

func TestStartStream_DeliversInOrderThenCloses(t *testing.T) {
	asker := &scriptedAsker{fragments: []string{"Mahabalipuram ", "is ", "by the sea."}}
	ch := make(chan tea.Msg, StreamBufferSize)

	start := startStream(context.Background(), asker, api.Query{Text: "shore temple"}, "m1", ch)()
	started, ok := start.(StreamStartMsg)
	require.True(t, ok, "got %T", start)
	assert.Equal(t, "m1", started.MessageID)

	var got []string
	for {
		msg := listen(ch)()
		if msg == nil {
			break
		}
		switch msg := msg.(type) {
		case StreamFragmentMsg:
			assert.Equal(t, "m1", msg.MessageID)
			got = append(got, msg.Fragment)
		case StreamDoneMsg:
			assert.Equal(t, "Mahabalipuram is by the sea.", msg.Reply.Text)
			assert.False(t, msg.Reply.Advisory())
		default:
			t.Fatalf("unexpected %T", msg)
		}
	}
	assert.Equal(t, asker.fragments, got)
	assert.Equal(t, "shore temple", asker.query.Text)
}

func TestListen_NilChannel(t *testing.T) {
	assert.Nil(t, listen(nil))
}

func TestRedrawThrottle(t *testing.T) {
	th := newRedrawThrottle(1)

	now, cmd := th.request()
	assert.True(t, now)
	assert.Nil(t, cmd)

	now, cmd = th.request()
	assert.False(t, now)
	assert.NotNil(t, cmd, "a deferred redraw is scheduled")

	now, cmd = th.request()
	assert.False(t, now)
	assert.Nil(t, cmd, "only one deferred redraw at a time")

	th.fired()
	assert.False(t, th.scheduled)
}
