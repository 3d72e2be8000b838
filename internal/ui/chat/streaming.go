// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/jeranaias/heritage-tui/internal/api"
)

const (
	// StreamBufferSize is the capacity of the channel between the stream
	// goroutine and the update loop.
	StreamBufferSize = 64

	// RedrawFPS caps viewport refreshes while a reply streams.
	RedrawFPS = 30
)

// Asker sends one chat query and streams its reply.
type Asker interface {
	Ask(ctx context.Context, q api.Query, onFragment api.FragmentFunc) api.Reply
}

// =============================================================================
// STREAM PIPELINE
// =============================================================================

// startStream runs the request on its own goroutine. Every fragment and then
// one StreamDoneMsg are sent on ch in arrival order, after which ch is
// closed. The returned command reports the start.
func startStream(ctx context.Context, backend Asker, q api.Query, id string, ch chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		go func() {
			defer close(ch)
			reply := backend.Ask(ctx, q, func(fragment string) {
				select {
				case ch <- StreamFragmentMsg{MessageID: id, Fragment: fragment}:
				case <-ctx.Done():
				}
			})
			select {
			case ch <- StreamDoneMsg{MessageID: id, Reply: reply, Duration: time.Since(start)}:
			case <-ctx.Done():
			}
		}()
		return StreamStartMsg{MessageID: id, StartTime: start}
	}
}

// listen waits for the next message on ch. It returns nil once ch is closed,
// so the update loop stops re-issuing it.
func listen(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// =============================================================================
// REDRAW THROTTLE
// =============================================================================

// redrawThrottle limits how often streaming fragments refresh the viewport.
// Fragments are always applied to the chat state; only the redraw is
// deferred. At most one deferred redraw is outstanding.
type redrawThrottle struct {
	limiter   *rate.Limiter
	scheduled bool
}

func newRedrawThrottle(fps int) *redrawThrottle {
	return &redrawThrottle{limiter: rate.NewLimiter(rate.Limit(fps), 1)}
}

// request reports whether to redraw now. When it returns false it may also
// return a command that delivers redrawMsg once the limiter allows.
func (t *redrawThrottle) request() (bool, tea.Cmd) {
	if t.scheduled {
		return false, nil
	}
	if t.limiter.Allow() {
		return true, nil
	}
	t.scheduled = true
	delay := t.limiter.Reserve().Delay()
	return false, tea.Tick(delay, func(time.Time) tea.Msg {
		return redrawMsg{}
	})
}

// fired marks the deferred redraw as delivered.
func (t *redrawThrottle) fired() {
	t.scheduled = false
}
