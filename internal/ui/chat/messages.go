// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/heritage-tui/internal/api"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a reply has been requested.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamFragmentMsg delivers one fragment of the reply with MessageID.
type StreamFragmentMsg struct {
	MessageID string
	Fragment  string
}

// StreamDoneMsg signals that the stream for MessageID has ended. Reply holds
// the assembled text, or an advisory when Reply.Err is set.
type StreamDoneMsg struct {
	MessageID string
	Reply     api.Reply
	Duration  time.Duration
}

// redrawMsg fires when a throttled viewport refresh is due.
type redrawMsg struct{}

// =============================================================================
// BACKEND RESULTS
// =============================================================================

// HistoryLoadedMsg carries the server history fetched at startup.
type HistoryLoadedMsg struct {
	Result api.HistoryResult
}

// HistoryClearedMsg carries the outcome of /clear.
type HistoryClearedMsg struct {
	Result api.ClearResult
}

// =============================================================================
// SHELL EVENTS
// =============================================================================

// LogoutMsg asks the application root to end the session.
type LogoutMsg struct{}

// NoticeMsg shows a transient message in the status bar.
type NoticeMsg struct {
	Text    string
	IsError bool
}

// clearNoticeMsg hides the notice with the given sequence number. Later
// notices are left alone.
type clearNoticeMsg struct {
	seq int
}

// spokenMsg reports that speaking a reply has finished.
type spokenMsg struct {
	err error
}
