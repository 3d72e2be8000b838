// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// HistoryStatus distinguishes "nothing stored yet" from "could not ask".
type HistoryStatus int

const (
	// HistoryFailed means the server could not be reached or refused.
	HistoryFailed HistoryStatus = iota
	// HistoryEmpty means the server answered with no messages.
	HistoryEmpty
	// HistoryOK means at least one message was returned.
	HistoryOK
)

// String returns a short name for logs and CLI output.
func (s HistoryStatus) String() string {
	switch s {
	case HistoryOK:
		return "ok"
	case HistoryEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// HistoryResult is the outcome of FetchHistory. It never carries a nil
// slice, so callers that do not care about Status can use Messages directly.
type HistoryResult struct {
	Status   HistoryStatus
	Messages []model.Message
	Total    int
	Err      error
}

// Failed reports whether the fetch did not reach a usable answer.
func (r HistoryResult) Failed() bool {
	return r.Status == HistoryFailed
}

type historyResponse struct {
	Messages   []model.Message `json:"messages"`
	TotalCount int             `json:"total_count"`
}

// FetchHistory loads the server-persisted message log, oldest first.
// Failures degrade to an empty result; they are never returned as errors.
func (c *Client) FetchHistory(ctx context.Context) HistoryResult {
	req, err := c.newRequest(ctx, http.MethodGet, "/chat/history", nil, true)
	if err != nil {
		return HistoryResult{Status: HistoryFailed, Messages: []model.Message{}, Err: err}
	}

	var resp historyResponse
	if err := c.doJSON(req, &resp); err != nil {
		c.logger.Warn("history fetch failed", "err", err)
		return HistoryResult{Status: HistoryFailed, Messages: []model.Message{}, Err: err}
	}

	msgs := make([]model.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		if !m.Role.Valid() {
			continue
		}
		if m.ID == "" {
			m.ID = model.NewID()
		}
		msgs = append(msgs, m)
	}

	total := resp.TotalCount
	if total < len(msgs) {
		total = len(msgs)
	}
	if len(msgs) == 0 {
		return HistoryResult{Status: HistoryEmpty, Messages: msgs, Total: total}
	}
	return HistoryResult{Status: HistoryOK, Messages: msgs, Total: total}
}

// ClearResult is the outcome of ClearHistory.
type ClearResult struct {
	Deleted int
	Err     error
}

// OK reports whether the server confirmed the delete.
func (r ClearResult) OK() bool {
	return r.Err == nil
}

// ClearHistory deletes the server-persisted message log.
func (c *Client) ClearHistory(ctx context.Context) ClearResult {
	req, err := c.newRequest(ctx, http.MethodDelete, "/chat/history", nil, true)
	if err != nil {
		return ClearResult{Err: err}
	}
	var resp struct {
		DeletedCount int `json:"deleted_count"`
	}
	if err := c.doJSON(req, &resp); err != nil {
		c.logger.Warn("history clear failed", "err", err)
		return ClearResult{Err: err}
	}
	return ClearResult{Deleted: resp.DeletedCount}
}
