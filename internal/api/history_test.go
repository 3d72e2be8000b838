// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/heritage-tui/internal/apitest"
	"github.com/jeranaias/heritage-tui/internal/model"
)

func TestFetchHistory_Empty(t *testing.T) {
	c, _, _ := loggedInClient(t)

	res := c.FetchHistory(context.Background())
	assert.Equal(t, HistoryEmpty, res.Status)
	assert.NotNil(t, res.Messages)
	assert.Empty(t, res.Messages)
	assert.NoError(t, res.Err)
}

func TestFetchHistory_OK(t *testing.T) {
	c, srv, id := loggedInClient(t)
	srv.SeedHistory(id,
		apitest.NewWireMessage("user", "Temples in Madurai"),
		apitest.NewWireMessage("assistant", "Meenakshi Amman Temple..."),
		apitest.NewWireMessage("system", "ignored"),
	)

	res := c.FetchHistory(context.Background())
	require.Equal(t, HistoryOK, res.Status)
	require.Len(t, res.Messages, 2, "unknown roles are dropped")
	assert.Equal(t, model.RoleUser, res.Messages[0].Role)
	assert.Equal(t, "Meenakshi Amman Temple...", res.Messages[1].Text)
	assert.False(t, res.Messages[0].Timestamp.IsZero())
	assert.Equal(t, 3, res.Total)
}

func TestFetchHistory_AfterChat(t *testing.T) {
	c, srv, _ := loggedInClient(t)
	srv.SetReply("Hello ", "there")
	_, err := c.StreamChat(context.Background(), Query{Text: "hi"}, nil)
	require.NoError(t, err)

	res := c.FetchHistory(context.Background())
	require.Len(t, res.Messages, 2)
	assert.Equal(t, "hi", res.Messages[0].Text)
	assert.Equal(t, "Hello there", res.Messages[1].Text)
}

func TestFetchHistory_FailureIsDistinguishable(t *testing.T) {
	c, srv, _ := loggedInClient(t)
	srv.FailNext("/chat/history", http.StatusInternalServerError, 1)

	res := c.FetchHistory(context.Background())
	assert.True(t, res.Failed())
	assert.Equal(t, "failed", res.Status.String())
	assert.NotNil(t, res.Messages)
	assert.Error(t, res.Err)

	// Next call succeeds again.
	assert.Equal(t, HistoryEmpty, c.FetchHistory(context.Background()).Status)
}

func TestFetchHistory_NotLoggedIn(t *testing.T) {
	srv := apitest.NewServer(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	res := c.FetchHistory(context.Background())
	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, ErrNotAuthenticated)
}

func TestClearHistory(t *testing.T) {
	c, srv, id := loggedInClient(t)
	srv.SeedHistory(id, apitest.NewWireMessage("user", "a"), apitest.NewWireMessage("assistant", "b"))

	res := c.ClearHistory(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, 2, res.Deleted)
	assert.Empty(t, srv.History(id))

	srv.FailNext("/chat/history", http.StatusBadRequest, 1)
	res = c.ClearHistory(context.Background())
	assert.False(t, res.OK())
}
