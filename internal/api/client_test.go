// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/heritage-tui/internal/apitest"
	"github.com/jeranaias/heritage-tui/internal/model"
)

func TestNew_ValidatesBaseURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"", false},
		{"http://localhost:8000", false},
		{"https://heritage.example.com/", false},
		{"ftp://example.com", true},
		{"localhost:8000", true},
		{"http://", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, err := New(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(c.BaseURL(), "/"))
		})
	}
}

func TestNew_DefaultBaseURL(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestClient_SendsUserIDHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("user-id")
		w.Write([]byte(`{"messages":[]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithUserID("abc123"))
	require.NoError(t, err)
	c.FetchHistory(context.Background())
	assert.Equal(t, "abc123", got)
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin(t *testing.T) {
	srv := apitest.NewServer(t)
	id := srv.AddUser("Priya", "priya@example.com", "secret1")
	c, err := New(srv.URL)
	require.NoError(t, err)

	sess, err := c.Login(context.Background(), "priya@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.Session{UserID: id, Name: "Priya", Email: "priya@example.com"}, sess)
	assert.Equal(t, id, c.UserID(), "client adopts the new identity")
}

func TestLogin_BadPasswordShowsServerDetail(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddUser("Priya", "priya@example.com", "secret1")
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "priya@example.com", "wrong-pass")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, "", c.UserID())
}

func TestLogin_GenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "a@b.c", "secret1")
	assert.EqualError(t, err, DefaultAuthFailure)
}

func TestLogin_ValidationDetailList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "nope", "secret1")
	assert.EqualError(t, err, "value is not a valid email address")
}

func TestSignup(t *testing.T) {
	srv := apitest.NewServer(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	sess, err := c.Signup(context.Background(), "Arun", "Arun@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Arun", sess.Name)
	assert.Equal(t, "arun@example.com", sess.Email)
	assert.NotEmpty(t, sess.UserID)

	_, err = c.Signup(context.Background(), "Arun", "arun@example.com", "secret1")
	assert.EqualError(t, err, "Email already registered")
}

func TestSignup_EmailFallsBackToSubmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user_id":"u1","name":"Arun"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	sess, err := c.Signup(context.Background(), "Arun", "arun@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "arun@example.com", sess.Email)
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name   string
		creds  Credentials
		signup bool
		want   string
	}{
		{"ok login", Credentials{Email: "a@b.c", Password: "123456"}, false, ""},
		{"short password", Credentials{Email: "a@b.c", Password: "12345"}, false, "Password must be at least 6 characters"},
		{"missing email", Credentials{Password: "123456"}, false, "Email is required"},
		{"signup needs name", Credentials{Email: "a@b.c", Password: "123456"}, true, "Name is required"},
		{"ok signup", Credentials{Name: "A", Email: "a@b.c", Password: "123456"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate(tt.signup)
			if tt.want == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.want)
			}
		})
	}
}

// =============================================================================
// ACCOUNT
// =============================================================================

func TestMeAndUpdateProfile(t *testing.T) {
	c, _, id := loggedInClient(t)

	p, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, p.UserID)
	assert.Equal(t, "Priya", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	require.NoError(t, c.UpdateProfile(context.Background(), "Priya R"))
	p, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Priya R", p.Session().Name)

	assert.Error(t, c.UpdateProfile(context.Background(), "  "))
}

func TestDeleteAccount(t *testing.T) {
	c, srv, id := loggedInClient(t)
	require.NoError(t, c.DeleteAccount(context.Background()))
	assert.Equal(t, "", c.UserID())
	assert.Empty(t, srv.History(id))

	c.SetUserID(id)
	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestHealth(t *testing.T) {
	srv := apitest.NewServer(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.0", h.Version)
	assert.True(t, h.HasFeature("chat_history"))
	assert.False(t, h.HasFeature("teleport"))
}
