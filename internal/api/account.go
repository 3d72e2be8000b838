// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// Profile is the account record returned by /auth/me.
type Profile struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
}

// Session converts the profile to a cacheable session.
func (p Profile) Session() model.Session {
	return model.Session{UserID: p.UserID, Name: p.Name, Email: p.Email}
}

// Me returns the server's view of the current account.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil, true)
	if err != nil {
		return Profile{}, err
	}
	var raw struct {
		Profile
		CreatedAt string `json:"created_at"`
	}
	if err := c.doJSON(req, &raw); err != nil {
		return Profile{}, err
	}
	p := raw.Profile
	if raw.CreatedAt != "" {
		if t, err := model.ParseTimestamp(raw.CreatedAt); err == nil {
			p.CreatedAt = t
		}
	}
	return p, nil
}

// UpdateProfile changes the account's display name.
func (c *Client) UpdateProfile(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name must not be empty")
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/auth/profile", map[string]string{"name": name}, true)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// DeleteAccount removes the account and all of its history. The client is
// logged out on success.
func (c *Client) DeleteAccount(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/auth/account", nil, true)
	if err != nil {
		return err
	}
	if err := c.doJSON(req, nil); err != nil {
		return err
	}
	c.SetUserID("")
	return nil
}

// Health is the backend's root status document.
type Health struct {
	Status   string   `json:"status"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// HasFeature reports whether the backend advertises feature.
func (h Health) HasFeature(feature string) bool {
	for _, f := range h.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/", nil, false)
	if err != nil {
		return Health{}, err
	}
	var h Health
	if err := c.doJSON(req, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}
