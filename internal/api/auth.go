// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/model"
)

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 6

// Credentials are submitted by the login and signup forms. Name is only
// used for signup.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate performs the form-level checks done before contacting the
// server. signup additionally requires a name.
func (c Credentials) Validate(signup bool) error {
	if signup && strings.TrimSpace(c.Name) == "" {
		return errors.New("Name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("Email is required")
	}
	if len([]rune(c.Password)) < MinPasswordLength {
		return errors.Errorf("Password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

type authResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	creds := Credentials{Email: email, Password: password}
	return c.authenticate(ctx, "/auth/login", creds)
}

// Signup creates an account and logs it in.
func (c *Client) Signup(ctx context.Context, name, email, password string) (model.Session, error) {
	creds := Credentials{Name: name, Email: email, Password: password}
	return c.authenticate(ctx, "/auth/signup", creds)
}

// authenticate posts creds and turns the response into a Session. On
// success the client adopts the new user id. Failures are *AuthError.
func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (model.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, creds, false)
	if err != nil {
		return model.Session{}, err
	}

	var resp authResponse
	if err := c.doJSON(req, &resp); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return model.Session{}, &AuthError{StatusCode: statusErr.StatusCode, Detail: statusErr.Detail}
		}
		return model.Session{}, &AuthError{}
	}
	if resp.UserID == "" {
		return model.Session{}, &AuthError{Detail: "server response did not include a user id"}
	}

	sess := model.Session{
		UserID: resp.UserID,
		Name:   resp.Name,
		Email:  resp.Email,
	}
	if sess.Email == "" {
		sess.Email = creds.Email
	}
	if sess.Name == "" {
		sess.Name = creds.Name
	}

	c.SetUserID(sess.UserID)
	c.logger.Info("authenticated", "path", path, "user_id", sess.UserID)
	return sess, nil
}
