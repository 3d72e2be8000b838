// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Session is the locally cached identity of the authenticated user.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

// Valid reports whether the session carries enough to talk to the backend
// and greet the user.
func (s *Session) Valid() bool {
	return s != nil && s.UserID != "" && s.Name != ""
}
