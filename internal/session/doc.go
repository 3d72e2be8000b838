// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session caches the authenticated user's identity between runs.
//
// The identity is three strings stored under fixed keys (KeyUserID,
// KeyUserName, KeyUserEmail). It is written on login or signup, read once
// at startup, and cleared on logout.
package session
