// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key/value stores that hold the cached login
// session.
//
// # Backends
//
//   - BoltStore: bbolt database file (default)
//   - SQLiteStore: single-table SQLite database (pure Go driver)
//   - JSONStore: one JSON object rewritten atomically on each change
//   - MemoryStore: process-local map, used in tests and with --ephemeral
//
// All backends satisfy KeyValueStore and return ErrNotFound for missing keys.
//
// # Usage
//
//	kv, err := storage.Open(storage.BackendBolt, filepath.Join(dir, "session.bolt"))
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//	_ = kv.Set("heritage_user_id", id)
package storage
