// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when the key has never been set or was
// deleted.
var ErrNotFound = errors.New("storage: key not found")

// ErrClosed is returned by operations on a store after Close.
var ErrClosed = errors.New("storage: store closed")

// KeyValueStore persists small string values under string keys.
//
// Implementations must be safe for concurrent use. Delete of a missing key
// is not an error.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// =============================================================================
// BACKEND SELECTION
// =============================================================================

// Backend names a KeyValueStore implementation.
type Backend string

const (
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
	BackendJSON   Backend = "json"
	BackendMemory Backend = "memory"
)

// Backends lists every supported backend.
var Backends = []Backend{BackendBolt, BackendSQLite, BackendJSON, BackendMemory}

// ParseBackend validates a backend name, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown store backend %q (want one of bolt, sqlite, json, memory)", s)
}

// DefaultFileName returns the file name used for a backend inside the data
// directory.
func (b Backend) DefaultFileName() string {
	switch b {
	case BackendBolt:
		return "session.bolt"
	case BackendSQLite:
		return "session.db"
	case BackendJSON:
		return "session.json"
	default:
		return ""
	}
}

// Open creates the store for backend at path. The memory backend ignores
// path.
func Open(backend Backend, path string) (KeyValueStore, error) {
	switch backend {
	case BackendBolt:
		return OpenBolt(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendJSON:
		return OpenJSON(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
