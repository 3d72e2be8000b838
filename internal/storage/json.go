// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/util"
)

// JSONStore keeps all values in a single JSON object on disk. Every write
// rewrites the file atomically.
type JSONStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	closed bool
}

// OpenJSON loads path if it exists, or starts empty.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	}
	return s, nil
}

func (s *JSONStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *JSONStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// flush must be called with mu held.
func (s *JSONStore) flush() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding store")
	}
	// SECURITY: session identifiers are private to the user.
	return util.AtomicWriteFile(s.path, data, 0600)
}
