// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/storage"
)

// Keys under which the session fields are persisted.
const (
	KeyUserID    = "heritage_user_id"
	KeyUserName  = "heritage_user_name"
	KeyUserEmail = "heritage_user_email"
)

var allKeys = []string{KeyUserID, KeyUserName, KeyUserEmail}

// Store persists the logged-in user's identity in a key/value store.
type Store struct {
	mu sync.Mutex
	kv storage.KeyValueStore
}

// NewStore wraps kv. The caller keeps ownership of kv and closes it.
func NewStore(kv storage.KeyValueStore) *Store {
	return &Store{kv: kv}
}

// Save writes every field of sess. The email is deleted when empty so a
// stale address from a previous user never survives.
func (s *Store) Save(sess model.Session) error {
	if !sess.Valid() {
		return errors.New("session: user id and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(KeyUserID, sess.UserID); err != nil {
		return errors.Wrap(err, "saving user id")
	}
	if err := s.kv.Set(KeyUserName, sess.Name); err != nil {
		return errors.Wrap(err, "saving user name")
	}
	if sess.Email == "" {
		if err := s.kv.Delete(KeyUserEmail); err != nil {
			return errors.Wrap(err, "clearing user email")
		}
		return nil
	}
	return errors.Wrap(s.kv.Set(KeyUserEmail, sess.Email), "saving user email")
}

// Load restores the cached session. It returns (nil, nil) when no usable
// session exists: both the id and the name must be present.
func (s *Store) Load() (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.get(KeyUserID)
	if err != nil {
		return nil, err
	}
	name, err := s.get(KeyUserName)
	if err != nil {
		return nil, err
	}
	if id == "" || name == "" {
		return nil, nil
	}
	email, err := s.get(KeyUserEmail)
	if err != nil {
		return nil, err
	}
	return &model.Session{UserID: id, Name: name, Email: email}, nil
}

// UpdateName replaces the cached display name, leaving the other fields.
func (s *Store) UpdateName(name string) error {
	if name == "" {
		return errors.New("session: name must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Wrap(s.kv.Set(KeyUserName, name), "saving user name")
}

// Clear removes every session field. Clearing an empty store succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range allKeys {
		if err := s.kv.Delete(key); err != nil {
			return errors.Wrapf(err, "clearing %s", key)
		}
	}
	return nil
}

// get treats a missing key as the empty string.
func (s *Store) get(key string) (string, error) {
	v, err := s.kv.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", key)
	}
	return v, nil
}
