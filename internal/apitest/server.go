// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest runs an in-process fake of the heritage backend for tests.
//
// The fake implements every route the client uses, hashes passwords with
// bcrypt, keeps per-user history in memory and lets tests script the chat
// stream down to individual byte chunks.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// TimestampLayout is the zone-less ISO format the real backend emits.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// ChatRequest is the body the fake received on POST /chat.
type ChatRequest struct {
	UserID    string   `json:"-"`
	Message   string   `json:"message"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Language  string   `json:"language"`
}

// WireMessage is a history entry as the backend serializes it.
type WireMessage struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type user struct {
	id        string
	name      string
	email     string
	hash      []byte
	createdAt time.Time
}

// Server is a fake backend. Zero-value fields give the default behavior.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	users   map[string]*user // by email
	byID    map[string]*user
	history map[string][]WireMessage
	chats   []ChatRequest

	fragments []string
	rawChunks []string
	chunkWait time.Duration
	failures  map[string]*failure
}

type failure struct {
	status    int
	remaining int
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		users:     make(map[string]*user),
		byID:      make(map[string]*user),
		history:   make(map[string][]WireMessage),
		failures:  make(map[string]*failure),
		fragments: []string{"Vanakkam! ", "Thanjavur's ", "Brihadeeswarar Temple ", "is a must-see."},
	}
	s.Server = httptest.NewServer(s.Router())
	tb.Cleanup(s.Close)
	return s
}

// Router returns the fake's routes. It is exported so a fake can also be
// mounted on a custom listener.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.failureMiddleware)
	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.requireUser(s.handleMe)).Methods(http.MethodGet)
	r.HandleFunc("/auth/profile", s.requireUser(s.handleProfile)).Methods(http.MethodPut)
	r.HandleFunc("/auth/account", s.requireUser(s.handleDeleteAccount)).Methods(http.MethodDelete)
	r.HandleFunc("/chat", s.requireUser(s.handleChat)).Methods(http.MethodPost)
	r.HandleFunc("/chat/history", s.requireUser(s.handleHistory)).Methods(http.MethodGet)
	r.HandleFunc("/chat/history", s.requireUser(s.handleClearHistory)).Methods(http.MethodDelete)
	return r
}

// =============================================================================
// SCRIPTING
// =============================================================================

// AddUser registers an account and returns its id.
func (s *Server) AddUser(name, email, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &user{id: newObjectID(), name: name, email: strings.ToLower(email), hash: hash, createdAt: time.Now().UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.email] = u
	s.byID[u.id] = u
	return u.id
}

// SetReply makes POST /chat stream fragments as well-formed data lines.
func (s *Server) SetReply(fragments ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = fragments
	s.rawChunks = nil
}

// SetRawStream makes POST /chat write chunks verbatim, flushing after each.
// Chunks may split lines or runes anywhere.
func (s *Server) SetRawStream(chunks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawChunks = chunks
}

// SetChunkDelay pauses between streamed chunks.
func (s *Server) SetChunkDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunkWait = d
}

// FailNext makes the next n requests whose path equals path answer status.
func (s *Server) FailNext(path string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = &failure{status: status, remaining: n}
}

// SeedHistory appends messages to a user's stored history.
func (s *Server) SeedHistory(userID string, msgs ...WireMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[userID] = append(s.history[userID], msgs...)
}

// History returns a copy of a user's stored history.
func (s *Server) History(userID string) []WireMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WireMessage(nil), s.history[userID]...)
}

// Chats returns every chat request received so far.
func (s *Server) Chats() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.chats...)
}

// NewWireMessage builds a history entry stamped now.
func NewWireMessage(kind, text string) WireMessage {
	return WireMessage{
		ID:        newObjectID(),
		Type:      kind,
		Text:      text,
		Timestamp: time.Now().UTC().Format(TimestampLayout),
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f := s.failures[r.URL.Path]
		if f != nil && f.remaining > 0 {
			f.remaining--
			s.mu.Unlock()
			writeDetail(w, f.status, "injected failure")
			return
		}
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, u *user)

func (s *Server) requireUser(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("user-id")
		if id == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		s.mu.Lock()
		u := s.byID[id]
		s.mu.Unlock()
		if u == nil {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		h(w, r, u)
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "Heritage AI backend running",
		"version":  "2.0",
		"features": []string{"user_auth", "chat_history", "location_tracking"},
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if len(req.Password) < 6 {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	s.mu.Lock()
	_, exists := s.users[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	id := s.AddUser(req.Name, req.Email, req.Password)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user_id": id,
		"name":    req.Name,
		"email":   strings.ToLower(req.Email),
		"message": "User created successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	u := s.users[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if u == nil || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user_id": u.id,
		"name":    u.name,
		"email":   u.email,
		"message": "Login successful",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    u.id,
		"name":       u.name,
		"email":      u.email,
		"created_at": u.createdAt.Format(TimestampLayout),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, u *user) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeDetail(w, http.StatusBadRequest, "No data to update")
		return
	}
	s.mu.Lock()
	u.name = req.Name
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Profile updated"})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	delete(s.users, u.email)
	delete(s.byID, u.id)
	delete(s.history, u.id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Account deleted"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, u *user) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	req.UserID = u.id

	userMsg := NewWireMessage("user", req.Message)
	userMsg.Latitude, userMsg.Longitude = req.Latitude, req.Longitude

	s.mu.Lock()
	s.chats = append(s.chats, req)
	s.history[u.id] = append(s.history[u.id], userMsg)
	chunks := s.rawChunks
	if chunks == nil {
		for _, frag := range s.fragments {
			data, _ := json.Marshal(map[string]string{"text": frag})
			chunks = append(chunks, "data: "+string(data)+"\n\n")
		}
	}
	wait := s.chunkWait
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	var full strings.Builder
	for _, chunk := range chunks {
		if _, err := w.Write([]byte(chunk)); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		full.WriteString(chunk)
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-r.Context().Done():
				return
			}
		}
	}

	s.mu.Lock()
	s.history[u.id] = append(s.history[u.id], NewWireMessage("assistant", assembled(full.String())))
	s.mu.Unlock()
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	msgs := append([]WireMessage{}, s.history[u.id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages":    msgs,
		"total_count": len(msgs),
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	n := len(s.history[u.id])
	delete(s.history, u.id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deleted_count": n})
}

// =============================================================================
// HELPERS
// =============================================================================

// assembled recovers the reply text from the stream body the fake wrote.
func assembled(body string) string {
	var out strings.Builder
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var payload struct {
			Text string `json:"text"`
		}
		if json.Unmarshal([]byte(line[len("data: "):]), &payload) == nil {
			out.WriteString(payload.Text)
		}
	}
	return out.String()
}

func newObjectID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
