// Package session persists the authenticated session across program runs.
// Two files under the state directory back it: `token` holds the raw JWT
// and `user.json` holds the store profile shown in the UI. Both must be
// present and well formed for a session to count as authenticated; a
// corrupt pair is cleared rather than trusted.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fidd-app/fidd/pkg/domain"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store holds the hydrated session and writes changes through to disk.
// It satisfies the API client's TokenSource so the current token is read
// on every request.
type Store struct {
	mu    sync.RWMutex
	dir   string
	token string
	user  *domain.User
	log   zerolog.Logger
}

// Open hydrates a Store from dir, creating the directory if needed.
// Hydration is local-only; no network validation happens here. Expired
// tokens surface later as a 401 on the first API call.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	s := &Store{dir: dir, log: log}
	s.hydrate()
	return s, nil
}

func (s *Store) hydrate() {
	tok, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		// Token without a profile is half a session; drop it.
		s.removeFiles()
		return
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		s.log.Warn().Err(err).Msg("stored profile unreadable, clearing session")
		s.removeFiles()
		return
	}
	s.token = string(tok)
	s.user = &u
}

// Token returns the stored JWT, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the stored profile, or nil when signed out.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether both the token and profile are present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Save stores the session from a successful login or registration.
func (s *Store) Save(auth *domain.AuthResponse) error {
	u := auth.User()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(auth.Token), 0o600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), data, 0o600); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	s.token = auth.Token
	s.user = &u
	return nil
}

// Clear signs the session out. It always clears local state and never
// fails on a missing file, so logout works even when the backend already
// rejected the token.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFiles()
	s.token = ""
	s.user = nil
}

func (s *Store) removeFiles() {
	os.Remove(filepath.Join(s.dir, tokenFile)) //nolint:errcheck // best-effort remove
	os.Remove(filepath.Join(s.dir, userFile))  //nolint:errcheck // best-effort remove
}
