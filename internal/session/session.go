// Package session owns the client's only durable local state: the bearer
// token and the theme flag. Everything goes through an explicit Session
// object with load/save boundaries instead of ambient storage access.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Theme is the persisted UI theme flag.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type state struct {
	Token string `json:"token,omitempty"`
	Theme Theme  `json:"theme,omitempty"`
}

// Session is shared between the UI event loop and command goroutines, so
// access is guarded.
type Session struct {
	path string

	mu sync.Mutex
	st state
}

// Load reads the session file at path, returning an empty session when the
// file does not exist yet.
func Load(path string) (*Session, error) {
	s := &Session{path: path, st: state{Theme: ThemeLight}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("reading session file: %w", err)
	}

	if err := json.Unmarshal(data, &s.st); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}

	if s.st.Theme == "" {
		s.st.Theme = ThemeLight
	}

	return s, nil
}

// Token returns the stored bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.st.Token
}

// SetToken stores and persists a new bearer token.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Token = token

	return s.save()
}

// Clear drops the token (logout, or a 401 from the server) and persists.
// The theme survives.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Token = ""

	return s.save()
}

// Theme returns the persisted theme flag.
func (s *Session) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.st.Theme
}

// SetTheme stores and persists the theme flag.
func (s *Session) SetTheme(t Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Theme = t

	return s.save()
}

// Expired reports whether the stored token is missing or carries an exp
// claim in the past. The token is decoded without signature verification;
// verifying is the server's job, this is only a local shortcut to avoid a
// guaranteed 401.
func (s *Session) Expired(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are passed through; the server decides.
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(now)
}

func (s *Session) save() error {
	data, err := json.Marshal(s.st)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}
