package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"employee_roster/internal/domain"
	"employee_roster/internal/utils"
)

var ErrNoSession = errors.New("no active session")

// Session mirrors the identity of the logged-in account. Role checks made on
// it only decide what the CLI offers; the server decides what is allowed.
type Session struct {
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) CanMutate() bool {
	return domain.Role(s.Role) == domain.ADMIN
}

// SessionStore keeps one session in a JSON file.
type SessionStore struct {
	path string
	now  func() time.Time
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path, now: time.Now}
}

func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "employee-roster", "session.json"), nil
}

func (s *SessionStore) Path() string {
	return s.path
}

// Save stores the session of an authenticated user. The expiry is read from
// the token itself.
func (s *SessionStore) Save(user *User) (*Session, error) {
	expiresAt, err := utils.ExpiresAt(user.Token)
	if err != nil {
		return nil, fmt.Errorf("read token expiry: %w", err)
	}
	sess := &Session{
		Token:     user.Token,
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return nil, err
	}
	return sess, nil
}

// Load returns ErrNoSession when nothing is stored or the stored session has
// expired. Expired sessions are removed.
func (s *SessionStore) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	} else if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", s.path, err)
	}
	if sess.Token == "" || sess.Expired(s.now()) {
		_ = s.Clear()
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
