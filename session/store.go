package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Session is the only durable client-side state: the bearer token plus the
// username cached at login time.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Store is the single authoritative read/write boundary for the session.
// Every component reads the token through here instead of touching ambient
// storage directly.
type Store struct {
	mu      sync.RWMutex
	path    string
	current Session
}

// DefaultPath places the session file under the user config dir, the
// closest analog to browser local storage.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving user config dir")
	}
	return filepath.Join(dir, "debatify", "session.json"), nil
}

// NewStore loads the persisted session if one exists. A missing file means
// logged out, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading session file")
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		// A corrupt session file degrades to logged out rather than
		// wedging every binary that opens the store.
		s.current = Session{}
	}
	return s, nil
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Username
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// ViewerId extracts the userId claim from the bearer token. Empty when
// logged out or when the token is malformed.
func (s *Store) ViewerId() string {
	return viewerIdFromToken(s.Token())
}

// Set records a new session and persists it. Called only by the
// login/registration flows.
func (s *Store) Set(token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{Token: token, Username: username}
	return s.persist()
}

// Clear drops the session, both in memory and on disk. Called at logout and
// when a profile check reports 401.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(err, "removing session file")
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	data, err := json.Marshal(s.current)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(os.WriteFile(s.path, data, 0o600), "writing session file")
}
