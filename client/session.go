package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Storage keys, same names the web client used in localStorage.
const (
	userKey        = "doctor_app_user"
	preferencesKey = "doctor_app_preferences"
)

type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// Session persists the current user and preferences as JSON blobs under a
// directory, one file per key. It is read on startup and written on every
// change; callers pass it down explicitly instead of going through a
// package-level singleton.
type Session struct {
	dir string
}

func NewSession(dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Session{dir: dir}, nil
}

func (s *Session) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Session) read(key string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		// A corrupt blob behaves like an absent one, same as the web
		// client dropping an unparseable localStorage entry.
		_ = os.Remove(s.path(key))
		return false, nil
	}
	return true, nil
}

func (s *Session) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o600)
}

func (s *Session) CurrentUser() (*User, bool) {
	var user User
	ok, err := s.read(userKey, &user)
	if err != nil || !ok {
		return nil, false
	}
	return &user, true
}

func (s *Session) SetCurrentUser(user *User) error {
	return s.write(userKey, user)
}

func (s *Session) ClearCurrentUser() error {
	err := os.Remove(s.path(userKey))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Session) Preferences() Preferences {
	prefs := Preferences{Theme: "light", Language: "ar"}
	_, _ = s.read(preferencesKey, &prefs)
	return prefs
}

func (s *Session) SetPreferences(prefs Preferences) error {
	return s.write(preferencesKey, prefs)
}
