package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/microblog/internal/filex"
)

// Session is what the CLI remembers between runs.
type Session struct {
	ServerURL  string `json:"server_url"`
	Token      string `json:"token"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Identifier string `json:"identifier"`
}

type sessionStore struct {
	path string
}

// load returns the saved session, or nil when there is none.
func (s sessionStore) load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session file %s is corrupt: %w", s.path, err)
	}
	return &sess, nil
}

func (s sessionStore) save(sess *Session) error {
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return filex.WritePrivate(s.path, raw)
}

func (s sessionStore) clear() error {
	return filex.RemoveIfExists(s.path)
}
