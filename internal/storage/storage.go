// Package storage persists small JSON records under a state directory. It is
// the client's stand-in for browser cookies and local storage: session tokens,
// per-survey response drafts and the authoring draft all live here, one file
// per key.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Store reads and writes JSON records keyed by name.
type Store struct {
	dir    string
	logger *zap.Logger
}

// New creates the state directory if needed and returns a store over it.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Get decodes the record stored under key into v. It returns false when the
// key is absent. A record that exists but fails to parse is treated as absent
// rather than an error: a corrupt draft or cookie must never block the user.
func (s *Store) Get(key string, v any) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("discarding unparseable state record",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Put encodes v under key, replacing any previous record.
func (s *Store) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the record under key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	// Keys come from survey ids and fixed names, but never trust them as paths.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, safe+".json")
}
