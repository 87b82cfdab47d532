// Package state persists the set of announced warning identifiers between
// runs. The record is a small human-readable JSON file; it is the only
// cross-invocation resource the relay owns.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
)

// record is the canonical on-disk form. Older deployments wrote a bare JSON
// array of identifiers; Load accepts both.
type record struct {
	SentIDs   []string  `json:"sent_ids"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// FileStore loads and saves the sent-set as a JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger

	// onCorruption is invoked when an unreadable record is replaced with
	// empty state, so the run can count it.
	onCorruption func()
}

// NewFileStore creates a store for the given path. onCorruption may be nil.
func NewFileStore(path string, logger *slog.Logger, onCorruption func()) *FileStore {
	return &FileStore{path: path, logger: logger, onCorruption: onCorruption}
}

// Load reads the persisted sent-set. A missing file is a normal first run.
// An unreadable or malformed file is logged and treated as empty state,
// never a fatal error.
func (s *FileStore) Load() domain.SentState {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.EmptySentState()
	}
	if err != nil {
		s.corrupt("state file unreadable", err)
		return domain.EmptySentState()
	}

	ids, updatedAt, err := decode(data)
	if err != nil {
		s.corrupt("state file malformed", err)
		return domain.EmptySentState()
	}
	st := domain.NewSentState(ids)
	st.UpdatedAt = updatedAt
	return st
}

// Save atomically overwrites the persisted record: write to a temp file in
// the same directory, then rename. A crash mid-save leaves either the old or
// the new record, never a partial one.
func (s *FileStore) Save(st domain.SentState) error {
	rec := record{SentIDs: st.SortedIDs(), UpdatedAt: st.UpdatedAt}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (s *FileStore) corrupt(msg string, err error) {
	s.logger.Warn(msg+", starting from empty state", "path", s.path, "error", err)
	if s.onCorruption != nil {
		s.onCorruption()
	}
}

// decode accepts both persisted forms: the canonical {"sent_ids": [...]}
// object and the legacy bare array.
func decode(data []byte) ([]string, time.Time, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err == nil {
		return rec.SentIDs, rec.UpdatedAt, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, time.Time{}, err
	}
	return ids, time.Time{}, nil
}
