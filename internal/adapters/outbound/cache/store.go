package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/hwaudit/internal/domain"
)

const lastAuditFile = "last.json"

// Store is a file-based implementation of domain.AuditCache holding the
// most recent audit.
type Store struct {
	dir string
}

// New creates a store rooted at the state directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the last audit. Returns (nil, nil) if none was saved.
func (s *Store) Load() (*domain.AuditResult, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no audit yet is not an error
		}
		return nil, err
	}

	var result domain.AuditResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", lastAuditFile, err)
	}
	return &result, nil
}

// Save writes the audit to disk, creating directories as needed. The file
// is replaced atomically so a concurrent reader never sees half a report.
func (s *Store) Save(result *domain.AuditResult) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, lastAuditFile+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path())
}

// Invalidate removes the cached audit.
func (s *Store) Invalidate() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, lastAuditFile)
}
