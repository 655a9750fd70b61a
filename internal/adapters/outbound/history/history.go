package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/hwaudit/internal/domain"
)

const (
	historyFile = "history.json"

	// maxEntries bounds the file; the oldest entries are dropped first.
	maxEntries = 500
)

// FileHistory implements domain.AuditHistory using JSON file storage in a
// state directory.
type FileHistory struct {
	dir string
}

func New(dir string) *FileHistory {
	return &FileHistory{dir: dir}
}

func (h *FileHistory) Save(entry domain.AuditEntry) error {
	entries, err := h.Load()
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	if err := os.MkdirAll(h.dir, 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(h.path(), data, 0644)
}

func (h *FileHistory) Load() ([]domain.AuditEntry, error) {
	data, err := os.ReadFile(h.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}

	return entries, nil
}

func (h *FileHistory) path() string {
	return filepath.Join(h.dir, historyFile)
}
