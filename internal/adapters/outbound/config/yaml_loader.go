package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// FileName is the configuration file looked up in a directory.
const FileName = ".hwaudit.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .hwaudit.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the configuration at path. A directory is searched for
// .hwaudit.yaml. Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(path string) (domain.AuditConfig, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.AuditConfig{}, err
	}

	var cfg domain.AuditConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	// Validate the raw file so typos in family names surface early.
	if err := cfg.Validate(); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}

	return cfg, nil
}
