package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Fixture is a recorded audit: every command an audit issued on one
// machine, with its output or failure.
type Fixture struct {
	Platform   domain.Platform   `yaml:"platform"`
	RecordedAt time.Time         `yaml:"recorded_at,omitempty"`
	Commands   []RecordedCommand `yaml:"commands"`
}

// RecordedCommand is one command outcome. Delay simulates a slow command
// during replay.
type RecordedCommand struct {
	Key     string               `yaml:"key"`
	Line    string               `yaml:"line,omitempty"`
	Output  string               `yaml:"output,omitempty"`
	Failure domain.FailureReason `yaml:"failure,omitempty"`
	Delay   time.Duration        `yaml:"delay,omitempty"`
}

func (rc RecordedCommand) output() domain.CommandOutput {
	if rc.Failure != "" {
		return domain.CommandOutput{Failure: rc.Failure}
	}
	return domain.CommandOutput{Text: rc.Output}
}

// Sort orders commands by key so fixture files diff cleanly.
func (f *Fixture) Sort() {
	sort.Slice(f.Commands, func(i, j int) bool {
		return f.Commands[i].Key < f.Commands[j].Key
	})
}

// LoadFixture reads a fixture from a YAML file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	seen := make(map[string]bool, len(f.Commands))
	for i, c := range f.Commands {
		if c.Key == "" {
			return nil, fmt.Errorf("parsing %s: command %d has no key", path, i)
		}
		if seen[c.Key] {
			return nil, fmt.Errorf("parsing %s: duplicate command key %q", path, c.Key)
		}
		seen[c.Key] = true
	}
	return &f, nil
}

// SaveFixture writes a fixture as YAML, creating parent directories.
func SaveFixture(path string, f *Fixture) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding fixture: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
