package history_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/hwaudit/internal/adapters/outbound/history"
	"github.com/abdidvp/hwaudit/internal/domain"
)

func TestHistory_SaveAndLoad(t *testing.T) {
	h := history.New(t.TempDir())

	entry := domain.AuditEntry{
		Timestamp:   "2026-02-25T10:00:00Z",
		AuditID:     "3b241101-e2bb-4255-8caf-4136c566a962",
		Hostname:    "bench-01",
		ScoreGlobal: 84,
		Verdict:     domain.VerdictGood,
		Components:  12,
	}

	err := h.Save(entry)
	require.NoError(t, err)

	entries, err := h.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestHistory_AppendMultiple(t *testing.T) {
	h := history.New(t.TempDir())

	require.NoError(t, h.Save(domain.AuditEntry{Timestamp: "t1", ScoreGlobal: 47, Verdict: domain.VerdictAttention}))
	require.NoError(t, h.Save(domain.AuditEntry{Timestamp: "t2", ScoreGlobal: 62, Verdict: domain.VerdictFair}))
	require.NoError(t, h.Save(domain.AuditEntry{Timestamp: "t3", ScoreGlobal: 85, Verdict: domain.VerdictGood}))

	entries, err := h.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 47, entries[0].ScoreGlobal)
	assert.Equal(t, 85, entries[2].ScoreGlobal)
}

func TestHistory_LoadEmpty(t *testing.T) {
	h := history.New(t.TempDir())

	entries, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_CreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	h := history.New(dir)

	require.NoError(t, h.Save(domain.AuditEntry{Timestamp: "t1"}))

	_, err := os.Stat(filepath.Join(dir, "history.json"))
	assert.NoError(t, err)
}

func TestHistory_DropsOldestEntries(t *testing.T) {
	h := history.New(t.TempDir())

	for i := range 502 {
		require.NoError(t, h.Save(domain.AuditEntry{Timestamp: fmt.Sprintf("t%d", i)}))
	}

	entries, err := h.Load()
	require.NoError(t, err)
	require.Len(t, entries, 500)
	assert.Equal(t, "t2", entries[0].Timestamp)
	assert.Equal(t, "t501", entries[499].Timestamp)
}

func TestHistory_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("not json"), 0644))

	_, err := history.New(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing history.json")
}
