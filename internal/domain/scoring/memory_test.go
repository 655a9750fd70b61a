package scoring_test

import (
	"testing"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
)

const gib = uint64(1 << 30)

func TestScoreMemory_Healthy(t *testing.T) {
	m := scoring.MemoryMetrics{TotalBytes: ptr(16 * gib), AvailableBytes: ptr(10 * gib)}

	a := scoring.ScoreMemory(m)

	assert.Equal(t, 100, a.Score)
	assert.Equal(t, domain.StatusOK, a.Status())
	assert.Equal(t, "16 GiB", m.Metrics()["total"])
}

func TestScoreMemory_Pressure(t *testing.T) {
	m := scoring.MemoryMetrics{TotalBytes: ptr(100 * gib), AvailableBytes: ptr(3 * gib)}

	assert.Equal(t, 90, scoring.ScoreMemory(m).Score)
}

func TestScoreMemory_ECC(t *testing.T) {
	base := scoring.MemoryMetrics{TotalBytes: ptr(16 * gib), AvailableBytes: ptr(8 * gib)}

	uncorrectable := base
	uncorrectable.UncorrectableErrors = ptr(1)
	assert.Equal(t, 50, scoring.ScoreMemory(uncorrectable).Score)

	corrected := base
	corrected.CorrectedErrors = ptr(1)
	assert.Equal(t, 95, scoring.ScoreMemory(corrected).Score)

	corrected.CorrectedErrors = ptr(4)
	assert.Equal(t, 89, scoring.ScoreMemory(corrected).Score)

	corrected.CorrectedErrors = ptr(1 << 20)
	assert.Equal(t, 80, scoring.ScoreMemory(corrected).Score)
}

func TestScoreMemory_TotalOnly(t *testing.T) {
	a := scoring.ScoreMemory(scoring.MemoryMetrics{TotalBytes: ptr(8 * gib)})

	assert.Equal(t, domain.StatusDegraded, a.Status())
	assert.Equal(t, []string{"available"}, a.Missing)
}
