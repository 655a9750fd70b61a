package domain_test

import (
	"testing"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestVerdictFor_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  domain.Verdict
	}{
		{100, domain.VerdictExcellent},
		{90, domain.VerdictExcellent},
		{89, domain.VerdictGood},
		{70, domain.VerdictGood},
		{69, domain.VerdictFair},
		{50, domain.VerdictFair},
		{49, domain.VerdictAttention},
		{30, domain.VerdictAttention},
		{29, domain.VerdictCritical},
		{0, domain.VerdictCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.VerdictFor(tt.score), "score %d", tt.score)
	}
}

func TestAggregate_Empty(t *testing.T) {
	score, verdict := domain.Aggregate(nil, domain.DefaultWeights())
	assert.Equal(t, 0, score)
	assert.Equal(t, domain.VerdictUntested, verdict)
}

func TestAggregate_SingleComponent(t *testing.T) {
	score, verdict := domain.Aggregate([]domain.ComponentResult{
		{Component: domain.ComponentCPU, Score: 73},
	}, domain.DefaultWeights())
	assert.Equal(t, 73, score)
	assert.Equal(t, domain.VerdictGood, verdict)
}

func TestAggregate_AbsentFamiliesExcluded(t *testing.T) {
	// desktop without battery, screen or peripherals
	components := []domain.ComponentResult{
		{Component: domain.ComponentCPU, Score: 100},
		{Component: domain.ComponentRAM, Score: 100},
		{Component: domain.ComponentStorage, Score: 100},
	}
	score, verdict := domain.Aggregate(components, domain.DefaultWeights())
	assert.Equal(t, 100, score)
	assert.Equal(t, domain.VerdictExcellent, verdict)
}

func TestAggregate_HealthyLaptop(t *testing.T) {
	var components []domain.ComponentResult
	for i, k := range domain.ComponentKinds {
		components = append(components, domain.ComponentResult{Component: k, Score: 95 + i%6})
	}
	score, verdict := domain.Aggregate(components, domain.DefaultWeights())
	assert.GreaterOrEqual(t, score, 90)
	assert.Equal(t, domain.VerdictExcellent, verdict)
}

func TestAggregate_Weighted(t *testing.T) {
	components := []domain.ComponentResult{
		{Component: domain.ComponentStorage, Score: 40},
		{Component: domain.ComponentKeyboard, Score: 100},
	}
	// (0.35*40 + 0.01*100) / 0.36 = 41.67
	score, verdict := domain.Aggregate(components, domain.DefaultWeights())
	assert.Equal(t, 42, score)
	assert.Equal(t, domain.VerdictAttention, verdict)
}

func TestAggregate_FailingStorageOnDesktop(t *testing.T) {
	components := []domain.ComponentResult{
		{Component: domain.ComponentCPU, Score: 92},
		{Component: domain.ComponentRAM, Score: 95},
		{Component: domain.ComponentStorage, Score: 47},
		{Component: domain.ComponentNetwork, Score: 100},
	}
	// (9.2 + 9.5 + 16.45 + 2) / 0.57 = 65.18
	score, verdict := domain.Aggregate(components, domain.DefaultWeights())
	assert.Equal(t, 65, score)
	assert.Equal(t, domain.VerdictFair, verdict)
}

func TestAggregate_MultipleInstancesEachCount(t *testing.T) {
	components := []domain.ComponentResult{
		{Component: domain.ComponentStorage, Label: "nvme0n1", Score: 100},
		{Component: domain.ComponentStorage, Label: "sda", Score: 40},
	}
	score, _ := domain.Aggregate(components, domain.DefaultWeights())
	assert.Equal(t, 70, score)
}

func TestAggregate_Deterministic(t *testing.T) {
	components := []domain.ComponentResult{
		{Component: domain.ComponentCPU, Score: 81},
		{Component: domain.ComponentBattery, Score: 40},
		{Component: domain.ComponentWebcam, Score: 100},
	}
	s1, v1 := domain.Aggregate(components, domain.DefaultWeights())
	s2, v2 := domain.Aggregate(components, domain.DefaultWeights())
	assert.Equal(t, s1, s2)
	assert.Equal(t, v1, v2)
}

func TestComputeGlobalScore_ClampsInputs(t *testing.T) {
	components := []domain.ComponentResult{
		{Component: domain.ComponentCPU, Score: 180},
		{Component: domain.ComponentRAM, Score: -20},
	}
	assert.Equal(t, 50, domain.ComputeGlobalScore(components, domain.DefaultWeights()))
}

func TestComputeGlobalScore_PartialWeightsFallBackToDefaults(t *testing.T) {
	components := []domain.ComponentResult{
		{Component: domain.ComponentCPU, Score: 100},
		{Component: domain.ComponentRAM, Score: 0},
	}
	w := domain.Weights{domain.ComponentCPU: 0.30}
	// RAM falls back to 0.10: 30 / 0.40 = 75
	assert.Equal(t, 75, domain.ComputeGlobalScore(components, w))
}

func TestComputeGlobalScore_ZeroWeightsUseMean(t *testing.T) {
	components := []domain.ComponentResult{
		{Component: domain.ComponentCPU, Score: 80},
		{Component: domain.ComponentRAM, Score: 60},
	}
	w := domain.Weights{domain.ComponentCPU: 0, domain.ComponentRAM: 0}
	assert.Equal(t, 70, domain.ComputeGlobalScore(components, w))
}
