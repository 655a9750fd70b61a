package scoring_test

import (
	"testing"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
)

func TestScoreCPU(t *testing.T) {
	tests := []struct {
		name  string
		temp  float64
		usage float64
		want  int
	}{
		{"cool and idle", 45, 12, 100},
		{"at threshold", 75, 50, 100},
		{"hot", 85, 50, 80},
		{"overheating capped", 110, 50, 60},
		{"saturated", 60, 99, 80},
		{"hot and saturated", 95, 100, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scoring.ScoreCPU(scoring.ProcessorMetrics{
				Model:        "Intel(R) Core(TM) i7-8650U",
				TemperatureC: ptr(tt.temp),
				UsagePct:     ptr(tt.usage),
			})
			assert.Equal(t, tt.want, a.Score)
			assert.Equal(t, domain.StatusOK, a.Status())
		})
	}
}

func TestScoreCPU_NoSensorIsDegraded(t *testing.T) {
	a := scoring.ScoreCPU(scoring.ProcessorMetrics{Model: "Apple M2", UsagePct: ptr(20.0)})

	assert.Equal(t, domain.StatusDegraded, a.Status())
	assert.Equal(t, []string{"temperature"}, a.Missing)
	assert.Equal(t, 100, a.Score)
}

func TestScoreCPU_DegradedRenormalizes(t *testing.T) {
	tests := []struct {
		name    string
		metrics scoring.ProcessorMetrics
		missing []string
		want    int
	}{
		// 20 saturation points over 20 of 60 expected points
		{"saturated without sensor", scoring.ProcessorMetrics{UsagePct: ptr(99.0)}, []string{"temperature"}, 40},
		// 20 heat points over 40 of 60 expected points
		{"hot without load", scoring.ProcessorMetrics{TemperatureC: ptr(85.0)}, []string{"usage"}, 70},
		{"idle without sensor", scoring.ProcessorMetrics{UsagePct: ptr(5.0)}, []string{"temperature"}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scoring.ScoreCPU(tt.metrics)
			assert.Equal(t, domain.StatusDegraded, a.Status())
			assert.Equal(t, tt.missing, a.Missing)
			assert.Equal(t, tt.want, a.Score)
		})
	}
}

func TestScoreGPU_NoSensor(t *testing.T) {
	a := scoring.ScoreGPU(scoring.ProcessorMetrics{Model: "Intel UHD Graphics 620", UsagePct: ptr(30.0)})
	assert.Equal(t, domain.StatusDegraded, a.Status())
	assert.Equal(t, 100, a.Score)

	a = scoring.ScoreGPU(scoring.ProcessorMetrics{Model: "Intel UHD Graphics 620", DeviceOK: ptr(false)})
	assert.Equal(t, domain.StatusDegraded, a.Status())
	assert.Equal(t, domain.FunctionalFailureScore, a.Score)
}

func TestScoreGPU_DeviceError(t *testing.T) {
	a := scoring.ScoreGPU(scoring.ProcessorMetrics{
		Model:        "NVIDIA GeForce GTX 1650",
		DeviceOK:     ptr(false),
		TemperatureC: ptr(50.0),
	})

	assert.Equal(t, domain.FunctionalFailureScore, a.Score)
	assert.Equal(t, domain.StatusOK, a.Status())
}

func TestScoreGPU_IdleIsNotPenalized(t *testing.T) {
	a := scoring.ScoreGPU(scoring.ProcessorMetrics{
		Model:        "NVIDIA GeForce GTX 1650",
		TemperatureC: ptr(40.0),
		UsagePct:     ptr(0.0),
	})

	assert.Equal(t, 100, a.Score)
	assert.Equal(t, domain.StatusOK, a.Status())
}
