package analysis

import (
	"fmt"
	"math"
)

// Meter measures level statistics of audio buffers.
type Meter struct {
	ClippingThreshold float64
	DCThreshold       float64
	SilenceThreshold  float64
}

// NewMeter creates a meter with default thresholds.
func NewMeter() *Meter {
	return &Meter{
		ClippingThreshold: 0.999,
		DCThreshold:       0.01,
		SilenceThreshold:  0.0001,
	}
}

// MeterResult contains the results of a buffer analysis.
type MeterResult struct {
	Samples        int
	Peak           float64
	RMS            float64
	DC             float64
	ClippedSamples int
	NaNCount       int
	ZeroCrossings  int
	Silent         bool
}

// Analyze measures peak, RMS, DC offset and zero crossings of buffer.
// NaN and infinite samples are counted and otherwise skipped.
func (m *Meter) Analyze(buffer []float64) MeterResult {
	result := MeterResult{Samples: len(buffer)}
	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	var last float64
	counted := 0

	for _, sample := range buffer {
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			result.NaNCount++
			continue
		}

		abs := math.Abs(sample)
		if abs > result.Peak {
			result.Peak = abs
		}
		if abs >= m.ClippingThreshold {
			result.ClippedSamples++
		}

		sum += sample
		sumSquares += sample * sample

		if counted > 0 && (last < 0) != (sample < 0) {
			result.ZeroCrossings++
		}
		last = sample
		counted++
	}

	if counted > 0 {
		result.RMS = math.Sqrt(sumSquares / float64(counted))
		result.DC = sum / float64(counted)
	}
	result.Silent = result.RMS < m.SilenceThreshold
	return result
}

// Issues returns human readable problems found in a result.
func (m *Meter) Issues(r MeterResult) []string {
	var issues []string
	if r.NaNCount > 0 {
		issues = append(issues, fmt.Sprintf("contains %d non-finite values", r.NaNCount))
	}
	if r.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("peak exceeds 1.0 (%.3f)", r.Peak))
	}
	if math.Abs(r.DC) > m.DCThreshold {
		issues = append(issues, fmt.Sprintf("DC offset detected (%.3f)", r.DC))
	}
	if r.Silent && r.Samples > 0 {
		issues = append(issues, "silent")
	}
	return issues
}

// EstimateFrequency estimates the fundamental from the zero crossing rate.
// Only meaningful for waveforms crossing zero twice per cycle.
func (r MeterResult) EstimateFrequency(sampleRate float64) float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.ZeroCrossings) / 2.0 * sampleRate / float64(r.Samples)
}
