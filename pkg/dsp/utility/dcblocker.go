package utility

import "math"

// DCBlocker removes the DC offset that skewed pulse shapes carry.
// y[n] = x[n] - x[n-1] + R*y[n-1], R = 1 - 2*pi*cutoff/sampleRate
type DCBlocker struct {
	x1, y1      float64
	coefficient float64
}

// NewDCBlocker creates a DC blocker. The cutoff is typically 5-20 Hz.
func NewDCBlocker(cutoffHz, sampleRate float64) *DCBlocker {
	dc := &DCBlocker{}
	dc.SetCutoff(cutoffHz, sampleRate)
	return dc
}

// SetCutoff updates the cutoff frequency.
func (dc *DCBlocker) SetCutoff(cutoffHz, sampleRate float64) {
	// Clamped for stability
	dc.coefficient = ClampParameter(1.0-(2.0*math.Pi*cutoffHz/sampleRate), 0.9, 0.9999)
}

// Process removes DC from a single sample.
func (dc *DCBlocker) Process(input float64) float64 {
	output := input - dc.x1 + dc.coefficient*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer processes a buffer in-place.
func (dc *DCBlocker) ProcessBuffer(buffer []float64) {
	for i := range buffer {
		buffer[i] = dc.Process(buffer[i])
	}
}

// Reset clears the state.
func (dc *DCBlocker) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}
