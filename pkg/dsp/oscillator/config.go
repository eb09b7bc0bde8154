package oscillator

import (
	"errors"
	"math"

	"github.com/squinewave/squine/pkg/dsp/utility"
)

// Limits and fixed values of the oscillator.
const (
	// MinSweepLow and MinSweepHigh bound the minimum sweep length in samples.
	MinSweepLow  = 4.0
	MinSweepHigh = 100.0

	// DefaultMinSweep is used by DefaultConfig.
	DefaultMinSweep = 8.0

	// MaxFreq is the highest accepted frequency in Hz. The technical
	// maximum is sampleRate/2; beyond this the waveform is a plain sine anyway.
	MaxFreq = 10000.0

	// SyncThreshold is the level a sync input signal must reach to trigger
	// hardsync. When listening to a high frequency oscillator it should
	// still hit this value; a proper pulse signal is preferred.
	SyncThreshold = 0.9997

	// SinePhase is the initial phase used for negative phase requests: the
	// rising zero crossing, so the waveform starts like a sine.
	SinePhase = 1.25

	// Initial per-sample inputs before the first update.
	DefaultFreq = 220.0
	DefaultClip = 0.0
	DefaultSkew = 0.0
)

// ErrInvalidSampleRate is returned when the sample rate is not a positive finite number.
var ErrInvalidSampleRate = errors.New("oscillator: sample rate must be positive and finite")

// Config holds construction parameters. It is immutable once the
// oscillator has been created.
type Config struct {
	// MinSweep is the shortest duration in samples of any rising or
	// falling edge. Clamped to [MinSweepLow, MinSweepHigh].
	MinSweep float64

	// SampleRate in Hz.
	SampleRate float64

	// InitPhase is passed to SetInitPhase after construction.
	// Negative selects SinePhase.
	InitPhase float64

	// ThroughZero enables playing backwards on negative frequencies.
	// When disabled negative frequencies are treated as zero.
	ThroughZero bool
}

// DefaultConfig returns a 48 kHz configuration starting on the sine phase.
func DefaultConfig() Config {
	return Config{
		MinSweep:    DefaultMinSweep,
		SampleRate:  48000.0,
		InitPhase:   -1.0,
		ThroughZero: true,
	}
}

// Constants are derived from a Config once at construction.
type Constants struct {
	MinSweep      float64 // clamped minimum sweep, samples
	MaxWarpInc    float64 // 1/MinSweep, cap on warped phase advance per sample
	PhaseIncPerHz float64 // 2/sampleRate
	MaxSweepFreq  float64 // above this the output is a pure sine
	MaxSyncFreq   float64 // above this hardsync requests are ignored
	SyncPhaseInc  float64 // hardsync ramp rate, radians per sample
}

func newConstants(minSweep, sampleRate float64) (Constants, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 1) {
		return Constants{}, ErrInvalidSampleRate
	}
	ms := utility.Clamp(minSweep, MinSweepLow, MinSweepHigh)
	logSweep := math.Log(ms)
	return Constants{
		MinSweep:      ms,
		MaxWarpInc:    1.0 / ms,
		PhaseIncPerHz: 2.0 / sampleRate,
		MaxSweepFreq:  sampleRate / (2.0 * ms),       // sr/8 - sr/200
		MaxSyncFreq:   sampleRate / (3.0 * logSweep), // sr/4.2 - sr/13.8
		SyncPhaseInc:  1.0 / logSweep,
	}, nil
}
