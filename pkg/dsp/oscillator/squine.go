// Package oscillator provides the squinewave oscillator: a bandlimited
// oscillator that morphs between sine, square, saw and pulse shapes.
//
// One cycle runs the phase from 0 to 2 through four segments: a cosine sweep
// down from +1 to -1, a flat -1 part, a cosine sweep up to +1 and a flat +1
// part. Clip controls how much of each half is flat, skew moves the point
// between the halves. No sweep is ever shorter than MinSweep samples, which
// keeps the output bandlimited without filtering or tables. Above
// Constants.MaxSweepFreq the waveform degrades to a plain sine.
//
// Two clocks are kept. The phase advances linearly and decides when the cycle
// ends; the warped phase drives the cosine and is held during flat parts.
// They are reconciled at every segment boundary, which lets freq, clip and
// skew change every sample without discontinuities.
//
// A Squinewave is not safe for concurrent use. Step never allocates or blocks.
package oscillator

import (
	"math"

	"github.com/squinewave/squine/pkg/dsp/utility"
)

// Squinewave is a sine-square-saw-pulse morphing oscillator with hardsync.
type Squinewave struct {
	c           Constants
	throughZero bool

	// Inputs, set before each Generate call
	freq    float64 // Hz, >= 0 after clamping
	clip    float64 // proportion of a half cycle that sweeps, 1-clip
	skew    float64 // midpoint in phase units, 1-skew
	syncIn  bool
	rawFreq float64
	negFreq bool

	// Skew in effect for the current sample (mirrored when playing backwards)
	curSkew float64

	// Outputs
	sample  float64
	syncOut bool

	// phase and warped range 0-2, output is cos(pi*warped)
	phase         float64
	warped        float64
	hardsyncPhase float64
	hardsyncInc   float64
}

// State is a snapshot of the oscillator's internal clocks.
type State struct {
	Phase         float64
	WarpedPhase   float64
	HardsyncPhase float64
	HardsyncInc   float64
}

// New creates an oscillator. MinSweep is clamped into range; a sample rate
// that is not positive and finite returns ErrInvalidSampleRate.
func New(cfg Config) (*Squinewave, error) {
	c, err := newConstants(cfg.MinSweep, cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	s := &Squinewave{
		c:           c,
		throughZero: cfg.ThroughZero,
	}
	s.SetFreq(DefaultFreq)
	s.SetClip(DefaultClip)
	s.SetSkew(DefaultSkew)
	s.curSkew = s.skew
	s.SetInitPhase(cfg.InitPhase)
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(cfg Config) *Squinewave {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Step feeds one sample's inputs and generates one sample.
// It returns the audio value in [-1, 1] and whether the cycle wrapped on
// this sample.
func (s *Squinewave) Step(freq, clip, skew float64, sync bool) (float64, bool) {
	s.SetFreq(freq)
	s.SetClip(clip)
	s.SetSkew(skew)
	s.syncIn = sync
	s.Generate()
	return s.sample, s.syncOut
}

// Update sets all four inputs. Call it, or the individual setters, before
// every Generate.
func (s *Squinewave) Update(freq, clip, skew, syncSignal float64) {
	s.SetFreq(freq)
	s.SetClip(clip)
	s.SetSkew(skew)
	s.SetSync(syncSignal)
}

// SetFreq sets the frequency in Hz, clamped to [0, MaxFreq].
// Negative values play the waveform backwards when through-zero is enabled.
func (s *Squinewave) SetFreq(freq float64) {
	if s.throughZero {
		s.freq = utility.Clamp(math.Abs(freq), 0, MaxFreq)
		s.rawFreq = freq
		return
	}
	s.freq = utility.Clamp(freq, 0, MaxFreq)
	s.rawFreq = s.freq
}

// SetClip sets the squareness, 0 (sine/saw) to 1 (square/pulse).
func (s *Squinewave) SetClip(clip float64) {
	s.clip = 1.0 - utility.Clamp(clip, 0, 1)
}

// SetSkew sets the left-right symmetry, -1 to 1 with 0 symmetric.
func (s *Squinewave) SetSkew(skew float64) {
	s.skew = 1.0 - utility.Clamp(skew, -1, 1)
}

// SetSync starts a hardsync on the next Generate when signal reaches
// SyncThreshold. Listening to another oscillator's output works too.
func (s *Squinewave) SetSync(signal float64) {
	s.syncIn = signal >= SyncThreshold
}

// Trigger requests a hardsync on the next Generate.
func (s *Squinewave) Trigger() {
	s.syncIn = true
}

// Sample returns the value produced by the last Generate.
func (s *Squinewave) Sample() float64 { return s.sample }

// SyncOut reports whether the last Generate wrapped the cycle.
func (s *Squinewave) SyncOut() bool { return s.syncOut }

// MinSweep returns the minimum sweep length in force, in samples.
func (s *Squinewave) MinSweep() float64 { return s.c.MinSweep }

// Constants returns the derived constants.
func (s *Squinewave) Constants() Constants { return s.c }

// Phase returns the linear phase, 0-2.
func (s *Squinewave) Phase() float64 { return s.phase }

// WarpedPhase returns the shape phase, 0-2.
func (s *Squinewave) WarpedPhase() float64 { return s.warped }

// HardsyncActive reports whether a hardsync ramp is in flight.
func (s *Squinewave) HardsyncActive() bool { return s.hardsyncPhase != 0 }

// State returns a snapshot of the internal clocks.
func (s *Squinewave) State() State {
	return State{
		Phase:         s.phase,
		WarpedPhase:   s.warped,
		HardsyncPhase: s.hardsyncPhase,
		HardsyncInc:   s.hardsyncInc,
	}
}

// Generate produces one sample from the current inputs.
// Sample and SyncOut are valid afterwards.
func (s *Squinewave) Generate() {
	if s.syncIn {
		s.hardsyncInit()
		// Cleared here in case the host does not set sync every sample
		s.syncIn = false
	}
	freq := s.hardsyncAdvance(s.freq)

	s.curSkew = s.skew
	if s.throughZero {
		s.detectZeroCrossing()
	}

	phaseInc := s.c.PhaseIncPerHz * freq

	if freq >= s.c.MaxSweepFreq {
		// Pure sine, continuing from the warped phase
		s.sample = math.Cos(math.Pi * s.warped)
		s.phase = s.warped
		s.warped += phaseInc
	} else {
		s.sample = s.shape(phaseInc)
	}

	s.phase += phaseInc
	s.syncOut = s.wrap(freq, phaseInc)
}

// ProcessBuffer fills buffer holding the inputs constant and returns how
// many cycles completed - no allocations.
func (s *Squinewave) ProcessBuffer(buffer []float64, freq, clip, skew float64) int {
	s.SetFreq(freq)
	s.SetClip(clip)
	s.SetSkew(skew)
	cycles := 0
	for i := range buffer {
		s.Generate()
		buffer[i] = s.sample
		if s.syncOut {
			cycles++
		}
	}
	return cycles
}
