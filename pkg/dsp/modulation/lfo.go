// Package modulation provides low frequency oscillators for sweeping the
// shape parameters of a squinewave over time.
package modulation

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Waveform represents the LFO waveform shape
type Waveform int

const (
	// WaveformSine produces a sine wave
	WaveformSine Waveform = iota
	// WaveformTriangle produces a triangle wave
	WaveformTriangle
	// WaveformSquare produces a square wave
	WaveformSquare
	// WaveformSawtooth produces a sawtooth wave (ramp up)
	WaveformSawtooth
	// WaveformRandom produces random values (sample & hold noise)
	WaveformRandom
)

// Rate limits in Hz.
const (
	MinRate = 0.0
	MaxRate = 100.0
)

var waveformNames = [...]string{"sine", "triangle", "square", "saw", "random"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// ParseWaveform parses a waveform name. An empty name is a sine.
func ParseWaveform(name string) (Waveform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "sine", "sin":
		return WaveformSine, nil
	case "triangle", "tri":
		return WaveformTriangle, nil
	case "square", "sqr":
		return WaveformSquare, nil
	case "saw", "sawtooth", "ramp":
		return WaveformSawtooth, nil
	case "random", "s&h", "noise":
		return WaveformRandom, nil
	}
	return WaveformSine, fmt.Errorf("unknown LFO waveform: %q", name)
}

// LFO is a low frequency oscillator. Output is offset + depth*wave,
// clamped to [min, max], all in the units of the modulated parameter.
//
// An LFO also serves as a block parameter source: Begin renders n samples
// and At reads them back.
type LFO struct {
	sampleRate float64

	frequency float64
	phase     float64 // 0-1
	waveform  Waveform
	depth     float64
	offset    float64
	min, max  float64

	syncEnabled bool
	syncPhase   float64

	phaseInc float64

	rng           *rand.Rand
	currentRandom float64
	randomCounter int
	randomPeriod  int

	block []float64
}

// NewLFO creates a 1 Hz unit depth sine LFO around zero.
func NewLFO(sampleRate float64) *LFO {
	lfo := &LFO{
		sampleRate: sampleRate,
		frequency:  1.0,
		waveform:   WaveformSine,
		depth:      1.0,
		min:        math.Inf(-1),
		max:        math.Inf(1),
		rng:        rand.New(rand.NewSource(1)),
	}

	lfo.updatePhaseIncrement()
	return lfo
}

// SetFrequency sets the LFO frequency in Hz
func (l *LFO) SetFrequency(hz float64) {
	if math.IsNaN(hz) {
		hz = MinRate
	}
	l.frequency = math.Max(MinRate, math.Min(MaxRate, hz))
	l.updatePhaseIncrement()
}

// SetWaveform sets the LFO waveform
func (l *LFO) SetWaveform(waveform Waveform) {
	l.waveform = waveform
	if waveform == WaveformRandom {
		l.updateRandomPeriod()
		l.currentRandom = 2.0*l.rng.Float64() - 1.0
		l.randomCounter = 0
	}
}

// SetSeed reseeds the random waveform generator.
func (l *LFO) SetSeed(seed int64) {
	l.rng = rand.New(rand.NewSource(seed))
}

// SetDepth sets the modulation depth. Negative depths invert the wave.
func (l *LFO) SetDepth(depth float64) {
	l.depth = depth
}

// SetOffset sets the centre value.
func (l *LFO) SetOffset(offset float64) {
	l.offset = offset
}

// SetRange bounds the output. Swapped bounds are reordered.
func (l *LFO) SetRange(min, max float64) {
	if min > max {
		min, max = max, min
	}
	l.min, l.max = min, max
}

// SetPhase sets the current phase (0-1)
func (l *LFO) SetPhase(phase float64) {
	l.phase = phase - math.Floor(phase)
}

// EnableSync enables sync with configurable reset phase
func (l *LFO) EnableSync(enabled bool, resetPhase float64) {
	l.syncEnabled = enabled
	l.syncPhase = math.Max(0.0, math.Min(1.0, resetPhase))
}

// Sync resets the LFO phase, for example on a note or oscillator sync.
func (l *LFO) Sync() {
	if l.syncEnabled {
		l.phase = l.syncPhase
	}
}

func (l *LFO) updatePhaseIncrement() {
	l.phaseInc = l.frequency / l.sampleRate
	l.updateRandomPeriod()
}

func (l *LFO) updateRandomPeriod() {
	if l.frequency > 0 {
		l.randomPeriod = int(l.sampleRate / l.frequency)
	} else {
		l.randomPeriod = math.MaxInt32
	}
}

func (l *LFO) generateWaveform() float64 {
	switch l.waveform {
	case WaveformSine:
		return math.Sin(2.0 * math.Pi * l.phase)

	case WaveformTriangle:
		if l.phase < 0.5 {
			return 4.0*l.phase - 1.0
		}
		return 3.0 - 4.0*l.phase

	case WaveformSquare:
		if l.phase < 0.5 {
			return 1.0
		}
		return -1.0

	case WaveformSawtooth:
		return 2.0*l.phase - 1.0

	case WaveformRandom:
		if l.randomCounter >= l.randomPeriod {
			l.randomCounter = 0
			l.currentRandom = 2.0*l.rng.Float64() - 1.0
		}
		l.randomCounter++
		return l.currentRandom

	default:
		return 0.0
	}
}

// Process generates the next LFO sample
func (l *LFO) Process() float64 {
	output := l.generateWaveform()*l.depth + l.offset

	l.phase += l.phaseInc
	if l.phase >= 1.0 {
		l.phase -= 1.0
	}

	return math.Max(l.min, math.Min(l.max, output))
}

// ProcessBuffer fills a buffer with LFO values
func (l *LFO) ProcessBuffer(output []float64) {
	for i := range output {
		output[i] = l.Process()
	}
}

// Begin renders the next n samples for At.
func (l *LFO) Begin(n int) {
	if cap(l.block) < n {
		l.block = make([]float64, n)
	}
	l.block = l.block[:n]
	l.ProcessBuffer(l.block)
}

// At returns sample i of the block rendered by Begin.
func (l *LFO) At(i int) float64 {
	if i >= len(l.block) {
		if len(l.block) == 0 {
			return math.Max(l.min, math.Min(l.max, l.offset))
		}
		return l.block[len(l.block)-1]
	}
	return l.block[i]
}

// GetPhase returns the current phase (0-1)
func (l *LFO) GetPhase() float64 {
	return l.phase
}

// Reset resets the LFO state
func (l *LFO) Reset() {
	l.phase = 0.0
	l.randomCounter = 0
	l.currentRandom = 0.0
}
