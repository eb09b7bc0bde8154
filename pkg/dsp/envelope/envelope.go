// Package envelope provides the amplitude envelope that gates notes.
package envelope

import "math"

// Stage is the segment an envelope is in.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// MinTime is the shortest attack, decay or release in seconds.
const MinTime = 0.0005

// silence ends a release.
const silence = 0.001

// Settings are the envelope times in seconds and the sustain level as a
// fraction of the note level.
type Settings struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// DefaultSettings returns short attack and release times at full sustain.
func DefaultSettings() Settings {
	return Settings{Attack: 0.002, Decay: 0.05, Sustain: 1, Release: 0.005}
}

func (s Settings) clamped() Settings {
	return Settings{
		Attack:  minTime(s.Attack),
		Decay:   minTime(s.Decay),
		Sustain: level(s.Sustain),
		Release: minTime(s.Release),
	}
}

func minTime(t float64) float64 {
	if !(t > MinTime) {
		return MinTime
	}
	return t
}

func level(v float64) float64 {
	switch {
	case !(v > 0):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ADSR is a one-pole attack, decay, sustain, release envelope. Each
// segment approaches its target exponentially with the segment time as the
// time constant. A note's level scales the whole shape.
type ADSR struct {
	sampleRate float64
	settings   Settings

	attackCoef  float64
	decayCoef   float64
	releaseCoef float64

	stage Stage
	value float64
	peak  float64
}

// New creates an idle envelope.
func New(sampleRate float64, s Settings) *ADSR {
	e := &ADSR{sampleRate: sampleRate}
	e.Set(s)
	return e
}

// Set replaces the settings. Times below MinTime and sustain outside 0-1
// are clamped. A running note keeps its stage.
func (e *ADSR) Set(s Settings) {
	e.settings = s.clamped()
	e.attackCoef = coef(e.settings.Attack, e.sampleRate)
	e.decayCoef = coef(e.settings.Decay, e.sampleRate)
	e.releaseCoef = coef(e.settings.Release, e.sampleRate)
}

// Settings returns the clamped settings in use.
func (e *ADSR) Settings() Settings {
	return e.settings
}

// coef = exp(-1 / (time * sampleRate))
func coef(seconds, sampleRate float64) float64 {
	return math.Exp(-1.0 / (seconds * sampleRate))
}

// Trigger starts a note at level, 0-1. The envelope moves on from its
// current value so a retrigger does not click; above the new level it
// decays instead of attacking.
func (e *ADSR) Trigger(noteLevel float64) {
	e.peak = level(noteLevel)
	if e.value >= e.peak {
		e.stage = StageDecay
		return
	}
	e.stage = StageAttack
}

// Release starts the release of a sounding note.
func (e *ADSR) Release() {
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

// Gate follows a note gate: a gate opening on an idle or releasing
// envelope triggers at noteLevel, a gate closing on a held note releases
// it. Overlapping notes play legato.
func (e *ADSR) Gate(on bool, noteLevel float64) {
	switch {
	case on && (e.stage == StageIdle || e.stage == StageRelease):
		e.Trigger(noteLevel)
	case !on && e.stage != StageIdle && e.stage != StageRelease:
		e.Release()
	}
}

// Reset silences the envelope at once.
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.value = 0
	e.peak = 0
}

// Active reports whether the envelope is producing output.
func (e *ADSR) Active() bool {
	return e.stage != StageIdle
}

// Stage returns the current stage.
func (e *ADSR) Stage() Stage {
	return e.stage
}

// Value returns the last generated value.
func (e *ADSR) Value() float64 {
	return e.value
}

// Next advances one sample.
func (e *ADSR) Next() float64 {
	switch e.stage {
	case StageAttack:
		e.value = e.peak + (e.value-e.peak)*e.attackCoef
		if e.value >= e.peak*(1-silence) {
			e.value = e.peak
			e.stage = StageDecay
		}

	case StageDecay:
		target := e.peak * e.settings.Sustain
		e.value = target + (e.value-target)*e.decayCoef
		if e.value <= target+silence {
			e.value = target
			e.stage = StageSustain
		}

	case StageSustain:
		e.value = e.peak * e.settings.Sustain

	case StageRelease:
		e.value *= e.releaseCoef
		if e.value <= silence {
			e.value = 0
			e.stage = StageIdle
		}

	case StageIdle:
		e.value = 0
	}

	return e.value
}

// Apply multiplies buffer by the envelope.
func (e *ADSR) Apply(buffer []float64) {
	for i := range buffer {
		buffer[i] *= e.Next()
	}
}
