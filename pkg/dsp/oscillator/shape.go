package oscillator

import (
	"math"

	"github.com/squinewave/squine/pkg/dsp/utility"
)

// segments returns the midpoint and the two sweep lengths for the current
// inputs at the given phase increment. minSweep is the shortest legal
// sweep in phase units.
func (s *Squinewave) segments(phaseInc float64) (minSweep, midpoint, down, up float64) {
	minSweep = phaseInc * s.c.MinSweep
	midpoint = utility.Clamp(s.curSkew, minSweep, 2.0-minSweep)
	down = math.Max(s.clip*midpoint, minSweep)
	up = math.Max(s.clip*(2.0-midpoint), minSweep)
	return minSweep, midpoint, down, up
}

// warpStep converts a phase distance into warped phase units for a sweep of
// the given length, capped at MaxWarpInc. A zero length only happens at
// zero frequency, where the waveform stands still.
func (s *Squinewave) warpStep(phaseDelta, sweepLength float64) float64 {
	if sweepLength <= 0 {
		return 0
	}
	return math.Min(phaseDelta/sweepLength, s.c.MaxWarpInc)
}

// shape runs the segment state machine for one sample below MaxSweepFreq.
func (s *Squinewave) shape(phaseInc float64) float64 {
	_, midpoint, down, up := s.segments(phaseInc)

	switch {
	// 1st half: sweep down to cos(pi) then flat -1 until phase reaches midpoint
	case s.warped < 1.0:
		out := math.Cos(math.Pi * s.warped)
		s.warped += s.warpStep(phaseInc, down)

		if s.warped > 1.0 {
			// phase and warped may disagree on where we are (FM, clip/skew
			// changes). warped wins to keep the waveform stable, and the
			// flat part decides where phase is.
			flat := midpoint - down
			overshoot := (s.warped - 1.0) * down

			s.phase = midpoint - flat + overshoot - phaseInc

			if flat >= overshoot {
				// phase may already be past midpoint here, meaning there is
				// no flat part; the 2nd half corrects that since warped == 1.
				s.warped = 1.0
			} else {
				s.warped = 1.0 + (overshoot-flat)/up
			}
		}
		return out

	case s.warped == 1.0 && s.phase < midpoint:
		return -1.0

	// 2nd half: sweep up to cos(2pi) then flat +1 until phase reaches 2
	case s.warped < 2.0:
		if s.warped == 1.0 {
			// leaving the flat part, carry the phase already past midpoint
			s.warped = 1.0 + s.warpStep(math.Min(s.phase-midpoint, phaseInc), up)
		}
		out := math.Cos(math.Pi * s.warped)
		s.warped += s.warpStep(phaseInc, up)

		if s.warped > 2.0 {
			flat := 2.0 - (midpoint + up)
			overshoot := (s.warped - 2.0) * up

			s.phase = 2.0 - flat + overshoot - phaseInc

			if flat >= overshoot {
				s.warped = 2.0
			} else {
				s.warped = 2.0 + (overshoot-flat)/down
			}
		}
		return out

	default:
		s.warped = 2.0
		return 1.0
	}
}

// wrap ends the cycle once both clocks have reached 2 and reports whether
// it did. freq is the frequency the sample ran at.
func (s *Squinewave) wrap(freq, phaseInc float64) bool {
	if s.warped < 2.0 || s.phase < 2.0 {
		return false
	}

	if s.hardsyncPhase != 0 {
		s.warped, s.phase = 0, 0
		s.hardsyncPhase, s.hardsyncInc = 0, 0
		return true
	}

	s.phase -= 2.0
	if s.phase > phaseInc {
		// wild aliasing frequency, just reset
		s.phase = phaseInc * 0.5
	}

	if freq < s.c.MaxSweepFreq {
		_, _, down, _ := s.segments(phaseInc)
		s.warped = s.warpStep(s.phase, down)
	} else {
		s.warped = s.phase
	}
	return true
}
