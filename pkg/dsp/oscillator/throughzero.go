package oscillator

import "github.com/squinewave/squine/pkg/dsp/utility"

// detectZeroCrossing handles through-zero FM. When the frequency changes
// sign the clocks jump to the mirrored point of the waveform, and while it
// is negative the skew is inverted so the shape plays backwards.
func (s *Squinewave) detectZeroCrossing() {
	negative := s.rawFreq < 0
	if negative != s.negFreq && s.hardsyncPhase == 0 {
		s.phase = 1.5 - s.phase
		if s.phase < 0 {
			s.phase += 2.0
		}
		// mirror around 1 (pi radians)
		s.warped = 2.0 - s.warped
	}
	s.negFreq = negative
	s.curSkew = s.skewInEffect()
}

// skewInEffect is the midpoint the segments use: the skew input, mirrored
// while the waveform plays backwards.
func (s *Squinewave) skewInEffect() float64 {
	if s.negFreq {
		return utility.Clamp(2.0-s.skew, 0, 2)
	}
	return s.skew
}
