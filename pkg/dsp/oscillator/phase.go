package oscillator

import "math"

// SetInitPhase places the oscillator at a point of the waveform without a
// click, using the current freq, clip and skew. The symbolic phase covers
//
//	0.0-0.5  sweep down (zero crossing at 0.25)
//	0.5-1.0  flat -1
//	1.0-1.5  sweep up (zero crossing at 1.25)
//	1.5-2.0  flat +1
//
// While playing backwards the mirrored skew places the clocks, as the next
// Generate uses it. Negative values select SinePhase, values above 2 wrap.
// Any hardsync in flight is cancelled. Fade the output to zero before
// reseeding a sounding oscillator.
func (s *Squinewave) SetInitPhase(phaseIn float64) {
	s.hardsyncPhase, s.hardsyncInc = 0, 0
	s.curSkew = s.skewInEffect()

	_, midpoint, down, up := s.segments(s.c.PhaseIncPerHz * s.freq)

	p := phaseIn
	switch {
	case !(p >= 0) || math.IsInf(p, 1):
		p = SinePhase
	case p > 2.0:
		p = math.Mod(p, 2.0)
	}

	switch {
	case p < 0.5:
		s.phase = down * (p * 2.0)
		s.warped = p * 2.0
	case p < 1.0:
		flat := midpoint - down
		s.phase = down + flat*((p-0.5)*2.0)
		s.warped = 1.0
	case p < 1.5:
		s.phase = midpoint + up*((p-1.0)*2.0)
		s.warped = 1.0 + (p-1.0)*2.0
	default:
		flat := 2.0 - (midpoint + up)
		s.phase = midpoint + up + flat*((p-1.5)*2.0)
		s.warped = 2.0
	}
}

// Reset reseeds the oscillator at phase p; see SetInitPhase.
func (s *Squinewave) Reset(p float64) {
	s.negFreq = false
	s.syncIn = false
	s.SetInitPhase(p)
}
