package oscillator

import "math"

// hardsyncInit starts a hardsync: rather than jumping to the start of the
// cycle, which would alias, the frequency is ramped up towards MaxSyncFreq
// so the cycle ends with a short extra sweep (about 0-20 samples).
func (s *Squinewave) hardsyncInit() {
	if s.hardsyncPhase != 0 {
		return
	}

	// Already on the last flat part: the cycle can end right now
	if s.warped == 2.0 {
		s.phase = 2.0
		return
	}

	// No room left for a sync sweep
	if s.freq > s.c.MaxSyncFreq {
		return
	}

	s.hardsyncInc = s.c.SyncPhaseInc
	s.hardsyncPhase = s.hardsyncInc * 0.5
}

// hardsyncAdvance returns the frequency to run at for this sample: freq
// raised along an eased curve towards MaxSyncFreq while a hardsync is in
// flight. The ramp holds at full rate once hardsyncPhase reaches pi, until
// the wraparound clears it. The frequency input itself is left alone so the
// next cycle runs at the normal rate.
func (s *Squinewave) hardsyncAdvance(freq float64) float64 {
	if s.hardsyncPhase == 0 {
		return freq
	}
	syncSweep := 0.5 * (1.0 - math.Cos(s.hardsyncPhase))
	freq += syncSweep * (s.c.MaxSyncFreq - freq)
	s.hardsyncPhase += s.hardsyncInc
	if s.hardsyncPhase > math.Pi {
		s.hardsyncPhase = math.Pi
		s.hardsyncInc = 0
	}
	return freq
}
