package param

import (
	"math"
)

// Glide selects the curve a Smoother follows between two control values.
type Glide int

const (
	// LinearGlide moves by equal steps, for clip and skew.
	LinearGlide Glide = iota
	// ExponentialGlide moves by equal ratios, for frequencies. It falls back
	// to LinearGlide when either end is not positive, so a through-zero
	// sweep still ramps.
	ExponentialGlide
)

func (g Glide) String() string {
	switch g {
	case LinearGlide:
		return "linear"
	case ExponentialGlide:
		return "exponential"
	default:
		return "unknown"
	}
}

// Smoother turns block rate control values into per-sample ramps. Each Ramp
// starts one step after the previous end value and lands exactly on the new
// target at the last sample, so consecutive blocks join without a step.
type Smoother struct {
	glide   Glide
	current float64
	started bool
}

// NewSmoother creates a smoother at value.
func NewSmoother(glide Glide, value float64) *Smoother {
	return &Smoother{glide: glide, current: value}
}

// Glide returns the ramp curve.
func (s *Smoother) Glide() Glide {
	return s.glide
}

// Current returns the value the last ramp ended on.
func (s *Smoother) Current() float64 {
	return s.current
}

// Reset jumps to value. The next Ramp starts there without gliding.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.started = false
}

// Ramp fills dst with the glide from the current value to target. The first
// ramp after NewSmoother or Reset holds target for the whole block. NaN
// targets hold the current value.
func (s *Smoother) Ramp(dst []float64, target float64) {
	n := len(dst)
	if n == 0 {
		return
	}
	if math.IsNaN(target) {
		target = s.current
	}
	if !s.started {
		s.current = target
		s.started = true
	}

	from := s.current
	switch {
	case from == target:
		for i := range dst {
			dst[i] = target
		}
	case s.glide == ExponentialGlide && from > 0 && target > 0:
		ratio := math.Pow(target/from, 1/float64(n))
		v := from
		for i := range dst {
			v *= ratio
			dst[i] = v
		}
	default:
		step := (target - from) / float64(n)
		for i := range dst {
			dst[i] = from + step*float64(i+1)
		}
	}
	dst[n-1] = target
	s.current = target
}
