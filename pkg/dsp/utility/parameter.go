// Package utility provides common DSP utility functions.
package utility

import (
	"math"
	"math/rand"
)

// Clamp limits x to [min, max].
// Unlike ClampParameter it returns max for NaN and for +/-Inf that is not
// below min, so a broken input produces a loud extreme instead of
// propagating NaN through the signal path.
func Clamp(x, min, max float64) float64 {
	if x >= min && x <= max {
		return x
	}
	if x < min {
		return min
	}
	return max
}

// ClampParameter ensures a parameter value stays within the specified range.
func ClampParameter(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ScaleParameter performs linear scaling of a normalized parameter value (0-1) to a target range.
func ScaleParameter(normalized, min, max float64) float64 {
	return min + normalized*(max-min)
}

// ScaleParameterExp performs exponential scaling of a normalized parameter value (0-1) to a target range.
// Frequency controls use this so equal knob travel covers equal musical intervals.
func ScaleParameterExp(normalized, min, max float64) float64 {
	if min <= 0 || max <= 0 {
		return ScaleParameter(normalized, min, max)
	}
	return min * math.Pow(max/min, normalized)
}

// UnscaleParameterExp performs inverse exponential scaling from a target range back to normalized (0-1).
func UnscaleParameterExp(value, min, max float64) float64 {
	if min <= 0 || max <= 0 || max == min {
		if max == min {
			return 0.0
		}
		return (value - min) / (max - min)
	}
	return math.Log(value/min) / math.Log(max/min)
}

// Range of RandomMinSweep.
const (
	RandomMinSweepLow  = 5.0
	RandomMinSweepHigh = 15.0
)

// RandomMinSweep picks a minimum sweep length in samples from
// [RandomMinSweepLow, RandomMinSweepHigh]. Giving each oscillator instance
// a slightly different value avoids identical edges when several
// instances play together.
func RandomMinSweep(r *rand.Rand) float64 {
	return Clamp(RandomMinSweepLow+r.Float64()*(RandomMinSweepHigh-RandomMinSweepLow),
		RandomMinSweepLow, RandomMinSweepHigh)
}
