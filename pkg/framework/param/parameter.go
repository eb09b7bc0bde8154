// Package param provides the oscillator's host parameters and the sources
// that feed per-sample inputs to it.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/squinewave/squine/pkg/dsp/utility"
)

// Parameter is a host-facing control with a plain range and a normalized
// 0-1 value. The value is stored atomically so a control thread can set it
// while the audio thread reads it.
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // normalized

	// Setup parameters configure an oscillator when it is built and are
	// not modulated while it runs.
	Setup bool

	// Exponential maps the normalized value onto the range exponentially,
	// for frequencies. Requires Min > 0.
	Exponential bool

	value atomic.Uint64

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value, clamped to 0-1.
func (p *Parameter) SetValue(value float64) {
	if !(value >= 0) {
		value = 0
	} else if value > 1 {
		value = 1
	}
	p.value.Store(math.Float64bits(value))
}

// GetPlainValue returns the value in the parameter's own range.
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue sets the value from the parameter's own range.
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// FormatValue returns a display string for a normalized value.
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses a display string to a normalized value.
func (p *Parameter) ParseValue(str string) (float64, error) {
	plain, err := p.ParsePlain(str)
	if err != nil {
		return 0, err
	}
	return p.Normalize(plain), nil
}

// ParsePlain parses a display string to a plain value without clamping
// it to the parameter's range.
func (p *Parameter) ParsePlain(str string) (float64, error) {
	parse := p.parseFunc
	if parse == nil {
		parse = func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		}
	}
	plain, err := parse(str)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	return plain, nil
}

// Normalize converts a plain value to 0-1.
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	var normalized float64
	if p.Exponential && p.Min > 0 {
		if !(plain > 0) {
			return 0
		}
		normalized = utility.UnscaleParameterExp(plain, p.Min, p.Max)
	} else {
		normalized = (plain - p.Min) / (p.Max - p.Min)
	}
	if !(normalized >= 0) {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// Denormalize converts 0-1 to a plain value.
func (p *Parameter) Denormalize(normalized float64) float64 {
	if p.Exponential {
		return utility.ScaleParameterExp(normalized, p.Min, p.Max)
	}
	return utility.ScaleParameter(normalized, p.Min, p.Max)
}
