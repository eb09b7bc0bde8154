package render

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/squinewave/squine/pkg/dsp/modulation"
	"github.com/squinewave/squine/pkg/framework/param"
)

// Control is how one oscillator input moves during a render: a constant
// Value, a linear ramp from Value to To, or an LFO centred on Value.
// Values are parsed with the parameter's parser, so "1kHz", "C3" or "50%"
// are accepted where they make sense. A bare YAML scalar is a constant.
type Control struct {
	Value string   `yaml:"value"`
	To    string   `yaml:"to,omitempty"`
	LFO   *LFOSpec `yaml:"lfo,omitempty"`

	from float64
	to   float64
	ramp bool
}

// LFOSpec describes an LFO in the units of the modulated input.
type LFOSpec struct {
	Waveform string  `yaml:"waveform"`
	Rate     float64 `yaml:"rate"`
	Depth    float64 `yaml:"depth"`
	Phase    float64 `yaml:"phase"`

	waveform modulation.Waveform
}

// UnmarshalYAML accepts a scalar or a mapping.
func (c *Control) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Control{Value: node.Value}
		return nil
	}
	type plain Control
	var v plain
	if err := node.Decode(&v); err != nil {
		return err
	}
	*c = Control(v)
	return nil
}

// Const returns a constant control.
func Const(value string) Control {
	return Control{Value: value}
}

func (c *Control) resolve(p *param.Parameter, def float64) error {
	c.from = def
	if c.Value != "" {
		v, err := p.ParsePlain(c.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
		c.from = v
	}

	c.to = c.from
	c.ramp = c.To != ""
	if c.ramp {
		v, err := p.ParsePlain(c.To)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
		c.to = v
	}

	if c.LFO != nil {
		if c.ramp {
			return fmt.Errorf("%w: %s: to and lfo cannot be combined", ErrInvalidPatch, p.Name)
		}
		w, err := modulation.ParseWaveform(c.LFO.Waveform)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPatch, p.Name, err)
		}
		if !(c.LFO.Rate >= modulation.MinRate && c.LFO.Rate <= modulation.MaxRate) {
			return fmt.Errorf("%w: %s: lfo rate %v outside [%v, %v]",
				ErrInvalidPatch, p.Name, c.LFO.Rate, modulation.MinRate, modulation.MaxRate)
		}
		c.LFO.waveform = w
	}
	return nil
}

// ramper moves a control source along a linear ramp, one block at a time.
type ramper struct {
	src      *param.ControlSource
	from, to float64
	total    int
}

func (r *ramper) advance(end int) {
	r.src.Set(r.from + (r.to-r.from)*float64(end)/float64(r.total))
}

// source builds the block source of a resolved control. bounded clamps
// LFO output to the parameter's range. The ramper is nil unless the
// control ramps.
func (c *Control) source(p *param.Parameter, bounded bool, sampleRate float64, total int, seed int64) (param.Source, *ramper) {
	switch {
	case c.LFO != nil:
		lfo := modulation.NewLFO(sampleRate)
		lfo.SetSeed(seed)
		lfo.SetWaveform(c.LFO.waveform)
		lfo.SetFrequency(c.LFO.Rate)
		lfo.SetDepth(c.LFO.Depth)
		lfo.SetOffset(c.from)
		lfo.SetPhase(c.LFO.Phase)
		if bounded {
			lfo.SetRange(p.Min, p.Max)
		} else {
			lfo.SetRange(math.Inf(-1), math.Inf(1))
		}
		return lfo, nil
	case c.ramp:
		src := param.NewControlSource(c.from)
		return src, &ramper{src: src, from: c.from, to: c.to, total: total}
	default:
		return param.ConstSource(c.from), nil
	}
}
