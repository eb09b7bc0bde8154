package param

import (
	"fmt"
	"strings"

	"github.com/squinewave/squine/pkg/dsp/oscillator"
)

// Oscillator parameter IDs.
const (
	ParamFreq uint32 = iota
	ParamClip
	ParamSkew
	ParamMinSweep
	ParamInitPhase
)

// Oscillator parameter names, as used by patches and the command line.
const (
	NameFreq      = "freq"
	NameClip      = "clip"
	NameSkew      = "skew"
	NameMinSweep  = "min_sweep"
	NameInitPhase = "init_phase"
)

// FrequencyParameter creates a frequency parameter with exponential scaling.
func FrequencyParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Exponential().
		Default(defaultVal).
		Unit("Hz").
		Formatter(FrequencyFormatter, FrequencyParser)
}

// ClipParameter creates the squareness control, 0-100%.
func ClipParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0, 1).
		Default(oscillator.DefaultClip).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// SkewParameter creates the symmetry control, -100% to 100% with 0 symmetric.
func SkewParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(-1, 1).
		Default(oscillator.DefaultSkew).
		Unit("%").
		Formatter(BipolarFormatter, PercentParser)
}

// MinSweepParameter describes the construction time minimum sweep length.
func MinSweepParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(oscillator.MinSweepLow, oscillator.MinSweepHigh).
		Default(oscillator.DefaultMinSweep).
		Unit("smp").
		Setup().
		Formatter(func(v float64) string {
			return fmt.Sprintf("%.1f smp", v)
		}, func(s string) (float64, error) {
			s = strings.TrimSuffix(strings.TrimSpace(s), "smp")
			return parseFloat(strings.TrimSpace(s))
		})
}

// InitPhaseParameter describes the symbolic start phase, 0-2.
func InitPhaseParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0, 2).
		Default(oscillator.SinePhase).
		Setup()
}

// NewOscillatorRegistry registers the squinewave parameters.
func NewOscillatorRegistry() *Registry {
	r := NewRegistry()
	// IDs and names are distinct constants, Add cannot fail here
	_ = r.Add(
		FrequencyParameter(ParamFreq, NameFreq, 1, oscillator.MaxFreq, oscillator.DefaultFreq).ShortName("Freq").Build(),
		ClipParameter(ParamClip, NameClip).ShortName("Clip").Build(),
		SkewParameter(ParamSkew, NameSkew).ShortName("Skew").Build(),
		MinSweepParameter(ParamMinSweep, NameMinSweep).ShortName("Sweep").Build(),
		InitPhaseParameter(ParamInitPhase, NameInitPhase).ShortName("Phase").Build(),
	)
	return r
}

func parseFloat(s string) (float64, error) {
	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", s)
	}
	return value, nil
}
