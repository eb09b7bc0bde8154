package process

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/squinewave/squine/pkg/dsp/oscillator"
	"github.com/squinewave/squine/pkg/dsp/utility"
	"github.com/squinewave/squine/pkg/framework/debug"
	"github.com/squinewave/squine/pkg/framework/param"
)

// Unit drives one oscillator from three parameter sources and an optional
// sync input.
type Unit struct {
	Freq param.Source
	Clip param.Source
	Skew param.Source

	// FM, when set, is added to Freq at FMDepth Hz per unit. Pushing the
	// sum below zero plays the waveform backwards.
	FM      param.Source
	FMDepth float64

	osc         *oscillator.Squinewave
	pendingSync bool
	cycles      int64
	logger      *debug.Logger
}

// NewUnit creates a unit. A MinSweep that is not positive picks a random
// value from rng (a time seeded one when nil). logger may be nil.
func NewUnit(cfg oscillator.Config, rng *rand.Rand, logger *debug.Logger) (*Unit, error) {
	if logger == nil {
		logger = debug.Default()
	}

	if !(cfg.MinSweep > 0) {
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		cfg.MinSweep = utility.RandomMinSweep(rng)
		logger.Debug("random min sweep", "min_sweep", cfg.MinSweep)
	}

	osc, err := oscillator.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create oscillator: %w", err)
	}
	if osc.MinSweep() != cfg.MinSweep {
		logger.Warn("min sweep clamped", "requested", cfg.MinSweep, "used", osc.MinSweep())
	}

	return &Unit{
		Freq:   param.ConstSource(oscillator.DefaultFreq),
		Clip:   param.ConstSource(oscillator.DefaultClip),
		Skew:   param.ConstSource(oscillator.DefaultSkew),
		osc:    osc,
		logger: logger,
	}, nil
}

// Oscillator returns the wrapped oscillator.
func (u *Unit) Oscillator() *oscillator.Squinewave { return u.osc }

// Trigger requests a hardsync on the first sample of the next block.
func (u *Unit) Trigger() {
	u.pendingSync = true
}

// Reset reseeds the oscillator at a symbolic phase.
func (u *Unit) Reset(phase float64) {
	u.pendingSync = false
	u.osc.Reset(phase)
}

// Cycles returns the number of wraparounds so far.
func (u *Unit) Cycles() int64 {
	return u.cycles
}

// Process fills ctx.Audio and ctx.SyncOut for the current block.
//
// Hardsync triggers on the first SyncIn sample >= 1. Once that sync has
// completed, or was ignored, the search resumes after the current sample,
// so several syncs per block are honoured.
func (u *Unit) Process(ctx *Context) {
	n := ctx.NumSamples()
	u.Freq.Begin(n)
	u.Clip.Begin(n)
	u.Skew.Begin(n)
	if u.FM != nil {
		u.FM.Begin(n)
	}

	syncAt := -1
	if ctx.SyncIn != nil {
		syncAt = FindSync(ctx.SyncIn, 0)
	}

	for i := 0; i < n; i++ {
		sync := i == syncAt || (i == 0 && u.pendingSync)
		freq := u.Freq.At(i)
		if u.FM != nil {
			freq += u.FMDepth * u.FM.At(i)
		}
		out, wrapped := u.osc.Step(freq, u.Clip.At(i), u.Skew.At(i), sync)

		ctx.Audio[i] = out
		if wrapped {
			ctx.SyncOut[i] = 1
			u.cycles++
		} else {
			ctx.SyncOut[i] = 0
		}

		if syncAt >= 0 && i >= syncAt && !u.osc.HardsyncActive() {
			syncAt = FindSync(ctx.SyncIn, i+1)
		}
	}
	u.pendingSync = false
}
