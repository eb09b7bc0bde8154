package render

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/squinewave/squine/pkg/dsp/envelope"
	"github.com/squinewave/squine/pkg/dsp/utility"
	"github.com/squinewave/squine/pkg/framework/debug"
	"github.com/squinewave/squine/pkg/framework/param"
	"github.com/squinewave/squine/pkg/framework/process"
	"github.com/squinewave/squine/pkg/midi"
)

// Result is a rendered patch.
type Result struct {
	Name       string
	SampleRate float64
	Output     Output

	// Audio is the rendered signal, Sync is 1 where the rendered
	// oscillator wrapped.
	Audio []float64
	Sync  []float64

	Cycles   int64
	MinSweep float64

	// Peak is the largest absolute sample written.
	Peak float64
}

// Duration returns the length of the result in seconds.
func (r *Result) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(len(r.Audio)) / r.SampleRate
}

type renderer struct {
	patch   *Patch
	chain   *process.Chain
	rampers []*ramper
	notes   *process.NoteSource
	env     *envelope.ADSR
	dc      *utility.DCBlocker
	syncBuf []float64
	gainBuf []float64
}

// Render renders a patch. It checks ctx between blocks.
func Render(ctx context.Context, p *Patch) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r, err := newRenderer(p)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Name, err)
	}

	total := p.TotalSamples()
	res := &Result{
		Name:       p.Name,
		SampleRate: p.SampleRate,
		Output:     p.Output,
		Audio:      make([]float64, total),
		Sync:       make([]float64, total),
	}

	debug.Debug("render start", "patch", p.Name, "samples", total, "block", p.BlockSize)
	for pos := 0; pos < total; pos += p.BlockSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render %s: %w", p.Name, err)
		}
		n := min(p.BlockSize, total-pos)
		if err := r.block(pos, n, res); err != nil {
			return nil, fmt.Errorf("render %s: %w", p.Name, err)
		}
	}

	last := r.chain.Unit(r.chain.Len() - 1)
	res.Cycles = last.Cycles()
	res.MinSweep = last.Oscillator().MinSweep()
	debug.WarnIf(res.Peak > 1, "render clips", "patch", p.Name, "peak", res.Peak)
	debug.Debug("render done", "patch", p.Name, "cycles", res.Cycles)
	return res, nil
}

func newRenderer(p *Patch) (*renderer, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	params := param.NewOscillatorRegistry()
	total := p.TotalSamples()
	r := &renderer{
		patch:   p,
		syncBuf: make([]float64, p.BlockSize),
		gainBuf: make([]float64, p.BlockSize),
	}

	master, err := process.NewUnit(p.Config(), rng, nil)
	if err != nil {
		return nil, err
	}
	r.wire(master, params, &p.Freq, &p.Clip, &p.Skew, total, p.Seed)
	units := []*process.Unit{master}

	if len(p.events) > 0 {
		r.notes = process.NewNoteSource(midi.NewSequence(p.events...), p.Freq.from)
		r.notes.BendRange = p.BendRange
		master.Freq = r.notes

		e := p.Envelope
		r.env = envelope.New(p.SampleRate, envelope.Settings{
			Attack:  e.Attack,
			Decay:   e.Decay,
			Sustain: *e.Sustain,
			Release: e.Release,
		})
	}

	if p.Slave != nil {
		slave, err := process.NewUnit(p.config(p.Slave.MinSweep), rng, nil)
		if err != nil {
			return nil, fmt.Errorf("slave: %w", err)
		}
		r.wire(slave, params, &p.Slave.Freq, &p.Slave.Clip, &p.Slave.Skew, total, p.Seed+1)
		units = append(units, slave)
	}
	r.chain = process.NewChain(p.BlockSize, p.SampleRate, units...)
	if p.Slave != nil && p.Slave.FM != 0 {
		r.chain.ModulateFrequency(1, p.Slave.FM)
	}

	if p.DCBlock > 0 {
		r.dc = utility.NewDCBlocker(p.DCBlock, p.SampleRate)
	}
	return r, nil
}

func (r *renderer) wire(u *process.Unit, params *param.Registry, freq, clip, skew *Control, total int, seed int64) {
	var rp *ramper
	u.Freq, rp = freq.source(params.Get(param.ParamFreq), false, r.patch.SampleRate, total, seed)
	r.addRamper(rp)
	u.Clip, rp = clip.source(params.Get(param.ParamClip), true, r.patch.SampleRate, total, seed+100)
	r.addRamper(rp)
	u.Skew, rp = skew.source(params.Get(param.ParamSkew), true, r.patch.SampleRate, total, seed+200)
	r.addRamper(rp)
}

func (r *renderer) addRamper(rp *ramper) {
	if rp != nil {
		r.rampers = append(r.rampers, rp)
	}
}

func (r *renderer) block(pos, n int, res *Result) error {
	for _, rp := range r.rampers {
		rp.advance(pos + n)
	}

	sync := r.syncBuf[:n]
	for i := range sync {
		sync[i] = 0
	}
	triggered := false
	for _, s := range r.patch.syncSamples {
		if s >= pos && s < pos+n {
			sync[s-pos] = 1
			triggered = true
		}
	}
	r.chain.SyncIn = nil
	if triggered {
		r.chain.SyncIn = sync
	}

	if err := r.chain.Process(n); err != nil {
		return err
	}

	last := r.chain.Len() - 1
	audio := res.Audio[pos : pos+n]
	copy(audio, r.chain.Output(last))
	copy(res.Sync[pos:pos+n], r.chain.Context(last).SyncOut)

	// Without notes one gain value holds for the whole block
	gain := r.gainBuf[:1]
	gain[0] = r.patch.Gain
	if r.notes != nil {
		gain = r.gainBuf[:n]
		for i := range gain {
			r.env.Gate(r.notes.Gate(i), r.notes.Level(i))
			gain[i] = r.env.Next() * r.patch.Gain
		}
	}
	process.ApplyGain(audio, gain)

	if r.dc != nil {
		r.dc.ProcessBuffer(audio)
	}
	for _, v := range audio {
		res.Peak = math.Max(res.Peak, math.Abs(v))
	}
	return nil
}
