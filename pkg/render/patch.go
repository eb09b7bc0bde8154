package render

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/squinewave/squine/pkg/dsp/oscillator"
	"github.com/squinewave/squine/pkg/framework/param"
	"github.com/squinewave/squine/pkg/midi"
)

// ErrInvalidPatch is wrapped by every patch validation error.
var ErrInvalidPatch = errors.New("invalid patch")

// Patch defaults.
const (
	DefaultSampleRate = 48000.0
	DefaultDuration   = 1.0
	DefaultBlockSize  = 512
	DefaultBitDepth   = 16

	// Note envelope defaults, in seconds.
	DefaultAttack  = 0.002
	DefaultRelease = 0.005

	// DefaultVelocity plays notes at full level.
	DefaultVelocity = 127

	// DefaultBendRange is the pitch bend range in semitones.
	DefaultBendRange = 2.0

	// MaxDuration bounds a render, in seconds.
	MaxDuration = 600.0
	// MaxBlockSize bounds the processing block.
	MaxBlockSize = 8192
)

// Patch describes one render.
type Patch struct {
	Name       string  `yaml:"name"`
	SampleRate float64 `yaml:"sample_rate"`
	Duration   float64 `yaml:"duration"`
	BlockSize  int     `yaml:"block_size"`

	// MinSweep in samples; absent selects the default, <= 0 a random
	// value drawn with Seed.
	MinSweep    *float64 `yaml:"min_sweep"`
	InitPhase   *float64 `yaml:"init_phase"`
	ThroughZero *bool    `yaml:"through_zero"`
	Seed        int64    `yaml:"seed"`

	Freq Control `yaml:"freq"`
	Clip Control `yaml:"clip"`
	Skew Control `yaml:"skew"`

	// Notes play the frequency and gate the output through Envelope.
	// Freq is the pitch before the first note.
	Notes    []Note   `yaml:"notes"`
	Envelope Envelope `yaml:"envelope"`

	// Bends move the pitch of notes; BendRange is the full scale bend in
	// semitones.
	Bends     []Bend  `yaml:"bends"`
	BendRange float64 `yaml:"bend_range"`

	// Sync lists hard sync trigger times in seconds.
	Sync []float64 `yaml:"sync"`

	// Slave, when set, is hard synced to the main oscillator and is what
	// gets rendered.
	Slave *Slave `yaml:"slave"`

	Gain    float64 `yaml:"gain"`
	DCBlock float64 `yaml:"dc_block"` // cutoff in Hz, 0 disables

	Output Output `yaml:"output"`

	syncSamples []int
	events      []midi.Event
}

// Note is one note of a patch. Length 0 holds to the end. Velocity, 1-127,
// scales the note level.
type Note struct {
	Note     string  `yaml:"note"`
	At       float64 `yaml:"at"`
	Length   float64 `yaml:"length"`
	Velocity int     `yaml:"velocity"`
}

// Bend sets the pitch bend at a time in seconds. Value runs from -1 to 1
// and holds until the next bend.
type Bend struct {
	At    float64 `yaml:"at"`
	Value float64 `yaml:"value"`
}

// Envelope shapes the level of notes. Sustain is a level, the rest are
// times in seconds. An absent sustain holds full level.
type Envelope struct {
	Attack  float64  `yaml:"attack"`
	Decay   float64  `yaml:"decay"`
	Sustain *float64 `yaml:"sustain"`
	Release float64  `yaml:"release"`
}

// Slave is a second oscillator synced to the main one. FM adds the main
// oscillator's output to the slave frequency, in Hz per unit.
type Slave struct {
	MinSweep *float64 `yaml:"min_sweep"`
	Freq     Control  `yaml:"freq"`
	Clip     Control  `yaml:"clip"`
	Skew     Control  `yaml:"skew"`
	FM       float64  `yaml:"fm"`
}

// Output says where and how a render is written.
type Output struct {
	Path        string `yaml:"path"`
	BitDepth    int    `yaml:"bit_depth"`
	SyncChannel bool   `yaml:"sync_channel"`
}

// LoadPatch reads and validates a YAML patch. A leading ~ in path is the
// home directory. The name defaults to the file name.
func LoadPatch(path string) (*Patch, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("read patch: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch: %w", err)
	}
	p, err := ParsePatch(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// ParsePatch decodes and validates a YAML patch.
func ParsePatch(data []byte) (*Patch, error) {
	var p Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate fills defaults and checks the patch. It is safe to call more
// than once.
func (p *Patch) Validate() error {
	if p.SampleRate == 0 {
		p.SampleRate = DefaultSampleRate
	}
	if !(p.SampleRate > 0) || math.IsInf(p.SampleRate, 1) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidPatch, p.SampleRate)
	}
	if p.Duration == 0 {
		p.Duration = DefaultDuration
	}
	if !(p.Duration > 0 && p.Duration <= MaxDuration) {
		return fmt.Errorf("%w: duration %v outside (0, %v]", ErrInvalidPatch, p.Duration, MaxDuration)
	}
	if p.BlockSize == 0 {
		p.BlockSize = DefaultBlockSize
	}
	if p.BlockSize < 1 || p.BlockSize > MaxBlockSize {
		return fmt.Errorf("%w: block size %d", ErrInvalidPatch, p.BlockSize)
	}
	if p.Gain == 0 {
		p.Gain = 1
	}
	if p.Envelope.Attack == 0 {
		p.Envelope.Attack = DefaultAttack
	}
	if p.Envelope.Release == 0 {
		p.Envelope.Release = DefaultRelease
	}
	if p.Envelope.Sustain == nil {
		full := 1.0
		p.Envelope.Sustain = &full
	}
	if p.Envelope.Attack < 0 || p.Envelope.Decay < 0 || p.Envelope.Release < 0 {
		return fmt.Errorf("%w: negative envelope time", ErrInvalidPatch)
	}
	if s := *p.Envelope.Sustain; !(s >= 0 && s <= 1) {
		return fmt.Errorf("%w: sustain %v outside [0, 1]", ErrInvalidPatch, s)
	}
	if p.BendRange == 0 {
		p.BendRange = DefaultBendRange
	}
	if !(p.BendRange > 0 && p.BendRange <= 48) {
		return fmt.Errorf("%w: bend range %v outside (0, 48]", ErrInvalidPatch, p.BendRange)
	}
	if p.DCBlock < 0 {
		return fmt.Errorf("%w: negative dc_block", ErrInvalidPatch)
	}
	if p.InitPhase != nil && math.IsNaN(*p.InitPhase) {
		return fmt.Errorf("%w: init_phase is NaN", ErrInvalidPatch)
	}

	switch p.Output.BitDepth {
	case 0:
		p.Output.BitDepth = DefaultBitDepth
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: bit depth %d", ErrInvalidPatch, p.Output.BitDepth)
	}

	params := param.NewOscillatorRegistry()
	if err := resolveControls(params, &p.Freq, &p.Clip, &p.Skew); err != nil {
		return err
	}
	if p.Slave != nil {
		if err := resolveControls(params, &p.Slave.Freq, &p.Slave.Clip, &p.Slave.Skew); err != nil {
			return fmt.Errorf("slave: %w", err)
		}
		if math.IsNaN(p.Slave.FM) || math.IsInf(p.Slave.FM, 0) {
			return fmt.Errorf("%w: slave fm %v", ErrInvalidPatch, p.Slave.FM)
		}
	}

	total := p.TotalSamples()
	p.syncSamples = p.syncSamples[:0]
	for _, t := range p.Sync {
		if !(t >= 0) || t > p.Duration {
			return fmt.Errorf("%w: sync time %v outside the render", ErrInvalidPatch, t)
		}
		if s := p.sampleAt(t); s < total {
			p.syncSamples = append(p.syncSamples, s)
		}
	}

	p.events = p.events[:0]
	for i, n := range p.Notes {
		events, err := n.events(p)
		if err != nil {
			return fmt.Errorf("%w: note %d: %v", ErrInvalidPatch, i, err)
		}
		p.events = append(p.events, events...)
	}
	if len(p.Bends) > 0 && len(p.Notes) == 0 {
		return fmt.Errorf("%w: bends need notes", ErrInvalidPatch)
	}
	for i, b := range p.Bends {
		if !(b.At >= 0) || b.At > p.Duration {
			return fmt.Errorf("%w: bend %d: time %v outside the render", ErrInvalidPatch, i, b.At)
		}
		if !(b.Value >= -1 && b.Value <= 1) {
			return fmt.Errorf("%w: bend %d: value %v outside [-1, 1]", ErrInvalidPatch, i, b.Value)
		}
		p.events = append(p.events, midi.PitchBend{
			Offset: midi.Offset(p.sampleAt(b.At)),
			Value:  midi.BendValue(b.Value),
		})
	}
	return nil
}

func resolveControls(params *param.Registry, freq, clip, skew *Control) error {
	if err := freq.resolve(params.Get(param.ParamFreq), oscillator.DefaultFreq); err != nil {
		return err
	}
	if err := clip.resolve(params.Get(param.ParamClip), oscillator.DefaultClip); err != nil {
		return err
	}
	return skew.resolve(params.Get(param.ParamSkew), oscillator.DefaultSkew)
}

// TotalSamples returns the length of the render in samples.
func (p *Patch) TotalSamples() int {
	return p.sampleAt(p.Duration)
}

func (p *Patch) sampleAt(seconds float64) int {
	return int(math.Round(seconds * p.SampleRate))
}

// Config returns the oscillator configuration of the main oscillator.
func (p *Patch) Config() oscillator.Config {
	return p.config(p.MinSweep)
}

func (p *Patch) config(minSweep *float64) oscillator.Config {
	cfg := oscillator.DefaultConfig()
	cfg.SampleRate = p.SampleRate
	if minSweep != nil {
		cfg.MinSweep = *minSweep
	}
	if p.InitPhase != nil {
		cfg.InitPhase = *p.InitPhase
	}
	if p.ThroughZero != nil {
		cfg.ThroughZero = *p.ThroughZero
	}
	return cfg
}

func (n Note) events(p *Patch) ([]midi.Event, error) {
	number, err := parseNote(n.Note)
	if err != nil {
		return nil, err
	}
	if !(n.At >= 0) || n.Length < 0 {
		return nil, fmt.Errorf("bad timing at=%v length=%v", n.At, n.Length)
	}
	velocity := n.Velocity
	if velocity == 0 {
		velocity = DefaultVelocity
	}
	if velocity < 1 || velocity > 127 {
		return nil, fmt.Errorf("velocity %d", velocity)
	}

	events := []midi.Event{midi.NoteOn{
		Offset:   midi.Offset(p.sampleAt(n.At)),
		Note:     number,
		Velocity: uint8(velocity),
	}}
	if n.Length > 0 {
		events = append(events, midi.NoteOff{
			Offset: midi.Offset(p.sampleAt(n.At + n.Length)),
			Note:   number,
		})
	}
	return events, nil
}

// parseNote accepts a note name or a MIDI note number.
func parseNote(s string) (uint8, error) {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if v < 0 || v > 127 {
			return 0, fmt.Errorf("note number %d out of range", v)
		}
		return uint8(v), nil
	}
	return midi.ParseNoteName(s)
}

// Fundamental returns the pitch of the rendered signal when it is fixed:
// a constant frequency, no notes and no slave.
func (p *Patch) Fundamental() (float64, bool) {
	if p.Slave != nil || len(p.Notes) > 0 || p.Freq.ramp || p.Freq.LFO != nil {
		return 0, false
	}
	return math.Abs(p.Freq.from), p.Freq.from != 0
}
