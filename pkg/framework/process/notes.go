package process

import (
	"github.com/squinewave/squine/pkg/midi"
)

// DefaultBendRange is the pitch bend range in semitones.
const DefaultBendRange = 2.0

// NoteSource is a frequency source played from a note sequence. Event
// offsets are absolute sample positions; each Begin consumes the next n.
//
// The last note on sets the frequency and NoteOff only closes the gate,
// so the pitch holds while the output fades.
type NoteSource struct {
	Tuning    float64
	BendRange float64

	seq    *midi.Sequence
	events []midi.Event

	note  int
	base  float64
	bend  float64
	gate  bool
	level float64

	freq   []float64
	gates  []bool
	levels []float64
}

// NewNoteSource creates a source that plays freq until the first note.
func NewNoteSource(seq *midi.Sequence, freq float64) *NoteSource {
	return &NoteSource{
		Tuning:    midi.A4,
		BendRange: DefaultBendRange,
		seq:       seq,
		events:    make([]midi.Event, 0, 16),
		note:      -1,
		base:      freq,
		bend:      1,
	}
}

// Begin renders the frequency and gate of the next n samples.
func (s *NoteSource) Begin(n int) {
	if cap(s.freq) < n {
		s.freq = make([]float64, n)
		s.gates = make([]bool, n)
		s.levels = make([]float64, n)
	}
	s.freq = s.freq[:n]
	s.gates = s.gates[:n]
	s.levels = s.levels[:n]

	start := s.seq.Position()
	s.events = s.seq.Due(s.events[:0], start+int64(n))
	next := 0
	for i := 0; i < n; i++ {
		for next < len(s.events) && s.events[next].SampleOffset() <= start+int64(i) {
			s.apply(s.events[next])
			next++
		}
		s.freq[i] = s.base * s.bend
		s.gates[i] = s.gate
		s.levels[i] = s.level
	}
}

func (s *NoteSource) apply(e midi.Event) {
	switch ev := e.(type) {
	case midi.NoteOn:
		if ev.Velocity == 0 {
			s.release(ev.Note)
			return
		}
		s.note = int(ev.Note)
		s.base = midi.NoteToFrequency(ev.Note, s.Tuning)
		s.gate = true
		s.level = float64(ev.Velocity) / 127
	case midi.NoteOff:
		s.release(ev.Note)
	case midi.PitchBend:
		s.bend = ev.Ratio(s.BendRange)
	}
}

func (s *NoteSource) release(note uint8) {
	if int(note) == s.note {
		s.gate = false
	}
}

// At returns the frequency of sample i of the block.
func (s *NoteSource) At(i int) float64 {
	if i >= len(s.freq) {
		return s.base * s.bend
	}
	return s.freq[i]
}

// Gate reports whether a note is held at sample i of the block.
func (s *NoteSource) Gate(i int) bool {
	if i >= len(s.gates) {
		return s.gate
	}
	return s.gates[i]
}

// Level returns the velocity of the last note at sample i of the block,
// 0-1.
func (s *NoteSource) Level(i int) float64 {
	if i >= len(s.levels) {
		return s.level
	}
	return s.levels[i]
}

// Position returns the sample position of the next block.
func (s *NoteSource) Position() int64 {
	return s.seq.Position()
}
