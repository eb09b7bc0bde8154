// Package midi provides note events and note/frequency helpers for
// sequencing the oscillator.
package midi

import (
	"fmt"
	"math"
)

// EventType identifies a note event.
type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypePitchBend
)

func (t EventType) String() string {
	switch t {
	case EventTypeNoteOff:
		return "note off"
	case EventTypeNoteOn:
		return "note on"
	case EventTypePitchBend:
		return "pitch bend"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Event is a note event placed on the sample timeline.
type Event interface {
	Type() EventType
	SampleOffset() int64
	String() string
}

// Offset is the sample position of an event, counted from the start of a
// render. Every event type embeds it.
type Offset int64

// SampleOffset implements Event.
func (o Offset) SampleOffset() int64 { return int64(o) }

// NoteOn starts a note. A zero velocity releases it instead.
type NoteOn struct {
	Offset
	Note     uint8
	Velocity uint8
}

func (NoteOn) Type() EventType { return EventTypeNoteOn }

func (e NoteOn) String() string {
	return fmt.Sprintf("NoteOn{%s vel:%d @%d}", NoteNumberToName(e.Note), e.Velocity, e.Offset)
}

// NoteOff releases a note.
type NoteOff struct {
	Offset
	Note uint8
}

func (NoteOff) Type() EventType { return EventTypeNoteOff }

func (e NoteOff) String() string {
	return fmt.Sprintf("NoteOff{%s @%d}", NoteNumberToName(e.Note), e.Offset)
}

// PitchBend bends every following note.
type PitchBend struct {
	Offset
	Value int16 // -8192 to 8191, 0 is center
}

func (PitchBend) Type() EventType { return EventTypePitchBend }

func (e PitchBend) String() string {
	return fmt.Sprintf("PitchBend{%d @%d}", e.Value, e.Offset)
}

// NormalizedValue returns the bend as -1 to 1.
func (e PitchBend) NormalizedValue() float64 {
	return float64(e.Value) / 8192.0
}

// Ratio returns the frequency ratio of the bend for a range of semitones.
func (e PitchBend) Ratio(semitones float64) float64 {
	return SemitonesToRatio(e.NormalizedValue() * semitones)
}

// BendValue converts -1 to 1 into a bend value, clamping out of range and
// NaN input.
func BendValue(normalized float64) int16 {
	if math.IsNaN(normalized) {
		return 0
	}
	v := math.Round(normalized * 8192)
	switch {
	case v < -8192:
		return -8192
	case v > 8191:
		return 8191
	}
	return int16(v)
}
