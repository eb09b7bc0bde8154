package midi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A4 is the default tuning reference in Hz.
const A4 = 440.0

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteOffsets = map[string]int{
	"C": 0, "B#": 0,
	"C#": 1, "DB": 1,
	"D":  2,
	"D#": 3, "EB": 3,
	"E": 4, "FB": 4,
	"F": 5, "E#": 5,
	"F#": 6, "GB": 6,
	"G":  7,
	"G#": 8, "AB": 8,
	"A":  9,
	"A#": 10, "BB": 10,
	"B": 11, "CB": 11,
}

// NoteToFrequency returns the equal tempered frequency of a note.
// A zero tuning selects A4.
func NoteToFrequency(note uint8, tuningA4 float64) float64 {
	if tuningA4 == 0 {
		tuningA4 = A4
	}
	return tuningA4 * SemitonesToRatio(float64(note)-69.0)
}

// FrequencyToNote returns the nearest note to freq, clamped to 0-127.
func FrequencyToNote(freq, tuningA4 float64) uint8 {
	if tuningA4 == 0 {
		tuningA4 = A4
	}
	if !(freq > 0) {
		return 0
	}
	note := 69.0 + 12.0*math.Log2(freq/tuningA4)
	if note < 0 {
		return 0
	}
	if note > 127 {
		return 127
	}
	return uint8(note + 0.5)
}

// SemitonesToRatio converts an interval to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12.0)
}

// NoteNumberToName returns names like "C#4", with middle C as C4.
func NoteNumberToName(note uint8) string {
	octave := int(note/12) - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// ParseNoteName parses names like "A4", "c#3" or "Eb-1".
func ParseNoteName(str string) (uint8, error) {
	str = strings.ToUpper(strings.TrimSpace(str))

	octaveStart := -1
	for i, ch := range str {
		if ch >= '0' && ch <= '9' || ch == '-' {
			octaveStart = i
			break
		}
	}
	if octaveStart <= 0 {
		return 0, fmt.Errorf("no octave number found in note: %s", str)
	}

	name := str[:octaveStart]
	offset, ok := noteOffsets[name]
	if !ok {
		return 0, fmt.Errorf("unknown note name: %s", name)
	}

	octave, err := strconv.Atoi(str[octaveStart:])
	if err != nil {
		return 0, fmt.Errorf("invalid octave number: %s", str[octaveStart:])
	}

	note := (octave+1)*12 + offset
	if note < 0 || note > 127 {
		return 0, fmt.Errorf("note out of range: %s", str)
	}
	return uint8(note), nil
}
