package param

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/squinewave/squine/pkg/midi"
)

// Common parameter formatters and parsers

// FrequencyFormatter formats frequency values with Hz/kHz
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 || hz <= -1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// FrequencyParser parses frequency strings. Note names such as "A4" are
// accepted too.
func FrequencyParser(str string) (float64, error) {
	str = strings.TrimSpace(str)

	lower := strings.ToLower(str)
	if strings.HasSuffix(lower, "khz") {
		val, err := strconv.ParseFloat(strings.TrimSpace(str[:len(str)-3]), 64)
		if err != nil {
			return 0, err
		}
		return val * 1000, nil
	}
	if strings.HasSuffix(lower, "hz") {
		return strconv.ParseFloat(strings.TrimSpace(str[:len(str)-2]), 64)
	}

	if val, err := strconv.ParseFloat(str, 64); err == nil {
		return val, nil
	}
	note, err := midi.ParseNoteName(str)
	if err != nil {
		return 0, fmt.Errorf("not a frequency or note: %s", str)
	}
	return midi.NoteToFrequency(note, 440), nil
}

// PercentFormatter formats a 0-1 fraction as a percentage.
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value*100)
}

// PercentParser parses "50%" as 0.5. Plain numbers are taken as fractions.
func PercentParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	if strings.HasSuffix(str, "%") {
		val, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(str, "%")), 64)
		if err != nil {
			return 0, err
		}
		return val / 100, nil
	}
	return strconv.ParseFloat(str, 64)
}

// BipolarFormatter formats a -1 to 1 value as a signed percentage.
func BipolarFormatter(value float64) string {
	if value > -0.005 && value < 0.005 {
		return "0%"
	}
	return fmt.Sprintf("%+.0f%%", value*100)
}

// NoteFormatter formats MIDI note numbers
func NoteFormatter(noteNumber float64) string {
	if noteNumber < 0 || noteNumber > 127 {
		return "--"
	}
	return midi.NoteNumberToName(uint8(noteNumber + 0.5))
}

// NoteParser parses note names to MIDI numbers
func NoteParser(str string) (float64, error) {
	note, err := midi.ParseNoteName(str)
	if err != nil {
		return 0, err
	}
	return float64(note), nil
}
