package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mitchellh/go-homedir"
)

// wavFormatPCM is the WAVE format tag of integer PCM.
const wavFormatPCM = 1

// WriteWAV encodes a result as integer PCM. With withSync the file has a
// second channel carrying the sync output.
func WriteWAV(w io.WriteSeeker, r *Result, bitDepth int, withSync bool) error {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	channels := 1
	if withSync {
		channels = 2
	}
	sampleRate := int(math.Round(r.SampleRate))

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(r.Audio)*channels),
	}
	scale := float64(int64(1)<<(bitDepth-1) - 1)
	for i, v := range r.Audio {
		buf.Data[i*channels] = quantize(v, scale, bitDepth)
		if withSync {
			buf.Data[i*channels+1] = quantize(r.Sync[i], scale, bitDepth)
		}
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, channels, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}
	return nil
}

// quantize maps [-1, 1] to the integer range. 8 bit WAV is unsigned.
func quantize(v, scale float64, bitDepth int) int {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(-1, math.Min(1, v))
	q := int(math.Round(v * scale))
	if bitDepth == 8 {
		q += 128
	}
	return q
}

// WriteFile writes a result to its output path, creating directories.
func WriteFile(r *Result) error {
	if r.Output.Path == "" {
		return fmt.Errorf("%s: no output path", r.Name)
	}
	path, err := homedir.Expand(r.Output.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", r.Output.Path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bitDepth := r.Output.BitDepth
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if err := WriteWAV(f, r, bitDepth, r.Output.SyncChannel); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// ReadWAV decodes the first channel of a PCM WAV file to [-1, 1].
func ReadWAV(rs io.ReadSeeker) ([]float64, float64, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("wav has no channels")
	}
	bitDepth := int(dec.BitDepth)
	scale := float64(int64(1)<<(bitDepth-1) - 1)

	out := make([]float64, len(buf.Data)/channels)
	for i := range out {
		v := buf.Data[i*channels]
		if bitDepth == 8 {
			v -= 128
		}
		out[i] = float64(v) / scale
	}
	return out, float64(buf.Format.SampleRate), nil
}
