// Package stream adapts oscillators and rendered audio to beep streamers
// and to the float32 byte stream an oto player reads.
package stream

import (
	"github.com/gopxl/beep"

	"github.com/squinewave/squine/pkg/framework/process"
)

// UnitStreamer streams a unit endlessly as stereo frames, both channels
// carrying the same signal. Wrap it in beep.Take for a fixed length.
type UnitStreamer struct {
	Gain float64

	unit *process.Unit
	ctx  *process.Context
	err  error
}

// NewUnitStreamer creates a streamer processing blockSize samples at a time.
func NewUnitStreamer(u *process.Unit, sampleRate float64, blockSize int) *UnitStreamer {
	return &UnitStreamer{
		Gain: 1,
		unit: u,
		ctx:  process.NewContext(blockSize, sampleRate),
	}
}

// Stream implements beep.Streamer.
func (s *UnitStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	done := 0
	for done < len(samples) {
		n := min(len(samples)-done, s.ctx.MaxBlockSize())
		if err := s.ctx.Begin(n); err != nil {
			s.err = err
			return done, done > 0
		}
		s.unit.Process(s.ctx)
		for i, v := range s.ctx.Audio {
			v *= s.Gain
			samples[done+i] = [2]float64{v, v}
		}
		done += n
	}
	return done, true
}

// Err implements beep.Streamer.
func (s *UnitStreamer) Err() error {
	return s.err
}

// Buffer streams a mono buffer once.
func Buffer(samples []float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := copy2(out, samples[pos:])
		pos += n
		return n, true
	})
}

func copy2(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = [2]float64{src[i], src[i]}
	}
	return n
}
