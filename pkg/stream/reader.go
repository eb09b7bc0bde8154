package stream

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/gopxl/beep"
)

// BytesPerFrame is the size of one stereo float32 frame.
const BytesPerFrame = 8

// Reader turns a streamer into interleaved stereo float32 little endian
// bytes, the format of an oto context created with FormatFloat32LE and two
// channels.
type Reader struct {
	s      beep.Streamer
	frames [][2]float64
	rest   []byte
	done   bool
}

// NewReader creates a reader over s.
func NewReader(s beep.Streamer) *Reader {
	return &Reader{s: s}
}

// Read implements io.Reader. It returns io.EOF once the streamer is
// drained, or the streamer's error.
func (r *Reader) Read(p []byte) (int, error) {
	written := 0
	// A previous read may have left part of a frame
	if len(r.rest) > 0 {
		n := copy(p, r.rest)
		r.rest = r.rest[n:]
		written += n
		p = p[n:]
	}
	if r.done {
		if written > 0 {
			return written, nil
		}
		if err := r.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	frames := len(p) / BytesPerFrame
	if frames == 0 {
		if len(p) == 0 || written > 0 {
			return written, nil
		}
		frames = 1
	}
	if cap(r.frames) < frames {
		r.frames = make([][2]float64, frames)
	}
	buf := r.frames[:frames]

	n, ok := r.s.Stream(buf)
	if !ok || n < frames {
		r.done = true
	}
	for i := 0; i < n; i++ {
		var frame [BytesPerFrame]byte
		binary.LittleEndian.PutUint32(frame[0:], math.Float32bits(float32(buf[i][0])))
		binary.LittleEndian.PutUint32(frame[4:], math.Float32bits(float32(buf[i][1])))
		c := copy(p, frame[:])
		p = p[c:]
		written += c
		if c < BytesPerFrame {
			r.rest = append(r.rest[:0], frame[c:]...)
		}
	}

	if written == 0 && r.done {
		if err := r.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return written, nil
}
