package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squinewave/squine/pkg/dsp/oscillator"
	"github.com/squinewave/squine/pkg/framework/param"
	"github.com/squinewave/squine/pkg/framework/process"
)

func newUnit(t *testing.T) *process.Unit {
	t.Helper()
	u, err := process.NewUnit(oscillator.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	u.Freq = param.ConstSource(330)
	u.Clip = param.ConstSource(0.7)
	return u
}

func reference(t *testing.T, n int) []float64 {
	t.Helper()
	u := newUnit(t)
	ctx := process.NewContext(n, 48000)
	require.NoError(t, ctx.Begin(n))
	u.Process(ctx)
	return append([]float64(nil), ctx.Audio...)
}

func TestUnitStreamer(t *testing.T) {
	want := reference(t, 1000)

	s := NewUnitStreamer(newUnit(t), 48000, 64)
	frames := make([][2]float64, 1000)
	n, ok := s.Stream(frames[:300])
	require.True(t, ok)
	require.Equal(t, 300, n)
	n, ok = s.Stream(frames[300:])
	require.True(t, ok)
	require.Equal(t, 700, n)
	require.NoError(t, s.Err())

	for i, f := range frames {
		require.Equal(t, want[i], f[0], "frame %d", i)
		require.Equal(t, f[0], f[1], "frame %d", i)
	}
}

func TestUnitStreamerGainAndTake(t *testing.T) {
	s := NewUnitStreamer(newUnit(t), 48000, 128)
	s.Gain = 0.25
	taken := beep.Take(500, s)

	frames := make([][2]float64, 1024)
	n, ok := taken.Stream(frames)
	assert.True(t, ok)
	assert.Equal(t, 500, n)
	for _, f := range frames[:n] {
		require.LessOrEqual(t, math.Abs(f[0]), 0.25)
	}

	_, ok = taken.Stream(frames)
	assert.False(t, ok)
}

func TestBuffer(t *testing.T) {
	s := Buffer([]float64{0.1, 0.2, 0.3})
	frames := make([][2]float64, 2)

	n, ok := s.Stream(frames)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, [2]float64{0.2, 0.2}, frames[1])

	n, ok = s.Stream(frames)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, [2]float64{0.3, 0.3}, frames[0])

	n, ok = s.Stream(frames)
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.NoError(t, s.Err())
}

func decode(t *testing.T, data []byte) [][2]float32 {
	t.Helper()
	require.Zero(t, len(data)%BytesPerFrame)
	out := make([][2]float32, len(data)/BytesPerFrame)
	for i := range out {
		out[i][0] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*8:]))
		out[i][1] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*8+4:]))
	}
	return out
}

func TestReader(t *testing.T) {
	samples := []float64{0, 0.5, -0.5, 1, -1}
	data, err := io.ReadAll(NewReader(Buffer(samples)))
	require.NoError(t, err)

	frames := decode(t, data)
	require.Len(t, frames, len(samples))
	for i, v := range samples {
		assert.Equal(t, float32(v), frames[i][0])
		assert.Equal(t, float32(v), frames[i][1])
	}
}

func TestReaderOddSizes(t *testing.T) {
	samples := []float64{0.25, -0.75, 0.125}
	var want bytes.Buffer
	_, err := io.Copy(&want, NewReader(Buffer(samples)))
	require.NoError(t, err)

	r := NewReader(Buffer(samples))
	var got bytes.Buffer
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		got.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, want.Bytes(), got.Bytes())
}

type failing struct{}

func (failing) Stream([][2]float64) (int, bool) { return 0, false }
func (failing) Err() error                      { return errors.New("device gone") }

func TestReaderPropagatesError(t *testing.T) {
	_, err := NewReader(failing{}).Read(make([]byte, 64))
	assert.EqualError(t, err, "device gone")
}

func TestReaderZeroLength(t *testing.T) {
	n, err := NewReader(Buffer([]float64{1})).Read(nil)
	assert.Zero(t, n)
	assert.NoError(t, err)
}
