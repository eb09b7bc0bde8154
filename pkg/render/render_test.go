package render

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squinewave/squine/pkg/framework/debug"
	"github.com/squinewave/squine/pkg/framework/process"
)

func mustParse(t *testing.T, src string) *Patch {
	t.Helper()
	p, err := ParsePatch([]byte(src))
	require.NoError(t, err)
	return p
}

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func TestRenderConstant(t *testing.T) {
	p := mustParse(t, "name: sine\nduration: 0.1\nfreq: 100\n")
	res, err := Render(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "sine", res.Name)
	assert.Len(t, res.Audio, 4800)
	assert.Len(t, res.Sync, 4800)
	assert.InDelta(t, 0.1, res.Duration(), 1e-12)
	assert.InDelta(t, 10, res.Cycles, 1)
	assert.Equal(t, int64(len(process.SyncIndices(nil, res.Sync))), res.Cycles)

	for i, v := range res.Audio {
		require.True(t, v >= -1 && v <= 1, "sample %d: %v", i, v)
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := "duration: 0.05\nmin_sweep: 0\nseed: 42\nclip: {value: 0.3, lfo: {waveform: random, rate: 50, depth: 0.3}}\n"
	a, err := Render(context.Background(), mustParse(t, src))
	require.NoError(t, err)
	b, err := Render(context.Background(), mustParse(t, src))
	require.NoError(t, err)

	assert.Equal(t, a.Audio, b.Audio)
	assert.Equal(t, a.MinSweep, b.MinSweep)
	assert.GreaterOrEqual(t, a.MinSweep, 5.0)
	assert.LessOrEqual(t, a.MinSweep, 15.0)
}

func TestRenderSyncTimes(t *testing.T) {
	// 50 Hz from the sine phase wraps naturally at 240 and 1200
	p := mustParse(t, "duration: 0.05\nfreq: 50\nsync: [0.01]\n")
	res, err := Render(context.Background(), p)
	require.NoError(t, err)

	wraps := process.SyncIndices(nil, res.Sync)
	require.NotEmpty(t, wraps)
	synced := false
	for _, w := range wraps {
		if w >= 480 && w < 520 {
			synced = true
		}
	}
	assert.True(t, synced, "no wrap shortly after the sync at 480: %v", wraps)
}

func TestRenderSyncOnlyInItsBlock(t *testing.T) {
	// The trigger lands on the first sample of the second block
	src := "duration: 0.1\nfreq: 50\nblock_size: 480\n"
	plain, err := Render(context.Background(), mustParse(t, src))
	require.NoError(t, err)
	synced, err := Render(context.Background(), mustParse(t, src+"sync: [0.01]\n"))
	require.NoError(t, err)

	assert.Equal(t, plain.Audio[:480], synced.Audio[:480])

	var after []int
	for _, w := range process.SyncIndices(nil, synced.Sync) {
		if w >= 480 {
			after = append(after, w)
		}
	}
	require.GreaterOrEqual(t, len(after), 3)
	assert.Less(t, after[0], 520)
	for i := 1; i < len(after); i++ {
		assert.InDelta(t, 960, after[i]-after[i-1], 1, "wraps %v", after)
	}
}

func TestRenderBlockSizeIndependent(t *testing.T) {
	a, err := Render(context.Background(), mustParse(t, "duration: 0.05\nfreq: 300\nclip: 1\nskew: 0.3\nsync: [0.013]\nblock_size: 64\n"))
	require.NoError(t, err)
	b, err := Render(context.Background(), mustParse(t, "duration: 0.05\nfreq: 300\nclip: 1\nskew: 0.3\nsync: [0.013]\nblock_size: 1000\n"))
	require.NoError(t, err)
	assert.Equal(t, a.Audio, b.Audio)
}

func TestRenderRamp(t *testing.T) {
	p := mustParse(t, "duration: 1\nfreq: {value: 100, to: 300}\n")
	res, err := Render(context.Background(), p)
	require.NoError(t, err)

	// Average frequency 200 Hz
	assert.InDelta(t, 200, res.Cycles, 3)
}

func TestRenderThroughZero(t *testing.T) {
	p := mustParse(t, "duration: 0.2\nfreq: {value: 200, to: -200}\nclip: 0.5\n")
	res, err := Render(context.Background(), p)
	require.NoError(t, err)
	for i, v := range res.Audio {
		require.False(t, math.IsNaN(v), "sample %d", i)
	}

	// The output slows to a stop and comes back
	maxStep := 0.0
	for i := 1; i < len(res.Audio); i++ {
		maxStep = math.Max(maxStep, math.Abs(res.Audio[i]-res.Audio[i-1]))
	}
	assert.Less(t, maxStep, 0.5)
}

func TestRenderNotes(t *testing.T) {
	p := mustParse(t, "duration: 0.1\nnotes: [{note: A4, at: 0, length: 0.05}]\n")
	res, err := Render(context.Background(), p)
	require.NoError(t, err)

	peak := 0.0
	for _, v := range res.Audio[:2400] {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.Greater(t, peak, 0.9)

	for i, v := range res.Audio[4300:] {
		require.Less(t, math.Abs(v), 1e-3, "tail sample %d", 4300+i)
	}

	// 440 Hz over the whole render, the pitch holds after note off
	assert.InDelta(t, 44, res.Cycles, 1)
}

func TestRenderVelocity(t *testing.T) {
	p := mustParse(t, "duration: 0.1\nnotes: [{note: A4, velocity: 64}]\n")
	res, err := Render(context.Background(), p)
	require.NoError(t, err)

	peak := 0.0
	for _, v := range res.Audio {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.InDelta(t, 64.0/127, peak, 0.01)
}

func TestRenderBend(t *testing.T) {
	p := mustParse(t, "notes: [{note: A4}]\nbend_range: 12\nbends: [{at: 0.5, value: 1}]\n")
	res, err := Render(context.Background(), p)
	require.NoError(t, err)

	// Half a second at 440 Hz, then an octave up
	assert.InDelta(t, 660, res.Cycles, 2)
}

func TestRenderSlave(t *testing.T) {
	p, err := LoadPatch("testdata/hardsync.yaml")
	require.NoError(t, err)
	res, err := Render(context.Background(), p)
	require.NoError(t, err)

	// Alone the slave would wrap 7 times; synced it follows the master
	assert.InDelta(t, 10, res.Cycles, 1)
}

func TestRenderSlaveFM(t *testing.T) {
	plain, err := LoadPatch("testdata/hardsync.yaml")
	require.NoError(t, err)
	a, err := Render(context.Background(), plain)
	require.NoError(t, err)

	modulated, err := LoadPatch("testdata/hardsync.yaml")
	require.NoError(t, err)
	modulated.Slave.FM = 50
	b, err := Render(context.Background(), modulated)
	require.NoError(t, err)

	assert.NotEqual(t, a.Audio, b.Audio)
	// Still about one wrap per master cycle
	assert.InDelta(t, 10, b.Cycles, 2)
}

func TestRenderDCBlock(t *testing.T) {
	pulse := "duration: 1\nfreq: 100\nclip: 1\nskew: 0.8\n"
	raw, err := Render(context.Background(), mustParse(t, pulse))
	require.NoError(t, err)
	blocked, err := Render(context.Background(), mustParse(t, pulse+"dc_block: 20\n"))
	require.NoError(t, err)

	assert.Greater(t, math.Abs(mean(raw.Audio[24000:])), 0.5)
	assert.Less(t, math.Abs(mean(blocked.Audio[24000:])), 0.05)
}

func TestRenderGain(t *testing.T) {
	res, err := Render(context.Background(), mustParse(t, "duration: 0.05\nclip: 1\ngain: 0.5\n"))
	require.NoError(t, err)
	peak := 0.0
	for _, v := range res.Audio {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.InDelta(t, 0.5, peak, 1e-9)
}

func TestRenderWarnsOnClipping(t *testing.T) {
	var buf bytes.Buffer
	prev := debug.Default()
	debug.SetDefault(debug.New(&buf, ""))
	t.Cleanup(func() { debug.SetDefault(prev) })

	res, err := Render(context.Background(), mustParse(t, "duration: 0.05\nclip: 1\ngain: 0.5\n"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Peak, 1e-9)
	assert.NotContains(t, buf.String(), "render clips")

	res, err = Render(context.Background(), mustParse(t, "duration: 0.05\nclip: 1\ngain: 2\n"))
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Peak, 1e-9)
	assert.Contains(t, buf.String(), "render clips")
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, mustParse(t, "duration: 1\n"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRenderInvalid(t *testing.T) {
	_, err := Render(context.Background(), &Patch{Duration: -1})
	assert.True(t, errors.Is(err, ErrInvalidPatch))
}

func TestRenderAll(t *testing.T) {
	patches := []*Patch{
		mustParse(t, "name: a\nduration: 0.05\nfreq: 100\n"),
		mustParse(t, "name: b\nduration: 0.05\nfreq: 200\nclip: 1\n"),
		mustParse(t, "name: c\nduration: 0.05\nfreq: 400\nskew: -1\n"),
	}
	results, err := RenderAll(context.Background(), patches)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, results[i].Name)
	}

	alone, err := Render(context.Background(), mustParse(t, "name: b\nduration: 0.05\nfreq: 200\nclip: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, alone.Audio, results[1].Audio)
}

func TestRenderAllError(t *testing.T) {
	patches := []*Patch{
		mustParse(t, "duration: 0.05\n"),
		{Duration: -1},
	}
	_, err := RenderAll(context.Background(), patches)
	assert.True(t, errors.Is(err, ErrInvalidPatch))
}

func TestWriteWAV(t *testing.T) {
	res, err := Render(context.Background(), mustParse(t, "duration: 0.05\nfreq: 300\nclip: 0.5\n"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "tone.wav")
	res.Output = Output{Path: path, BitDepth: 24, SyncChannel: true}
	require.NoError(t, WriteFile(res))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	samples, rate, err := ReadWAV(f)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, rate)
	require.Len(t, samples, len(res.Audio))
	for i := range samples {
		require.InDelta(t, res.Audio[i], samples[i], 1e-6, "sample %d", i)
	}
}

func TestWriteFileExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	res, err := Render(context.Background(), mustParse(t, "duration: 0.01\n"))
	require.NoError(t, err)
	res.Output = Output{Path: "~/renders/tone.wav"}
	require.NoError(t, WriteFile(res))

	_, err = os.Stat(filepath.Join(home, "renders", "tone.wav"))
	assert.NoError(t, err)
}

func TestWriteWAVErrors(t *testing.T) {
	res := &Result{Name: "x", SampleRate: 48000, Audio: []float64{0}, Sync: []float64{0}}
	assert.Error(t, WriteFile(res), "no path")

	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	require.NoError(t, err)
	defer f.Close()
	assert.Error(t, WriteWAV(f, res, 12, false))
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	_, _, err := ReadWAV(bytes.NewReader([]byte("definitely not RIFF data")))
	assert.Error(t, err)
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, 32767, quantize(1, 32767, 16))
	assert.Equal(t, -32767, quantize(-2, 32767, 16))
	assert.Equal(t, 0, quantize(math.NaN(), 32767, 16))
	assert.Equal(t, 128, quantize(0, 127, 8))
}
