package oscillator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 48000.0

// newTestOsc returns an oscillator seeded for the given inputs.
func newTestOsc(t testing.TB, freq, clip, skew float64) *Squinewave {
	t.Helper()
	osc, err := New(DefaultConfig())
	require.NoError(t, err)
	osc.Update(freq, clip, skew, 0)
	osc.SetInitPhase(-1)
	return osc
}

func TestOutputAndClocksBounded(t *testing.T) {
	shapes := []struct {
		name       string
		clip, skew float64
	}{
		{"sine", 0, 0},
		{"square", 1, 0},
		{"saw", 0, 1},
		{"ramp", 0, -1},
		{"pulse", 1, 0.8},
		{"in between", 0.4, -0.3},
	}
	freqs := []float64{20, 100, 440, 1234.5, 2999, 4000, 9000}

	for _, shape := range shapes {
		for _, freq := range freqs {
			osc := newTestOsc(t, freq, shape.clip, shape.skew)
			phaseInc := osc.Constants().PhaseIncPerHz * freq
			for i := 0; i < 20000; i++ {
				out, _ := osc.Step(freq, shape.clip, shape.skew, false)
				require.False(t, math.IsNaN(out), "%s at %v Hz: NaN at sample %d", shape.name, freq, i)
				require.LessOrEqual(t, math.Abs(out), 1.0, "%s at %v Hz", shape.name, freq)
				require.GreaterOrEqual(t, osc.Phase(), 0.0, "%s at %v Hz", shape.name, freq)
				require.LessOrEqual(t, osc.Phase(), 2.0+phaseInc, "%s at %v Hz", shape.name, freq)
				require.GreaterOrEqual(t, osc.WarpedPhase(), 0.0, "%s at %v Hz", shape.name, freq)
				require.LessOrEqual(t, osc.WarpedPhase(), 2.0+phaseInc, "%s at %v Hz", shape.name, freq)
			}
		}
	}
}

func TestCycleLength(t *testing.T) {
	shapes := []struct {
		name       string
		clip, skew float64
	}{
		{"sine", 0, 0},
		{"square", 1, 0},
		{"saw", 0, 1},
		{"pulse", 1, 0.7},
		{"in between", 0.5, 0.25},
	}

	for _, shape := range shapes {
		t.Run(shape.name, func(t *testing.T) {
			osc := newTestOsc(t, 100, shape.clip, shape.skew)
			last := -1
			cycles := 0
			for i := 0; i < int(testSampleRate); i++ {
				if _, wrapped := osc.Step(100, shape.clip, shape.skew, false); wrapped {
					if last >= 0 {
						assert.InDelta(t, 480, i-last, 1, "cycle ending at sample %d", i)
					}
					last = i
					cycles++
				}
			}
			assert.InDelta(t, 100, cycles, 1)
		})
	}
}

func TestSymmetricSineFollowsPhase(t *testing.T) {
	osc := newTestOsc(t, 100, 0, 0)
	for i := 0; i < 2000; i++ {
		expected := math.Cos(math.Pi * osc.Phase())
		out, _ := osc.Step(100, 0, 0, false)
		require.InDelta(t, expected, out, 1e-9, "sample %d", i)
	}
}

func TestPureSineAboveMaxSweepFreq(t *testing.T) {
	osc := newTestOsc(t, 4000, 1, 0.5)
	require.Greater(t, 4000.0, osc.Constants().MaxSweepFreq)

	// Clip and skew no longer matter, the first sample settles the clocks
	osc.Step(4000, 1, 0.5, false)
	for i := 0; i < 1000; i++ {
		expected := math.Cos(math.Pi * osc.Phase())
		out, _ := osc.Step(4000, 1, 0.5, false)
		require.InDelta(t, expected, out, 1e-12, "sample %d", i)
		require.Equal(t, osc.Phase(), osc.WarpedPhase())
	}
}

func TestSquareIsMostlyFlat(t *testing.T) {
	osc := newTestOsc(t, 100, 1, 0)
	flat := 0
	sum := 0.0
	n := int(testSampleRate)
	for i := 0; i < n; i++ {
		out, _ := osc.Step(100, 1, 0, false)
		if out == 1.0 || out == -1.0 {
			flat++
		}
		sum += out
	}
	assert.GreaterOrEqual(t, float64(flat)/float64(n), 0.9)
	assert.InDelta(t, 0.0, sum/float64(n), 0.02)
}

func TestSlewLimitedByMinSweep(t *testing.T) {
	// No sweep is shorter than MinSweep samples, so the step between two
	// samples never exceeds the steepest part of such a sweep.
	shapes := []struct {
		name       string
		clip, skew float64
	}{
		{"square", 1, 0},
		{"saw", 0, 1},
		{"ramp", 0, -1},
		{"narrow pulse", 1, 0.95},
		{"in between", 0.7, -0.6},
	}

	for _, shape := range shapes {
		for _, freq := range []float64{55, 440, 1500, 2900} {
			osc := newTestOsc(t, freq, shape.clip, shape.skew)
			limit := math.Pi/osc.MinSweep() + 1e-9
			prev, _ := osc.Step(freq, shape.clip, shape.skew, false)
			for i := 0; i < 10000; i++ {
				out, _ := osc.Step(freq, shape.clip, shape.skew, false)
				require.LessOrEqual(t, math.Abs(out-prev), limit,
					"%s at %v Hz, sample %d", shape.name, freq, i)
				prev = out
			}
		}
	}
}

func TestNonFiniteInputsStayFinite(t *testing.T) {
	inputs := []float64{math.NaN(), math.Inf(1), math.Inf(-1)}
	osc := newTestOsc(t, 100, 0, 0)
	for _, bad := range inputs {
		for i := 0; i < 500; i++ {
			out, _ := osc.Step(bad, bad, bad, false)
			require.False(t, math.IsNaN(out) || math.IsInf(out, 0))
			out, _ = osc.Step(100, bad, 0, false)
			require.False(t, math.IsNaN(out) || math.IsInf(out, 0))
		}
	}
}

func TestZeroFrequencyHolds(t *testing.T) {
	for _, clip := range []float64{0, 0.5, 1} {
		osc := newTestOsc(t, 100, clip, 0)
		first, _ := osc.Step(0, clip, 0, false)
		for i := 0; i < 100; i++ {
			out, wrapped := osc.Step(0, clip, 0, false)
			require.Equal(t, first, out)
			require.False(t, wrapped)
		}
	}
}

func TestProcessBufferCountsCycles(t *testing.T) {
	osc := newTestOsc(t, 100, 0.5, 0)
	buf := make([]float64, int(testSampleRate))
	cycles := osc.ProcessBuffer(buf, 100, 0.5, 0)
	assert.InDelta(t, 100, cycles, 1)
	for _, v := range buf {
		require.LessOrEqual(t, math.Abs(v), 1.0)
	}
	assert.Equal(t, buf[len(buf)-1], osc.Sample())
}

func TestStepDoesNotAllocate(t *testing.T) {
	osc := newTestOsc(t, 440, 0.5, 0.2)
	allocs := testing.AllocsPerRun(1000, func() {
		osc.Step(440, 0.5, 0.2, false)
	})
	assert.Zero(t, allocs)
}
