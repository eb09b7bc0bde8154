package param

import (
	"math"
	"testing"
)

func TestSmootherRamp(t *testing.T) {
	t.Run("FirstRampHolds", func(t *testing.T) {
		s := NewSmoother(LinearGlide, 0)
		buf := make([]float64, 4)
		s.Ramp(buf, 2)
		for i, v := range buf {
			if v != 2 {
				t.Errorf("sample %d: expected 2, got %f", i, v)
			}
		}
	})

	t.Run("Linear", func(t *testing.T) {
		s := NewSmoother(LinearGlide, 0)
		buf := make([]float64, 5)
		s.Ramp(buf, 0)
		s.Ramp(buf, 1)

		expected := []float64{0.2, 0.4, 0.6, 0.8, 1.0}
		for i, v := range buf {
			if math.Abs(v-expected[i]) > 1e-12 {
				t.Errorf("sample %d: expected %f, got %f", i, expected[i], v)
			}
		}
		if s.Current() != 1 {
			t.Errorf("expected current 1, got %f", s.Current())
		}
	})

	t.Run("ExponentialKeepsRatio", func(t *testing.T) {
		s := NewSmoother(ExponentialGlide, 100)
		buf := make([]float64, 10)
		s.Ramp(buf, 100)
		s.Ramp(buf, 1000)

		ratio := buf[1] / buf[0]
		for i := 2; i < len(buf); i++ {
			if math.Abs(buf[i]/buf[i-1]-ratio) > 1e-9 {
				t.Errorf("sample %d: ratio %f, want %f", i, buf[i]/buf[i-1], ratio)
			}
		}
		if buf[9] != 1000 {
			t.Errorf("expected to land on 1000, got %f", buf[9])
		}
		if math.Abs(ratio-math.Pow(10, 0.1)) > 1e-9 {
			t.Errorf("unexpected ratio %f", ratio)
		}
	})

	t.Run("ExponentialThroughZeroFallsBack", func(t *testing.T) {
		s := NewSmoother(ExponentialGlide, 100)
		buf := make([]float64, 4)
		s.Ramp(buf, 100)
		s.Ramp(buf, -100)

		expected := []float64{50, 0, -50, -100}
		for i, v := range buf {
			if math.Abs(v-expected[i]) > 1e-9 {
				t.Errorf("sample %d: expected %f, got %f", i, expected[i], v)
			}
		}
	})

	t.Run("NaNHolds", func(t *testing.T) {
		s := NewSmoother(LinearGlide, 0)
		buf := make([]float64, 3)
		s.Ramp(buf, 0.5)
		s.Ramp(buf, math.NaN())
		for i, v := range buf {
			if v != 0.5 {
				t.Errorf("sample %d: expected 0.5, got %f", i, v)
			}
		}
	})

	t.Run("ResetJumps", func(t *testing.T) {
		s := NewSmoother(LinearGlide, 0)
		buf := make([]float64, 4)
		s.Ramp(buf, 0)
		s.Reset(3)
		s.Ramp(buf, 1)
		if buf[0] != 1 {
			t.Errorf("ramp after reset should hold the target, got %f", buf[0])
		}
	})

	t.Run("EmptyBlock", func(t *testing.T) {
		s := NewSmoother(LinearGlide, 0.25)
		s.Ramp(nil, 1)
		if s.Current() != 0.25 {
			t.Errorf("empty ramp moved the value to %f", s.Current())
		}
	})
}

func TestGlideString(t *testing.T) {
	tests := []struct {
		glide    Glide
		expected string
	}{
		{LinearGlide, "linear"},
		{ExponentialGlide, "exponential"},
		{Glide(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.glide.String(); got != tt.expected {
			t.Errorf("Glide.String() = %v, want %v", got, tt.expected)
		}
	}
}

func BenchmarkSmoother(b *testing.B) {
	buf := make([]float64, 512)

	b.Run("Linear", func(b *testing.B) {
		s := NewSmoother(LinearGlide, 0)
		for i := 0; i < b.N; i++ {
			s.Ramp(buf, float64(i&1))
		}
	})

	b.Run("Exponential", func(b *testing.B) {
		s := NewSmoother(ExponentialGlide, 100)
		for i := 0; i < b.N; i++ {
			s.Ramp(buf, 100+float64(i&1)*900)
		}
	})
}
