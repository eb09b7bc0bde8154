package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// WindowFunc represents a window function type
type WindowFunc int

const (
	RectangularWindow WindowFunc = iota
	HannWindow
	HammingWindow
	BlackmanHarrisWindow
	KaiserWindow
)

// String returns the window name.
func (w WindowFunc) String() string {
	switch w {
	case RectangularWindow:
		return "rectangular"
	case HannWindow:
		return "hann"
	case HammingWindow:
		return "hamming"
	case BlackmanHarrisWindow:
		return "blackman-harris"
	case KaiserWindow:
		return "kaiser"
	default:
		return "unknown"
	}
}

// FFT computes windowed magnitude spectra of real signals.
type FFT struct {
	size       int
	window     WindowFunc
	windowData []float64
	input      []float64
	magnitude  []float64
}

// NewFFT creates a new FFT processor with the specified size and window function
func NewFFT(size int, window WindowFunc) *FFT {
	f := &FFT{
		size:       size,
		window:     window,
		windowData: make([]float64, size),
		input:      make([]float64, size),
		magnitude:  make([]float64, size/2+1),
	}
	f.calculateWindow()
	return f
}

// Size returns the transform length.
func (f *FFT) Size() int { return f.size }

// calculateWindow pre-calculates the window coefficients
func (f *FFT) calculateWindow() {
	n := float64(f.size)

	switch f.window {
	case HannWindow:
		for i := range f.windowData {
			f.windowData[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/(n-1.0)))
		}

	case HammingWindow:
		for i := range f.windowData {
			f.windowData[i] = 0.54 - 0.46*math.Cos(2.0*math.Pi*float64(i)/(n-1.0))
		}

	case BlackmanHarrisWindow:
		a0, a1, a2, a3 := 0.35875, 0.48829, 0.14128, 0.01168
		for i := range f.windowData {
			x := 2.0 * math.Pi * float64(i) / (n - 1.0)
			f.windowData[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
		}

	case KaiserWindow:
		// beta = 8.6, good sidelobe suppression
		beta := 8.6
		for i := range f.windowData {
			x := 2.0*float64(i)/(n-1.0) - 1.0
			f.windowData[i] = bessel0(beta*math.Sqrt(1.0-x*x)) / bessel0(beta)
		}

	default:
		for i := range f.windowData {
			f.windowData[i] = 1.0
		}
	}
}

// Forward returns the magnitude spectrum (size/2+1 bins) of input.
// Short input is zero padded. The returned slice is reused by the next call.
func (f *FFT) Forward(input []float64) []float64 {
	for i := range f.input {
		if i < len(input) {
			f.input[i] = input[i] * f.windowData[i]
		} else {
			f.input[i] = 0
		}
	}

	spectrum := fft.FFTReal(f.input)
	for i := range f.magnitude {
		f.magnitude[i] = cmplx.Abs(spectrum[i])
	}
	return f.magnitude
}

// BinFrequency returns the centre frequency of a bin.
func (f *FFT) BinFrequency(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(f.size)
}

// bessel0 computes the modified Bessel function of the first kind, order 0
func bessel0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y
		return 1.0 + y*(3.5156229+y*(3.0899424+y*(1.2067492+
			y*(0.2659732+y*(0.360768e-1+y*0.45813e-2)))))
	}

	y := 3.75 / ax
	return (math.Exp(ax) / math.Sqrt(ax)) * (0.39894228 + y*(0.1328592e-1+
		y*(0.225319e-2+y*(-0.157565e-2+y*(0.916281e-2+
			y*(-0.2057706e-1+y*(0.2635537e-1+y*(-0.1647633e-1+
				y*0.392377e-2))))))))
}

// PowerSpectrum converts a magnitude spectrum to power.
func PowerSpectrum(magnitude []float64) []float64 {
	power := make([]float64, len(magnitude))
	for i, m := range magnitude {
		power[i] = m * m
	}
	return power
}
