package analysis

import "math"

// HarmonicReport describes how the energy of a periodic signal splits
// between its harmonic series and everything else. For an oscillator
// everything else is aliasing (plus window leakage).
type HarmonicReport struct {
	Fundamental    float64
	SampleRate     float64
	FFTSize        int
	Harmonics      []float64 // peak magnitude of harmonic k at index k-1
	HarmonicEnergy float64
	AliasEnergy    float64
}

// AliasRatio returns the off-harmonic share of the total energy.
func (r HarmonicReport) AliasRatio() float64 {
	total := r.HarmonicEnergy + r.AliasEnergy
	if total == 0 {
		return 0
	}
	return r.AliasEnergy / total
}

// AliasDB returns the alias energy relative to the harmonic energy in dB.
func (r HarmonicReport) AliasDB() float64 {
	if r.AliasEnergy == 0 {
		return math.Inf(-1)
	}
	if r.HarmonicEnergy == 0 {
		return math.Inf(1)
	}
	return 10.0 * math.Log10(r.AliasEnergy/r.HarmonicEnergy)
}

// THD returns the total harmonic distortion relative to the fundamental.
func (r HarmonicReport) THD() float64 {
	if len(r.Harmonics) == 0 || r.Harmonics[0] == 0 {
		return 0
	}
	sum := 0.0
	for _, h := range r.Harmonics[1:] {
		sum += h * h
	}
	return math.Sqrt(sum) / r.Harmonics[0]
}

// guardBins is the half width of a window's main lobe in bins.
func guardBins(window WindowFunc) int {
	switch window {
	case BlackmanHarrisWindow, KaiserWindow:
		return 6
	case HannWindow, HammingWindow:
		return 3
	default:
		return 1
	}
}

// fftSizeFor returns the largest power of two not above n.
func fftSizeFor(n int) int {
	size := 1
	for size*2 <= n {
		size *= 2
	}
	return size
}

// AnalyzeHarmonics measures the harmonic and off-harmonic energy of
// samples, which should hold a steady tone at fundamental Hz. Choose a
// fundamental that does not divide the sample rate, or aliases fold back
// onto harmonics and go unnoticed.
func AnalyzeHarmonics(samples []float64, sampleRate, fundamental float64, window WindowFunc) HarmonicReport {
	report := HarmonicReport{Fundamental: fundamental, SampleRate: sampleRate}
	if len(samples) < 2 || fundamental <= 0 || sampleRate <= 0 {
		return report
	}

	f := NewFFT(fftSizeFor(len(samples)), window)
	report.FFTSize = f.Size()
	magnitude := f.Forward(samples)
	guard := guardBins(window)
	binWidth := sampleRate / float64(f.Size())

	harmonicBin := make([]bool, len(magnitude))
	for k := 1; float64(k)*fundamental < sampleRate/2; k++ {
		centre := int(math.Round(float64(k) * fundamental / binWidth))
		peak := 0.0
		for b := centre - guard; b <= centre+guard; b++ {
			if b < 0 || b >= len(magnitude) {
				continue
			}
			harmonicBin[b] = true
			peak = math.Max(peak, magnitude[b])
		}
		report.Harmonics = append(report.Harmonics, peak)
	}

	for b := guard + 1; b < len(magnitude); b++ {
		power := magnitude[b] * magnitude[b]
		if harmonicBin[b] {
			report.HarmonicEnergy += power
		} else {
			report.AliasEnergy += power
		}
	}
	return report
}

// AliasRatio is AnalyzeHarmonics with a Blackman-Harris window, returning
// only the off-harmonic share of the energy.
func AliasRatio(samples []float64, sampleRate, fundamental float64) float64 {
	return AnalyzeHarmonics(samples, sampleRate, fundamental, BlackmanHarrisWindow).AliasRatio()
}

// PeakFrequency returns the frequency of the strongest bin, ignoring DC.
func PeakFrequency(samples []float64, sampleRate float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	f := NewFFT(fftSizeFor(len(samples)), HannWindow)
	magnitude := f.Forward(samples)

	peakBin := 0
	peak := 0.0
	for b := 1; b < len(magnitude); b++ {
		if magnitude[b] > peak {
			peak = magnitude[b]
			peakBin = b
		}
	}
	return f.BinFrequency(peakBin, sampleRate)
}

// Spectrum returns the magnitude spectrum of samples and the width of one
// bin in Hz. The transform length is the largest power of two that fits.
func Spectrum(samples []float64, sampleRate float64, window WindowFunc) ([]float64, float64) {
	if len(samples) == 0 {
		return nil, 0
	}
	f := NewFFT(fftSizeFor(len(samples)), window)
	magnitude := make([]float64, f.Size()/2+1)
	copy(magnitude, f.Forward(samples))
	return magnitude, sampleRate / float64(f.Size())
}
