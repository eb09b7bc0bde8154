// Package analysis provides spectral measurements for checking oscillator
// output.
//
// FFT wraps a real FFT with the usual window functions. AnalyzeHarmonics
// splits the energy of a steady tone into its harmonic series and the rest,
// which for a digital oscillator is aliasing:
//
//	report := analysis.AnalyzeHarmonics(samples, 48000, 1234.5, analysis.BlackmanHarrisWindow)
//	fmt.Printf("alias %.1f dB, THD %.3f\n", report.AliasDB(), report.THD())
//
// Pick a fundamental that does not divide the sample rate, otherwise
// aliases fold back exactly onto harmonics.
package analysis
