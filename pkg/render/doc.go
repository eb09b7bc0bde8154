// Package render turns YAML patches into rendered squinewave audio.
//
// A patch names the oscillator configuration, how freq, clip and skew move
// over time (constants, linear ramps or LFOs), an optional note list with
// pitch bends, hard sync trigger times and an optional slave oscillator synced to the first.
// Render runs the patch block by block through process units; WriteWAV
// stores the result.
//
//	name: sweep
//	duration: 2
//	freq: A2
//	clip: {value: 0, to: 1}
//	skew:
//	  value: 0
//	  lfo: {waveform: sine, rate: 0.5, depth: 0.8}
//	sync: [0.5, 1.0]
//	output: {path: sweep.wav, bit_depth: 24}
package render
