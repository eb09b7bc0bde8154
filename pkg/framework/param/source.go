package param

// Source supplies one oscillator input per sample of a block.
//
// Begin is called once per block before any At; At(i) must be valid for
// 0 <= i < n. Sources are used from the audio thread only.
type Source interface {
	Begin(n int)
	At(i int) float64
}

// ConstSource holds one value for every sample.
type ConstSource float64

// Begin implements Source.
func (c ConstSource) Begin(int) {}

// At implements Source.
func (c ConstSource) At(int) float64 { return float64(c) }

// AudioSource reads an audio rate input, one value per sample.
// Samples past the end of the buffer repeat the last value.
type AudioSource struct {
	buffer []float64
}

// NewAudioSource creates a source over buffer.
func NewAudioSource(buffer []float64) *AudioSource {
	return &AudioSource{buffer: buffer}
}

// SetBuffer replaces the input for the next block.
func (a *AudioSource) SetBuffer(buffer []float64) {
	a.buffer = buffer
}

// Begin implements Source.
func (a *AudioSource) Begin(int) {}

// At implements Source.
func (a *AudioSource) At(i int) float64 {
	switch {
	case len(a.buffer) == 0:
		return 0
	case i >= len(a.buffer):
		return a.buffer[len(a.buffer)-1]
	default:
		return a.buffer[i]
	}
}

// ControlSource is a control rate input: one value per block, ramped from
// the previous block's value so the oscillator never sees a step. The value
// comes from a Parameter when one is attached.
type ControlSource struct {
	param    *Parameter
	target   float64
	smoother *Smoother
	ramp     []float64
}

// NewControlSource creates a linearly ramped control source at value.
func NewControlSource(value float64) *ControlSource {
	return &ControlSource{
		target:   value,
		smoother: NewSmoother(LinearGlide, value),
	}
}

// NewParameterSource creates a control source following p's plain value.
// Exponential parameters glide by ratio.
func NewParameterSource(p *Parameter) *ControlSource {
	s := NewControlSource(p.GetPlainValue())
	if p.Exponential {
		s.smoother = NewSmoother(ExponentialGlide, s.target)
	}
	s.param = p
	return s
}

// Set changes the value reached at the end of the next block.
func (s *ControlSource) Set(value float64) {
	s.target = value
}

// Current returns the value reached at the end of the last block.
func (s *ControlSource) Current() float64 {
	return s.smoother.Current()
}

// Begin implements Source. The first block does not ramp.
func (s *ControlSource) Begin(n int) {
	if s.param != nil {
		s.target = s.param.GetPlainValue()
	}
	if cap(s.ramp) < n {
		s.ramp = make([]float64, n)
	}
	s.ramp = s.ramp[:n]
	s.smoother.Ramp(s.ramp, s.target)
}

// At implements Source.
func (s *ControlSource) At(i int) float64 {
	return s.ramp[i]
}
