// Package process runs squinewave oscillators block by block.
//
// A Context owns the pre-allocated buffers of one oscillator; a Unit fills
// them from its parameter sources. Nothing on the block path allocates.
package process

import (
	"errors"
	"fmt"
)

// ErrBlockTooLarge is returned when a block exceeds the context's buffers.
var ErrBlockTooLarge = errors.New("process: block larger than max block size")

// Context holds the buffers of the block being processed.
type Context struct {
	SampleRate float64

	// Audio and SyncOut are sized to the current block by Begin.
	// SyncOut is 1 on samples where the oscillator wrapped, else 0.
	Audio   []float64
	SyncOut []float64

	// SyncIn is an optional audio rate sync input. A sample >= 1 triggers
	// hardsync. Begin clears it.
	SyncIn []float64

	audio   []float64
	syncOut []float64

	position int64
}

// NewContext creates a context with buffers for blocks up to maxBlockSize.
func NewContext(maxBlockSize int, sampleRate float64) *Context {
	return &Context{
		SampleRate: sampleRate,
		audio:      make([]float64, maxBlockSize),
		syncOut:    make([]float64, maxBlockSize),
	}
}

// Begin starts a block of n samples.
func (c *Context) Begin(n int) error {
	if n < 0 || n > len(c.audio) {
		return fmt.Errorf("%w: %d > %d", ErrBlockTooLarge, n, len(c.audio))
	}
	c.position += int64(len(c.Audio))
	c.Audio = c.audio[:n]
	c.SyncOut = c.syncOut[:n]
	c.SyncIn = nil
	return nil
}

// NumSamples returns the number of samples in the current block.
func (c *Context) NumSamples() int {
	return len(c.Audio)
}

// MaxBlockSize returns the largest block Begin accepts.
func (c *Context) MaxBlockSize() int {
	return len(c.audio)
}

// Position returns the sample index of the first sample of the block.
func (c *Context) Position() int64 {
	return c.position
}
