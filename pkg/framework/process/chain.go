package process

import "github.com/squinewave/squine/pkg/framework/param"

// Chain runs units in order, each hard synced to the one before it: a
// unit's SyncIn is the previous unit's SyncOut for the same block.
type Chain struct {
	// SyncIn, when set, is the first unit's sync input for the next block.
	SyncIn []float64

	units    []*Unit
	contexts []*Context
	fm       []*param.AudioSource
}

// NewChain creates a chain of units with their own contexts.
func NewChain(maxBlockSize int, sampleRate float64, units ...*Unit) *Chain {
	c := &Chain{units: units, fm: make([]*param.AudioSource, len(units))}
	for range units {
		c.contexts = append(c.contexts, NewContext(maxBlockSize, sampleRate))
	}
	return c
}

// ModulateFrequency feeds the audio of unit k-1 into the frequency of unit
// k at depth Hz per unit of output. The hard sync link stays in place.
func (c *Chain) ModulateFrequency(k int, depth float64) {
	if k < 1 || k >= len(c.units) {
		return
	}
	src := param.NewAudioSource(nil)
	c.fm[k] = src
	c.units[k].FM = src
	c.units[k].FMDepth = depth
}

// Process runs one block of n samples through every unit.
func (c *Chain) Process(n int) error {
	for k, u := range c.units {
		ctx := c.contexts[k]
		if err := ctx.Begin(n); err != nil {
			return err
		}
		if k == 0 {
			ctx.SyncIn = c.SyncIn
		} else {
			ctx.SyncIn = c.contexts[k-1].SyncOut
			if c.fm[k] != nil {
				c.fm[k].SetBuffer(c.contexts[k-1].Audio)
			}
		}
		u.Process(ctx)
	}
	c.SyncIn = nil
	return nil
}

// Len returns the number of units.
func (c *Chain) Len() int {
	return len(c.units)
}

// Unit returns unit k.
func (c *Chain) Unit(k int) *Unit {
	return c.units[k]
}

// Context returns the context of unit k, valid until the next Process.
func (c *Chain) Context(k int) *Context {
	return c.contexts[k]
}

// Output returns the audio of unit k for the last block.
func (c *Chain) Output(k int) []float64 {
	return c.contexts[k].Audio
}
