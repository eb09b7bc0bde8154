package param

// Builder assembles a Parameter. Call Range before Default, since the
// default is stored normalized.
type Builder struct {
	param *Parameter
}

// New starts a 0-1 parameter.
func New(id uint32, name string) *Builder {
	return &Builder{param: &Parameter{
		ID:        id,
		Name:      name,
		ShortName: name,
		Max:       1,
	}}
}

// ShortName sets the name used in narrow displays.
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the plain range.
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default from a plain value.
func (b *Builder) Default(value float64) *Builder {
	b.param.DefaultValue = b.param.Normalize(value)
	return b
}

// Exponential maps the range by ratio. The range must be positive.
func (b *Builder) Exponential() *Builder {
	b.param.Exponential = true
	return b
}

// Unit sets the display unit.
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Setup marks a construction time parameter.
func (b *Builder) Setup() *Builder {
	b.param.Setup = true
	return b
}

// Formatter sets how plain values are displayed and parsed.
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter set to its default.
func (b *Builder) Build() *Parameter {
	b.param.Reset()
	return b.param
}
