package gop

// Config provides an ObjectPoolConfig with default settings.
var Config = NewConfig()

// ObjectPoolConfig is used by the object pool when creating a new instance.
// Please see the documentation at https://github.com/replay/go-object-pool
// for more information
type ObjectPoolConfig struct {
	// InitialChunkSize is the number of element slots in the first chunk
	InitialChunkSize uint

	// GrowthFactor is the multiplier applied to the chunk size every time
	// an additional chunk needs to be allocated
	GrowthFactor uint
}

// NewConfig returns a new object pool configuration with
// default settings. Please see the documentation at
// https://github.com/replay/go-object-pool for
// more information.
func NewConfig() ObjectPoolConfig {
	return ObjectPoolConfig{
		InitialChunkSize: 5,
		GrowthFactor:     2,
	}
}

// withDefaults replaces zero values with the default settings, this
// makes the zero ObjectPoolConfig usable
func (c ObjectPoolConfig) withDefaults() ObjectPoolConfig {
	if c.InitialChunkSize == 0 {
		c.InitialChunkSize = Config.InitialChunkSize
	}
	if c.GrowthFactor == 0 {
		c.GrowthFactor = Config.GrowthFactor
	}
	return c
}
