package pax

// Config holds engine-wide tunables. Unlike willow, which reads
// most of its defaults from RunConfig fields scattered across scene.go,
// this runtime collects them in one struct so a cartridge can construct an
// Engine without also wiring up a Chassis (e.g. for the scripted test
// runner, which never opens a window).
type Config struct {
	MaxTicksPerSecond int
	CanvasWidth       float64
	CanvasHeight      float64
	AssetBaseDir      string

	// InputQueueCapacity bounds the SPSC input queue; a full
	// queue drops the oldest event rather than blocking the producer.
	InputQueueCapacity int
}

// DefaultConfig returns the engine's out-of-the-box defaults.
func DefaultConfig() Config {
	return Config{
		MaxTicksPerSecond:  240,
		CanvasWidth:        800,
		CanvasHeight:       600,
		AssetBaseDir:       "assets",
		InputQueueCapacity: 256,
	}
}
