package pax

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Chassis wraps an Engine as an ebiten.Game, owning the backbuffer sink and
// translating ebiten's per-frame Update/Draw callbacks into tick/render
// calls. Grounded on willow's gameShell/Run in scene.go, which plays the
// identical role for a single Scene.
type Chassis struct {
	engine *Engine
	sink   *EbitenSink
	width  int
	height int
}

// RunConfig configures chassis startup, mirroring willow's RunConfig.
type RunConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
}

// NewChassis creates a chassis around engine with the given backbuffer
// size; the backing *ebiten.Image is allocated lazily on first Draw since
// ebiten doesn't hand one out before the game loop starts.
func NewChassis(engine *Engine, width, height int) *Chassis {
	return &Chassis{engine: engine, width: width, height: height}
}

// Update advances the engine by one tick. Per ebiten's contract this runs
// at a fixed logical rate independent of the display's refresh rate.
func (c *Chassis) Update() error {
	return c.engine.Tick()
}

// Draw renders the engine's current expanded tree into screen.
func (c *Chassis) Draw(screen *ebiten.Image) {
	if c.sink == nil {
		c.sink = NewEbitenSink(screen)
	} else {
		c.sink.SetTarget(screen)
	}
	c.engine.Render(c.sink)
}

// Layout reports the logical screen size; ebiten scales to the actual
// window size itself.
func (c *Chassis) Layout(outsideWidth, outsideHeight int) (int, int) {
	return c.width, c.height
}

// Run starts ebiten's game loop with cfg, driving engine's tick/render
// cadence until the window closes. Entered once by the host binary that
// builds a cartridge's instance tree and calls this.
func Run(engine *Engine, cfg RunConfig) error {
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	chassis := NewChassis(engine, cfg.Width, cfg.Height)
	return ebiten.RunGame(chassis)
}
