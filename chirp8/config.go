package chirp8

import "github.com/mkaric/go-chirp8/chirp8/display"

// Speed is measured in CPU steps per frame. Timers always tick once per
// frame, so speed only scales instruction throughput.
const (
	DefaultSpeed = 20
	MinSpeed     = 1
	MaxSpeed     = 40000
)

// DrawStrategy selects when backends repaint.
type DrawStrategy int

const (
	// DrawPerFrame repaints only when the framebuffer changed since the
	// last frame. Suitable for most games.
	DrawPerFrame DrawStrategy = iota
	// DrawPerStep forces a repaint every frame regardless of the
	// changed flag. May fix sprites that flicker in and out faster than
	// the display refreshes.
	DrawPerStep
)

// Config holds emulator settings.
type Config struct {
	Speed        int
	DrawStrategy DrawStrategy
	Palettes     []display.Palette
	Mute         bool
}

// DefaultConfig returns a config with the built-in palettes and default
// speed.
func DefaultConfig() Config {
	return Config{
		Speed:    DefaultSpeed,
		Palettes: display.DefaultPalettes,
	}
}
