package backend

import (
	"github.com/mkaric/go-chirp8/chirp8/display"
	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
	"github.com/mkaric/go-chirp8/chirp8/video"
)

// InputEvent is a platform event already translated to an emulator
// action, returned by Update for the emulator to dispatch.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Backend represents a complete emulator platform (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, websocket, ...)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, status overlays)
type Backend interface {
	// Init configures the backend. Required before calling Update.
	Init(config Config) error

	// Update renders the frame and returns any input events collected
	// since the previous call. The emulator dispatches them after
	// rendering, so button events always land between frames.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends
type Config struct {
	Title   string
	Scale   int
	ROMName string

	// ForceRedraw makes the backend repaint every frame instead of only
	// when the framebuffer's changed flag is raised.
	ForceRedraw bool

	Callbacks Callbacks
}

// Callbacks lets backends read live emulator state without owning it.
type Callbacks struct {
	// Palette returns the current palette; it may change at runtime.
	Palette func() display.Palette
	// SoundActive reports whether the buzzer should be audible.
	SoundActive func() bool
	// Paused reports whether emulation is paused.
	Paused func() bool
}

// CurrentPalette resolves the palette callback with a fallback default.
func (c Config) CurrentPalette() display.Palette {
	if c.Callbacks.Palette != nil {
		return c.Callbacks.Palette()
	}
	return display.Default()
}
