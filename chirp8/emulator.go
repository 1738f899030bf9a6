package chirp8

import (
	"log/slog"
	"os"

	"github.com/mkaric/go-chirp8/chirp8/backend"
	"github.com/mkaric/go-chirp8/chirp8/cpu"
	"github.com/mkaric/go-chirp8/chirp8/display"
	"github.com/mkaric/go-chirp8/chirp8/input"
	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
	"github.com/mkaric/go-chirp8/chirp8/timing"
	"github.com/mkaric/go-chirp8/chirp8/video"
)

// Emulator owns one CHIP-8 machine and drives it frame by frame: a
// batch of CPU steps followed by a single timer tick, with input events
// from the backend dispatched in between frames.
type Emulator struct {
	cpu    *cpu.CPU
	input  *input.Manager
	config Config

	paletteIndex int
	paused       bool
	fastForward  bool
	muted        bool
	quit         bool

	frames uint64
}

// New creates an emulator with no program loaded.
func New(config Config) *Emulator {
	if config.Speed < MinSpeed {
		config.Speed = DefaultSpeed
	}
	if config.Speed > MaxSpeed {
		config.Speed = MaxSpeed
	}
	if len(config.Palettes) == 0 {
		config.Palettes = display.DefaultPalettes
	}

	e := &Emulator{
		cpu:    cpu.New(),
		config: config,
		muted:  config.Mute,
	}
	e.input = input.NewManager(e.cpu)
	e.registerActions()

	return e
}

// NewWithFile creates an emulator and loads the ROM at path into it.
func NewWithFile(path string, config Config) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	e := New(config)
	if err := e.Load(data); err != nil {
		return nil, err
	}

	slog.Info("loaded ROM", "path", path, "bytes", len(data))
	return e, nil
}

// Load loads a program into the machine.
func (e *Emulator) Load(rom []byte) error {
	return e.cpu.Load(rom)
}

func (e *Emulator) registerActions() {
	e.input.On(action.PauseToggle, event.Press, func() {
		e.paused = !e.paused
		slog.Debug("pause toggled", "paused", e.paused)
	})
	e.input.On(action.Restart, event.Press, func() {
		// restart is only offered while paused, like the pause menu of
		// the desktop build
		if e.paused {
			e.cpu.Restart()
			e.paused = false
			slog.Info("machine restarted")
		}
	})
	e.input.On(action.Quit, event.Press, func() {
		e.quit = true
	})

	e.input.On(action.SpeedUp, event.Press, func() { e.setSpeed(e.config.Speed + 1) })
	e.input.On(action.SpeedDown, event.Press, func() { e.setSpeed(e.config.Speed - 1) })
	e.input.On(action.SpeedReset, event.Press, func() { e.setSpeed(DefaultSpeed) })

	e.input.On(action.FastForward, event.Press, func() { e.fastForward = true })
	e.input.On(action.FastForward, event.Release, func() { e.fastForward = false })

	e.input.On(action.MuteToggle, event.Press, func() {
		e.muted = !e.muted
	})

	e.input.On(action.PaletteNext, event.Press, func() {
		e.paletteIndex = (e.paletteIndex + 1) % len(e.config.Palettes)
	})
	e.input.On(action.PalettePrev, event.Press, func() {
		e.paletteIndex = (e.paletteIndex + len(e.config.Palettes) - 1) % len(e.config.Palettes)
	})
}

func (e *Emulator) setSpeed(speed int) {
	if speed < MinSpeed {
		speed = MinSpeed
	}
	if speed > MaxSpeed {
		speed = MaxSpeed
	}
	e.config.Speed = speed
	slog.Debug("speed changed", "steps_per_frame", speed)
}

// RunUntilFrame advances emulation by one frame: Speed CPU steps
// followed by exactly one timer tick. While paused it does nothing.
// Fast-forward runs two frames' worth in one call.
func (e *Emulator) RunUntilFrame() {
	e.frames++
	if e.paused {
		return
	}

	rounds := 1
	if e.fastForward {
		rounds = 2
	}

	for r := 0; r < rounds; r++ {
		for i := 0; i < e.config.Speed; i++ {
			e.cpu.Step()
		}
		e.cpu.TickTimers()
	}
}

// Run is the main loop: emulate a frame, hand the framebuffer to the
// backend, dispatch whatever input came back, wait for the next frame.
// Returns when a Quit action arrives or the backend fails.
func (e *Emulator) Run(b backend.Backend, limiter timing.Limiter) error {
	for !e.quit {
		e.RunUntilFrame()

		events, err := b.Update(e.cpu.Framebuffer())
		if err != nil {
			return err
		}
		for _, ev := range events {
			e.HandleAction(ev.Action, ev.Type)
		}

		limiter.WaitForNextFrame()
	}
	return nil
}

// HandleAction dispatches a single input action. Keypad presses reach
// the machine's input latch synchronously, so a pending key-wait is
// resolved inside this call.
func (e *Emulator) HandleAction(act action.Action, evt event.Type) {
	e.input.Trigger(act, evt)
}

// Framebuffer exposes the machine's display.
func (e *Emulator) Framebuffer() *video.FrameBuffer {
	return e.cpu.Framebuffer()
}

// Palette returns the currently selected palette.
func (e *Emulator) Palette() display.Palette {
	return e.config.Palettes[e.paletteIndex]
}

// SoundActive reports whether the buzzer should be audible right now.
func (e *Emulator) SoundActive() bool {
	return e.cpu.SoundActive() && !e.muted
}

// Paused reports whether emulation is paused.
func (e *Emulator) Paused() bool {
	return e.paused
}

// Speed returns the current steps-per-frame setting.
func (e *Emulator) Speed() int {
	return e.config.Speed
}

// FrameCount returns the number of frames processed so far.
func (e *Emulator) FrameCount() uint64 {
	return e.frames
}

// BackendConfig builds a backend configuration wired to this emulator's
// live state.
func (e *Emulator) BackendConfig(title, romName string) backend.Config {
	return backend.Config{
		Title:       title,
		Scale:       display.DefaultPixelScale,
		ROMName:     romName,
		ForceRedraw: e.config.DrawStrategy == DrawPerStep,
		Callbacks: backend.Callbacks{
			Palette:     e.Palette,
			SoundActive: e.SoundActive,
			Paused:      e.Paused,
		},
	}
}
