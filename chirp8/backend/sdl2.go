//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/mkaric/go-chirp8/chirp8/display"
	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
	"github.com/mkaric/go-chirp8/chirp8/video"
	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Backend implements the Backend interface using SDL2 bindings.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed backend, see build tags (sdl2)
type SDL2Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   Config

	pixels [video.FramebufferSize]uint32
	events []InputEvent
}

// NewSDL2Backend creates a new SDL2 backend
func NewSDL2Backend() *SDL2Backend {
	return &SDL2Backend{}
}

func (s *SDL2Backend) Init(config Config) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale)

	return nil
}

// Update renders a frame and translates SDL events.
func (s *SDL2Backend) Update(frame *video.FrameBuffer) ([]InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	s.events = s.events[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	s.renderFrame(frame)
	frame.ConsumeDirty()

	return s.events, nil
}

// Cleanup cleans up SDL2 resources
func (s *SDL2Backend) Cleanup() error {
	slog.Info("cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *SDL2Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.events = append(s.events, InputEvent{Action: action.Quit, Type: event.Press})

	case *sdl.KeyboardEvent:
		switch e.Type {
		case sdl.KEYDOWN:
			if e.Repeat == 0 {
				s.handleKeyDown(e.Keysym.Sym)
			}
		case sdl.KEYUP:
			s.handleKeyUp(e.Keysym.Sym)
		}
	}
}

func (s *SDL2Backend) handleKeyDown(key sdl.Keycode) {
	if act, ok := keypadAction(key); ok {
		s.events = append(s.events, InputEvent{Action: act, Type: event.Press})
		return
	}

	switch key {
	case sdl.K_ESCAPE:
		s.events = append(s.events, InputEvent{Action: action.PauseToggle, Type: event.Press})
	case sdl.K_RETURN:
		s.events = append(s.events, InputEvent{Action: action.Restart, Type: event.Press})
	case sdl.K_SPACE:
		s.events = append(s.events, InputEvent{Action: action.FastForward, Type: event.Press})
	case sdl.K_m:
		s.events = append(s.events, InputEvent{Action: action.MuteToggle, Type: event.Press})
	case sdl.K_LEFTBRACKET:
		s.events = append(s.events, InputEvent{Action: action.PalettePrev, Type: event.Press})
	case sdl.K_RIGHTBRACKET:
		s.events = append(s.events, InputEvent{Action: action.PaletteNext, Type: event.Press})
	case sdl.K_0:
		s.events = append(s.events, InputEvent{Action: action.SpeedReset, Type: event.Press})
	case sdl.K_MINUS:
		s.events = append(s.events, InputEvent{Action: action.SpeedDown, Type: event.Press})
	case sdl.K_EQUALS, sdl.K_PLUS:
		s.events = append(s.events, InputEvent{Action: action.SpeedUp, Type: event.Press})
	}
}

func (s *SDL2Backend) handleKeyUp(key sdl.Keycode) {
	if act, ok := keypadAction(key); ok {
		s.events = append(s.events, InputEvent{Action: act, Type: event.Release})
		return
	}

	if key == sdl.K_SPACE {
		s.events = append(s.events, InputEvent{Action: action.FastForward, Type: event.Release})
	}
}

// keypadAction maps the QWERTY 4x4 block to the CHIP-8 keypad layout.
func keypadAction(key sdl.Keycode) (action.Action, bool) {
	switch key {
	case sdl.K_1:
		return action.Key1, true
	case sdl.K_2:
		return action.Key2, true
	case sdl.K_3:
		return action.Key3, true
	case sdl.K_4:
		return action.KeyC, true
	case sdl.K_q:
		return action.Key4, true
	case sdl.K_w:
		return action.Key5, true
	case sdl.K_e:
		return action.Key6, true
	case sdl.K_r:
		return action.KeyD, true
	case sdl.K_a:
		return action.Key7, true
	case sdl.K_s:
		return action.Key8, true
	case sdl.K_d:
		return action.Key9, true
	case sdl.K_f:
		return action.KeyE, true
	case sdl.K_z:
		return action.KeyA, true
	case sdl.K_x:
		return action.Key0, true
	case sdl.K_c:
		return action.KeyB, true
	case sdl.K_v:
		return action.KeyF, true
	}
	return 0, false
}

func (s *SDL2Backend) renderFrame(frame *video.FrameBuffer) {
	palette := s.config.CurrentPalette()
	fg := packRGBA(palette.FG)
	bg := packRGBA(palette.BG)

	for i, on := range frame.ToSlice() {
		if on {
			s.pixels[i] = fg
		} else {
			s.pixels[i] = bg
		}
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*4)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func packRGBA(c display.Color) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | 0xFF
}
