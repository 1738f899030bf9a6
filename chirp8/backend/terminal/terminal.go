package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mkaric/go-chirp8/chirp8/backend"
	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
	"github.com/mkaric/go-chirp8/chirp8/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	// cellsPerPixel doubles pixels horizontally so they come out
	// roughly square in a terminal font.
	cellsPerPixel = 2

	// keyTimeout is how long after the last repeat a held key counts as
	// released. Terminals report no key-up events, so releases are
	// synthesized from key-repeat gaps.
	keyTimeout = 150 * time.Millisecond
)

// Backend renders the display with tcell and translates terminal keys
// to emulator actions.
type Backend struct {
	screen  tcell.Screen
	config  backend.Config
	sigCh   chan os.Signal
	running bool

	// held tracks hold-style actions (keypad, fast-forward) by the time
	// of their most recent key event.
	held map[action.Action]time.Time

	events []backend.InputEvent
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.held = make(map[action.Action]time.Time)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	t.screen = screen
	t.running = true

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGINT, syscall.SIGTERM)

	return nil
}

// Update renders the frame and collects input events.
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if !t.running {
		return nil, nil
	}

	t.events = t.events[:0]

	select {
	case <-t.sigCh:
		t.events = append(t.events, backend.InputEvent{Action: action.Quit, Type: event.Press})
	default:
	}

	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		t.handleEvent(ev)
	}
	t.expireHeldKeys()

	if frame.ConsumeDirty() || t.config.ForceRedraw {
		t.renderFrame(frame)
	}
	t.renderStatus()
	t.screen.Show()

	return t.events, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	signal.Stop(t.sigCh)
	t.running = false
	return nil
}

func (t *Backend) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		t.handleKey(e)
	}
}

func (t *Backend) handleKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyCtrlC:
		t.events = append(t.events, backend.InputEvent{Action: action.Quit, Type: event.Press})
		return
	case tcell.KeyEscape:
		t.events = append(t.events, backend.InputEvent{Action: action.PauseToggle, Type: event.Press})
		return
	case tcell.KeyEnter:
		t.events = append(t.events, backend.InputEvent{Action: action.Restart, Type: event.Press})
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch r := e.Rune(); r {
	case ' ':
		t.holdKey(action.FastForward)
	case 'm', 'M':
		t.events = append(t.events, backend.InputEvent{Action: action.MuteToggle, Type: event.Press})
	case '[':
		t.events = append(t.events, backend.InputEvent{Action: action.PalettePrev, Type: event.Press})
	case ']':
		t.events = append(t.events, backend.InputEvent{Action: action.PaletteNext, Type: event.Press})
	case '0':
		t.events = append(t.events, backend.InputEvent{Action: action.SpeedReset, Type: event.Press})
	case '-':
		t.events = append(t.events, backend.InputEvent{Action: action.SpeedDown, Type: event.Press})
	case '=', '+':
		t.events = append(t.events, backend.InputEvent{Action: action.SpeedUp, Type: event.Press})
	default:
		if act, ok := keypadAction(r); ok {
			t.holdKey(act)
		}
	}
}

// keypadAction maps the QWERTY 4x4 block to the CHIP-8 keypad layout:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
func keypadAction(r rune) (action.Action, bool) {
	switch r {
	case '1':
		return action.Key1, true
	case '2':
		return action.Key2, true
	case '3':
		return action.Key3, true
	case '4':
		return action.KeyC, true
	case 'q', 'Q':
		return action.Key4, true
	case 'w', 'W':
		return action.Key5, true
	case 'e', 'E':
		return action.Key6, true
	case 'r', 'R':
		return action.KeyD, true
	case 'a', 'A':
		return action.Key7, true
	case 's', 'S':
		return action.Key8, true
	case 'd', 'D':
		return action.Key9, true
	case 'f', 'F':
		return action.KeyE, true
	case 'z', 'Z':
		return action.KeyA, true
	case 'x', 'X':
		return action.Key0, true
	case 'c', 'C':
		return action.KeyB, true
	case 'v', 'V':
		return action.KeyF, true
	}
	return 0, false
}

// holdKey marks a hold-style action as active, emitting a Press only on
// the initial key-down. Repeats just refresh the timestamp.
func (t *Backend) holdKey(act action.Action) {
	if _, active := t.held[act]; !active {
		t.events = append(t.events, backend.InputEvent{Action: act, Type: event.Press})
	}
	t.held[act] = time.Now()
}

// expireHeldKeys synthesizes Release events for keys whose repeats have
// stopped arriving.
func (t *Backend) expireHeldKeys() {
	now := time.Now()
	for act, last := range t.held {
		if now.Sub(last) > keyTimeout {
			delete(t.held, act)
			t.events = append(t.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

func (t *Backend) renderFrame(frame *video.FrameBuffer) {
	palette := t.config.CurrentPalette()
	fg := tcell.NewRGBColor(int32(palette.FG.R), int32(palette.FG.G), int32(palette.FG.B))
	bg := tcell.NewRGBColor(int32(palette.BG.R), int32(palette.BG.G), int32(palette.BG.B))

	onStyle := tcell.StyleDefault.Background(fg)
	offStyle := tcell.StyleDefault.Background(bg)

	pixels := frame.ToSlice()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := offStyle
			if pixels[y*width+x] {
				style = onStyle
			}
			for c := 0; c < cellsPerPixel; c++ {
				t.screen.SetContent(x*cellsPerPixel+c, y, ' ', nil, style)
			}
		}
	}
}

func (t *Backend) renderStatus() {
	status := fmt.Sprintf(" %s ", t.config.Title)
	if t.config.Callbacks.Paused != nil && t.config.Callbacks.Paused() {
		status += "[paused: enter restarts, esc resumes] "
	}
	if t.config.Callbacks.SoundActive != nil && t.config.Callbacks.SoundActive() {
		status += "♪ "
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	runes := []rune(status)
	for i := 0; i < width*cellsPerPixel; i++ {
		r := ' '
		if i < len(runes) {
			r = runes[i]
		}
		t.screen.SetContent(i, height, r, nil, style)
	}
}
