package input

import (
	"time"

	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
)

// debounceDuration is the minimum time between repeated UI actions.
const debounceDuration = 200 * time.Millisecond

// Engine is the keypad surface of the machine. Presses must reach it
// synchronously so a pending key-wait resolves inside the event call.
type Engine interface {
	ButtonPressed(k byte)
	ButtonReleased(k byte)
}

// Manager routes input actions: keypad actions go straight to the
// engine's input latch, everything else to registered callbacks.
type Manager struct {
	engine        Engine
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]time.Time
}

func NewManager(engine Engine) *Manager {
	return &Manager{
		engine:        engine,
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]time.Time),
	}
}

// On registers a callback for a specific action and event type.
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	// Keypad events reach the engine latch untouched and undebounced:
	// a pending key-wait must observe every single press.
	if act.IsKeypad() {
		switch evt {
		case event.Press:
			m.engine.ButtonPressed(act.KeypadValue())
		case event.Release:
			m.engine.ButtonReleased(act.KeypadValue())
		}
		return
	}

	// UI actions are debounced on press so held keys don't repeat-fire.
	if evt == event.Press {
		now := time.Now()
		if now.Sub(m.lastTriggered[act]) < debounceDuration {
			return
		}
		m.lastTriggered[act] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
