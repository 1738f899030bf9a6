package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// CHIP-8 keypad, values 0x0..0xF
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	PauseToggle
	Restart
	Quit
	SpeedUp
	SpeedDown
	SpeedReset
	FastForward
	MuteToggle
	PaletteNext
	PalettePrev
)

// IsKeypad reports whether the action is one of the 16 hex keys.
func (a Action) IsKeypad() bool {
	return a >= Key0 && a <= KeyF
}

// KeypadValue returns the hex key value for keypad actions.
func (a Action) KeypadValue() byte {
	return byte(a - Key0)
}

// Keypad returns the keypad action for a hex key value in 0x0..0xF.
func Keypad(k byte) Action {
	return Key0 + Action(k&0xF)
}
