package display

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default scaling factor for CHIP-8 pixels
	DefaultPixelScale = 8
	// DefaultWindowWidth is the default window width (display width * scale)
	DefaultWindowWidth = 64 * DefaultPixelScale // 512
	// DefaultWindowHeight is the default window height (display height * scale)
	DefaultWindowHeight = 32 * DefaultPixelScale // 256
)
