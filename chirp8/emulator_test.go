package chirp8

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkaric/go-chirp8/chirp8/backend"
	"github.com/mkaric/go-chirp8/chirp8/cpu"
	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
	"github.com/mkaric/go-chirp8/chirp8/timing"
	"github.com/mkaric/go-chirp8/chirp8/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend renders nothing and feeds a scripted list of input events
// back to the emulator, one batch per frame.
type stubBackend struct {
	updates int
	script  [][]backend.InputEvent
	err     error
}

func (s *stubBackend) Init(backend.Config) error { return nil }

func (s *stubBackend) Update(*video.FrameBuffer) ([]backend.InputEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	var events []backend.InputEvent
	if s.updates < len(s.script) {
		events = s.script[s.updates]
	}
	s.updates++
	return events, nil
}

func (s *stubBackend) Cleanup() error { return nil }

func quitEvent() []backend.InputEvent {
	return []backend.InputEvent{{Action: action.Quit, Type: event.Press}}
}

// infinite loop at the program start
var loopROM = []byte{0x12, 0x00}

func TestNew_clampsSpeed(t *testing.T) {
	assert.Equal(t, DefaultSpeed, New(Config{}).Speed())
	assert.Equal(t, MaxSpeed, New(Config{Speed: MaxSpeed + 1}).Speed())
	assert.Equal(t, MinSpeed, New(Config{Speed: MinSpeed}).Speed())
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.ch8")
	require.NoError(t, os.WriteFile(path, loopROM, 0644))

	e, err := NewWithFile(path, DefaultConfig())
	require.NoError(t, err)

	e.RunUntilFrame()
	assert.Equal(t, uint16(cpu.ProgramStart), e.cpu.PC())
}

func TestNewWithFile_missing(t *testing.T) {
	_, err := NewWithFile(filepath.Join(t.TempDir(), "nope.ch8"), DefaultConfig())
	assert.Error(t, err)
}

func TestRunUntilFrame_ticksTimersOncePerFrame(t *testing.T) {
	e := New(DefaultConfig())
	// V0 = 60; DT = V0; loop
	require.NoError(t, e.Load([]byte{0x60, 0x3C, 0xF0, 0x15, 0x12, 0x04}))

	e.RunUntilFrame()

	// many steps ran, but the timer dropped by exactly one
	assert.Equal(t, byte(59), e.cpu.DelayTimer())
	assert.Equal(t, uint64(1), e.FrameCount())
}

func TestPause_freezesTheMachine(t *testing.T) {
	e := New(DefaultConfig())
	require.NoError(t, e.Load([]byte{0x60, 0x3C, 0xF0, 0x15, 0x12, 0x04}))

	e.RunUntilFrame()
	e.HandleAction(action.PauseToggle, event.Press)
	require.True(t, e.Paused())

	dt := e.cpu.DelayTimer()
	e.RunUntilFrame()
	e.RunUntilFrame()

	assert.Equal(t, dt, e.cpu.DelayTimer())
	// paused frames still count, the backend keeps rendering
	assert.Equal(t, uint64(3), e.FrameCount())
}

func TestRestart_ignoredWhileRunning(t *testing.T) {
	e := New(DefaultConfig())
	require.NoError(t, e.Load([]byte{0x60, 0x3C, 0xF0, 0x15, 0x12, 0x04}))
	e.RunUntilFrame()

	e.HandleAction(action.Restart, event.Press)

	assert.Equal(t, byte(59), e.cpu.DelayTimer())
	assert.False(t, e.Paused())
}

func TestRestart_whilePausedResetsAndResumes(t *testing.T) {
	e := New(DefaultConfig())
	require.NoError(t, e.Load([]byte{0x60, 0x3C, 0xF0, 0x15, 0x12, 0x04}))
	e.RunUntilFrame()

	e.HandleAction(action.PauseToggle, event.Press)
	e.HandleAction(action.Restart, event.Press)

	assert.False(t, e.Paused())
	assert.Equal(t, byte(0), e.cpu.DelayTimer())
	assert.Equal(t, uint16(cpu.ProgramStart), e.cpu.PC())
	// the program is still loaded
	assert.True(t, e.cpu.Ready())
}

func TestFastForward_doublesThroughput(t *testing.T) {
	e := New(DefaultConfig())
	require.NoError(t, e.Load([]byte{0x60, 0x3C, 0xF0, 0x15, 0x12, 0x04}))

	e.RunUntilFrame()
	require.Equal(t, byte(59), e.cpu.DelayTimer())

	e.HandleAction(action.FastForward, event.Press)
	e.RunUntilFrame()
	assert.Equal(t, byte(57), e.cpu.DelayTimer())

	e.HandleAction(action.FastForward, event.Release)
	e.RunUntilFrame()
	assert.Equal(t, byte(56), e.cpu.DelayTimer())
}

func TestSpeedActions(t *testing.T) {
	e := New(DefaultConfig())

	e.HandleAction(action.SpeedUp, event.Press)
	assert.Equal(t, DefaultSpeed+1, e.Speed())

	e.HandleAction(action.SpeedDown, event.Press)
	assert.Equal(t, DefaultSpeed, e.Speed())

	e.HandleAction(action.SpeedReset, event.Press)
	assert.Equal(t, DefaultSpeed, e.Speed())
}

func TestSpeedDown_clampsAtMinimum(t *testing.T) {
	e := New(Config{Speed: MinSpeed})

	e.HandleAction(action.SpeedDown, event.Press)

	assert.Equal(t, MinSpeed, e.Speed())
}

func TestMuteToggle(t *testing.T) {
	e := New(DefaultConfig())
	// V0 = 5; ST = V0; loop
	require.NoError(t, e.Load([]byte{0x60, 0x05, 0xF0, 0x18, 0x12, 0x04}))

	e.RunUntilFrame()
	require.True(t, e.SoundActive())

	e.HandleAction(action.MuteToggle, event.Press)
	assert.False(t, e.SoundActive())
}

func TestPaletteCycling(t *testing.T) {
	e := New(DefaultConfig())
	first := e.Palette()

	e.HandleAction(action.PaletteNext, event.Press)
	assert.NotEqual(t, first, e.Palette())

	e.HandleAction(action.PalettePrev, event.Press)
	assert.Equal(t, first, e.Palette())
}

func TestPalettePrev_wrapsToLast(t *testing.T) {
	e := New(DefaultConfig())

	e.HandleAction(action.PalettePrev, event.Press)

	assert.Equal(t, e.config.Palettes[len(e.config.Palettes)-1], e.Palette())
}

func TestKeyWait_resolvedByHandleAction(t *testing.T) {
	e := New(DefaultConfig())
	// wait for a key into V3, then loop
	require.NoError(t, e.Load([]byte{0xF3, 0x0A, 0x12, 0x02}))

	e.RunUntilFrame()
	require.True(t, e.cpu.Waiting())

	e.HandleAction(action.Key9, event.Press)

	assert.False(t, e.cpu.Waiting())
}

func TestRun_quitsOnQuitEvent(t *testing.T) {
	e := New(DefaultConfig())
	require.NoError(t, e.Load(loopROM))
	b := &stubBackend{script: [][]backend.InputEvent{nil, nil, quitEvent()}}

	err := e.Run(b, timing.NewNoOpLimiter())

	require.NoError(t, err)
	assert.Equal(t, 3, b.updates)
	assert.Equal(t, uint64(3), e.FrameCount())
}

func TestRun_propagatesBackendErrors(t *testing.T) {
	e := New(DefaultConfig())
	require.NoError(t, e.Load(loopROM))
	wantErr := errors.New("display gone")
	b := &stubBackend{err: wantErr}

	err := e.Run(b, timing.NewNoOpLimiter())

	assert.ErrorIs(t, err, wantErr)
}

func TestBackendConfig(t *testing.T) {
	config := DefaultConfig()
	config.DrawStrategy = DrawPerStep
	e := New(config)

	bc := e.BackendConfig("chirp8 - pong", "pong")

	assert.Equal(t, "chirp8 - pong", bc.Title)
	assert.Equal(t, "pong", bc.ROMName)
	assert.True(t, bc.ForceRedraw)
	assert.Equal(t, e.Palette(), bc.CurrentPalette())
	assert.False(t, bc.Callbacks.Paused())
	assert.False(t, bc.Callbacks.SoundActive())
}
