package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPU_load(t *testing.T) {
	c := New()
	require.False(t, c.Ready())

	err := c.Load([]byte{0x60, 0x05, 0x12, 0x00})
	require.NoError(t, err)

	assert.True(t, c.Ready())
	assert.Equal(t, byte(0x60), c.memory[ProgramStart])
	assert.Equal(t, byte(0x05), c.memory[ProgramStart+1])
	// font table untouched
	assert.Equal(t, byte(0xF0), c.memory[0])
}

func TestCPU_loadTooLarge(t *testing.T) {
	c := New()

	oversized := make([]byte, MaxProgramSize+1)
	for i := range oversized {
		oversized[i] = 0xAB
	}

	err := c.Load(oversized)
	require.ErrorIs(t, err, ErrProgramTooLarge)

	// rejected before mutating memory
	assert.Equal(t, byte(0), c.memory[ProgramStart])
	assert.False(t, c.Ready())
}

func TestCPU_stepAdvancesPC(t *testing.T) {
	c := New()
	require.NoError(t, c.Load([]byte{0x60, 0x05}))

	c.Step()

	assert.Equal(t, uint16(ProgramStart+2), c.PC())
	assert.Equal(t, byte(0x05), c.v[0])
}

func TestCPU_jumpSuppressesAdvance(t *testing.T) {
	c := New()
	require.NoError(t, c.Load([]byte{0x1A, 0xBC}))

	c.Step()

	assert.Equal(t, uint16(0xABC), c.PC())
}

func TestCPU_jumpOffset(t *testing.T) {
	c := New()
	require.NoError(t, c.Load([]byte{0x60, 0x04, 0xB3, 0x00}))

	c.Step()
	c.Step()

	assert.Equal(t, uint16(0x304), c.PC())
}

func TestCPU_timersSaturateAtZero(t *testing.T) {
	c := New()
	c.delay = 5
	c.sound = 2

	for i := 0; i < 5; i++ {
		c.TickTimers()
	}
	assert.Equal(t, byte(0), c.DelayTimer())
	assert.Equal(t, byte(0), c.SoundTimer())

	// no wraparound to 255
	c.TickTimers()
	assert.Equal(t, byte(0), c.DelayTimer())
	assert.Equal(t, byte(0), c.SoundTimer())
}

func TestCPU_soundActive(t *testing.T) {
	c := New()
	assert.False(t, c.SoundActive())

	c.sound = 1
	assert.True(t, c.SoundActive())
}

func TestCPU_keyWait(t *testing.T) {
	c := New()
	// wait for a key into V5, then set V0 = 1
	require.NoError(t, c.Load([]byte{0xF5, 0x0A, 0x60, 0x01}))

	c.Step()
	require.True(t, c.Waiting())
	pc := c.PC()

	// stepping is a no-op until a key arrives
	for i := 0; i < 10; i++ {
		c.Step()
	}
	assert.Equal(t, pc, c.PC())
	assert.Equal(t, byte(0), c.v[0])

	// the press resolves the wait synchronously
	c.ButtonPressed(0xB)
	assert.False(t, c.Waiting())
	assert.Equal(t, byte(0xB), c.v[5])
	assert.True(t, c.pressed(0xB))

	// normal stepping resumes
	c.Step()
	assert.Equal(t, byte(1), c.v[0])
	assert.Equal(t, pc+2, c.PC())
}

func TestCPU_buttonBounds(t *testing.T) {
	c := New()

	// out-of-range keys are ignored, not clamped onto a real key
	c.ButtonPressed(0x20)
	for k := byte(0); k <= 0xF; k++ {
		assert.False(t, c.pressed(k))
	}
	c.ButtonReleased(0x20)
}

func TestCPU_skipPressed(t *testing.T) {
	testCases := []struct {
		desc    string
		program []byte
		pressed bool
		wantPC  uint16
	}{
		{desc: "SKP skips when pressed", program: []byte{0xE2, 0x9E}, pressed: true, wantPC: ProgramStart + 4},
		{desc: "SKP falls through when not pressed", program: []byte{0xE2, 0x9E}, pressed: false, wantPC: ProgramStart + 2},
		{desc: "SKNP skips when not pressed", program: []byte{0xE2, 0xA1}, pressed: false, wantPC: ProgramStart + 4},
		{desc: "SKNP falls through when pressed", program: []byte{0xE2, 0xA1}, pressed: true, wantPC: ProgramStart + 2},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := New()
			require.NoError(t, c.Load(tC.program))
			c.v[2] = 0x7
			if tC.pressed {
				c.ButtonPressed(0x7)
			}

			c.Step()

			assert.Equal(t, tC.wantPC, c.PC())
		})
	}
}

func TestCPU_restartKeepsMemory(t *testing.T) {
	c := New()
	require.NoError(t, c.Load([]byte{0x13, 0x00}))

	c.Step()
	c.v[3] = 0xAA
	c.delay = 9
	c.sound = 9
	c.ButtonPressed(0x4)
	c.fb.Set(1, 1, true)

	c.Restart()

	assert.Equal(t, uint16(ProgramStart), c.PC())
	assert.Equal(t, byte(0), c.v[3])
	assert.Equal(t, byte(0), c.DelayTimer())
	assert.Equal(t, byte(0), c.SoundTimer())
	assert.False(t, c.pressed(0x4))
	assert.False(t, c.fb.Get(1, 1))
	// program and font survive
	assert.Equal(t, byte(0x13), c.memory[ProgramStart])
	assert.Equal(t, byte(0xF0), c.memory[0])
	assert.True(t, c.Ready())
}

func TestCPU_unloadClearsMemory(t *testing.T) {
	c := New()
	require.NoError(t, c.Load([]byte{0x13, 0x00}))

	c.Unload()

	assert.Equal(t, byte(0), c.memory[ProgramStart])
	assert.Equal(t, byte(0xF0), c.memory[0]) // font is reloaded
	assert.False(t, c.Ready())
	assert.Equal(t, uint16(ProgramStart), c.PC())
}

func TestCPU_fetchAtMemoryEdgeDoesNotPanic(t *testing.T) {
	c := New()
	c.pc = MemorySize - 1

	// the second fetch byte wraps instead of reading out of range
	assert.NotPanics(t, func() { c.Step() })
}
