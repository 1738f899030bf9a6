package cpu

import (
	"errors"
	"fmt"

	"github.com/mkaric/go-chirp8/chirp8/video"
)

const (
	// MemorySize is the addressable memory in bytes.
	MemorySize = 4096
	// StackDepth is the maximum number of stored return addresses.
	StackDepth = 16
	// ProgramStart is where program bytes are loaded; everything below
	// it is reserved for the font table.
	ProgramStart = 0x200
	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart
)

// addrMask keeps memory indices derived from program data in bounds.
const addrMask = MemorySize - 1

// ErrProgramTooLarge is returned by Load when the program does not fit
// into memory. Nothing is copied in that case.
var ErrProgramTooLarge = errors.New("program does not fit into memory")

// CPU is the CHIP-8 machine: registers, memory, stack, timers, display
// and input latch, plus the fetch-decode-execute state machine over
// them. It is meant to be owned and driven by a single frame loop;
// nothing in here is safe for concurrent use.
type CPU struct {
	// v holds the 16 general-purpose registers V0..VF. VF doubles as
	// the flag output of arithmetic, shift and draw operations.
	v  [16]byte
	i  uint16
	pc uint16

	sp    byte
	stack [StackDepth]uint16

	delay byte
	sound byte

	memory [MemorySize]byte
	fb     *video.FrameBuffer

	keys [16]bool
	// waiting suspends stepping until the next key press, which lands
	// in v[waitReg]. This is the machine's only blocking condition.
	waiting bool
	waitReg byte

	// tick counts executed steps and seeds the RND opcode.
	tick uint16
	// jumpNext is the per-step advance latch: handlers that set pc
	// directly clear it to suppress the automatic +2.
	jumpNext bool

	ready bool
}

// New returns a CPU with the font table loaded and everything else
// zeroed. A program must be loaded before stepping does anything useful.
func New() *CPU {
	c := &CPU{
		pc: ProgramStart,
		fb: video.NewFrameBuffer(),
	}
	copy(c.memory[:], font[:])

	return c
}

// Load copies a program into memory at ProgramStart and marks the
// machine ready. Oversized programs are rejected before anything is
// copied.
func (c *CPU) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	copy(c.memory[ProgramStart:], program)
	c.ready = true

	return nil
}

// Restart re-zeroes registers, timers, stack, display and input but
// keeps memory, so the loaded program runs again without re-reading the
// binary.
func (c *CPU) Restart() {
	memory := c.memory
	ready := c.ready

	*c = *New()
	c.memory = memory
	c.ready = ready
}

// Unload performs a full reset including memory. Only the font survives.
func (c *CPU) Unload() {
	*c = *New()
}

// Ready reports whether a program has been loaded.
func (c *CPU) Ready() bool {
	return c.ready
}

// Step runs exactly one fetch-decode-execute cycle. While a key-wait is
// pending it does nothing at all: the program counter stays put and no
// instruction is fetched.
func (c *CPU) Step() {
	if c.waiting {
		return
	}

	c.tick++

	word := uint16(c.memory[c.pc&addrMask])<<8 | uint16(c.memory[(c.pc+1)&addrMask])

	c.jumpNext = true
	c.execute(Decode(word))

	if c.jumpNext {
		c.pc += 2
	}
}

// TickTimers decrements the delay and sound timers, floored at zero.
// Call it once per frame, independently of how many steps ran.
func (c *CPU) TickTimers() {
	if c.delay > 0 {
		c.delay--
	}
	if c.sound > 0 {
		c.sound--
	}
}

// ButtonPressed latches key k down. If a key-wait is pending it is
// resolved here, synchronously: the key value lands in the waiting
// register and stepping resumes. Keys outside 0x0..0xF are ignored.
func (c *CPU) ButtonPressed(k byte) {
	if k > 0xF {
		return
	}
	c.keys[k] = true

	if c.waiting {
		c.v[c.waitReg] = k
		c.waiting = false
	}
}

// ButtonReleased latches key k up. Keys outside 0x0..0xF are ignored.
func (c *CPU) ButtonReleased(k byte) {
	if k > 0xF {
		return
	}
	c.keys[k] = false
}

func (c *CPU) pressed(k byte) bool {
	return k <= 0xF && c.keys[k]
}

// Framebuffer exposes the display for rendering collaborators.
func (c *CPU) Framebuffer() *video.FrameBuffer {
	return c.fb
}

// DelayTimer returns the current delay timer value.
func (c *CPU) DelayTimer() byte {
	return c.delay
}

// SoundTimer returns the current sound timer value. Anything above zero
// means the buzzer should be audible.
func (c *CPU) SoundTimer() byte {
	return c.sound
}

// SoundActive reports whether the sound timer is running.
func (c *CPU) SoundActive() bool {
	return c.sound > 0
}

// Waiting reports whether the machine is blocked on a key press.
func (c *CPU) Waiting() bool {
	return c.waiting
}

// PC returns the current program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}
