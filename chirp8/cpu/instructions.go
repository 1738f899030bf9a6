package cpu

import "github.com/mkaric/go-chirp8/chirp8/video"

// execute dispatches one decoded instruction to its handler. Every Op
// has exactly one case; OpNoop falls through and the step still counts.
func (c *CPU) execute(inst Instruction) {
	switch inst.Op {
	case OpClear:
		c.fb.Clear()
	case OpDraw:
		c.draw(inst.X, inst.Y, inst.N)

	case OpJump:
		c.jump(inst.NNN)
	case OpJumpOffset:
		c.jump(inst.NNN + uint16(c.v[0]))
	case OpCall:
		c.call(inst.NNN)
	case OpReturn:
		c.ret()

	case OpSkipEqByte:
		c.skipIf(c.v[inst.X] == inst.NN)
	case OpSkipNeqByte:
		c.skipIf(c.v[inst.X] != inst.NN)
	case OpSkipEqReg:
		c.skipIf(c.v[inst.X] == c.v[inst.Y])
	case OpSkipNeqReg:
		c.skipIf(c.v[inst.X] != c.v[inst.Y])

	case OpLoadByte:
		c.v[inst.X] = inst.NN
	case OpAddByte:
		// wrapping add, defines no flag
		c.v[inst.X] += inst.NN
	case OpLoadReg:
		c.v[inst.X] = c.v[inst.Y]
	case OpOr:
		c.v[inst.X] |= c.v[inst.Y]
	case OpAnd:
		c.v[inst.X] &= c.v[inst.Y]
	case OpXor:
		c.v[inst.X] ^= c.v[inst.Y]
	case OpAddReg:
		c.addReg(inst.X, inst.Y)
	case OpSubReg:
		c.subReg(inst.X, inst.Y)
	case OpSubReverse:
		c.subReverse(inst.X, inst.Y)
	case OpShiftRight:
		c.shiftRight(inst.X)
	case OpShiftLeft:
		c.shiftLeft(inst.X)
	case OpRandom:
		c.v[inst.X] = c.random() & inst.NN

	case OpLoadIndex:
		c.i = inst.NNN
	case OpAddIndex:
		c.i += uint16(c.v[inst.X])
	case OpLoadFont:
		c.i = uint16(c.v[inst.X]) * glyphSize
	case OpStoreBCD:
		c.storeBCD(inst.X)
	case OpStoreRegs:
		c.storeRegs(inst.X)
	case OpLoadRegs:
		c.loadRegs(inst.X)

	case OpLoadDelay:
		c.v[inst.X] = c.delay
	case OpSetDelay:
		c.delay = c.v[inst.X]
	case OpSetSound:
		c.sound = c.v[inst.X]

	case OpSkipPressed:
		c.skipIf(c.pressed(c.v[inst.X]))
	case OpSkipNotPressed:
		c.skipIf(!c.pressed(c.v[inst.X]))
	case OpWaitKey:
		c.waiting = true
		c.waitReg = inst.X
	}
}

// jump sets pc directly and suppresses the automatic advance for this
// step.
func (c *CPU) jump(addr uint16) {
	c.pc = addr
	c.jumpNext = false
}

// call pushes the current pc and jumps. On overflow the stack pointer
// saturates at the top slot instead of trapping, so a runaway program
// keeps reusing slot 15.
func (c *CPU) call(addr uint16) {
	c.stack[c.sp] = c.pc
	if c.sp < StackDepth-1 {
		c.sp++
	}
	c.jump(addr)
}

// ret pops the stack into pc, saturating at zero. The popped address is
// that of the CALL instruction itself, so the normal +2 advance is left
// in place to land on the instruction after it.
func (c *CPU) ret() {
	if c.sp > 0 {
		c.sp--
	}
	c.pc = c.stack[c.sp]
}

// skipIf advances pc by an extra 2 when the condition holds.
func (c *CPU) skipIf(cond bool) {
	if cond {
		c.pc += 2
	}
}

func (c *CPU) addReg(x, y byte) {
	sum := uint16(c.v[x]) + uint16(c.v[y])
	// result before flag: when x is VF the carry wins
	c.v[x] = byte(sum)
	c.v[0xF] = byte(sum >> 8)
}

func (c *CPU) subReg(x, y byte) {
	noBorrow := c.v[x] >= c.v[y]
	c.v[x] -= c.v[y]
	c.v[0xF] = b2b(noBorrow)
}

func (c *CPU) subReverse(x, y byte) {
	noBorrow := c.v[y] >= c.v[x]
	c.v[x] = c.v[y] - c.v[x]
	c.v[0xF] = b2b(noBorrow)
}

// shiftRight stores the raw shifted-out bit (0x01) in VF, not a
// normalized 0/1. Existing ROMs rely on "non-zero means set".
func (c *CPU) shiftRight(x byte) {
	flag := c.v[x] & 0x01
	c.v[x] >>= 1
	c.v[0xF] = flag
}

// shiftLeft stores the raw high bit (0x80) in VF, same convention as
// shiftRight.
func (c *CPU) shiftLeft(x byte) {
	flag := c.v[x] & 0x80
	c.v[x] <<= 1
	c.v[0xF] = flag
}

// random produces a byte from a xorshift hash of the step counter. The
// machine has no entropy source; the only contract is the AND mask
// applied by the caller.
func (c *CPU) random() byte {
	n := c.tick
	n ^= n << 7
	n ^= n >> 9
	n ^= n << 8
	return byte(n)
}

// draw XORs an n-row sprite read from memory[I] onto the display at
// (Vx, Vy), wrapping at the edges. VF reports whether any pixel was
// erased. The changed flag is raised even for zero-row sprites.
func (c *CPU) draw(x, y, n byte) {
	vx := int(c.v[x])
	vy := int(c.v[y])

	erased := false
	for row := 0; row < int(n); row++ {
		sprite := c.memory[(c.i+uint16(row))&addrMask]
		for col := 0; col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			px := (vx + col) % video.FramebufferWidth
			py := (vy + row) % video.FramebufferHeight
			if c.fb.Flip(px, py) {
				erased = true
			}
		}
	}

	c.v[0xF] = b2b(erased)
	c.fb.MarkDirty()
}

// storeBCD writes the hundreds, tens and ones digits of Vx into
// memory[I..I+2].
func (c *CPU) storeBCD(x byte) {
	vx := c.v[x]
	c.memory[c.i&addrMask] = vx / 100
	c.memory[(c.i+1)&addrMask] = vx / 10 % 10
	c.memory[(c.i+2)&addrMask] = vx % 10
}

// storeRegs copies V0 through Vx inclusive to memory[I..]. I itself is
// not modified.
func (c *CPU) storeRegs(x byte) {
	for r := byte(0); r <= x; r++ {
		c.memory[(c.i+uint16(r))&addrMask] = c.v[r]
	}
}

// loadRegs fills V0 through Vx inclusive from memory[I..]. I itself is
// not modified.
func (c *CPU) loadRegs(x byte) {
	for r := byte(0); r <= x; r++ {
		c.v[r] = c.memory[(c.i+uint16(r))&addrMask]
	}
}

func b2b(b bool) byte {
	if b {
		return 1
	}
	return 0
}
