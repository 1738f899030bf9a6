package cpu

// Op identifies one of the 35 CHIP-8 operations. OpNoop covers the
// legacy 0NNN machine-routine call and every unrecognized bit pattern;
// both consume a step without doing anything, as the original
// interpreters did.
type Op int

const (
	OpNoop Op = iota
	OpClear
	OpReturn
	OpJump
	OpCall
	OpSkipEqByte
	OpSkipNeqByte
	OpSkipEqReg
	OpSkipNeqReg
	OpLoadByte
	OpAddByte
	OpLoadReg
	OpOr
	OpAnd
	OpXor
	OpAddReg
	OpSubReg
	OpShiftRight
	OpSubReverse
	OpShiftLeft
	OpLoadIndex
	OpJumpOffset
	OpRandom
	OpDraw
	OpSkipPressed
	OpSkipNotPressed
	OpLoadDelay
	OpWaitKey
	OpSetDelay
	OpSetSound
	OpAddIndex
	OpLoadFont
	OpStoreBCD
	OpStoreRegs
	OpLoadRegs
)

// Instruction is one decoded 16-bit instruction word. Operand fields are
// always populated from the word's nibbles; which ones are meaningful
// depends on Op.
type Instruction struct {
	Op  Op
	X   byte   // second nibble, selects Vx
	Y   byte   // third nibble, selects Vy
	N   byte   // low nibble
	NN  byte   // low byte
	NNN uint16 // low 12 bits, an address
}

// Decode maps an instruction word to its operation and operands. It is a
// pure function and total: words that match no known pattern decode to
// OpNoop rather than failing.
func Decode(word uint16) Instruction {
	inst := Instruction{
		X:   byte(word>>8) & 0xF,
		Y:   byte(word>>4) & 0xF,
		N:   byte(word) & 0xF,
		NN:  byte(word),
		NNN: word & 0x0FFF,
	}

	switch byte(word >> 12) {
	case 0x0:
		switch word {
		case 0x00E0:
			inst.Op = OpClear
		case 0x00EE:
			inst.Op = OpReturn
		}
		// anything else is 0NNN, ignored
	case 0x1:
		inst.Op = OpJump
	case 0x2:
		inst.Op = OpCall
	case 0x3:
		inst.Op = OpSkipEqByte
	case 0x4:
		inst.Op = OpSkipNeqByte
	case 0x5:
		if inst.N == 0 {
			inst.Op = OpSkipEqReg
		}
	case 0x6:
		inst.Op = OpLoadByte
	case 0x7:
		inst.Op = OpAddByte
	case 0x8:
		switch inst.N {
		case 0x0:
			inst.Op = OpLoadReg
		case 0x1:
			inst.Op = OpOr
		case 0x2:
			inst.Op = OpAnd
		case 0x3:
			inst.Op = OpXor
		case 0x4:
			inst.Op = OpAddReg
		case 0x5:
			inst.Op = OpSubReg
		case 0x6:
			inst.Op = OpShiftRight
		case 0x7:
			inst.Op = OpSubReverse
		case 0xE:
			inst.Op = OpShiftLeft
		}
	case 0x9:
		if inst.N == 0 {
			inst.Op = OpSkipNeqReg
		}
	case 0xA:
		inst.Op = OpLoadIndex
	case 0xB:
		inst.Op = OpJumpOffset
	case 0xC:
		inst.Op = OpRandom
	case 0xD:
		inst.Op = OpDraw
	case 0xE:
		switch inst.NN {
		case 0x9E:
			inst.Op = OpSkipPressed
		case 0xA1:
			inst.Op = OpSkipNotPressed
		}
	case 0xF:
		switch inst.NN {
		case 0x07:
			inst.Op = OpLoadDelay
		case 0x0A:
			inst.Op = OpWaitKey
		case 0x15:
			inst.Op = OpSetDelay
		case 0x18:
			inst.Op = OpSetSound
		case 0x1E:
			inst.Op = OpAddIndex
		case 0x29:
			inst.Op = OpLoadFont
		case 0x33:
			inst.Op = OpStoreBCD
		case 0x55:
			inst.Op = OpStoreRegs
		case 0x65:
			inst.Op = OpLoadRegs
		}
	}

	return inst
}
