package hw

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"

	"chiptor/emu/log"
)

// Display dimensions, in pixels.
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

const (
	ramSize   = 4096
	stackSize = 16

	// Conventional load address for program images.
	progStart = 0x200
)

// FrameBuffer is the monochrome display surface, one byte per pixel
// holding 0 or 1, indexed by [row][column].
type FrameBuffer [ScreenHeight][ScreenWidth]uint8

// Sprites for the hexadecimal digits 0 to F, 5 bytes per glyph, copied at
// the bottom of RAM at power-up.
var font = [80]uint8{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// FontGlyph returns the 5-byte sprite for hexadecimal digit d (masked to
// 0..15). Each byte is one row, most significant bit leftmost.
func FontGlyph(d uint8) []uint8 {
	d &= 0x0F
	return font[d*5 : d*5+5]
}

type CPU struct {
	RAM [ramSize]byte

	// cpu registers. VF doubles as the carry/borrow/collision flag.
	V  [16]uint8
	I  uint16
	PC uint16

	Stack [stackSize]uint16
	SP    uint8 // indexes the last pushed entry, 0 when the stack is empty.

	// Countdown timers, decremented by TickTimers only, at 60Hz.
	DT uint8
	ST uint8

	FB   FrameBuffer
	Keys [16]bool // keypad state, maintained by the input driver.

	Cycles int64 // executed instructions

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	// Byte source for RND. Tests substitute a deterministic one.
	randByte func() uint8

	prog []byte // program image, kept around for hard resets.

	halted bool
}

// NewCPU creates a new CPU at power-up state: font table in low RAM,
// execution starting at 0x200, everything else zeroed.
func NewCPU() *CPU {
	c := &CPU{
		PC:       progStart,
		randByte: randByte,
	}
	copy(c.RAM[:], font[:])
	return c
}

func randByte() uint8 {
	return uint8(rand.UintN(256))
}

// LoadProgram copies a program image at the conventional load address and
// keeps a reference copy for hard resets.
func (c *CPU) LoadProgram(prog []byte) error {
	if len(prog) > ramSize-progStart {
		return fmt.Errorf("program too large: %d bytes (maximum is %d)", len(prog), ramSize-progStart)
	}
	c.prog = bytes.Clone(prog)
	copy(c.RAM[progStart:], prog)
	return nil
}

// Reset brings the CPU back to power-up state. A soft reset clears
// registers, stack, timers, display and keypad but leaves RAM alone, so a
// self-modified program keeps its modifications. A hard reset also
// restores RAM from the font table and the loaded program image.
func (c *CPU) Reset(hard bool) {
	c.V = [16]uint8{}
	c.I = 0
	c.PC = progStart
	c.Stack = [stackSize]uint16{}
	c.SP = 0
	c.DT = 0
	c.ST = 0
	c.FB = FrameBuffer{}
	c.Keys = [16]bool{}
	c.Cycles = 0
	c.halted = false

	if hard {
		c.RAM = [ramSize]byte{}
		copy(c.RAM[:], font[:])
		copy(c.RAM[progStart:], c.prog)
	}
}

// fetch reads the big-endian instruction word at PC. Pure read.
func (c *CPU) fetch() opcode {
	hi := c.RAM[c.PC&(ramSize-1)]
	lo := c.RAM[(c.PC+1)&(ramSize-1)]
	return opcode(uint16(hi)<<8 | uint16(lo))
}

// Step executes a single instruction: fetch at PC, decode, apply the
// instruction effect and move PC according to the returned control action.
// On error (unknown opcode, stack limit) the machine state is left
// untouched.
func (c *CPU) Step() error {
	op := c.fetch()
	c.traceOp(op)

	act, err := c.execute(op)
	if err != nil {
		return err
	}

	switch act.typ {
	case actionNext:
		c.PC += 2
	case actionSkip:
		c.PC += 4
	case actionJump:
		c.PC = act.addr
	}

	c.Cycles++
	return nil
}

// Run executes up to ninstrs instructions, stopping early if the CPU
// halts. A fatal instruction error halts the CPU for good: further calls
// to Run are no-ops and the emulator is expected to wind down.
func (c *CPU) Run(ninstrs int) {
	if c.halted {
		return
	}

	for range ninstrs {
		if err := c.Step(); err != nil {
			c.halted = true
			log.ModCPU.WarnZ("CPU halted").
				Hex16("PC", c.PC).
				Error("err", err).
				End()
			return
		}
	}
}

func (c *CPU) IsHalted() bool {
	return c.halted
}

// TickTimers decrements the delay and sound timers toward zero. The
// driver calls it at 60Hz; instruction execution never touches them.
func (c *CPU) TickTimers() {
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
}

func (c *CPU) traceOp(op opcode) {
	if c.tracer == nil {
		return
	}
	c.tracer.write(cpuState{
		V:      c.V,
		I:      c.I,
		PC:     c.PC,
		Opcode: uint16(op),
		SP:     c.SP,
		DT:     c.DT,
		ST:     c.ST,
		Clock:  c.Cycles,
	})
}

func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w}
}

// An OpcodeError reports a fetched instruction word that matches no
// pattern of the instruction set. Execution must not continue past it.
type OpcodeError struct {
	PC     uint16
	Opcode uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04x at %04x", e.Opcode, e.PC)
}

// A StackError reports a call or return that would move the stack pointer
// outside the 16-slot stack.
type StackError struct {
	PC       uint16
	SP       uint8
	Overflow bool // push on a full stack if true, pop on an empty one otherwise.
}

func (e *StackError) Error() string {
	if e.Overflow {
		return fmt.Sprintf("stack overflow at %04x (SP=%d)", e.PC, e.SP)
	}
	return fmt.Sprintf("stack underflow at %04x", e.PC)
}
