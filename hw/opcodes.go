package hw

// An opcode is one big-endian 16-bit instruction word. The accessors below
// extract the operand fields shared across the instruction set.
type opcode uint16

func (op opcode) nnn() uint16 { return uint16(op) & 0x0fff } // address
func (op opcode) kk() uint8   { return uint8(op) }           // immediate byte
func (op opcode) x() uint8    { return uint8(op>>8) & 0x0f } // first register
func (op opcode) y() uint8    { return uint8(op>>4) & 0x0f } // second register
func (op opcode) n() uint8    { return uint8(op) & 0x0f }    // small immediate

// A pcAction tells Step how the program counter moves once an instruction
// has been executed: to the next instruction, over the next instruction,
// or to an absolute address.
type pcAction struct {
	typ  actionType
	addr uint16
}

type actionType uint8

const (
	actionNext actionType = iota
	actionSkip
	actionJump
)

func next() pcAction            { return pcAction{typ: actionNext} }
func skip() pcAction            { return pcAction{typ: actionSkip} }
func jump(addr uint16) pcAction { return pcAction{typ: actionJump, addr: addr} }

func skipIf(cond bool) pcAction {
	if cond {
		return skip()
	}
	return next()
}

func flag(cond bool) uint8 {
	if cond {
		return 1
	}
	return 0
}

// execute dispatches on the nibble pattern of op to exactly one
// instruction handler. Patterns matching no handler are a fatal decode
// error: this machine deliberately has no no-op fallback, an invalid
// opcode must never silently continue execution.
func (c *CPU) execute(op opcode) (pcAction, error) {
	switch op >> 12 {
	case 0x0:
		switch op {
		case 0x00E0:
			return CLS(c, op)
		case 0x00EE:
			return RET(c, op)
		}
	case 0x1:
		return JPnnn(c, op)
	case 0x2:
		return CALLnnn(c, op)
	case 0x3:
		return SEvxkk(c, op)
	case 0x4:
		return SNEvxkk(c, op)
	case 0x5:
		if op.n() == 0x0 {
			return SEvxvy(c, op)
		}
	case 0x6:
		return LDvxkk(c, op)
	case 0x7:
		return ADDvxkk(c, op)
	case 0x8:
		switch op.n() {
		case 0x0:
			return LDvxvy(c, op)
		case 0x1:
			return ORvxvy(c, op)
		case 0x2:
			return ANDvxvy(c, op)
		case 0x3:
			return XORvxvy(c, op)
		case 0x4:
			return ADDvxvy(c, op)
		case 0x5:
			return SUBvxvy(c, op)
		case 0x6:
			return SHRvx(c, op)
		case 0x7:
			return SUBNvxvy(c, op)
		case 0xE:
			return SHLvx(c, op)
		}
	case 0x9:
		if op.n() == 0x0 {
			return SNEvxvy(c, op)
		}
	case 0xA:
		return LDinnn(c, op)
	case 0xB:
		return JPv0nnn(c, op)
	case 0xC:
		return RNDvxkk(c, op)
	case 0xD:
		return DRWvxvyn(c, op)
	case 0xE:
		switch op.kk() {
		case 0x9E:
			return SKPvx(c, op)
		case 0xA1:
			return SKNPvx(c, op)
		}
	case 0xF:
		switch op.kk() {
		case 0x07:
			return LDvxdt(c, op)
		case 0x0A:
			return LDvxkey(c, op)
		case 0x15:
			return LDdtvx(c, op)
		case 0x18:
			return LDstvx(c, op)
		case 0x1E:
			return ADDivx(c, op)
		case 0x29:
			return LDfvx(c, op)
		case 0x33:
			return LDbvx(c, op)
		case 0x55:
			return LDivx(c, op)
		case 0x65:
			return LDvxi(c, op)
		}
	}
	return pcAction{}, &OpcodeError{PC: c.PC, Opcode: uint16(op)}
}

// memidx bounds an I-relative address to the RAM space.
func memidx(addr uint16) uint16 {
	return addr & (ramSize - 1)
}

// 00E0
func CLS(c *CPU, op opcode) (pcAction, error) {
	c.FB = FrameBuffer{}
	return next(), nil
}

// 00EE
func RET(c *CPU, op opcode) (pcAction, error) {
	if c.SP == 0 {
		return pcAction{}, &StackError{PC: c.PC, SP: c.SP}
	}
	addr := c.Stack[c.SP]
	c.SP--
	return jump(addr), nil
}

// 1nnn
func JPnnn(c *CPU, op opcode) (pcAction, error) {
	return jump(op.nnn()), nil
}

// 2nnn
// Increment SP, then push the return address, so that SP always indexes
// the top live entry and slot 0 never holds one.
func CALLnnn(c *CPU, op opcode) (pcAction, error) {
	if c.SP >= stackSize-1 {
		return pcAction{}, &StackError{PC: c.PC, SP: c.SP, Overflow: true}
	}
	c.SP++
	c.Stack[c.SP] = c.PC + 2
	return jump(op.nnn()), nil
}

// 3xkk
func SEvxkk(c *CPU, op opcode) (pcAction, error) {
	return skipIf(c.V[op.x()] == op.kk()), nil
}

// 4xkk
func SNEvxkk(c *CPU, op opcode) (pcAction, error) {
	return skipIf(c.V[op.x()] != op.kk()), nil
}

// 5xy0
func SEvxvy(c *CPU, op opcode) (pcAction, error) {
	return skipIf(c.V[op.x()] == c.V[op.y()]), nil
}

// 6xkk
func LDvxkk(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] = op.kk()
	return next(), nil
}

// 7xkk
func ADDvxkk(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] += op.kk()
	return next(), nil
}

// 8xy0
func LDvxvy(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] = c.V[op.y()]
	return next(), nil
}

// 8xy1
func ORvxvy(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] |= c.V[op.y()]
	return next(), nil
}

// 8xy2
func ANDvxvy(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] &= c.V[op.y()]
	return next(), nil
}

// 8xy3
func XORvxvy(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] ^= c.V[op.y()]
	return next(), nil
}

// 8xy4
// The flag is derived from the truncating 8-bit addition itself and
// written after the result, so VF holds the carry even when x is F.
func ADDvxvy(c *CPU, op opcode) (pcAction, error) {
	vx, vy := c.V[op.x()], c.V[op.y()]
	sum := vx + vy
	c.V[op.x()] = sum
	c.V[0xF] = flag(sum < vx)
	return next(), nil
}

// 8xy5
func SUBvxvy(c *CPU, op opcode) (pcAction, error) {
	vx, vy := c.V[op.x()], c.V[op.y()]
	c.V[op.x()] = vx - vy
	c.V[0xF] = flag(vx < vy)
	return next(), nil
}

// 8xy6
// y is decoded but unused: the shift reads and writes x only, and the
// flag bit comes from the pre-shift value.
func SHRvx(c *CPU, op opcode) (pcAction, error) {
	vx := c.V[op.x()]
	c.V[op.x()] = vx >> 1
	c.V[0xF] = vx & 0x1
	return next(), nil
}

// 8xy7
func SUBNvxvy(c *CPU, op opcode) (pcAction, error) {
	vx, vy := c.V[op.x()], c.V[op.y()]
	c.V[op.x()] = vy - vx
	c.V[0xF] = flag(vy < vx)
	return next(), nil
}

// 8xyE
func SHLvx(c *CPU, op opcode) (pcAction, error) {
	vx := c.V[op.x()]
	c.V[op.x()] = vx << 1
	c.V[0xF] = vx >> 7
	return next(), nil
}

// 9xy0
func SNEvxvy(c *CPU, op opcode) (pcAction, error) {
	return skipIf(c.V[op.x()] != c.V[op.y()]), nil
}

// Annn
func LDinnn(c *CPU, op opcode) (pcAction, error) {
	c.I = op.nnn()
	return next(), nil
}

// Bnnn
func JPv0nnn(c *CPU, op opcode) (pcAction, error) {
	return jump(op.nnn() + uint16(c.V[0x0])), nil
}

// Cxkk
func RNDvxkk(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] = c.randByte() & op.kk()
	return next(), nil
}

// Dxyn
// XOR-draws the n-byte sprite at RAM[I] at coordinates (Vx, Vy). Both the
// start coordinates and every drawn pixel wrap around screen edges. VF is
// set when drawing unsets at least one lit pixel.
func DRWvxvyn(c *CPU, op opcode) (pcAction, error) {
	x, y := int(c.V[op.x()]), int(c.V[op.y()])
	c.V[0xF] = 0
	for row := range int(op.n()) {
		bits := c.RAM[memidx(c.I+uint16(row))]
		py := (y + row) % ScreenHeight
		for bit := range 8 {
			if bits&(0x80>>bit) == 0 {
				continue
			}
			px := (x + bit) % ScreenWidth
			if c.FB[py][px] == 1 {
				c.V[0xF] = 1
			}
			c.FB[py][px] ^= 1
		}
	}
	return next(), nil
}

// Ex9E
func SKPvx(c *CPU, op opcode) (pcAction, error) {
	return skipIf(c.Keys[c.V[op.x()]&0x0F]), nil
}

// ExA1
func SKNPvx(c *CPU, op opcode) (pcAction, error) {
	return skipIf(!c.Keys[c.V[op.x()]&0x0F]), nil
}

// Fx07
func LDvxdt(c *CPU, op opcode) (pcAction, error) {
	c.V[op.x()] = c.DT
	return next(), nil
}

// Fx0A
// Blocks until a key is down by re-executing itself: jumping to the
// current PC replays the instruction on the next step.
func LDvxkey(c *CPU, op opcode) (pcAction, error) {
	for k, down := range c.Keys {
		if down {
			c.V[op.x()] = uint8(k)
			return next(), nil
		}
	}
	return jump(c.PC), nil
}

// Fx15
func LDdtvx(c *CPU, op opcode) (pcAction, error) {
	c.DT = c.V[op.x()]
	return next(), nil
}

// Fx18
func LDstvx(c *CPU, op opcode) (pcAction, error) {
	c.ST = c.V[op.x()]
	return next(), nil
}

// Fx1E
func ADDivx(c *CPU, op opcode) (pcAction, error) {
	c.I += uint16(c.V[op.x()])
	return next(), nil
}

// Fx29
func LDfvx(c *CPU, op opcode) (pcAction, error) {
	c.I = uint16(c.V[op.x()]) * 5
	return next(), nil
}

// Fx33
func LDbvx(c *CPU, op opcode) (pcAction, error) {
	vx := c.V[op.x()]
	c.RAM[memidx(c.I)] = vx / 100
	c.RAM[memidx(c.I+1)] = vx / 10 % 10
	c.RAM[memidx(c.I+2)] = vx % 10
	return next(), nil
}

// Fx55
// I is left unchanged.
func LDivx(c *CPU, op opcode) (pcAction, error) {
	for k := uint16(0); k <= uint16(op.x()); k++ {
		c.RAM[memidx(c.I+k)] = c.V[k]
	}
	return next(), nil
}

// Fx65
// I is left unchanged.
func LDvxi(c *CPU, op opcode) (pcAction, error) {
	for k := uint16(0); k <= uint16(op.x()); k++ {
		c.V[k] = c.RAM[memidx(c.I+k)]
	}
	return next(), nil
}
