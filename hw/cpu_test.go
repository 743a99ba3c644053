package hw

import (
	"errors"
	"testing"
)

func TestPowerUpState(t *testing.T) {
	c := NewCPU()

	checkState(t, c, "PC", 0x0200, "SP", 0, "I", 0)
	wantMem8(t, c, 0x0000, 0xf0) // first byte of the '0' glyph
	wantMem8(t, c, 0x004f, 0x80) // last byte of the 'F' glyph
	wantMem8(t, c, 0x0050, 0x00)
}

func TestLoadProgramSize(t *testing.T) {
	c := NewCPU()
	if err := c.LoadProgram(make([]byte, 3584)); err != nil {
		t.Fatalf("3584 bytes should fit: %s", err)
	}
	if err := c.LoadProgram(make([]byte, 3585)); err == nil {
		t.Fatal("3585 bytes should not fit")
	}
}

func TestFetchBigEndian(t *testing.T) {
	c := loadCPU(t, 0xB15A)
	wantMem8(t, c, 0x0200, 0xB1)
	wantMem8(t, c, 0x0201, 0x5A)
	if got := c.fetch(); got != 0xB15A {
		t.Errorf("got opcode %04X, want B15A", uint16(got))
	}
}

func TestFetchWrapsAroundRAM(t *testing.T) {
	c := NewCPU()
	c.RAM[0x0fff] = 0x12
	c.PC = 0x0fff

	// The low byte comes from RAM[0], the first byte of the font table.
	if got := c.fetch(); got != 0x12f0 {
		t.Errorf("got opcode %04X, want 12F0", uint16(got))
	}
}

func TestUnknownOpcode(t *testing.T) {
	c := loadCPU(t, 0x0022)

	err := c.Step()
	var oerr *OpcodeError
	if !errors.As(err, &oerr) {
		t.Fatalf("got error %v, want an OpcodeError", err)
	}
	if oerr.Opcode != 0x0022 || oerr.PC != 0x0200 {
		t.Errorf("got error %q, want opcode 0022 at 0200", oerr)
	}

	// A decode error must leave the machine untouched.
	checkState(t, c, "PC", 0x0200, "SP", 0)
	if c.Cycles != 0 {
		t.Errorf("got %d cycles, want 0", c.Cycles)
	}
}

func TestCallRet(t *testing.T) {
	c := loadCPU(t,
		0x2206, // 0200: CALL 0206
		0x0000,
		0x0000,
		0x00EE, // 0206: RET
	)

	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	checkState(t, c, "PC", 0x0206, "SP", 1)
	if got := c.Stack[1]; got != 0x0202 {
		t.Errorf("got return address $%04X, want $0202", got)
	}

	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	checkState(t, c, "PC", 0x0202, "SP", 0)
}

func TestStackDepth(t *testing.T) {
	// Each instruction calls the next one, going one level deeper every
	// step. SP indexes the last pushed entry and slot 0 is never used, so
	// the 16-slot stack takes 15 calls, and the 16th must fail.
	words := make([]uint16, 16)
	for i := range words {
		words[i] = 0x2000 | uint16(0x0202+2*i)
	}
	c := loadCPU(t, words...)

	for i := range 15 {
		if err := c.Step(); err != nil {
			t.Fatalf("call %d: %s", i+1, err)
		}
	}
	checkState(t, c, "SP", 15, "PC", 0x021E)

	err := c.Step()
	var serr *StackError
	if !errors.As(err, &serr) || !serr.Overflow {
		t.Fatalf("got error %v, want a stack overflow", err)
	}
	checkState(t, c, "SP", 15, "PC", 0x021E)
}

func TestRetOnEmptyStack(t *testing.T) {
	c := loadCPU(t, 0x00EE)

	err := c.Step()
	var serr *StackError
	if !errors.As(err, &serr) || serr.Overflow {
		t.Fatalf("got error %v, want a stack underflow", err)
	}
	checkState(t, c, "PC", 0x0200, "SP", 0)
}

func TestRunHaltsOnError(t *testing.T) {
	c := loadCPU(t,
		0x6011, // 0200: LD V0, 11
		0xFF4F, // 0202: (no such instruction)
	)

	c.Run(10)
	if !c.IsHalted() {
		t.Fatal("CPU should have halted")
	}
	checkState(t, c, "V0", 0x11, "PC", 0x0202)
	if c.Cycles != 1 {
		t.Errorf("got %d cycles, want 1", c.Cycles)
	}

	// Once halted, Run does not execute anything anymore.
	c.Run(10)
	checkState(t, c, "PC", 0x0202)
	if c.Cycles != 1 {
		t.Errorf("got %d cycles after halt, want 1", c.Cycles)
	}
}

func TestReset(t *testing.T) {
	c := loadCPU(t,
		0x6342, // 0200: LD V3, 42
		0xA123, // 0202: LD I, 123
	)
	c.Run(2)
	c.DT = 7
	c.Keys[4] = true

	c.Reset(false)
	checkState(t, c, "PC", 0x0200, "SP", 0, "V3", 0, "I", 0, "DT", 0)
	if c.Keys[4] {
		t.Error("keypad should have been cleared")
	}
	wantMem8(t, c, 0x0200, 0x63) // soft reset leaves RAM alone

	// A hard reset restores RAM from the program image.
	c.RAM[0x0200] = 0xAA
	c.Reset(true)
	wantMem8(t, c, 0x0200, 0x63)
	wantMem8(t, c, 0x0000, 0xf0)
}

func TestTickTimers(t *testing.T) {
	c := NewCPU()
	c.DT = 2
	c.ST = 1

	c.TickTimers()
	checkState(t, c, "DT", 1, "ST", 0)
	c.TickTimers()
	checkState(t, c, "DT", 0, "ST", 0)
	c.TickTimers()
	checkState(t, c, "DT", 0, "ST", 0)
}
