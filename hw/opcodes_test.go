package hw

import (
	"errors"
	"testing"
)

func TestStrictDecode(t *testing.T) {
	// Patterns close to valid instructions but matching none.
	for _, op := range []uint16{0x0000, 0x0022, 0x00E1, 0x5121, 0x8128, 0x9001, 0xE19F, 0xF14C} {
		c := loadCPU(t, op)
		err := c.Step()
		var oerr *OpcodeError
		if !errors.As(err, &oerr) {
			t.Errorf("opcode %04X: got error %v, want an OpcodeError", op, err)
		}
	}
}

func TestCLS(t *testing.T) {
	c := loadCPU(t, 0x00E0)
	c.FB[5][12] = 1

	runAndCheckState(t, c, 1, "PC", 0x0202)
	if c.FB != (FrameBuffer{}) {
		t.Error("display should be blank")
	}
}

func TestJumps(t *testing.T) {
	t.Run("absolute", func(t *testing.T) {
		c := loadCPU(t, 0x1234)
		runAndCheckState(t, c, 1, "PC", 0x0234)
	})
	t.Run("V0 relative", func(t *testing.T) {
		c := loadCPU(t, 0xB300)
		c.V[0] = 0x15
		runAndCheckState(t, c, 1, "PC", 0x0315)
	})
}

func TestConditionalSkips(t *testing.T) {
	tests := []struct {
		name   string
		op     uint16
		v1, v2 uint8
		wantPC int
	}{
		{"SE taken", 0x3142, 0x42, 0x00, 0x0204},
		{"SE not taken", 0x3142, 0x41, 0x00, 0x0202},
		{"SNE taken", 0x4142, 0x41, 0x00, 0x0204},
		{"SNE not taken", 0x4142, 0x42, 0x00, 0x0202},
		{"SE reg taken", 0x5120, 0x33, 0x33, 0x0204},
		{"SE reg not taken", 0x5120, 0x33, 0x44, 0x0202},
		{"SNE reg taken", 0x9120, 0x33, 0x44, 0x0204},
		{"SNE reg not taken", 0x9120, 0x33, 0x33, 0x0202},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadCPU(t, tt.op)
			c.V[1] = tt.v1
			c.V[2] = tt.v2
			runAndCheckState(t, c, 1, "PC", tt.wantPC)
		})
	}
}

func TestLoadsAndImmediates(t *testing.T) {
	c := loadCPU(t,
		0x6142, // 0200: LD V1, 42
		0x7103, // 0202: ADD V1, 03
		0x8210, // 0204: LD V2, V1
		0xA123, // 0206: LD I, 123
	)
	runAndCheckState(t, c, 4,
		"V1", 0x45,
		"V2", 0x45,
		"I", 0x0123,
		"VF", 0,
		"PC", 0x0208,
	)
}

func TestADDImmediateWraps(t *testing.T) {
	// 7xkk wraps around without touching the flag.
	c := loadCPU(t, 0x71FF)
	c.V[1] = 0x02
	runAndCheckState(t, c, 1, "V1", 0x01, "VF", 0)
}

func TestBitwise(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
		want int
	}{
		{"OR", 0x8121, 0xF5},
		{"AND", 0x8122, 0xA0},
		{"XOR", 0x8123, 0x55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadCPU(t, tt.op)
			c.V[1] = 0xF0
			c.V[2] = 0xA5
			runAndCheckState(t, c, 1, "V1", tt.want, "V2", 0xA5)
		})
	}
}

func TestADDCarry(t *testing.T) {
	t.Run("FF + 02", func(t *testing.T) {
		c := loadCPU(t, 0x8124) // ADD V1, V2
		c.V[1] = 0xFF
		c.V[2] = 0x02
		runAndCheckState(t, c, 1, "V1", 0x01, "VF", 1)
	})
	t.Run("01 + 02", func(t *testing.T) {
		c := loadCPU(t, 0x8124)
		c.V[1] = 0x01
		c.V[2] = 0x02
		runAndCheckState(t, c, 1, "V1", 0x03, "VF", 0)
	})
	t.Run("flag written last", func(t *testing.T) {
		// With x = F, the carry overwrites the sum.
		c := loadCPU(t, 0x8F14) // ADD VF, V1
		c.V[0xF] = 0xFF
		c.V[1] = 0x02
		runAndCheckState(t, c, 1, "VF", 1)
	})
}

func TestSUBBorrow(t *testing.T) {
	t.Run("01 - 02", func(t *testing.T) {
		c := loadCPU(t, 0x8125) // SUB V1, V2
		c.V[1] = 0x01
		c.V[2] = 0x02
		runAndCheckState(t, c, 1, "V1", 0xFF, "VF", 1)
	})
	t.Run("05 - 02", func(t *testing.T) {
		c := loadCPU(t, 0x8125)
		c.V[1] = 0x05
		c.V[2] = 0x02
		runAndCheckState(t, c, 1, "V1", 0x03, "VF", 0)
	})
	t.Run("equal operands", func(t *testing.T) {
		c := loadCPU(t, 0x8125)
		c.V[1] = 0x42
		c.V[2] = 0x42
		runAndCheckState(t, c, 1, "V1", 0x00, "VF", 0)
	})
}

func TestSUBNBorrow(t *testing.T) {
	t.Run("01 - 02", func(t *testing.T) {
		c := loadCPU(t, 0x8127) // SUBN V1, V2 computes V2 - V1
		c.V[1] = 0x02
		c.V[2] = 0x01
		runAndCheckState(t, c, 1, "V1", 0xFF, "VF", 1)
	})
	t.Run("07 - 02", func(t *testing.T) {
		c := loadCPU(t, 0x8127)
		c.V[1] = 0x02
		c.V[2] = 0x07
		runAndCheckState(t, c, 1, "V1", 0x05, "VF", 0)
	})
}

func TestShifts(t *testing.T) {
	t.Run("SHR odd", func(t *testing.T) {
		c := loadCPU(t, 0x8106) // SHR V1
		c.V[1] = 0x05
		runAndCheckState(t, c, 1, "V1", 0x02, "VF", 1)
	})
	t.Run("SHR even", func(t *testing.T) {
		c := loadCPU(t, 0x8106)
		c.V[1] = 0x04
		runAndCheckState(t, c, 1, "V1", 0x02, "VF", 0)
	})
	t.Run("SHL high bit set", func(t *testing.T) {
		c := loadCPU(t, 0x810E) // SHL V1
		c.V[1] = 0b10000001
		runAndCheckState(t, c, 1, "V1", 0b00000010, "VF", 1)
	})
	t.Run("SHL high bit clear", func(t *testing.T) {
		c := loadCPU(t, 0x810E)
		c.V[1] = 0b01000001
		runAndCheckState(t, c, 1, "V1", 0b10000010, "VF", 0)
	})
	t.Run("y operand ignored", func(t *testing.T) {
		c := loadCPU(t, 0x8126) // SHR V1, with y = 2 decoded but unused
		c.V[1] = 0x08
		c.V[2] = 0xFF
		runAndCheckState(t, c, 1, "V1", 0x04, "V2", 0xFF, "VF", 0)
	})
}

func TestRNDMasks(t *testing.T) {
	c := loadCPU(t, 0xC10F)
	c.randByte = func() uint8 { return 0xAB }
	runAndCheckState(t, c, 1, "V1", 0x0B)
}

func TestDraw(t *testing.T) {
	t.Run("font glyph", func(t *testing.T) {
		c := loadCPU(t, 0xD125) // DRW V1, V2, 5
		c.V[1] = 3
		c.V[2] = 4
		c.I = 0 // the '0' glyph of the font table
		runAndCheckState(t, c, 1, "VF", 0, "PC", 0x0202)

		// 0xF0: four lit pixels on the glyph top row.
		want := []uint8{1, 1, 1, 1, 0, 0, 0, 0}
		for i, w := range want {
			if got := c.FB[4][3+i]; got != w {
				t.Errorf("FB[4][%d] = %d, want %d", 3+i, got, w)
			}
		}
		// 0x90: only the outer pixels on the second row.
		want = []uint8{1, 0, 0, 1, 0, 0, 0, 0}
		for i, w := range want {
			if got := c.FB[5][3+i]; got != w {
				t.Errorf("FB[5][%d] = %d, want %d", 3+i, got, w)
			}
		}
	})

	t.Run("collision", func(t *testing.T) {
		c := loadCPU(t, 0xD121, 0xD121) // draw the same sprite twice
		c.I = 0x0300
		c.RAM[0x0300] = 0x80 // a single pixel

		runAndCheckState(t, c, 1, "VF", 0)
		if c.FB[0][0] != 1 {
			t.Error("pixel (0,0) should be lit")
		}

		// The second draw erases the pixel and reports the collision.
		runAndCheckState(t, c, 1, "VF", 1)
		if c.FB[0][0] != 0 {
			t.Error("pixel (0,0) should have been erased")
		}
	})

	t.Run("wraparound", func(t *testing.T) {
		c := loadCPU(t, 0xD122)
		c.V[1] = 62 // two pixels off the right edge
		c.V[2] = 31 // bottom row
		c.I = 0x0300
		c.RAM[0x0300] = 0xC0
		c.RAM[0x0301] = 0x30

		runAndCheckState(t, c, 1, "VF", 0)
		for _, px := range []struct{ y, x int }{
			{31, 62}, {31, 63}, // first sprite row, at the corner
			{0, 0}, {0, 1}, // second row wraps on both axes
		} {
			if c.FB[px.y][px.x] != 1 {
				t.Errorf("pixel (%d,%d) should be lit", px.x, px.y)
			}
		}
	})

	t.Run("coordinates wrap", func(t *testing.T) {
		c := loadCPU(t, 0xD121)
		c.V[1] = 70 // 70 % 64 = 6
		c.V[2] = 35 // 35 % 32 = 3
		c.I = 0x0300
		c.RAM[0x0300] = 0x80

		runAndCheckState(t, c, 1, "VF", 0)
		if c.FB[3][6] != 1 {
			t.Error("pixel (6,3) should be lit")
		}
	})
}

func TestKeypadSkips(t *testing.T) {
	t.Run("SKP key down", func(t *testing.T) {
		c := loadCPU(t, 0xE19E)
		c.V[1] = 0x0A
		c.Keys[0xA] = true
		runAndCheckState(t, c, 1, "PC", 0x0204)
	})
	t.Run("SKP key up", func(t *testing.T) {
		c := loadCPU(t, 0xE19E)
		c.V[1] = 0x0A
		runAndCheckState(t, c, 1, "PC", 0x0202)
	})
	t.Run("SKNP key down", func(t *testing.T) {
		c := loadCPU(t, 0xE1A1)
		c.V[1] = 0x0A
		c.Keys[0xA] = true
		runAndCheckState(t, c, 1, "PC", 0x0202)
	})
	t.Run("SKNP key up", func(t *testing.T) {
		c := loadCPU(t, 0xE1A1)
		c.V[1] = 0x0A
		runAndCheckState(t, c, 1, "PC", 0x0204)
	})
	t.Run("key index masked", func(t *testing.T) {
		c := loadCPU(t, 0xE19E)
		c.V[1] = 0x1A // only the low nibble selects the key
		c.Keys[0xA] = true
		runAndCheckState(t, c, 1, "PC", 0x0204)
	})
}

func TestWaitKey(t *testing.T) {
	c := loadCPU(t, 0xF10A)

	// No key down: the instruction replays itself.
	for range 3 {
		if err := c.Step(); err != nil {
			t.Fatal(err)
		}
		checkState(t, c, "PC", 0x0200)
	}

	// Lowest key index wins when several keys are down.
	c.Keys[0x7] = true
	c.Keys[0x9] = true
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	checkState(t, c, "PC", 0x0202, "V1", 0x07)
}

func TestTimerInstructions(t *testing.T) {
	// Execution never ticks the timers, so DT still holds its value when
	// read back.
	c := loadCPU(t,
		0x6130, // 0200: LD V1, 30
		0xF115, // 0202: LD DT, V1
		0xF118, // 0204: LD ST, V1
		0xF207, // 0206: LD V2, DT
	)
	runAndCheckState(t, c, 4, "DT", 0x30, "ST", 0x30, "V2", 0x30)
}

func TestIRegisterOps(t *testing.T) {
	t.Run("ADD I, Vx", func(t *testing.T) {
		c := loadCPU(t, 0xF11E)
		c.I = 0x0FFF
		c.V[1] = 0x02
		runAndCheckState(t, c, 1, "I", 0x1001, "VF", 0)
	})
	t.Run("font address", func(t *testing.T) {
		c := loadCPU(t, 0xF129)
		c.V[1] = 0x0A
		runAndCheckState(t, c, 1, "I", 50) // glyphs are 5 bytes each
	})
}

func TestBCD(t *testing.T) {
	tests := []struct {
		val                  uint8
		hundreds, tens, ones uint8
	}{
		{234, 2, 3, 4},
		{48, 0, 4, 8},
		{7, 0, 0, 7},
		{0, 0, 0, 0},
		{255, 2, 5, 5},
	}
	for _, tt := range tests {
		c := loadCPU(t, 0xF133)
		c.V[1] = tt.val
		c.I = 0x0300

		if err := c.Step(); err != nil {
			t.Fatal(err)
		}
		wantMem8(t, c, 0x0300, tt.hundreds)
		wantMem8(t, c, 0x0301, tt.tens)
		wantMem8(t, c, 0x0302, tt.ones)
	}
}

func TestRegisterSaveRestore(t *testing.T) {
	c := loadCPU(t,
		0xF255, // 0200: LD [I], V0..V2
		0xF465, // 0202: LD V0..V4, [I]
	)
	c.I = 0x0300
	c.V[0] = 0x11
	c.V[1] = 0x22
	c.V[2] = 0x33
	c.V[3] = 0x44 // not stored, x is 2

	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	wantMem8(t, c, 0x0300, 0x11)
	wantMem8(t, c, 0x0301, 0x22)
	wantMem8(t, c, 0x0302, 0x33)
	wantMem8(t, c, 0x0303, 0x00)
	checkState(t, c, "I", 0x0300)

	// Scribble over the registers, then restore V0..V4 from RAM.
	c.V = [16]uint8{}
	c.RAM[0x0303] = 0x99
	c.RAM[0x0304] = 0xAA
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	checkState(t, c,
		"V0", 0x11,
		"V1", 0x22,
		"V2", 0x33,
		"V3", 0x99,
		"V4", 0xAA,
		"I", 0x0300,
	)
}

func TestCountdownLoop(t *testing.T) {
	// V0 accumulates V1 while V1 counts down from 5.
	c := loadCPU(t,
		0x6105, // 0200: LD V1, 5
		0x8014, // 0202: ADD V0, V1
		0x71FF, // 0204: ADD V1, -1
		0x3100, // 0206: SE V1, 0
		0x1202, // 0208: JP 0202
	)
	runAndCheckState(t, c, 20,
		"V0", 0x0F, // 5+4+3+2+1
		"V1", 0x00,
		"VF", 0,
		"PC", 0x020A,
	)
	if c.Cycles != 20 {
		t.Errorf("got %d cycles, want 20", c.Cycles)
	}
}
