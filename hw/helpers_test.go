package hw

import (
	"strconv"
	"testing"
)

/* cpu specific testing helpers */

// loadCPU creates a CPU with the given instruction words assembled at the
// load address.
func loadCPU(tb testing.TB, words ...uint16) *CPU {
	tb.Helper()

	prog := make([]byte, 0, 2*len(words))
	for _, w := range words {
		prog = append(prog, byte(w>>8), byte(w))
	}
	c := NewCPU()
	if err := c.LoadProgram(prog); err != nil {
		tb.Fatalf("load program: %s", err)
	}
	return c
}

func wantMem8(t *testing.T, c *CPU, addr uint16, want uint8) {
	t.Helper()

	if got := c.RAM[addr]; got != want {
		t.Errorf("RAM[$%04X] = $%02X, want $%02X", addr, got, want)
	}
}

// runAndCheckState executes ninstrs instructions then compares the named
// registers with their wanted values.
func runAndCheckState(t *testing.T, cpu *CPU, ninstrs int, states ...any) {
	t.Helper()

	cpu.Run(ninstrs)
	checkState(t, cpu, states...)
}

func checkState(t *testing.T, cpu *CPU, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	checkuint8 := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}
	checkuint16 := func(name string, got, want uint16) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%04X, want $%04X", name, got, want)
		}
	}

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		switch {
		case s == "PC":
			checkuint16("PC", cpu.PC, uint16(states[i+1].(int)))
		case s == "I":
			checkuint16("I", cpu.I, uint16(states[i+1].(int)))
		case s == "SP":
			checkuint8("SP", cpu.SP, uint8(states[i+1].(int)))
		case s == "DT":
			checkuint8("DT", cpu.DT, uint8(states[i+1].(int)))
		case s == "ST":
			checkuint8("ST", cpu.ST, uint8(states[i+1].(int)))
		case len(s) == 2 && s[0] == 'V':
			x, err := strconv.ParseUint(s[1:], 16, 4)
			if err != nil {
				panic("unknown register: " + s)
			}
			checkuint8(s, cpu.V[x], uint8(states[i+1].(int)))
		default:
			panic("unknown state: " + s)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}
