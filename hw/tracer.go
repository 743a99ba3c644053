package hw

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	V      [16]uint8
	I      uint16
	PC     uint16
	Opcode uint16
	SP     uint8
	DT     uint8
	ST     uint8

	Clock int64
}

type tracer struct {
	w io.Writer
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// write the execution trace for current cycle.
func (t *tracer) write(state cpuState) {
	const totalLen = 86
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(state.PC>>8))
	hexEncode(buf[2:], byte(state.PC))
	buf[4] = ' '
	buf[5] = ' '

	hexEncode(buf[6:], byte(state.Opcode>>8))
	hexEncode(buf[8:], byte(state.Opcode))
	buf[10] = ' '
	buf[11] = ' '

	off := 12
	off += copy(buf[off:], "V:")
	for i := range state.V {
		hexEncode(buf[off:], state.V[i])
		buf[off+2] = ' '
		off += 3
	}

	off += copy(buf[off:], "I:")
	hexEncode(buf[off:], byte(state.I>>8))
	hexEncode(buf[off+2:], byte(state.I))
	off += 4
	buf[off] = ' '
	off++

	off += copy(buf[off:], "SP:")
	hexEncode(buf[off:], state.SP)
	off += 2
	buf[off] = ' '
	off++

	off += copy(buf[off:], "DT:")
	hexEncode(buf[off:], state.DT)
	off += 2
	buf[off] = ' '
	off++

	off += copy(buf[off:], "ST:")
	hexEncode(buf[off:], state.ST)
	off += 2

	buf = fmt.Appendf(buf[:off], "  %d\n", state.Clock)
	t.w.Write(buf)
}
