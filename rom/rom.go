// Package rom loads CHIP-8 program images. Those are distributed as raw
// binary files, without header or metadata: the whole file is copied at
// the interpreter load address.
package rom

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize is the largest program image that fits in the interpreter RAM:
// 4096 bytes minus the 512 reserved below the load address.
const MaxSize = 4096 - LoadAddr

type ROM struct {
	Name string // base file name, without extension
	Data []byte
	CRC  uint32 // IEEE CRC-32 of Data, identifies the image
}

// ReadROM loads a program image from a file.
func ReadROM(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := &ROM{Name: Name(path)}
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// Name derives a display name from a ROM path.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFrom implements the io.ReaderFrom interface.
func (rom *ROM) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, fmt.Errorf("empty rom")
	}
	if len(buf) > MaxSize {
		return 0, fmt.Errorf("rom too large: %d bytes (maximum is %d)", len(buf), MaxSize)
	}

	rom.Data = buf
	rom.CRC = crc32.ChecksumIEEE(buf)
	return int64(len(buf)), nil
}

// LoadAddr is the address programs are loaded at, and start executing from.
const LoadAddr = 0x200

// PrintInfos writes a short description of the ROM.
func (rom *ROM) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "name:  %s\n", rom.Name)
	fmt.Fprintf(w, "size:  %d bytes\n", len(rom.Data))
	fmt.Fprintf(w, "span:  0x%03X-0x%03X\n", LoadAddr, LoadAddr+len(rom.Data)-1)
	fmt.Fprintf(w, "crc32: %08X\n", rom.CRC)
}
