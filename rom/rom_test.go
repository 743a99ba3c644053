package rom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFrom(t *testing.T) {
	data := []byte{0x12, 0x00, 0xAA}

	var rom ROM
	n, err := rom.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got n = %d, want 3", n)
	}
	if !bytes.Equal(rom.Data, data) {
		t.Errorf("got data %x, want %x", rom.Data, data)
	}
	if rom.CRC == 0 {
		t.Error("crc should have been computed")
	}
}

func TestReadFromLimits(t *testing.T) {
	var rom ROM
	if _, err := rom.ReadFrom(bytes.NewReader(nil)); err == nil {
		t.Error("empty image should be rejected")
	}
	if _, err := rom.ReadFrom(bytes.NewReader(make([]byte, MaxSize))); err != nil {
		t.Errorf("%d bytes should fit: %s", MaxSize, err)
	}
	if _, err := rom.ReadFrom(bytes.NewReader(make([]byte, MaxSize+1))); err == nil {
		t.Error("oversized image should be rejected")
	}
}

func TestReadROM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "octojam.ch8")
	data := []byte{0x00, 0xE0, 0x12, 0x00}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	rom, err := ReadROM(path)
	if err != nil {
		t.Fatal(err)
	}
	if rom.Name != "octojam" {
		t.Errorf("got name %q, want %q", rom.Name, "octojam")
	}
	if !bytes.Equal(rom.Data, data) {
		t.Errorf("got data %x, want %x", rom.Data, data)
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/roms/breakout.ch8", "breakout"},
		{"pong.bin", "pong"},
		{"noext", "noext"},
		{"/a/b.c/tetris.ch8", "tetris"},
	}
	for _, tt := range tests {
		if got := Name(tt.path); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPrintInfos(t *testing.T) {
	rom := &ROM{Name: "pong", Data: make([]byte, 246), CRC: 0x1234ABCD}

	var sb strings.Builder
	rom.PrintInfos(&sb)

	want := "name:  pong\nsize:  246 bytes\nspan:  0x200-0x2F5\ncrc32: 1234ABCD\n"
	if sb.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", sb.String(), want)
	}
}
