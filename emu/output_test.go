package emu

import (
	"image"
	"math"

	"chiptor/hw"
)

type TestingOutputConfig struct {
	// Framebuffer dimensions, defaulting to the display size.
	Width, Height int

	// MaxFrames makes Poll report false once that many frames have been
	// presented. Leave to 0 to let the emulator run indefinitely.
	MaxFrames int
}

// TestingOutput is a headless Output keeping the last presented frame in
// memory.
type TestingOutput struct {
	framebuf     []uint8
	framecounter int

	cfg TestingOutputConfig
}

func newTestingOutput(cfg TestingOutputConfig) *TestingOutput {
	if cfg.Width == 0 {
		cfg.Width = hw.ScreenWidth
	}
	if cfg.Height == 0 {
		cfg.Height = hw.ScreenHeight
	}
	if cfg.MaxFrames == 0 {
		cfg.MaxFrames = math.MaxInt
	}
	return &TestingOutput{
		framebuf: make([]uint8, cfg.Width*cfg.Height*4),
		cfg:      cfg,
	}
}

func (to *TestingOutput) Close() {}

func (to *TestingOutput) BeginFrame() hw.Frame {
	return hw.Frame{Video: to.framebuf}
}

func (to *TestingOutput) EndFrame(hw.Frame) {
	to.framecounter++
}

func (to *TestingOutput) Poll() bool {
	return to.framecounter < to.cfg.MaxFrames
}

func (to *TestingOutput) Screenshot() *image.RGBA {
	return hw.FramebufImage(to.framebuf, to.cfg.Width, to.cfg.Height)
}

// Blank reports whether all display pixels are off.
func (to *TestingOutput) Blank() bool {
	for i := 0; i < len(to.framebuf); i += 4 {
		if to.framebuf[i] != 0 {
			return false
		}
	}
	return true
}
