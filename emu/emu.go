package emu

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"sync/atomic"
	"time"

	"chiptor/emu/log"
	"chiptor/hw"
	"chiptor/hw/input"
	"chiptor/rom"
)

type Output interface {
	BeginFrame() hw.Frame
	EndFrame(hw.Frame)
	Poll() bool
	Close()
	Screenshot() *image.RGBA
}

type Config struct {
	Input     input.Config    `toml:"input"`
	Video     VideoConfig     `toml:"video"`
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

// DefaultScale is the default window scale factor. The 64x32 display becomes
// a 768x384 window.
const DefaultScale = 12

type VideoConfig struct {
	Scale        int   `toml:"scale"`
	DisableVSync bool  `toml:"disable_vsync"`
	Monitor      int32 `toml:"monitor"`
}

func (vcfg *VideoConfig) Check() {
	if vcfg.Scale <= 0 {
		vcfg.Scale = DefaultScale
	}
}

type AudioConfig struct {
	DisableAudio bool `toml:"disable_audio"`
}

type EmulationConfig struct {
	ClockHz int `toml:"clock_hz"`
}

type Emulator struct {
	Machine *Machine
	out     Output
	cfg     EmulationConfig

	// These are accessed concurrently by the emulator loop and the UI.
	quit    atomic.Bool
	paused  atomic.Bool
	reset   atomic.Bool
	restart atomic.Bool

	tmpdir string
}

// Launch starts the hardware subsystems, shows the window, sets up the audio
// stream and plugs input controls. It doesn't start the emulation loop, call
// Run() for that.
func Launch(rom *rom.ROM, cfg Config) (*Emulator, error) {
	m, err := powerUp(rom, cfg.Emulation)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %s", err)
	}

	// Output setup.
	cfg.Video.Check()
	out := hw.NewOutput(hw.OutputConfig{
		Width:          hw.ScreenWidth,
		Height:         hw.ScreenHeight,
		NumBackBuffers: 2,
		Title:          "Chiptor - " + rom.Name,
		ScaleFactor:    cfg.Video.Scale,
		DisableVSync:   cfg.Video.DisableVSync,
		Monitor:        cfg.Video.Monitor,
	})
	if err := out.EnableVideo(true); err != nil {
		return nil, err
	}

	if cfg.Audio.DisableAudio {
		log.ModEmu.WarnZ("Audio disabled").End()
	} else {
		if err := out.EnableAudio(true); err != nil {
			return nil, err
		}
		log.ModEmu.InfoZ("Audio enabled").End()
	}

	inprov := input.NewProvider(cfg.Input)
	m.PlugInput(inprov)
	out.NotifyDeviceEvents(input.Gamectrls.UpdateDevices)

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		m.CPU.SetTraceOutput(cfg.TraceOut)
	}

	e := &Emulator{
		Machine: m,
		out:     out,
		cfg:     cfg.Emulation,
	}
	out.OnHotkey(e.handleHotkey)
	return e, nil
}

func (e *Emulator) RunOneFrame() {
	frame := e.out.BeginFrame()
	e.Machine.RunOneFrame(frame)
	e.out.EndFrame(frame)
}

func (e *Emulator) loop() {
	for e.out.Poll() {
		// Handle pause.
		if e.isPaused() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else {
			e.RunOneFrame()
		}
		if e.shouldStop() {
			break
		}
		e.handleReset()
	}

	e.out.Close()
}

// RaiseWindow raises the emulator window above others and sets the input focus.
func (e *Emulator) RaiseWindow() {
	if hwout, ok := e.out.(*hw.Output); ok {
		hwout.FocusWindow()
	}
}

func (e *Emulator) Run() {
	e.loop()
	log.ModEmu.InfoZ("Emulation loop exited").End()

	if e.tmpdir != "" {
		e.save()
	}
}

func (e *Emulator) save() {
	path := filepath.Join(e.tmpdir, "screenshot.png")
	if err := hw.SaveAsPNG(e.out.Screenshot(), path); err != nil {
		log.ModEmu.WarnZ("Failed to save screenshot").String("path", path).End()
	}
}

// Screenshot returns the last presented frame. It is safe to call from any
// goroutine.
func (e *Emulator) Screenshot() *image.RGBA {
	return e.out.Screenshot()
}

func (e *Emulator) SetTempDir(path string) { e.tmpdir = path }

func (e *Emulator) handleHotkey(hk hw.Hotkey) {
	switch hk {
	case hw.HotkeyPause:
		e.TogglePause()
	case hw.HotkeyReset:
		e.Reset()
	case hw.HotkeyScreenshot:
		e.saveScreenshot()
	}
}

// saveScreenshot writes the last frame to a timestamped png in the current
// directory.
func (e *Emulator) saveScreenshot() {
	name := fmt.Sprintf("chiptor-%s.png", time.Now().Format("20060102-150405"))
	if err := hw.SaveAsPNG(e.out.Screenshot(), name); err != nil {
		log.ModEmu.WarnZ("Failed to save screenshot").String("path", name).Error("err", err).End()
		return
	}
	log.ModEmu.InfoZ("Saved screenshot").String("path", name).End()
}

// SetPause, TogglePause, Stop, Reset and Restart allow to control
// the emulator loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Restart()            { e.restart.Store(true) }
func (e *Emulator) Stop() {
	e.quit.Store(true)
}

func (e *Emulator) TogglePause() {
	if e.paused.CompareAndSwap(false, true) {
		log.ModEmu.InfoZ("Emulation paused").End()
		return
	}
	e.paused.Store(false)
	log.ModEmu.InfoZ("Emulation resumed").End()
}

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	return e.quit.Load() || e.Machine.CPU.IsHalted()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing soft reset").End()
		e.Machine.Reset(false)
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing hard reset").End()
		e.Machine.Reset(true)
	}
}
