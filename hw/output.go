package hw

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"chiptor/emu/log"
)

// Device the buzzer queues its samples to, 0 while audio is disabled.
var audioDeviceID sdl.AudioDeviceID

// Pixel colors, RGBA.
var (
	pixelOn  = [4]uint8{0xff, 0xff, 0xff, 0xff}
	pixelOff = [4]uint8{0x00, 0x00, 0x00, 0xff}
)

// A Frame is the RGBA pixel buffer the emulator draws into, row-major,
// 4 bytes per pixel.
type Frame struct {
	Video []uint8
}

// Draw renders the monochrome framebuffer into the frame pixels.
func (f Frame) Draw(fb *FrameBuffer) {
	i := 0
	for y := range fb {
		for x := range fb[y] {
			px := &pixelOff
			if fb[y][x] != 0 {
				px = &pixelOn
			}
			copy(f.Video[i:i+4], px[:])
			i += 4
		}
	}
}

// A Hotkey is an emulation control shortcut caught by the event loop instead
// of being forwarded to the keypad.
type Hotkey uint8

const (
	HotkeyPause Hotkey = iota // F1
	HotkeyReset               // F5
	HotkeyScreenshot          // F12
)

type OutputConfig struct {
	Width          int
	Height         int
	ScaleFactor    int
	Title          string
	NumBackBuffers int

	DisableVSync bool
	Monitor      int32
}

// Output bundles what the emulator presents to the user: the video window
// and the audio device.
type Output struct {
	cfg OutputConfig
	win *window

	framebufs [][]uint8
	fbcur     int

	mu   sync.Mutex
	last []uint8 // copy of the last presented frame

	hotkeyfn func(Hotkey)
	devfn    func(sdl.ControllerDeviceEvent)
}

func NewOutput(cfg OutputConfig) *Output {
	if cfg.NumBackBuffers == 0 {
		cfg.NumBackBuffers = 2
	}
	nbytes := cfg.Width * cfg.Height * 4
	fbs := make([][]uint8, cfg.NumBackBuffers)
	for i := range fbs {
		fbs[i] = make([]uint8, nbytes)
	}
	return &Output{
		cfg:       cfg,
		framebufs: fbs,
		last:      make([]uint8, nbytes),
	}
}

// EnableVideo creates or destroys the video window.
func (o *Output) EnableVideo(enable bool) error {
	if enable == (o.win != nil) {
		return nil
	}
	if enable {
		win, err := newWindow(o.cfg)
		if err != nil {
			return err
		}
		o.win = win
		return nil
	}
	err := o.win.Close()
	o.win = nil
	return err
}

// EnableAudio opens or closes the audio device the buzzer queues to.
func (o *Output) EnableAudio(enable bool) error {
	if enable == (audioDeviceID != 0) {
		return nil
	}
	if enable {
		if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			return fmt.Errorf("failed to initialize SDL audio: %s", err)
		}
		spec := &sdl.AudioSpec{
			Freq:     AudioSampleRate,
			Format:   AudioFormat,
			Channels: AudioChannels,
			Samples:  AudioBufferSize,
		}
		dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
		if err != nil {
			return fmt.Errorf("failed to open audio device: %s", err)
		}
		audioDeviceID = dev
		sdl.PauseAudioDevice(dev, false)
		return nil
	}
	sdl.CloseAudioDevice(audioDeviceID)
	audioDeviceID = 0
	return nil
}

// OnHotkey sets the function called when the user hits an emulation shortcut.
func (o *Output) OnHotkey(fn func(Hotkey)) {
	o.hotkeyfn = fn
}

// NotifyDeviceEvents sets the function receiving controller plug/unplug
// events caught by Poll.
func (o *Output) NotifyDeviceEvents(fn func(sdl.ControllerDeviceEvent)) {
	o.devfn = fn
}

// BeginFrame returns the next frame to draw into.
func (o *Output) BeginFrame() Frame {
	o.fbcur = (o.fbcur + 1) % len(o.framebufs)
	return Frame{Video: o.framebufs[o.fbcur]}
}

// EndFrame presents a frame previously obtained with BeginFrame.
func (o *Output) EndFrame(f Frame) {
	if o.win != nil {
		o.win.render(f.Video)
	}

	o.mu.Lock()
	copy(o.last, f.Video)
	o.mu.Unlock()
}

// Poll pumps pending SDL events. It reports whether the emulation should
// carry on, that is until the window is closed or Escape is pressed.
func (o *Output) Poll() bool {
	quit := false
	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case sdl.QuitEvent:
				quit = true

			case sdl.KeyboardEvent:
				if e.State != sdl.PRESSED || e.Repeat != 0 {
					continue
				}
				switch e.Keysym.Scancode {
				case sdl.SCANCODE_ESCAPE:
					quit = true
				case sdl.SCANCODE_F1:
					o.hotkey(HotkeyPause)
				case sdl.SCANCODE_F5:
					o.hotkey(HotkeyReset)
				case sdl.SCANCODE_F12:
					o.hotkey(HotkeyScreenshot)
				}

			case sdl.ControllerDeviceEvent:
				if o.devfn != nil {
					o.devfn(e)
				}
			}
		}
	})
	return !quit
}

func (o *Output) hotkey(hk Hotkey) {
	if o.hotkeyfn != nil {
		o.hotkeyfn(hk)
	}
}

// Screenshot returns a copy of the last presented frame. It is safe to call
// from any goroutine.
func (o *Output) Screenshot() *image.RGBA {
	o.mu.Lock()
	defer o.mu.Unlock()
	return FramebufImage(o.last, o.cfg.Width, o.cfg.Height)
}

// FocusWindow raises the emulator window above the others and gives it input
// focus.
func (o *Output) FocusWindow() {
	if o.win == nil {
		return
	}
	sdl.Do(func() { o.win.Raise() })
}

func (o *Output) Close() {
	if audioDeviceID != 0 {
		sdl.CloseAudioDevice(audioDeviceID)
		audioDeviceID = 0
	}
	if o.win != nil {
		if err := o.win.Close(); err != nil {
			log.ModVideo.WarnZ("error closing window").Error("err", err).End()
		}
		o.win = nil
	}
}

// FramebufImage copies a raw RGBA frame into an image.
func FramebufImage(video []uint8, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, video)
	return img
}

// SaveAsPNG writes img at path, in PNG format.
func SaveAsPNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
