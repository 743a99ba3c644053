package input

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"chiptor/emu/log"
	"chiptor/hw"
)

const (
	captureWinW = 400
	captureWinH = 300
)

// StartCapture opens a small window on the given monitor and waits for the
// next keyboard key, controller button or axis press, then returns the Code
// identifying it. The zero Code is returned if the user cancels with Escape
// or by closing the window.
//
// It runs in its own process (the "capture" command) so that grabbing
// exclusive keyboard focus cannot wedge the main interface.
func StartCapture(monitor int32, key Key) (Code, error) {
	var code Code

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_GAMECONTROLLER); err != nil {
		return code, fmt.Errorf("failed to initialize SDL: %s", err)
	}
	defer sdl.Quit()

	title := fmt.Sprintf("Press a key or button for %s (Esc cancels)", key)
	pos := int32(sdl.WINDOWPOS_CENTERED_MASK) | monitor
	win, err := sdl.CreateWindow(title, pos, pos,
		captureWinW, captureWinH, sdl.WINDOW_SHOWN)
	if err != nil {
		return code, fmt.Errorf("failed to create window: %s", err)
	}
	defer win.Destroy()

	renderer, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return code, fmt.Errorf("failed to create renderer: %s", err)
	}
	defer renderer.Destroy()

	gamectrls := NewGameControllers()
	defer gamectrls.Close()

	// Drain the events queue before starting. This removes previous events
	// which could have been generated during the release of a joystick
	// trigger for example.
	drainEvents(200 * time.Millisecond)

pollLoop:
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case sdl.QuitEvent:
				break pollLoop

			case sdl.KeyboardEvent:
				if e.State == sdl.PRESSED {
					if e.Keysym.Scancode != sdl.SCANCODE_ESCAPE {
						code.Type = KeyboardCtrl
						code.Scancode = e.Keysym.Scancode
					}
					break pollLoop
				}

			case sdl.ControllerDeviceEvent:
				gamectrls.UpdateDevices(e)

			case sdl.ControllerButtonEvent:
				ctrl := gamectrls.Get(e.Which)
				if ctrl == nil {
					log.ModInput.Fatalf("controller %d not found", e.Which)
				}
				if e.Type == sdl.CONTROLLERBUTTONDOWN {
					code.Type = ButtonCtrl
					code.CtrlButton = sdl.GameControllerButton(e.Button)
					code.CtrlGUID = sdl.JoystickGetGUIDString(ctrl.Joystick().GUID())
					break pollLoop
				}

			case sdl.ControllerAxisEvent:
				ctrl := gamectrls.Get(e.Which)
				if ctrl == nil {
					log.ModInput.Fatalf("controller %d not found", e.Which)
				}
				if e.Value < -JoyAxisThreshold || e.Value > JoyAxisThreshold {
					code.Type = AxisCtrl
					code.CtrlAxis = sdl.GameControllerAxis(e.Axis)
					code.CtrlAxisDir = axissign(e.Value)
					code.CtrlGUID = sdl.JoystickGetGUIDString(ctrl.Joystick().GUID())
					break pollLoop
				}
			}
		}

		renderer.SetDrawColor(0, 0, 0, 255)
		renderer.Clear()
		drawKeyGlyph(renderer, key)
		renderer.Present()
		sdl.Delay(16)
	}

	return code, nil
}

// drawKeyGlyph paints the keypad digit being remapped, scaled up from its
// 4x5 font sprite.
func drawKeyGlyph(renderer *sdl.Renderer, key Key) {
	const px = 28
	glyph := hw.FontGlyph(uint8(key))

	x0 := int32((captureWinW - 4*px) / 2)
	y0 := int32((captureWinH - len(glyph)*px) / 2)

	renderer.SetDrawColor(255, 255, 255, 255)
	for row, bits := range glyph {
		for col := range 4 {
			if bits&(0x80>>col) == 0 {
				continue
			}
			renderer.FillRect(&sdl.Rect{
				X: x0 + int32(col)*px,
				Y: y0 + int32(row)*px,
				W: px, H: px,
			})
		}
	}
}

// Drain the events queue before starting. Since some joystick axes are noisy,
// wait just long enough to drain 'actual' events, like the ones generated
// when releasing a joystick trigger.
func drainEvents(maxwait time.Duration) {
	deadline := time.Now().Add(maxwait)
	for {
		if event := sdl.PollEvent(); event == nil {
			break
		}
		if time.Now().After(deadline) {
			break
		}
	}
}
