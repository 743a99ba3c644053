package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

type ControlType uint8

const (
	ControlNotSet ControlType = iota
	KeyboardCtrl
	ButtonCtrl
	AxisCtrl
)

func (t ControlType) String() string {
	switch t {
	case KeyboardCtrl:
		return "key"
	case ButtonCtrl:
		return "joy button"
	case AxisCtrl:
		return "joy axis"
	}
	return "not set"
}

// A Code identifies one physical control a keypad key can be bound to: a
// keyboard key, a game controller button, or one half of a controller axis.
// Only the fields relevant to Type are meaningful.
type Code struct {
	Scancode sdl.Scancode

	CtrlGUID    string
	CtrlButton  sdl.GameControllerButton
	CtrlAxis    sdl.GameControllerAxis
	CtrlAxisDir int16

	Type ControlType
}

// Name returns an user-friendly name for the control.
func (c Code) Name() string {
	switch c.Type {
	case KeyboardCtrl:
		return sdl.GetScancodeName(c.Scancode)
	case ButtonCtrl:
		return sdl.GameControllerGetStringForButton(c.CtrlButton)
	case AxisCtrl:
		dir := "+"
		if c.CtrlAxisDir < 0 {
			dir = "-"
		}
		return sdl.GameControllerGetStringForAxis(c.CtrlAxis) + dir
	}
	return ""
}

// MarshalText encodes the code in the form it has in configuration files:
// "key <scancode>", "joybtn <button> <guid>" or "joyaxis <axis><dir> <guid>".
// An unset code encodes to the empty string.
func (c Code) MarshalText() ([]byte, error) {
	switch c.Type {
	case KeyboardCtrl:
		return []byte("key " + c.Name()), nil
	case ButtonCtrl:
		return []byte("joybtn " + c.Name() + " " + c.CtrlGUID), nil
	case AxisCtrl:
		return []byte("joyaxis " + c.Name() + " " + c.CtrlGUID), nil
	}
	return nil, nil
}

func (c *Code) UnmarshalText(text []byte) error {
	fields := strings.Fields(string(text))
	if len(fields) == 0 {
		c.Type = ControlNotSet
		return nil
	}

	switch fields[0] {
	case "key":
		if len(fields) < 2 {
			return fmt.Errorf("malformed key code: %q", text)
		}
		// scancode names may contain spaces ("Left Shift", "Keypad 1").
		name := strings.Join(fields[1:], " ")
		c.Scancode = sdl.GetScancodeFromName(name)
		if c.Scancode == sdl.SCANCODE_UNKNOWN {
			return fmt.Errorf("unrecognized scancode %q", name)
		}
		c.Type = KeyboardCtrl

	case "joybtn":
		if len(fields) != 3 {
			return fmt.Errorf("malformed joybtn code: %q", text)
		}
		c.CtrlButton = sdl.GameControllerGetButtonFromString(fields[1])
		if c.CtrlButton == sdl.CONTROLLER_BUTTON_INVALID {
			return fmt.Errorf("unrecognized button %q", fields[1])
		}
		c.CtrlGUID = fields[2]
		c.Type = ButtonCtrl

	case "joyaxis":
		if len(fields) != 3 {
			return fmt.Errorf("malformed joyaxis code: %q", text)
		}
		name := fields[1]
		switch {
		case strings.HasSuffix(name, "+"):
			c.CtrlAxisDir = 1
		case strings.HasSuffix(name, "-"):
			c.CtrlAxisDir = -1
		default:
			return fmt.Errorf("missing axis direction in %q", name)
		}
		c.CtrlAxis = sdl.GameControllerGetAxisFromString(name[:len(name)-1])
		if c.CtrlAxis == sdl.CONTROLLER_AXIS_INVALID {
			return fmt.Errorf("unrecognized axis %q", name)
		}
		c.CtrlGUID = fields[2]
		c.Type = AxisCtrl

	default:
		return fmt.Errorf("unrecognized input code: %q", text)
	}

	return nil
}
