package input

import "github.com/veandco/go-sdl2/sdl"

// Config maps each of the 16 keypad keys to a physical control.
type Config struct {
	Keys [NumKeys]Code `toml:"keys"`
}

// DefaultKeys is the standard hexadecimal keypad layout, folded onto the left
// side of a QWERTY keyboard:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
func DefaultKeys() [NumKeys]Code {
	scancodes := map[Key]sdl.Scancode{
		K1: sdl.SCANCODE_1, K2: sdl.SCANCODE_2, K3: sdl.SCANCODE_3, KC: sdl.SCANCODE_4,
		K4: sdl.SCANCODE_Q, K5: sdl.SCANCODE_W, K6: sdl.SCANCODE_E, KD: sdl.SCANCODE_R,
		K7: sdl.SCANCODE_A, K8: sdl.SCANCODE_S, K9: sdl.SCANCODE_D, KE: sdl.SCANCODE_F,
		KA: sdl.SCANCODE_Z, K0: sdl.SCANCODE_X, KB: sdl.SCANCODE_C, KF: sdl.SCANCODE_V,
	}

	var keys [NumKeys]Code
	for k, sc := range scancodes {
		keys[k] = Code{Type: KeyboardCtrl, Scancode: sc}
	}
	return keys
}

// Init fills the keys left unbound by the configuration file with their
// default binding.
func (cfg *Config) Init() {
	def := DefaultKeys()
	for i, code := range cfg.Keys {
		if code.Type == ControlNotSet {
			cfg.Keys[i] = def[i]
		}
	}
}

// A Provider reads the state of the physical controls the keypad is mapped to.
type Provider struct {
	keystate []uint8

	cfg Config
}

func NewProvider(cfg Config) *Provider {
	var keystate []uint8
	sdl.Do(func() {
		keystate = sdl.GetKeyboardState()
		if Gamectrls == nil {
			Gamectrls = NewGameControllers()
		}
	})
	return &Provider{keystate: keystate, cfg: cfg}
}

func (p *Provider) pressed(code Code) bool {
	switch code.Type {
	case KeyboardCtrl:
		return p.keystate[code.Scancode] != 0
	case ButtonCtrl:
		if Gamectrls == nil {
			return false
		}
		if ctrl := Gamectrls.getByGUID(code.CtrlGUID); ctrl != nil {
			return ctrl.Button(code.CtrlButton) != 0
		}
	case AxisCtrl:
		if Gamectrls == nil {
			return false
		}
		if ctrl := Gamectrls.getByGUID(code.CtrlGUID); ctrl != nil {
			v := ctrl.Axis(code.CtrlAxis)
			if axissign(v) != code.CtrlAxisDir {
				return false
			}
			return v >= JoyAxisThreshold || v <= -JoyAxisThreshold
		}
	}
	return false
}

// State reports, for each keypad key, whether the control it is bound to is
// currently held down.
func (p *Provider) State() [NumKeys]bool {
	var keys [NumKeys]bool
	for k, code := range p.cfg.Keys {
		keys[k] = p.pressed(code)
	}
	return keys
}
