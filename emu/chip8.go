package emu

import (
	"chiptor/hw"
	"chiptor/hw/input"
	"chiptor/rom"
)

// FrameRate is the display refresh and timer tick rate, in frames per second.
const FrameRate = 60

// DefaultClockHz is the default CPU instruction rate, 12 instructions per
// frame. Most classic programs are tuned for a rate in that ballpark.
const DefaultClockHz = 720

// A Machine is the virtual console as a whole: the CPU, which owns RAM,
// display and keypad state, plus the buzzer and the loaded program.
type Machine struct {
	CPU    *hw.CPU
	Buzzer *hw.Buzzer
	ROM    *rom.ROM

	input *input.Provider

	instrPerFrame int
}

func powerUp(rom *rom.ROM, cfg EmulationConfig) (*Machine, error) {
	clockHz := cfg.ClockHz
	if clockHz <= 0 {
		clockHz = DefaultClockHz
	}

	cpu := hw.NewCPU()
	if err := cpu.LoadProgram(rom.Data); err != nil {
		return nil, err
	}

	return &Machine{
		CPU:           cpu,
		Buzzer:        hw.NewBuzzer(),
		ROM:           rom,
		instrPerFrame: max(1, clockHz/FrameRate),
	}, nil
}

// PlugInput connects the keypad state provider, polled once per frame.
func (m *Machine) PlugInput(p *input.Provider) {
	m.input = p
}

func (m *Machine) Reset(hard bool) {
	m.CPU.Reset(hard)
	m.Buzzer.Reset()
}

// RunOneFrame emulates 1/60th of a second: poll the keypad, execute one frame
// worth of instructions, tick the timers, then render video and sound.
func (m *Machine) RunOneFrame(frame hw.Frame) {
	if m.input != nil {
		m.CPU.Keys = m.input.State()
	}

	m.CPU.Run(m.instrPerFrame)

	// The tone plays as long as the sound timer has not expired. Sample it
	// before the tick so that a one-tick beep still makes a sound.
	tone := m.CPU.ST > 0
	m.CPU.TickTimers()

	frame.Draw(&m.CPU.FB)
	m.Buzzer.EndFrame(tone)
}
