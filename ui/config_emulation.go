package ui

import (
	"github.com/gotk3/gotk3/gtk"

	"chiptor/emu"
)

func buildEmulationConfigPage(cfg *emu.EmulationConfig) gtk.IWidget {
	grid := configPageGrid()

	if cfg.ClockHz <= 0 {
		cfg.ClockHz = emu.DefaultClockHz
	}

	label := mustT(gtk.LabelNew("CPU speed (instructions per second)"))
	label.SetHAlign(gtk.ALIGN_START)
	adj := mustT(gtk.AdjustmentNew(float64(cfg.ClockHz), 60, 10000, 10, 100, 0))
	spin := mustT(gtk.SpinButtonNew(adj, 10, 0))
	spin.Connect("value-changed", func(_ *gtk.SpinButton) {
		cfg.ClockHz = spin.GetValueAsInt()
		modGUI.InfoZ("Setting CPU speed").Int("hz", cfg.ClockHz).End()
	})

	grid.Attach(label, 0, 0, 1, 1)
	grid.Attach(spin, 1, 0, 1, 1)
	return grid
}
