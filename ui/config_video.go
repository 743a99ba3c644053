package ui

import (
	"github.com/gotk3/gotk3/gtk"

	"chiptor/emu"
)

func buildVideoConfigPage(cfg *emu.VideoConfig) gtk.IWidget {
	grid := configPageGrid()

	if cfg.Scale <= 0 {
		cfg.Scale = emu.DefaultScale
	}

	scaleLabel := mustT(gtk.LabelNew("Window scale"))
	scaleLabel.SetHAlign(gtk.ALIGN_START)
	adj := mustT(gtk.AdjustmentNew(float64(cfg.Scale), 1, 32, 1, 4, 0))
	scaleSpin := mustT(gtk.SpinButtonNew(adj, 1, 0))
	scaleSpin.Connect("value-changed", func(_ *gtk.SpinButton) {
		cfg.Scale = scaleSpin.GetValueAsInt()
	})

	vsyncLabel := mustT(gtk.LabelNew("Vertical sync"))
	vsyncLabel.SetHAlign(gtk.ALIGN_START)
	vsync := mustT(gtk.SwitchNew())
	vsync.SetHAlign(gtk.ALIGN_START)
	vsync.SetActive(!cfg.DisableVSync)
	vsync.Connect("state-set", func(_ *gtk.Switch, state bool) {
		cfg.DisableVSync = !state
	})

	grid.Attach(scaleLabel, 0, 0, 1, 1)
	grid.Attach(scaleSpin, 1, 0, 1, 1)
	grid.Attach(vsyncLabel, 0, 1, 1, 1)
	grid.Attach(vsync, 1, 1, 1, 1)
	return grid
}
