package ui

import (
	"github.com/gotk3/gotk3/gtk"

	"chiptor/emu"
)

func buildAudioConfigPage(cfg *emu.AudioConfig) gtk.IWidget {
	grid := configPageGrid()

	label := mustT(gtk.LabelNew("Enable audio"))
	label.SetHAlign(gtk.ALIGN_START)
	enabled := mustT(gtk.SwitchNew())
	enabled.SetHAlign(gtk.ALIGN_START)
	enabled.SetActive(!cfg.DisableAudio)
	enabled.Connect("state-set", func(_ *gtk.Switch, state bool) {
		cfg.DisableAudio = !state
	})

	grid.Attach(label, 0, 0, 1, 1)
	grid.Attach(enabled, 1, 0, 1, 1)
	return grid
}
