package ui

import (
	"github.com/gotk3/gotk3/gtk"
)

// showConfig opens the settings dialog on the page named label, which is one
// of the Settings menu item labels.
func showConfig(cfg *Config, label string) {
	dlg := mustT(gtk.DialogNew())
	dlg.SetTitle("Chiptor settings")
	dlg.SetModal(true)
	mustT(dlg.AddButton("Close", gtk.RESPONSE_CLOSE))

	nb := mustT(gtk.NotebookNew())
	pages := []struct {
		label string
		build func() gtk.IWidget
	}{
		{"Input", func() gtk.IWidget { return buildInputConfigPage(dlg, &cfg.Input) }},
		{"Video", func() gtk.IWidget { return buildVideoConfigPage(&cfg.Video) }},
		{"Audio", func() gtk.IWidget { return buildAudioConfigPage(&cfg.Audio) }},
		{"Emulation", func() gtk.IWidget { return buildEmulationConfigPage(&cfg.Emulation) }},
	}

	cur := 0
	for i, page := range pages {
		nb.AppendPage(page.build(), mustT(gtk.LabelNew(page.label)))
		if page.label == label {
			cur = i
		}
	}

	box := mustT(dlg.GetContentArea())
	box.PackStart(nb, true, true, 0)

	dlg.ShowAll()
	nb.SetCurrentPage(cur)
	dlg.Run()
	dlg.Destroy()
}

// configPageGrid returns the empty grid all settings pages start from.
func configPageGrid() *gtk.Grid {
	grid := mustT(gtk.GridNew())
	grid.SetRowSpacing(8)
	grid.SetColumnSpacing(12)
	grid.SetMarginTop(12)
	grid.SetMarginBottom(12)
	grid.SetMarginStart(12)
	grid.SetMarginEnd(12)
	return grid
}
