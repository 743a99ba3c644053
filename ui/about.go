package ui

import (
	"runtime/debug"

	"github.com/gotk3/gotk3/gtk"
)

func showAbout(parent *gtk.Window) {
	dlg := mustT(gtk.AboutDialogNew())
	dlg.SetTransientFor(parent)
	dlg.SetProgramName("Chiptor")
	dlg.SetVersion(Version())
	dlg.SetComments("A CHIP-8 emulator")
	dlg.SetWebsite("https://github.com/arl/chiptor")
	dlg.Run()
	dlg.Destroy()
}

// Version reports the module version stamped in the binary,
// or "devel" for a non-released build.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "devel"
	}
	return info.Main.Version
}
