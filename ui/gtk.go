package ui

import (
	"fmt"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

func must(err error) {
	if err != nil {
		panic(err)
	}
}

//lint:ignore U1000 useful later
func mustf(err error, format string, args ...any) {
	if err != nil {
		msg := fmt.Sprintf(format, args...)
		panic(msg + "\n" + err.Error())
	}
}

func mustT[T any](v T, err error) T {
	must(err)
	return v
}

// openFileDialog shows a file chooser dialog for selecting a CHIP-8 ROM file.
func openFileDialog(parent *gtk.Window, workdir string) (string, bool) {
	dlg := mustT(gtk.FileChooserDialogNewWith1Button(
		"Open CHIP-8 ROM",
		parent,
		gtk.FILE_CHOOSER_ACTION_OPEN,
		"Open",
		gtk.RESPONSE_OK,
	))
	defer dlg.Close()

	filter := mustT(gtk.FileFilterNew())
	filter.AddPattern("*.ch8")
	filter.SetName("CHIP-8 ROM Files")
	dlg.AddFilter(filter)

	all := mustT(gtk.FileFilterNew())
	all.AddPattern("*")
	all.SetName("All Files")
	dlg.AddFilter(all)

	dlg.SetCurrentFolder(workdir)
	if resp := dlg.Run(); resp != gtk.RESPONSE_OK {
		return "", false
	}
	return dlg.GetFilename(), true
}

func pixbufFromBytes(data []byte) (*gdk.Pixbuf, error) {
	loader := mustT(gdk.PixbufLoaderNew())
	if _, err := loader.Write(data); err != nil {
		return nil, err
	}
	// Finalize loading before getting the buffer.
	loader.Close()
	return loader.GetPixbuf()
}

// monitorIdx returns the index of the monitor the window is displayed on,
// or 0 if it can't be determined.
func monitorIdx(win *gdk.Window) int32 {
	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return 0
	}
	cur, err := display.GetMonitorAtWindow(win)
	if err != nil {
		return 0
	}

	for i := 0; ; i++ {
		mon, err := display.GetMonitor(i)
		if err != nil {
			break
		}
		if mon.Native() == cur.Native() {
			return int32(i)
		}
	}
	return 0
}

// getWorkArea returns the dimensions of the primary monitor work area,
// that is the monitor size minus space taken by desktop bars.
func getWorkArea() (w, h int) {
	display := mustT(gdk.DisplayGetDefault())
	monitor := mustT(display.GetPrimaryMonitor())
	area := monitor.GetWorkarea()
	return area.GetWidth(), area.GetHeight()
}
