package ui

import (
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"chiptor/emu/rpc"
	"chiptor/hw"
)

// gamePanel is the small control strip shown above the emulator window while
// a game is running.
type gamePanel struct {
	*gtk.Window

	pause *gtk.Button
	reset *gtk.Button
	stop  *gtk.Button

	paused bool
}

func showGamePanel(parent *gtk.Window, scale int) *gamePanel {
	win := mustT(gtk.WindowNew(gtk.WINDOW_TOPLEVEL))
	win.SetTitle("Chiptor")
	win.SetTransientFor(parent)
	win.SetResizable(false)
	win.SetDeletable(false)
	win.SetTypeHint(gdk.WINDOW_TYPE_HINT_UTILITY)

	gp := &gamePanel{
		Window: win,
		pause:  mustT(gtk.ButtonNewWithLabel("Pause")),
		reset:  mustT(gtk.ButtonNewWithLabel("Reset")),
		stop:   mustT(gtk.ButtonNewWithLabel("Stop")),
	}

	box := mustT(gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 6))
	box.SetMarginTop(6)
	box.SetMarginBottom(6)
	box.SetMarginStart(6)
	box.SetMarginEnd(6)
	box.PackStart(gp.pause, false, false, 0)
	box.PackStart(gp.reset, false, false, 0)
	box.PackStart(gp.stop, false, false, 0)
	win.Add(box)

	// Buttons do nothing until the emulator proxy is connected.
	gp.pause.SetSensitive(false)
	gp.reset.SetSensitive(false)
	gp.stop.SetSensitive(false)

	win.ShowAll()

	// We know the emulator window starts at the center of the screen. We want
	// to show the panel on top of it (best effort).
	panelw, panelh := win.GetSize()
	screenw, screenh := getWorkArea()
	emuh := hw.ScreenHeight * scale

	x := (screenw - panelw) / 2
	y := (screenh - panelh) / 2
	y -= (emuh + panelh) / 2
	win.Move(x, y)

	return gp
}

// connect wires the panel buttons to the emulator process.
func (gp *gamePanel) connect(client *rpc.Client) {
	gp.pause.Connect("clicked", func() {
		gp.paused = !gp.paused
		client.SetPause(gp.paused)
		if gp.paused {
			gp.pause.SetLabel("Resume")
		} else {
			gp.pause.SetLabel("Pause")
		}
	})
	gp.reset.Connect("clicked", func() { client.Reset() })
	gp.stop.Connect("clicked", func() { client.Stop() })

	gp.pause.SetSensitive(true)
	gp.reset.SetSensitive(true)
	gp.stop.SetSensitive(true)
}

// setGameStopped is called once the emulator process has exited.
func (gp *gamePanel) setGameStopped() {
	gp.pause.SetSensitive(false)
	gp.reset.SetSensitive(false)
	gp.stop.SetSensitive(false)
}
