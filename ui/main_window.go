package ui

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"chiptor/emu"
	"chiptor/emu/log"
	"chiptor/emu/rpc"
)

var modGUI = log.NewModule("gui")

// RunApp creates and shows the main window,
// blocking until it's closed.
func RunApp(cfg *Config) {
	gtk.Init(nil)
	showMainWindow(cfg)
	gtk.Main()
	modGUI.InfoZ("Exited gtk").End()
}

type mainWindow struct {
	*gtk.Window
	rrv *recentROMsView
	wg  sync.WaitGroup
	cfg *Config
}

func showMainWindow(cfg *Config) {
	win := mustT(gtk.WindowNew(gtk.WINDOW_TOPLEVEL))
	win.SetTitle("Chiptor")
	win.SetDefaultSize(640, 480)
	win.SetPosition(gtk.WIN_POS_CENTER)

	mw := &mainWindow{
		Window: win,
		cfg:    cfg,
	}

	mw.Connect("destroy", func() bool { mw.Close(nil); return true })
	mw.rrv = newRecentRomsView(mw.runROM, cfg.General.MaxRecentROMs)

	scrolled := mustT(gtk.ScrolledWindowNew(nil, nil))
	scrolled.Add(mw.rrv.flowbox)

	vbox := mustT(gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0))
	vbox.PackStart(mw.menuBar(), false, false, 0)
	vbox.PackStart(scrolled, true, true, 0)
	win.Add(vbox)

	win.ShowAll()
}

func (mw *mainWindow) menuBar() *gtk.MenuBar {
	item := func(label string, onActivate func(*gtk.MenuItem)) *gtk.MenuItem {
		mi := mustT(gtk.MenuItemNewWithLabel(label))
		mi.Connect("activate", onActivate)
		return mi
	}
	submenu := func(label string, items ...gtk.IMenuItem) *gtk.MenuItem {
		mi := mustT(gtk.MenuItemNewWithLabel(label))
		menu := mustT(gtk.MenuNew())
		for _, it := range items {
			menu.Append(it)
		}
		mi.SetSubmenu(menu)
		return mi
	}

	onOpen := func(*gtk.MenuItem) {
		workdir, ok := mw.rrv.mostRecentDir()
		if !ok {
			workdir = ""
		}
		path, ok := openFileDialog(mw.Window, workdir)
		if !ok {
			return
		}
		mw.runROM(path)
	}
	onConfig := func(m *gtk.MenuItem) {
		showConfig(mw.cfg, m.GetLabel())
		if err := SaveConfig(*mw.cfg); err != nil {
			modGUI.Warnf("failed to save config: %s", err)
		}
	}

	bar := mustT(gtk.MenuBarNew())
	bar.Append(submenu("File",
		item("Open ROM", onOpen),
		mustT(gtk.SeparatorMenuItemNew()),
		item("Quit", func(*gtk.MenuItem) { gtk.MainQuit() }),
	))
	bar.Append(submenu("Settings",
		item("Input", onConfig),
		item("Video", onConfig),
		item("Audio", onConfig),
		item("Emulation", onConfig),
	))
	bar.Append(submenu("Help",
		item("About", func(*gtk.MenuItem) { showAbout(mw.Window) }),
	))
	return bar
}

func (mw *mainWindow) Close(err error) {
	if err != nil {
		modGUI.Warnf("closing UI with error: %s", err)
	}

	mw.wg.Wait()
	gtk.MainQuit()
}

func (mw *mainWindow) runROM(path string) {
	mw.SetSensitive(false)

	monidx := monitorIdx(mustT(mw.GetWindow()))

	scale := mw.cfg.Video.Scale
	if scale <= 0 {
		scale = emu.DefaultScale
	}
	panel := showGamePanel(mw.Window, scale)

	client, wait, err := driveEmulator(path, monidx)
	if err != nil {
		modGUI.WarnZ("failed to start rom").Error("err", err).End()
		panel.Close()
		mw.SetSensitive(true)
		return
	}

	panel.connect(client)

	mw.wg.Add(1)
	go func() {
		defer mw.wg.Done()

		modGUI.DebugZ("waiting for emulator process to finish").End()
		wait()

		glib.IdleAdd(func() {
			panel.setGameStopped()
			modGUI.DebugZ("closing game panel").End()
			panel.Close()
			mw.onRomStopped(path, client.TempDir())
			mw.SetSensitive(true)
		})
	}()
}

func (mw *mainWindow) onRomStopped(rompath, tmpdir string) {
	f, err := os.Open(filepath.Join(tmpdir, "screenshot.png"))
	if err != nil {
		modGUI.Warnf("failed to read screenshot: %s", err)
		return
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		modGUI.Warnf("failed to decode screenshot: %s", err)
		return
	}

	if err := mw.addRecentROM(rompath, img); err != nil {
		modGUI.Warnf("failed to add recent ROM: %s", err)
	}
}

func (mw *mainWindow) addRecentROM(romPath string, screenshot image.Image) error {
	bb := bytes.Buffer{}
	if err := png.Encode(&bb, screenshot); err != nil {
		return fmt.Errorf("failed to encode screenshot: %v", err)
	}

	return mw.rrv.addROM(recentROM{
		Name:     filepath.Base(romPath),
		Image:    bb.Bytes(),
		Path:     romPath,
		LastUsed: time.Now(),
	})
}

type waitFunc func() error

func driveEmulator(rompath string, monidx int32) (*rpc.Client, waitFunc, error) {
	port := rpc.UnusedPort()
	args := []string{"run",
		"--monitor", strconv.Itoa(int(monidx)),
		"--port", strconv.Itoa(port),
		rompath}

	cmd := exec.Command(mustT(os.Executable()), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start emulator process: %w", err)
	}

	client, err := rpc.NewClient(port)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create emulator proxy: %w", err)
	}

	// Set up the exit artifacts directory now, it can't be done once the
	// emulator process has exited.
	client.TempDir()

	return client, cmd.Wait, nil
}
