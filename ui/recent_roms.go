package ui

import (
	"archive/zip"
	"cmp"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/go-faster/jx"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

// A recent ROM entry is a zip archive with the last screenshot taken before
// the emulator exited, plus a small JSON blob (path, play count, last played
// date). The entry file name is the ROM name.
const recentROMextension = ".crr"

// Gallery thumbnails show the 64x32 screenshots at 4x.
const thumbScale = 4

var RecentROMsDir = sync.OnceValue(func() string {
	dir := filepath.Join(ConfigDir(), "recent-roms")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		modGUI.Fatalf("failed to create directory %s: %v", dir, err)
	}

	return dir
})

func loadRecentROMs() []recentROM {
	return loadROMsDir(RecentROMsDir())
}

func loadROMsDir(dir string) []recentROM {
	var roms []recentROM

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filepath.Ext(path) != recentROMextension {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		dirent, err := d.Info()
		if err != nil {
			return err
		}

		zr, err := zip.NewReader(f, dirent.Size())
		if err != nil {
			return err
		}

		cur := recentROM{
			Name: removeExt(dirent.Name()),
		}

		for _, zf := range zr.File {
			if zf.Name == "screenshot.png" {
				zfr, err := zf.Open()
				if err != nil {
					return err
				}
				defer zfr.Close()

				buf, err := io.ReadAll(zfr)
				if err != nil {
					return err
				}
				cur.Image = buf
			}
			if zf.Name == "infos.json" {
				zfr, err := zf.Open()
				if err != nil {
					return err
				}
				defer zfr.Close()

				buf, err := io.ReadAll(zfr)
				if err != nil {
					return err
				}
				if err := unmarshalInfos(buf, &cur); err != nil {
					return fmt.Errorf("%s: %v", path, err)
				}
			}
		}

		if cur.LastUsed.IsZero() {
			cur.LastUsed = dirent.ModTime()
		}

		if cur.IsValid() {
			roms = append(roms, cur)
		}

		return nil
	})

	if err != nil {
		modGUI.Warnf("error loading recent roms: %s", err)
	}

	return roms
}

type recentROM struct {
	Name      string
	Path      string
	Image     []byte
	PlayCount int
	LastUsed  time.Time
}

func (r recentROM) IsValid() bool {
	return r.Path != "" &&
		r.Image != nil &&
		r.Name != "" &&
		!r.LastUsed.IsZero()
}

func marshalInfos(r recentROM) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("path")
	e.Str(r.Path)
	e.FieldStart("play_count")
	e.Int(r.PlayCount)
	e.FieldStart("last_played")
	e.Str(r.LastUsed.Format(time.RFC3339))
	e.ObjEnd()
	return e.Bytes()
}

func unmarshalInfos(data []byte, r *recentROM) error {
	d := jx.DecodeBytes(data)
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "path":
			s, err := d.Str()
			if err != nil {
				return err
			}
			r.Path = s
		case "play_count":
			n, err := d.Int()
			if err != nil {
				return err
			}
			r.PlayCount = n
		case "last_played":
			s, err := d.Str()
			if err != nil {
				return err
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return err
			}
			r.LastUsed = t
		default:
			return d.Skip()
		}
		return nil
	})
}

func (r recentROM) save() error {
	return r.saveTo(RecentROMsDir())
}

func (r recentROM) saveTo(dir string) error {
	f, err := os.Create(filepath.Join(dir, r.Name+recentROMextension))
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	zfw, err := zw.Create("infos.json")
	if err != nil {
		return err
	}
	if _, err := zfw.Write(marshalInfos(r)); err != nil {
		return err
	}

	zfw, err = zw.Create("screenshot.png")
	if err != nil {
		return err
	}
	if _, err := zfw.Write(r.Image); err != nil {
		return err
	}

	return nil
}

func removeExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}

type recentROMsView struct {
	flowbox    *gtk.FlowBox
	recentROMs []recentROM
	runROM     func(string)
	maxShown   int
}

func newRecentRomsView(runROM func(path string), maxShown int) *recentROMsView {
	fb := mustT(gtk.FlowBoxNew())
	fb.SetVAlign(gtk.ALIGN_START)
	fb.SetMaxChildrenPerLine(4)
	fb.SetColumnSpacing(12)
	fb.SetRowSpacing(12)
	fb.SetSelectionMode(gtk.SELECTION_NONE)

	v := &recentROMsView{
		runROM:     runROM,
		recentROMs: loadRecentROMs(),
		flowbox:    fb,
		maxShown:   maxShown,
	}

	v.updateView()
	return v
}

// addROM adds a new ROM to the list of recent roms, incrementing its play
// count if it was already there.
func (v *recentROMsView) addROM(rom recentROM) error {
	rom.PlayCount = 1
	for _, prev := range v.recentROMs {
		if prev.Name == rom.Name {
			rom.PlayCount = prev.PlayCount + 1
			break
		}
	}

	v.recentROMs = append(v.recentROMs, rom)
	if err := rom.save(); err != nil {
		return fmt.Errorf("ROM save: %v", err)
	}
	v.updateView()
	return nil
}

// removeROM removes a ROM from the list and deletes its entry on disk.
func (v *recentROMsView) removeROM(rom recentROM) {
	path := filepath.Join(RecentROMsDir(), rom.Name+recentROMextension)
	if err := os.Remove(path); err != nil {
		modGUI.Warnf("failed to remove recent ROM entry: %s", err)
	}

	v.recentROMs = slices.DeleteFunc(v.recentROMs, func(r recentROM) bool {
		return r.Name == rom.Name
	})
	v.updateView()
}

// normalize sorts the list by last usage and remove duplicates.
func (v *recentROMsView) normalize() {
	m := make(map[string]recentROM, len(v.recentROMs))
	for _, rom := range v.recentROMs {
		m[rom.Name] = rom
	}

	v.recentROMs = v.recentROMs[:0]
	for _, rom := range m {
		v.recentROMs = append(v.recentROMs, rom)
	}

	slices.SortFunc(v.recentROMs, func(a, b recentROM) int {
		return cmp.Compare(b.LastUsed.Unix(), a.LastUsed.Unix())
	})
}

func (v *recentROMsView) mostRecentDir() (string, bool) {
	if len(v.recentROMs) == 0 {
		return "", false
	}

	return filepath.Dir(v.recentROMs[0].Path), true
}

func (v *recentROMsView) updateView() {
	v.normalize()

	// Empty the flowbox.
	v.flowbox.GetChildren().Foreach(func(item any) {
		item.(*gtk.Widget).Destroy()
	})

	addItem := func(rom recentROM) error {
		pbuf, err := pixbufFromBytes(rom.Image)
		if err != nil {
			return fmt.Errorf("failed to load image: %v", err)
		}
		pbuf, err = pbuf.ScaleSimple(pbuf.GetWidth()*thumbScale, pbuf.GetHeight()*thumbScale, gdk.INTERP_NEAREST)
		if err != nil {
			return fmt.Errorf("failed to scale image: %v", err)
		}
		img := mustT(gtk.ImageNewFromPixbuf(pbuf))

		// Create a button to contain the image
		button := mustT(gtk.ButtonNew())
		button.SetImage(img)
		button.SetAlwaysShowImage(true)

		box := mustT(gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0))
		label := mustT(gtk.LabelNew(rom.Name))
		box.PackStart(button, false, false, 0)
		box.PackStart(label, false, false, 0)

		v.flowbox.Insert(box, int(v.flowbox.GetChildren().Length()))

		button.SetVisible(true)
		img.SetVisible(true)
		box.SetVisible(true)
		label.SetVisible(true)

		button.Connect("clicked", func() { v.runROM(rom.Path) })
		button.Connect("button-press-event", func(_ *gtk.Button, ev *gdk.Event) bool {
			btn := gdk.EventButtonNewFromEvent(ev)
			if btn.Button() != gdk.BUTTON_SECONDARY {
				return false
			}
			v.showContextMenu(rom, ev)
			return true
		})
		return nil
	}

	shown := v.recentROMs
	if v.maxShown > 0 && len(shown) > v.maxShown {
		shown = shown[:v.maxShown]
	}
	for _, rom := range shown {
		if err := addItem(rom); err != nil {
			modGUI.Warnf("failed to show recent ROM %q: %s", rom.Name, err)
		}
	}
}

func (v *recentROMsView) showContextMenu(rom recentROM, ev *gdk.Event) {
	menu := mustT(gtk.MenuNew())

	play := mustT(gtk.MenuItemNewWithLabel("Play"))
	play.Connect("activate", func() { v.runROM(rom.Path) })
	menu.Append(play)

	remove := mustT(gtk.MenuItemNewWithLabel("Remove from list"))
	remove.Connect("activate", func() { v.removeROM(rom) })
	menu.Append(remove)

	menu.ShowAll()
	menu.PopupAtPointer(ev)
}
