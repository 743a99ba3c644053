package ui

import (
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/gotk3/gotk3/pango"

	"chiptor/hw/input"
)

// keypadLayout is the COSMAC VIP keypad, the arrangement players expect.
var keypadLayout = [4][4]input.Key{
	{input.K1, input.K2, input.K3, input.KC},
	{input.K4, input.K5, input.K6, input.KD},
	{input.K7, input.K8, input.K9, input.KE},
	{input.KA, input.K0, input.KB, input.KF},
}

type inputConfigPage struct {
	parent *gtk.Dialog
	cfg    *input.Config

	drawArea  *gtk.DrawingArea
	listStore *gtk.ListStore
	bboxes    [input.NumKeys]aabbox

	devices   map[string]int // allows to give each joystick a number without using the GUID
	drawScale float64
}

func buildInputConfigPage(parent *gtk.Dialog, cfg *input.Config) gtk.IWidget {
	page := &inputConfigPage{
		parent:    parent,
		cfg:       cfg,
		drawScale: 2.5,
		devices:   map[string]int{"": 0},
		drawArea:  mustT(gtk.DrawingAreaNew()),
		listStore: mustT(gtk.ListStoreNew(glib.TYPE_STRING, glib.TYPE_STRING, glib.TYPE_STRING, glib.TYPE_STRING)),
	}

	page.drawArea.SetSizeRequest(int(keypadW*page.drawScale), int(keypadH*page.drawScale))
	page.drawArea.AddEvents(int(gdk.BUTTON_PRESS_MASK))
	page.drawArea.Connect("draw", page.onDrawKeypad)
	page.drawArea.Connect("button-press-event", page.onClick)

	treeView := mustT(gtk.TreeViewNew())
	treeView.SetModel(page.listStore)
	keycell := mustT(gtk.CellRendererTextNew())
	typecell := mustT(gtk.CellRendererTextNew())
	namecell := mustT(gtk.CellRendererTextNew())
	devcell := mustT(gtk.CellRendererTextNew())
	keycell.SetProperty("weight", pango.WEIGHT_BOLD)
	typecell.SetProperty("weight", pango.WEIGHT_LIGHT)
	namecell.SetProperty("weight", pango.WEIGHT_NORMAL)
	devcell.SetProperty("weight", pango.WEIGHT_NORMAL)
	keycol := mustT(gtk.TreeViewColumnNewWithAttribute("Key", keycell, "text", 0))
	typecol := mustT(gtk.TreeViewColumnNewWithAttribute("Type", typecell, "text", 1))
	namecol := mustT(gtk.TreeViewColumnNewWithAttribute("Binding", namecell, "text", 2))
	devcol := mustT(gtk.TreeViewColumnNewWithAttribute("Device", devcell, "text", 3))
	treeView.AppendColumn(keycol)
	treeView.AppendColumn(typecol)
	treeView.AppendColumn(namecol)
	treeView.AppendColumn(devcol)

	hint := mustT(gtk.LabelNew("Click a keypad key to change its binding."))
	hint.SetHAlign(gtk.ALIGN_START)

	grid := configPageGrid()
	grid.Attach(page.drawArea, 0, 0, 1, 1)
	grid.Attach(treeView, 1, 0, 1, 2)
	grid.Attach(hint, 0, 1, 1, 1)

	page.updateBindingsList()
	return grid
}

func (page *inputConfigPage) updateBindingsList() {
	page.listStore.Clear()

	for key := input.K0; key <= input.KF; key++ {
		iter := page.listStore.Append()
		mapping := page.cfg.Keys[key]

		typ := mapping.Type.String()
		name := mapping.Name()
		dev, ok := page.devices[mapping.CtrlGUID]
		if !ok {
			dev = len(page.devices)
			page.devices[mapping.CtrlGUID] = dev
		}
		devstr := ""
		if dev > 0 {
			devstr = strconv.Itoa(dev)
		}

		must(page.listStore.Set(iter, []int{0, 1, 2, 3}, []any{keyLabel(key), typ, name, devstr}))
	}
}

// captureInput rebinds a keypad key by spawning the input capture window in a
// separate process, as mixing SDL and GTK event loops in the same process
// doesn't go well.
func (page *inputConfigPage) captureInput(key input.Key) {
	page.parent.ToWidget().SetSensitive(false)
	monidx := monitorIdx(mustT(page.parent.Window.GetWindow()))

	go func() {
		out, err := exec.Command(mustT(os.Executable()),
			"capture",
			"--key", key.String(),
			"--monitor", strconv.Itoa(int(monidx))).Output()

		glib.IdleAdd(func() {
			page.parent.ToWidget().SetSensitive(true)

			if err != nil {
				dlg := gtk.MessageDialogNew(nil, gtk.DIALOG_MODAL, gtk.MESSAGE_ERROR, gtk.BUTTONS_OK, "Error: %s", err)
				dlg.Run()
				dlg.Destroy()
				return
			}

			var code input.Code
			if err := code.UnmarshalText(out); err != nil {
				modGUI.Warnf("failed to decode captured input %q: %s", out, err)
				return
			}
			if code.Type == input.ControlNotSet {
				return
			}

			page.cfg.Keys[key] = code
			page.updateBindingsList()
		})
	}()
}

func (page *inputConfigPage) onClick(da *gtk.DrawingArea, event *gdk.Event) {
	x, y := gdk.EventButtonNewFromEvent(event).MotionVal()
	x /= page.drawScale
	y /= page.drawScale

	for i, bbox := range page.bboxes {
		if bbox.contains(x, y) {
			page.captureInput(input.Key(i))
			return
		}
	}
}

// Keypad dimensions, in drawing units.
const (
	keypadW, keypadH = 108, 108
	keySize          = 20
	keyStride        = 24 // key size plus spacing
)

func (page *inputConfigPage) onDrawKeypad(da *gtk.DrawingArea, cr *cairo.Context) {
	cr.Scale(page.drawScale, page.drawScale)

	// Keypad body.
	cr.SetSourceRGB(0.8, 0.8, 0.8)
	roundedRect(cr, 0, 0, keypadW, keypadH, 2, allCorners)
	cr.Fill()

	// Internal panel.
	cr.SetSourceRGB(0.3, 0.3, 0.3)
	roundedRect(cr, 4, 4, keypadW-8, keypadH-8, 1.5)
	cr.Fill()

	cr.SelectFontFace("Sans", cairo.FONT_SLANT_NORMAL, cairo.FONT_WEIGHT_BOLD)
	cr.SetFontSize(8)

	for i, row := range keypadLayout {
		for j, key := range row {
			x := float64(8 + j*keyStride)
			y := float64(8 + i*keyStride)

			cr.SetSourceRGB(0.85, 0.85, 0.85)
			roundedRect(cr, x, y, keySize, keySize, 1.5)
			cr.Fill()

			cr.SetSourceRGB(0.15, 0.15, 0.15)
			cr.MoveTo(x+7, y+13.5)
			cr.ShowText(keyLabel(key))

			page.bboxes[key] = aabbox{x, y, x + keySize, y + keySize}
		}
	}
}

// keyLabel returns the hex digit shown on a keypad keycap.
func keyLabel(key input.Key) string {
	return strings.TrimPrefix(key.String(), "K")
}

type corner byte

const (
	topLeft corner = 1 << iota
	topRight
	bottomLeft
	bottomRight

	allCorners = topLeft | topRight | bottomLeft | bottomRight
)

func roundedRect(cr *cairo.Context, x, y, width, height, radius float64, corners ...corner) {
	cr.NewPath()

	c := allCorners
	if len(corners) > 0 {
		c = 0
		for _, corner := range corners {
			c |= corner
		}
	}

	// Start from the top-left corner
	if c&topLeft != 0 {
		cr.MoveTo(x+radius, y)
	} else {
		cr.MoveTo(x, y)
	}

	// Top edge
	if c&topRight != 0 {
		cr.LineTo(x+width-radius, y)
		cr.Arc(x+width-radius, y+radius, radius, -math.Pi/2, 0)
	} else {
		cr.LineTo(x+width, y)
	}

	// Right edge
	if c&bottomRight != 0 {
		cr.LineTo(x+width, y+height-radius)
		cr.Arc(x+width-radius, y+height-radius, radius, 0, math.Pi/2)
	} else {
		cr.LineTo(x+width, y+height)
	}

	// Bottom edge
	if c&bottomLeft != 0 {
		cr.LineTo(x+radius, y+height)
		cr.Arc(x+radius, y+height-radius, radius, math.Pi/2, math.Pi)
	} else {
		cr.LineTo(x, y+height)
	}

	// Left edge
	if c&topLeft != 0 {
		cr.LineTo(x, y+radius)
		cr.Arc(x+radius, y+radius, radius, math.Pi, 3*math.Pi/2)
	} else {
		cr.LineTo(x, y)
	}

	cr.ClosePath()
}

type aabbox struct{ xmin, ymin, xmax, ymax float64 }

func (bb aabbox) contains(x, y float64) bool {
	return x >= bb.xmin && x <= bb.xmax && y >= bb.ymin && y <= bb.ymax
}
