package hw

import "testing"

func testOutput() *Output {
	return NewOutput(OutputConfig{Width: ScreenWidth, Height: ScreenHeight})
}

func TestFrameDraw(t *testing.T) {
	var fb FrameBuffer
	fb[0][0] = 1
	fb[ScreenHeight-1][ScreenWidth-1] = 1

	o := testOutput()
	f := o.BeginFrame()
	f.Draw(&fb)
	o.EndFrame(f)

	img := o.Screenshot()
	if img.Bounds().Dx() != ScreenWidth || img.Bounds().Dy() != ScreenHeight {
		t.Fatalf("screenshot bounds = %v", img.Bounds())
	}

	wantWhite := func(x, y int) {
		t.Helper()
		i := img.PixOffset(x, y)
		if img.Pix[i] != 0xff || img.Pix[i+1] != 0xff || img.Pix[i+2] != 0xff {
			t.Errorf("pixel (%d,%d) = %v, want white", x, y, img.Pix[i:i+4])
		}
	}
	wantBlack := func(x, y int) {
		t.Helper()
		i := img.PixOffset(x, y)
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			t.Errorf("pixel (%d,%d) = %v, want black", x, y, img.Pix[i:i+4])
		}
	}

	wantWhite(0, 0)
	wantWhite(ScreenWidth-1, ScreenHeight-1)
	wantBlack(1, 0)
	wantBlack(0, 1)
	wantBlack(ScreenWidth-2, ScreenHeight-1)
}

func TestBeginFrameCyclesBackBuffers(t *testing.T) {
	o := testOutput()

	f1 := o.BeginFrame()
	f2 := o.BeginFrame()
	f3 := o.BeginFrame()

	if &f1.Video[0] == &f2.Video[0] {
		t.Error("consecutive frames share the same pixel buffer")
	}
	if &f1.Video[0] != &f3.Video[0] {
		t.Error("back buffers are not recycled")
	}
}

func TestScreenshotIsACopy(t *testing.T) {
	o := testOutput()

	var fb FrameBuffer
	fb[4][4] = 1
	f := o.BeginFrame()
	f.Draw(&fb)
	o.EndFrame(f)

	img := o.Screenshot()
	i := img.PixOffset(4, 4)
	img.Pix[i] = 0x42

	if img2 := o.Screenshot(); img2.Pix[i] == 0x42 {
		t.Error("screenshots alias the same pixel buffer")
	}
}
