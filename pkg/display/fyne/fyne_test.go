package fyne

import (
	"image"
	"testing"

	"fyne.io/fyne/v2/test"

	"camview/pkg/display"
	"camview/pkg/frame"
	"camview/pkg/handoff"
)

func TestRedrawFollowsFrameCounter(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	m := handoff.NewMailbox()
	drv := display.NewDriver(m, handoff.NewSignal(), nil, display.WithCanvas(4, 2))
	h := New(drv)
	w := h.build(a)
	defer w.Close()

	if w.Title() != Title {
		t.Fatalf("Title() = %q", w.Title())
	}

	b := frame.Blank(4, 2)
	b.Pix[0] = 9
	if err := m.Send(b); err != nil {
		t.Fatal(err)
	}
	drv.Frame().Inc()

	img, ok := h.img.Image.(*image.RGBA)
	if !ok {
		t.Fatalf("image is %T", h.img.Image)
	}
	if img.Pix[0] != 9 {
		t.Fatalf("window shows %d, want 9", img.Pix[0])
	}
	if st := drv.Stats(); st.Ticks != 2 || st.NewFrames != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
