// Package fyne shows the display driver in a desktop window.
package fyne

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"go.uber.org/zap"

	"camview/pkg/display"
	"camview/pkg/utils"
)

const (
	AppID  = "io.camview"
	Title  = "camview"
	Width  = 1290
	Height = 730
)

var logger *zap.SugaredLogger

func init() {
	logger = utils.GetLogger().Named("fyne")
}

// Host owns the window. The driver's frame counter drives redraws; each
// change renders on the timer goroutine, which is the only caller of
// Render.
type Host struct {
	drv *display.Driver
	img *canvas.Image
	win fyne.Window
}

func New(drv *display.Driver) *Host {
	return &Host{drv: drv}
}

// build creates the window on a and binds the image to the frame counter.
func (h *Host) build(a fyne.App) fyne.Window {
	h.win = a.NewWindow(Title)
	h.win.Resize(fyne.NewSize(Width, Height))
	h.win.SetFixedSize(true)

	h.img = canvas.NewImageFromImage(h.drv.Render(0))
	h.img.FillMode = canvas.ImageFillContain
	h.img.ScaleMode = canvas.ImageScaleFastest
	h.win.SetContent(h.img)

	h.drv.Frame().AddListener(h.redraw)
	h.win.SetMaster()

	return h.win
}

func (h *Host) redraw(tick int) {
	h.img.Image = h.drv.Render(tick)
	h.img.Refresh()
}

// Run shows the window and blocks until it is closed or a termination
// signal arrives. Once the event loop has returned it shuts the pipeline
// down and returns the worker's outcome.
func (h *Host) Run(ctx context.Context) error {
	a := app.NewWithID(AppID)
	w := h.build(a)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan struct{})
	go func() {
		utils.WatchSignal(watchCtx)
		select {
		case <-loopDone:
		default:
			logger.Info("closing window")
			w.Close()
		}
	}()

	h.drv.StartTimer()
	w.ShowAndRun()
	close(loopDone)
	logger.Info("event loop exited")

	return h.drv.Close()
}
