// Package web serves the display driver to browsers as an MJPEG stream.
package web

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vincent-vinf/go-jsend"
	"go.uber.org/zap"

	"camview/pkg/display"
	"camview/pkg/utils"
	imgutil "camview/pkg/utils/image"
	"camview/pkg/utils/ps"
)

const (
	DefaultPort    = 9999
	DefaultQuality = 80
)

var logger *zap.SugaredLogger

func init() {
	logger = utils.GetLogger().Named("web")
}

type Option func(*Host)

// WithQuality sets the JPEG quality of the stream.
func WithQuality(q int) Option {
	return func(h *Host) {
		if q > 0 && q <= 100 {
			h.quality = q
		}
	}
}

// WithStats adds a section to the /api/stats response.
func WithStats(name string, fn func() any) Option {
	return func(h *Host) {
		h.stats[name] = fn
	}
}

// Host serves the rendered frames. Render is only called from the redraw
// timer goroutine; HTTP handlers see encoded JPEG bytes and nothing else.
type Host struct {
	drv     *display.Driver
	port    int
	quality int
	stats   map[string]func() any

	b *broadcaster
	// only touched by redraw
	lastSeq uint64
	encoded bool
	jpegBuf bytes.Buffer

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

func New(drv *display.Driver, port int, opts ...Option) *Host {
	if port <= 0 {
		port = DefaultPort
	}
	h := &Host{
		drv:      drv,
		port:     port,
		quality:  DefaultQuality,
		stats:    make(map[string]func() any),
		b:        newBroadcaster(),
		shutdown: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handler builds the gin engine.
func (h *Host) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.Cors())
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, jsend.SimpleErr("page not found"))
	})

	apiRouter := r.Group("/api")
	apiRouter.GET("/stream", h.stream)
	apiRouter.GET("/stats", h.getStats)
	apiRouter.POST("/shutdown", h.postShutdown)

	return r
}

// Run serves until a signal arrives, ctx is done or a client posts to
// /api/shutdown, then shuts the pipeline down like closing the window.
func (h *Host) Run(ctx context.Context) error {
	h.drv.Frame().AddListener(h.redraw)
	h.drv.StartTimer()

	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-h.shutdown:
			logger.Info("shutdown requested over http")
			cancel()
		case <-srvCtx.Done():
		}
	}()

	logger.Infof("serving on :%d", h.port)
	err := utils.ListenAndServe(srvCtx, h.Handler(), h.port, h.b.close)
	h.b.close()

	closeErr := h.drv.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// redraw is the frame counter listener.
func (h *Host) redraw(tick int) {
	img := h.drv.Render(tick)
	if h.b.count() == 0 {
		return
	}
	seq := h.drv.LastFrame().Seq
	if h.encoded && seq == h.lastSeq {
		return
	}

	h.jpegBuf.Reset()
	if err := imgutil.EncodeJPEG(img, &h.jpegBuf, h.quality); err != nil {
		logger.Warnf("encode frame %d: %s", seq, err)
		return
	}
	h.lastSeq, h.encoded = seq, true
	h.b.publish(bytes.Clone(h.jpegBuf.Bytes()))
}

func (h *Host) stream(c *gin.Context) {
	ch, ok := h.b.subscribe()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, jsend.SimpleErr("shutting down"))
		return
	}
	defer h.b.unsubscribe(ch)

	mimeWriter := multipart.NewWriter(c.Writer)
	c.Header("Content-Type", fmt.Sprintf("multipart/x-mixed-replace; boundary=%s", mimeWriter.Boundary()))
	c.Status(http.StatusOK)
	c.Writer.Flush()

	partHeader := make(textproto.MIMEHeader)
	partHeader.Add("Content-Type", "image/jpeg")

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			partWriter, err := mimeWriter.CreatePart(partHeader)
			if err != nil {
				logger.Warnf("failed to create multi-part writer: %s", err)
				return
			}
			if _, err = partWriter.Write(data); err != nil {
				logger.Debugf("failed to write image: %s", err)
				return
			}
			c.Writer.Flush()
		}
	}
}

func (h *Host) getStats(c *gin.Context) {
	res := gin.H{
		"display": h.drv.Stats(),
		"clients": h.b.count(),
	}
	for name, fn := range h.stats {
		res[name] = fn()
	}
	if st, err := ps.Snapshot(); err != nil {
		logger.Debugf("process stats: %s", err)
	} else {
		res["process"] = st
	}

	c.JSON(http.StatusOK, jsend.Success(res))
}

func (h *Host) postShutdown(c *gin.Context) {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
	c.JSON(http.StatusOK, jsend.Success("shutting down"))
}
