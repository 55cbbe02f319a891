package web

import (
	"encoding/json"
	"image/jpeg"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"camview/pkg/display"
	"camview/pkg/frame"
	"camview/pkg/handoff"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHost(t *testing.T) (*Host, *handoff.Mailbox) {
	t.Helper()
	m := handoff.NewMailbox()
	drv := display.NewDriver(m, handoff.NewSignal(), nil, display.WithCanvas(8, 8))
	h := New(drv, 0, WithStats("capture", func() any { return map[string]int{"captured": 7} }))
	return h, m
}

func TestStats(t *testing.T) {
	h, _ := newHost(t)
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body struct {
		Status string                     `json:"status"`
		Data   map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "success" {
		t.Fatalf("status = %q", body.Status)
	}
	for _, key := range []string{"display", "capture", "clients"} {
		if _, ok := body.Data[key]; !ok {
			t.Fatalf("stats missing %q: %s", key, rec.Body.String())
		}
	}
}

func TestNoRoute(t *testing.T) {
	h, _ := newHost(t)
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestShutdownEndpoint(t *testing.T) {
	h, _ := newHost(t)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/shutdown", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
	}
	select {
	case <-h.shutdown:
	default:
		t.Fatal("shutdown not requested")
	}
}

func TestStream(t *testing.T) {
	h, m := newHost(t)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stream")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatal(err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("media type %q", mediaType)
	}

	deadline := time.Now().Add(5 * time.Second)
	for h.b.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	b := frame.Blank(8, 8)
	for i := range b.Pix {
		b.Pix[i] = 0xff
	}
	b.Seq = 1
	if err = m.Send(b); err != nil {
		t.Fatal(err)
	}
	h.redraw(1)
	// a stale tick must not publish again
	h.redraw(2)

	part, err := multipart.NewReader(resp.Body, params["boundary"]).NextPart()
	if err != nil {
		t.Fatal(err)
	}
	if ct := part.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/jpeg") {
		t.Fatalf("part content type %q", ct)
	}
	img, err := jpeg.Decode(part)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("bounds %v", img.Bounds())
	}

	// closing the broadcaster ends the stream
	h.b.close()
	if _, ok := h.b.subscribe(); ok {
		t.Fatal("subscribed after close")
	}
}

func TestBroadcasterLatestWins(t *testing.T) {
	b := newBroadcaster()
	ch, ok := b.subscribe()
	if !ok {
		t.Fatal("subscribe failed")
	}
	b.publish([]byte{1})
	b.publish([]byte{2})
	if got := <-ch; got[0] != 2 {
		t.Fatalf("got %d, want latest 2", got[0])
	}

	b.unsubscribe(ch)
	if _, open := <-ch; open {
		t.Fatal("channel still open after unsubscribe")
	}
	b.unsubscribe(ch)
	b.close()
	b.close()
}
