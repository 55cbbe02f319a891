package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vladimirvivien/go4vl/v4l2"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Interval() != 10*time.Millisecond {
		t.Fatalf("Interval() = %s", c.Interval())
	}
	if c.Request().Width != 1280 || c.Request().Height != 720 {
		t.Fatalf("Request() = %+v", c.Request())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camview.json")
	data := `{
	"backend": "pattern",
	"host": "web",
	"port": 8080,
	"queue": "fifo",
	"on_error": "stop",
	"controls": {"9963776": 40, "10094850": 300}
}`
	if err := os.WriteFile(path, []byte(data), 0660); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Backend != "pattern" || c.Host != HostWeb || c.Port != 8080 || c.Queue != "fifo" || c.OnError != "stop" {
		t.Fatalf("unexpected config %+v", c)
	}
	// untouched fields keep their defaults
	if c.FPS != 30 || c.Width != 1280 {
		t.Fatalf("defaults lost: %+v", c)
	}
	if c.Controls[v4l2.CtrlID(9963776)] != 40 || c.Controls[v4l2.CtrlID(10094850)] != 300 {
		t.Fatalf("controls = %v", c.Controls)
	}
	if c.CameraOptions().Settings[v4l2.CtrlID(9963776)] != 40 {
		t.Fatal("controls not passed to camera options")
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Host != HostFyne {
		t.Fatalf("Host = %q", c.Host)
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0660); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative device", func(c *Config) { c.Device = -1 }},
		{"backend", func(c *Config) { c.Backend = "dshow" }},
		{"host", func(c *Config) { c.Host = "tk" }},
		{"port", func(c *Config) { c.Port = 70000 }},
		{"canvas", func(c *Config) { c.Width = 0 }},
		{"fps", func(c *Config) { c.FPS = 0 }},
		{"interval", func(c *Config) { c.IntervalMs = -5 }},
		{"timeout", func(c *Config) { c.FrameTimeoutMs = -1 }},
		{"queue", func(c *Config) { c.Queue = "ring" }},
		{"policy", func(c *Config) { c.OnError = "retry" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("Validate() accepted a bad config")
			}
		})
	}
}

func TestSetInterval(t *testing.T) {
	c := DefaultConfig()
	if err := c.SetInterval(25 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if c.IntervalMs != 25 || c.Interval() != 25*time.Millisecond {
		t.Fatalf("IntervalMs = %d", c.IntervalMs)
	}
	for _, d := range []time.Duration{500 * time.Microsecond, 1500 * time.Microsecond, -time.Millisecond} {
		if err := c.SetInterval(d); err == nil {
			t.Fatalf("SetInterval(%s) accepted", d)
		}
	}
	if c.IntervalMs != 25 {
		t.Fatalf("rejected interval changed IntervalMs to %d", c.IntervalMs)
	}
	if err := c.SetInterval(0); err != nil || c.IntervalMs != 0 {
		t.Fatalf("SetInterval(0) = %v, IntervalMs %d", err, c.IntervalMs)
	}
}
