// Package config holds the viewer settings. Values come from an optional
// JSON file and are overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"camview/pkg/camera"
	"camview/pkg/capture"
	"camview/pkg/display"
	"camview/pkg/frame"
	"camview/pkg/handoff"
	"camview/pkg/types"
)

const (
	HostFyne = "fyne"
	HostWeb  = "web"
)

type Config struct {
	// Device is the camera index, DevicePath overrides the node it maps to.
	Device     int    `json:"device"`
	DevicePath string `json:"device_path"`
	Backend    string `json:"backend"`

	Host string `json:"host"`
	Port int    `json:"port"`

	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`

	IntervalMs           int    `json:"interval_ms"`
	FrameTimeoutMs       int    `json:"frame_timeout_ms"`
	Queue                string `json:"queue"`
	OnError              string `json:"on_error"`
	MaxConsecutiveErrors int    `json:"max_consecutive_errors"`

	LogLevel string `json:"log_level"`

	Controls types.CameraSettings `json:"controls"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:              "v4l2",
		Host:                 HostFyne,
		Port:                 9999,
		Width:                frame.CanvasWidth,
		Height:               frame.CanvasHeight,
		FPS:                  display.DefaultFPS,
		IntervalMs:           int(capture.DefaultInterval / time.Millisecond),
		FrameTimeoutMs:       int(camera.DefaultFrameTimeout / time.Millisecond),
		Queue:                string(handoff.ModeLatest),
		OnError:              string(capture.PolicySkip),
		MaxConsecutiveErrors: capture.DefaultMaxConsecutiveErrors,
		LogLevel:             "info",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err = json.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Device < 0 {
		errs = append(errs, fmt.Errorf("device index %d is negative", c.Device))
	}
	if _, err := camera.Backend(c.Backend, camera.Options{}); err != nil {
		errs = append(errs, err)
	}
	if c.Host != HostFyne && c.Host != HostWeb {
		errs = append(errs, fmt.Errorf("unknown host %q", c.Host))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas %dx%d is empty", c.Width, c.Height))
	}
	if c.FPS <= 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps %d out of range", c.FPS))
	}
	if c.IntervalMs < 0 {
		errs = append(errs, fmt.Errorf("interval %dms is negative", c.IntervalMs))
	}
	if c.FrameTimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("frame timeout %dms is negative", c.FrameTimeoutMs))
	}
	if _, err := handoff.New(handoff.Mode(c.Queue)); err != nil {
		errs = append(errs, err)
	}
	if _, err := capture.ParsePolicy(c.OnError); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SetInterval stores d, which must be a whole number of milliseconds.
func (c *Config) SetInterval(d time.Duration) error {
	if d < 0 || d%time.Millisecond != 0 {
		return fmt.Errorf("interval %s is not a whole number of milliseconds", d)
	}
	c.IntervalMs = int(d / time.Millisecond)
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

func (c *Config) FrameTimeout() time.Duration {
	return time.Duration(c.FrameTimeoutMs) * time.Millisecond
}

// CameraOptions collects the backend settings.
func (c *Config) CameraOptions() camera.Options {
	return camera.Options{
		Path:     c.DevicePath,
		Settings: c.Controls,
		Timeout:  c.FrameTimeout(),
	}
}

// Request is the format the worker asks the camera for.
func (c *Config) Request() camera.FormatRequest {
	return camera.FormatRequest{Width: c.Width, Height: c.Height, Policy: camera.HighestResolution}
}
