package ov

import (
	"github.com/vladimirvivien/go4vl/v4l2"
)

// Config describes one V4L2 control as reported by the device.
type Config struct {
	ID    v4l2.CtrlID    `json:"id"`
	Value v4l2.CtrlValue `json:"value"`
	Name  string         `json:"name"`

	IsMenu bool `json:"isMenu"`

	MenuItems []string `json:"menuItems,omitempty"`

	Minimum int32 `json:"minimum"`
	Maximum int32 `json:"maximum"`
	Step    int32 `json:"step"`
}

// Format is one pixel format a device advertises and the largest frame
// size it offers for it.
type Format struct {
	FourCC      string `json:"fourcc"`
	Description string `json:"description"`
	MaxWidth    uint32 `json:"maxWidth"`
	MaxHeight   uint32 `json:"maxHeight"`
}

// Probe is the report printed by cmd/probe.
type Probe struct {
	Device   string   `json:"device"`
	Formats  []Format `json:"formats"`
	Selected string   `json:"selected"`
	Controls []Config `json:"controls"`
}
