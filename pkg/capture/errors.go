package capture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDeviceOpen  = errors.New("capture: open camera")
	ErrStreamStart = errors.New("capture: start stream")
	ErrFrame       = errors.New("capture: frame")
	ErrDeviceLost  = errors.New("capture: camera lost")
	ErrChannel     = errors.New("capture: hand-off channel")
)

// Kind groups worker failures by how they are handled.
type Kind int

const (
	KindNone Kind = iota
	// KindInit is an open or stream start failure. Always fatal.
	KindInit
	// KindFrame is a single capture or decode failure.
	KindFrame
	// KindDeviceLost means the camera went away. Always fatal.
	KindDeviceLost
	// KindChannel means the receive side is gone. Always fatal.
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInit:
		return "init"
	case KindFrame:
		return "frame"
	case KindDeviceLost:
		return "device-lost"
	case KindChannel:
		return "channel"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf classifies an error returned by Handle.Join.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrDeviceOpen), errors.Is(err, ErrStreamStart):
		return KindInit
	case errors.Is(err, ErrDeviceLost):
		return KindDeviceLost
	case errors.Is(err, ErrChannel):
		return KindChannel
	default:
		return KindFrame
	}
}

// Policy decides what a per-frame failure does to the worker.
type Policy string

const (
	// PolicyStop ends the worker on the first frame error.
	PolicyStop Policy = "stop"
	// PolicySkip logs frame errors and keeps going until too many
	// happen in a row.
	PolicySkip Policy = "skip"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(s)); p {
	case PolicyStop, PolicySkip:
		return p, nil
	case "":
		return PolicySkip, nil
	}
	return "", fmt.Errorf("capture: unknown error policy %q", s)
}
