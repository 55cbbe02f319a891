package camera

import (
	"fmt"
	"sort"
)

type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s Size) area() int {
	return s.Width * s.Height
}

// pickResolution applies req.Policy to the sizes a device advertises.
// When nothing qualifies the request itself is returned and the driver
// gets to round it.
func pickResolution(sizes []Size, req FormatRequest) Size {
	want := Size{Width: req.Width, Height: req.Height}
	if req.Policy != HighestResolution || len(sizes) == 0 {
		return want
	}

	candidates := make([]Size, 0, len(sizes))
	for _, s := range sizes {
		if s.Width >= req.Width && s.Height >= req.Height {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return want
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].area() != candidates[j].area() {
			return candidates[i].area() > candidates[j].area()
		}
		return candidates[i].Width > candidates[j].Width
	})

	return candidates[0]
}

// satisfies reports whether any size is at or above the request.
func satisfies(sizes []Size, req FormatRequest) bool {
	for _, s := range sizes {
		if s.Width >= req.Width && s.Height >= req.Height {
			return true
		}
	}
	return false
}
