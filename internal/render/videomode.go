package render

import (
	"fmt"
	"regexp"
	"strconv"
)

// defaultColourDepth is used when a video mode string omits the depth.
const defaultColourDepth = 32

// videoModeRE accepts "800 x 600", "800 x 600 @ 16-bit colour" and "800x600@32-bit".
var videoModeRE = regexp.MustCompile(`^\s*(\d+)\s*x\s*(\d+)\s*(?:@\s*(\d+)-bit(?:\s+colou?r)?)?\s*$`)

// VideoMode is a window resolution and colour depth.
type VideoMode struct {
	Width       int
	Height      int
	ColourDepth int
}

// ParseVideoMode parses the "Video Mode" config option format.
func ParseVideoMode(s string) (VideoMode, error) {
	m := videoModeRE.FindStringSubmatch(s)
	if m == nil {
		return VideoMode{}, fmt.Errorf("%w: video mode %q", ErrInvalidOption, s)
	}

	// The regexp only admits digits, so Atoi can only fail on overflow.
	w, err := strconv.Atoi(m[1])
	if err != nil {
		return VideoMode{}, fmt.Errorf("%w: video mode width %q", ErrInvalidOption, m[1])
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return VideoMode{}, fmt.Errorf("%w: video mode height %q", ErrInvalidOption, m[2])
	}
	depth := defaultColourDepth
	if m[3] != "" {
		if depth, err = strconv.Atoi(m[3]); err != nil {
			return VideoMode{}, fmt.Errorf("%w: video mode depth %q", ErrInvalidOption, m[3])
		}
	}

	if w <= 0 || h <= 0 || depth <= 0 {
		return VideoMode{}, fmt.Errorf("%w: video mode %q has a zero dimension", ErrInvalidOption, s)
	}

	return VideoMode{Width: w, Height: h, ColourDepth: depth}, nil
}

// String formats the mode the way ParseVideoMode reads it.
func (m VideoMode) String() string {
	return fmt.Sprintf("%d x %d @ %d-bit colour", m.Width, m.Height, m.ColourDepth)
}
