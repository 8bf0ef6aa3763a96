package render

import (
	"fmt"
	"image"
)

// Viewport is a rectangular region of a window drawn through one camera.
// Dimensions are relative to the window, in [0, 1].
type Viewport struct {
	window     *Window
	camera     *Camera
	zOrder     int
	left, top  float32
	width      float32
	height     float32
	background Colour
}

// Camera returns the camera the viewport shows.
func (v *Viewport) Camera() *Camera { return v.camera }

// ZOrder returns the viewport's z order within its window.
func (v *Viewport) ZOrder() int { return v.zOrder }

// Background returns the clear colour.
func (v *Viewport) Background() Colour { return v.background }

// SetBackgroundColour sets the clear colour.
func (v *Viewport) SetBackgroundColour(c Colour) {
	v.background = c
}

// SetDimensions sets the relative rectangle of the viewport.
func (v *Viewport) SetDimensions(left, top, width, height float32) error {
	if left < 0 || top < 0 || width <= 0 || height <= 0 || left+width > 1 || top+height > 1 {
		return fmt.Errorf("viewport dimensions (%v, %v, %v, %v) outside the window", left, top, width, height)
	}
	v.left, v.top, v.width, v.height = left, top, width, height
	return nil
}

// ActualLeft returns the left edge in pixels.
func (v *Viewport) ActualLeft() int { return int(v.left * float32(v.window.Width())) }

// ActualTop returns the top edge in pixels.
func (v *Viewport) ActualTop() int { return int(v.top * float32(v.window.Height())) }

// ActualWidth returns the width in pixels.
func (v *Viewport) ActualWidth() int { return int(v.width * float32(v.window.Width())) }

// ActualHeight returns the height in pixels.
func (v *Viewport) ActualHeight() int { return int(v.height * float32(v.window.Height())) }

// Rect returns the pixel rectangle with the origin at the window's top-left.
func (v *Viewport) Rect() image.Rectangle {
	x, y := v.ActualLeft(), v.ActualTop()
	return image.Rect(x, y, x+v.ActualWidth(), y+v.ActualHeight())
}
