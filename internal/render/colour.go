package render

import "github.com/go-gl/mathgl/mgl32"

// Colour is a linear RGBA colour with components in [0, 1].
type Colour struct {
	R, G, B, A float32
}

// Common colours.
var (
	Black = Colour{0, 0, 0, 1}
	White = Colour{1, 1, 1, 1}
	Grey  = Colour{0.5, 0.5, 0.5, 1}
)

// RGB returns an opaque colour.
func RGB(r, g, b float32) Colour {
	return Colour{R: r, G: g, B: b, A: 1}
}

// Vec4 returns the colour as an mgl32 vector, for shader uniforms.
func (c Colour) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}
