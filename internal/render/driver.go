package render

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// DisplayOptions are the settings a driver opens a surface with. They are
// derived from a RenderSystem's config options.
type DisplayOptions struct {
	Title       string
	Width       int
	Height      int
	ColourDepth int
	FullScreen  bool
	VSync       bool
}

// Driver is one render system: a concrete graphics backend that can open
// surfaces to draw frames on.
type Driver interface {
	// Name is the exact name render system selection matches against.
	Name() string

	// Open creates a native window (or offscreen target) and its context.
	Open(opts DisplayOptions) (Surface, error)

	// Shutdown releases process-wide driver state. Called once by Root.Shutdown
	// after every surface has been destroyed.
	Shutdown() error
}

// Surface is a drawable target owned by exactly one Window.
type Surface interface {
	// Size reports the drawable size in pixels.
	Size() (width, height int)

	// Draw renders one frame. It returns an error wrapping ErrSurfaceLost when
	// the surface can no longer be drawn to.
	Draw(f *Frame) error

	// Destroy releases the surface. Further calls are no-ops.
	Destroy() error
}

// Frame is everything a driver needs to draw one frame of one window.
type Frame struct {
	Number    uint64
	Width     int
	Height    int
	Viewports []ViewportFrame
}

// ViewportFrame is one viewport of a Frame, in ascending z order.
type ViewportFrame struct {
	ZOrder int

	// Rect is in pixels with the origin at the top-left of the window.
	Rect       image.Rectangle
	Background Colour
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Items      []DrawItem
}

// DrawItem is one entity flattened out of the scene graph.
type DrawItem struct {
	Node   string
	Entity string
	Mesh   string
	World  mgl32.Mat4
	Min    mgl32.Vec3
	Max    mgl32.Vec3
	Colour Colour
}

// Model maps the unit cube [-0.5, 0.5]^3 onto the item's bounds in world space.
func (d DrawItem) Model() mgl32.Mat4 {
	size := d.Max.Sub(d.Min)
	center := d.Min.Add(size.Mul(0.5))
	return d.World.
		Mul4(mgl32.Translate3D(center.X(), center.Y(), center.Z())).
		Mul4(mgl32.Scale3D(size.X(), size.Y(), size.Z()))
}
