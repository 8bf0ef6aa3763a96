package render

import (
	"fmt"
	"slices"
)

// Window is a render target backed by a driver Surface.
type Window struct {
	root      *Root
	title     string
	surface   Surface
	viewports map[int]*Viewport
	destroyed bool
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// Width returns the drawable width in pixels.
func (w *Window) Width() int {
	width, _ := w.surface.Size()
	return width
}

// Height returns the drawable height in pixels.
func (w *Window) Height() int {
	_, height := w.surface.Size()
	return height
}

// Surface returns the driver surface.
func (w *Window) Surface() Surface {
	return w.surface
}

// AddViewport attaches a full-window viewport showing cam at zOrder.
func (w *Window) AddViewport(cam *Camera, zOrder int) (*Viewport, error) {
	if w.destroyed {
		return nil, ErrShutdown
	}
	if cam == nil {
		return nil, fmt.Errorf("add viewport: nil camera")
	}
	if _, ok := w.viewports[zOrder]; ok {
		return nil, fmt.Errorf("add viewport at z %d: %w", zOrder, ErrZOrderInUse)
	}

	vp := &Viewport{
		window:     w,
		camera:     cam,
		zOrder:     zOrder,
		width:      1,
		height:     1,
		background: Black,
	}
	w.viewports[zOrder] = vp
	w.root.acquire()
	return vp, nil
}

// Viewport returns the viewport at zOrder.
func (w *Window) Viewport(zOrder int) (*Viewport, bool) {
	vp, ok := w.viewports[zOrder]
	return vp, ok
}

// Viewports returns all viewports in ascending z order.
func (w *Window) Viewports() []*Viewport {
	out := make([]*Viewport, 0, len(w.viewports))
	for _, vp := range w.viewports {
		out = append(out, vp)
	}
	slices.SortFunc(out, func(a, b *Viewport) int { return a.zOrder - b.zOrder })
	return out
}

// RemoveViewport detaches the viewport at zOrder.
func (w *Window) RemoveViewport(zOrder int) error {
	if _, ok := w.viewports[zOrder]; !ok {
		return fmt.Errorf("remove viewport: no viewport at z %d", zOrder)
	}
	delete(w.viewports, zOrder)
	w.root.release()
	return nil
}

// Destroy removes every viewport and destroys the surface. Further calls are
// no-ops.
func (w *Window) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true

	for z := range w.viewports {
		delete(w.viewports, z)
		w.root.release()
	}

	err := w.surface.Destroy()
	w.root.removeWindow(w)
	w.root.release()
	if err != nil {
		return fmt.Errorf("destroy window %q: %w", w.title, err)
	}
	return nil
}

// IsDestroyed reports whether Destroy has been called.
func (w *Window) IsDestroyed() bool {
	return w.destroyed
}

func (w *Window) buildFrame(n uint64) *Frame {
	width, height := w.surface.Size()
	f := &Frame{Number: n, Width: width, Height: height}

	for _, vp := range w.Viewports() {
		cam := vp.camera
		vf := ViewportFrame{
			ZOrder:     vp.zOrder,
			Rect:       vp.Rect(),
			Background: vp.background,
			View:       cam.ViewMatrix(),
			Projection: cam.ProjectionMatrix(),
		}
		if cam.graph != nil {
			vf.Items = cam.graph.collect()
		}
		f.Viewports = append(f.Viewports, vf)
	}
	return f
}
