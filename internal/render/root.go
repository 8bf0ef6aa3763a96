package render

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Root is a render context: the selected render system and every window and
// scene graph created through it. A Root is owned by exactly one scene
// manager and is never shared.
type Root struct {
	registry *Registry
	logger   *slog.Logger

	system   *RenderSystem
	windows  []*Window
	graphs   map[string]*SceneGraph
	handles  int
	frames   uint64
	shutdown bool
}

// NewRoot creates a render context that selects render systems from reg.
func NewRoot(reg *Registry, logger *slog.Logger) *Root {
	return &Root{
		registry: reg,
		logger:   logger,
		graphs:   make(map[string]*SceneGraph),
	}
}

// AvailableRenderers returns the render systems this root can select, in
// registration order.
func (r *Root) AvailableRenderers() []Driver {
	return r.registry.Available()
}

// SelectRenderSystem picks the first render system named exactly name and
// makes it current. On failure the root is left without a render system.
func (r *Root) SelectRenderSystem(name string) (*RenderSystem, error) {
	if r.shutdown {
		return nil, ErrShutdown
	}

	d, err := r.registry.Select(name)
	if err != nil {
		r.system = nil
		return nil, err
	}

	rs := newRenderSystem(d)
	r.system = rs
	r.logger.Debug("render system selected", "render_system", rs.Name())
	return rs, nil
}

// SetRenderSystem makes rs current.
func (r *Root) SetRenderSystem(rs *RenderSystem) {
	r.system = rs
}

// RenderSystem returns the current render system, or nil.
func (r *Root) RenderSystem() *RenderSystem {
	return r.system
}

// Initialise finishes setting up the root. When autoCreateWindow is set it
// opens the default window with the render system's display options;
// otherwise it returns a nil window.
func (r *Root) Initialise(autoCreateWindow bool, title string) (*Window, error) {
	if r.shutdown {
		return nil, ErrShutdown
	}
	if r.system == nil {
		return nil, ErrNoRenderSystem
	}
	if !autoCreateWindow {
		return nil, nil
	}
	return r.CreateWindow(title)
}

// CreateWindow opens a new window on the current render system.
func (r *Root) CreateWindow(title string) (*Window, error) {
	if r.shutdown {
		return nil, ErrShutdown
	}
	if r.system == nil {
		return nil, ErrNoRenderSystem
	}

	opts, err := r.system.DisplayOptions(title)
	if err != nil {
		return nil, fmt.Errorf("display options: %w", err)
	}

	surface, err := r.system.driver.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s surface: %w", r.system.Name(), err)
	}

	w := &Window{
		root:      r,
		title:     title,
		surface:   surface,
		viewports: make(map[int]*Viewport),
	}
	r.windows = append(r.windows, w)
	r.acquire()

	r.logger.Debug("window created", "title", title, "width", opts.Width, "height", opts.Height)
	return w, nil
}

// Windows returns the open windows in creation order.
func (r *Root) Windows() []*Window {
	return slices.Clone(r.windows)
}

// CreateSceneGraph creates a named scene graph.
func (r *Root) CreateSceneGraph(name string) (*SceneGraph, error) {
	if r.shutdown {
		return nil, ErrShutdown
	}
	if _, ok := r.graphs[name]; ok {
		return nil, fmt.Errorf("scene graph %q: %w", name, ErrDuplicateName)
	}

	g := newSceneGraph(r, name)
	r.graphs[name] = g
	r.acquire()
	return g, nil
}

// DestroySceneGraph destroys g together with its cameras and nodes.
func (r *Root) DestroySceneGraph(g *SceneGraph) {
	if g == nil || g.destroyed {
		return
	}

	for _, name := range g.cameraNames() {
		g.destroyCamera(g.cameras[name])
	}
	g.ClearScene()
	g.destroyed = true

	delete(r.graphs, g.name)
	r.release()
}

// RenderOneFrame draws one frame into every window. A lost surface is
// reported as an error wrapping both ErrContextLost and ErrSurfaceLost.
func (r *Root) RenderOneFrame() error {
	if r.shutdown {
		return ErrShutdown
	}
	if len(r.windows) == 0 {
		return ErrNoWindow
	}

	n := r.frames + 1
	for _, w := range r.windows {
		if err := w.surface.Draw(w.buildFrame(n)); err != nil {
			if errors.Is(err, ErrSurfaceLost) {
				return fmt.Errorf("%w: window %q: %w", ErrContextLost, w.title, err)
			}
			return fmt.Errorf("draw window %q: %w", w.title, err)
		}
	}

	r.frames = n
	return nil
}

// Frames returns the number of frames rendered so far.
func (r *Root) Frames() uint64 {
	return r.frames
}

// LiveHandles returns the number of windows, scene graphs, cameras and
// viewports that have been created and not yet released.
func (r *Root) LiveHandles() int {
	return r.handles
}

// Shutdown releases everything still alive and shuts the render system down.
// It is safe to call more than once.
func (r *Root) Shutdown() error {
	if r.shutdown {
		return nil
	}

	if r.handles > 0 {
		r.logger.Warn("releasing live render handles at shutdown", "live_handles", r.handles)
	}

	var errs []error
	for len(r.windows) > 0 {
		if err := r.windows[len(r.windows)-1].Destroy(); err != nil {
			errs = append(errs, err)
		}
	}

	names := make([]string, 0, len(r.graphs))
	for name := range r.graphs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		r.DestroySceneGraph(r.graphs[name])
	}

	if r.system != nil {
		if err := r.system.driver.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", r.system.Name(), err))
		}
		r.system = nil
	}

	r.shutdown = true
	return errors.Join(errs...)
}

func (r *Root) acquire() { r.handles++ }
func (r *Root) release() { r.handles-- }

func (r *Root) removeWindow(w *Window) {
	r.windows = slices.DeleteFunc(r.windows, func(x *Window) bool { return x == w })
}
