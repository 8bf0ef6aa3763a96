package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/scene/loader"
)

// viewportZ is the z order of the single full-window viewport.
const viewportZ = 0

// RenderManager is a Manager backed by a render.Root. It owns one window,
// one scene graph, one camera, one viewport and one scene loader, and renders
// exactly one frame per Update. It is not safe for concurrent use.
type RenderManager struct {
	cfg    Config
	logger *slog.Logger

	root     *render.Root
	system   *render.RenderSystem
	window   *render.Window
	graph    *render.SceneGraph
	camera   *render.Camera
	viewport *render.Viewport
	loader   *loader.Loader

	current string
	closed  bool
}

var _ Manager = (*RenderManager)(nil)

// NewRenderManager builds a complete render context from cfg using the
// render systems in reg. Construction is all-or-nothing: if any step fails,
// everything acquired so far is released in reverse order and the error is
// returned. An unknown render system name fails with an error wrapping
// render.ErrBackendUnavailable.
func NewRenderManager(cfg Config, reg *render.Registry, logger *slog.Logger) (*RenderManager, error) {
	m := &RenderManager{
		cfg:    cfg,
		logger: logger,
		root:   render.NewRoot(reg, logger),
	}

	if err := m.setup(); err != nil {
		if rerr := m.release(); rerr != nil {
			logger.Error("release after failed setup", "error", rerr)
		}
		m.closed = true
		return nil, err
	}

	logger.Info("render manager ready",
		"render_system", m.system.Name(),
		"width", m.window.Width(),
		"height", m.window.Height(),
	)
	return m, nil
}

func (m *RenderManager) setup() error {
	rs, err := m.root.SelectRenderSystem(m.cfg.RenderSystem)
	if err != nil {
		m.logger.Error("render system not available",
			"requested", m.cfg.RenderSystem,
			"available", driverNames(m.root.AvailableRenderers()),
		)
		return err
	}
	m.system = rs

	if err := rs.SetConfigOption(render.OptionFullScreen, yesNo(m.cfg.FullScreen)); err != nil {
		return err
	}
	if m.cfg.VideoMode != "" {
		if err := rs.SetConfigOption(render.OptionVideoMode, m.cfg.VideoMode); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(m.cfg.Options)) {
		if err := rs.SetConfigOption(name, m.cfg.Options[name]); err != nil {
			return err
		}
	}

	w, err := m.root.Initialise(true, m.cfg.WindowTitle)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	m.window = w

	g, err := m.root.CreateSceneGraph(m.cfg.SceneGraph)
	if err != nil {
		return fmt.Errorf("create scene graph: %w", err)
	}
	m.graph = g

	cam, err := g.CreateCamera(m.cfg.CameraName)
	if err != nil {
		return fmt.Errorf("create camera: %w", err)
	}
	m.camera = cam
	cam.SetPosition(m.cfg.CameraPosition)
	cam.LookAt(m.cfg.CameraLookAt)
	if err := cam.SetNearClipDistance(m.cfg.NearClip); err != nil {
		return fmt.Errorf("camera: %w", err)
	}

	vp, err := w.AddViewport(cam, viewportZ)
	if err != nil {
		return fmt.Errorf("add viewport: %w", err)
	}
	m.viewport = vp
	vp.SetBackgroundColour(m.cfg.Background)

	if vp.ActualHeight() == 0 {
		return fmt.Errorf("viewport has zero height")
	}
	if err := cam.SetAspectRatio(float32(vp.ActualWidth()) / float32(vp.ActualHeight())); err != nil {
		return fmt.Errorf("camera: %w", err)
	}

	l, err := loader.New(g, w)
	if err != nil {
		return fmt.Errorf("create scene loader: %w", err)
	}
	m.loader = l
	return nil
}

// Load decodes path and replaces the current scene with it. If the file
// cannot be decoded the current scene is kept; if building it fails the
// scene graph is left empty. Errors wrap ErrSceneLoadFailed.
func (m *RenderManager) Load(path string) error {
	if m.closed {
		return ErrClosed
	}

	if err := m.loader.Initialise(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSceneLoadFailed, path, err)
	}

	m.graph.ClearScene()
	m.current = ""
	if err := m.loader.CreateScene(); err != nil {
		m.graph.ClearScene()
		return fmt.Errorf("%w: %s: %w", ErrSceneLoadFailed, path, err)
	}

	m.current = path
	m.logger.Info("scene loaded",
		"path", path,
		"nodes", m.graph.NodeCount(),
		"entities", m.graph.EntityCount(),
	)
	return nil
}

// Unload clears the scene graph. Cameras, the window and the viewport stay.
func (m *RenderManager) Unload() error {
	if m.closed {
		return ErrClosed
	}
	if m.current == "" {
		return ErrNoSceneLoaded
	}

	m.graph.ClearScene()
	m.logger.Info("scene unloaded", "path", m.current)
	m.current = ""
	return nil
}

// Update renders one frame.
func (m *RenderManager) Update(_ time.Duration) error {
	if m.closed {
		return ErrClosed
	}
	return m.root.RenderOneFrame()
}

// Close releases the loader, viewport, camera, scene graph, window and
// render system in that order, then shuts the root down. It is safe to call
// more than once.
func (m *RenderManager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.current = ""
	return m.release()
}

func (m *RenderManager) release() error {
	var errs []error

	if m.loader != nil {
		if err := m.loader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close scene loader: %w", err))
		}
		m.loader = nil
	}
	if m.viewport != nil {
		if err := m.window.RemoveViewport(m.viewport.ZOrder()); err != nil {
			errs = append(errs, err)
		}
		m.viewport = nil
	}
	if m.camera != nil {
		if err := m.graph.DestroyCamera(m.camera); err != nil {
			errs = append(errs, err)
		}
		m.camera = nil
	}
	if m.graph != nil {
		m.root.DestroySceneGraph(m.graph)
		m.graph = nil
	}
	if m.window != nil {
		if err := m.window.Destroy(); err != nil {
			errs = append(errs, err)
		}
		m.window = nil
	}

	// Shutdown stops the selected render system before marking the root done.
	m.system = nil
	if err := m.root.Shutdown(); err != nil {
		errs = append(errs, err)
	}

	if live := m.root.LiveHandles(); live != 0 {
		errs = append(errs, fmt.Errorf("%d render handles still live after shutdown", live))
	}
	return errors.Join(errs...)
}

// Current returns the path of the loaded scene, or "".
func (m *RenderManager) Current() string { return m.current }

// Root returns the render root.
func (m *RenderManager) Root() *render.Root { return m.root }

// RenderSystem returns the selected render system, or nil after Close.
func (m *RenderManager) RenderSystem() *render.RenderSystem { return m.system }

// Window returns the render window, or nil after Close.
func (m *RenderManager) Window() *render.Window { return m.window }

// SceneGraph returns the scene graph, or nil after Close.
func (m *RenderManager) SceneGraph() *render.SceneGraph { return m.graph }

// Camera returns the default camera, or nil after Close.
func (m *RenderManager) Camera() *render.Camera { return m.camera }

// Viewport returns the full-window viewport, or nil after Close.
func (m *RenderManager) Viewport() *render.Viewport { return m.viewport }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func driverNames(ds []render.Driver) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name()
	}
	return names
}
