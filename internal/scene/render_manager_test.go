package scene_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/render/null"
	"github.com/seantiz/rssd/internal/scene"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func nullConfig() scene.Config {
	cfg := scene.DefaultConfig()
	cfg.RenderSystem = null.Name
	return cfg
}

func newManager(t *testing.T, d *null.Driver) *scene.RenderManager {
	t.Helper()
	reg := render.NewRegistry()
	reg.Register(d)
	m, err := scene.NewRenderManager(nullConfig(), reg, discardLogger())
	if err != nil {
		t.Fatalf("NewRenderManager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.scene")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

const boxScene = `name: box
nodes:
  - name: box
    entities:
      - name: cube
`

func TestNewRenderManagerDefaults(t *testing.T) {
	m := newManager(t, null.New())

	w := m.Window()
	if w.Title() != "RSSD" || w.Width() != 800 || w.Height() != 600 {
		t.Errorf("window = %q %dx%d, want RSSD 800x600", w.Title(), w.Width(), w.Height())
	}
	if v, _ := m.RenderSystem().ConfigOption(render.OptionFullScreen); v != "No" {
		t.Errorf("Full Screen = %q, want No", v)
	}

	cam := m.Camera()
	if cam.Name() != "DefaultCamera" {
		t.Errorf("camera name = %q", cam.Name())
	}
	if cam.Position() != (mgl32.Vec3{0, 0, 500}) {
		t.Errorf("camera position = %v", cam.Position())
	}
	if !cam.Direction().ApproxEqual(mgl32.Vec3{0, 0, -1}) {
		t.Errorf("camera direction = %v", cam.Direction())
	}
	if cam.NearClipDistance() != 5 {
		t.Errorf("near clip = %v, want 5", cam.NearClipDistance())
	}
	if got, want := cam.AspectRatio(), float32(800)/float32(600); got != want {
		t.Errorf("aspect = %v, want %v", got, want)
	}

	vp := m.Viewport()
	if vp.ZOrder() != 0 || vp.Background() != render.Black || vp.ActualWidth() != 800 || vp.ActualHeight() != 600 {
		t.Errorf("viewport = z %d, %+v, %dx%d", vp.ZOrder(), vp.Background(), vp.ActualWidth(), vp.ActualHeight())
	}
	if m.Current() != "" {
		t.Errorf("Current() = %q before any load", m.Current())
	}
}

func TestAspectFollowsSurfaceSize(t *testing.T) {
	m := newManager(t, null.New(null.WithSize(1000, 500)))
	if m.Camera().AspectRatio() != 2 {
		t.Errorf("aspect = %v, want 2", m.Camera().AspectRatio())
	}
}

func TestNewRenderManagerUnknownRenderSystem(t *testing.T) {
	d := null.New()
	reg := render.NewRegistry()
	reg.Register(d)

	cfg := nullConfig()
	cfg.RenderSystem = "Direct3D9 Rendering Subsystem"
	m, err := scene.NewRenderManager(cfg, reg, discardLogger())
	if !errors.Is(err, render.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
	if m != nil {
		t.Error("manager returned alongside an error")
	}
	if d.Stats().Opened != 0 {
		t.Error("a window was opened for an unknown render system")
	}
}

func TestNewRenderManagerReleasesOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		driver *null.Driver
		cfg    func(*scene.Config)
		opened int
	}{
		{
			name:   "window open fails",
			driver: null.New(null.WithOpenError(errors.New("no display"))),
			opened: 0,
		},
		{
			name:   "bad video mode",
			driver: null.New(),
			cfg:    func(c *scene.Config) { c.VideoMode = "huge" },
			opened: 0,
		},
		{
			name:   "unknown option",
			driver: null.New(),
			cfg:    func(c *scene.Config) { c.Options = map[string]string{"FSAA": "4"} },
			opened: 0,
		},
		{
			name:   "bad near clip",
			driver: null.New(),
			cfg:    func(c *scene.Config) { c.NearClip = -1 },
			opened: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := render.NewRegistry()
			reg.Register(tt.driver)
			cfg := nullConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			if _, err := scene.NewRenderManager(cfg, reg, discardLogger()); err == nil {
				t.Fatal("NewRenderManager succeeded, want error")
			}

			st := tt.driver.Stats()
			if st.Opened != tt.opened || st.Destroyed != tt.opened {
				t.Errorf("opened %d destroyed %d, want %d each", st.Opened, st.Destroyed, tt.opened)
			}
			if st.Shutdowns != 1 {
				t.Errorf("driver shutdowns = %d, want 1", st.Shutdowns)
			}
		})
	}
}

func TestLoadUpdateUnloadClose(t *testing.T) {
	d := null.New()
	m := newManager(t, d)
	path := writeScene(t, boxScene)

	if err := m.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Current() != path {
		t.Errorf("Current() = %q, want %q", m.Current(), path)
	}

	if err := m.Update(0); err != nil {
		t.Fatalf("Update: %v", err)
	}
	f := d.LastFrame()
	if f == nil || len(f.Viewports) != 1 || len(f.Viewports[0].Items) != 1 {
		t.Fatalf("frame = %+v, want one viewport with one item", f)
	}

	if err := m.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if m.SceneGraph().EntityCount() != 0 {
		t.Error("entities left after Unload")
	}

	root := m.Root()
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if root.LiveHandles() != 0 {
		t.Errorf("LiveHandles = %d after Close, want 0", root.LiveHandles())
	}
	want := null.Stats{Opened: 1, Destroyed: 1, Frames: 1, Shutdowns: 1}
	if got := d.Stats(); got != want {
		t.Errorf("driver stats = %+v, want %+v", got, want)
	}
	if m.Window() != nil || m.Camera() != nil || m.SceneGraph() != nil || m.Viewport() != nil {
		t.Error("accessors still return released objects after Close")
	}
}

func TestUnloadWithoutLoad(t *testing.T) {
	m := newManager(t, null.New())
	if err := m.Unload(); !errors.Is(err, scene.ErrNoSceneLoaded) {
		t.Errorf("Unload = %v, want ErrNoSceneLoaded", err)
	}

	if err := m.Load(writeScene(t, boxScene)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if err := m.Unload(); !errors.Is(err, scene.ErrNoSceneLoaded) {
		t.Errorf("second Unload = %v, want ErrNoSceneLoaded", err)
	}
}

func TestLoadReplacesScene(t *testing.T) {
	m := newManager(t, null.New())

	if err := m.Load(writeScene(t, boxScene)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	two := "nodes:\n  - name: a\n    entities: [{name: x}]\n  - name: b\n    entities: [{name: y}]\n"
	if err := m.Load(writeScene(t, two)); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if got := m.SceneGraph().EntityCount(); got != 2 {
		t.Errorf("EntityCount = %d, want 2", got)
	}
}

func TestLoadDecodeFailureKeepsScene(t *testing.T) {
	m := newManager(t, null.New())
	good := writeScene(t, boxScene)
	if err := m.Load(good); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := m.Load(filepath.Join(t.TempDir(), "missing.scene"))
	if !errors.Is(err, scene.ErrSceneLoadFailed) {
		t.Fatalf("Load missing = %v, want ErrSceneLoadFailed", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load missing = %v, want it to wrap ErrNotExist", err)
	}
	if m.Current() != good || m.SceneGraph().EntityCount() != 1 {
		t.Errorf("previous scene lost: current %q, %d entities", m.Current(), m.SceneGraph().EntityCount())
	}
}

func TestLoadBuildFailureClearsScene(t *testing.T) {
	m := newManager(t, null.New())
	if err := m.Load(writeScene(t, boxScene)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Decodes fine but cannot be applied: near clip beyond the camera's far clip.
	bad := writeScene(t, "camera:\n  near_clip: 200000\n")
	if err := m.Load(bad); !errors.Is(err, scene.ErrSceneLoadFailed) {
		t.Fatalf("Load = %v, want ErrSceneLoadFailed", err)
	}
	if m.Current() != "" || m.SceneGraph().EntityCount() != 0 {
		t.Errorf("after failed build: current %q, %d entities", m.Current(), m.SceneGraph().EntityCount())
	}
	if err := m.Unload(); !errors.Is(err, scene.ErrNoSceneLoaded) {
		t.Errorf("Unload = %v, want ErrNoSceneLoaded", err)
	}
}

func TestUpdateSurfaceLost(t *testing.T) {
	m := newManager(t, null.New(null.WithFailAfter(2)))
	for range 2 {
		if err := m.Update(0); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if err := m.Update(0); !errors.Is(err, render.ErrContextLost) {
		t.Errorf("Update = %v, want ErrContextLost", err)
	}
}

func TestOperationsAfterClose(t *testing.T) {
	m := newManager(t, null.New())
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if err := m.Load("x.scene"); !errors.Is(err, scene.ErrClosed) {
		t.Errorf("Load = %v, want ErrClosed", err)
	}
	if err := m.Unload(); !errors.Is(err, scene.ErrClosed) {
		t.Errorf("Unload = %v, want ErrClosed", err)
	}
	if err := m.Update(0); !errors.Is(err, scene.ErrClosed) {
		t.Errorf("Update = %v, want ErrClosed", err)
	}
}
