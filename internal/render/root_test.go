package render_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/render/null"
)

func TestSelectRenderSystemUnknownClearsCurrent(t *testing.T) {
	root := newRoot(t, null.New())
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}

	if _, err := root.SelectRenderSystem("Direct3D9 Rendering Subsystem"); !errors.Is(err, render.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
	if root.RenderSystem() != nil {
		t.Error("RenderSystem() should be nil after a failed selection")
	}
}

func TestInitialiseWithoutRenderSystem(t *testing.T) {
	root := newRoot(t)
	if _, err := root.Initialise(true, "x"); !errors.Is(err, render.ErrNoRenderSystem) {
		t.Errorf("Initialise error = %v, want ErrNoRenderSystem", err)
	}
}

func TestInitialiseWithoutAutoWindow(t *testing.T) {
	root := newRoot(t, null.New())
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}
	w, err := root.Initialise(false, "x")
	if err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if w != nil || len(root.Windows()) != 0 {
		t.Error("Initialise(false) created a window")
	}
}

func TestCreateWindowOpenFailure(t *testing.T) {
	boom := errors.New("no display")
	root := newRoot(t, null.New(null.WithOpenError(boom)))
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}
	if _, err := root.CreateWindow("x"); !errors.Is(err, boom) {
		t.Errorf("CreateWindow error = %v, want %v", err, boom)
	}
	if root.LiveHandles() != 0 {
		t.Errorf("LiveHandles = %d after failed window, want 0", root.LiveHandles())
	}
}

func TestRenderOneFrame(t *testing.T) {
	d := null.New()
	root := newRoot(t, d)
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}

	if err := root.RenderOneFrame(); !errors.Is(err, render.ErrNoWindow) {
		t.Fatalf("RenderOneFrame without window = %v, want ErrNoWindow", err)
	}

	w, err := root.Initialise(true, "frame")
	if err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	g, err := root.CreateSceneGraph("main")
	if err != nil {
		t.Fatalf("CreateSceneGraph: %v", err)
	}
	cam, err := g.CreateCamera("cam")
	if err != nil {
		t.Fatalf("CreateCamera: %v", err)
	}
	vp, err := w.AddViewport(cam, 0)
	if err != nil {
		t.Fatalf("AddViewport: %v", err)
	}
	vp.SetBackgroundColour(render.RGB(0.2, 0.4, 0.6))
	g.RootNode().CreateChild("box").Attach(render.Entity{Name: "cube", Mesh: "cube.mesh"})

	for range 3 {
		if err := root.RenderOneFrame(); err != nil {
			t.Fatalf("RenderOneFrame: %v", err)
		}
	}
	if root.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", root.Frames())
	}

	f := d.LastFrame()
	if f == nil || f.Number != 3 {
		t.Fatalf("LastFrame = %+v, want frame 3", f)
	}
	if f.Width != 800 || f.Height != 600 || len(f.Viewports) != 1 {
		t.Fatalf("frame = %dx%d with %d viewports", f.Width, f.Height, len(f.Viewports))
	}
	vf := f.Viewports[0]
	if vf.Rect.Dx() != 800 || vf.Rect.Dy() != 600 {
		t.Errorf("viewport rect = %v, want full window", vf.Rect)
	}
	if vf.Background != render.RGB(0.2, 0.4, 0.6) {
		t.Errorf("viewport background = %+v", vf.Background)
	}
	if len(vf.Items) != 1 || vf.Items[0].Entity != "cube" || vf.Items[0].Node != "box" {
		t.Errorf("viewport items = %+v", vf.Items)
	}
}

func TestRenderOneFrameSurfaceLost(t *testing.T) {
	root := newRoot(t, null.New(null.WithFailAfter(1)))
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}
	if _, err := root.Initialise(true, "lost"); err != nil {
		t.Fatalf("Initialise: %v", err)
	}

	if err := root.RenderOneFrame(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	err := root.RenderOneFrame()
	if !errors.Is(err, render.ErrContextLost) || !errors.Is(err, render.ErrSurfaceLost) {
		t.Errorf("second frame error = %v, want ErrContextLost wrapping ErrSurfaceLost", err)
	}
	if root.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", root.Frames())
	}
}

func TestShutdownReleasesEverything(t *testing.T) {
	d := null.New()
	root := newRoot(t, d)
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}
	w, err := root.Initialise(true, "x")
	if err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	g, err := root.CreateSceneGraph("main")
	if err != nil {
		t.Fatalf("CreateSceneGraph: %v", err)
	}
	cam, err := g.CreateCamera("cam")
	if err != nil {
		t.Fatalf("CreateCamera: %v", err)
	}
	if _, err := w.AddViewport(cam, 0); err != nil {
		t.Fatalf("AddViewport: %v", err)
	}

	if got := root.LiveHandles(); got != 4 {
		t.Fatalf("LiveHandles = %d, want 4", got)
	}

	if err := root.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := root.LiveHandles(); got != 0 {
		t.Errorf("LiveHandles after Shutdown = %d, want 0", got)
	}
	if !w.IsDestroyed() {
		t.Error("window not destroyed by Shutdown")
	}

	if err := root.Shutdown(); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
	want := null.Stats{Opened: 1, Destroyed: 1, Shutdowns: 1}
	if got := d.Stats(); got != want {
		t.Errorf("driver stats = %+v, want %+v", got, want)
	}

	if _, err := root.CreateSceneGraph("again"); !errors.Is(err, render.ErrShutdown) {
		t.Errorf("CreateSceneGraph after Shutdown = %v, want ErrShutdown", err)
	}
	if err := root.RenderOneFrame(); !errors.Is(err, render.ErrShutdown) {
		t.Errorf("RenderOneFrame after Shutdown = %v, want ErrShutdown", err)
	}
}

func TestWindowViewports(t *testing.T) {
	root := newRoot(t, null.New(null.WithSize(200, 100)))
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}
	w, err := root.Initialise(true, "vp")
	if err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	g, _ := root.CreateSceneGraph("g")
	cam, _ := g.CreateCamera("cam")

	if _, err := w.AddViewport(nil, 0); err == nil {
		t.Error("AddViewport(nil) succeeded")
	}
	top, err := w.AddViewport(cam, 5)
	if err != nil {
		t.Fatalf("AddViewport z5: %v", err)
	}
	if _, err := w.AddViewport(cam, 5); !errors.Is(err, render.ErrZOrderInUse) {
		t.Errorf("duplicate z error = %v, want ErrZOrderInUse", err)
	}
	if _, err := w.AddViewport(cam, -1); err != nil {
		t.Fatalf("AddViewport z-1: %v", err)
	}

	vps := w.Viewports()
	if len(vps) != 2 || vps[0].ZOrder() != -1 || vps[1].ZOrder() != 5 {
		t.Errorf("Viewports() not sorted by z: %v", vps)
	}

	if top.Background() != render.Black {
		t.Errorf("default background = %+v, want black", top.Background())
	}
	if err := top.SetDimensions(0.5, 0, 0.5, 0.5); err != nil {
		t.Fatalf("SetDimensions: %v", err)
	}
	if top.ActualLeft() != 100 || top.ActualWidth() != 100 || top.ActualHeight() != 50 {
		t.Errorf("actual = %d,%d %dx%d", top.ActualLeft(), top.ActualTop(), top.ActualWidth(), top.ActualHeight())
	}
	if err := top.SetDimensions(0.6, 0, 0.5, 1); err == nil {
		t.Error("SetDimensions past the window edge succeeded")
	}

	before := root.LiveHandles()
	if err := w.RemoveViewport(5); err != nil {
		t.Fatalf("RemoveViewport: %v", err)
	}
	if root.LiveHandles() != before-1 {
		t.Errorf("LiveHandles = %d, want %d", root.LiveHandles(), before-1)
	}
	if err := w.RemoveViewport(5); err == nil {
		t.Error("second RemoveViewport succeeded")
	}
}

func TestDestroyedCameraDrawsBackgroundOnly(t *testing.T) {
	d := null.New()
	root := newRoot(t, d)
	if _, err := root.SelectRenderSystem(null.Name); err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}
	w, _ := root.Initialise(true, "x")
	g, _ := root.CreateSceneGraph("g")
	cam, _ := g.CreateCamera("cam")
	if _, err := w.AddViewport(cam, 0); err != nil {
		t.Fatalf("AddViewport: %v", err)
	}
	n := g.RootNode().CreateChild("n")
	n.SetPosition(mgl32.Vec3{1, 2, 3})
	n.Attach(render.Entity{Name: "e"})

	if err := g.DestroyCamera(cam); err != nil {
		t.Fatalf("DestroyCamera: %v", err)
	}
	if err := root.RenderOneFrame(); err != nil {
		t.Fatalf("RenderOneFrame: %v", err)
	}
	if items := d.LastFrame().Viewports[0].Items; len(items) != 0 {
		t.Errorf("items = %d, want 0 for a destroyed camera", len(items))
	}
}
