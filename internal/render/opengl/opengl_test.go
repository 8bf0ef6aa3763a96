package opengl_test

import (
	"os"
	"testing"

	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/render/opengl"
)

func TestName(t *testing.T) {
	if got := opengl.New().Name(); got != "OpenGL Rendering Subsystem" {
		t.Errorf("Name() = %q", got)
	}
}

func TestShutdownWithoutOpen(t *testing.T) {
	if err := opengl.New().Shutdown(); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestOpenDrawDestroy(t *testing.T) {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Skip("no display")
	}

	d := opengl.New()
	t.Cleanup(func() { d.Shutdown() })

	s, err := d.Open(render.DisplayOptions{Title: "test", Width: 64, Height: 48, ColourDepth: 32})
	if err != nil {
		t.Skipf("no GL 4.1 context: %v", err)
	}
	if d.Version() == "" {
		t.Error("Version() empty after Open")
	}

	f := &render.Frame{Number: 1, Width: 64, Height: 48}
	if err := s.Draw(f); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
}
