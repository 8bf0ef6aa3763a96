package render_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/render/null"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newRoot(t *testing.T, drivers ...render.Driver) *render.Root {
	t.Helper()
	reg := render.NewRegistry()
	for _, d := range drivers {
		reg.Register(d)
	}
	root := render.NewRoot(reg, discardLogger())
	t.Cleanup(func() { root.Shutdown() })
	return root
}

func TestRenderSystemDefaults(t *testing.T) {
	root := newRoot(t, null.New())
	rs, err := root.SelectRenderSystem(null.Name)
	if err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}

	opts := rs.ConfigOptions()
	if opts[render.OptionFullScreen] != "No" {
		t.Errorf("Full Screen = %q, want No", opts[render.OptionFullScreen])
	}
	if opts[render.OptionVideoMode] != render.DefaultVideoMode {
		t.Errorf("Video Mode = %q, want %q", opts[render.OptionVideoMode], render.DefaultVideoMode)
	}

	d, err := rs.DisplayOptions("t")
	if err != nil {
		t.Fatalf("DisplayOptions: %v", err)
	}
	want := render.DisplayOptions{Title: "t", Width: 800, Height: 600, ColourDepth: 32, VSync: true}
	if d != want {
		t.Errorf("DisplayOptions = %+v, want %+v", d, want)
	}
}

func TestSetConfigOption(t *testing.T) {
	root := newRoot(t, null.New())
	rs, err := root.SelectRenderSystem(null.Name)
	if err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}

	if err := rs.SetConfigOption(render.OptionFullScreen, "Yes"); err != nil {
		t.Fatalf("set Full Screen: %v", err)
	}
	if err := rs.SetConfigOption(render.OptionVideoMode, "1024 x 768"); err != nil {
		t.Fatalf("set Video Mode: %v", err)
	}
	if v, _ := rs.ConfigOption(render.OptionVideoMode); v != "1024 x 768" {
		t.Errorf("Video Mode = %q", v)
	}

	d, err := rs.DisplayOptions("t")
	if err != nil {
		t.Fatalf("DisplayOptions: %v", err)
	}
	if !d.FullScreen || d.Width != 1024 || d.Height != 768 {
		t.Errorf("DisplayOptions = %+v", d)
	}
}

func TestSetConfigOptionRejects(t *testing.T) {
	root := newRoot(t, null.New())
	rs, err := root.SelectRenderSystem(null.Name)
	if err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}

	if err := rs.SetConfigOption("Anti Aliasing", "8"); !errors.Is(err, render.ErrUnknownOption) {
		t.Errorf("unknown option error = %v, want ErrUnknownOption", err)
	}
	if err := rs.SetConfigOption(render.OptionFullScreen, "maybe"); !errors.Is(err, render.ErrInvalidOption) {
		t.Errorf("bad Full Screen error = %v, want ErrInvalidOption", err)
	}
	if err := rs.SetConfigOption(render.OptionVideoMode, "huge"); !errors.Is(err, render.ErrInvalidOption) {
		t.Errorf("bad Video Mode error = %v, want ErrInvalidOption", err)
	}

	if v, _ := rs.ConfigOption(render.OptionFullScreen); v != "No" {
		t.Errorf("rejected value was stored: Full Screen = %q", v)
	}
}

func TestConfigOptionsIsACopy(t *testing.T) {
	root := newRoot(t, null.New())
	rs, err := root.SelectRenderSystem(null.Name)
	if err != nil {
		t.Fatalf("SelectRenderSystem: %v", err)
	}

	opts := rs.ConfigOptions()
	opts[render.OptionVideoMode] = "garbage"
	if v, _ := rs.ConfigOption(render.OptionVideoMode); v != render.DefaultVideoMode {
		t.Errorf("mutating ConfigOptions() changed the render system: %q", v)
	}
}
