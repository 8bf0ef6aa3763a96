package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/scene"
)

// Display is the YAML display file: which render system to use and how to
// set up the window and default camera.
type Display struct {
	RenderSystem string            `yaml:"render_system,omitempty"`
	FullScreen   bool              `yaml:"full_screen,omitempty"`
	VideoMode    string            `yaml:"video_mode,omitempty"`
	Options      map[string]string `yaml:"options,omitempty"`
	WindowTitle  string            `yaml:"window_title,omitempty"`
	Camera       DisplayCamera     `yaml:"camera,omitempty"`
	Background   []float32         `yaml:"background,omitempty"`
}

// DisplayCamera overrides the default camera placement.
type DisplayCamera struct {
	Position []float32 `yaml:"position,omitempty"`
	LookAt   []float32 `yaml:"look_at,omitempty"`
	NearClip float32   `yaml:"near_clip,omitempty"`
}

// LoadDisplay reads the display file at path. A missing file yields an empty
// Display, which keeps every built-in default.
func LoadDisplay(path string) (*Display, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Display{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read display config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Display
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse display config %s: %w", path, err)
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("display config %s: %w", path, err)
	}
	return &d, nil
}

func (d *Display) validate() error {
	if d.VideoMode != "" {
		if _, err := render.ParseVideoMode(d.VideoMode); err != nil {
			return err
		}
	}
	for field, v := range map[string][]float32{
		"camera.position": d.Camera.Position,
		"camera.look_at":  d.Camera.LookAt,
	} {
		if v != nil && len(v) != 3 {
			return fmt.Errorf("%s: want 3 components, got %d", field, len(v))
		}
	}
	if d.Background != nil && len(d.Background) != 3 && len(d.Background) != 4 {
		return fmt.Errorf("background: want 3 or 4 components, got %d", len(d.Background))
	}
	if d.Camera.NearClip < 0 {
		return fmt.Errorf("camera.near_clip must be positive")
	}
	return nil
}

// SceneConfig overlays the display settings on scene.DefaultConfig.
func (d *Display) SceneConfig() scene.Config {
	cfg := scene.DefaultConfig()

	if d.RenderSystem != "" {
		cfg.RenderSystem = d.RenderSystem
	}
	cfg.FullScreen = d.FullScreen
	if d.VideoMode != "" {
		cfg.VideoMode = d.VideoMode
	}
	if len(d.Options) > 0 {
		cfg.Options = d.Options
	}
	if d.WindowTitle != "" {
		cfg.WindowTitle = d.WindowTitle
	}
	if v := d.Camera.Position; len(v) == 3 {
		cfg.CameraPosition = mgl32.Vec3{v[0], v[1], v[2]}
	}
	if v := d.Camera.LookAt; len(v) == 3 {
		cfg.CameraLookAt = mgl32.Vec3{v[0], v[1], v[2]}
	}
	if d.Camera.NearClip > 0 {
		cfg.NearClip = d.Camera.NearClip
	}
	switch v := d.Background; len(v) {
	case 3:
		cfg.Background = render.RGB(v[0], v[1], v[2])
	case 4:
		cfg.Background = render.Colour{R: v[0], G: v[1], B: v[2], A: v[3]}
	}
	return cfg
}
