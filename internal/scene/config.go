package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/seantiz/rssd/internal/render"
)

// Config describes how a RenderManager sets up its render context.
type Config struct {
	// RenderSystem is matched exactly against registered render system names.
	RenderSystem string

	// Options are applied after FullScreen and VideoMode.
	Options map[string]string

	FullScreen bool
	VideoMode  string

	WindowTitle string
	SceneGraph  string

	CameraName     string
	CameraPosition mgl32.Vec3
	CameraLookAt   mgl32.Vec3
	NearClip       float32

	Background render.Colour
}

// DefaultConfig returns the stock setup: a windowed 800x600 OpenGL context
// titled "RSSD" with the default camera at (0, 0, 500) looking down -Z.
func DefaultConfig() Config {
	return Config{
		RenderSystem:   "OpenGL Rendering Subsystem",
		FullScreen:     false,
		VideoMode:      render.DefaultVideoMode,
		WindowTitle:    "RSSD",
		SceneGraph:     "Default SceneManager",
		CameraName:     "DefaultCamera",
		CameraPosition: mgl32.Vec3{0, 0, 500},
		CameraLookAt:   mgl32.Vec3{0, 0, -300},
		NearClip:       5,
		Background:     render.Black,
	}
}
