// Package loader reads scene files and builds them into a render scene
// graph. YAML scene documents (.scene, .yaml, .yml) and glTF (.gltf, .glb)
// are supported.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/seantiz/rssd/internal/render"
)

var (
	// ErrUnsupportedFormat is returned for a file extension no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported scene format")

	// ErrMissingTarget is returned when a loader is built without a scene
	// graph or window to populate.
	ErrMissingTarget = errors.New("scene loader needs a scene graph and a window")

	// ErrNotInitialised is returned by CreateScene before a successful Initialise.
	ErrNotInitialised = errors.New("scene loader not initialised")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("scene loader closed")
)

// Formats lists the supported file extensions.
var Formats = []string{".scene", ".yaml", ".yml", ".gltf", ".glb"}

// Decode reads and validates a scene file without building it.
func Decode(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scene", ".yaml", ".yml":
		return decodeYAML(path)
	case ".gltf", ".glb":
		return decodeGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Loader builds decoded scenes into one scene graph and applies scene-level
// settings to the cameras and viewports of one window.
type Loader struct {
	graph  *render.SceneGraph
	window *render.Window
	doc    *Document
	path   string
	closed bool
}

// New creates a loader bound to graph and window.
func New(graph *render.SceneGraph, window *render.Window) (*Loader, error) {
	if graph == nil || window == nil {
		return nil, ErrMissingTarget
	}
	return &Loader{graph: graph, window: window}, nil
}

// Initialise decodes path and keeps the document for CreateScene. On failure
// the previously decoded document is discarded.
func (l *Loader) Initialise(path string) error {
	if l.closed {
		return ErrClosed
	}

	l.doc, l.path = nil, ""
	doc, err := Decode(path)
	if err != nil {
		return err
	}
	l.doc, l.path = doc, path
	return nil
}

// Document returns the decoded document, or nil.
func (l *Loader) Document() *Document {
	return l.doc
}

// CreateScene adds the decoded document's nodes below the scene graph root
// and applies its camera and background settings.
func (l *Loader) CreateScene() error {
	if l.closed {
		return ErrClosed
	}
	if l.doc == nil {
		return ErrNotInitialised
	}

	if err := l.applyCamera(); err != nil {
		return fmt.Errorf("%s: %w", l.path, err)
	}
	if l.doc.Background != nil {
		bg := colour(l.doc.Background, render.Black)
		for _, vp := range l.window.Viewports() {
			vp.SetBackgroundColour(bg)
		}
	}

	root := l.graph.RootNode()
	for _, n := range l.doc.Nodes {
		build(root, n)
	}
	return nil
}

func (l *Loader) applyCamera() error {
	c := l.doc.Camera
	if c == nil {
		return nil
	}

	for _, vp := range l.window.Viewports() {
		cam := vp.Camera()
		if c.Position != nil {
			cam.SetPosition(vec3(c.Position, cam.Position()))
		}
		if c.LookAt != nil {
			cam.LookAt(vec3(c.LookAt, mgl32.Vec3{}))
		}
		if err := setClip(cam, c.NearClip, c.FarClip); err != nil {
			return err
		}
		if c.FOVyDegrees > 0 {
			if err := cam.SetFOVy(mgl32.DegToRad(c.FOVyDegrees)); err != nil {
				return err
			}
		}
	}
	return nil
}

// setClip applies the non-zero clip distances in whichever order keeps near
// below far at every step.
func setClip(cam *render.Camera, near, far float32) error {
	setNear := func() error {
		if near > 0 {
			return cam.SetNearClipDistance(near)
		}
		return nil
	}
	setFar := func() error {
		if far > 0 {
			return cam.SetFarClipDistance(far)
		}
		return nil
	}

	first, second := setFar, setNear
	if near > 0 && near < cam.FarClipDistance() {
		first, second = setNear, setFar
	}
	if err := first(); err != nil {
		return err
	}
	return second()
}

func build(parent *render.Node, n NodeDoc) {
	node := parent.CreateChild(n.Name)
	node.SetPosition(vec3(n.Position, mgl32.Vec3{}))
	node.SetOrientation(quat(n.Rotation))
	node.SetScale(vec3(n.Scale, mgl32.Vec3{1, 1, 1}))

	for _, e := range n.Entities {
		node.Attach(render.Entity{
			Name:   e.Name,
			Mesh:   e.Mesh,
			Min:    vec3(e.Min, mgl32.Vec3{}),
			Max:    vec3(e.Max, mgl32.Vec3{}),
			Colour: colour(e.Colour, render.White),
		})
	}
	for _, c := range n.Children {
		build(node, c)
	}
}

// Close releases the decoded document. The scene graph and window are not
// touched; they belong to the caller.
func (l *Loader) Close() error {
	l.closed = true
	l.doc = nil
	return nil
}
