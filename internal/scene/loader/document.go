package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/seantiz/rssd/internal/render"
)

// Document is a decoded scene, independent of the file format it came from.
type Document struct {
	Name       string     `yaml:"name"`
	Background []float32  `yaml:"background,omitempty"`
	Camera     *CameraDoc `yaml:"camera,omitempty"`
	Nodes      []NodeDoc  `yaml:"nodes"`
}

// CameraDoc overrides the default camera. Zero fields keep the current value.
type CameraDoc struct {
	Position    []float32 `yaml:"position,omitempty"`
	LookAt      []float32 `yaml:"look_at,omitempty"`
	NearClip    float32   `yaml:"near_clip,omitempty"`
	FarClip     float32   `yaml:"far_clip,omitempty"`
	FOVyDegrees float32   `yaml:"fovy_degrees,omitempty"`
}

// NodeDoc is one node and its subtree.
type NodeDoc struct {
	Name     string      `yaml:"name"`
	Position []float32   `yaml:"position,omitempty"`
	Rotation []float32   `yaml:"rotation,omitempty"` // quaternion x, y, z, w
	Scale    []float32   `yaml:"scale,omitempty"`
	Entities []EntityDoc `yaml:"entities,omitempty"`
	Children []NodeDoc   `yaml:"children,omitempty"`
}

// EntityDoc is a drawable attached to a node.
type EntityDoc struct {
	Name   string    `yaml:"name"`
	Mesh   string    `yaml:"mesh,omitempty"`
	Colour []float32 `yaml:"colour,omitempty"`
	Min    []float32 `yaml:"min,omitempty"`
	Max    []float32 `yaml:"max,omitempty"`
}

// NodeCount returns the number of nodes in the document.
func (d *Document) NodeCount() int {
	var count func([]NodeDoc) int
	count = func(nodes []NodeDoc) int {
		n := len(nodes)
		for _, c := range nodes {
			n += count(c.Children)
		}
		return n
	}
	return count(d.Nodes)
}

// EntityCount returns the number of entities in the document.
func (d *Document) EntityCount() int {
	var count func([]NodeDoc) int
	count = func(nodes []NodeDoc) int {
		n := 0
		for _, c := range nodes {
			n += len(c.Entities) + count(c.Children)
		}
		return n
	}
	return count(d.Nodes)
}

func decodeYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene document")
		}
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if err := checkLen("background", d.Background, 3, 4); err != nil {
		return err
	}
	if c := d.Camera; c != nil {
		if err := checkLen("camera.position", c.Position, 3); err != nil {
			return err
		}
		if err := checkLen("camera.look_at", c.LookAt, 3); err != nil {
			return err
		}
		if c.NearClip < 0 || c.FarClip < 0 || c.FOVyDegrees < 0 || c.FOVyDegrees >= 180 {
			return fmt.Errorf("camera: clip distances and fovy must be positive")
		}
		if c.NearClip > 0 && c.FarClip > 0 && c.FarClip <= c.NearClip {
			return fmt.Errorf("camera: far clip %v must be beyond near clip %v", c.FarClip, c.NearClip)
		}
	}
	return validateNodes("nodes", d.Nodes)
}

func validateNodes(path string, nodes []NodeDoc) error {
	for i, n := range nodes {
		p := fmt.Sprintf("%s[%d]", path, i)
		if err := checkLen(p+".position", n.Position, 3); err != nil {
			return err
		}
		if err := checkLen(p+".rotation", n.Rotation, 4); err != nil {
			return err
		}
		if err := checkLen(p+".scale", n.Scale, 3); err != nil {
			return err
		}
		for j, e := range n.Entities {
			ep := fmt.Sprintf("%s.entities[%d]", p, j)
			if e.Name == "" {
				return fmt.Errorf("%s: name is required", ep)
			}
			if err := checkLen(ep+".colour", e.Colour, 3, 4); err != nil {
				return err
			}
			if err := checkLen(ep+".min", e.Min, 3); err != nil {
				return err
			}
			if err := checkLen(ep+".max", e.Max, 3); err != nil {
				return err
			}
			if (e.Min == nil) != (e.Max == nil) {
				return fmt.Errorf("%s: min and max must be given together", ep)
			}
		}
		if err := validateNodes(p+".children", n.Children); err != nil {
			return err
		}
	}
	return nil
}

// checkLen accepts an absent vector or one of the given lengths.
func checkLen(field string, v []float32, lengths ...int) error {
	if v == nil {
		return nil
	}
	for _, n := range lengths {
		if len(v) == n {
			return nil
		}
	}
	return fmt.Errorf("%s: want %v components, got %d", field, lengths, len(v))
}

func vec3(v []float32, def mgl32.Vec3) mgl32.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func quat(v []float32) mgl32.Quat {
	if len(v) != 4 {
		return mgl32.QuatIdent()
	}
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

func colour(v []float32, def render.Colour) render.Colour {
	switch len(v) {
	case 3:
		return render.RGB(v[0], v[1], v[2])
	case 4:
		return render.Colour{R: v[0], G: v[1], B: v[2], A: v[3]}
	default:
		return def
	}
}
