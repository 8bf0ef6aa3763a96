package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults.
const (
	DefaultNearClip = 100
	DefaultFarClip  = 100000
	DefaultAspect   = 4.0 / 3.0
)

// DefaultFOVy is the vertical field of view in radians.
var DefaultFOVy = mgl32.DegToRad(45)

// Camera is a perspective camera owned by a SceneGraph.
type Camera struct {
	name      string
	graph     *SceneGraph
	position  mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3
	near, far float32
	fovy      float32
	aspect    float32
}

func newCamera(g *SceneGraph, name string) *Camera {
	return &Camera{
		name:      name,
		graph:     g,
		direction: mgl32.Vec3{0, 0, -1},
		up:        mgl32.Vec3{0, 1, 0},
		near:      DefaultNearClip,
		far:       DefaultFarClip,
		fovy:      DefaultFOVy,
		aspect:    DefaultAspect,
	}
}

// Name returns the camera name.
func (c *Camera) Name() string { return c.name }

// Position returns the camera position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Direction returns the normalized view direction.
func (c *Camera) Direction() mgl32.Vec3 { return c.direction }

// NearClipDistance returns the near clip distance.
func (c *Camera) NearClipDistance() float32 { return c.near }

// FarClipDistance returns the far clip distance.
func (c *Camera) FarClipDistance() float32 { return c.far }

// FOVy returns the vertical field of view in radians.
func (c *Camera) FOVy() float32 { return c.fovy }

// AspectRatio returns width / height.
func (c *Camera) AspectRatio() float32 { return c.aspect }

// SetPosition moves the camera without changing its direction.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
}

// LookAt points the camera at target. A target equal to the position leaves
// the direction unchanged.
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.position)
	if d.Len() == 0 {
		return
	}
	c.direction = d.Normalize()
}

// SetNearClipDistance sets the near clip plane distance.
func (c *Camera) SetNearClipDistance(d float32) error {
	if !(d > 0) || d >= c.far {
		return fmt.Errorf("near clip %v must be in (0, %v)", d, c.far)
	}
	c.near = d
	return nil
}

// SetFarClipDistance sets the far clip plane distance.
func (c *Camera) SetFarClipDistance(d float32) error {
	if !(d > c.near) || math.IsInf(float64(d), 0) {
		return fmt.Errorf("far clip %v must be finite and beyond near clip %v", d, c.near)
	}
	c.far = d
	return nil
}

// SetFOVy sets the vertical field of view in radians.
func (c *Camera) SetFOVy(rad float32) error {
	if !(rad > 0) || rad >= math.Pi {
		return fmt.Errorf("fovy %v must be in (0, pi)", rad)
	}
	c.fovy = rad
	return nil
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(a float32) error {
	if !(a > 0) || math.IsInf(float64(a), 0) {
		return fmt.Errorf("aspect ratio %v must be positive and finite", a)
	}
	c.aspect = a
	return nil
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	up := c.up
	if abs32(c.direction.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	return mgl32.LookAtV(c.position, c.position.Add(c.direction), up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.fovy, c.aspect, c.near, c.far)
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
