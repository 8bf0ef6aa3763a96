package render

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneGraph owns the cameras and the node tree of one rendering context.
type SceneGraph struct {
	root      *Root
	name      string
	cameras   map[string]*Camera
	rootNode  *Node
	destroyed bool
}

func newSceneGraph(r *Root, name string) *SceneGraph {
	return &SceneGraph{
		root:     r,
		name:     name,
		cameras:  make(map[string]*Camera),
		rootNode: newNode(nil, "root"),
	}
}

// Name returns the scene graph name.
func (g *SceneGraph) Name() string { return g.name }

// CreateCamera creates a camera with default settings.
func (g *SceneGraph) CreateCamera(name string) (*Camera, error) {
	if g.destroyed {
		return nil, ErrShutdown
	}
	if _, ok := g.cameras[name]; ok {
		return nil, fmt.Errorf("camera %q: %w", name, ErrDuplicateName)
	}

	c := newCamera(g, name)
	g.cameras[name] = c
	g.root.acquire()
	return c, nil
}

// Camera returns the named camera.
func (g *SceneGraph) Camera(name string) (*Camera, bool) {
	c, ok := g.cameras[name]
	return c, ok
}

// DestroyCamera destroys a camera created by this graph. Viewports still
// showing it keep drawing their background only.
func (g *SceneGraph) DestroyCamera(c *Camera) error {
	if c == nil || c.graph != g {
		return fmt.Errorf("destroy camera: not owned by scene graph %q", g.name)
	}
	g.destroyCamera(c)
	return nil
}

func (g *SceneGraph) destroyCamera(c *Camera) {
	delete(g.cameras, c.name)
	c.graph = nil
	g.root.release()
}

func (g *SceneGraph) cameraNames() []string {
	names := make([]string, 0, len(g.cameras))
	for name := range g.cameras {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RootNode returns the root of the node tree.
func (g *SceneGraph) RootNode() *Node { return g.rootNode }

// ClearScene destroys every node and entity. Cameras are kept.
func (g *SceneGraph) ClearScene() {
	for _, child := range g.rootNode.children {
		child.parent = nil
	}
	g.rootNode.children = nil
	g.rootNode.entities = nil
}

// NodeCount returns the number of nodes below the root.
func (g *SceneGraph) NodeCount() int {
	n := 0
	g.rootNode.walk(mgl32.Ident4(), func(node *Node, _ mgl32.Mat4) {
		if node != g.rootNode {
			n++
		}
	})
	return n
}

// EntityCount returns the number of entities attached anywhere in the tree.
func (g *SceneGraph) EntityCount() int {
	n := 0
	g.rootNode.walk(mgl32.Ident4(), func(node *Node, _ mgl32.Mat4) {
		n += len(node.entities)
	})
	return n
}

func (g *SceneGraph) collect() []DrawItem {
	var items []DrawItem
	g.rootNode.walk(mgl32.Ident4(), func(node *Node, world mgl32.Mat4) {
		for _, e := range node.entities {
			lo, hi := e.Bounds()
			items = append(items, DrawItem{
				Node:   node.name,
				Entity: e.Name,
				Mesh:   e.Mesh,
				World:  world,
				Min:    lo,
				Max:    hi,
				Colour: e.Colour,
			})
		}
	})
	return items
}

// Entity is a drawable attached to a node. The renderer only knows its local
// bounds; an entity with empty bounds is drawn as the unit cube.
type Entity struct {
	Name   string
	Mesh   string
	Min    mgl32.Vec3
	Max    mgl32.Vec3
	Colour Colour
}

// Bounds returns the local bounds, defaulting to the unit cube.
func (e Entity) Bounds() (lo, hi mgl32.Vec3) {
	if e.Min == e.Max {
		return mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5}
	}
	return e.Min, e.Max
}

// Node is a transform in the scene graph with attached entities.
type Node struct {
	name        string
	parent      *Node
	children    []*Node
	position    mgl32.Vec3
	orientation mgl32.Quat
	scale       mgl32.Vec3
	entities    []Entity
}

func newNode(parent *Node, name string) *Node {
	return &Node{
		name:        name,
		parent:      parent,
		orientation: mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Parent returns the parent node, nil for the root or a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Entities returns the attached entities.
func (n *Node) Entities() []Entity { return slices.Clone(n.entities) }

// CreateChild creates and attaches a child node.
func (n *Node) CreateChild(name string) *Node {
	c := newNode(n, name)
	n.children = append(n.children, c)
	return c
}

// Attach attaches an entity to the node.
func (n *Node) Attach(e Entity) {
	n.entities = append(n.entities, e)
}

// Position returns the position relative to the parent.
func (n *Node) Position() mgl32.Vec3 { return n.position }

// SetPosition sets the position relative to the parent.
func (n *Node) SetPosition(p mgl32.Vec3) { n.position = p }

// Orientation returns the rotation relative to the parent.
func (n *Node) Orientation() mgl32.Quat { return n.orientation }

// SetOrientation sets the rotation relative to the parent.
func (n *Node) SetOrientation(q mgl32.Quat) { n.orientation = q.Normalize() }

// Scale returns the scale relative to the parent.
func (n *Node) Scale() mgl32.Vec3 { return n.scale }

// SetScale sets the scale relative to the parent.
func (n *Node) SetScale(s mgl32.Vec3) { n.scale = s }

// LocalMatrix returns translate * rotate * scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).
		Mul4(n.orientation.Mat4()).
		Mul4(mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z()))
}

// WorldMatrix returns the node transform composed with all its ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *Node) walk(parent mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	world := parent.Mul4(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.children {
		c.walk(world, fn)
	}
}
