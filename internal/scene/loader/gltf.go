package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// decodeGLTF reads a .gltf or .glb file into a Document. Only the node
// hierarchy and per-mesh bounds are kept; vertex data is never loaded into
// the scene graph since entities are drawn as their bounding boxes.
func decodeGLTF(path string) (*Document, error) {
	g, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	doc := &Document{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	roots, err := gltfRoots(g)
	if err != nil {
		return nil, err
	}

	visiting := make(map[int]bool)
	for _, idx := range roots {
		n, err := gltfNode(g, idx, visiting)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// gltfRoots returns the root node indices of the default scene. Without a
// default scene the first scene is used, and without scenes every node that
// is nobody's child.
func gltfRoots(g *gltf.Document) ([]int, error) {
	if g.Scene != nil {
		sc, ok := at(g.Scenes, *g.Scene)
		if !ok || sc == nil {
			return nil, fmt.Errorf("default scene %d out of range", *g.Scene)
		}
		return ints(sc.Nodes), nil
	}
	if len(g.Scenes) > 0 && g.Scenes[0] != nil {
		return ints(g.Scenes[0].Nodes), nil
	}

	child := make(map[int]bool)
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var roots []int
	for i := range g.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

func gltfNode(g *gltf.Document, idx int, visiting map[int]bool) (NodeDoc, error) {
	n, ok := at(g.Nodes, idx)
	if !ok || n == nil {
		return NodeDoc{}, fmt.Errorf("node %d out of range", idx)
	}
	if visiting[idx] {
		return NodeDoc{}, fmt.Errorf("node %d is its own ancestor", idx)
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	out := NodeDoc{Name: n.Name}
	if out.Name == "" {
		out.Name = fmt.Sprintf("node%d", idx)
	}

	pos, rot, scale := nodeTRS(n)
	out.Position = pos[:]
	out.Rotation = []float32{rot.V[0], rot.V[1], rot.V[2], rot.W}
	out.Scale = scale[:]

	if n.Mesh != nil {
		e, err := gltfEntity(g, int(*n.Mesh))
		if err != nil {
			return NodeDoc{}, fmt.Errorf("node %q: %w", out.Name, err)
		}
		out.Entities = append(out.Entities, e)
	}

	for _, c := range n.Children {
		child, err := gltfNode(g, int(c), visiting)
		if err != nil {
			return NodeDoc{}, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}

// nodeTRS returns the node transform as translation, rotation and scale. A
// node given as a matrix is decomposed assuming no shear.
func nodeTRS(n *gltf.Node) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	m := n.MatrixOrDefault()
	var mat mgl32.Mat4
	for i := range mat {
		mat[i] = float32(m[i])
	}

	if mat != mgl32.Ident4() {
		pos := mat.Col(3).Vec3()
		scale := mgl32.Vec3{mat.Col(0).Vec3().Len(), mat.Col(1).Vec3().Len(), mat.Col(2).Vec3().Len()}
		rot := mgl32.Ident3()
		for c := 0; c < 3; c++ {
			if scale[c] == 0 {
				continue
			}
			col := mat.Col(c).Vec3().Mul(1 / scale[c])
			rot.SetCol(c, col)
		}
		return pos, mgl32.Mat4ToQuat(rot.Mat4()), scale
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// gltfEntity turns a mesh into an entity whose bounds are the union of its
// primitives' POSITION bounds.
func gltfEntity(g *gltf.Document, idx int) (EntityDoc, error) {
	m, ok := at(g.Meshes, idx)
	if !ok || m == nil {
		return EntityDoc{}, fmt.Errorf("mesh %d out of range", idx)
	}

	e := EntityDoc{Name: m.Name, Mesh: m.Name}
	if e.Name == "" {
		e.Name = fmt.Sprintf("mesh%d", idx)
		e.Mesh = e.Name
	}

	var lo, hi mgl32.Vec3
	found := false
	for _, p := range m.Primitives {
		accIdx, ok := p.Attributes["POSITION"]
		if !ok {
			continue
		}
		acc, ok := at(g.Accessors, accIdx)
		if !ok || acc == nil || len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}
		pmin := mgl32.Vec3{float32(acc.Min[0]), float32(acc.Min[1]), float32(acc.Min[2])}
		pmax := mgl32.Vec3{float32(acc.Max[0]), float32(acc.Max[1]), float32(acc.Max[2])}
		if !found {
			lo, hi, found = pmin, pmax, true
			continue
		}
		for i := range 3 {
			lo[i] = min(lo[i], pmin[i])
			hi[i] = max(hi[i], pmax[i])
		}
	}
	if found {
		e.Min = lo[:]
		e.Max = hi[:]
	}
	return e, nil
}

type index interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64
}

// at returns s[i] when i is in range.
func at[T any, I index](s []T, i I) (T, bool) {
	var zero T
	if int64(i) < 0 || int64(i) >= int64(len(s)) {
		return zero, false
	}
	return s[int(i)], true
}

func ints[I index](in []I) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
