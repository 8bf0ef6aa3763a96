package render_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/render/null"
)

func TestSceneGraphDuplicateNames(t *testing.T) {
	root := newRoot(t, null.New())
	g, err := root.CreateSceneGraph("g")
	if err != nil {
		t.Fatalf("CreateSceneGraph: %v", err)
	}
	if _, err := root.CreateSceneGraph("g"); !errors.Is(err, render.ErrDuplicateName) {
		t.Errorf("duplicate graph error = %v, want ErrDuplicateName", err)
	}
	if _, err := g.CreateCamera("c"); err != nil {
		t.Fatalf("CreateCamera: %v", err)
	}
	if _, err := g.CreateCamera("c"); !errors.Is(err, render.ErrDuplicateName) {
		t.Errorf("duplicate camera error = %v, want ErrDuplicateName", err)
	}
}

func TestClearSceneKeepsCameras(t *testing.T) {
	root := newRoot(t, null.New())
	g, _ := root.CreateSceneGraph("g")
	if _, err := g.CreateCamera("c"); err != nil {
		t.Fatalf("CreateCamera: %v", err)
	}

	a := g.RootNode().CreateChild("a")
	a.Attach(render.Entity{Name: "e1"})
	a.CreateChild("b").Attach(render.Entity{Name: "e2"})

	if g.NodeCount() != 2 || g.EntityCount() != 2 {
		t.Fatalf("counts = %d nodes, %d entities, want 2, 2", g.NodeCount(), g.EntityCount())
	}

	g.ClearScene()
	if g.NodeCount() != 0 || g.EntityCount() != 0 {
		t.Errorf("counts after ClearScene = %d, %d", g.NodeCount(), g.EntityCount())
	}
	if a.Parent() != nil {
		t.Error("cleared node still has a parent")
	}
	if _, ok := g.Camera("c"); !ok {
		t.Error("ClearScene removed a camera")
	}
}

func TestDestroyCameraNotOwned(t *testing.T) {
	root := newRoot(t, null.New())
	g1, _ := root.CreateSceneGraph("g1")
	g2, _ := root.CreateSceneGraph("g2")
	c, _ := g1.CreateCamera("c")

	if err := g2.DestroyCamera(c); err == nil {
		t.Error("DestroyCamera from another graph succeeded")
	}
	if err := g1.DestroyCamera(c); err != nil {
		t.Fatalf("DestroyCamera: %v", err)
	}
	if err := g1.DestroyCamera(c); err == nil {
		t.Error("second DestroyCamera succeeded")
	}
}

func TestDestroySceneGraphReleasesCameras(t *testing.T) {
	root := newRoot(t, null.New())
	g, _ := root.CreateSceneGraph("g")
	g.CreateCamera("a")
	g.CreateCamera("b")
	if root.LiveHandles() != 3 {
		t.Fatalf("LiveHandles = %d, want 3", root.LiveHandles())
	}

	root.DestroySceneGraph(g)
	root.DestroySceneGraph(g)
	if root.LiveHandles() != 0 {
		t.Errorf("LiveHandles = %d, want 0", root.LiveHandles())
	}
	if _, err := g.CreateCamera("c"); !errors.Is(err, render.ErrShutdown) {
		t.Errorf("CreateCamera on destroyed graph = %v, want ErrShutdown", err)
	}
	if _, err := root.CreateSceneGraph("g"); err != nil {
		t.Errorf("name not released: %v", err)
	}
}

func TestNodeWorldMatrix(t *testing.T) {
	root := newRoot(t, null.New())
	g, _ := root.CreateSceneGraph("g")

	parent := g.RootNode().CreateChild("parent")
	parent.SetPosition(mgl32.Vec3{10, 0, 0})
	parent.SetScale(mgl32.Vec3{2, 2, 2})

	child := parent.CreateChild("child")
	child.SetPosition(mgl32.Vec3{0, 1, 0})
	child.SetOrientation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))

	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	// child: rotate +X to +Y then move up 1 -> (0, 2, 0); parent: scale 2, move +10 in X.
	if !p.ApproxEqualThreshold(mgl32.Vec3{10, 4, 0}, 1e-4) {
		t.Errorf("world point = %v, want (10, 4, 0)", p)
	}
}

func TestDrawItemModelMapsBounds(t *testing.T) {
	item := render.DrawItem{
		World: mgl32.Ident4(),
		Min:   mgl32.Vec3{0, 0, 0},
		Max:   mgl32.Vec3{2, 4, 6},
	}
	hi := item.Model().Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1}).Vec3()
	lo := item.Model().Mul4x1(mgl32.Vec4{-0.5, -0.5, -0.5, 1}).Vec3()
	if !hi.ApproxEqual(item.Max) || !lo.ApproxEqual(item.Min) {
		t.Errorf("model maps unit cube to %v..%v, want %v..%v", lo, hi, item.Min, item.Max)
	}
}

func TestEntityBoundsDefault(t *testing.T) {
	lo, hi := render.Entity{}.Bounds()
	if lo != (mgl32.Vec3{-0.5, -0.5, -0.5}) || hi != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("Bounds() = %v..%v, want unit cube", lo, hi)
	}
}
