package opengl

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/seantiz/rssd/internal/render"
)

type surface struct {
	thread *thread
	title  string
	window *glfw.Window

	program       uint32
	vao, vbo      uint32
	mvpUniform    int32
	colourUniform int32

	mu            sync.Mutex
	width, height int
}

// prepare builds the program and the cube vertex array. It runs on the
// render thread with the window's context current.
func (s *surface) prepare() error {
	program, err := newProgram(vertexShader, fragmentShader)
	if err != nil {
		return fmt.Errorf("newProgram: %w", err)
	}
	s.program = program
	s.mvpUniform = gl.GetUniformLocation(program, gl.Str("mvp\x00"))
	s.colourUniform = gl.GetUniformLocation(program, gl.Str("colour\x00"))
	gl.BindFragDataLocation(program, 0, gl.Str("outputColor\x00"))

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.SCISSOR_TEST)
	return nil
}

func (s *surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *surface) Draw(f *render.Frame) error {
	return s.thread.call(func() error {
		if s.window == nil {
			return fmt.Errorf("window %q destroyed: %w", s.title, render.ErrSurfaceLost)
		}
		if s.window.ShouldClose() {
			return fmt.Errorf("window %q closed: %w", s.title, render.ErrSurfaceLost)
		}
		s.window.MakeContextCurrent()

		// The framebuffer can be larger than the window on HiDPI displays.
		fbw, fbh := s.window.GetFramebufferSize()
		sx, sy := float32(1), float32(1)
		if f.Width > 0 && f.Height > 0 {
			sx = float32(fbw) / float32(f.Width)
			sy = float32(fbh) / float32(f.Height)
		}

		gl.UseProgram(s.program)
		gl.BindVertexArray(s.vao)

		for _, vp := range f.Viewports {
			// GL puts the origin at the bottom-left.
			x := int32(float32(vp.Rect.Min.X) * sx)
			y := int32(float32(f.Height-vp.Rect.Max.Y) * sy)
			w := int32(float32(vp.Rect.Dx()) * sx)
			h := int32(float32(vp.Rect.Dy()) * sy)
			gl.Viewport(x, y, w, h)
			gl.Scissor(x, y, w, h)

			bg := vp.Background
			gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

			viewProj := vp.Projection.Mul4(vp.View)
			for _, item := range vp.Items {
				mvp := viewProj.Mul4(item.Model())
				gl.UniformMatrix4fv(s.mvpUniform, 1, false, &mvp[0])

				c := item.Colour
				if c == (render.Colour{}) {
					c = render.White
				}
				col := c.Vec4()
				gl.Uniform4fv(s.colourUniform, 1, &col[0])

				gl.DrawArrays(gl.TRIANGLES, 0, int32(len(cubeVertices)/3))
			}
		}

		if e := gl.GetError(); e != gl.NO_ERROR {
			return fmt.Errorf("draw window %q: GL error 0x%x", s.title, e)
		}

		s.window.SwapBuffers()
		glfw.PollEvents()
		return nil
	})
}

func (s *surface) Destroy() error {
	return s.thread.call(func() error {
		if s.window == nil {
			return nil
		}
		s.window.MakeContextCurrent()
		gl.DeleteBuffers(1, &s.vbo)
		gl.DeleteVertexArrays(1, &s.vao)
		gl.DeleteProgram(s.program)

		s.window.Destroy()
		s.window = nil
		return nil
	})
}
