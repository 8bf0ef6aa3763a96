// Package opengl is the desktop render system: a glfw window with an OpenGL
// 4.1 core context. Entities are drawn as flat-coloured boxes spanning their
// bounds.
//
// glfw requires that window creation and event polling happen on the
// process main thread on macOS. This driver uses a dedicated locked thread,
// which is sufficient on Linux and Windows.
package opengl

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/seantiz/rssd/internal/render"
)

// Name is the render system name the driver registers under.
const Name = "OpenGL Rendering Subsystem"

// Driver is the OpenGL render system.
type Driver struct {
	mu       sync.Mutex
	thread   *thread
	glfwInit bool
	glInit   bool
	version  string
}

var _ render.Driver = (*Driver)(nil)

// New creates the OpenGL driver. No native resources are touched until the
// first Open.
func New() *Driver {
	return &Driver{}
}

// Name implements render.Driver.
func (d *Driver) Name() string { return Name }

// Version returns the GL version string of the first context, or "" before
// any surface has been opened.
func (d *Driver) Version() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Open implements render.Driver.
func (d *Driver) Open(opts render.DisplayOptions) (render.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.thread == nil {
		d.thread = newThread()
	}

	s := &surface{thread: d.thread, title: opts.Title}
	err := d.thread.call(func() error {
		if !d.glfwInit {
			if err := glfw.Init(); err != nil {
				return fmt.Errorf("glfw.Init: %w", err)
			}
			d.glfwInit = true
		}

		glfw.DefaultWindowHints()
		glfw.WindowHint(glfw.Resizable, glfw.False)
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		glfw.WindowHint(glfw.DepthBits, 24)
		if opts.ColourDepth == 16 {
			glfw.WindowHint(glfw.RedBits, 5)
			glfw.WindowHint(glfw.GreenBits, 6)
			glfw.WindowHint(glfw.BlueBits, 5)
		}

		var monitor *glfw.Monitor
		if opts.FullScreen {
			monitor = glfw.GetPrimaryMonitor()
		}

		w, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, monitor, nil)
		if err != nil {
			return fmt.Errorf("CreateWindow(%v,%v): %w", opts.Width, opts.Height, err)
		}
		w.MakeContextCurrent()

		if !d.glInit {
			if err := gl.Init(); err != nil {
				w.Destroy()
				return fmt.Errorf("gl.Init: %w", err)
			}
			d.glInit = true
			d.version = gl.GoStr(gl.GetString(gl.VERSION))
		}

		if opts.VSync {
			glfw.SwapInterval(1)
		} else {
			glfw.SwapInterval(0)
		}

		s.window = w
		s.width, s.height = w.GetSize()
		w.SetSizeCallback(func(_ *glfw.Window, width, height int) {
			s.mu.Lock()
			s.width, s.height = width, height
			s.mu.Unlock()
		})

		if err := s.prepare(); err != nil {
			w.Destroy()
			s.window = nil
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Shutdown implements render.Driver. It terminates glfw and stops the render
// thread; a later Open starts both again.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.thread == nil {
		return nil
	}
	if d.glfwInit {
		d.thread.call(func() error {
			glfw.Terminate()
			return nil
		})
		d.glfwInit = false
		d.glInit = false
	}
	d.thread.stop()
	d.thread = nil
	return nil
}
