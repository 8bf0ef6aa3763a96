// Package null provides a headless render system that keeps frames in
// memory. It backs tests, CI and the e2e test server.
package null

import (
	"fmt"
	"sync"

	"github.com/seantiz/rssd/internal/render"
)

// Name is the render system name the null driver registers under.
const Name = "Null Rendering Subsystem"

// Stats counts what the driver has been asked to do.
type Stats struct {
	Opened    int
	Destroyed int
	Frames    int
	Shutdowns int
}

// Option configures a Driver.
type Option func(*Driver)

// WithName overrides the render system name.
func WithName(name string) Option {
	return func(d *Driver) { d.name = name }
}

// WithSize fixes the surface size instead of using the video mode.
func WithSize(width, height int) Option {
	return func(d *Driver) { d.width, d.height = width, height }
}

// WithFailAfter makes every surface report render.ErrSurfaceLost once it has
// drawn n frames.
func WithFailAfter(n int) Option {
	return func(d *Driver) { d.failAfter = n }
}

// WithOpenError makes Open fail with err.
func WithOpenError(err error) Option {
	return func(d *Driver) { d.openErr = err }
}

// Driver is a render.Driver whose surfaces draw nothing. It is safe for
// concurrent use so tests can inspect it while a render loop runs.
type Driver struct {
	name          string
	width, height int
	failAfter     int
	openErr       error

	mu    sync.Mutex
	stats Stats
	last  *render.Frame
}

var _ render.Driver = (*Driver)(nil)

// New creates a null driver.
func New(opts ...Option) *Driver {
	d := &Driver{name: Name}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements render.Driver.
func (d *Driver) Name() string { return d.name }

// Open implements render.Driver.
func (d *Driver) Open(opts render.DisplayOptions) (render.Surface, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}

	w, h := opts.Width, opts.Height
	if d.width > 0 && d.height > 0 {
		w, h = d.width, d.height
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("null surface: invalid size %dx%d", w, h)
	}

	d.mu.Lock()
	d.stats.Opened++
	d.mu.Unlock()

	return &surface{driver: d, width: w, height: h}, nil
}

// Shutdown implements render.Driver.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Shutdowns++
	return nil
}

// Stats returns a snapshot of the driver counters.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// LastFrame returns the most recently drawn frame, or nil.
func (d *Driver) LastFrame() *render.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

type surface struct {
	driver        *Driver
	width, height int
	frames        int
	destroyed     bool
}

func (s *surface) Size() (int, int) { return s.width, s.height }

func (s *surface) Draw(f *render.Frame) error {
	if s.destroyed {
		return fmt.Errorf("null surface destroyed: %w", render.ErrSurfaceLost)
	}
	if s.driver.failAfter > 0 && s.frames >= s.driver.failAfter {
		return fmt.Errorf("null surface after %d frames: %w", s.frames, render.ErrSurfaceLost)
	}
	s.frames++

	s.driver.mu.Lock()
	s.driver.stats.Frames++
	s.driver.last = f
	s.driver.mu.Unlock()
	return nil
}

func (s *surface) Destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true

	s.driver.mu.Lock()
	s.driver.stats.Destroyed++
	s.driver.mu.Unlock()
	return nil
}
