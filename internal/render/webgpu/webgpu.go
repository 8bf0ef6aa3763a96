// Package webgpu is a headless render system built on wgpu. Each surface is
// an offscreen texture that is cleared to the bottom viewport's background
// every frame and read back into memory, which makes it usable on machines
// without a display.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/seantiz/rssd/internal/render"
)

// Name is the render system name the driver registers under.
const Name = "WebGPU Rendering Subsystem"

// Driver is the WebGPU render system. The instance, adapter and device are
// created on the first Open and shared by every surface.
type Driver struct {
	mu       sync.Mutex
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

var _ render.Driver = (*Driver)(nil)

// New creates the WebGPU driver.
func New() *Driver {
	return &Driver{}
}

// Name implements render.Driver.
func (d *Driver) Name() string { return Name }

func (d *Driver) init() error {
	if d.device != nil {
		return nil
	}

	d.instance = wgpu.CreateInstance(nil)
	if d.instance == nil {
		return fmt.Errorf("failed to create wgpu instance")
	}

	var err error
	d.adapter, err = d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		d.release()
		return fmt.Errorf("failed to request wgpu adapter: %w", err)
	}

	d.device, err = d.adapter.RequestDevice(nil)
	if err != nil {
		d.release()
		return fmt.Errorf("failed to request wgpu device: %w", err)
	}

	d.queue = d.device.GetQueue()
	return nil
}

// Open implements render.Driver. Full screen and vsync have no meaning for
// an offscreen target and are ignored.
func (d *Driver) Open(opts render.DisplayOptions) (render.Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("webgpu surface: invalid size %dx%d", opts.Width, opts.Height)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.init(); err != nil {
		return nil, err
	}

	s := &Surface{
		device: d.device,
		queue:  d.queue,
		width:  opts.Width,
		height: opts.Height,
	}
	if err := s.prepare(opts.Title); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Shutdown implements render.Driver.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.release()
	return nil
}

func (d *Driver) release() {
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
