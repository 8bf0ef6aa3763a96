package webgpu

import (
	"fmt"
	"image"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/seantiz/rssd/internal/render"
)

// Surface is an offscreen WebGPU render target.
type Surface struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	width, height int
	bytesPerRow   uint32

	targetTexture *wgpu.Texture
	targetView    *wgpu.TextureView
	readBuffer    *wgpu.Buffer

	mu        sync.Mutex
	snapshot  *image.RGBA
	destroyed bool
}

var _ render.Surface = (*Surface)(nil)

func (s *Surface) prepare(label string) error {
	var err error
	s.targetTexture, err = s.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(s.width),
			Height:             uint32(s.height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("failed to create target texture: %w", err)
	}
	s.targetView, err = s.targetTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create texture view: %w", err)
	}

	// Rows copied out of a texture must be 256-byte aligned.
	s.bytesPerRow = (uint32(s.width*4) + 255) &^ 255
	s.readBuffer, err = s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " readback",
		Size:  uint64(s.bytesPerRow * uint32(s.height)),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create read buffer: %w", err)
	}
	return nil
}

// Size implements render.Surface.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Draw implements render.Surface.
func (s *Surface) Draw(f *render.Frame) error {
	s.mu.Lock()
	destroyed := s.destroyed
	s.mu.Unlock()
	if destroyed {
		return fmt.Errorf("webgpu surface destroyed: %w", render.ErrSurfaceLost)
	}

	clear := render.Black
	if len(f.Viewports) > 0 {
		clear = f.Viewports[0].Background
	}

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("%w: command encoder: %w", render.ErrSurfaceLost, err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    s.targetView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clear.R),
					G: float64(clear.G),
					B: float64(clear.B),
					A: float64(clear.A),
				},
			},
		},
	})
	if err := pass.End(); err != nil {
		pass.Release()
		return fmt.Errorf("end render pass: %w", err)
	}
	pass.Release()

	encoder.CopyTextureToBuffer(
		s.targetTexture.AsImageCopy(),
		&wgpu.ImageCopyBuffer{
			Buffer: s.readBuffer,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  s.bytesPerRow,
				RowsPerImage: uint32(s.height),
			},
		},
		&wgpu.Extent3D{
			Width:              uint32(s.width),
			Height:             uint32(s.height),
			DepthOrArrayLayers: 1,
		},
	)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command buffer: %w", err)
	}
	s.queue.Submit(commandBuffer)
	commandBuffer.Release()

	img, err := s.readback()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = img
	s.mu.Unlock()
	return nil
}

func (s *Surface) readback() (*image.RGBA, error) {
	size := uint64(s.bytesPerRow * uint32(s.height))

	done := make(chan struct{})
	var mapStatus wgpu.BufferMapAsyncStatus
	err := s.readBuffer.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		mapStatus = status
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("map read buffer: %w", err)
	}

	for mapped := false; !mapped; {
		s.device.Poll(true, nil)
		select {
		case <-done:
			mapped = true
		default:
		}
	}

	if mapStatus != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("%w: map read buffer: %v", render.ErrSurfaceLost, mapStatus)
	}

	data := s.readBuffer.GetMappedRange(0, uint(size))
	rgba := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	row := s.width * 4
	for y := 0; y < s.height; y++ {
		src := int(uint32(y) * s.bytesPerRow)
		copy(rgba.Pix[y*rgba.Stride:y*rgba.Stride+row], data[src:src+row])
	}
	s.readBuffer.Unmap()

	return rgba, nil
}

// Snapshot returns the pixels of the last drawn frame, or nil before the
// first frame.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Destroy implements render.Surface.
func (s *Surface) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return nil
	}
	s.destroyed = true

	if s.readBuffer != nil {
		s.readBuffer.Release()
	}
	if s.targetView != nil {
		s.targetView.Release()
	}
	if s.targetTexture != nil {
		s.targetTexture.Release()
	}
	return nil
}
