// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// OffscreenImageCount is the number of images in an OffscreenSurface ring.
const OffscreenImageCount = 3

// Default extent limits of an OffscreenSurface.
const (
	DefaultMinExtent = 1
	DefaultMaxExtent = 8192
)

// copyPitchAlignment is the BytesPerRow alignment of texture-to-buffer copies.
const copyPitchAlignment = 256

// ErrNothingPresented is returned by Readback before any image was presented.
var ErrNothingPresented = errors.New("cube: no image presented yet")

type offscreenImage struct {
	tex  hal.Texture
	view hal.TextureView
}

// OffscreenSurface is a headless swapchain: a ring of BGRA8 textures on a
// HAL device. Resize changes the window extent the way a window system
// would, after which Acquire reports ErrSurfaceOutdated until the surface is
// reconfigured.
//
// The extent methods (Resize, SetExtentLimits, Size) are safe for concurrent
// use. The remaining methods belong to the frame loop goroutine.
type OffscreenSurface struct {
	device hal.Device
	queue  hal.Queue

	mu        sync.Mutex
	want      [2]uint32 // window extent
	minExtent uint32
	maxExtent uint32

	images    []offscreenImage
	width     uint32 // configured extent
	height    uint32
	next      int
	last      int
	acquired  uint64
	presented uint64

	waitTimeout time.Duration
}

// NewOffscreenSurface returns an unconfigured surface with the given window
// extent.
func NewOffscreenSurface(device hal.Device, queue hal.Queue, width, height uint32) *OffscreenSurface {
	return &OffscreenSurface{
		device:      device,
		queue:       queue,
		want:        [2]uint32{width, height},
		minExtent:   DefaultMinExtent,
		maxExtent:   DefaultMaxExtent,
		last:        -1,
		waitTimeout: defaultWaitTimeout,
	}
}

// SetExtentLimits sets the extents Configure accepts.
func (s *OffscreenSurface) SetExtentLimits(minExtent, maxExtent uint32) {
	s.mu.Lock()
	s.minExtent, s.maxExtent = minExtent, maxExtent
	s.mu.Unlock()
}

// Resize changes the window extent.
func (s *OffscreenSurface) Resize(width, height uint32) {
	s.mu.Lock()
	s.want = [2]uint32{width, height}
	s.mu.Unlock()
}

// Format implements Surface.
func (s *OffscreenSurface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}

// Size implements Surface.
func (s *OffscreenSurface) Size() (width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.want[0], s.want[1]
}

// Configure implements Surface. It destroys the previous images.
func (s *OffscreenSurface) Configure(width, height uint32) error {
	s.mu.Lock()
	minE, maxE := s.minExtent, s.maxExtent
	s.mu.Unlock()
	if width < minE || height < minE || width > maxE || height > maxE {
		return fmt.Errorf("%w: %dx%d", ErrExtentNotSupported, width, height)
	}

	s.destroyImages()
	size := hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}
	for i := 0; i < OffscreenImageCount; i++ {
		tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
			Label:         fmt.Sprintf("offscreen_image_%d", i),
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        s.Format(),
			Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		})
		if err != nil {
			s.destroyImages()
			return fmt.Errorf("create offscreen image: %w", err)
		}
		view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label: fmt.Sprintf("offscreen_image_%d_view", i),
		})
		if err != nil {
			s.device.DestroyTexture(tex)
			s.destroyImages()
			return fmt.Errorf("create offscreen image view: %w", err)
		}
		s.images = append(s.images, offscreenImage{tex: tex, view: view})
	}
	s.width, s.height = width, height
	s.next = 0
	s.last = -1
	return nil
}

func (s *OffscreenSurface) outdated() bool {
	w, h := s.Size()
	return len(s.images) == 0 || w != s.width || h != s.height
}

// Acquire implements Surface. Images are handed out round-robin.
func (s *OffscreenSurface) Acquire() (SurfaceImage, error) {
	if s.outdated() {
		return SurfaceImage{}, ErrSurfaceOutdated
	}
	idx := s.next
	s.next = (s.next + 1) % len(s.images)
	s.acquired++
	return SurfaceImage{Index: idx, View: s.images[idx].view}, nil
}

// Present implements Surface.
func (s *OffscreenSurface) Present(img SurfaceImage) error {
	if img.Index < 0 || img.Index >= len(s.images) {
		return fmt.Errorf("cube: present of unknown image %d", img.Index)
	}
	if s.outdated() {
		return ErrSurfaceOutdated
	}
	s.last = img.Index
	s.presented++
	return nil
}

// Configured returns the extent the images were created with.
func (s *OffscreenSurface) Configured() (width, height uint32) {
	return s.width, s.height
}

// Presented returns how many images were presented.
func (s *OffscreenSurface) Presented() uint64 {
	return s.presented
}

// Readback copies the last presented image to CPU memory.
// The caller must make sure the frame that rendered it has completed,
// for example by closing the renderer first.
func (s *OffscreenSurface) Readback() (*image.RGBA, error) {
	if s.last < 0 {
		return nil, ErrNothingPresented
	}
	w, h := s.width, s.height
	tex := s.images[s.last].tex

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offscreen_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer s.device.DestroyBuffer(staging)

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "offscreen_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("offscreen_readback"); err != nil {
		encoder.Destroy()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The image is left in RenderAttachment usage by the frame's render pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		encoder.Destroy()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	index, err := s.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if err := waitSubmission(s.queue, index, s.waitTimeout); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	mapping, err := s.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), stagingSize) //nolint:gosec // mapping covers stagingSize bytes

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	unpackBGRA(img, readback, int(alignedBytesPerRow))
	if err := s.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return img, nil
}

// unpackBGRA strips row padding from src and swizzles BGRA to RGBA into dst.
func unpackBGRA(dst *image.RGBA, src []byte, srcStride int) {
	b := dst.Bounds()
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		in := src[y*srcStride : y*srcStride+rowBytes]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+rowBytes]
		for x := 0; x < rowBytes; x += 4 {
			out[x+0] = in[x+2]
			out[x+1] = in[x+1]
			out[x+2] = in[x+0]
			out[x+3] = in[x+3]
		}
	}
}

// Destroy releases the surface images.
func (s *OffscreenSurface) Destroy() {
	s.destroyImages()
	s.width, s.height = 0, 0
}

func (s *OffscreenSurface) destroyImages() {
	for _, img := range s.images {
		if img.view != nil {
			s.device.DestroyTextureView(img.view)
		}
		if img.tex != nil {
			s.device.DestroyTexture(img.tex)
		}
	}
	s.images = nil
	s.last = -1
}
