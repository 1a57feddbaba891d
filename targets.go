// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// depthFormat is the format of the depth attachment.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

// Viewport is the rasterizer viewport in pixels.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// Framebuffer pairs a surface image with the shared depth attachment.
type Framebuffer struct {
	Color  hal.TextureView
	Depth  hal.TextureView
	Width  uint32
	Height uint32
}

// Targets holds everything that depends on the surface extent: the depth
// texture, the viewport and the framebuffer pairing.
type Targets struct {
	device hal.Device

	depthTex  hal.Texture
	depthView hal.TextureView
	viewport  Viewport
	width     uint32
	height    uint32
	builds    int
}

func newTargets(device hal.Device) *Targets {
	return &Targets{device: device}
}

// Rebuild recreates the targets for the given extent. It is a no-op when the
// targets already match it.
func (t *Targets) Rebuild(width, height uint32) error {
	if t.depthTex != nil && t.width == width && t.height == height {
		return nil
	}
	t.Destroy()

	depthTex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "cube_depth",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	depthView, err := t.device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: "cube_depth_view",
	})
	if err != nil {
		t.device.DestroyTexture(depthTex)
		return fmt.Errorf("create depth view: %w", err)
	}

	t.depthTex = depthTex
	t.depthView = depthView
	t.width, t.height = width, height
	t.viewport = Viewport{
		Width:    float32(width),
		Height:   float32(height),
		MaxDepth: 1,
	}
	t.builds++
	return nil
}

// Size returns the extent the targets were built for.
func (t *Targets) Size() (width, height uint32) {
	return t.width, t.height
}

// Viewport returns the viewport covering the whole extent.
func (t *Targets) Viewport() Viewport {
	return t.viewport
}

// Framebuffer returns the attachments for rendering into img.
func (t *Targets) Framebuffer(img SurfaceImage) Framebuffer {
	return Framebuffer{
		Color:  img.View,
		Depth:  t.depthView,
		Width:  t.width,
		Height: t.height,
	}
}

// Builds returns how many times the targets were (re)created.
func (t *Targets) Builds() int {
	return t.builds
}

// Destroy releases the depth attachment. Safe to call multiple times.
func (t *Targets) Destroy() {
	if t.depthView != nil {
		t.device.DestroyTextureView(t.depthView)
		t.depthView = nil
	}
	if t.depthTex != nil {
		t.device.DestroyTexture(t.depthTex)
		t.depthTex = nil
	}
	t.width, t.height = 0, 0
	t.viewport = Viewport{}
}
