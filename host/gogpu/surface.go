// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cube"
)

// windowSurface adapts the surface view gogpu hands to each draw callback to
// cube.Surface. gogpu owns the swapchain and presents after the callback
// returns, so Present only validates the image.
type windowSurface struct {
	format gputypes.TextureFormat

	view          hal.TextureView
	width, height uint32 // surface extent in physical pixels, current callback
	cfgW, cfgH    uint32
	configured    bool
}

func newWindowSurface(format gputypes.TextureFormat) *windowSurface {
	var undefined gputypes.TextureFormat
	if format == undefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return &windowSurface{format: format}
}

// setFrame records the view and extent of the current callback. It reports
// whether the extent changed since the previous callback.
func (s *windowSurface) setFrame(view hal.TextureView, width, height uint32) bool {
	changed := width != s.width || height != s.height
	s.view = view
	s.width, s.height = width, height
	return changed
}

func (s *windowSurface) Format() gputypes.TextureFormat { return s.format }

func (s *windowSurface) Size() (width, height uint32) { return s.width, s.height }

func (s *windowSurface) Configure(width, height uint32) error {
	if width == 0 || height == 0 {
		return cube.ErrExtentNotSupported
	}
	s.cfgW, s.cfgH = width, height
	s.configured = true
	return nil
}

func (s *windowSurface) Acquire() (cube.SurfaceImage, error) {
	if !s.configured || s.view == nil || s.width != s.cfgW || s.height != s.cfgH {
		return cube.SurfaceImage{}, cube.ErrSurfaceOutdated
	}
	return cube.SurfaceImage{View: s.view}, nil
}

func (s *windowSurface) Present(img cube.SurfaceImage) error {
	if img.View != s.view {
		return cube.ErrSurfaceOutdated
	}
	return nil
}
