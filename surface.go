// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Surface is the presentation target the renderer draws into: a window
// swapchain or an OffscreenSurface.
//
// The renderer calls Configure at startup and whenever a rebuild is pending,
// then Acquire and Present once per frame. All calls happen on the loop
// goroutine.
type Surface interface {
	// Format returns the color format of the surface images.
	Format() gputypes.TextureFormat

	// Size returns the current extent of the window backing the surface.
	// It may differ from the configured extent after a resize.
	Size() (width, height uint32)

	// Configure (re)creates the surface images at the given extent.
	// It returns ErrExtentNotSupported for extents the surface cannot take.
	Configure(width, height uint32) error

	// Acquire blocks until an image is available. It returns
	// ErrSurfaceOutdated when the surface must be reconfigured first.
	Acquire() (SurfaceImage, error)

	// Present queues the image for display. It returns ErrSurfaceOutdated
	// when the surface changed while the frame was recorded.
	Present(img SurfaceImage) error
}

// SurfaceImage is one acquired surface image.
type SurfaceImage struct {
	// Index identifies the image within the surface.
	Index int

	// View is the color attachment the frame renders into.
	View hal.TextureView

	// Suboptimal is set when the image can still be presented but the
	// surface should be reconfigured soon.
	Suboptimal bool
}
