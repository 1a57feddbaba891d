// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Default camera parameters.
const (
	// DefaultFovY is the vertical field of view in radians (90 degrees).
	DefaultFovY = math.Pi / 2

	// DefaultNear is the distance to the near clipping plane.
	DefaultNear = 0.01

	// DefaultFar is the distance to the far clipping plane.
	DefaultFar = 100.0
)

// clipZeroToOne remaps OpenGL clip-space depth [-w, w] to the [0, w] range
// used by WebGPU and Vulkan: z' = 0.5*z + 0.5*w.
var clipZeroToOne = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is a fixed perspective camera.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	// Up is inverted (0,-1,0) by default to match the framebuffer Y-down
	// convention of the swapchain images.
	Up mgl32.Vec3

	FovY float32
	Near float32
	Far  float32
}

// DefaultCamera returns the camera used by every variant: eye just in front
// of the origin looking down -Z with an inverted up vector.
func DefaultCamera() Camera {
	return Camera{
		Eye:    mgl32.Vec3{0, 0, 0.01},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, -1, 0},
		FovY:   DefaultFovY,
		Near:   DefaultNear,
		Far:    DefaultFar,
	}
}

// View returns the world-to-view matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection returns the view-to-clip matrix for the given aspect ratio.
// Depth is mapped to [0, 1]: a view-space point on the near plane lands on
// z/w = 0 and a point on the far plane on z/w = 1.
//
// A non-positive aspect is treated as 1 so the result stays invertible.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return clipZeroToOne.Mul4(mgl32.Perspective(c.FovY, aspect, c.Near, c.Far))
}

// Aspect returns width/height, or 1 for a degenerate extent.
func Aspect(width, height uint32) float32 {
	if width == 0 || height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}
