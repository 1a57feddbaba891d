// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AmbientLight is a flat light applied to every fragment.
type AmbientLight struct {
	Color     mgl32.Vec3
	Intensity float32
}

// DirectionalLight is a point-positioned light whose contribution is
// Lambertian. Position is homogeneous; only XYZ is used for the direction.
type DirectionalLight struct {
	Position mgl32.Vec4
	Color    mgl32.Vec3
}

// DefaultAmbient is white at 20% intensity.
func DefaultAmbient() AmbientLight {
	return AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.2}
}

// DefaultDirectional is a white light at (-4, -4, 0).
func DefaultDirectional() DirectionalLight {
	return DirectionalLight{Position: mgl32.Vec4{-4, -4, 0, 1}, Color: mgl32.Vec3{1, 1, 1}}
}

// Term returns the ambient contribution: color scaled by intensity.
func (a AmbientLight) Term() mgl32.Vec3 {
	return a.Color.Mul(a.Intensity)
}

// Intensity returns max(dot(normal, normalize(position - fragPos)), 0).
// It is zero when the light sits exactly on the fragment.
func (d DirectionalLight) Intensity(normal, fragPos mgl32.Vec3) float32 {
	dir := d.Position.Vec3().Sub(fragPos)
	if dir.Len() == 0 {
		return 0
	}
	dot := normal.Dot(dir.Normalize())
	if dot <= 0 {
		return 0
	}
	return dot
}

// Term returns the directional contribution for a fragment.
func (d DirectionalLight) Term(normal, fragPos mgl32.Vec3) mgl32.Vec3 {
	return d.Color.Mul(d.Intensity(normal, fragPos))
}

// Shade computes the lit fragment color: (ambient + directional) * color.
func Shade(a AmbientLight, d DirectionalLight, normal, fragPos, color mgl32.Vec3) mgl32.Vec3 {
	light := a.Term().Add(d.Term(normal, fragPos))
	return mgl32.Vec3{light[0] * color[0], light[1] * color[1], light[2] * color[2]}
}
