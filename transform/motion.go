// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package transform

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Motion describes how the model is placed and spun.
//
// Translation is applied once, outermost, pushing the object away from the
// camera. Rates are the angular velocities about the X, Y and Z axes in
// radians per second.
type Motion struct {
	Translation mgl32.Vec3
	Rates       mgl32.Vec3
}

// DefaultMotion pushes the model 1.5 units down -Z and spins it at 10, 20 and
// 30 degrees per second about X, Y and Z.
func DefaultMotion() Motion {
	return Motion{
		Translation: mgl32.Vec3{0, 0, -1.5},
		Rates: mgl32.Vec3{
			mgl32.DegToRad(10),
			mgl32.DegToRad(20),
			mgl32.DegToRad(30),
		},
	}
}

// World returns the model-to-world matrix after elapsed time:
//
//	Translate(T) * Rz(rz*t) * Ry(ry*t) * Rx(rx*t)
//
// At elapsed == 0 the result is exactly the translation.
func (m Motion) World(elapsed time.Duration) mgl32.Mat4 {
	base := mgl32.Translate3D(m.Translation.X(), m.Translation.Y(), m.Translation.Z())
	if elapsed <= 0 {
		return base
	}
	t := float32(elapsed.Seconds())
	rot := mgl32.HomogRotate3DZ(m.Rates.Z() * t).
		Mul4(mgl32.HomogRotate3DY(m.Rates.Y() * t)).
		Mul4(mgl32.HomogRotate3DX(m.Rates.X() * t))
	return base.Mul4(rot)
}
