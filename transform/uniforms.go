// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package transform

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform block sizes in bytes, matching the WGSL struct layouts.
const (
	// MVPSize is three mat4x4<f32>: world, view, projection.
	MVPSize = 3 * 64

	// AmbientSize is vec3<f32> color followed by f32 intensity.
	AmbientSize = 16

	// DirectionalSize is vec4<f32> position and vec3<f32> color, padded to
	// the struct alignment of 16.
	DirectionalSize = 32
)

// MVP holds the three matrices of binding 0.
type MVP struct {
	World      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Uniforms is everything uploaded for one frame.
type Uniforms struct {
	MVP         MVP
	Ambient     AmbientLight
	Directional DirectionalLight
}

// Model bundles the static inputs of the transform/lighting computation.
type Model struct {
	Camera      Camera
	Motion      Motion
	Ambient     AmbientLight
	Directional DirectionalLight
}

// DefaultModel returns the model used when no options override it.
func DefaultModel() Model {
	return Model{
		Camera:      DefaultCamera(),
		Motion:      DefaultMotion(),
		Ambient:     DefaultAmbient(),
		Directional: DefaultDirectional(),
	}
}

// Frame computes the uniforms for the given elapsed time and aspect ratio.
func (m Model) Frame(elapsed time.Duration, aspect float32) Uniforms {
	return Uniforms{
		MVP: MVP{
			World:      m.Motion.World(elapsed),
			View:       m.Camera.View(),
			Projection: m.Camera.Projection(aspect),
		},
		Ambient:     m.Ambient,
		Directional: m.Directional,
	}
}

// Compute is Frame on the default model.
func Compute(elapsed time.Duration, aspect float32) Uniforms {
	return DefaultModel().Frame(elapsed, aspect)
}

// Bytes encodes the block as world, view, projection.
func (m MVP) Bytes() []byte {
	buf := make([]byte, MVPSize)
	putFloats(buf[0:], m.World[:])
	putFloats(buf[64:], m.View[:])
	putFloats(buf[128:], m.Projection[:])
	return buf
}

// Bytes encodes the ambient block.
func (a AmbientLight) Bytes() []byte {
	buf := make([]byte, AmbientSize)
	putFloats(buf, a.Color[:])
	putFloats(buf[12:], []float32{a.Intensity})
	return buf
}

// Bytes encodes the directional block. The trailing 4 bytes are padding.
func (d DirectionalLight) Bytes() []byte {
	buf := make([]byte, DirectionalSize)
	putFloats(buf, d.Position[:])
	putFloats(buf[16:], d.Color[:])
	return buf
}

func putFloats(dst []byte, vals []float32) {
	for i, v := range vals {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
