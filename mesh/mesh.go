// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh holds the static geometry drawn by the renderer and its
// GPU vertex layouts.
package mesh

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Layout selects which vertex attributes are interleaved in the buffer.
type Layout int

const (
	// LayoutPosition is position only (12 bytes).
	LayoutPosition Layout = iota

	// LayoutPositionColor is position + color (24 bytes).
	LayoutPositionColor

	// LayoutPositionNormalColor is position + normal + color (36 bytes).
	LayoutPositionNormalColor
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutPosition:
		return "position"
	case LayoutPositionColor:
		return "position+color"
	case LayoutPositionNormalColor:
		return "position+normal+color"
	default:
		return "unknown"
	}
}

// Vertex strides in bytes.
const (
	stridePosition            = 12
	stridePositionColor       = 24
	stridePositionNormalColor = 36
)

// Stride returns the byte size of one vertex.
func (l Layout) Stride() int {
	switch l {
	case LayoutPositionColor:
		return stridePositionColor
	case LayoutPositionNormalColor:
		return stridePositionNormalColor
	default:
		return stridePosition
	}
}

// Vertex is one corner of a triangle. Fields not used by the mesh layout are
// ignored when encoding.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
}

// Mesh is an immutable non-indexed triangle list.
type Mesh struct {
	Layout   Layout
	Vertices []Vertex
}

// VertexCount returns the number of vertices, as passed to Draw.
func (m *Mesh) VertexCount() uint32 {
	return uint32(len(m.Vertices)) //nolint:gosec // meshes are tiny
}

// Bytes returns the interleaved little-endian vertex data.
func (m *Mesh) Bytes() []byte {
	stride := m.Layout.Stride()
	buf := make([]byte, stride*len(m.Vertices))
	for i := range m.Vertices {
		v := &m.Vertices[i]
		off := i * stride
		off = putVec3(buf, off, v.Position)
		switch m.Layout {
		case LayoutPositionColor:
			putVec3(buf, off, v.Color)
		case LayoutPositionNormalColor:
			off = putVec3(buf, off, v.Normal)
			putVec3(buf, off, v.Color)
		}
	}
	return buf
}

// VertexBufferLayout returns the pipeline vertex layout for the mesh.
// Shader locations: 0 position, then 1 normal and 2 color for the lit
// layout, or 1 color for the colored layout.
func (m *Mesh) VertexBufferLayout() []gputypes.VertexBufferLayout {
	vbl := gputypes.VertexBufferLayout{
		ArrayStride: stridePosition,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
		},
	}
	switch m.Layout {
	case LayoutPositionColor:
		vbl.ArrayStride = stridePositionColor
		vbl.Attributes = append(vbl.Attributes,
			gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // color
		)
	case LayoutPositionNormalColor:
		vbl.ArrayStride = stridePositionNormalColor
		vbl.Attributes = append(vbl.Attributes,
			gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // normal
			gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2}, // color
		)
	}
	return []gputypes.VertexBufferLayout{vbl}
}

func putVec3(buf []byte, off int, v [3]float32) int {
	for _, f := range v {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	return off
}
