// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"fmt"

	"github.com/gogpu/cube/internal/shader"
	"github.com/gogpu/cube/mesh"
)

// Variant selects what the renderer draws.
type Variant int

const (
	// VariantClear only clears color and depth.
	VariantClear Variant = iota

	// VariantTriangle draws two overlapping colored triangles.
	VariantTriangle

	// VariantCube draws a colored cube.
	VariantCube

	// VariantLit draws the cube with ambient and directional lighting.
	VariantLit
)

var variantNames = [...]string{
	VariantClear:    "clear",
	VariantTriangle: "triangle",
	VariantCube:     "cube",
	VariantLit:      "lit",
}

// String returns the variant name.
func (v Variant) String() string {
	if v >= 0 && int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant returns the variant with the given name.
func ParseVariant(s string) (Variant, error) {
	for i, name := range variantNames {
		if name == s {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("cube: unknown variant %q", s)
}

// draws reports whether the variant records a draw call.
func (v Variant) draws() bool {
	return v != VariantClear
}

// Mesh returns the geometry of the variant, or nil for VariantClear.
func (v Variant) Mesh() *mesh.Mesh {
	switch v {
	case VariantTriangle:
		return mesh.Triangle()
	case VariantCube:
		return mesh.Cube()
	case VariantLit:
		return mesh.LitCube()
	default:
		return nil
	}
}

func (v Variant) program() shader.Program {
	if v == VariantLit {
		return shader.ProgramLit
	}
	return shader.ProgramColor
}
