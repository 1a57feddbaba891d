// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

// Triangle returns the two overlapping triangles of the colored-triangle
// step: a black one in front and a white one slightly behind it, so the
// depth test decides which one is visible where they overlap.
func Triangle() *Mesh {
	black := [3]float32{0, 0, 0}
	white := [3]float32{1, 1, 1}
	return &Mesh{
		Layout: LayoutPositionColor,
		Vertices: []Vertex{
			{Position: [3]float32{-0.5, 0.5, -0.5}, Color: black},
			{Position: [3]float32{0.5, 0.5, -0.5}, Color: black},
			{Position: [3]float32{0, -0.5, -0.5}, Color: black},

			{Position: [3]float32{-0.5, -0.5, -0.6}, Color: white},
			{Position: [3]float32{0.5, -0.5, -0.6}, Color: white},
			{Position: [3]float32{0, 0.5, -0.6}, Color: white},
		},
	}
}

// Cube returns a unit cube centered on the origin with one color per face.
func Cube() *Mesh {
	return &Mesh{Layout: LayoutPositionColor, Vertices: cubeVertices()}
}

// LitCube returns the unit cube with outward face normals for the lighting
// step.
func LitCube() *Mesh {
	return &Mesh{Layout: LayoutPositionNormalColor, Vertices: cubeVertices()}
}

// cubeFace spans a face with axes u and v where u x v is the outward normal,
// so corners listed (-u-v), (+u-v), (+u+v), (-u+v) wind counter-clockwise
// seen from outside.
type cubeFace struct {
	normal, u, v [3]float32
	color        [3]float32
}

var cubeFaces = [6]cubeFace{
	{normal: [3]float32{1, 0, 0}, u: [3]float32{0, 1, 0}, v: [3]float32{0, 0, 1}, color: [3]float32{0.9, 0.2, 0.2}},
	{normal: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}, color: [3]float32{0.2, 0.9, 0.9}},
	{normal: [3]float32{0, 1, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{1, 0, 0}, color: [3]float32{0.2, 0.9, 0.2}},
	{normal: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}, color: [3]float32{0.9, 0.2, 0.9}},
	{normal: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}, color: [3]float32{0.2, 0.2, 0.9}},
	{normal: [3]float32{0, 0, -1}, u: [3]float32{0, 1, 0}, v: [3]float32{1, 0, 0}, color: [3]float32{0.9, 0.9, 0.2}},
}

func cubeVertices() []Vertex {
	const half = 0.5
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	order := [6]int{0, 1, 2, 0, 2, 3}

	verts := make([]Vertex, 0, len(cubeFaces)*len(order))
	for _, f := range cubeFaces {
		var quad [4][3]float32
		for i, c := range corners {
			for k := 0; k < 3; k++ {
				quad[i][k] = half * (f.normal[k] + c[0]*f.u[k] + c[1]*f.v[k])
			}
		}
		for _, i := range order {
			verts = append(verts, Vertex{Position: quad[i], Normal: f.normal, Color: f.color})
		}
	}
	return verts
}
