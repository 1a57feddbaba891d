// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package transform computes the per-frame shader inputs of the renderer:
// the world, view and projection matrices and the two light descriptors.
//
// Everything here is a pure function of elapsed time and viewport aspect
// ratio. The world rotation is recomputed from elapsed time every frame
// rather than accumulated, so two frames rendered at the same instant always
// agree.
//
// Matrices are [mgl32.Mat4] values (column-major), which is also the memory
// layout WGSL expects for mat4x4<f32>, so uniform encoding is a straight copy.
//
// The lighting helpers (Term, Intensity, Shade) mirror the lit fragment
// shader on the CPU. The renderer never calls them per frame; they exist so
// the shading model can be checked without a GPU.
package transform
