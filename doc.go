// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cube is a minimal real-time 3D renderer on top of the gogpu/wgpu
// HAL. It clears the screen, draws a colored triangle, a depth-tested cube
// or a cube lit by an ambient and a directional light.
//
// The package provides the frame loop. Geometry lives in package mesh and
// the transform and lighting math in package transform.
//
// # Quick Start
//
//	dev, err := device.Open(device.BackendVulkan)
//	...
//	surface := cube.NewOffscreenSurface(dev.Device, dev.Queue, 800, 600)
//	r, err := cube.New(dev.Device, dev.Queue, surface, cube.WithVariant(cube.VariantLit))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	err = r.Run(ctx, events, 0)
//
// # Frame Loop
//
// Each RenderFrame call releases finished frame resources, rebuilds the
// size-dependent targets when a resize is pending, uploads fresh uniforms,
// acquires a surface image, records one render pass, waits for the previous
// frame, submits and presents. At most one frame is in flight.
//
// An outdated surface or an unsupported extent skips the frame; other submit
// or present failures drop it. Neither stops the loop. Missing adapters,
// shader or pipeline failures and device loss are fatal.
//
// # Logging
//
// cube is silent by default. Call SetLogger to enable log/slog output.
package cube
