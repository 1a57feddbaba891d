// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"errors"

	"github.com/gogpu/cube/internal/device"
)

// Recoverable surface errors. The frame loop skips the frame and rebuilds
// the size-dependent targets on the next iteration.
var (
	// ErrSurfaceOutdated is returned by Surface.Acquire and Surface.Present
	// when the surface no longer matches the window.
	ErrSurfaceOutdated = errors.New("cube: surface out of date")

	// ErrExtentNotSupported is returned by Surface.Configure for an extent
	// the surface cannot take, such as a minimized window.
	ErrExtentNotSupported = errors.New("cube: surface extent not supported")
)

// Fatal errors. They are returned from New, RenderFrame and Run.
var (
	// ErrNoAdapter is returned when no GPU adapter is available.
	ErrNoAdapter = device.ErrNoAdapter

	// ErrShaderCompile is returned when an embedded shader fails to compile.
	ErrShaderCompile = errors.New("cube: shader compilation failed")

	// ErrPipeline is returned when the render pipeline cannot be built.
	ErrPipeline = errors.New("cube: pipeline creation failed")

	// ErrDeviceLost is returned when the device stops responding.
	ErrDeviceLost = errors.New("cube: device lost")
)

// ErrClosed is returned by RenderFrame after Close.
var ErrClosed = errors.New("cube: renderer closed")
