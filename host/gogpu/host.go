// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gogpu runs a cube.Renderer inside a gogpu window.
//
// The window's draw callback drives the frame loop: each callback is one
// iteration. A window extent change observed between callbacks becomes a
// resize event and closing the window a close event. The device is shared
// with gogpu, which owns presentation.
package gogpu

import (
	"context"
	"fmt"

	gogpuapp "github.com/gogpu/gogpu"

	"github.com/gogpu/cube"
)

// Config describes the window.
type Config struct {
	Title  string
	Width  int
	Height int

	// Options are passed to cube.New.
	Options []cube.Option

	// MaxFrames stops the window after that many callbacks. 0 runs until
	// the window is closed.
	MaxFrames uint64
}

// Run opens the window and renders until it is closed, ctx is done, the
// frame limit is reached or a fatal error occurs.
func Run(ctx context.Context, cfg Config) error {
	app := gogpuapp.NewApp(gogpuapp.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(cfg.Width, cfg.Height).
		WithContinuousRender(true))

	h := &host{cfg: cfg, quit: app.Quit}

	app.OnDraw(func(dc *gogpuapp.Context) {
		if err := ctx.Err(); err != nil {
			h.fail(err)
			return
		}
		if h.r == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			if err := h.start(provider, provider.SurfaceFormat()); err != nil {
				h.fail(err)
				return
			}
		}
		h.draw(dc)
	})

	app.OnClose(func() {
		h.events.Push(cube.Event{Kind: cube.EventClose})
		h.close()
	})

	if err := app.Run(); err != nil {
		return fmt.Errorf("gogpu: %w", err)
	}
	h.close()
	return h.err
}
