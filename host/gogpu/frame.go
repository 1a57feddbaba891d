// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cube"
	"github.com/gogpu/cube/internal/device"
)

// host is the per-window state shared by the gogpu callbacks.
type host struct {
	cfg    Config
	quit   func()
	events cube.EventQueue

	dev     *device.Device
	surface *windowSurface
	r       *cube.Renderer
	frames  uint64
	err     error
	stopped bool
}

// start adopts the window's device and creates the renderer.
func (h *host) start(provider gpucontext.DeviceProvider, format gputypes.TextureFormat) error {
	dev, err := device.FromProvider(provider)
	if err != nil {
		return fmt.Errorf("adopt window device: %w", err)
	}
	return h.startWith(dev, format)
}

func (h *host) startWith(dev *device.Device, format gputypes.TextureFormat) error {
	surf := newWindowSurface(format)
	r, err := cube.New(dev.Device, dev.Queue, surf, h.cfg.Options...)
	if err != nil {
		dev.Close()
		return err
	}
	h.dev, h.surface, h.r = dev, surf, r
	cube.Logger().Info("gogpu: renderer attached to window", "format", format)
	return nil
}

// drawContext is the part of *gogpu.Context a draw callback reads.
type drawContext interface {
	SurfaceView() *wgpu.TextureView
	SurfaceSize() (width, height uint32)
}

// draw runs one iteration on the surface view of a draw callback. The
// extent is the surface's physical pixel size, which the view matches.
func (h *host) draw(dc drawContext) {
	var view hal.TextureView
	if sv := dc.SurfaceView(); sv != nil {
		view = sv.HalTextureView()
	}
	w, ht := dc.SurfaceSize()
	h.frame(view, w, ht)
}

// frame runs one loop iteration for the current callback.
func (h *host) frame(view hal.TextureView, width, height uint32) {
	if h.stopped || h.r == nil {
		return
	}
	if h.surface.setFrame(view, width, height) {
		w, ht := h.surface.Size()
		h.events.Push(cube.Event{Kind: cube.EventResize, Width: w, Height: ht})
	}
	for _, e := range h.events.Poll() {
		h.r.HandleEvent(e)
	}
	if h.r.Closing() {
		h.stop()
		return
	}
	if err := h.r.RenderFrame(); err != nil {
		h.fail(err)
		return
	}
	h.frames++
	if h.cfg.MaxFrames > 0 && h.frames >= h.cfg.MaxFrames {
		h.stop()
	}
}

func (h *host) fail(err error) {
	if h.err == nil {
		h.err = err
	}
	h.stop()
}

func (h *host) stop() {
	if h.stopped {
		return
	}
	h.stopped = true
	if h.quit != nil {
		h.quit()
	}
}

// close releases the renderer while the shared device is still alive.
func (h *host) close() {
	if h.r != nil {
		if err := h.r.Close(); err != nil && h.err == nil {
			h.err = err
		}
		h.r = nil
	}
	if h.dev != nil {
		h.dev.Close()
		h.dev = nil
	}
}
