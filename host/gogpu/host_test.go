// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cube"
	"github.com/gogpu/cube/internal/device"
)

// swapchain stands in for the views gogpu hands out per callback.
type swapchain struct {
	dev   hal.Device
	texs  []hal.Texture
	views []hal.TextureView
}

func (s *swapchain) view(t *testing.T, w, h uint32) hal.TextureView {
	t.Helper()
	tex, err := s.dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "window_image",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	v, err := s.dev.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "window_image_view"})
	if err != nil {
		t.Fatalf("CreateTextureView: %v", err)
	}
	s.texs = append(s.texs, tex)
	s.views = append(s.views, v)
	return v
}

func (s *swapchain) destroy() {
	for _, v := range s.views {
		s.dev.DestroyTextureView(v)
	}
	for _, tex := range s.texs {
		s.dev.DestroyTexture(tex)
	}
}

func newTestHost(t *testing.T, cfg Config) (*host, *swapchain, *int) {
	t.Helper()
	dev, err := device.Open(device.BackendNoop)
	if err != nil {
		t.Fatalf("device.Open: %v", err)
	}
	quits := 0
	h := &host{cfg: cfg, quit: func() { quits++ }}
	if err := h.startWith(dev, gputypes.TextureFormatBGRA8Unorm); err != nil {
		dev.Close()
		t.Fatalf("startWith: %v", err)
	}
	sc := &swapchain{dev: dev.Device}
	t.Cleanup(func() {
		// Views must go before the device.
		if h.r != nil {
			_ = h.r.Close()
		}
		sc.destroy()
		h.close()
		dev.Close()
	})
	return h, sc, &quits
}

func TestHostRendersFrames(t *testing.T) {
	h, sc, _ := newTestHost(t, Config{Options: []cube.Option{cube.WithVariant(cube.VariantCube)}})

	view := sc.view(t, 320, 240)
	for i := 0; i < 3; i++ {
		h.frame(view, 320, 240)
	}
	if h.err != nil {
		t.Fatalf("frame error: %v", h.err)
	}
	s := h.r.Stats()
	// The first callback reports the window extent and rebuilds to it.
	if s.Presented != 3 {
		t.Errorf("presented = %d, want 3", s.Presented)
	}
	if w, ht := h.r.Targets().Size(); w != 320 || ht != 240 {
		t.Errorf("targets = %dx%d, want 320x240", w, ht)
	}
}

func TestHostResize(t *testing.T) {
	h, sc, _ := newTestHost(t, Config{})

	h.frame(sc.view(t, 320, 240), 320, 240)
	h.frame(sc.view(t, 640, 480), 640, 480)

	if w, ht := h.r.Targets().Size(); w != 640 || ht != 480 {
		t.Errorf("targets = %dx%d, want 640x480", w, ht)
	}
	if got := h.r.Stats().Presented; got != 2 {
		t.Errorf("presented = %d, want 2", got)
	}
}

func TestHostMinimizedSkips(t *testing.T) {
	h, sc, _ := newTestHost(t, Config{})

	h.frame(nil, 0, 0)
	h.frame(nil, 0, 0)
	s := h.r.Stats()
	if s.Submitted != 0 {
		t.Errorf("submitted = %d while minimized, want 0", s.Submitted)
	}
	h.frame(sc.view(t, 200, 100), 200, 100)
	if got := h.r.Stats().Presented; got != 1 {
		t.Errorf("presented = %d after restore, want 1", got)
	}
}

func TestHostMaxFrames(t *testing.T) {
	h, sc, quits := newTestHost(t, Config{MaxFrames: 2})
	view := sc.view(t, 64, 64)
	for i := 0; i < 5; i++ {
		h.frame(view, 64, 64)
	}
	if *quits != 1 {
		t.Errorf("quit called %d times, want 1", *quits)
	}
	if got := h.r.Stats().Frames; got != 2 {
		t.Errorf("frames = %d, want 2", got)
	}
}

func TestHostCloseEvent(t *testing.T) {
	h, sc, quits := newTestHost(t, Config{})
	h.events.Push(cube.Event{Kind: cube.EventClose})
	h.frame(sc.view(t, 64, 64), 64, 64)
	if *quits != 1 {
		t.Errorf("quit called %d times, want 1", *quits)
	}
	if got := h.r.Stats().Frames; got != 0 {
		t.Errorf("frames = %d, want 0 after close", got)
	}
}

func TestHostFailKeepsFirstError(t *testing.T) {
	h := &host{}
	first := errors.New("first")
	h.fail(first)
	h.fail(errors.New("second"))
	if !errors.Is(h.err, first) {
		t.Errorf("err = %v, want first", h.err)
	}
}

func TestWindowSurface(t *testing.T) {
	s := newWindowSurface(gputypes.TextureFormatBGRA8Unorm)
	if err := s.Configure(0, 10); !errors.Is(err, cube.ErrExtentNotSupported) {
		t.Errorf("Configure(0, 10) = %v, want ErrExtentNotSupported", err)
	}
	if _, err := s.Acquire(); !errors.Is(err, cube.ErrSurfaceOutdated) {
		t.Errorf("Acquire before Configure = %v, want ErrSurfaceOutdated", err)
	}
	if !s.setFrame(nil, 100, 50) {
		t.Error("first setFrame should report a change")
	}
	if s.setFrame(nil, 100, 50) {
		t.Error("same extent reported as change")
	}
	if w, h := s.Size(); w != 100 || h != 50 {
		t.Errorf("Size = %dx%d", w, h)
	}
	if !s.setFrame(nil, 0, 50) {
		t.Error("minimized extent should report a change")
	}
}

// windowFrame is a draw callback context with a surface view and its
// physical pixel size.
type windowFrame struct {
	view *wgpu.TextureView
	w, h uint32
}

func (f windowFrame) SurfaceView() *wgpu.TextureView { return f.view }
func (f windowFrame) SurfaceSize() (width, height uint32) { return f.w, f.h }

func TestHostDrawUsesSurfaceView(t *testing.T) {
	h, sc, _ := newTestHost(t, Config{})

	// A 2x display: the window is 320x240 points, the surface 640x480 pixels.
	view := wgpu.NewTextureViewFromHAL(sc.view(t, 640, 480), nil)
	for i := 0; i < 2; i++ {
		h.draw(windowFrame{view: view, w: 640, h: 480})
	}
	if h.err != nil {
		t.Fatalf("draw error: %v", h.err)
	}
	if got := h.r.Stats().Presented; got != 2 {
		t.Errorf("presented = %d, want 2", got)
	}
	if w, ht := h.r.Targets().Size(); w != 640 || ht != 480 {
		t.Errorf("targets = %dx%d, want the 640x480 surface size", w, ht)
	}
	if vp := h.r.Targets().Viewport(); vp.Width != 640 || vp.Height != 480 {
		t.Errorf("viewport = %+v, want 640x480", vp)
	}
}

func TestHostDrawWithoutSurfaceView(t *testing.T) {
	h, _, _ := newTestHost(t, Config{})
	h.draw(windowFrame{w: 320, h: 240})
	if h.err != nil {
		t.Fatalf("draw error: %v", h.err)
	}
	s := h.r.Stats()
	if s.Submitted != 0 || s.Skipped != 1 {
		t.Errorf("stats = %+v, want one skipped frame", s)
	}
}
