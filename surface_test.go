// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"errors"
	"image"
	"testing"
	"time"
)

func TestOffscreenSurfaceLifecycle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreenSurface(device, queue, 64, 32)
	defer s.Destroy()

	if _, err := s.Acquire(); !errors.Is(err, ErrSurfaceOutdated) {
		t.Fatalf("Acquire before Configure = %v, want ErrSurfaceOutdated", err)
	}
	if err := s.Configure(64, 32); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	// Images are handed out round-robin.
	for i := 0; i < 2*OffscreenImageCount; i++ {
		img, err := s.Acquire()
		if err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		if img.Index != i%OffscreenImageCount {
			t.Errorf("image %d index = %d", i, img.Index)
		}
		if err := s.Present(img); err != nil {
			t.Fatalf("Present %d: %v", i, err)
		}
	}
	if got := s.Presented(); got != 2*OffscreenImageCount {
		t.Errorf("presented = %d", got)
	}
}

func TestOffscreenSurfaceResize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreenSurface(device, queue, 64, 64)
	defer s.Destroy()
	if err := s.Configure(64, 64); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	img, err := s.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s.Resize(128, 64)
	if err := s.Present(img); !errors.Is(err, ErrSurfaceOutdated) {
		t.Errorf("Present after resize = %v, want ErrSurfaceOutdated", err)
	}
	if _, err := s.Acquire(); !errors.Is(err, ErrSurfaceOutdated) {
		t.Errorf("Acquire after resize = %v, want ErrSurfaceOutdated", err)
	}
	if w, h := s.Size(); w != 128 || h != 64 {
		t.Errorf("Size = %dx%d, want 128x64", w, h)
	}
	if err := s.Configure(s.Size()); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if _, err := s.Acquire(); err != nil {
		t.Errorf("Acquire after reconfigure: %v", err)
	}
}

func TestOffscreenSurfaceExtentLimits(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreenSurface(device, queue, 64, 64)
	defer s.Destroy()
	s.SetExtentLimits(16, 256)

	tests := []struct {
		w, h uint32
		ok   bool
	}{
		{0, 0, false},
		{8, 64, false},
		{16, 16, true},
		{256, 256, true},
		{257, 64, false},
	}
	for _, tt := range tests {
		err := s.Configure(tt.w, tt.h)
		if tt.ok && err != nil {
			t.Errorf("Configure(%d, %d) = %v", tt.w, tt.h, err)
		}
		if !tt.ok && !errors.Is(err, ErrExtentNotSupported) {
			t.Errorf("Configure(%d, %d) = %v, want ErrExtentNotSupported", tt.w, tt.h, err)
		}
	}
}

func TestOffscreenSurfaceReadback(t *testing.T) {
	rig := newTestRig(t, 100, 50, WithVariant(VariantClear))
	if _, err := rig.surface.Readback(); !errors.Is(err, ErrNothingPresented) {
		t.Fatalf("Readback before present = %v, want ErrNothingPresented", err)
	}
	renderN(t, rig.r, 1)
	if err := rig.r.Previous().Join(rig.queue, rig.device, defaultWaitTimeout); err != nil {
		t.Fatalf("Join: %v", err)
	}
	img, err := rig.surface.Readback()
	if err != nil {
		t.Fatalf("Readback: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 50) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestOffscreenReadbackEncodingFailure(t *testing.T) {
	rig := newTestRig(t, 64, 64, WithVariant(VariantClear))
	renderN(t, rig.r, 1)

	endErr := errors.New("out of memory")
	fd := &failingDevice{Device: rig.device, endErr: endErr}
	rig.surface.device = fd
	_, err := rig.surface.Readback()
	rig.surface.device = rig.device

	if !errors.Is(err, endErr) {
		t.Errorf("Readback error = %v, want %v", err, endErr)
	}
	if fd.discarded != 1 {
		t.Errorf("discarded = %d, want 1", fd.discarded)
	}
	if _, err := rig.surface.Readback(); err != nil {
		t.Errorf("Readback after failure: %v", err)
	}
}

func TestUnpackBGRA(t *testing.T) {
	// Two pixels per row, rows padded to 12 bytes.
	src := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 0xAA, 0xAA, 0xAA, 0xAA,
		9, 10, 11, 12, 13, 14, 15, 16, 0xAA, 0xAA, 0xAA, 0xAA,
	}
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	unpackBGRA(dst, src, 12)
	want := []byte{
		3, 2, 1, 4, 7, 6, 5, 8,
		11, 10, 9, 12, 15, 14, 13, 16,
	}
	for i := range want {
		if dst.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", dst.Pix, want)
		}
	}
}

func TestTargetsRebuildIdempotent(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	tg := newTargets(device)
	defer tg.Destroy()

	if err := tg.Rebuild(300, 200); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if err := tg.Rebuild(300, 200); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if tg.Builds() != 1 {
		t.Errorf("builds = %d, want 1 for identical extent", tg.Builds())
	}
	if err := tg.Rebuild(600, 400); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if tg.Builds() != 2 {
		t.Errorf("builds = %d, want 2", tg.Builds())
	}

	fb := tg.Framebuffer(SurfaceImage{})
	if fb.Depth == nil || fb.Width != 600 || fb.Height != 400 {
		t.Errorf("framebuffer = %+v", fb)
	}

	tg.Destroy()
	tg.Destroy()
	if w, h := tg.Size(); w != 0 || h != 0 {
		t.Errorf("size after Destroy = %dx%d", w, h)
	}
}

func TestOffscreenReadbackWaitsForSubmission(t *testing.T) {
	rig := newTestRig(t, 32, 32, WithVariant(VariantClear))
	renderN(t, rig.r, 1)
	if err := rig.r.Previous().Join(rig.queue, rig.device, defaultWaitTimeout); err != nil {
		t.Fatalf("Join: %v", err)
	}

	rig.queue.completeAfter = 3
	if _, err := rig.surface.Readback(); err != nil {
		t.Fatalf("Readback with delayed completion: %v", err)
	}

	rig.surface.waitTimeout = 5 * time.Millisecond
	rig.queue.stalled = true
	if _, err := rig.surface.Readback(); !errors.Is(err, ErrDeviceLost) {
		t.Errorf("Readback on stalled queue = %v, want ErrDeviceLost", err)
	}
	rig.queue.stalled = false
}
