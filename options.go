// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/cube/transform"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := cube.New(dev, queue, surface,
//	    cube.WithVariant(cube.VariantLit),
//	    cube.WithClearColor(gputypes.Color{R: 0, G: 0, B: 0, A: 1}),
//	)
type Option func(*options)

// options holds the optional configuration of a Renderer.
type options struct {
	variant     Variant
	clearColor  gputypes.Color
	model       transform.Model
	now         func() time.Time
	logger      *slog.Logger
	waitTimeout time.Duration
}

// DefaultClearColor is the sky blue the frame is cleared to.
var DefaultClearColor = gputypes.Color{R: 0, G: 0.68, B: 1, A: 1}

// defaultWaitTimeout bounds how long the loop waits for the previous frame.
const defaultWaitTimeout = 5 * time.Second

func defaultOptions() options {
	return options{
		variant:     VariantLit,
		clearColor:  DefaultClearColor,
		model:       transform.DefaultModel(),
		now:         time.Now,
		waitTimeout: defaultWaitTimeout,
	}
}

// WithVariant selects what is drawn. The default is VariantLit.
func WithVariant(v Variant) Option {
	return func(o *options) {
		o.variant = v
	}
}

// WithClearColor sets the color the frame is cleared to.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithCamera replaces the default camera.
func WithCamera(c transform.Camera) Option {
	return func(o *options) {
		o.model.Camera = c
	}
}

// WithMotion replaces the default model translation and rotation rates.
func WithMotion(m transform.Motion) Option {
	return func(o *options) {
		o.model.Motion = m
	}
}

// WithLights replaces the default ambient and directional lights.
// Only VariantLit uploads them.
func WithLights(ambient transform.AmbientLight, directional transform.DirectionalLight) Option {
	return func(o *options) {
		o.model.Ambient = ambient
		o.model.Directional = directional
	}
}

// WithClock sets the time source used to compute elapsed time.
// A nil function keeps time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets a logger for this renderer only. Without it the renderer
// logs through the package logger set with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWaitTimeout bounds how long a frame waits for the previous one's
// queue submission to complete before the device is considered lost.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.waitTimeout = d
		}
	}
}
