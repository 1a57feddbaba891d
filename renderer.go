// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cube/mesh"
	"github.com/gogpu/cube/transform"
)

// Stats counts what the frame loop did.
type Stats struct {
	// Frames is the number of RenderFrame calls.
	Frames uint64

	// Submitted is the number of command buffers handed to the queue.
	Submitted uint64

	// Presented is the number of frames that reached the surface.
	Presented uint64

	// Skipped is the number of frames abandoned before submission because
	// the surface was outdated or its extent unsupported.
	Skipped uint64

	// Dropped is the number of frames lost to GPU or present errors.
	Dropped uint64

	// Rebuilds is the number of times the size-dependent targets were rebuilt.
	Rebuilds uint64
}

// Renderer is the frame loop state: device, surface, pipeline, static
// geometry, size-dependent targets and the previous frame's token.
//
// A Renderer is used from a single goroutine.
type Renderer struct {
	device  hal.Device
	queue   hal.Queue
	surface Surface
	opts    options
	log     *slog.Logger

	pipe        *pipeline
	vertexBuf   hal.Buffer
	vertexCount uint32
	targets     *Targets

	previous FrameToken
	rebuild  bool
	closing  bool
	start    time.Time
	stats    Stats
}

// New compiles the shaders, builds the pipeline, uploads the static vertex
// buffer once, configures the surface and builds the size-dependent targets.
// Shader and pipeline failures are fatal and wrap ErrShaderCompile or
// ErrPipeline. An unsupported initial extent is not fatal: the first frames
// are skipped until the surface can be configured.
func New(device hal.Device, queue hal.Queue, surface Surface, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil || surface == nil {
		return nil, errors.New("cube: nil device, queue or surface")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	r := &Renderer{
		device:   device,
		queue:    queue,
		surface:  surface,
		opts:     o,
		log:      log,
		targets:  newTargets(device),
		previous: ReadyToken(),
	}

	m := o.variant.Mesh()
	pipe, err := newPipeline(device, o.variant, m, surface.Format())
	if err != nil {
		return nil, err
	}
	r.pipe = pipe

	if m != nil {
		if err := r.uploadVertices(m); err != nil {
			r.release()
			return nil, err
		}
	}

	w, h := surface.Size()
	switch err := r.configure(w, h); {
	case errors.Is(err, ErrExtentNotSupported):
		r.rebuild = true
	case err != nil:
		r.release()
		return nil, err
	}

	r.start = o.now()
	log.Info("cube: renderer ready",
		"variant", o.variant.String(),
		"format", surface.Format(),
		"width", w, "height", h,
		"vertices", r.vertexCount)
	return r, nil
}

func (r *Renderer) uploadVertices(m *mesh.Mesh) error {
	data := m.Bytes()
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "cube_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		r.device.DestroyBuffer(buf)
		return fmt.Errorf("upload vertices: %w", err)
	}
	r.vertexBuf = buf
	r.vertexCount = m.VertexCount()
	return nil
}

// configure sizes the surface and the targets to the window extent.
// Rebuilds counts only extents that actually replaced the targets.
func (r *Renderer) configure(w, h uint32) error {
	if err := r.surface.Configure(w, h); err != nil {
		return err
	}
	before := r.targets.Builds()
	if err := r.targets.Rebuild(w, h); err != nil {
		return err
	}
	if r.targets.Builds() == before {
		r.log.Debug("cube: targets unchanged", "width", w, "height", h)
		return nil
	}
	r.stats.Rebuilds++
	r.log.Info("cube: targets rebuilt", "width", w, "height", h)
	return nil
}

// HandleEvent applies a window event. A resize marks the targets for
// rebuild; a close makes Run return.
func (r *Renderer) HandleEvent(e Event) {
	switch e.Kind {
	case EventResize:
		r.rebuild = true
		r.log.Debug("cube: resize", "width", e.Width, "height", e.Height)
	case EventClose:
		r.closing = true
	}
}

// Closing reports whether a close event was received.
func (r *Renderer) Closing() bool {
	return r.closing
}

// RebuildPending reports whether the targets will be rebuilt next frame.
func (r *Renderer) RebuildPending() bool {
	return r.rebuild
}

// Targets returns the size-dependent targets.
func (r *Renderer) Targets() *Targets {
	return r.targets
}

// Previous returns the token of the most recent submitted frame.
func (r *Renderer) Previous() *FrameToken {
	return &r.previous
}

// Stats returns the frame counters.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// RenderFrame runs one iteration of the frame loop. Recoverable conditions
// skip or drop the frame and return nil; only fatal errors are returned.
func (r *Renderer) RenderFrame() error {
	if r.device == nil {
		return ErrClosed
	}
	r.stats.Frames++

	// Release whatever the GPU has finished with.
	r.previous.Poll(r.queue, r.device)

	if r.rebuild {
		ok, err := r.rebuildTargets()
		if err != nil {
			return err
		}
		if !ok {
			r.stats.Skipped++
			return nil
		}
	}

	w, h := r.targets.Size()
	elapsed := r.opts.now().Sub(r.start)
	u := r.opts.model.Frame(elapsed, transform.Aspect(w, h))
	res, err := r.uploadUniforms(u)
	if err != nil {
		r.drop("upload uniforms", err)
		return nil
	}

	img, err := r.surface.Acquire()
	if err != nil {
		res.release(r.device)
		switch {
		case errors.Is(err, ErrSurfaceOutdated):
			r.rebuild = true
			r.stats.Skipped++
			r.log.Debug("cube: acquire outdated, frame skipped")
			return nil
		case errors.Is(err, ErrDeviceLost):
			return err
		}
		r.drop("acquire", err)
		return nil
	}
	if img.Suboptimal {
		r.rebuild = true
	}

	cmd, err := r.record(img, res)
	if err != nil {
		res.release(r.device)
		r.drop("record", err)
		return nil
	}
	res.cmd = cmd

	// Never submit while the previous frame is outstanding.
	if err := r.previous.Join(r.queue, r.device, r.opts.waitTimeout); err != nil {
		res.release(r.device)
		return err
	}

	index, err := r.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		res.release(r.device)
		switch {
		case errors.Is(err, ErrDeviceLost):
			return err
		case errors.Is(err, hal.ErrDeviceLost):
			return fmt.Errorf("%w: submit: %w", ErrDeviceLost, err)
		}
		r.drop("submit", err)
		return nil
	}
	r.stats.Submitted++
	token := pendingToken(index, res)

	if err := r.surface.Present(img); err != nil {
		// The frame never reaches the screen; settle it here so the next
		// iteration starts from Ready.
		joinErr := token.Join(r.queue, r.device, r.opts.waitTimeout)
		if joinErr != nil {
			token.Release(r.device)
			return joinErr
		}
		switch {
		case errors.Is(err, ErrSurfaceOutdated):
			r.rebuild = true
			r.stats.Dropped++
			r.log.Debug("cube: present outdated, frame dropped")
		case errors.Is(err, ErrDeviceLost):
			return err
		default:
			r.drop("present", err)
		}
		return nil
	}

	r.stats.Presented++
	r.previous = token
	return nil
}

// rebuildTargets reconfigures the surface and targets to the current window
// extent. It reports false when the extent is not supported yet.
func (r *Renderer) rebuildTargets() (bool, error) {
	// The old images and depth texture may still be in use.
	if err := r.previous.Join(r.queue, r.device, r.opts.waitTimeout); err != nil {
		return false, err
	}
	w, h := r.surface.Size()
	if err := r.configure(w, h); err != nil {
		if errors.Is(err, ErrExtentNotSupported) {
			r.log.Debug("cube: extent not supported, frame skipped", "width", w, "height", h)
			return false, nil
		}
		return false, fmt.Errorf("rebuild targets: %w", err)
	}
	r.rebuild = false
	return true, nil
}

// uploadUniforms writes the frame's uniform blocks into fresh buffers and
// binds them.
func (r *Renderer) uploadUniforms(u transform.Uniforms) (*frameResources, error) {
	res := &frameResources{}
	if !r.pipe.drawable() {
		return res, nil
	}

	blocks := [][]byte{u.MVP.Bytes(), u.Ambient.Bytes(), u.Directional.Bytes()}[:r.pipe.bindings]
	entries := make([]gputypes.BindGroupEntry, 0, len(blocks))
	for i, data := range blocks {
		buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("cube_uniform_%d", i),
			Size:  uint64(len(data)),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			res.release(r.device)
			return nil, fmt.Errorf("create uniform buffer %d: %w", i, err)
		}
		res.uniforms = append(res.uniforms, buf)
		if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
			res.release(r.device)
			return nil, fmt.Errorf("write uniform buffer %d: %w", i, err)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: uint32(i), //nolint:gosec // at most 3 bindings
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(data)),
			},
		})
	}

	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "cube_uniforms",
		Layout:  r.pipe.bindLayout,
		Entries: entries,
	})
	if err != nil {
		res.release(r.device)
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	res.bindGroup = bg
	return res, nil
}

// record encodes one render pass into img: clear color and depth, then a
// single non-indexed draw over the whole vertex buffer.
func (r *Renderer) record(img SurfaceImage, res *frameResources) (hal.CommandBuffer, error) {
	fb := r.targets.Framebuffer(img)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "cube_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("cube_frame"); err != nil {
		encoder.Destroy()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "cube_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       fb.Color,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.clearColor,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              fb.Depth,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})

	if r.pipe.drawable() {
		vp := r.targets.Viewport()
		rp.SetPipeline(r.pipe.pipeline)
		rp.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
		rp.SetBindGroup(0, res.bindGroup, nil)
		rp.SetVertexBuffer(0, r.vertexBuf, 0)
		rp.Draw(r.vertexCount, 1, 0, 0)
	}
	rp.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		encoder.Destroy()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, nil
}

func (r *Renderer) drop(stage string, err error) {
	r.stats.Dropped++
	r.log.Warn("cube: frame dropped", "stage", stage, "err", err)
}

// Run drives the frame loop until a close event, context cancellation,
// maxFrames iterations (0 means unlimited) or a fatal error. Events are
// polled once per iteration.
func (r *Renderer) Run(ctx context.Context, events EventSource, maxFrames uint64) error {
	for n := uint64(0); maxFrames == 0 || n < maxFrames; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if events != nil {
			for _, e := range events.Poll() {
				r.HandleEvent(e)
			}
		}
		if r.closing {
			return nil
		}
		if err := r.RenderFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Close waits for outstanding GPU work and releases every resource the
// renderer created. The surface and device are left to their owners.
// Safe to call multiple times.
func (r *Renderer) Close() error {
	if r.device == nil {
		return nil
	}
	err := r.previous.Join(r.queue, r.device, r.opts.waitTimeout)
	if err != nil {
		// Release anyway; the device is gone.
		r.previous.Release(r.device)
	}
	r.release()
	r.device = nil
	r.queue = nil
	return err
}

func (r *Renderer) release() {
	r.targets.Destroy()
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
	}
	if r.pipe != nil {
		r.pipe.destroy(r.device)
		r.pipe = nil
	}
}
