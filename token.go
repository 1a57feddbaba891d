// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// Backoff bounds of waitSubmission.
const (
	minWaitBackoff = 50 * time.Microsecond
	maxWaitBackoff = time.Millisecond
)

// frameResources are the GPU objects owned by one submitted frame.
type frameResources struct {
	uniforms  []hal.Buffer
	bindGroup hal.BindGroup
	cmd       hal.CommandBuffer
}

func (r *frameResources) release(device hal.Device) {
	if r == nil {
		return
	}
	if r.cmd != nil {
		device.FreeCommandBuffer(r.cmd)
		r.cmd = nil
	}
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	for _, b := range r.uniforms {
		device.DestroyBuffer(b)
	}
	r.uniforms = nil
}

// FrameToken tracks completion of the previous frame's GPU work. It is
// either Ready, or Pending with the queue submission index that completes
// the frame and the resources to release then.
type FrameToken struct {
	pending bool
	index   uint64
	res     *frameResources
}

// ReadyToken returns a token with no outstanding work.
func ReadyToken() FrameToken {
	return FrameToken{}
}

func pendingToken(index uint64, res *frameResources) FrameToken {
	return FrameToken{pending: true, index: index, res: res}
}

// Ready reports whether no GPU work is outstanding.
func (t *FrameToken) Ready() bool {
	return !t.pending
}

// Submission returns the queue submission index of a Pending token.
func (t *FrameToken) Submission() uint64 {
	return t.index
}

// Poll checks the queue without blocking and releases the frame's resources
// once its submission has completed. It reports whether the token is Ready
// afterwards.
func (t *FrameToken) Poll(queue hal.Queue, device hal.Device) bool {
	if t.Ready() {
		return true
	}
	if queue.PollCompleted() < t.index {
		return false
	}
	t.Release(device)
	return true
}

// Join blocks until the frame's submission completes, then releases its
// resources. A submission that does not complete within timeout is reported
// as device loss.
func (t *FrameToken) Join(queue hal.Queue, device hal.Device, timeout time.Duration) error {
	if t.Ready() {
		return nil
	}
	if err := waitSubmission(queue, t.index, timeout); err != nil {
		return err
	}
	t.Release(device)
	return nil
}

// Release frees the frame's resources and makes the token Ready.
// The caller must know the GPU no longer uses them.
func (t *FrameToken) Release(device hal.Device) {
	t.res.release(device)
	*t = FrameToken{}
}

// waitSubmission polls the queue until index has completed or timeout
// elapses. The HAL queue has no blocking wait on submission indices.
func waitSubmission(queue hal.Queue, index uint64, timeout time.Duration) error {
	if queue.PollCompleted() >= index {
		return nil
	}
	deadline := time.Now().Add(timeout)
	backoff := minWaitBackoff
	for {
		if queue.PollCompleted() >= index {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: submission %d not completed after %v", ErrDeviceLost, index, timeout)
		}
		time.Sleep(backoff)
		backoff = min(2*backoff, maxWaitBackoff)
	}
}
