// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// resizeStep changes the headless window extent before the given frame.
type resizeStep struct {
	Frame  uint64
	Width  uint32
	Height uint32
}

// parseResizes parses a comma separated list of WxH@frame entries,
// for example "1024x768@30,0x0@60,800x600@90".
func parseResizes(s string) ([]resizeStep, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var steps []resizeStep
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		ext, at, ok := strings.Cut(part, "@")
		if !ok {
			return nil, fmt.Errorf("resize %q: want WxH@frame", part)
		}
		ws, hs, ok := strings.Cut(ext, "x")
		if !ok {
			return nil, fmt.Errorf("resize %q: want WxH@frame", part)
		}
		w, err := strconv.ParseUint(ws, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("resize %q: width: %w", part, err)
		}
		h, err := strconv.ParseUint(hs, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("resize %q: height: %w", part, err)
		}
		frame, err := strconv.ParseUint(at, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("resize %q: frame: %w", part, err)
		}
		steps = append(steps, resizeStep{Frame: frame, Width: uint32(w), Height: uint32(h)})
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Frame < steps[j].Frame })
	return steps, nil
}

// due returns the steps scheduled for frame and the remaining ones.
func due(steps []resizeStep, frame uint64) (now, rest []resizeStep) {
	i := 0
	for i < len(steps) && steps[i].Frame <= frame {
		i++
	}
	return steps[:i], steps[i:]
}

// timeline is the headless frame clock. Each poll starts a frame: the
// first frame renders at start, later ones one step apart.
type timeline struct {
	start    time.Time
	step     time.Duration
	frame    uint64
	started  bool
	schedule []resizeStep
}

func newTimeline(start time.Time, step time.Duration, schedule []resizeStep) *timeline {
	return &timeline{start: start, step: step, schedule: schedule}
}

// now is the time of the current frame.
func (tl *timeline) now() time.Time {
	return tl.start.Add(time.Duration(tl.frame) * tl.step) //nolint:gosec // frame counts are small
}

// next advances past the frame rendered since the previous call, if any,
// and returns the resizes due before the current one. It reports whether
// a frame was completed.
func (tl *timeline) next() (steps []resizeStep, advanced bool) {
	if tl.started {
		tl.frame++
		advanced = true
	}
	tl.started = true
	steps, tl.schedule = due(tl.schedule, tl.frame)
	return steps, advanced
}
