// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import (
	"fmt"
	"sync"
)

// EventKind identifies a window event.
type EventKind int

const (
	// EventResize is delivered when the window extent changes.
	EventResize EventKind = iota + 1

	// EventClose is delivered when the window is asked to close.
	EventClose
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a window event consumed by the frame loop.
type Event struct {
	Kind EventKind

	// Width and Height hold the new extent of a resize event.
	Width, Height uint32
}

// EventSource delivers window events. Poll must not block; it returns the
// events received since the previous call.
type EventSource interface {
	Poll() []Event
}

// EventSourceFunc adapts a function to EventSource.
type EventSourceFunc func() []Event

// Poll calls f.
func (f EventSourceFunc) Poll() []Event { return f() }

// EventQueue is an EventSource fed from other goroutines.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends an event.
func (q *EventQueue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Poll drains the queue.
func (q *EventQueue) Poll() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}
