// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cube

import "testing"

func TestEventQueue(t *testing.T) {
	var q EventQueue
	if got := q.Poll(); got != nil {
		t.Errorf("empty Poll = %v", got)
	}
	q.Push(Event{Kind: EventResize, Width: 10, Height: 20})
	q.Push(Event{Kind: EventClose})
	got := q.Poll()
	if len(got) != 2 || got[0].Kind != EventResize || got[1].Kind != EventClose {
		t.Errorf("Poll = %+v", got)
	}
	if got := q.Poll(); got != nil {
		t.Errorf("Poll after drain = %v", got)
	}
}

func TestEventKindString(t *testing.T) {
	if EventResize.String() != "resize" || EventClose.String() != "close" {
		t.Error("unexpected event kind names")
	}
	if EventKind(99).String() != "EventKind(99)" {
		t.Errorf("unknown kind = %q", EventKind(99).String())
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range []Variant{VariantClear, VariantTriangle, VariantCube, VariantLit} {
		got, err := ParseVariant(v.String())
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseVariant("sphere"); err == nil {
		t.Error("ParseVariant(sphere) succeeded")
	}
	if VariantClear.Mesh() != nil {
		t.Error("clear variant has a mesh")
	}
}
