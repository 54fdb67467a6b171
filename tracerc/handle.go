// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracerc

import (
	"context"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/cursor"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
	tr "github.com/flowlattice/trace/trace"
	"github.com/flowlattice/trace/tracemetrics"
	"github.com/flowlattice/trace/tracerr"
)

// Handle presents as a tr.TraceReader backed by a shared Box: reading
// through a Handle is indistinguishable from reading a privately
// owned trace, except that compaction may lag behind what an
// exclusive owner could achieve, since the trace won't advance past
// whatever the slowest living Handle still needs.
//
// A Handle must not be used after Close; doing so is a contract
// violation, not a recoverable error, the same way using a Rust value
// after it has been moved out from under a borrow is not.
type Handle[K, V any, T interface {
	lattice.Lattice[T]
	comparable
}, R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any] struct {
	box                 *Box[K, V, T, R, C, S]
	advanceFrontier     antichain.Antichain[T]
	distinguishFrontier antichain.Antichain[T]
	metrics             tracemetrics.Recorder
	closed              bool
}

// NewHandle allocates a Box around trace and returns the first Handle
// onto it, seeded with whatever advance/distinguish frontier trace
// already reports. metrics records this and every descendant Handle's
// lifecycle; the zero Recorder is a safe no-op.
func NewHandle[K, V any, T interface {
	lattice.Lattice[T]
	comparable
}, R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any](trace tr.Trace[K, V, T, R, C, S], metrics tracemetrics.Recorder) *Handle[K, V, T, R, C, S] {
	box := NewBox[K, V, T, R, C, S](trace)
	metrics.HandleOpened(context.Background())
	return &Handle[K, V, T, R, C, S]{
		box:                 box,
		advanceFrontier:     append(antichain.Antichain[T]{}, box.advanceFrontiers.Elements()...),
		distinguishFrontier: append(antichain.Antichain[T]{}, box.distinguishHolds.Elements()...),
		metrics:             metrics,
	}
}

// Clone allocates a second Handle onto the same Box, depositing the
// clone's own copy of this Handle's current frontiers into the Box's
// aggregate counts.
func (h *Handle[K, V, T, R, C, S]) Clone() *Handle[K, V, T, R, C, S] {
	h.mustBeOpen()
	h.box.adjustAdvanceFrontier(nil, h.advanceFrontier)
	h.box.adjustDistinguishFrontier(nil, h.distinguishFrontier)
	h.metrics.HandleOpened(context.Background())
	return &Handle[K, V, T, R, C, S]{
		box:                 h.box,
		advanceFrontier:     append(antichain.Antichain[T]{}, h.advanceFrontier...),
		distinguishFrontier: append(antichain.Antichain[T]{}, h.distinguishFrontier...),
		metrics:             h.metrics,
	}
}

// Close withdraws this Handle's held frontiers from the Box,
// replacing Rust's Drop with an explicit call. Calling Close twice,
// or using the Handle afterward, is a contract violation.
func (h *Handle[K, V, T, R, C, S]) Close() {
	h.mustBeOpen()
	h.box.adjustAdvanceFrontier(h.advanceFrontier, nil)
	h.box.adjustDistinguishFrontier(h.distinguishFrontier, nil)
	h.advanceFrontier = nil
	h.distinguishFrontier = nil
	h.closed = true
	h.metrics.HandleClosed(context.Background())
}

// AdvanceBy declares that this Handle no longer needs to read times
// other than those at or beyond frontier. The underlying trace may
// not compact immediately if other Handles still hold an older
// frontier.
func (h *Handle[K, V, T, R, C, S]) AdvanceBy(frontier antichain.Antichain[T]) {
	h.mustBeOpen()
	h.box.adjustAdvanceFrontier(h.advanceFrontier, frontier)
	h.advanceFrontier = append(antichain.Antichain[T]{}, frontier...)
}

// AdvanceFrontier reports this Handle's currently declared advance
// frontier.
func (h *Handle[K, V, T, R, C, S]) AdvanceFrontier() antichain.Antichain[T] {
	return append(antichain.Antichain[T]{}, h.advanceFrontier...)
}

// DistinguishSince declares that the trace may compact times before
// frontier into this Handle's reads.
func (h *Handle[K, V, T, R, C, S]) DistinguishSince(frontier antichain.Antichain[T]) {
	h.mustBeOpen()
	h.box.adjustDistinguishFrontier(h.distinguishFrontier, frontier)
	h.distinguishFrontier = append(antichain.Antichain[T]{}, frontier...)
}

// DistinguishFrontier reports this Handle's currently declared
// distinguish frontier.
func (h *Handle[K, V, T, R, C, S]) DistinguishFrontier() antichain.Antichain[T] {
	return append(antichain.Antichain[T]{}, h.distinguishFrontier...)
}

// CursorThrough acquires a cursor over the shared trace through
// upper.
func (h *Handle[K, V, T, R, C, S]) CursorThrough(upper antichain.Antichain[T]) (*tr.Cursor[K, V, T, R, C, S], []S, error) {
	h.mustBeOpen()
	return h.box.cursorThrough(upper)
}

// Cursor acquires a cursor over the shared trace's entire held
// history.
func (h *Handle[K, V, T, R, C, S]) Cursor() (*tr.Cursor[K, V, T, R, C, S], []S) {
	h.mustBeOpen()
	return h.box.cursor()
}

// MapBatches invokes f once per batch the shared trace currently
// holds.
func (h *Handle[K, V, T, R, C, S]) MapBatches(f func(b batch.BatchReader[K, V, T, R, C, S])) {
	h.mustBeOpen()
	h.box.mapBatches(f)
}

// Insert appends b to the shared trace. Any Handle may insert;
// frontier accounting is unaffected by which Handle performs it.
func (h *Handle[K, V, T, R, C, S]) Insert(b batch.BatchReader[K, V, T, R, C, S]) {
	h.mustBeOpen()
	h.box.insert(b)
}

func (h *Handle[K, V, T, R, C, S]) mustBeOpen() {
	if h.closed {
		tracerr.Violatef(tracerr.KindUseAfterClose, "tracerc: Handle used after Close")
	}
}
