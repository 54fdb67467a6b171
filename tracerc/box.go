// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracerc shares one owned Trace among multiple readers, each
// of which may hold the trace to a different frontier. Box aggregates
// every Handle's declared frontier into a mutable multiset so the
// trace is only ever advanced to the oldest frontier any live handle
// still needs, grounded on trace/wrappers/rc.rs's TraceBox/TraceRc
// pair, translated from Rc<RefCell<_>> + Drop to a mutex-guarded Box
// plus an explicit Handle.Close replacing Drop.
package tracerc

import (
	"sync"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/cursor"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
	tr "github.com/flowlattice/trace/trace"
)

// Box owns a Trace and tracks, as a counted multiset, the frontiers
// every outstanding Handle has declared. It is the shared mutable
// state multiple Handles coordinate through; callers normally reach
// it only via Handle.
type Box[K, V any, T interface {
	lattice.Lattice[T]
	comparable
}, R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any] struct {
	mu               sync.Mutex
	trace            tr.Trace[K, V, T, R, C, S]
	advanceFrontiers *antichain.Mutable[T]
	distinguishHolds *antichain.Mutable[T]
}

// NewBox moves trace into a shareable wrapper. Any non-initial
// advance/distinguish frontier the trace already has is folded into
// the box's initial accounting, the way TraceBox::new fishes the
// existing frontiers out of the trace it is given.
func NewBox[K, V any, T interface {
	lattice.Lattice[T]
	comparable
}, R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any](trace tr.Trace[K, V, T, R, C, S]) *Box[K, V, T, R, C, S] {
	b := &Box[K, V, T, R, C, S]{
		trace:            trace,
		advanceFrontiers: antichain.NewMutable[T](),
		distinguishHolds: antichain.NewMutable[T](),
	}
	for _, t := range trace.AdvanceFrontier() {
		b.advanceFrontiers.Update(t, 1)
	}
	for _, t := range trace.DistinguishFrontier() {
		b.distinguishHolds.Update(t, 1)
	}
	return b
}

// adjustAdvanceFrontier withdraws lower's elements and deposits
// upper's, then informs the trace of the new aggregate minimum.
func (b *Box[K, V, T, R, C, S]) adjustAdvanceFrontier(lower, upper antichain.Antichain[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range upper {
		b.advanceFrontiers.Update(t, 1)
	}
	for _, t := range lower {
		b.advanceFrontiers.Update(t, -1)
	}
	b.trace.AdvanceBy(b.advanceFrontiers.Elements())
}

// adjustDistinguishFrontier is adjustAdvanceFrontier's counterpart
// for the distinguish (compaction) frontier.
func (b *Box[K, V, T, R, C, S]) adjustDistinguishFrontier(lower, upper antichain.Antichain[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range upper {
		b.distinguishHolds.Update(t, 1)
	}
	for _, t := range lower {
		b.distinguishHolds.Update(t, -1)
	}
	b.trace.DistinguishSince(b.distinguishHolds.Elements())
}

func (b *Box[K, V, T, R, C, S]) cursorThrough(upper antichain.Antichain[T]) (*tr.Cursor[K, V, T, R, C, S], []S, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trace.CursorThrough(upper)
}

func (b *Box[K, V, T, R, C, S]) cursor() (*tr.Cursor[K, V, T, R, C, S], []S) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trace.Cursor()
}

func (b *Box[K, V, T, R, C, S]) mapBatches(f func(batch.BatchReader[K, V, T, R, C, S])) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trace.MapBatches(f)
}

func (b *Box[K, V, T, R, C, S]) insert(r batch.BatchReader[K, V, T, R, C, S]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trace.Insert(r)
}
