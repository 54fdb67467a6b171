// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace assembles a contiguous, time-ordered run of batches
// into the trace abstraction of spec §4.5: an append-only log of
// (key, value, time, diff) updates that can be read as of any frontier
// for which a clean cut exists, and whose history before its declared
// frontiers may be compacted away.
//
// Grounded on trace/generation.go's append-only sequence of
// generations (each a contiguous slice of the overall event stream)
// and trace/reader.go's frontier-driven read-through of them.
package trace

import (
	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/cursor"
	"github.com/flowlattice/trace/description"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

// TraceReader is the read side of a trace (spec §4.5 "TraceReader"):
// everything a consumer needs to iterate updates as of some frontier,
// without the ability to extend the trace itself.
type TraceReader[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any] interface {
	// Cursor acquires a cursor over the trace's entire held history.
	// Panics with a *tracerr.Violation if CursorThrough finds no clean
	// cut at the empty frontier. Spine's CursorThrough always finds one
	// there, covering every held batch, so Spine.Cursor does not panic.
	Cursor() (*Cursor[K, V, T, R, C, S], []S)

	// CursorThrough acquires a cursor over every update up to, but not
	// beyond, upper. Returns a wrapped tracerr.ErrNoCleanCut if no
	// prefix of the trace's batches has upper as its combined upper
	// bound.
	CursorThrough(upper antichain.Antichain[T]) (*Cursor[K, V, T, R, C, S], []S, error)

	// MapBatches invokes f once per held batch, in time order.
	MapBatches(f func(b batch.BatchReader[K, V, T, R, C, S]))

	// AdvanceFrontier reports the frontier beyond which the trace
	// promises not to consolidate updates: future reads may see
	// different individual times, but identical accumulations, at or
	// beyond this frontier only.
	AdvanceFrontier() antichain.Antichain[T]

	// DistinguishFrontier reports the frontier that governs batch
	// merging: two adjacent batches may be merged once their shared
	// boundary sits at or behind this frontier, while a boundary still
	// ahead of it stays a clean cut for CursorThrough. Times are
	// relabelled by the advance frontier, not by this one.
	DistinguishFrontier() antichain.Antichain[T]
}

// Trace extends TraceReader with the mutations that grow and compact
// it (spec §4.5 "Trace"): a Handle coordinates these against other
// readers before calling them.
type Trace[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any] interface {
	TraceReader[K, V, T, R, C, S]

	// Insert appends b to the trace. Panics with a *tracerr.Violation
	// if b.Description().Lower does not equal the trace's current
	// upper bound (spec §4.5's contiguity invariant).
	Insert(b batch.BatchReader[K, V, T, R, C, S])

	// AdvanceBy moves the trace's advance frontier forward to
	// frontier, permitting (but not requiring) compaction of
	// consolidatable times at or beyond it. Panics with a
	// *tracerr.Violation if frontier does not dominate the trace's
	// current advance frontier.
	AdvanceBy(frontier antichain.Antichain[T])

	// DistinguishSince moves the trace's distinguish frontier forward
	// to frontier. Panics with a *tracerr.Violation if frontier does
	// not dominate the trace's current distinguish frontier.
	DistinguishSince(frontier antichain.Antichain[T])
}
