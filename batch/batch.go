// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch defines the BatchReader/Batch/Batcher/Builder
// contracts of spec §4.3/§4.4, and the reference implementation of
// the time-advancement (compaction) algorithm that every concrete
// batch representation shares regardless of its storage layout.
package batch

import (
	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/consolidate"
	"github.com/flowlattice/trace/cursor"
	"github.com/flowlattice/trace/description"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

// Update is a single (key, value, time, diff) tuple, the unit pushed
// into a Batcher or Builder.
type Update[K, V any, T lattice.Lattice[T], R diff.Diff[R]] struct {
	Key  K
	Val  V
	Time T
	Diff R
}

// BatchReader is a read-only view of an immutable run of updates: the
// restricted interface appropriate for a view that cannot construct
// batches of its own (spec §4.3 "BatchReader").
type BatchReader[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any] interface {
	// Cursor acquires a cursor over the batch's contents.
	Cursor() (C, S)
	// Len is the number of (key, value, time) triples kept in the
	// batch; every kept triple's diff is non-zero.
	Len() int
	// Description describes the times of the updates in the batch.
	Description() description.Description[T]
}

// Batch adds, to BatchReader, the one construction-adjacent operation
// every concrete representation must supply for itself: pairwise
// merge with a contiguous neighbour (spec §4.4 "Merge"). Self is the
// concrete batch type — Batch is deliberately F-bounded so Merge can
// return the same concrete type it was called on, the way the
// original trait's `fn merge(&self, other: &Self) -> Self` does.
//
// AdvanceRef/AdvanceMut are not part of this interface: spec §4.4
// gives them one reference implementation that needs only a
// BatchReader and a Builder (below), so unlike Merge they need no
// per-representation override.
type Batch[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any, Self any] interface {
	BatchReader[K, V, T, R, C, S]

	// Merge combines the receiver with other. Panics unless
	// other.Description().Lower equals the receiver's
	// Description().Upper as antichains.
	Merge(other Self) Self
}

// Batcher accepts unordered updates and seals contiguous batches from
// them (spec §4.3 "Batcher").
type Batcher[K, V any, T lattice.Lattice[T], R diff.Diff[R], Out any] interface {
	// PushBatch ingests a chunk of unordered updates. The batcher is
	// free to drain or steal the chunk's backing storage, the way
	// the original's push_batch(&mut Vec<_>) may — hence the pointer
	// receiver rather than a plain slice argument.
	PushBatch(updates *[]Update[K, V, T, R])
	// Frontier reports the current frontier of all times still held:
	// the antichain of minimal times among held, unsealed updates.
	Frontier() antichain.Antichain[T]
	// Seal extracts every held update whose time is not dominated by
	// upper, returning it as a sealed batch described by
	// (previousUpper, upper, minimum). Updates dominated by upper are
	// retained for the next Seal.
	Seal(upper antichain.Antichain[T]) Out
}

// Builder accepts updates already in (K, V, T) sort order and
// assembles one batch from them (spec §4.3 "Builder"). Pushing
// out-of-order updates is a contract violation implementations need
// not detect.
type Builder[K, V any, T lattice.Lattice[T], R diff.Diff[R], Out any] interface {
	// Push adds one update to the batch under construction.
	Push(u Update[K, V, T, R])
	// Done completes construction and returns the batch, described
	// by the given bounds.
	Done(lower, upper, since antichain.Antichain[T]) Out
}

// AdvanceRef implements spec §4.4's compaction algorithm: it produces
// a fresh batch with the same accumulated multiset at every time at or
// beyond frontier, but with times relabelled and consolidated so that
// fewer distinct times remain. It is the one reference implementation
// every concrete Batch type shares, grounded on trace/mod.rs's
// Batch::advance_ref.
//
// Panics if frontier is empty: an empty frontier would advance every
// time to itself (spec §4.4's AdvanceBy is a no-op on an empty
// frontier), which is never a meaningful compaction to ask for and
// signals a caller bug the same way advance_ref's own assertion does.
func AdvanceRef[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any, Out any](
	reader BatchReader[K, V, T, R, C, S],
	frontier antichain.Antichain[T],
	builder Builder[K, V, T, R, Out],
) Out {
	if len(frontier) == 0 {
		panic("batch: AdvanceRef requires a non-empty frontier")
	}

	cur, storage := reader.Cursor()
	var times []consolidate.Pair[T, R]
	for cur.KeyValid(storage) {
		for cur.ValValid(storage) {
			times = times[:0]
			cur.MapTimes(storage, func(t T, r R) {
				times = append(times, consolidate.Pair[T, R]{
					Key:  lattice.AdvanceBy(t, frontier),
					Diff: r,
				})
			})
			times = consolidate.Consolidate(times, 0, lattice.Compare[T])

			key, val := cur.Key(storage), cur.Val(storage)
			for _, p := range times {
				builder.Push(Update[K, V, T, R]{Key: key, Val: val, Time: p.Key, Diff: p.Diff})
			}
			cur.StepVal(storage)
		}
		cur.StepKey(storage)
	}

	desc := reader.Description()
	return builder.Done(desc.Lower, desc.Upper, frontier)
}

// AdvanceMut is the in-place variant of AdvanceRef (spec §4.4 "In-
// place variant"): it rebuilds *target and reassigns it. Callers
// typically invoke it on a batch that was just produced by Merge and
// has no other owner, the way advance_mut's doc comment describes,
// since Go has no borrow checker to enforce unique ownership for them.
func AdvanceMut[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any, Out BatchReader[K, V, T, R, C, S]](
	target *Out,
	frontier antichain.Antichain[T],
	newBuilder func() Builder[K, V, T, R, Out],
) {
	*target = AdvanceRef[K, V, T, R, C, S](*target, frontier, newBuilder())
}
