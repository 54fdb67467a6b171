// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chain

import (
	"sort"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

// Batcher accepts unordered updates and seals contiguous batches from
// them (spec §4.3 "Batcher"), grounded on trace/generation.go's
// accumulation of per-thread event batches from a single generation.
type Batcher[K, V any, T lattice.Lattice[T], R diff.Diff[R]] struct {
	pending []batch.Update[K, V, T, R]
	lower   antichain.Antichain[T]
	keyCmp  Comparator[K]
	valCmp  Comparator[V]
}

var _ batch.Batcher[int, int, lattice.U64, diff.Int64, *Batch[int, int, lattice.U64, diff.Int64]] = (*Batcher[int, int, lattice.U64, diff.Int64])(nil)

// NewBatcher allocates an empty batcher. lower is the batcher's
// starting lower bound — the upper bound of whatever batch precedes
// the first one this batcher will seal.
func NewBatcher[K, V any, T lattice.Lattice[T], R diff.Diff[R]](keyCmp Comparator[K], valCmp Comparator[V], lower antichain.Antichain[T]) *Batcher[K, V, T, R] {
	return &Batcher[K, V, T, R]{
		lower:  append(antichain.Antichain[T]{}, lower...),
		keyCmp: keyCmp,
		valCmp: valCmp,
	}
}

// PushBatch ingests a chunk of unordered updates, stealing its
// backing storage: *updates is truncated to empty on return.
func (b *Batcher[K, V, T, R]) PushBatch(updates *[]batch.Update[K, V, T, R]) {
	b.pending = append(b.pending, *updates...)
	*updates = (*updates)[:0]
}

// Frontier reports the antichain of minimal times among held,
// unsealed updates.
func (b *Batcher[K, V, T, R]) Frontier() antichain.Antichain[T] {
	times := make([]T, len(b.pending))
	for i, u := range b.pending {
		times[i] = u.Time
	}
	return antichain.FromSlice(times)
}

// Seal extracts every held update whose time is not dominated by
// upper, consolidates it, and returns it as a batch described by
// (previousLower, upper, previousLower). Updates dominated by upper
// are retained for the next Seal.
//
// since is set to the batch's own lower bound rather than to a
// literal "minimum" element of T (spec §4.3 says "{minimum}"): a
// freshly sealed batch has not been compacted at all, and since=lower
// is the weakest frontier satisfying that — every update's time is
// already dominated by lower by construction, so no further
// relabelling is implied. Generic T has no portable "minimum element"
// constructor to instantiate literally.
func (b *Batcher[K, V, T, R]) Seal(upper antichain.Antichain[T]) *Batch[K, V, T, R] {
	sealed := make([]batch.Update[K, V, T, R], 0, len(b.pending))
	retained := b.pending[:0]
	for _, u := range b.pending {
		if antichain.Dominates(upper, u.Time) {
			retained = append(retained, u)
		} else {
			sealed = append(sealed, u)
		}
	}
	b.pending = retained

	builder := WithCapacity[K, V, T, R](b.keyCmp, b.valCmp, len(sealed))
	rows := make([]row[K, V, T, R], len(sealed))
	for i, u := range sealed {
		rows[i] = row[K, V, T, R]{key: u.Key, val: u.Val, time: u.Time, diff: u.Diff}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return compareRows(b.keyCmp, b.valCmp, rows[i], rows[j]) < 0
	})
	rows = consolidateRows(rows, b.keyCmp, b.valCmp)
	for _, r := range rows {
		builder.Push(batch.Update[K, V, T, R]{Key: r.key, Val: r.val, Time: r.time, Diff: r.diff})
	}

	out := builder.Done(b.lower, upper, b.lower)
	b.lower = append(antichain.Antichain[T]{}, upper...)
	return out
}
