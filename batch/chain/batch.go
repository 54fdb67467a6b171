// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chain is the one concrete, in-memory batch representation
// this module ships: a single sorted run of (key, value, time, diff)
// rows backed by a plain slice. It exists to exercise every contract
// in package batch with real data; spec §1 places the concrete
// backing storage of updates (sorted vectors, layered tries, spine
// structures) out of scope beyond this reference shape.
//
// Grounded on trace/generation.go's per-thread batches (a generation
// collects one []batch per thread, each holding a run of events) and
// on trace/batchcursor.go's linear-scan cursor over them.
package chain

import (
	"sort"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/description"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

// Comparator orders values of type X. Batches take explicit
// comparators rather than requiring an Ord-like constraint on K and
// V, the way the teacher's own slices package takes an explicit less
// function (slices.SortFunc) instead of a constraints.Ordered bound.
type Comparator[X any] func(a, b X) int

type row[K, V any, T lattice.Lattice[T], R diff.Diff[R]] struct {
	key  K
	val  V
	time T
	diff R
}

// Batch is an immutable, sorted run of updates.
type Batch[K, V any, T lattice.Lattice[T], R diff.Diff[R]] struct {
	desc   description.Description[T]
	rows   []row[K, V, T, R]
	keyCmp Comparator[K]
	valCmp Comparator[V]
}

var _ batch.BatchReader[int, int, lattice.U64, diff.Int64, *Cursor[int, int, lattice.U64, diff.Int64], *Batch[int, int, lattice.U64, diff.Int64]] = (*Batch[int, int, lattice.U64, diff.Int64])(nil)

// Cursor acquires a cursor over the batch's contents. The returned
// storage is the batch itself: the cursor holds no data of its own,
// matching spec §9's "polymorphism over storage" — a cursor paired
// with storage it does not own.
func (b *Batch[K, V, T, R]) Cursor() (*Cursor[K, V, T, R], *Batch[K, V, T, R]) {
	c := &Cursor[K, V, T, R]{}
	c.RewindKeys(b)
	return c, b
}

// Len is the number of (key, value, time) triples kept in the batch.
func (b *Batch[K, V, T, R]) Len() int { return len(b.rows) }

// Description describes the times of the updates in the batch.
func (b *Batch[K, V, T, R]) Description() description.Description[T] { return b.desc }

// Merge combines the receiver with other, which must be the
// receiver's immediate upper neighbour: other.Description().Lower
// must equal the receiver's Description().Upper as antichains.
// Panics otherwise (spec §4.4 "Merge").
func (b *Batch[K, V, T, R]) Merge(other *Batch[K, V, T, R]) *Batch[K, V, T, R] {
	if !antichain.Equal(b.desc.Upper, other.desc.Lower) {
		panic("chain: Merge requires a.Upper() == b.Lower()")
	}

	merged := make([]row[K, V, T, R], 0, len(b.rows)+len(other.rows))
	merged = append(merged, b.rows...)
	merged = append(merged, other.rows...)
	sort.SliceStable(merged, func(i, j int) bool {
		return compareRows(b.keyCmp, b.valCmp, merged[i], merged[j]) < 0
	})
	merged = consolidateRows(merged, b.keyCmp, b.valCmp)

	return &Batch[K, V, T, R]{
		desc: description.New(
			b.desc.Lower,
			other.desc.Upper,
			antichain.Meet(b.desc.Since, other.desc.Since),
		),
		rows:   merged,
		keyCmp: b.keyCmp,
		valCmp: b.valCmp,
	}
}

func compareRows[K, V any, T lattice.Lattice[T], R diff.Diff[R]](keyCmp Comparator[K], valCmp Comparator[V], a, b row[K, V, T, R]) int {
	if c := keyCmp(a.key, b.key); c != 0 {
		return c
	}
	if c := valCmp(a.val, b.val); c != 0 {
		return c
	}
	return a.time.Compare(b.time)
}

// consolidateRows sums diffs of rows sharing a (key, value, time)
// triple and drops the survivors whose diff is zero, assuming rows is
// already sorted by (key, value, time).
func consolidateRows[K, V any, T lattice.Lattice[T], R diff.Diff[R]](rows []row[K, V, T, R], keyCmp Comparator[K], valCmp Comparator[V]) []row[K, V, T, R] {
	var zero R
	for i := len(rows) - 1; i > 0; i-- {
		if compareRows(keyCmp, valCmp, rows[i], rows[i-1]) == 0 {
			rows[i].diff = rows[i].diff.Add(rows[i-1].diff)
			rows[i-1].diff = zero
		}
	}
	survivors := 0
	for i := range rows {
		if !rows[i].diff.IsZero() {
			rows[survivors] = rows[i]
			survivors++
		}
	}
	return rows[:survivors]
}
