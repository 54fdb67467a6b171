// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/description"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

// Builder assembles a Batch from updates already in (K, V, T) sort
// order (spec §4.3 "Builder"). Pushing out-of-order updates is a
// contract violation this Builder does not detect.
type Builder[K, V any, T lattice.Lattice[T], R diff.Diff[R]] struct {
	rows   []row[K, V, T, R]
	keyCmp Comparator[K]
	valCmp Comparator[V]
}

var _ batch.Builder[int, int, lattice.U64, diff.Int64, *Batch[int, int, lattice.U64, diff.Int64]] = (*Builder[int, int, lattice.U64, diff.Int64])(nil)

// NewBuilder allocates an empty builder using keyCmp and valCmp to
// order keys and values in the batch it eventually produces.
func NewBuilder[K, V any, T lattice.Lattice[T], R diff.Diff[R]](keyCmp Comparator[K], valCmp Comparator[V]) *Builder[K, V, T, R] {
	return &Builder[K, V, T, R]{keyCmp: keyCmp, valCmp: valCmp}
}

// WithCapacity allocates an empty builder with room for cap updates
// before it must grow.
func WithCapacity[K, V any, T lattice.Lattice[T], R diff.Diff[R]](keyCmp Comparator[K], valCmp Comparator[V], capacity int) *Builder[K, V, T, R] {
	return &Builder[K, V, T, R]{
		rows:   make([]row[K, V, T, R], 0, capacity),
		keyCmp: keyCmp,
		valCmp: valCmp,
	}
}

// Push adds one update to the batch under construction.
func (b *Builder[K, V, T, R]) Push(u batch.Update[K, V, T, R]) {
	b.rows = append(b.rows, row[K, V, T, R]{key: u.Key, val: u.Val, time: u.Time, diff: u.Diff})
}

// Done completes construction and returns the batch, described by
// the given bounds.
func (b *Builder[K, V, T, R]) Done(lower, upper, since antichain.Antichain[T]) *Batch[K, V, T, R] {
	return &Batch[K, V, T, R]{
		desc:   description.New(lower, upper, since),
		rows:   b.rows,
		keyCmp: b.keyCmp,
		valCmp: b.valCmp,
	}
}
