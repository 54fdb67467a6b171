// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"sort"

	"github.com/flowlattice/trace/batch/chain"
	"github.com/flowlattice/trace/cursor"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

// Comparator orders values of type X, the same explicit-function
// style package batch/chain takes instead of an Ord-like constraint.
type Comparator[X any] func(a, b X) int

type mergeEntry[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any] struct {
	cur     C
	storage S
}

// Cursor merges the per-batch cursors of a fixed list of batches into
// one logical cursor over their union (spec §4.5 "TraceReader"'s
// Cursor/CursorThrough), grounded on trace/batchcursor.go's heap-
// ordered merge of per-thread event cursors.
//
// Unlike that merge, which picks one minimum-timestamp cursor to
// advance at a time, this one is ordered by (key, value) and must
// advance every cursor tied for the current position together, since
// MapTimes needs to see every batch's times at a (key, value) pair.
// The number of batches feeding a trace's cursor is kept small by
// compaction, so resync keeps the merge fully sorted after every step
// rather than maintaining an incremental heap the way the much
// larger per-thread frontier in trace/reader.go does.
type Cursor[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any] struct {
	entries []*mergeEntry[K, V, T, R, C, S]
	keyCmp  Comparator[K]
	valCmp  Comparator[V]
}

var _ cursor.Cursor[int, int, lattice.U64, diff.Int64, struct{}] = (*Cursor[int, int, lattice.U64, diff.Int64, *chain.Cursor[int, int, lattice.U64, diff.Int64], *chain.Batch[int, int, lattice.U64, diff.Int64]])(nil)

// newCursor builds a merge cursor over cursors/storages, which must be
// parallel slices of equal length: cursors[i] navigates storages[i].
func newCursor[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any](
	cursors []C, storages []S, keyCmp Comparator[K], valCmp Comparator[V],
) *Cursor[K, V, T, R, C, S] {
	entries := make([]*mergeEntry[K, V, T, R, C, S], len(cursors))
	for i := range cursors {
		entries[i] = &mergeEntry[K, V, T, R, C, S]{cur: cursors[i], storage: storages[i]}
	}
	c := &Cursor[K, V, T, R, C, S]{entries: entries, keyCmp: keyCmp, valCmp: valCmp}
	c.resync()
	return c
}

// less orders a before b: invalid keys sort last, then by key, then
// invalid values sort last within a key, then by value.
func (c *Cursor[K, V, T, R, C, S]) less(a, b *mergeEntry[K, V, T, R, C, S]) bool {
	ak, bk := a.cur.KeyValid(a.storage), b.cur.KeyValid(b.storage)
	if ak != bk {
		return ak
	}
	if !ak {
		return false
	}
	if kc := c.keyCmp(a.cur.Key(a.storage), b.cur.Key(b.storage)); kc != 0 {
		return kc < 0
	}
	av, bv := a.cur.ValValid(a.storage), b.cur.ValValid(b.storage)
	if av != bv {
		return av
	}
	if !av {
		return false
	}
	return c.valCmp(a.cur.Val(a.storage), b.cur.Val(b.storage)) < 0
}

func (c *Cursor[K, V, T, R, C, S]) resync() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.less(c.entries[i], c.entries[j])
	})
}

// KeyValid reports whether the cursor points at a valid key.
func (c *Cursor[K, V, T, R, C, S]) KeyValid(_ struct{}) bool {
	return len(c.entries) > 0 && c.entries[0].cur.KeyValid(c.entries[0].storage)
}

// ValValid reports whether the cursor points at a valid value.
func (c *Cursor[K, V, T, R, C, S]) ValValid(_ struct{}) bool {
	return len(c.entries) > 0 && c.entries[0].cur.ValValid(c.entries[0].storage)
}

// Key returns the current key.
func (c *Cursor[K, V, T, R, C, S]) Key(_ struct{}) K {
	return c.entries[0].cur.Key(c.entries[0].storage)
}

// Val returns the current value.
func (c *Cursor[K, V, T, R, C, S]) Val(_ struct{}) V {
	return c.entries[0].cur.Val(c.entries[0].storage)
}

// MapTimes invokes f once per (time, diff) pair held by any
// underlying batch at the current (key, value).
func (c *Cursor[K, V, T, R, C, S]) MapTimes(_ struct{}, f func(t T, r R)) {
	if !c.ValValid(struct{}{}) {
		return
	}
	key, val := c.Key(struct{}{}), c.Val(struct{}{})
	for _, e := range c.entries {
		if !e.cur.KeyValid(e.storage) || c.keyCmp(e.cur.Key(e.storage), key) != 0 {
			break
		}
		if !e.cur.ValValid(e.storage) {
			continue
		}
		if cmp := c.valCmp(e.cur.Val(e.storage), val); cmp != 0 {
			if cmp > 0 {
				break
			}
			continue
		}
		e.cur.MapTimes(e.storage, f)
	}
}

// StepKey advances every entry at the current key, then resyncs.
func (c *Cursor[K, V, T, R, C, S]) StepKey(_ struct{}) {
	if !c.KeyValid(struct{}{}) {
		return
	}
	key := c.Key(struct{}{})
	for _, e := range c.entries {
		if !e.cur.KeyValid(e.storage) || c.keyCmp(e.cur.Key(e.storage), key) != 0 {
			break
		}
		e.cur.StepKey(e.storage)
	}
	c.resync()
}

// StepVal advances every entry at the current (key, value), then
// resyncs.
func (c *Cursor[K, V, T, R, C, S]) StepVal(_ struct{}) {
	if !c.ValValid(struct{}{}) {
		return
	}
	key, val := c.Key(struct{}{}), c.Val(struct{}{})
	for _, e := range c.entries {
		if !e.cur.KeyValid(e.storage) || c.keyCmp(e.cur.Key(e.storage), key) != 0 {
			break
		}
		if !e.cur.ValValid(e.storage) || c.valCmp(e.cur.Val(e.storage), val) != 0 {
			continue
		}
		e.cur.StepVal(e.storage)
	}
	c.resync()
}

// SeekKey seeks every entry, monotonically, to the first key at or
// after target.
func (c *Cursor[K, V, T, R, C, S]) SeekKey(_ struct{}, target K) {
	for _, e := range c.entries {
		e.cur.SeekKey(e.storage, target)
	}
	c.resync()
}

// SeekVal seeks every entry at the current key, monotonically, to
// the first value at or after target.
func (c *Cursor[K, V, T, R, C, S]) SeekVal(_ struct{}, target V) {
	if !c.KeyValid(struct{}{}) {
		return
	}
	key := c.Key(struct{}{})
	for _, e := range c.entries {
		if !e.cur.KeyValid(e.storage) || c.keyCmp(e.cur.Key(e.storage), key) != 0 {
			continue
		}
		e.cur.SeekVal(e.storage, target)
	}
	c.resync()
}

// RewindKeys resets every entry to its first key.
func (c *Cursor[K, V, T, R, C, S]) RewindKeys(_ struct{}) {
	for _, e := range c.entries {
		e.cur.RewindKeys(e.storage)
	}
	c.resync()
}

// RewindVals resets every entry at the current key to its first
// value.
func (c *Cursor[K, V, T, R, C, S]) RewindVals(_ struct{}) {
	if !c.KeyValid(struct{}{}) {
		return
	}
	key := c.Key(struct{}{})
	for _, e := range c.entries {
		if !e.cur.KeyValid(e.storage) || c.keyCmp(e.cur.Key(e.storage), key) != 0 {
			continue
		}
		e.cur.RewindVals(e.storage)
	}
	c.resync()
}
