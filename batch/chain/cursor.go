// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chain

import (
	"sort"

	"github.com/flowlattice/trace/cursor"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

// Cursor navigates a *Batch's sorted rows. It holds only position
// state; the rows themselves live in the Batch passed as storage on
// every call (spec §9 "Polymorphism over storage").
type Cursor[K, V any, T lattice.Lattice[T], R diff.Diff[R]] struct {
	pos         int // start of the current (key, value) group
	keyStart    int // start of the current key group
	keyGroupEnd int // end (exclusive) of the current key group
	valGroupEnd int // end (exclusive) of the current (key, value) group
}

var _ cursor.Cursor[int, int, lattice.U64, diff.Int64, *Batch[int, int, lattice.U64, diff.Int64]] = (*Cursor[int, int, lattice.U64, diff.Int64])(nil)

// KeyValid reports whether the cursor points at a valid key.
func (c *Cursor[K, V, T, R]) KeyValid(storage *Batch[K, V, T, R]) bool {
	return c.keyStart < len(storage.rows)
}

// ValValid reports whether the cursor points at a valid value for
// the current key.
func (c *Cursor[K, V, T, R]) ValValid(storage *Batch[K, V, T, R]) bool {
	return c.pos < c.keyGroupEnd
}

// Key returns the current key.
func (c *Cursor[K, V, T, R]) Key(storage *Batch[K, V, T, R]) K {
	return storage.rows[c.keyStart].key
}

// Val returns the current value.
func (c *Cursor[K, V, T, R]) Val(storage *Batch[K, V, T, R]) V {
	return storage.rows[c.pos].val
}

// MapTimes invokes f once per (time, diff) stored at the current
// (key, value).
func (c *Cursor[K, V, T, R]) MapTimes(storage *Batch[K, V, T, R], f func(t T, r R)) {
	for i := c.pos; i < c.valGroupEnd; i++ {
		f(storage.rows[i].time, storage.rows[i].diff)
	}
}

// StepKey advances to the next key.
func (c *Cursor[K, V, T, R]) StepKey(storage *Batch[K, V, T, R]) {
	c.pos = c.keyGroupEnd
	c.keyStart = c.pos
	c.enterKeyGroup(storage)
}

// StepVal advances to the next value of the current key.
func (c *Cursor[K, V, T, R]) StepVal(storage *Batch[K, V, T, R]) {
	c.pos = c.valGroupEnd
	c.enterValGroup(storage)
}

// SeekKey advances, monotonically, to the first valid key at or
// after target.
func (c *Cursor[K, V, T, R]) SeekKey(storage *Batch[K, V, T, R], target K) {
	rows := storage.rows
	c.pos = sort.Search(len(rows), func(i int) bool {
		return storage.keyCmp(rows[i].key, target) >= 0
	})
	c.keyStart = c.pos
	c.enterKeyGroup(storage)
}

// SeekVal advances, monotonically, to the first valid value of the
// current key at or after target.
func (c *Cursor[K, V, T, R]) SeekVal(storage *Batch[K, V, T, R], target V) {
	rows := storage.rows
	c.pos = c.keyStart + sort.Search(c.keyGroupEnd-c.keyStart, func(i int) bool {
		return storage.valCmp(rows[c.keyStart+i].val, target) >= 0
	})
	c.enterValGroup(storage)
}

// RewindKeys resets the cursor to the first key.
func (c *Cursor[K, V, T, R]) RewindKeys(storage *Batch[K, V, T, R]) {
	c.pos = 0
	c.keyStart = 0
	c.enterKeyGroup(storage)
}

// RewindVals resets the cursor to the first value of the current key.
func (c *Cursor[K, V, T, R]) RewindVals(storage *Batch[K, V, T, R]) {
	c.pos = c.keyStart
	c.enterValGroup(storage)
}

// enterKeyGroup recomputes keyGroupEnd and the value-group bounds for
// whatever key (if any) now sits at c.pos.
func (c *Cursor[K, V, T, R]) enterKeyGroup(storage *Batch[K, V, T, R]) {
	rows := storage.rows
	if c.pos >= len(rows) {
		c.keyGroupEnd = c.pos
		c.valGroupEnd = c.pos
		return
	}
	key := rows[c.pos].key
	c.keyGroupEnd = c.pos + sort.Search(len(rows)-c.pos, func(i int) bool {
		return storage.keyCmp(rows[c.pos+i].key, key) > 0
	})
	c.enterValGroup(storage)
}

// enterValGroup recomputes valGroupEnd for whatever value (if any)
// now sits at c.pos within the current key group.
func (c *Cursor[K, V, T, R]) enterValGroup(storage *Batch[K, V, T, R]) {
	rows := storage.rows
	if c.pos >= c.keyGroupEnd {
		c.valGroupEnd = c.pos
		return
	}
	val := rows[c.pos].val
	c.valGroupEnd = c.pos + sort.Search(c.keyGroupEnd-c.pos, func(i int) bool {
		return storage.valCmp(rows[c.pos+i].val, val) > 0
	})
}
