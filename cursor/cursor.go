// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cursor defines the read-only, stateful navigator over a
// sorted (key, value, time, diff) stream (spec §4.2).
//
// Cursor is parameterized over a Storage type the way
// trace/batchcursor.go's batchCursor is parameterized over the
// []batch slice it reads from without owning it: a cursor and its
// storage are passed together so an implementation may back a cursor
// with bytes it does not own (spec §9 "Polymorphism over storage").
package cursor

// Cursor navigates a batch's sorted (key, value, time, diff) content.
// A cursor visits keys in sorted order; for each key it visits values
// in sorted order; for each (key, value) the set of (time, diff) is a
// multiset with non-zero net diff — otherwise the pair is absent.
type Cursor[K, V, T, R, Storage any] interface {
	// KeyValid reports whether the cursor points at a valid key.
	KeyValid(storage Storage) bool
	// ValValid reports whether the cursor points at a valid value
	// for the current key. Only meaningful if KeyValid.
	ValValid(storage Storage) bool

	// Key returns the current key. Only valid if KeyValid.
	Key(storage Storage) K
	// Val returns the current value. Only valid if ValValid.
	Val(storage Storage) V

	// MapTimes invokes f once per (time, diff) pair stored at the
	// current (key, value), in unspecified order, each exactly once.
	MapTimes(storage Storage, f func(t T, r R))

	// StepKey advances to the next key, if any, resetting the value
	// cursor to the first value of that key.
	StepKey(storage Storage)
	// StepVal advances to the next value of the current key, if any.
	StepVal(storage Storage)

	// SeekKey advances, monotonically, to the first valid key at or
	// after target.
	SeekKey(storage Storage, target K)
	// SeekVal advances, monotonically, to the first valid value of
	// the current key at or after target.
	SeekVal(storage Storage, target V)

	// RewindKeys resets the cursor to the first key.
	RewindKeys(storage Storage)
	// RewindVals resets the cursor to the first value of the
	// current key.
	RewindVals(storage Storage)
}
