// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package consolidate implements the pure sort-and-sum sweep that
// collapses adjacent equal keys by summing their diffs and dropping
// zeros (spec §4.1). It is grounded on trace/mod.rs's
// consolidate/consolidate_by, translated into the teacher's own
// explicit-comparator idiom (slices.SortFunc in trace/reader.go)
// rather than requiring an Ord constraint.
package consolidate

import (
	"sort"

	"github.com/flowlattice/trace/diff"
)

// Pair is a (key, diff) entry consolidated in place.
type Pair[K any, R diff.Diff[R]] struct {
	Key  K
	Diff R
}

// Consolidate stably sorts s[off:] by Key using cmp, then in one
// left-to-right sweep sums the Diff of adjacent equal keys into the
// rightmost entry of each run, and in a second sweep compacts out
// zero-Diff entries, preserving relative order. s is truncated to the
// number of survivors. s[:off] is untouched.
//
// Consolidate is idempotent: calling it twice with the same off
// produces the same result as calling it once. It runs in
// O(n log n).
func Consolidate[K any, R diff.Diff[R]](s []Pair[K, R], off int, cmp func(a, b K) int) []Pair[K, R] {
	tail := s[off:]
	sort.SliceStable(tail, func(i, j int) bool {
		return cmp(tail[i].Key, tail[j].Key) < 0
	})

	zero := zeroOf[R]()
	for i := len(tail) - 1; i > 0; i-- {
		if cmp(tail[i].Key, tail[i-1].Key) == 0 {
			tail[i].Diff = tail[i].Diff.Add(tail[i-1].Diff)
			tail[i-1].Diff = zero
		}
	}

	survivors := off
	for i := range tail {
		if !tail[i].Diff.IsZero() {
			s[survivors] = tail[i]
			survivors++
		}
	}
	return s[:survivors]
}

func zeroOf[R diff.Diff[R]]() R {
	var r R
	return r
}
