// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package antichain implements the frontier arithmetic of spec §3: an
// antichain is a pairwise-incomparable sequence of lattice elements
// denoting a downward-closed set of times, and a Mutable antichain is
// a counted multiset of elements that reduces, at any moment, to the
// antichain of its minimal positive-count members.
package antichain

import "github.com/flowlattice/trace/lattice"

// Antichain is a frontier: a set of pairwise-incomparable times
// representing "every time at or beyond one of these". An empty
// Antichain represents the empty downward-closed set — the terminal
// frontier that no real time is in advance of.
type Antichain[T lattice.Lattice[T]] []T

// Dominates reports whether t is in advance of the frontier, i.e.
// some element of the frontier precedes or equals t. An empty
// frontier dominates nothing.
func Dominates[T lattice.Lattice[T]](frontier Antichain[T], t T) bool {
	for _, f := range frontier {
		if f.LessEqual(t) {
			return true
		}
	}
	return false
}

// Equal reports whether a and b are the same antichain: the same
// elements, independent of order. This is an equality of sets, not a
// comparison of the downward-closed sets they denote by some other
// means — two antichains with different elements but the same
// downward closure (which cannot happen for well-formed antichains,
// since minimal elements are unique) are not a concern here.
func Equal[T lattice.Lattice[T]](a, b Antichain[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if lattice.Equal(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Meet returns the antichain describing the intersection of the
// downward-closed sets a and b denote: the minimal elements of
// {x.Join(y) : x in a, y in b}. This is "the stricter of two
// frontiers" used to combine two batches' since fields on merge
// (spec §4.4). An empty operand is not treated as the empty set: if
// either a or b is empty, Meet returns a copy of the other.
func Meet[T lattice.Lattice[T]](a, b Antichain[T]) Antichain[T] {
	if len(a) == 0 {
		return append(Antichain[T]{}, b...)
	}
	if len(b) == 0 {
		return append(Antichain[T]{}, a...)
	}
	candidates := make([]T, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			candidates = append(candidates, x.Join(y))
		}
	}
	return minimal(candidates)
}

// FromSlice reduces an arbitrary slice of times to the antichain of
// its minimal elements, deduplicating equal entries. Used by a
// Batcher to compute its current frontier from the times of its
// held, unsealed updates.
func FromSlice[T lattice.Lattice[T]](elems []T) Antichain[T] {
	return minimal(elems)
}

// minimal reduces candidates to their minimal elements, deduplicating
// equal entries.
func minimal[T lattice.Lattice[T]](candidates []T) Antichain[T] {
	out := make(Antichain[T], 0, len(candidates))
outer:
	for i, c := range candidates {
		for j, other := range candidates {
			if i == j {
				continue
			}
			if lattice.Less(other, c) {
				continue outer
			}
			// Keep only the first of a run of equal candidates.
			if lattice.Equal(other, c) && j < i {
				continue outer
			}
		}
		out = append(out, c)
	}
	return out
}
