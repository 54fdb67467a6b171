// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lattice defines the partial order that update times are
// drawn from, and ships the two concrete time types the rest of the
// module is tested against.
package lattice

// Lattice is the "T" of the (key, value, time, diff) update tuple: a
// join-semilattice partial order, together with a total order used
// to sort and deduplicate times (spec §6: "a lattice interface on T
// supporting join, advance_by, total Ord, and Clone"). The two orders
// are deliberately distinct interfaces: LessEqual is the partial
// order frontiers and Join reason about, where two times may be
// incomparable (neither LessEqual the other); Compare is a total
// order consolidation and sorting can rely on, which must refine
// LessEqual (if a.LessEqual(b) and not b.LessEqual(a), then
// a.Compare(b) < 0) but otherwise may break ties among incomparable
// elements however it likes. For a type whose partial order already
// happens to be total (e.g. U64), the two agree everywhere; for a
// genuine product of two lattices they generally do not.
type Lattice[T any] interface {
	// Join returns the least upper bound of the receiver and other.
	Join(other T) T
	// LessEqual reports whether the receiver precedes or equals
	// other in the partial order.
	LessEqual(other T) bool
	// Compare totally orders the receiver against other: negative if
	// the receiver sorts first, zero if equal, positive otherwise.
	Compare(other T) int
}

// Equal reports whether a and b are the same time.
func Equal[T Lattice[T]](a, b T) bool { return a.Compare(b) == 0 }

// Less reports whether a strictly precedes b in the partial order.
func Less[T Lattice[T]](a, b T) bool { return a.LessEqual(b) && !b.LessEqual(a) }

// AdvanceBy relabels t to the least time that is both frontier-
// compatible and accumulates identically to t at every query time at
// or beyond frontier. See spec §4.4: if frontier is empty, t is
// unchanged; if some f in frontier already precedes-or-equals t, t is
// unchanged; otherwise t advances to the join of t with every element
// of frontier.
func AdvanceBy[T Lattice[T]](t T, frontier []T) T {
	if len(frontier) == 0 {
		return t
	}
	for _, f := range frontier {
		if f.LessEqual(t) {
			return t
		}
	}
	advanced := t
	first := true
	for _, f := range frontier {
		if first {
			advanced = f.Join(t)
			first = false
			continue
		}
		advanced = advanced.Join(f.Join(t))
	}
	return advanced
}

// Compare orders a and b by their total order, for use as a
// comparator function (e.g. with consolidate.Consolidate).
func Compare[T Lattice[T]](a, b T) int { return a.Compare(b) }
