// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package antichain

import "github.com/flowlattice/trace/lattice"

// Mutable is a counted multiset of times, used to merge many readers'
// declared frontiers into one aggregate: Elements() always yields the
// antichain of minimal elements with positive count. See spec §3
// "MutableAntichain" and §9 "Antichain arithmetic" — the minimal view
// is memoized and only recomputed when an Update actually changes the
// set of elements with positive count.
type Mutable[T interface {
	lattice.Lattice[T]
	comparable
}] struct {
	counts  map[T]int
	stale   bool
	minimal Antichain[T]
}

// NewMutable returns an empty multiset.
func NewMutable[T interface {
	lattice.Lattice[T]
	comparable
}]() *Mutable[T] {
	return &Mutable[T]{counts: make(map[T]int)}
}

// Update adjusts t's multiplicity by delta, which may be negative.
// Panics if this would take t's count negative: that is always a
// bookkeeping bug in the caller (a Handle trying to withdraw a
// frontier element it never deposited).
func (m *Mutable[T]) Update(t T, delta int) {
	old := m.counts[t]
	count := old + delta
	switch {
	case count < 0:
		panic("antichain: Mutable count went negative")
	case count == 0:
		delete(m.counts, t)
	default:
		m.counts[t] = count
	}
	if (old > 0) != (count > 0) {
		m.stale = true
	}
}

// Elements returns the current antichain of minimal elements with
// positive count.
func (m *Mutable[T]) Elements() Antichain[T] {
	if m.stale {
		m.recompute()
	}
	return m.minimal
}

func (m *Mutable[T]) recompute() {
	candidates := make([]T, 0, len(m.counts))
	for t := range m.counts {
		candidates = append(candidates, t)
	}
	out := make(Antichain[T], 0, len(candidates))
outer:
	for _, c := range candidates {
		for _, other := range candidates {
			if lattice.Equal(other, c) {
				continue
			}
			if lattice.Less(other, c) {
				continue outer
			}
		}
		out = append(out, c)
	}
	m.minimal = out
	m.stale = false
}
