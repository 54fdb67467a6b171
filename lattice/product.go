// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lattice

// Product is the pointwise product order of two lattices: the
// natural way to combine two independent time dimensions (for
// example an epoch and a worker-local sequence number) into one
// partial order. (a1, b1) precedes-or-equals (a2, b2) iff a1
// precedes-or-equals a2 and b1 precedes-or-equals b2 in their
// respective lattices.
//
// Unlike U64, Product's partial order is generally not total: (1, 2)
// and (2, 1) are incomparable under LessEqual. Compare breaks such
// ties lexicographically by First then Second, the way
// differential-dataflow's own Product type derives a total Ord
// distinct from its pointwise PartialOrder.
type Product[T1 Lattice[T1], T2 Lattice[T2]] struct {
	First  T1
	Second T2
}

// Join implements Lattice.
func (p Product[T1, T2]) Join(other Product[T1, T2]) Product[T1, T2] {
	return Product[T1, T2]{
		First:  p.First.Join(other.First),
		Second: p.Second.Join(other.Second),
	}
}

// LessEqual implements Lattice.
func (p Product[T1, T2]) LessEqual(other Product[T1, T2]) bool {
	return p.First.LessEqual(other.First) && p.Second.LessEqual(other.Second)
}

// Compare implements Lattice.
func (p Product[T1, T2]) Compare(other Product[T1, T2]) int {
	if c := p.First.Compare(other.First); c != 0 {
		return c
	}
	return p.Second.Compare(other.Second)
}
