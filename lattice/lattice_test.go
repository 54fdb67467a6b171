// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lattice_test

import (
	"testing"

	"github.com/flowlattice/trace/lattice"
)

func TestU64Order(t *testing.T) {
	if !lattice.U64(1).LessEqual(lattice.U64(2)) {
		t.Error("1 should be LessEqual 2")
	}
	if lattice.U64(2).LessEqual(lattice.U64(1)) {
		t.Error("2 should not be LessEqual 1")
	}
	if !lattice.U64(3).LessEqual(lattice.U64(3)) {
		t.Error("3 should be LessEqual 3")
	}
	if got := lattice.U64(2).Join(lattice.U64(5)); got != 5 {
		t.Errorf("Join(2, 5) = %d, want 5", got)
	}
	if !lattice.Equal(lattice.U64(4), lattice.U64(4)) {
		t.Error("4 should equal 4")
	}
	if lattice.Less(lattice.U64(4), lattice.U64(4)) {
		t.Error("4 should not be strictly Less than 4")
	}
	if !lattice.Less(lattice.U64(3), lattice.U64(4)) {
		t.Error("3 should be strictly Less than 4")
	}
}

func TestProductOrder(t *testing.T) {
	a := lattice.Product[lattice.U64, lattice.U64]{First: 1, Second: 2}
	b := lattice.Product[lattice.U64, lattice.U64]{First: 2, Second: 1}

	if a.LessEqual(b) || b.LessEqual(a) {
		t.Error("(1,2) and (2,1) should be incomparable under LessEqual")
	}
	if a.Compare(b) == 0 {
		t.Error("Compare must totally order incomparable elements")
	}

	join := a.Join(b)
	want := lattice.Product[lattice.U64, lattice.U64]{First: 2, Second: 2}
	if join != want {
		t.Errorf("Join((1,2),(2,1)) = %+v, want %+v", join, want)
	}
}

func TestAdvanceBy(t *testing.T) {
	frontier := []lattice.U64{5}

	if got := lattice.AdvanceBy(lattice.U64(3), nil); got != 3 {
		t.Errorf("AdvanceBy with empty frontier = %d, want unchanged 3", got)
	}
	if got := lattice.AdvanceBy(lattice.U64(7), frontier); got != 7 {
		t.Errorf("AdvanceBy(7, {5}) = %d, want unchanged 7 (5 <= 7 already)", got)
	}
	if got := lattice.AdvanceBy(lattice.U64(2), frontier); got != 5 {
		t.Errorf("AdvanceBy(2, {5}) = %d, want 5", got)
	}
}
