// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package description_test

import (
	"testing"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/description"
	"github.com/flowlattice/trace/lattice"
)

func TestNewCopiesAntichains(t *testing.T) {
	lower := antichain.Antichain[lattice.U64]{0}
	upper := antichain.Antichain[lattice.U64]{3}
	since := antichain.Antichain[lattice.U64]{0}

	desc := description.New(lower, upper, since)
	lower[0] = 99 // mutate the caller's slice after construction

	if desc.Lower[0] == 99 {
		t.Error("New should copy its antichain arguments, not alias them")
	}
	if !antichain.Equal(desc.Upper, upper) {
		t.Errorf("Upper = %v, want %v", desc.Upper, upper)
	}
}
