// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch_test

import (
	"strings"
	"testing"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/batch/chain"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
)

func cmpString(a, b string) int { return strings.Compare(a, b) }

func TestAdvanceMutRebuildsInPlace(t *testing.T) {
	builder := chain.NewBuilder[string, string, lattice.U64, diff.Int64](cmpString, cmpString)
	builder.Push(batch.Update[string, string, lattice.U64, diff.Int64]{Key: "a", Val: "x", Time: 0, Diff: 1})
	builder.Push(batch.Update[string, string, lattice.U64, diff.Int64]{Key: "a", Val: "x", Time: 1, Diff: 1})
	target := builder.Done(antichain.Antichain[lattice.U64]{0}, antichain.Antichain[lattice.U64]{2}, antichain.Antichain[lattice.U64]{0})

	out := target
	newBuilder := func() batch.Builder[string, string, lattice.U64, diff.Int64, *chain.Batch[string, string, lattice.U64, diff.Int64]] {
		return chain.NewBuilder[string, string, lattice.U64, diff.Int64](cmpString, cmpString)
	}
	batch.AdvanceMut[string, string, lattice.U64, diff.Int64, *chain.Cursor[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64]](
		&out, antichain.Antichain[lattice.U64]{2}, newBuilder,
	)

	if out.Len() != 1 {
		t.Fatalf("after AdvanceMut, Len() = %d, want 1 (times 0 and 1 collapse to 2)", out.Len())
	}
}
