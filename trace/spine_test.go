// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace_test

import (
	"strings"
	"testing"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/batch/chain"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
	tr "github.com/flowlattice/trace/trace"
	"github.com/flowlattice/trace/traceopts"
)

func cmpString(a, b string) int { return strings.Compare(a, b) }

func newSpine(t *testing.T) *tr.Spine[string, string, lattice.U64, diff.Int64, *chain.Cursor[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64]] {
	t.Helper()
	newBuilder := func() batch.Builder[string, string, lattice.U64, diff.Int64, *chain.Batch[string, string, lattice.U64, diff.Int64]] {
		return chain.NewBuilder[string, string, lattice.U64, diff.Int64](cmpString, cmpString)
	}
	return tr.NewSpine[string, string, lattice.U64, diff.Int64, *chain.Cursor[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64]](
		antichain.Antichain[lattice.U64]{0}, cmpString, cmpString, newBuilder, traceopts.New(),
	)
}

func insertSealed(t *testing.T, spine interface {
	Insert(batch.BatchReader[string, string, lattice.U64, diff.Int64, *chain.Cursor[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64]])
}, lower, upper antichain.Antichain[lattice.U64], updates []batch.Update[string, string, lattice.U64, diff.Int64]) {
	t.Helper()
	b := chain.NewBatcher[string, string, lattice.U64, diff.Int64](cmpString, cmpString, lower)
	b.PushBatch(&updates)
	spine.Insert(b.Seal(upper))
}

func TestSpineInsertRejectsGap(t *testing.T) {
	spine := newSpine(t)
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{0}, antichain.Antichain[lattice.U64]{1}, nil)

	defer func() {
		if recover() == nil {
			t.Error("inserting a batch with a gap before its lower bound should panic")
		}
	}()
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{5}, antichain.Antichain[lattice.U64]{6}, nil)
}

func TestSpineCursorEmptyUpperMeansEverything(t *testing.T) {
	spine := newSpine(t)
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{0}, antichain.Antichain[lattice.U64]{1}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "alice", Val: "go", Time: 0, Diff: 1},
	})
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{1}, antichain.Antichain[lattice.U64]{2}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "bob", Val: "rust", Time: 1, Diff: 1},
	})

	// Cursor() must succeed and see both batches, even though no batch's
	// own upper bound is literally the empty antichain.
	cur, _ := spine.Cursor()
	count := 0
	for cur.KeyValid(struct{}{}) {
		for cur.ValValid(struct{}{}) {
			count++
			cur.StepVal(struct{}{})
		}
		cur.StepKey(struct{}{})
	}
	if count != 2 {
		t.Fatalf("Cursor() over two batches saw %d rows, want 2", count)
	}
}

func TestSpineCursorThroughCleanCut(t *testing.T) {
	spine := newSpine(t)
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{0}, antichain.Antichain[lattice.U64]{1}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "alice", Val: "go", Time: 0, Diff: 1},
	})
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{1}, antichain.Antichain[lattice.U64]{2}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "bob", Val: "rust", Time: 1, Diff: 1},
	})

	cur, _, err := spine.CursorThrough(antichain.Antichain[lattice.U64]{1})
	if err != nil {
		t.Fatalf("CursorThrough({1}) returned error: %v", err)
	}
	count := 0
	for cur.KeyValid(struct{}{}) {
		for cur.ValValid(struct{}{}) {
			count++
			cur.StepVal(struct{}{})
		}
		cur.StepKey(struct{}{})
	}
	if count != 1 {
		t.Fatalf("CursorThrough({1}) saw %d rows, want 1 (only the first batch)", count)
	}
}

func TestSpineCursorThroughNoCleanCut(t *testing.T) {
	spine := newSpine(t)
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{0}, antichain.Antichain[lattice.U64]{3}, nil)

	if _, _, err := spine.CursorThrough(antichain.Antichain[lattice.U64]{2}); err == nil {
		t.Error("CursorThrough at a frontier that splits a batch should return an error")
	}
}

func TestSpineCompactConsolidatesAndSheds(t *testing.T) {
	spine := newSpine(t)
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{0}, antichain.Antichain[lattice.U64]{1}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "alice", Val: "go", Time: 0, Diff: 1},
	})
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{1}, antichain.Antichain[lattice.U64]{3}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "alice", Val: "go", Time: 1, Diff: -1},
		{Key: "bob", Val: "rust", Time: 2, Diff: 1},
	})

	spine.AdvanceBy(antichain.Antichain[lattice.U64]{3})
	spine.DistinguishSince(antichain.Antichain[lattice.U64]{3})
	spine.Compact()

	cur, _ := spine.Cursor()
	rows := map[[2]string]diff.Int64{}
	for cur.KeyValid(struct{}{}) {
		for cur.ValValid(struct{}{}) {
			key, val := cur.Key(struct{}{}), cur.Val(struct{}{})
			var total diff.Int64
			cur.MapTimes(struct{}{}, func(_ lattice.U64, r diff.Int64) { total = total.Add(r) })
			rows[[2]string{key, val}] = total
			cur.StepVal(struct{}{})
		}
		cur.StepKey(struct{}{})
	}

	if _, ok := rows[[2]string{"alice", "go"}]; ok {
		t.Error("alice/go should have canceled to zero during compaction")
	}
	if rows[[2]string{"bob", "rust"}] != 1 {
		t.Errorf("bob/rust = %d, want 1", rows[[2]string{"bob", "rust"}])
	}
}

// TestSpineCompactGatesOnDistinguishAndAdvancesByAdvanceFrontier covers
// the S5 shape: three batches with uppers {2}, {4}, {7}, a distinguish
// frontier of {3} (clears only the 2/4 boundary), and an advance
// frontier of {2} distinct from the distinguish frontier. A Compact
// that folds every batch together regardless of boundary eligibility,
// or that relabels times by the distinguish frontier instead of the
// advance frontier, would pass TestSpineCompactConsolidatesAndSheds
// (which uses only two batches and a single frontier value for both)
// but fails here.
func TestSpineCompactGatesOnDistinguishAndAdvancesByAdvanceFrontier(t *testing.T) {
	spine := newSpine(t)
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{0}, antichain.Antichain[lattice.U64]{2}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "alice", Val: "go", Time: 0, Diff: 1},
	})
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{2}, antichain.Antichain[lattice.U64]{4}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "alice", Val: "go", Time: 2, Diff: 1},
	})
	insertSealed(t, spine, antichain.Antichain[lattice.U64]{4}, antichain.Antichain[lattice.U64]{7}, []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "bob", Val: "rust", Time: 5, Diff: 1},
	})

	spine.AdvanceBy(antichain.Antichain[lattice.U64]{2})
	spine.DistinguishSince(antichain.Antichain[lattice.U64]{3})
	spine.Compact()

	// The 2/4 boundary sits behind distinguishFrontier={3} and should
	// have merged; the 4/7 boundary sits ahead of it and must survive
	// as a clean cut, so CursorThrough({4}) must still succeed.
	cur, _, err := spine.CursorThrough(antichain.Antichain[lattice.U64]{4})
	if err != nil {
		t.Fatalf("CursorThrough({4}) after Compact returned error: %v (the 4/7 boundary should have survived)", err)
	}
	found := false
	for cur.KeyValid(struct{}{}) {
		for cur.ValValid(struct{}{}) {
			if cur.Key(struct{}{}) == "alice" && cur.Val(struct{}{}) == "go" {
				found = true
				cur.MapTimes(struct{}{}, func(tm lattice.U64, r diff.Int64) {
					if tm != 2 {
						t.Errorf("alice/go time = %v, want 2 (relabelled by the advance frontier, not the distinguish frontier)", tm)
					}
				})
			}
			cur.StepVal(struct{}{})
		}
		cur.StepKey(struct{}{})
	}
	if !found {
		t.Fatal("alice/go row not found through {4}")
	}

	full, _ := spine.Cursor()
	rows := map[[2]string]diff.Int64{}
	for full.KeyValid(struct{}{}) {
		for full.ValValid(struct{}{}) {
			key, val := full.Key(struct{}{}), full.Val(struct{}{})
			var total diff.Int64
			full.MapTimes(struct{}{}, func(_ lattice.U64, r diff.Int64) { total = total.Add(r) })
			rows[[2]string{key, val}] = total
			full.StepVal(struct{}{})
		}
		full.StepKey(struct{}{})
	}
	if rows[[2]string{"alice", "go"}] != 2 {
		t.Errorf("alice/go total = %d, want 2", rows[[2]string{"alice", "go"}])
	}
	if rows[[2]string{"bob", "rust"}] != 1 {
		t.Errorf("bob/rust total = %d, want 1", rows[[2]string{"bob", "rust"}])
	}
}

func TestSpineFrontiersMustAdvance(t *testing.T) {
	spine := newSpine(t)
	spine.AdvanceBy(antichain.Antichain[lattice.U64]{3})

	defer func() {
		if recover() == nil {
			t.Error("AdvanceBy moving backward should panic")
		}
	}()
	spine.AdvanceBy(antichain.Antichain[lattice.U64]{1})
}
