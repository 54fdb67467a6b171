// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The tracedump command exercises the trace library end to end: it
// batches a handful of synthetic updates, seals and inserts them into
// a shared trace, compacts, and prints the resulting accumulation.
// It takes no flags, touches no disk, and makes no stability promise
// about its output — it exists to demonstrate the library, not to
// serve as a tool in its own right.
package main

import (
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/batch/chain"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
	tr "github.com/flowlattice/trace/trace"
	"github.com/flowlattice/trace/tracemetrics"
	"github.com/flowlattice/trace/traceopts"
	"github.com/flowlattice/trace/tracerc"
)

func cmpString(a, b string) int { return strings.Compare(a, b) }

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("tracedump: building logger: %v", err)
	}
	defer logger.Sync()

	meter := metric.Must(metric.NewNoopMeterProvider().Meter("flowlattice.trace/cmd/tracedump"))
	recorder := tracemetrics.NewRecorder(meter)

	opts := traceopts.New(
		traceopts.WithLogger(logger.Named("trace")),
		traceopts.WithMetrics(recorder),
		traceopts.WithSealCadence(4),
		traceopts.WithCompactEvery(1),
	)

	lower := antichain.Antichain[lattice.U64]{0}
	newBuilder := func() batch.Builder[string, string, lattice.U64, diff.Int64, *chain.Batch[string, string, lattice.U64, diff.Int64]] {
		return chain.NewBuilder[string, string, lattice.U64, diff.Int64](cmpString, cmpString)
	}

	spine := tr.NewSpine[string, string, lattice.U64, diff.Int64, *chain.Cursor[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64]](
		lower, cmpString, cmpString, newBuilder, opts,
	)
	handle := tracerc.NewHandle[string, string, lattice.U64, diff.Int64, *chain.Cursor[string, string, lattice.U64, diff.Int64], *chain.Batch[string, string, lattice.U64, diff.Int64]](spine, opts.Metrics)
	defer handle.Close()

	batcher := chain.NewBatcher[string, string, lattice.U64, diff.Int64](cmpString, cmpString, lower)

	pending := []batch.Update[string, string, lattice.U64, diff.Int64]{
		{Key: "alice", Val: "likes:go", Time: 0, Diff: 1},
		{Key: "bob", Val: "likes:rust", Time: 0, Diff: 1},
		{Key: "alice", Val: "likes:go", Time: 1, Diff: -1},
		{Key: "alice", Val: "likes:zig", Time: 2, Diff: 1},
	}
	batcher.PushBatch(&pending)

	upper := antichain.Antichain[lattice.U64]{3}
	sealed := batcher.Seal(upper)
	handle.Insert(sealed)

	handle.AdvanceBy(antichain.Antichain[lattice.U64]{3})
	handle.DistinguishSince(antichain.Antichain[lattice.U64]{3})

	cur, _ := handle.Cursor()
	fmt.Println("accumulated state as of", upper)
	for cur.KeyValid(struct{}{}) {
		for cur.ValValid(struct{}{}) {
			var total diff.Int64
			cur.MapTimes(struct{}{}, func(t lattice.U64, r diff.Int64) {
				total = total.Add(r)
			})
			if !total.IsZero() {
				fmt.Printf("  %s -> %s (%d)\n", cur.Key(struct{}{}), cur.Val(struct{}{}), total)
			}
			cur.StepVal(struct{}{})
		}
		cur.StepKey(struct{}{})
	}
}
