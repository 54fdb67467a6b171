// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracemetrics instruments trace compaction and handle
// lifecycle with OpenTelemetry counters, grounded on
// event/otel/meter.go's StandardNewRecordFunc, which builds its
// instruments from a metric.MeterMust the same way Recorder does
// here. The zero Recorder is a safe no-op, so instrumentation is
// opt-in.
package tracemetrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records trace lifecycle counters. The zero value discards
// every observation.
type Recorder struct {
	enabled         bool
	batchesInserted metric.Int64Counter
	batchesMerged   metric.Int64Counter
	rowsCompacted   metric.Int64Counter
	handlesOpen     metric.Int64UpDownCounter
}

// NewRecorder builds a Recorder whose instruments are registered
// against meter under the "flowlattice.trace" namespace.
func NewRecorder(meter metric.MeterMust) Recorder {
	return Recorder{
		enabled:         true,
		batchesInserted: meter.NewInt64Counter("flowlattice.trace.batches_inserted"),
		batchesMerged:   meter.NewInt64Counter("flowlattice.trace.batches_merged"),
		rowsCompacted:   meter.NewInt64Counter("flowlattice.trace.rows_compacted"),
		handlesOpen:     meter.NewInt64UpDownCounter("flowlattice.trace.handles_open"),
	}
}

// BatchInserted records one Trace.Insert call.
func (r Recorder) BatchInserted(ctx context.Context, rows int) {
	if !r.enabled {
		return
	}
	r.batchesInserted.Add(ctx, 1, attribute.Int("rows", rows))
}

// Compacted records one Spine compaction pass (run by Compact,
// AdvanceBy or DistinguishSince) that started from batchCount held
// batches and left rowCount rows in total.
func (r Recorder) Compacted(ctx context.Context, batchCount, rowCount int) {
	if !r.enabled {
		return
	}
	r.batchesMerged.Add(ctx, int64(batchCount))
	r.rowsCompacted.Add(ctx, int64(rowCount))
}

// HandleOpened records a tracerc.Handle being created or cloned.
func (r Recorder) HandleOpened(ctx context.Context) {
	if !r.enabled {
		return
	}
	r.handlesOpen.Add(ctx, 1)
}

// HandleClosed records a tracerc.Handle being closed.
func (r Recorder) HandleClosed(ctx context.Context) {
	if !r.enabled {
		return
	}
	r.handlesOpen.Add(ctx, -1)
}
