// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracemetrics_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/metric"

	"github.com/flowlattice/trace/tracemetrics"
)

func TestZeroRecorderIsNoop(t *testing.T) {
	var rec tracemetrics.Recorder
	ctx := context.Background()

	// None of these should panic: the zero Recorder has no instruments
	// to record through.
	rec.BatchInserted(ctx, 3)
	rec.Compacted(ctx, 2, 10)
	rec.HandleOpened(ctx)
	rec.HandleClosed(ctx)
}

func TestNewRecorderRecordsWithoutPanicking(t *testing.T) {
	meter := metric.Must(metric.NewNoopMeterProvider().Meter("trace-test"))
	rec := tracemetrics.NewRecorder(meter)
	ctx := context.Background()

	rec.BatchInserted(ctx, 1)
	rec.Compacted(ctx, 3, 30)
	rec.HandleOpened(ctx)
	rec.HandleClosed(ctx)
}
