// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package traceopts_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/flowlattice/trace/traceopts"
)

func TestNewDefaults(t *testing.T) {
	o := traceopts.New()
	if o.Logger == nil {
		t.Error("default Logger should not be nil")
	}
	if o.SealCadence != 1 {
		t.Errorf("default SealCadence = %d, want 1", o.SealCadence)
	}
	if o.CompactEvery != 1 {
		t.Errorf("default CompactEvery = %d, want 1", o.CompactEvery)
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	logger := zap.NewNop()
	o := traceopts.New(
		traceopts.WithLogger(logger),
		traceopts.WithSealCadence(10),
		traceopts.WithCompactEvery(5),
	)
	if o.Logger != logger {
		t.Error("WithLogger should set the exact logger passed in")
	}
	if o.SealCadence != 10 {
		t.Errorf("SealCadence = %d, want 10", o.SealCadence)
	}
	if o.CompactEvery != 5 {
		t.Errorf("CompactEvery = %d, want 5", o.CompactEvery)
	}
}
