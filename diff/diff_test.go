// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff_test

import (
	"testing"

	"github.com/flowlattice/trace/diff"
)

func TestInt64Add(t *testing.T) {
	for _, test := range []struct {
		a, b, want diff.Int64
	}{
		{0, 0, 0},
		{1, -1, 0},
		{3, 4, 7},
		{-5, 2, -3},
	} {
		if got := test.a.Add(test.b); got != test.want {
			t.Errorf("%d.Add(%d) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestInt64IsZero(t *testing.T) {
	if !diff.Int64(0).IsZero() {
		t.Error("Int64(0).IsZero() = false, want true")
	}
	if diff.Int64(1).IsZero() {
		t.Error("Int64(1).IsZero() = true, want false")
	}
	if diff.Zero() != 0 {
		t.Errorf("Zero() = %d, want 0", diff.Zero())
	}
}
