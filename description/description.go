// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package description holds the (lower, upper, since) triple tagging
// every batch's time interval and compaction frontier (spec §3, §4.3).
package description

import (
	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/lattice"
)

// Description tags a batch's time interval and compaction frontier.
// Every update in the batch has a time t satisfying
// antichain.Dominates(Lower, t) and !antichain.Dominates(Upper, t);
// those times have
// already been advanced by Since.
type Description[T lattice.Lattice[T]] struct {
	Lower antichain.Antichain[T]
	Upper antichain.Antichain[T]
	Since antichain.Antichain[T]
}

// New builds a Description from copies of the given antichains.
func New[T lattice.Lattice[T]](lower, upper, since antichain.Antichain[T]) Description[T] {
	return Description[T]{
		Lower: append(antichain.Antichain[T]{}, lower...),
		Upper: append(antichain.Antichain[T]{}, upper...),
		Since: append(antichain.Antichain[T]{}, since...),
	}
}
