// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff defines the commutative-group semiring that update
// diffs are drawn from.
package diff

// Diff is the "R" of the (key, value, time, diff) update tuple: a
// commutative group used to accumulate the multiplicity of a (key,
// value) pair at a time. Implementations must treat R's zero value as
// the group identity — consolidate and the batch builders rely on
// `var zero R` producing an IsZero element, rather than on a separate
// zero-arg constructor, the way a numeric semiring's identity is
// always its bit-pattern zero.
type Diff[R any] interface {
	// Add returns the group sum of r and other. Add must be
	// commutative and associative, with R's zero value as identity.
	Add(other R) R
	// IsZero reports whether r is the group identity.
	IsZero() bool
}

// Int64 is the default diff type: signed counts under addition.
type Int64 int64

// Zero returns the additive identity.
func Zero() Int64 { return 0 }

// Add implements Diff.
func (r Int64) Add(other Int64) Int64 { return r + other }

// IsZero implements Diff.
func (r Int64) IsZero() bool { return r == 0 }
