// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracerr holds the error values a trace can return or panic
// with, following the Unwrap/Is chaining convention the errors
// package's Wrapper/Is interfaces formalize.
package tracerr

import (
	"errors"
	"fmt"
)

// ErrNoCleanCut is returned by CursorThrough when no prefix of the
// trace's batches has an upper bound equal to the requested frontier:
// there is no "clean cut" of the trace at that point, so a cursor
// cannot be constructed without either exposing updates beyond the
// requested frontier or omitting updates before it.
var ErrNoCleanCut = errors.New("tracerr: no clean cut at requested frontier")

// Kind classifies a Violation.
type Kind int

const (
	// KindContiguity marks an Insert whose batch's lower bound does
	// not equal the trace's current upper bound.
	KindContiguity Kind = iota
	// KindFrontier marks an attempt to move a declared frontier
	// (advance or distinguish) backwards.
	KindFrontier
	// KindNegativeCount marks a Handle withdrawing a frontier
	// element it never deposited.
	KindNegativeCount
	// KindNoCleanCutAtEmpty marks a Cursor call that required a clean
	// cut at the terminal frontier and didn't find one.
	KindNoCleanCutAtEmpty
	// KindUseAfterClose marks a Handle method call made after Close.
	KindUseAfterClose
)

func (k Kind) String() string {
	switch k {
	case KindContiguity:
		return "contiguity"
	case KindFrontier:
		return "frontier regression"
	case KindNegativeCount:
		return "negative count"
	case KindNoCleanCutAtEmpty:
		return "no clean cut at empty frontier"
	case KindUseAfterClose:
		return "use after close"
	default:
		return "unknown"
	}
}

// Violation reports a broken invariant of the trace/batch protocol:
// the kind of API misuse that, in the reference implementation this
// module is modeled on, is an assertion failure rather than a
// recoverable error, because no correct caller can ever trigger it.
// Violation is the panic value for those cases, carrying enough
// structure for a caller's recover to log a useful diagnostic.
type Violation struct {
	Kind Kind
	// Detail is a human-readable description of the specific state
	// that violated the invariant.
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("tracerr: %s violation: %s", v.Kind, v.Detail)
}

// Violatef panics with a *Violation built from kind and a formatted
// detail message.
func Violatef(kind Kind, format string, args ...any) {
	panic(&Violation{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}
