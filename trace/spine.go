// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/flowlattice/trace/antichain"
	"github.com/flowlattice/trace/batch"
	"github.com/flowlattice/trace/batch/chain"
	"github.com/flowlattice/trace/cursor"
	"github.com/flowlattice/trace/diff"
	"github.com/flowlattice/trace/lattice"
	"github.com/flowlattice/trace/tracemetrics"
	"github.com/flowlattice/trace/traceopts"
	"github.com/flowlattice/trace/tracerr"
)

// Spine is the one concrete Trace this module ships: a flat, ordered
// list of batches of a single concrete representation B, merged and
// compacted on demand by Compact. Real differential-dataflow traces
// keep a logarithmic ladder of batch sizes under this name; Spine
// here keeps the simpler flat list and leaves the geometric layering
// as an optimization no caller of this package depends on.
type Spine[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any, B batch.Batch[K, V, T, R, C, S, B]] struct {
	mu                  sync.Mutex
	lower               antichain.Antichain[T]
	batches             []B
	advanceFrontier     antichain.Antichain[T]
	distinguishFrontier antichain.Antichain[T]
	keyCmp              Comparator[K]
	valCmp              Comparator[V]
	newBuilder          func() batch.Builder[K, V, T, R, B]
	logger              *zap.Logger
	metrics             tracemetrics.Recorder
}

var _ Trace[int, int, lattice.U64, diff.Int64, *chain.Cursor[int, int, lattice.U64, diff.Int64], *chain.Batch[int, int, lattice.U64, diff.Int64]] = (*Spine[int, int, lattice.U64, diff.Int64, *chain.Cursor[int, int, lattice.U64, diff.Int64], *chain.Batch[int, int, lattice.U64, diff.Int64], *chain.Batch[int, int, lattice.U64, diff.Int64]])(nil)

// NewSpine creates an empty Spine whose first inserted batch must
// have lower as its lower bound. opts supplies the logger Spine
// reports diagnostics through and the metrics recorder it reports
// compaction counters through; the zero Options value (a nil Logger,
// a no-op Recorder) is accepted and defaulted the same way
// traceopts.New() defaults it.
func NewSpine[K, V any, T lattice.Lattice[T], R diff.Diff[R], C cursor.Cursor[K, V, T, R, S], S any, B batch.Batch[K, V, T, R, C, S, B]](
	lower antichain.Antichain[T],
	keyCmp Comparator[K],
	valCmp Comparator[V],
	newBuilder func() batch.Builder[K, V, T, R, B],
	opts traceopts.Options,
) *Spine[K, V, T, R, C, S, B] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	l := append(antichain.Antichain[T]{}, lower...)
	return &Spine[K, V, T, R, C, S, B]{
		lower:               l,
		advanceFrontier:     append(antichain.Antichain[T]{}, l...),
		distinguishFrontier: append(antichain.Antichain[T]{}, l...),
		keyCmp:              keyCmp,
		valCmp:              valCmp,
		newBuilder:          newBuilder,
		logger:              logger,
		metrics:             opts.Metrics,
	}
}

// Insert appends b to the spine. b must be of the spine's concrete
// batch type B; passing any other BatchReader is itself a contract
// violation, reported the same way a discontiguous bound is.
func (s *Spine[K, V, T, R, C, S, B]) Insert(reader batch.BatchReader[K, V, T, R, C, S]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := reader.(B)
	if !ok {
		tracerr.Violatef(tracerr.KindContiguity, "batch has unexpected concrete type %T", reader)
	}

	var expectedLower antichain.Antichain[T]
	if n := len(s.batches); n > 0 {
		expectedLower = s.batches[n-1].Description().Upper
	} else {
		expectedLower = s.lower
	}
	if !antichain.Equal(expectedLower, b.Description().Lower) {
		tracerr.Violatef(tracerr.KindContiguity, "batch lower %v does not match trace upper %v", b.Description().Lower, expectedLower)
	}

	s.batches = append(s.batches, b)
	s.logger.Debug("trace: inserted batch",
		zap.Int("len", b.Len()),
		zap.Int("heldBatches", len(s.batches)),
	)
	s.metrics.BatchInserted(context.Background(), b.Len())
}

// AdvanceBy implements Trace. It moves the advance frontier forward
// and then compacts: spec.md §4.5 places compaction "synchronously
// inside AdvanceBy/DistinguishSince" rather than behind a separate
// call a caller must remember to make.
func (s *Spine[K, V, T, R, C, S, B]) AdvanceBy(frontier antichain.Antichain[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !frontierAdvances(s.advanceFrontier, frontier) {
		tracerr.Violatef(tracerr.KindFrontier, "advance frontier must move forward: %v -> %v", s.advanceFrontier, frontier)
	}
	s.advanceFrontier = append(antichain.Antichain[T]{}, frontier...)
	s.compactLocked()
}

// DistinguishSince implements Trace. See AdvanceBy: it compacts after
// moving the distinguish frontier for the same reason.
func (s *Spine[K, V, T, R, C, S, B]) DistinguishSince(frontier antichain.Antichain[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !frontierAdvances(s.distinguishFrontier, frontier) {
		tracerr.Violatef(tracerr.KindFrontier, "distinguish frontier must move forward: %v -> %v", s.distinguishFrontier, frontier)
	}
	s.distinguishFrontier = append(antichain.Antichain[T]{}, frontier...)
	s.compactLocked()
}

// AdvanceFrontier implements TraceReader.
func (s *Spine[K, V, T, R, C, S, B]) AdvanceFrontier() antichain.Antichain[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(antichain.Antichain[T]{}, s.advanceFrontier...)
}

// DistinguishFrontier implements TraceReader.
func (s *Spine[K, V, T, R, C, S, B]) DistinguishFrontier() antichain.Antichain[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(antichain.Antichain[T]{}, s.distinguishFrontier...)
}

// MapBatches implements TraceReader.
func (s *Spine[K, V, T, R, C, S, B]) MapBatches(f func(b batch.BatchReader[K, V, T, R, C, S])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.batches {
		f(b)
	}
}

// CursorThrough implements TraceReader.
//
// An empty upper is special-cased to mean "no restriction": it always
// finds a clean cut consisting of every batch currently held, the way
// cursor_through(&[]) does for the original's Self::cursor(), rather
// than requiring some batch's own upper bound to literally equal the
// empty (terminal) antichain.
func (s *Spine[K, V, T, R, C, S, B]) CursorThrough(upper antichain.Antichain[T]) (*Cursor[K, V, T, R, C, S], []S, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cut int
	switch {
	case len(upper) == 0:
		cut = len(s.batches)
	case antichain.Equal(s.lower, upper):
		cut = 0
	default:
		cut = -1
		for i, b := range s.batches {
			if antichain.Equal(b.Description().Upper, upper) {
				cut = i + 1
			}
		}
		if cut < 0 {
			return nil, nil, fmt.Errorf("no clean cut through %v: %w", upper, tracerr.ErrNoCleanCut)
		}
	}

	cursors := make([]C, cut)
	storages := make([]S, cut)
	for i := 0; i < cut; i++ {
		cursors[i], storages[i] = s.batches[i].Cursor()
	}
	return newCursor[K, V, T, R, C, S](cursors, storages, s.keyCmp, s.valCmp), storages, nil
}

// Cursor implements TraceReader. It is CursorThrough at the empty
// (terminal) frontier, and panics with a *tracerr.Violation rather
// than returning an error, since a caller reaching for the whole
// trace at once is not expected to handle the no-clean-cut case the
// way a caller of CursorThrough at an arbitrary frontier must.
func (s *Spine[K, V, T, R, C, S, B]) Cursor() (*Cursor[K, V, T, R, C, S], []S) {
	c, storages, err := s.CursorThrough(antichain.Antichain[T]{})
	if err != nil {
		tracerr.Violatef(tracerr.KindNoCleanCutAtEmpty, "Cursor requires a clean cut at the terminal frontier: %v", err)
	}
	return c, storages
}

// Compact merges adjacent batches whose shared boundary is at or
// behind the distinguish frontier, and relabels times in every
// resulting batch by the advance frontier — spec.md §4.5: "the trace
// may merge any two adjacent batches whose shared boundary is ≤
// frontier." Only a pair whose boundary the distinguish frontier has
// already reached is eligible; a boundary still ahead of the
// distinguish frontier is a clean cut some CursorThrough caller may
// still depend on, and merging across it would destroy that cut.
// Relabelling uses the advance frontier, not the distinguish frontier
// (spec.md §2/§3: advance_by is what "compact[s] batches ... by
// calling advance_mut on them").
//
// AdvanceBy and DistinguishSince already call this after moving their
// respective frontier, so most callers never need to call it
// directly; it remains exported for a caller that wants to force a
// pass without moving either frontier first. Safe to call at any
// time; a no-op on an empty spine.
func (s *Spine[K, V, T, R, C, S, B]) Compact() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compactLocked()
}

// compactLocked is Compact's body, callable with s.mu already held.
func (s *Spine[K, V, T, R, C, S, B]) compactLocked() {
	if len(s.batches) == 0 {
		return
	}

	before := len(s.batches)
	merged := make([]B, 0, len(s.batches))
	run := s.batches[0]
	for _, next := range s.batches[1:] {
		if boundaryClearedBy(s.distinguishFrontier, next.Description().Lower) {
			run = run.Merge(next)
			continue
		}
		merged = append(merged, run)
		run = next
	}
	merged = append(merged, run)

	if len(s.advanceFrontier) > 0 {
		for i, b := range merged {
			merged[i] = batch.AdvanceRef[K, V, T, R, C, S, B](b, s.advanceFrontier, s.newBuilder())
		}
	}

	s.batches = merged
	s.logger.Debug("trace: compacted",
		zap.Int("batchesBefore", before),
		zap.Int("batchesAfter", len(s.batches)),
	)

	rows := 0
	for _, b := range merged {
		rows += b.Len()
	}
	s.metrics.Compacted(context.Background(), before, rows)
}

// boundaryClearedBy reports whether every element of boundary
// precedes or equals some element of frontier — spec.md §4.5's
// "shared boundary is ≤ frontier" merge eligibility test. This is
// deliberately the reverse of antichain.Dominates, which asks whether
// a single time has already passed a frontier; here both sides are
// antichains and the question is whether the whole of boundary sits
// at or behind the whole of frontier.
func boundaryClearedBy[T lattice.Lattice[T]](frontier, boundary antichain.Antichain[T]) bool {
	for _, b := range boundary {
		cleared := false
		for _, f := range frontier {
			if b.LessEqual(f) {
				cleared = true
				break
			}
		}
		if !cleared {
			return false
		}
	}
	return true
}

// frontierAdvances reports whether new is a valid forward move from
// old: every element of new must be dominated by old, i.e. already at
// or beyond whatever old promised.
func frontierAdvances[T lattice.Lattice[T]](old, next antichain.Antichain[T]) bool {
	for _, n := range next {
		if !antichain.Dominates(old, n) {
			return false
		}
	}
	return true
}
