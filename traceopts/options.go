// Copyright 2024 The Flowlattice Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package traceopts collects the functional options a driver uses to
// configure a Spine/Box pair and the loop that feeds them, the same
// options-struct-plus-closures shape the rest of the Go ecosystem
// uses for constructors with many optional knobs.
package traceopts

import (
	"go.uber.org/zap"

	"github.com/flowlattice/trace/tracemetrics"
)

// Options holds every optional knob a trace driver may configure.
// New with no options yields a nop logger, a no-op metrics recorder,
// a seal cadence of 1 (seal after every pushed update) and a compact
// cadence of 1. The zero Options has a nil Logger and cadences of 0.
type Options struct {
	Logger       *zap.Logger
	Metrics      tracemetrics.Recorder
	SealCadence  int
	CompactEvery int
}

// Option configures an Options.
type Option func(*Options)

// WithLogger sets the logger a Spine or Box reports diagnostics
// through.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithMetrics sets the recorder a Spine or Box reports counters
// through.
func WithMetrics(rec tracemetrics.Recorder) Option {
	return func(o *Options) { o.Metrics = rec }
}

// WithSealCadence sets how many pushed updates a driver accumulates
// in a Batcher before calling Seal. n must be positive.
func WithSealCadence(n int) Option {
	return func(o *Options) { o.SealCadence = n }
}

// WithCompactEvery sets how many Seal calls a driver makes before
// calling Spine.Compact. n must be positive.
func WithCompactEvery(n int) Option {
	return func(o *Options) { o.CompactEvery = n }
}

// New builds an Options from the given functional options, applying
// the documented defaults for anything left unset.
func New(opts ...Option) Options {
	o := Options{
		Logger:       zap.NewNop(),
		SealCadence:  1,
		CompactEvery: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
