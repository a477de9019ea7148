// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package debounce coalesces rapid repeated invocations of an operation into a
// single execution once a quiet interval has elapsed.
package debounce

import (
	"sync"
	"time"

	"github.com/apex/log"
)

// Debouncer runs fn with the most recent argument, window after the last
// Call. A newer Call supersedes a pending one.
type Debouncer[T any] struct {
	window time.Duration
	fn     func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	armed   bool
	gen     uint64
	stopped bool
}

// New returns a Debouncer for fn.
func New[T any](window time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{window: window, fn: fn}
}

// Call records arg as the latest intent and restarts the quiet window.
// Calls after Stop are ignored.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		log.Debug("debounce: call after stop ignored")
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.armed {
		log.Debug("debounce: pending intent superseded")
	}

	d.gen++
	gen := d.gen
	d.pending = arg
	d.armed = true
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// fire runs the pending intent if no newer Call, Cancel or Flush happened
// since the timer for gen was armed.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.armed {
		d.mu.Unlock()
		return
	}
	arg := d.take()
	d.mu.Unlock()

	d.fn(arg)
}

// take consumes the pending intent. Must be called with mu held.
func (d *Debouncer[T]) take() T {
	var zero T
	arg := d.pending
	d.pending = zero
	d.armed = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return arg
}

// Pending reports whether an intent is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Cancel drops the pending intent, if any, and reports whether one was dropped.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.armed {
		return false
	}
	d.take()
	return true
}

// Flush runs the pending intent immediately on the calling goroutine.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	arg := d.take()
	d.mu.Unlock()

	d.fn(arg)
}

// Stop cancels the pending intent and ignores every later Call.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.armed {
		d.take()
	}
	d.stopped = true
}
