// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"time"

	"github.com/apex/log"
)

const (
	// Ceiling is the highest value reached before Complete.
	Ceiling = 95.0

	DefaultInterval = 300 * time.Millisecond
)

// Handle is a running simulation.
type Handle struct {
	mu       sync.Mutex
	percent  float64
	step     float64
	complete bool
	stopped  bool
	onChange func(float64)

	interval time.Duration
	quit     chan struct{}
	wg       sync.WaitGroup
}

type Option func(*Handle)

// WithInterval sets the internal ticker period. Zero disables the ticker so
// only explicit Tick calls advance progress.
func WithInterval(d time.Duration) Option {
	return func(h *Handle) {
		if d >= 0 {
			h.interval = d
		}
	}
}

// OnChange registers fn to receive every new percentage. It is called without
// internal locks held.
func OnChange(fn func(percent float64)) Option {
	return func(h *Handle) {
		h.onChange = fn
	}
}

// Start begins a simulation over totalUnits. Each unit is worth
// 100/totalUnits percent.
func Start(totalUnits int, opts ...Option) *Handle {
	if totalUnits < 1 {
		totalUnits = 1
	}

	h := &Handle{
		step:     100.0 / float64(totalUnits),
		interval: DefaultInterval,
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	log.Debugf("progress: start units=%d step=%.2f interval=%s", totalUnits, h.step, h.interval)

	if h.interval > 0 {
		h.wg.Add(1)
		go h.run()
	}
	return h
}

func (h *Handle) run() {
	defer h.wg.Done()

	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-h.quit:
			return
		case <-t.C:
			h.Tick()
		}
	}
}

// Tick advances progress by one unit, clamped to Ceiling.
func (h *Handle) Tick() {
	h.mu.Lock()
	if h.complete || h.stopped || h.percent >= Ceiling {
		h.mu.Unlock()
		return
	}
	h.percent += h.step
	if h.percent > Ceiling {
		h.percent = Ceiling
	}
	p := h.percent
	h.mu.Unlock()

	h.notify(p)
}

// Complete jumps to 100% and stops the ticker.
func (h *Handle) Complete() {
	h.mu.Lock()
	if h.complete || h.stopped {
		h.mu.Unlock()
		return
	}
	h.complete = true
	h.percent = 100
	h.mu.Unlock()

	h.halt()
	h.notify(100)
}

// Stop freezes progress where it is. Used when the real work failed.
func (h *Handle) Stop() {
	h.mu.Lock()
	if h.complete || h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	h.halt()
}

func (h *Handle) halt() {
	close(h.quit)
	h.wg.Wait()
}

func (h *Handle) Percent() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.percent
}

// Done reports whether Complete was called.
func (h *Handle) Done() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.complete
}

func (h *Handle) notify(p float64) {
	if h.onChange != nil {
		h.onChange(p)
	}
}
