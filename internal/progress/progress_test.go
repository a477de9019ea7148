// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package progress

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_TickClampsUntilComplete(t *testing.T) {
	h := Start(4, WithInterval(0))

	h.Tick()
	assert.InDelta(t, 25.0, h.Percent(), 0.001)

	for i := 0; i < 10; i++ {
		h.Tick()
	}
	assert.InDelta(t, Ceiling, h.Percent(), 0.001)
	assert.False(t, h.Done())

	h.Complete()
	assert.InDelta(t, 100.0, h.Percent(), 0.001)
	assert.True(t, h.Done())

	// Frozen after completion.
	h.Tick()
	assert.InDelta(t, 100.0, h.Percent(), 0.001)
}

func TestHandle_Monotonic(t *testing.T) {
	var mu sync.Mutex
	var seen []float64

	h := Start(3, WithInterval(0), OnChange(func(p float64) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	}))
	for i := 0; i < 5; i++ {
		h.Tick()
	}
	h.Complete()

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	assert.Equal(t, 100.0, seen[len(seen)-1])
}

func TestHandle_TickerAdvancesWithoutCalls(t *testing.T) {
	h := Start(10, WithInterval(5*time.Millisecond))
	defer h.Stop()

	assert.Eventually(t, func() bool { return h.Percent() >= 30 }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return h.Percent() == Ceiling }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, h.Done())
}

func TestHandle_StopFreezes(t *testing.T) {
	h := Start(2, WithInterval(0))
	h.Tick()
	h.Stop()
	h.Tick()
	h.Complete()

	assert.InDelta(t, 50.0, h.Percent(), 0.001)
	assert.False(t, h.Done())
}

func TestHandle_ZeroUnits(t *testing.T) {
	h := Start(0, WithInterval(0))
	h.Tick()
	assert.InDelta(t, Ceiling, h.Percent(), 0.001)
}

func TestBar_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, "uploading")

	b.Update(10)
	b.Update(50)
	assert.Empty(t, buf.String())

	b.Finish(100)
	assert.Equal(t, "uploading 100%\n", buf.String())

	assert.Contains(t, b.View(50), "50%")
}
