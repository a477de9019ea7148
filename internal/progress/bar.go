// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultBarWidth = 40

var labelStyle = lipgloss.NewStyle().Bold(true)

// Bar draws a Handle's percentage on a terminal line. Writers that are not a
// terminal only get the final line.
type Bar struct {
	mu    sync.Mutex
	out   io.Writer
	label string
	model progress.Model
	tty   bool
	last  float64
}

type fder interface {
	Fd() uintptr
}

// NewBar returns a Bar writing to out.
func NewBar(out io.Writer, label string) *Bar {
	b := &Bar{
		out:   out,
		label: label,
		model: progress.New(progress.WithDefaultGradient()),
		last:  -1,
	}
	b.model.Width = defaultBarWidth

	if f, ok := out.(fder); ok && term.IsTerminal(int(f.Fd())) {
		b.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 {
			b.model.Width = min(w-len(label)-10, 80)
		}
	}
	return b
}

// View renders the bar at percent without writing it.
func (b *Bar) View(percent float64) string {
	return labelStyle.Render(b.label) + " " + b.model.ViewAs(percent/100)
}

// Update redraws the bar in place. It is meant to be passed to OnChange.
func (b *Bar) Update(percent float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if percent == b.last {
		return
	}
	b.last = percent
	if b.tty {
		fmt.Fprint(b.out, "\r"+b.View(percent))
	}
}

// Finish writes the last state followed by a newline.
func (b *Bar) Finish(percent float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tty {
		fmt.Fprintln(b.out, "\r"+b.View(percent))
		return
	}
	fmt.Fprintf(b.out, "%s %.0f%%\n", b.label, percent)
}
