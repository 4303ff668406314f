package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/meigma/kar"
)

const barWidth = 30

// progressBar renders a single-line progress bar, redrawn in place.
type progressBar struct {
	w      io.Writer
	active bool
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w}
}

// update implements kar.ProgressFunc.
func (b *progressBar) update(ev kar.ProgressEvent) {
	if ev.Total == 0 {
		// Enumeration phase; the total is not known yet.
		return
	}
	pos := barWidth * ev.Index / ev.Total
	pct := 100 * ev.Index / ev.Total
	bar := strings.Repeat("█", pos) + strings.Repeat("░", barWidth-pos)
	fmt.Fprintf(b.w, "\r[%s] %3d%% (%d/%d) %s", bar, pct, ev.Index, ev.Total, ev.Path)
	b.active = true
}

// done terminates the bar line if anything was drawn.
func (b *progressBar) done() {
	if b.active {
		fmt.Fprintln(b.w)
	}
}
