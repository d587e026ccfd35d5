package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"mediaphile/internal/relocate"
)

// =============================================================================
// Relocation Observers
// =============================================================================

// progressObserver drives a terminal progress bar from relocation events.
type progressObserver struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressObserver(w io.Writer) *progressObserver {
	return &progressObserver{w: w}
}

func (p *progressObserver) OnStart(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("Relocating"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(p.w) }),
	)
}

func (p *progressObserver) OnFile(relocate.Outcome) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// printObserver lists every planned operation, one per line.
type printObserver struct {
	w io.Writer
}

func (p *printObserver) OnStart(total int) {
	fmt.Fprintf(p.w, "%d file(s) to process\n", total)
}

func (p *printObserver) OnFile(o relocate.Outcome) {
	if o.Action == relocate.Skipped {
		fmt.Fprintf(p.w, "skip  %s\n", o.Source)
		return
	}
	fmt.Fprintf(p.w, "%-5s %s -> %s\n", o.Action, o.Source, o.Target)
}
