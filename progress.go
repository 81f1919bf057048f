package main

import (
	"fmt"
	"io"
	"os"

	"github.com/andareed/markwrite/report"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-isatty"
)

const progressWidth = 40

// progressBar prints an export's progress as a single redrawn line.
type progressBar struct {
	out   io.Writer
	label string
	bar   progress.Model
}

// newProgress returns a report.Progress drawing to stderr, or nil when
// stderr is not a terminal.
func newProgress(label string) report.Progress {
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}
	pb := &progressBar{
		out:   os.Stderr,
		label: label,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
	return pb.update
}

func (pb *progressBar) update(done, total int) {
	pct := 1.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	fmt.Fprintf(pb.out, "\r%s %s", pb.label, pb.bar.ViewAs(pct))
	if done >= total {
		fmt.Fprintln(pb.out)
	}
}
