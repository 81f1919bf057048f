package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/andareed/markwrite/logging"
	"github.com/andareed/markwrite/pendata"
)

// ErrNavigation indicates a selection move that cannot be made. The
// selection is left unchanged.
var ErrNavigation = errors.New("action aborted")

func (p *Project) abort(action, reason string) error {
	logging.Debugf("session %s: %s aborted: %s", p.ID, action, reason)
	return fmt.Errorf("%w: %s: %s", ErrNavigation, action, reason)
}

func (p *Project) selectIndices(r pendata.IndexRange) {
	p.Selection.SetRegion(p.Series.Time(r.Min), p.Series.Time(r.Max))
}

// selectTrimmed selects the trimmed samples inside the times of r.
func (p *Project) selectTrimmed(r pendata.IndexRange) {
	if t, ok := p.Tree.TrimmedIndexBounds(p.Series.Time(r.Min), p.Series.Time(r.Max)); ok {
		r = t
	}
	p.selectIndices(r)
}

func (p *Project) selectedOrAbort(action string) (pendata.IndexRange, error) {
	r, ok := p.SelectedIndexBounds()
	if !ok {
		return r, p.abort(action, "no pen data selected")
	}
	return r, nil
}

// JumpForward moves the selection, keeping its duration, to start at the
// first pressed sample after the current selection.
func (p *Project) JumpForward() error {
	const action = "jump forward"
	xmin, xmax := p.Selection.Region()
	r, err := p.selectedOrAbort(action)
	if err != nil {
		return err
	}
	next := r.Max + 1
	if next >= p.Series.Len() {
		return p.abort(action, "end of data reached")
	}
	if !p.Series.IsPressed(next) {
		start, ok := pendata.NextRunStart(p.Series.PressedRuns(), next)
		if !ok {
			return p.abort(action, "no pen press after the selection")
		}
		next = start
	}
	_, tN := p.Series.TimeSpan()
	nxmin := p.Series.Time(next)
	nxmax := min(nxmin+(xmax-xmin), tN)
	if nxmin >= nxmax {
		return p.abort(action, "end of data reached")
	}
	p.Selection.SetRegion(nxmin, nxmax)
	return nil
}

// JumpBackward moves the selection, keeping its duration, to end at the last
// pressed sample before the current selection.
func (p *Project) JumpBackward() error {
	const action = "jump backward"
	xmin, xmax := p.Selection.Region()
	r, err := p.selectedOrAbort(action)
	if err != nil {
		return err
	}
	prev := r.Min - 1
	if prev <= 0 {
		return p.abort(action, "start of data reached")
	}
	if !p.Series.IsPressed(prev) {
		stop, ok := pendata.PrevRunStop(p.Series.PressedRuns(), prev)
		if !ok {
			return p.abort(action, "no pen press before the selection")
		}
		prev = stop
	}
	t0, _ := p.Series.TimeSpan()
	nxmax := p.Series.Time(prev)
	nxmin := max(nxmax-(xmax-xmin), t0)
	if nxmin >= nxmax {
		return p.abort(action, "start of data reached")
	}
	p.Selection.SetRegion(nxmin, nxmax)
	return nil
}

// ExtendEnd grows the selection to the end of the next pressed run.
func (p *Project) ExtendEnd() error {
	const action = "extend end"
	r, err := p.selectedOrAbort(action)
	if err != nil {
		return err
	}
	stop, ok := pendata.NextRunStop(p.Series.PressedRuns(), r.Max)
	if !ok {
		return p.abort(action, "selection is at the end of the data")
	}
	p.selectTrimmed(pendata.IndexRange{Min: r.Min, Max: stop})
	return nil
}

// ShrinkEnd pulls the selection end back to the previous pressed run's end.
// A selection inside a single pressed run just snaps to its samples.
func (p *Project) ShrinkEnd() error {
	const action = "shrink end"
	r, err := p.selectedOrAbort(action)
	if err != nil {
		return err
	}
	if p.Series.AllPressed(r) {
		p.selectIndices(r)
		return nil
	}
	stop, ok := pendata.PrevRunStop(p.Series.PressedRuns(), r.Max)
	if !ok || stop <= r.Min {
		return p.abort(action, "end would reach the selection start")
	}
	p.selectTrimmed(pendata.IndexRange{Min: r.Min, Max: stop})
	return nil
}

// ShrinkStart moves the selection start up to the next pressed run's start.
// A selection inside a single pressed run just snaps to its samples.
func (p *Project) ShrinkStart() error {
	const action = "shrink start"
	r, err := p.selectedOrAbort(action)
	if err != nil {
		return err
	}
	if p.Series.AllPressed(r) {
		p.selectIndices(r)
		return nil
	}
	start, ok := pendata.NextRunStart(p.Series.PressedRuns(), r.Min)
	if !ok {
		return p.abort(action, "selection starts in the last pen press")
	}
	if start >= r.Max-1 {
		return p.abort(action, "start would pass the selection end")
	}
	p.selectIndices(pendata.IndexRange{Min: start, Max: r.Max})
	return nil
}

// ExtendStart moves the selection start back to the previous pressed run's
// start.
func (p *Project) ExtendStart() error {
	const action = "extend start"
	r, err := p.selectedOrAbort(action)
	if err != nil {
		return err
	}
	start, ok := pendata.PrevRunStart(p.Series.PressedRuns(), r.Min)
	if !ok {
		return p.abort(action, "selection starts in the first pen press")
	}
	p.selectTrimmed(pendata.IndexRange{Min: start, Max: r.Max})
	return nil
}

// selectionEdges returns the untrimmed index edges of the selection. A
// selection falling between two samples has Max = Min - 1.
func (p *Project) selectionEdges() pendata.IndexRange {
	xmin, xmax := p.Selection.Region()
	if r, ok := p.Series.IndexBounds(xmin, xmax, false); ok {
		return r
	}
	lo := sort.SearchFloat64s(p.Series.Times(), xmin)
	return pendata.IndexRange{Min: lo, Max: lo - 1}
}

func (p *Project) selectNext(action string, t pendata.RunTable) error {
	r, ok := pendata.NextRun(t, p.selectionEdges().Max)
	if !ok {
		return p.abort(action, "no later run")
	}
	p.selectIndices(r)
	return nil
}

func (p *Project) selectPrev(action string, t pendata.RunTable) error {
	r, ok := pendata.PrevRun(t, p.selectionEdges().Min)
	if !ok {
		return p.abort(action, "no earlier run")
	}
	p.selectIndices(r)
	return nil
}

func (p *Project) SelectNextStroke() error {
	return p.selectNext("next stroke", p.Series.Strokes())
}

func (p *Project) SelectPrevStroke() error {
	return p.selectPrev("previous stroke", p.Series.Strokes())
}

func (p *Project) SelectNextPressedRun() error {
	return p.selectNext("next pressed run", p.Series.PressedRuns())
}

func (p *Project) SelectPrevPressedRun() error {
	return p.selectPrev("previous pressed run", p.Series.PressedRuns())
}

func (p *Project) SelectNextSeries() error {
	return p.selectNext("next series", p.Series.SeriesRuns())
}

func (p *Project) SelectPrevSeries() error {
	return p.selectPrev("previous series", p.Series.SeriesRuns())
}
