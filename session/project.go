// Package session ties a loaded recording, its segment tree and the current
// time selection together and implements the selection and segmentation
// actions a front end triggers.
package session

import (
	"errors"
	"fmt"

	"github.com/andareed/markwrite/logging"
	"github.com/andareed/markwrite/pendata"
	"github.com/andareed/markwrite/segment"
	"github.com/google/uuid"
)

// Project is one loaded recording. Everything that needs the samples, the
// tree or the selection is handed the Project explicitly.
type Project struct {
	ID        string
	Name      string
	Series    *pendata.Series
	Tree      *segment.Tree
	Selection *TimeRegion
}

// New creates a project over series. The selection starts at the first
// second of data.
func New(name string, series *pendata.Series, trimZeroPressure bool) *Project {
	t0, t1 := series.TimeSpan()
	p := &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Series:    series,
		Tree:      segment.NewTree(name, series, trimZeroPressure),
		Selection: newTimeRegion(t0, t1),
	}
	p.Selection.SetRegion(t0, min(t0+1.0, t1))
	logging.Infof("session %s: opened %q with %d samples", p.ID, name, series.Len())
	return p
}

// CreateTrials creates one locked, untrimmed segment per trial period and
// selects the first one. Trials that select no samples are skipped and
// reported in the returned error.
func (p *Project) CreateTrials(trials [][2]float64) ([]*segment.Segment, error) {
	var created []*segment.Segment
	var errs []error
	for i, tr := range trials {
		s, err := p.Tree.CreateFromTimeRange(fmt.Sprintf("Trial%d", i+1), tr[0], tr[1], segment.RootID, false)
		if err != nil {
			logging.Warnf("session %s: unable to create trial %d for [%.3f, %.3f]: %v", p.ID, i+1, tr[0], tr[1], err)
			errs = append(errs, fmt.Errorf("trial %d: %w", i+1, err))
			continue
		}
		if err := p.Tree.SetLocked(s.ID(), true); err != nil {
			return created, err
		}
		created = append(created, s)
	}
	if len(created) > 0 {
		p.Selection.SetRegion(created[0].Start(), created[0].End())
	}
	return created, errors.Join(errs...)
}

// CreateSegment creates a segment from the current selection under parent.
// With trim set, pen-up samples at either end are left out and the
// selection snaps to the new segment. On failure the selection is restored.
func (p *Project) CreateSegment(name string, parent segment.ID, trim bool) (*segment.Segment, error) {
	xmin, xmax := p.Selection.Region()
	r, ok := p.Series.IndexBounds(xmin, xmax, trim)
	if !ok {
		return nil, fmt.Errorf("%w: no pen data selected in %s", segment.ErrValidation, p.Selection)
	}
	if trim {
		p.Selection.SetRegion(p.Series.Time(r.Min), p.Series.Time(r.Max))
	}
	s, err := p.Tree.Create(name, r, parent)
	if err != nil {
		p.Selection.SetRegion(xmin, xmax)
		return nil, err
	}
	p.Selection.SetRegion(s.Start(), s.End())
	logging.Infof("session %s: segment %d %q created over %s", p.ID, s.ID(), s.Name(), r)
	return s, nil
}

// RemoveSegment removes a segment and its descendants.
func (p *Project) RemoveSegment(id segment.ID) (segment.Removal, error) {
	rm, err := p.Tree.Remove(id)
	if err != nil {
		return rm, err
	}
	logging.Infof("session %s: segment %d %q removed", p.ID, rm.ID, rm.Segment.Name())
	return rm, nil
}

// SelectSegment sets the selection to a segment's time range.
func (p *Project) SelectSegment(id segment.ID) error {
	return p.Activate(Ref{Kind: SegmentRef, Segment: id})
}

// SelectedIndexBounds returns the trimmed sample range of the selection.
func (p *Project) SelectedIndexBounds() (pendata.IndexRange, bool) {
	xmin, xmax := p.Selection.Region()
	return p.Tree.TrimmedIndexBounds(xmin, xmax)
}

// CanCreateSegment reports whether the selection holds any samples to
// segment.
func (p *Project) CanCreateSegment() bool {
	_, ok := p.SelectedIndexBounds()
	return ok
}
