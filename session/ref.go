package session

import (
	"fmt"

	"github.com/andareed/markwrite/segment"
)

// RefKind tells what a display entry points at.
type RefKind int

const (
	ProjectRef RefKind = iota
	SegmentRef
)

func (k RefKind) String() string {
	switch k {
	case ProjectRef:
		return "project"
	case SegmentRef:
		return "segment"
	default:
		return "unknown"
	}
}

// Ref is what a display tree stores per entry instead of a pointer into the
// data model. Segment is only meaningful for SegmentRef.
type Ref struct {
	Kind    RefKind
	Segment segment.ID
}

// Target is a resolved Ref. Segment is nil for a ProjectRef.
type Target struct {
	Project *Project
	Segment *segment.Segment
}

// Resolve looks a Ref up. A ref to a removed segment fails with
// segment.ErrNotFound.
func (p *Project) Resolve(ref Ref) (Target, error) {
	switch ref.Kind {
	case ProjectRef:
		return Target{Project: p}, nil
	case SegmentRef:
		s, err := p.Tree.Get(ref.Segment)
		if err != nil {
			return Target{}, err
		}
		return Target{Project: p, Segment: s}, nil
	default:
		return Target{}, fmt.Errorf("unknown ref kind %d", ref.Kind)
	}
}

// Refs lists the project followed by every segment in pre-order, the order a
// tree display shows them in.
func (p *Project) Refs() []Ref {
	refs := []Ref{{Kind: ProjectRef}}
	p.Tree.Walk(func(s *segment.Segment) {
		refs = append(refs, Ref{Kind: SegmentRef, Segment: s.ID()})
	})
	return refs
}

// Activate selects the time range a ref stands for: the whole recording for
// the project, the segment's range otherwise.
func (p *Project) Activate(ref Ref) error {
	t, err := p.Resolve(ref)
	if err != nil {
		return err
	}
	if t.Segment == nil {
		p.Selection.SetRegion(p.Series.TimeSpan())
		return nil
	}
	p.Selection.SetRegion(t.Segment.Start(), t.Segment.End())
	return nil
}
