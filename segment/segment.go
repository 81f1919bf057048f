package segment

import "github.com/andareed/markwrite/pendata"

// ID identifies a segment for the lifetime of a tree. IDs are never reused.
type ID int

const (
	// RootID is the fixed id of the tree root.
	RootID ID = 0

	// InvalidID is what a removed segment reports as its id.
	InvalidID ID = -1
)

// Segment is one node of the tree. The tree owns every Segment; callers get
// read-only access through the accessors and refer to nodes by ID.
type Segment struct {
	id       ID
	name     string
	locked   bool
	removed  bool
	span     pendata.IndexRange
	start    float64
	end      float64
	parent   ID
	level    int
	children []ID
}

// ID returns the segment's id, or InvalidID once it has been removed.
func (s *Segment) ID() ID {
	if s.removed {
		return InvalidID
	}
	return s.id
}

// Name returns the normalized segment name.
func (s *Segment) Name() string { return s.name }

// Start returns the time of the first sample in the segment.
func (s *Segment) Start() float64 { return s.start }

// End returns the time of the last sample in the segment.
func (s *Segment) End() float64 { return s.end }

// Duration is End minus Start in seconds.
func (s *Segment) Duration() float64 { return s.end - s.start }

// Range returns the inclusive sample index range.
func (s *Segment) Range() pendata.IndexRange { return s.span }

// PointCount returns the number of samples in the segment's own range.
func (s *Segment) PointCount() int { return s.span.Len() }

// Children returns the child ids in creation order.
func (s *Segment) Children() []ID {
	return append([]ID(nil), s.children...)
}

// Parent returns the parent id. ok is false for the root and removed segments.
func (s *Segment) Parent() (ID, bool) {
	if s.id == RootID || s.removed {
		return InvalidID, false
	}
	return s.parent, true
}

// Locked segments cannot be removed, directly or with an ancestor.
func (s *Segment) Locked() bool { return s.locked }

// Removed reports whether the segment has been taken out of its tree.
func (s *Segment) Removed() bool { return s.removed }

// Level is 0 for the root, 1 for its children and so on.
func (s *Segment) Level() int { return s.level }

// IsRoot reports whether s is the root of a tree.
func (s *Segment) IsRoot() bool { return s.id == RootID && !s.removed }
