package segment

import (
	"fmt"
	"strings"

	"github.com/andareed/markwrite/logging"
	"github.com/andareed/markwrite/pendata"
)

// Tree is the root container of a recording's segments. Nodes live in an id
// keyed arena; parents hold child ids rather than pointers.
type Tree struct {
	series *pendata.Series
	trim   bool
	nodes  map[ID]*Segment
	nextID ID
}

// Removal describes a removed segment and where it sat among its siblings.
type Removal struct {
	Segment *Segment
	ID      ID // id the segment had before removal
	Index   int
}

// NewTree creates an empty tree over series. name labels the root, normally
// the recording's file name. trimZeroPressure is the tree-wide default used
// by TrimmedIndexBounds.
func NewTree(name string, series *pendata.Series, trimZeroPressure bool) *Tree {
	t0, t1 := series.TimeSpan()
	root := &Segment{
		id:     RootID,
		name:   name,
		locked: true,
		span:   pendata.IndexRange{Min: 0, Max: series.Len() - 1},
		start:  t0,
		end:    t1,
		parent: InvalidID,
	}
	return &Tree{
		series: series,
		trim:   trimZeroPressure,
		nodes:  map[ID]*Segment{RootID: root},
		nextID: RootID + 1,
	}
}

// Name returns the root's name.
func (t *Tree) Name() string { return t.nodes[RootID].name }

// Series returns the sample series the tree indexes into.
func (t *Tree) Series() *pendata.Series { return t.series }

// TrimZeroPressure reports the tree-wide trim default.
func (t *Tree) TrimZeroPressure() bool { return t.trim }

// Root returns the root node.
func (t *Tree) Root() *Segment { return t.nodes[RootID] }

// Get returns the segment with the given id.
func (t *Tree) Get(id ID) (*Segment, error) {
	s, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s, nil
}

// TotalCount returns the number of segments, not counting the root.
func (t *Tree) TotalCount() int { return len(t.nodes) - 1 }

// TrimmedIndexBounds maps a time range to sample indices using the
// tree-wide trim setting.
func (t *Tree) TrimmedIndexBounds(tmin, tmax float64) (pendata.IndexRange, bool) {
	return t.series.IndexBounds(tmin, tmax, t.trim)
}

// NormalizeName trims a segment name and replaces tabs, which would break
// tab separated reports.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "\t", "#")
}

// Create adds a segment named name over r as the last child of parent.
func (t *Tree) Create(name string, r pendata.IndexRange, parent ID) (*Segment, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrValidation)
	}
	if err := t.series.CheckRange(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p, ok := t.nodes[parent]
	if !ok || p.removed {
		return nil, fmt.Errorf("%w: parent %d is not in the tree", ErrValidation, parent)
	}

	s := &Segment{
		id:     t.nextID,
		name:   name,
		span:   r,
		start:  t.series.Time(r.Min),
		end:    t.series.Time(r.Max),
		parent: parent,
		level:  p.level + 1,
	}
	if err := t.series.Cover(r, int(s.id)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	t.nextID++
	t.nodes[s.id] = s
	p.children = append(p.children, s.id)

	logging.Debugf("segment: created %d %q %s under %d", s.id, s.name, r, parent)
	return s, nil
}

// CreateFromTimeRange creates a segment over the samples inside
// [tmin, tmax], optionally trimming pen-up samples at either end.
func (t *Tree) CreateFromTimeRange(name string, tmin, tmax float64, parent ID, trim bool) (*Segment, error) {
	r, ok := t.series.IndexBounds(tmin, tmax, trim)
	if !ok {
		return nil, fmt.Errorf("%w: no samples in [%g, %g]", ErrValidation, tmin, tmax)
	}
	return t.Create(name, r, parent)
}

// Remove deletes the segment and all of its descendants. The root, a locked
// segment, or a segment with a locked descendant cannot be removed.
func (t *Tree) Remove(id ID) (Removal, error) {
	s, ok := t.nodes[id]
	if !ok {
		return Removal{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if id == RootID {
		return Removal{}, fmt.Errorf("%w: the root cannot be removed", ErrValidation)
	}
	var doomed []*Segment
	t.postOrder(s, func(n *Segment) { doomed = append(doomed, n) })
	for _, n := range doomed {
		if n.locked {
			return Removal{}, fmt.Errorf("%w: segment %d %q is locked", ErrValidation, n.id, n.name)
		}
	}
	index, err := t.ChildIndex(id)
	if err != nil {
		return Removal{}, err
	}
	spans := make([]pendata.IndexRange, len(doomed))
	for i, n := range doomed {
		spans[i] = n.span
	}
	if err := t.series.CheckUncover(spans...); err != nil {
		return Removal{}, fmt.Errorf("remove segment %d: %w", id, err)
	}

	owner := int(s.parent)
	for _, n := range doomed {
		if err := t.series.Uncover(n.span, owner); err != nil {
			return Removal{}, fmt.Errorf("uncover segment %d: %w", n.id, err)
		}
		delete(t.nodes, n.id)
		n.removed = true
		n.children = nil
	}
	p := t.nodes[s.parent]
	p.children = append(p.children[:index], p.children[index+1:]...)

	logging.Debugf("segment: removed %d %q and %d descendants", id, s.name, len(doomed)-1)
	return Removal{Segment: s, ID: id, Index: index}, nil
}

// ChildIndex returns the position of id among its parent's children.
func (t *Tree) ChildIndex(id ID) (int, error) {
	s, ok := t.nodes[id]
	if !ok || id == RootID {
		return -1, fmt.Errorf("%w: id %d has no parent", ErrNotFound, id)
	}
	p, ok := t.nodes[s.parent]
	if !ok {
		return -1, fmt.Errorf("%w: parent %d of %d", ErrNotFound, s.parent, id)
	}
	for i, c := range p.children {
		if c == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d is not a child of %d", ErrNotFound, id, s.parent)
}

// Rename changes a segment's name.
func (t *Tree) Rename(id ID, name string) error {
	s, err := t.Get(id)
	if err != nil {
		return err
	}
	name = NormalizeName(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrValidation)
	}
	s.name = name
	return nil
}

// SetLocked locks or unlocks a segment. The root is always locked.
func (t *Tree) SetLocked(id ID, locked bool) error {
	s, err := t.Get(id)
	if err != nil {
		return err
	}
	if id == RootID {
		return fmt.Errorf("%w: the root is always locked", ErrValidation)
	}
	s.locked = locked
	return nil
}

// Leveled groups segments by depth, breadth first. Level 1 holds the root's
// children in creation order.
func (t *Tree) Leveled() map[int][]*Segment {
	out := make(map[int][]*Segment)
	queue := append([]ID(nil), t.Root().children...)
	for len(queue) > 0 {
		s := t.nodes[queue[0]]
		queue = queue[1:]
		out[s.level] = append(out[s.level], s)
		queue = append(queue, s.children...)
	}
	return out
}

// LevelCount returns the depth of the deepest segment.
func (t *Tree) LevelCount() int {
	deepest := 0
	for _, s := range t.nodes {
		deepest = max(deepest, s.level)
	}
	return deepest
}

// Path returns the names from the level 1 ancestor down to id.
func (t *Tree) Path(id ID) ([]string, error) {
	s, err := t.Get(id)
	if err != nil {
		return nil, err
	}
	var names []string
	for s.id != RootID {
		names = append([]string{s.name}, names...)
		s = t.nodes[s.parent]
	}
	return names, nil
}

// Walk visits every segment below the root in pre-order.
func (t *Tree) Walk(fn func(s *Segment)) {
	var visit func(id ID)
	visit = func(id ID) {
		s := t.nodes[id]
		fn(s)
		for _, c := range s.children {
			visit(c)
		}
	}
	for _, c := range t.Root().children {
		visit(c)
	}
}

func (t *Tree) postOrder(s *Segment, fn func(*Segment)) {
	for _, c := range s.children {
		t.postOrder(t.nodes[c], fn)
	}
	fn(s)
}
