package segment

import (
	"errors"
	"reflect"
	"testing"

	"github.com/andareed/markwrite/pendata"
)

func newTestTree(t *testing.T, pressures ...float64) *Tree {
	t.Helper()
	if len(pressures) == 0 {
		pressures = []float64{0, 5, 5, 0, 0}
	}
	rows := make([]pendata.RawSample, len(pressures))
	for i, p := range pressures {
		rows[i] = pendata.RawSample{Time: float64(i) / 10, X: float64(i), Y: float64(i), Pressure: p}
	}
	s, err := pendata.New(rows, pendata.DefaultOptions())
	if err != nil {
		t.Fatalf("pendata.New: %v", err)
	}
	return NewTree("test.txt", s, true)
}

func mustCreate(t *testing.T, tr *Tree, name string, min, max int, parent ID) *Segment {
	t.Helper()
	s, err := tr.Create(name, pendata.IndexRange{Min: min, Max: max}, parent)
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	return s
}

func TestCreateAndLevels(t *testing.T) {
	tr := newTestTree(t)
	a := mustCreate(t, tr, "A", 1, 2, RootID)
	b := mustCreate(t, tr, "B", 1, 1, a.ID())

	if got := tr.TotalCount(); got != 2 {
		t.Errorf("TotalCount() = %d, want 2", got)
	}
	levels := tr.Leveled()
	if len(levels[1]) != 1 || levels[1][0] != a {
		t.Errorf("Leveled()[1] = %v, want [A]", levels[1])
	}
	if len(levels[2]) != 1 || levels[2][0] != b {
		t.Errorf("Leveled()[2] = %v, want [B]", levels[2])
	}
	if got := tr.LevelCount(); got != 2 {
		t.Errorf("LevelCount() = %d, want 2", got)
	}

	if a.Start() != 0.1 || a.End() != 0.2 {
		t.Errorf("A time range = [%g, %g], want [0.1, 0.2]", a.Start(), a.End())
	}
	if a.PointCount() != 2 || b.PointCount() != 1 {
		t.Errorf("PointCount A=%d B=%d, want 2 and 1", a.PointCount(), b.PointCount())
	}
	if p, ok := b.Parent(); !ok || p != a.ID() {
		t.Errorf("B.Parent() = %d/%v, want %d", p, ok, a.ID())
	}
	if _, ok := tr.Root().Parent(); ok {
		t.Errorf("root reports a parent")
	}
	if got := tr.Series().CoverageCounts(); !reflect.DeepEqual(got, []int{0, 2, 1, 0, 0}) {
		t.Errorf("coverage = %v, want [0 2 1 0 0]", got)
	}
	if got := tr.Series().At(1).SegmentID; got != int(b.ID()) {
		t.Errorf("sample 1 owner = %d, want %d", got, b.ID())
	}

	path, err := tr.Path(b.ID())
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if !reflect.DeepEqual(path, []string{"A", "B"}) {
		t.Errorf("Path(B) = %v, want [A B]", path)
	}
}

func TestCreateValidation(t *testing.T) {
	tr := newTestTree(t)
	a := mustCreate(t, tr, "A", 0, 4, RootID)
	if _, err := tr.Remove(a.ID()); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	tests := []struct {
		name   string
		seg    string
		r      pendata.IndexRange
		parent ID
	}{
		{"empty name", "", pendata.IndexRange{Min: 0, Max: 1}, RootID},
		{"blank name", " \t ", pendata.IndexRange{Min: 0, Max: 1}, RootID},
		{"inverted range", "x", pendata.IndexRange{Min: 3, Max: 1}, RootID},
		{"out of bounds", "x", pendata.IndexRange{Min: 3, Max: 5}, RootID},
		{"negative", "x", pendata.IndexRange{Min: -1, Max: 1}, RootID},
		{"removed parent", "x", pendata.IndexRange{Min: 0, Max: 1}, 1},
		{"unknown parent", "x", pendata.IndexRange{Min: 0, Max: 1}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tr.Series().CoverageCounts()
			_, err := tr.Create(tt.seg, tt.r, tt.parent)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
			if tr.TotalCount() != 0 {
				t.Errorf("TotalCount() = %d after failed create", tr.TotalCount())
			}
			if !reflect.DeepEqual(before, tr.Series().CoverageCounts()) {
				t.Errorf("coverage changed after failed create")
			}
		})
	}
}

func TestNameNormalized(t *testing.T) {
	tr := newTestTree(t)
	s := mustCreate(t, tr, "  word\tone  ", 0, 1, RootID)
	if s.Name() != "word#one" {
		t.Errorf("Name() = %q, want %q", s.Name(), "word#one")
	}
	if err := tr.Rename(s.ID(), "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("Rename to blank: error = %v, want ErrValidation", err)
	}
	if err := tr.Rename(s.ID(), "renamed"); err != nil || s.Name() != "renamed" {
		t.Errorf("Rename: err=%v name=%q", err, s.Name())
	}
}

func TestCreateRemoveRestoresCoverage(t *testing.T) {
	tr := newTestTree(t, 1, 1, 0, 1, 1, 1, 0, 1)
	outer := mustCreate(t, tr, "outer", 0, 7, RootID)
	before := tr.Series().CoverageCounts()

	n := tr.Series().Len()
	for lo := 0; lo < n; lo++ {
		for hi := lo; hi < n; hi++ {
			s := mustCreate(t, tr, "probe", lo, hi, outer.ID())
			mustCreate(t, tr, "child", hi, hi, s.ID())
			if _, err := tr.Remove(s.ID()); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if got := tr.Series().CoverageCounts(); !reflect.DeepEqual(got, before) {
				t.Fatalf("[%d,%d]: coverage = %v, want %v", lo, hi, got, before)
			}
		}
	}
	if got := tr.Series().At(3).SegmentID; got != int(outer.ID()) {
		t.Errorf("sample 3 owner = %d, want %d", got, outer.ID())
	}
}

func TestIDsNeverReused(t *testing.T) {
	tr := newTestTree(t)
	seen := map[ID]bool{RootID: true}
	for i := 0; i < 5; i++ {
		s := mustCreate(t, tr, "A", 1, 2, RootID)
		id := s.ID()
		if seen[id] {
			t.Fatalf("id %d reused", id)
		}
		seen[id] = true
		if _, err := tr.Remove(id); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if s.ID() != InvalidID || !s.Removed() {
			t.Errorf("removed segment still reports id %d", s.ID())
		}
	}
}

func TestRemove(t *testing.T) {
	tr := newTestTree(t)
	a := mustCreate(t, tr, "A", 0, 4, RootID)
	b := mustCreate(t, tr, "B", 1, 2, RootID)
	c := mustCreate(t, tr, "C", 1, 1, b.ID())
	d := mustCreate(t, tr, "D", 3, 4, RootID)
	bID, cID := b.ID(), c.ID()

	removed, err := tr.Remove(bID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.Index != 1 || removed.Segment != b || removed.ID != bID {
		t.Errorf("Remove() = %+v, want B at index 1", removed)
	}
	if _, err := tr.Get(cID); !errors.Is(err, ErrNotFound) {
		t.Errorf("child of removed segment still present: %v", err)
	}
	if got := tr.Root().Children(); !reflect.DeepEqual(got, []ID{a.ID(), d.ID()}) {
		t.Errorf("root children = %v, want [%d %d]", got, a.ID(), d.ID())
	}
	if tr.TotalCount() != 2 {
		t.Errorf("TotalCount() = %d, want 2", tr.TotalCount())
	}
	if _, err := tr.Remove(bID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove: error = %v, want ErrNotFound", err)
	}
	if _, err := tr.Remove(RootID); !errors.Is(err, ErrValidation) {
		t.Errorf("Remove(root): error = %v, want ErrValidation", err)
	}
}

func TestRemoveLocked(t *testing.T) {
	tr := newTestTree(t)
	trial := mustCreate(t, tr, "Trial1", 0, 4, RootID)
	if err := tr.SetLocked(trial.ID(), true); err != nil {
		t.Fatalf("SetLocked: %v", err)
	}
	mustCreate(t, tr, "word", 1, 2, trial.ID())

	parent := mustCreate(t, tr, "group", 0, 4, RootID)
	inner := mustCreate(t, tr, "inner", 1, 1, parent.ID())
	if err := tr.SetLocked(inner.ID(), true); err != nil {
		t.Fatalf("SetLocked: %v", err)
	}

	for _, id := range []ID{trial.ID(), parent.ID()} {
		before := tr.Series().CoverageCounts()
		count := tr.TotalCount()
		if _, err := tr.Remove(id); !errors.Is(err, ErrValidation) {
			t.Errorf("Remove(%d): error = %v, want ErrValidation", id, err)
		}
		if tr.TotalCount() != count || !reflect.DeepEqual(before, tr.Series().CoverageCounts()) {
			t.Errorf("Remove(%d) changed the tree", id)
		}
	}
	if err := tr.SetLocked(RootID, false); !errors.Is(err, ErrValidation) {
		t.Errorf("unlocking root: error = %v, want ErrValidation", err)
	}
}

func TestRemoveCoverageOutOfSync(t *testing.T) {
	tr := newTestTree(t)
	a := mustCreate(t, tr, "A", 0, 3, RootID)
	b := mustCreate(t, tr, "B", 1, 1, a.ID())

	// coverage changed behind the tree's back
	if err := tr.Series().Uncover(pendata.IndexRange{Min: 3, Max: 3}, 0); err != nil {
		t.Fatalf("Uncover: %v", err)
	}
	before := tr.Series().CoverageCounts()

	if _, err := tr.Remove(a.ID()); !errors.Is(err, pendata.ErrRange) {
		t.Fatalf("Remove: error = %v, want ErrRange", err)
	}
	if tr.TotalCount() != 2 {
		t.Errorf("TotalCount() = %d, want 2", tr.TotalCount())
	}
	if a.Removed() || b.Removed() {
		t.Errorf("failed Remove marked segments removed: A %v, B %v", a.Removed(), b.Removed())
	}
	if got := a.Children(); !reflect.DeepEqual(got, []ID{b.ID()}) {
		t.Errorf("A children = %v, want [%d]", got, b.ID())
	}
	if !reflect.DeepEqual(before, tr.Series().CoverageCounts()) {
		t.Errorf("coverage = %v, want unchanged %v", tr.Series().CoverageCounts(), before)
	}
	leveled := tr.Leveled()
	if len(leveled[1]) != 1 || len(leveled[2]) != 1 {
		t.Errorf("Leveled() = %v, want one segment on each of two levels", leveled)
	}
}

func TestChildIndex(t *testing.T) {
	tr := newTestTree(t)
	a := mustCreate(t, tr, "A", 0, 1, RootID)
	b := mustCreate(t, tr, "B", 2, 3, RootID)

	for want, id := range []ID{a.ID(), b.ID()} {
		got, err := tr.ChildIndex(id)
		if err != nil || got != want {
			t.Errorf("ChildIndex(%d) = %d/%v, want %d", id, got, err, want)
		}
	}
	if _, err := tr.ChildIndex(RootID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ChildIndex(root): error = %v, want ErrNotFound", err)
	}
	if _, err := tr.ChildIndex(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("ChildIndex(99): error = %v, want ErrNotFound", err)
	}
}

func TestCreateFromTimeRange(t *testing.T) {
	tr := newTestTree(t)

	s, err := tr.CreateFromTimeRange("A", 0.0, 0.4, RootID, true)
	if err != nil {
		t.Fatalf("CreateFromTimeRange: %v", err)
	}
	if s.Range() != (pendata.IndexRange{Min: 1, Max: 2}) {
		t.Errorf("trimmed range = %s, want [1,2]", s.Range())
	}
	u, err := tr.CreateFromTimeRange("U", 0.0, 0.4, RootID, false)
	if err != nil {
		t.Fatalf("CreateFromTimeRange: %v", err)
	}
	if u.Range() != (pendata.IndexRange{Min: 0, Max: 4}) {
		t.Errorf("untrimmed range = %s, want [0,4]", u.Range())
	}
	if _, err := tr.CreateFromTimeRange("Z", 0.3, 0.4, RootID, true); !errors.Is(err, ErrValidation) {
		t.Errorf("all pen-up range: error = %v, want ErrValidation", err)
	}
	if r, ok := tr.TrimmedIndexBounds(0, 0.4); !ok || r != (pendata.IndexRange{Min: 1, Max: 2}) {
		t.Errorf("TrimmedIndexBounds = %s/%v, want [1,2]", r, ok)
	}
}

func TestOverlapAllowed(t *testing.T) {
	tr := newTestTree(t)
	a := mustCreate(t, tr, "A", 1, 2, RootID)
	// children may extend beyond the parent and siblings may overlap
	if _, err := tr.Create("wide", pendata.IndexRange{Min: 0, Max: 4}, a.ID()); err != nil {
		t.Errorf("child wider than parent: %v", err)
	}
	if _, err := tr.Create("sibling", pendata.IndexRange{Min: 2, Max: 3}, RootID); err != nil {
		t.Errorf("overlapping sibling: %v", err)
	}
}

func TestWalkPreOrder(t *testing.T) {
	tr := newTestTree(t)
	a := mustCreate(t, tr, "A", 0, 2, RootID)
	mustCreate(t, tr, "A1", 0, 0, a.ID())
	mustCreate(t, tr, "B", 3, 4, RootID)
	mustCreate(t, tr, "A2", 1, 1, a.ID())

	var names []string
	tr.Walk(func(s *Segment) { names = append(names, s.Name()) })
	if want := []string{"A", "A1", "A2", "B"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Walk order = %v, want %v", names, want)
	}
}
