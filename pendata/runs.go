package pendata

import (
	"fmt"
	"sort"
)

// IndexRange is an inclusive range of sample indices.
type IndexRange struct {
	Min int
	Max int
}

// Len returns the number of samples in the range.
func (r IndexRange) Len() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

// Contains reports whether ix falls inside the range.
func (r IndexRange) Contains(ix int) bool {
	return ix >= r.Min && ix <= r.Max
}

func (r IndexRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Min, r.Max)
}

// RunTable is a sorted, non-overlapping list of runs stored as three parallel
// sequences. Start and Stop are inclusive sample indices.
type RunTable struct {
	Start  []int
	Stop   []int
	Length []int
}

// Len returns the number of runs.
func (t RunTable) Len() int { return len(t.Start) }

// Run returns run i as an IndexRange.
func (t RunTable) Run(i int) IndexRange {
	return IndexRange{Min: t.Start[i], Max: t.Stop[i]}
}

func (t *RunTable) add(start, stop int) {
	t.Start = append(t.Start, start)
	t.Stop = append(t.Stop, stop)
	t.Length = append(t.Length, stop-start+1)
}

// Find returns the position of the run containing ix, or -1.
func (t RunTable) Find(ix int) int {
	// last run whose start <= ix
	i := sort.Search(len(t.Start), func(i int) bool { return t.Start[i] > ix }) - 1
	if i < 0 || t.Stop[i] < ix {
		return -1
	}
	return i
}

// Validate checks that the table is a gap-free partition of [0, n-1].
func (t RunTable) Validate(n int) error {
	if len(t.Start) != len(t.Stop) || len(t.Start) != len(t.Length) {
		return fmt.Errorf("%w: run table sequences differ in length", ErrData)
	}
	if len(t.Start) == 0 {
		return fmt.Errorf("%w: run table is empty", ErrData)
	}
	next := 0
	for i := range t.Start {
		if t.Start[i] != next {
			return fmt.Errorf("%w: run %d starts at %d, want %d", ErrData, i, t.Start[i], next)
		}
		if t.Stop[i] < t.Start[i] {
			return fmt.Errorf("%w: run %d stops before it starts", ErrData, i)
		}
		if t.Length[i] != t.Stop[i]-t.Start[i]+1 {
			return fmt.Errorf("%w: run %d has length %d, want %d", ErrData, i, t.Length[i], t.Stop[i]-t.Start[i]+1)
		}
		next = t.Stop[i] + 1
	}
	if next != n {
		return fmt.Errorf("%w: runs end at %d, want %d", ErrData, next-1, n-1)
	}
	return nil
}

// RunsFromLabels builds a run table from a per-sample label column, starting
// a new run wherever the label changes.
func RunsFromLabels(labels []int) RunTable {
	var t RunTable
	if len(labels) == 0 {
		return t
	}
	start := 0
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			t.add(start, i-1)
			start = i
		}
	}
	t.add(start, len(labels)-1)
	return t
}

// runsWhere returns the maximal runs of indices in [0, n) for which keep is true.
func runsWhere(n int, keep func(i int) bool) RunTable {
	var t RunTable
	start := -1
	for i := 0; i < n; i++ {
		if keep(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			t.add(start, i-1)
			start = -1
		}
	}
	if start >= 0 {
		t.add(start, n-1)
	}
	return t
}

func singleRun(n int) RunTable {
	var t RunTable
	t.add(0, n-1)
	return t
}

func (t RunTable) clone() RunTable {
	return RunTable{
		Start:  append([]int(nil), t.Start...),
		Stop:   append([]int(nil), t.Stop...),
		Length: append([]int(nil), t.Length...),
	}
}
