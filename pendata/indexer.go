package pendata

import "sort"

// IndexBounds maps the time range [tmin, tmax] to the tightest inclusive
// index range whose sample times fall inside it. With trim set, leading and
// trailing pen-up samples are dropped by jumping over zero-pressure runs.
// The second result is false when no sample qualifies.
func (s *Series) IndexBounds(tmin, tmax float64, trim bool) (IndexRange, bool) {
	if tmin > tmax {
		return IndexRange{}, false
	}
	lo := sort.SearchFloat64s(s.times, tmin)
	hi := sort.Search(len(s.times), func(i int) bool { return s.times[i] > tmax }) - 1
	if lo >= len(s.times) || hi < 0 || lo > hi {
		return IndexRange{}, false
	}
	r := IndexRange{Min: lo, Max: hi}
	if trim {
		r = s.trimZeroPressure(r)
		if r.Min > r.Max {
			return IndexRange{}, false
		}
	}
	return r, true
}

// trimZeroPressure moves each end of r past the zero-pressure run it sits in.
// Runs are maximal, so one jump per end is enough.
func (s *Series) trimZeroPressure(r IndexRange) IndexRange {
	if !s.IsPressed(r.Min) {
		if i := s.unpressed.Find(r.Min); i >= 0 {
			r.Min = s.unpressed.Stop[i] + 1
		}
	}
	if r.Min > r.Max {
		return r
	}
	if !s.IsPressed(r.Max) {
		if i := s.unpressed.Find(r.Max); i >= 0 {
			r.Max = s.unpressed.Start[i] - 1
		}
	}
	return r
}

// NextRun returns the first run starting after currentMax.
func NextRun(t RunTable, currentMax int) (IndexRange, bool) {
	i := sort.Search(len(t.Start), func(i int) bool { return t.Start[i] > currentMax })
	if i >= len(t.Start) {
		return IndexRange{}, false
	}
	return t.Run(i), true
}

// PrevRun returns the last run stopping before currentMin.
func PrevRun(t RunTable, currentMin int) (IndexRange, bool) {
	i := sort.Search(len(t.Stop), func(i int) bool { return t.Stop[i] >= currentMin }) - 1
	if i < 0 {
		return IndexRange{}, false
	}
	return t.Run(i), true
}

// NextRunStart returns the first run start greater than after.
func NextRunStart(t RunTable, after int) (int, bool) {
	i := sort.Search(len(t.Start), func(i int) bool { return t.Start[i] > after })
	if i >= len(t.Start) {
		return 0, false
	}
	return t.Start[i], true
}

// NextRunStop returns the first run stop greater than after.
func NextRunStop(t RunTable, after int) (int, bool) {
	i := sort.Search(len(t.Stop), func(i int) bool { return t.Stop[i] > after })
	if i >= len(t.Stop) {
		return 0, false
	}
	return t.Stop[i], true
}

// PrevRunStart returns the last run start less than before.
func PrevRunStart(t RunTable, before int) (int, bool) {
	i := sort.Search(len(t.Start), func(i int) bool { return t.Start[i] >= before }) - 1
	if i < 0 {
		return 0, false
	}
	return t.Start[i], true
}

// PrevRunStop returns the last run stop less than before.
func PrevRunStop(t RunTable, before int) (int, bool) {
	i := sort.Search(len(t.Stop), func(i int) bool { return t.Stop[i] >= before }) - 1
	if i < 0 {
		return 0, false
	}
	return t.Stop[i], true
}
