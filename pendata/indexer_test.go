package pendata

import "testing"

func TestIndexBounds(t *testing.T) {
	s := mustSeries(t, []float64{0.0, 0.1, 0.2, 0.3, 0.4}, []float64{0, 5, 5, 0, 0})

	tests := []struct {
		name       string
		tmin, tmax float64
		trim       bool
		want       IndexRange
		wantOK     bool
	}{
		{name: "whole span trimmed", tmin: 0.0, tmax: 0.4, trim: true, want: IndexRange{1, 2}, wantOK: true},
		{name: "whole span untrimmed", tmin: 0.0, tmax: 0.4, want: IndexRange{0, 4}, wantOK: true},
		{name: "between samples", tmin: 0.05, tmax: 0.35, want: IndexRange{1, 3}, wantOK: true},
		{name: "wider than span", tmin: -1, tmax: 9, want: IndexRange{0, 4}, wantOK: true},
		{name: "single sample", tmin: 0.2, tmax: 0.2, want: IndexRange{2, 2}, wantOK: true},
		{name: "gap between samples", tmin: 0.21, tmax: 0.29, wantOK: false},
		{name: "before span", tmin: -2, tmax: -1, wantOK: false},
		{name: "after span", tmin: 0.5, tmax: 0.9, wantOK: false},
		{name: "inverted", tmin: 0.3, tmax: 0.1, wantOK: false},
		{name: "all pen-up trimmed", tmin: 0.3, tmax: 0.4, trim: true, wantOK: false},
		{name: "leading pen-up only", tmin: 0.0, tmax: 0.1, trim: true, want: IndexRange{1, 1}, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.IndexBounds(tt.tmin, tt.tmax, tt.trim)
			if ok != tt.wantOK {
				t.Fatalf("IndexBounds() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("IndexBounds() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIndexBoundsTightest(t *testing.T) {
	times := []float64{0, 0.013, 0.02, 0.031, 0.05, 0.061, 0.07, 0.088, 0.09, 0.1}
	pressures := make([]float64, len(times))
	for i := range pressures {
		pressures[i] = 1
	}
	s := mustSeries(t, times, pressures)

	for a := -0.01; a <= 0.11; a += 0.007 {
		for b := a; b <= 0.11; b += 0.011 {
			got, ok := s.IndexBounds(a, b, false)
			var inside []int
			for i, tm := range times {
				if tm >= a && tm <= b {
					inside = append(inside, i)
				}
			}
			if len(inside) == 0 {
				if ok {
					t.Errorf("IndexBounds(%g, %g) = %s, want none", a, b, got)
				}
				continue
			}
			want := IndexRange{Min: inside[0], Max: inside[len(inside)-1]}
			if !ok || got != want {
				t.Errorf("IndexBounds(%g, %g) = %s/%v, want %s", a, b, got, ok, want)
			}
		}
	}
}

func TestTrimIdempotent(t *testing.T) {
	times := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	pressures := []float64{0, 0, 2, 2, 0, 2, 0, 0, 0}
	s := mustSeries(t, times, pressures)

	for i := range times {
		for j := i; j < len(times); j++ {
			once, ok := s.IndexBounds(times[i], times[j], true)
			if !ok {
				continue
			}
			twice, ok := s.IndexBounds(s.Time(once.Min), s.Time(once.Max), true)
			if !ok || twice != once {
				t.Errorf("trim(%d..%d) = %s, trimming again gave %s/%v", i, j, once, twice, ok)
			}
			if !s.IsPressed(once.Min) || !s.IsPressed(once.Max) {
				t.Errorf("trim(%d..%d) = %s ends on a pen-up sample", i, j, once)
			}
		}
	}
}

func TestNextPrevRun(t *testing.T) {
	table := RunTable{Start: []int{0, 5}, Stop: []int{2, 7}, Length: []int{3, 3}}

	if got, ok := NextRun(table, 2); !ok || got != (IndexRange{5, 7}) {
		t.Errorf("NextRun(2) = %s/%v, want [5,7]", got, ok)
	}
	if _, ok := NextRun(table, 7); ok {
		t.Errorf("NextRun(7) found a run, want none")
	}
	if got, ok := PrevRun(table, 5); !ok || got != (IndexRange{0, 2}) {
		t.Errorf("PrevRun(5) = %s/%v, want [0,2]", got, ok)
	}
	if _, ok := PrevRun(table, 2); ok {
		t.Errorf("PrevRun(2) found a run, want none")
	}
}

func TestRunEdgeLookups(t *testing.T) {
	table := RunTable{Start: []int{1, 5, 9}, Stop: []int{3, 7, 12}, Length: []int{3, 3, 4}}

	tests := []struct {
		name   string
		fn     func(RunTable, int) (int, bool)
		arg    int
		want   int
		wantOK bool
	}{
		{"next start", NextRunStart, 1, 5, true},
		{"next start none", NextRunStart, 9, 0, false},
		{"next stop", NextRunStop, 4, 7, true},
		{"next stop none", NextRunStop, 12, 0, false},
		{"prev start", PrevRunStart, 9, 5, true},
		{"prev start none", PrevRunStart, 1, 0, false},
		{"prev stop", PrevRunStop, 7, 3, true},
		{"prev stop none", PrevRunStop, 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fn(table, tt.arg)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("got %d/%v, want %d/%v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRunTableFind(t *testing.T) {
	table := RunsFromLabels([]int{3, 3, 4, 4, 4, 9})
	tests := []struct {
		ix, want int
	}{
		{-1, -1}, {0, 0}, {1, 0}, {2, 1}, {4, 1}, {5, 2}, {6, -1},
	}
	for _, tt := range tests {
		if got := table.Find(tt.ix); got != tt.want {
			t.Errorf("Find(%d) = %d, want %d", tt.ix, got, tt.want)
		}
	}
}
