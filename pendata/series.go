package pendata

import (
	"fmt"
	"math"
)

// RawSample is one parsed row handed over by the file loader.
type RawSample struct {
	Time     float64
	X        float64
	Y        float64
	Pressure float64
}

// Sample is one pen reading with its derived fields.
//
// SegmentID is the only field mutated after load. It holds the id of the
// latest segment created over the sample.
type Sample struct {
	Time           float64
	X              float64
	Y              float64
	Pressure       float64
	XYVelocity     float64
	XYAcceleration float64
	SegmentID      int
}

// Options controls how the derived run tables are computed.
type Options struct {
	// StrokeNeighborhood is the number of samples on each side a velocity
	// minimum must be strictly lower than.
	StrokeNeighborhood int

	// StrokeMinDuration merges velocity minima closer than this many seconds.
	StrokeMinDuration float64

	// SeriesRuns is the data source's partition into sample series.
	// Nil means the whole recording is one series.
	SeriesRuns *RunTable
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{StrokeNeighborhood: 3, StrokeMinDuration: 0.02}
}

// Series is the fixed, time-ordered sample array of one recording.
type Series struct {
	samples  []Sample
	times    []float64
	coverage []int

	strokes   RunTable
	pressed   RunTable
	unpressed RunTable
	pressure  RunTable
	series    RunTable
}

// New validates rows and builds a Series with its run tables.
func New(rows []RawSample, opts Options) (*Series, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrData)
	}
	for i, r := range rows {
		if !finite(r.Time) || !finite(r.X) || !finite(r.Y) || !finite(r.Pressure) {
			return nil, fmt.Errorf("%w: sample %d has a non-finite value", ErrData, i)
		}
		if r.Pressure < 0 {
			return nil, fmt.Errorf("%w: sample %d has negative pressure %g", ErrData, i, r.Pressure)
		}
		if i > 0 && r.Time <= rows[i-1].Time {
			return nil, fmt.Errorf("%w: sample %d time %g does not follow %g", ErrData, i, r.Time, rows[i-1].Time)
		}
	}

	n := len(rows)
	s := &Series{
		samples:  make([]Sample, n),
		times:    make([]float64, n),
		coverage: make([]int, n),
	}
	for i, r := range rows {
		s.samples[i] = Sample{Time: r.Time, X: r.X, Y: r.Y, Pressure: r.Pressure}
		s.times[i] = r.Time
	}
	s.deriveMotion()

	if opts.SeriesRuns != nil {
		if err := opts.SeriesRuns.Validate(n); err != nil {
			return nil, fmt.Errorf("series runs: %w", err)
		}
		s.series = opts.SeriesRuns.clone()
	} else {
		s.series = singleRun(n)
	}

	s.pressed = runsWhere(n, func(i int) bool { return s.samples[i].Pressure > 0 })
	s.unpressed = runsWhere(n, func(i int) bool { return s.samples[i].Pressure == 0 })
	s.pressure = mergeRuns(s.pressed, s.unpressed)
	s.strokes = strokeRuns(s.samples, opts.StrokeNeighborhood, opts.StrokeMinDuration)
	return s, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *Series) deriveMotion() {
	n := len(s.samples)
	if n < 2 {
		return
	}
	for i := 1; i < n; i++ {
		a, b := s.samples[i-1], s.samples[i]
		s.samples[i].XYVelocity = math.Hypot(b.X-a.X, b.Y-a.Y) / (b.Time - a.Time)
	}
	s.samples[0].XYVelocity = s.samples[1].XYVelocity
	for i := 1; i < n; i++ {
		a, b := s.samples[i-1], s.samples[i]
		s.samples[i].XYAcceleration = (b.XYVelocity - a.XYVelocity) / (b.Time - a.Time)
	}
	s.samples[0].XYAcceleration = s.samples[1].XYAcceleration
}

// mergeRuns interleaves two disjoint tables into one sorted table.
func mergeRuns(a, b RunTable) RunTable {
	var out RunTable
	i, j := 0, 0
	for i < a.Len() || j < b.Len() {
		if j >= b.Len() || (i < a.Len() && a.Start[i] < b.Start[j]) {
			out.add(a.Start[i], a.Stop[i])
			i++
			continue
		}
		out.add(b.Start[j], b.Stop[j])
		j++
	}
	return out
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.samples) }

// At returns sample i.
func (s *Series) At(i int) Sample { return s.samples[i] }

// Time returns the time of sample i.
func (s *Series) Time(i int) float64 { return s.times[i] }

// Times returns the sample times. The slice must not be modified.
func (s *Series) Times() []float64 { return s.times }

// TimeSpan returns the first and last sample times.
func (s *Series) TimeSpan() (float64, float64) {
	return s.times[0], s.times[len(s.times)-1]
}

// IsPressed reports whether sample i has pressure > 0.
func (s *Series) IsPressed(i int) bool { return s.samples[i].Pressure > 0 }

// AllPressed reports whether every sample in r has pressure > 0.
func (s *Series) AllPressed(r IndexRange) bool {
	for _, ix := range []int{r.Min, r.Max} {
		if ix < 0 || ix >= len(s.samples) {
			return false
		}
	}
	i := s.pressed.Find(r.Min)
	return i >= 0 && s.pressed.Stop[i] >= r.Max
}

// Strokes returns the stroke boundary table.
func (s *Series) Strokes() RunTable { return s.strokes }

// PressedRuns returns the runs where pressure > 0.
func (s *Series) PressedRuns() RunTable { return s.pressed }

// ZeroPressureRuns returns the runs where pressure == 0.
func (s *Series) ZeroPressureRuns() RunTable { return s.unpressed }

// PressureRuns returns pressed and zero-pressure runs merged into one table
// covering every sample.
func (s *Series) PressureRuns() RunTable { return s.pressure }

// SeriesRuns returns the sample-series table.
func (s *Series) SeriesRuns() RunTable { return s.series }

// CheckRange reports ErrRange unless r is a non-empty range inside the series.
func (s *Series) CheckRange(r IndexRange) error {
	if r.Min > r.Max || r.Min < 0 || r.Max >= len(s.samples) {
		return fmt.Errorf("%w: %s with %d samples", ErrRange, r, len(s.samples))
	}
	return nil
}

// Coverage returns how many segments currently include sample i.
func (s *Series) Coverage(i int) int { return s.coverage[i] }

// CoverageCounts returns a copy of the per-sample coverage counts.
func (s *Series) CoverageCounts() []int {
	return append([]int(nil), s.coverage...)
}

// CheckUncover reports ErrRange unless every range in rs can be uncovered
// together, counting samples that appear in several ranges once per range.
func (s *Series) CheckUncover(rs ...IndexRange) error {
	need := make(map[int]int)
	for _, r := range rs {
		if err := s.CheckRange(r); err != nil {
			return err
		}
		for i := r.Min; i <= r.Max; i++ {
			need[i]++
		}
	}
	for i, n := range need {
		if s.coverage[i] < n {
			return fmt.Errorf("%w: sample %d is covered %d times, %d needed", ErrRange, i, s.coverage[i], n)
		}
	}
	return nil
}

// Cover increments the coverage count over r and marks owner as the
// samples' segment.
func (s *Series) Cover(r IndexRange, owner int) error {
	if err := s.CheckRange(r); err != nil {
		return err
	}
	for i := r.Min; i <= r.Max; i++ {
		s.coverage[i]++
		s.samples[i].SegmentID = owner
	}
	return nil
}

// Uncover decrements the coverage count over r and hands the samples back
// to owner, normally the removed segment's parent.
func (s *Series) Uncover(r IndexRange, owner int) error {
	if err := s.CheckRange(r); err != nil {
		return err
	}
	for i := r.Min; i <= r.Max; i++ {
		if s.coverage[i] == 0 {
			return fmt.Errorf("%w: sample %d is not covered", ErrRange, i)
		}
	}
	for i := r.Min; i <= r.Max; i++ {
		s.coverage[i]--
		s.samples[i].SegmentID = owner
	}
	return nil
}
