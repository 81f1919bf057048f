package session

import "fmt"

// TimeRegion is the single selected time range of a project, kept inside the
// recording's time bounds.
type TimeRegion struct {
	min float64
	max float64
	lo  float64
	hi  float64
}

func newTimeRegion(lo, hi float64) *TimeRegion {
	return &TimeRegion{min: lo, max: hi, lo: lo, hi: hi}
}

// Region returns the selected range.
func (r *TimeRegion) Region() (float64, float64) { return r.min, r.max }

// Bounds returns the limits the selection is clamped to.
func (r *TimeRegion) Bounds() (float64, float64) { return r.lo, r.hi }

// SetRegion selects [min, max], swapping reversed ends and clamping both to
// the bounds.
func (r *TimeRegion) SetRegion(min, max float64) {
	if min > max {
		min, max = max, min
	}
	r.min = clampTime(min, r.lo, r.hi)
	r.max = clampTime(max, r.lo, r.hi)
}

// Duration returns the length of the selection in seconds.
func (r *TimeRegion) Duration() float64 { return r.max - r.min }

func (r *TimeRegion) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", r.min, r.max)
}

func clampTime(t, min, max float64) float64 {
	if t < min {
		return min
	}
	if t > max {
		return max
	}
	return t
}
