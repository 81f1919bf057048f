package pendata

// strokeRuns splits the samples into strokes at local minima of XY velocity.
// A minimum must be strictly lower than every sample within k places of it,
// and minima closer than minDur seconds collapse onto the slower of the two.
func strokeRuns(samples []Sample, k int, minDur float64) RunTable {
	n := len(samples)
	if k < 1 {
		k = 1
	}

	var minima []int
	for i := 1; i < n-1; i++ {
		if !strictMinimum(samples, i, k) {
			continue
		}
		if len(minima) > 0 {
			last := minima[len(minima)-1]
			if samples[i].Time-samples[last].Time < minDur {
				if samples[i].XYVelocity < samples[last].XYVelocity {
					minima[len(minima)-1] = i
				}
				continue
			}
		}
		minima = append(minima, i)
	}

	var t RunTable
	start := 0
	for _, m := range minima {
		t.add(start, m-1)
		start = m
	}
	t.add(start, n-1)
	return t
}

func strictMinimum(samples []Sample, i, k int) bool {
	v := samples[i].XYVelocity
	lo, hi := max(0, i-k), min(len(samples)-1, i+k)
	for j := lo; j <= hi; j++ {
		if j != i && samples[j].XYVelocity <= v {
			return false
		}
	}
	return true
}
