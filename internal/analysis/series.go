package analysis

import (
	"math"
	"slices"
)

// Summary describes one column of a captured run.
type Summary struct {
	N      int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
}

// Summarize ignores NaN and infinite samples. An empty or fully non-finite
// series gives a zero Summary.
func Summarize(values []float64) Summary {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return Summary{}
	}
	slices.Sort(clean)

	s := Summary{N: len(clean), Min: clean[0], Max: clean[len(clean)-1]}
	for _, v := range clean {
		s.Mean += v
	}
	s.Mean /= float64(s.N)
	for _, v := range clean {
		d := v - s.Mean
		s.Std += d * d
	}
	s.Std = math.Sqrt(s.Std / float64(s.N))

	mid := s.N / 2
	if s.N%2 == 1 {
		s.Median = clean[mid]
	} else {
		s.Median = (clean[mid-1] + clean[mid]) / 2
	}
	return s
}

// DominantPeriod returns the period, in the units of dt, of the strongest
// non-constant component of values. The mean is removed first so a flat
// series reports ok=false. Fewer than four samples are never enough.
func DominantPeriod(values []float64, dt float64) (period float64, ok bool) {
	if len(values) < 4 || !(dt > 0) {
		return 0, false
	}
	s := Summarize(values)
	if s.N != len(values) || s.Std == 0 {
		return 0, false
	}

	centered := make([]float64, len(values))
	for i, v := range values {
		centered[i] = v - s.Mean
	}
	ps := PowerSpectrum(centered)

	best, bestPower := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	if best == 0 {
		return 0, false
	}
	n := NextPow2(len(values))
	return float64(n) * dt / float64(best), true
}
