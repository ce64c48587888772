package uwb

import "math"

// MinSmoothingWindow is the smallest moving-average window used for
// raw/smoothed time-series plots.
const MinSmoothingWindow = 5

// SmoothingWindow returns the moving-average window for a log of n samples:
// max(5, n/50).
func SmoothingWindow(n int) int {
	return max(MinSmoothingWindow, n/50)
}

// MovingAverage returns the centered rolling mean of values. With
// k = (w-1)/2, position i averages the window [i+k-w+1, i+k], so even
// windows lean one sample towards the past. Positions whose window runs off
// either end, or that hold a NaN, are NaN and the output has the same length
// as the input.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || window > len(values) {
		return out
	}

	offset := (window - 1) / 2
	var sum float64
	nans := 0
	for end := 0; end < len(values); end++ {
		if v := values[end]; math.IsNaN(v) {
			nans++
		} else {
			sum += v
		}
		if end >= window {
			if v := values[end-window]; math.IsNaN(v) {
				nans--
			} else {
				sum -= v
			}
		}
		if end >= window-1 && nans == 0 {
			out[end-offset] = sum / float64(window)
		}
	}
	return out
}
