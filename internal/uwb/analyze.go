package uwb

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Display precision of the summary table.
const (
	RatePrecision     = 2
	DistancePrecision = 4
)

// Analyze reduces one log to timing and accuracy statistics. It never fails:
// with fewer than two samples the average delta and standard deviation are
// NaN and the actual rate is 0. Missing values are skipped: a delta needs
// both neighbouring timestamps, and mean and standard deviation cover the
// NaN-free distances only. Samples still counts every row.
func Analyze(samples []RawSample, meta FileMetadata) FileStats {
	n := len(samples)
	st := FileStats{
		Samples:    n,
		AvgDeltaMs: math.NaN(),
		MeanM:      math.NaN(),
		StdDevM:    math.NaN(),
	}

	var deltas []float64
	for i := 1; i < n; i++ {
		if samples[i].MissingTimestamp || samples[i-1].MissingTimestamp {
			continue
		}
		deltas = append(deltas, float64(samples[i].TimestampMs-samples[i-1].TimestampMs))
	}
	if len(deltas) > 0 {
		st.AvgDeltaMs = stat.Mean(deltas, nil)
	}
	// NaN > 0 is false, so undefined deltas also land on 0 Hz.
	if st.AvgDeltaMs > 0 {
		st.ActualHz = 1000.0 / st.AvgDeltaMs
	}

	dists := make([]float64, 0, n)
	for _, s := range samples {
		if !math.IsNaN(s.DistanceM) {
			dists = append(dists, s.DistanceM)
		}
	}
	if len(dists) > 0 {
		st.MeanM = stat.Mean(dists, nil)
	}
	if len(dists) >= 2 {
		st.StdDevM = stat.StdDev(dists, nil)
	}
	st.ErrorM = st.MeanM - meta.NominalDistanceM

	return st
}

// NewFileReport builds the rounded summary row for one analyzed file.
func NewFileReport(file string, meta FileMetadata, st FileStats) FileReport {
	return FileReport{
		File:            file,
		TargetDistanceM: meta.NominalDistanceM,
		TargetHz:        meta.TargetRateHz,
		ActualHz:        Round(st.ActualHz, RatePrecision),
		AvgDeltaMs:      Round(st.AvgDeltaMs, RatePrecision),
		MeasuredMeanM:   Round(st.MeanM, DistancePrecision),
		ErrorM:          Round(st.ErrorM, DistancePrecision),
		StdDevM:         Round(st.StdDevM, DistancePrecision),
		Samples:         st.Samples,
	}
}

// Round rounds v to the given number of decimal places using the decimal
// representation, so 0.125 rounds the same way it prints. NaN and ±Inf are
// returned unchanged.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
