// Package uwb analyzes UWB ranging logs: it extracts test metadata from log
// file names, reduces each log to timing and accuracy statistics, and
// aggregates the per-file results into a summary table.
package uwb

import (
	"math"
	"sort"
)

// RawSample is one logged ranging measurement. Samples are kept in file
// order, which is also time order. A blank or "nan" distance cell reads as
// NaN; a blank timestamp cell sets MissingTimestamp.
type RawSample struct {
	TimestampMs      int64
	DistanceM        float64
	MissingTimestamp bool
}

// FileMetadata is the test setup encoded in a log file name.
type FileMetadata struct {
	NominalDistanceM float64
	TargetRateHz     float64
}

// FileStats holds the full-precision statistics for one log file.
// Undefined values (too few samples) are NaN.
type FileStats struct {
	Samples    int
	AvgDeltaMs float64
	ActualHz   float64
	MeanM      float64
	StdDevM    float64
	ErrorM     float64
}

// FileReport is one row of the summary table. Float fields are rounded for
// display: rates and deltas to 2 decimals, distances to 4.
type FileReport struct {
	File            string
	TargetDistanceM float64
	TargetHz        float64
	ActualHz        float64
	AvgDeltaMs      float64
	MeasuredMeanM   float64
	ErrorM          float64
	StdDevM         float64
	Samples         int
}

// SummaryTable is the ordered list of file reports for one analysis run.
type SummaryTable []FileReport

// DistanceGroup is the set of reports sharing one nominal distance, ordered
// by ascending target rate.
type DistanceGroup struct {
	DistanceM float64
	Reports   []FileReport
}

// GroupByDistance splits the table by nominal distance. Groups are ordered by
// ascending distance and each group's rows by ascending target rate; rows
// with equal target rates keep their table order.
func (t SummaryTable) GroupByDistance() []DistanceGroup {
	index := make(map[float64]int)
	var groups []DistanceGroup
	for _, r := range t {
		i, ok := index[r.TargetDistanceM]
		if !ok {
			i = len(groups)
			index[r.TargetDistanceM] = i
			groups = append(groups, DistanceGroup{DistanceM: r.TargetDistanceM})
		}
		groups[i].Reports = append(groups[i].Reports, r)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].DistanceM < groups[b].DistanceM
	})
	for _, g := range groups {
		reports := g.Reports
		sort.SliceStable(reports, func(a, b int) bool {
			return reports[a].TargetHz < reports[b].TargetHz
		})
	}
	return groups
}

// MaxTargetHz returns the largest target rate in the table, or NaN for an
// empty table.
func (t SummaryTable) MaxTargetHz() float64 {
	if len(t) == 0 {
		return math.NaN()
	}
	max := t[0].TargetHz
	for _, r := range t[1:] {
		if r.TargetHz > max {
			max = r.TargetHz
		}
	}
	return max
}
