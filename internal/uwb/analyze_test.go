package uwb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplesOf(ts []int64, ds []float64) []RawSample {
	out := make([]RawSample, len(ts))
	for i := range ts {
		out[i] = RawSample{TimestampMs: ts[i], DistanceM: ds[i]}
	}
	return out
}

func TestAnalyze_UniformSamples(t *testing.T) {
	samples := samplesOf([]int64{0, 100, 200, 300}, []float64{1, 1, 1, 1})
	st := Analyze(samples, FileMetadata{NominalDistanceM: 0.9, TargetRateHz: 10})

	assert.Equal(t, 4, st.Samples)
	assert.Equal(t, 100.0, st.AvgDeltaMs)
	assert.Equal(t, 10.0, st.ActualHz)
	assert.Equal(t, 1.0, st.MeanM)
	assert.Equal(t, 0.0, st.StdDevM)
	assert.InDelta(t, 0.1, st.ErrorM, 1e-12)
}

func TestAnalyze_SampleStandardDeviation(t *testing.T) {
	samples := samplesOf([]int64{0, 40, 60, 100}, []float64{1, 2, 3, 4})
	st := Analyze(samples, FileMetadata{NominalDistanceM: 2})

	assert.InDelta(t, 100.0/3, st.AvgDeltaMs, 1e-12)
	assert.InDelta(t, 30.0, st.ActualHz, 1e-9)
	assert.InDelta(t, 2.5, st.MeanM, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), st.StdDevM, 1e-12)
	assert.InDelta(t, 0.5, st.ErrorM, 1e-12)
}

func TestAnalyze_SingleSample(t *testing.T) {
	st := Analyze(samplesOf([]int64{500}, []float64{2.25}), FileMetadata{NominalDistanceM: 2})

	assert.True(t, math.IsNaN(st.AvgDeltaMs), "avg delta should be NaN")
	assert.True(t, math.IsNaN(st.StdDevM), "std dev should be NaN")
	assert.Equal(t, 0.0, st.ActualHz)
	assert.Equal(t, 2.25, st.MeanM)
	assert.Equal(t, 0.25, st.ErrorM)
}

func TestAnalyze_NoSamples(t *testing.T) {
	st := Analyze(nil, FileMetadata{NominalDistanceM: 1})

	assert.Equal(t, 0, st.Samples)
	assert.Equal(t, 0.0, st.ActualHz)
	assert.True(t, math.IsNaN(st.MeanM))
	assert.True(t, math.IsNaN(st.ErrorM))
}

func TestAnalyze_NonPositiveDelta(t *testing.T) {
	for _, ts := range [][]int64{{100, 100, 100}, {300, 200, 100}} {
		st := Analyze(samplesOf(ts, []float64{1, 1, 1}), FileMetadata{})
		assert.Equal(t, 0.0, st.ActualHz, "timestamps %v", ts)
		assert.LessOrEqual(t, st.AvgDeltaMs, 0.0)
	}
}

func TestAnalyze_SkipsMissingDistances(t *testing.T) {
	nan := math.NaN()
	samples := samplesOf([]int64{0, 100, 200, 300}, []float64{1, nan, 1, nan})
	st := Analyze(samples, FileMetadata{NominalDistanceM: 1, TargetRateHz: 10})

	assert.Equal(t, 4, st.Samples)
	assert.Equal(t, 100.0, st.AvgDeltaMs)
	assert.Equal(t, 10.0, st.ActualHz)
	assert.Equal(t, 1.0, st.MeanM)
	assert.Equal(t, 0.0, st.StdDevM)
	assert.Equal(t, 0.0, st.ErrorM)
}

func TestAnalyze_SingleValidDistance(t *testing.T) {
	nan := math.NaN()
	st := Analyze(samplesOf([]int64{0, 100}, []float64{nan, 2}), FileMetadata{NominalDistanceM: 2})

	assert.Equal(t, 2.0, st.MeanM)
	assert.True(t, math.IsNaN(st.StdDevM), "std dev of one value should be NaN")
}

func TestAnalyze_SkipsDeltasAroundMissingTimestamps(t *testing.T) {
	samples := samplesOf([]int64{0, 100, 0, 300, 350}, []float64{1, 1, 1, 1, 1})
	samples[2].MissingTimestamp = true

	st := Analyze(samples, FileMetadata{})
	// Only 0->100 and 300->350 have both ends.
	assert.Equal(t, 75.0, st.AvgDeltaMs)
	assert.InDelta(t, 1000.0/75, st.ActualHz, 1e-9)
}

func TestAnalyze_AllTimestampsMissing(t *testing.T) {
	samples := samplesOf([]int64{0, 0}, []float64{1, 1})
	samples[0].MissingTimestamp = true
	samples[1].MissingTimestamp = true

	st := Analyze(samples, FileMetadata{})
	assert.True(t, math.IsNaN(st.AvgDeltaMs))
	assert.Equal(t, 0.0, st.ActualHz)
}

func TestNewFileReport_Rounds(t *testing.T) {
	st := FileStats{
		Samples:    7,
		AvgDeltaMs: 3.0004,
		ActualHz:   1000.0 / 3.0004,
		MeanM:      1.234567,
		StdDevM:    0.0123456,
		ErrorM:     0.234567,
	}
	r := NewFileReport("1m_300Hz.csv", FileMetadata{NominalDistanceM: 1, TargetRateHz: 300}, st)

	assert.Equal(t, FileReport{
		File:            "1m_300Hz.csv",
		TargetDistanceM: 1,
		TargetHz:        300,
		ActualHz:        333.29,
		AvgDeltaMs:      3.0,
		MeasuredMeanM:   1.2346,
		ErrorM:          0.2346,
		StdDevM:         0.0123,
		Samples:         7,
	}, r)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.234, 2))
	assert.Equal(t, 1.24, Round(1.236, 2))
	assert.Equal(t, -0.5, Round(-0.49996, 4))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}
