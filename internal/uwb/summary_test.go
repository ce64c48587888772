package uwb

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.0", FormatFloat(1))
	assert.Equal(t, "2.5", FormatFloat(2.5))
	assert.Equal(t, "0.0123", FormatFloat(0.0123))
	assert.Equal(t, "-0.25", FormatFloat(-0.25))
	assert.Equal(t, "", FormatFloat(math.NaN()))
	assert.Equal(t, "+Inf", FormatFloat(math.Inf(1)))
}

func TestWriteSummary(t *testing.T) {
	table := SummaryTable{
		{File: "1m_10Hz.csv", TargetDistanceM: 1, TargetHz: 10, ActualHz: 10, AvgDeltaMs: 100, MeasuredMeanM: 1, ErrorM: 0, StdDevM: 0, Samples: 4},
		{File: "2m_5Hz.csv", TargetDistanceM: 2, TargetHz: 5, ActualHz: 0, AvgDeltaMs: math.NaN(), MeasuredMeanM: 2.0312, ErrorM: 0.0312, StdDevM: math.NaN(), Samples: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, table))

	want := strings.Join([]string{
		"File,Target_Distance_m,Target_Hz,Actual_Hz,Avg_Delta_ms,Measured_Mean_m,Error_m,Std_Dev_m,Samples",
		"1m_10Hz.csv,1.0,10.0,10.0,100.0,1.0,0.0,0.0,4",
		"2m_5Hz.csv,2.0,5.0,0.0,,2.0312,0.0312,,1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteSummary_EmptyTableWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, nil))
	assert.Equal(t, strings.Join(SummaryColumns, ",")+"\n", buf.String())
}

func TestSummaryRoundTrip(t *testing.T) {
	table := SummaryTable{
		{File: "0.5m_100Hz.csv", TargetDistanceM: 0.5, TargetHz: 100, ActualHz: 97.56, AvgDeltaMs: 10.25, MeasuredMeanM: 0.5123, ErrorM: 0.0123, StdDevM: 0.0041, Samples: 1000},
		{File: "3m_1Hz.csv", TargetDistanceM: 3, TargetHz: 1, ActualHz: 0, AvgDeltaMs: math.NaN(), MeasuredMeanM: 2.9, ErrorM: -0.1, StdDevM: math.NaN(), Samples: 1},
	}

	var first bytes.Buffer
	require.NoError(t, WriteSummary(&first, table))

	got, err := ReadSummary(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	if diff := cmp.Diff(table, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	var second bytes.Buffer
	require.NoError(t, WriteSummary(&second, got))
	assert.Equal(t, first.String(), second.String())
}

func TestReadSummary_Errors(t *testing.T) {
	_, err := ReadSummary(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptyFile))

	_, err = ReadSummary(strings.NewReader("File,Target_Hz\nx,1\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))

	header := strings.Join(SummaryColumns, ",")
	_, err = ReadSummary(strings.NewReader(header + "\na.csv,1,x,1,1,1,1,1,4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Target_Hz")

	_, err = ReadSummary(strings.NewReader(header + "\na.csv,1,1,1,1,1,1,1,four\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Samples")
}
