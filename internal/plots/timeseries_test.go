package plots

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/uwb"
)

func TestTimeSeriesTitle(t *testing.T) {
	assert.Equal(t, "1 m @ 10 Hz", TimeSeriesTitle("1m_10Hz.csv"))
	assert.Equal(t, "2.5 m @ 50 Hz", TimeSeriesTitle("/logs/2.5m_50Hz_run2.csv"))
	assert.Equal(t, "session", TimeSeriesTitle("session.csv"))
}

func rampSamples(n int) []uwb.RawSample {
	samples := make([]uwb.RawSample, n)
	for i := range samples {
		samples[i] = uwb.RawSample{TimestampMs: 5000 + int64(i)*100, DistanceM: float64(i)}
	}
	return samples
}

func TestNewTimeSeries(t *testing.T) {
	ts := NewTimeSeries("1m_10Hz.csv", rampSamples(10))

	assert.Equal(t, "1 m @ 10 Hz", ts.Title)
	assert.Equal(t, 5, ts.Window)
	require.Len(t, ts.Raw, 10)
	assert.Equal(t, 0.0, ts.Raw[0].X)
	assert.InDelta(t, 0.9, ts.Raw[9].X, 1e-12)

	// A window of 5 leaves two incomplete positions at each end.
	require.Len(t, ts.Smoothed, 6)
	assert.InDelta(t, 0.2, ts.Smoothed[0].X, 1e-12)
	assert.InDelta(t, 2.0, ts.Smoothed[0].Y, 1e-12)
	assert.InDelta(t, 7.0, ts.Smoothed[5].Y, 1e-12)
}

func TestNewTimeSeries_ShorterThanWindow(t *testing.T) {
	ts := NewTimeSeries("1m_10Hz.csv", rampSamples(3))
	assert.Len(t, ts.Raw, 3)
	assert.Empty(t, ts.Smoothed)

	p, err := TimeSeriesPlot(ts)
	require.NoError(t, err)
	assert.Equal(t, "1 m @ 10 Hz", p.Title.Text)
}

func TestNewTimeSeries_MissingCells(t *testing.T) {
	samples := rampSamples(10)
	samples[0].MissingTimestamp = true
	samples[4].DistanceM = math.NaN()

	ts := NewTimeSeries("1m_10Hz.csv", samples)

	// Time zero moves to the first timestamped row.
	require.Len(t, ts.Raw, 8)
	assert.Equal(t, 0.0, ts.Raw[0].X)
	assert.Equal(t, 1.0, ts.Raw[0].Y)
	for _, pt := range ts.Smoothed {
		assert.False(t, math.IsNaN(pt.Y))
	}
}

func TestTimeSeriesPlot_Empty(t *testing.T) {
	_, err := TimeSeriesPlot(NewTimeSeries("1m_10Hz.csv", nil))
	assert.True(t, errors.Is(err, ErrNothingToPlot))
}

func TestSaveTimeSeries(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	path, err := SaveTimeSeries(mfs, "/data/plots", "/data/logs/1m_10Hz.csv", rampSamples(120))
	require.NoError(t, err)
	assert.Equal(t, "/data/plots/1m_10Hz.png", path)

	data, err := mfs.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}
