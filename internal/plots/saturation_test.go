package plots

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/uwb"
)

func sampleTable() uwb.SummaryTable {
	return uwb.SummaryTable{
		{File: "1m_100Hz.csv", TargetDistanceM: 1, TargetHz: 100, ActualHz: 62.5},
		{File: "1m_10Hz.csv", TargetDistanceM: 1, TargetHz: 10, ActualHz: 9.98},
		{File: "2m_10Hz.csv", TargetDistanceM: 2, TargetHz: 10, ActualHz: 9.95},
		{File: "2m_50Hz.csv", TargetDistanceM: 2, TargetHz: 50, ActualHz: 0},
		{File: "3m_5Hz.csv", TargetDistanceM: 3, TargetHz: 5, ActualHz: 0},
	}
}

func TestSaturationSeries(t *testing.T) {
	identity, curves := SaturationSeries(sampleTable())

	require.NotNil(t, identity)
	assert.Equal(t, "Ideal (Target=Actual)", identity.Label)
	assert.Equal(t, plotter.XYs{{X: 1, Y: 1}, {X: 100, Y: 100}}, identity.Points)

	require.Len(t, curves, 2, "3m has no drawable point and gets no curve")
	assert.Equal(t, "1.0m Test", curves[0].Label)
	assert.Equal(t, plotter.XYs{{X: 10, Y: 9.98}, {X: 100, Y: 62.5}}, curves[0].Points)
	assert.Equal(t, "2.0m Test", curves[1].Label)
	assert.Equal(t, plotter.XYs{{X: 10, Y: 9.95}}, curves[1].Points)
}

func TestSaturationSeries_NoPositiveTarget(t *testing.T) {
	identity, curves := SaturationSeries(uwb.SummaryTable{{TargetDistanceM: 1, TargetHz: 0, ActualHz: 5}})
	assert.Nil(t, identity)
	assert.Empty(t, curves)
}

func TestSaturationPlot(t *testing.T) {
	p, err := SaturationPlot(sampleTable())
	require.NoError(t, err)

	assert.Equal(t, "UWB Data Rate Saturation Analysis", p.Title.Text)
	assert.IsType(t, plot.LogScale{}, p.X.Scale)
	assert.IsType(t, plot.LogScale{}, p.Y.Scale)
	assert.Greater(t, p.X.Min, 0.0)
	assert.Greater(t, p.Y.Min, 0.0)
	assert.Less(t, p.X.Min, 1.0)
	assert.Greater(t, p.X.Max, 100.0)
}

func TestSaturationPlot_Empty(t *testing.T) {
	_, err := SaturationPlot(nil)
	assert.True(t, errors.Is(err, ErrNothingToPlot))

	_, err = SaturationPlot(uwb.SummaryTable{{TargetHz: -1, ActualHz: 0}})
	assert.True(t, errors.Is(err, ErrNothingToPlot))
}

func TestSaturationPlot_SinglePoint(t *testing.T) {
	p, err := SaturationPlot(uwb.SummaryTable{{TargetDistanceM: 1, TargetHz: 1, ActualHz: 1}})
	require.NoError(t, err)
	assert.Less(t, p.X.Min, p.X.Max)
	assert.Less(t, p.Y.Min, p.Y.Max)
}

func TestSaveSaturation(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	path, err := SaveSaturation(mfs, "/data/plots", "", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "/data/plots/Frequency_Saturation.png", path)

	data, err := mfs.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "output should be a PNG")
}

func TestSaveSaturation_EmptyWritesNothing(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	_, err := SaveSaturation(mfs, "/data/plots", "", nil)
	assert.True(t, errors.Is(err, ErrNothingToPlot))
	assert.Empty(t, mfs.Paths())
}

func TestSaveSaturationHTML(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	path, err := SaveSaturationHTML(mfs, "/data/plots", "", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "/data/plots/Frequency_Saturation.html", path)

	data, err := mfs.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.Contains(html, "Ideal (Target=Actual)"))
	assert.True(t, strings.Contains(html, "1.0m Test"))
	assert.True(t, strings.Contains(html, `"log"`))
}

func TestSaturationChart_Empty(t *testing.T) {
	_, err := SaturationChart(nil)
	assert.True(t, errors.Is(err, ErrNothingToPlot))
}
