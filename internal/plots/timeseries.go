package plots

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/uwb"
)

var (
	rawColor      = color.NRGBA{R: 0x4c, G: 0x8d, B: 0xff, A: 128}
	smoothedColor = color.NRGBA{R: 0x00, G: 0x50, B: 0xa8, A: 255}
)

// TimeSeriesTitle returns "<distance> m @ <rate> Hz" using the tokens exactly
// as written in the file name, or the bare stem when the name carries no
// metadata.
func TimeSeriesTitle(name string) string {
	stem := uwb.Stem(name)
	if _, err := uwb.ParseFilename(name); err != nil {
		return stem
	}
	parts := strings.Split(stem, "_")
	dist := strings.ReplaceAll(parts[0], "m", "")
	rate := strings.ReplaceAll(parts[1], "Hz", "")
	return fmt.Sprintf("%s m @ %s Hz", dist, rate)
}

// TimeSeries holds the points of one log's time-series chart. Time is in
// seconds since the first sample.
type TimeSeries struct {
	Title    string
	Window   int
	Raw      plotter.XYs
	Smoothed plotter.XYs
}

// NewTimeSeries converts a log into raw and smoothed distance curves. The
// smoothed curve is a centered moving average; positions without a full
// window are left out, as are rows without a timestamp. Time zero is the
// first timestamped row.
func NewTimeSeries(name string, samples []uwb.RawSample) TimeSeries {
	ts := TimeSeries{Title: TimeSeriesTitle(name), Window: uwb.SmoothingWindow(len(samples))}
	if len(samples) == 0 {
		return ts
	}

	var t0 int64
	for _, s := range samples {
		if !s.MissingTimestamp {
			t0 = s.TimestampMs
			break
		}
	}
	dist := make([]float64, len(samples))
	for i, s := range samples {
		dist[i] = s.DistanceM
	}
	smooth := uwb.MovingAverage(dist, ts.Window)

	for i, s := range samples {
		if s.MissingTimestamp {
			continue
		}
		t := float64(s.TimestampMs-t0) / 1000.0
		if !math.IsNaN(dist[i]) && !math.IsInf(dist[i], 0) {
			ts.Raw = append(ts.Raw, plotter.XY{X: t, Y: dist[i]})
		}
		if !math.IsNaN(smooth[i]) && !math.IsInf(smooth[i], 0) {
			ts.Smoothed = append(ts.Smoothed, plotter.XY{X: t, Y: smooth[i]})
		}
	}
	return ts
}

// TimeSeriesPlot renders the raw distance trace with its moving mean
// overlaid. The overlay is omitted when the log is shorter than the window.
func TimeSeriesPlot(ts TimeSeries) (*plot.Plot, error) {
	if len(ts.Raw) == 0 {
		return nil, ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = ts.Title
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = "Distance [m]"

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Vertical.Color = color.Gray{Y: 220}
	grid.Horizontal.Color = color.Gray{Y: 220}
	p.Add(grid)

	raw, err := plotter.NewLine(ts.Raw)
	if err != nil {
		return nil, fmt.Errorf("raw line: %w", err)
	}
	raw.Color = rawColor
	raw.Width = vg.Points(0.9)
	p.Add(raw)
	p.Legend.Add("Raw distance", raw)

	if len(ts.Smoothed) > 0 {
		smooth, err := plotter.NewLine(ts.Smoothed)
		if err != nil {
			return nil, fmt.Errorf("moving mean: %w", err)
		}
		smooth.Color = smoothedColor
		smooth.Width = vg.Points(1.8)
		p.Add(smooth)
		p.Legend.Add("Moving mean", smooth)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// SaveTimeSeries renders one log as an 8x4.5 inch PNG named after its stem
// inside dir and returns the path.
func SaveTimeSeries(fsys fsutil.FileSystem, dir, name string, samples []uwb.RawSample) (string, error) {
	p, err := TimeSeriesPlot(NewTimeSeries(name, samples))
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, uwb.Stem(name)+".png")
	if err := savePNG(fsys, path, p, 8*vg.Inch, 4.5*vg.Inch); err != nil {
		return "", fmt.Errorf("save time series plot: %w", err)
	}
	return path, nil
}
