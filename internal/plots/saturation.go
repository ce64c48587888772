package plots

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/uwb"
)

// DefaultSaturationFile is the saturation chart file name inside the plots
// directory.
const DefaultSaturationFile = "Frequency_Saturation.png"

const (
	saturationTitle  = "UWB Data Rate Saturation Analysis"
	saturationXLabel = "Target Frequency (Setting)"
	saturationYLabel = "Actual Measured Frequency (Hz)"
	identityLabel    = "Ideal (Target=Actual)"
)

// Series is one labelled curve of the saturation chart.
type Series struct {
	Label  string
	Points plotter.XYs
}

// SaturationSeries builds the identity reference and one target/actual curve
// per nominal distance. Points that cannot sit on a log axis are dropped and
// a distance whose points are all dropped has no curve. The identity line is
// omitted when the largest target rate is not positive.
func SaturationSeries(table uwb.SummaryTable) (identity *Series, curves []Series) {
	if len(table) == 0 {
		return nil, nil
	}

	targets := make([]float64, len(table))
	for i, r := range table {
		targets[i] = r.TargetHz
	}
	if maxHz := floats.Max(targets); drawableOnLog(maxHz, maxHz) {
		identity = &Series{
			Label:  identityLabel,
			Points: plotter.XYs{{X: 1, Y: 1}, {X: maxHz, Y: maxHz}},
		}
	}

	for _, g := range table.GroupByDistance() {
		pts := make(plotter.XYs, 0, len(g.Reports))
		for _, r := range g.Reports {
			if drawableOnLog(r.TargetHz, r.ActualHz) {
				pts = append(pts, plotter.XY{X: r.TargetHz, Y: r.ActualHz})
			}
		}
		if len(pts) == 0 {
			continue
		}
		curves = append(curves, Series{
			Label:  uwb.FormatFloat(g.DistanceM) + "m Test",
			Points: pts,
		})
	}
	return identity, curves
}

// SaturationPlot renders the target-versus-actual rate chart on log/log
// axes. It returns ErrNothingToPlot when no point is drawable.
func SaturationPlot(table uwb.SummaryTable) (*plot.Plot, error) {
	identity, curves := SaturationSeries(table)
	if identity == nil && len(curves) == 0 {
		return nil, ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = saturationTitle
	p.X.Label.Text = saturationXLabel
	p.Y.Label.Text = saturationYLabel
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Vertical.Color = color.Gray{Y: 200}
	grid.Horizontal.Color = color.Gray{Y: 200}
	p.Add(grid)

	b := newBounds()

	if identity != nil {
		line, err := plotter.NewLine(identity.Points)
		if err != nil {
			return nil, fmt.Errorf("identity line: %w", err)
		}
		line.Color = color.NRGBA{A: 128}
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(identity.Label, line)
		for _, pt := range identity.Points {
			b.add(pt.X, pt.Y)
		}
	}

	colors := Palette(len(curves))
	for i, c := range curves {
		line, points, err := plotter.NewLinePoints(c.Points)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Label, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		points.Shape = draw.CircleGlyph{}
		points.Color = colors[i]
		points.Radius = vg.Points(3)
		p.Add(line, points)
		p.Legend.Add(c.Label, line, points)
		for _, pt := range c.Points {
			b.add(pt.X, pt.Y)
		}
	}

	// Log scales cannot autoscale to zero; pin the ranges to what was drawn.
	p.X.Min, p.X.Max = logRange(b.xmin, b.xmax)
	p.Y.Min, p.Y.Max = logRange(b.ymin, b.ymax)

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10

	return p, nil
}

// SaveSaturation writes the saturation chart as a 10x6 inch PNG into dir and
// returns its path.
func SaveSaturation(fsys fsutil.FileSystem, dir, name string, table uwb.SummaryTable) (string, error) {
	p, err := SaturationPlot(table)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = DefaultSaturationFile
	}
	path := filepath.Join(dir, name)
	if err := savePNG(fsys, path, p, 10*vg.Inch, 6*vg.Inch); err != nil {
		return "", fmt.Errorf("save saturation plot: %w", err)
	}
	return path, nil
}
