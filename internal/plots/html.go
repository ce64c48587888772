package plots

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot/plotter"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/uwb"
)

// DefaultSaturationHTMLFile is the interactive saturation chart file name.
const DefaultSaturationHTMLFile = "Frequency_Saturation.html"

func lineData(pts plotter.XYs) []opts.LineData {
	data := make([]opts.LineData, len(pts))
	for i, p := range pts {
		data[i] = opts.LineData{Value: []interface{}{p.X, p.Y}}
	}
	return data
}

// SaturationChart builds the saturation chart as an interactive go-echarts
// line chart with log/log axes.
func SaturationChart(table uwb.SummaryTable) (*charts.Line, error) {
	identity, curves := SaturationSeries(table)
	if identity == nil && len(curves) == 0 {
		return nil, ErrNothingToPlot
	}

	b := newBounds()
	if identity != nil {
		for _, pt := range identity.Points {
			b.add(pt.X, pt.Y)
		}
	}
	for _, c := range curves {
		for _, pt := range c.Points {
			b.add(pt.X, pt.Y)
		}
	}
	xmin, xmax := logRange(b.xmin, b.xmax)
	ymin, ymax := logRange(b.ymin, b.ymax)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: saturationTitle, Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: saturationTitle, Subtitle: fmt.Sprintf("files=%d", len(table))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "log", Min: xmin, Max: xmax, Name: saturationXLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "log", Min: ymin, Max: ymax, Name: saturationYLabel, NameLocation: "middle", NameGap: 40}),
	)

	if identity != nil {
		line.AddSeries(identity.Label, lineData(identity.Points),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Color: "#000000"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#000000"}),
		)
	}

	colors := Palette(len(curves))
	for i, c := range curves {
		hex := hexColor(colors[i])
		line.AddSeries(c.Label, lineData(c.Points),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), Symbol: "circle"}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hex}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hex}),
		)
	}
	return line, nil
}

// SaveSaturationHTML renders the interactive chart into dir and returns its
// path.
func SaveSaturationHTML(fsys fsutil.FileSystem, dir, name string, table uwb.SummaryTable) (string, error) {
	chart, err := SaturationChart(table)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = DefaultSaturationHTMLFile
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", fmt.Errorf("render saturation chart: %w", err)
	}
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
