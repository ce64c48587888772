// Package plots renders the ranging analysis charts: the target-versus-actual
// rate saturation chart (PNG and HTML) and per-log raw/smoothed distance
// time series.
package plots

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/uwb.report/internal/fsutil"
)

// DefaultDir is the plot output directory, created next to the input
// directory.
const DefaultDir = "plots"

// ErrNothingToPlot is returned when there is no drawable data.
var ErrNothingToPlot = errors.New("no data to plot")

// logPadding widens log-axis ranges so points at the extremes and single
// points stay visible.
const logPadding = 1.25

// drawableOnLog reports whether (x, y) can be placed on log/log axes.
func drawableOnLog(x, y float64) bool {
	return x > 0 && y > 0 && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

// bounds tracks the extent of the points actually drawn.
type bounds struct {
	xmin, xmax, ymin, ymax float64
	n                      int
}

func newBounds() bounds {
	return bounds{xmin: math.Inf(1), xmax: math.Inf(-1), ymin: math.Inf(1), ymax: math.Inf(-1)}
}

func (b *bounds) add(x, y float64) {
	b.xmin = math.Min(b.xmin, x)
	b.xmax = math.Max(b.xmax, x)
	b.ymin = math.Min(b.ymin, y)
	b.ymax = math.Max(b.ymax, y)
	b.n++
}

// logRange pads [lo, hi] multiplicatively for a log axis.
func logRange(lo, hi float64) (float64, float64) {
	return lo / logPadding, hi * logPadding
}

// savePNG renders p at the given size and writes it to path, creating the
// parent directory first.
func savePNG(fsys fsutil.FileSystem, path string, p *plot.Plot, w, h vg.Length) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
