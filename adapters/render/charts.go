package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"tabstat/adapters/stats/plotdata"
	domainstats "tabstat/domain/stats"
)

// Labels maps well-known columns to the unit shown on their value axis
var Labels = map[string]string{
	"AGE":    "years old",
	"HEIGHT": "centimeters",
	"WEIGHT": "kilograms",
	"YEAR":   "game year",
}

// AxisLabel returns the unit label for column, or the column name
func AxisLabel(column string) string {
	if unit, ok := Labels[column]; ok {
		return unit
	}
	return column
}

var (
	pointColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	bandColor  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	barColor   = color.RGBA{R: 31, G: 119, B: 180, A: 200}
)

// FrequencyChart plots how often each distinct value occurs
func FrequencyChart(column string, points []plotdata.FrequencyPoint) (*plot.Plot, error) {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.Value, Y: float64(pt.Count)}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("frequency chart for %s: %w", column, err)
	}
	s.GlyphStyle.Color = pointColor

	p := newPlot(fmt.Sprintf("Total values of %s", column), AxisLabel(column), "Count")
	p.Add(s)
	return p, nil
}

// HistogramChart draws prepared bins as bars
func HistogramChart(h plotdata.Histogram) (*plot.Plot, error) {
	if len(h.Bins) == 0 {
		return nil, fmt.Errorf("histogram for %s has no bins", h.Column)
	}
	bins := make([]plotter.HistogramBin, len(h.Bins))
	for i, b := range h.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Lower, Max: b.Upper, Weight: float64(b.Count)}
	}
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     h.Bins[0].Upper - h.Bins[0].Lower,
		FillColor: barColor,
		LineStyle: plotter.DefaultLineStyle,
	}

	p := newPlot(fmt.Sprintf("Histogram of %s", h.Column), AxisLabel(h.Column), "Count")
	p.Add(hist)
	return p, nil
}

// PercentileChart draws the value at each percentile from 0 to 100
func PercentileChart(column string, points []plotdata.PercentilePoint) (*plot.Plot, error) {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.P), Y: pt.Value}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("percentile chart for %s: %w", column, err)
	}
	line.LineStyle.Color = pointColor

	p := newPlot(fmt.Sprintf("Percentiles of %s", column), "Percentile", AxisLabel(column))
	p.X.Min, p.X.Max = 0, 100
	p.Add(line)
	return p, nil
}

// ScatterChart plots the aligned (x, y) pairs of a scatter series
func ScatterChart(s plotdata.ScatterSeries) (*plot.Plot, error) {
	xys := make(plotter.XYs, s.Len())
	for i := range xys {
		xys[i] = plotter.XY{X: s.X[i], Y: s.Y[i]}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter chart for %s/%s: %w", s.XColumn, s.YColumn, err)
	}
	sc.GlyphStyle.Color = pointColor
	sc.GlyphStyle.Radius = vg.Points(1.5)

	title := fmt.Sprintf("%s vs %s", s.YColumn, s.XColumn)
	if s.Sampled {
		title = fmt.Sprintf("%s (%d of %d rows)", title, s.Len(), s.Total)
	}
	p := newPlot(title, AxisLabel(s.XColumn), AxisLabel(s.YColumn))
	p.Add(sc)
	return p, nil
}

// BandChart draws the group means with a mean ± one standard deviation
// envelope. Text groups are spaced evenly and labelled on the x axis.
func BandChart(b plotdata.Band) (*plot.Plot, error) {
	if len(b.Points) == 0 {
		return nil, fmt.Errorf("band for %s by %s has no groups", b.ValueColumn, b.GroupColumn)
	}
	mean := make(plotter.XYs, len(b.Points))
	lower := make(plotter.XYs, len(b.Points))
	upper := make(plotter.XYs, len(b.Points))
	ticks := make([]plot.Tick, len(b.Points))
	for i, pt := range b.Points {
		x := float64(i)
		if b.Numeric {
			x = pt.Key
		}
		mean[i] = plotter.XY{X: x, Y: pt.Mean}
		lower[i] = plotter.XY{X: x, Y: pt.Lower()}
		upper[i] = plotter.XY{X: x, Y: pt.Upper()}
		ticks[i] = plot.Tick{Value: x, Label: pt.Group}
	}

	meanLine, err := plotter.NewLine(mean)
	if err != nil {
		return nil, err
	}
	meanLine.LineStyle.Color = bandColor
	meanLine.LineStyle.Width = vg.Points(1.5)

	p := newPlot(fmt.Sprintf("%s by %s", b.ValueColumn, b.GroupColumn), AxisLabel(b.GroupColumn), AxisLabel(b.ValueColumn))
	for _, edge := range []plotter.XYs{lower, upper} {
		l, err := plotter.NewLine(edge)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = bandColor
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(l)
	}
	p.Add(meanLine)
	if !b.Numeric {
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}
	return p, nil
}

// MatrixChart draws a covariance or correlation matrix as a heat map.
// Undefined cells are left transparent.
func MatrixChart(statistic domainstats.Statistic, m domainstats.PairResult) (*plot.Plot, error) {
	if len(m.Columns) == 0 {
		return nil, fmt.Errorf("%s matrix has no columns", statistic)
	}
	grid := matrixGrid{m: m}
	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	hm.NaN = color.Transparent
	if statistic == domainstats.Correlation {
		hm.Min, hm.Max = -1, 1
	}
	if hm.Min == hm.Max || math.IsInf(hm.Min, 0) || math.IsInf(hm.Max, 0) {
		hm.Min, hm.Max = -0.5, 0.5
	}

	n := len(m.Columns)
	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i, c := range m.Columns {
		xTicks[i] = plot.Tick{Value: float64(i), Label: c}
		yTicks[n-1-i] = plot.Tick{Value: float64(n - 1 - i), Label: c}
	}
	p := newPlot(fmt.Sprintf("%s matrix", statistic), "", "")
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Add(hm)
	return p, nil
}

// matrixGrid adapts a PairResult to plotter.GridXYZ. Row 0 is drawn at the
// bottom, so rows are flipped to read top-down like a table.
type matrixGrid struct {
	m domainstats.PairResult
}

func (g matrixGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g matrixGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	v, ok := g.m.Get(g.m.Columns[c], g.m.Columns[n-1-r])
	if !ok {
		return math.NaN()
	}
	return v
}

func (g matrixGrid) X(c int) float64 { return float64(c) }

func (g matrixGrid) Y(r int) float64 { return float64(r) }

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return p
}
