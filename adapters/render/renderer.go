package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"tabstat/adapters/stats/plotdata"
	"tabstat/domain/core"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
	"tabstat/internal"
)

// FileName returns a file-system friendly name for the chart of req
func FileName(req plotdata.Request) string {
	parts := append([]string{string(req.Kind)}, req.Columns...)
	name := strings.ToLower(strings.Join(parts, "_"))
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
			return c
		}
		return '_'
	}, name)
}

// Renderer turns prepared series into PNG files
type Renderer struct {
	outDir string
	width  vg.Length
	height vg.Length
	logger *internal.Logger
}

// NewRenderer creates a renderer writing into outDir; sizes are in inches
func NewRenderer(outDir string, widthIn, heightIn float64) *Renderer {
	if widthIn <= 0 {
		widthIn = 6
	}
	if heightIn <= 0 {
		heightIn = 4
	}
	return &Renderer{
		outDir: outDir,
		width:  vg.Length(widthIn) * vg.Inch,
		height: vg.Length(heightIn) * vg.Inch,
		logger: internal.DefaultLogger.WithComponent("Renderer"),
	}
}

// Build prepares the series for req and lays it out as a plot
func Build(prep *plotdata.Preparer, t *dataset.Table, req plotdata.Request) (*plot.Plot, error) {
	series, err := prep.Series(req, t)
	if err != nil {
		return nil, err
	}

	switch v := series.(type) {
	case []plotdata.FrequencyPoint:
		return FrequencyChart(req.Columns[0], v)
	case plotdata.Histogram:
		return HistogramChart(v)
	case []plotdata.PercentilePoint:
		return PercentileChart(req.Columns[0], v)
	case plotdata.ScatterSeries:
		return ScatterChart(v)
	case plotdata.Band:
		return BandChart(v)
	case domainstats.PairResult:
		kind, _ := plotdata.ParseKind(string(req.Kind))
		statistic, _ := kind.Statistic()
		return MatrixChart(statistic, v)
	}
	return nil, fmt.Errorf("%w: no chart for %T", core.ErrUnknownPlot, series)
}

// Render builds req and saves it as <outDir>/<name>.png, returning the path
func (r *Renderer) Render(prep *plotdata.Preparer, t *dataset.Table, req plotdata.Request) (string, error) {
	p, err := Build(prep, t, req)
	if err != nil {
		return "", err
	}
	return r.Save(p, FileName(req))
}

// Save writes p as a PNG named name under the output directory
func (r *Renderer) Save(p *plot.Plot, name string) (string, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	path := filepath.Join(r.outDir, name+".png")
	if err := p.Save(r.width, r.height, path); err != nil {
		return "", fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	r.logger.Info("Saved chart %s", path)
	return path, nil
}
