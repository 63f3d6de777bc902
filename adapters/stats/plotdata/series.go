package plotdata

import (
	"fmt"
	"strings"

	"tabstat/domain/core"
	"tabstat/domain/dataset"
)

// Request selects one series. Columns holds one column for frequency,
// histogram and percentiles, x then y for scatter, value then group for
// band, and nothing for matrices.
type Request struct {
	Kind    Kind     `json:"kind"`
	Columns []string `json:"columns,omitempty"`
	Bins    int      `json:"bins,omitempty"`    // histogram only; 0 uses the default
	Exclude []string `json:"exclude,omitempty"` // matrices only
}

// Series prepares the series named by req. The result is one of
// []FrequencyPoint, Histogram, []PercentilePoint, ScatterSeries, Band or
// domainstats.PairResult. t is only read for band groups.
//
// A bin count above MaxHistogramBins reports core.ErrArgumentRange. A
// series without data, or a column outside the numeric set, reports an
// error wrapping core.ErrUnsupportedColumn.
func (p *Preparer) Series(req Request, t *dataset.Table) (interface{}, error) {
	kind, err := ParseKind(string(req.Kind))
	if err != nil {
		return nil, err
	}
	if want := kind.Columns(); len(req.Columns) < want {
		return nil, fmt.Errorf("%w: %s needs %d column(s), got %d", core.ErrMissingArgument, kind, want, len(req.Columns))
	}
	if req.Bins > MaxHistogramBins {
		return nil, fmt.Errorf("%w: bins %d exceeds %d", core.ErrArgumentRange, req.Bins, MaxHistogramBins)
	}

	var (
		series interface{}
		ok     bool
	)
	switch kind {
	case KindFrequency:
		series, ok = p.Frequency(req.Columns[0])
	case KindHistogram:
		series, ok = p.Histogram(req.Columns[0], req.Bins)
	case KindPercentiles:
		series, ok = p.Percentiles(req.Columns[0])
	case KindScatter:
		series, ok = p.Scatter(req.Columns[0], req.Columns[1])
	case KindBand:
		series, ok = p.DispersionBand(req.Columns[0], req.Columns[1], t)
	case KindCovariance:
		series, ok = p.CovarianceMatrix(req.Exclude...)
	case KindCorrelation:
		series, ok = p.CorrelationMatrix(req.Exclude...)
	}
	if !ok {
		name := strings.Join(req.Columns[:kind.Columns()], "/")
		if name == "" {
			name = string(kind)
		}
		return nil, core.NewUnsupportedColumnError(name)
	}
	return series, nil
}
