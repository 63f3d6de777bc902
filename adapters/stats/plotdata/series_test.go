package plotdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstat/domain/core"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
)

func TestSeries_Dispatch(t *testing.T) {
	p, tbl := preparer(t,
		dataset.Floats("AGE", 22, 25, 28, 25),
		dataset.Floats("HEIGHT", 170, 180, 175, 160),
		dataset.Strings("SEX", "F", "M", "F", "M"),
	)

	tests := []struct {
		name string
		req  Request
		want interface{}
	}{
		{name: "frequency", req: Request{Kind: KindFrequency, Columns: []string{"AGE"}}, want: []FrequencyPoint{}},
		{name: "hist alias", req: Request{Kind: "hist", Columns: []string{"AGE"}, Bins: 2}, want: Histogram{}},
		{name: "percentiles", req: Request{Kind: KindPercentiles, Columns: []string{"AGE"}}, want: []PercentilePoint{}},
		{name: "scatter", req: Request{Kind: KindScatter, Columns: []string{"AGE", "HEIGHT"}}, want: ScatterSeries{}},
		{name: "band", req: Request{Kind: KindBand, Columns: []string{"HEIGHT", "SEX"}}, want: Band{}},
		{name: "correlation", req: Request{Kind: KindCorrelation, Exclude: []string{"AGE"}}, want: domainstats.PairResult{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Series(tt.req, tbl)
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}

	got, err := p.Series(Request{Kind: KindHistogram, Columns: []string{"AGE"}, Bins: 2}, tbl)
	require.NoError(t, err)
	assert.Len(t, got.(Histogram).Bins, 2)
}

func TestSeries_Errors(t *testing.T) {
	p, tbl := preparer(t,
		dataset.Floats("AGE", 22, 25),
		dataset.Strings("SEX", "F", "M"),
	)

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "unknown kind", req: Request{Kind: "pie"}, wantErr: core.ErrUnknownPlot},
		{name: "scatter needs two", req: Request{Kind: KindScatter, Columns: []string{"AGE"}}, wantErr: core.ErrMissingArgument},
		{name: "text column", req: Request{Kind: KindPercentiles, Columns: []string{"SEX"}}, wantErr: core.ErrUnsupportedColumn},
		{name: "empty matrix", req: Request{Kind: KindCovariance, Exclude: []string{"AGE"}}, wantErr: core.ErrUnsupportedColumn},
		{name: "too many bins", req: Request{Kind: KindHistogram, Columns: []string{"AGE"}, Bins: MaxHistogramBins + 1}, wantErr: core.ErrArgumentRange},
		{name: "max int bins", req: Request{Kind: KindHistogram, Columns: []string{"AGE"}, Bins: math.MaxInt}, wantErr: core.ErrArgumentRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Series(tt.req, tbl)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKindStatistic(t *testing.T) {
	s, ok := KindCorrelation.Statistic()
	assert.True(t, ok)
	assert.Equal(t, domainstats.Correlation, s)

	s, ok = KindCovariance.Statistic()
	assert.True(t, ok)
	assert.Equal(t, domainstats.Covariance, s)

	_, ok = KindHistogram.Statistic()
	assert.False(t, ok)
}
