package plotdata

import (
	"fmt"
	"strings"

	"tabstat/adapters/stats/engine"
	"tabstat/domain/core"
	domainstats "tabstat/domain/stats"
)

// CovarianceMatrix builds the covariance matrix over the set minus exclude
func (p *Preparer) CovarianceMatrix(exclude ...string) (domainstats.PairResult, bool) {
	set := p.set.Without(exclude...)
	if set.Len() == 0 {
		return domainstats.PairResult{}, false
	}
	return engine.Covariance(set), true
}

// CorrelationMatrix builds the correlation matrix over the set minus exclude
func (p *Preparer) CorrelationMatrix(exclude ...string) (domainstats.PairResult, bool) {
	set := p.set.Without(exclude...)
	if set.Len() == 0 {
		return domainstats.PairResult{}, false
	}
	return engine.Correlation(set), true
}

// Kind names a chart series
type Kind string

const (
	KindFrequency   Kind = "frequency"
	KindHistogram   Kind = "histogram"
	KindPercentiles Kind = "percentiles"
	KindScatter     Kind = "scatter"
	KindBand        Kind = "band"
	KindCovariance  Kind = "covariance"
	KindCorrelation Kind = "correlation"
)

// Kinds lists every series kind
func Kinds() []Kind {
	return []Kind{KindFrequency, KindHistogram, KindPercentiles, KindScatter, KindBand, KindCovariance, KindCorrelation}
}

// ParseKind resolves a series kind by name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	switch k {
	case "total", "count":
		return KindFrequency, nil
	case "hist":
		return KindHistogram, nil
	case "percentile":
		return KindPercentiles, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownPlot, s)
}

// Columns reports how many columns the kind needs
func (k Kind) Columns() int {
	switch k {
	case KindScatter, KindBand:
		return 2
	case KindCovariance, KindCorrelation:
		return 0
	default:
		return 1
	}
}

// Statistic returns the matrix statistic a matrix kind draws
func (k Kind) Statistic() (domainstats.Statistic, bool) {
	switch k {
	case KindCovariance:
		return domainstats.Covariance, true
	case KindCorrelation:
		return domainstats.Correlation, true
	}
	return "", false
}
