package plotdata

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tabstat/domain/dataset"
)

const (
	DefaultScatterCap    = 10000
	DefaultScatterSeed   = 42
	DefaultHistogramBins = 10
	MaxHistogramBins     = 10000
	PercentilePoints     = 101
)

// Options tune the series builders. Zero values fall back to the defaults.
type Options struct {
	ScatterCap    int   `json:"scatter_cap"`
	ScatterSeed   int64 `json:"scatter_seed"`
	HistogramBins int   `json:"histogram_bins"`
}

// DefaultOptions returns the documented defaults
func DefaultOptions() Options {
	return Options{
		ScatterCap:    DefaultScatterCap,
		ScatterSeed:   DefaultScatterSeed,
		HistogramBins: DefaultHistogramBins,
	}
}

// Preparer derives chart-ready series from one NumericSet snapshot. Every
// method is a pure function of the set and its arguments; ok=false means
// the column is not in the set or has no valid values.
type Preparer struct {
	set  *dataset.NumericSet
	opts Options
}

// New creates a preparer over set
func New(set *dataset.NumericSet, opts Options) *Preparer {
	def := DefaultOptions()
	if opts.ScatterCap <= 0 {
		opts.ScatterCap = def.ScatterCap
	}
	if opts.ScatterSeed == 0 {
		opts.ScatterSeed = def.ScatterSeed
	}
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = def.HistogramBins
	}
	if opts.HistogramBins > MaxHistogramBins {
		opts.HistogramBins = MaxHistogramBins
	}
	return &Preparer{set: set, opts: opts}
}

// Options returns the effective options
func (p *Preparer) Options() Options {
	return p.opts
}

// FrequencyPoint is one distinct value and how often it occurs
type FrequencyPoint struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Frequency returns the distinct valid values of column in ascending order
// with their occurrence counts.
func (p *Preparer) Frequency(column string) ([]FrequencyPoint, bool) {
	sorted, ok := p.sortedValid(column)
	if !ok {
		return nil, false
	}
	var out []FrequencyPoint
	for _, v := range sorted {
		if n := len(out); n > 0 && out[n-1].Value == v {
			out[n-1].Count++
			continue
		}
		out = append(out, FrequencyPoint{Value: v, Count: 1})
	}
	return out, true
}

// Bin is a half-open interval [Lower, Upper); the last bin of a histogram
// also includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram partitions the observed range of a column into equal-width bins
type Histogram struct {
	Column string `json:"column"`
	Bins   []Bin  `json:"bins"`
}

// Histogram returns bins equal-width bins over [min, max] of column. A
// constant column spans [v-0.5, v+0.5]. bins <= 0 uses the configured
// default and bins above MaxHistogramBins are capped.
func (p *Preparer) Histogram(column string, bins int) (Histogram, bool) {
	sorted, ok := p.sortedValid(column)
	if !ok {
		return Histogram{}, false
	}
	if bins <= 0 {
		bins = p.opts.HistogramBins
	}
	if bins > MaxHistogramBins {
		bins = MaxHistogramBins
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
		if lo == hi {
			// ±0.5 is below the spacing at this magnitude
			v := lo
			lo, hi = math.Nextafter(v, math.Inf(-1)), math.Nextafter(v, math.Inf(1))
			if math.IsInf(lo, 0) {
				lo = v
			}
			if math.IsInf(hi, 0) {
				hi = v
			}
		}
	}
	edges := binEdges(lo, hi, bins)

	// stat.Histogram counts [d[i], d[i+1]); nudging the last divider past
	// the maximum keeps the top value in the last bin.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	h := Histogram{Column: column, Bins: make([]Bin, bins)}
	for i := range h.Bins {
		h.Bins[i] = Bin{Lower: edges[i], Upper: edges[i+1], Count: int(counts[i])}
	}
	return h, true
}

// binEdges splits [lo, hi] into bins equal parts. Edges are interpolated
// so hi-lo never has to be representable. The result is non-decreasing
// and ends exactly at hi.
func binEdges(lo, hi float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	edges[0] = lo
	for i := 1; i < bins; i++ {
		t := float64(i) / float64(bins)
		e := lo*(1-t) + hi*t
		edges[i] = math.Min(math.Max(e, edges[i-1]), hi)
	}
	edges[bins] = hi
	return edges
}

// PercentilePoint is the value at percentile P of a column
type PercentilePoint struct {
	P     int     `json:"p"`
	Value float64 `json:"value"`
}

// Percentiles returns the 0th through 100th percentile of column using
// linear interpolation between closest ranks.
func (p *Preparer) Percentiles(column string) ([]PercentilePoint, bool) {
	sorted, ok := p.sortedValid(column)
	if !ok {
		return nil, false
	}
	out := make([]PercentilePoint, PercentilePoints)
	for i := range out {
		out[i] = PercentilePoint{P: i, Value: linearPercentile(sorted, float64(i))}
	}
	return out, true
}

// linearPercentile interpolates at rank (n-1)*q/100 of an ascending slice
func linearPercentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := (float64(n) - 1) * q / 100
	lower := int(math.Floor(rank))
	if lower >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lower)
	a, b := sorted[lower], sorted[lower+1]
	if a == b {
		return a
	}
	// Weighted form: b-a overflows for values near ±MaxFloat64.
	return math.Min(math.Max(a*(1-frac)+b*frac, a), b)
}

func (p *Preparer) sortedValid(column string) ([]float64, bool) {
	col, ok := p.set.Column(column)
	if !ok {
		return nil, false
	}
	values := col.Valid()
	if len(values) == 0 {
		return nil, false
	}
	sort.Float64s(values)
	return values, true
}
