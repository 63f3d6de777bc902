package plotdata

import (
	"math/rand"
	"sort"

	"tabstat/adapters/stats/engine"
)

// ScatterSeries holds the jointly valid rows of two columns. When the row
// count exceeds the cap, X/Y are a deterministic subsample and Sampled is set.
type ScatterSeries struct {
	XColumn string    `json:"x_column"`
	YColumn string    `json:"y_column"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Total   int       `json:"total"` // jointly valid rows before sampling
	Sampled bool      `json:"sampled"`
}

// Len returns the number of plotted points
func (s ScatterSeries) Len() int {
	return len(s.X)
}

// Scatter pairs the jointly valid rows of xColumn and yColumn. Above the
// configured cap it keeps exactly cap rows chosen with a generator seeded
// from ScatterSeed, in their original row order.
func (p *Preparer) Scatter(xColumn, yColumn string) (ScatterSeries, bool) {
	xc, ok := p.set.Column(xColumn)
	if !ok {
		return ScatterSeries{}, false
	}
	yc, ok := p.set.Column(yColumn)
	if !ok {
		return ScatterSeries{}, false
	}
	x, y := engine.Aligned(xc, yc)
	if len(x) == 0 {
		return ScatterSeries{}, false
	}

	series := ScatterSeries{XColumn: xColumn, YColumn: yColumn, X: x, Y: y, Total: len(x)}
	if len(x) <= p.opts.ScatterCap {
		return series, true
	}

	keep := sampleRows(len(x), p.opts.ScatterCap, p.opts.ScatterSeed)
	series.X = make([]float64, len(keep))
	series.Y = make([]float64, len(keep))
	for i, row := range keep {
		series.X[i] = x[row]
		series.Y[i] = y[row]
	}
	series.Sampled = true
	return series, true
}

// sampleRows picks k of n row indexes without replacement, ascending
func sampleRows(n, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	rows := rng.Perm(n)[:k]
	sort.Ints(rows)
	return rows
}
