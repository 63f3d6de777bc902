package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
)

// Covariance computes the sample covariance of every column pair, self
// pairs included, over the rows where both columns are valid (pairwise
// deletion). Pairs with fewer than two such rows are omitted. The diagonal
// equals Variance over the column's valid values.
func Covariance(set *dataset.NumericSet) domainstats.PairResult {
	return pairwise(set, func(a, b string, x, y []float64) (float64, bool) {
		if len(x) < 2 {
			return 0, false
		}
		if a == b {
			return stat.Variance(x, nil), true
		}
		return stat.Covariance(x, y, nil), true
	})
}

// Correlation computes the Pearson coefficient of every column pair over
// the same alignment as Covariance. A pair where either side is constant
// over the aligned rows is omitted. Values are clamped to [-1, 1].
func Correlation(set *dataset.NumericSet) domainstats.PairResult {
	return pairwise(set, func(a, b string, x, y []float64) (float64, bool) {
		if len(x) < 2 || constant(x) || constant(y) {
			return 0, false
		}
		if a == b {
			return 1, true
		}
		r := stat.Correlation(x, y, nil)
		if math.IsNaN(r) {
			return 0, false
		}
		return math.Max(-1, math.Min(1, r)), true
	})
}

type pairFunc func(a, b string, x, y []float64) (float64, bool)

func pairwise(set *dataset.NumericSet, fn pairFunc) domainstats.PairResult {
	cols := set.Columns()
	res := domainstats.NewPairResult(set.Names())
	for i, ca := range cols {
		for j := i; j < len(cols); j++ {
			cb := cols[j]
			x, y := Aligned(ca, cb)
			if v, ok := fn(ca.Name(), cb.Name(), x, y); ok {
				res.Set(ca.Name(), cb.Name(), v)
			}
		}
	}
	return res
}

// Aligned returns the jointly valid rows of a and b, in row order
func Aligned(a, b *dataset.NumericColumn) (x, y []float64) {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	x = make([]float64, 0, n)
	y = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		x = append(x, a.At(i))
		y = append(y, b.At(i))
	}
	return x, y
}

func constant(x []float64) bool {
	return floats.Min(x) == floats.Max(x)
}
