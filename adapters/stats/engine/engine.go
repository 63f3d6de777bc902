package engine

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tabstat/domain/core"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
)

// Every reducer in this package is a pure function of the NumericSet.
// Missing cells are skipped, and a column without enough valid values for
// a statistic is left out of the result instead of being set to zero.

// Compute runs the reducer named by statistic
func Compute(set *dataset.NumericSet, statistic domainstats.Statistic) (domainstats.Result, error) {
	res := domainstats.Result{Statistic: statistic, Shape: statistic.Shape()}
	switch statistic {
	case domainstats.Total:
		res.Scalar = Total(set)
	case domainstats.Average:
		res.Scalar = Average(set)
	case domainstats.Median:
		res.Scalar = Median(set)
	case domainstats.Mode:
		res.Modes = Mode(set)
	case domainstats.Variance:
		res.Scalar = Variance(set)
	case domainstats.StdDev:
		res.Scalar = StdDev(set)
	case domainstats.Covariance:
		m := Covariance(set)
		res.Matrix = &m
	case domainstats.Correlation:
		m := Correlation(set)
		res.Matrix = &m
	default:
		return domainstats.Result{}, fmt.Errorf("%w: %q", core.ErrUnknownStatistic, statistic)
	}
	return res, nil
}

// Total sums the valid values of each column
func Total(set *dataset.NumericSet) domainstats.ScalarResult {
	return reduce(set, 1, floats.Sum)
}

// Average is the arithmetic mean of the valid values of each column
func Average(set *dataset.NumericSet) domainstats.ScalarResult {
	return reduce(set, 1, func(x []float64) float64 {
		return stat.Mean(x, nil)
	})
}

// Median is the 50th percentile; even counts average the two middle values
func Median(set *dataset.NumericSet) domainstats.ScalarResult {
	return reduce(set, 1, func(x []float64) float64 {
		m, _ := stats.Median(x)
		return m
	})
}

// Variance is the sample variance (n-1 denominator). Columns with fewer
// than two valid values are omitted.
func Variance(set *dataset.NumericSet) domainstats.ScalarResult {
	return reduce(set, 2, func(x []float64) float64 {
		return stat.Variance(x, nil)
	})
}

// StdDev is the square root of the sample variance, with the same
// single-value omission as Variance.
func StdDev(set *dataset.NumericSet) domainstats.ScalarResult {
	return reduce(set, 2, func(x []float64) float64 {
		return stat.StdDev(x, nil)
	})
}

// Mode reports every most-frequent value of each column with its count.
// Ties are all reported; when every value is distinct every value is modal.
func Mode(set *dataset.NumericSet) domainstats.ModeResult {
	out := make(domainstats.ModeResult)
	for _, col := range set.Columns() {
		valid := col.Valid()
		if len(valid) == 0 {
			continue
		}
		counts := make(map[float64]int, len(valid))
		best := 0
		for _, v := range valid {
			counts[v]++
			if counts[v] > best {
				best = counts[v]
			}
		}
		modes := make(map[float64]int)
		for v, n := range counts {
			if n == best {
				modes[v] = n
			}
		}
		out[col.Name()] = modes
	}
	return out
}

// reduce applies fn to the valid values of every column that has at least
// minValid of them.
func reduce(set *dataset.NumericSet, minValid int, fn func([]float64) float64) domainstats.ScalarResult {
	out := make(domainstats.ScalarResult)
	for _, col := range set.Columns() {
		valid := col.Valid()
		if len(valid) < minValid || len(valid) == 0 {
			continue
		}
		out[col.Name()] = fn(valid)
	}
	return out
}
