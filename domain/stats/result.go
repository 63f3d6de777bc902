package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"tabstat/domain/core"
)

// Statistic names one reducer of the engine
type Statistic string

const (
	Total       Statistic = "Total"
	Average     Statistic = "Average"
	Median      Statistic = "Median"
	Mode        Statistic = "Mode"
	Variance    Statistic = "Variance"
	StdDev      Statistic = "Standard Deviation"
	Covariance  Statistic = "Covariance"
	Correlation Statistic = "Correlation"
)

// All returns every statistic in display order
func All() []Statistic {
	return []Statistic{Total, Average, Median, Mode, Variance, StdDev, Covariance, Correlation}
}

// ParseStatistic accepts the display name or a short alias (case-insensitive
// aliases: sum, mean, std, stddev, cov, corr).
func ParseStatistic(s string) (Statistic, error) {
	switch normalize(s) {
	case "total", "sum":
		return Total, nil
	case "average", "mean", "avg":
		return Average, nil
	case "median":
		return Median, nil
	case "mode":
		return Mode, nil
	case "variance", "var":
		return Variance, nil
	case "standard deviation", "standard-deviation", "std", "stddev", "std-dev":
		return StdDev, nil
	case "covariance", "cov":
		return Covariance, nil
	case "correlation", "corr":
		return Correlation, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownStatistic, s)
}

// Shape returns the presentation shape this statistic produces
func (s Statistic) Shape() Shape {
	switch s {
	case Mode:
		return ShapeMultiset
	case Covariance, Correlation:
		return ShapeMatrix
	default:
		return ShapeScalar
	}
}

// Shape classifies how a result is indexed
type Shape string

const (
	ShapeScalar   Shape = "scalar"   // column -> value
	ShapeMultiset Shape = "multiset" // column -> value -> count
	ShapeMatrix   Shape = "matrix"   // (column, column) -> value
)

// ScalarResult maps a column to a single value. A column with no defined
// value has no entry.
type ScalarResult map[string]float64

// Get returns the value for column and whether it is defined
func (r ScalarResult) Get(column string) (float64, bool) {
	v, ok := r[column]
	return v, ok
}

// ModeResult maps a column to its modal values and their shared count
type ModeResult map[string]map[float64]int

// Values returns the modal values of column in ascending order
func (r ModeResult) Values(column string) []float64 {
	counts, ok := r[column]
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(counts))
	for v := range counts {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// Pair identifies an unordered column pair
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// PairResult is a symmetric matrix over column pairs, self-pairs included.
// Pairs without enough data have no entry.
type PairResult struct {
	Columns []string         `json:"columns"`
	Values  map[Pair]float64 `json:"-"`
}

// NewPairResult creates an empty matrix over columns
func NewPairResult(columns []string) PairResult {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return PairResult{Columns: cols, Values: make(map[Pair]float64)}
}

// Set stores v for (a, b) and (b, a)
func (r PairResult) Set(a, b string, v float64) {
	r.Values[Pair{A: a, B: b}] = v
	r.Values[Pair{A: b, B: a}] = v
}

// Get returns the value for (a, b) and whether it is defined
func (r PairResult) Get(a, b string) (float64, bool) {
	v, ok := r.Values[Pair{A: a, B: b}]
	return v, ok
}

// Len returns the number of defined ordered cells
func (r PairResult) Len() int {
	return len(r.Values)
}

// Dense returns the matrix as a gonum symmetric matrix in column order,
// with NaN in omitted cells. It returns nil for an empty column list.
func (r PairResult) Dense() *mat.SymDense {
	n := len(r.Columns)
	if n == 0 {
		return nil
	}
	m := mat.NewSymDense(n, nil)
	for i, a := range r.Columns {
		for j := i; j < n; j++ {
			v, ok := r.Get(a, r.Columns[j])
			if !ok {
				v = math.NaN()
			}
			m.SetSym(i, j, v)
		}
	}
	return m
}

// Result is the output of one reducer. Exactly one payload is populated,
// according to Shape.
type Result struct {
	Statistic Statistic    `json:"statistic"`
	Shape     Shape        `json:"shape"`
	Scalar    ScalarResult `json:"scalar,omitempty"`
	Modes     ModeResult   `json:"-"`
	Matrix    *PairResult  `json:"-"`
}

// Columns returns the columns that have at least one defined entry
func (r Result) Columns() []string {
	switch r.Shape {
	case ShapeScalar:
		return sortedKeys(r.Scalar)
	case ShapeMultiset:
		return sortedKeys(r.Modes)
	case ShapeMatrix:
		if r.Matrix == nil {
			return nil
		}
		seen := make(map[string]bool)
		var out []string
		for _, c := range r.Matrix.Columns {
			if _, ok := r.Matrix.Get(c, c); ok && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
