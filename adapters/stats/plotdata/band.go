package plotdata

import (
	"sort"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"

	"tabstat/domain/dataset"
)

// BandPoint is the mean and spread of one group
type BandPoint struct {
	Group  string  `json:"group"`
	Key    float64 `json:"key"` // numeric position when Band.Numeric is set
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	HasStd bool    `json:"has_std"` // false for single-value groups
	Count  int     `json:"count"`
}

// Lower returns Mean - Std, or Mean when the spread is undefined
func (b BandPoint) Lower() float64 {
	if !b.HasStd {
		return b.Mean
	}
	return b.Mean - b.Std
}

// Upper returns Mean + Std, or Mean when the spread is undefined
func (b BandPoint) Upper() float64 {
	if !b.HasStd {
		return b.Mean
	}
	return b.Mean + b.Std
}

// Band is a grouped mean plus or minus one standard deviation
type Band struct {
	ValueColumn string      `json:"value_column"`
	GroupColumn string      `json:"group_column"`
	Numeric     bool        `json:"numeric"` // groups ordered by Key
	Points      []BandPoint `json:"points"`
}

// DispersionBand groups the valid values of valueColumn by the cells of
// groupColumn in t and reports per-group mean and sample standard
// deviation. Rows missing either cell are skipped. Numeric groups are ordered
// by value, dates by time, anything else lexically.
func (p *Preparer) DispersionBand(valueColumn, groupColumn string, t *dataset.Table) (Band, bool) {
	values, ok := p.set.Column(valueColumn)
	if !ok {
		return Band{}, false
	}
	groups, ok := t.Column(groupColumn)
	if !ok || groups.Len() != values.Len() {
		return Band{}, false
	}

	type bucket struct {
		key    float64
		order  int64
		values []float64
	}
	buckets := make(map[string]*bucket)
	numeric := true
	for i := 0; i < values.Len(); i++ {
		if values.IsMissing(i) || groups.IsMissing(i) {
			continue
		}
		label, key, order, isNum := groupKey(groups, i)
		b, exists := buckets[label]
		if !exists {
			b = &bucket{key: key, order: order}
			buckets[label] = b
			numeric = numeric && isNum
		}
		b.values = append(b.values, values.At(i))
	}
	if len(buckets) == 0 {
		return Band{}, false
	}

	band := Band{ValueColumn: valueColumn, GroupColumn: groupColumn, Numeric: numeric}
	for label, b := range buckets {
		mean, _ := stats.Mean(b.values)
		pt := BandPoint{Group: label, Mean: mean, Count: len(b.values)}
		if numeric {
			pt.Key = b.key
		}
		if len(b.values) > 1 {
			pt.Std, _ = stats.StandardDeviationSample(b.values)
			pt.HasStd = true
		}
		band.Points = append(band.Points, pt)
	}

	_, isDate := groups.(*dataset.DateColumn)
	sort.Slice(band.Points, func(i, j int) bool {
		a, b := band.Points[i], band.Points[j]
		switch {
		case numeric:
			return a.Key < b.Key
		case isDate:
			return buckets[a.Group].order < buckets[b.Group].order
		default:
			return a.Group < b.Group
		}
	})
	return band, true
}

// groupKey returns the label of row i and, where one exists, its numeric
// position and time order.
func groupKey(col dataset.Column, i int) (label string, key float64, order int64, numeric bool) {
	switch c := col.(type) {
	case *dataset.NumericColumn:
		v := c.At(i)
		return strconv.FormatFloat(v, 'f', -1, 64), v, 0, true
	case *dataset.DateColumn:
		ts := c.At(i)
		return ts.Format(time.RFC3339), 0, ts.UnixNano(), false
	case *dataset.TextColumn:
		s := c.At(i)
		if v, ok := dataset.ParseReal(s); ok {
			return s, v, 0, true
		}
		return s, 0, 0, false
	case *dataset.IdentifierColumn:
		return c.At(i), 0, 0, false
	}
	return "", 0, 0, false
}
