package dataset

import (
	"math"
	"strconv"
	"strings"
)

// NumericSet is the read-only view of a table's quantitative columns.
// It is derived from a Table by SelectNumeric and never mutated; a changed
// table means a new NumericSet.
type NumericSet struct {
	columns []*NumericColumn
	index   map[string]int
	rows    int
}

// SelectNumeric returns the numeric columns of t in table order, minus the
// excluded names. Numeric columns qualify directly; text columns qualify
// when every non-missing cell parses as a finite real number. Date and
// identifier columns never qualify. A nil or empty table yields an empty set.
func SelectNumeric(t *Table, exclude ...string) *NumericSet {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	set := &NumericSet{index: make(map[string]int), rows: t.Rows()}
	if t.Empty() {
		return set
	}
	for _, col := range t.columns {
		if skip[col.Name()] {
			continue
		}
		var num *NumericColumn
		switch c := col.(type) {
		case *NumericColumn:
			num = c
		case *TextColumn:
			converted, ok := textAsNumeric(c)
			if !ok {
				continue
			}
			num = converted
		default:
			continue
		}
		set.index[num.Name()] = len(set.columns)
		set.columns = append(set.columns, num)
	}
	return set
}

// NewNumericSet builds a set directly from numeric columns. It is meant for
// callers that already hold numeric data; the columns must share a length.
func NewNumericSet(columns ...*NumericColumn) (*NumericSet, error) {
	cols := make([]Column, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	t, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	return SelectNumeric(t), nil
}

func textAsNumeric(c *TextColumn) (*NumericColumn, bool) {
	values := make([]float64, c.Len())
	for i := range values {
		if c.IsMissing(i) {
			values[i] = math.NaN()
			continue
		}
		v, ok := ParseReal(c.At(i))
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return &NumericColumn{name: c.Name(), values: values}, true
}

// ParseReal interprets s as an integer or floating point number. Infinities
// and NaN are not real numbers.
func ParseReal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Len returns the number of columns in the set
func (s *NumericSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.columns)
}

// Rows returns the row count shared by every column
func (s *NumericSet) Rows() int {
	if s == nil {
		return 0
	}
	return s.rows
}

// Columns returns the columns in table order
func (s *NumericSet) Columns() []*NumericColumn {
	if s == nil {
		return nil
	}
	out := make([]*NumericColumn, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in table order
func (s *NumericSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name()
	}
	return names
}

// Column looks up a member column
func (s *NumericSet) Column(name string) (*NumericColumn, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.columns[i], true
}

// Has reports whether name is a member of the set
func (s *NumericSet) Has(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// Without returns a new set minus the named columns
func (s *NumericSet) Without(names ...string) *NumericSet {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &NumericSet{index: make(map[string]int), rows: s.Rows()}
	for _, c := range s.Columns() {
		if skip[c.Name()] {
			continue
		}
		out.index[c.Name()] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out
}
