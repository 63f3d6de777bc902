package dataset

import (
	"fmt"
	"math"
	"time"
)

// Kind is the declared semantic type of a column
type Kind string

const (
	KindNumeric    Kind = "numeric"
	KindText       Kind = "text"
	KindDate       Kind = "date"
	KindIdentifier Kind = "identifier"
)

// ParseKind converts a kind name into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindNumeric, KindText, KindDate, KindIdentifier:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown column kind %q", s)
}

// Column is one named, typed sequence of cells. The concrete variants are
// *NumericColumn, *TextColumn, *DateColumn and *IdentifierColumn.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsMissing(i int) bool
	// Value returns the cell as a Go value (float64, string or time.Time),
	// or nil when the cell is missing.
	Value(i int) interface{}
}

// NA is the missing marker for numeric cells
var NA = math.NaN()

// NumericColumn stores real numbers; NaN marks a missing cell
type NumericColumn struct {
	name   string
	values []float64
}

// NewNumericColumn copies values into a new numeric column
func NewNumericColumn(name string, values []float64) *NumericColumn {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &NumericColumn{name: name, values: cp}
}

// Floats is shorthand for NewNumericColumn
func Floats(name string, values ...float64) *NumericColumn {
	return NewNumericColumn(name, values)
}

func (c *NumericColumn) Name() string         { return c.name }
func (c *NumericColumn) Kind() Kind           { return KindNumeric }
func (c *NumericColumn) Len() int             { return len(c.values) }
func (c *NumericColumn) IsMissing(i int) bool { return math.IsNaN(c.values[i]) }

func (c *NumericColumn) Value(i int) interface{} {
	if c.IsMissing(i) {
		return nil
	}
	return c.values[i]
}

// At returns the raw cell, NaN when missing
func (c *NumericColumn) At(i int) float64 {
	return c.values[i]
}

// Valid returns the non-missing values in row order
func (c *NumericColumn) Valid() []float64 {
	out := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ValidCount returns the number of non-missing cells
func (c *NumericColumn) ValidCount() int {
	n := 0
	for _, v := range c.values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// TextColumn stores free-form or categorical strings
type TextColumn struct {
	name   string
	values []string
	valid  []bool
}

// NewTextColumn builds a text column; valid may be nil, in which case empty
// strings are treated as missing.
func NewTextColumn(name string, values []string, valid []bool) *TextColumn {
	return &TextColumn{name: name, values: copyStrings(values), valid: maskFor(values, valid)}
}

// Strings is shorthand for a text column where "" marks missing
func Strings(name string, values ...string) *TextColumn {
	return NewTextColumn(name, values, nil)
}

func (c *TextColumn) Name() string         { return c.name }
func (c *TextColumn) Kind() Kind           { return KindText }
func (c *TextColumn) Len() int             { return len(c.values) }
func (c *TextColumn) IsMissing(i int) bool { return !c.valid[i] }
func (c *TextColumn) At(i int) string      { return c.values[i] }

func (c *TextColumn) Value(i int) interface{} {
	if c.IsMissing(i) {
		return nil
	}
	return c.values[i]
}

// DateColumn stores timestamps
type DateColumn struct {
	name   string
	values []time.Time
	valid  []bool
}

// NewDateColumn builds a date column; valid may be nil, in which case zero
// times are treated as missing.
func NewDateColumn(name string, values []time.Time, valid []bool) *DateColumn {
	cp := make([]time.Time, len(values))
	copy(cp, values)
	mask := make([]bool, len(values))
	for i, t := range values {
		if valid != nil {
			mask[i] = i < len(valid) && valid[i]
		} else {
			mask[i] = !t.IsZero()
		}
	}
	return &DateColumn{name: name, values: cp, valid: mask}
}

func (c *DateColumn) Name() string         { return c.name }
func (c *DateColumn) Kind() Kind           { return KindDate }
func (c *DateColumn) Len() int             { return len(c.values) }
func (c *DateColumn) IsMissing(i int) bool { return !c.valid[i] }
func (c *DateColumn) At(i int) time.Time   { return c.values[i] }

func (c *DateColumn) Value(i int) interface{} {
	if c.IsMissing(i) {
		return nil
	}
	return c.values[i]
}

// IdentifierColumn stores row keys. Identifiers may look numeric but are
// never quantitative.
type IdentifierColumn struct {
	name   string
	values []string
	valid  []bool
}

// NewIdentifierColumn builds an identifier column; valid may be nil, in
// which case empty strings are treated as missing.
func NewIdentifierColumn(name string, values []string, valid []bool) *IdentifierColumn {
	return &IdentifierColumn{name: name, values: copyStrings(values), valid: maskFor(values, valid)}
}

func (c *IdentifierColumn) Name() string         { return c.name }
func (c *IdentifierColumn) Kind() Kind           { return KindIdentifier }
func (c *IdentifierColumn) Len() int             { return len(c.values) }
func (c *IdentifierColumn) IsMissing(i int) bool { return !c.valid[i] }
func (c *IdentifierColumn) At(i int) string      { return c.values[i] }

func (c *IdentifierColumn) Value(i int) interface{} {
	if c.IsMissing(i) {
		return nil
	}
	return c.values[i]
}

func copyStrings(values []string) []string {
	cp := make([]string, len(values))
	copy(cp, values)
	return cp
}

func maskFor(values []string, valid []bool) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		if valid != nil {
			mask[i] = i < len(valid) && valid[i]
		} else {
			mask[i] = v != ""
		}
	}
	return mask
}
