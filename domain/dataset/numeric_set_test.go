package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectNumeric(t *testing.T) {
	tbl := MustTable(
		NewIdentifierColumn("ID", []string{"1", "2", "3"}, nil),
		Floats("AGE", 22, 25, NA),
		Strings("HEIGHT", "180", "", " 175.5 "),
		Strings("TEAM", "Kenya", "Japan", "Norway"),
		Strings("MIXED", "1", "2", "three"),
		NewDateColumn("DATE", []time.Time{time.Now(), time.Now(), time.Now()}, nil),
		Floats("YEAR", 2016, 2016, 2020),
	)

	set := SelectNumeric(tbl)
	assert.Equal(t, []string{"AGE", "HEIGHT", "YEAR"}, set.Names(), "order follows the table")
	assert.Equal(t, 3, set.Rows())

	height, ok := set.Column("HEIGHT")
	require.True(t, ok)
	assert.Equal(t, 180.0, height.At(0))
	assert.True(t, height.IsMissing(1))
	assert.Equal(t, 175.5, height.At(2))

	assert.False(t, set.Has("MIXED"), "one non-numeric cell excludes the whole column")
	assert.False(t, set.Has("ID"))
	assert.False(t, set.Has("DATE"))
}

func TestSelectNumeric_Exclude(t *testing.T) {
	tbl := MustTable(Floats("ID", 1, 2), Floats("AGE", 30, 31), Floats("Year", 2016, 2020))

	assert.Equal(t, []string{"AGE"}, SelectNumeric(tbl, "ID", "Year").Names())
	assert.Equal(t, []string{"ID", "AGE", "Year"}, SelectNumeric(tbl).Names())
	assert.Equal(t, []string{"ID", "AGE"}, SelectNumeric(tbl).Without("Year").Names())
}

func TestSelectNumeric_EmptyInputs(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
	}{
		{name: "nil table", table: nil},
		{name: "no columns", table: MustTable()},
		{name: "zero rows", table: MustTable(Floats("AGE"), Strings("TEAM"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := SelectNumeric(tt.table)
			require.NotNil(t, set)
			assert.Zero(t, set.Len())
			assert.Empty(t, set.Names())
		})
	}
}

func TestSelectNumeric_DoesNotAliasSource(t *testing.T) {
	src := Floats("A", 1, 2, 3)
	set := SelectNumeric(MustTable(src))

	cols := set.Columns()
	cols[0] = nil
	a, ok := set.Column("A")
	require.True(t, ok)
	assert.NotNil(t, a)
}

func TestParseReal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "42", want: 42, ok: true},
		{in: " -1.5e2 ", want: -150, ok: true},
		{in: "1,000", ok: false},
		{in: "Inf", ok: false},
		{in: "NaN", ok: false},
		{in: "", ok: false},
		{in: "abc", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseReal(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewNumericSet(t *testing.T) {
	set, err := NewNumericSet(Floats("A", 1, math.NaN()), Floats("B", 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	_, err = NewNumericSet(Floats("A", 1), Floats("B", 2, 3))
	assert.Error(t, err)
}
