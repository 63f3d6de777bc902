package coercer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstat/domain/dataset"
)

func TestCoerceValue(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name    string
		in      interface{}
		kind    dataset.Kind
		missing bool
	}{
		{name: "nil", in: nil, missing: true},
		{name: "NA token", in: "NA", missing: true},
		{name: "padded null token", in: "  null ", missing: true},
		{name: "empty", in: "", missing: true},
		{name: "integer text", in: "42", kind: dataset.KindNumeric},
		{name: "float value", in: 1.5, kind: dataset.KindNumeric},
		{name: "nan float", in: math.NaN(), missing: true},
		{name: "int value", in: int64(7), kind: dataset.KindNumeric},
		{name: "iso date", in: "2016-08-05", kind: dataset.KindDate},
		{name: "time value", in: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), kind: dataset.KindDate},
		{name: "text", in: "Kenya", kind: dataset.KindText},
		{name: "bytes", in: []byte("12.5"), kind: dataset.KindNumeric},
		{name: "lowercase na is text", in: "na", kind: dataset.KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := c.CoerceValue(tt.in)
			assert.Equal(t, tt.missing, cell.Missing)
			if !tt.missing {
				assert.Equal(t, tt.kind, cell.Kind)
			}
		})
	}
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name   string
		values []string
		want   dataset.Kind
	}{
		{name: "numeric with gaps", values: []string{"1", "", "2.5", "NaN"}, want: dataset.KindNumeric},
		{name: "one stray word", values: []string{"1", "2", "three"}, want: dataset.KindText},
		{name: "dates", values: []string{"2016-01-01", "2020-02-02", "N/A"}, want: dataset.KindDate},
		{name: "all missing", values: []string{"", "NA"}, want: dataset.KindNumeric},
		{name: "categorical", values: []string{"M", "F"}, want: dataset.KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.AnalyzeTypeDistribution(tt.values).RecommendedKind)
		})
	}
}

func TestAnalyzeTypeDistribution_LenientThreshold(t *testing.T) {
	cfg := DefaultCoercionConfig()
	cfg.NumericThreshold = 0.6
	c := NewTypeCoercer(cfg)

	col, analysis := c.InferColumn("X", []string{"1", "2", "oops"}, false)
	assert.Equal(t, dataset.KindNumeric, analysis.RecommendedKind)
	assert.InDelta(t, 2.0/3.0, analysis.NumericRatio, 1e-12)

	num, ok := col.(*dataset.NumericColumn)
	require.True(t, ok)
	assert.True(t, num.IsMissing(2), "unparsable cells become missing")
	assert.Equal(t, 2, num.ValidCount())
}

func TestInferColumn_Identifier(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	col, analysis := c.InferColumn("ID", []string{"1", "2", ""}, true)
	assert.Equal(t, dataset.KindIdentifier, analysis.RecommendedKind)
	assert.Equal(t, dataset.KindIdentifier, col.Kind())
	assert.True(t, col.IsMissing(2))
	assert.Equal(t, "1", col.Value(0))
}

func TestBuildColumn_Text(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	col := c.BuildColumn("MEDAL", []string{" Gold ", "NA", "Silver"}, dataset.KindText)
	text, ok := col.(*dataset.TextColumn)
	require.True(t, ok)
	assert.Equal(t, "Gold", text.At(0))
	assert.True(t, text.IsMissing(1))
}

func TestIsMissing(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	for _, tok := range DefaultMissingTokens {
		assert.True(t, c.IsMissing(tok), tok)
	}
	assert.False(t, c.IsMissing("0"))

	custom := NewTypeCoercer(CoercionConfig{MissingTokens: []string{"-"}})
	assert.True(t, custom.IsMissing("-"))
	assert.False(t, custom.IsMissing(""))
}
