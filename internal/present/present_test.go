package present

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstat/adapters/stats/engine"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "nil", in: nil, want: Placeholder},
		{name: "nan", in: math.NaN(), want: Placeholder},
		{name: "float", in: 25.0, want: "25"},
		{name: "fraction", in: 0.1, want: "0.1"},
		{name: "int", in: 75, want: "75"},
		{name: "string", in: "Kenya", want: "Kenya"},
		{name: "date", in: time.Date(2016, 8, 5, 0, 0, 0, 0, time.UTC), want: "2016-08-05"},
		{name: "multimodal", in: map[float64]int{2: 2, 1: 2}, want: "1: 2\n2: 2"},
		{name: "numeric keys sort by value", in: map[int]string{10: "b", 9: "a"}, want: "9: a\n10: b"},
		{name: "slice", in: []float64{3, 1}, want: "3\n1"},
		{name: "empty map", in: map[string]int{}, want: Placeholder},
		{
			name: "nested",
			in: map[string]interface{}{
				"b": map[string]int{"y": 2, "x": 1},
				"a": 1.5,
				"c": []string{"p", "q"},
			},
			want: "a: 1.5\nb:\n  x: 1\n  y: 2\nc:\n  p\n  q",
		},
		{name: "nil pointer", in: (*float64)(nil), want: Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestFormatValue_Stable(t *testing.T) {
	in := map[float64]int{}
	for i := 0; i < 50; i++ {
		in[float64(i)*1.5] = i
	}
	first := FormatValue(in)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, FormatValue(in))
	}
}

func TestShapeScalar_Placeholder(t *testing.T) {
	view := ShapeScalar(domainstats.Variance, domainstats.ScalarResult{"AGE": 9, "ZERO": 0}, []string{"AGE", "HEIGHT", "ZERO"})

	require.Len(t, view.Entries, 3)
	assert.Equal(t, "AGE", view.Entries[0].Column)
	assert.Equal(t, "9", view.Entries[0].Text)

	height, ok := view.Get("HEIGHT")
	require.True(t, ok)
	assert.True(t, IsPlaceholder(height.Text))
	assert.False(t, height.Present)
	assert.Nil(t, height.Value)

	zero, _ := view.Get("ZERO")
	assert.Equal(t, "0", zero.Text, "a real zero is not the placeholder")
	require.NotNil(t, zero.Value)
	assert.Equal(t, 0.0, *zero.Value)
}

func TestShape_AllStatistics(t *testing.T) {
	tbl := dataset.MustTable(
		dataset.Floats("A", 1, 1, 2, 2, 3),
		dataset.Floats("B", 5, 4, 3, 2, 1),
		dataset.Floats("C", 7, 7, 7, 7, 7),
	)
	set := dataset.SelectNumeric(tbl)

	for _, s := range domainstats.All() {
		res, err := engine.Compute(set, s)
		require.NoError(t, err)
		view, err := Shape(res, set.Names())
		require.NoError(t, err, s)
		assert.Equal(t, s.Shape(), view.Shape)

		if s.Shape() == domainstats.ShapeMatrix {
			require.NotNil(t, view.Matrix)
			assert.Nil(t, view.Columns)
			assert.Equal(t, []string{"A", "B", "C"}, view.Matrix.Columns)
			continue
		}
		require.NotNil(t, view.Columns)
		assert.Len(t, view.Columns.Entries, 3)
	}

	modes, _ := engine.Compute(set, domainstats.Mode)
	view, _ := Shape(modes, nil)
	a, _ := view.Columns.Get("A")
	assert.Equal(t, "1: 2\n2: 2", a.Text)
}

func TestShapeMatrix_OmittedPairs(t *testing.T) {
	set := dataset.SelectNumeric(dataset.MustTable(
		dataset.Floats("FLAT", 1, 1, 1),
		dataset.Floats("X", 1, 2, 3),
	))
	view := ShapeMatrix(domainstats.Correlation, engine.Correlation(set))

	assert.Equal(t, [][]string{{Placeholder, Placeholder}, {Placeholder, "1"}}, view.Cells)
	assert.Nil(t, view.Values[0][1])
	require.NotNil(t, view.Values[1][1])
	assert.Equal(t, 1.0, *view.Values[1][1])
}

func TestShape_MissingMatrix(t *testing.T) {
	_, err := Shape(domainstats.Result{Statistic: domainstats.Covariance, Shape: domainstats.ShapeMatrix}, nil)
	assert.Error(t, err)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "No data loaded.", StatusLine(0))
	assert.Equal(t, "10 columns loaded.", StatusLine(10))
}

func TestReport(t *testing.T) {
	set := dataset.SelectNumeric(dataset.MustTable(
		dataset.Floats("AGE", 22, 25, 28, dataset.NA),
		dataset.Floats("YEAR", 2016, 2016, 2020, 2020),
	))
	total, _ := engine.Compute(set, domainstats.Total)
	corr, _ := engine.Compute(set, domainstats.Correlation)
	tv, err := Shape(total, set.Names())
	require.NoError(t, err)
	cv, err := Shape(corr, set.Names())
	require.NoError(t, err)

	r := Report{
		Title:    "athletes",
		Metadata: dataset.Metadata{Name: "athletes.csv", Rows: 4, Cols: 2, Ext: ".csv", Path: "/data/athletes.csv"},
		Views:    []View{tv, cv},
	}

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# athletes\n"))
	assert.Contains(t, md, "2 columns loaded.")
	assert.Contains(t, md, "## Total")
	assert.Contains(t, md, "| AGE | 75 |")
	assert.Contains(t, md, "## Correlation")
	assert.Contains(t, md, "| | AGE | YEAR |")

	page := string(r.HTML())
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<title>athletes</title>")
}
