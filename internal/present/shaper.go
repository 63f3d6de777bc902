package present

import (
	"fmt"

	domainstats "tabstat/domain/stats"
)

// Entry is one column of a ColumnView. Value is set only for scalar
// statistics with a defined value.
type Entry struct {
	Column  string   `json:"column" yaml:"column"`
	Text    string   `json:"text" yaml:"text"`
	Value   *float64 `json:"value" yaml:"value,omitempty"`
	Present bool     `json:"present" yaml:"present"`
}

// ColumnView is the column -> scalar-or-text presentation shape
type ColumnView struct {
	Statistic domainstats.Statistic `json:"statistic" yaml:"statistic"`
	Entries   []Entry               `json:"entries" yaml:"entries"`
}

// Get returns the entry for column
func (v ColumnView) Get(column string) (Entry, bool) {
	for _, e := range v.Entries {
		if e.Column == column {
			return e, true
		}
	}
	return Entry{}, false
}

// MatrixView is the column-pair -> scalar presentation shape. Cells holds
// the rendered text; Values holds nil where a pair is omitted.
type MatrixView struct {
	Statistic domainstats.Statistic `json:"statistic" yaml:"statistic"`
	Columns   []string              `json:"columns" yaml:"columns"`
	Cells     [][]string            `json:"cells" yaml:"cells"`
	Values    [][]*float64          `json:"values" yaml:"values"`
}

// View is a shaped result; exactly one of Columns and Matrix is set
type View struct {
	Statistic domainstats.Statistic `json:"statistic" yaml:"statistic"`
	Shape     domainstats.Shape     `json:"shape" yaml:"shape"`
	Columns   *ColumnView           `json:"columns,omitempty" yaml:"columns,omitempty"`
	Matrix    *MatrixView           `json:"matrix,omitempty" yaml:"matrix,omitempty"`
}

// Shape normalizes any engine result. columns fixes the row order of a
// ColumnView and lists columns that should appear with the placeholder when
// the result has no entry for them; nil uses the result's own columns.
func Shape(res domainstats.Result, columns []string) (View, error) {
	view := View{Statistic: res.Statistic, Shape: res.Shape}
	if columns == nil {
		columns = res.Columns()
	}
	switch res.Shape {
	case domainstats.ShapeScalar:
		cv := ShapeScalar(res.Statistic, res.Scalar, columns)
		view.Columns = &cv
	case domainstats.ShapeMultiset:
		cv := ShapeModes(res.Statistic, res.Modes, columns)
		view.Columns = &cv
	case domainstats.ShapeMatrix:
		if res.Matrix == nil {
			return view, fmt.Errorf("matrix result for %s has no matrix", res.Statistic)
		}
		mv := ShapeMatrix(res.Statistic, *res.Matrix)
		view.Matrix = &mv
	default:
		return view, fmt.Errorf("unknown result shape %q", res.Shape)
	}
	return view, nil
}

// ShapeScalar renders a scalar result, one entry per column in order
func ShapeScalar(statistic domainstats.Statistic, res domainstats.ScalarResult, columns []string) ColumnView {
	view := ColumnView{Statistic: statistic, Entries: make([]Entry, 0, len(columns))}
	for _, col := range columns {
		e := Entry{Column: col, Text: Placeholder}
		if v, ok := res.Get(col); ok {
			v := v
			e.Text = FormatFloat(v)
			e.Value = &v
			e.Present = true
		}
		view.Entries = append(view.Entries, e)
	}
	return view
}

// ShapeModes renders a mode result as "value: count" lines per column
func ShapeModes(statistic domainstats.Statistic, res domainstats.ModeResult, columns []string) ColumnView {
	view := ColumnView{Statistic: statistic, Entries: make([]Entry, 0, len(columns))}
	for _, col := range columns {
		e := Entry{Column: col, Text: Placeholder}
		if modes, ok := res[col]; ok && len(modes) > 0 {
			e.Text = FormatValue(modes)
			e.Present = true
		}
		view.Entries = append(view.Entries, e)
	}
	return view
}

// ShapeMatrix renders every (row, column) cell of a pair result
func ShapeMatrix(statistic domainstats.Statistic, res domainstats.PairResult) MatrixView {
	n := len(res.Columns)
	view := MatrixView{
		Statistic: statistic,
		Columns:   append([]string(nil), res.Columns...),
		Cells:     make([][]string, n),
		Values:    make([][]*float64, n),
	}
	for i, a := range res.Columns {
		view.Cells[i] = make([]string, n)
		view.Values[i] = make([]*float64, n)
		for j, b := range res.Columns {
			v, ok := res.Get(a, b)
			if !ok {
				view.Cells[i][j] = Placeholder
				continue
			}
			view.Cells[i][j] = FormatFloat(v)
			view.Values[i][j] = &v
		}
	}
	return view
}

// StatusLine summarizes a loaded table for the status bar
func StatusLine(columns int) string {
	if columns <= 0 {
		return "No data loaded."
	}
	return fmt.Sprintf("%d columns loaded.", columns)
}
