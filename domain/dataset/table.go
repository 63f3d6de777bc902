package dataset

import (
	"strings"

	"tabstat/domain/core"
)

// Metadata describes where a table came from
type Metadata struct {
	Name string `json:"name"` // base file name
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
	Ext  string `json:"ext"`  // lower-cased, including the dot
	Path string `json:"path"` // absolute path, or the query label for SQL sources
}

// Table is an ordered set of equally long, uniquely named columns.
// A Table is never mutated after construction.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable validates the columns and builds a table. Columns of differing
// lengths or duplicate names are rejected with an error wrapping
// core.ErrInputShape.
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if col == nil {
			continue
		}
		name := col.Name()
		if strings.TrimSpace(name) == "" {
			return nil, core.ErrEmptyName
		}
		if _, dup := t.index[name]; dup {
			return nil, core.NewDuplicateColumnError(name)
		}
		if len(t.columns) == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, core.NewShapeError(name, t.rows, col.Len())
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// MustTable is NewTable for fixtures; it panics on malformed input
func MustTable(columns ...Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns the row count
func (t *Table) Rows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Len returns the column count
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// Columns returns the columns in table order
func (t *Table) Columns() []Column {
	if t == nil {
		return nil
	}
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in table order
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Empty reports whether the table has no rows or no columns
func (t *Table) Empty() bool {
	return t.Rows() == 0 || t.Len() == 0
}

// Page is one window of rows for preview rendering. Start is zero-based and
// End is one past the last row.
type Page struct {
	Index     int             `json:"index"`
	Size      int             `json:"size"`
	Start     int             `json:"start"`
	End       int             `json:"end"`
	Total     int             `json:"total"`
	PageCount int             `json:"page_count"`
	HasPrev   bool            `json:"has_prev"`
	HasNext   bool            `json:"has_next"`
	Header    []string        `json:"header"`
	Cells     [][]interface{} `json:"cells"`
}

// DefaultPageSize matches the preview grid's row window
const DefaultPageSize = 500

// Page returns the rows of page index. An index past the end is clamped to
// the last page.
func (t *Table) Page(index, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if index < 0 {
		index = 0
	}
	total := t.Rows()
	pageCount := (total-1)/size + 1
	if total == 0 {
		pageCount = 1
		index = 0
	}
	start := index * size
	if start >= total && total > 0 {
		index = (total - 1) / size
		start = index * size
	}
	end := start + size
	if end > total {
		end = total
	}

	p := Page{
		Index:     index,
		Size:      size,
		Start:     start,
		End:       end,
		Total:     total,
		PageCount: pageCount,
		HasPrev:   total > 0 && index > 0,
		HasNext:   end < total,
		Header:    t.Names(),
	}
	for r := start; r < end; r++ {
		row := make([]interface{}, t.Len())
		for c, col := range t.columns {
			row[c] = col.Value(r)
		}
		p.Cells = append(p.Cells, row)
	}
	return p
}
