package excel

// RawTable is a sheet or CSV file as header plus string rows, before any
// type coercion. Every row has exactly len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Column returns the cells of column i in row order
func (t *RawTable) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}
