package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tabstat/domain/core"
	"tabstat/domain/dataset"
	"tabstat/internal/testkit"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "athletes.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoader_CSV(t *testing.T) {
	path := writeFile(t, "athletes.csv", []byte(
		"ID,NAME,AGE,HEIGHT,YEAR,OPENED\n"+
			"1,Ana,22,170,2016,2016-08-05\n"+
			"2,Bo,25,NA,2016,2016-08-06\n"+
			"3,Cy,28,,2020,N/A\n"+
			"4,Di,,181.5,2020,2020-07-24\n"))

	cfg := DefaultLoaderConfig()
	cfg.Identifiers = []string{"ID"}
	tbl, meta, err := NewLoader(cfg).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "athletes.csv", meta.Name)
	assert.Equal(t, 4, meta.Rows)
	assert.Equal(t, 6, meta.Cols)
	assert.Equal(t, ".csv", meta.Ext)
	assert.True(t, filepath.IsAbs(meta.Path))

	kinds := map[string]dataset.Kind{}
	for _, c := range tbl.Columns() {
		kinds[c.Name()] = c.Kind()
	}
	assert.Equal(t, map[string]dataset.Kind{
		"ID":     dataset.KindIdentifier,
		"NAME":   dataset.KindText,
		"AGE":    dataset.KindNumeric,
		"HEIGHT": dataset.KindNumeric,
		"YEAR":   dataset.KindNumeric,
		"OPENED": dataset.KindDate,
	}, kinds)

	set := dataset.SelectNumeric(tbl)
	assert.Equal(t, []string{"AGE", "HEIGHT", "YEAR"}, set.Names())
	height, _ := set.Column("HEIGHT")
	assert.Equal(t, 2, height.ValidCount())
}

func TestLoader_XLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"ID", "SEX", "WEIGHT", "WEIGHT"},
		{1, "M", 80.5, 1},
		{2, "F", nil, 2},
		{3, "F", 61, 3},
	})

	tbl, meta, err := NewLoader(DefaultLoaderConfig()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", meta.Ext)
	assert.Equal(t, 3, meta.Rows)
	assert.Equal(t, []string{"ID", "SEX", "WEIGHT", "WEIGHT.1"}, tbl.Names())

	weight, ok := tbl.Column("WEIGHT")
	require.True(t, ok)
	num, ok := weight.(*dataset.NumericColumn)
	require.True(t, ok)
	assert.Equal(t, 80.5, num.At(0))
	assert.True(t, num.IsMissing(1))

	// Without an identifier list ID is just another number
	assert.Contains(t, dataset.SelectNumeric(tbl).Names(), "ID")
}

func TestLoader_Latin1Fallback(t *testing.T) {
	// "Zoë" and "Müller" encoded as ISO-8859-1
	content := []byte("NAME,AGE\nZo\xeb,30\nM\xfcller,41\n")
	path := writeFile(t, "latin.csv", content)

	tbl, _, err := NewLoader(DefaultLoaderConfig()).Load(context.Background(), path)
	require.NoError(t, err)

	name, ok := tbl.Column("NAME")
	require.True(t, ok)
	assert.Equal(t, "Zoë", name.Value(0))
	assert.Equal(t, "Müller", name.Value(1))
}

func TestLoader_SampleRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, testkit.NewAthleteGenerator(9).WriteCSV(f, 300))
	require.NoError(t, f.Close())

	cfg := DefaultLoaderConfig()
	cfg.SampleRows = 25
	tbl, meta, err := NewLoader(cfg).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 25, tbl.Rows())
	assert.Equal(t, 25, meta.Rows)
	assert.Equal(t, len(testkit.AthleteColumns), meta.Cols)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	xls := filepath.Join(dir, "legacy.xls")
	require.NoError(t, os.WriteFile(xls, []byte{0xD0, 0xCF}, 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("a,b"), 0o644))
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name   string
		path   string
		target error
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.csv"), target: core.ErrFileNotFound},
		{name: "legacy xls", path: xls, target: core.ErrUnsupportedFormat},
		{name: "unknown extension", path: txt, target: core.ErrUnsupportedFormat},
		{name: "empty csv", path: empty, target: core.ErrMissingHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewLoader(DefaultLoaderConfig()).Load(context.Background(), tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	path := writeFile(t, "a.csv", []byte("A\n1\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewLoader(DefaultLoaderConfig()).Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_RaggedRowsArePadded(t *testing.T) {
	path := writeFile(t, "ragged.csv", []byte("A,B,\n1\n2,3,4,5\n"))

	raw, err := NewDataReader(path).ReadData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "Unnamed: 2"}, raw.Headers)
	assert.Equal(t, [][]string{{"1", "", ""}, {"2", "3", "4"}}, raw.Rows)
}

func TestNormalizeHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"A", "A.1", "A.2", "Unnamed: 3", "B"},
		normalizeHeaders([]string{"A", " A ", "A", "", "B"}),
	)
}
