package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstat/domain/core"
	"tabstat/domain/dataset"
)

func TestMapRows(t *testing.T) {
	src := NewTableSource(nil, []string{"athlete_id"}, 0)
	held := time.Date(2016, 8, 5, 0, 0, 0, 0, time.UTC)

	tbl, err := src.MapRows(
		[]string{"athlete_id", "age", "height", "team", "held_on", "mixed"},
		[][]interface{}{
			{int64(1), int64(22), []byte("170.5"), "Kenya", held, int64(1)},
			{int64(2), nil, []byte("181"), []byte("Japan"), nil, "one"},
			{int64(3), int64(28), nil, nil, held, int64(3)},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Rows())

	kinds := map[string]dataset.Kind{}
	for _, c := range tbl.Columns() {
		kinds[c.Name()] = c.Kind()
	}
	assert.Equal(t, map[string]dataset.Kind{
		"athlete_id": dataset.KindIdentifier,
		"age":        dataset.KindNumeric,
		"height":     dataset.KindNumeric,
		"team":       dataset.KindText,
		"held_on":    dataset.KindDate,
		"mixed":      dataset.KindText,
	}, kinds)

	set := dataset.SelectNumeric(tbl)
	assert.Equal(t, []string{"age", "height"}, set.Names())
	age, _ := set.Column("age")
	assert.True(t, age.IsMissing(1))
	height, _ := set.Column("height")
	assert.Equal(t, 170.5, height.At(0))

	id, _ := tbl.Column("athlete_id")
	assert.Equal(t, "2", id.Value(1))

	mixed, _ := tbl.Column("mixed")
	assert.Equal(t, "1", mixed.Value(0))
	assert.Equal(t, "one", mixed.Value(1))
}

func TestMapRows_EmptyResult(t *testing.T) {
	tbl, err := NewTableSource(nil, nil, 0).MapRows([]string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Zero(t, dataset.SelectNumeric(tbl).Len())
}

func TestMapRows_DuplicateColumns(t *testing.T) {
	_, err := NewTableSource(nil, nil, 0).MapRows([]string{"a", "a"}, [][]interface{}{{1.0, 2.0}})
	assert.True(t, errors.Is(err, core.ErrDuplicateName))
}
