package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tabstat/adapters/datareadiness/coercer"
	"tabstat/domain/dataset"
	"tabstat/internal"
	"tabstat/ports"
)

// TableSource runs a SQL query and exposes the result set as a table
type TableSource struct {
	db          *sqlx.DB
	coercer     *coercer.TypeCoercer
	identifiers map[string]bool
	maxRows     int
	logger      *internal.Logger
}

var _ ports.TableLoader = (*TableSource)(nil)

// Open connects to PostgreSQL with a lib/pq DSN
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NewTableSource creates a SQL table source. identifiers names result
// columns to load as identifiers; maxRows of 0 reads the full result.
func NewTableSource(db *sqlx.DB, identifiers []string, maxRows int) *TableSource {
	ids := make(map[string]bool, len(identifiers))
	for _, name := range identifiers {
		ids[name] = true
	}
	return &TableSource{
		db:          db,
		coercer:     coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		identifiers: ids,
		maxRows:     maxRows,
		logger:      internal.DefaultLogger.WithComponent("TableSource"),
	}
}

// Load executes query and maps every result column to a typed column
func (s *TableSource) Load(ctx context.Context, query string) (*dataset.Table, dataset.Metadata, error) {
	start := time.Now()
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, dataset.Metadata{}, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, dataset.Metadata{}, fmt.Errorf("failed to read result columns: %w", err)
	}

	var values [][]interface{}
	for rows.Next() {
		if s.maxRows > 0 && len(values) >= s.maxRows {
			break
		}
		row, err := rows.SliceScan()
		if err != nil {
			return nil, dataset.Metadata{}, fmt.Errorf("row scan failed: %w", err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dataset.Metadata{}, fmt.Errorf("row iteration failed: %w", err)
	}

	table, err := s.MapRows(columns, values)
	if err != nil {
		return nil, dataset.Metadata{}, err
	}
	meta := dataset.Metadata{
		Name: "query",
		Rows: table.Rows(),
		Cols: table.Len(),
		Ext:  ".sql",
		Path: strings.Join(strings.Fields(query), " "),
	}
	s.logger.Info("Query returned %d rows, %d columns in %s", meta.Rows, meta.Cols, time.Since(start))
	return table, meta, nil
}

// MapRows converts scanned result rows into a table. A column is numeric
// when every non-null value is a number, a date when every such value is a
// timestamp, and text otherwise.
func (s *TableSource) MapRows(columns []string, rows [][]interface{}) (*dataset.Table, error) {
	out := make([]dataset.Column, len(columns))
	for c, name := range columns {
		cells := make([]coercer.Cell, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = s.coercer.CoerceValue(row[c])
			} else {
				cells[r] = coercer.Cell{Missing: true}
			}
		}
		out[c] = s.buildColumn(name, cells)
	}
	return dataset.NewTable(out...)
}

func (s *TableSource) buildColumn(name string, cells []coercer.Cell) dataset.Column {
	kind := commonKind(cells)
	if s.identifiers[name] {
		kind = dataset.KindIdentifier
	}

	valid := make([]bool, len(cells))
	switch kind {
	case dataset.KindNumeric:
		nums := make([]float64, len(cells))
		for i, cell := range cells {
			nums[i] = dataset.NA
			if !cell.Missing {
				nums[i] = cell.Number
			}
		}
		return dataset.NewNumericColumn(name, nums)
	case dataset.KindDate:
		times := make([]time.Time, len(cells))
		for i, cell := range cells {
			times[i], valid[i] = cell.Time, !cell.Missing
		}
		return dataset.NewDateColumn(name, times, valid)
	}

	texts := make([]string, len(cells))
	for i, cell := range cells {
		texts[i], valid[i] = cellText(cell), !cell.Missing
	}
	if kind == dataset.KindIdentifier {
		return dataset.NewIdentifierColumn(name, texts, valid)
	}
	return dataset.NewTextColumn(name, texts, valid)
}

// commonKind is numeric or date when every valid cell agrees, else text
func commonKind(cells []coercer.Cell) dataset.Kind {
	var kind dataset.Kind
	for _, cell := range cells {
		if cell.Missing {
			continue
		}
		switch {
		case kind == "":
			kind = cell.Kind
		case kind != cell.Kind:
			return dataset.KindText
		}
	}
	if kind == "" {
		return dataset.KindNumeric
	}
	return kind
}

func cellText(cell coercer.Cell) string {
	if cell.Missing {
		return ""
	}
	switch cell.Kind {
	case dataset.KindNumeric:
		return strconv.FormatFloat(cell.Number, 'f', -1, 64)
	case dataset.KindDate:
		return cell.Time.Format(time.RFC3339)
	}
	return cell.Text
}
