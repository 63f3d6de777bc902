package excel

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"tabstat/adapters/datareadiness/coercer"
	"tabstat/domain/dataset"
	"tabstat/internal"
	"tabstat/ports"
)

// Loader reads CSV and Excel files into typed tables
type Loader struct {
	config  LoaderConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

var _ ports.TableLoader = (*Loader)(nil)

// NewLoader creates a file loader
func NewLoader(config LoaderConfig) *Loader {
	return &Loader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  internal.DefaultLogger.WithComponent("Loader"),
	}
}

// Load reads path and infers one typed column per header. Columns listed in
// Identifiers become identifier columns; the rest are numeric when every
// non-missing cell is a number, dates when every such cell is a date, and
// text otherwise.
func (l *Loader) Load(ctx context.Context, path string) (*dataset.Table, dataset.Metadata, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, dataset.Metadata{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	raw, err := NewDataReader(abs).WithSheet(l.config.Sheet).ReadData(ctx)
	if err != nil {
		return nil, dataset.Metadata{}, err
	}
	if n := l.config.SampleRows; n > 0 && len(raw.Rows) > n {
		raw.Rows = raw.Rows[:n]
	}

	table, err := l.BuildTable(raw)
	if err != nil {
		return nil, dataset.Metadata{}, err
	}

	meta := dataset.Metadata{
		Name: filepath.Base(abs),
		Rows: table.Rows(),
		Cols: table.Len(),
		Ext:  strings.ToLower(filepath.Ext(abs)),
		Path: abs,
	}
	l.logger.Info("Loaded %s (%d rows, %d columns)", meta.Name, meta.Rows, meta.Cols)
	return table, meta, nil
}

// BuildTable coerces a RawTable into a typed table
func (l *Loader) BuildTable(raw *RawTable) (*dataset.Table, error) {
	identifiers := make(map[string]bool, len(l.config.Identifiers))
	for _, name := range l.config.Identifiers {
		identifiers[name] = true
	}

	columns := make([]dataset.Column, len(raw.Headers))
	for i, name := range raw.Headers {
		col, analysis := l.coercer.InferColumn(name, raw.Column(i), identifiers[name])
		l.logger.Debug("Column %s inferred as %s (%d/%d valid)", name, analysis.RecommendedKind, analysis.ValidCount, analysis.TotalCount)
		columns[i] = col
	}
	return dataset.NewTable(columns...)
}
