package ports

import (
	"context"

	"tabstat/domain/dataset"
)

// TableLoader turns a source (file path or query) into a typed table and
// its metadata. Implementations must return errors wrapping
// core.ErrFileNotFound, core.ErrUnsupportedFormat or core.ErrInputShape
// where those apply.
type TableLoader interface {
	Load(ctx context.Context, source string) (*dataset.Table, dataset.Metadata, error)
}

// TableLoaderFunc adapts a function to TableLoader
type TableLoaderFunc func(ctx context.Context, source string) (*dataset.Table, dataset.Metadata, error)

// Load calls f
func (f TableLoaderFunc) Load(ctx context.Context, source string) (*dataset.Table, dataset.Metadata, error) {
	return f(ctx, source)
}
