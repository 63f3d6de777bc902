package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural errors
	ErrInputShape    = errors.New("malformed table")
	ErrRaggedColumns = fmt.Errorf("%w: columns of differing lengths", ErrInputShape)
	ErrDuplicateName = fmt.Errorf("%w: duplicate column name", ErrInputShape)
	ErrEmptyName     = fmt.Errorf("%w: empty column name", ErrInputShape)
	ErrMissingHeader = fmt.Errorf("%w: missing header row", ErrInputShape)
	ErrUnknownKind   = fmt.Errorf("%w: unknown column kind", ErrInputShape)

	// Lookup errors
	ErrNotFound          = errors.New("resource not found")
	ErrFileNotFound      = fmt.Errorf("%w: file", ErrNotFound)
	ErrUnsupportedColumn = errors.New("column is not part of the numeric column set")

	// Source errors
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrUnknownStatistic  = errors.New("unknown statistic")
	ErrUnknownPlot       = errors.New("unknown plot kind")
	ErrMissingArgument   = errors.New("missing argument")
	ErrArgumentRange     = errors.New("argument out of range")
)

// Error constructors with context
func NewShapeError(column string, want, got int) error {
	return fmt.Errorf("%w: column %q has %d rows, want %d", ErrRaggedColumns, column, got, want)
}

func NewDuplicateColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateName, column)
}

func NewFileNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

func NewUnsupportedFormatError(ext string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

func NewUnsupportedColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedColumn, column)
}

// Error checking helpers
func IsShapeError(err error) bool {
	return errors.Is(err, ErrInputShape)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnsupportedColumn(err error) bool {
	return errors.Is(err, ErrUnsupportedColumn)
}

func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}
