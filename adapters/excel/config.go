package excel

import (
	"tabstat/adapters/datareadiness/coercer"
)

// LoaderConfig holds configuration for file table sources
type LoaderConfig struct {
	SampleRows     int                    `json:"sample_rows"` // keep only the first N rows; 0 keeps all
	Identifiers    []string               `json:"identifiers"` // columns loaded as identifiers
	Sheet          string                 `json:"sheet"`       // workbook sheet; empty means the first one
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultLoaderConfig returns the defaults for file loading
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
