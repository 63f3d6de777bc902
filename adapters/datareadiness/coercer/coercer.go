package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tabstat/domain/dataset"
)

// TypeCoercer turns raw cells into typed columns with deterministic rules
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64  `json:"numeric_threshold"`   // share of valid cells that must parse as numbers
	TimestampThreshold float64  `json:"timestamp_threshold"` // share of valid cells that must parse as timestamps
	MissingTokens      []string `json:"missing_tokens"`      // cells equal to one of these are missing
	TrimSpace          bool     `json:"trim_space"`
	DateFormats        []string `json:"date_formats"`
}

// DefaultMissingTokens are the strings read as missing, matching the usual
// dataframe-reader defaults. Matching is case-sensitive.
var DefaultMissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// DefaultDateFormats are tried in order when parsing timestamps
var DefaultDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// DefaultCoercionConfig returns the strict defaults: a column is numeric or
// a date only when every non-missing cell parses.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		TimestampThreshold: 1.0,
		MissingTokens:      DefaultMissingTokens,
		TrimSpace:          true,
		DateFormats:        DefaultDateFormats,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.DateFormats == nil {
		config.DateFormats = DefaultDateFormats
	}
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// Cell is one coerced value
type Cell struct {
	Kind    dataset.Kind
	Number  float64
	Text    string
	Time    time.Time
	Missing bool
}

// IsMissing reports whether raw is a missing-value token
func (c *TypeCoercer) IsMissing(raw string) bool {
	if c.config.TrimSpace {
		raw = strings.TrimSpace(raw)
	}
	return c.missing[raw]
}

// CoerceValue converts a single raw value, trying number, then timestamp,
// then text.
func (c *TypeCoercer) CoerceValue(rawValue interface{}) Cell {
	switch v := rawValue.(type) {
	case nil:
		return Cell{Missing: true}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Cell{Missing: true}
		}
		return Cell{Kind: dataset.KindNumeric, Number: v}
	case time.Time:
		if v.IsZero() {
			return Cell{Missing: true}
		}
		return Cell{Kind: dataset.KindDate, Time: v}
	}

	strVal := c.clean(c.toString(rawValue))
	if c.missing[strVal] {
		return Cell{Missing: true}
	}
	if n, ok := dataset.ParseReal(strVal); ok {
		return Cell{Kind: dataset.KindNumeric, Number: n}
	}
	if ts, ok := c.tryParseTimestamp(strVal); ok {
		return Cell{Kind: dataset.KindDate, Time: ts}
	}
	return Cell{Kind: dataset.KindText, Text: strVal}
}

// TypeAnalysis contains the result of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int          `json:"total_count"`
	ValidCount      int          `json:"valid_count"`
	NumericCount    int          `json:"numeric_count"`
	TimestampCount  int          `json:"timestamp_count"`
	NumericRatio    float64      `json:"numeric_ratio"`
	TimestampRatio  float64      `json:"timestamp_ratio"`
	RecommendedKind dataset.Kind `json:"recommended_kind"`
}

// AnalyzeTypeDistribution counts how many non-missing cells parse as each
// kind and recommends one. An all-missing column is numeric.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}
	for _, raw := range values {
		s := c.clean(raw)
		if c.missing[s] {
			continue
		}
		analysis.ValidCount++
		if _, ok := dataset.ParseReal(s); ok {
			analysis.NumericCount++
		}
		if _, ok := c.tryParseTimestamp(s); ok {
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount == 0 {
		analysis.RecommendedKind = dataset.KindNumeric
		return analysis
	}
	analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	analysis.TimestampRatio = float64(analysis.TimestampCount) / float64(analysis.ValidCount)
	analysis.RecommendedKind = c.determineRecommendedKind(analysis)
	return analysis
}

// InferColumn builds a typed column from raw cells. Identifier columns keep
// their text verbatim.
func (c *TypeCoercer) InferColumn(name string, values []string, identifier bool) (dataset.Column, TypeAnalysis) {
	if identifier {
		return c.BuildColumn(name, values, dataset.KindIdentifier), TypeAnalysis{
			TotalCount:      len(values),
			RecommendedKind: dataset.KindIdentifier,
		}
	}
	analysis := c.AnalyzeTypeDistribution(values)
	return c.BuildColumn(name, values, analysis.RecommendedKind), analysis
}

// BuildColumn coerces every cell to kind. Cells that are missing tokens or
// do not parse as kind become missing.
func (c *TypeCoercer) BuildColumn(name string, values []string, kind dataset.Kind) dataset.Column {
	valid := make([]bool, len(values))
	switch kind {
	case dataset.KindNumeric:
		nums := make([]float64, len(values))
		for i, raw := range values {
			nums[i] = dataset.NA
			s := c.clean(raw)
			if c.missing[s] {
				continue
			}
			if v, ok := dataset.ParseReal(s); ok {
				nums[i] = v
			}
		}
		return dataset.NewNumericColumn(name, nums)
	case dataset.KindDate:
		times := make([]time.Time, len(values))
		for i, raw := range values {
			s := c.clean(raw)
			if c.missing[s] {
				continue
			}
			times[i], valid[i] = c.tryParseTimestamp(s)
		}
		return dataset.NewDateColumn(name, times, valid)
	case dataset.KindIdentifier:
		texts := make([]string, len(values))
		for i, raw := range values {
			texts[i] = c.clean(raw)
			valid[i] = !c.missing[texts[i]]
		}
		return dataset.NewIdentifierColumn(name, texts, valid)
	default:
		texts := make([]string, len(values))
		for i, raw := range values {
			texts[i] = c.clean(raw)
			valid[i] = !c.missing[texts[i]]
		}
		return dataset.NewTextColumn(name, texts, valid)
	}
}

func (c *TypeCoercer) clean(s string) string {
	if c.config.TrimSpace {
		return strings.TrimSpace(s)
	}
	return s
}

// tryParseTimestamp attempts each configured layout in order
func (c *TypeCoercer) tryParseTimestamp(strVal string) (time.Time, bool) {
	if strVal == "" {
		return time.Time{}, false
	}
	for _, format := range c.config.DateFormats {
		if t, err := time.Parse(format, strVal); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toString converts interface{} to string safely
func (c *TypeCoercer) toString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// determineRecommendedKind checks thresholds, most restrictive first
func (c *TypeCoercer) determineRecommendedKind(analysis TypeAnalysis) dataset.Kind {
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.KindNumeric
	}
	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return dataset.KindDate
	}
	return dataset.KindText
}
