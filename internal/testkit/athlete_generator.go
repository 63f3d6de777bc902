package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"tabstat/domain/dataset"
)

// AthleteGeneratorConfig configures the synthetic athlete table
type AthleteGeneratorConfig struct {
	Seed        int64   `json:"seed"`
	MissingRate float64 `json:"missing_rate"` // share of missing HEIGHT/WEIGHT cells
	MedalRate   float64 `json:"medal_rate"`
	FirstYear   int     `json:"first_year"`
	LastYear    int     `json:"last_year"`
}

// DefaultAthleteConfig returns the defaults used by the fixtures
func DefaultAthleteConfig() AthleteGeneratorConfig {
	return AthleteGeneratorConfig{
		Seed:        42,
		MissingRate: 0.1,
		MedalRate:   0.15,
		FirstYear:   1992,
		LastYear:    2016,
	}
}

// AthleteColumns is the header of every generated table
var AthleteColumns = []string{"ID", "NAME", "SEX", "AGE", "HEIGHT", "WEIGHT", "TEAM", "YEAR", "SPORT", "MEDAL"}

var (
	teams  = []string{"Brazil", "Canada", "France", "Japan", "Kenya", "Norway", "USA"}
	sports = []string{"Athletics", "Rowing", "Swimming", "Judo", "Cycling"}
	medals = []string{"Gold", "Silver", "Bronze"}
)

// AthleteGenerator produces a reproducible games-results table. The same
// seed and row count always yield the same table.
type AthleteGenerator struct {
	config AthleteGeneratorConfig
	rng    *rand.Rand
}

// NewAthleteGenerator creates a generator with the default config and seed
func NewAthleteGenerator(seed int64) *AthleteGenerator {
	cfg := DefaultAthleteConfig()
	cfg.Seed = seed
	return NewAthleteGeneratorWithConfig(cfg)
}

// NewAthleteGeneratorWithConfig creates a generator from config
func NewAthleteGeneratorWithConfig(config AthleteGeneratorConfig) *AthleteGenerator {
	return &AthleteGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records returns the header followed by rows of string cells, with ""
// for missing cells.
func (g *AthleteGenerator) Records(rows int) [][]string {
	out := make([][]string, 0, rows+1)
	out = append(out, append([]string(nil), AthleteColumns...))

	years := g.gameYears()
	for i := 0; i < rows; i++ {
		sex := "M"
		heightMean, weightMean := 180.0, 78.0
		if g.rng.Intn(2) == 0 {
			sex = "F"
			heightMean, weightMean = 168.0, 62.0
		}
		height := heightMean + g.rng.NormFloat64()*8
		weight := weightMean + (height-heightMean)*0.6 + g.rng.NormFloat64()*5

		record := []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("Athlete %04d", i+1),
			sex,
			strconv.Itoa(18 + g.rng.Intn(20)),
			g.maybe(math.Round(height)),
			g.maybe(math.Round(weight*10) / 10),
			teams[g.rng.Intn(len(teams))],
			strconv.Itoa(years[g.rng.Intn(len(years))]),
			sports[g.rng.Intn(len(sports))],
			"",
		}
		if g.rng.Float64() < g.config.MedalRate {
			record[9] = medals[g.rng.Intn(len(medals))]
		}
		out = append(out, record)
	}
	return out
}

// Table returns the generated rows as a typed table: ID is an identifier,
// AGE/HEIGHT/WEIGHT/YEAR are numeric and the rest is text.
func (g *AthleteGenerator) Table(rows int) *dataset.Table {
	records := g.Records(rows)
	body := records[1:]

	column := func(idx int) []string {
		out := make([]string, len(body))
		for r, rec := range body {
			out[r] = rec[idx]
		}
		return out
	}
	numeric := func(idx int) *dataset.NumericColumn {
		raw := column(idx)
		values := make([]float64, len(raw))
		for r, s := range raw {
			v, ok := dataset.ParseReal(s)
			if !ok {
				v = dataset.NA
			}
			values[r] = v
		}
		return dataset.NewNumericColumn(AthleteColumns[idx], values)
	}
	text := func(idx int) *dataset.TextColumn {
		return dataset.NewTextColumn(AthleteColumns[idx], column(idx), nil)
	}

	return dataset.MustTable(
		dataset.NewIdentifierColumn("ID", column(0), nil),
		text(1),
		text(2),
		numeric(3),
		numeric(4),
		numeric(5),
		text(6),
		numeric(7),
		text(8),
		text(9),
	)
}

// WriteCSV writes the generated rows as CSV
func (g *AthleteGenerator) WriteCSV(w io.Writer, rows int) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(g.Records(rows)); err != nil {
		return fmt.Errorf("failed to write athlete csv: %w", err)
	}
	return nil
}

func (g *AthleteGenerator) gameYears() []int {
	var years []int
	for y := g.config.FirstYear; y <= g.config.LastYear; y += 4 {
		years = append(years, y)
	}
	if len(years) == 0 {
		years = append(years, g.config.FirstYear)
	}
	return years
}

func (g *AthleteGenerator) maybe(v float64) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
