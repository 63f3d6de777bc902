package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tabstat/adapters/stats/plotdata"
	"tabstat/internal"
	"tabstat/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. TABSTAT_STATS_SCATTER_CAP
const EnvPrefix = "TABSTAT"

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig     `mapstructure:"data" yaml:"data"`
	Stats    StatsConfig    `mapstructure:"stats" yaml:"stats"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DataConfig holds table loading settings
type DataConfig struct {
	File        string   `mapstructure:"file" yaml:"file"`
	Sheet       string   `mapstructure:"sheet" yaml:"sheet"`
	SampleRows  int      `mapstructure:"sample_rows" yaml:"sample_rows"`
	Identifiers []string `mapstructure:"identifiers" yaml:"identifiers"`
}

// StatsConfig holds engine and series settings
type StatsConfig struct {
	Exclude       []string `mapstructure:"exclude" yaml:"exclude"`               // dropped from every numeric view
	MatrixExclude []string `mapstructure:"matrix_exclude" yaml:"matrix_exclude"` // dropped from covariance/correlation only
	ScatterCap    int      `mapstructure:"scatter_cap" yaml:"scatter_cap"`
	ScatterSeed   int64    `mapstructure:"scatter_seed" yaml:"scatter_seed"`
	HistogramBins int      `mapstructure:"histogram_bins" yaml:"histogram_bins"`
}

// RenderConfig holds chart output settings; sizes are in inches
type RenderConfig struct {
	OutputDir string  `mapstructure:"output_dir" yaml:"output_dir"`
	Width     float64 `mapstructure:"width" yaml:"width"`
	Height    float64 `mapstructure:"height" yaml:"height"`
}

// DatabaseConfig holds the optional SQL table source settings
type DatabaseConfig struct {
	URL     string `mapstructure:"url" yaml:"url"`
	MaxRows int    `mapstructure:"max_rows" yaml:"max_rows"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Stats: StatsConfig{
			Exclude:       []string{},
			MatrixExclude: []string{},
			ScatterCap:    10000,
			ScatterSeed:   42,
			HistogramBins: 10,
		},
		Render: RenderConfig{
			OutputDir: "charts",
			Width:     6,
			Height:    4,
		},
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment. Precedence: env > config file > defaults. An empty cfgFile
// looks for tabstat.yaml in the working directory.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())
	if err := bindLegacyEnv(v); err != nil {
		return nil, errors.Wrap(err, "failed to bind environment")
	}

	if err := loadConfigFile(v, cfgFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("unmarshal config: %w", err))
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data.file", d.Data.File)
	v.SetDefault("data.sheet", d.Data.Sheet)
	v.SetDefault("data.sample_rows", d.Data.SampleRows)
	v.SetDefault("data.identifiers", []string{})

	v.SetDefault("stats.exclude", d.Stats.Exclude)
	v.SetDefault("stats.matrix_exclude", d.Stats.MatrixExclude)
	v.SetDefault("stats.scatter_cap", d.Stats.ScatterCap)
	v.SetDefault("stats.scatter_seed", d.Stats.ScatterSeed)
	v.SetDefault("stats.histogram_bins", d.Stats.HistogramBins)

	v.SetDefault("render.output_dir", d.Render.OutputDir)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)

	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.max_rows", d.Database.MaxRows)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
}

// bindLegacyEnv keeps the unprefixed variables working next to the
// TABSTAT_ ones
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"database.url": {EnvPrefix + "_DATABASE_URL", "DATABASE_URL"},
		"server.port":  {EnvPrefix + "_SERVER_PORT", "PORT"},
		"log.level":    {EnvPrefix + "_LOG_LEVEL", "LOG_LEVEL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

func loadConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("config file %s: %v", cfgFile, err))
		}
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("read config: %w", err))
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName("tabstat")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("read config: %w", err))
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Stats.ScatterCap <= 0 {
		return errors.ConfigInvalid("stats.scatter_cap must be positive")
	}
	if cfg.Stats.HistogramBins <= 0 {
		return errors.ConfigInvalid("stats.histogram_bins must be positive")
	}
	if cfg.Stats.HistogramBins > plotdata.MaxHistogramBins {
		return errors.ConfigInvalid(fmt.Sprintf("stats.histogram_bins must be at most %d", plotdata.MaxHistogramBins))
	}
	if cfg.Data.SampleRows < 0 {
		return errors.ConfigInvalid("data.sample_rows must not be negative")
	}
	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		return errors.ConfigInvalid("render.width and render.height must be positive")
	}
	if _, ok := internal.ParseLogLevel(cfg.Log.Level); !ok {
		return errors.ConfigInvalid(fmt.Sprintf("unknown log level %q", cfg.Log.Level))
	}
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("server.port is required")
	}
	return nil
}

// Logger returns a logger at the configured level
func (c *Config) Logger() *internal.Logger {
	level, ok := internal.ParseLogLevel(c.Log.Level)
	if !ok {
		level = internal.LogLevelInfo
	}
	return internal.NewLogger(level)
}

// Save writes cfg as YAML to path
func Save(cfg *Config, path string) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
