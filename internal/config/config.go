package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/palette"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Model    ModelConfig    `yaml:"model"`
	Weights  WeightsConfig  `yaml:"weights"`
	Chart    ChartConfig    `yaml:"chart"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port              int `yaml:"port" validate:"min=1,max=65535"`
	MetricsPort       int `yaml:"metrics_port" validate:"min=1,max=65535,nefield=Port"`
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"min=1"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// ModelConfig pairs the category names with their comparison matrix. Row i of the
// matrix applies to whichever category sits at position i after sorting by rank.
type ModelConfig struct {
	Categories []string    `yaml:"categories" validate:"min=1,unique,dive,required"`
	Matrix     [][]float64 `yaml:"matrix" validate:"min=1"`
}

type WeightsConfig struct {
	// Rescale divides the one-pass scores by their total so the weights sum to 1.
	Rescale bool `yaml:"rescale"`
}

type ChartConfig struct {
	Colors string `yaml:"colors" validate:"oneof=random stable"`
	Size   int    `yaml:"size" validate:"min=50,max=2000"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Matrix returns the configured comparison matrix.
func (c *Config) Matrix() ahp.Matrix {
	return ahp.Matrix(c.Model.Matrix).Clone()
}

// ColorMode returns the parsed chart colour mode.
func (c *Config) ColorMode() palette.Mode {
	mode, err := palette.ParseMode(c.Chart.Colors)
	if err != nil {
		return palette.ModeRandom
	}
	return mode
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RequestsPerMinute: 120,
		},
		Hermes: HermesConfig{},
		Model: ModelConfig{
			Categories: append([]string(nil), budget.DefaultNames...),
			Matrix:     ahp.DefaultMatrix(),
		},
		Weights: WeightsConfig{
			Rescale: true,
		},
		Chart: ChartConfig{
			Colors: string(palette.ModeRandom),
			Size:   320,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// A file that sets categories must also set the matching matrix.
		cfg.Model = ModelConfig{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Model.Categories) == 0 && len(cfg.Model.Matrix) == 0 {
			cfg.Model = Default().Model
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and that the matrix is N×N for N categories.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	m := ahp.Matrix(c.Model.Matrix)
	if err := m.Validate(); err != nil {
		return fmt.Errorf("model.matrix: %w", err)
	}
	if m.Size() != len(c.Model.Categories) {
		return fmt.Errorf("model.matrix is %d×%d but %d categories are configured",
			m.Size(), m.Size(), len(c.Model.Categories))
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APPORTION_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("APPORTION_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("APPORTION_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("APPORTION_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("APPORTION_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("APPORTION_RESCALE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Weights.Rescale = b
		}
	}
	if v := os.Getenv("APPORTION_CHART_COLORS"); v != "" {
		cfg.Chart.Colors = v
	}
	if v := os.Getenv("APPORTION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("APPORTION_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
