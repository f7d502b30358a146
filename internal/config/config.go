package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"commodity-forecast/internal/data"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
// Every field has a default, so an empty file (or no file) is valid.
type Config struct {
	Environment string         `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Server      ServerConfig   `yaml:"server"`
	Dataset     DatasetConfig  `yaml:"dataset"`
	Model       ModelConfig    `yaml:"model"`
	Forecast    ForecastConfig `yaml:"forecast"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	CORS        CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s" validate:"gt=0"`
}

type DatasetConfig struct {
	Path string `yaml:"path" default:"data/market_prices.csv" validate:"required"`
	// Format is csv or xlsx; empty infers it from the extension.
	Format     string        `yaml:"format" validate:"omitempty,oneof=csv xlsx"`
	Sheet      string        `yaml:"sheet"`
	DateLayout string        `yaml:"date_layout" default:"2006-01-02"`
	Columns    ColumnsConfig `yaml:"columns"`
}

type ColumnsConfig struct {
	Market   string `yaml:"market" default:"Market" validate:"required"`
	Variety  string `yaml:"variety" default:"Variety" validate:"required"`
	Date     string `yaml:"date" default:"Arrival Date" validate:"required"`
	MinPrice string `yaml:"min_price" default:"Minimum Price(Rs./Quintal)" validate:"required"`
	Arrivals string `yaml:"arrivals" default:"Arrivals (Tonnes)" validate:"required"`
}

type ModelConfig struct {
	Path string `yaml:"path" default:"models/model.yaml" validate:"required"`
}

type ForecastConfig struct {
	// MaxHorizon caps the days of one request.
	MaxHorizon int `yaml:"max_horizon" default:"365" validate:"gte=1"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics" validate:"startswith=/"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" default:"[\"*\"]"`
	AllowedMethods []string `yaml:"allowed_methods" default:"[\"GET\",\"POST\",\"OPTIONS\"]"`
	AllowedHeaders []string `yaml:"allowed_headers" default:"[\"Content-Type\",\"Authorization\"]"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set config defaults: %w", err)
	}
	return &c, nil
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads defaults and the file, but does not validate or
// apply the environment.
func LoadUnchecked(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv
// outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("API_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("API_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("API_ENV"); ok && v != "" {
		c.Environment = v
	}
	if v, ok := lookup("DATASET_PATH"); ok && v != "" {
		c.Dataset.Path = v
	}
	if v, ok := lookup("MODEL_PATH"); ok && v != "" {
		c.Model.Path = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.CORS.AllowedOrigins = strings.Split(v, ",")
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Production reports whether gin should run in release mode.
func (c *Config) Production() bool { return c.Environment == "production" }

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Server.Port) }

// LoadOptions converts the dataset section for data.LoadFile.
func (d DatasetConfig) LoadOptions() data.LoadOptions {
	return data.LoadOptions{
		Format:     d.Format,
		Sheet:      d.Sheet,
		DateLayout: d.DateLayout,
		Columns: data.Columns{
			Market:   d.Columns.Market,
			Variety:  d.Columns.Variety,
			Date:     d.Columns.Date,
			MinPrice: d.Columns.MinPrice,
			Arrivals: d.Columns.Arrivals,
		},
	}
}
