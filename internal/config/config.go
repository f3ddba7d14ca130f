// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. MEALMAP_SERVER_PORT.
const EnvPrefix = "MEALMAP"

type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Sources SourcesConfig `yaml:"sources" envconfig:"SOURCES"`
	Loader  LoaderConfig  `yaml:"loader" envconfig:"LOADER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8011" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50" validate:"gte=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"100" validate:"gte=0"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type SourcesConfig struct {
	Frequency string `yaml:"frequency" envconfig:"FREQUENCY" default:"data/data1.csv" validate:"required"`
	Nutrition string `yaml:"nutrition" envconfig:"NUTRITION" default:"data/avg_foods.csv"`
	ClassMap  string `yaml:"class_map" envconfig:"CLASS_MAP"`
}

type LoaderConfig struct {
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s" validate:"gt=0"`
	Strict   bool          `yaml:"strict" envconfig:"STRICT" default:"false"`
	MaxBytes int64         `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"10485760" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
}

// Load resolves configuration from defaults, a .env file in the working
// directory, MEALMAP_* environment variables and, if path is set, a YAML
// file whose fields override the rest.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.String("error", err.Error()))
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var result *multierror.Error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, fmt.Errorf("%s: must satisfy %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return result.ErrorOrNil()
}
