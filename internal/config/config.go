package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

// Module loads the process configuration once and shares it with fx consumers.
var Module = fx.Module("config",
	fx.Provide(Load),
)

// Config is the process configuration. Values come from an optional YAML file
// pointed at by POWERCEE_CONFIG, with environment variables taking precedence.
type Config struct {
	Environment string        `yaml:"environment"`
	ServiceName string        `yaml:"service_name"`
	HTTP        HTTPConfig    `yaml:"http"`
	Database    DBConfig      `yaml:"database"`
	Tracing     TracingConfig `yaml:"tracing"`
	Seed        SeedConfig    `yaml:"seed"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DBConfig struct {
	Driver string `yaml:"driver"` // postgres | sqlite
	DSN    string `yaml:"dsn"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	OTLPProtocol string  `yaml:"otlp_protocol"` // grpc | http
	SampleRatio  float64 `yaml:"sample_ratio"`
}

type SeedConfig struct {
	// Demo loads a small demo catalog and valuation grid on startup, for
	// local environments only.
	Demo bool `yaml:"demo"`
}

func Load() (Config, error) {
	cfg := Config{
		Environment: "development",
		ServiceName: "powercee",
		HTTP:        HTTPConfig{Addr: ":8080"},
		Database:    DBConfig{Driver: "sqlite", DSN: "file:powercee.db?cache=shared"},
	}

	if path := strings.TrimSpace(os.Getenv("POWERCEE_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	overrideString(&cfg.Environment, "POWERCEE_ENV")
	overrideString(&cfg.ServiceName, "POWERCEE_SERVICE_NAME")
	overrideString(&cfg.HTTP.Addr, "POWERCEE_HTTP_ADDR")
	overrideString(&cfg.Database.Driver, "POWERCEE_DB_DRIVER")
	overrideString(&cfg.Database.DSN, "POWERCEE_DB_DSN")
	overrideBool(&cfg.Tracing.Enabled, "POWERCEE_TRACING_ENABLED")
	overrideString(&cfg.Tracing.OTLPEndpoint, "POWERCEE_OTLP_ENDPOINT")
	overrideString(&cfg.Tracing.OTLPProtocol, "POWERCEE_OTLP_PROTOCOL")
	overrideFloat(&cfg.Tracing.SampleRatio, "POWERCEE_TRACE_SAMPLE_RATIO")
	overrideBool(&cfg.Seed.Demo, "POWERCEE_SEED_DEMO")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c Config) validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("http addr is required")
	}
	return nil
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func overrideFloat(target *float64, key string) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return
	}
	*target = parsed
}

func overrideBool(target *bool, key string) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return
	}
	*target = parsed
}
