package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all kaleidod settings.
type Config struct {
	// ListenAddr is the address of the public HTTP API.
	ListenAddr string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`
	// MetricsAddr is the address of the Prometheus metrics server. Empty
	// disables metrics serving.
	MetricsAddr string `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`
	// EnablePprof exposes the pprof debugging API on the main listener.
	EnablePprof bool `yaml:"enable_pprof" envconfig:"ENABLE_PPROF"`
	// LogJSON switches log output from text to JSON.
	LogJSON bool `yaml:"log_json" envconfig:"LOG_JSON"`
	// LogDebug lowers the log level to debug.
	LogDebug bool `yaml:"log_debug" envconfig:"LOG_DEBUG"`
	// LogicVersion tags the engine implementation served by the logic table.
	LogicVersion string `yaml:"logic_version" envconfig:"LOGIC_VERSION"`

	// DrainDuration is the wait after marking not-ready before shutdown.
	DrainDuration time.Duration `yaml:"drain_duration" envconfig:"DRAIN_DURATION"`
	// GracefulShutdownDuration bounds the wait for in-flight requests.
	GracefulShutdownDuration time.Duration `yaml:"graceful_shutdown_duration" envconfig:"GRACEFUL_SHUTDOWN_DURATION"`
	// ReadTimeout and WriteTimeout bound HTTP request handling.
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds event journal connection settings. An empty host
// disables the journal.
type PostgresConfig struct {
	Host     string `yaml:"host" envconfig:"PG_HOST"`
	Port     int    `yaml:"port" envconfig:"PG_PORT"`
	User     string `yaml:"user" envconfig:"PG_USER"`
	Password string `yaml:"password" envconfig:"PG_PASSWORD"`
	Database string `yaml:"database" envconfig:"PG_DATABASE"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"PG_SSLMODE"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ListenAddr:               ":8080",
		MetricsAddr:              ":9090",
		LogicVersion:             "v1",
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
		Postgres: PostgresConfig{
			Port:    5432,
			SSLMode: "disable",
		},
	}
}

// Load reads the YAML file at path (when non-empty) over the defaults,
// then applies KALEIDO_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := envconfig.Process("KALEIDO", cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	return cfg, nil
}
