package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Config is the file configuration shared by the CLI and the prover daemon
type Config struct {
	Params Params       `yaml:"params"`
	Log    LogConfig    `yaml:"log"`
	Prover ProverConfig `yaml:"prover"`
	Store  StoreConfig  `yaml:"store"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level       string   `yaml:"level"`
	Format      string   `yaml:"format"`
	OutputPaths []string `yaml:"output_paths"`
}

// ProverConfig selects and configures the proof backend
type ProverConfig struct {
	Backend string        `yaml:"backend"` // exec or grpc
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Address string        `yaml:"address"`
	Listen  string        `yaml:"listen"`
	Timeout time.Duration `yaml:"timeout"`

	WitnessGenerator string `yaml:"witness_generator"`
	ProvingKey       string `yaml:"proving_key"`
}

// StoreConfig selects the signed pod store
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite or redis
	DSN    string `yaml:"dsn"`
}

// DefaultConfig returns a configuration usable without a file
func DefaultConfig() *Config {
	return &Config{
		Params: *DefaultParams(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Prover: ProverConfig{
			Backend: "exec",
			Listen:  "127.0.0.1:7420",
			Timeout: 10 * time.Minute,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults. Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, core.Wrap(core.CodeInvalidParams, "malformed config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return core.Errorf(core.CodeInvalidParams, "log format must be 'text' or 'json', got '%s'", c.Log.Format)
	}

	switch c.Prover.Backend {
	case "", "exec":
	case "grpc":
		if c.Prover.Address == "" {
			return core.Errorf(core.CodeInvalidParams, "grpc prover backend needs an address")
		}
	default:
		return core.Errorf(core.CodeInvalidParams, "prover backend must be 'exec' or 'grpc', got '%s'", c.Prover.Backend)
	}

	if c.Prover.Timeout < 0 {
		return core.Errorf(core.CodeInvalidParams, "prover timeout must not be negative")
	}

	switch c.Store.Driver {
	case "", "memory":
	case "sqlite", "redis":
		if c.Store.DSN == "" {
			return core.Errorf(core.CodeInvalidParams, "%s store needs a dsn", c.Store.Driver)
		}
	default:
		return core.Errorf(core.CodeInvalidParams, "store driver must be 'memory', 'sqlite' or 'redis', got '%s'", c.Store.Driver)
	}

	return nil
}
