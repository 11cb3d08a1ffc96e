package participant

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/viant/participant/internal/env"
	"github.com/viant/participant/keyspace"
	"github.com/viant/participant/validator"
	"gopkg.in/yaml.v3"
)

// Store kinds accepted by StoreConfig.Kind.
const (
	StoreMemory   = "memory"
	StoreFS       = "fs"
	StorePebble   = "pebble"
	StoreBolt     = "bolt"
	StorePostgres = "postgres"
	StoreS3       = "s3"
	StoreNone     = "none"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON, YAML, TOML or environment variables.
type Config struct {
	AppName   string          `json:"appName" yaml:"appName" toml:"appName"`
	Prefix    string          `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix"`
	Store     StoreConfig     `json:"store" yaml:"store" toml:"store"`
	Validator ValidatorConfig `json:"validator,omitempty" yaml:"validator,omitempty" toml:"validator"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty" toml:"logging"`
	Tracing   TracingConfig   `json:"tracing,omitempty" yaml:"tracing,omitempty" toml:"tracing"`
}

type StoreConfig struct {
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	// Path is the fs base URL, the pebble directory or the bolt file.
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path"`
	// URL is the postgres connection string or the s3 http(s)://endpoint/bucket location.
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url"`
	// Table is the postgres table, the bolt bucket or the s3 bucket.
	Table string `json:"table,omitempty" yaml:"table,omitempty" toml:"table"`
}

// ValidatorConfig enables the remote validator when URL is set and the
// CEL expression validator when Expression is set. With both, a candidate
// must pass the expression first, then the remote check.
type ValidatorConfig struct {
	URL        string        `json:"url,omitempty" yaml:"url,omitempty" toml:"url"`
	Expression string        `json:"expression,omitempty" yaml:"expression,omitempty" toml:"expression"`
	Timeout    time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout"`
}

type LoggingConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty" toml:"level"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty" toml:"format"`
	TimeFormat string `json:"timeFormat,omitempty" yaml:"timeFormat,omitempty" toml:"timeFormat"`
	File       string `json:"file,omitempty" yaml:"file,omitempty" toml:"file"`
}

type TracingConfig struct {
	Enabled     bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty" toml:"serviceName"`
	OutputFile  string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" toml:"outputFile"`
}

// DefaultConfig returns a Config with an in-memory store and the default
// prefix. AppName is left empty and must be set.
func DefaultConfig() *Config {
	return &Config{
		Prefix:    keyspace.DefaultPrefix,
		Store:     StoreConfig{Kind: StoreMemory},
		Validator: ValidatorConfig{Timeout: validator.DefaultTimeout},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Tracing:   TracingConfig{ServiceName: "participant"},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	var errs []error
	if c.AppName == "" {
		errs = append(errs, errors.New("appName is required"))
	}
	switch c.Store.Kind {
	case StoreMemory, StoreNone:
	case StoreFS, StorePebble, StoreBolt:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for %s", c.Store.Kind))
		}
	case StorePostgres, StoreS3:
	default:
		errs = append(errs, fmt.Errorf("unsupported store.kind %q", c.Store.Kind))
	}
	if c.Validator.Expression != "" {
		if _, err := validator.NewExpression(c.Validator.Expression); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Validator.Timeout < 0 {
		errs = append(errs, errors.New("validator.timeout must be >= 0"))
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unsupported logging.format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML, TOML or JSON file over DefaultConfig. ${VAR}
// references are expanded before decoding, and PARTICIPANT_APP,
// PARTICIPANT_PREFIX, PARTICIPANT_STORE and PARTICIPANT_STORE_PATH override
// the decoded values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal([]byte(expanded), cfg)
	case ".toml":
		_, err = toml.Decode(expanded, cfg)
	case ".json":
		err = json.Unmarshal([]byte(expanded), cfg)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from PARTICIPANT_* environment variables.
func (c *Config) ApplyEnv() {
	c.AppName = env.String("PARTICIPANT_APP", c.AppName)
	c.Prefix = env.String("PARTICIPANT_PREFIX", c.Prefix)
	c.Store.Kind = env.String("PARTICIPANT_STORE", c.Store.Kind)
	c.Store.Path = env.String("PARTICIPANT_STORE_PATH", c.Store.Path)
}
