package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/pkg/schema"
)

// Config represents the skit.yaml / skit.toml configuration file.
type Config struct {
	DatabaseURL string `yaml:"database_url" toml:"database_url"`
	Dialect     string `yaml:"dialect" toml:"dialect"`
	Driver      string `yaml:"driver" toml:"driver"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	Timeout     string `yaml:"timeout" toml:"timeout"` // per statement, e.g. "30s"
}

// getenv is swapped in tests.
var getenv = os.Getenv

// defaultConfigFiles are tried in order when --config is not given.
var defaultConfigFiles = []string{"skit.yaml", "skit.yml", "skit.toml"}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig(g *globalFlags, getenv func(string) string) (*Config, error) {
	cfg := &Config{LogLevel: "warn"}

	path, explicit := g.configFile, g.configFile != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if err := readConfigFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
		cfg.DatabaseURL = os.Expand(cfg.DatabaseURL, getenv)
		cfg.Dialect = os.Expand(cfg.Dialect, getenv)
		cfg.Driver = os.Expand(cfg.Driver, getenv)
	}

	// Env vars
	setFromEnv(&cfg.DatabaseURL, getenv, "SKIT_DATABASE_URL", "DATABASE_URL")
	setFromEnv(&cfg.Dialect, getenv, "SKIT_DIALECT")
	setFromEnv(&cfg.Driver, getenv, "SKIT_DRIVER")
	setFromEnv(&cfg.LogLevel, getenv, "SKIT_LOG_LEVEL")

	// CLI flags (highest priority)
	if g.databaseURL != "" {
		cfg.DatabaseURL = g.databaseURL
	}
	if g.dialect != "" {
		cfg.Dialect = g.dialect
	}
	if g.driver != "" {
		cfg.Driver = g.driver
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}

	return cfg, nil
}

// setFromEnv sets dst from the first non-empty variable in keys.
func setFromEnv(dst *string, getenv func(string) string, keys ...string) {
	for _, k := range keys {
		if v := getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

func findConfigFile() string {
	for _, name := range defaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// readConfigFile decodes path into cfg, picking the format from the
// extension. Unknown keys are rejected.
func readConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to parse config file").With("file", path)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to parse config file").With("file", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return alerr.New(alerr.ErrConfigInvalid, "unknown key in config file").
				With("file", path).
				With("key", undecoded[0].String())
		}
	default:
		return alerr.New(alerr.ErrConfigInvalid, "unsupported config file extension").
			With("file", path).
			WithHelp("use skit.yaml or skit.toml")
	}
	return nil
}

// dialectName is the dialect used for rendering: the configured one, else
// the one the URL selects, else postgres.
func (c *Config) dialectName() string {
	if c.Dialect != "" {
		return c.Dialect
	}
	if c.DatabaseURL != "" {
		return schema.DetectDialect(c.DatabaseURL)
	}
	return "postgres"
}

// newLogger builds the stderr text logger at the configured level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, alerr.New(alerr.ErrConfigInvalid, fmt.Sprintf("invalid log level %q", level)).
			WithHelp("use debug, info, warn or error")
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// managerOptions converts cfg into schema options.
func (c *Config) managerOptions(logger *slog.Logger) ([]schema.Option, error) {
	if c.DatabaseURL == "" {
		return nil, schema.ErrMissingDatabaseURL
	}

	opts := []schema.Option{
		schema.WithDatabaseURL(c.DatabaseURL),
		schema.WithLogger(logger),
	}
	if c.Dialect != "" {
		opts = append(opts, schema.WithDialect(c.Dialect))
	}
	if c.Driver != "" {
		opts = append(opts, schema.WithDriver(c.Driver))
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrConfigInvalid, err, "invalid timeout").With("timeout", c.Timeout)
		}
		opts = append(opts, schema.WithTimeout(d))
	}
	return opts, nil
}
