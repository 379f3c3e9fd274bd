// Package config provides configuration loading for the s2dm tool.
// Configuration is resolved from defaults, an optional JSON file layer,
// and S2DM_* environment overrides, in that order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mfkaptan-motius/s2dm/errors"
)

// Log format values accepted by the CLI
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Defaults applied before the file layer and environment overrides
const (
	DefaultConceptNamespace = "https://example.org/vss#"
	DefaultConceptPrefix    = "ns"
)

// Config represents the complete tool configuration
type Config struct {
	LogLevel         string `json:"log_level"`                // debug, info, warn, error
	LogFormat        string `json:"log_format"`               // text or json
	ConceptNamespace string `json:"concept_namespace"`        // namespace URI for concept URIs
	ConceptPrefix    string `json:"concept_prefix"`           // CURIE prefix bound to the namespace
	InspectorPath    string `json:"inspector_path,omitempty"` // node_modules path holding graphql-inspector
}

// Loader handles configuration loading with a file layer and env overrides
type Loader struct {
	path      string
	envPrefix string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		envPrefix: "S2DM",
	}
}

// SetFile sets the optional configuration file layer
func (l *Loader) SetFile(path string) {
	l.path = path
}

// Load resolves the configuration: defaults, then file layer, then env overrides
func (l *Loader) Load() (*Config, error) {
	cfg := l.getDefaults()

	if l.path != "" {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", "read config file")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "Load", "parse config file")
		}
	}

	l.applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getDefaults returns the default configuration
func (l *Loader) getDefaults() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        LogFormatText,
		ConceptNamespace: DefaultConceptNamespace,
		ConceptPrefix:    DefaultConceptPrefix,
	}
}

// applyEnvOverrides applies environment variable overrides
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(l.envPrefix + "_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv(l.envPrefix + "_LOG_FORMAT"); val != "" {
		cfg.LogFormat = val
	}
	if val := os.Getenv(l.envPrefix + "_CONCEPT_NAMESPACE"); val != "" {
		cfg.ConceptNamespace = val
	}
	if val := os.Getenv(l.envPrefix + "_CONCEPT_PREFIX"); val != "" {
		cfg.ConceptPrefix = val
	}
	if val := os.Getenv(l.envPrefix + "_INSPECTOR_PATH"); val != "" {
		cfg.InspectorPath = val
	}
}

// Validate checks the configuration for values the tool cannot run with
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown log level %q", errors.ErrInvalidConfig, c.LogLevel),
			"Config", "Validate", "check log level")
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown log format %q", errors.ErrInvalidConfig, c.LogFormat),
			"Config", "Validate", "check log format")
	}

	if c.ConceptNamespace == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: concept namespace is empty", errors.ErrInvalidConfig),
			"Config", "Validate", "check concept namespace")
	}

	if c.ConceptPrefix == "" || strings.ContainsAny(c.ConceptPrefix, ": \t") {
		return errors.WrapInvalid(
			fmt.Errorf("%w: concept prefix %q is not a valid CURIE prefix", errors.ErrInvalidConfig, c.ConceptPrefix),
			"Config", "Validate", "check concept prefix")
	}

	return nil
}
