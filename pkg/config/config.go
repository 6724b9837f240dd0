// Package config provides configuration loading and validation for intervalcov.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/henderiw/intervalcov/pkg/keyspace"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/labels"
)

// Sentinel validation errors.
var (
	ErrInvalidKey       = errors.New("invalid key kind")
	ErrInvalidOutput    = errors.New("invalid output format")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidSelector  = errors.New("invalid label selector")
	ErrConflictingScan  = errors.New("search range conflicts with search start/end")
)

const EnvPrefix = "INTERVALCOV"

var (
	outputFormats = []string{"auto", "plain", "table"}
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
)

type Config struct {
	Input   InputConfig   `mapstructure:"input" yaml:"input"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type InputConfig struct {
	// Extent reads the second column as a length.
	Extent   bool   `mapstructure:"extent" yaml:"extent"`
	Key      string `mapstructure:"key" yaml:"key"`
	Selector string `mapstructure:"selector" yaml:"selector"`
}

// SearchConfig bounds the scan. Empty values mean the minimum and maximum
// key of the selected key kind.
type SearchConfig struct {
	Start string `mapstructure:"start" yaml:"start"`
	End   string `mapstructure:"end" yaml:"end"`
	// Range is "start-end" and is mutually exclusive with Start/End.
	Range string `mapstructure:"range" yaml:"range"`
}

type OutputConfig struct {
	Format          string `mapstructure:"format" yaml:"format"`
	Verify          bool   `mapstructure:"verify" yaml:"verify"`
	MetricsTextfile string `mapstructure:"metrics_textfile" yaml:"metrics_textfile"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"extent":           "input.extent",
	"key":              "input.key",
	"selector":         "input.selector",
	"search-start":     "search.start",
	"search-end":       "search.end",
	"range":            "search.range",
	"output":           "output.format",
	"verify":           "output.verify",
	"metrics-textfile": "output.metrics_textfile",
	"log-level":        "logging.level",
	"log-format":       "logging.format",
}

// Load builds the configuration from defaults, an optional config file, the
// environment and flags, in increasing order of precedence. Flags missing
// from fs are skipped.
func Load(configPath string, fs *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if fs != nil {
		for flag, key := range flagKeys {
			f := fs.Lookup(flag)
			if f == nil {
				continue
			}
			if err := viperCfg.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
		if err := viperCfg.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viperCfg.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("input.extent", false)
	viperCfg.SetDefault("input.key", keyspace.KindUint64)
	viperCfg.SetDefault("input.selector", "")

	viperCfg.SetDefault("search.start", "")
	viperCfg.SetDefault("search.end", "")
	viperCfg.SetDefault("search.range", "")

	viperCfg.SetDefault("output.format", "auto")
	viperCfg.SetDefault("output.verify", false)
	viperCfg.SetDefault("output.metrics_textfile", "")

	viperCfg.SetDefault("logging.level", "warn")
	viperCfg.SetDefault("logging.format", "text")
}

// Validate checks the values that do not depend on the key kind. Scan
// bounds are parsed later against the selected key space.
func (c *Config) Validate() error {
	var errm error
	if !keyspace.IsKind(c.Input.Key) {
		errm = errors.Join(errm, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidKey, c.Input.Key, strings.Join(keyspace.Kinds, ", ")))
	}
	if !slices.Contains(outputFormats, c.Output.Format) {
		errm = errors.Join(errm, fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output.Format))
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		errm = errors.Join(errm, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		errm = errors.Join(errm, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format))
	}
	if _, err := c.Selector(); err != nil {
		errm = errors.Join(errm, err)
	}
	if c.Search.Range != "" && (c.Search.Start != "" || c.Search.End != "") {
		errm = errors.Join(errm, ErrConflictingScan)
	}
	return errm
}

// Selector parses the input label selector. An empty selector matches
// everything.
func (c *Config) Selector() (labels.Selector, error) {
	if c.Input.Selector == "" {
		return labels.Everything(), nil
	}
	sel, err := labels.Parse(c.Input.Selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelector, err)
	}
	return sel, nil
}

// Dump renders the effective configuration as YAML.
func (c *Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}
