package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

// Config holds all configuration for the ensuresimd CLI
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Audit  AuditConfig  `mapstructure:"audit"`
	Report ReportConfig `mapstructure:"report"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// AuditConfig holds the build matrix used by the audit command
type AuditConfig struct {
	Package     string         `mapstructure:"package"`
	Parallelism int            `mapstructure:"parallelism"`
	Timeout     time.Duration  `mapstructure:"timeout"` // per target build
	Progress    bool           `mapstructure:"progress"`
	Targets     []TargetConfig `mapstructure:"targets"`
}

// TargetConfig is one entry of the audit matrix
type TargetConfig struct {
	GOOS    string   `mapstructure:"goos"`
	GOARCH  string   `mapstructure:"goarch"`
	GOAMD64 string   `mapstructure:"goamd64"`
	Tags    []string `mapstructure:"tags"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	Format string `mapstructure:"format"` // text, json or yaml
}

// Target converts the entry to a build target.
func (t TargetConfig) Target() baseline.Target {
	goos := t.GOOS
	if goos == "" {
		goos = "linux"
	}
	return baseline.Target{
		GOOS:    goos,
		GOARCH:  t.GOARCH,
		GOAMD64: t.GOAMD64,
		Tags:    t.Tags,
	}
}

// DefaultTargets is the audit matrix used when none is configured. It covers
// each branch of the gate: amd64 with and without AVX2, the opt-out, arm64
// and an architecture without a baseline.
func DefaultTargets() []TargetConfig {
	return []TargetConfig{
		{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v1"},
		{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v3"},
		{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v1", Tags: []string{baseline.OptOutTag}},
		{GOOS: "linux", GOARCH: "arm64"},
		{GOOS: "linux", GOARCH: "riscv64"},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Audit: AuditConfig{
			Package:     ".",
			Parallelism: 2,
			Timeout:     5 * time.Minute,
			Progress:    true,
			Targets:     DefaultTargets(),
		},
		Report: ReportConfig{
			Format: "text",
		},
	}
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	return LoadWith(viper.GetViper(), configPath)
}

// LoadWith loads configuration through v, so callers can bind flags to it first.
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".ensuresimd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	// Defaults make the scalar keys visible to AutomaticEnv
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("audit.package", cfg.Audit.Package)
	v.SetDefault("audit.parallelism", cfg.Audit.Parallelism)
	v.SetDefault("audit.timeout", cfg.Audit.Timeout)
	v.SetDefault("audit.progress", cfg.Audit.Progress)
	v.SetDefault("report.format", cfg.Report.Format)

	// Environment variables
	v.SetEnvPrefix("ENSURESIMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// A configured matrix replaces the default one instead of merging into it
	cfg.Audit.Targets = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Audit.Targets) == 0 {
		cfg.Audit.Targets = DefaultTargets()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the CLI cannot act on
func (c *Config) Validate() error {
	if _, err := c.Log.ZerologLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: want console or json", c.Log.Format)
	}
	switch c.Report.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid report format %q: want text, json or yaml", c.Report.Format)
	}
	if c.Audit.Parallelism <= 0 {
		return fmt.Errorf("audit parallelism must be positive, got %d", c.Audit.Parallelism)
	}
	if c.Audit.Timeout <= 0 {
		return fmt.Errorf("audit timeout must be positive, got %s", c.Audit.Timeout)
	}
	if len(c.Audit.Targets) == 0 {
		return errors.New("audit matrix has no targets")
	}
	for _, t := range c.Audit.Targets {
		if err := t.Target().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ZerologLevel parses the configured level
func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "off", "disabled":
		return zerolog.Disabled, nil
	default:
		level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(l.Level)))
		if err != nil {
			return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", l.Level, err)
		}
		return level, nil
	}
}
