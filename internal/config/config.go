package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the orderdex configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Store   StoreConfig   `yaml:"store"`
	Auth    AuthConfig    `yaml:"auth"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Resolve ResolveConfig `yaml:"resolve"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StoreConfig holds run-store connection settings.
type StoreConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, sqlite, postgres (default: sqlite)
	Addrs            []string `yaml:"addrs"`  // redis/valkey addresses
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"` // sqlite database file
	DSN              string   `yaml:"dsn"`  // postgres connection string
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// FetchSource names one remote input file.
type FetchSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FetchConfig holds input acquisition settings.
type FetchConfig struct {
	DataDir        string        `yaml:"data_dir"`
	Sources        []FetchSource `yaml:"sources"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
	Retries        int           `yaml:"retries"`
	TimeoutSec     int           `yaml:"timeout_sec"`
}

// ResolveConfig holds identity-resolution settings. A nil Suffixes slice
// means the engine default list; Threshold is validated against [0,1] here
// and again by the engine before any clustering.
type ResolveConfig struct {
	Threshold     float64  `yaml:"threshold"`
	Suffixes      []string `yaml:"suffixes"`
	Lemmatizer    string   `yaml:"lemmatizer"` // english, identity (default: english)
	AccentFolding *bool    `yaml:"accent_folding"`
	Workers       int      `yaml:"workers"`
}

// ExportConfig holds output writer settings.
type ExportConfig struct {
	OutDir  string   `yaml:"out_dir"`
	Formats []string `yaml:"formats"` // csv, json, parquet, xlsx
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ORDERDEX_ENV variable,
// defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ORDERDEX_ENV"); env != "" {
		return env
	}
	return "local"
}

// AccentFoldingEnabled reports the accent_folding setting; on when unset.
func (c *ResolveConfig) AccentFoldingEnabled() bool {
	return c.AccentFolding == nil || *c.AccentFolding
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Path == "" {
		c.Store.Path = "orderdex.db"
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "orderdex:"
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Fetch.DataDir == "" {
		c.Fetch.DataDir = "data"
	}
	if c.Fetch.RequestsPerSec <= 0 {
		c.Fetch.RequestsPerSec = 4
	}
	if c.Fetch.Retries <= 0 {
		c.Fetch.Retries = 3
	}
	if c.Fetch.TimeoutSec <= 0 {
		c.Fetch.TimeoutSec = 300
	}
	if c.Resolve.Threshold == 0 && c.Resolve.Suffixes == nil && c.Resolve.AccentFolding == nil {
		// Untouched resolve section: take the engine's default threshold.
		c.Resolve.Threshold = 0.7
	}
	if c.Resolve.Lemmatizer == "" {
		c.Resolve.Lemmatizer = "english"
	}
	if c.Export.OutDir == "" {
		c.Export.OutDir = "out"
	}
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"csv", "json"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Store.Driver {
	case "redis", "valkey":
		if len(c.Store.Addrs) == 0 {
			return fmt.Errorf("store.addrs is required for driver %q", c.Store.Driver)
		}
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for driver sqlite")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver postgres")
		}
	default:
		return fmt.Errorf("store.driver must be redis, valkey, sqlite or postgres, got %q", c.Store.Driver)
	}
	if c.Resolve.Threshold < 0 || c.Resolve.Threshold > 1 {
		return fmt.Errorf("resolve.threshold must be in [0,1], got %g", c.Resolve.Threshold)
	}
	for _, s := range c.Resolve.Suffixes {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("resolve.suffixes must not contain empty entries")
		}
	}
	switch c.Resolve.Lemmatizer {
	case "english", "identity":
	default:
		return fmt.Errorf("resolve.lemmatizer must be english or identity, got %q", c.Resolve.Lemmatizer)
	}
	if c.Resolve.Workers < 0 {
		return fmt.Errorf("resolve.workers must not be negative, got %d", c.Resolve.Workers)
	}
	for _, f := range c.Export.Formats {
		switch f {
		case "csv", "json", "parquet", "xlsx":
		default:
			return fmt.Errorf("export.formats contains unknown format %q", f)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
