package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"

	SessionSchemaExtended = "extended"
	SessionSchemaLegacy   = "legacy"

	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 256
)

type Config struct {
	DataDir    string `yaml:"-"`
	ConfigPath string `yaml:"-"`
	DBPath     string `yaml:"-"`
	TablesPath string `yaml:"-"`

	SpreadsheetID string        `yaml:"spreadsheet_id"`
	Backend       string        `yaml:"backend"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	CacheSize     int           `yaml:"cache_size"`
	SessionSchema string        `yaml:"session_schema"`
	LogLevel      string        `yaml:"log_level"`

	Tables      Tables      `yaml:"tables"`
	Credentials Credentials `yaml:"credentials"`
}

type Tables struct {
	Requests      string `yaml:"requests"`
	RequestsRange string `yaml:"requests_range"`
	Sessions      string `yaml:"sessions"`
	SessionsRange string `yaml:"sessions_range"`
}

// Credentials lists the files tried, in order, to authenticate against the
// spreadsheet API.
type Credentials struct {
	ServiceAccount string `yaml:"service_account"`
	Token          string `yaml:"token"`
	ClientSecret   string `yaml:"client_secret"`
}

// New builds the configuration rooted at dataDir, applying config.yaml (when
// present) and environment overrides on top of the defaults.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := defaults(dataDir)

	payload, err := os.ReadFile(cfg.ConfigPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", cfg.ConfigPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	cfg.applySchemaDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults(dataDir string) Config {
	return Config{
		DataDir:       dataDir,
		ConfigPath:    filepath.Join(dataDir, "config.yaml"),
		DBPath:        filepath.Join(dataDir, "irctrack.db"),
		TablesPath:    filepath.Join(dataDir, "tables.db"),
		Backend:       BackendSheets,
		CacheTTL:      DefaultCacheTTL,
		CacheSize:     DefaultCacheSize,
		SessionSchema: SessionSchemaExtended,
		LogLevel:      "info",
		Tables: Tables{
			Requests:      "Solicitudes",
			RequestsRange: "A2:X",
			Sessions:      "Sesiones",
			SessionsRange: "A2:N",
		},
		Credentials: Credentials{
			ServiceAccount: "service_account.json",
			Token:          "token.json",
			ClientSecret:   "credentials.json",
		},
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("IRCTRACK_SPREADSHEET_ID")); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := strings.TrimSpace(os.Getenv("IRCTRACK_BACKEND")); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("IRCTRACK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
}

// CredentialPaths returns the credential files resolved against DataDir.
func (c Config) CredentialPaths() Credentials {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.DataDir, p)
	}
	return Credentials{
		ServiceAccount: resolve(c.Credentials.ServiceAccount),
		Token:          resolve(c.Credentials.Token),
		ClientSecret:   resolve(c.Credentials.ClientSecret),
	}
}

func (c *Config) applySchemaDefaults() {
	if c.SessionSchema == SessionSchemaLegacy && c.Tables.SessionsRange == "A2:N" {
		c.Tables.SessionsRange = "A2:J"
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSheets, BackendSQLite:
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	switch c.SessionSchema {
	case SessionSchemaExtended, SessionSchemaLegacy:
	default:
		return fmt.Errorf("unsupported session schema %q", c.SessionSchema)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive")
	}
	if strings.TrimSpace(c.Tables.Requests) == "" || strings.TrimSpace(c.Tables.Sessions) == "" {
		return fmt.Errorf("table names are required")
	}
	return nil
}

// Save writes the persistent subset of the configuration to config.yaml.
func (c Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	payload, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath, payload, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
