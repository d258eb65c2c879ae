package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ulule/limiter/v3"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/daybook/internal/apperrors"
	"github.com/cleared-dev/daybook/internal/model"
)

// FileName is the config file at the repository root.
const FileName = "daybook.yaml"

// Store backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config represents the top-level daybook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Store    StoreConfig    `yaml:"store"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the shop and how its money is shown.
type BusinessConfig struct {
	Name           string `yaml:"name"`
	CurrencySymbol string `yaml:"currency_symbol"`
	Locale         string `yaml:"locale"` // BCP 47, e.g. "en-IN"
	Timezone       string `yaml:"timezone"`
}

// StoreConfig selects where day records live.
type StoreConfig struct {
	Backend     string `yaml:"backend"`
	DatabaseURL string `yaml:"database_url,omitempty"`
}

// LedgerConfig controls daybook rules.
type LedgerConfig struct {
	DefaultRole        string   `yaml:"default_role"`
	RequireClosingCash bool     `yaml:"require_closing_cash"`
	DemoSeed           bool     `yaml:"demo_seed"`
	Accounts           []string `yaml:"accounts,omitempty"` // empty enables all
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	RateLimit      string   `yaml:"rate_limit"` // limiter format, e.g. "120-M"
	Production     bool     `yaml:"production"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a daybook.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new shop.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:           businessName,
			CurrencySymbol: "₹",
			Locale:         "en-IN",
			Timezone:       "Asia/Kolkata",
		},
		Store: StoreConfig{
			Backend: BackendFile,
		},
		Ledger: LedgerConfig{
			DefaultRole: string(model.RoleUser),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			RateLimit:      "120-M",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Daybook",
			AuthorEmail: "daybook@localhost",
		},
	}
}

// Validate checks every field that other packages parse later.
func (c *Config) Validate() error {
	var errs apperrors.ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, apperrors.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		add("business.timezone", "unknown timezone %q", c.Business.Timezone)
	}

	switch c.Store.Backend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			add("store.database_url", "is required for the postgres backend")
		}
	default:
		add("store.backend", "must be one of file, memory, postgres; got %q", c.Store.Backend)
	}

	if _, err := model.ParseRole(c.Ledger.DefaultRole); err != nil {
		add("ledger.default_role", "%v", err)
	}
	for _, a := range c.Ledger.Accounts {
		if _, err := model.ParsePaymentAccount(a); err != nil {
			add("ledger.accounts", "%v", err)
		}
	}

	for _, origin := range c.Server.AllowedOrigins {
		if !validOrigin(origin) {
			add("server.allowed_origins", "%q must be * or an http(s) origin such as https://shop.example", origin)
		}
	}
	if c.Server.RateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.Server.RateLimit); err != nil {
			add("server.rate_limit", "%v", err)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", "must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		add("log.format", "must be json or text; got %q", c.Log.Format)
	}

	return errs.OrNil()
}

func validOrigin(origin string) bool {
	if origin == "*" {
		return true
	}
	if strings.Contains(origin, "*") {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path == "" && u.RawQuery == ""
}

// Location returns the business timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Business.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultRole returns the role used when a caller names none.
func (c *Config) DefaultRole() model.Role {
	r, err := model.ParseRole(c.Ledger.DefaultRole)
	if err != nil {
		return model.RoleUser
	}
	return r
}
