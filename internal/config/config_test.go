package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/daybook/internal/apperrors"
	"github.com/cleared-dev/daybook/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Sharma Electronics")
	cfg.Store.Backend = BackendPostgres
	cfg.Store.DatabaseURL = "postgres://localhost/daybook"
	cfg.Ledger.Accounts = []string{"cash", "upi"}
	cfg.Ledger.RequireClosingCash = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Shop")

	assert.Equal(t, "My Shop", cfg.Business.Name)
	assert.Equal(t, "₹", cfg.Business.CurrencySymbol)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, model.RoleUser, cfg.DefaultRole())
	assert.False(t, cfg.Ledger.RequireClosingCash)
	assert.False(t, cfg.Ledger.DemoSeed)
	assert.Empty(t, cfg.Ledger.Accounts)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	require.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Corner Shop\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", cfg.Business.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Shop")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Shop")
	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "default_role: user")
	assert.Contains(t, contents, "auto_commit: true")
	assert.NotContains(t, contents, "database_url")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"backend", func(c *Config) { c.Store.Backend = "sqlite" }, "store.backend"},
		{"postgres url", func(c *Config) { c.Store.Backend = BackendPostgres }, "store.database_url"},
		{"role", func(c *Config) { c.Ledger.DefaultRole = "cashier" }, "ledger.default_role"},
		{"accounts", func(c *Config) { c.Ledger.Accounts = []string{"cash", "cheque"} }, "ledger.accounts"},
		{"rate limit", func(c *Config) { c.Server.RateLimit = "lots" }, "server.rate_limit"},
		{"origin without scheme", func(c *Config) { c.Server.AllowedOrigins = []string{"localhost:3000"} }, "server.allowed_origins"},
		{"origin scheme", func(c *Config) { c.Server.AllowedOrigins = []string{"ftp://shop.example"} }, "server.allowed_origins"},
		{"origin path", func(c *Config) { c.Server.AllowedOrigins = []string{"https://shop.example/"} }, "server.allowed_origins"},
		{"origin wildcard", func(c *Config) { c.Server.AllowedOrigins = []string{"https://*.shop.example"} }, "server.allowed_origins"},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"timezone", func(c *Config) { c.Business.Timezone = "Mars/Olympus" }, "business.timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("x")
			tt.edit(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, apperrors.ErrValidation)

			var verrs apperrors.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidate_AllowedOrigins(t *testing.T) {
	cfg := Default("x")
	cfg.Server.AllowedOrigins = []string{"*", "http://localhost:3000", "https://shop.example"}
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DAYBOOK_STORE_BACKEND", "memory")
	t.Setenv("DAYBOOK_LEDGER_REQUIRE_CLOSING_CASH", "true")
	t.Setenv("DAYBOOK_LEDGER_ACCOUNTS", "cash, upi")
	t.Setenv("DAYBOOK_SERVER_ADDR", ":9090")

	cfg := Default("x")
	require.NoError(t, ApplyEnv(cfg, ""))

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.True(t, cfg.Ledger.RequireClosingCash)
	assert.Equal(t, []string{"cash", "upi"}, cfg.Ledger.Accounts)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level, "unset variables leave values alone")
}

func TestApplyEnv_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DAYBOOK_LOG_FORMAT=text\nDAYBOOK_GIT_AUTO_COMMIT=false\n"), 0o644))
	t.Setenv("DAYBOOK_LOG_FORMAT", "json")
	// godotenv.Load sets variables process-wide; clear the one this test adds.
	t.Cleanup(func() { os.Unsetenv("DAYBOOK_GIT_AUTO_COMMIT") })

	cfg := Default("x")
	require.NoError(t, ApplyEnv(cfg, envFile))

	assert.Equal(t, "json", cfg.Log.Format, "real environment wins over .env")
	assert.False(t, cfg.Git.AutoCommit)
}

func TestApplyEnv_MissingDotEnv(t *testing.T) {
	cfg := Default("x")
	assert.NoError(t, ApplyEnv(cfg, filepath.Join(t.TempDir(), ".env")))
}
