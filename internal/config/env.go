package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DAYBOOK_STORE_BACKEND.
const EnvPrefix = "DAYBOOK"

// ApplyEnv overlays DAYBOOK_* environment variables onto cfg. Variables in
// envFile (usually ".env") are loaded first without replacing ones already
// set; a missing envFile is not an error.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	setString(v, "business_name", &cfg.Business.Name)
	setString(v, "business_currency_symbol", &cfg.Business.CurrencySymbol)
	setString(v, "business_locale", &cfg.Business.Locale)
	setString(v, "business_timezone", &cfg.Business.Timezone)

	setString(v, "store_backend", &cfg.Store.Backend)
	setString(v, "store_database_url", &cfg.Store.DatabaseURL)

	setString(v, "ledger_default_role", &cfg.Ledger.DefaultRole)
	setBool(v, "ledger_require_closing_cash", &cfg.Ledger.RequireClosingCash)
	setBool(v, "ledger_demo_seed", &cfg.Ledger.DemoSeed)
	setList(v, "ledger_accounts", &cfg.Ledger.Accounts)

	setString(v, "server_addr", &cfg.Server.Addr)
	setList(v, "server_allowed_origins", &cfg.Server.AllowedOrigins)
	setString(v, "server_rate_limit", &cfg.Server.RateLimit)
	setBool(v, "server_production", &cfg.Server.Production)

	setString(v, "log_level", &cfg.Log.Level)
	setString(v, "log_format", &cfg.Log.Format)

	setBool(v, "git_auto_commit", &cfg.Git.AutoCommit)
	setString(v, "git_author_name", &cfg.Git.AuthorName)
	setString(v, "git_author_email", &cfg.Git.AuthorEmail)
	return nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

// setList reads a comma-separated value.
func setList(v *viper.Viper, key string, dst *[]string) {
	if !v.IsSet(key) {
		return
	}
	var out []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
