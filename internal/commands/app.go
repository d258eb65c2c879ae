package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/daybook/internal/accounts"
	"github.com/cleared-dev/daybook/internal/audit"
	"github.com/cleared-dev/daybook/internal/config"
	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/gitops"
	"github.com/cleared-dev/daybook/internal/logging"
	"github.com/cleared-dev/daybook/internal/model"
	"github.com/cleared-dev/daybook/internal/money"
	"github.com/cleared-dev/daybook/internal/seed"
	"github.com/cleared-dev/daybook/internal/store/filestore"
	"github.com/cleared-dev/daybook/internal/store/memstore"
	"github.com/cleared-dev/daybook/internal/store/pgstore"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	repo string
	role string
}

// app is everything a command needs, built from the repo's daybook.yaml.
type app struct {
	root     string
	cfg      *config.Config
	logger   *slog.Logger
	store    daybook.Store
	files    *filestore.Store // nil unless the file backend is in use
	accounts *accounts.Service
	svc      *daybook.Service
	money    money.Formatter
	out      io.Writer
	closers  []func()
}

type setupOption func(*setupOptions)

type setupOptions struct {
	seed    bool
	backend string
}

// withDemoSeed fills never-stored dates with the demo day regardless of config.
func withDemoSeed() setupOption {
	return func(o *setupOptions) { o.seed = true }
}

// withBackend overrides the configured store backend.
func withBackend(backend string) setupOption {
	return func(o *setupOptions) { o.backend = backend }
}

// newApp loads configuration and wires the ledger for one command run.
// Callers must call close when done.
func newApp(cmd *cobra.Command, g *globalFlags, opts ...setupOption) (*app, error) {
	var o setupOptions
	for _, opt := range opts {
		opt(&o)
	}

	root, err := filepath.Abs(g.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%s not found in %s; run 'daybook init' first", config.FileName, root)
	}
	if err := config.ApplyEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if g.role != "" {
		cfg.Ledger.DefaultRole = g.role
	}
	if o.backend != "" {
		cfg.Store.Backend = o.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	formatter, err := money.NewFormatter(cfg.Business.CurrencySymbol, cfg.Business.Locale)
	if err != nil {
		return nil, err
	}
	accts, err := accounts.FromNames(cfg.Ledger.Accounts)
	if err != nil {
		return nil, err
	}

	a := &app{
		root:     root,
		cfg:      cfg,
		logger:   logger,
		accounts: accts,
		money:    formatter,
		out:      cmd.OutOrStdout(),
	}
	if err := a.openStore(cmd.Context()); err != nil {
		return nil, err
	}

	loc := cfg.Location()
	svcOpts := []daybook.Option{
		daybook.WithClock(func() time.Time { return time.Now().In(loc) }),
		daybook.WithLogger(logger),
		daybook.WithRecorder(audit.NewFileRecorder(root)),
		daybook.WithAccounts(accts),
		daybook.WithRequireClosingCash(cfg.Ledger.RequireClosingCash),
	}
	if o.seed || cfg.Ledger.DemoSeed {
		svcOpts = append(svcOpts, daybook.WithSeeder(seed.Seeder(loc)))
	}
	a.svc = daybook.NewService(a.store, daybook.ContextRoles{Fallback: cfg.DefaultRole()}, svcOpts...)
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store.Backend {
	case config.BackendMemory:
		a.store = memstore.New()
	case config.BackendPostgres:
		if err := pgstore.Migrate(a.cfg.Store.DatabaseURL, a.logger); err != nil {
			return err
		}
		pool, err := pgstore.Connect(ctx, a.cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)
		a.store = pgstore.New(pool)
	default:
		a.files = filestore.New(a.root)
		a.store = a.files
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// commitDay records a day's files in git when the repo is file-backed and
// auto-commit is on. Failures are reported but do not undo the change.
func (a *app) commitDay(action, date string) {
	if a.files == nil || !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.root) {
		return
	}
	c := gitops.Committer{Dir: a.root, AuthorName: a.cfg.Git.AuthorName, AuthorEmail: a.cfg.Git.AuthorEmail}
	hash, err := c.CommitDay(action, date, a.files.DayDir(date))
	if err != nil {
		a.logger.Warn("git commit failed", slog.String("date", date), slog.String("error", err.Error()))
		return
	}
	if hash != "" {
		a.logger.Debug("committed day", slog.String("date", date), slog.String("commit", hash))
	}
}

// resolveDate accepts an ISO date or "today" in the business timezone.
func (a *app) resolveDate(arg string) (string, error) {
	if strings.EqualFold(arg, "today") {
		return time.Now().In(a.cfg.Location()).Format(model.DateLayout), nil
	}
	return model.ParseDate(arg)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
