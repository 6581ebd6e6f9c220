package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/finkeeper/internal/client/auth"
	"github.com/dmitrijs2005/finkeeper/internal/client/config"
	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/finkeeper/internal/client/services"
	"github.com/dmitrijs2005/finkeeper/internal/client/storage"
	"github.com/dmitrijs2005/finkeeper/internal/cryptox"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repo       kv.Repository
	store      *storage.Manager
	auth       *services.AuthManager
	categories *services.CategoryManager
	wallets    *services.WalletManager
	movements  *services.MovementManager
	reader     *bufio.Reader
	out        io.Writer
}

// NewApp opens the configured backend and builds the services on top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repo, err := kv.Open(ctx, kv.Options{
		Backend:       c.Backend,
		SQLitePath:    c.StoragePath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		PostgresDSN:   c.PostgresDSN,
	})
	if err != nil {
		logger.Error(ctx, "error opening storage", "backend", c.Backend, "error", err)
		return nil, err
	}

	hasher, err := cryptox.NewHasher(c.PasswordHasher)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	app := newApp(c, logger, repo, hasher, bufio.NewReader(os.Stdin), os.Stdout)

	strategy, err := newStrategy(ctx, c, app.store, hasher)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	app.auth.SetStrategy(strategy)

	logger.Info(ctx, "finkeeper started", "backend", c.Backend, "strategy", strategy.Name())
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, repo kv.Repository, hasher cryptox.Hasher, reader *bufio.Reader, out io.Writer) *App {
	store := storage.NewManager(storage.NewAdapter(repo, c.Namespace, logger))

	a := &App{
		config:     c,
		logger:     logger,
		repo:       repo,
		store:      store,
		categories: services.NewCategoryManager(store, logger),
		wallets:    services.NewWalletManager(store, logger),
		movements:  services.NewMovementManager(store, logger),
		reader:     reader,
		out:        out,
	}
	a.auth = services.NewAuthManager(store,
		services.WithHasher(hasher),
		services.WithLogger(logger),
		services.WithSessionTTL(c.SessionTTL),
		services.WithRegistrationHook(a.seedUser),
	)
	return a
}

func newStrategy(ctx context.Context, c *config.Config, store *storage.Manager, hasher cryptox.Hasher) (auth.Strategy, error) {
	switch c.AuthStrategy {
	case config.StrategyEmailPassword:
		return auth.NewEmailPassword(store, hasher), nil
	case config.StrategyTwoFactor:
		return auth.NewTwoFactor(store, hasher), nil
	case config.StrategyGoogle:
		verifier, err := auth.NewIDTokenVerifier(ctx, c.GoogleClientID)
		if err != nil {
			return nil, fmt.Errorf("error creating google token verifier: %w", err)
		}
		return auth.NewGoogle(store, verifier), nil
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", c.AuthStrategy)
	}
}

// seedUser gives a new user the starter categories and wallets.
func (a *App) seedUser(ctx context.Context, u *models.User) error {
	if _, err := a.categories.CreateDefaultCategories(ctx, u.ID); err != nil {
		return err
	}
	_, err := a.wallets.CreateDefaultWallets(ctx, u.ID)
	return err
}

// Run starts the REPL and releases the backend when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if err := a.repo.Close(); err != nil {
		a.logger.Warn(context.Background(), "error closing storage", "error", err)
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.IsAuthenticated(ctx)
}

// currentUser returns the logged-in user, or errNotLoggedIn.
func (a *App) currentUser(ctx context.Context) (*models.User, error) {
	u := a.auth.CurrentUser(ctx)
	if u == nil {
		return nil, errNotLoggedIn
	}
	return u, nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
