// Package app wires the store client, cache and repositories together at
// process startup. RegisterServices and RunAtStartup are each callable
// exactly once, in that order.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpaulosky/blogsite/internal/auth"
	"github.com/mpaulosky/blogsite/internal/cache"
	"github.com/mpaulosky/blogsite/internal/config"
	"github.com/mpaulosky/blogsite/internal/identity"
	"github.com/mpaulosky/blogsite/internal/infrastructure/database"
	"github.com/mpaulosky/blogsite/internal/logger"
	"github.com/mpaulosky/blogsite/internal/repository"
	"github.com/mpaulosky/blogsite/internal/validator"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// App holds the wired application services.
type App struct {
	Config     *config.Config
	Pool       *pgxpool.Pool
	Cache      *cache.Client
	Articles   repository.ArticleRepository
	Categories repository.CategoryRepository
	Identity   *identity.Store
	JWT        *auth.JWTService
	Validator  *validator.Validator
}

// RegisterServices builds the store client and repository implementations.
// Unless disableRetry is set, the initial database connection is retried
// with a fixed backoff; per-call retry never happens anywhere else.
func RegisterServices(ctx context.Context, cfg *config.Config, disableRetry bool) (*App, error) {
	poolCfg := database.PoolConfig{
		ConnString:        cfg.ConnString(),
		MaxConns:          cfg.DBMaxConns,
		MinConns:          cfg.DBMinConns,
		MaxConnLifetime:   cfg.DBMaxConnLifetime,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	}

	attempts := connectAttempts
	if disableRetry {
		attempts = 1
	}

	var (
		pool *pgxpool.Pool
		err  error
	)
	for i := 0; i < attempts; i++ {
		pool, err = database.NewPostgres(ctx, poolCfg)
		if err == nil {
			break
		}
		if i < attempts-1 {
			logger.Warn("Database connection failed, retrying",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
			select {
			case <-time.After(connectBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Pool:       pool,
		Cache:      cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
		Articles:   repository.NewPostgresArticleRepository(pool),
		Categories: repository.NewPostgresCategoryRepository(pool),
		Identity:   identity.NewStore(pool),
		JWT:        auth.NewJWTService(cfg.JWTSecret, cfg.TokenLifetime),
		Validator:  validator.NewValidator(),
	}, nil
}

// NewUserRepository returns a fresh request-scoped user repository. The
// instance caches the resolved principal, so it must not be shared across
// requests.
func (a *App) NewUserRepository() repository.UserRepository {
	return repository.NewPostgresUserRepository(a.Pool)
}

// RunAtStartup executes the role synchronization routine. Any failure is
// fatal to startup; the caller must not serve traffic after an error.
func (a *App) RunAtStartup(ctx context.Context) error {
	return identity.NewSynchronizer(a.Identity).Run(ctx)
}

// Close releases the held clients.
func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
