package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/auth-service/internal/auth/service"
	"github.com/AlibekovAA/auth-service/internal/common/clock"
	"github.com/AlibekovAA/auth-service/internal/common/config"
	"github.com/AlibekovAA/auth-service/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/auth-service/internal/common/crypto"
	"github.com/AlibekovAA/auth-service/internal/common/db"
	"github.com/AlibekovAA/auth-service/internal/common/logger"
	userrepo "github.com/AlibekovAA/auth-service/internal/user/repository"
)

type AuthApp struct {
	Log      *logger.Logger
	Config   config.AuthConfig
	Pool     *pgxpool.Pool
	Sessions *db.SessionManager
	Users    userrepo.Provider
	Auth     *service.AuthService
}

// NewAuthApp loads configuration, connects to the database, applies
// migrations when enabled and assembles the auth service. Background work
// started here stops when ctx is cancelled.
func NewAuthApp(ctx context.Context) (*AuthApp, error) {
	cfg, err := config.LoadAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := initializeLogger(cfg, constants.LoggerServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.MigrateOnStart {
		migrateCtx, cancel := context.WithTimeout(ctx, constants.DBMigrationTimeout)
		err := db.RunMigrations(migrateCtx, log, cfg.DatabaseURL)
		cancel()
		if err != nil {
			_ = log.Close()
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	sessions := db.NewSessionManager(pool)

	authService, err := service.NewAuthService(service.AuthServiceDeps{
		Hasher:      commoncrypto.NewBcryptHasher(cfg.BcryptCost),
		IDGenerator: commoncrypto.NewUUIDGenerator(),
		Clock:       clock.NewRealClock(),
		Log:         log,
	}, cfg.Token)
	if err != nil {
		pool.Close()
		_ = log.Close()
		return nil, err
	}

	return &AuthApp{
		Log:      log,
		Config:   cfg,
		Pool:     pool,
		Sessions: sessions,
		Users:    userrepo.NewSessionProvider(sessions),
		Auth:     authService,
	}, nil
}

func (a *AuthApp) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	_ = a.Log.Close()
}

func initializeLogger(cfg config.AuthConfig, serviceName string) (*logger.Logger, error) {
	return logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
}
