package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mathswe/cookie-consent/internal/config"
	"github.com/mathswe/cookie-consent/internal/geo"
	"github.com/mathswe/cookie-consent/internal/httpserver"
	"github.com/mathswe/cookie-consent/internal/httpserver/deps"
	"github.com/mathswe/cookie-consent/internal/logger"
	"github.com/mathswe/cookie-consent/internal/metrics"
	"github.com/mathswe/cookie-consent/internal/redis"
	pgstore "github.com/mathswe/cookie-consent/internal/store/postgres"
	redisstore "github.com/mathswe/cookie-consent/internal/store/redis"
	"github.com/mathswe/cookie-consent/internal/version"
)

// postgresStartupTimeout bounds the initial ping and schema creation.
const postgresStartupTimeout = 30 * time.Second

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	closeStore func() error
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Connect the store early - fail fast if unavailable
	store, closeStore, err := openStore(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s store: %v", cfg.Store, err)
		os.Exit(1)
	}
	loggerClient.Info("consent store initialized", logger.String("backend", cfg.Store))

	if cfg.LocalMode {
		loggerClient.Warn("⚠️ local mode: requests without an approved Origin are accepted")
	}

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		LocalMode:    cfg.LocalMode,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Store:        store,
		StoreBackend: cfg.Store,
		Geo:          geo.NewHeaderResolver(loggerClient),
		Metrics:      metrics.New(cfg.MetricsNamespace),
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     server,
		closeStore: closeStore,
	}
}

// openStore connects the configured backend and returns it with its closer.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (deps.ConsentStore, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		ctx, cancel := context.WithTimeout(ctx, postgresStartupTimeout)
		defer cancel()

		store, err := pgstore.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("postgres unavailable: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, func() error { store.Close(); return nil }, nil

	default:
		client, err := redis.New(ctx, redis.ConnectOptions{
			URL:            cfg.RedisURL,
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client), client.Close, nil
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting cookie-consent v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.shutdownStore()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.shutdownStore()

	a.logger.Info("✅ cookie-consent stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func (a *App) shutdownStore() {
	if a.closeStore == nil {
		return
	}
	if err := a.closeStore(); err != nil {
		a.logger.Warnf("failed to close %s store: %v", a.cfg.Store, err)
		return
	}
	a.logger.Info("✅ consent store closed cleanly", logger.String("backend", a.cfg.Store))
}
